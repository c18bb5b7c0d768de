// This file is part of Thumbcore.
//
// Thumbcore is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Thumbcore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Thumbcore.  If not, see <https://www.gnu.org/licenses/>.

// Package thumbm is a cycle-unaware, instruction-accurate emulator of the
// ARM Thumb instruction set across the ARMv6-M, ARMv7-M, ARMv7E-M and
// ARMv8-M (Thumb-only) profiles. Processor is the library's single
// embedding point: a host maps memory and peripherals into it, sets the
// initial register state (or calls Reset to load it from the vector
// table), and drives execution with Step or Run.
package thumbm

import (
	"github.com/markspec/thumbcore/armerr"
	"github.com/markspec/thumbcore/config"
	"github.com/markspec/thumbcore/cpu"
	"github.com/markspec/thumbcore/decode"
	"github.com/markspec/thumbcore/exec"
	"github.com/markspec/thumbcore/logger"
	"github.com/markspec/thumbcore/memory"
	"github.com/markspec/thumbcore/scs"
)

// Hook is a host callback invoked immediately before the instruction at PC
// executes. Returning true from a hook halts the run loop after the hook
// returns (the instruction at PC does not execute this call).
type Hook func(p *Processor) (halt bool)

// HaltReason names why Run stopped.
type HaltReason int

const (
	HaltNone HaltReason = iota
	HaltHook
	HaltGasExhausted
	HaltWFI
	HaltBreakpoint
	HaltError
)

func (r HaltReason) String() string {
	switch r {
	case HaltHook:
		return "hook"
	case HaltGasExhausted:
		return "gas exhausted"
	case HaltWFI:
		return "wfi"
	case HaltBreakpoint:
		return "breakpoint"
	case HaltError:
		return "error"
	}
	return "none"
}

// RunOptions bounds a call to Run.
type RunOptions struct {
	// MaxInstructions caps how many instructions Run executes before
	// returning with HaltGasExhausted. Zero means unbounded.
	MaxInstructions uint64
}

// RunResult reports how a Run call ended.
type RunResult struct {
	Reason       HaltReason
	Instructions uint64
	Err          error
}

// Processor bundles the register file, address space and System Control
// Space into one steppable unit. The zero value is not usable; construct
// with NewProcessor.
type Processor struct {
	profile config.Profile
	state   *cpu.State
	mem     *memory.Space
	scs     *scs.SCS

	hooks map[uint32][]Hook

	wfi bool
}

// NewProcessor returns a Processor configured for profile, with its
// address space empty except for the System Control Space, which every
// Cortex-M core maps unconditionally at 0xE000E000.
func NewProcessor(profile config.Profile) *Processor {
	p := &Processor{
		profile: profile,
		state:   cpu.NewState(),
		mem:     memory.NewSpace(),
		scs:     scs.New(profile),
		hooks:   make(map[uint32][]Hook),
	}
	if err := p.mem.MapPeripheral(scs.Base, scs.Length, p.scs); err != nil {
		// the SCS is the first region ever mapped into a fresh Space, so
		// this can only fail if NewSpace's invariants change underneath us.
		panic(err)
	}
	return p
}

// Map installs a writable RAM region.
func (p *Processor) Map(base uint32, initial []byte) error { return p.mem.Map(base, initial) }

// MapROM installs a read-only region.
func (p *Processor) MapROM(base uint32, initial []byte) error { return p.mem.MapROM(base, initial) }

// MapPeripheral installs a custom peripheral.
func (p *Processor) MapPeripheral(base, length uint32, periph memory.Peripheral) error {
	return p.mem.MapPeripheral(base, length, periph)
}

// SCS returns the System Control Space, for hosts that want to poke SysTick
// or NVIC registers directly instead of through memory-mapped writes.
func (p *Processor) SCS() *scs.SCS { return p.scs }

// Reset loads SP and PC from the vector table at VTOR (0 until SCB.VTOR is
// written), per spec section 6's reset sequence.
func (p *Processor) Reset() error {
	vtor := p.scs.VTOR()
	sp, err := p.mem.Read(vtor+0, 4)
	if err != nil {
		return err
	}
	pc, err := p.mem.Read(vtor+4, 4)
	if err != nil {
		return err
	}
	p.state.Reset(sp, pc)
	return nil
}

// SetPC and SetSP let a host set up initial state without going through
// Reset's vector-table load, useful for unit-testing a single function in
// isolation.
func (p *Processor) SetPC(addr uint32) { p.state.SetPC(addr) }
func (p *Processor) SetSP(addr uint32) { p.state.SetSP(addr) }

// ReadReg and WriteReg expose the general-purpose register file (r0-r15,
// using cpu.R0..cpu.R15) directly to the host.
func (p *Processor) ReadReg(n uint8) uint32      { return p.state.ReadReg(n) }
func (p *Processor) WriteReg(n uint8, v uint32)  { p.state.WriteReg(n, v) }

// State returns the underlying register file for hosts (and armtest) that
// need lower-level access than the Processor's curated surface, e.g. to
// read CPU flags directly.
func (p *Processor) State() *cpu.State { return p.state }

// Memory returns the underlying address space.
func (p *Processor) Memory() *memory.Space { return p.mem }

// AddHook registers a callback to run immediately before the instruction
// at addr executes.
func (p *Processor) AddHook(addr uint32, h Hook) {
	p.hooks[addr] = append(p.hooks[addr], h)
}

// RemoveHooks clears every hook registered at addr.
func (p *Processor) RemoveHooks(addr uint32) {
	delete(p.hooks, addr)
}

// SetPending requests the named exception number, the same way a
// peripheral's interrupt line or a memory-mapped NVIC/SCB write would.
func (p *Processor) SetPending(excNum uint16) {
	p.scs.SetPending(excNum)
}

// Step executes exactly one instruction (or services exactly one pending
// exception entry/return if one is due), per spec section 4.8's algorithm:
//
//  1. check for a pending, enabled exception at higher priority than
//     whatever is currently active and, if found, enter it instead of
//     fetching;
//  2. otherwise fetch the halfword at PC;
//  3. decode it (fetching a second halfword first if it opens a 32-bit
//     encoding);
//  4. resolve conditional execution (IT block or B<c>'s own condition);
//  5. execute, advance the IT state machine, and advance PC unless the
//     instruction branched;
//  6. tick every mapped peripheral once.
func (p *Processor) Step() (haltRequested bool, err error) {
	if excNum, ok := p.scs.PendingException(p.state.PRIMASK(), p.state.FAULTMASK()); ok {
		if p.shouldPreempt(excNum) {
			p.wfi = false
			return false, p.enterException(excNum)
		}
	}
	if p.wfi {
		p.mem.Tick(1)
		return false, nil
	}

	addr := p.state.PC()
	for _, h := range p.hooks[addr] {
		if h(p) {
			haltRequested = true
		}
	}
	if haltRequested {
		return true, nil
	}

	hw1, err := p.mem.ReadHalfwordForFetch(addr)
	if err != nil {
		return false, p.fault(err)
	}

	var hw2 uint16
	if is32BitOpener(hw1) {
		hw2, err = p.mem.ReadHalfwordForFetch(addr + 2)
		if err != nil {
			return false, p.fault(err)
		}
	}

	p.state.SetPipelineOffset(4)
	in, err := decode.Decode(hw1, hw2, addr, p.profile)
	p.state.SetPipelineOffset(0)
	if err != nil {
		return false, p.fault(err)
	}

	status := p.state.Status()
	effCond := status.CurrentCond(in.Cond)
	shouldExecute := cpu.CondPassed(effCond, status) || in.Family == decode.FamIT

	if shouldExecute {
		p.state.SetPipelineOffset(4)
		err = exec.Execute(in, p.state, p.mem)
		p.state.SetPipelineOffset(0)
		if err != nil {
			return false, p.fault(err)
		}
		if in.Family == decode.FamSVC {
			p.scs.SetPending(scs.ExcSVCall)
		}
		if in.Family == decode.FamHint && (in.Mnemonic == "wfi" || in.Mnemonic == "wfe") {
			p.wfi = true
		}
		if isExcReturn(p.state.PC()) {
			if err := p.exceptionReturn(p.state.PC()); err != nil {
				return false, p.fault(err)
			}
		}
	}

	if in.Family != decode.FamIT {
		status = p.state.Status()
		status.AdvanceIT()
		p.state.SetStatus(status)
	}

	if p.state.PC() == addr {
		p.state.SetPC(addr + uint32(in.SizeBytes))
	}

	p.mem.Tick(1)
	return false, nil
}

func is32BitOpener(hw1 uint16) bool {
	top5 := hw1 >> 11
	return top5 == 0b11101 || top5 == 0b11110 || top5 == 0b11111
}

// fault pends and enters HardFault for an execution-time error. armerr
// errors are CoreError values, not pointers, so the *armerr.CoreError
// assertion below does not match and excNum keeps its HardFault default
// for every cause; no UsageFault, BusFault or MemManage entry is made, and
// no check is made for a fault raised while already at the highest
// priority.
func (p *Processor) fault(cause error) error {
	excNum := uint16(scs.ExcHardFault)
	if ce, ok := cause.(*armerr.CoreError); ok {
		switch ce.Errno {
		case armerr.UsageFault, armerr.UndefinedInstruction, armerr.InvalidRegister:
			excNum = scs.ExcUsageFault
		case armerr.BusFault, armerr.Unmapped, armerr.WriteToRom:
			excNum = scs.ExcBusFault
		case armerr.MemManageFault:
			excNum = scs.ExcMemManage
		}
	}
	logger.Logf(logger.Allow, "thumbm", "fault %v, entering exception %d", cause, excNum)
	p.scs.SetPending(excNum)
	return p.enterException(excNum)
}

// Run steps the processor until MaxInstructions is reached, a hook
// requests a halt, or an unrecoverable error occurs.
func (p *Processor) Run(opts RunOptions) RunResult {
	var n uint64
	for opts.MaxInstructions == 0 || n < opts.MaxInstructions {
		halted, err := p.Step()
		if err != nil {
			return RunResult{Reason: HaltError, Instructions: n, Err: err}
		}
		if halted {
			return RunResult{Reason: HaltHook, Instructions: n}
		}
		n++
	}
	return RunResult{Reason: HaltGasExhausted, Instructions: n}
}
