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

// Package cpu models the architectural register file: r0-r12, the banked
// stack pointers, lr, pc, the packed xPSR (APSR/IPSR/EPSR), PRIMASK,
// FAULTMASK, BASEPRI, CONTROL and the IT-block state. It is a pure data
// model; the exec package and the root package's driver and exception
// engine are the only things that mutate it on the processor's behalf,
// aside from the host's direct register pokes. The decoder never touches
// it.
package cpu

import "github.com/markspec/thumbcore/armerr"

// register indices, named per the ARM ARM's general purpose register
// numbering. r13/r14/r15 are also reachable as SP/LR/PC through the named
// accessors below.
const (
	R0 = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	R11
	R12
	R13 // SP
	R14 // LR
	R15 // PC
	NumRegisters
)

// Mode is the processor's execution mode.
type Mode int

const (
	Thread Mode = iota
	Handler
)

func (m Mode) String() string {
	if m == Handler {
		return "Handler"
	}
	return "Thread"
}

// State is the complete architectural register file.
type State struct {
	r [13]uint32

	spMain    uint32
	spProcess uint32
	lr        uint32
	pc        uint32

	status Status

	primask  bool
	faultmask bool
	basepri  uint8
	control  Control

	mode Mode

	// readPCOffset is added to the value observed by ReadPC while an
	// instruction is executing, per the "current PC+4" pipeline rule. The
	// execution driver sets this for the duration of one Execute call and
	// clears it afterwards.
	readPCOffset uint32

	// exclusiveMonitor models the single-core local exclusive monitor that
	// backs LDREX/STREX/CLREX: set by LDREX, consulted and cleared by
	// STREX, cleared unconditionally by CLREX. This core has no other
	// bus master, so the "exclusive access passed" global monitor the ARM
	// ARM also describes collapses into this one flag.
	exclusiveMonitor bool
}

// Control holds the three defined CONTROL register bits.
type Control struct {
	NPriv bool
	SPSel bool
	FPCA  bool
}

// NewState returns a State with all registers zeroed and Thread mode
// selected, matching the architectural reset values other than SP/PC/LR
// which the host sets explicitly via Reset.
func NewState() *State {
	return &State{mode: Thread}
}

// Reset loads the banked main stack pointer and program counter from the
// vector table, as spec section 6 describes: SP = *(VTOR+0), PC =
// *(VTOR+4) & ~1.
func (s *State) Reset(initialSP, resetPC uint32) {
	*s = State{mode: Thread}
	s.spMain = initialSP & ^uint32(0b11)
	s.pc = resetPC & ^uint32(1)
}

// activeSP returns a pointer to the currently selected stack pointer bank.
func (s *State) activeSP() *uint32 {
	if s.mode == Handler || !s.control.SPSel {
		return &s.spMain
	}
	return &s.spProcess
}

// ReadReg reads register n (0-15) as it would be observed by an executing
// instruction: r15 reads as the current instruction's address + 4.
func (s *State) ReadReg(n uint8) uint32 {
	switch {
	case n < 13:
		return s.r[n]
	case n == R13:
		return *s.activeSP()
	case n == R14:
		return s.lr
	case n == R15:
		return s.pc + s.readPCOffset
	}
	panic("register index out of range")
}

// WriteReg writes register n. Writes to SP force bits[1:0] to zero. Writes
// to PC are not interworking branches by themselves; callers that need
// interworking semantics (BX/POP/LDR pc) must call WriteRegInterworking.
func (s *State) WriteReg(n uint8, v uint32) {
	switch {
	case n < 13:
		s.r[n] = v
	case n == R13:
		*s.activeSP() = v & ^uint32(0b11)
	case n == R14:
		s.lr = v
	case n == R15:
		s.pc = v & ^uint32(1)
	default:
		panic("register index out of range")
	}
}

// WriteRegInterworking writes to a register that has been identified as an
// interworking branch target (BX, POP{pc}, LDR pc, ALU ops with Rd==pc in
// Thumb). Bit 0 of the value selects the instruction set; since this core
// only implements Thumb, bit 0 must be 1 and is cleared before the value is
// used as the new PC. Returns a UsageFault if bit 0 is clear.
func (s *State) WriteRegInterworking(v uint32) error {
	if v&1 == 0 {
		return armerr.New(armerr.UsageFault, "attempt to branch to ARM state (bit 0 clear)")
	}
	s.pc = v & ^uint32(1)
	return nil
}

// PC returns the raw program counter (bit 0 always clear), i.e. the address
// of the instruction about to be fetched, not the PC-read value.
func (s *State) PC() uint32 { return s.pc }

// SetPC sets the program counter directly, used by the host before Run.
func (s *State) SetPC(addr uint32) { s.pc = addr & ^uint32(1) }

// SetSP sets the currently active stack pointer, used by the host before Run.
func (s *State) SetSP(addr uint32) { *s.activeSP() = addr & ^uint32(0b11) }

// SPMain and SPProcess give direct access to both stack-pointer banks,
// independent of which one is currently active - needed by the exception
// engine, which must stack to one bank and later switch to the other.
func (s *State) SPMain() uint32       { return s.spMain }
func (s *State) SetSPMain(v uint32)   { s.spMain = v & ^uint32(0b11) }
func (s *State) SPProcess() uint32    { return s.spProcess }
func (s *State) SetSPProcess(v uint32) { s.spProcess = v & ^uint32(0b11) }

// LR/SetLR give raw access to the link register, including EXC_RETURN
// tokens while a handler is executing.
func (s *State) LR() uint32     { return s.lr }
func (s *State) SetLR(v uint32) { s.lr = v }

// Mode returns the current processor mode.
func (s *State) Mode() Mode { return s.mode }

// SetMode is used only by the exception engine's entry/return sequence.
func (s *State) SetMode(m Mode) { s.mode = m }

// Control returns a copy of the CONTROL register bits.
func (s *State) Control() Control { return s.control }

// SetControl sets the CONTROL register bits. SPSel is architecturally
// ignored in Handler mode (MSP is always used there) but is still stored so
// that it takes effect immediately on return to Thread mode.
func (s *State) SetControl(c Control) { s.control = c }

func (s *State) PRIMASK() bool      { return s.primask }
func (s *State) SetPRIMASK(v bool)  { s.primask = v }
func (s *State) FAULTMASK() bool    { return s.faultmask }
func (s *State) SetFAULTMASK(v bool) { s.faultmask = v }
func (s *State) BASEPRI() uint8     { return s.basepri }
func (s *State) SetBASEPRI(v uint8) { s.basepri = v }

// Status returns a copy of the packed status flags (APSR+IT state).
func (s *State) Status() Status { return s.status }

// SetStatus replaces the packed status flags wholesale, used by exception
// return to restore a popped xPSR.
func (s *State) SetStatus(st Status) { s.status = st }

// SetPipelineOffset is called by the execution driver around each Execute
// call so that ReadReg(R15) observes PC+4 regardless of instruction size.
func (s *State) SetPipelineOffset(v uint32) { s.readPCOffset = v }

// ExclusiveMonitor and SetExclusiveMonitor back the LDREX/STREX/CLREX
// family's local monitor state.
func (s *State) ExclusiveMonitor() bool        { return s.exclusiveMonitor }
func (s *State) SetExclusiveMonitor(v bool)    { s.exclusiveMonitor = v }
