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

// Package scs implements the fixed System Control Space every Cortex-M
// core exposes at 0xE000E000: SysTick, NVIC, and the System Control Block
// (ICSR/VTOR/AIRCR/SHCSR/CPUID). It satisfies memory.Peripheral and is
// mapped unconditionally by thumbm.NewProcessor, the way the teacher's ARM
// coprocessor maps its MAM/timer registers unconditionally at reset.
package scs

import (
	"github.com/markspec/thumbcore/armerr"
	"github.com/markspec/thumbcore/config"
)

// Base is the fixed address Cortex-M parts map the SCS at.
const Base = 0xE000E000

// Region-relative offsets of the blocks this package implements.
const (
	sysTickBase = 0x010
	sysTickEnd  = 0x020
	nvicBase    = 0x100
	nvicEnd     = 0x7f0
	scbBase     = 0xd00
	scbEnd      = 0xd90
	Length      = 0xf00
)

// Exception numbers, per the ARMv7-M exception model (spec section 4).
const (
	ExcReset       = 1
	ExcNMI         = 2
	ExcHardFault   = 3
	ExcMemManage   = 4
	ExcBusFault    = 5
	ExcUsageFault  = 6
	ExcSVCall      = 11
	ExcDebugMonitor = 12
	ExcPendSV     = 14
	ExcSysTick    = 15
	ExcExternal0  = 16
)

// SCS bundles the three sub-blocks and dispatches memory-mapped accesses
// to whichever one owns the offset.
type SCS struct {
	profile config.Profile

	SysTick *SysTick
	NVIC    *NVIC
	SCB     *SCB
}

// New returns an SCS configured for the given profile's interrupt line
// count.
func New(profile config.Profile) *SCS {
	return &SCS{
		profile: profile,
		SysTick: newSysTick(),
		NVIC:    newNVIC(profile.NumInterrupts),
		SCB:     newSCB(),
	}
}

func (s *SCS) Read(offset uint32, width uint8) (uint32, error) {
	switch {
	case offset >= sysTickBase && offset < sysTickEnd:
		return s.SysTick.read(offset - sysTickBase)
	case offset >= nvicBase && offset < nvicEnd:
		return s.NVIC.read(offset - nvicBase)
	case offset >= scbBase && offset < scbEnd:
		return s.SCB.read(offset - scbBase)
	}
	return 0, armerr.New(armerr.Unmapped, Base+offset)
}

func (s *SCS) Write(offset uint32, width uint8, value uint32) error {
	switch {
	case offset >= sysTickBase && offset < sysTickEnd:
		return s.SysTick.write(offset-sysTickBase, value)
	case offset >= nvicBase && offset < nvicEnd:
		return s.NVIC.write(offset-nvicBase, value)
	case offset >= scbBase && offset < scbEnd:
		return s.SCB.write(offset-scbBase, value)
	}
	return armerr.New(armerr.Unmapped, Base+offset)
}

// Tick advances SysTick and lets it raise its own exception request onto
// the NVIC/SCB pending state.
func (s *SCS) Tick(cycles uint64) {
	if s.SysTick.tick(cycles) {
		s.SCB.setPending(ExcSysTick)
	}
}

// PendingException returns the highest-priority pending, enabled exception
// number and true, or (0, false) if nothing is pending. Priority is
// resolved by fixed system-exception ordering first (NMI, HardFault, ...)
// then by ascending IRQ number, per spec section 4's simplified priority
// model (no priority-register comparison, no tail-chaining).
func (s *SCS) PendingException(primask, faultmask bool) (uint16, bool) {
	if s.SCB.nmiPending {
		return ExcNMI, true
	}
	if faultmask {
		return 0, false
	}
	if s.SCB.pendingSysExceptions[ExcHardFault] {
		return ExcHardFault, true
	}
	if s.SCB.pendingSysExceptions[ExcMemManage] {
		return ExcMemManage, true
	}
	if s.SCB.pendingSysExceptions[ExcBusFault] {
		return ExcBusFault, true
	}
	if s.SCB.pendingSysExceptions[ExcUsageFault] {
		return ExcUsageFault, true
	}
	if primask {
		return 0, false
	}
	if s.SCB.pendingSysExceptions[ExcSVCall] {
		return ExcSVCall, true
	}
	if s.SCB.pendingSysExceptions[ExcPendSV] {
		return ExcPendSV, true
	}
	if s.SCB.pendingSysExceptions[ExcSysTick] {
		return ExcSysTick, true
	}
	if n, ok := s.NVIC.highestPending(); ok {
		return n, true
	}
	return 0, false
}

// ClearPending clears the pending state of the given exception number,
// wherever it's tracked (SCB fixed slot or NVIC bank).
func (s *SCS) ClearPending(excNum uint16) {
	if excNum == ExcNMI {
		s.SCB.nmiPending = false
		return
	}
	if excNum < ExcExternal0 {
		s.SCB.pendingSysExceptions[excNum] = false
		return
	}
	s.NVIC.clearPending(excNum - ExcExternal0)
}

// SetPending marks an exception request pending, the memory-mapped
// register writes and the host API (thumbm.Processor.SetPending) share
// this single entry point.
func (s *SCS) SetPending(excNum uint16) {
	if excNum == ExcNMI {
		s.SCB.nmiPending = true
		return
	}
	if excNum < ExcExternal0 {
		s.SCB.setPending(excNum)
		return
	}
	s.NVIC.setPending(excNum - ExcExternal0)
}

// VTOR returns the current vector table offset.
func (s *SCS) VTOR() uint32 {
	return s.SCB.vtor
}
