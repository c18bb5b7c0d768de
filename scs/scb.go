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

package scs

// SCB register offsets relative to scbBase (0xE000ED00).
const (
	scbCPUID = 0x00
	scbICSR  = 0x04
	scbVTOR  = 0x08
	scbAIRCR = 0x0c
	scbSHCSR = 0x24
)

// cpuid is a fixed identification value: implementer "A" (ARM), variant 0,
// ARMv7-M architecture constant, part number 0xc60 (Cortex-M0-class),
// revision 0. Firmware under test that merely logs the CPUID does not need
// a specific real silicon identity, only a plausible ARM one.
const cpuid = 0x410fc600

// SCB is the System Control Block: the interrupt control/state register,
// vector table offset, application interrupt/reset control register, and
// the system-exception pending/active bits not covered by the NVIC's
// per-line banks.
type SCB struct {
	vtor  uint32
	icsr  uint32
	aircr uint32

	nmiPending           bool
	pendingSysExceptions map[uint16]bool
	activeSysExceptions  map[uint16]bool
}

func newSCB() *SCB {
	return &SCB{
		pendingSysExceptions: make(map[uint16]bool),
		activeSysExceptions:  make(map[uint16]bool),
	}
}

func (s *SCB) read(offset uint32) (uint32, error) {
	switch offset {
	case scbCPUID:
		return cpuid, nil
	case scbICSR:
		return s.icsr, nil
	case scbVTOR:
		return s.vtor, nil
	case scbAIRCR:
		return s.aircr, nil
	case scbSHCSR:
		return s.shcsr(), nil
	}
	return 0, nil
}

func (s *SCB) write(offset uint32, value uint32) error {
	switch offset {
	case scbICSR:
		s.writeICSR(value)
	case scbVTOR:
		s.vtor = value &^ 0x7f
	case scbAIRCR:
		if value>>16 == 0x05fa { // VECTKEY
			s.aircr = value &^ 0xffff0000
			if value&(1<<2) != 0 { // SYSRESETREQ
				s.reset()
			}
		}
	}
	return nil
}

func (s *SCB) writeICSR(value uint32) {
	const (
		pendSVSet = 1 << 28
		pendSVClr = 1 << 27
		pendSTSet = 1 << 26
		pendSTClr = 1 << 25
		nmiSet    = 1 << 31
	)
	if value&pendSVSet != 0 {
		s.setPending(ExcPendSV)
	}
	if value&pendSVClr != 0 {
		s.pendingSysExceptions[ExcPendSV] = false
	}
	if value&pendSTSet != 0 {
		s.setPending(ExcSysTick)
	}
	if value&pendSTClr != 0 {
		s.pendingSysExceptions[ExcSysTick] = false
	}
	if value&nmiSet != 0 {
		s.nmiPending = true
	}
}

func (s *SCB) setPending(excNum uint16) {
	s.pendingSysExceptions[excNum] = true
}

func (s *SCB) shcsr() uint32 {
	var v uint32
	if s.activeSysExceptions[ExcMemManage] {
		v |= 1 << 0
	}
	if s.activeSysExceptions[ExcBusFault] {
		v |= 1 << 1
	}
	if s.activeSysExceptions[ExcUsageFault] {
		v |= 1 << 3
	}
	if s.activeSysExceptions[ExcSVCall] {
		v |= 1 << 7
	}
	if s.pendingSysExceptions[ExcMemManage] {
		v |= 1 << 13
	}
	if s.pendingSysExceptions[ExcBusFault] {
		v |= 1 << 14
	}
	if s.pendingSysExceptions[ExcUsageFault] {
		v |= 1 << 12
	}
	return v
}

func (s *SCB) reset() {
	s.icsr = 0
	s.pendingSysExceptions = make(map[uint16]bool)
	s.activeSysExceptions = make(map[uint16]bool)
	s.nmiPending = false
}
