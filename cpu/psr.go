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

package cpu

import "strings"

// Status is the packed view of APSR/IPSR/EPSR (collectively xPSR). The
// individual flag fields are stored directly rather than as a single
// packed uint32 so that callers never observe a half-updated word; Pack
// and Unpack convert to/from the architectural bit layout on demand.
type Status struct {
	// APSR, bits 31..27
	Negative   bool
	Zero       bool
	Carry      bool
	Overflow   bool
	Saturation bool

	// IPSR, bits 8..0: the exception number currently being handled, or 0
	// in Thread mode with no active exception.
	Exception uint16

	// EPSR IT-state, split into base condition and remaining-instruction
	// mask for clarity - an IT block is active iff ITMask != 0.
	ITCond uint8
	ITMask uint8
}

func (st Status) String() string {
	s := strings.Builder{}
	flag := func(set bool, c byte) {
		if set {
			s.WriteByte(c)
		} else {
			s.WriteByte(c - 'A' + 'a')
		}
	}
	flag(st.Negative, 'N')
	flag(st.Zero, 'Z')
	flag(st.Carry, 'C')
	flag(st.Overflow, 'V')
	flag(st.Saturation, 'Q')
	return s.String()
}

// Pack renders the status into the architectural xPSR bit layout: N Z C V Q
// in bits 31..27, ITSTATE<1:0> in bits 26..25, T bit (always 1 - Thumb is
// the only supported state) in bit 24, ITSTATE<7:2> in bits 15..10, and the
// exception number in bits 8..0.
func (st Status) Pack() uint32 {
	var x uint32
	if st.Negative {
		x |= 1 << 31
	}
	if st.Zero {
		x |= 1 << 30
	}
	if st.Carry {
		x |= 1 << 29
	}
	if st.Overflow {
		x |= 1 << 28
	}
	if st.Saturation {
		x |= 1 << 27
	}

	itState := itByte(st.ITCond, st.ITMask)
	x |= uint32(itState&0b11) << 25
	x |= 1 << 24 // T bit
	x |= uint32(itState>>2) << 10
	x |= uint32(st.Exception) & 0x1ff
	return x
}

// Unpack parses a raw xPSR word (as popped from an exception stack frame,
// or written via MSR) back into a Status.
func Unpack(x uint32) Status {
	itState := byte((x>>25)&0b11) | byte((x>>10)&0x3f)<<2
	cond, mask := unpackIT(itState)
	return Status{
		Negative:   x&(1<<31) != 0,
		Zero:       x&(1<<30) != 0,
		Carry:      x&(1<<29) != 0,
		Overflow:   x&(1<<28) != 0,
		Saturation: x&(1<<27) != 0,
		Exception:  uint16(x & 0x1ff),
		ITCond:     cond,
		ITMask:     mask,
	}
}

// itByte combines the base condition and remaining-instruction mask back
// into the single 8-bit ITSTATE field (bits 7..4 = cond, bits 3..0 = mask).
func itByte(cond, mask uint8) uint8 {
	return cond<<4 | mask
}

func unpackIT(it uint8) (cond, mask uint8) {
	return it >> 4, it & 0xf
}

// SetNZCV bulk-sets the four arithmetic flags, used by flag-setting
// instructions after computing a result via bits.AddWithCarry or a shifter
// carry-out.
func (st *Status) SetNZCV(result uint32, carry, overflow bool) {
	st.Negative = result&0x80000000 != 0
	st.Zero = result == 0
	st.Carry = carry
	st.Overflow = overflow
}

// SetNZ sets only N and Z, used by logical operations that do not affect C
// or V (e.g. MOVS with a register operand and no shift).
func (st *Status) SetNZ(result uint32) {
	st.Negative = result&0x80000000 != 0
	st.Zero = result == 0
}

// InITBlock reports whether an IT block is currently active.
func (st Status) InITBlock() bool {
	return st.ITMask != 0
}

// LastInITBlock reports whether the next instruction is the final one of
// the active IT block (mask == 0b1000 means one instruction remains).
func (st Status) LastInITBlock() bool {
	return st.ITMask == 0b1000
}

// AdvanceIT implements the IT-state state machine from "A7.3 Conditional
// execution": called once per instruction (whether it executed or was
// skipped), it copies the mask's top bit into the condition's bottom bit -
// since inverting one of the sixteen condition codes always flips exactly
// that bit, this is what lets a mask bit of 0 select the "Else" condition
// for a later instruction in the block - then shifts the mask. Once the
// mask reaches zero the block has ended and InITBlock reports false
// regardless of the (now stale) condition bits.
func (st *Status) AdvanceIT() {
	if st.ITMask == 0 {
		return
	}
	st.ITCond = st.ITCond&0b1110 | st.ITMask>>3
	st.ITMask = (st.ITMask << 1) & 0xf
}

// CurrentCond returns the condition code that applies to the instruction
// about to execute: the IT-block's condition for this position if a block
// is active, or otherwise the value decoded from the instruction itself
// (ordinarily 0b1110, AL, except for B<c>).
func (st Status) CurrentCond(decoded uint8) uint8 {
	if st.InITBlock() {
		return st.ITCond
	}
	return decoded
}

// CondPassed evaluates one of the 16 standard Thumb condition codes against
// the current flags, per "A7.3 Conditional execution" in the ARM ARM. Code
// 0b1111 is reserved and always evaluates as AL in this implementation,
// matching the architecturally-permitted "treat as 0b1110" relaxation.
func CondPassed(cond uint8, st Status) bool {
	switch cond {
	case 0b0000: // EQ
		return st.Zero
	case 0b0001: // NE
		return !st.Zero
	case 0b0010: // CS/HS
		return st.Carry
	case 0b0011: // CC/LO
		return !st.Carry
	case 0b0100: // MI
		return st.Negative
	case 0b0101: // PL
		return !st.Negative
	case 0b0110: // VS
		return st.Overflow
	case 0b0111: // VC
		return !st.Overflow
	case 0b1000: // HI
		return st.Carry && !st.Zero
	case 0b1001: // LS
		return !st.Carry || st.Zero
	case 0b1010: // GE
		return st.Negative == st.Overflow
	case 0b1011: // LT
		return st.Negative != st.Overflow
	case 0b1100: // GT
		return !st.Zero && st.Negative == st.Overflow
	case 0b1101: // LE
		return st.Zero || st.Negative != st.Overflow
	default: // 0b1110 AL, 0b1111 reserved-treated-as-AL
		return true
	}
}

// CondMnemonic returns the two-letter suffix used in a disassembled
// mnemonic for the given condition code (e.g. "EQ", "NE"), kept here since
// it is defined by the same table CondPassed consumes. The decode
// package's printer does not call it.
func CondMnemonic(cond uint8) string {
	names := [...]string{"EQ", "NE", "CS", "CC", "MI", "PL", "VS", "VC", "HI", "LS", "GE", "LT", "GT", "LE", "", ""}
	return names[cond&0xf]
}
