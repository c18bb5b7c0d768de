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

package exec

import (
	"github.com/markspec/thumbcore/bits"
	"github.com/markspec/thumbcore/cpu"
	"github.com/markspec/thumbcore/decode"
)

func execShiftImm(in decode.Instruction, st *cpu.State) error {
	rm := st.ReadReg(in.Rm)
	status := st.Status()
	var result uint32
	var carry bool
	switch in.Opcode {
	case 0:
		result, carry = bits.LslC(rm, uint8(in.Imm))
	case 1:
		amt := uint8(in.Imm)
		if amt == 0 {
			amt = 32
		}
		result, carry = bits.LsrC(rm, amt)
	case 2:
		amt := uint8(in.Imm)
		if amt == 0 {
			amt = 32
		}
		result, carry = bits.AsrC(rm, amt)
	}
	if in.Imm == 0 && in.Opcode == 0 {
		carry = status.Carry
	}
	st.WriteReg(in.Rd, result)
	status.SetNZCV(result, carry, status.Overflow)
	st.SetStatus(status)
	return nil
}

func execAddSub3(in decode.Instruction, st *cpu.State) error {
	rn := st.ReadReg(in.Rn)
	var operand uint32
	if in.Family == decode.FamAddSubImm3 {
		operand = in.Imm
	} else {
		operand = st.ReadReg(in.Rm)
	}

	var result uint32
	var carry, overflow bool
	if in.Opcode == 1 { // SUB
		result, carry, overflow = bits.AddWithCarry(rn, ^operand, true)
	} else {
		result, carry, overflow = bits.AddWithCarry(rn, operand, false)
	}
	st.WriteReg(in.Rd, result)
	status := st.Status()
	status.SetNZCV(result, carry, overflow)
	st.SetStatus(status)
	return nil
}

func execMovCmpAddSubImm8(in decode.Instruction, st *cpu.State) error {
	status := st.Status()
	switch in.Opcode {
	case 0b00: // MOVS
		st.WriteReg(in.Rd, in.Imm)
		status.SetNZ(in.Imm)
	case 0b01: // CMP
		rd := st.ReadReg(in.Rd)
		result, carry, overflow := bits.AddWithCarry(rd, ^in.Imm, true)
		status.SetNZCV(result, carry, overflow)
	case 0b10: // ADDS
		rd := st.ReadReg(in.Rd)
		result, carry, overflow := bits.AddWithCarry(rd, in.Imm, false)
		st.WriteReg(in.Rd, result)
		status.SetNZCV(result, carry, overflow)
	case 0b11: // SUBS
		rd := st.ReadReg(in.Rd)
		result, carry, overflow := bits.AddWithCarry(rd, ^in.Imm, true)
		st.WriteReg(in.Rd, result)
		status.SetNZCV(result, carry, overflow)
	}
	st.SetStatus(status)
	return nil
}

func execALUReg(in decode.Instruction, st *cpu.State) error {
	rd := st.ReadReg(in.Rd)
	rm := st.ReadReg(in.Rm)
	status := st.Status()
	var result uint32
	var carry, overflow bool
	carry = status.Carry
	overflow = status.Overflow
	writesResult := true

	switch in.Opcode {
	case 0b0000: // ANDS
		result = rd & rm
	case 0b0001: // EORS
		result = rd ^ rm
	case 0b0010: // LSLS (register)
		amt := uint8(rm & 0xff)
		result, carry = shiftRegAmount(bits.LslC, rd, amt, carry)
	case 0b0011: // LSRS (register)
		amt := uint8(rm & 0xff)
		result, carry = shiftRegAmount(bits.LsrC, rd, amt, carry)
	case 0b0100: // ASRS (register)
		amt := uint8(rm & 0xff)
		result, carry = shiftRegAmount(bits.AsrC, rd, amt, carry)
	case 0b0101: // ADCS
		result, carry, overflow = bits.AddWithCarry(rd, rm, status.Carry)
	case 0b0110: // SBCS
		result, carry, overflow = bits.AddWithCarry(rd, ^rm, status.Carry)
	case 0b0111: // RORS (register)
		amt := uint8(rm & 0xff)
		if amt == 0 {
			result = rd
		} else {
			result, carry = bits.RorC(rd, amt&31)
		}
	case 0b1000: // TST
		result = rd & rm
		writesResult = false
	case 0b1001: // RSBS (NEG)
		result, carry, overflow = bits.AddWithCarry(^rd, 1, false)
		_ = rm
	case 0b1010: // CMP
		result, carry, overflow = bits.AddWithCarry(rd, ^rm, true)
		writesResult = false
	case 0b1011: // CMN
		result, carry, overflow = bits.AddWithCarry(rd, rm, false)
		writesResult = false
	case 0b1100: // ORRS
		result = rd | rm
	case 0b1101: // MULS
		result = rd * rm
	case 0b1110: // BICS
		result = rd &^ rm
	case 0b1111: // MVNS
		result = ^rm
	}

	if writesResult {
		st.WriteReg(in.Rd, result)
	}
	if in.Opcode == 0b1101 { // MULS leaves C and V unpredictable architecturally; this model leaves them unchanged
		status.SetNZ(result)
	} else {
		status.SetNZCV(result, carry, overflow)
	}
	st.SetStatus(status)
	return nil
}

// shiftRegAmount applies a register-specified shift amount: zero leaves the
// value and carry untouched, 1-255 uses the normal carry-out variant.
func shiftRegAmount(f func(uint32, uint8) (uint32, bool), value uint32, amt uint8, carryIn bool) (uint32, bool) {
	if amt == 0 {
		return value, carryIn
	}
	return f(value, amt)
}

func execHiRegOp(in decode.Instruction, st *cpu.State) error {
	rm := st.ReadReg(in.Rm)
	switch in.Opcode {
	case 0b00: // ADD
		rd := st.ReadReg(in.Rd)
		sum := rd + rm
		if in.Rd == cpu.R15 {
			return st.WriteRegInterworking(sum | 1)
		}
		st.WriteReg(in.Rd, sum)
	case 0b01: // CMP
		rd := st.ReadReg(in.Rd)
		result, carry, overflow := bits.AddWithCarry(rd, ^rm, true)
		status := st.Status()
		status.SetNZCV(result, carry, overflow)
		st.SetStatus(status)
	case 0b10: // MOV
		if in.Rd == cpu.R15 {
			return st.WriteRegInterworking(rm | 1)
		}
		st.WriteReg(in.Rd, rm)
	}
	return nil
}

func execBranchExchange(in decode.Instruction, st *cpu.State) error {
	target := st.ReadReg(in.Rm)
	if in.Opcode == 1 { // BLX
		st.SetLR(st.PC() + 3) // return address | 1, pointing past this 16-bit instruction
	}
	return st.WriteRegInterworking(target)
}

func execExtend(in decode.Instruction, st *cpu.State) error {
	rm := st.ReadReg(in.Rm)
	var result uint32
	switch in.Opcode {
	case 0b00: // SXTH
		result = uint32(bits.SignExtend(rm&0xffff, 16))
	case 0b01: // SXTB
		result = uint32(bits.SignExtend(rm&0xff, 8))
	case 0b10: // UXTH
		result = rm & 0xffff
	case 0b11: // UXTB
		result = rm & 0xff
	}
	st.WriteReg(in.Rd, result)
	return nil
}

func execReverse(in decode.Instruction, st *cpu.State) error {
	rm := st.ReadReg(in.Rm)
	var result uint32
	switch in.Opcode {
	case 0b00: // REV
		result = rm>>24&0xff | rm>>8&0xff00 | rm<<8&0xff0000 | rm<<24&0xff000000
	case 0b01: // REV16
		result = rm>>8&0xff | rm<<8&0xff00 | rm>>8&0xff0000 | rm<<8&0xff000000
	case 0b11: // REVSH
		lo := rm >> 8 & 0xff
		hi := rm & 0xff
		halfword := hi<<8 | lo
		result = uint32(bits.SignExtend(halfword, 16))
	}
	st.WriteReg(in.Rd, result)
	return nil
}

func execCBZ(in decode.Instruction, st *cpu.State) error {
	rn := st.ReadReg(in.Rn)
	isZero := rn == 0
	shouldBranch := (in.Opcode == 0 && isZero) || (in.Opcode == 1 && !isZero)
	if shouldBranch {
		st.SetPC(baseForBranch(st) + in.Imm)
	}
	return nil
}

func execIT(in decode.Instruction, st *cpu.State) error {
	status := st.Status()
	status.ITCond = in.Cond
	status.ITMask = uint8(in.Imm)
	st.SetStatus(status)
	return nil
}

// baseForBranch returns the PC-relative base (current instruction address
// + 4) used by CBZ/B/BL targets. It reads R15, which already includes the
// driver's fixed +4 pipeline offset, so it is correct regardless of
// instruction size.
func baseForBranch(st *cpu.State) uint32 {
	return st.ReadReg(cpu.R15) &^ 1
}
