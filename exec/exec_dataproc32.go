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

// dpCompute applies one of the shared data-processing opcodes (shared
// between the modified-immediate and shifted-register wide encodings) to
// (rn, operand, carryIn) and reports whether the instruction is
// flag-setting-by-identity (CMP/CMN/TST/TEQ never write a register).
func dpCompute(op uint8, rd uint8, rn, operand uint32, carryIn bool) (result uint32, carry, overflow bool, writesRd bool) {
	writesRd = true
	switch op {
	case 0b0000: // AND/TST
		result = rn & operand
		carry = carryIn
		if rd == cpu.R15 {
			writesRd = false
		}
	case 0b0001: // BIC
		result = rn &^ operand
		carry = carryIn
	case 0b0010: // ORR/MOV
		result = rn | operand
		carry = carryIn
	case 0b0011: // ORN/MVN
		result = rn | ^operand
		carry = carryIn
	case 0b0100: // EOR/TEQ
		result = rn ^ operand
		carry = carryIn
		if rd == cpu.R15 {
			writesRd = false
		}
	case 0b1000: // ADD/CMN
		result, carry, overflow = bits.AddWithCarry(rn, operand, false)
		if rd == cpu.R15 {
			writesRd = false
		}
	case 0b1010: // ADC
		result, carry, overflow = bits.AddWithCarry(rn, operand, carryIn)
	case 0b1011: // SBC
		result, carry, overflow = bits.AddWithCarry(rn, ^operand, carryIn)
	case 0b1101: // SUB/CMP
		result, carry, overflow = bits.AddWithCarry(rn, ^operand, true)
		if rd == cpu.R15 {
			writesRd = false
		}
	case 0b1110: // RSB
		result, carry, overflow = bits.AddWithCarry(^rn, operand, true)
	}
	return result, carry, overflow, writesRd
}

func dpMnemonicIsCompareOnly(mnemonic string) bool {
	switch mnemonic {
	case "tst", "teq", "cmp", "cmn":
		return true
	}
	return false
}

func execDPModImm(in decode.Instruction, st *cpu.State) error {
	status := st.Status()
	rn := st.ReadReg(in.Rn)
	expanded, expandedCarry := expandModImm(in, status.Carry)
	mnemonic := in.Mnemonic
	rd := in.Rd
	if dpMnemonicIsCompareOnly(mnemonic) {
		rd = cpu.R15 // force the "does not write" path in dpCompute
	}

	result, carry, overflow, writesRd := dpCompute(in.Opcode, rd, rn, expanded, expandedCarry)
	if mnemonic == "mov" {
		result, writesRd = expanded, true
		carry = expandedCarry
	}
	if mnemonic == "mvn" {
		result, writesRd = ^expanded, true
		carry = expandedCarry
	}
	if writesRd && !dpMnemonicIsCompareOnly(mnemonic) {
		st.WriteReg(in.Rd, result)
	}
	if in.SetFlags {
		if in.Opcode == 0b1000 || in.Opcode == 0b1010 || in.Opcode == 0b1011 || in.Opcode == 0b1101 || in.Opcode == 0b1110 {
			status.SetNZCV(result, carry, overflow)
		} else {
			status.SetNZCV(result, carry, status.Overflow)
		}
		st.SetStatus(status)
	}
	return nil
}

// expandModImm re-derives the expanded 12-bit modified immediate from the
// raw instruction bits (decode already did this once for display, but
// recomputing here keeps exec independent of decode's cached Imm field
// semantics for the carry-out, which decode did not preserve separately).
func expandModImm(in decode.Instruction, carryIn bool) (uint32, bool) {
	i := uint16(in.Hw1 >> 10 & 0x1)
	imm3 := uint16(in.Hw2 >> 12 & 0x7)
	imm8 := uint16(in.Hw2 & 0xff)
	imm12 := i<<11 | imm3<<8 | imm8
	return bits.ThumbExpandImmC(imm12, carryIn)
}

func execDPShiftedReg(in decode.Instruction, st *cpu.State) error {
	status := st.Status()
	rn := st.ReadReg(in.Rn)
	rm := st.ReadReg(in.Rm)
	shifted, shiftCarry := applyShift(in.Shift, rm, status.Carry)

	mnemonic := in.Mnemonic
	rd := in.Rd
	if dpMnemonicIsCompareOnly(mnemonic) {
		rd = cpu.R15
	}

	result, carry, overflow, writesRd := dpCompute(in.Opcode, rd, rn, shifted, shiftCarry)
	if mnemonic == "mov" {
		result, writesRd = shifted, true
		carry = shiftCarry
	}
	if mnemonic == "mvn" {
		result, writesRd = ^shifted, true
		carry = shiftCarry
	}
	if writesRd && !dpMnemonicIsCompareOnly(mnemonic) {
		st.WriteReg(in.Rd, result)
	}
	if in.SetFlags {
		if in.Opcode == 0b1000 || in.Opcode == 0b1010 || in.Opcode == 0b1011 || in.Opcode == 0b1101 || in.Opcode == 0b1110 {
			status.SetNZCV(result, carry, overflow)
		} else {
			status.SetNZCV(result, carry, status.Overflow)
		}
		st.SetStatus(status)
	}
	return nil
}

func execMovWideImm(in decode.Instruction, st *cpu.State) error {
	if in.Opcode == 1 { // MOVT: replace the top halfword, preserve the bottom
		cur := st.ReadReg(in.Rd)
		st.WriteReg(in.Rd, in.Imm<<16|cur&0xffff)
		return nil
	}
	st.WriteReg(in.Rd, in.Imm)
	return nil
}

func execMulDiv(in decode.Instruction, st *cpu.State) error {
	rn := st.ReadReg(in.Rn)
	rm := st.ReadReg(in.Rm)
	switch in.Opcode {
	case 2: // MUL
		st.WriteReg(in.Rd, rn*rm)
	case 3: // MLA
		ra := st.ReadReg(in.Rt)
		st.WriteReg(in.Rd, ra+rn*rm)
	case 4: // MLS
		ra := st.ReadReg(in.Rt)
		st.WriteReg(in.Rd, ra-rn*rm)
	case 0: // UDIV
		if rm == 0 {
			st.WriteReg(in.Rd, 0)
			return nil
		}
		st.WriteReg(in.Rd, rn/rm)
	case 1: // SDIV
		if rm == 0 {
			st.WriteReg(in.Rd, 0)
			return nil
		}
		st.WriteReg(in.Rd, uint32(int32(rn)/int32(rm)))
	}
	return nil
}
