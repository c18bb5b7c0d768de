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

package decode

import "github.com/markspec/thumbcore/bits"

func decodeBL(hw1, hw2 uint16, in Instruction) (Instruction, error) {
	s := uint32(hw1 >> 10 & 0x1)
	j1 := uint32(hw2 >> 13 & 0x1)
	j2 := uint32(hw2 >> 11 & 0x1)
	imm10 := uint32(hw1 & 0x3ff)
	imm11 := uint32(hw2 & 0x7ff)
	i1 := 1 - (j1 ^ s)
	i2 := 1 - (j2 ^ s)

	imm32 := s<<24 | i1<<23 | i2<<22 | imm10<<12 | imm11<<1
	signed := int32(imm32<<7) >> 7 // sign-extend from bit 24

	in.Family = FamBL
	in.Imm = uint32(signed)
	in.Opcode = uint8(hw2 >> 12 & 0x1) // 1 == BL, 0 == BLX (to ARM, unsupported but decoded)
	if in.Opcode == 1 {
		in.Mnemonic = "bl"
	} else {
		in.Mnemonic = "blx"
	}
	return in, nil
}

func decodeCondBranchOrMiscWide(hw1, hw2 uint16, in Instruction) (Instruction, error) {
	cond := hw1 >> 6 & 0xf
	in.Family = FamCondBranchWide
	in.Cond = uint8(cond)

	s := uint32(hw1 >> 10 & 0x1)
	j1 := uint32(hw2 >> 13 & 0x1)
	j2 := uint32(hw2 >> 11 & 0x1)
	imm6 := uint32(hw1 & 0x3f)
	imm11 := uint32(hw2 & 0x7ff)
	imm32 := s<<20 | j2<<19 | j1<<18 | imm6<<12 | imm11<<1
	signed := int32(imm32<<11) >> 11

	in.Imm = uint32(signed)
	in.Mnemonic = "b"
	return in, nil
}

func decodeMovWideImm(hw1, hw2 uint16, in Instruction, isTop bool) (Instruction, error) {
	i := uint32(hw1 >> 10 & 0x1)
	imm4 := uint32(hw1 & 0xf)
	imm3 := uint32(hw2 >> 12 & 0x7)
	imm8 := uint32(hw2 & 0xff)
	in.Family = FamMovWideImm
	in.Rd = uint8(hw2 >> 8 & 0xf)
	in.Imm = imm4<<12 | i<<11 | imm3<<8 | imm8
	in.Opcode = boolToU8(isTop)
	if isTop {
		in.Mnemonic = "movt"
	} else {
		in.Mnemonic = "movw"
	}
	return in, nil
}

var dpModImmMnemonics = map[uint8]string{
	0b0000: "and", 0b0001: "bic", 0b0010: "orr", 0b0011: "orn",
	0b0100: "eor", 0b1000: "add", 0b1010: "adc", 0b1011: "sbc",
	0b1101: "sub", 0b1110: "rsb",
}

func decodeDPModImm(hw1, hw2 uint16, in Instruction) (Instruction, error) {
	op := uint8(hw1 >> 5 & 0xf)
	rn := uint8(hw1 & 0xf)
	rd := uint8(hw2 >> 8 & 0xf)
	setFlags := hw1&0x0010 != 0

	i := uint16(hw1 >> 10 & 0x1)
	imm3 := uint16(hw2 >> 12 & 0x7)
	imm8 := uint16(hw2 & 0xff)
	imm12 := i<<11 | imm3<<8 | imm8

	in.Family = FamDPModImm
	in.Rn, in.Rd = rn, rd
	in.SetFlags = setFlags
	in.Opcode = op

	expanded, _ := bits.ThumbExpandImmC(imm12, false)
	in.Imm = expanded

	switch {
	case op == 0b0010 && rn == 0b1111:
		in.Mnemonic = "mov"
	case op == 0b0011 && rn == 0b1111:
		in.Mnemonic = "mvn"
	case op == 0b0000 && rd == 0b1111 && setFlags:
		in.Mnemonic = "tst"
	case op == 0b0100 && rd == 0b1111 && setFlags:
		in.Mnemonic = "teq"
	case op == 0b1000 && rd == 0b1111 && setFlags:
		in.Mnemonic = "cmn"
	case op == 0b1101 && rd == 0b1111 && setFlags:
		in.Mnemonic = "cmp"
	default:
		in.Mnemonic = dpModImmMnemonics[op]
	}
	return in, nil
}

var dpShiftMnemonics = map[uint8]string{
	0b0000: "and", 0b0001: "bic", 0b0010: "orr", 0b0011: "orn",
	0b0100: "eor", 0b1000: "add", 0b1010: "adc", 0b1011: "sbc",
	0b1101: "sub", 0b1110: "rsb",
}

func decodeDPShiftedReg(hw1, hw2 uint16, in Instruction) (Instruction, error) {
	op := uint8(hw1 >> 5 & 0xf)
	rn := uint8(hw1 & 0xf)
	rd := uint8(hw2 >> 8 & 0xf)
	rm := uint8(hw2 & 0xf)
	setFlags := hw1&0x0010 != 0

	imm3 := uint8(hw2 >> 12 & 0x7)
	imm2 := uint8(hw2 >> 6 & 0x3)
	typ := uint8(hw2 >> 4 & 0x3)

	in.Family = FamDPShiftedReg
	in.Rn, in.Rd, in.Rm = rn, rd, rm
	in.SetFlags = setFlags
	in.Opcode = op
	in.Shift = decodeImmShift(typ, imm3<<2|imm2)

	switch {
	case op == 0b0010 && rn == 0b1111:
		in.Mnemonic = "mov"
	case op == 0b0011 && rn == 0b1111:
		in.Mnemonic = "mvn"
	case op == 0b0000 && rd == 0b1111 && setFlags:
		in.Mnemonic = "tst"
	case op == 0b1000 && rd == 0b1111 && setFlags:
		in.Mnemonic = "cmn"
	case op == 0b1101 && rd == 0b1111 && setFlags:
		in.Mnemonic = "cmp"
	default:
		in.Mnemonic = dpShiftMnemonics[op]
	}
	return in, nil
}

// decodeImmShift implements ARM's DecodeImmShift: a (type,amount) pair
// where amount==0 signals a special case for LSR/ASR (32) and ROR (RRX).
func decodeImmShift(typ, imm5 uint8) ShiftSpec {
	switch typ {
	case 0b00:
		return ShiftSpec{ShiftLSL, imm5}
	case 0b01:
		if imm5 == 0 {
			imm5 = 32
		}
		return ShiftSpec{ShiftLSR, imm5}
	case 0b10:
		if imm5 == 0 {
			imm5 = 32
		}
		return ShiftSpec{ShiftASR, imm5}
	default:
		if imm5 == 0 {
			return ShiftSpec{ShiftRRX, 1}
		}
		return ShiftSpec{ShiftROR, imm5}
	}
}

func decodeLoadStoreSingleWide(hw1, hw2 uint16, in Instruction) (Instruction, error, bool) {
	_ = hw1 >> 4 & 0x3f // distinguishes byte/halfword/word and signedness
	rn := uint8(hw1 & 0xf)
	rt := uint8(hw2 >> 12 & 0xf)
	in.Rn, in.Rt = rn, rt
	in.Family = FamLoadStoreSingleWide

	// size: bits [22:21] of op1 (relative to hw1 bit 4), load bit 20 (hw1 bit4+4)
	size := (hw1 >> 5) & 0x3
	isLoad := hw1&0x0010 != 0
	isSigned := hw1&0x0100 != 0

	if rn == 0xf { // literal (PC-relative) variant, treat as non-indexed immediate read
		in.Imm = uint32(hw2 & 0xfff)
		in.Opcode = encodeLSWideOpcode(size, isLoad, isSigned)
		in.Mnemonic = lsWideMnemonic(in.Opcode)
		return in, nil, true
	}

	if hw2&0x0800 == 0x0800 || hw2&0x0f00 == 0x0900 || hw2&0x0f00 == 0x0d00 { // T4: imm8, pre/post-indexed
		imm8 := uint32(hw2 & 0xff)
		in.Imm = imm8
		in.Opcode = encodeLSWideOpcode(size, isLoad, isSigned)
		in.Opcode |= 0x80 // flag: T4 variant
		in.Shift.Amount = uint8(hw2 >> 8 & 0x7) // P/U/W packed for exec to unpack
		in.Mnemonic = lsWideMnemonic(in.Opcode &^ 0x80)
		return in, nil, true
	}
	if hw2&0x0f00 == 0 && hw1&0x0008 == 0 { // T2: register offset, shifted by imm2
		in.Rm = uint8(hw2 & 0xf)
		in.Shift = ShiftSpec{ShiftLSL, uint8(hw2 >> 4 & 0x3)}
		in.Opcode = encodeLSWideOpcode(size, isLoad, isSigned)
		in.Opcode |= 0x40 // flag: register-offset variant
		in.Mnemonic = lsWideMnemonic(in.Opcode &^ 0xc0)
		return in, nil, true
	}
	// T3: imm12, unsigned offset, always indexed/offset, no writeback
	in.Imm = uint32(hw2 & 0xfff)
	in.Opcode = encodeLSWideOpcode(size, isLoad, isSigned)
	in.Mnemonic = lsWideMnemonic(in.Opcode)
	return in, nil, true
}

// encodeLSWideOpcode packs {size,isLoad,isSigned} into the low 3 bits,
// matching the Opcode convention exec.execLoadStoreSingleWide expects.
func encodeLSWideOpcode(size uint16, isLoad, isSigned bool) uint8 {
	return uint8(size)<<2 | boolToU8(isLoad)<<1 | boolToU8(isSigned)
}

func lsWideMnemonic(opcode uint8) string {
	size := opcode >> 2 & 0x3
	isLoad := opcode&0x2 != 0
	isSigned := opcode&0x1 != 0
	names := map[[3]bool]string{
		{false, false, false}: "strb", {false, true, false}: "ldrb", {false, true, true}: "ldrsb",
		{true, false, false}: "strh", {true, true, false}: "ldrh", {true, true, true}: "ldrsh",
	}
	if size == 0b10 {
		if isLoad {
			return "ldr"
		}
		return "str"
	}
	key := [3]bool{size == 0b01, isLoad, isSigned}
	if m, ok := names[key]; ok {
		return m
	}
	return "ldr"
}

func decodeLoadStoreMultipleWide(hw1, hw2 uint16, in Instruction) (Instruction, error) {
	isLoad := hw1&0x0010 != 0
	isPush := !isLoad && hw1&0xfe00 == 0xe800 && hw1&0xf == 0xd && hw1&0x0380 == 0x0100
	wback := hw1&0x0020 != 0
	in.Rn = uint8(hw1 & 0xf)
	in.RegList = hw2 & 0xdfff // M and bits 12:0 minus reserved bit13
	in.Family = FamLoadStoreMultipleWide
	in.Opcode = boolToU8(isLoad)
	in.SetFlags = wback // reuse SetFlags to carry write-back flag for exec
	_ = isPush
	if isLoad {
		in.Mnemonic = "ldm"
	} else {
		in.Mnemonic = "stm"
	}
	return in, nil
}

func decodeMulDiv(hw1, hw2 uint16, in Instruction) (Instruction, error) {
	rn := uint8(hw1 & 0xf)
	rd := uint8(hw2 >> 8 & 0xf)
	ra := uint8(hw2 >> 12 & 0xf)
	rm := uint8(hw2 & 0xf)
	in.Rn, in.Rd, in.Rm, in.Rt = rn, rd, rm, ra
	in.Family = FamMulDiv

	if hw1&0xfff0 == 0xfb90 {
		in.Opcode = boolToU8(hw2&0x10 != 0) // 1 == UDIV bit op(4)==1 -> actually op bit distinguishes
		if hw2&0xf0 == 0xf0 {
			in.Mnemonic = "sdiv"
			in.Opcode = 1
		} else {
			in.Mnemonic = "udiv"
			in.Opcode = 0
		}
		return in, nil
	}

	switch hw2 >> 4 & 0xf {
	case 0b0000:
		if ra == 0xf {
			in.Mnemonic, in.Opcode = "mul", 2
		} else {
			in.Mnemonic, in.Opcode = "mla", 3
		}
	case 0b0001:
		in.Mnemonic, in.Opcode = "mls", 4
	}
	return in, nil
}

func decodeTableBranch(hw1, hw2 uint16, in Instruction) (Instruction, error) {
	in.Family = FamTableBranch
	in.Rn = uint8(hw1 & 0xf)
	in.Rm = uint8(hw2 & 0xf)
	isH := hw2&0x10 != 0
	in.Opcode = boolToU8(isH)
	if isH {
		in.Mnemonic = "tbh"
	} else {
		in.Mnemonic = "tbb"
	}
	return in, nil
}

func decodeMRS(hw1, hw2 uint16, in Instruction) (Instruction, error) {
	in.Family = FamMiscControl
	in.Mnemonic = "mrs"
	in.Opcode = 0
	in.Rd = uint8(hw2 >> 8 & 0xf)
	in.Imm = uint32(hw2 & 0xff) // SYSm
	return in, nil
}

func decodeMSR(hw1, hw2 uint16, in Instruction) (Instruction, error) {
	in.Family = FamMiscControl
	in.Mnemonic = "msr"
	in.Opcode = 1
	in.Rn = uint8(hw1 & 0xf)
	in.Imm = uint32(hw2 & 0xff) // SYSm
	return in, nil
}

func decodeMiscControlWide(hw1, hw2 uint16, in Instruction) (Instruction, error) {
	in.Family = FamMiscControl
	op := hw2 >> 4 & 0xf
	switch op {
	case 0x4:
		in.Mnemonic, in.Opcode = "dsb", 2
	case 0x5:
		in.Mnemonic, in.Opcode = "dmb", 3
	case 0x6:
		in.Mnemonic, in.Opcode = "isb", 4
	default:
		in.Mnemonic, in.Opcode = "nop", 5
	}
	_ = op
	return in, nil
}
