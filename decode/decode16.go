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

import "github.com/markspec/thumbcore/armerr"

func decodeShiftImm(hw1 uint16, in Instruction) (Instruction, error) {
	op := (hw1 >> 11) & 0b11
	in.Imm = uint32(hw1 >> 6 & 0x1f)
	in.Rm = uint8(hw1 >> 3 & 0x7)
	in.Rd = uint8(hw1 & 0x7)
	in.SetFlags = true
	in.Family = FamShiftImm
	switch op {
	case 0b00:
		in.Opcode, in.Mnemonic = 0, "lsls"
	case 0b01:
		in.Opcode, in.Mnemonic = 1, "lsrs"
	case 0b10:
		in.Opcode, in.Mnemonic = 2, "asrs"
	default:
		return in, armerr.New(armerr.UndefinedInstruction, in.Address, hw1)
	}
	return in, nil
}

func decodeAddSubReg(hw1 uint16, in Instruction) (Instruction, error) {
	isSub := hw1&0x0200 != 0
	isImm := hw1&0x0400 != 0
	in.Rn = uint8(hw1 >> 3 & 0x7)
	in.Rd = uint8(hw1 & 0x7)
	in.SetFlags = true
	if isImm {
		in.Family = FamAddSubImm3
		in.Imm = uint32(hw1 >> 6 & 0x7)
	} else {
		in.Family = FamAddSubReg
		in.Rm = uint8(hw1 >> 6 & 0x7)
	}
	if isSub {
		in.Opcode, in.Mnemonic = 1, "subs"
	} else {
		in.Opcode, in.Mnemonic = 0, "adds"
	}
	return in, nil
}

func decodeMovCmpAddSubImm8(hw1 uint16, in Instruction) (Instruction, error) {
	op := (hw1 >> 11) & 0b11
	in.Rd = uint8(hw1 >> 8 & 0x7)
	in.Imm = uint32(hw1 & 0xff)
	in.SetFlags = true
	in.Family = FamMovCmpAddSubImm8
	in.Opcode = uint8(op)
	switch op {
	case 0b00:
		in.Mnemonic = "movs"
	case 0b01:
		in.Mnemonic = "cmp"
	case 0b10:
		in.Mnemonic = "adds"
	case 0b11:
		in.Mnemonic = "subs"
	}
	return in, nil
}

var aluMnemonics = [16]string{
	"ands", "eors", "lsls", "lsrs", "asrs", "adcs", "sbcs", "rors",
	"tst", "rsbs", "cmp", "cmn", "orrs", "muls", "bics", "mvns",
}

func decodeALUReg(hw1 uint16, in Instruction) (Instruction, error) {
	op := uint8(hw1 >> 6 & 0xf)
	in.Rm = uint8(hw1 >> 3 & 0x7)
	in.Rd = uint8(hw1 & 0x7)
	in.Rn = in.Rd
	in.SetFlags = true
	in.Family = FamALUReg
	in.Opcode = op
	in.Mnemonic = aluMnemonics[op]
	return in, nil
}

func decodeHiRegOrBX(hw1 uint16, in Instruction) (Instruction, error) {
	op := hw1 >> 8 & 0b11
	dn := hw1 >> 7 & 0x1
	rm := uint8(hw1 >> 3 & 0xf)
	rdn := uint8(dn<<3) | uint8(hw1&0x7)

	if op == 0b11 {
		in.Family = FamBranchExchange
		in.Rm = rm
		in.Opcode = uint8(hw1 >> 7 & 0x1) // 1 == BLX
		if in.Opcode == 1 {
			in.Mnemonic = "blx"
		} else {
			in.Mnemonic = "bx"
		}
		return in, nil
	}

	in.Family = FamHiRegOp
	in.Rd, in.Rn = rdn, rdn
	in.Rm = rm
	in.Opcode = uint8(op)
	switch op {
	case 0b00:
		in.Mnemonic = "add"
	case 0b01:
		in.Mnemonic, in.SetFlags = "cmp", true
	case 0b10:
		in.Mnemonic = "mov"
	}
	return in, nil
}

func decodePCRelativeLoad(hw1 uint16, in Instruction) (Instruction, error) {
	in.Family = FamPCRelativeLoad
	in.Rt = uint8(hw1 >> 8 & 0x7)
	in.Imm = uint32(hw1&0xff) << 2
	in.Mnemonic = "ldr"
	return in, nil
}

var loadStoreRegMnemonics = [8]string{"str", "strh", "strb", "ldrsb", "ldr", "ldrh", "ldrb", "ldrsh"}

func decodeLoadStoreReg(hw1 uint16, in Instruction) (Instruction, error) {
	opc := hw1 >> 9 & 0b111
	in.Rm = uint8(hw1 >> 6 & 0x7)
	in.Rn = uint8(hw1 >> 3 & 0x7)
	in.Rt = uint8(hw1 & 0x7)
	in.Family = FamLoadStoreReg
	in.Opcode = uint8(opc)
	in.Mnemonic = loadStoreRegMnemonics[opc]
	return in, nil
}

func decodeLoadStoreSignExt(hw1 uint16, in Instruction) (Instruction, error) {
	opc := hw1 >> 9 & 0b111
	in.Rm = uint8(hw1 >> 6 & 0x7)
	in.Rn = uint8(hw1 >> 3 & 0x7)
	in.Rt = uint8(hw1 & 0x7)
	in.Family = FamLoadStoreReg
	in.Opcode = uint8(opc)
	in.Mnemonic = loadStoreRegMnemonics[opc]
	return in, nil
}

func decodeLoadStoreImm(hw1 uint16, in Instruction) (Instruction, error) {
	isByte := hw1&0x1000 != 0
	isLoad := hw1&0x0800 != 0
	in.Rn = uint8(hw1 >> 3 & 0x7)
	in.Rt = uint8(hw1 & 0x7)
	in.Family = FamLoadStoreImm
	if isByte {
		in.Imm = uint32(hw1 >> 6 & 0x1f)
	} else {
		in.Imm = uint32(hw1>>6&0x1f) << 2
	}
	switch {
	case isByte && isLoad:
		in.Mnemonic = "ldrb"
	case isByte && !isLoad:
		in.Mnemonic = "strb"
	case !isByte && isLoad:
		in.Mnemonic = "ldr"
	default:
		in.Mnemonic = "str"
	}
	in.Opcode = boolToU8(isByte)<<1 | boolToU8(isLoad)
	return in, nil
}

func decodeLoadStoreHalfwordImm(hw1 uint16, in Instruction) (Instruction, error) {
	isLoad := hw1&0x0800 != 0
	in.Rn = uint8(hw1 >> 3 & 0x7)
	in.Rt = uint8(hw1 & 0x7)
	in.Imm = uint32(hw1>>6&0x1f) << 1
	in.Family = FamLoadStoreHalfwordImm
	in.Opcode = boolToU8(isLoad)
	if isLoad {
		in.Mnemonic = "ldrh"
	} else {
		in.Mnemonic = "strh"
	}
	return in, nil
}

func decodeSPRelativeLoadStore(hw1 uint16, in Instruction) (Instruction, error) {
	isLoad := hw1&0x0800 != 0
	in.Rt = uint8(hw1 >> 8 & 0x7)
	in.Imm = uint32(hw1&0xff) << 2
	in.Family = FamSPRelativeLoadStore
	in.Opcode = boolToU8(isLoad)
	if isLoad {
		in.Mnemonic = "ldr"
	} else {
		in.Mnemonic = "str"
	}
	return in, nil
}

func decodeLoadAddress(hw1 uint16, in Instruction) (Instruction, error) {
	usesSP := hw1&0x0800 != 0
	in.Rd = uint8(hw1 >> 8 & 0x7)
	in.Imm = uint32(hw1&0xff) << 2
	in.Family = FamLoadAddress
	in.Opcode = boolToU8(usesSP)
	if usesSP {
		in.Mnemonic = "add"
	} else {
		in.Mnemonic = "adr"
	}
	return in, nil
}

func decodeAddSubSP(hw1 uint16, in Instruction) (Instruction, error) {
	isSub := hw1&0x0080 != 0
	in.Imm = uint32(hw1&0x7f) << 2
	in.Family = FamAddSubSP
	in.Opcode = boolToU8(isSub)
	if isSub {
		in.Mnemonic = "sub"
	} else {
		in.Mnemonic = "add"
	}
	return in, nil
}

func decodePushPop(hw1 uint16, in Instruction) (Instruction, error) {
	isPop := hw1&0x0800 != 0
	extra := hw1&0x0100 != 0
	in.RegList = hw1 & 0xff
	in.Family = FamPushPop
	in.Opcode = boolToU8(isPop)
	if isPop {
		in.Mnemonic = "pop"
		if extra {
			in.RegList |= 1 << 15 // PC
		}
	} else {
		in.Mnemonic = "push"
		if extra {
			in.RegList |= 1 << 14 // LR
		}
	}
	return in, nil
}

func decodeExtend(hw1 uint16, in Instruction) (Instruction, error) {
	op := hw1 >> 6 & 0b11
	in.Rm = uint8(hw1 >> 3 & 0x7)
	in.Rd = uint8(hw1 & 0x7)
	in.Family = FamExtend
	in.Opcode = uint8(op)
	switch op {
	case 0b00:
		in.Mnemonic = "sxth"
	case 0b01:
		in.Mnemonic = "sxtb"
	case 0b10:
		in.Mnemonic = "uxth"
	case 0b11:
		in.Mnemonic = "uxtb"
	}
	return in, nil
}

func decodeReverse(hw1 uint16, in Instruction) (Instruction, error) {
	op := hw1 >> 6 & 0b11
	in.Rm = uint8(hw1 >> 3 & 0x7)
	in.Rd = uint8(hw1 & 0x7)
	in.Family = FamReverse
	in.Opcode = uint8(op)
	switch op {
	case 0b00:
		in.Mnemonic = "rev"
	case 0b01:
		in.Mnemonic = "rev16"
	case 0b11:
		in.Mnemonic = "revsh"
	default:
		return in, armerr.New(armerr.UndefinedInstruction, in.Address, hw1)
	}
	return in, nil
}

func decodeCBZ(hw1 uint16, in Instruction) (Instruction, error) {
	in.Rn = uint8(hw1 & 0x7)
	in.Opcode = boolToU8(hw1&0x0800 != 0) // 1 == CBNZ
	i := uint32(hw1 >> 9 & 0x1)
	imm5 := uint32(hw1 >> 3 & 0x1f)
	in.Imm = (i<<6 | imm5<<1)
	in.Family = FamCBZ
	if in.Opcode == 1 {
		in.Mnemonic = "cbnz"
	} else {
		in.Mnemonic = "cbz"
	}
	return in, nil
}

func decodeIT(hw1 uint16, in Instruction) (Instruction, error) {
	in.Family = FamIT
	in.Mnemonic = "it"
	in.Cond = uint8(hw1 >> 4 & 0xf)
	in.Imm = uint32(hw1 & 0xf) // mask nibble
	return in, nil
}

func decodeHint(hw1 uint16, in Instruction) (Instruction, error) {
	in.Family = FamHint
	switch hw1 >> 4 & 0xf {
	case 0x1:
		in.Mnemonic = "yield"
	case 0x2:
		in.Mnemonic = "wfe"
	case 0x3:
		in.Mnemonic = "wfi"
	case 0x4:
		in.Mnemonic = "sev"
	default:
		in.Mnemonic = "nop"
	}
	return in, nil
}

func decodeMultipleLoadStore(hw1 uint16, in Instruction) (Instruction, error) {
	isLoad := hw1&0x0800 != 0
	in.Rn = uint8(hw1 >> 8 & 0x7)
	in.RegList = hw1 & 0xff
	in.Family = FamMultipleLoadStore
	in.Opcode = boolToU8(isLoad)
	if isLoad {
		in.Mnemonic = "ldm"
	} else {
		in.Mnemonic = "stm"
	}
	return in, nil
}

func decodeCondBranch(hw1 uint16, in Instruction) (Instruction, error) {
	in.Family = FamCondBranch
	in.Cond = uint8(hw1 >> 8 & 0xf)
	imm8 := int32(int8(hw1 & 0xff))
	in.Imm = uint32(imm8 << 1)
	in.Mnemonic = "b"
	return in, nil
}

func decodeUncondBranch(hw1 uint16, in Instruction) (Instruction, error) {
	in.Family = FamUncondBranch
	imm11 := hw1 & 0x7ff
	signed := int32(imm11<<1) << 20 >> 20 // sign-extend from bit 11 (after the <<1)
	in.Imm = uint32(signed)
	in.Mnemonic = "b"
	return in, nil
}

func boolToU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
