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

import (
	"github.com/markspec/thumbcore/armerr"
	"github.com/markspec/thumbcore/config"
)

// is32BitFirstHalfword reports whether hw1 opens a 32-bit Thumb-2
// instruction: bits [15:11] of 0b11101, 0b11110 or 0b11111.
func is32BitFirstHalfword(hw1 uint16) bool {
	top5 := hw1 >> 11
	return top5 == 0b11101 || top5 == 0b11110 || top5 == 0b11111
}

// Decode classifies the instruction beginning at hw1 (and, if it opens a
// 32-bit encoding, hw2) and returns an Instruction descriptor. addr is the
// address hw1 was fetched from, recorded for PC-relative operands and
// diagnostics.
//
// Decode is pure: it never touches processor or memory state beyond the
// two halfwords it is given.
func Decode(hw1, hw2 uint16, addr uint32, profile config.Profile) (Instruction, error) {
	if is32BitFirstHalfword(hw1) {
		return decode32(hw1, hw2, addr, profile)
	}
	return decode16(hw1, addr, profile)
}

// decode16 dispatches a single 16-bit Thumb halfword to one of the 19
// Thumb-1 instruction-format groups described in the ARM Architecture
// Reference Manual, chapter A5. The dispatch order (most-significant
// distinguishing bits first) mirrors the teacher's decodeThumb switch.
func decode16(hw1 uint16, addr uint32, profile config.Profile) (Instruction, error) {
	in := Instruction{SizeBytes: 2, Cond: 0b1110, Address: addr, Hw1: hw1}

	switch {
	case hw1&0xf800 == 0x1800: // 000110xx / 000111xx - add/subtract
		return decodeAddSubReg(hw1, in)
	case hw1&0xe000 == 0x0000: // 000xx - shift by immediate (and add/sub above takes priority)
		return decodeShiftImm(hw1, in)
	case hw1&0xe000 == 0x2000: // 001xx - move/compare/add/subtract immediate
		return decodeMovCmpAddSubImm8(hw1, in)
	case hw1&0xfc00 == 0x4000: // 010000 - ALU operations
		return decodeALUReg(hw1, in)
	case hw1&0xfc00 == 0x4400: // 010001 - hi register ops / branch exchange
		return decodeHiRegOrBX(hw1, in)
	case hw1&0xf800 == 0x4800: // 01001 - PC-relative load
		return decodePCRelativeLoad(hw1, in)
	case hw1&0xf200 == 0x5000: // 0101xx0 - load/store with register offset
		return decodeLoadStoreReg(hw1, in)
	case hw1&0xf200 == 0x5200: // 0101xx1 - load/store sign-extended byte/halfword
		return decodeLoadStoreSignExt(hw1, in)
	case hw1&0xe000 == 0x6000: // 011xx - load/store with immediate offset (word/byte)
		return decodeLoadStoreImm(hw1, in)
	case hw1&0xf000 == 0x8000: // 1000x - load/store halfword
		return decodeLoadStoreHalfwordImm(hw1, in)
	case hw1&0xf000 == 0x9000: // 1001x - SP-relative load/store
		return decodeSPRelativeLoadStore(hw1, in)
	case hw1&0xf000 == 0xa000: // 1010x - load address
		return decodeLoadAddress(hw1, in)
	case hw1&0xff00 == 0xb000 || hw1&0xff00 == 0xb080: // 10110000 - add offset to SP
		return decodeAddSubSP(hw1, in)
	case hw1&0xf600 == 0xb400: // 1011x10x - push/pop
		return decodePushPop(hw1, in)
	case hw1&0xff00 == 0xb200: // SXTH/SXTB/UXTH/UXTB
		return decodeExtend(hw1, in)
	case hw1&0xff00 == 0xba00:
		return decodeReverse(hw1, in)
	case hw1&0xff00 == 0xbf00 && hw1&0x000f != 0: // IT
		return decodeIT(hw1, in)
	case hw1&0xffff == 0xbf00: // NOP
		in.Family, in.Mnemonic = FamHint, "nop"
		return in, nil
	case hw1&0xff00 == 0xbf00: // hints: YIELD/WFE/WFI/SEV
		return decodeHint(hw1, in)
	case hw1&0xff00 == 0xbe00: // BKPT
		in.Family, in.Mnemonic = FamBKPT, "bkpt"
		in.Imm = uint32(hw1 & 0xff)
		return in, nil
	case hw1&0xf500 == 0xb100: // CBZ/CBNZ
		return decodeCBZ(hw1, in)
	case hw1&0xf000 == 0xc000: // 1100x - multiple load/store
		return decodeMultipleLoadStore(hw1, in)
	case hw1&0xff00 == 0xdf00: // SVC
		in.Family, in.Mnemonic = FamSVC, "svc"
		in.Imm = uint32(hw1 & 0xff)
		return in, nil
	case hw1&0xf000 == 0xd000: // 1101x - conditional branch
		return decodeCondBranch(hw1, in)
	case hw1&0xf800 == 0xe000: // 11100 - unconditional branch
		return decodeUncondBranch(hw1, in)
	}

	in.Family = FamUnknown
	return in, armerr.New(armerr.UndefinedInstruction, addr, hw1)
}

// decode32 dispatches a 32-bit Thumb-2 encoding. Only the families in the
// switch below are recognised; for everything else in the (very large)
// Thumb-2 encoding space it returns an UnimplementedInstruction error
// together with an Instruction that still reports the size and raw
// halfwords.
func decode32(hw1, hw2 uint16, addr uint32, profile config.Profile) (Instruction, error) {
	in := Instruction{SizeBytes: 4, Cond: 0b1110, Address: addr, Hw1: hw1, Hw2: hw2}

	op1 := (hw1 >> 11) & 0b11 // bits 12:11, always 0b10/0b11 for BL but op field below is what matters
	op2 := (hw1 >> 4) & 0x7f  // bits 10:4

	switch {
	case hw1&0xf800 == 0xf000 && hw2&0xd000 == 0xd000: // BL / BLX immediate
		return decodeBL(hw1, hw2, in)

	case hw1&0xf800 == 0xf000 && hw2&0xd000 == 0x8000 && op1 == 0b10 && op2&0x38 != 0x38: // B<c>.W
		return decodeCondBranchOrMiscWide(hw1, hw2, in)

	case hw1&0xfbe0 == 0xf240: // MOVW
		return decodeMovWideImm(hw1, hw2, in, false)
	case hw1&0xfbe0 == 0xf2c0: // MOVT
		return decodeMovWideImm(hw1, hw2, in, true)

	case hw1&0xfa00 == 0xf000 && hw2&0x8000 == 0: // data-processing modified immediate
		if !profile.SupportsWideDataProcessing() {
			break
		}
		return decodeDPModImm(hw1, hw2, in)

	case hw1&0xff80 == 0xea00 || hw1&0xff80 == 0xea80 || // AND/TST/BIC/ORR/MOV/LSL../ORN/MVN (register/shifted)
		hw1&0xff80 == 0xeb00 || hw1&0xff80 == 0xeb80: // ADD/CMN/SUB/CMP (register/shifted)
		if !profile.SupportsWideDataProcessing() {
			break
		}
		return decodeDPShiftedReg(hw1, hw2, in)

	case hw1&0xfe40 == 0xf840 || hw1&0xff00 == 0xf800 || hw1&0xff00 == 0xf900 ||
		hw1&0xff00 == 0xfa00 && op2&0x70 == 0x00:
		if !profile.SupportsWideDataProcessing() {
			break
		}
		if ld, err, ok := decodeLoadStoreSingleWide(hw1, hw2, in); ok {
			return ld, err
		}

	case hw1&0xfe40 == 0xe800: // LDM/STM (bit 6 clear; set for LDREX/STREX/TBB/TBH)
		if !profile.SupportsWideDataProcessing() {
			break
		}
		return decodeLoadStoreMultipleWide(hw1, hw2, in)

	case hw1&0xffd0 == 0xfb90 && hw2&0xf0f0 == 0xf0f0: // UDIV (0xfbbx) / SDIV (0xfb9x)
		if !profile.SupportsWideDataProcessing() {
			break
		}
		div, err := decodeMulDiv(hw1, hw2, in)
		if hw1&0x0020 != 0 {
			div.Mnemonic, div.Opcode = "udiv", 0
		}
		return div, err
	case hw1&0xfff0 == 0xfb00 && hw2&0x00e0 == 0: // MUL/MLA/MLS
		if !profile.SupportsWideDataProcessing() {
			break
		}
		return decodeMulDiv(hw1, hw2, in)

	case hw1&0xfff0 == 0xe8d0 && hw2&0xf0e0 == 0xf000: // TBB/TBH
		if !profile.SupportsWideDataProcessing() {
			break
		}
		return decodeTableBranch(hw1, hw2, in)

	case hw1 == 0xf3ef: // MRS
		return decodeMRS(hw1, hw2, in)
	case hw1&0xfff0 == 0xf380 && hw2&0xff00 == 0x8800: // MSR
		return decodeMSR(hw1, hw2, in)
	case hw1 == 0xf3bf && hw2&0xfff0 == 0x8f20: // CLREX
		in.Family, in.Mnemonic = FamExclusive, "clrex"
		in.Opcode = 2
		return in, nil
	case hw1 == 0xf3bf: // DMB/DSB/ISB/barriers, misc control hints
		return decodeMiscControlWide(hw1, hw2, in)
	case hw1&0xfff0 == 0xf3af && hw2&0xff00 == 0x8000: // CPS (wide)
		in.Family, in.Mnemonic = FamMiscControl, "cps"
		in.Opcode = uint8(hw2 >> 8 & 0x1f)
		return in, nil

	case hw1&0xfff0 == 0xe850: // LDREX
		in.Family, in.Mnemonic = FamExclusive, "ldrex"
		in.Opcode = 0
		in.Rn = uint8(hw1 & 0xf)
		in.Rt = uint8(hw2 >> 12 & 0xf)
		in.Imm = uint32(hw2&0xff) << 2
		return in, nil
	case hw1&0xfff0 == 0xe840: // STREX
		in.Family, in.Mnemonic = FamExclusive, "strex"
		in.Opcode = 1
		in.Rn = uint8(hw1 & 0xf)
		in.Rt = uint8(hw2 >> 12 & 0xf)
		in.Rd = uint8(hw2 >> 8 & 0xf)
		in.Imm = uint32(hw2&0xff) << 2
		return in, nil
	}

	in.Family = FamUnknown
	return in, armerr.New(armerr.UnimplementedInstruction, addr, hw1, hw2)
}
