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

// Package decode classifies a 16- or 32-bit Thumb halfword stream and
// produces a semantic Instruction descriptor. The decoder is pure: given
// the same halfwords and architecture profile it always produces the same
// result, and it never touches processor state. Families not yet wired to
// an exec.Execute implementation are still decoded (so the host can
// disassemble them) but are reported as UnimplementedInstruction if the
// driver attempts to execute them.
package decode

// ShiftType identifies a barrel-shifter operation attached to a register
// operand.
type ShiftType uint8

const (
	ShiftLSL ShiftType = iota
	ShiftLSR
	ShiftASR
	ShiftROR
	ShiftRRX
)

// ShiftSpec is a shift-type/amount pair, as decoded from a shifted-register
// operand.
type ShiftSpec struct {
	Type   ShiftType
	Amount uint8
}

// Family tags the instruction's semantic group; exec.Execute switches on
// this to apply the right pseudocode.
type Family int

const (
	FamUnknown Family = iota

	// data processing, 16-bit Thumb-1
	FamShiftImm   // LSL/LSR/ASR Rd, Rm, #imm
	FamAddSubReg  // ADD/SUB Rd, Rn, Rm
	FamAddSubImm3 // ADD/SUB Rd, Rn, #imm3
	FamMovCmpAddSubImm8
	FamALUReg // AND/EOR/LSL/LSR/ASR/ADC/SBC/ROR/TST/RSB/CMP/CMN/ORR/MUL/BIC/MVN
	FamHiRegOp
	FamBranchExchange // BX/BLX Rm
	FamPCRelativeLoad
	FamLoadStoreReg // register-offset load/store (formats 7 and 8)
	FamLoadStoreImm // immediate-offset load/store (format 9)
	FamLoadStoreHalfwordImm
	FamSPRelativeLoadStore
	FamLoadAddress // ADR / ADD Rd, SP, #imm
	FamAddSubSP
	FamExtend // SXTB/SXTH/UXTB/UXTH
	FamReverse // REV/REV16/REVSH
	FamPushPop
	FamCBZ
	FamIT
	FamHint // NOP/YIELD/WFE/WFI/SEV
	FamBKPT
	FamSVC
	FamMultipleLoadStore // LDM/STM
	FamCondBranch
	FamUncondBranch
	FamBL // BL/BLX immediate (32-bit)

	// 32-bit Thumb-2
	FamDPShiftedReg // ADD/SUB/AND/ORR/EOR/BIC/CMP/CMN/MOV/MVN (register, optional shift)
	FamDPModImm     // ADD/SUB/AND/ORR/EOR/BIC/CMP/CMN/TST/TEQ/MOV/MVN (modified immediate)
	FamMovWideImm   // MOVW/MOVT
	FamLoadStoreSingleWide
	FamLoadStoreMultipleWide
	FamMulDiv   // MUL/MLA/MLS/UDIV/SDIV
	FamCondBranchWide
	FamUncondBranchWide
	FamTableBranch // TBB/TBH
	FamMiscControl // MRS/MSR/CPS/DMB/DSB/ISB
	FamExclusive   // LDREX/STREX/CLREX
)

// Instruction is the decoder's output: a tagged variant plus a flat set of
// optional operand fields. Its lifetime is one execute step.
type Instruction struct {
	Family Family

	SizeBytes uint8 // 2 or 4
	Cond      uint8 // condition field decoded from the instruction itself (B<c>); AL (0b1110) otherwise
	SetFlags  bool

	Opcode uint8 // family-specific sub-opcode selector

	Rd, Rn, Rm, Rt, Rt2 uint8
	RegList             uint16 // bitmask for LDM/STM/PUSH/POP

	Imm   uint32
	Shift ShiftSpec

	// Address is the instruction's own address, filled in by Decode; used
	// for PC-relative operand computation and for error messages.
	Address uint32

	// raw halfwords, kept for disassembly and error reporting
	Hw1, Hw2 uint16

	Mnemonic string // canonical mnemonic for disassembly / error messages
}
