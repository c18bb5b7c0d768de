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

import "fmt"

// String renders a disassembly line in a plain "mnemonic operands" form,
// grounded on the teacher's DisasmEntry.String() output shape, but
// generalized across every family this package decodes rather than one
// fixed set of ARM7TDMI opcodes.
func (in Instruction) String() string {
	switch in.Family {
	case FamShiftImm, FamAddSubImm3:
		return fmt.Sprintf("%s r%d, r%d, #%d", in.Mnemonic, in.Rd, in.Rm|in.Rn, in.Imm)
	case FamAddSubReg, FamALUReg:
		return fmt.Sprintf("%s r%d, r%d, r%d", in.Mnemonic, in.Rd, in.Rn, in.Rm)
	case FamMovCmpAddSubImm8:
		return fmt.Sprintf("%s r%d, #%d", in.Mnemonic, in.Rd, in.Imm)
	case FamHiRegOp:
		return fmt.Sprintf("%s r%d, r%d", in.Mnemonic, in.Rd, in.Rm)
	case FamBranchExchange:
		return fmt.Sprintf("%s r%d", in.Mnemonic, in.Rm)
	case FamPCRelativeLoad:
		return fmt.Sprintf("%s r%d, [pc, #%d]", in.Mnemonic, in.Rt, in.Imm)
	case FamLoadStoreReg:
		return fmt.Sprintf("%s r%d, [r%d, r%d]", in.Mnemonic, in.Rt, in.Rn, in.Rm)
	case FamLoadStoreImm, FamLoadStoreHalfwordImm:
		return fmt.Sprintf("%s r%d, [r%d, #%d]", in.Mnemonic, in.Rt, in.Rn, in.Imm)
	case FamSPRelativeLoadStore:
		return fmt.Sprintf("%s r%d, [sp, #%d]", in.Mnemonic, in.Rt, in.Imm)
	case FamLoadAddress:
		base := "pc"
		if in.Opcode == 1 {
			base = "sp"
		}
		return fmt.Sprintf("%s r%d, [%s, #%d]", in.Mnemonic, in.Rd, base, in.Imm)
	case FamAddSubSP:
		return fmt.Sprintf("%s sp, #%d", in.Mnemonic, in.Imm)
	case FamExtend, FamReverse:
		return fmt.Sprintf("%s r%d, r%d", in.Mnemonic, in.Rd, in.Rm)
	case FamPushPop:
		return fmt.Sprintf("%s {%s}", in.Mnemonic, formatRegList(in.RegList))
	case FamCBZ:
		return fmt.Sprintf("%s r%d, #%d", in.Mnemonic, in.Rn, in.Imm)
	case FamIT:
		return fmt.Sprintf("it %#x", in.Imm)
	case FamHint, FamBKPT, FamSVC:
		return in.Mnemonic
	case FamMultipleLoadStore, FamLoadStoreMultipleWide:
		return fmt.Sprintf("%s r%d!, {%s}", in.Mnemonic, in.Rn, formatRegList(in.RegList))
	case FamCondBranch, FamCondBranchWide:
		return fmt.Sprintf("b<%d> #%d", in.Cond, int32(in.Imm))
	case FamUncondBranch, FamUncondBranchWide:
		return fmt.Sprintf("b #%d", int32(in.Imm))
	case FamBL:
		return fmt.Sprintf("%s #%d", in.Mnemonic, int32(in.Imm))
	case FamDPShiftedReg:
		return fmt.Sprintf("%s r%d, r%d, r%d", in.Mnemonic, in.Rd, in.Rn, in.Rm)
	case FamDPModImm:
		return fmt.Sprintf("%s r%d, r%d, #%d", in.Mnemonic, in.Rd, in.Rn, in.Imm)
	case FamMovWideImm:
		return fmt.Sprintf("%s r%d, #%d", in.Mnemonic, in.Rd, in.Imm)
	case FamLoadStoreSingleWide:
		return fmt.Sprintf("%s r%d, [r%d, #%d]", in.Mnemonic, in.Rt, in.Rn, in.Imm)
	case FamMulDiv:
		return fmt.Sprintf("%s r%d, r%d, r%d", in.Mnemonic, in.Rd, in.Rn, in.Rm)
	case FamTableBranch:
		return fmt.Sprintf("%s [r%d, r%d]", in.Mnemonic, in.Rn, in.Rm)
	case FamMiscControl:
		return in.Mnemonic
	case FamExclusive:
		return fmt.Sprintf("%s r%d, [r%d]", in.Mnemonic, in.Rt, in.Rn)
	}
	return fmt.Sprintf("<%#04x %#04x>", in.Hw1, in.Hw2)
}

func formatRegList(list uint16) string {
	s := ""
	for i := 0; i < 16; i++ {
		if list&(1<<uint(i)) == 0 {
			continue
		}
		if s != "" {
			s += ","
		}
		s += fmt.Sprintf("r%d", i)
	}
	return s
}
