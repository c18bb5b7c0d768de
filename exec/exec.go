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

// Package exec implements the pseudocode-level semantics of each
// instruction family decode.Decode produces. Every Execute call assumes
// its caller (the thumbm driver) has already resolved conditional
// execution - whether from an encoded B<c> condition or an active IT
// block - and calls Execute only for instructions that are actually to
// run; a skipped instruction never reaches this package.
package exec

import (
	"github.com/markspec/thumbcore/armerr"
	"github.com/markspec/thumbcore/bits"
	"github.com/markspec/thumbcore/cpu"
	"github.com/markspec/thumbcore/decode"
	"github.com/markspec/thumbcore/memory"
)

// Execute runs one already-condition-resolved instruction against st and
// mem. Branching instructions update st's PC directly; the caller detects
// whether a branch was taken by comparing PC before and after the call.
func Execute(in decode.Instruction, st *cpu.State, mem *memory.Space) error {
	switch in.Family {
	case decode.FamShiftImm:
		return execShiftImm(in, st)
	case decode.FamAddSubReg, decode.FamAddSubImm3:
		return execAddSub3(in, st)
	case decode.FamMovCmpAddSubImm8:
		return execMovCmpAddSubImm8(in, st)
	case decode.FamALUReg:
		return execALUReg(in, st)
	case decode.FamHiRegOp:
		return execHiRegOp(in, st)
	case decode.FamBranchExchange:
		return execBranchExchange(in, st)
	case decode.FamPCRelativeLoad:
		return execPCRelativeLoad(in, st, mem)
	case decode.FamLoadStoreReg:
		return execLoadStoreReg(in, st, mem)
	case decode.FamLoadStoreImm:
		return execLoadStoreImm(in, st, mem)
	case decode.FamLoadStoreHalfwordImm:
		return execLoadStoreHalfwordImm(in, st, mem)
	case decode.FamSPRelativeLoadStore:
		return execSPRelativeLoadStore(in, st, mem)
	case decode.FamLoadAddress:
		return execLoadAddress(in, st)
	case decode.FamAddSubSP:
		return execAddSubSP(in, st)
	case decode.FamExtend:
		return execExtend(in, st)
	case decode.FamReverse:
		return execReverse(in, st)
	case decode.FamPushPop:
		return execPushPop(in, st, mem)
	case decode.FamCBZ:
		return execCBZ(in, st)
	case decode.FamIT:
		return execIT(in, st)
	case decode.FamHint:
		return nil // NOP/YIELD/WFE/WFI/SEV have no architectural side effect visible to this model
	case decode.FamBKPT:
		return armerr.New(armerr.HardFault, "breakpoint")
	case decode.FamSVC:
		return nil // svc/svcall exception request is raised by the driver, not here
	case decode.FamMultipleLoadStore:
		return execMultipleLoadStore(in, st, mem)
	case decode.FamCondBranch, decode.FamCondBranchWide, decode.FamUncondBranch, decode.FamUncondBranchWide:
		return execBranch(in, st)
	case decode.FamBL:
		return execBL(in, st)
	case decode.FamDPShiftedReg:
		return execDPShiftedReg(in, st)
	case decode.FamDPModImm:
		return execDPModImm(in, st)
	case decode.FamMovWideImm:
		return execMovWideImm(in, st)
	case decode.FamLoadStoreSingleWide:
		return execLoadStoreSingleWide(in, st, mem)
	case decode.FamLoadStoreMultipleWide:
		return execLoadStoreMultipleWide(in, st, mem)
	case decode.FamMulDiv:
		return execMulDiv(in, st)
	case decode.FamTableBranch:
		return execTableBranch(in, st, mem)
	case decode.FamMiscControl:
		return execMiscControl(in, st)
	case decode.FamExclusive:
		return execExclusive(in, st, mem)
	}
	return armerr.New(armerr.UnimplementedInstruction, in.Address, in.Hw1, in.Hw2)
}

// applyShift runs the barrel shifter described by spec against value, using
// carryIn for the RRX/zero-amount case, and returns the shifted value and
// the resulting carry-out.
func applyShift(spec decode.ShiftSpec, value uint32, carryIn bool) (uint32, bool) {
	switch spec.Type {
	case decode.ShiftLSL:
		return bits.LslC(value, spec.Amount)
	case decode.ShiftLSR:
		return bits.LsrC(value, spec.Amount)
	case decode.ShiftASR:
		return bits.AsrC(value, spec.Amount)
	case decode.ShiftROR:
		return bits.RorC(value, spec.Amount)
	case decode.ShiftRRX:
		return bits.RrxC(value, carryIn)
	}
	return value, carryIn
}
