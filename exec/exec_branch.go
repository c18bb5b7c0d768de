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
	"github.com/markspec/thumbcore/cpu"
	"github.com/markspec/thumbcore/decode"
)

// execBranch handles every unconditional-once-reached branch family:
// conditional execution (IT block or B<c>'s own condition) has already
// been resolved by the driver before Execute is called, so this always
// takes the branch.
func execBranch(in decode.Instruction, st *cpu.State) error {
	st.SetPC(baseForBranch(st) + in.Imm)
	return nil
}

func execBL(in decode.Instruction, st *cpu.State) error {
	returnAddr := st.PC() + uint32(in.SizeBytes)
	st.SetLR(returnAddr | 1)
	st.SetPC(baseForBranch(st) + in.Imm)
	return nil
}
