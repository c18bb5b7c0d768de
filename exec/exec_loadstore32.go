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
	"github.com/markspec/thumbcore/memory"
)

// execLoadStoreSingleWide handles the wide (32-bit) single load/store
// family: T2 register-offset, T3 12-bit unsigned immediate, and T4 8-bit
// signed pre/post-indexed immediate, across byte/halfword/word and
// signed/unsigned variants.
func execLoadStoreSingleWide(in decode.Instruction, st *cpu.State, mem *memory.Space) error {
	opcode := in.Opcode
	isT4 := opcode&0x80 != 0
	isRegOffset := opcode&0x40 != 0
	base := opcode &^ 0xc0
	size := base >> 2 & 0x3
	isLoad := base&0x2 != 0
	isSigned := base&0x1 != 0

	width := uint8(4)
	switch size {
	case 0b00:
		width = 1
	case 0b01:
		width = 2
	case 0b10:
		width = 4
	}

	rn := st.ReadReg(in.Rn)
	var addr uint32
	var writeback bool
	var postIndexed bool

	switch {
	case isRegOffset:
		rm := st.ReadReg(in.Rm)
		shifted, _ := bits.LslC(rm, in.Shift.Amount)
		addr = rn + shifted
	case isT4:
		p := in.Shift.Amount&0x4 != 0
		u := in.Shift.Amount&0x2 != 0
		w := in.Shift.Amount&0x1 != 0
		offset := in.Imm
		if !u {
			offset = -offset
		}
		if p {
			addr = rn + offset
		} else {
			addr = rn
			postIndexed = true
		}
		writeback = w
		_ = postIndexed
	default: // T3: unsigned imm12, offset addressing, no writeback
		addr = rn + in.Imm
	}

	if isLoad {
		v, err := mem.Read(addr, width)
		if err != nil {
			return err
		}
		if isSigned {
			v = uint32(bits.SignExtend(v, width*8))
		}
		if writeback && postIndexed {
			st.WriteReg(in.Rn, rn+signedOffsetFromT4(in))
		} else if writeback {
			st.WriteReg(in.Rn, addr)
		}
		if in.Rt == cpu.R15 {
			return st.WriteRegInterworking(v | 1)
		}
		st.WriteReg(in.Rt, v)
		return nil
	}

	if err := mem.Write(addr, width, st.ReadReg(in.Rt)); err != nil {
		return err
	}
	if writeback && postIndexed {
		st.WriteReg(in.Rn, rn+signedOffsetFromT4(in))
	} else if writeback {
		st.WriteReg(in.Rn, addr)
	}
	return nil
}

func signedOffsetFromT4(in decode.Instruction) uint32 {
	u := in.Shift.Amount&0x2 != 0
	if u {
		return in.Imm
	}
	return -in.Imm
}

func execLoadStoreMultipleWide(in decode.Instruction, st *cpu.State, mem *memory.Space) error {
	addr := st.ReadReg(in.Rn)
	wback := in.SetFlags
	for r := 0; r < 16; r++ {
		if in.RegList&(1<<uint(r)) == 0 {
			continue
		}
		if in.Opcode == 1 {
			v, err := mem.Read(addr, 4)
			if err != nil {
				return err
			}
			if uint8(r) == cpu.R15 {
				if err := st.WriteRegInterworking(v | 1); err != nil {
					return err
				}
			} else {
				st.WriteReg(uint8(r), v)
			}
		} else {
			if err := mem.Write(addr, 4, st.ReadReg(uint8(r))); err != nil {
				return err
			}
		}
		addr += 4
	}
	if wback {
		st.WriteReg(in.Rn, addr)
	}
	return nil
}

func execTableBranch(in decode.Instruction, st *cpu.State, mem *memory.Space) error {
	base := st.ReadReg(in.Rn)
	if in.Rn == cpu.R15 {
		base = baseForBranch(st)
	}
	rm := st.ReadReg(in.Rm)

	var halfwords uint32
	if in.Opcode == 1 { // TBH
		v, err := mem.Read(base+rm*2, 2)
		if err != nil {
			return err
		}
		halfwords = v
	} else { // TBB
		v, err := mem.Read(base+rm, 1)
		if err != nil {
			return err
		}
		halfwords = v
	}
	st.SetPC(baseForBranch(st) + halfwords*2)
	return nil
}

func execExclusive(in decode.Instruction, st *cpu.State, mem *memory.Space) error {
	switch in.Opcode {
	case 0: // LDREX
		v, err := mem.Read(st.ReadReg(in.Rn)+in.Imm, 4)
		if err != nil {
			return err
		}
		st.WriteReg(in.Rt, v)
		st.SetExclusiveMonitor(true)
	case 1: // STREX
		if !st.ExclusiveMonitor() {
			st.WriteReg(in.Rd, 1) // failed
			return nil
		}
		if err := mem.Write(st.ReadReg(in.Rn)+in.Imm, 4, st.ReadReg(in.Rt)); err != nil {
			return err
		}
		st.WriteReg(in.Rd, 0) // succeeded
		st.SetExclusiveMonitor(false)
	case 2: // CLREX
		st.SetExclusiveMonitor(false)
	}
	return nil
}
