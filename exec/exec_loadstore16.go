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

func execPCRelativeLoad(in decode.Instruction, st *cpu.State, mem *memory.Space) error {
	base := (st.ReadReg(cpu.R15) &^ 0b11)
	v, err := mem.Read(base+in.Imm, 4)
	if err != nil {
		return err
	}
	st.WriteReg(in.Rt, v)
	return nil
}

func execLoadStoreReg(in decode.Instruction, st *cpu.State, mem *memory.Space) error {
	addr := st.ReadReg(in.Rn) + st.ReadReg(in.Rm)
	switch in.Opcode {
	case 0: // STR
		return mem.Write(addr, 4, st.ReadReg(in.Rt))
	case 1: // STRH
		return mem.Write(addr, 2, st.ReadReg(in.Rt)&0xffff)
	case 2: // STRB
		return mem.Write(addr, 1, st.ReadReg(in.Rt)&0xff)
	case 3: // LDRSB
		v, err := mem.Read(addr, 1)
		if err != nil {
			return err
		}
		st.WriteReg(in.Rt, uint32(bits.SignExtend(v, 8)))
	case 4: // LDR
		v, err := mem.Read(addr, 4)
		if err != nil {
			return err
		}
		st.WriteReg(in.Rt, v)
	case 5: // LDRH
		v, err := mem.Read(addr, 2)
		if err != nil {
			return err
		}
		st.WriteReg(in.Rt, v)
	case 6: // LDRB
		v, err := mem.Read(addr, 1)
		if err != nil {
			return err
		}
		st.WriteReg(in.Rt, v)
	case 7: // LDRSH
		v, err := mem.Read(addr, 2)
		if err != nil {
			return err
		}
		st.WriteReg(in.Rt, uint32(bits.SignExtend(v, 16)))
	}
	return nil
}

func execLoadStoreImm(in decode.Instruction, st *cpu.State, mem *memory.Space) error {
	addr := st.ReadReg(in.Rn) + in.Imm
	isByte := in.Opcode&0b10 != 0
	isLoad := in.Opcode&0b01 != 0
	width := uint8(4)
	if isByte {
		width = 1
	}
	if isLoad {
		v, err := mem.Read(addr, width)
		if err != nil {
			return err
		}
		st.WriteReg(in.Rt, v)
		return nil
	}
	return mem.Write(addr, width, st.ReadReg(in.Rt))
}

func execLoadStoreHalfwordImm(in decode.Instruction, st *cpu.State, mem *memory.Space) error {
	addr := st.ReadReg(in.Rn) + in.Imm
	if in.Opcode == 1 {
		v, err := mem.Read(addr, 2)
		if err != nil {
			return err
		}
		st.WriteReg(in.Rt, v)
		return nil
	}
	return mem.Write(addr, 2, st.ReadReg(in.Rt)&0xffff)
}

func execSPRelativeLoadStore(in decode.Instruction, st *cpu.State, mem *memory.Space) error {
	addr := st.ReadReg(cpu.R13) + in.Imm
	if in.Opcode == 1 {
		v, err := mem.Read(addr, 4)
		if err != nil {
			return err
		}
		st.WriteReg(in.Rt, v)
		return nil
	}
	return mem.Write(addr, 4, st.ReadReg(in.Rt))
}

func execLoadAddress(in decode.Instruction, st *cpu.State) error {
	var base uint32
	if in.Opcode == 1 {
		base = st.ReadReg(cpu.R13)
	} else {
		base = st.ReadReg(cpu.R15) &^ 0b11
	}
	st.WriteReg(in.Rd, base+in.Imm)
	return nil
}

func execAddSubSP(in decode.Instruction, st *cpu.State) error {
	sp := st.ReadReg(cpu.R13)
	if in.Opcode == 1 {
		st.SetSP(sp - in.Imm)
	} else {
		st.SetSP(sp + in.Imm)
	}
	return nil
}

func execPushPop(in decode.Instruction, st *cpu.State, mem *memory.Space) error {
	if in.Opcode == 1 { // POP: ascending addresses, lowest register first
		addr := st.ReadReg(cpu.R13)
		for r := 0; r < 16; r++ {
			if in.RegList&(1<<uint(r)) == 0 {
				continue
			}
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
			addr += 4
		}
		st.SetSP(addr)
		return nil
	}

	// PUSH: store highest register at the highest address, SP decremented first
	count := popcount16(in.RegList)
	addr := st.ReadReg(cpu.R13) - uint32(count)*4
	st.SetSP(addr)
	for r := 0; r < 16; r++ {
		if in.RegList&(1<<uint(r)) == 0 {
			continue
		}
		if err := mem.Write(addr, 4, st.ReadReg(uint8(r))); err != nil {
			return err
		}
		addr += 4
	}
	return nil
}

func popcount16(v uint16) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}

func execMultipleLoadStore(in decode.Instruction, st *cpu.State, mem *memory.Space) error {
	addr := st.ReadReg(in.Rn)
	writesBack := true
	for r := 0; r < 16; r++ {
		if in.RegList&(1<<uint(r)) == 0 {
			continue
		}
		if in.Opcode == 1 { // LDM
			v, err := mem.Read(addr, 4)
			if err != nil {
				return err
			}
			st.WriteReg(uint8(r), v)
			if uint8(r) == in.Rn {
				writesBack = false
			}
		} else { // STM
			if err := mem.Write(addr, 4, st.ReadReg(uint8(r))); err != nil {
				return err
			}
		}
		addr += 4
	}
	if writesBack {
		st.WriteReg(in.Rn, addr)
	}
	return nil
}
