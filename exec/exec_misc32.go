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

// special-purpose register numbers (SYSm field), per "B5.2.2 MRS" in the
// ARM ARM - only the subset a Cortex-M firmware commonly touches.
const (
	sysmAPSR      = 0x00
	sysmIPSR      = 0x05
	sysmEPSR      = 0x06
	sysmIEPSR     = 0x07
	sysmMSP       = 0x08
	sysmPSP       = 0x09
	sysmPRIMASK   = 0x10
	sysmBASEPRI   = 0x11
	sysmFAULTMASK = 0x13
	sysmCONTROL   = 0x14
)

func execMiscControl(in decode.Instruction, st *cpu.State) error {
	switch in.Mnemonic {
	case "mrs":
		st.WriteReg(in.Rd, readSpecialReg(st, uint8(in.Imm)))
	case "msr":
		writeSpecialReg(st, uint8(in.Imm), st.ReadReg(in.Rn))
	case "cps":
		applyCPS(st, in.Opcode)
	case "dsb", "dmb", "isb", "nop":
		// no externally observable effect in a single-core, single-memory
		// model with no speculation.
	}
	return nil
}

func readSpecialReg(st *cpu.State, sysm uint8) uint32 {
	status := st.Status()
	switch sysm {
	case sysmAPSR:
		return status.Pack() & 0xf8000000
	case sysmIPSR:
		return uint32(status.Exception)
	case sysmMSP:
		return st.SPMain()
	case sysmPSP:
		return st.SPProcess()
	case sysmPRIMASK:
		return boolToWord(st.PRIMASK())
	case sysmBASEPRI:
		return uint32(st.BASEPRI())
	case sysmFAULTMASK:
		return boolToWord(st.FAULTMASK())
	case sysmCONTROL:
		c := st.Control()
		var v uint32
		if c.NPriv {
			v |= 1
		}
		if c.SPSel {
			v |= 2
		}
		if c.FPCA {
			v |= 4
		}
		return v
	}
	return 0
}

func writeSpecialReg(st *cpu.State, sysm uint8, value uint32) {
	switch sysm {
	case sysmAPSR:
		status := st.Status()
		unpacked := cpu.Unpack(value & 0xf8000000)
		status.Negative, status.Zero, status.Carry, status.Overflow, status.Saturation =
			unpacked.Negative, unpacked.Zero, unpacked.Carry, unpacked.Overflow, unpacked.Saturation
		st.SetStatus(status)
	case sysmMSP:
		st.SetSPMain(value)
	case sysmPSP:
		st.SetSPProcess(value)
	case sysmPRIMASK:
		st.SetPRIMASK(value&1 != 0)
	case sysmBASEPRI:
		st.SetBASEPRI(uint8(value))
	case sysmFAULTMASK:
		st.SetFAULTMASK(value&1 != 0)
	case sysmCONTROL:
		st.SetControl(cpu.Control{NPriv: value&1 != 0, SPSel: value&2 != 0, FPCA: value&4 != 0})
	}
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// applyCPS handles CPSIE/CPSID's im bit (encoded here in Opcode bit 4) and
// target flags (I in bit0, F in bit1) as packed by decode32's CPS case in
// decode.go.
func applyCPS(st *cpu.State, opcode uint8) {
	enable := opcode&0x10 == 0 // im==0 means CPSIE (enable, clear the mask)
	affectsI := opcode&0x1 != 0
	affectsF := opcode&0x2 != 0
	if affectsI {
		st.SetPRIMASK(!enable)
	}
	if affectsF {
		st.SetFAULTMASK(!enable)
	}
}
