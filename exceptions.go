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

package thumbm

import (
	"github.com/markspec/thumbcore/cpu"
	"github.com/markspec/thumbcore/scs"
)

// excReturnBase identifies an EXC_RETURN token: bits 31:4 are all 1, bit 0
// is always 1 (Thumb), bit 2 selects the stack the frame was pushed to (0 =
// MSP, 1 = PSP), and bit 3 selects the mode being returned to (0 = Handler,
// a nested return; 1 = Thread), per "B1.5.8 Exception return behavior".
const excReturnBase = 0xfffffff1

// shouldPreempt reports whether the pending exception excNum is of higher
// priority than whatever is currently active, per the simplified priority
// model resolved in the design ledger: fixed system-exception ordering,
// then NVIC IRQ number, with no sub-priority comparison and no late-arrival
// preemption mid-entry.
func (p *Processor) shouldPreempt(excNum uint16) bool {
	active := p.state.Status().Exception
	if active == 0 {
		return true
	}
	return exceptionRank(excNum) < exceptionRank(active)
}

// exceptionRank gives a total order over exception numbers matching
// PendingException's priority scan: lower rank preempts higher rank.
func exceptionRank(excNum uint16) int {
	switch excNum {
	case scs.ExcNMI:
		return 0
	case scs.ExcHardFault:
		return 1
	case scs.ExcMemManage:
		return 2
	case scs.ExcBusFault:
		return 3
	case scs.ExcUsageFault:
		return 4
	case scs.ExcSVCall:
		return 5
	case scs.ExcPendSV:
		return 6
	case scs.ExcSysTick:
		return 7
	}
	if excNum >= scs.ExcExternal0 {
		return 8 + int(excNum-scs.ExcExternal0)
	}
	return 1000
}

// enterException runs the exception entry sequence from spec section 6:
// push the 8-word hardware stack frame to the bank selected by the current
// CONTROL/mode, switch to Handler mode with MSP selected, load IPSR with
// excNum, clear the IT state, and branch to the vector in the table at
// VTOR + 4*excNum.
func (p *Processor) enterException(excNum uint16) error {
	frame := [8]uint32{
		p.state.ReadReg(cpu.R0),
		p.state.ReadReg(cpu.R1),
		p.state.ReadReg(cpu.R2),
		p.state.ReadReg(cpu.R3),
		p.state.ReadReg(cpu.R12),
		p.state.LR(),
		p.state.PC(),
		p.state.Status().Pack(),
	}

	wasThread := p.state.Mode() == cpu.Thread
	spsel := p.state.Control().SPSel && wasThread
	sp := p.state.ReadReg(cpu.R13) - 32
	for i, word := range frame {
		if err := p.mem.Write(sp+uint32(i*4), 4, word); err != nil {
			return err
		}
	}
	p.state.WriteReg(cpu.R13, sp)

	excReturn := uint32(excReturnBase)
	if spsel {
		excReturn |= 1 << 2
	}
	if wasThread {
		excReturn |= 1 << 3
	}
	p.state.SetLR(excReturn)

	p.state.SetMode(cpu.Handler)
	status := p.state.Status()
	status.Exception = excNum
	status.ITCond, status.ITMask = 0, 0
	p.state.SetStatus(status)
	p.scs.ClearPending(excNum)

	vector, err := p.mem.Read(p.scs.VTOR()+4*uint32(excNum), 4)
	if err != nil {
		return err
	}
	return p.state.WriteRegInterworking(vector | 1)
}

// exceptionReturn implements BX/POP-to-PC with an EXC_RETURN value in the
// target register: it unwinds the 8-word frame from whichever stack the
// token names, restores the mode/SPSEL it encodes, and resumes at the
// popped return address. Called by the driver whenever a branch target
// written by WriteRegInterworking matches the EXC_RETURN pattern.
func (p *Processor) exceptionReturn(token uint32) error {
	returningSP := p.state.SPMain()
	if token&(1<<2) != 0 {
		returningSP = p.state.SPProcess()
	}

	var frame [8]uint32
	for i := range frame {
		v, err := p.mem.Read(returningSP+uint32(i*4), 4)
		if err != nil {
			return err
		}
		frame[i] = v
	}

	p.state.WriteReg(cpu.R0, frame[0])
	p.state.WriteReg(cpu.R1, frame[1])
	p.state.WriteReg(cpu.R2, frame[2])
	p.state.WriteReg(cpu.R3, frame[3])
	p.state.WriteReg(cpu.R12, frame[4])
	p.state.SetLR(frame[5])
	newSP := returningSP + 32

	control := p.state.Control()
	control.SPSel = token&(1<<2) != 0
	p.state.SetControl(control)
	if control.SPSel {
		p.state.SetSPProcess(newSP)
	} else {
		p.state.SetSPMain(newSP)
	}

	if token&(1<<3) != 0 {
		p.state.SetMode(cpu.Thread)
	} else {
		p.state.SetMode(cpu.Handler)
	}

	p.state.SetStatus(cpu.Unpack(frame[7]))
	return p.state.WriteRegInterworking(frame[6] | 1)
}

// isExcReturn reports whether v is an EXC_RETURN token (bits 31:4 all set).
func isExcReturn(v uint32) bool {
	return v&0xfffffff0 == 0xfffffff0
}
