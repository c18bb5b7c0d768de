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

package cpu_test

import (
	"testing"

	"github.com/markspec/thumbcore/cpu"
)

func TestSPWriteMasksLowBits(t *testing.T) {
	s := cpu.NewState()
	s.WriteReg(cpu.R13, 0x20001003)
	if got := s.ReadReg(cpu.R13); got != 0x20001000 {
		t.Errorf("expected low 2 bits to be cleared, got %#x", got)
	}
}

func TestReadPCObservesPipelineOffset(t *testing.T) {
	s := cpu.NewState()
	s.SetPC(0x1000)
	s.SetPipelineOffset(4)
	if got := s.ReadReg(cpu.R15); got != 0x1004 {
		t.Errorf("expected PC+4, got %#x", got)
	}
	s.SetPipelineOffset(0)
	if got := s.ReadReg(cpu.R15); got != 0x1000 {
		t.Errorf("expected raw PC after clearing offset, got %#x", got)
	}
}

func TestBankedStackPointers(t *testing.T) {
	s := cpu.NewState()
	s.SetMode(cpu.Thread)
	s.SetControl(cpu.Control{SPSel: true})
	s.WriteReg(cpu.R13, 0x1000)
	if s.SPProcess() != 0x1000 {
		t.Errorf("expected write to land in PSP, got %#x", s.SPProcess())
	}

	s.SetMode(cpu.Handler)
	if got := s.ReadReg(cpu.R13); got != s.SPMain() {
		t.Errorf("expected Handler mode to always read MSP")
	}
}

func TestWriteRegInterworkingRejectsArmState(t *testing.T) {
	s := cpu.NewState()
	if err := s.WriteRegInterworking(0x1000); err == nil {
		t.Errorf("expected error for bit 0 clear (ARM state)")
	}
	if err := s.WriteRegInterworking(0x1001); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if s.PC() != 0x1000 {
		t.Errorf("expected bit 0 to be cleared from PC, got %#x", s.PC())
	}
}

func TestCondPassed(t *testing.T) {
	cases := []struct {
		cond uint8
		st   cpu.Status
		want bool
	}{
		{0b0000, cpu.Status{Zero: true}, true},
		{0b0000, cpu.Status{Zero: false}, false},
		{0b1010, cpu.Status{Negative: true, Overflow: true}, true},
		{0b1011, cpu.Status{Negative: true, Overflow: false}, true},
		{0b1110, cpu.Status{}, true},
	}
	for _, c := range cases {
		if got := cpu.CondPassed(c.cond, c.st); got != c.want {
			t.Errorf("cond %04b: got %v, want %v", c.cond, got, c.want)
		}
	}
}

func TestAdvanceIT(t *testing.T) {
	// itt eq: base cond EQ, mask 0b0100 (then, end) - two instructions total.
	st := cpu.Status{ITCond: 0b0000, ITMask: 0b0100}
	if !st.InITBlock() {
		t.Fatalf("expected IT block active")
	}
	st.AdvanceIT()
	if st.ITMask != 0b1000 {
		t.Errorf("unexpected mask after first advance: %04b", st.ITMask)
	}
	if !st.LastInITBlock() {
		t.Errorf("expected one instruction left in the block")
	}
	st.AdvanceIT()
	if st.InITBlock() {
		t.Errorf("expected IT block to have ended")
	}
}

func TestAdvanceITTogglesElseCondition(t *testing.T) {
	// itte eq: base cond EQ, mask 0b0110 (then, else, end) - three
	// instructions, the third of which must evaluate as the inverse of the
	// first (NE rather than EQ).
	st := cpu.Status{ITCond: 0b0000, ITMask: 0b0110}
	if got := st.CurrentCond(0); got != 0b0000 {
		t.Errorf("instruction 1: got cond %04b, want EQ", got)
	}
	st.AdvanceIT()
	if got := st.CurrentCond(0); got != 0b0000 {
		t.Errorf("instruction 2: got cond %04b, want EQ", got)
	}
	st.AdvanceIT()
	if got := st.CurrentCond(0); got != 0b0001 {
		t.Errorf("instruction 3: got cond %04b, want NE (else)", got)
	}
	st.AdvanceIT()
	if st.InITBlock() {
		t.Errorf("expected IT block to have ended")
	}
}

func TestStatusPackRoundtrip(t *testing.T) {
	st := cpu.Status{Negative: true, Carry: true, Exception: 15, ITCond: 0b0001, ITMask: 0b1000}
	packed := st.Pack()
	got := cpu.Unpack(packed)
	if got != st {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", got, st)
	}
}
