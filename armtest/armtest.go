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

// Package armtest is a small test harness for exercising thumbm.Processor
// without a real firmware image: a flat RAM region, a vector-table writer,
// and helpers for assembling the handful of encodings the test suite needs
// inline. Grounded on the teacher's prepareTestARM helper, which built a
// minimal ARM7TDMI coprocessor memory map by hand for unit tests rather
// than loading a cartridge ROM.
package armtest

import (
	"encoding/binary"

	thumbm "github.com/markspec/thumbcore"
	"github.com/markspec/thumbcore/config"
)

// Default layout for a test image: code at CodeBase, a stack growing down
// from StackTop, and a vector table at VectorBase, which is VTOR's reset
// value of 0, so Reset and exception entry read it without VTOR being
// written.
const (
	VectorBase = 0x00000000
	CodeBase   = 0x00000100
	CodeSize   = 0x1000
	RAMBase    = 0x20000000
	RAMSize    = 0x1000
	StackTop   = RAMBase + RAMSize
)

// Harness wraps a Processor pre-configured with a RAM region and a vector
// table, ready to have code written into it and stepped.
type Harness struct {
	*thumbm.Processor
}

// New returns a Harness for the given architecture profile with RAM mapped
// at RAMBase and a vector table at VectorBase whose entry 0 (initial SP) is
// StackTop and entry 1 (reset) is CodeBase; every other entry starts at
// zero.
func New(arch config.Architecture) *Harness {
	p := thumbm.NewProcessor(config.DefaultProfile(arch))
	// one region spans the vector table and the code space that follows it,
	// since CodeBase is where LoadCode starts writing and must itself fall
	// inside the mapped range, not just up to it.
	if err := p.Map(VectorBase, make([]byte, CodeBase+CodeSize-VectorBase)); err != nil {
		panic(err)
	}
	if err := p.Map(RAMBase, make([]byte, RAMSize)); err != nil {
		panic(err)
	}
	h := &Harness{Processor: p}
	h.SetVector(0, StackTop)
	h.SetVector(1, CodeBase|1)
	return h
}

// SetVector writes entry n (4 bytes, little-endian) of the vector table.
func (h *Harness) SetVector(n int, value uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	for i, b := range buf {
		addr := VectorBase + uint32(n*4+i)
		if err := h.Processor.Memory().Write(addr, 1, uint32(b)); err != nil {
			panic(err)
		}
	}
}

// LoadCode writes halfwords (assembled by the caller by hand, as every
// test in this module's suite does) starting at CodeBase and points PC
// there directly, bypassing the VTOR-driven Reset sequence - useful when a
// test wants to drop straight into a function body without modelling a
// full reset.
func (h *Harness) LoadCode(halfwords ...uint16) {
	addr := uint32(CodeBase)
	for _, hw := range halfwords {
		if err := h.Processor.Memory().Write(addr, 2, uint32(hw)); err != nil {
			panic(err)
		}
		addr += 2
	}
	h.SetPC(CodeBase)
	h.SetSP(StackTop)
}

// RunToHalt executes up to maxInstructions instructions, returning early if
// PC ever equals haltPC (the convention this harness's tests use to mark
// "end of test function", typically a trailing loop-in-place branch).
func (h *Harness) RunToHalt(haltPC uint32, maxInstructions uint64) error {
	for i := uint64(0); i < maxInstructions; i++ {
		if h.Processor.ReadReg(15) == haltPC {
			return nil
		}
		if _, err := h.Processor.Step(); err != nil {
			return err
		}
	}
	return nil
}
