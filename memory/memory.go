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

// Package memory implements the processor's address space: a small ordered
// table of non-overlapping regions (RAM, ROM, or a peripheral object)
// routed to by a linear scan, width-parameterized byte/halfword/word
// access, and the alignment policy the spec pins to UsageFault. It also
// defines the Peripheral contract (C4) that custom objects implement to be
// mapped into the space.
package memory

import (
	"github.com/markspec/thumbcore/armerr"
	"github.com/markspec/thumbcore/logger"
)

// Peripheral is the capability set a custom object must implement to be
// mapped into the address space at a fixed base address. offset is
// relative to the peripheral's base. Tick is called once per executed
// instruction by the execution driver, with a fixed increment (ordinarily
// 1); peripherals that model real time apply their own scaling.
type Peripheral interface {
	Read(offset uint32, width uint8) (uint32, error)
	Write(offset uint32, width uint8, value uint32) error
	Tick(cycles uint64)
}

type backingKind int

const (
	backingRAM backingKind = iota
	backingROM
	backingPeripheral
)

type region struct {
	base uint32
	len  uint32

	kind  backingKind
	bytes []byte    // RAM and ROM
	periph Peripheral // backingPeripheral
}

func (r *region) contains(addr uint32) bool {
	return addr >= r.base && addr < r.base+r.len
}

func (r *region) overlaps(base, length uint32) bool {
	end := base + length
	rEnd := r.base + r.len
	return base < rEnd && r.base < end
}

// Space is the processor's owned table of memory regions.
type Space struct {
	regions []*region
}

// NewSpace returns an empty address space.
func NewSpace() *Space {
	return &Space{}
}

// Map installs a writable RAM region at base, sized and initialized from
// initial. Fails with armerr.MapConflict if the range overlaps an existing
// mapping.
func (sp *Space) Map(base uint32, initial []byte) error {
	return sp.addRegion(base, uint32(len(initial)), backingRAM, append([]byte(nil), initial...), nil)
}

// MapROM installs a read-only region at base.
func (sp *Space) MapROM(base uint32, initial []byte) error {
	return sp.addRegion(base, uint32(len(initial)), backingROM, append([]byte(nil), initial...), nil)
}

// MapPeripheral installs a peripheral object covering [base, base+length).
func (sp *Space) MapPeripheral(base, length uint32, p Peripheral) error {
	return sp.addRegion(base, length, backingPeripheral, nil, p)
}

func (sp *Space) addRegion(base, length uint32, kind backingKind, bytes []byte, p Peripheral) error {
	if length == 0 {
		return armerr.New(armerr.InvalidConfiguration, "region length must be non-zero")
	}
	for _, r := range sp.regions {
		if r.overlaps(base, length) {
			return armerr.New(armerr.MapConflict, base, base+length)
		}
	}
	sp.regions = append(sp.regions, &region{base: base, len: length, kind: kind, bytes: bytes, periph: p})
	return nil
}

// find does the linear region scan described in spec section 4.3: region
// counts are expected to be small (typically under 16) so a linear scan is
// simpler and fast enough.
func (sp *Space) find(addr uint32) *region {
	for _, r := range sp.regions {
		if r.contains(addr) {
			return r
		}
	}
	return nil
}

// checkAlignment applies the spec's pinned policy: unaligned halfword/word
// accesses to normal memory raise UsageFault(Unaligned). Byte accesses are
// always aligned. Peripheral regions are exempt - the peripheral decides.
func checkAlignment(addr uint32, width uint8, throughPeripheral bool) error {
	if throughPeripheral || width == 1 {
		return nil
	}
	if width == 2 && addr&1 != 0 {
		return armerr.New(armerr.UsageFault, "unaligned halfword access")
	}
	if width == 4 && addr&3 != 0 {
		return armerr.New(armerr.UsageFault, "unaligned word access")
	}
	return nil
}

// Read performs a little-endian, width-parameterized read. width must be
// one of 1, 2 or 4.
func (sp *Space) Read(addr uint32, width uint8) (uint32, error) {
	r := sp.find(addr)
	if r == nil {
		return 0, armerr.New(armerr.Unmapped, addr)
	}
	if err := checkAlignment(addr, width, r.kind == backingPeripheral); err != nil {
		return 0, err
	}

	if r.kind == backingPeripheral {
		return r.periph.Read(addr-r.base, width)
	}

	off := addr - r.base
	if off+uint32(width) > r.len {
		return 0, armerr.New(armerr.Unmapped, addr)
	}

	var v uint32
	for i := uint8(0); i < width; i++ {
		v |= uint32(r.bytes[off+uint32(i)]) << (8 * i)
	}
	return v, nil
}

// Write performs a little-endian, width-parameterized write.
func (sp *Space) Write(addr uint32, width uint8, value uint32) error {
	r := sp.find(addr)
	if r == nil {
		return armerr.New(armerr.Unmapped, addr)
	}
	if err := checkAlignment(addr, width, r.kind == backingPeripheral); err != nil {
		return err
	}

	if r.kind == backingPeripheral {
		return r.periph.Write(addr-r.base, width, value)
	}
	if r.kind == backingROM {
		logger.Logf(logger.Allow, "memory", "write to ROM at %#010x ignored", addr)
		return armerr.New(armerr.WriteToRom, addr)
	}

	off := addr - r.base
	if off+uint32(width) > r.len {
		return armerr.New(armerr.Unmapped, addr)
	}
	for i := uint8(0); i < width; i++ {
		r.bytes[off+uint32(i)] = byte(value >> (8 * i))
	}
	return nil
}

// ReadHalfwordForFetch reads one 16-bit Thumb halfword for instruction
// fetch. It asserts halfword alignment (the processor guarantees pc is
// always halfword-aligned, so a failure here indicates a host bug) and
// never traps to the normal alignment-fault handling; it is a distinct
// entry point from Read so that the driver's fetch path cannot be confused
// with a data access for diagnostic purposes.
func (sp *Space) ReadHalfwordForFetch(addr uint32) (uint16, error) {
	if addr&1 != 0 {
		return 0, armerr.New(armerr.UsageFault, "unaligned instruction fetch")
	}
	v, err := sp.Read(addr, 2)
	return uint16(v), err
}

// Tick advances every mapped peripheral's clock by cycles.
func (sp *Space) Tick(cycles uint64) {
	for _, r := range sp.regions {
		if r.kind == backingPeripheral {
			r.periph.Tick(cycles)
		}
	}
}

// FindPeripheral returns the peripheral mapped at base, if any, so the host
// can retrieve a concrete type (e.g. *scs.SCS) for direct manipulation.
func (sp *Space) FindPeripheral(base uint32) (Peripheral, bool) {
	for _, r := range sp.regions {
		if r.kind == backingPeripheral && r.base == base {
			return r.periph, true
		}
	}
	return nil, false
}
