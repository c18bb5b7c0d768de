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

package memory_test

import (
	"errors"
	"testing"

	"github.com/markspec/thumbcore/armerr"
	"github.com/markspec/thumbcore/memory"
)

func TestMapAndReadWriteLittleEndian(t *testing.T) {
	sp := memory.NewSpace()
	if err := sp.Map(0x1000, make([]byte, 16)); err != nil {
		t.Fatalf("map failed: %v", err)
	}
	if err := sp.Write(0x1000, 4, 0x01020304); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	b, err := sp.Read(0x1000, 1)
	if err != nil || b != 0x04 {
		t.Errorf("expected byte 0 to be 0x04 (little endian), got %#x, err %v", b, err)
	}
	v, err := sp.Read(0x1000, 4)
	if err != nil || v != 0x01020304 {
		t.Errorf("expected roundtrip, got %#x, err %v", v, err)
	}
}

func TestMapConflict(t *testing.T) {
	sp := memory.NewSpace()
	if err := sp.Map(0x1000, make([]byte, 16)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := sp.Map(0x1008, make([]byte, 16))
	var ce armerr.CoreError
	if !errors.As(err, &ce) || ce.Errno != armerr.MapConflict {
		t.Errorf("expected MapConflict, got %v", err)
	}
}

func TestWriteToRomFails(t *testing.T) {
	sp := memory.NewSpace()
	sp.MapROM(0x0, make([]byte, 16))
	err := sp.Write(0x0, 4, 1)
	var ce armerr.CoreError
	if !errors.As(err, &ce) || ce.Errno != armerr.WriteToRom {
		t.Errorf("expected WriteToRom, got %v", err)
	}
}

func TestUnalignedWordAccessFaults(t *testing.T) {
	sp := memory.NewSpace()
	sp.Map(0x1000, make([]byte, 16))
	_, err := sp.Read(0x1001, 4)
	var ce armerr.CoreError
	if !errors.As(err, &ce) || ce.Errno != armerr.UsageFault {
		t.Errorf("expected UsageFault for unaligned access, got %v", err)
	}
}

func TestUnmappedAddressFaults(t *testing.T) {
	sp := memory.NewSpace()
	_, err := sp.Read(0xdeadbeef, 4)
	var ce armerr.CoreError
	if !errors.As(err, &ce) || ce.Errno != armerr.Unmapped {
		t.Errorf("expected Unmapped, got %v", err)
	}
}

type countingPeripheral struct {
	ticks uint64
	value uint32
}

func (c *countingPeripheral) Read(offset uint32, width uint8) (uint32, error) {
	return c.value, nil
}

func (c *countingPeripheral) Write(offset uint32, width uint8, value uint32) error {
	c.value = value
	return nil
}

func (c *countingPeripheral) Tick(cycles uint64) {
	c.ticks += cycles
}

func TestPeripheralAccessBypassesAlignment(t *testing.T) {
	sp := memory.NewSpace()
	p := &countingPeripheral{}
	sp.MapPeripheral(0xe0000000, 0x1000, p)

	if err := sp.Write(0xe0000001, 2, 0x42); err != nil {
		t.Errorf("unexpected alignment fault through peripheral: %v", err)
	}
	v, _ := sp.Read(0xe0000001, 2)
	if v != 0x42 {
		t.Errorf("expected peripheral value roundtrip, got %#x", v)
	}

	sp.Tick(3)
	if p.ticks != 3 {
		t.Errorf("expected peripheral to observe ticks, got %d", p.ticks)
	}
}
