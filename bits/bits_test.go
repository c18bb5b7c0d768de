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

package bits_test

import (
	"testing"

	"github.com/markspec/thumbcore/bits"
)

func TestBits(t *testing.T) {
	if got := bits.Bits(0xabcd1234, 15, 0); got != 0x1234 {
		t.Errorf("got %#x", got)
	}
	if got := bits.Bits(0xabcd1234, 31, 28); got != 0xa {
		t.Errorf("got %#x", got)
	}
}

func TestSignExtend(t *testing.T) {
	if got := bits.SignExtend(0x7f, 8); got != 127 {
		t.Errorf("got %d", got)
	}
	if got := bits.SignExtend(0xff, 8); got != -1 {
		t.Errorf("got %d", got)
	}
	if got := bits.SignExtend(0x800, 12); got != -2048 {
		t.Errorf("got %d", got)
	}
}

func TestRor(t *testing.T) {
	if got := bits.Ror(0x1, 1); got != 0x80000000 {
		t.Errorf("got %#x", got)
	}
	if got := bits.Ror(0x1, 0); got != 0x1 {
		t.Errorf("got %#x", got)
	}
}

func TestLslC(t *testing.T) {
	v, c := bits.LslC(0x80000001, 1)
	if v != 0x2 || !c {
		t.Errorf("got %#x, %v", v, c)
	}
	v, c = bits.LslC(0x1, 0)
	if v != 0x1 || c {
		t.Errorf("got %#x, %v", v, c)
	}
}

func TestLsrC(t *testing.T) {
	v, c := bits.LsrC(0x1, 1)
	if v != 0 || !c {
		t.Errorf("got %#x, %v", v, c)
	}
}

func TestAsrC(t *testing.T) {
	v, c := bits.AsrC(0x80000000, 1)
	if v != 0xc0000000 || c {
		t.Errorf("got %#x, %v", v, c)
	}
}

func TestRrxC(t *testing.T) {
	v, c := bits.RrxC(0x1, true)
	if v != 0x80000000 || !c {
		t.Errorf("got %#x, %v", v, c)
	}
}

func TestThumbExpandImmC(t *testing.T) {
	// 0x0fe -> pattern 00000000 00000000 00000000 11111110, no rotation
	v, _ := bits.ThumbExpandImmC(0x0fe, false)
	if v != 0xfe {
		t.Errorf("got %#x", v)
	}

	// 0x101 -> 0x01 repeated in bytes 0 and 2 (pattern 01)
	v, _ = bits.ThumbExpandImmC(0x101, false)
	if v != 0x00010001 {
		t.Errorf("got %#x", v)
	}
}

func TestAddWithCarry(t *testing.T) {
	sum, carry, overflow := bits.AddWithCarry(0xffffffff, 1, false)
	if sum != 0 || !carry || overflow {
		t.Errorf("got sum=%#x carry=%v overflow=%v", sum, carry, overflow)
	}

	// subs r2, r0, r1 with r0=5, r1=2: add_with_carry(5, ^2, 1)
	sum, carry, overflow = bits.AddWithCarry(5, ^uint32(2), true)
	if sum != 3 || !carry || overflow {
		t.Errorf("got sum=%d carry=%v overflow=%v", sum, carry, overflow)
	}

	// signed overflow: 0x7fffffff + 1
	sum, carry, overflow = bits.AddWithCarry(0x7fffffff, 1, false)
	if sum != 0x80000000 || carry || !overflow {
		t.Errorf("got sum=%#x carry=%v overflow=%v", sum, carry, overflow)
	}
}
