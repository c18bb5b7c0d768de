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

package decode_test

import (
	"testing"

	"github.com/markspec/thumbcore/config"
	"github.com/markspec/thumbcore/decode"
)

var profile = config.DefaultProfile(config.V7M)

func decode16(t *testing.T, hw1 uint16) decode.Instruction {
	t.Helper()
	in, err := decode.Decode(hw1, 0, 0, profile)
	if err != nil {
		t.Fatalf("decode %#04x: unexpected error: %v", hw1, err)
	}
	return in
}

func TestDecodeMovsImmediate(t *testing.T) {
	in := decode16(t, 0x2005) // movs r0, #5
	if in.Family != decode.FamMovCmpAddSubImm8 || in.Rd != 0 || in.Imm != 5 {
		t.Fatalf("unexpected decode: %+v", in)
	}
}

func TestDecodeSubsRegister(t *testing.T) {
	in := decode16(t, 0x1a41) // subs r1, r0, r1
	if in.Family != decode.FamAddSubReg || in.Opcode != 1 {
		t.Fatalf("unexpected decode: %+v", in)
	}
}

func TestDecodePushPopWithLRAndPC(t *testing.T) {
	in := decode16(t, 0xb5f0) // push {r4-r7,lr}
	if in.Family != decode.FamPushPop || in.RegList&(1<<14) == 0 {
		t.Fatalf("expected lr in push reglist: %+v", in)
	}
	in = decode16(t, 0xbdf0) // pop {r4-r7,pc}
	if in.Family != decode.FamPushPop || in.RegList&(1<<15) == 0 {
		t.Fatalf("expected pc in pop reglist: %+v", in)
	}
}

func TestDecodeConditionalBranch(t *testing.T) {
	in := decode16(t, 0xd0fe) // beq #-4
	if in.Family != decode.FamCondBranch || in.Cond != 0 {
		t.Fatalf("unexpected decode: %+v", in)
	}
}

func TestDecodeBLImmediate(t *testing.T) {
	in, err := decode.Decode(0xf000, 0xf800, 0, profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Family != decode.FamBL || in.SizeBytes != 4 {
		t.Fatalf("unexpected decode: %+v", in)
	}
}

func TestDecodeSVC(t *testing.T) {
	in := decode16(t, 0xdf2a) // svc #0x2a
	if in.Family != decode.FamSVC || in.Imm != 0x2a {
		t.Fatalf("unexpected decode: %+v", in)
	}
}

func TestDecodeAddShiftedRegisterWide(t *testing.T) {
	// add.w r0, r1, r2, lsl #3  -> 0xEB01 0x00C2
	in, err := decode.Decode(0xeb01, 0x00c2, 0, profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Family != decode.FamDPShiftedReg || in.Mnemonic != "add" {
		t.Fatalf("unexpected decode: %+v", in)
	}
	if in.Shift.Type != decode.ShiftLSL || in.Shift.Amount != 3 {
		t.Fatalf("unexpected shift: %+v", in.Shift)
	}
}
