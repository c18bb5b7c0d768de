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

package armerr_test

import (
	"errors"
	"testing"

	"github.com/markspec/thumbcore/armerr"
)

func TestErrorMessage(t *testing.T) {
	e := armerr.New(armerr.Unmapped, uint32(0x1000))
	if e.Error() != "unmapped address 0x00001000" {
		t.Errorf("unexpected error message: %s", e.Error())
	}
}

func TestErrorIs(t *testing.T) {
	e := armerr.New(armerr.WriteToRom, uint32(0x8000))
	if !errors.Is(e, armerr.New(armerr.WriteToRom)) {
		t.Errorf("expected errors.Is to match on Errno")
	}
	if errors.Is(e, armerr.New(armerr.Unmapped)) {
		t.Errorf("did not expect errors.Is to match a different Errno")
	}
}
