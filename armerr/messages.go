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

package armerr

var messages = map[Errno]string{
	// Decode errors
	UndefinedInstruction:     "undefined instruction at %#08x (%#04x)",
	UnimplementedInstruction: "unimplemented instruction at %#08x (%#04x %#04x)",

	// Memory errors
	Unmapped:    "unmapped address %#08x",
	WriteToRom:  "write to read-only region at %#08x",
	Unaligned:   "unaligned %d-byte access at %#08x",
	MapConflict: "region [%#08x, %#08x) overlaps an existing mapping",

	// Architectural faults
	UsageFault:     "usage fault (%s)",
	BusFault:       "bus fault (%s)",
	MemManageFault: "memory management fault (%s)",
	HardFault:      "hard fault: %s",

	// Host-driven errors
	InvalidRegister:      "invalid register (%s)",
	InvalidConfiguration: "invalid configuration: %s",
	InvalidHook:          "invalid hook id (%d)",
}
