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

// Errno identifies the specific kind of error in the taxonomy.
type Errno int

// list of error numbers, grouped as in spec section 7
const (
	// Decode errors
	UndefinedInstruction Errno = iota
	UnimplementedInstruction

	// Memory errors
	Unmapped
	WriteToRom
	Unaligned
	MapConflict

	// Architectural faults
	UsageFault
	BusFault
	MemManageFault
	HardFault

	// Host-driven errors
	InvalidRegister
	InvalidConfiguration
	InvalidHook
)
