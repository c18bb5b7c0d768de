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

// Package armerr defines the error taxonomy shared by every layer of the
// core: decode errors, memory errors, architectural faults and host-driven
// configuration errors. Every error is a CoreError wrapping an Errno and a
// set of values used to format its message, so callers can switch on Errno
// rather than matching against an error string.
package armerr
