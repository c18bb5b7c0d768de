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

import "fmt"

// Values holds the arguments substituted into an Errno's message format.
type Values []interface{}

// CoreError is the error type returned by every layer of the core.
type CoreError struct {
	Errno  Errno
	Values Values
}

// New creates a CoreError for the given Errno.
func New(errno Errno, values ...interface{}) CoreError {
	return CoreError{Errno: errno, Values: values}
}

// Error implements the error interface.
func (e CoreError) Error() string {
	return fmt.Sprintf(messages[e.Errno], e.Values...)
}

// Is reports whether target is a CoreError with the same Errno, so callers
// can use errors.Is(err, armerr.New(armerr.Unmapped)) style matching.
func (e CoreError) Is(target error) bool {
	t, ok := target.(CoreError)
	if !ok {
		return false
	}
	return e.Errno == t.Errno
}
