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

package memory

import (
	"math/rand"

	"github.com/markspec/thumbcore/logger"
)

// register offsets within an RNG's mapped region, modelled after the
// control/status/data register triple common to hardware RNG blocks (e.g.
// STM32's RNG peripheral): a control register, a status register whose low
// bit indicates "a value is ready", and a data register.
const (
	rngControlOffset = 0x0
	rngStatusOffset  = 0x4
	rngDataOffset    = 0x8
)

// RNG is a deterministic pseudo-random number peripheral. Unlike the
// teacher's RNG (which sources entropy from the host's math/rand global
// state), this one is seeded explicitly at construction so that spec
// section 5's determinism requirement - same initial state and same
// peripheral ticks produce the same final state - holds even when firmware
// reads the data register.
type RNG struct {
	control uint32
	src     *rand.Rand
}

// NewRNG returns an RNG peripheral seeded with the given value.
func NewRNG(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed))}
}

func (r *RNG) Read(offset uint32, width uint8) (uint32, error) {
	switch offset {
	case rngControlOffset:
		return r.control, nil
	case rngStatusOffset:
		return 0b1, nil
	case rngDataOffset:
		return r.src.Uint32(), nil
	}
	return 0, nil
}

func (r *RNG) Write(offset uint32, width uint8, value uint32) error {
	switch offset {
	case rngControlOffset:
		r.control = value
	default:
		logger.Logf(logger.Allow, "rng", "ignoring write to read-only register at offset %#x", offset)
	}
	return nil
}

func (r *RNG) Tick(cycles uint64) {}
