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

// register offsets within a Timer's mapped region: a control register at
// offset 0 and a free-running counter at offset 4.
const (
	timerControlOffset = 0x0
	timerValueOffset   = 0x4
)

// Timer is a free-running up-counter a firmware image under test can poll
// or use to time loops. It is optional: a host only maps one if the
// firmware under test expects it. Grounded on the LPC2000-style T1 timer
// register layout (control register bit 0 = enable, a single 32-bit
// counter) rather than the full multi-channel capture/compare timers real
// Cortex-M parts carry, since the spec's scope is limited to feeding a
// plausible timer to test firmware, not modelling a specific part.
type Timer struct {
	enabled bool
	control uint32
	counter uint32
}

// NewTimer returns a disabled Timer with its counter at zero.
func NewTimer() *Timer {
	return &Timer{}
}

func (t *Timer) Read(offset uint32, width uint8) (uint32, error) {
	switch offset {
	case timerControlOffset:
		return t.control, nil
	case timerValueOffset:
		return t.counter, nil
	}
	return 0, nil
}

func (t *Timer) Write(offset uint32, width uint8, value uint32) error {
	switch offset {
	case timerControlOffset:
		t.control = value
		t.enabled = value&0x1 == 0x1
	case timerValueOffset:
		t.counter = value
	}
	return nil
}

// Tick increments the counter by cycles while enabled, wrapping at 32 bits.
func (t *Timer) Tick(cycles uint64) {
	if !t.enabled {
		return
	}
	t.counter += uint32(cycles)
}
