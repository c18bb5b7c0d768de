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

// Package config defines the architecture-profile toggle the decoder gates
// whole encoding classes on, and the construction-time options a host
// passes to thumbm.NewProcessor. Modelled on the teacher's
// architecture.Map / memorymodel.Map pair, collapsed into a single Profile
// since this module does not need to distinguish cartridge board variants -
// only the four architecture profiles spec.md names.
package config

// Architecture names one of the four Thumb architecture profiles the
// decoder and exec packages gate instruction classes on.
type Architecture string

const (
	V6M  Architecture = "ARMv6-M"
	V7M  Architecture = "ARMv7-M"
	V7EM Architecture = "ARMv7E-M"
	V8M  Architecture = "ARMv8-M"
)

// Profile bundles the architecture toggle with the small number of
// construction-time choices a host makes about exception and interrupt
// counts. Unlike the teacher's Map, which picks board-specific peripheral
// base addresses (MAM/TIM2/RNG register locations tied to a particular
// silicon vendor), this Profile only carries properties spec.md actually
// requires: the decoder gate and the NVIC's configured line count.
type Profile struct {
	Architecture Architecture

	// NumInterrupts is the number of external interrupt lines the NVIC
	// exposes (in addition to the fixed set of system exceptions). Must be
	// a multiple of 32, per the NVIC's register-bank granularity.
	NumInterrupts int
}

// DefaultProfile returns a Profile for the given architecture with a
// modest NVIC line count (32) suitable for test firmware.
func DefaultProfile(arch Architecture) Profile {
	return Profile{Architecture: arch, NumInterrupts: 32}
}

// HasDSPExtensions reports whether the profile includes the ARMv7E-M DSP
// instruction extensions (SIMD add/subtract, saturating arithmetic
// beyond QADD/QSUB, etc).
func (p Profile) HasDSPExtensions() bool {
	return p.Architecture == V7EM
}

// Is32BitCapable reports whether the profile decodes Thumb-32 encodings at
// all. All four profiles in this spec do; the toggle exists because a
// future ARMv6-M-only subset build might want to reject T32 opcodes the
// real silicon never implements (v6-M implements only a narrow slice of
// T32: BL, and the hint instructions). Neither decode nor exec calls it;
// decode gates the v7-M-and-later-only T32 families through
// SupportsWideDataProcessing instead.
func (p Profile) Is32BitCapable() bool {
	return true
}

// SupportsWideDataProcessing reports whether the wider T32 data-processing
// and multiply/divide family (present from ARMv7-M onward) is available.
// ARMv6-M implements only the 16-bit Thumb-1 instruction set plus a
// handful of T32 exceptions (BL/BLX, DMB/DSB/ISB, MRS/MSR). decode consults
// it for the modified-immediate and shifted-register data-processing, wide
// load/store single and multiple, multiply/divide and TBB/TBH families,
// which report UnimplementedInstruction on that profile. MOVW/MOVT, the
// wide conditional branch, CPS and the exclusives are not gated and decode
// on every profile, ARMv6-M included.
func (p Profile) SupportsWideDataProcessing() bool {
	return p.Architecture != V6M
}
