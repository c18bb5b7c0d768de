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

// Command thumbm loads a raw Thumb binary image, maps it into a fresh
// Processor at a configurable origin, and runs it to a gas limit or until a
// breakpoint address is hit, printing the final register file. It is a
// thin wrapper only: all instruction-set semantics live in the library
// packages this module imports.
package main

import (
	"flag"
	"fmt"
	"os"

	thumbm "github.com/markspec/thumbcore"
	"github.com/markspec/thumbcore/config"
	"github.com/markspec/thumbcore/cpu"
)

func main() {
	var (
		arch       = flag.String("arch", "ARMv7-M", "architecture profile: ARMv6-M, ARMv7-M, ARMv7E-M, ARMv8-M")
		origin     = flag.Uint("origin", 0x00000000, "load address for the image, accepts 0x hex")
		ramBase    = flag.Uint("ram", 0x20000000, "base address of the mapped RAM region, accepts 0x hex")
		ramSize    = flag.Uint("ramsize", 0x00010000, "size in bytes of the mapped RAM region, accepts 0x hex")
		breakpoint = flag.Uint("break", 0, "halt when PC reaches this address, 0 disables")
		maxInsn    = flag.Uint64("max", 1_000_000, "maximum instructions to execute, 0 is unbounded")
		reset      = flag.Bool("reset", false, "load SP/PC from the vector table instead of starting at -origin")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <image>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *arch, uint32(*origin), uint32(*ramBase), uint32(*ramSize), uint32(*breakpoint), *maxInsn, *reset); err != nil {
		fmt.Fprintf(os.Stderr, "thumbm: %v\n", err)
		os.Exit(1)
	}
}

func run(path, archName string, origin, ramBase, ramSize, breakpoint uint32, maxInsn uint64, useReset bool) error {
	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	profile := config.DefaultProfile(config.Architecture(archName))
	p := thumbm.NewProcessor(profile)

	if err := p.MapROM(origin, image); err != nil {
		return fmt.Errorf("mapping image: %w", err)
	}
	if err := p.Map(ramBase, make([]byte, ramSize)); err != nil {
		return fmt.Errorf("mapping ram: %w", err)
	}

	if useReset {
		if err := p.Reset(); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	} else {
		p.SetPC(origin)
		p.SetSP(ramBase + ramSize)
	}

	if breakpoint != 0 {
		p.AddHook(breakpoint, func(*thumbm.Processor) bool { return true })
	}

	result := p.Run(thumbm.RunOptions{MaxInstructions: maxInsn})
	printState(p, result)
	if result.Err != nil {
		return result.Err
	}
	return nil
}

func printState(p *thumbm.Processor, result thumbm.RunResult) {
	fmt.Printf("halted: %s (%d instructions)\n", result.Reason, result.Instructions)
	for n := uint8(0); n < 13; n++ {
		fmt.Printf("r%-2d = %#010x\n", n, p.ReadReg(n))
	}
	fmt.Printf("sp  = %#010x\n", p.ReadReg(cpu.R13))
	fmt.Printf("lr  = %#010x\n", p.ReadReg(cpu.R14))
	fmt.Printf("pc  = %#010x\n", p.ReadReg(cpu.R15))
}
