// Package main provides the gbacore CLI: it loads a BIOS and cartridge
// ROM into a GBA memory image and runs the ARMv4T core until a
// termination condition is reached.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/emuforge/gbacore/emu"
	"github.com/emuforge/gbacore/loader"
)

var (
	biosPath = flag.String("bios", "", "Path to a raw 16 KiB BIOS image")
	romPath  = flag.String("rom", "", "Path to a raw cartridge ROM image")
	startPC  = flag.Uint64("pc", 0, "Initial program counter")
	maxInsts = flag.Uint64("max", 0, "Maximum number of instructions to execute (0 = no limit)")
	trace    = flag.Bool("trace", false, "Write a per-instruction trace to stderr")
	strict   = flag.Bool("strict", false, "Treat unmapped memory accesses as fatal")
	verbose  = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if *biosPath == "" && *romPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: gbacore [options]\n")
		fmt.Fprintf(os.Stderr, "\nAt least one of -bios or -rom is required.\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	img, err := loader.Load(*biosPath, *romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading images: %v\n", err)
		os.Exit(1)
	}

	memory := emu.NewMemory()
	memory.LoadBIOS(img.BIOS)
	memory.LoadROM(img.ROM)

	if *verbose {
		fmt.Printf("BIOS: %d bytes, ROM: %d bytes\n", len(img.BIOS), len(img.ROM))
		fmt.Printf("Start PC: 0x%08X\n", uint32(*startPC))
	}

	opts := []emu.Option{
		emu.WithPC(uint32(*startPC)),
		emu.WithMaxInstructions(*maxInsts),
	}
	if *trace {
		opts = append(opts, emu.WithTrace(os.Stderr))
	}
	if *strict {
		opts = append(opts, emu.WithStrictMemory())
	}

	cpu := emu.NewCPU(memory, opts...)
	result := cpu.Run()

	if *verbose {
		fmt.Printf("Instructions executed: %d\n", cpu.InstructionCount())
		fmt.Printf("Final PC: 0x%08X\n", cpu.Regs().R[emu.RegPC])
	}

	fmt.Printf("Status: %v\n", result.Status)
	if result.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", result.Err)
		os.Exit(1)
	}
}
