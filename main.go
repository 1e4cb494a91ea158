// Package main provides the entry point for gbacore.
// gbacore is an interpretive ARMv4T CPU core for the Game Boy Advance.
//
// For the full CLI, use: go run ./cmd/gbacore
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("gbacore - Game Boy Advance ARMv4T CPU core")
	fmt.Println("")
	fmt.Println("Usage: gbacore [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -bios      Path to a raw 16 KiB BIOS image")
	fmt.Println("  -rom       Path to a raw cartridge ROM image")
	fmt.Println("  -max       Maximum number of instructions to execute")
	fmt.Println("  -trace     Write a per-instruction trace to stderr")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/gbacore' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/gbacore' instead.")
	}
}
