// Package loader provides raw GBA BIOS and cartridge ROM image loading.
package loader

import (
	"fmt"
	"os"
)

// BIOSSize is the size of a raw GBA BIOS image.
const BIOSSize = 16 * 1024

// MaxROMSize is the largest cartridge ROM a Game Pak can hold.
const MaxROMSize = 32 * 1024 * 1024

// Image holds the raw binary inputs of a run: the BIOS at address 0
// and the cartridge ROM at 0x08000000. Either may be empty.
type Image struct {
	// BIOS is the raw system ROM image.
	BIOS []byte

	// ROM is the raw cartridge image.
	ROM []byte
}

// LoadBIOS reads a raw BIOS image from path. Images larger than the
// 16 KiB BIOS region are rejected.
func LoadBIOS(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read BIOS file: %w", err)
	}
	if len(data) > BIOSSize {
		return nil, fmt.Errorf("BIOS image is %d bytes, expected at most %d", len(data), BIOSSize)
	}
	return data, nil
}

// LoadROM reads a raw cartridge image from path. Images larger than
// the 32 MiB Game Pak limit are rejected.
func LoadROM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM file: %w", err)
	}
	if len(data) > MaxROMSize {
		return nil, fmt.Errorf("ROM image is %d bytes, expected at most %d", len(data), MaxROMSize)
	}
	return data, nil
}

// Load reads the BIOS and ROM images for a run. Either path may be
// empty, in which case the corresponding image is left nil and the
// region stays zeroed.
func Load(biosPath, romPath string) (*Image, error) {
	img := &Image{}

	if biosPath != "" {
		bios, err := LoadBIOS(biosPath)
		if err != nil {
			return nil, err
		}
		img.BIOS = bios
	}

	if romPath != "" {
		rom, err := LoadROM(romPath)
		if err != nil {
			return nil, err
		}
		img.ROM = rom
	}

	return img, nil
}
