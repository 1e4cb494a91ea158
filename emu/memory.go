package emu

// GBA address map constants.
const (
	BIOSStart    uint32 = 0x00000000
	BIOSSize     uint32 = 16 * 1024
	EWRAMStart   uint32 = 0x02000000
	EWRAMSize    uint32 = 256 * 1024
	IWRAMStart   uint32 = 0x03000000
	IWRAMSize    uint32 = 32 * 1024
	IOStart      uint32 = 0x04000000
	IOSize       uint32 = 0x3FF
	PaletteStart uint32 = 0x05000000
	PaletteSize  uint32 = 1024
	VRAMStart    uint32 = 0x06000000
	VRAMSize     uint32 = 96 * 1024
	OAMStart     uint32 = 0x07000000
	OAMSize      uint32 = 1024
	ROMStart     uint32 = 0x08000000
	ROMSize      uint32 = 32 * 1024 * 1024
	ROMMirrorEnd uint32 = 0x0DFFFFFF
	SRAMStart    uint32 = 0x0E000000
	SRAMSize     uint32 = 64 * 1024
)

// AccessFault records an access outside the mapped address space. It is
// only surfaced when the memory is in strict mode.
type AccessFault struct {
	Addr  uint32
	Write bool
}

// Memory is a byte-addressable view of the GBA address space, backed by
// a region table. Multi-byte accesses are little-endian and are not
// forced aligned: a misaligned access reads or writes the bytes at the
// given address in little-endian order.
//
// Reads outside any region return zero and writes are discarded, unless
// strict mode is enabled, in which case the first such access is
// recorded as a fault.
type Memory struct {
	bios    []byte
	ewram   []byte
	iwram   []byte
	ioRegs  []byte
	palette []byte
	vram    []byte
	oam     []byte
	rom     []byte
	sram    []byte

	strict bool
	fault  *AccessFault
}

// NewMemory creates a zeroed GBA memory map.
func NewMemory() *Memory {
	return &Memory{
		bios:    make([]byte, BIOSSize),
		ewram:   make([]byte, EWRAMSize),
		iwram:   make([]byte, IWRAMSize),
		ioRegs:  make([]byte, IOSize),
		palette: make([]byte, PaletteSize),
		vram:    make([]byte, VRAMSize),
		oam:     make([]byte, OAMSize),
		rom:     make([]byte, ROMSize),
		sram:    make([]byte, SRAMSize),
	}
}

// LoadBIOS copies a raw BIOS image to offset 0. Data beyond the 16 KiB
// BIOS region is ignored.
func (m *Memory) LoadBIOS(data []byte) {
	copy(m.bios, data)
}

// LoadROM copies a raw cartridge image to the ROM region. Data beyond
// 32 MiB is ignored.
func (m *Memory) LoadROM(data []byte) {
	copy(m.rom, data)
}

// SetStrict enables or disables strict mode. In strict mode unmapped
// accesses are recorded instead of being silently absorbed.
func (m *Memory) SetStrict(strict bool) {
	m.strict = strict
}

// Fault returns the recorded unmapped access, if any, and clears it.
func (m *Memory) Fault() *AccessFault {
	f := m.fault
	m.fault = nil
	return f
}

// Mapped reports whether addr falls inside a mapped region.
func (m *Memory) Mapped(addr uint32) bool {
	region, _ := m.region(addr)
	return region != nil
}

// region resolves addr to its backing slice and intra-region offset.
// The three ROM wait-state areas mirror the same cartridge data.
func (m *Memory) region(addr uint32) ([]byte, uint32) {
	switch {
	case addr < BIOSStart+BIOSSize:
		return m.bios, addr - BIOSStart
	case addr >= EWRAMStart && addr < EWRAMStart+EWRAMSize:
		return m.ewram, addr - EWRAMStart
	case addr >= IWRAMStart && addr < IWRAMStart+IWRAMSize:
		return m.iwram, addr - IWRAMStart
	case addr >= IOStart && addr < IOStart+IOSize:
		return m.ioRegs, addr - IOStart
	case addr >= PaletteStart && addr < PaletteStart+PaletteSize:
		return m.palette, addr - PaletteStart
	case addr >= VRAMStart && addr < VRAMStart+VRAMSize:
		return m.vram, addr - VRAMStart
	case addr >= OAMStart && addr < OAMStart+OAMSize:
		return m.oam, addr - OAMStart
	case addr >= ROMStart && addr <= ROMMirrorEnd:
		return m.rom, (addr - ROMStart) % ROMSize
	case addr >= SRAMStart && addr < SRAMStart+SRAMSize:
		return m.sram, addr - SRAMStart
	default:
		return nil, 0
	}
}

// Read8 reads a byte. Unmapped addresses read as zero.
func (m *Memory) Read8(addr uint32) uint8 {
	region, offset := m.region(addr)
	if region == nil {
		m.recordFault(addr, false)
		return 0
	}
	return region[offset]
}

// Write8 writes a byte. Unmapped writes are discarded.
func (m *Memory) Write8(addr uint32, value uint8) {
	region, offset := m.region(addr)
	if region == nil {
		m.recordFault(addr, true)
		return
	}
	region[offset] = value
}

// Read16 reads a little-endian halfword at addr.
func (m *Memory) Read16(addr uint32) uint16 {
	return uint16(m.Read8(addr)) | uint16(m.Read8(addr+1))<<8
}

// Write16 writes a little-endian halfword at addr.
func (m *Memory) Write16(addr uint32, value uint16) {
	m.Write8(addr, uint8(value))
	m.Write8(addr+1, uint8(value>>8))
}

// Read32 reads a little-endian word at addr.
func (m *Memory) Read32(addr uint32) uint32 {
	return uint32(m.Read16(addr)) | uint32(m.Read16(addr+2))<<16
}

// Write32 writes a little-endian word at addr.
func (m *Memory) Write32(addr uint32, value uint32) {
	m.Write16(addr, uint16(value))
	m.Write16(addr+2, uint16(value>>16))
}

func (m *Memory) recordFault(addr uint32, write bool) {
	if m.strict && m.fault == nil {
		m.fault = &AccessFault{Addr: addr, Write: write}
	}
}
