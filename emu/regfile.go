// Package emu provides functional ARMv4T emulation.
package emu

// Register indices with architectural names.
const (
	RegSP uint8 = 13
	RegLR uint8 = 14
	RegPC uint8 = 15
)

// Mode represents a processor mode (CPSR bits 4..0).
type Mode uint8

// Processor modes.
const (
	ModeUser       Mode = 0x10
	ModeFIQ        Mode = 0x11
	ModeIRQ        Mode = 0x12
	ModeSupervisor Mode = 0x13
	ModeAbort      Mode = 0x17
	ModeUndefined  Mode = 0x1B
	ModeSystem     Mode = 0x1F
)

// CPSR bit assignments.
const (
	cpsrN     uint32 = 1 << 31
	cpsrZ     uint32 = 1 << 30
	cpsrC     uint32 = 1 << 29
	cpsrV     uint32 = 1 << 28
	cpsrT     uint32 = 1 << 5
	cpsrMode  uint32 = 0x1F
	cpsrFlags uint32 = 0xF0000000
)

// RegFile represents the ARMv4T register file: sixteen general
// registers (r13 = sp, r14 = lr, r15 = pc), the CPSR, and a single
// SPSR. Banked registers for non-User modes are not modeled; all modes
// share one flat bank.
type RegFile struct {
	// R holds the general registers r0..r15.
	R [16]uint32

	// CPSR is the Current Program Status Register.
	CPSR uint32

	// SPSR is the Saved Program Status Register.
	SPSR uint32
}

// Read reads a register value without pipeline adjustment.
func (r *RegFile) Read(reg uint8) uint32 {
	return r.R[reg&0xF]
}

// Write writes a register value.
func (r *RegFile) Write(reg uint8, value uint32) {
	r.R[reg&0xF] = value
}

// ReadOperand reads a register as an instruction operand. Reading r15
// yields the pipeline value: pc+8 in ARM state, (pc+4) with bit 1
// cleared in Thumb state. All other registers read normally.
func (r *RegFile) ReadOperand(reg uint8) uint32 {
	reg &= 0xF
	if reg != RegPC {
		return r.R[reg]
	}
	if r.Thumb() {
		return (r.R[RegPC] + 4) &^ 2
	}
	return r.R[RegPC] + 8
}

// N returns the negative flag.
func (r *RegFile) N() bool { return r.CPSR&cpsrN != 0 }

// Z returns the zero flag.
func (r *RegFile) Z() bool { return r.CPSR&cpsrZ != 0 }

// C returns the carry flag.
func (r *RegFile) C() bool { return r.CPSR&cpsrC != 0 }

// V returns the overflow flag.
func (r *RegFile) V() bool { return r.CPSR&cpsrV != 0 }

// SetN sets the negative flag without disturbing other CPSR bits.
func (r *RegFile) SetN(v bool) { r.setBit(cpsrN, v) }

// SetZ sets the zero flag without disturbing other CPSR bits.
func (r *RegFile) SetZ(v bool) { r.setBit(cpsrZ, v) }

// SetC sets the carry flag without disturbing other CPSR bits.
func (r *RegFile) SetC(v bool) { r.setBit(cpsrC, v) }

// SetV sets the overflow flag without disturbing other CPSR bits.
func (r *RegFile) SetV(v bool) { r.setBit(cpsrV, v) }

// Carry returns the carry flag as 0 or 1, the form the arithmetic
// helpers consume.
func (r *RegFile) Carry() uint32 {
	if r.C() {
		return 1
	}
	return 0
}

// Thumb reports whether the T bit is set (Thumb state).
func (r *RegFile) Thumb() bool { return r.CPSR&cpsrT != 0 }

// SetThumb sets or clears the T bit without disturbing other CPSR bits.
func (r *RegFile) SetThumb(v bool) { r.setBit(cpsrT, v) }

// Mode returns the processor mode field.
func (r *RegFile) Mode() Mode { return Mode(r.CPSR & cpsrMode) }

// SetMode replaces the mode field without disturbing other CPSR bits.
func (r *RegFile) SetMode(m Mode) {
	r.CPSR = (r.CPSR &^ cpsrMode) | (uint32(m) & cpsrMode)
}

func (r *RegFile) setBit(mask uint32, v bool) {
	if v {
		r.CPSR |= mask
	} else {
		r.CPSR &^= mask
	}
}
