package emu

import (
	"github.com/emuforge/gbacore/bits"
	"github.com/emuforge/gbacore/insts"
)

// Shift applies a barrel-shifter operation with a register-sourced
// amount (0..255) and returns the shifted value together with the
// shifter carry-out. An amount of zero performs no shift and passes the
// carry flag through.
func Shift(value uint32, typ insts.ShiftType, amount uint32, carryIn bool) (uint32, bool) {
	if amount == 0 {
		return value, carryIn
	}

	switch typ {
	case insts.ShiftLSL:
		switch {
		case amount < 32:
			return value << amount, bits.BitSet(value, uint(32-amount))
		case amount == 32:
			return 0, bits.BitSet(value, 0)
		default:
			return 0, false
		}
	case insts.ShiftLSR:
		switch {
		case amount < 32:
			return value >> amount, bits.BitSet(value, uint(amount-1))
		case amount == 32:
			return 0, bits.BitSet(value, 31)
		default:
			return 0, false
		}
	case insts.ShiftASR:
		if amount < 32 {
			return uint32(int32(value) >> amount), bits.BitSet(value, uint(amount-1))
		}
		// All bits drain to the sign bit.
		return uint32(int32(value) >> 31), bits.BitSet(value, 31)
	default: // insts.ShiftROR
		s := amount & 31
		if s == 0 {
			return value, bits.BitSet(value, 31)
		}
		return bits.RotateRight32(value, s), bits.BitSet(value, uint(s-1))
	}
}

// ShiftImmediate applies a barrel-shifter operation with an immediate
// amount (0..31), resolving the special zero encodings: LSR #0 and
// ASR #0 encode a 32-bit shift, and ROR #0 encodes RRX.
func ShiftImmediate(value uint32, typ insts.ShiftType, amount uint32, carryIn bool) (uint32, bool) {
	if amount == 0 {
		switch typ {
		case insts.ShiftLSL:
			return value, carryIn
		case insts.ShiftLSR, insts.ShiftASR:
			return Shift(value, typ, 32, carryIn)
		default: // insts.ShiftROR: rotate right extended through carry
			result := value >> 1
			if carryIn {
				result |= 1 << 31
			}
			return result, bits.BitSet(value, 0)
		}
	}
	return Shift(value, typ, amount, carryIn)
}
