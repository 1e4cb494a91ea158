// Package bits provides the 32-bit rotate, sign-extension, and bitfield
// helpers shared by the instruction decoders and the barrel shifter.
package bits

import mathbits "math/bits"

// RotateLeft32 rotates n left by c bits. The rotate count is taken
// modulo 32.
func RotateLeft32(n uint32, c uint32) uint32 {
	return mathbits.RotateLeft32(n, int(c&31))
}

// RotateRight32 rotates n right by c bits. The rotate count is taken
// modulo 32.
func RotateRight32(n uint32, c uint32) uint32 {
	return mathbits.RotateLeft32(n, -int(c&31))
}

// SignExtend32 treats the low b bits of x as a two's-complement number
// and returns its 32-bit sign extension. b must be in 1..32.
func SignExtend32(x uint32, b uint) int32 {
	shift := 32 - b
	return int32(x<<shift) >> shift
}

// Bit returns bit n of x as 0 or 1.
func Bit(x uint32, n uint) uint32 {
	return (x >> n) & 1
}

// BitSet reports whether bit n of x is set.
func BitSet(x uint32, n uint) bool {
	return (x>>n)&1 != 0
}

// Field extracts width bits of x starting at bit lo.
func Field(x uint32, lo, width uint) uint32 {
	return (x >> lo) & (1<<width - 1)
}
