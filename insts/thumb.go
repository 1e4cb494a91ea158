package insts

import "github.com/emuforge/gbacore/bits"

// ThumbKind represents one of the 19 Thumb instruction formats.
type ThumbKind uint8

// Thumb instruction formats.
const (
	ThumbUnknown           ThumbKind = iota
	ThumbMoveShifted                 // 1: LSL/LSR/ASR by immediate
	ThumbAddSub                      // 2: ADD/SUB register or 3-bit immediate
	ThumbMoveCompareImm              // 3: MOV/CMP/ADD/SUB 8-bit immediate
	ThumbALU                         // 4: ALU operations on low registers
	ThumbHiRegister                  // 5: hi-register ADD/CMP/MOV and BX
	ThumbPCRelativeLoad              // 6: LDR Rd, [PC, #imm]
	ThumbLoadStoreRegister           // 7: LDR/STR with register offset
	ThumbLoadStoreSignExt            // 8: LDRH/STRH/LDSB/LDSH with register offset
	ThumbLoadStoreImm                // 9: LDR/STR with immediate offset
	ThumbLoadStoreHalf               // 10: LDRH/STRH with immediate offset
	ThumbLoadStoreSP                 // 11: SP-relative LDR/STR
	ThumbLoadAddress                 // 12: ADD Rd, PC/SP, #imm
	ThumbAdjustSP                    // 13: ADD SP, #±imm
	ThumbPushPop                     // 14: PUSH/POP with optional LR/PC
	ThumbMultiple                    // 15: LDMIA/STMIA
	ThumbCondBranch                  // 16: conditional branch
	ThumbSoftwareInterrupt           // 17: SWI
	ThumbBranch                      // 18: unconditional branch
	ThumbLongBranchLink              // 19: BL halfword pair
)

// ThumbALUOp represents a format 4 ALU opcode.
type ThumbALUOp uint8

// Format 4 ALU opcodes.
const (
	ThumbAND ThumbALUOp = 0x0
	ThumbEOR ThumbALUOp = 0x1
	ThumbLSL ThumbALUOp = 0x2
	ThumbLSR ThumbALUOp = 0x3
	ThumbASR ThumbALUOp = 0x4
	ThumbADC ThumbALUOp = 0x5
	ThumbSBC ThumbALUOp = 0x6
	ThumbROR ThumbALUOp = 0x7
	ThumbTST ThumbALUOp = 0x8
	ThumbNEG ThumbALUOp = 0x9
	ThumbCMP ThumbALUOp = 0xA
	ThumbCMN ThumbALUOp = 0xB
	ThumbORR ThumbALUOp = 0xC
	ThumbMUL ThumbALUOp = 0xD
	ThumbBIC ThumbALUOp = 0xE
	ThumbMVN ThumbALUOp = 0xF
)

// Hi-register (format 5) opcodes.
const (
	HiADD uint8 = 0x0
	HiCMP uint8 = 0x1
	HiMOV uint8 = 0x2
	HiBX  uint8 = 0x3
)

// Move/compare immediate (format 3) opcodes.
const (
	ImmMOV uint8 = 0x0
	ImmCMP uint8 = 0x1
	ImmADD uint8 = 0x2
	ImmSUB uint8 = 0x3
)

// ThumbInstruction represents a decoded Thumb instruction.
type ThumbInstruction struct {
	Raw  uint16    // Original encoding
	Kind ThumbKind // Instruction format

	// Sub-opcode within the format: shift type for format 1, ADD/SUB
	// selector for format 2, format 3 opcode, format 5 hi-register
	// opcode.
	Op uint8

	ALUOp ThumbALUOp // Format 4 opcode

	Rd uint8 // Destination register (full 4-bit index for hi-register ops)
	Rs uint8 // Source register (full 4-bit index for hi-register ops)
	Rn uint8 // Second operand register (format 2)
	Ro uint8 // Offset register (formats 7 and 8)

	Imm uint32 // Unsigned immediate, unscaled

	Immediate  bool // Format 2: operand is a 3-bit immediate
	Load       bool // L bit of the transfer formats
	Byte       bool // B bit (formats 7 and 9)
	Half       bool // H bit (format 8)
	SignExtend bool // S bit (format 8)
	SP         bool // Format 12: base is SP instead of PC
	Negative   bool // Format 13: offset is subtracted
	PCLR       bool // Format 14: R bit (push LR / pop PC)
	LinkHigh   bool // Format 19: first halfword of the pair (H == 0)

	Cond    Cond   // Format 16 condition
	RegList uint8  // Formats 14 and 15
	Offset  int32  // Sign-extended branch offset in bytes
	Comment uint32 // Format 17 SWI comment field
}

// DecodeThumb decodes a 16-bit Thumb instruction halfword.
func DecodeThumb(half uint16) *ThumbInstruction {
	word := uint32(half)
	inst := &ThumbInstruction{Raw: half, Kind: ThumbUnknown}

	switch bits.Field(word, 13, 3) {
	case 0b000:
		decodeThumbShiftAddSub(word, inst)
	case 0b001:
		inst.Kind = ThumbMoveCompareImm
		inst.Op = uint8(bits.Field(word, 11, 2))
		inst.Rd = uint8(bits.Field(word, 8, 3))
		inst.Imm = word & 0xFF
	case 0b010:
		decodeThumbGroup010(word, inst)
	case 0b011:
		inst.Kind = ThumbLoadStoreImm
		inst.Byte = bits.BitSet(word, 12)
		inst.Load = bits.BitSet(word, 11)
		inst.Imm = bits.Field(word, 6, 5)
		inst.Rs = uint8(bits.Field(word, 3, 3))
		inst.Rd = uint8(word & 0x7)
	case 0b100:
		decodeThumbGroup100(word, inst)
	case 0b101:
		decodeThumbGroup101(word, inst)
	case 0b110:
		decodeThumbGroup110(word, inst)
	case 0b111:
		decodeThumbGroup111(word, inst)
	}

	return inst
}

// decodeThumbShiftAddSub splits formats 1 and 2, which share the 000
// prefix: opcode 11 selects add/subtract.
func decodeThumbShiftAddSub(word uint32, inst *ThumbInstruction) {
	op := bits.Field(word, 11, 2)
	if op == 0b11 {
		inst.Kind = ThumbAddSub
		inst.Immediate = bits.BitSet(word, 10)
		inst.Op = uint8(bits.Bit(word, 9)) // 0 = ADD, 1 = SUB
		inst.Rn = uint8(bits.Field(word, 6, 3))
		inst.Imm = bits.Field(word, 6, 3)
		inst.Rs = uint8(bits.Field(word, 3, 3))
		inst.Rd = uint8(word & 0x7)
		return
	}

	inst.Kind = ThumbMoveShifted
	inst.Op = uint8(op) // shift type: LSL/LSR/ASR
	inst.Imm = bits.Field(word, 6, 5)
	inst.Rs = uint8(bits.Field(word, 3, 3))
	inst.Rd = uint8(word & 0x7)
}

// decodeThumbGroup010 covers formats 4..8.
func decodeThumbGroup010(word uint32, inst *ThumbInstruction) {
	switch {
	case bits.Field(word, 10, 6) == 0b010000:
		inst.Kind = ThumbALU
		inst.ALUOp = ThumbALUOp(bits.Field(word, 6, 4))
		inst.Rs = uint8(bits.Field(word, 3, 3))
		inst.Rd = uint8(word & 0x7)
	case bits.Field(word, 10, 6) == 0b010001:
		inst.Kind = ThumbHiRegister
		inst.Op = uint8(bits.Field(word, 8, 2))
		inst.Rs = uint8(bits.Field(word, 3, 3) | bits.Bit(word, 6)<<3)
		inst.Rd = uint8(word&0x7 | bits.Bit(word, 7)<<3)
	case bits.Field(word, 11, 5) == 0b01001:
		inst.Kind = ThumbPCRelativeLoad
		inst.Rd = uint8(bits.Field(word, 8, 3))
		inst.Imm = word & 0xFF
	case !bits.BitSet(word, 9):
		inst.Kind = ThumbLoadStoreRegister
		inst.Load = bits.BitSet(word, 11)
		inst.Byte = bits.BitSet(word, 10)
		inst.Ro = uint8(bits.Field(word, 6, 3))
		inst.Rs = uint8(bits.Field(word, 3, 3))
		inst.Rd = uint8(word & 0x7)
	default:
		inst.Kind = ThumbLoadStoreSignExt
		inst.Half = bits.BitSet(word, 11)
		inst.SignExtend = bits.BitSet(word, 10)
		inst.Ro = uint8(bits.Field(word, 6, 3))
		inst.Rs = uint8(bits.Field(word, 3, 3))
		inst.Rd = uint8(word & 0x7)
	}
}

// decodeThumbGroup100 covers formats 10 and 11.
func decodeThumbGroup100(word uint32, inst *ThumbInstruction) {
	if !bits.BitSet(word, 12) {
		inst.Kind = ThumbLoadStoreHalf
		inst.Load = bits.BitSet(word, 11)
		inst.Imm = bits.Field(word, 6, 5)
		inst.Rs = uint8(bits.Field(word, 3, 3))
		inst.Rd = uint8(word & 0x7)
		return
	}

	inst.Kind = ThumbLoadStoreSP
	inst.Load = bits.BitSet(word, 11)
	inst.Rd = uint8(bits.Field(word, 8, 3))
	inst.Imm = word & 0xFF
}

// decodeThumbGroup101 covers formats 12, 13, and 14.
func decodeThumbGroup101(word uint32, inst *ThumbInstruction) {
	switch {
	case !bits.BitSet(word, 12):
		inst.Kind = ThumbLoadAddress
		inst.SP = bits.BitSet(word, 11)
		inst.Rd = uint8(bits.Field(word, 8, 3))
		inst.Imm = word & 0xFF
	case bits.Field(word, 8, 5) == 0b10000:
		inst.Kind = ThumbAdjustSP
		inst.Negative = bits.BitSet(word, 7)
		inst.Imm = word & 0x7F
	case bits.Field(word, 9, 2) == 0b10:
		inst.Kind = ThumbPushPop
		inst.Load = bits.BitSet(word, 11)
		inst.PCLR = bits.BitSet(word, 8)
		inst.RegList = uint8(word & 0xFF)
	}
}

// decodeThumbGroup110 covers formats 15, 16, and 17.
func decodeThumbGroup110(word uint32, inst *ThumbInstruction) {
	if !bits.BitSet(word, 12) {
		inst.Kind = ThumbMultiple
		inst.Load = bits.BitSet(word, 11)
		inst.Rs = uint8(bits.Field(word, 8, 3))
		inst.RegList = uint8(word & 0xFF)
		return
	}

	cond := Cond(bits.Field(word, 8, 4))
	if cond == CondNV {
		inst.Kind = ThumbSoftwareInterrupt
		inst.Comment = word & 0xFF
		return
	}

	inst.Kind = ThumbCondBranch
	inst.Cond = cond
	inst.Offset = bits.SignExtend32((word&0xFF)<<1, 9)
}

// decodeThumbGroup111 covers formats 18 and 19.
func decodeThumbGroup111(word uint32, inst *ThumbInstruction) {
	if !bits.BitSet(word, 12) {
		if bits.BitSet(word, 11) {
			// The 11101 slot is the BLX prefix on later
			// architectures; on ARMv4T it is undefined.
			return
		}
		inst.Kind = ThumbBranch
		inst.Offset = bits.SignExtend32((word&0x7FF)<<1, 12)
		return
	}

	inst.Kind = ThumbLongBranchLink
	inst.LinkHigh = !bits.BitSet(word, 11)
	inst.Imm = word & 0x7FF
}
