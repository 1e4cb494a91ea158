package insts

import "github.com/emuforge/gbacore/bits"

// ArmKind represents an ARM instruction class.
type ArmKind uint8

// ARM instruction classes.
const (
	ArmUnknown ArmKind = iota
	ArmDataProcessing
	ArmPSRTransfer
	ArmBranchExchange
	ArmSingleDataTransfer
	ArmBlockDataTransfer
	ArmBranch
	ArmSoftwareInterrupt
)

// ArmOpcode represents a data-processing opcode (bits 24..21).
type ArmOpcode uint8

// Data-processing opcodes.
const (
	OpAND ArmOpcode = 0x0
	OpEOR ArmOpcode = 0x1
	OpSUB ArmOpcode = 0x2
	OpRSB ArmOpcode = 0x3
	OpADD ArmOpcode = 0x4
	OpADC ArmOpcode = 0x5
	OpSBC ArmOpcode = 0x6
	OpRSC ArmOpcode = 0x7
	OpTST ArmOpcode = 0x8
	OpTEQ ArmOpcode = 0x9
	OpCMP ArmOpcode = 0xA
	OpCMN ArmOpcode = 0xB
	OpORR ArmOpcode = 0xC
	OpMOV ArmOpcode = 0xD
	OpBIC ArmOpcode = 0xE
	OpMVN ArmOpcode = 0xF
)

// ArmInstruction represents a decoded ARM instruction.
type ArmInstruction struct {
	Raw  uint32  // Original encoding
	Kind ArmKind // Instruction class
	Cond Cond    // Condition code (bits 31..28)

	// Common fields
	Opcode   ArmOpcode // Data-processing opcode
	SetFlags bool      // S bit
	Rn       uint8     // First operand / base register
	Rd       uint8     // Destination register
	Rm       uint8     // Second operand register

	// Second operand / offset
	Immediate   bool      // I bit resolved: true when the operand is an immediate
	Imm         uint32    // Unrotated 8-bit immediate (data processing, MSR) or 12-bit offset (transfers)
	Rot         uint8     // Rotate field for the 8-bit immediate (bits 11..8); value rotates right by 2*Rot
	Shift       ShiftType // Shift applied to Rm
	ShiftAmount uint8     // Immediate shift amount (bits 11..7)
	ShiftReg    bool      // Shift amount comes from Rs instead
	Rs          uint8     // Shift amount register

	// PSR transfer
	UseSPSR bool // Ps/Pd bit: transfer targets SPSR instead of CPSR
	MSR     bool // true for MSR (write PSR), false for MRS (read PSR)

	// Single data transfer
	PreIndex  bool // P bit
	Up        bool // U bit
	Byte      bool // B bit
	Writeback bool // W bit
	Load      bool // L bit

	// Block data transfer
	PSRForceUser bool   // S bit of LDM/STM
	RegList      uint16 // Transfer register list

	// Branch
	Link   bool  // L bit of B/BL
	Offset int32 // Sign-extended branch offset in bytes (already shifted left by 2)

	// Software interrupt
	Comment uint32 // 24-bit SWI comment field
}

// DecodeArm decodes a 32-bit ARM instruction word.
func DecodeArm(word uint32) *ArmInstruction {
	inst := &ArmInstruction{
		Raw:  word,
		Kind: ArmUnknown,
		Cond: Cond(word >> 28),
	}

	switch bits.Field(word, 25, 3) {
	case 0b000, 0b001:
		decodeArmDataClass(word, inst)
	case 0b010, 0b011:
		decodeArmSingleTransfer(word, inst)
	case 0b100:
		decodeArmBlockTransfer(word, inst)
	case 0b101:
		decodeArmBranch(word, inst)
	case 0b111:
		// Bit 24 separates SWI from the coprocessor space, which is
		// not supported.
		if bits.BitSet(word, 24) {
			inst.Kind = ArmSoftwareInterrupt
			inst.Comment = word & 0xFFFFFF
		}
	}

	return inst
}

// decodeArmDataClass decodes the 000/001 class: BX, data processing,
// and the MRS/MSR carve-out of the test opcodes.
func decodeArmDataClass(word uint32, inst *ArmInstruction) {
	// Branch-and-Exchange occupies a fixed pattern inside the
	// data-processing space: bits 27..4 == 0x12FFF1.
	if word&0x0FFFFFF0 == 0x012FFF10 {
		inst.Kind = ArmBranchExchange
		inst.Rm = uint8(word & 0xF)
		return
	}

	immediate := bits.BitSet(word, 25)

	// Register-operand forms with bit 4 and bit 7 both set belong to
	// the multiply and halfword-transfer extensions, which this core
	// does not implement.
	if !immediate && bits.BitSet(word, 4) && bits.BitSet(word, 7) {
		return
	}

	opcode := ArmOpcode(bits.Field(word, 21, 4))
	setFlags := bits.BitSet(word, 20)

	// Test opcodes without S are PSR transfers: TST/CMP slots hold
	// MRS, TEQ/CMN slots hold MSR.
	if opcode >= OpTST && opcode <= OpCMN && !setFlags {
		inst.Kind = ArmPSRTransfer
		inst.UseSPSR = bits.BitSet(word, 22)
		inst.MSR = bits.BitSet(word, 21)
		inst.Rd = uint8(bits.Field(word, 12, 4))
		decodeArmOperand2(word, immediate, inst)
		return
	}

	inst.Kind = ArmDataProcessing
	inst.Opcode = opcode
	inst.SetFlags = setFlags
	inst.Rn = uint8(bits.Field(word, 16, 4))
	inst.Rd = uint8(bits.Field(word, 12, 4))
	decodeArmOperand2(word, immediate, inst)
}

// decodeArmOperand2 extracts the shifter operand shared by data
// processing and MSR.
func decodeArmOperand2(word uint32, immediate bool, inst *ArmInstruction) {
	inst.Immediate = immediate
	if immediate {
		inst.Imm = word & 0xFF
		inst.Rot = uint8(bits.Field(word, 8, 4))
		return
	}

	inst.Rm = uint8(word & 0xF)
	inst.Shift = ShiftType(bits.Field(word, 5, 2))
	if bits.BitSet(word, 4) {
		inst.ShiftReg = true
		inst.Rs = uint8(bits.Field(word, 8, 4))
	} else {
		inst.ShiftAmount = uint8(bits.Field(word, 7, 5))
	}
}

// decodeArmSingleTransfer decodes LDR/STR and their byte forms.
func decodeArmSingleTransfer(word uint32, inst *ArmInstruction) {
	// In this class the I bit is inverted relative to data processing:
	// set means register offset. A set bit 4 alongside a register
	// offset is an undefined-instruction extension slot.
	registerOffset := bits.BitSet(word, 25)
	if registerOffset && bits.BitSet(word, 4) {
		return
	}

	inst.Kind = ArmSingleDataTransfer
	inst.PreIndex = bits.BitSet(word, 24)
	inst.Up = bits.BitSet(word, 23)
	inst.Byte = bits.BitSet(word, 22)
	inst.Writeback = bits.BitSet(word, 21)
	inst.Load = bits.BitSet(word, 20)
	inst.Rn = uint8(bits.Field(word, 16, 4))
	inst.Rd = uint8(bits.Field(word, 12, 4))

	if registerOffset {
		inst.Rm = uint8(word & 0xF)
		inst.Shift = ShiftType(bits.Field(word, 5, 2))
		inst.ShiftAmount = uint8(bits.Field(word, 7, 5))
	} else {
		inst.Immediate = true
		inst.Imm = word & 0xFFF
	}
}

// decodeArmBlockTransfer decodes LDM/STM.
func decodeArmBlockTransfer(word uint32, inst *ArmInstruction) {
	inst.Kind = ArmBlockDataTransfer
	inst.PreIndex = bits.BitSet(word, 24)
	inst.Up = bits.BitSet(word, 23)
	inst.PSRForceUser = bits.BitSet(word, 22)
	inst.Writeback = bits.BitSet(word, 21)
	inst.Load = bits.BitSet(word, 20)
	inst.Rn = uint8(bits.Field(word, 16, 4))
	inst.RegList = uint16(word & 0xFFFF)
}

// decodeArmBranch decodes B/BL. The 24-bit offset is shifted left by
// two and sign-extended to a byte offset.
func decodeArmBranch(word uint32, inst *ArmInstruction) {
	inst.Kind = ArmBranch
	inst.Link = bits.BitSet(word, 24)
	inst.Offset = bits.SignExtend32((word&0xFFFFFF)<<2, 26)
}
