package insts

import "fmt"

var armOpcodeNames = [16]string{
	"AND", "EOR", "SUB", "RSB", "ADD", "ADC", "SBC", "RSC",
	"TST", "TEQ", "CMP", "CMN", "ORR", "MOV", "BIC", "MVN",
}

func (op ArmOpcode) String() string {
	return armOpcodeNames[op&0xF]
}

// String renders an approximate assembler mnemonic for trace output.
// It is not a full disassembler; operands are rendered only where they
// aid reading a trace.
func (inst *ArmInstruction) String() string {
	cond := inst.Cond.String()
	switch inst.Kind {
	case ArmDataProcessing:
		s := ""
		if inst.SetFlags {
			s = "S"
		}
		switch inst.Opcode {
		case OpMOV, OpMVN:
			return fmt.Sprintf("%s%s%s r%d, %s", inst.Opcode, cond, s, inst.Rd, inst.operand2())
		case OpTST, OpTEQ, OpCMP, OpCMN:
			return fmt.Sprintf("%s%s r%d, %s", inst.Opcode, cond, inst.Rn, inst.operand2())
		default:
			return fmt.Sprintf("%s%s%s r%d, r%d, %s", inst.Opcode, cond, s, inst.Rd, inst.Rn, inst.operand2())
		}
	case ArmPSRTransfer:
		psr := "CPSR"
		if inst.UseSPSR {
			psr = "SPSR"
		}
		if inst.MSR {
			return fmt.Sprintf("MSR%s %s, %s", cond, psr, inst.operand2())
		}
		return fmt.Sprintf("MRS%s r%d, %s", cond, inst.Rd, psr)
	case ArmBranchExchange:
		return fmt.Sprintf("BX%s r%d", cond, inst.Rm)
	case ArmSingleDataTransfer:
		op := "STR"
		if inst.Load {
			op = "LDR"
		}
		b := ""
		if inst.Byte {
			b = "B"
		}
		return fmt.Sprintf("%s%s%s r%d, [r%d]", op, cond, b, inst.Rd, inst.Rn)
	case ArmBlockDataTransfer:
		op := "STM"
		if inst.Load {
			op = "LDM"
		}
		return fmt.Sprintf("%s%s r%d, {0x%04X}", op, cond, inst.Rn, inst.RegList)
	case ArmBranch:
		l := ""
		if inst.Link {
			l = "L"
		}
		return fmt.Sprintf("B%s%s %+d", l, cond, inst.Offset)
	case ArmSoftwareInterrupt:
		return fmt.Sprintf("SWI%s 0x%06X", cond, inst.Comment)
	default:
		return fmt.Sprintf("UNDEFINED 0x%08X", inst.Raw)
	}
}

func (inst *ArmInstruction) operand2() string {
	if inst.Immediate {
		if inst.Rot == 0 {
			return fmt.Sprintf("#0x%X", inst.Imm)
		}
		return fmt.Sprintf("#0x%X, ROR #%d", inst.Imm, 2*inst.Rot)
	}
	if inst.ShiftReg {
		return fmt.Sprintf("r%d, %s r%d", inst.Rm, inst.Shift, inst.Rs)
	}
	if inst.ShiftAmount == 0 && inst.Shift == ShiftLSL {
		return fmt.Sprintf("r%d", inst.Rm)
	}
	return fmt.Sprintf("r%d, %s #%d", inst.Rm, inst.Shift, inst.ShiftAmount)
}

var thumbALUNames = [16]string{
	"AND", "EOR", "LSL", "LSR", "ASR", "ADC", "SBC", "ROR",
	"TST", "NEG", "CMP", "CMN", "ORR", "MUL", "BIC", "MVN",
}

func (op ThumbALUOp) String() string {
	return thumbALUNames[op&0xF]
}

// String renders an approximate assembler mnemonic for trace output.
func (inst *ThumbInstruction) String() string {
	switch inst.Kind {
	case ThumbMoveShifted:
		return fmt.Sprintf("%s r%d, r%d, #%d", ShiftType(inst.Op), inst.Rd, inst.Rs, inst.Imm)
	case ThumbAddSub:
		op := "ADD"
		if inst.Op == 1 {
			op = "SUB"
		}
		if inst.Immediate {
			return fmt.Sprintf("%s r%d, r%d, #%d", op, inst.Rd, inst.Rs, inst.Imm)
		}
		return fmt.Sprintf("%s r%d, r%d, r%d", op, inst.Rd, inst.Rs, inst.Rn)
	case ThumbMoveCompareImm:
		ops := [4]string{"MOV", "CMP", "ADD", "SUB"}
		return fmt.Sprintf("%s r%d, #%d", ops[inst.Op&3], inst.Rd, inst.Imm)
	case ThumbALU:
		return fmt.Sprintf("%s r%d, r%d", inst.ALUOp, inst.Rd, inst.Rs)
	case ThumbHiRegister:
		switch inst.Op {
		case HiADD:
			return fmt.Sprintf("ADD r%d, r%d", inst.Rd, inst.Rs)
		case HiCMP:
			return fmt.Sprintf("CMP r%d, r%d", inst.Rd, inst.Rs)
		case HiMOV:
			return fmt.Sprintf("MOV r%d, r%d", inst.Rd, inst.Rs)
		default:
			return fmt.Sprintf("BX r%d", inst.Rs)
		}
	case ThumbPCRelativeLoad:
		return fmt.Sprintf("LDR r%d, [pc, #%d]", inst.Rd, inst.Imm<<2)
	case ThumbLoadStoreRegister:
		return fmt.Sprintf("%s r%d, [r%d, r%d]", loadStoreName(inst.Load, inst.Byte), inst.Rd, inst.Rs, inst.Ro)
	case ThumbLoadStoreSignExt:
		ops := [4]string{"STRH", "LDRH", "LDSB", "LDSH"}
		idx := 0
		if inst.SignExtend {
			idx |= 2
		}
		if inst.Half {
			idx |= 1
		}
		return fmt.Sprintf("%s r%d, [r%d, r%d]", ops[idx], inst.Rd, inst.Rs, inst.Ro)
	case ThumbLoadStoreImm:
		scale := uint32(2)
		if inst.Byte {
			scale = 0
		}
		return fmt.Sprintf("%s r%d, [r%d, #%d]", loadStoreName(inst.Load, inst.Byte), inst.Rd, inst.Rs, inst.Imm<<scale)
	case ThumbLoadStoreHalf:
		op := "STRH"
		if inst.Load {
			op = "LDRH"
		}
		return fmt.Sprintf("%s r%d, [r%d, #%d]", op, inst.Rd, inst.Rs, inst.Imm<<1)
	case ThumbLoadStoreSP:
		return fmt.Sprintf("%s r%d, [sp, #%d]", loadStoreName(inst.Load, false), inst.Rd, inst.Imm<<2)
	case ThumbLoadAddress:
		base := "pc"
		if inst.SP {
			base = "sp"
		}
		return fmt.Sprintf("ADD r%d, %s, #%d", inst.Rd, base, inst.Imm<<2)
	case ThumbAdjustSP:
		sign := ""
		if inst.Negative {
			sign = "-"
		}
		return fmt.Sprintf("ADD sp, #%s%d", sign, inst.Imm<<2)
	case ThumbPushPop:
		op := "PUSH"
		if inst.Load {
			op = "POP"
		}
		return fmt.Sprintf("%s {0x%02X}", op, inst.RegList)
	case ThumbMultiple:
		op := "STMIA"
		if inst.Load {
			op = "LDMIA"
		}
		return fmt.Sprintf("%s r%d!, {0x%02X}", op, inst.Rs, inst.RegList)
	case ThumbCondBranch:
		return fmt.Sprintf("B%s %+d", inst.Cond, inst.Offset)
	case ThumbSoftwareInterrupt:
		return fmt.Sprintf("SWI 0x%02X", inst.Comment)
	case ThumbBranch:
		return fmt.Sprintf("B %+d", inst.Offset)
	case ThumbLongBranchLink:
		if inst.LinkHigh {
			return fmt.Sprintf("BL(hi) #0x%X", inst.Imm)
		}
		return fmt.Sprintf("BL(lo) #0x%X", inst.Imm)
	default:
		return fmt.Sprintf("UNDEFINED 0x%04X", inst.Raw)
	}
}

func loadStoreName(load, byteWide bool) string {
	switch {
	case load && byteWide:
		return "LDRB"
	case load:
		return "LDR"
	case byteWide:
		return "STRB"
	default:
		return "STR"
	}
}
