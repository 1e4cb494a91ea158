package emu

import (
	mathbits "math/bits"

	"github.com/emuforge/gbacore/bits"
	"github.com/emuforge/gbacore/insts"
)

// executeThumb executes a decoded Thumb instruction. Each format is an
// independent arm of the dispatch; flag behavior follows the ARM rules
// specialized to Thumb's narrower encodings.
func (c *CPU) executeThumb(inst *insts.ThumbInstruction) {
	switch inst.Kind {
	case insts.ThumbMoveShifted:
		c.thumbMoveShifted(inst)
	case insts.ThumbAddSub:
		c.thumbAddSub(inst)
	case insts.ThumbMoveCompareImm:
		c.thumbMoveCompareImm(inst)
	case insts.ThumbALU:
		c.thumbALU(inst)
	case insts.ThumbHiRegister:
		c.thumbHiRegister(inst)
	case insts.ThumbPCRelativeLoad:
		base := c.regs.ReadOperand(RegPC)
		c.regs.Write(inst.Rd, c.mem.Read32(base+inst.Imm<<2))
	case insts.ThumbLoadStoreRegister:
		c.thumbLoadStore(inst, c.regs.Read(inst.Rs)+c.regs.Read(inst.Ro), inst.Byte)
	case insts.ThumbLoadStoreSignExt:
		c.thumbLoadStoreSignExt(inst)
	case insts.ThumbLoadStoreImm:
		scale := uint32(2)
		if inst.Byte {
			scale = 0
		}
		c.thumbLoadStore(inst, c.regs.Read(inst.Rs)+inst.Imm<<scale, inst.Byte)
	case insts.ThumbLoadStoreHalf:
		c.thumbLoadStoreHalf(inst)
	case insts.ThumbLoadStoreSP:
		addr := c.regs.Read(RegSP) + inst.Imm<<2
		if inst.Load {
			c.regs.Write(inst.Rd, c.mem.Read32(addr))
		} else {
			c.mem.Write32(addr, c.regs.Read(inst.Rd))
		}
	case insts.ThumbLoadAddress:
		base := c.regs.Read(RegSP)
		if !inst.SP {
			base = c.regs.ReadOperand(RegPC)
		}
		c.regs.Write(inst.Rd, base+inst.Imm<<2)
	case insts.ThumbAdjustSP:
		delta := inst.Imm << 2
		if inst.Negative {
			c.regs.Write(RegSP, c.regs.Read(RegSP)-delta)
		} else {
			c.regs.Write(RegSP, c.regs.Read(RegSP)+delta)
		}
	case insts.ThumbPushPop:
		c.thumbPushPop(inst)
	case insts.ThumbMultiple:
		c.thumbMultiple(inst)
	case insts.ThumbCondBranch:
		if CheckCondition(c.regs, inst.Cond) {
			c.regs.R[RegPC] += 4 + uint32(inst.Offset)
			c.branchTaken = true
		}
	case insts.ThumbSoftwareInterrupt:
		c.enterSWI()
	case insts.ThumbBranch:
		c.regs.R[RegPC] += 4 + uint32(inst.Offset)
		c.branchTaken = true
	case insts.ThumbLongBranchLink:
		c.thumbLongBranchLink(inst)
	}
}

func (c *CPU) thumbMoveShifted(inst *insts.ThumbInstruction) {
	value := c.regs.Read(inst.Rs)
	result, carry := ShiftImmediate(value, insts.ShiftType(inst.Op), inst.Imm, c.regs.C())
	c.regs.Write(inst.Rd, result)
	c.alu.LogicFlags(result, carry)
}

func (c *CPU) thumbAddSub(inst *insts.ThumbInstruction) {
	op1 := c.regs.Read(inst.Rs)
	op2 := inst.Imm
	if !inst.Immediate {
		op2 = c.regs.Read(inst.Rn)
	}

	var result uint32
	if inst.Op == 0 {
		result = c.alu.Add(op1, op2, 0, true)
	} else {
		result = c.alu.Sub(op1, op2, 0, true)
	}
	c.regs.Write(inst.Rd, result)
}

func (c *CPU) thumbMoveCompareImm(inst *insts.ThumbInstruction) {
	rd := c.regs.Read(inst.Rd)

	switch inst.Op {
	case insts.ImmMOV:
		c.regs.Write(inst.Rd, inst.Imm)
		c.alu.SetNZ(inst.Imm)
	case insts.ImmCMP:
		c.alu.Sub(rd, inst.Imm, 0, true)
	case insts.ImmADD:
		c.regs.Write(inst.Rd, c.alu.Add(rd, inst.Imm, 0, true))
	case insts.ImmSUB:
		c.regs.Write(inst.Rd, c.alu.Sub(rd, inst.Imm, 0, true))
	}
}

func (c *CPU) thumbALU(inst *insts.ThumbInstruction) {
	rd := c.regs.Read(inst.Rd)
	rs := c.regs.Read(inst.Rs)
	carry := c.regs.Carry()

	switch inst.ALUOp {
	case insts.ThumbAND:
		result := rd & rs
		c.regs.Write(inst.Rd, result)
		c.alu.SetNZ(result)
	case insts.ThumbEOR:
		result := rd ^ rs
		c.regs.Write(inst.Rd, result)
		c.alu.SetNZ(result)
	case insts.ThumbLSL, insts.ThumbLSR, insts.ThumbASR, insts.ThumbROR:
		result, carryOut := Shift(rd, thumbShiftType(inst.ALUOp), rs&0xFF, c.regs.C())
		c.regs.Write(inst.Rd, result)
		c.alu.LogicFlags(result, carryOut)
	case insts.ThumbADC:
		c.regs.Write(inst.Rd, c.alu.Add(rd, rs, carry, true))
	case insts.ThumbSBC:
		c.regs.Write(inst.Rd, c.alu.Sub(rd, rs, 1-carry, true))
	case insts.ThumbTST:
		c.alu.SetNZ(rd & rs)
	case insts.ThumbNEG:
		c.regs.Write(inst.Rd, c.alu.Sub(0, rs, 0, true))
	case insts.ThumbCMP:
		c.alu.Sub(rd, rs, 0, true)
	case insts.ThumbCMN:
		c.alu.Add(rd, rs, 0, true)
	case insts.ThumbORR:
		result := rd | rs
		c.regs.Write(inst.Rd, result)
		c.alu.SetNZ(result)
	case insts.ThumbMUL:
		// MUL updates N and Z only.
		result := rd * rs
		c.regs.Write(inst.Rd, result)
		c.alu.SetNZ(result)
	case insts.ThumbBIC:
		result := rd &^ rs
		c.regs.Write(inst.Rd, result)
		c.alu.SetNZ(result)
	case insts.ThumbMVN:
		result := ^rs
		c.regs.Write(inst.Rd, result)
		c.alu.SetNZ(result)
	}
}

func thumbShiftType(op insts.ThumbALUOp) insts.ShiftType {
	switch op {
	case insts.ThumbLSL:
		return insts.ShiftLSL
	case insts.ThumbLSR:
		return insts.ShiftLSR
	case insts.ThumbASR:
		return insts.ShiftASR
	default:
		return insts.ShiftROR
	}
}

// thumbHiRegister executes format 5: ADD/CMP/MOV on the full register
// set, and BX. ADD and MOV do not set flags; a write to r15 is a
// branch.
func (c *CPU) thumbHiRegister(inst *insts.ThumbInstruction) {
	switch inst.Op {
	case insts.HiADD:
		result := c.regs.ReadOperand(inst.Rd) + c.regs.ReadOperand(inst.Rs)
		c.thumbWriteHi(inst.Rd, result)
	case insts.HiCMP:
		c.alu.Sub(c.regs.ReadOperand(inst.Rd), c.regs.ReadOperand(inst.Rs), 0, true)
	case insts.HiMOV:
		c.thumbWriteHi(inst.Rd, c.regs.ReadOperand(inst.Rs))
	case insts.HiBX:
		c.branchExchange(c.regs.ReadOperand(inst.Rs))
	}
}

func (c *CPU) thumbWriteHi(reg uint8, value uint32) {
	if reg == RegPC {
		c.regs.R[RegPC] = value &^ 1
		c.branchTaken = true
		return
	}
	c.regs.Write(reg, value)
}

func (c *CPU) thumbLoadStore(inst *insts.ThumbInstruction, addr uint32, byteWide bool) {
	if inst.Load {
		if byteWide {
			c.regs.Write(inst.Rd, uint32(c.mem.Read8(addr)))
		} else {
			c.regs.Write(inst.Rd, c.mem.Read32(addr))
		}
		return
	}
	if byteWide {
		c.mem.Write8(addr, uint8(c.regs.Read(inst.Rd)))
	} else {
		c.mem.Write32(addr, c.regs.Read(inst.Rd))
	}
}

// thumbLoadStoreSignExt executes format 8: STRH, LDRH, and the
// sign-extending byte/halfword loads, all with a register offset.
func (c *CPU) thumbLoadStoreSignExt(inst *insts.ThumbInstruction) {
	addr := c.regs.Read(inst.Rs) + c.regs.Read(inst.Ro)

	switch {
	case !inst.SignExtend && !inst.Half:
		c.mem.Write16(addr, uint16(c.regs.Read(inst.Rd)))
	case !inst.SignExtend && inst.Half:
		c.regs.Write(inst.Rd, uint32(c.mem.Read16(addr)))
	case inst.SignExtend && !inst.Half:
		c.regs.Write(inst.Rd, uint32(bits.SignExtend32(uint32(c.mem.Read8(addr)), 8)))
	default:
		c.regs.Write(inst.Rd, uint32(bits.SignExtend32(uint32(c.mem.Read16(addr)), 16)))
	}
}

func (c *CPU) thumbLoadStoreHalf(inst *insts.ThumbInstruction) {
	addr := c.regs.Read(inst.Rs) + inst.Imm<<1
	if inst.Load {
		c.regs.Write(inst.Rd, uint32(c.mem.Read16(addr)))
	} else {
		c.mem.Write16(addr, uint16(c.regs.Read(inst.Rd)))
	}
}

// thumbPushPop executes format 14. PUSH stores descending with the
// lowest register at the lowest address and LR highest; POP mirrors
// it, with a loaded PC taking a branch.
func (c *CPU) thumbPushPop(inst *insts.ThumbInstruction) {
	count := uint32(mathbits.OnesCount8(inst.RegList))
	if inst.PCLR {
		count++
	}

	if !inst.Load {
		addr := c.regs.Read(RegSP) - 4*count
		c.regs.Write(RegSP, addr)
		for i := uint8(0); i < 8; i++ {
			if inst.RegList&(1<<i) != 0 {
				c.mem.Write32(addr, c.regs.Read(i))
				addr += 4
			}
		}
		if inst.PCLR {
			c.mem.Write32(addr, c.regs.Read(RegLR))
		}
		return
	}

	addr := c.regs.Read(RegSP)
	for i := uint8(0); i < 8; i++ {
		if inst.RegList&(1<<i) != 0 {
			c.regs.Write(i, c.mem.Read32(addr))
			addr += 4
		}
	}
	if inst.PCLR {
		c.regs.R[RegPC] = c.mem.Read32(addr) &^ 1
		c.branchTaken = true
		addr += 4
	}
	c.regs.Write(RegSP, addr)
}

// thumbMultiple executes LDMIA/STMIA with base writeback.
func (c *CPU) thumbMultiple(inst *insts.ThumbInstruction) {
	addr := c.regs.Read(inst.Rs)

	for i := uint8(0); i < 8; i++ {
		if inst.RegList&(1<<i) == 0 {
			continue
		}
		if inst.Load {
			c.regs.Write(i, c.mem.Read32(addr))
		} else {
			c.mem.Write32(addr, c.regs.Read(i))
		}
		addr += 4
	}

	c.regs.Write(inst.Rs, addr)
}

// thumbLongBranchLink executes the format 19 BL pair. The first
// halfword stages the high part of the target in lr; the second
// completes the target, branches, and leaves the return address in lr
// with bit 0 set. The T bit is unchanged.
func (c *CPU) thumbLongBranchLink(inst *insts.ThumbInstruction) {
	pc := c.regs.R[RegPC]

	if inst.LinkHigh {
		offset := bits.SignExtend32(inst.Imm, 11)
		c.regs.Write(RegLR, pc+4+uint32(offset<<12))
		return
	}

	target := c.regs.Read(RegLR) + inst.Imm<<1
	c.regs.Write(RegLR, (pc+2)|1)
	c.regs.R[RegPC] = target &^ 1
	c.branchTaken = true
}
