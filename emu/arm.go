package emu

import (
	mathbits "math/bits"

	"github.com/emuforge/gbacore/bits"
	"github.com/emuforge/gbacore/insts"
)

// executeArm executes a decoded ARM instruction. A failed condition
// turns the instruction into a no-op; the loop still advances the PC.
func (c *CPU) executeArm(inst *insts.ArmInstruction) {
	if !CheckCondition(c.regs, inst.Cond) {
		return
	}

	switch inst.Kind {
	case insts.ArmDataProcessing:
		c.armDataProcessing(inst)
	case insts.ArmPSRTransfer:
		c.armPSRTransfer(inst)
	case insts.ArmBranchExchange:
		c.branchExchange(c.regs.ReadOperand(inst.Rm))
	case insts.ArmSingleDataTransfer:
		c.armSingleTransfer(inst)
	case insts.ArmBlockDataTransfer:
		c.armBlockTransfer(inst)
	case insts.ArmBranch:
		c.armBranch(inst)
	case insts.ArmSoftwareInterrupt:
		c.enterSWI()
	}
}

// armOperand2 evaluates the shifter operand of a data-processing or
// MSR instruction, returning the value and the shifter carry-out.
func (c *CPU) armOperand2(inst *insts.ArmInstruction) (uint32, bool) {
	carryIn := c.regs.C()

	if inst.Immediate {
		value := bits.RotateRight32(inst.Imm, 2*uint32(inst.Rot))
		if inst.Rot == 0 {
			return value, carryIn
		}
		return value, value>>31 == 1
	}

	value := c.regs.ReadOperand(inst.Rm)
	if inst.ShiftReg {
		amount := c.regs.Read(inst.Rs) & 0xFF
		return Shift(value, inst.Shift, amount, carryIn)
	}
	return ShiftImmediate(value, inst.Shift, uint32(inst.ShiftAmount), carryIn)
}

func (c *CPU) armDataProcessing(inst *insts.ArmInstruction) {
	op2, shiftCarry := c.armOperand2(inst)
	op1 := c.regs.ReadOperand(inst.Rn)
	carry := c.regs.Carry()
	borrow := 1 - carry

	// An S-bit write to r15 restores CPSR from SPSR instead of
	// computing flags.
	s := inst.SetFlags && inst.Rd != RegPC

	var result uint32
	writeResult := true

	switch inst.Opcode {
	case insts.OpAND:
		result = op1 & op2
		if s {
			c.alu.LogicFlags(result, shiftCarry)
		}
	case insts.OpEOR:
		result = op1 ^ op2
		if s {
			c.alu.LogicFlags(result, shiftCarry)
		}
	case insts.OpSUB:
		result = c.alu.Sub(op1, op2, 0, s)
	case insts.OpRSB:
		result = c.alu.Sub(op2, op1, 0, s)
	case insts.OpADD:
		result = c.alu.Add(op1, op2, 0, s)
	case insts.OpADC:
		result = c.alu.Add(op1, op2, carry, s)
	case insts.OpSBC:
		result = c.alu.Sub(op1, op2, borrow, s)
	case insts.OpRSC:
		result = c.alu.Sub(op2, op1, borrow, s)
	case insts.OpTST:
		c.alu.LogicFlags(op1&op2, shiftCarry)
		writeResult = false
	case insts.OpTEQ:
		c.alu.LogicFlags(op1^op2, shiftCarry)
		writeResult = false
	case insts.OpCMP:
		c.alu.Sub(op1, op2, 0, true)
		writeResult = false
	case insts.OpCMN:
		c.alu.Add(op1, op2, 0, true)
		writeResult = false
	case insts.OpORR:
		result = op1 | op2
		if s {
			c.alu.LogicFlags(result, shiftCarry)
		}
	case insts.OpMOV:
		result = op2
		if s {
			c.alu.LogicFlags(result, shiftCarry)
		}
	case insts.OpBIC:
		result = op1 &^ op2
		if s {
			c.alu.LogicFlags(result, shiftCarry)
		}
	case insts.OpMVN:
		result = ^op2
		if s {
			c.alu.LogicFlags(result, shiftCarry)
		}
	}

	if !writeResult {
		return
	}

	c.regs.Write(inst.Rd, result)
	if inst.Rd == RegPC {
		if inst.SetFlags {
			// Mode restore: the saved CPSR comes back atomically,
			// including the T bit.
			c.regs.CPSR = c.regs.SPSR
		}
		c.branchTaken = true
		c.alignPC()
	}
}

// armPSRTransfer executes MRS and MSR. User mode may only change the
// flag bits of the CPSR; the rest of a User-mode write is silently
// ignored.
func (c *CPU) armPSRTransfer(inst *insts.ArmInstruction) {
	if !inst.MSR {
		value := c.regs.CPSR
		if inst.UseSPSR {
			value = c.regs.SPSR
		}
		c.regs.Write(inst.Rd, value)
		return
	}

	value, _ := c.armOperand2(inst)

	if inst.UseSPSR {
		c.regs.SPSR = value
		return
	}

	if c.regs.Mode() == ModeUser {
		c.regs.CPSR = (c.regs.CPSR &^ cpsrFlags) | (value & cpsrFlags)
	} else {
		c.regs.CPSR = value
	}
}

func (c *CPU) armSingleTransfer(inst *insts.ArmInstruction) {
	var offset uint32
	if inst.Immediate {
		offset = inst.Imm
	} else {
		value := c.regs.ReadOperand(inst.Rm)
		// The shifter carry-out of an offset shift is discarded.
		offset, _ = ShiftImmediate(value, inst.Shift, uint32(inst.ShiftAmount), c.regs.C())
	}

	base := c.regs.ReadOperand(inst.Rn)
	addr := base
	if inst.PreIndex {
		addr = applyOffset(base, offset, inst.Up)
	}

	if !inst.Load {
		value := c.regs.ReadOperand(inst.Rd)
		if inst.Byte {
			c.mem.Write8(addr, uint8(value))
		} else {
			c.mem.Write32(addr, value)
		}
	}

	// Post-indexing always writes back; pre-indexing only with W.
	if inst.Writeback || !inst.PreIndex {
		wb := addr
		if !inst.PreIndex {
			wb = applyOffset(base, offset, inst.Up)
		}
		c.regs.Write(inst.Rn, wb)
	}

	if inst.Load {
		var value uint32
		if inst.Byte {
			value = uint32(c.mem.Read8(addr))
		} else {
			value = c.mem.Read32(addr)
		}
		c.regs.Write(inst.Rd, value)
		if inst.Rd == RegPC {
			c.branchTaken = true
			c.alignPC()
		}
	}
}

// armBlockTransfer executes LDM/STM. Registers transfer in ascending
// register order at ascending addresses; a descending transfer only
// moves the address window, so the lowest-numbered register still
// lands at the lowest address. S=1 without r15 selects the User bank
// on real hardware; this core has a single flat bank and transfers it
// as-is.
func (c *CPU) armBlockTransfer(inst *insts.ArmInstruction) {
	n := uint32(mathbits.OnesCount16(inst.RegList))
	base := c.regs.Read(inst.Rn)

	var addr, writeback uint32
	if inst.Up {
		addr = base
		if inst.PreIndex {
			addr += 4
		}
		writeback = base + 4*n
	} else {
		writeback = base - 4*n
		addr = writeback
		if !inst.PreIndex {
			addr += 4
		}
	}

	for i := uint8(0); i < 16; i++ {
		if inst.RegList&(1<<i) == 0 {
			continue
		}
		if inst.Load {
			value := c.mem.Read32(addr)
			c.regs.Write(i, value)
			if i == RegPC {
				if inst.PSRForceUser {
					c.regs.CPSR = c.regs.SPSR
				}
				c.branchTaken = true
				c.alignPC()
			}
		} else {
			c.mem.Write32(addr, c.regs.ReadOperand(i))
		}
		addr += 4
	}

	if inst.Writeback {
		c.regs.Write(inst.Rn, writeback)
	}
}

func (c *CPU) armBranch(inst *insts.ArmInstruction) {
	pc := c.regs.R[RegPC]
	if inst.Link {
		c.regs.Write(RegLR, pc+4)
	}
	c.regs.R[RegPC] = pc + 8 + uint32(inst.Offset)
	c.branchTaken = true
}

func applyOffset(base, offset uint32, up bool) uint32 {
	if up {
		return base + offset
	}
	return base - offset
}
