package emu

// ALU implements the flag-setting arithmetic shared by the ARM and
// Thumb execute passes.
type ALU struct {
	regs *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regs *RegFile) *ALU {
	return &ALU{regs: regs}
}

// SetNZ sets the N and Z flags from result. C and V are untouched.
func (a *ALU) SetNZ(result uint32) {
	a.regs.SetN(result>>31 == 1)
	a.regs.SetZ(result == 0)
}

// LogicFlags applies the logical-operation flag rule: N and Z from the
// result, C from the shifter carry-out, V unchanged.
func (a *ALU) LogicFlags(result uint32, shifterCarry bool) {
	a.SetNZ(result)
	a.regs.SetC(shifterCarry)
}

// Add computes op1 + op2 + carryIn. When setFlags is true it applies
// the additive flag rule: N and Z from the result, C on unsigned
// overflow, V on signed overflow.
func (a *ALU) Add(op1, op2, carryIn uint32, setFlags bool) uint32 {
	sum := uint64(op1) + uint64(op2) + uint64(carryIn)
	result := uint32(sum)

	if setFlags {
		a.SetNZ(result)
		a.regs.SetC(sum > 0xFFFFFFFF)
		a.regs.SetV((^(op1 ^ op2) & (op1 ^ result) >> 31) == 1)
	}

	return result
}

// Sub computes op1 - op2 - borrowIn. When setFlags is true it applies
// the subtractive flag rule: N and Z from the result, C set when no
// borrow occurred, V on signed overflow.
func (a *ALU) Sub(op1, op2, borrowIn uint32, setFlags bool) uint32 {
	result := op1 - op2 - borrowIn

	if setFlags {
		a.SetNZ(result)
		a.regs.SetC(uint64(op1) >= uint64(op2)+uint64(borrowIn))
		a.regs.SetV(((op1 ^ op2) & (op1 ^ result) >> 31) == 1)
	}

	return result
}
