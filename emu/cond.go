package emu

import "github.com/emuforge/gbacore/insts"

// CheckCondition evaluates an ARM condition code against the CPSR
// flags. CondAL is always true; the reserved CondNV encoding is always
// false on ARMv4.
func CheckCondition(r *RegFile, cond insts.Cond) bool {
	switch cond {
	case insts.CondEQ:
		return r.Z()
	case insts.CondNE:
		return !r.Z()
	case insts.CondCS:
		return r.C()
	case insts.CondCC:
		return !r.C()
	case insts.CondMI:
		return r.N()
	case insts.CondPL:
		return !r.N()
	case insts.CondVS:
		return r.V()
	case insts.CondVC:
		return !r.V()
	case insts.CondHI:
		return r.C() && !r.Z()
	case insts.CondLS:
		return !r.C() || r.Z()
	case insts.CondGE:
		return r.N() == r.V()
	case insts.CondLT:
		return r.N() != r.V()
	case insts.CondGT:
		return !r.Z() && r.N() == r.V()
	case insts.CondLE:
		return r.Z() || r.N() != r.V()
	case insts.CondAL:
		return true
	default: // insts.CondNV
		return false
	}
}
