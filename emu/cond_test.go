package emu_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/emuforge/gbacore/emu"
	"github.com/emuforge/gbacore/insts"
)

var _ = Describe("CheckCondition", func() {
	// expected computes the ARM condition table from the individual
	// flags, independently of the evaluator's own structure.
	expected := func(cond insts.Cond, n, z, c, v bool) bool {
		switch cond {
		case insts.CondEQ:
			return z
		case insts.CondNE:
			return !z
		case insts.CondCS:
			return c
		case insts.CondCC:
			return !c
		case insts.CondMI:
			return n
		case insts.CondPL:
			return !n
		case insts.CondVS:
			return v
		case insts.CondVC:
			return !v
		case insts.CondHI:
			return c && !z
		case insts.CondLS:
			return !c || z
		case insts.CondGE:
			return n == v
		case insts.CondLT:
			return n != v
		case insts.CondGT:
			return !z && n == v
		case insts.CondLE:
			return z || n != v
		case insts.CondAL:
			return true
		default:
			return false
		}
	}

	It("should match the ARM table for every condition and flag combination", func() {
		for cond := insts.Cond(0); cond < 16; cond++ {
			for flags := uint32(0); flags < 16; flags++ {
				n := flags&8 != 0
				z := flags&4 != 0
				c := flags&2 != 0
				v := flags&1 != 0

				regs := &emu.RegFile{}
				regs.SetN(n)
				regs.SetZ(z)
				regs.SetC(c)
				regs.SetV(v)

				got := emu.CheckCondition(regs, cond)
				want := expected(cond, n, z, c, v)
				Expect(got).To(Equal(want),
					fmt.Sprintf("cond=%d n=%v z=%v c=%v v=%v", cond, n, z, c, v))
			}
		}
	})

	It("should always pass AL and always fail NV", func() {
		regs := &emu.RegFile{}
		Expect(emu.CheckCondition(regs, insts.CondAL)).To(BeTrue())
		Expect(emu.CheckCondition(regs, insts.CondNV)).To(BeFalse())
	})
})
