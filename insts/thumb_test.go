package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/emuforge/gbacore/insts"
)

var _ = Describe("DecodeThumb", func() {
	// LSL r0, r1, #2 -> 0x0088
	It("should decode move shifted register", func() {
		inst := insts.DecodeThumb(0x0088)

		Expect(inst.Kind).To(Equal(insts.ThumbMoveShifted))
		Expect(insts.ShiftType(inst.Op)).To(Equal(insts.ShiftLSL))
		Expect(inst.Imm).To(Equal(uint32(2)))
		Expect(inst.Rs).To(Equal(uint8(1)))
		Expect(inst.Rd).To(Equal(uint8(0)))
	})

	// ASR r3, r4, #31 -> 0x17E3
	It("should decode ASR by immediate", func() {
		inst := insts.DecodeThumb(0x17E3)

		Expect(inst.Kind).To(Equal(insts.ThumbMoveShifted))
		Expect(insts.ShiftType(inst.Op)).To(Equal(insts.ShiftASR))
		Expect(inst.Imm).To(Equal(uint32(31)))
		Expect(inst.Rs).To(Equal(uint8(4)))
		Expect(inst.Rd).To(Equal(uint8(3)))
	})

	// ADD r0, r1, r2 -> 0x1888
	It("should decode add register", func() {
		inst := insts.DecodeThumb(0x1888)

		Expect(inst.Kind).To(Equal(insts.ThumbAddSub))
		Expect(inst.Immediate).To(BeFalse())
		Expect(inst.Op).To(Equal(uint8(0)))
		Expect(inst.Rn).To(Equal(uint8(2)))
		Expect(inst.Rs).To(Equal(uint8(1)))
		Expect(inst.Rd).To(Equal(uint8(0)))
	})

	// SUB r0, r1, #3 -> 0x1EC8
	It("should decode subtract immediate", func() {
		inst := insts.DecodeThumb(0x1EC8)

		Expect(inst.Kind).To(Equal(insts.ThumbAddSub))
		Expect(inst.Immediate).To(BeTrue())
		Expect(inst.Op).To(Equal(uint8(1)))
		Expect(inst.Imm).To(Equal(uint32(3)))
		Expect(inst.Rs).To(Equal(uint8(1)))
		Expect(inst.Rd).To(Equal(uint8(0)))
	})

	// MOV r1, #15 -> 0x210F
	It("should decode move immediate", func() {
		inst := insts.DecodeThumb(0x210F)

		Expect(inst.Kind).To(Equal(insts.ThumbMoveCompareImm))
		Expect(inst.Op).To(Equal(insts.ImmMOV))
		Expect(inst.Rd).To(Equal(uint8(1)))
		Expect(inst.Imm).To(Equal(uint32(15)))
	})

	// CMP r2, #200 -> 0x2AC8
	It("should decode compare immediate", func() {
		inst := insts.DecodeThumb(0x2AC8)

		Expect(inst.Kind).To(Equal(insts.ThumbMoveCompareImm))
		Expect(inst.Op).To(Equal(insts.ImmCMP))
		Expect(inst.Rd).To(Equal(uint8(2)))
		Expect(inst.Imm).To(Equal(uint32(200)))
	})

	// AND r0, r1 -> 0x4008
	It("should decode ALU operations", func() {
		inst := insts.DecodeThumb(0x4008)

		Expect(inst.Kind).To(Equal(insts.ThumbALU))
		Expect(inst.ALUOp).To(Equal(insts.ThumbAND))
		Expect(inst.Rs).To(Equal(uint8(1)))
		Expect(inst.Rd).To(Equal(uint8(0)))
	})

	// MVN r7, r6 -> 0x43F7
	It("should decode MVN", func() {
		inst := insts.DecodeThumb(0x43F7)

		Expect(inst.Kind).To(Equal(insts.ThumbALU))
		Expect(inst.ALUOp).To(Equal(insts.ThumbMVN))
		Expect(inst.Rs).To(Equal(uint8(6)))
		Expect(inst.Rd).To(Equal(uint8(7)))
	})

	// MOV r8, r0 -> 0x4680
	It("should decode hi-register MOV", func() {
		inst := insts.DecodeThumb(0x4680)

		Expect(inst.Kind).To(Equal(insts.ThumbHiRegister))
		Expect(inst.Op).To(Equal(insts.HiMOV))
		Expect(inst.Rd).To(Equal(uint8(8)))
		Expect(inst.Rs).To(Equal(uint8(0)))
	})

	// BX r1 -> 0x4708
	It("should decode BX", func() {
		inst := insts.DecodeThumb(0x4708)

		Expect(inst.Kind).To(Equal(insts.ThumbHiRegister))
		Expect(inst.Op).To(Equal(insts.HiBX))
		Expect(inst.Rs).To(Equal(uint8(1)))
	})

	// LDR r0, [pc, #4] -> 0x4801
	It("should decode PC-relative load", func() {
		inst := insts.DecodeThumb(0x4801)

		Expect(inst.Kind).To(Equal(insts.ThumbPCRelativeLoad))
		Expect(inst.Rd).To(Equal(uint8(0)))
		Expect(inst.Imm).To(Equal(uint32(1)))
	})

	// STR r0, [r1, r2] -> 0x5088
	It("should decode load/store with register offset", func() {
		inst := insts.DecodeThumb(0x5088)

		Expect(inst.Kind).To(Equal(insts.ThumbLoadStoreRegister))
		Expect(inst.Load).To(BeFalse())
		Expect(inst.Byte).To(BeFalse())
		Expect(inst.Ro).To(Equal(uint8(2)))
		Expect(inst.Rs).To(Equal(uint8(1)))
		Expect(inst.Rd).To(Equal(uint8(0)))
	})

	// LDRB r3, [r4, r5] -> 0x5D63
	It("should decode LDRB with register offset", func() {
		inst := insts.DecodeThumb(0x5D63)

		Expect(inst.Kind).To(Equal(insts.ThumbLoadStoreRegister))
		Expect(inst.Load).To(BeTrue())
		Expect(inst.Byte).To(BeTrue())
		Expect(inst.Ro).To(Equal(uint8(5)))
		Expect(inst.Rs).To(Equal(uint8(4)))
		Expect(inst.Rd).To(Equal(uint8(3)))
	})

	// LDSH r0, [r1, r2] -> 0x5E88
	It("should decode the sign-extended transfers", func() {
		strh := insts.DecodeThumb(0x5288)
		Expect(strh.Kind).To(Equal(insts.ThumbLoadStoreSignExt))
		Expect(strh.SignExtend).To(BeFalse())
		Expect(strh.Half).To(BeFalse())

		ldrh := insts.DecodeThumb(0x5A88)
		Expect(ldrh.Kind).To(Equal(insts.ThumbLoadStoreSignExt))
		Expect(ldrh.SignExtend).To(BeFalse())
		Expect(ldrh.Half).To(BeTrue())

		ldsb := insts.DecodeThumb(0x5688)
		Expect(ldsb.SignExtend).To(BeTrue())
		Expect(ldsb.Half).To(BeFalse())

		ldsh := insts.DecodeThumb(0x5E88)
		Expect(ldsh.SignExtend).To(BeTrue())
		Expect(ldsh.Half).To(BeTrue())
		Expect(ldsh.Ro).To(Equal(uint8(2)))
		Expect(ldsh.Rs).To(Equal(uint8(1)))
		Expect(ldsh.Rd).To(Equal(uint8(0)))
	})

	// LDR r0, [r1, #4] -> 0x6848
	It("should decode load with immediate offset", func() {
		inst := insts.DecodeThumb(0x6848)

		Expect(inst.Kind).To(Equal(insts.ThumbLoadStoreImm))
		Expect(inst.Load).To(BeTrue())
		Expect(inst.Byte).To(BeFalse())
		Expect(inst.Imm).To(Equal(uint32(1)))
		Expect(inst.Rs).To(Equal(uint8(1)))
		Expect(inst.Rd).To(Equal(uint8(0)))
	})

	// STRB r2, [r3, #7] -> 0x71DA
	It("should decode byte store with immediate offset", func() {
		inst := insts.DecodeThumb(0x71DA)

		Expect(inst.Kind).To(Equal(insts.ThumbLoadStoreImm))
		Expect(inst.Load).To(BeFalse())
		Expect(inst.Byte).To(BeTrue())
		Expect(inst.Imm).To(Equal(uint32(7)))
		Expect(inst.Rs).To(Equal(uint8(3)))
		Expect(inst.Rd).To(Equal(uint8(2)))
	})

	// STRH r0, [r1, #2] -> 0x8048
	It("should decode halfword transfer", func() {
		inst := insts.DecodeThumb(0x8048)

		Expect(inst.Kind).To(Equal(insts.ThumbLoadStoreHalf))
		Expect(inst.Load).To(BeFalse())
		Expect(inst.Imm).To(Equal(uint32(1)))
		Expect(inst.Rs).To(Equal(uint8(1)))
		Expect(inst.Rd).To(Equal(uint8(0)))
	})

	// STR r0, [sp, #4] -> 0x9001
	It("should decode SP-relative store", func() {
		inst := insts.DecodeThumb(0x9001)

		Expect(inst.Kind).To(Equal(insts.ThumbLoadStoreSP))
		Expect(inst.Load).To(BeFalse())
		Expect(inst.Rd).To(Equal(uint8(0)))
		Expect(inst.Imm).To(Equal(uint32(1)))
	})

	// ADD r0, pc, #4 -> 0xA001 and ADD r1, sp, #8 -> 0xA902
	It("should decode load address", func() {
		fromPC := insts.DecodeThumb(0xA001)
		Expect(fromPC.Kind).To(Equal(insts.ThumbLoadAddress))
		Expect(fromPC.SP).To(BeFalse())
		Expect(fromPC.Rd).To(Equal(uint8(0)))
		Expect(fromPC.Imm).To(Equal(uint32(1)))

		fromSP := insts.DecodeThumb(0xA902)
		Expect(fromSP.Kind).To(Equal(insts.ThumbLoadAddress))
		Expect(fromSP.SP).To(BeTrue())
		Expect(fromSP.Rd).To(Equal(uint8(1)))
		Expect(fromSP.Imm).To(Equal(uint32(2)))
	})

	// ADD sp, #4 -> 0xB001 and SUB sp, #4 -> 0xB081
	It("should decode SP adjustment", func() {
		up := insts.DecodeThumb(0xB001)
		Expect(up.Kind).To(Equal(insts.ThumbAdjustSP))
		Expect(up.Negative).To(BeFalse())
		Expect(up.Imm).To(Equal(uint32(1)))

		down := insts.DecodeThumb(0xB081)
		Expect(down.Kind).To(Equal(insts.ThumbAdjustSP))
		Expect(down.Negative).To(BeTrue())
		Expect(down.Imm).To(Equal(uint32(1)))
	})

	// PUSH {r0-r3} -> 0xB40F and POP {r4-r7} -> 0xBCF0
	It("should decode push and pop", func() {
		push := insts.DecodeThumb(0xB40F)
		Expect(push.Kind).To(Equal(insts.ThumbPushPop))
		Expect(push.Load).To(BeFalse())
		Expect(push.PCLR).To(BeFalse())
		Expect(push.RegList).To(Equal(uint8(0x0F)))

		pop := insts.DecodeThumb(0xBCF0)
		Expect(pop.Kind).To(Equal(insts.ThumbPushPop))
		Expect(pop.Load).To(BeTrue())
		Expect(pop.RegList).To(Equal(uint8(0xF0)))
	})

	// PUSH {lr} -> 0xB500 and POP {pc} -> 0xBD00
	It("should decode the LR/PC variants of push and pop", func() {
		push := insts.DecodeThumb(0xB500)
		Expect(push.Kind).To(Equal(insts.ThumbPushPop))
		Expect(push.PCLR).To(BeTrue())
		Expect(push.RegList).To(Equal(uint8(0)))

		pop := insts.DecodeThumb(0xBD00)
		Expect(pop.Load).To(BeTrue())
		Expect(pop.PCLR).To(BeTrue())
	})

	// STMIA r0!, {r1, r2} -> 0xC006 and LDMIA r1!, {r0} -> 0xC901
	It("should decode multiple load/store", func() {
		stm := insts.DecodeThumb(0xC006)
		Expect(stm.Kind).To(Equal(insts.ThumbMultiple))
		Expect(stm.Load).To(BeFalse())
		Expect(stm.Rs).To(Equal(uint8(0)))
		Expect(stm.RegList).To(Equal(uint8(0x06)))

		ldm := insts.DecodeThumb(0xC901)
		Expect(ldm.Kind).To(Equal(insts.ThumbMultiple))
		Expect(ldm.Load).To(BeTrue())
		Expect(ldm.Rs).To(Equal(uint8(1)))
		Expect(ldm.RegList).To(Equal(uint8(0x01)))
	})

	// BNE -4 -> 0xD1FE
	It("should decode conditional branch", func() {
		inst := insts.DecodeThumb(0xD1FE)

		Expect(inst.Kind).To(Equal(insts.ThumbCondBranch))
		Expect(inst.Cond).To(Equal(insts.CondNE))
		Expect(inst.Offset).To(Equal(int32(-4)))
	})

	// SWI 0x12 -> 0xDF12
	It("should decode SWI from the condition-0xF slot", func() {
		inst := insts.DecodeThumb(0xDF12)

		Expect(inst.Kind).To(Equal(insts.ThumbSoftwareInterrupt))
		Expect(inst.Comment).To(Equal(uint32(0x12)))
	})

	// B +4 -> 0xE002 and B -4 -> 0xE7FE
	It("should decode unconditional branch", func() {
		fwd := insts.DecodeThumb(0xE002)
		Expect(fwd.Kind).To(Equal(insts.ThumbBranch))
		Expect(fwd.Offset).To(Equal(int32(4)))

		back := insts.DecodeThumb(0xE7FE)
		Expect(back.Kind).To(Equal(insts.ThumbBranch))
		Expect(back.Offset).To(Equal(int32(-4)))
	})

	// BL pair: 0xF000 (high, offset 0), 0xF801 (low, offset 1)
	It("should decode both halves of long branch with link", func() {
		high := insts.DecodeThumb(0xF000)
		Expect(high.Kind).To(Equal(insts.ThumbLongBranchLink))
		Expect(high.LinkHigh).To(BeTrue())
		Expect(high.Imm).To(Equal(uint32(0)))

		low := insts.DecodeThumb(0xF801)
		Expect(low.Kind).To(Equal(insts.ThumbLongBranchLink))
		Expect(low.LinkHigh).To(BeFalse())
		Expect(low.Imm).To(Equal(uint32(1)))
	})

	It("should reject the BLX prefix slot", func() {
		inst := insts.DecodeThumb(0xE802)
		Expect(inst.Kind).To(Equal(insts.ThumbUnknown))
	})

	It("should decode the same halfword identically twice", func() {
		halves := []uint16{0x0088, 0x1888, 0x210F, 0x4708, 0xB40F, 0xD1FE, 0xF000}
		for _, h := range halves {
			a := insts.DecodeThumb(h)
			b := insts.DecodeThumb(h)
			Expect(*a).To(Equal(*b))
		}
	})
})
