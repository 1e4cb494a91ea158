package emu_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/emuforge/gbacore/emu"
)

var _ = Describe("CPU", func() {
	Describe("initial state", func() {
		It("should start zeroed in ARM state and User mode", func() {
			c := emu.NewCPU(emu.NewMemory())

			for i := uint8(0); i < 16; i++ {
				Expect(c.Regs().Read(i)).To(Equal(uint32(0)))
			}
			Expect(c.Regs().Thumb()).To(BeFalse())
			Expect(c.Regs().Mode()).To(Equal(emu.ModeUser))
		})

		It("should honor WithPC", func() {
			c := emu.NewCPU(emu.NewMemory(), emu.WithPC(0x08000000))
			Expect(c.Regs().R[emu.RegPC]).To(Equal(uint32(0x08000000)))
		})
	})

	Describe("PC advance", func() {
		It("should advance by 4 when no branch was taken in ARM state", func() {
			c := newARMCPU(0, 0xE3A0100F) // MOV r1, #0x0F

			c.Step()

			Expect(c.Regs().R[emu.RegPC]).To(Equal(uint32(4)))
		})

		It("should advance by 2 when no branch was taken in Thumb state", func() {
			c := newThumbCPU(0, 0x210F) // MOV r1, #15

			c.Step()

			Expect(c.Regs().R[emu.RegPC]).To(Equal(uint32(2)))
		})

		It("should not advance past an executor-written PC", func() {
			c := newARMCPU(0x100, 0xEA000002) // B +8

			c.Step()

			Expect(c.Regs().R[emu.RegPC]).To(Equal(uint32(0x110)))
		})
	})

	Describe("termination", func() {
		It("should halt when the PC leaves the mapped range", func() {
			c := emu.NewCPU(emu.NewMemory(), emu.WithPC(0x01000000))

			result := c.Step()

			Expect(result.Stopped).To(BeTrue())
			Expect(result.Status).To(Equal(emu.StatusHalted))
		})

		It("should halt a Run at the end of the BIOS region", func() {
			mem := emu.NewMemory()
			mem.Write32(0, 0xE3A0100F) // MOV r1, #0x0F
			// The rest of the BIOS is zero; 0x00000000 decodes as
			// ANDEQ r0, r0, r0 and executes as a no-op stream until
			// the PC walks off the region.
			c := emu.NewCPU(mem)

			result := c.Run()

			Expect(result.Status).To(Equal(emu.StatusHalted))
			Expect(c.Regs().R[emu.RegPC]).To(Equal(emu.BIOSSize))
			Expect(c.Regs().Read(1)).To(Equal(uint32(0x0F)))
		})

		It("should stop on an unhandled ARM encoding", func() {
			c := newARMCPU(0x100, 0xEE000000) // coprocessor space

			result := c.Step()

			Expect(result.Stopped).To(BeTrue())
			Expect(result.Status).To(Equal(emu.StatusUnhandled))

			var unhandled *emu.UnhandledInstructionError
			Expect(result.Err).To(BeAssignableToTypeOf(unhandled))
			unhandled = result.Err.(*emu.UnhandledInstructionError)
			Expect(unhandled.Word).To(Equal(uint32(0xEE000000)))
			Expect(unhandled.PC).To(Equal(uint32(0x100)))

			// State is left in place for inspection.
			Expect(c.Regs().R[emu.RegPC]).To(Equal(uint32(0x100)))
		})

		It("should stop on an unhandled Thumb encoding", func() {
			c := newThumbCPU(0x100, 0xE802) // BLX prefix slot

			result := c.Step()

			Expect(result.Stopped).To(BeTrue())
			Expect(result.Status).To(Equal(emu.StatusUnhandled))
		})

		It("should stop when cancelled", func() {
			c := newARMCPU(0, 0xE3A0100F)
			c.Cancel()

			result := c.Step()

			Expect(result.Stopped).To(BeTrue())
			Expect(result.Status).To(Equal(emu.StatusCancelled))
		})

		It("should stop at the instruction limit", func() {
			mem := emu.NewMemory()
			mem.Write32(0x100, 0xEAFFFFFE) // B . (tight loop)
			c := emu.NewCPU(mem, emu.WithPC(0x100), emu.WithMaxInstructions(10))

			result := c.Run()

			Expect(result.Status).To(Equal(emu.StatusCancelled))
			Expect(result.Err).To(HaveOccurred())
			Expect(c.InstructionCount()).To(Equal(uint64(10)))
		})

		It("should fault on unmapped access in strict mode", func() {
			mem := emu.NewMemory()
			mem.Write32(0, 0xE5812000) // STR r2, [r1] with r1 unmapped
			c := emu.NewCPU(mem, emu.WithStrictMemory())
			c.Regs().Write(1, 0x01000000)

			result := c.Step()

			Expect(result.Stopped).To(BeTrue())
			Expect(result.Status).To(Equal(emu.StatusFault))
			Expect(result.Err).To(HaveOccurred())
		})

		It("should absorb unmapped access without strict mode", func() {
			mem := emu.NewMemory()
			mem.Write32(0, 0xE5812000) // STR r2, [r1] with r1 unmapped
			c := emu.NewCPU(mem)
			c.Regs().Write(1, 0x01000000)

			result := c.Step()

			Expect(result.Stopped).To(BeFalse())
		})
	})

	Describe("state switching across the loop", func() {
		It("should fetch halfwords after a BX into Thumb", func() {
			mem := emu.NewMemory()
			mem.Write32(0x100, 0xE12FFF10) // BX r0
			mem.Write16(0x200, 0x210F)     // MOV r1, #15
			cpu := emu.NewCPU(mem, emu.WithPC(0x100))
			cpu.Regs().Write(0, 0x201)

			cpu.Step()
			Expect(cpu.Regs().Thumb()).To(BeTrue())

			cpu.Step()
			Expect(cpu.Regs().Read(1)).To(Equal(uint32(15)))
			Expect(cpu.Regs().R[emu.RegPC]).To(Equal(uint32(0x202)))
		})
	})

	Describe("instruction counting", func() {
		It("should count executed instructions", func() {
			c := newARMCPU(0, 0xE3A0100F, 0xE3A02001) // two MOVs

			c.Step()
			c.Step()

			Expect(c.InstructionCount()).To(Equal(uint64(2)))
		})
	})

	Describe("tracing", func() {
		It("should emit one record per instruction with the mnemonic", func() {
			buf := &bytes.Buffer{}
			mem := emu.NewMemory()
			mem.Write32(0, 0xE3A0100F) // MOV r1, #0x0F
			c := emu.NewCPU(mem, emu.WithTrace(buf))

			c.Step()

			Expect(buf.String()).To(ContainSubstring("MOV"))
			Expect(buf.String()).To(ContainSubstring("pc=0x00000000"))
			Expect(buf.String()).To(ContainSubstring("r1=0x0000000F"))
		})

		It("should step normally without a tracer", func() {
			c := newARMCPU(0, 0xE3A0100F)
			result := c.Step()
			Expect(result.Stopped).To(BeFalse())
		})
	})
})
