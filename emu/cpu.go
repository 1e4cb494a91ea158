package emu

import (
	"fmt"
	"io"

	"github.com/emuforge/gbacore/insts"
)

// Status describes why execution stopped.
type Status uint8

// Termination statuses.
const (
	// StatusRunning means execution has not stopped.
	StatusRunning Status = iota
	// StatusHalted means the program counter left the mapped address
	// space.
	StatusHalted
	// StatusUnhandled means the decoder reached an encoding the core
	// does not recognize.
	StatusUnhandled
	// StatusCancelled means the caller's quit flag or the instruction
	// limit stopped the loop.
	StatusCancelled
	// StatusFault means strict memory mode recorded an unmapped
	// access.
	StatusFault
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusHalted:
		return "halted"
	case StatusUnhandled:
		return "unhandled instruction"
	case StatusCancelled:
		return "cancelled"
	case StatusFault:
		return "memory fault"
	default:
		return "unknown"
	}
}

// UnhandledInstructionError reports an encoding the decoder could not
// classify. The register file and memory are left as they were for
// inspection.
type UnhandledInstructionError struct {
	PC    uint32
	Word  uint32
	Thumb bool
}

func (e *UnhandledInstructionError) Error() string {
	if e.Thumb {
		return fmt.Sprintf("unhandled Thumb instruction 0x%04X at PC=0x%08X", e.Word, e.PC)
	}
	return fmt.Sprintf("unhandled ARM instruction 0x%08X at PC=0x%08X", e.Word, e.PC)
}

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Stopped is true if the loop should not continue.
	Stopped bool

	// Status is the termination status when Stopped is true.
	Status Status

	// Err carries detail for StatusUnhandled, StatusFault, and a
	// StatusCancelled caused by the instruction limit.
	Err error
}

// RunResult is the final outcome of a Run call.
type RunResult struct {
	Status Status
	Err    error
}

// CPU executes ARMv4T instructions functionally. It owns the register
// file for the duration of a run and holds a mutable view over the
// caller's memory image. It is strictly single-threaded.
type CPU struct {
	regs *RegFile
	mem  *Memory
	alu  *ALU

	tracer io.Writer
	strict bool

	// cancelled is the caller's quit flag, inspected between
	// instructions.
	cancelled bool

	// branchTaken is set by an executor that wrote the PC itself, so
	// the loop skips the normal advance.
	branchTaken bool

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// Option is a functional option for configuring the CPU.
type Option func(*CPU)

// WithPC sets the initial program counter. The default is 0.
func WithPC(pc uint32) Option {
	return func(c *CPU) {
		c.regs.R[RegPC] = pc
	}
}

// WithMaxInstructions sets the maximum number of instructions to
// execute. A value of 0 means no limit. Hitting the limit stops the
// loop with StatusCancelled.
func WithMaxInstructions(max uint64) Option {
	return func(c *CPU) {
		c.maxInstructions = max
	}
}

// WithTrace enables per-instruction trace records on w.
func WithTrace(w io.Writer) Option {
	return func(c *CPU) {
		c.tracer = w
	}
}

// WithStrictMemory promotes unmapped memory accesses to fatal faults.
func WithStrictMemory() Option {
	return func(c *CPU) {
		c.strict = true
		c.mem.SetStrict(true)
	}
}

// NewCPU creates a CPU over the given memory image. The register file
// starts zeroed with CPSR set to ARM state and User mode.
func NewCPU(mem *Memory, opts ...Option) *CPU {
	regs := &RegFile{CPSR: uint32(ModeUser)}

	c := &CPU{
		regs: regs,
		mem:  mem,
		alu:  NewALU(regs),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Regs returns the CPU's register file.
func (c *CPU) Regs() *RegFile {
	return c.regs
}

// Memory returns the CPU's memory view.
func (c *CPU) Memory() *Memory {
	return c.mem
}

// InstructionCount returns the number of instructions executed.
func (c *CPU) InstructionCount() uint64 {
	return c.instructionCount
}

// Cancel requests that the loop stop before the next instruction. The
// CPU is single-threaded; call this from a tracer or between Step
// calls, not from another goroutine.
func (c *CPU) Cancel() {
	c.cancelled = true
}

// Step executes a single instruction.
func (c *CPU) Step() StepResult {
	if c.cancelled {
		return StepResult{Stopped: true, Status: StatusCancelled}
	}
	if c.maxInstructions > 0 && c.instructionCount >= c.maxInstructions {
		return StepResult{
			Stopped: true,
			Status:  StatusCancelled,
			Err:     fmt.Errorf("instruction limit reached after %d instructions", c.instructionCount),
		}
	}

	pc := c.regs.R[RegPC]
	if !c.mem.Mapped(pc) {
		return StepResult{Stopped: true, Status: StatusHalted}
	}

	var before [16]uint32
	if c.tracer != nil {
		before = c.regs.R
	}

	c.branchTaken = false

	var (
		raw      uint32
		width    uint32
		mnemonic string
		thumb    = c.regs.Thumb()
	)

	if thumb {
		half := c.mem.Read16(pc)
		inst := insts.DecodeThumb(half)
		if inst.Kind == insts.ThumbUnknown {
			return StepResult{
				Stopped: true,
				Status:  StatusUnhandled,
				Err:     &UnhandledInstructionError{PC: pc, Word: uint32(half), Thumb: true},
			}
		}
		c.executeThumb(inst)
		raw, width, mnemonic = uint32(half), 2, inst.String()
	} else {
		word := c.mem.Read32(pc)
		inst := insts.DecodeArm(word)
		if inst.Kind == insts.ArmUnknown {
			return StepResult{
				Stopped: true,
				Status:  StatusUnhandled,
				Err:     &UnhandledInstructionError{PC: pc, Word: word},
			}
		}
		c.executeArm(inst)
		raw, width, mnemonic = word, 4, inst.String()
	}

	c.instructionCount++

	if !c.branchTaken {
		c.regs.R[RegPC] = pc + width
	}

	if c.tracer != nil {
		c.trace(pc, raw, width, mnemonic, thumb, &before)
	}

	if c.strict {
		if f := c.mem.Fault(); f != nil {
			return StepResult{
				Stopped: true,
				Status:  StatusFault,
				Err:     fmt.Errorf("unmapped access at 0x%08X (write=%v) by instruction at PC=0x%08X", f.Addr, f.Write, pc),
			}
		}
	}

	return StepResult{}
}

// Run executes instructions until a termination condition is reached.
func (c *CPU) Run() RunResult {
	for {
		result := c.Step()
		if result.Stopped {
			return RunResult{Status: result.Status, Err: result.Err}
		}
	}
}

// trace emits one per-instruction record: pc, raw encoding, mnemonic,
// register delta, and CPSR after execution.
func (c *CPU) trace(pc, raw, width uint32, mnemonic string, thumb bool, before *[16]uint32) {
	state := "ARM  "
	if thumb {
		state = "THUMB"
	}

	var rawStr string
	if width == 2 {
		rawStr = fmt.Sprintf("    %04X", raw)
	} else {
		rawStr = fmt.Sprintf("%08X", raw)
	}

	delta := ""
	for i := 0; i < 16; i++ {
		if c.regs.R[i] != before[i] {
			delta += fmt.Sprintf(" r%d=0x%08X", i, c.regs.R[i])
		}
	}

	fmt.Fprintf(c.tracer, "[%s] pc=0x%08X %s  %-24s%s cpsr=0x%08X\n",
		state, pc, rawStr, mnemonic, delta, c.regs.CPSR)
}

// alignPC realigns the program counter after an executor wrote it:
// halfword alignment in Thumb state, word alignment in ARM state.
func (c *CPU) alignPC() {
	if c.regs.Thumb() {
		c.regs.R[RegPC] &^= 1
	} else {
		c.regs.R[RegPC] &^= 3
	}
}

// branchExchange implements the BX state switch shared by the ARM
// instruction and Thumb format 5: bit 0 of the target selects Thumb
// state.
func (c *CPU) branchExchange(target uint32) {
	if target&1 != 0 {
		c.regs.SetThumb(true)
		c.regs.R[RegPC] = target &^ 1
	} else {
		c.regs.SetThumb(false)
		c.regs.R[RegPC] = target &^ 3
	}
	c.branchTaken = true
}

// enterSWI performs the software-interrupt state transition: CPSR is
// saved to the SPSR, the return address lands in lr, and execution
// resumes at the Supervisor vector in ARM state.
func (c *CPU) enterSWI() {
	ret := c.regs.R[RegPC] + 4
	if c.regs.Thumb() {
		ret = c.regs.R[RegPC] + 2
	}

	c.regs.SPSR = c.regs.CPSR
	c.regs.SetMode(ModeSupervisor)
	c.regs.SetThumb(false)
	c.regs.Write(RegLR, ret)
	c.regs.R[RegPC] = 0x08
	c.branchTaken = true
}
