package cpu_test

import (
	"testing"

	"riscv64emu/bus"
	"riscv64emu/cpu"
)

func newMachine(t *testing.T, words ...uint32) *cpu.CPU {
	t.Helper()
	b := bus.NewDefault()
	code := make([]byte, 0, len(words)*4)
	for _, w := range words {
		code = append(code, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	b.LoadCode(code)
	return cpu.New(b)
}

func runToHalt(t *testing.T, c *cpu.CPU) {
	t.Helper()
	for i := 0; i < 10000 && !c.Halt; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("unexpected fault: %v", err)
		}
	}
	if !c.Halt {
		t.Fatalf("program did not halt")
	}
}

// Scenario 1: LUI x1, 0x12345; ADDI x1, x1, 0x678; HALT
func TestScenario_LUI_ADDI(t *testing.T) {
	c := newMachine(t,
		0x123450B7, // LUI x1, 0x12345
		0x67808093, // ADDI x1, x1, 0x678
		cpu.HaltWord,
	)
	runToHalt(t, c)
	if got := c.Regs.Read(1); got != 0x0000000012345678 {
		t.Fatalf("x1 = 0x%016x, want 0x12345678", got)
	}
}

// Scenario 2: ADDI x2, x0, -1; SRLI x3, x2, 32; HALT
func TestScenario_SRLI(t *testing.T) {
	c := newMachine(t,
		0xFFF00113, // ADDI x2, x0, -1
		0x02015193, // SRLI x3, x2, 32
		cpu.HaltWord,
	)
	runToHalt(t, c)
	if got := c.Regs.Read(2); got != 0xFFFFFFFFFFFFFFFF {
		t.Fatalf("x2 = 0x%016x", got)
	}
	if got := c.Regs.Read(3); got != 0x00000000FFFFFFFF {
		t.Fatalf("x3 = 0x%016x", got)
	}
}

// Scenario 3: ADDI x5, x0, -8; ADDIW x6, x5, 0; HALT
func TestScenario_ADDIW_SignExtend(t *testing.T) {
	c := newMachine(t,
		0xFF800293, // ADDI x5, x0, -8
		0x0002831B, // ADDIW x6, x5, 0
		cpu.HaltWord,
	)
	runToHalt(t, c)
	if got := c.Regs.Read(6); got != 0xFFFFFFFFFFFFFFF8 {
		t.Fatalf("x6 = 0x%016x, want 0xFFFFFFFFFFFFFFF8", got)
	}
}

// Scenario 4: ADDI x1,x0,100; ADDI x2,x0,7; DIV x3,x1,x2; REM x4,x1,x2; HALT
func TestScenario_DivRem(t *testing.T) {
	c := newMachine(t,
		0x06400093, // ADDI x1, x0, 100
		0x00700113, // ADDI x2, x0, 7
		0x0220C1B3, // DIV x3, x1, x2
		0x0220E233, // REM x4, x1, x2
		cpu.HaltWord,
	)
	runToHalt(t, c)
	if got := c.Regs.Read(3); got != 14 {
		t.Fatalf("x3 (DIV) = %d, want 14", got)
	}
	if got := c.Regs.Read(4); got != 2 {
		t.Fatalf("x4 (REM) = %d, want 2", got)
	}
}

// Scenario 5: ADDI x1,x0,-1; ADDI x2,x0,0; DIVU x3,x1,x2; HALT
func TestScenario_DivuByZero(t *testing.T) {
	c := newMachine(t,
		0xFFF00093, // ADDI x1, x0, -1
		0x00000113, // ADDI x2, x0, 0
		0x0220D1B3, // DIVU x3, x1, x2
		cpu.HaltWord,
	)
	runToHalt(t, c)
	if got := c.Regs.Read(3); got != 0xFFFFFFFFFFFFFFFF {
		t.Fatalf("x3 = 0x%016x, want all-ones", got)
	}
}

func TestX0StaysZeroAcrossExecute(t *testing.T) {
	c := newMachine(t,
		0x00100013, // ADDI x0, x0, 1 (a no-op on x0, but not the halt encoding)
	)
	if err := c.Step(); err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	if c.Regs.Read(0) != 0 {
		t.Fatalf("x0 must remain 0")
	}
}

func TestPCAdvancesByFourForNonControlInstructions(t *testing.T) {
	c := newMachine(t, 0x00100093) // ADDI x1, x0, 1
	start := c.PC
	if err := c.Step(); err != nil {
		t.Fatal(err)
	}
	if c.PC != start+4 {
		t.Fatalf("PC advanced by %d, want 4", c.PC-start)
	}
}

func Test64BitStoreLoadRoundTrip(t *testing.T) {
	c := newMachine(t,
		0x00000117, // AUIPC x2, 0   ; x2 = address of this instruction == bus.Base
		0x02A00093, // ADDI x1, x0, 42
		0x00113023, // SD x1, 0(x2)
		0x00013103, // LD x2, 0(x2)
		cpu.HaltWord,
	)
	runToHalt(t, c)
	if got := c.Regs.Read(2); got != 42 {
		t.Fatalf("x2 = %d, want 42", got)
	}
}

func TestJALWritesReturnAddress(t *testing.T) {
	c := newMachine(t,
		0x008000EF, // JAL x1, +8
		cpu.HaltWord,
		cpu.HaltWord,
	)
	start := c.PC
	if err := c.Step(); err != nil {
		t.Fatal(err)
	}
	if got := c.Regs.Read(1); got != start+4 {
		t.Fatalf("x1 = 0x%x, want return address 0x%x", got, start+4)
	}
	if c.PC != start+8 {
		t.Fatalf("PC = 0x%x, want 0x%x", c.PC, start+8)
	}
}

func TestJALSelfLoopStepsOnce(t *testing.T) {
	c := newMachine(t, 0x0000006F) // JAL x0, 0 (self loop)
	start := c.PC
	if err := c.Step(); err != nil {
		t.Fatal(err)
	}
	if c.PC != start {
		t.Fatalf("self-loop JAL should land back on itself, got 0x%x", c.PC)
	}
}

func TestIllegalInstructionFaults(t *testing.T) {
	c := newMachine(t, 0x0000007F) // opcode 0x7F is not in the table
	err := c.Step()
	if err == nil {
		t.Fatalf("expected illegal instruction fault")
	}
}

// SRLIW with the reserved shamt[5] bit (word bit 25) set must fault, not
// silently execute as if that bit were clear.
func TestSRLIWRejectsReservedShamtBit(t *testing.T) {
	c := newMachine(t, 0x0200509B) // SRLIW x1, x0, 0 with bit 25 set
	err := c.Step()
	if err == nil {
		t.Fatalf("expected illegal instruction fault for reserved shamt bit")
	}
}

// Same reserved-bit check applies to SRAIW, whose funct7 top bits read
// 0x20 once the spurious bit 25 is masked away, distinct from SRLIW's 0x00.
func TestSRAIWRejectsReservedShamtBit(t *testing.T) {
	c := newMachine(t, 0x4200509B) // SRAIW x1, x0, 0 with bit 25 set
	err := c.Step()
	if err == nil {
		t.Fatalf("expected illegal instruction fault for reserved shamt bit")
	}
}

func TestBadMemoryAccessFaults(t *testing.T) {
	b := bus.NewDefault()
	m := cpu.New(b)
	m.PC = bus.Base - 4 // fetch just before the DRAM window
	err := m.Step()
	if err == nil {
		t.Fatalf("expected fault fetching outside DRAM")
	}
}
