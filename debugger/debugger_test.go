package debugger

import (
	"strings"
	"testing"

	"riscv64emu/bus"
	"riscv64emu/cpu"
	"riscv64emu/service"
)

func newTestDebugger(t *testing.T) *Debugger {
	t.Helper()
	b := bus.New(4096)
	m := cpu.New(b)
	m.Bus.LoadCode([]byte{0x93, 0x00, 0x10, 0x00, 0x13, 0x00, 0x00, 0x00})
	m.PC = bus.Base
	return NewDebugger(service.NewDebuggerService(m))
}

func TestResolveAddress(t *testing.T) {
	cases := map[string]uint64{
		"0x80000000": 0x80000000,
		"2147483648": 0x80000000,
	}
	for in, want := range cases {
		got, err := ResolveAddress(in)
		if err != nil {
			t.Fatalf("ResolveAddress(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("ResolveAddress(%q) = 0x%x, want 0x%x", in, got, want)
		}
	}

	if _, err := ResolveAddress("not-an-address"); err == nil {
		t.Error("expected an error for a malformed address")
	}
}

func TestDebugger_StepCommand(t *testing.T) {
	d := newTestDebugger(t)

	if err := d.ExecuteCommand("step"); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if !strings.Contains(d.GetOutput(), "PC") {
		t.Error("expected step output to mention PC")
	}
}

func TestDebugger_BreakAndDelete(t *testing.T) {
	d := newTestDebugger(t)

	if err := d.ExecuteCommand("break 0x80000004"); err != nil {
		t.Fatalf("break failed: %v", err)
	}
	out := d.GetOutput()
	if !strings.Contains(out, "breakpoint") {
		t.Errorf("expected breakpoint confirmation, got %q", out)
	}

	if err := d.ExecuteCommand("delete 1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(d.Svc.GetBreakpoints()) != 0 {
		t.Error("expected breakpoint to be removed")
	}
}

func TestDebugger_InfoRegisters(t *testing.T) {
	d := newTestDebugger(t)

	if err := d.ExecuteCommand("info registers"); err != nil {
		t.Fatalf("info registers failed: %v", err)
	}
	if !strings.Contains(d.GetOutput(), "pc") {
		t.Error("expected register dump to include pc")
	}
}

func TestDebugger_PrintRegister(t *testing.T) {
	d := newTestDebugger(t)
	d.ExecuteCommand("step")
	d.GetOutput()

	if err := d.ExecuteCommand("print a0"); err != nil {
		t.Fatalf("print failed: %v", err)
	}
	if !strings.Contains(d.GetOutput(), "a0") {
		t.Error("expected print output to echo the register name")
	}
}

func TestDebugger_UnknownCommandErrors(t *testing.T) {
	d := newTestDebugger(t)
	if err := d.ExecuteCommand("frobnicate"); err == nil {
		t.Error("expected an error for an unknown command")
	}
}

func TestDebugger_EmptyLineRepeatsLast(t *testing.T) {
	d := newTestDebugger(t)
	d.ExecuteCommand("info registers")
	d.GetOutput()

	if err := d.ExecuteCommand(""); err != nil {
		t.Fatalf("repeating last command failed: %v", err)
	}
	if !strings.Contains(d.GetOutput(), "pc") {
		t.Error("expected the repeated command to produce the same output")
	}
}

func TestDebugger_Reset(t *testing.T) {
	d := newTestDebugger(t)
	d.ExecuteCommand("step")
	d.GetOutput()

	if err := d.ExecuteCommand("reset"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if d.Svc.GetRegisterState().X[1] != 0 {
		t.Error("expected reset to clear x1")
	}
}
