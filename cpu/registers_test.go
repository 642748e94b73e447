package cpu_test

import (
	"testing"

	"riscv64emu/cpu"
)

func TestX0AlwaysReadsZero(t *testing.T) {
	var r cpu.RegisterFile
	r.Write(0, 0xdeadbeef)
	if got := r.Read(0); got != 0 {
		t.Fatalf("x0 should read 0 regardless of writes, got 0x%x", got)
	}
}

func TestOtherRegistersArePlainStorage(t *testing.T) {
	var r cpu.RegisterFile
	r.Write(5, 42)
	if got := r.Read(5); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestResetZeroesAll(t *testing.T) {
	var r cpu.RegisterFile
	for i := 1; i < 32; i++ {
		r.Write(i, uint64(i))
	}
	r.Reset()
	for i := 0; i < 32; i++ {
		if r.Read(i) != 0 {
			t.Fatalf("register %d not reset", i)
		}
	}
}
