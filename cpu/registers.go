package cpu

// RegisterFile holds the 32 general-purpose RV64I integer registers.
// x0 is architecturally hardwired to zero: reads always observe 0 and
// writes are silently discarded. There is no aliasing or renaming.
type RegisterFile struct {
	x [32]uint64
}

// Read returns the value of register i. Register 0 always reads as 0.
func (r *RegisterFile) Read(i int) uint64 {
	if i == 0 {
		return 0
	}
	return r.x[i]
}

// Write stores value into register i. Writes to register 0 are no-ops.
func (r *RegisterFile) Write(i int, value uint64) {
	if i == 0 {
		return
	}
	r.x[i] = value
}

// Reset zeroes every register.
func (r *RegisterFile) Reset() {
	for i := range r.x {
		r.x[i] = 0
	}
}

// Snapshot returns a copy of all 32 registers (x0 included, always 0).
func (r *RegisterFile) Snapshot() [32]uint64 {
	snap := r.x
	snap[0] = 0
	return snap
}

// ABINames are the standard RISC-V ABI register aliases, indexed by
// register number. Used by the disassembler and the register dump.
var ABINames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}
