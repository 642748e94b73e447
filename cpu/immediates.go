package cpu

// sext extends the low `bits` bits of v, treating bit (bits-1) as the
// sign bit, to a full int64.
func sext(v uint32, bits uint) int64 {
	shift := 32 - bits
	return int64(int32(v<<shift)) >> shift
}

// ImmI decodes the I-type immediate: sext(I[31:20]).
func ImmI(word uint32) int64 {
	return int64(int32(word)) >> 20
}

// ImmS decodes the S-type immediate: sext({I[31:25], I[11:7]}).
func ImmS(word uint32) int64 {
	hi := (word >> 25) & 0x7F
	lo := (word >> 7) & 0x1F
	raw := (hi << 5) | lo
	return sext(raw, 12)
}

// ImmB decodes the B-type immediate: sext({I[31], I[7], I[30:25], I[11:8], 0}).
func ImmB(word uint32) int64 {
	b12 := (word >> 31) & 0x1
	b11 := (word >> 7) & 0x1
	b10_5 := (word >> 25) & 0x3F
	b4_1 := (word >> 8) & 0xF
	raw := (b12 << 12) | (b11 << 11) | (b10_5 << 5) | (b4_1 << 1)
	return sext(raw, 13)
}

// ImmU decodes the U-type immediate: sext({I[31:12], 12'b0}).
func ImmU(word uint32) int64 {
	return int64(int32(word & 0xFFFFF000))
}

// ImmJ decodes the J-type immediate: sext({I[31], I[19:12], I[20], I[30:21], 0}).
//
// Some RISC-V interpreters mis-shift bit 11 into this field; that bug
// is deliberately not reproduced here, so jumps land where real RV64
// toolchains expect.
func ImmJ(word uint32) int64 {
	b20 := (word >> 31) & 0x1
	b19_12 := (word >> 12) & 0xFF
	b11 := (word >> 20) & 0x1
	b10_1 := (word >> 21) & 0x3FF
	raw := (b20 << 20) | (b19_12 << 12) | (b11 << 11) | (b10_1 << 1)
	return sext(raw, 21)
}
