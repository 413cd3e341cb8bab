package main

import "testing"

func TestNewRegistersInitialState(t *testing.T) {
	r := NewRegisters()
	if r.A != 0 || r.B != 0 || r.C != 0 || r.D != 0 || r.E != 0 || r.H != 0 || r.L != 0 {
		t.Fatalf("data registers not zeroed: %+v", r)
	}
	if r.F != 0x02 {
		t.Fatalf("F = 0x%02X, want 0x02", r.F)
	}
	if r.SP != 0 || r.PC != 0 {
		t.Fatalf("SP/PC = %d/%d, want 0/0", r.SP, r.PC)
	}
}

func TestRegisterPairs(t *testing.T) {
	r := NewRegisters()
	r.SetBC(0x1234)
	if r.B != 0x12 || r.C != 0x34 {
		t.Fatalf("SetBC split = %02X%02X, want 1234", r.B, r.C)
	}
	if r.BC() != 0x1234 {
		t.Fatalf("BC() = 0x%04X, want 0x1234", r.BC())
	}

	r.SetDE(0xABCD)
	if r.DE() != 0xABCD {
		t.Fatalf("DE() = 0x%04X, want 0xABCD", r.DE())
	}

	r.SetHL(0x2400)
	if r.HL() != 0x2400 {
		t.Fatalf("HL() = 0x%04X, want 0x2400", r.HL())
	}
}

// TestSetAFNormalizesFlags pins the spec.md §3 rule: new_flags = (value &
// 0xD5) | 0x02.
func TestSetAFNormalizesFlags(t *testing.T) {
	r := NewRegisters()
	r.SetAF(0xFFFF)
	if r.A != 0xFF {
		t.Fatalf("A = 0x%02X, want 0xFF", r.A)
	}
	if r.F != 0xD7 {
		t.Fatalf("F = 0x%02X, want 0xD7 (0xFF & 0xD5 | 0x02)", r.F)
	}
	if r.AF() != 0xFFD7 {
		t.Fatalf("AF() = 0x%04X, want 0xFFD7", r.AF())
	}

	r.SetAF(0x0000)
	if r.F != 0x02 {
		t.Fatalf("F = 0x%02X, want 0x02 (bit 1 always set)", r.F)
	}
}

func TestFlagGetSet(t *testing.T) {
	r := NewRegisters()
	r.SetFlag(FlagZero, true)
	if !r.Flag(FlagZero) {
		t.Fatal("FlagZero not set after SetFlag(true)")
	}
	r.SetFlag(FlagZero, false)
	if r.Flag(FlagZero) {
		t.Fatal("FlagZero still set after SetFlag(false)")
	}

	r.SetFlag(FlagSign|FlagCarry, true)
	if !r.Flag(FlagSign) || !r.Flag(FlagCarry) {
		t.Fatal("combined mask did not set both flags")
	}
}
