package main

import "testing"

func TestMemoryReadWrite(t *testing.T) {
	m := NewMemory()
	m.Write(0x1234, 0xAB)
	if got := m.Read(0x1234); got != 0xAB {
		t.Fatalf("Read(0x1234) = 0x%02X, want 0xAB", got)
	}
}

func TestMemoryWordReadWriteLittleEndian(t *testing.T) {
	m := NewMemory()
	m.WriteWord(0x2000, 0x1234)
	if got := m.Read(0x2000); got != 0x34 {
		t.Fatalf("low byte = 0x%02X, want 0x34", got)
	}
	if got := m.Read(0x2001); got != 0x12 {
		t.Fatalf("high byte = 0x%02X, want 0x12", got)
	}
	if got := m.ReadWord(0x2000); got != 0x1234 {
		t.Fatalf("ReadWord(0x2000) = 0x%04X, want 0x1234", got)
	}
}

// TestMemoryReadWordMatchesByteHalves pins down the testable property from
// spec.md §8: read_word(a) == read(a) | (read(a+1) << 8).
func TestMemoryReadWordMatchesByteHalves(t *testing.T) {
	m := NewMemory()
	for a := 0; a < 0xFFFE; a += 511 {
		addr := uint16(a)
		m.Write(addr, byte(a))
		m.Write(addr+1, byte(a>>3))
		want := uint16(m.Read(addr)) | uint16(m.Read(addr+1))<<8
		if got := m.ReadWord(addr); got != want {
			t.Fatalf("ReadWord(0x%04X) = 0x%04X, want 0x%04X", addr, got, want)
		}
	}
}

func TestMemoryLoad(t *testing.T) {
	m := NewMemory()
	rom := []byte{0x01, 0x02, 0x03, 0x04}
	m.Load(rom, 0x0100)
	for i, b := range rom {
		if got := m.Read(uint16(0x0100 + i)); got != b {
			t.Fatalf("Read(0x%04X) = 0x%02X, want 0x%02X", 0x0100+i, got, b)
		}
	}
}

func TestMemorySliceIsReadOnlyView(t *testing.T) {
	m := NewMemory()
	m.Write(0x2400, 0x55)
	m.Write(0x2401, 0x66)

	view := m.Slice(0x2400, 0x4000)
	if len(view) != 0x4000-0x2400 {
		t.Fatalf("Slice length = %d, want %d", len(view), 0x4000-0x2400)
	}
	if view[0] != 0x55 || view[1] != 0x66 {
		t.Fatalf("Slice content = %v, want [0x55 0x66 ...]", view[:2])
	}

	// Mutating the returned slice must not affect the underlying memory.
	view[0] = 0xFF
	if got := m.Read(0x2400); got != 0x55 {
		t.Fatalf("Read(0x2400) after mutating slice = 0x%02X, want 0x55 (slice leaked)", got)
	}
}
