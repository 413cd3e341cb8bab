// debug_cpu_8080.go - one-line trace dump and register snapshot

/*
This module covers the CPU's debug surface: a single trace line per
step (mnemonic, PC of the opcode byte, and the full register file, all
fixed-width hex) and a register snapshot struct consumed by the live
monitor. There is no breakpoint, backtrace, or disassembler here — a
full interactive debugger is out of scope.
*/

package main

import "fmt"

// TraceSink receives one formatted line per step when CPU.DebugTrace is
// enabled.
type TraceSink interface {
	WriteTrace(line string)
}

// FormatTrace renders the trace line for the instruction about to execute:
// mnemonic, then PC (of the opcode byte), SP, A, F, B, C, D, E, H, L, each
// as fixed-width hex.
func FormatTrace(c *CPU, opcodePC uint16, op Opcode) string {
	r := c.Reg
	return fmt.Sprintf(
		"%-10s PC=%04X SP=%04X A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X",
		op.Mnemonic(), opcodePC, r.SP, r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L,
	)
}

// RegisterSnapshot is a read-only copy of the register file for display.
type RegisterSnapshot struct {
	A, B, C, D, E, H, L, F byte
	SP, PC                 uint16
}

// Snapshot copies the current register file.
func (c *CPU) Snapshot() RegisterSnapshot {
	r := c.Reg
	return RegisterSnapshot{
		A: r.A, B: r.B, C: r.C, D: r.D, E: r.E, H: r.H, L: r.L, F: r.F,
		SP: r.SP, PC: r.PC,
	}
}
