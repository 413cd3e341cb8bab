// cpu_8080.go - Intel 8080 instruction interpreter

/*
This module is the 8080 decoder/executor: one call to Step fetches the
byte at PC, folds undocumented synonym bytes onto their canonical
opcode, executes exactly one instruction, and returns its cycle cost.
Interrupt injection, ROM loading, and the stack/flag discipline also
live here; opcode metadata itself lives in opcode_table.go and the
register file in registers.go.

The CPU never blocks, never sleeps, and never allocates during
execution — it owns exactly one Registers and one Memory, created once
by the host driver and mutated only through Step/Interrupt/LoadROM.
*/

package main

import (
	"fmt"
	"math/bits"
)

// CPU is the 8080 interpreter state.
type CPU struct {
	Reg *Registers
	Mem *Memory

	InterruptsEnabled bool
	Halted            bool

	// DebugTrace, when true, makes Step emit one line to TraceSink before
	// executing each instruction.
	DebugTrace bool
	TraceSink  TraceSink
}

// NewCPU returns a CPU with a fresh register file wired to mem.
func NewCPU(mem *Memory) *CPU {
	return &CPU{Reg: NewRegisters(), Mem: mem}
}

// LoadROM copies bytes into memory starting at base and sets PC = base.
func (c *CPU) LoadROM(bytes []byte, base uint16) {
	c.Mem.Load(bytes, base)
	c.Reg.PC = base
}

// Interrupt injects interrupt vector n (0..7) if interrupts are enabled:
// it pushes PC, sets PC = 8*n, and clears the enable flag. A no-op when
// interrupts are disabled.
func (c *CPU) Interrupt(n byte) {
	if !c.InterruptsEnabled {
		return
	}
	c.push(c.Reg.PC)
	c.Reg.PC = uint16(n) * 8
	c.InterruptsEnabled = false
}

// Step executes exactly one instruction and returns its cycle cost, or
// no-ops returning 0 if halted.
func (c *CPU) Step(machine MachinePort) int {
	if c.Halted {
		return 0
	}

	opcodePC := c.Reg.PC
	raw := c.fetchByte()
	op := Opcode(raw)

	if c.DebugTrace && c.TraceSink != nil {
		c.TraceSink.WriteTrace(FormatTrace(c, opcodePC, op))
	}

	folded := foldOpcode(raw)

	if folded >= 0x40 && folded <= 0x7F {
		c.execMOV(folded)
		return op.Cycles()
	}
	if folded >= 0x80 && folded <= 0xBF {
		c.execALU(folded)
		return op.Cycles()
	}

	extra := c.execOther(folded, machine)
	return op.Cycles() + extra
}

func (c *CPU) fetchByte() byte {
	b := c.Mem.Read(c.Reg.PC)
	c.Reg.PC++
	return b
}

func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push(value uint16) {
	c.Reg.SP -= 2
	c.Mem.WriteWord(c.Reg.SP, value)
}

func (c *CPU) pop() uint16 {
	v := c.Mem.ReadWord(c.Reg.SP)
	c.Reg.SP += 2
	return v
}

// readReg/writeReg decode the standard 3-bit register field: B C D E H L M A.
func (c *CPU) readReg(code byte) byte {
	switch code {
	case 0:
		return c.Reg.B
	case 1:
		return c.Reg.C
	case 2:
		return c.Reg.D
	case 3:
		return c.Reg.E
	case 4:
		return c.Reg.H
	case 5:
		return c.Reg.L
	case 6:
		return c.Mem.Read(c.Reg.HL())
	default:
		return c.Reg.A
	}
}

func (c *CPU) writeReg(code byte, value byte) {
	switch code {
	case 0:
		c.Reg.B = value
	case 1:
		c.Reg.C = value
	case 2:
		c.Reg.D = value
	case 3:
		c.Reg.E = value
	case 4:
		c.Reg.H = value
	case 5:
		c.Reg.L = value
	case 6:
		c.Mem.Write(c.Reg.HL(), value)
	default:
		c.Reg.A = value
	}
}

func (c *CPU) execMOV(op byte) {
	if op == 0x76 {
		c.Halted = true
		return
	}
	dst := (op >> 3) & 7
	src := op & 7
	c.writeReg(dst, c.readReg(src))
}

func (c *CPU) execALU(op byte) {
	group := (op >> 3) & 7
	value := c.readReg(op & 7)
	switch group {
	case 0:
		c.add(value, false)
	case 1:
		c.add(value, true)
	case 2:
		c.sub(value, false)
	case 3:
		c.sub(value, true)
	case 4:
		c.ana(value)
	case 5:
		c.xra(value)
	case 6:
		c.ora(value)
	case 7:
		c.cmp(value)
	}
}

func parity(v byte) bool {
	return bits.OnesCount8(v)%2 == 0
}

func (c *CPU) setZSP(result byte) {
	c.Reg.SetFlag(FlagZero, result == 0)
	c.Reg.SetFlag(FlagSign, result&0x80 != 0)
	c.Reg.SetFlag(FlagParity, parity(result))
}

func addAux(a, b, carryIn byte) bool {
	return (a&0x0F)+(b&0x0F)+carryIn > 0x0F
}

func subAux(a, b, borrowIn byte) bool {
	return int(a&0x0F)-int(b&0x0F)-int(borrowIn) < 0
}

func (c *CPU) add(value byte, withCarry bool) {
	var carryIn byte
	if withCarry && c.Reg.Flag(FlagCarry) {
		carryIn = 1
	}
	sum := uint16(c.Reg.A) + uint16(value) + uint16(carryIn)
	c.Reg.SetFlag(FlagCarry, sum > 0xFF)
	c.Reg.SetFlag(FlagAuxiliaryCarry, addAux(c.Reg.A, value, carryIn))
	c.Reg.A = byte(sum)
	c.setZSP(c.Reg.A)
}

func (c *CPU) sub(value byte, withBorrow bool) {
	var borrowIn byte
	if withBorrow && c.Reg.Flag(FlagCarry) {
		borrowIn = 1
	}
	diff := int(c.Reg.A) - int(value) - int(borrowIn)
	c.Reg.SetFlag(FlagCarry, diff < 0)
	c.Reg.SetFlag(FlagAuxiliaryCarry, subAux(c.Reg.A, value, borrowIn))
	c.Reg.A = byte(diff)
	c.setZSP(c.Reg.A)
}

func (c *CPU) cmp(value byte) {
	saved := c.Reg.A
	c.sub(value, false)
	c.Reg.A = saved
}

func (c *CPU) inr(value byte) byte {
	result := value + 1
	c.Reg.SetFlag(FlagAuxiliaryCarry, addAux(value, 1, 0))
	c.setZSP(result)
	return result
}

func (c *CPU) dcr(value byte) byte {
	result := value - 1
	c.Reg.SetFlag(FlagAuxiliaryCarry, subAux(value, 1, 0))
	c.setZSP(result)
	return result
}

func (c *CPU) ana(value byte) {
	ac := (c.Reg.A|value)&0x08 != 0
	c.Reg.A &= value
	c.Reg.SetFlag(FlagCarry, false)
	c.Reg.SetFlag(FlagAuxiliaryCarry, ac)
	c.setZSP(c.Reg.A)
}

func (c *CPU) ora(value byte) {
	c.Reg.A |= value
	c.Reg.SetFlag(FlagCarry, false)
	c.Reg.SetFlag(FlagAuxiliaryCarry, false)
	c.setZSP(c.Reg.A)
}

func (c *CPU) xra(value byte) {
	c.Reg.A ^= value
	c.Reg.SetFlag(FlagCarry, false)
	c.Reg.SetFlag(FlagAuxiliaryCarry, false)
	c.setZSP(c.Reg.A)
}

// daa implements the Intel reference manual's decimal adjust. The high-nibble
// test runs against the pre-correction accumulator value, per the manual:
// a value like 0x9A corrects in one step to 0x00 with carry set, rather than
// needing the low-nibble correction to ripple into a second high-nibble test.
// The decimal-correction carry is OR'd in rather than replacing whatever the
// ADD path computed, since a correction never clears a carry the opcode
// already set.
func (c *CPU) daa() {
	a := c.Reg.A
	var addend byte
	forceCarry := c.Reg.Flag(FlagCarry)
	if a&0x0F > 9 || c.Reg.Flag(FlagAuxiliaryCarry) {
		addend += 0x06
	}
	if a > 0x99 || c.Reg.Flag(FlagCarry) {
		addend += 0x60
		forceCarry = true
	}
	c.add(addend, false)
	if forceCarry {
		c.Reg.SetFlag(FlagCarry, true)
	}
}

// condition decodes the standard 3-bit condition field shared by
// Jcc/CALLcc/RETcc: NZ Z NC C PO PE P M.
func (c *CPU) condition(code byte) bool {
	switch code {
	case 0:
		return !c.Reg.Flag(FlagZero)
	case 1:
		return c.Reg.Flag(FlagZero)
	case 2:
		return !c.Reg.Flag(FlagCarry)
	case 3:
		return c.Reg.Flag(FlagCarry)
	case 4:
		return !c.Reg.Flag(FlagParity)
	case 5:
		return c.Reg.Flag(FlagParity)
	case 6:
		return !c.Reg.Flag(FlagSign)
	default:
		return c.Reg.Flag(FlagSign)
	}
}

// execOther handles every opcode outside the MOV (0x40-0x7F) and
// ALU-on-A (0x80-0xBF) ranges, and returns any extra cycles owed on top
// of the opcode's base cost (conditional CALL/RET taken by 6).
func (c *CPU) execOther(op byte, machine MachinePort) int {
	switch op {
	case 0x00: // NOP

	case 0x01:
		c.Reg.SetBC(c.fetchWord())
	case 0x02:
		c.Mem.Write(c.Reg.BC(), c.Reg.A)
	case 0x03:
		c.Reg.SetBC(c.Reg.BC() + 1)
	case 0x04:
		c.Reg.B = c.inr(c.Reg.B)
	case 0x05:
		c.Reg.B = c.dcr(c.Reg.B)
	case 0x06:
		c.Reg.B = c.fetchByte()
	case 0x07:
		carry := c.Reg.A >> 7
		c.Reg.A = c.Reg.A<<1 | carry
		c.Reg.SetFlag(FlagCarry, carry != 0)
	case 0x09:
		c.dad(c.Reg.BC())
	case 0x0A:
		c.Reg.A = c.Mem.Read(c.Reg.BC())
	case 0x0B:
		c.Reg.SetBC(c.Reg.BC() - 1)
	case 0x0C:
		c.Reg.C = c.inr(c.Reg.C)
	case 0x0D:
		c.Reg.C = c.dcr(c.Reg.C)
	case 0x0E:
		c.Reg.C = c.fetchByte()
	case 0x0F:
		carry := c.Reg.A & 1
		c.Reg.A = c.Reg.A>>1 | carry<<7
		c.Reg.SetFlag(FlagCarry, carry != 0)

	case 0x11:
		c.Reg.SetDE(c.fetchWord())
	case 0x12:
		c.Mem.Write(c.Reg.DE(), c.Reg.A)
	case 0x13:
		c.Reg.SetDE(c.Reg.DE() + 1)
	case 0x14:
		c.Reg.D = c.inr(c.Reg.D)
	case 0x15:
		c.Reg.D = c.dcr(c.Reg.D)
	case 0x16:
		c.Reg.D = c.fetchByte()
	case 0x17:
		oldCarry := byte(0)
		if c.Reg.Flag(FlagCarry) {
			oldCarry = 1
		}
		newCarry := c.Reg.A >> 7
		c.Reg.A = c.Reg.A<<1 | oldCarry
		c.Reg.SetFlag(FlagCarry, newCarry != 0)
	case 0x19:
		c.dad(c.Reg.DE())
	case 0x1A:
		c.Reg.A = c.Mem.Read(c.Reg.DE())
	case 0x1B:
		c.Reg.SetDE(c.Reg.DE() - 1)
	case 0x1C:
		c.Reg.E = c.inr(c.Reg.E)
	case 0x1D:
		c.Reg.E = c.dcr(c.Reg.E)
	case 0x1E:
		c.Reg.E = c.fetchByte()
	case 0x1F:
		oldCarry := byte(0)
		if c.Reg.Flag(FlagCarry) {
			oldCarry = 1
		}
		newCarry := c.Reg.A & 1
		c.Reg.A = c.Reg.A>>1 | oldCarry<<7
		c.Reg.SetFlag(FlagCarry, newCarry != 0)

	case 0x21:
		c.Reg.SetHL(c.fetchWord())
	case 0x22:
		addr := c.fetchWord()
		c.Mem.WriteWord(addr, c.Reg.HL())
	case 0x23:
		c.Reg.SetHL(c.Reg.HL() + 1)
	case 0x24:
		c.Reg.H = c.inr(c.Reg.H)
	case 0x25:
		c.Reg.H = c.dcr(c.Reg.H)
	case 0x26:
		c.Reg.H = c.fetchByte()
	case 0x27:
		c.daa()
	case 0x29:
		c.dad(c.Reg.HL())
	case 0x2A:
		addr := c.fetchWord()
		c.Reg.SetHL(c.Mem.ReadWord(addr))
	case 0x2B:
		c.Reg.SetHL(c.Reg.HL() - 1)
	case 0x2C:
		c.Reg.L = c.inr(c.Reg.L)
	case 0x2D:
		c.Reg.L = c.dcr(c.Reg.L)
	case 0x2E:
		c.Reg.L = c.fetchByte()
	case 0x2F:
		c.Reg.A = ^c.Reg.A

	case 0x31:
		c.Reg.SP = c.fetchWord()
	case 0x32:
		addr := c.fetchWord()
		c.Mem.Write(addr, c.Reg.A)
	case 0x33:
		c.Reg.SP++
	case 0x34:
		c.Mem.Write(c.Reg.HL(), c.inr(c.Mem.Read(c.Reg.HL())))
	case 0x35:
		c.Mem.Write(c.Reg.HL(), c.dcr(c.Mem.Read(c.Reg.HL())))
	case 0x36:
		c.Mem.Write(c.Reg.HL(), c.fetchByte())
	case 0x37:
		c.Reg.SetFlag(FlagCarry, true)
	case 0x39:
		c.dad(c.Reg.SP)
	case 0x3A:
		addr := c.fetchWord()
		c.Reg.A = c.Mem.Read(addr)
	case 0x3B:
		c.Reg.SP--
	case 0x3C:
		c.Reg.A = c.inr(c.Reg.A)
	case 0x3D:
		c.Reg.A = c.dcr(c.Reg.A)
	case 0x3E:
		c.Reg.A = c.fetchByte()
	case 0x3F:
		c.Reg.SetFlag(FlagCarry, !c.Reg.Flag(FlagCarry))

	case 0xC0, 0xC8, 0xD0, 0xD8, 0xE0, 0xE8, 0xF0, 0xF8:
		code := (op >> 3) & 7
		if c.condition(code) {
			c.Reg.PC = c.pop()
			return 6
		}
	case 0xC1:
		c.Reg.SetBC(c.pop())
	case 0xC2, 0xCA, 0xD2, 0xDA, 0xE2, 0xEA, 0xF2, 0xFA:
		addr := c.fetchWord()
		if c.condition((op >> 3) & 7) {
			c.Reg.PC = addr
		}
	case 0xC3:
		c.Reg.PC = c.fetchWord()
	case 0xC4, 0xCC, 0xD4, 0xDC, 0xE4, 0xEC, 0xF4, 0xFC:
		addr := c.fetchWord()
		if c.condition((op >> 3) & 7) {
			c.push(c.Reg.PC)
			c.Reg.PC = addr
			return 6
		}
	case 0xC5:
		c.push(c.Reg.BC())
	case 0xC6:
		c.add(c.fetchByte(), false)
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF:
		n := (op >> 3) & 7
		c.push(c.Reg.PC)
		c.Reg.PC = uint16(n) * 8
	case 0xC9:
		c.Reg.PC = c.pop()
	case 0xCD:
		addr := c.fetchWord()
		c.push(c.Reg.PC)
		c.Reg.PC = addr
	case 0xCE:
		c.add(c.fetchByte(), true)

	case 0xD1:
		c.Reg.SetDE(c.pop())
	case 0xD3:
		port := c.fetchByte()
		machine.Output(port, c.Reg.A)
	case 0xD5:
		c.push(c.Reg.DE())
	case 0xD6:
		c.sub(c.fetchByte(), false)
	case 0xDB:
		port := c.fetchByte()
		c.Reg.A = machine.Input(port)
	case 0xDE:
		c.sub(c.fetchByte(), true)

	case 0xE1:
		c.Reg.SetHL(c.pop())
	case 0xE3:
		temp := c.Mem.ReadWord(c.Reg.SP)
		c.Mem.WriteWord(c.Reg.SP, c.Reg.HL())
		c.Reg.SetHL(temp)
	case 0xE5:
		c.push(c.Reg.HL())
	case 0xE6:
		c.ana(c.fetchByte())
	case 0xE9:
		c.Reg.PC = c.Reg.HL()
	case 0xEB:
		c.Reg.D, c.Reg.H = c.Reg.H, c.Reg.D
		c.Reg.E, c.Reg.L = c.Reg.L, c.Reg.E
	case 0xEE:
		c.xra(c.fetchByte())

	case 0xF1:
		c.Reg.SetAF(c.pop())
	case 0xF3:
		c.InterruptsEnabled = false
	case 0xF5:
		c.push(c.Reg.AF())
	case 0xF6:
		c.ora(c.fetchByte())
	case 0xF9:
		c.Reg.SP = c.Reg.HL()
	case 0xFB:
		c.InterruptsEnabled = true
	case 0xFE:
		c.cmp(c.fetchByte())

	default:
		panic(fmt.Sprintf("cpu_8080: unhandled opcode 0x%02X at PC=0x%04X", op, c.Reg.PC-1))
	}
	return 0
}

func (c *CPU) dad(value uint16) {
	sum := uint32(c.Reg.HL()) + uint32(value)
	c.Reg.SetFlag(FlagCarry, sum > 0xFFFF)
	c.Reg.SetHL(uint16(sum))
}
