package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingVideo struct {
	frames int
	last   []byte
}

func (v *countingVideo) Start() error                         { return nil }
func (v *countingVideo) Stop() error                           { return nil }
func (v *countingVideo) Close() error                          { return nil }
func (v *countingVideo) IsStarted() bool                       { return true }
func (v *countingVideo) SetDisplayConfig(DisplayConfig) error  { return nil }
func (v *countingVideo) GetDisplayConfig() DisplayConfig       { return DisplayConfig{} }
func (v *countingVideo) WaitForVSync() error                   { return nil }
func (v *countingVideo) GetFrameCount() uint64                 { return uint64(v.frames) }
func (v *countingVideo) GetRefreshRate() int                   { return 60 }
func (v *countingVideo) UpdateFrame(buffer []byte) error {
	v.frames++
	v.last = buffer
	return nil
}

func TestRunFrameInjectsInterruptOneAndRendersOneFrame(t *testing.T) {
	mem := NewMemory()
	cpu := NewCPU(mem)
	// Memory is all NOPs, so the CPU never halts; interrupt 1 fires at
	// the half-frame mark and redirects PC to vector 1 (0x0008).
	// Interrupt 2 is a no-op here since nothing re-enables interrupts
	// mid-ISR the way the real ROM's EI instruction would.
	cpu.Reg.PC = 0x0000
	cpu.InterruptsEnabled = true

	machine := NewArcadeMachine(nil)
	video := &countingVideo{}
	runner := NewRunner(cpu, machine, video)

	runner.RunFrame()

	assert.Equal(t, 1, video.frames)
	assert.Len(t, video.last, ScreenWidth*ScreenHeight*4)
	assert.False(t, cpu.InterruptsEnabled)
	assert.GreaterOrEqual(t, cpu.Reg.PC, uint16(0x0008))
}

func TestRunnerStartStop(t *testing.T) {
	mem := NewMemory()
	cpu := NewCPU(mem)
	machine := NewArcadeMachine(nil)
	video := &countingVideo{}
	runner := NewRunner(cpu, machine, video)

	runner.Start()
	time.Sleep(50 * time.Millisecond)
	runner.Stop()

	assert.GreaterOrEqual(t, video.frames, 1)
}

func TestCycleBudgetConstants(t *testing.T) {
	assert.Equal(t, cyclesPerFrame, cyclesPerHalf*2)
	assert.InDelta(t, 16666, cyclesPerHalf, 1)
}
