package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeAudioSink struct {
	played []int
	paused []int
	loops  map[int]int
}

func newFakeAudioSink() *fakeAudioSink {
	return &fakeAudioSink{loops: map[int]int{}}
}

func (f *fakeAudioSink) Play(soundID int, loops int) {
	f.played = append(f.played, soundID)
	f.loops[soundID] = loops
}

func (f *fakeAudioSink) Pause(soundID int) {
	f.paused = append(f.paused, soundID)
}

// Scenario 4 from spec.md §8: shift register I/O.
func TestArcadeMachineShiftRegister(t *testing.T) {
	m := NewArcadeMachine(newFakeAudioSink())

	m.Output(4, 0xAA)
	assert.EqualValues(t, 0xAA, m.shift1)
	assert.EqualValues(t, 0x00, m.shift0)

	m.Output(4, 0xBB)
	assert.EqualValues(t, 0xBB, m.shift1)
	assert.EqualValues(t, 0xAA, m.shift0)

	m.Output(2, 0x03)
	assert.EqualValues(t, 0x03, m.shiftOffset)

	// ((0xBB<<8)|0xAA) >> 5 = 0xDD; see SPEC_FULL.md §6 for why this
	// diverges from the documented worked example.
	got := m.Input(3)
	assert.EqualValues(t, 0xDD, got)
}

func TestArcadeMachineKeyLatch(t *testing.T) {
	m := NewArcadeMachine(newFakeAudioSink())

	m.KeyDown(KeyCoin)
	m.KeyDown(KeyShoot1)
	assert.EqualValues(t, 1<<KeyCoin|1<<KeyShoot1, m.Input(1))

	m.KeyDown(KeyShoot2)
	assert.EqualValues(t, 1<<(KeyShoot2-8), m.Input(2))

	m.KeyUp(KeyCoin)
	assert.EqualValues(t, 1<<KeyShoot1, m.Input(1))
}

func TestArcadeMachineAudioEdgeTriggers(t *testing.T) {
	sink := newFakeAudioSink()
	m := NewArcadeMachine(sink)

	m.Output(3, 0x01) // UfoHighPitch on
	assert.Equal(t, []int{SoundUfoHighPitch}, sink.played)
	assert.Equal(t, 1, sink.loops[SoundUfoHighPitch])

	m.Output(3, 0x01) // re-trigger while already on: no new edge
	assert.Equal(t, []int{SoundUfoHighPitch}, sink.played)

	m.Output(3, 0x00) // UfoHighPitch off
	assert.Equal(t, []int{SoundUfoHighPitch}, sink.paused)

	m.Output(3, 0x0E) // Shoot, Explosion, InvaderKilled all on at once
	assert.ElementsMatch(t, []int{SoundUfoHighPitch, SoundShoot, SoundExplosion, SoundInvaderKilled}, sink.played)
}

func TestArcadeMachineFastInvaderTriggersOnPort5(t *testing.T) {
	sink := newFakeAudioSink()
	m := NewArcadeMachine(sink)

	m.Output(5, 0x01)
	assert.Equal(t, []int{SoundFastInvader1}, sink.played)
	assert.Equal(t, 0, sink.loops[SoundFastInvader1])
}

func TestArcadeMachineUnknownPortPanics(t *testing.T) {
	m := NewArcadeMachine(newFakeAudioSink())
	assert.Panics(t, func() { m.Input(7) })
	assert.Panics(t, func() { m.Output(9, 0) })
}
