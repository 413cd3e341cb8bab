//go:build !headless

// audio_backend_oto.go - oto-backed AudioSink: 8 discrete trigger sounds

/*
Unlike a continuously-synthesized waveform sink, this cabinet's audio is
eight fixed PCM clips triggered by port writes. Play(id, loops) starts
(or restarts) playback of clip id; loops == 1 requests an indefinitely
looping player (used only for the UFO high-pitch siren), everything
else is one-shot. Pause(id) stops the clip currently assigned to id.
*/

package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ebitengine/oto/v3"
)

var soundFileNames = [8]string{
	SoundUfoHighPitch:  "ufo_highpitch.wav",
	SoundFastInvader1:  "fastinvader1.wav",
	SoundFastInvader2:  "fastinvader2.wav",
	SoundFastInvader3:  "fastinvader3.wav",
	SoundFastInvader4:  "fastinvader4.wav",
	SoundInvaderKilled: "invaderkilled.wav",
	SoundExplosion:     "explosion.wav",
	SoundShoot:         "shoot.wav",
}

type otoAudioSink struct {
	ctx  *oto.Context
	mu   sync.Mutex
	clip [8][]byte
	live [8]*oto.Player
}

// NewOtoAudioSink loads the eight WAV clips from assetDir and returns an
// AudioSink backed by oto. Each file must be 16-bit signed PCM at the
// given sample rate; a clip that fails to load is returned as an error
// to the host, not the CPU's concern (spec.md §7).
func NewOtoAudioSink(assetDir string, sampleRate int) (AudioSink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   0,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("audio_backend_oto: new context: %w", err)
	}
	<-ready

	sink := &otoAudioSink{ctx: ctx}
	for id, name := range soundFileNames {
		pcm, err := loadWAVData(filepath.Join(assetDir, name))
		if err != nil {
			return nil, fmt.Errorf("audio_backend_oto: loading %s: %w", name, err)
		}
		sink.clip[id] = pcm
	}
	return sink, nil
}

func (s *otoAudioSink) Play(soundID int, loops int) {
	if soundID < 0 || soundID >= len(s.clip) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var r io.Reader
	if loops != 0 {
		r = &loopingReader{data: s.clip[soundID]}
	} else {
		r = bytes.NewReader(s.clip[soundID])
	}

	if s.live[soundID] != nil {
		_ = s.live[soundID].Close()
	}
	p := s.ctx.NewPlayer(r)
	p.Play()
	s.live[soundID] = p
}

func (s *otoAudioSink) Pause(soundID int) {
	if soundID < 0 || soundID >= len(s.clip) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live[soundID] != nil {
		s.live[soundID].Pause()
	}
}

// loopingReader repeats data forever, for the cabinet's one looped sound.
type loopingReader struct {
	data []byte
	pos  int
}

func (l *loopingReader) Read(p []byte) (int, error) {
	if len(l.data) == 0 {
		return 0, io.EOF
	}
	n := 0
	for n < len(p) {
		if l.pos >= len(l.data) {
			l.pos = 0
		}
		c := copy(p[n:], l.data[l.pos:])
		n += c
		l.pos += c
	}
	return n, nil
}

// loadWAVData reads the PCM samples out of a canonical RIFF/WAVE file.
// No third-party WAV decoder appears anywhere in the retrieved example
// pack, so this is a minimal stdlib chunk walk (see DESIGN.md).
func loadWAVData(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) < 12 || string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%s is not a RIFF/WAVE file", path)
	}

	offset := 12
	for offset+8 <= len(raw) {
		chunkID := string(raw[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(raw[offset+4 : offset+8]))
		body := offset + 8
		end := body + chunkSize
		if end > len(raw) {
			end = len(raw)
		}
		if chunkID == "data" {
			return raw[body:end], nil
		}
		offset = end
		if chunkSize%2 == 1 {
			offset++
		}
	}
	return nil, fmt.Errorf("%s has no data chunk", path)
}
