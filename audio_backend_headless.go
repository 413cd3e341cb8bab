//go:build headless

package main

type headlessAudioSink struct{}

// NewOtoAudioSink returns a no-op AudioSink when built headless.
func NewOtoAudioSink(assetDir string, sampleRate int) (AudioSink, error) {
	return headlessAudioSink{}, nil
}

func (headlessAudioSink) Play(soundID int, loops int) {}
func (headlessAudioSink) Pause(soundID int)           {}
