// main.go - invaders8080 command line entry point

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var (
		romDir     string
		headless   bool
		trace      bool
		monitorOn  bool
		scale      int
		assetDir   string
		sampleRate int
	)

	rootCmd := &cobra.Command{
		Use:   "invaders8080",
		Short: "Intel 8080 Space Invaders cabinet emulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(romDir, assetDir, headless, trace, monitorOn, scale, sampleRate)
		},
	}

	rootCmd.Flags().StringVar(&romDir, "rom", "", "directory containing invaders.h/g/f/e")
	rootCmd.Flags().StringVar(&assetDir, "assets", "assets", "directory containing the cabinet's WAV clips")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "run without a GUI window, using raw-stdin key taps")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "print one line per executed instruction")
	rootCmd.Flags().BoolVar(&monitorOn, "monitor", false, "show a live terminal register/FPS overlay instead of trace output")
	rootCmd.Flags().IntVar(&scale, "scale", 2, "window scale factor (GUI builds only)")
	rootCmd.Flags().IntVar(&sampleRate, "sample-rate", 44100, "audio sample rate for the WAV clips")
	_ = rootCmd.MarkFlagRequired("rom")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(romDir, assetDir string, headless, trace, monitorOn bool, scale, sampleRate int) error {
	mem := NewMemory()
	cpu := NewCPU(mem)

	if trace && !monitorOn {
		tw := NewTraceWriter()
		cpu.TraceSink = tw
		cpu.DebugTrace = true
	}

	audio, err := NewOtoAudioSink(assetDir, sampleRate)
	if err != nil {
		return fmt.Errorf("invaders8080: audio init: %w", err)
	}
	machine := NewArcadeMachine(audio)

	video, err := NewVideoOutput()
	if err != nil {
		return fmt.Errorf("invaders8080: video init: %w", err)
	}
	if err := video.SetDisplayConfig(DisplayConfig{
		Width:  ScreenWidth,
		Height: ScreenHeight,
		Scale:  scale,
	}); err != nil {
		return fmt.Errorf("invaders8080: video config: %w", err)
	}

	runner := NewRunner(cpu, machine, video)
	if err := runner.LoadROMDir(romDir); err != nil {
		return err
	}

	if headless {
		keyHost := NewTerminalKeyHost(machine)
		keyHost.Start()
		defer keyHost.Stop()
	} else if kb, ok := video.(KeyboardInput); ok {
		kb.SetKeyHandler(func(key uint, down bool) {
			if down {
				machine.KeyDown(key)
			} else {
				machine.KeyUp(key)
			}
		})
	}

	if !headless {
		if err := video.Start(); err != nil {
			return fmt.Errorf("invaders8080: video start: %w", err)
		}
		defer video.Stop()
	}

	runner.Start()
	defer runner.Stop()

	if monitorOn {
		return RunMonitor(cpu, video)
	}

	select {}
}
