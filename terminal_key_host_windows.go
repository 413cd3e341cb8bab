//go:build windows

package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var terminalKeyMap = map[byte]uint{
	'c': KeyCoin,
	'1': KeyStartP1,
	'2': KeyStartP2,
	' ': KeyShoot1,
	'a': KeyLeftP1,
	'd': KeyRightP1,
	'w': KeyShoot2,
	'j': KeyLeftP2,
	'l': KeyRightP2,
}

const keyAutoReleaseDelay = 150 * time.Millisecond

// TerminalKeyHost reads raw stdin and taps ArcadeMachine buttons.
// Only instantiated in main.go for interactive use — never in tests.
type TerminalKeyHost struct {
	machine *ArcadeMachine
	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once

	fd           int
	oldTermState *term.State

	timerMu sync.Mutex
	timers  map[uint]*time.Timer
}

// NewTerminalKeyHost creates a host adapter that reads stdin and taps
// buttons on machine.
func NewTerminalKeyHost(machine *ArcadeMachine) *TerminalKeyHost {
	return &TerminalKeyHost{
		machine: machine,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		timers:  make(map[uint]*time.Timer),
	}
}

// Start sets stdin to raw mode and begins reading in a goroutine.
func (h *TerminalKeyHost) Start() {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal_key_host: failed to set raw mode: %v\n", err)
		close(h.done)
		return
	}
	h.oldTermState = oldState

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := os.Stdin.Read(buf)
			if n > 0 {
				h.tap(buf[0])
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
}

func (h *TerminalKeyHost) tap(b byte) {
	bit, ok := terminalKeyMap[b]
	if !ok {
		return
	}
	h.machine.KeyDown(bit)

	h.timerMu.Lock()
	defer h.timerMu.Unlock()
	if existing, ok := h.timers[bit]; ok {
		existing.Stop()
	}
	h.timers[bit] = time.AfterFunc(keyAutoReleaseDelay, func() {
		h.machine.KeyUp(bit)
	})
}

// Stop terminates the stdin reading goroutine and restores terminal state.
func (h *TerminalKeyHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done

	h.timerMu.Lock()
	for _, t := range h.timers {
		t.Stop()
	}
	h.timerMu.Unlock()

	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
