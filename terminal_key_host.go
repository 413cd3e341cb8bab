//go:build !windows

// terminal_key_host.go - raw-stdin cabinet input for headless play

/*
TerminalKeyHost reads raw stdin one byte at a time and taps the
matching cabinet button on ArcadeMachine. Raw single-byte stdin has no
key-up event, so each tap auto-releases after a short hold instead of
waiting for one (a design decision recorded in DESIGN.md) — good enough for headless/SSH play, not a
substitute for the GUI backend's real press/release events.
*/

package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

const keyAutoReleaseDelay = 150 * time.Millisecond

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

// TerminalKeyHost reads raw stdin and taps ArcadeMachine buttons.
// Only instantiated in main.go for interactive use — never in tests.
type TerminalKeyHost struct {
	machine *ArcadeMachine
	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once

	fd           int
	nonblockSet  bool
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

// Start sets stdin to non-blocking raw mode and begins reading in a
// goroutine. Call Stop() to restore stdin.
func (h *TerminalKeyHost) Start() {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal_key_host: failed to set raw mode: %v\n", err)
		close(h.done)
		return
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		fmt.Fprintf(os.Stderr, "terminal_key_host: failed to set nonblocking stdin: %v\n", err)
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := syscall.Read(h.fd, buf)
			if n > 0 {
				h.tap(buf[0])
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				time.Sleep(5 * time.Millisecond)
				continue
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

// tap presses the button mapped to b, if any, and schedules its
// release after keyAutoReleaseDelay.
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

// Stop terminates the stdin reading goroutine, cancels any pending
// auto-release timers, and restores stdin to blocking cooked mode.
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

	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
