// trace_writer.go - stdout sink for the CPU's one-line debug trace

/*
TraceWriter implements TraceSink: a mutex-guarded stdout writer with an
Enable/Disable toggle, adapted from the teacher's terminal output
device (which gated a serial/terminal peripheral on the same pattern).
*/

package main

import (
	"fmt"
	"sync"
)

// TraceWriter prints each trace line to stdout while enabled.
type TraceWriter struct {
	mutex   sync.Mutex
	enabled bool
}

// NewTraceWriter returns a TraceWriter, enabled by default.
func NewTraceWriter() *TraceWriter {
	return &TraceWriter{enabled: true}
}

// WriteTrace implements TraceSink.
func (t *TraceWriter) WriteTrace(line string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if !t.enabled {
		return
	}
	fmt.Println(line)
}

// Enable turns trace output on.
func (t *TraceWriter) Enable() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.enabled = true
}

// Disable turns trace output off.
func (t *TraceWriter) Disable() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.enabled = false
}
