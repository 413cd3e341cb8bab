// monitor.go - read-only terminal register/FPS view

/*
Monitor is a live, read-only terminal overlay showing the register
file and measured frame rate while the cabinet runs — not a debugger:
no breakpoints, no stepping, nothing here ever touches CPU state. It
samples Runner/CPU state on a timer and re-renders, in the style of
the teacher's bubbletea+lipgloss interactive debugger (hejops-gone's
cpu/debugger.go), stripped of anything that mutates execution.
*/

package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	monitorBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1)
	monitorLabelStyle = lipgloss.NewStyle().Bold(true)
)

type monitorTickMsg time.Time

func monitorTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

type monitorModel struct {
	cpu    *CPU
	video  VideoOutput
	prevFC uint64
	fps    float64
}

func (m monitorModel) Init() tea.Cmd {
	return monitorTick()
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case monitorTickMsg:
		fc := m.video.GetFrameCount()
		m.fps = float64(fc-m.prevFC) * 2 // ticks every 500ms
		m.prevFC = fc
		return m, monitorTick()
	}
	return m, nil
}

func (m monitorModel) View() string {
	r := m.cpu.Snapshot()
	body := fmt.Sprintf(
		"PC=%04X SP=%04X\nA=%02X F=%02X\nB=%02X C=%02X  D=%02X E=%02X  H=%02X L=%02X\n\n%s %.1f\n\n%s",
		r.PC, r.SP, r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L,
		monitorLabelStyle.Render("FPS:"), m.fps,
		"press q to quit",
	)
	return monitorBoxStyle.Render(body)
}

// RunMonitor starts the terminal overlay and blocks until it quits.
// It reads cpu and video but never drives the emulation itself —
// Runner.Start must already be running on its own goroutine.
func RunMonitor(cpu *CPU, video VideoOutput) error {
	_, err := tea.NewProgram(monitorModel{cpu: cpu, video: video}).Run()
	return err
}
