// Package ui renders live snapshots as a terminal dashboard.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/hwmoni/internal/model"
	"github.com/Dicklesworthstone/hwmoni/internal/monitor"
	"github.com/Dicklesworthstone/hwmoni/internal/specs"
)

// Model renders live snapshots from the composer.
type Model struct {
	latest    model.ExtendedSnapshot
	identity  model.HardwareIdentity
	updatedAt time.Time
	stream    <-chan model.ExtendedSnapshot
	ctxCancel context.CancelFunc
	width     int
	height    int
}

func New(composer *monitor.Composer, reporter *specs.Reporter, interval time.Duration) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	identity, _ := reporter.Read()
	return &Model{
		identity:  identity,
		stream:    composer.Stream(ctx, interval),
		ctxCancel: cancel,
		width:     120,
		height:    40,
	}
}

// Messages
type tickMsg struct{}

func tickCmd() tea.Cmd { return tea.Tick(time.Second/5, func(time.Time) tea.Msg { return tickMsg{} }) }

func (m *Model) Init() tea.Cmd { return tickCmd() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.ctxCancel()
			return m, tea.Quit
		}
	case tickMsg:
		select {
		case ext, ok := <-m.stream:
			if ok {
				m.latest = ext
				m.updatedAt = time.Now()
			}
		default:
		}
		return m, tickCmd()
	}
	return m, nil
}

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	gaugeFill   = "█"
	gaugeEmpty  = "░"
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1).
			MarginRight(1)
)

func (m *Model) View() string {
	s := m.latest
	stamp := ""
	if !m.updatedAt.IsZero() {
		stamp = m.updatedAt.Format("Mon Jan 2 15:04:05 MST 2006")
	}
	header := titleStyle.Render("Hardware Monitor") + "  " + subtleStyle.Render(stamp)

	cpuBody := gaugeBar(s.CPUUsagePercent, 28)
	if s.LoadAverage != nil {
		cpuBody += fmt.Sprintf("  load %.2f %.2f %.2f",
			s.LoadAverage.Load1, s.LoadAverage.Load5, s.LoadAverage.Load15)
	}
	cpuCard := card("CPU", cpuBody)

	memCard := card("Memory",
		fmt.Sprintf("%s  %.1f/%.1f GiB",
			gaugeBar(s.MemoryUsagePercent, 28),
			model.BytesToGB(s.UsedMemoryBytes),
			model.BytesToGB(s.TotalMemoryBytes)))

	tempBody := "no sensor"
	if t := s.CPUTemperature; t != nil {
		tempBody = fmt.Sprintf("%.1f°C", t.Celsius)
		if t.Provenance == model.Estimated {
			tempBody += subtleStyle.Render(" (estimated from load)")
		}
	}
	tempCard := card("Temperature", tempBody)

	sysBody := fmt.Sprintf("up %s", formatUptime(s.UptimeSeconds))
	if s.BootTime != nil {
		sysBody += "\nbooted " + *s.BootTime
	}
	sysCard := card("System", sysBody)

	id := m.identity
	hwCard := card("Hardware", strings.Join([]string{
		fmt.Sprintf("%s (%d cores, %s)", id.CPUModel, id.CPUCores, id.Architecture),
		fmt.Sprintf("%.1f GB RAM", id.TotalMemoryGB),
		fmt.Sprintf("%s %s @ %s", id.OSName, id.OSVersion, id.Hostname),
	}, "\n"))

	line1 := lipgloss.JoinHorizontal(lipgloss.Top, cpuCard, memCard, tempCard)
	line2 := lipgloss.JoinHorizontal(lipgloss.Top, hwCard, sysCard)

	return lipgloss.JoinVertical(lipgloss.Left, header, line1, line2)
}

// Helpers
func gaugeBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int((pct / 100) * float64(width))
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %5.1f%%",
		strings.Repeat(gaugeFill, filled),
		strings.Repeat(gaugeEmpty, width-filled),
		pct)
}

func card(title, body string) string {
	return cardStyle.Render(labelStyle.Render(title) + "\n" + body)
}

func formatUptime(secs uint64) string {
	d := time.Duration(secs) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// Run starts the Bubble Tea program.
func Run(composer *monitor.Composer, reporter *specs.Reporter, interval time.Duration) error {
	prog := tea.NewProgram(New(composer, reporter, interval), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
