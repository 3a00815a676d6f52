package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"github.com/petrijr/blockflow"
)

var (
	purple = lipgloss.Color("99")
	green  = lipgloss.Color("76")
	red    = lipgloss.Color("204")
	yellow = lipgloss.Color("214")
	dim    = lipgloss.Color("243")
	faint  = lipgloss.Color("238")
)

var (
	accentStyle  = lipgloss.NewStyle().Foreground(purple)
	successStyle = lipgloss.NewStyle().Foreground(green)
	errorStyle   = lipgloss.NewStyle().Foreground(red)
	warnStyle    = lipgloss.NewStyle().Foreground(yellow)
	mutedStyle   = lipgloss.NewStyle().Foreground(dim)
	labelStyle   = lipgloss.NewStyle().Width(14)
)

const barWidth = 24

// configureColor picks a color profile for stdout. Plain output, CI and dumb
// terminals get no escapes at all.
func configureColor(plain bool) {
	if plain || !isInteractive() {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.ColorProfile())
}

func isInteractive() bool {
	if os.Getenv("CI") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Table renders a styled table with rounded borders.
func Table(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().
		Foreground(purple).
		Bold(true).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	oddStyle := cellStyle.Foreground(dim)
	evenStyle := cellStyle

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(faint)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenStyle
			default:
				return oddStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)

	return t.String()
}

func progressBar(progress float64, status blockflow.Status) string {
	filled := int(progress / 100 * barWidth)
	filled = max(0, min(barWidth, filled))

	style := accentStyle
	switch status {
	case blockflow.StatusCompleted:
		style = successStyle
	case blockflow.StatusFailed:
		style = errorStyle
	case blockflow.StatusPaused:
		style = warnStyle
	}
	return style.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", barWidth-filled))
}

func statusIcon(status blockflow.Status) string {
	switch status {
	case blockflow.StatusRunning:
		return accentStyle.Render("▶")
	case blockflow.StatusPaused:
		return warnStyle.Render("‖")
	case blockflow.StatusCompleted:
		return successStyle.Render("✓")
	case blockflow.StatusFailed:
		return errorStyle.Render("✗")
	default:
		return mutedStyle.Render("●")
	}
}

func stepLine(s blockflow.Step) string {
	return fmt.Sprintf("  %s %s %s %3.0f%%",
		statusIcon(s.Status),
		labelStyle.Render(s.Label),
		progressBar(s.Progress, s.Status),
		s.Progress,
	)
}

// board redraws the sequence. In place mode it moves the cursor back over the
// previous frame; otherwise it prints a frame only when some step changed
// status, so logs stay readable.
type board struct {
	out     io.Writer
	inPlace bool

	lines int
	last  string
}

func (b *board) render(steps []blockflow.Step) {
	if !b.inPlace {
		sig := statusSignature(steps)
		if sig == b.last {
			return
		}
		b.last = sig
		for _, s := range steps {
			fmt.Fprintln(b.out, stepLine(s))
		}
		fmt.Fprintln(b.out)
		return
	}

	if b.lines > 0 {
		fmt.Fprintf(b.out, "\033[%dA", b.lines)
	}
	for _, s := range steps {
		fmt.Fprintf(b.out, "\r%s\033[K\n", stepLine(s))
	}
	for i := len(steps); i < b.lines; i++ {
		fmt.Fprint(b.out, "\r\033[K\n")
	}
	b.lines = max(b.lines, len(steps))
}

func statusSignature(steps []blockflow.Step) string {
	var sb strings.Builder
	for _, s := range steps {
		sb.WriteString(s.ID)
		sb.WriteByte('=')
		sb.WriteString(string(s.Status))
		sb.WriteByte(';')
	}
	return sb.String()
}
