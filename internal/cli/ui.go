package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// stdout receives all user-facing output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

// ANSI 256 colors, picked to match the chart's own source colors.
var (
	colorAccent  = lipgloss.Color("36")  // teal
	colorOK      = lipgloss.Color("35")  // green
	colorWarn    = lipgloss.Color("214") // solar orange
	colorFail    = lipgloss.Color("167")
	colorCommand = lipgloss.Color("75") // grid blue
	colorText    = lipgloss.Color("255")
	colorMuted   = lipgloss.Color("245")
	colorFaint   = lipgloss.Color("240")
)

// Styles shared with the inspect view.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue   = lipgloss.NewStyle().Foreground(colorText)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorAccent)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleCommand = lipgloss.NewStyle().Foreground(colorCommand)
	styleKey     = lipgloss.NewStyle().Foreground(colorMuted).Width(16)
)

// =============================================================================
// Status Lines
// =============================================================================

// status is the leading marker of a one-line message.
type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusOK   = status{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	statusFail = status{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	statusWarn = status{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	statusInfo = status{"›", lipgloss.NewStyle().Foreground(colorMuted)}
)

func (s status) print(msg string) {
	fmt.Fprintln(stdout, s.style.Render(s.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { statusOK.print(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { statusFail.print(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { statusInfo.print(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	statusWarn.print(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written file, e.g. "  → chart.svg".
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, "  "+styleKey.Render(key)+" "+StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Stats
// =============================================================================

func printStats(s pipeline.Stats, cached bool) {
	fmt.Fprintln(stdout, statsLine(s, cached))
}

// statsLine summarizes a chart, e.g. "12 nodes · 14 links · 5 columns · fresh".
// Zero counts are left out.
func statsLine(s pipeline.Stats, cached bool) string {
	var parts []string
	for _, c := range []struct {
		n    int
		noun string
	}{
		{s.NodeCount, "nodes"},
		{s.LinkCount, "links"},
		{s.Columns, "columns"},
	} {
		if c.n > 0 {
			parts = append(parts, StyleDim.Render(fmt.Sprintf("%d %s", c.n, c.noun)))
		}
	}
	if cached {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorOK).Render("cached"))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorMuted).Render("fresh"))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}
