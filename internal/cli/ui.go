package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// statusOut receives status lines. generate points it at stderr when the
// artifact itself goes to stdout.
var statusOut io.Writer = os.Stdout

// Palette (ANSI 256)
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight renders emphasized values such as the busyness meter.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue renders data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber renders counts and sizes.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning renders warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// statusLine is one kind of status message: an icon and the styles for the
// icon and the text.
type statusLine struct {
	icon      string
	iconStyle lipgloss.Style
	textStyle lipgloss.Style
}

var (
	lineSuccess = statusLine{"✓", lipgloss.NewStyle().Foreground(colorGreen), lipgloss.NewStyle()}
	lineError   = statusLine{"✗", lipgloss.NewStyle().Foreground(colorRed), lipgloss.NewStyle()}
	lineWarning = statusLine{"!", lipgloss.NewStyle().Foreground(colorYellow), StyleWarning}
	lineInfo    = statusLine{"›", lipgloss.NewStyle().Foreground(colorGray), lipgloss.NewStyle()}
)

func (s statusLine) print(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(statusOut, s.iconStyle.Render(s.icon)+" "+s.textStyle.Render(msg))
}

func printSuccess(format string, args ...any) { lineSuccess.print(format, args...) }
func printError(format string, args ...any)   { lineError.print(format, args...) }
func printWarning(format string, args ...any) { lineWarning.print(format, args...) }
func printInfo(format string, args ...any)    { lineInfo.print(format, args...) }

// printDetail prints an indented, dimmed line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// printKeyValue prints a value behind a fixed-width label.
func printKeyValue(key, value string) {
	fmt.Fprintln(statusOut, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printStats prints one dot-separated line summarizing a generation run,
// ending in "cached" or "fresh".
func printStats(eligible, excluded, cells int, cached bool) {
	parts := []string{fmt.Sprintf("%d tiles", eligible)}
	if excluded > 0 {
		parts = append(parts, fmt.Sprintf("%d excluded", excluded))
	}
	parts = append(parts, fmt.Sprintf("%d cells", cells))

	status := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		status = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	}

	sep := StyleDim.Render(" · ")
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(strings.Join(parts, " · "))+sep+status)
}

// busynessBar draws b (clamped to 0..10) as a ten-cell meter.
func busynessBar(b int) string {
	b = max(0, min(b, 10))
	return StyleHighlight.Render(strings.Repeat("█", b)) + StyleDim.Render(strings.Repeat("░", 10-b))
}
