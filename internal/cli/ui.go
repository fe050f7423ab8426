package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// uiOut receives human-readable status output. Trees and tables go to the
// command's stdout so they can be piped.
var uiOut io.Writer = os.Stderr

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for node ids and other emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
)

// status prints icon and a formatted message as one line.
func status(icon string, style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(uiOut, style.Render(icon), fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status("✓", styleIconSuccess, format, args...) }
func printInfo(format string, args ...any)    { status("›", styleIconInfo, format, args...) }

func printWarning(format string, args ...any) {
	status("!", styleIconWarning, "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, " ", StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written file.
func printFile(path string) {
	fmt.Fprintln(uiOut, " ", StyleDim.Render("→"), StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleKey.Render(key), StyleValue.Render(value))
}

// printStats prints the tree count and whether the result was cached.
func printStats(treeCount int, cached bool) {
	state := StyleDim.Render("fresh")
	if cached {
		state = styleCached.Render("cached")
	}
	fmt.Fprintln(uiOut, " ", StyleDim.Render(fmt.Sprintf("%d tree(s) ·", treeCount)), state)
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":"), styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(uiOut)
}
