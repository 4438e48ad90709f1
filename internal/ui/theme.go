package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
)

// DefaultTheme is the tint used when the configured one is unknown.
const DefaultTheme = "chalk"

// Theme registry for the application
var Theme *tint.Registry

// Common style elements used across all views
var (
	TitleStyle           lipgloss.Style
	SubtitleStyle        lipgloss.Style
	errorStyle           lipgloss.Style
	ErrorMessageStyle    lipgloss.Style
	statusBarStyle       lipgloss.Style
	helpStyle            lipgloss.Style
	HelpTextSimpleStyle  lipgloss.Style
	ViewportBorderStyle  lipgloss.Style
	ScrollIndicatorStyle lipgloss.Style

	// Match table
	TableHeaderStyle   lipgloss.Style
	TableCellStyle     lipgloss.Style
	TableBestCellStyle lipgloss.Style
	TableZeroCellStyle lipgloss.Style
	TableBorderColor   lipgloss.TerminalColor

	// Metric picker overlay
	PickerBorderStyle       lipgloss.Style
	PickerTitleStyle        lipgloss.Style
	PickerSelectedItemStyle lipgloss.Style
	PickerNormalItemStyle   lipgloss.Style
	PickerCurrentMarkStyle  lipgloss.Style
)

func init() {
	tint.NewDefaultRegistry()
	tint.SetTint(tint.TintChalk)
	Theme = tint.DefaultRegistry
	buildStyles()
}

// ApplyTheme switches to the tint with the given ID and rebuilds every
// style. It reports false and keeps chalk when the ID is unknown.
func ApplyTheme(id string) bool {
	ok := id != "" && tint.SetTintID(id)
	if !ok {
		tint.SetTint(tint.TintChalk)
	}
	buildStyles()
	return ok
}

func buildStyles() {
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(tint.Purple())

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(tint.Yellow())

	errorStyle = lipgloss.NewStyle().
		Foreground(tint.Red()).
		Bold(true).
		Padding(1)

	ErrorMessageStyle = lipgloss.NewStyle().
		Foreground(tint.Red())

	statusBarStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(1, 0, 0, 1)

	HelpTextSimpleStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack())

	ViewportBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tint.White()).
		Padding(0, 1)

	ScrollIndicatorStyle = lipgloss.NewStyle().
		Foreground(tint.White())

	TableHeaderStyle = lipgloss.NewStyle().
		Foreground(tint.Purple()).
		Bold(true).
		Padding(0, 1)

	TableCellStyle = lipgloss.NewStyle().
		Foreground(tint.Fg()).
		Padding(0, 1)

	TableBestCellStyle = lipgloss.NewStyle().
		Foreground(tint.Yellow()).
		Bold(true).
		Padding(0, 1)

	TableZeroCellStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(0, 1)

	TableBorderColor = tint.BrightBlack()

	PickerBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tint.Yellow()).
		Padding(1, 2)

	PickerTitleStyle = lipgloss.NewStyle().
		Foreground(tint.Yellow()).
		Bold(true)

	PickerSelectedItemStyle = lipgloss.NewStyle().
		Foreground(tint.Purple()).
		Background(tint.BrightBlack()).
		Bold(true)

	PickerNormalItemStyle = lipgloss.NewStyle().
		Foreground(tint.Fg())

	PickerCurrentMarkStyle = lipgloss.NewStyle().
		Foreground(tint.Yellow())
}

// ConfigureListStyles configures all list styles to match the application theme
func ConfigureListStyles(l *list.Model) {
	l.Styles.Title = TitleStyle
	l.Styles.TitleBar = lipgloss.NewStyle().
		Padding(0, 0, 1, 0)

	l.Styles.PaginationStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack())

	l.Styles.HelpStyle = helpStyle

	l.Styles.FilterPrompt = lipgloss.NewStyle().
		Foreground(tint.Yellow())
	l.Styles.FilterCursor = lipgloss.NewStyle().
		Foreground(tint.Purple())

	l.Styles.StatusBar = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(0, 0, 1, 0)

	l.Styles.DividerDot = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		SetString(" • ")
}

// CreateThemedDelegate creates a themed list delegate with application colors
func CreateThemedDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()

	d.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(tint.Purple()).
		Bold(true).
		BorderLeft(true).
		BorderForeground(tint.Purple()).
		Padding(0, 0, 0, 1)

	d.Styles.SelectedDesc = lipgloss.NewStyle().
		Foreground(tint.Yellow()).
		BorderLeft(true).
		BorderForeground(tint.Purple()).
		Padding(0, 0, 0, 1)

	d.Styles.NormalTitle = lipgloss.NewStyle().
		Foreground(tint.Fg()).
		Padding(0, 0, 0, 2)

	d.Styles.NormalDesc = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(0, 0, 0, 2)

	d.Styles.DimmedTitle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(0, 0, 0, 2)

	d.Styles.DimmedDesc = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(0, 0, 0, 2)

	return d
}

// RenderError renders an error message
func RenderError(msg string) string {
	return ErrorMessageStyle.Render("  ✗ " + msg)
}

// RenderViewportWithBorder renders content with a viewport border style
func RenderViewportWithBorder(content string) string {
	return ViewportBorderStyle.Render(content)
}

// GetPickerBorderStyle returns the overlay border style with dynamic width
func GetPickerBorderStyle(width int) lipgloss.Style {
	return PickerBorderStyle.Width(width - 4)
}

// GetPickerItemStyle returns item style with dynamic width
func GetPickerItemStyle(width int, selected bool) lipgloss.Style {
	if selected {
		return PickerSelectedItemStyle.Width(width - 8)
	}
	return PickerNormalItemStyle.Width(width - 8)
}
