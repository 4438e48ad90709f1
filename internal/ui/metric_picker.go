package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"prefsim/internal/similarity"
)

// MetricPickerModel is the overlay foreground listing the similarity metrics
type MetricPickerModel struct {
	metrics       []string
	current       string
	selectedIndex int
	width         int
	height        int
}

// MetricSelected is sent when the user picks a metric
type MetricSelected struct {
	Name string
}

// MetricPickerClosed is sent when the picker is closed without a choice
type MetricPickerClosed struct{}

func NewMetricPickerModel(current string) MetricPickerModel {
	m := MetricPickerModel{metrics: similarity.Names()}
	m.SetCurrent(current)
	return m
}

// SetCurrent marks the active metric and moves the cursor onto it.
func (m *MetricPickerModel) SetCurrent(name string) {
	m.current = name
	m.selectedIndex = 0
	for i, n := range m.metrics {
		if n == name {
			m.selectedIndex = i
		}
	}
}

func (m MetricPickerModel) Init() tea.Cmd {
	return nil
}

func (m MetricPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if m.selectedIndex > 0 {
				m.selectedIndex--
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if m.selectedIndex < len(m.metrics)-1 {
				m.selectedIndex++
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if len(m.metrics) == 0 {
				return m, nil
			}
			selected := m.metrics[m.selectedIndex]
			return m, func() tea.Msg {
				return MetricSelected{Name: selected}
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("esc", "m"))):
			return m, func() tea.Msg {
				return MetricPickerClosed{}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m MetricPickerModel) View() string {
	overlayWidth := m.width / 3
	if overlayWidth < 36 {
		overlayWidth = 36
	}

	var content strings.Builder
	content.WriteString(PickerTitleStyle.Render("Similarity metric"))
	content.WriteString("\n\n")

	for i, name := range m.metrics {
		indicator := "  "
		if i == m.selectedIndex {
			indicator = "▶ "
		}
		line := indicator + name
		if name == m.current {
			line += PickerCurrentMarkStyle.Render(" (current)")
		}
		content.WriteString(GetPickerItemStyle(overlayWidth, i == m.selectedIndex).Render(line))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(HelpTextSimpleStyle.Render("↑/↓: Navigate • Enter: Select • Esc: Cancel"))

	return GetPickerBorderStyle(overlayWidth).Render(content.String())
}

// MetricPickerOverlayModel wraps the picker with the overlay library
type MetricPickerOverlayModel struct {
	picker  MetricPickerModel
	visible bool
}

func NewMetricPickerOverlayModel(current string) MetricPickerOverlayModel {
	return MetricPickerOverlayModel{
		picker: NewMetricPickerModel(current),
	}
}

func (m *MetricPickerOverlayModel) Show(current string) {
	m.picker.SetCurrent(current)
	m.visible = true
}

func (m *MetricPickerOverlayModel) Hide() {
	m.visible = false
}

func (m *MetricPickerOverlayModel) IsVisible() bool {
	return m.visible
}

func (m *MetricPickerOverlayModel) UpdateSize(width, height int) {
	m.picker.width = width
	m.picker.height = height
}

func (m *MetricPickerOverlayModel) UpdatePicker(msg tea.Msg) tea.Cmd {
	if !m.visible {
		return nil
	}

	mdl, cmd := m.picker.Update(msg)
	m.picker = mdl.(MetricPickerModel)
	return cmd
}

func (m MetricPickerOverlayModel) RenderOverlay(backgroundView string) string {
	if !m.visible {
		return backgroundView
	}

	overlayModel := overlay.New(
		m.picker,
		&staticViewModel{content: backgroundView},
		overlay.Center,
		overlay.Top,
		0,
		2,
	)

	return overlayModel.View()
}

// staticViewModel renders fixed content as the overlay background
type staticViewModel struct {
	content string
}

func (m staticViewModel) Init() tea.Cmd {
	return nil
}

func (m staticViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

func (m staticViewModel) View() string {
	return m.content
}
