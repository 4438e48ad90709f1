package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"prefsim/internal/logging"
	"prefsim/internal/prefs"
	"prefsim/internal/rank"
	"prefsim/internal/report"
	"prefsim/internal/similarity"
)

const (
	headerHeight = 4
	helpHeight   = 2
)

type MatchViewModel struct {
	table       prefs.Table
	datasetName string
	subject     prefs.SubjectID
	metricName  string
	n           int

	matches rank.Matches
	shared  []int

	picker     MetricPickerOverlayModel
	showReport bool
	viewport   viewport.Model

	width  int
	height int
	err    error
}

// BackToSubjects is sent when the user leaves the match view
type BackToSubjects struct{}

// SettingsChanged carries the metric and n chosen in the match view so the
// next subject opens with them.
type SettingsChanged struct {
	Metric string
	N      int
}

var (
	keyPicker   = key.NewBinding(key.WithKeys("m"))
	keyMore     = key.NewBinding(key.WithKeys("+", "="))
	keyFewer    = key.NewBinding(key.WithKeys("-", "_"))
	keyReport   = key.NewBinding(key.WithKeys("r"))
	keyBack     = key.NewBinding(key.WithKeys("esc"))
	keyScrollUp = key.NewBinding(key.WithKeys("up", "k", "pgup"))
	keyScrollDn = key.NewBinding(key.WithKeys("down", "j", "pgdown"))
)

func NewMatchViewModel(t prefs.Table, datasetName string, subject prefs.SubjectID, metricName string, n, width, height int) MatchViewModel {
	vp := viewport.New(width-6, reportHeight(height))

	m := MatchViewModel{
		table:       t,
		datasetName: datasetName,
		subject:     subject,
		metricName:  metricName,
		n:           n,
		picker:      NewMetricPickerOverlayModel(metricName),
		viewport:    vp,
		width:       width,
		height:      height,
	}
	m.picker.UpdateSize(width, height)
	m.refresh()
	return m
}

func reportHeight(height int) int {
	h := height - headerHeight - helpHeight - 2
	if h < 3 {
		h = 3
	}
	return h
}

// refresh reruns the ranking for the current subject, metric and n.
func (m *MatchViewModel) refresh() {
	metric, err := similarity.Lookup(m.metricName)
	if err != nil {
		m.err = err
		return
	}

	matches, err := rank.TopMatches(m.table, m.subject, m.n, metric)
	if err != nil {
		m.err = err
		logging.Error("Failed to rank matches for %q: %v", m.subject, err)
		return
	}

	shared := make([]int, len(matches))
	for i, match := range matches {
		items, err := prefs.SharedItems(m.table, m.subject, match.Subject)
		if err != nil {
			m.err = err
			return
		}
		shared[i] = len(items)
	}

	m.err = nil
	m.matches = matches
	m.shared = shared
	logging.Debug("Ranked %d matches for %q (metric=%s, n=%d)", len(matches), m.subject, m.metricName, m.n)

	if m.showReport {
		m.renderReport()
	}
}

func (m *MatchViewModel) renderReport() {
	r, err := report.Build(m.table, m.datasetName, m.subject, m.n, m.metricName)
	if err != nil {
		m.err = err
		return
	}
	m.viewport.SetContent(report.Render(r.Markdown(), m.width-10))
	m.viewport.GotoTop()
}

func (m MatchViewModel) settingsChanged() tea.Cmd {
	metric, n := m.metricName, m.n
	return func() tea.Msg {
		return SettingsChanged{Metric: metric, N: n}
	}
}

func (m MatchViewModel) Init() tea.Cmd {
	return nil
}

func (m MatchViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 6
		m.viewport.Height = reportHeight(msg.Height)
		m.picker.UpdateSize(msg.Width, msg.Height)
		if m.showReport {
			m.renderReport()
		}
		return m, nil

	case MetricSelected:
		m.picker.Hide()
		if msg.Name == m.metricName {
			return m, nil
		}
		m.metricName = msg.Name
		m.refresh()
		return m, m.settingsChanged()

	case MetricPickerClosed:
		m.picker.Hide()
		return m, nil

	case tea.KeyMsg:
		if m.picker.IsVisible() {
			return m, m.picker.UpdatePicker(msg)
		}

		switch {
		case key.Matches(msg, keyBack):
			if m.showReport {
				m.showReport = false
				return m, nil
			}
			return m, func() tea.Msg {
				return BackToSubjects{}
			}

		case key.Matches(msg, keyPicker):
			m.picker.Show(m.metricName)
			return m, nil

		case key.Matches(msg, keyMore):
			m.n++
			m.refresh()
			return m, m.settingsChanged()

		case key.Matches(msg, keyFewer):
			if m.n == 0 {
				return m, nil
			}
			m.n--
			m.refresh()
			return m, m.settingsChanged()

		case key.Matches(msg, keyReport):
			m.showReport = !m.showReport
			if m.showReport {
				m.renderReport()
			}
			return m, nil

		case m.showReport && (key.Matches(msg, keyScrollUp) || key.Matches(msg, keyScrollDn)):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	if m.showReport {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m MatchViewModel) View() string {
	title := TitleStyle.Render(fmt.Sprintf("Matches for %s", m.subject))
	subtitle := SubtitleStyle.Render(fmt.Sprintf("metric: %s • n: %d • dataset: %s", m.metricName, m.n, m.datasetName))
	header := lipgloss.NewStyle().Padding(1, 0, 1, 1).Render(lipgloss.JoinVertical(lipgloss.Left, title, subtitle))

	var body string
	switch {
	case m.err != nil:
		body = RenderError(m.err.Error())
	case m.showReport:
		body = RenderViewportWithBorder(m.viewport.View()) + "\n" + m.renderScrollIndicator()
	default:
		body = m.renderTable()
	}

	helpText := "m: Metric • +/-: Count • r: Report • Esc: Back • Ctrl+C: Exit"
	if m.showReport {
		helpText = "↑/↓: Scroll • r/Esc: Close report • m: Metric • +/-: Count • Ctrl+C: Exit"
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		helpStyle.Render(helpText),
	)

	return m.picker.RenderOverlay(view)
}

func (m MatchViewModel) renderTable() string {
	if len(m.matches) == 0 {
		if m.n == 0 {
			return statusBarStyle.Render("n is 0; press + to show matches")
		}
		return statusBarStyle.Render("No other subjects to compare against")
	}

	rows := make([][]string, len(m.matches))
	for i, match := range m.matches {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			string(match.Subject),
			strconv.FormatFloat(match.Score, 'f', 4, 64),
			strconv.Itoa(m.shared[i]),
		}
	}

	shared := m.shared
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(TableBorderColor)).
		Headers("#", "Subject", "Score", "Shared").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case row >= 0 && row < len(shared) && shared[row] == 0:
				return TableZeroCellStyle
			case row == 0:
				return TableBestCellStyle
			default:
				return TableCellStyle
			}
		})

	return lipgloss.NewStyle().PaddingLeft(1).Render(t.Render())
}

func (m MatchViewModel) renderScrollIndicator() string {
	if m.viewport.TotalLineCount() <= m.viewport.Height {
		return ""
	}
	return ScrollIndicatorStyle.Render(fmt.Sprintf(" %3.f%%", m.viewport.ScrollPercent()*100))
}

// Matches returns the ranking currently on screen.
func (m MatchViewModel) Matches() rank.Matches {
	return m.matches
}

// Metric returns the active metric name.
func (m MatchViewModel) Metric() string {
	return m.metricName
}

// N returns the requested number of matches.
func (m MatchViewModel) N() int {
	return m.n
}
