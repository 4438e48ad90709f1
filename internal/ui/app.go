// Package ui is the interactive subject browser.
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"prefsim/internal/config"
	"prefsim/internal/logging"
	"prefsim/internal/prefs"
)

type appState int

const (
	stateSubjectList appState = iota
	stateMatchView
)

// Model switches between the subject list and a subject's matches.
type Model struct {
	state       appState
	table       prefs.Table
	datasetName string

	// Carried between match views
	metricName string
	n          int

	subjectList SubjectListModel
	matchView   MatchViewModel

	width  int
	height int
}

// NewModel builds the browser for a table. cfg supplies the starting metric
// and n; a nil cfg uses the defaults.
func NewModel(t prefs.Table, datasetName string, cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	m := Model{
		state:       stateSubjectList,
		table:       t,
		datasetName: datasetName,
		metricName:  cfg.MetricName(),
		n:           cfg.Ranking.N,
		width:       80,
		height:      24,
	}
	m.subjectList = NewSubjectListModel(t, datasetName, m.width, m.height)
	return m
}

// Run applies the configured theme and blocks until the user quits.
func Run(t prefs.Table, datasetName string, cfg *config.Config) error {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if !ApplyTheme(cfg.UI.Theme) {
		logging.Warn("Unknown theme %q, using %s", cfg.UI.Theme, DefaultTheme)
	}

	logging.Info("Starting browser with %d subjects from %s", len(t), datasetName)

	p := tea.NewProgram(NewModel(t, datasetName, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.Error("Browser exited with error: %v", err)
		return fmt.Errorf("error running browser: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	switch m.state {
	case stateSubjectList:
		return m.subjectList.Init()
	case stateMatchView:
		return m.matchView.Init()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Both screens keep their size so switching back does not reflow
		newList, listCmd := m.subjectList.Update(msg)
		m.subjectList = newList.(SubjectListModel)
		if m.state == stateMatchView {
			newView, viewCmd := m.matchView.Update(msg)
			m.matchView = newView.(MatchViewModel)
			return m, tea.Batch(listCmd, viewCmd)
		}
		return m, listCmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case SubjectSelected:
		logging.Debug("Opening matches for %q", msg.Subject)
		m.state = stateMatchView
		m.matchView = NewMatchViewModel(m.table, m.datasetName, msg.Subject, m.metricName, m.n, m.width, m.height)
		return m, m.matchView.Init()

	case SettingsChanged:
		m.metricName = msg.Metric
		m.n = msg.N
		return m, nil

	case BackToSubjects:
		m.state = stateSubjectList
		return m, nil
	}

	switch m.state {
	case stateSubjectList:
		newModel, cmd := m.subjectList.Update(msg)
		m.subjectList = newModel.(SubjectListModel)
		return m, cmd

	case stateMatchView:
		newModel, cmd := m.matchView.Update(msg)
		m.matchView = newModel.(MatchViewModel)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateSubjectList:
		return m.subjectList.View()
	case stateMatchView:
		return m.matchView.View()
	}

	return "Loading..."
}
