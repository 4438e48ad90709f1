package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"prefsim/internal/prefs"
)

type SubjectListModel struct {
	list    list.Model
	dataset string
	width   int
	height  int
}

type subjectItem struct {
	subject prefs.SubjectID
	rated   int
}

func (i subjectItem) Title() string { return string(i.subject) }
func (i subjectItem) Description() string {
	if i.rated == 1 {
		return "1 rated item"
	}
	return fmt.Sprintf("%d rated items", i.rated)
}
func (i subjectItem) FilterValue() string { return string(i.subject) }

// SubjectSelected is sent when the user opens a subject's matches
type SubjectSelected struct {
	Subject prefs.SubjectID
}

func NewSubjectListModel(t prefs.Table, datasetName string, width, height int) SubjectListModel {
	subjects := t.Subjects()
	items := make([]list.Item, len(subjects))
	for i, s := range subjects {
		items[i] = subjectItem{subject: s, rated: len(t[s])}
	}

	l := list.New(items, CreateThemedDelegate(), width, height-4)
	l.Title = "Subjects"
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("subject", "subjects")
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	ConfigureListStyles(&l)

	// Only arrows and filter keys; quitting is handled by the app
	l.KeyMap.CursorUp = key.NewBinding(key.WithKeys("up", "k"))
	l.KeyMap.CursorDown = key.NewBinding(key.WithKeys("down", "j"))
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("right", "pgdown"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("left", "pgup"))
	l.KeyMap.GoToStart = key.NewBinding(key.WithKeys("home"))
	l.KeyMap.GoToEnd = key.NewBinding(key.WithKeys("end"))
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("/"))
	l.KeyMap.ClearFilter = key.NewBinding(key.WithKeys("esc"))
	l.KeyMap.CancelWhileFiltering = key.NewBinding(key.WithKeys("esc"))
	l.KeyMap.AcceptWhileFiltering = key.NewBinding(key.WithKeys("enter"))
	l.KeyMap.ShowFullHelp = key.NewBinding()
	l.KeyMap.CloseFullHelp = key.NewBinding()
	l.KeyMap.Quit = key.NewBinding()
	l.KeyMap.ForceQuit = key.NewBinding()

	return SubjectListModel{
		list:    l,
		dataset: datasetName,
		width:   width,
		height:  height,
	}
}

func (m SubjectListModel) Init() tea.Cmd {
	return nil
}

func (m SubjectListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// While typing a filter, enter belongs to the list
		if m.list.FilterState() == list.Filtering {
			break
		}
		if msg.String() == "enter" {
			selected, ok := m.list.SelectedItem().(subjectItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SubjectSelected{Subject: selected.subject}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m SubjectListModel) View() string {
	helpText := "↑/↓: Navigate • Enter: Matches • /: Filter • Ctrl+C: Exit"

	return lipgloss.JoinVertical(lipgloss.Left,
		m.list.View(),
		statusBarStyle.Render("Dataset: "+m.dataset),
		helpStyle.Render(helpText),
	)
}

// Selected returns the highlighted subject, if any.
func (m SubjectListModel) Selected() (prefs.SubjectID, bool) {
	item, ok := m.list.SelectedItem().(subjectItem)
	if !ok {
		return "", false
	}
	return item.subject, true
}
