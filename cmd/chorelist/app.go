package main

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/td0m/chorelist/internal/ui"
	"github.com/td0m/chorelist/pkg/dateinput"
	"github.com/td0m/chorelist/pkg/persist"
	"github.com/td0m/chorelist/pkg/task"
	"github.com/td0m/chorelist/pkg/task/date"
)

const (
	headerHeight = 3
	footerHeight = 1
)

type mode int

const (
	modeNormal mode = iota
	modeRename
	modeNew
	modeDone
)

type app struct {
	mode mode

	viewport  viewport.Model
	nameinput textinput.Model
	doneinput dateinput.Model

	cursor  int
	visible []task.Task

	repo *persist.Repo
}

func newApp(repo *persist.Repo) *app {
	i := textinput.NewModel()
	i.Focus()
	i.Prompt = ""
	i.Width = 40

	a := &app{
		nameinput: i,
		doneinput: dateinput.NewModel(),
		viewport:  viewport.Model{},
		repo:      repo,
	}
	a.refresh()
	return a
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m *app) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m *app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		verticalMargins := headerHeight + footerHeight
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - verticalMargins
		m.setCursor(m.cursor) // make sure cursor is visible
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			check(m.repo.Close())
			return m, tea.Quit
		case tea.KeyEsc:
			m.mode = modeNormal
		default:
			cmd = m.keyUpdate(msg)
		}
	}
	m.viewport.SetContent(m.viewTasks())
	return m, cmd
}

// handle keys differently based on the current mode
func (m *app) keyUpdate(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case modeRename, modeNew:
		if msg.Type == tea.KeyEnter {
			name := m.nameinput.Value()
			if name != "" {
				m.repo.Mutate(func(s *task.Set) {
					if m.mode == modeNew {
						s.NewTask(name)
					} else {
						s.Update(m.atCursor().WithName(name))
					}
				})
			}
			m.mode = modeNormal
			m.refresh()
		} else {
			m.nameinput, cmd = m.nameinput.Update(msg)
		}
		m.nameinput.Width = len(m.nameinput.Value()) + 1
	case modeDone:
		if msg.Type == tea.KeyEnter {
			if d := m.doneinput.Value(); d != nil || m.doneinput.Empty() {
				m.repo.Mutate(func(s *task.Set) {
					s.Update(m.atCursor().WithDone(d))
				})
				m.mode = modeNormal
				m.refresh()
			}
		} else {
			m.doneinput, cmd = m.doneinput.Update(msg)
		}
	case modeNormal:
		switch msg.String() {
		case "q":
			check(m.repo.Close())
			return tea.Quit
		case "g":
			m.setCursor(0)
		case "G":
			m.setCursor(len(m.visible))
		case "ctrl+d":
			m.setCursor(m.cursor + 10)
		case "ctrl+u":
			m.setCursor(m.cursor - 10)
		case "j":
			m.setCursor(m.cursor + 1)
		case "k":
			m.setCursor(m.cursor - 1)
		case "o":
			m.mode = modeNew
			m.nameinput.SetValue("")
		case "i":
			if t, ok := m.taskAtCursor(); ok {
				m.mode = modeRename
				m.nameinput.SetValue(t.Name)
			}
		case "t":
			if t, ok := m.taskAtCursor(); ok {
				m.repo.Mutate(func(s *task.Set) {
					today := s.Today()
					s.Update(t.WithDone(&today))
				})
				m.refresh()
			}
		case "d":
			if t, ok := m.taskAtCursor(); ok {
				m.mode = modeDone
				m.doneinput.SetValue(t.Done)
			}
		case tea.KeyDelete.String():
			if t, ok := m.taskAtCursor(); ok {
				m.repo.Mutate(func(s *task.Set) { s.Delete(t.ID) })
				m.refresh()
				m.setCursor(m.cursor) // make sure cursor is visible
			}
		case "K":
			if t, ok := m.taskAtCursor(); ok && m.cursor > 0 {
				above := m.visible[m.cursor-1]
				m.repo.Mutate(func(s *task.Set) { s.MoveBefore(t.ID, above.ID) })
				m.refresh()
				m.setCursor(m.cursor - 1)
			}
		case "J":
			if t, ok := m.taskAtCursor(); ok && m.cursor < len(m.visible)-1 {
				below := m.visible[m.cursor+1]
				m.repo.Mutate(func(s *task.Set) { s.MoveAfter(t.ID, below.ID) })
				m.refresh()
				m.setCursor(m.cursor + 1)
			}
		}
	}
	return cmd
}

// refresh re-reads the visible tasks from the repo.
func (m *app) refresh() {
	m.visible = m.repo.Snapshot().All()
	m.setCursor(m.cursor)
}

func (m *app) atCursor() task.Task {
	t, ok := m.taskAtCursor()
	if !ok {
		panic("chorelist: cursor out of range")
	}
	return t
}

func (m *app) taskAtCursor() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return task.Task{}, false
	}
	return m.visible[m.cursor], true
}

func (m *app) setCursor(value int) {
	size := len(m.visible)
	m.cursor = clamp(value, 0, max(size-1, 0))
	if size == 0 {
		return
	}
	if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.YOffset = m.cursor - m.viewport.Height + 1
	}
	if m.cursor <= m.viewport.YOffset {
		m.viewport.YOffset = m.cursor
	}
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m *app) View() string {
	header := ui.TaskTitle.Render("chores") + "\n\n"
	footer := "\n"
	switch m.mode {
	case modeRename:
		footer += "rename: " + m.nameinput.View()
	case modeNew:
		footer += "new: " + m.nameinput.View()
	case modeDone:
		footer += m.doneinput.View()
	default:
		footer += lipgloss.NewStyle().Foreground(ui.Faded).
			Render("t done · d done on · o new · i rename · J/K move · del remove · q quit")
	}
	return header + m.viewport.View() + footer
}

func (m *app) viewTasks() string {
	today := date.DayOf(time.Now())
	s := ""
	for i, t := range m.visible {
		icon := " "
		if i == m.cursor {
			icon = ">"
		}
		done, style := "never", ui.DoneNever
		if t.Done != nil {
			daysAgo := today.DaysAfter(*t.Done)
			done = dateinput.Format(*t.Done, today)
			style = ui.DoneStyle(daysAgo)
		}
		s += ui.TaskIcon.Render(icon) +
			ui.TaskTitle.Render(t.Name) +
			ui.TaskDivider +
			style.Render(done) + "\n"
	}
	if len(m.visible) == 0 {
		s = lipgloss.NewStyle().Foreground(ui.Secondary).Render("nothing here yet, press o")
	}
	return s
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
