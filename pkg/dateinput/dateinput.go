package dateinput

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/td0m/chorelist/pkg/task/date"
)

var (
	indicator = lipgloss.NewStyle().Padding(0, 1).Bold(true)
	checkmark = indicator.Copy().
			Foreground(lipgloss.AdaptiveColor{Light: "#00ad3b", Dark: "#73F59F"}).
			Render("✓")

	cross = indicator.Copy().
		Foreground(lipgloss.AdaptiveColor{Light: "", Dark: "#FF5047"}).
		Render("✗")

	faded = lipgloss.AdaptiveColor{Light: "#666", Dark: "#999"}
)

// Model is a textinput that parses a "last done" date as you type.
type Model struct {
	i     textinput.Model
	value *date.Day
	today func() date.Day
}

func NewModel() Model {
	i := textinput.NewModel()
	i.Focus()
	i.CharLimit = 20
	i.Prompt = ""
	return Model{
		i:     i,
		today: func() date.Day { return date.DayOf(time.Now()) },
	}
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.i, cmd = m.i.Update(msg)
		m.value = ParseDay(m.i.Value(), m.today())
		return m, cmd
	}
	return m, nil
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m *Model) View() string {
	indicator := cross
	if m.i.Value() == "" {
		indicator = ""
	} else if m.value != nil {
		indicator = checkmark + " " + Format(*m.value, m.today())
	}
	prefix := "done"
	return lipgloss.NewStyle().Foreground(faded).Render(prefix+": ") + m.i.View() + "" + indicator
}

func (m *Model) Value() *date.Day {
	return m.value
}

// Empty reports whether nothing has been typed, which callers treat as
// "clear the done date".
func (m *Model) Empty() bool {
	return m.i.Value() == ""
}

func (m *Model) SetValue(d *date.Day) {
	m.value = d
	if d == nil {
		m.i.SetValue("")
		return
	}
	m.i.SetValue(d.String())
}

// ParseDay turns human input into a day no later than today, or nil if
// it cannot be read.
func ParseDay(s string, today date.Day) *date.Day {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return nil
	}
	for i, word := range []string{"today", "yesterday"} {
		end := min(len(s), len(word))
		if s == word[:end] {
			d := today.Add(-i)
			return &d
		}
	}
	for i := time.Sunday; i <= time.Saturday; i++ {
		word := strings.ToLower(i.String())
		end := min(len(s), len(word))
		if s == word[:end] {
			d := lastWeekday(today, i)
			return &d
		}
	}
	if back, err := parseAgo(s); err == nil {
		d := today.Add(-back)
		return &d
	}
	r := regexp.MustCompile(`([0-9])(st|nd|rd|th)`)
	s = string(r.ReplaceAll([]byte(s), []byte("$1")))
	if d, err := parseAbsolute(s, today); err == nil {
		return &d
	}
	return nil
}

// lastWeekday is the most recent day of that weekday, today included.
func lastWeekday(today date.Day, w time.Weekday) date.Day {
	diff := int(today.AsTime().Weekday() - w)
	if diff < 0 {
		diff += 7
	}
	return today.Add(-diff)
}

// Format renders a done day relative to today.
func Format(d date.Day, today date.Day) string {
	switch days := today.DaysAfter(d); {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 14:
		return strconv.Itoa(days) + " days ago"
	case days <= 31:
		return strconv.Itoa(days/7) + " weeks ago"
	default:
		postfix := ""
		months := days / 31
		if months > 1 {
			postfix = "s"
		}
		return strconv.Itoa(months) + " month" + postfix + " ago"
	}
}
