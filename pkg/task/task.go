package task

import (
	"github.com/td0m/chorelist/pkg/task/date"
)

// Task is a plain value. All merge logic lives on Set; a Task carries no
// identity beyond its ID, so two tasks with equal fields are
// interchangeable.
type Task struct {
	ID   ID
	Name string
	Done *date.Day // nil means never done
}

// WithName returns a copy of t with the name replaced.
func (t Task) WithName(name string) Task {
	t.Name = name
	return t
}

// WithDone returns a copy of t last done on the given day (nil clears it).
func (t Task) WithDone(d *date.Day) Task {
	t.Done = cloneDay(d)
	return t
}

// Equal compares all fields structurally.
func (t Task) Equal(o Task) bool {
	return t.ID == o.ID && t.Name == o.Name && dayEqual(t.Done, o.Done)
}

func dayEqual(a, b *date.Day) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneDay(d *date.Day) *date.Day {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func cloneTime(t *date.Time) *date.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
