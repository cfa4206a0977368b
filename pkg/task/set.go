package task

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/td0m/chorelist/pkg/task/date"
)

// Stamps records when each mergeable field of a task was last written.
// Name and Loc are set at creation; Done only once the done date first
// changes. Fixed slots rather than a map keep the merge exhaustive over
// exactly these three fields.
type Stamps struct {
	Name date.Time
	Loc  date.Time
	Done *date.Time
}

// latest is the most recent write to any field of the task.
func (s Stamps) latest() date.Time {
	t := s.Name
	if s.Loc > t {
		t = s.Loc
	}
	if s.Done != nil && *s.Done > t {
		t = *s.Done
	}
	return t
}

func (s Stamps) clone() Stamps {
	s.Done = cloneTime(s.Done)
	return s
}

// Set holds the live tasks, their display order, per-field update stamps
// and deletion tombstones. It has no internal locking: exactly one
// writer may own it at a time, and UpdateFrom needs exclusive access to
// both operands.
type Set struct {
	tasks   map[ID]Task
	order   []ID
	updates map[ID]Stamps
	deleted map[ID]date.Time

	clock date.Clock
	rng   *rand.Rand
}

func NewSet() *Set {
	return &Set{
		tasks:   map[ID]Task{},
		updates: map[ID]Stamps{},
		deleted: map[ID]date.Time{},
		clock:   date.System,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ensureDefaults makes a set decoded into a zero value usable.
func (s *Set) ensureDefaults() {
	if s.clock == nil {
		s.clock = date.System
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
}

// SetClock replaces the time source used to stamp mutations.
func (s *Set) SetClock(c date.Clock) { s.clock = c }

// SetRand replaces the source used to draw new ids.
func (s *Set) SetRand(r *rand.Rand) { s.rng = r }

// Today is the current day according to the set's clock.
func (s *Set) Today() date.Day {
	return date.DayOf(s.clock.Now().AsTime())
}

// Len is the number of live tasks.
func (s *Set) Len() int { return len(s.tasks) }

// Get returns the live task with the given id.
func (s *Set) Get(id ID) (Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// All returns the live tasks in display order.
func (s *Set) All() []Task {
	out := make([]Task, len(s.order))
	for i, id := range s.order {
		out[i] = s.tasks[id]
	}
	return out
}

// Order returns a copy of the display order.
func (s *Set) Order() []ID {
	out := make([]ID, len(s.order))
	copy(out, s.order)
	return out
}

// NewTask creates a task with a fresh id, appends it to the order and
// stamps name and loc with now. Ids are never reused: generation retries
// against live and tombstoned ids alike.
func (s *Set) NewTask(name string) Task {
	id := RandomID(s.rng)
	for {
		_, live := s.tasks[id]
		_, dead := s.deleted[id]
		if !live && !dead {
			break
		}
		id = RandomID(s.rng)
	}
	now := s.clock.Now()
	t := Task{ID: id, Name: name}
	s.tasks[id] = t
	s.order = append(s.order, id)
	s.updates[id] = Stamps{Name: now, Loc: now}
	return t
}

// Update replaces the stored task with t, stamping name/done only for
// fields that actually changed. t.ID must be live.
func (s *Set) Update(t Task) {
	old, ok := s.tasks[t.ID]
	if !ok {
		panic(fmt.Sprintf("task: update of unknown id %q", t.ID))
	}
	now := s.clock.Now()
	st := s.updates[t.ID]
	if old.Name != t.Name {
		st.Name = now
	}
	if !dayEqual(old.Done, t.Done) {
		n := now
		st.Done = &n
	}
	t.Done = cloneDay(t.Done)
	s.tasks[t.ID] = t
	s.updates[t.ID] = st
}

// Delete removes the task and records a tombstone. Deleting an unknown
// id is a caller bug.
func (s *Set) Delete(id ID) {
	if _, ok := s.tasks[id]; !ok {
		panic(fmt.Sprintf("task: delete of unknown id %q", id))
	}
	delete(s.tasks, id)
	delete(s.updates, id)
	s.order = removeID(s.order, id)
	s.deleted[id] = s.clock.Now()
}

// MoveBefore places id immediately before the given task, or at the very
// end when before is empty. Loc is stamped even when the order does not
// change, so the move still claims its position against concurrent edits.
func (s *Set) MoveBefore(id, before ID) {
	s.requireLive(id)
	if before != "" {
		s.requireLive(before)
		s.requireAnchorNotSelf(id, before)
	}
	s.order = removeID(s.order, id)
	if before == "" {
		s.order = append(s.order, id)
	} else {
		s.order = insertID(s.order, indexOf(s.order, before), id)
	}
	s.stampLoc(id)
}

// MoveAfter places id immediately after the given task, or at the very
// start when after is empty.
func (s *Set) MoveAfter(id, after ID) {
	s.requireLive(id)
	if after != "" {
		s.requireLive(after)
		s.requireAnchorNotSelf(id, after)
	}
	s.order = removeID(s.order, id)
	if after == "" {
		s.order = insertID(s.order, 0, id)
	} else {
		s.order = insertID(s.order, indexOf(s.order, after)+1, id)
	}
	s.stampLoc(id)
}

func (s *Set) stampLoc(id ID) {
	st := s.updates[id]
	st.Loc = s.clock.Now()
	s.updates[id] = st
}

func (s *Set) requireLive(id ID) {
	if _, ok := s.tasks[id]; !ok {
		panic(fmt.Sprintf("task: move of unknown id %q", id))
	}
}

func (s *Set) requireAnchorNotSelf(id, anchor ID) {
	if id == anchor {
		panic(fmt.Sprintf("task: move of %q anchored on itself", id))
	}
}

// lastUpdate is the most recent write to any field of a live task.
func (s *Set) lastUpdate(id ID) date.Time {
	return s.updates[id].latest()
}

// Copy deep-copies the whole set. The copy shares no mutable state with
// the original and stamps future mutations with the system clock.
func (s *Set) Copy() *Set {
	c := NewSet()
	for id, t := range s.tasks {
		t.Done = cloneDay(t.Done)
		c.tasks[id] = t
	}
	c.order = make([]ID, len(s.order))
	copy(c.order, s.order)
	for id, st := range s.updates {
		c.updates[id] = st.clone()
	}
	for id, t := range s.deleted {
		c.deleted[id] = t
	}
	return c
}

// Clear drops everything, tombstones included. Test/reset only.
func (s *Set) Clear() {
	s.tasks = map[ID]Task{}
	s.order = nil
	s.updates = map[ID]Stamps{}
	s.deleted = map[ID]date.Time{}
}

// Equal compares live tasks, order, stamps and tombstones.
func (s *Set) Equal(o *Set) bool {
	if len(s.tasks) != len(o.tasks) || len(s.order) != len(o.order) ||
		len(s.deleted) != len(o.deleted) {
		return false
	}
	for i, id := range s.order {
		if o.order[i] != id {
			return false
		}
	}
	for id, t := range s.tasks {
		ot, ok := o.tasks[id]
		if !ok || !t.Equal(ot) {
			return false
		}
		st, ost := s.updates[id], o.updates[id]
		if st.Name != ost.Name || st.Loc != ost.Loc {
			return false
		}
		if (st.Done == nil) != (ost.Done == nil) {
			return false
		}
		if st.Done != nil && *st.Done != *ost.Done {
			return false
		}
	}
	for id, t := range s.deleted {
		if ot, ok := o.deleted[id]; !ok || ot != t {
			return false
		}
	}
	return true
}

func removeID(a []ID, id ID) []ID {
	for i, v := range a {
		if v == id {
			return append(a[:i], a[i+1:]...)
		}
	}
	return a
}

func insertID(a []ID, index int, value ID) []ID {
	if len(a) == index { // nil or empty slice or after last element
		return append(a, value)
	}
	a = append(a[:index+1], a[index:]...) // index < len(a)
	a[index] = value
	return a
}

func indexOf(a []ID, id ID) int {
	for i, v := range a {
		if v == id {
			return i
		}
	}
	panic(fmt.Sprintf("task: id %q missing from order", id))
}
