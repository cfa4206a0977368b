package task

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/td0m/chorelist/pkg/task/date"
)

var (
	ErrBadID         = errors.New("invalid task id")
	ErrOrderMismatch = errors.New("order is not a permutation of the task ids")
	ErrStampMismatch = errors.New("updates do not match the task ids")
	ErrDeletedLive   = errors.New("id is both live and deleted")
	ErrMissingStamp  = errors.New("task is missing a required update stamp")
	ErrUnknownField  = errors.New("unknown update field")
)

type taskJSON struct {
	Name string    `json:"name"`
	Done *date.Day `json:"done"`
}

type setJSON struct {
	Tasks   map[ID]taskJSON             `json:"tasks"`
	Order   []ID                        `json:"order"`
	Updates map[ID]map[string]date.Time `json:"updates"`
	Deleted map[ID]date.Time            `json:"deleted"`
}

// MarshalJSON encodes the set into its file format. Map keys marshal
// sorted, so equal sets produce identical bytes.
func (s *Set) MarshalJSON() ([]byte, error) {
	out := setJSON{
		Tasks:   map[ID]taskJSON{},
		Order:   s.order,
		Updates: map[ID]map[string]date.Time{},
		Deleted: s.deleted,
	}
	if out.Order == nil {
		out.Order = []ID{}
	}
	for id, t := range s.tasks {
		out.Tasks[id] = taskJSON{Name: t.Name, Done: t.Done}
	}
	for id, st := range s.updates {
		m := map[string]date.Time{"name": st.Name, "loc": st.Loc}
		if st.Done != nil {
			m["done"] = *st.Done
		}
		out.Updates[id] = m
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes and validates the file format. Invalid input is
// rejected outright; the receiver is only written to once the whole
// document has been checked, so a bad backup can never corrupt a live
// set.
func (s *Set) UnmarshalJSON(bs []byte) error {
	var in setJSON
	if err := json.Unmarshal(bs, &in); err != nil {
		return err
	}

	tasks := map[ID]Task{}
	for id, t := range in.Tasks {
		if !id.Valid() {
			return fmt.Errorf("tasks: %w: %q", ErrBadID, id)
		}
		tasks[id] = Task{ID: id, Name: t.Name, Done: cloneDay(t.Done)}
	}

	order := make([]ID, 0, len(in.Order))
	seen := map[ID]bool{}
	for _, id := range in.Order {
		if _, ok := tasks[id]; !ok || seen[id] {
			return fmt.Errorf("%w: %q", ErrOrderMismatch, id)
		}
		seen[id] = true
		order = append(order, id)
	}
	if len(order) != len(tasks) {
		return ErrOrderMismatch
	}

	updates := map[ID]Stamps{}
	for id, fields := range in.Updates {
		if _, ok := tasks[id]; !ok {
			return fmt.Errorf("%w: %q", ErrStampMismatch, id)
		}
		var st Stamps
		for name, v := range fields {
			switch name {
			case "name":
				st.Name = v
			case "loc":
				st.Loc = v
			case "done":
				done := v
				st.Done = &done
			default:
				return fmt.Errorf("%w: %q on %q", ErrUnknownField, name, id)
			}
		}
		if _, ok := fields["name"]; !ok {
			return fmt.Errorf("%w: name on %q", ErrMissingStamp, id)
		}
		if _, ok := fields["loc"]; !ok {
			return fmt.Errorf("%w: loc on %q", ErrMissingStamp, id)
		}
		updates[id] = st
	}
	if len(updates) != len(tasks) {
		return ErrStampMismatch
	}

	deleted := map[ID]date.Time{}
	for id, t := range in.Deleted {
		if !id.Valid() {
			return fmt.Errorf("deleted: %w: %q", ErrBadID, id)
		}
		if _, ok := tasks[id]; ok {
			return fmt.Errorf("%w: %q", ErrDeletedLive, id)
		}
		deleted[id] = t
	}

	s.tasks = tasks
	s.order = order
	s.updates = updates
	s.deleted = deleted
	s.ensureDefaults()
	return nil
}
