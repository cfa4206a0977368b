package task

import (
	"sort"

	"github.com/td0m/chorelist/pkg/task/date"
)

// UpdateFrom merges everything other knows into s. other is read-only
// and must not be mutated concurrently. The merge is commutative up to
// Equal and idempotent: field conflicts resolve last-writer-wins with a
// value-based tiebreak on equal stamps, deletions win ties against
// edits, and order conflicts resolve through mergedOrder.
func (s *Set) UpdateFrom(other *Set) {
	// The merged order depends on both sides' pristine order and loc
	// stamps, so it is computed before anything is mutated.
	ordersDiffer := !sameOrder(s.order, other.order)
	var merged []ID
	if ordersDiffer {
		merged = s.mergedOrder(other)
	}

	// Deletions. A tombstone beats any live copy whose latest edit is
	// not strictly newer than it.
	for id, theirStone := range other.deleted {
		if _, live := s.tasks[id]; !live {
			if ours, ok := s.deleted[id]; !ok || theirStone > ours {
				s.deleted[id] = theirStone
			}
			continue
		}
		if !s.lastUpdate(id).After(theirStone) {
			delete(s.tasks, id)
			delete(s.updates, id)
			s.order = removeID(s.order, id)
			s.deleted[id] = theirStone
		}
	}

	// Tasks.
	for id, theirs := range other.tasks {
		theirStamps := other.updates[id]
		if stone, dead := s.deleted[id]; dead {
			// Their copy survives our tombstone only if it was edited
			// after the deletion.
			if theirStamps.latest().After(stone) {
				delete(s.deleted, id)
				s.adopt(theirs, theirStamps)
			}
			continue
		}
		if _, live := s.tasks[id]; !live {
			s.adopt(theirs, theirStamps)
			continue
		}
		s.mergeFields(theirs, theirStamps)
	}

	// Order: the merged sequence, restricted to whatever survived.
	if ordersDiffer {
		s.order = s.filterLive(merged)
	}

	// Loc stamps only ever move forward, regardless of whose order won.
	for id := range s.tasks {
		if theirSt, ok := other.updates[id]; ok {
			st := s.updates[id]
			if theirSt.Loc > st.Loc {
				st.Loc = theirSt.Loc
				s.updates[id] = st
			}
		}
	}
}

// adopt takes over a foreign task and its stamps wholesale.
func (s *Set) adopt(t Task, st Stamps) {
	t.Done = cloneDay(t.Done)
	s.tasks[t.ID] = t
	s.updates[t.ID] = st.clone()
	s.order = append(s.order, t.ID)
}

// mergeFields resolves name and done independently, last writer wins.
// On an exact stamp tie the greater field value wins: an arbitrary but
// deterministic rule, the same on both sides, which is all that
// commutativity needs.
func (s *Set) mergeFields(theirs Task, theirStamps Stamps) {
	id := theirs.ID
	ours := s.tasks[id]
	st := s.updates[id]

	switch {
	case theirStamps.Name > st.Name:
		ours.Name = theirs.Name
		st.Name = theirStamps.Name
	case theirStamps.Name == st.Name && theirs.Name > ours.Name:
		ours.Name = theirs.Name
	}

	switch cmpDoneStamp(theirStamps.Done, st.Done) {
	case +1:
		ours.Done = cloneDay(theirs.Done)
		st.Done = cloneTime(theirStamps.Done)
	case 0:
		// nil sorts before any done day
		if cmpDone(theirs.Done, ours.Done) > 0 {
			ours.Done = cloneDay(theirs.Done)
		}
	}

	s.tasks[id] = ours
	s.updates[id] = st
}

// cmpDoneStamp orders optional done stamps; unset sorts before any set
// stamp, since an absent stamp means the field was never written.
func cmpDoneStamp(a, b *date.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return +1
	case *a > *b:
		return +1
	case *a < *b:
		return -1
	}
	return 0
}

func cmpDone(a, b *date.Day) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return +1
	case *a > *b:
		return +1
	case *a < *b:
		return -1
	}
	return 0
}

// mergedOrder combines both display orders without mutating either set.
// Each side's order acts as a queue holding only the items it has the
// fresher loc claim on; the front item with the newer claim is emitted
// first. Queues are kept reversed so the logical front pops off the back.
func (s *Set) mergedOrder(other *Set) []ID {
	ours := orderQueue(s, other)
	theirs := orderQueue(other, s)
	oursWinTies := s.winsTies(other)

	emitted := map[ID]bool{}
	out := make([]ID, 0, len(s.order)+len(other.order))
	emit := func(id ID) {
		emitted[id] = true
		out = append(out, id)
	}

	for {
		ours = trimEmitted(ours, emitted)
		theirs = trimEmitted(theirs, emitted)
		if len(ours) == 0 && len(theirs) == 0 {
			break
		}
		if len(ours) == 0 {
			emit(theirs[len(theirs)-1])
			theirs = theirs[:len(theirs)-1]
			continue
		}
		if len(theirs) == 0 {
			emit(ours[len(ours)-1])
			ours = ours[:len(ours)-1]
			continue
		}
		a := ours[len(ours)-1]
		b := theirs[len(theirs)-1]
		if a == b {
			emit(a)
			ours = ours[:len(ours)-1]
			theirs = theirs[:len(theirs)-1]
			continue
		}
		al := s.updates[a].Loc
		bl := other.updates[b].Loc
		switch {
		case al > bl:
			emit(a)
			ours = ours[:len(ours)-1]
		case bl > al:
			emit(b)
			theirs = theirs[:len(theirs)-1]
		case oursWinTies:
			emit(a)
			ours = ours[:len(ours)-1]
		default:
			emit(b)
			theirs = theirs[:len(theirs)-1]
		}
	}
	return out
}

// orderQueue is s.order reversed, keeping only ids for which other does
// not hold a strictly newer loc stamp.
func orderQueue(s, other *Set) []ID {
	q := make([]ID, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		id := s.order[i]
		if theirSt, ok := other.updates[id]; ok && theirSt.Loc > s.updates[id].Loc {
			continue
		}
		q = append(q, id)
	}
	return q
}

func trimEmitted(q []ID, emitted map[ID]bool) []ID {
	for len(q) > 0 && emitted[q[len(q)-1]] {
		q = q[:len(q)-1]
	}
	return q
}

// winsTies decides which side takes equal-stamp conflicts in the order
// merge: first by the descending multiset of all loc stamps, then by
// comparing the order sequences themselves. Arbitrary but consistent;
// both sides compute the same winner, which keeps the merge commutative.
// Do not try to make it fairer without re-checking that property.
func (s *Set) winsTies(other *Set) bool {
	a := allLocs(s)
	b := allLocs(other)
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	for i := 0; i < len(s.order) && i < len(other.order); i++ {
		if s.order[i] != other.order[i] {
			return s.order[i] > other.order[i]
		}
	}
	return len(s.order) >= len(other.order)
}

// allLocs returns every live loc stamp, newest first.
func allLocs(s *Set) []date.Time {
	out := make([]date.Time, 0, len(s.updates))
	for _, st := range s.updates {
		out = append(out, st.Loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

func (s *Set) filterLive(order []ID) []ID {
	out := make([]ID, 0, len(order))
	for _, id := range order {
		if _, ok := s.tasks[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func sameOrder(a, b []ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
