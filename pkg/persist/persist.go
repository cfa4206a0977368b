package persist

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/td0m/chorelist/pkg/task"
)

// DefaultDebounce is how long the repo waits after a mutation before
// writing, so bursts of edits coalesce into one save.
const DefaultDebounce = 500 * time.Millisecond

// Repo owns one task set. It serializes every read and mutation behind
// a single lock, debounces writes to the backing file, and hosts the
// backup import/export entry points. The set itself has no locking; all
// coordination happens here.
type Repo struct {
	mu  sync.Mutex
	set *task.Set

	file     string
	debounce time.Duration
	timer    *time.Timer
	dirty    bool
}

// Open loads the set from file, bootstrapping an empty one if the file
// does not exist yet.
func Open(file string) (*Repo, error) {
	r := &Repo{
		file:     file,
		debounce: DefaultDebounce,
		set:      task.NewSet(),
	}
	bs, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return r, r.save()
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bs, r.set); err != nil {
		return nil, err
	}
	return r, nil
}

// SetDebounce changes the save delay. Zero writes on every mutation.
func (r *Repo) SetDebounce(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debounce = d
}

// View runs f with read access to the set. f must not retain the set.
func (r *Repo) View(f func(*task.Set)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f(r.set)
}

// Mutate runs f with exclusive access to the set and schedules a save.
func (r *Repo) Mutate(f func(*task.Set)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f(r.set)
	r.scheduleSave()
}

// Snapshot returns a deep copy, safe to use as a merge operand or to
// render from while the repo keeps changing.
func (r *Repo) Snapshot() *task.Set {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.set.Copy()
}

// Flush writes any pending state out immediately.
func (r *Repo) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked()
}

// Close flushes and stops the debounce timer.
func (r *Repo) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	return r.flushLocked()
}

// Export writes the current set to path in the backup format.
func (r *Repo) Export(path string) error {
	r.mu.Lock()
	bs, err := json.MarshalIndent(r.set, "", "  ")
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(path, bs, 0600)
}

// ImportReplace swaps the live set for the decoded backup wholesale.
// A backup that fails to decode leaves the live set untouched.
func (r *Repo) ImportReplace(path string) error {
	loaded, err := load(path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set = loaded
	r.scheduleSave()
	return nil
}

// ImportMerge merges the decoded backup into the live set.
func (r *Repo) ImportMerge(path string) error {
	loaded, err := load(path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set.UpdateFrom(loaded)
	r.scheduleSave()
	return nil
}

func load(path string) (*task.Set, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := task.NewSet()
	if err := json.Unmarshal(bs, s); err != nil {
		return nil, err
	}
	return s, nil
}

// scheduleSave marks the set dirty and (re)arms the debounce timer.
// Callers hold the lock.
func (r *Repo) scheduleSave() {
	r.dirty = true
	if r.debounce == 0 {
		if err := r.save(); err == nil {
			r.dirty = false
		}
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, func() {
		// best effort; Close/Flush report errors synchronously
		_ = r.Flush()
	})
}

func (r *Repo) flushLocked() error {
	if !r.dirty {
		return nil
	}
	if err := r.save(); err != nil {
		return err
	}
	r.dirty = false
	return nil
}

// save writes through a temp file so a crash mid-write cannot truncate
// the only copy. Callers hold the lock.
func (r *Repo) save() error {
	bs, err := json.MarshalIndent(r.set, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.file + ".tmp"
	if err := os.WriteFile(tmp, bs, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, r.file)
}
