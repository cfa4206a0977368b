package persist

import (
	"os"
	"path"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/td0m/chorelist/pkg/task"
	"github.com/td0m/chorelist/pkg/task/date"
)

func tempFile(t *testing.T, name string) string {
	t.Helper()
	return path.Join(t.TempDir(), name)
}

func TestRepo_OpenBootstrapsEmptyFile(t *testing.T) {
	is := is.New(t)

	file := tempFile(t, "tasks.json")
	r, err := Open(file)
	is.NoErr(err)
	is.Equal(r.Snapshot().Len(), 0)

	_, err = os.Stat(file)
	is.NoErr(err)
}

func TestRepo_SaveLoad(t *testing.T) {
	is := is.New(t)

	file := tempFile(t, "tasks.json")
	r, err := Open(file)
	is.NoErr(err)
	r.SetDebounce(0)

	var created task.Task
	r.Mutate(func(s *task.Set) {
		created = s.NewTask("water plants")
		day := date.NewDay(2021, time.June, 1)
		s.Update(created.WithDone(&day))
	})
	before := r.Snapshot()
	is.NoErr(r.Close())

	r2, err := Open(file)
	is.NoErr(err)
	is.True(r2.Snapshot().Equal(before))
	got, ok := r2.Snapshot().Get(created.ID)
	is.True(ok)
	is.Equal(got.Name, "water plants")
}

func TestRepo_DebounceCoalesces(t *testing.T) {
	is := is.New(t)

	file := tempFile(t, "tasks.json")
	r, err := Open(file)
	is.NoErr(err)
	r.SetDebounce(150 * time.Millisecond)

	r.Mutate(func(s *task.Set) { s.NewTask("one") })
	r.Mutate(func(s *task.Set) { s.NewTask("two") })

	// nothing hit the disk yet
	loaded, err := Open(tempFileCopy(t, file))
	is.NoErr(err)
	is.Equal(loaded.Snapshot().Len(), 0)

	time.Sleep(500 * time.Millisecond)
	loaded, err = Open(tempFileCopy(t, file))
	is.NoErr(err)
	is.Equal(loaded.Snapshot().Len(), 2)
	is.NoErr(r.Close())
}

// tempFileCopy copies the file so Open reads a stable snapshot of it.
func tempFileCopy(t *testing.T, file string) string {
	t.Helper()
	is := is.New(t)
	bs, err := os.ReadFile(file)
	is.NoErr(err)
	out := tempFile(t, "copy.json")
	is.NoErr(os.WriteFile(out, bs, 0600))
	return out
}

func TestRepo_ExportImportReplace(t *testing.T) {
	is := is.New(t)

	r, err := Open(tempFile(t, "tasks.json"))
	is.NoErr(err)
	r.SetDebounce(0)
	r.Mutate(func(s *task.Set) { s.NewTask("original") })

	backup := tempFile(t, "backup.json")
	is.NoErr(r.Export(backup))

	r.Mutate(func(s *task.Set) { s.NewTask("added after backup") })
	is.Equal(r.Snapshot().Len(), 2)

	is.NoErr(r.ImportReplace(backup))
	is.Equal(r.Snapshot().Len(), 1)
}

func TestRepo_ImportMerge(t *testing.T) {
	is := is.New(t)

	r, err := Open(tempFile(t, "tasks.json"))
	is.NoErr(err)
	r.SetDebounce(0)
	r.Mutate(func(s *task.Set) { s.NewTask("mine") })

	other, err := Open(tempFile(t, "other.json"))
	is.NoErr(err)
	other.SetDebounce(0)
	other.Mutate(func(s *task.Set) { s.NewTask("theirs") })
	backup := tempFile(t, "backup.json")
	is.NoErr(other.Export(backup))

	is.NoErr(r.ImportMerge(backup))
	names := map[string]bool{}
	for _, tk := range r.Snapshot().All() {
		names[tk.Name] = true
	}
	is.Equal(names, map[string]bool{"mine": true, "theirs": true})
}

func TestRepo_ImportRejectsBadBackup(t *testing.T) {
	is := is.New(t)

	r, err := Open(tempFile(t, "tasks.json"))
	is.NoErr(err)
	r.SetDebounce(0)
	r.Mutate(func(s *task.Set) { s.NewTask("keep me") })
	before := r.Snapshot()

	bad := tempFile(t, "bad.json")
	is.NoErr(os.WriteFile(bad, []byte(`{"tasks": {}, "order": ["zzz"], "updates": {}, "deleted": {}}`), 0600))

	is.True(r.ImportMerge(bad) != nil)
	is.True(r.ImportReplace(bad) != nil)
	is.True(r.Snapshot().Equal(before))
}
