package task

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/td0m/chorelist/pkg/task/date"
)

func TestCodec_RoundTrip(t *testing.T) {
	is := is.New(t)
	s, c := newTestSet()
	a := s.NewTask("water plants")
	c.Advance(60)
	b := s.NewTask("bins")
	c.Advance(60)
	day := date.NewDay(2021, time.May, 5)
	s.Update(a.WithDone(&day))
	c.Advance(60)
	s.MoveBefore(b.ID, a.ID)
	c.Advance(60)
	x := s.NewTask("short lived")
	s.Delete(x.ID)

	bs, err := json.Marshal(s)
	is.NoErr(err)

	var out Set
	is.NoErr(json.Unmarshal(bs, &out))
	is.True(out.Equal(s))
	checkInvariants(t, &out)
}

func TestCodec_RoundTripEmpty(t *testing.T) {
	is := is.New(t)
	s := NewSet()

	bs, err := json.Marshal(s)
	is.NoErr(err)

	var out Set
	is.NoErr(json.Unmarshal(bs, &out))
	is.True(out.Equal(s))
}

func TestCodec_Deterministic(t *testing.T) {
	is := is.New(t)
	s, _ := newTestSet()
	s.NewTask("a")
	s.NewTask("b")

	one, err := json.Marshal(s)
	is.NoErr(err)
	two, err := json.Marshal(s.Copy())
	is.NoErr(err)
	is.Equal(string(one), string(two))
}

func TestCodec_Decode(t *testing.T) {
	valid := `{
		"tasks":   {"abcdefg": {"name": "plants", "done": 120}},
		"order":   ["abcdefg"],
		"updates": {"abcdefg": {"name": 10, "loc": 10, "done": 20}},
		"deleted": {"gfedcba": 99}
	}`

	t.Run("valid input", func(t *testing.T) {
		is := is.New(t)
		var s Set
		is.NoErr(json.Unmarshal([]byte(valid), &s))
		got, ok := s.Get("abcdefg")
		is.True(ok)
		is.Equal(got.Name, "plants")
		is.Equal(*got.Done, date.Day(120))
		is.Equal(s.updates["abcdefg"], Stamps{Name: 10, Loc: 10, Done: timePtr(20)})
		is.Equal(s.deleted["gfedcba"], date.Time(99))
	})

	bad := []struct {
		name string
		in   string
		err  error
	}{
		{
			"invalid task id",
			`{"tasks": {"UPPER!!": {"name": "x", "done": null}},
			  "order": ["UPPER!!"],
			  "updates": {"UPPER!!": {"name": 1, "loc": 1}},
			  "deleted": {}}`,
			ErrBadID,
		},
		{
			"invalid deleted id",
			`{"tasks": {}, "order": [], "updates": {}, "deleted": {"nope": 1}}`,
			ErrBadID,
		},
		{
			"order references unknown id",
			`{"tasks": {}, "order": ["abcdefg"], "updates": {}, "deleted": {}}`,
			ErrOrderMismatch,
		},
		{
			"order misses a task",
			`{"tasks": {"abcdefg": {"name": "x", "done": null}},
			  "order": [],
			  "updates": {"abcdefg": {"name": 1, "loc": 1}},
			  "deleted": {}}`,
			ErrOrderMismatch,
		},
		{
			"order duplicates an id",
			`{"tasks": {"abcdefg": {"name": "x", "done": null}},
			  "order": ["abcdefg", "abcdefg"],
			  "updates": {"abcdefg": {"name": 1, "loc": 1}},
			  "deleted": {}}`,
			ErrOrderMismatch,
		},
		{
			"updates for unknown id",
			`{"tasks": {}, "order": [], "updates": {"abcdefg": {"name": 1, "loc": 1}}, "deleted": {}}`,
			ErrStampMismatch,
		},
		{
			"missing loc stamp",
			`{"tasks": {"abcdefg": {"name": "x", "done": null}},
			  "order": ["abcdefg"],
			  "updates": {"abcdefg": {"name": 1}},
			  "deleted": {}}`,
			ErrMissingStamp,
		},
		{
			"unknown stamp field",
			`{"tasks": {"abcdefg": {"name": "x", "done": null}},
			  "order": ["abcdefg"],
			  "updates": {"abcdefg": {"name": 1, "loc": 1, "created": 1}},
			  "deleted": {}}`,
			ErrUnknownField,
		},
		{
			"id both live and deleted",
			`{"tasks": {"abcdefg": {"name": "x", "done": null}},
			  "order": ["abcdefg"],
			  "updates": {"abcdefg": {"name": 1, "loc": 1}},
			  "deleted": {"abcdefg": 9}}`,
			ErrDeletedLive,
		},
	}
	for _, tc := range bad {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			is := is.New(t)
			var s Set
			err := json.Unmarshal([]byte(tc.in), &s)
			is.True(errors.Is(err, tc.err))
		})
	}
}

func TestCodec_DecodeFailureLeavesSetUntouched(t *testing.T) {
	is := is.New(t)
	s, _ := newTestSet()
	a := s.NewTask("keep me")
	before := s.Copy()

	err := json.Unmarshal([]byte(`{"tasks": {}, "order": ["abcdefg"], "updates": {}, "deleted": {}}`), s)
	is.True(err != nil)
	is.True(s.Equal(before))
	_, ok := s.Get(a.ID)
	is.True(ok)
}

func timePtr(t date.Time) *date.Time { return &t }
