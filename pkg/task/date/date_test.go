package date

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestTime_RoundTrip(t *testing.T) {
	is := is.New(t)

	instants := []time.Time{
		time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, time.January, 1, 0, 0, 1, 0, time.UTC),
		time.Date(2026, time.August, 31, 13, 37, 42, 0, time.UTC),
		time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1901, time.June, 15, 23, 59, 59, 0, time.UTC),
		time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
	for _, in := range instants {
		is.Equal(TimeOf(in).AsTime(), in)
	}
}

func TestTime_Epoch(t *testing.T) {
	is := is.New(t)
	is.Equal(TimeOf(time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)), Time(0))
	is.Equal(TimeOf(time.Date(2021, time.January, 1, 0, 1, 0, 0, time.UTC)), Time(60))
	is.True(Time(1).After(Time(0)))
	is.True(!Time(0).After(Time(0)))
}

func TestDay_RoundTrip(t *testing.T) {
	is := is.New(t)

	dates := [][3]int{
		{2021, 1, 1},
		{2021, 1, 2},
		{2020, 12, 31}, // before the epoch
		{1970, 1, 1},
		{2026, 8, 31},
		{2400, 2, 29},
	}
	for _, d := range dates {
		day := NewDay(d[0], time.Month(d[1]), d[2])
		y, m, dd := day.Date()
		is.Equal([3]int{y, int(m), dd}, d)
	}
}

func TestDay_Epoch(t *testing.T) {
	is := is.New(t)
	is.Equal(NewDay(2021, time.January, 1), Day(0))
	is.Equal(NewDay(2021, time.January, 2), Day(1))
	is.Equal(NewDay(2020, time.December, 31), Day(-1))
}

func TestDay_OfInstant(t *testing.T) {
	is := is.New(t)
	// any instant within the day maps to that day, including pre-epoch ones
	is.Equal(DayOf(time.Date(2021, time.January, 1, 23, 59, 59, 0, time.UTC)), Day(0))
	is.Equal(DayOf(time.Date(2020, time.December, 31, 23, 59, 59, 0, time.UTC)), Day(-1))
	is.Equal(DayOf(time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC)), Day(-1))
}

func TestDay_Millis(t *testing.T) {
	is := is.New(t)

	d := NewDay(2026, time.August, 31)
	is.Equal(DayOfMillis(d.Millis()), d)
	// mid-day millis still land on the same day
	is.Equal(DayOfMillis(d.Millis()+12*60*60*1000), d)
	is.Equal(DayOfMillis(d.Millis()-1), d.Add(-1))
}

func TestDay_Arithmetic(t *testing.T) {
	is := is.New(t)

	d := NewDay(2021, time.March, 1)
	is.Equal(d.Add(7), NewDay(2021, time.March, 8))
	is.Equal(d.Add(-1), NewDay(2021, time.February, 28))
	is.Equal(NewDay(2021, time.March, 8).DaysAfter(d), 7)
	is.Equal(d.DaysAfter(NewDay(2021, time.March, 8)), -7)
}

func TestManualClock(t *testing.T) {
	is := is.New(t)

	c := NewManual(100)
	is.Equal(c.Now(), Time(100))
	c.Advance(60)
	is.Equal(c.Now(), Time(160))
	c.Set(5)
	is.Equal(c.Now(), Time(5))
}

func TestSystemClock(t *testing.T) {
	is := is.New(t)
	now := System.Now()
	is.True(now > 0) // we are past 2021
}
