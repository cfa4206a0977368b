package date

import (
	"time"
)

// All dates and timestamps in the task set count from a fixed app epoch
// rather than the unix epoch, so that serialized values stay small and
// an accidental zero value is an obviously-wrong date.
const epochUnix int64 = 1609459200 // 2021-01-01T00:00:00Z

const secondsPerDay int64 = 24 * 60 * 60

// Time is a number of seconds since the app epoch.
// It is only ever compared, never displayed.
type Time int64

// TimeOf converts an absolute instant to a Time, truncating sub-second
// precision.
func TimeOf(t time.Time) Time {
	return Time(t.Unix() - epochUnix)
}

// AsTime converts back to an absolute instant in UTC.
func (t Time) AsTime() time.Time {
	return time.Unix(int64(t)+epochUnix, 0).UTC()
}

// After reports whether t is strictly later than o.
func (t Time) After(o Time) bool {
	return t > o
}

// Day is a number of calendar days since the app epoch.
type Day int64

// DayOf returns the Day containing the given instant, interpreted in UTC.
func DayOf(t time.Time) Day {
	return Day(floorDiv(t.Unix()-epochUnix, secondsPerDay))
}

// NewDay builds a Day from a calendar date.
func NewDay(year int, month time.Month, day int) Day {
	return DayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Date returns the calendar date of d.
func (d Day) Date() (year int, month time.Month, day int) {
	return d.AsTime().Date()
}

// AsTime returns midnight UTC at the start of d.
func (d Day) AsTime() time.Time {
	return time.Unix(int64(d)*secondsPerDay+epochUnix, 0).UTC()
}

// Millis returns the unix millisecond timestamp of midnight UTC at the
// start of d, the representation date pickers tend to want.
func (d Day) Millis() int64 {
	return (int64(d)*secondsPerDay + epochUnix) * 1000
}

// DayOfMillis returns the Day containing the given unix millisecond
// timestamp, interpreted in UTC.
func DayOfMillis(ms int64) Day {
	return Day(floorDiv(floorDiv(ms, 1000)-epochUnix, secondsPerDay))
}

// Add returns the day n days after d (n may be negative).
func (d Day) Add(n int) Day {
	return d + Day(n)
}

// DaysAfter returns how many days d is after o (negative if before).
func (d Day) DaysAfter(o Day) int {
	return int(d - o)
}

func (d Day) String() string {
	return d.AsTime().Format("2006-01-02")
}

// floorDiv divides rounding towards negative infinity, so that instants
// before the epoch still land in the right day.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
