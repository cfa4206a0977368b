package dateinput

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/td0m/chorelist/pkg/task/date"
)

type multiplier struct {
	key   string
	value int
}

var multipliers = []multiplier{
	{"days", 1},
	{"weeks", 7},
	{"months", 30},
	{"years", 365},
}

// parseAgo parses "3 days ago", "2w ago" or a bare number of days and
// returns how many days back that is.
func parseAgo(s string) (int, error) {
	s = strings.TrimSuffix(s, "ago")
	s = strings.TrimSpace(s)
	var n int
	// parse quantity
	{
		i := 0
		for {
			if i >= len(s) {
				break
			}
			var err error
			n1, err := strconv.Atoi(s[:i+1])
			// first one can not fail
			if err != nil {
				if i == 0 {
					return 0, err
				} else {
					break
				}
			}
			n = n1
			i++
		}
		s = strings.TrimSpace(s[i:])
	}

	mult := 1
	if len(s) > 0 {
		mult = 0
		for _, m := range multipliers {
			end := min(len(m.key), len(s))
			if m.key[:end] == s {
				mult = m.value
				break
			}
		}
		if mult == 0 {
			return 0, errors.New("unexpected postfix")
		}
	}

	return n * mult, nil
}

var formats = []string{
	"_2",
	"_2/01",
	"_2/01/06",
	"_2/01/2006",
	"_2-01",
	"_2-01-06",
	"_2-01-2006",
	"2006-01-02",
	"Jan _2",
	"Jan _2 06",
	"Jan _2 2006",
	"January _2",
	"January _2 06",
	"January _2 2006",
	"_2 Jan",
	"_2 Jan 06",
	"_2 Jan 2006",
	"_2 January",
	"_2 January 06",
	"_2 January 2006",
}

func parseAnyFormat(s string) (time.Time, error) {
	for _, fmt := range formats {
		t, err := time.Parse(fmt, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("format not found")
}

// parseAbsolute parses a calendar date, filling a missing year or month
// from today. Done dates lie in the past, so a year-less date that would
// land in the future rolls back a year.
func parseAbsolute(s string, today date.Day) (date.Day, error) {
	t, err := parseAnyFormat(s)
	if err != nil {
		return 0, err
	}
	y, m, _ := today.Date()
	year, month := 0, 1
	yearless := t.Year() == 0
	if yearless {
		year = y
		if t.Month() == 1 {
			month = int(m)
		}
	}
	d := date.DayOf(t.AddDate(year, month-1, 0))
	if yearless && d.DaysAfter(today) > 0 {
		d = date.DayOf(d.AsTime().AddDate(-1, 0, 0))
	}
	return d, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
