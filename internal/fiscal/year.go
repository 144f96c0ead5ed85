// Package fiscal implements the Indian financial year convention
// (April 1 through March 31). All report components resolve dates
// through this package so the boundary behavior is defined in exactly
// one place.
package fiscal

import (
	"fmt"
	"time"
)

// Year is a financial year running April 1 of Start through
// March 31 of End. End is always Start+1.
type Year struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// YearOf returns the financial year containing t: dates in April or
// later belong to {year, year+1}, dates before April to {year-1, year}.
func YearOf(t time.Time) Year {
	if t.Month() >= time.April {
		return Year{Start: t.Year(), End: t.Year() + 1}
	}
	return Year{Start: t.Year() - 1, End: t.Year()}
}

// Current returns the financial year containing the current date.
func Current() Year {
	return YearOf(time.Now())
}

// Parse builds a Year from its starting calendar year.
func Parse(start int) Year {
	return Year{Start: start, End: start + 1}
}

// Contains reports whether t falls inside the financial year:
// April-December of the start year, or January-March of the end year.
func (y Year) Contains(t time.Time) bool {
	if t.Month() >= time.April {
		return t.Year() == y.Start
	}
	return t.Year() == y.End
}

// Begin returns April 1 00:00 UTC of the start year.
func (y Year) Begin() time.Time {
	return time.Date(y.Start, time.April, 1, 0, 0, 0, 0, time.UTC)
}

// EndExclusive returns April 1 00:00 UTC of the end year, the first
// instant outside the financial year.
func (y Year) EndExclusive() time.Time {
	return time.Date(y.End, time.April, 1, 0, 0, 0, 0, time.UTC)
}

// Label renders the conventional short form, e.g. "FY 2024-25".
func (y Year) Label() string {
	return fmt.Sprintf("FY %d-%02d", y.Start, y.End%100)
}
