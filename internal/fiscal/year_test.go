package fiscal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestYearOf(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want Year
	}{
		{"april first day", date(2024, time.April, 1), Year{2024, 2025}},
		{"march last day", date(2024, time.March, 31), Year{2023, 2024}},
		{"mid year", date(2024, time.October, 15), Year{2024, 2025}},
		{"january", date(2025, time.January, 10), Year{2024, 2025}},
		{"december", date(2024, time.December, 31), Year{2024, 2025}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, YearOf(tt.date))
		})
	}
}

// March 31 and April 1 of the same calendar year must land in two
// different financial years.
func TestYearBoundary(t *testing.T) {
	mar31 := YearOf(date(2024, time.March, 31))
	apr1 := YearOf(date(2024, time.April, 1))

	assert.NotEqual(t, mar31, apr1)
	assert.Equal(t, Year{2023, 2024}, mar31)
	assert.Equal(t, Year{2024, 2025}, apr1)
}

func TestContains(t *testing.T) {
	fy := Parse(2024) // Apr 2024 - Mar 2025

	assert.True(t, fy.Contains(date(2024, time.April, 1)))
	assert.True(t, fy.Contains(date(2024, time.December, 25)))
	assert.True(t, fy.Contains(date(2025, time.March, 31)))
	assert.False(t, fy.Contains(date(2024, time.March, 31)))
	assert.False(t, fy.Contains(date(2025, time.April, 1)))
	assert.False(t, fy.Contains(date(2023, time.October, 1)))
}

func TestContainsMatchesWindow(t *testing.T) {
	fy := Parse(2023)

	for d := fy.Begin(); d.Before(fy.EndExclusive()); d = d.AddDate(0, 1, 0) {
		assert.True(t, fy.Contains(d), "expected %s inside %s", d, fy.Label())
	}
	assert.False(t, fy.Contains(fy.EndExclusive()))
	assert.False(t, fy.Contains(fy.Begin().AddDate(0, 0, -1)))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "FY 2024-25", Parse(2024).Label())
	assert.Equal(t, "FY 1999-00", Parse(1999).Label())
}
