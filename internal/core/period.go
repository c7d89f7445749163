package core

import (
	"errors"
	"fmt"
	"strings"
)

// PeriodPreset names a date range relative to today.
type PeriodPreset string

const (
	PeriodCurrentMonth  PeriodPreset = "current-month"
	PeriodPreviousMonth PeriodPreset = "previous-month"
	PeriodLast3Months   PeriodPreset = "last-3-months"
	PeriodLast6Months   PeriodPreset = "last-6-months"
	PeriodLast12Months  PeriodPreset = "last-12-months"
	PeriodCustom        PeriodPreset = "custom"
)

var ErrInvalidPeriod = errors.New("invalid period")

// ParsePeriodPreset accepts one of the preset names.
func ParsePeriodPreset(s string) (PeriodPreset, error) {
	p := PeriodPreset(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PeriodCurrentMonth, PeriodPreviousMonth, PeriodLast3Months,
		PeriodLast6Months, PeriodLast12Months, PeriodCustom:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
}

// Range resolves the preset against today. Rolling presets start on the first
// day of the month N-1 months back and end today; the month presets cover the
// whole calendar month. Custom yields no bounds: the caller supplies them.
func (p PeriodPreset) Range(today Date) (from, to *Date) {
	first := NewDate(today.Year(), int(today.Month()), 1)
	switch p {
	case PeriodCurrentMonth:
		last := lastOfMonth(first)
		return &first, &last
	case PeriodPreviousMonth:
		start := addMonths(first, -1)
		end := lastOfMonth(start)
		return &start, &end
	case PeriodLast3Months:
		return rolling(first, today, 3)
	case PeriodLast6Months:
		return rolling(first, today, 6)
	case PeriodLast12Months:
		return rolling(first, today, 12)
	}
	return nil, nil
}

// Apply returns a copy of f bounded by the preset's range. Custom and
// unknown presets leave f unchanged.
func (p PeriodPreset) Apply(f Filter, today Date) Filter {
	from, to := p.Range(today)
	if from == nil {
		return f
	}
	f.DateFrom, f.DateTo = from, to
	return f
}

func rolling(first, today Date, months int) (*Date, *Date) {
	start := addMonths(first, -(months - 1))
	end := today
	return &start, &end
}

// addMonths moves a first-of-month date by n months.
func addMonths(first Date, n int) Date {
	return Date{Time: first.AddDate(0, n, 0)}
}

func lastOfMonth(first Date) Date {
	return Date{Time: first.AddDate(0, 1, -1)}
}
