package core

import (
	"strings"
)

// Filter narrows a transaction query. Every field is optional and the
// supplied ones are combined with AND; the zero Filter matches everything.
type Filter struct {
	DateFrom   *Date // inclusive
	DateTo     *Date // inclusive
	Type       *TransactionType
	CategoryID *string
}

// IsEmpty reports whether the filter imposes no constraint.
func (f Filter) IsEmpty() bool {
	return f.DateFrom == nil && f.DateTo == nil && f.Type == nil && f.CategoryID == nil
}

// Matches evaluates the filter against one transaction in memory. It is the
// same conjunction the SQL store builds.
func (f Filter) Matches(t Transaction) bool {
	if f.DateFrom != nil && t.Date.Before(f.DateFrom.Time) {
		return false
	}
	if f.DateTo != nil && t.Date.After(f.DateTo.Time) {
		return false
	}
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.CategoryID != nil {
		if t.CategoryID == nil || *t.CategoryID != *f.CategoryID {
			return false
		}
	}
	return true
}

// Key returns a canonical representation, used as a log field.
func (f Filter) Key() string {
	parts := make([]string, 0, 4)
	if f.DateFrom != nil {
		parts = append(parts, "from="+f.DateFrom.String())
	}
	if f.DateTo != nil {
		parts = append(parts, "to="+f.DateTo.String())
	}
	if f.Type != nil {
		parts = append(parts, "type="+string(*f.Type))
	}
	if f.CategoryID != nil {
		parts = append(parts, "category="+*f.CategoryID)
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, "&")
}

// WithDateRange returns a copy of f bounded by [from, to].
func (f Filter) WithDateRange(from, to Date) Filter {
	f.DateFrom = &from
	f.DateTo = &to
	return f
}

// WithType returns a copy of f restricted to t.
func (f Filter) WithType(t TransactionType) Filter {
	f.Type = &t
	return f
}

// WithCategory returns a copy of f restricted to one category id.
func (f Filter) WithCategory(id string) Filter {
	f.CategoryID = &id
	return f
}
