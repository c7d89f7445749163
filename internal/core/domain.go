package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"

	PLN Currency = "PLN"
	EUR Currency = "EUR"
	USD Currency = "USD"

	DefaultCurrency = PLN

	// SettingsKey is the primary key of the single settings row.
	SettingsKey = "singleton"

	MaxCategoryNameLength = 100
	MaxDescriptionLength  = 500

	dateLayout = "2006-01-02"
)

type (
	TransactionType string

	Currency string

	// Date is a calendar date without time-of-day, always normalized to UTC midnight.
	Date struct {
		time.Time
	}

	Category struct {
		ID        string
		Name      string
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	Transaction struct {
		ID          string
		Amount      decimal.Decimal
		Type        TransactionType
		Date        Date
		Description string
		CategoryID  *string
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// CategoryRef is the resolved category of a listed transaction.
	CategoryRef struct {
		ID   string
		Name string
	}

	// TransactionView is a transaction enriched with its category. A nil
	// Category means the transaction has no category.
	TransactionView struct {
		Transaction
		Category *CategoryRef
	}

	Settings struct {
		ID       string
		Currency Currency
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidCurrency    = errors.New("invalid currency")
	ErrInvalidDate        = errors.New("invalid date")
	ErrFutureDate         = errors.New("date cannot be in the future")
	ErrEmptyCategoryName  = errors.New("empty category name")
	ErrCategoryNameLength = errors.New("category name too long")
	ErrDescriptionTooLong = errors.New("description too long")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateCategory  = errors.New("category name already exists")
	ErrUnknownCategory    = errors.New("category does not exist")
)

// ValidationError reports a rejected field at the write boundary.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a field error wrapping the sentinel err.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

// ParseTransactionType accepts the type case-insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("%w: %q", err, s)
	}
	return t, nil
}

func (c Currency) Validate() error {
	switch c {
	case PLN, EUR, USD:
		return nil
	default:
		return ErrInvalidCurrency
	}
}

// Currencies lists the supported display currencies.
func Currencies() []Currency {
	return []Currency{PLN, EUR, USD}
}

// ParseCurrency accepts the code case-insensitively.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if err := c.Validate(); err != nil {
		return "", fmt.Errorf("%w: %q", err, s)
	}
	return c, nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time-of-day of t, keeping t's own calendar fields.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// String returns the YYYY-MM-DD form, which is also the storage form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MonthKey returns the YYYY-MM bucket of the date.
func (d Date) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MarshalJSON shadows the promoted time.Time encoding.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON leaves d untouched on null.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	s := strings.Trim(string(b), `"`)
	return d.UnmarshalText([]byte(s))
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate checks the write-boundary rules. today is the caller's local date.
func (t Transaction) Validate(today Date) error {
	if !t.Amount.IsPositive() {
		return NewValidationError("amount", "amount must be greater than 0", ErrInvalidAmount)
	}
	if err := t.Type.Validate(); err != nil {
		return NewValidationError("type", "type must be INCOME or EXPENSE", err)
	}
	if err := t.Date.Validate(); err != nil {
		return NewValidationError("date", "date is required", err)
	}
	if t.Date.After(today.Time) {
		return NewValidationError("date", "date cannot be in the future", ErrFutureDate)
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return NewValidationError("description",
			fmt.Sprintf("description cannot exceed %d characters", MaxDescriptionLength), ErrDescriptionTooLong)
	}
	return nil
}

// ValidateCategoryName trims name and checks the length rules.
func ValidateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewValidationError("name", "category name is required", ErrEmptyCategoryName)
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return "", NewValidationError("name",
			fmt.Sprintf("name cannot exceed %d characters", MaxCategoryNameLength), ErrCategoryNameLength)
	}
	return name, nil
}
