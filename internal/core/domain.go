package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar day layout used for record dates.
const DateLayout = "2006-01-02"

type (
	// Record is a single spending entry. Amount is always expressed in the
	// base currency; display conversions never touch it.
	Record struct {
		ID          *int64 // nil until persisted
		Date        string // ISO YYYY-MM-DD, kept verbatim
		Name        string
		Amount      decimal.Decimal
		Category    string // canonical category name after normalization
		Description string
		OwnerID     int64
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyName     = errors.New("empty name")
	ErrNotFound      = errors.New("record not found")
)

// NewID returns a pointer to id, for building persisted records.
func NewID(id int64) *int64 {
	return &id
}

// HasID reports whether the record has been persisted.
func (r Record) HasID() bool {
	return r.ID != nil
}

// IDValue returns the record ID or 0 when unset.
func (r Record) IDValue() int64 {
	if r.ID == nil {
		return 0
	}
	return *r.ID
}

// WithCategory returns a copy of the record carrying the given category.
func (r Record) WithCategory(category string) Record {
	r.Category = category
	return r
}

// ParseDate parses the record date. ok is false for anything that is not a
// valid ISO calendar day.
func (r Record) ParseDate() (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// MonthKey returns the first seven characters of the date string, YYYY-MM
// for well formed dates. No parsing is done: malformed dates group under
// whatever prefix they have, cut on a character boundary.
func (r Record) MonthKey() string {
	n := 0
	for i := range r.Date {
		if n == 7 {
			return r.Date[:i]
		}
		n++
	}
	return r.Date
}

// Validate checks a manually entered record before it is accepted at the API
// boundary. Aggregation never calls it.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if len(r.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if len(r.Description) > 500 {
		return errors.New("description too long (max 500 characters)")
	}
	if _, ok := r.ParseDate(); !ok {
		return ErrInvalidDate
	}
	return nil
}
