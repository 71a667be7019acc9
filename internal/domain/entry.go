package domain

import (
	"time"
)

// EntryType marks an entry as money coming in or going out.
type EntryType string

const (
	TypeIncome  EntryType = "Income"
	TypeExpense EntryType = "Expense"
)

// DefaultAccount is used in aggregate views when a record carries no account label.
const DefaultAccount = "Other"

// RawRecord is one row as returned by the record store, before type
// derivation or classification. Payment and Deposit default to zero when
// the source field is absent. Date is the zero time when the record has
// no date set.
type RawRecord struct {
	ID             string
	Date           time.Time
	Description    string
	Payment        float64
	Deposit        float64
	Account        string
	StoredCategory string // category select already present in the store, may be empty
}

// Entry is the canonical ledger entry shape consumed by every aggregation.
// Values are recomputed fresh per request; nothing here persists.
type Entry struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Payment     float64   `json:"payment"`
	Deposit     float64   `json:"deposit"`
	Amount      float64   `json:"amount"`
	Type        EntryType `json:"type"`
	Account     string    `json:"account"`
	Category    string    `json:"category"`
}

// Normalize maps a raw record into the canonical entry shape and derives
// type and signed magnitude. An entry is Income only when the deposit is
// positive and the payment is empty; every other combination, including
// both fields set, is an Expense carried at the payment amount.
// Category is left empty here; classification is a separate pass so
// callers can skip it for account-only aggregations.
func Normalize(r RawRecord) Entry {
	e := Entry{
		ID:          r.ID,
		Date:        r.Date,
		Description: r.Description,
		Payment:     r.Payment,
		Deposit:     r.Deposit,
		Account:     r.Account,
	}

	if r.Deposit > 0 && r.Payment == 0 {
		e.Type = TypeIncome
		e.Amount = r.Deposit
	} else {
		e.Type = TypeExpense
		e.Amount = r.Payment
	}

	return e
}

// WithCategory returns a copy of the entry with the category attached.
func (e Entry) WithCategory(label string) Entry {
	e.Category = label
	return e
}

// IsIncome reports whether the entry was derived as income.
func (e Entry) IsIncome() bool {
	return e.Type == TypeIncome
}

// HasDate reports whether the source record carried a calendar date.
func (e Entry) HasDate() bool {
	return !e.Date.IsZero()
}

// DateKey returns the calendar date in YYYY-MM-DD form, or the empty
// string for dateless entries.
func (e Entry) DateKey() string {
	if e.Date.IsZero() {
		return ""
	}
	return e.Date.Format("2006-01-02")
}
