package domain

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/pkg/datepkg"
)

// EntryKind tells deposits and withdrawals apart.
type EntryKind string

// Entry kinds.
const (
	EntryDeposit    EntryKind = "Deposit"
	EntryWithdrawal EntryKind = "Withdrawal"
)

// Valid reports whether k is a known entry kind.
func (k EntryKind) Valid() bool {
	return k == EntryDeposit || k == EntryWithdrawal
}

// NoMovements is rendered in place of an empty history.
const NoMovements = "No movements recorded."

// Entry holds a single balance change of an account.
type Entry struct {
	Kind      EntryKind       `json:"kind"`
	Amount    decimal.Decimal `json:"amount"` // always positive
	Timestamp time.Time       `json:"timestamp"`
}

// String formats the entry as a statement line.
func (e Entry) String() string {
	return fmt.Sprintf("%s (%s): %s", e.Kind, datepkg.FormatTimestamp(e.Timestamp), e.Amount.StringFixed(2))
}

// History is the append-only, insertion ordered ledger of an account.
type History struct {
	entries []Entry
}

// NewHistory returns a history holding a copy of entries.
func NewHistory(entries ...Entry) *History {
	return &History{entries: slices.Clone(entries)}
}

// Record appends the entry. Callers validate the entry beforehand.
func (h *History) Record(e Entry) {
	h.entries = append(h.entries, e)
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the recorded entries in insertion order.
func (h *History) Entries() []Entry {
	return slices.Clone(h.entries)
}

// Render returns the formatted statement lines in insertion order.
// The sequence is computed on iteration and can be ranged over any number of times.
// An empty history yields the single NoMovements line.
func (h *History) Render() iter.Seq[string] {
	return func(yield func(string) bool) {
		if len(h.entries) == 0 {
			yield(NoMovements)
			return
		}

		for _, e := range h.entries {
			if !yield(e.String()) {
				return
			}
		}
	}
}

func (h *History) truncate(n int) {
	if n < len(h.entries) {
		h.entries = h.entries[:n]
	}
}
