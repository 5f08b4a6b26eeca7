package payment

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyClientID  = errors.New("payment must be associated with a client")
	ErrNegativeAmount = errors.New("payment amount cannot be negative")
	ErrEmptyConcept   = errors.New("payment concept cannot be empty")
	ErrZeroDate       = errors.New("payment date must be set")
)

// Payment records money received from a client.
type Payment struct {
	ID       string
	ClientID string
	Amount   float64
	Concept  string
	Date     time.Time
}

// Validate checks if the Payment has valid data.
// PRE: Payment struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Payment) Validate() error {
	if p.ClientID == "" {
		return ErrEmptyClientID
	}
	if p.Amount < 0 {
		return ErrNegativeAmount
	}
	if strings.TrimSpace(p.Concept) == "" {
		return ErrEmptyConcept
	}
	if p.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// RenewalConcept is the concept line written for membership renewals.
func RenewalConcept(membershipName string) string {
	return "Renewal: " + membershipName
}

// MonthlyTotal is revenue for one calendar month.
type MonthlyTotal struct {
	Month time.Month
	Total float64
}

// SumByMonth buckets payments into the twelve months of year.
// PRE: none
// POST: Returns exactly 12 entries, January first; payments outside year are ignored
func SumByMonth(payments []Payment, year int) []MonthlyTotal {
	out := make([]MonthlyTotal, 12)
	for i := range out {
		out[i].Month = time.Month(i + 1)
	}
	for _, p := range payments {
		if p.Date.Year() != year {
			continue
		}
		out[p.Date.Month()-1].Total += p.Amount
	}
	return out
}
