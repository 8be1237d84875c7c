// Package common holds the shared primitive types used across the acquisition
// engine: identifiers, nullable-number helpers for partial listing data, and
// the rounding rules applied to monetary outputs.
package common

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// ID is a string alias for UUID v4.
type ID string

// NewID returns a freshly generated ID.
func NewID() ID {
	return ID(uuid.New().String())
}

// Validate checks if the ID is a valid UUID.
func (id ID) Validate() error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}
	return nil
}

func (id ID) String() string { return string(id) }

// ─────────────────────────────────────────────────────────────────────────────
// Nullable-number helpers
//
// Listing data arrives with most numeric fields unknown.  Absent values are
// carried as nil pointers end to end; a nil never coerces to zero because a
// zero revenue and an unknown revenue are different facts.
// ─────────────────────────────────────────────────────────────────────────────

// Float64 returns a pointer to v.  Shorthand for building snapshots in tests
// and at ingestion boundaries.
func Float64(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Value dereferences p, returning 0 when p is nil.  Use only where the caller
// has already established presence; prefer explicit nil checks in rule code.
func Value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// IsPositive reports whether p is non-nil and strictly greater than zero.
// Most engine preconditions are phrased this way ("asking price > 0").
func IsPositive(p *float64) bool {
	return p != nil && *p > 0
}

// StringValue dereferences p, returning "" when p is nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ─────────────────────────────────────────────────────────────────────────────
// Monetary rounding
// ─────────────────────────────────────────────────────────────────────────────

// RoundCurrency rounds v to the nearest whole currency unit.  All inferred
// and derived monetary figures pass through here before leaving the engine.
func RoundCurrency(v float64) float64 {
	return math.Round(v)
}

// RoundCurrencyPtr rounds through a pointer, preserving nil.
func RoundCurrencyPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	r := math.Round(*p)
	return &r
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
