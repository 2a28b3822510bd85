// Package model defines the core domain types shared across the pipeline.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Transaction represents a single parsed sales transaction. It is treated
// as an immutable value once produced by the parser; the amount is always
// derived, never stored.
type Transaction struct {
	ID          string
	Date        string // YYYY-MM-DD, validated only where ordering needs it
	ProductID   string
	ProductName string
	CustomerID  string
	Region      string
	Quantity    int
	UnitPrice   float64
}

// Amount returns the transaction value, quantity times unit price.
func (t Transaction) Amount() float64 {
	return float64(t.Quantity) * t.UnitPrice
}

// IsValid reports whether the transaction passes all validity predicates:
// positive quantity and unit price, T/P/C identifier prefixes, and a
// non-empty region.
func (t Transaction) IsValid() bool {
	return t.Quantity > 0 &&
		t.UnitPrice > 0 &&
		strings.HasPrefix(t.ID, "T") &&
		strings.HasPrefix(t.ProductID, "P") &&
		strings.HasPrefix(t.CustomerID, "C") &&
		t.Region != ""
}

// CatalogKey extracts the numeric catalog key from the product identifier
// by concatenating every digit in order. "P100" yields 100, "PX1Y2"
// yields 12. An identifier with no digits has no key.
func (t Transaction) CatalogKey() (int, error) {
	var digits strings.Builder
	for _, r := range t.ProductID {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, fmt.Errorf("product id %q contains no digits", t.ProductID)
	}
	key, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, fmt.Errorf("product id %q: %w", t.ProductID, err)
	}
	return key, nil
}

// CatalogProduct holds the metadata the remote catalog exposes for a
// product. Rating is nil when the catalog omitted it.
type CatalogProduct struct {
	Rating   *float64
	Title    string
	Category string
	Brand    string
	ID       int
}

// EnrichedTransaction is a Transaction joined with catalog metadata.
// Enrichment never mutates the embedded transaction.
type EnrichedTransaction struct {
	Transaction
	APIRating   *float64
	APICategory string
	APIBrand    string
	APIMatch    bool
}
