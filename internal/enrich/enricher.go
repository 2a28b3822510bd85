// Package enrich joins sales transactions to catalog metadata by the
// numeric key embedded in each product identifier.
package enrich

import (
	"math"

	"github.com/jmcallister/salescope/internal/model"
)

// Apply joins one transaction against the catalog mapping. On a hit the
// catalog fields are copied over and the match flag set; on a miss, or
// when the product id carries no numeric key, the enrichment fields stay
// empty. The source transaction is never modified.
func Apply(tx model.Transaction, mapping map[int]model.CatalogProduct) model.EnrichedTransaction {
	enriched := model.EnrichedTransaction{Transaction: tx}

	key, err := tx.CatalogKey()
	if err != nil {
		return enriched
	}
	product, ok := mapping[key]
	if !ok {
		return enriched
	}

	enriched.APICategory = product.Category
	enriched.APIBrand = product.Brand
	enriched.APIRating = product.Rating
	enriched.APIMatch = true
	return enriched
}

// All enriches every transaction in order.
func All(transactions []model.Transaction, mapping map[int]model.CatalogProduct) []model.EnrichedTransaction {
	enriched := make([]model.EnrichedTransaction, 0, len(transactions))
	for _, tx := range transactions {
		enriched = append(enriched, Apply(tx, mapping))
	}
	return enriched
}

// MatchRate returns the percentage of enriched transactions that found a
// catalog entry, rounded to two decimals. An empty set has a rate of 0.
func MatchRate(enriched []model.EnrichedTransaction) float64 {
	if len(enriched) == 0 {
		return 0
	}
	matched := 0
	for _, tx := range enriched {
		if tx.APIMatch {
			matched++
		}
	}
	return math.Round(float64(matched)/float64(len(enriched))*100*100) / 100
}

// Matched counts the transactions that found a catalog entry.
func Matched(enriched []model.EnrichedTransaction) int {
	matched := 0
	for _, tx := range enriched {
		if tx.APIMatch {
			matched++
		}
	}
	return matched
}
