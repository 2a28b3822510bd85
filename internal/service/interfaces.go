// Package service defines the interfaces and shared types the command
// layer wires together.
package service

import (
	"context"

	"github.com/jmcallister/salescope/internal/model"
)

// FilterOptions holds the optional constraints applied to the valid set.
// A nil amount bound means the bound is not set; a set bound is enforced
// inclusively even when it is zero. An empty region means no region
// constraint.
type FilterOptions struct {
	MinAmount *float64
	MaxAmount *float64
	Region    string
}

// FilterSummary records where each input transaction ended up.
type FilterSummary struct {
	TotalInput       int
	Invalid          int
	FilteredByRegion int
	FilteredByAmount int
	FinalCount       int
}

// DatasetStats carries informational statistics computed over all parsed
// transactions, valid and invalid alike. They are reported to the
// operator and never gate the pipeline.
type DatasetStats struct {
	Regions   []string
	MinAmount float64
	MaxAmount float64
	Observed  bool
}

// ProductFetcher fetches product metadata from the remote catalog.
type ProductFetcher interface {
	FetchProducts(ctx context.Context) ([]model.CatalogProduct, error)
}

// FilterPrompter collects filter options interactively.
type FilterPrompter interface {
	PromptFilters(ctx context.Context, stats DatasetStats) (FilterOptions, error)
}
