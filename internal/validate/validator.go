// Package validate classifies parsed transactions as valid or invalid
// and applies optional region and amount filters to the valid set.
package validate

import (
	"math"
	"sort"

	"github.com/jmcallister/salescope/internal/model"
	"github.com/jmcallister/salescope/internal/service"
)

// Result is the output of a validation-and-filter pass.
type Result struct {
	Filtered []model.Transaction
	Summary  service.FilterSummary
	Stats    service.DatasetStats
}

// Run performs the two-phase pass over parsed transactions.
//
// Phase 1 drops transactions failing any validity predicate and counts
// them. Dataset statistics (distinct regions, amount range) accumulate
// over every parsed transaction, valid or not; they inform the operator
// and never gate the pipeline.
//
// Phase 2 subsets the valid transactions by the given options without
// reordering them. A nil amount bound is disabled; a set bound is
// enforced inclusively even when zero.
func Run(transactions []model.Transaction, opts service.FilterOptions) Result {
	valid := make([]model.Transaction, 0, len(transactions))
	invalid := 0

	regions := make(map[string]struct{})
	minAmount := math.Inf(1)
	maxAmount := 0.0

	for _, tx := range transactions {
		amount := tx.Amount()
		regions[tx.Region] = struct{}{}
		minAmount = math.Min(minAmount, amount)
		maxAmount = math.Max(maxAmount, amount)

		if !tx.IsValid() {
			invalid++
			continue
		}
		valid = append(valid, tx)
	}

	filtered := make([]model.Transaction, 0, len(valid))
	byRegion := 0
	byAmount := 0

	for _, tx := range valid {
		amount := tx.Amount()

		if opts.Region != "" && tx.Region != opts.Region {
			byRegion++
			continue
		}
		if opts.MinAmount != nil && amount < *opts.MinAmount {
			byAmount++
			continue
		}
		if opts.MaxAmount != nil && amount > *opts.MaxAmount {
			byAmount++
			continue
		}

		filtered = append(filtered, tx)
	}

	return Result{
		Filtered: filtered,
		Summary: service.FilterSummary{
			TotalInput:       len(transactions),
			Invalid:          invalid,
			FilteredByRegion: byRegion,
			FilteredByAmount: byAmount,
			FinalCount:       len(filtered),
		},
		Stats: datasetStats(regions, minAmount, maxAmount, len(transactions) > 0),
	}
}

func datasetStats(regions map[string]struct{}, minAmount, maxAmount float64, observed bool) service.DatasetStats {
	if !observed {
		return service.DatasetStats{}
	}

	names := make([]string, 0, len(regions))
	for region := range regions {
		names = append(names, region)
	}
	sort.Strings(names)

	return service.DatasetStats{
		Regions:   names,
		MinAmount: minAmount,
		MaxAmount: maxAmount,
		Observed:  true,
	}
}
