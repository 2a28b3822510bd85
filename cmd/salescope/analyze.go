package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/jmcallister/salescope/internal/analytics"
	"github.com/jmcallister/salescope/internal/catalog"
	"github.com/jmcallister/salescope/internal/cli"
	"github.com/jmcallister/salescope/internal/common"
	"github.com/jmcallister/salescope/internal/enrich"
	"github.com/jmcallister/salescope/internal/feed"
	"github.com/jmcallister/salescope/internal/model"
	"github.com/jmcallister/salescope/internal/report"
	"github.com/jmcallister/salescope/internal/service"
	"github.com/jmcallister/salescope/internal/validate"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full sales analytics pipeline",
		Long: `Read the sales feed, validate and optionally filter it, compute the
analytics views, enrich transactions from the product catalog, and write
the enriched dataset and the plaintext report.

Examples:
  # Run with config defaults
  salescope analyze

  # Filter to one region with an amount floor
  salescope analyze --region North --min-amount 100

  # Collect filters interactively
  salescope analyze --interactive`,
		RunE: runAnalyze,
	}

	cmd.Flags().String("input", "", "sales feed path (overrides config)")
	cmd.Flags().String("region", "", "only keep transactions from this region")
	cmd.Flags().Float64("min-amount", 0, "only keep transactions with amount >= this bound")
	cmd.Flags().Float64("max-amount", 0, "only keep transactions with amount <= this bound")
	cmd.Flags().BoolP("interactive", "i", false, "collect filters interactively")

	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	inputPath := viper.GetString("input.path")
	if path, _ := cmd.Flags().GetString("input"); path != "" {
		inputPath = path
	}

	lines, err := feed.ReadLines(inputPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Error("Sales feed not found, continuing with empty dataset", "path", inputPath)
		lines = nil
	case err != nil:
		return common.NewUserError("unable to read sales data", err)
	}

	transactions := feed.ParseTransactions(lines)
	slog.Info("Parsed sales feed", "lines", len(lines), "transactions", len(transactions))

	result := validate.Run(transactions, service.FilterOptions{})
	logDatasetStats(result.Stats)

	opts, err := collectFilters(cmd, result.Stats)
	if err != nil {
		return common.NewUserError("unable to collect filter options", err)
	}
	result = validate.Run(transactions, opts)

	slog.Info("Validated transactions",
		"valid", result.Summary.FinalCount+result.Summary.FilteredByRegion+result.Summary.FilteredByAmount,
		"invalid", result.Summary.Invalid,
		"filtered_by_region", result.Summary.FilteredByRegion,
		"filtered_by_amount", result.Summary.FilteredByAmount,
		"final", result.Summary.FinalCount)

	filtered := result.Filtered

	// The trend view is the one place bad post-validation data must stop
	// the run; everything downstream reuses the same pure views.
	trend, err := analytics.DailyTrend(filtered)
	if err != nil {
		return common.NewUserError("unable to analyze daily sales trend", err)
	}
	logAnalytics(filtered, trend)

	client := catalog.NewClient(
		viper.GetString("catalog.base_url"),
		viper.GetInt("catalog.limit"),
		viper.GetDuration("catalog.timeout"))
	mapping := fetchCatalog(ctx, client)
	enriched := enrichAll(filtered, mapping)

	enrichedPath := viper.GetString("output.enriched_path")
	if err := feed.WriteEnriched(enrichedPath, enriched); err != nil {
		slog.Warn("Failed to save enriched dataset", "path", enrichedPath, "error", err)
	}

	reportPath := viper.GetString("output.report_path")
	reportOpts := report.Options{
		TopProducts:          viper.GetInt("analytics.top_products"),
		LowQuantityThreshold: viper.GetInt("analytics.low_quantity_threshold"),
	}
	if err := report.Generate(reportPath, filtered, enriched, time.Now(), reportOpts); err != nil {
		slog.Warn("Failed to generate report", "path", reportPath, "error", err)
	}

	fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render("Analysis complete. Files generated:"))
	fmt.Fprintf(os.Stdout, "  %s\n", enrichedPath)
	fmt.Fprintf(os.Stdout, "  %s\n", reportPath)

	return nil
}

// collectFilters builds filter options from flags, or from the prompter
// when --interactive is set. Amount bounds use flag presence, so an
// explicit zero is a real bound.
func collectFilters(cmd *cobra.Command, stats service.DatasetStats) (service.FilterOptions, error) {
	interactive, _ := cmd.Flags().GetBool("interactive")
	if interactive {
		prompter := cli.NewFilterPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		return prompter.PromptFilters(cmd.Context(), stats)
	}

	var opts service.FilterOptions
	opts.Region, _ = cmd.Flags().GetString("region")
	if cmd.Flags().Changed("min-amount") {
		v, _ := cmd.Flags().GetFloat64("min-amount")
		opts.MinAmount = &v
	}
	if cmd.Flags().Changed("max-amount") {
		v, _ := cmd.Flags().GetFloat64("max-amount")
		opts.MaxAmount = &v
	}
	return opts, nil
}

func logDatasetStats(stats service.DatasetStats) {
	if !stats.Observed {
		return
	}
	slog.Info("Dataset statistics",
		"regions", stats.Regions,
		"min_amount", fmt.Sprintf("%.2f", stats.MinAmount),
		"max_amount", fmt.Sprintf("%.2f", stats.MaxAmount))
}

func logAnalytics(filtered []model.Transaction, trend []analytics.DayStat) {
	slog.Info("Analysis complete",
		"total_revenue", fmt.Sprintf("%.2f", analytics.TotalRevenue(filtered)),
		"regions", len(analytics.RegionSales(filtered)),
		"customers", len(analytics.Customers(filtered)),
		"trend_days", len(trend))

	if peak, err := analytics.PeakDay(trend); err == nil {
		slog.Info("Peak sales day",
			"date", peak.Date,
			"revenue", fmt.Sprintf("%.2f", peak.Revenue),
			"transactions", peak.TransactionCount)
	}
}

// fetchCatalog performs the single catalog fetch and fails soft: any
// error leaves enrichment running against an empty mapping.
func fetchCatalog(ctx context.Context, fetcher service.ProductFetcher) map[int]model.CatalogProduct {
	products, err := fetcher.FetchProducts(ctx)
	if err != nil {
		slog.Warn("Catalog fetch failed, continuing without enrichment", "error", err)
		products = nil
	}
	return catalog.BuildMapping(products)
}

func enrichAll(filtered []model.Transaction, mapping map[int]model.CatalogProduct) []model.EnrichedTransaction {
	bar := progressbar.Default(int64(len(filtered)), "enriching")
	enriched := make([]model.EnrichedTransaction, 0, len(filtered))
	for _, tx := range filtered {
		enriched = append(enriched, enrich.Apply(tx, mapping))
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	slog.Info("Enriched sales data",
		"matched", enrich.Matched(enriched),
		"match_rate", fmt.Sprintf("%.2f%%", enrich.MatchRate(enriched)))
	return enriched
}
