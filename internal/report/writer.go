// Package report renders the aggregated analytics into a fixed-layout
// plaintext report.
package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmcallister/salescope/internal/analytics"
	"github.com/jmcallister/salescope/internal/enrich"
	"github.com/jmcallister/salescope/internal/model"
)

const sectionWidth = 40

// Options controls the tunable parts of the report.
type Options struct {
	TopProducts          int
	LowQuantityThreshold int
}

// Generate writes the sales report to path, overwriting any previous
// content. It re-invokes the analytics views on the filtered set, so
// callers that already ran the views get identical numbers here. The
// daily trend must be computable; callers validate that before rendering.
func Generate(path string, transactions []model.Transaction, enriched []model.EnrichedTransaction, now time.Time, opts Options) error {
	if opts.TopProducts <= 0 {
		opts.TopProducts = analytics.DefaultTopN
	}
	if opts.LowQuantityThreshold <= 0 {
		opts.LowQuantityThreshold = analytics.DefaultLowQuantityThreshold
	}

	trend, err := analytics.DailyTrend(transactions)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	writeHeader(w, now, len(transactions))
	writeSummary(w, transactions)
	writeRegions(w, transactions)
	writeTopProducts(w, transactions, opts.TopProducts)
	writeTopCustomers(w, transactions)
	writeTrend(w, trend)
	writePerformance(w, transactions, trend, opts.LowQuantityThreshold)
	writeEnrichment(w, enriched)

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeHeader(w *bufio.Writer, now time.Time, records int) {
	rule := strings.Repeat("=", sectionWidth)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "SALES ANALYTICS REPORT")
	fmt.Fprintf(w, "Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Records Processed: %d\n", records)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

func writeSummary(w *bufio.Writer, transactions []model.Transaction) {
	total := analytics.TotalRevenue(transactions)
	avgOrder := 0.0
	if len(transactions) > 0 {
		avgOrder = total / float64(len(transactions))
	}

	dateRange := "N/A"
	if len(transactions) > 0 {
		dates := make([]string, 0, len(transactions))
		for _, tx := range transactions {
			dates = append(dates, tx.Date)
		}
		sort.Strings(dates)
		dateRange = fmt.Sprintf("%s to %s", dates[0], dates[len(dates)-1])
	}

	section(w, "OVERALL SUMMARY")
	fmt.Fprintf(w, "Total Revenue: %s\n", currency(total))
	fmt.Fprintf(w, "Total Transactions: %d\n", len(transactions))
	fmt.Fprintf(w, "Average Order Value: %s\n", currency(avgOrder))
	fmt.Fprintf(w, "Date Range: %s\n\n", dateRange)
}

func writeRegions(w *bufio.Writer, transactions []model.Transaction) {
	section(w, "REGION-WISE PERFORMANCE")
	fmt.Fprintf(w, "%-10s%-15s%-15s%-15s\n", "Region", "Sales", "% of Total", "Transactions")
	for _, r := range analytics.RegionSales(transactions) {
		fmt.Fprintf(w, "%-10s₹%-14s%-15s%-15d\n",
			r.Region,
			grouped(r.TotalSales),
			trimmedFloat(r.Percentage)+"%",
			r.TransactionCount)
	}
	fmt.Fprintln(w)
}

func writeTopProducts(w *bufio.Writer, transactions []model.Transaction, n int) {
	section(w, fmt.Sprintf("TOP %d PRODUCTS", n))
	fmt.Fprintf(w, "%-6s%-20s%-10s%-10s\n", "Rank", "Product", "Qty", "Revenue")
	for i, p := range analytics.TopProducts(transactions, n) {
		fmt.Fprintf(w, "%-6d%-20s%-10d%-10s\n", i+1, p.Name, p.Quantity, grouped(p.Revenue))
	}
	fmt.Fprintln(w)
}

func writeTopCustomers(w *bufio.Writer, transactions []model.Transaction) {
	section(w, "TOP 5 CUSTOMERS")
	fmt.Fprintf(w, "%-6s%-15s%-15s%-10s\n", "Rank", "Customer", "Spent", "Orders")
	customers := analytics.Customers(transactions)
	if len(customers) > 5 {
		customers = customers[:5]
	}
	for i, c := range customers {
		fmt.Fprintf(w, "%-6d%-15s₹%-14s%-10d\n", i+1, c.CustomerID, grouped(c.TotalSpent), c.PurchaseCount)
	}
	fmt.Fprintln(w)
}

func writeTrend(w *bufio.Writer, trend []analytics.DayStat) {
	section(w, "DAILY SALES TREND")
	fmt.Fprintf(w, "%-15s%-15s%-15s%-10s\n", "Date", "Revenue", "Transactions", "Customers")
	for _, day := range trend {
		fmt.Fprintf(w, "%-15s₹%-14s%-15d%-10d\n",
			day.Date, grouped(day.Revenue), day.TransactionCount, day.UniqueCustomers)
	}
	fmt.Fprintln(w)
}

func writePerformance(w *bufio.Writer, transactions []model.Transaction, trend []analytics.DayStat, threshold int) {
	section(w, "PRODUCT PERFORMANCE ANALYSIS")

	if peak, err := analytics.PeakDay(trend); err == nil {
		fmt.Fprintf(w, "Best Selling Day: %s | Revenue: %s | Transactions: %d\n\n",
			peak.Date, currency(peak.Revenue), peak.TransactionCount)
	} else {
		fmt.Fprintf(w, "Best Selling Day: N/A\n\n")
	}

	fmt.Fprintln(w, "Low Performing Products:")
	low := analytics.LowPerformers(transactions, threshold)
	if len(low) == 0 {
		fmt.Fprintln(w, "None")
	}
	for _, p := range low {
		fmt.Fprintf(w, "- %s | Qty: %d | Revenue: %s\n", p.Name, p.Quantity, currency(p.Revenue))
	}
}

func writeEnrichment(w *bufio.Writer, enriched []model.EnrichedTransaction) {
	matched := enrich.Matched(enriched)

	fmt.Fprintln(w)
	section(w, "API ENRICHMENT SUMMARY")
	fmt.Fprintf(w, "Total Products Enriched: %d\n", matched)
	fmt.Fprintf(w, "Success Rate: %s%%\n", trimmedFloat(enrich.MatchRate(enriched)))
	fmt.Fprintf(w, "Failed Enrichments: %d\n", len(enriched)-matched)
}

func section(w *bufio.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", sectionWidth))
}

// currency renders a value as ₹ with thousands separators and two
// decimals, e.g. ₹1,234.50.
func currency(v float64) string {
	return "₹" + grouped(v)
}

func grouped(v float64) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
		if len(intPart) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(intPart[i : i+3])
		if i+3 < len(intPart) {
			b.WriteByte(',')
		}
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

// trimmedFloat renders a 2dp-rounded value without trailing zeros, the
// way the percentage columns read best (62.5 rather than 62.50).
func trimmedFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
