// Package analytics computes descriptive views over a filtered set of
// sales transactions. Every view is a pure function of its input:
// identical input yields identical output, including ordering.
// Accumulation runs at full float64 precision; values are rounded to two
// decimals only in view outputs.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jmcallister/salescope/internal/model"
)

// ErrNoData indicates a view was asked for a result that does not exist
// on an empty dataset.
var ErrNoData = errors.New("no transactions to analyze")

// DefaultTopN is the default size of the top-selling products view.
const DefaultTopN = 5

// DefaultLowQuantityThreshold is the default unit cutoff below which a
// product counts as low-performing.
const DefaultLowQuantityThreshold = 10

// RegionStat summarizes sales for one region.
type RegionStat struct {
	Region           string
	TotalSales       float64
	Percentage       float64
	TransactionCount int
}

// ProductStat summarizes quantity and revenue for one product.
type ProductStat struct {
	Name     string
	Revenue  float64
	Quantity int
}

// CustomerStat summarizes purchasing behavior for one customer.
type CustomerStat struct {
	CustomerID    string
	Products      []string
	TotalSpent    float64
	AvgOrderValue float64
	PurchaseCount int
}

// DayStat summarizes one day of the sales trend.
type DayStat struct {
	Date             string
	Revenue          float64
	TransactionCount int
	UniqueCustomers  int
}

// TotalRevenue sums the derived amount over all transactions. An empty
// set yields 0.
func TotalRevenue(transactions []model.Transaction) float64 {
	var total float64
	for _, tx := range transactions {
		total += tx.Amount()
	}
	return total
}

// RegionSales groups transactions by region and reports each region's
// sales, transaction count and share of the grand total, sorted
// descending by sales with ties kept in first-encounter order. An empty
// input yields an empty slice rather than a division by zero.
func RegionSales(transactions []model.Transaction) []RegionStat {
	type regionAcc struct {
		sales float64
		count int
	}
	accs := make(map[string]*regionAcc)
	var order []string
	var grandTotal float64

	for _, tx := range transactions {
		acc, ok := accs[tx.Region]
		if !ok {
			acc = &regionAcc{}
			accs[tx.Region] = acc
			order = append(order, tx.Region)
		}
		acc.sales += tx.Amount()
		acc.count++
		grandTotal += tx.Amount()
	}

	if len(order) == 0 {
		return nil
	}

	stats := make([]RegionStat, 0, len(order))
	for _, region := range order {
		acc := accs[region]
		stats = append(stats, RegionStat{
			Region:           region,
			TotalSales:       round2(acc.sales),
			TransactionCount: acc.count,
			Percentage:       round2(acc.sales / grandTotal * 100),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalSales > stats[j].TotalSales
	})
	return stats
}

// TopProducts returns the n best-selling products by summed quantity,
// descending, ties kept in first-encounter order.
func TopProducts(transactions []model.Transaction, n int) []ProductStat {
	stats := productStats(transactions)
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Quantity > stats[j].Quantity
	})
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// LowPerformers returns products whose summed quantity is strictly below
// threshold, sorted ascending by quantity with stable ties.
func LowPerformers(transactions []model.Transaction, threshold int) []ProductStat {
	var low []ProductStat
	for _, stat := range productStats(transactions) {
		if stat.Quantity < threshold {
			low = append(low, stat)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].Quantity < low[j].Quantity
	})
	return low
}

func productStats(transactions []model.Transaction) []ProductStat {
	type productAcc struct {
		quantity int
		revenue  float64
	}
	accs := make(map[string]*productAcc)
	var order []string

	for _, tx := range transactions {
		acc, ok := accs[tx.ProductName]
		if !ok {
			acc = &productAcc{}
			accs[tx.ProductName] = acc
			order = append(order, tx.ProductName)
		}
		acc.quantity += tx.Quantity
		acc.revenue += tx.Amount()
	}

	stats := make([]ProductStat, 0, len(order))
	for _, name := range order {
		acc := accs[name]
		stats = append(stats, ProductStat{
			Name:     name,
			Quantity: acc.quantity,
			Revenue:  round2(acc.revenue),
		})
	}
	return stats
}

// Customers groups transactions by customer and reports spend, order
// count, average order value and the distinct products bought, sorted
// descending by total spent with stable ties.
func Customers(transactions []model.Transaction) []CustomerStat {
	type customerAcc struct {
		seen     map[string]struct{}
		products []string
		spent    float64
		count    int
	}
	accs := make(map[string]*customerAcc)
	var order []string

	for _, tx := range transactions {
		acc, ok := accs[tx.CustomerID]
		if !ok {
			acc = &customerAcc{seen: make(map[string]struct{})}
			accs[tx.CustomerID] = acc
			order = append(order, tx.CustomerID)
		}
		acc.spent += tx.Amount()
		acc.count++
		if _, dup := acc.seen[tx.ProductName]; !dup {
			acc.seen[tx.ProductName] = struct{}{}
			acc.products = append(acc.products, tx.ProductName)
		}
	}

	stats := make([]CustomerStat, 0, len(order))
	for _, id := range order {
		acc := accs[id]
		stats = append(stats, CustomerStat{
			CustomerID:    id,
			TotalSpent:    round2(acc.spent),
			PurchaseCount: acc.count,
			AvgOrderValue: round2(acc.spent / float64(acc.count)),
			Products:      acc.products,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalSpent > stats[j].TotalSpent
	})
	return stats
}

// DailyTrend groups transactions by date and orders the result ascending
// by calendar date. A date that does not parse as YYYY-MM-DD is a hard
// error: silently mis-sorting a chronological view would corrupt it.
func DailyTrend(transactions []model.Transaction) ([]DayStat, error) {
	type dayAcc struct {
		customers map[string]struct{}
		revenue   float64
		count     int
	}
	accs := make(map[string]*dayAcc)
	var order []string

	for _, tx := range transactions {
		acc, ok := accs[tx.Date]
		if !ok {
			acc = &dayAcc{customers: make(map[string]struct{})}
			accs[tx.Date] = acc
			order = append(order, tx.Date)
		}
		acc.revenue += tx.Amount()
		acc.count++
		acc.customers[tx.CustomerID] = struct{}{}
	}

	parsed := make(map[string]time.Time, len(order))
	for _, date := range order {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("unparsable date %q in daily trend: %w", date, err)
		}
		parsed[date] = t
	}
	sort.Slice(order, func(i, j int) bool {
		return parsed[order[i]].Before(parsed[order[j]])
	})

	trend := make([]DayStat, 0, len(order))
	for _, date := range order {
		acc := accs[date]
		trend = append(trend, DayStat{
			Date:             date,
			Revenue:          round2(acc.revenue),
			TransactionCount: acc.count,
			UniqueCustomers:  len(acc.customers),
		})
	}
	return trend, nil
}

// PeakDay returns the trend entry with the highest revenue. Ties go to
// the earliest date in the trend's ascending order. An empty trend has
// no peak and yields ErrNoData.
func PeakDay(trend []DayStat) (DayStat, error) {
	if len(trend) == 0 {
		return DayStat{}, ErrNoData
	}
	peak := trend[0]
	for _, day := range trend[1:] {
		if day.Revenue > peak.Revenue {
			peak = day
		}
	}
	return peak, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
