package analytics

import (
	"testing"

	"github.com/jmcallister/salescope/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(id, date, product, customer, region string, quantity int, unitPrice float64) model.Transaction {
	return model.Transaction{
		ID:          id,
		Date:        date,
		ProductID:   "P1",
		ProductName: product,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		CustomerID:  customer,
		Region:      region,
	}
}

// The worked two-line example: total 80.00, North 62.5% / South 37.5%,
// Widget quantity 8 revenue 80.00.
func sampleSet() []model.Transaction {
	return []model.Transaction{
		tx("T1", "2024-01-01", "Widget", "C1", "North", 5, 10.00),
		tx("T2", "2024-01-01", "Widget", "C2", "South", 3, 10.00),
	}
}

func TestTotalRevenue(t *testing.T) {
	assert.InDelta(t, 80.00, TotalRevenue(sampleSet()), 0.0001)
	assert.Zero(t, TotalRevenue(nil))
}

func TestRegionSales(t *testing.T) {
	stats := RegionSales(sampleSet())
	require.Len(t, stats, 2)

	assert.Equal(t, "North", stats[0].Region)
	assert.InDelta(t, 50.00, stats[0].TotalSales, 0.0001)
	assert.InDelta(t, 62.5, stats[0].Percentage, 0.0001)
	assert.Equal(t, 1, stats[0].TransactionCount)

	assert.Equal(t, "South", stats[1].Region)
	assert.InDelta(t, 37.5, stats[1].Percentage, 0.0001)
}

func TestRegionSales_EmptyInput(t *testing.T) {
	assert.Empty(t, RegionSales(nil))
}

func TestRegionSales_PercentagesSumTo100(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "2024-01-01", "A", "C1", "North", 1, 33.33),
		tx("T2", "2024-01-01", "B", "C2", "South", 1, 33.33),
		tx("T3", "2024-01-01", "C", "C3", "East", 1, 33.34),
	}

	var sum float64
	for _, stat := range RegionSales(transactions) {
		sum += stat.Percentage
	}
	assert.InDelta(t, 100.0, sum, 0.05)
}

func TestRegionSales_StableTieBreak(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "2024-01-01", "A", "C1", "West", 1, 10),
		tx("T2", "2024-01-01", "A", "C2", "East", 1, 10),
	}

	stats := RegionSales(transactions)
	require.Len(t, stats, 2)
	assert.Equal(t, "West", stats[0].Region)
	assert.Equal(t, "East", stats[1].Region)
}

func TestTopProducts(t *testing.T) {
	stats := TopProducts(sampleSet(), DefaultTopN)
	require.Len(t, stats, 1)
	assert.Equal(t, "Widget", stats[0].Name)
	assert.Equal(t, 8, stats[0].Quantity)
	assert.InDelta(t, 80.00, stats[0].Revenue, 0.0001)
}

func TestTopProducts_SortsAndTruncates(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "2024-01-01", "A", "C1", "N", 2, 1),
		tx("T2", "2024-01-01", "B", "C1", "N", 9, 1),
		tx("T3", "2024-01-01", "C", "C1", "N", 5, 1),
	}

	stats := TopProducts(transactions, 2)
	require.Len(t, stats, 2)
	assert.Equal(t, "B", stats[0].Name)
	assert.Equal(t, "C", stats[1].Name)
}

func TestTopProducts_StableTieBreak(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "2024-01-01", "First", "C1", "N", 3, 1),
		tx("T2", "2024-01-01", "Second", "C1", "N", 3, 2),
	}

	stats := TopProducts(transactions, DefaultTopN)
	require.Len(t, stats, 2)
	assert.Equal(t, "First", stats[0].Name)
	assert.Equal(t, "Second", stats[1].Name)
}

func TestCustomers(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "2024-01-01", "Widget", "C1", "N", 2, 10), // C1: 20
		tx("T2", "2024-01-02", "Gadget", "C1", "N", 4, 10), // C1: 60 total
		tx("T3", "2024-01-02", "Widget", "C2", "N", 10, 10),
		tx("T4", "2024-01-03", "Widget", "C1", "N", 1, 10), // repeat product
	}

	stats := Customers(transactions)
	require.Len(t, stats, 2)

	assert.Equal(t, "C2", stats[0].CustomerID)
	assert.InDelta(t, 100.0, stats[0].TotalSpent, 0.0001)

	c1 := stats[1]
	assert.Equal(t, "C1", c1.CustomerID)
	assert.InDelta(t, 70.0, c1.TotalSpent, 0.0001)
	assert.Equal(t, 3, c1.PurchaseCount)
	assert.InDelta(t, 23.33, c1.AvgOrderValue, 0.0001)
	assert.ElementsMatch(t, []string{"Widget", "Gadget"}, c1.Products)
}

func TestDailyTrend(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "2024-02-01", "A", "C1", "N", 1, 10),
		tx("T2", "2024-01-15", "A", "C2", "N", 2, 10),
		tx("T3", "2024-01-15", "A", "C2", "N", 3, 10),
		tx("T4", "2023-12-31", "A", "C3", "N", 4, 10),
	}

	trend, err := DailyTrend(transactions)
	require.NoError(t, err)
	require.Len(t, trend, 3)

	assert.Equal(t, "2023-12-31", trend[0].Date)
	assert.Equal(t, "2024-01-15", trend[1].Date)
	assert.Equal(t, "2024-02-01", trend[2].Date)

	jan15 := trend[1]
	assert.InDelta(t, 50.0, jan15.Revenue, 0.0001)
	assert.Equal(t, 2, jan15.TransactionCount)
	assert.Equal(t, 1, jan15.UniqueCustomers)
}

func TestDailyTrend_UnparsableDateIsFatal(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "2024-01-01", "A", "C1", "N", 1, 10),
		tx("T2", "01/15/2024", "A", "C2", "N", 1, 10),
	}

	_, err := DailyTrend(transactions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "01/15/2024")
}

func TestDailyTrend_Empty(t *testing.T) {
	trend, err := DailyTrend(nil)
	require.NoError(t, err)
	assert.Empty(t, trend)
}

func TestPeakDay(t *testing.T) {
	trend := []DayStat{
		{Date: "2024-01-01", Revenue: 10},
		{Date: "2024-01-02", Revenue: 30},
		{Date: "2024-01-03", Revenue: 20},
	}

	peak, err := PeakDay(trend)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", peak.Date)
}

func TestPeakDay_TieGoesToEarliestDate(t *testing.T) {
	trend := []DayStat{
		{Date: "2024-01-01", Revenue: 30},
		{Date: "2024-01-02", Revenue: 30},
	}

	peak, err := PeakDay(trend)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", peak.Date)
}

func TestPeakDay_EmptyTrend(t *testing.T) {
	_, err := PeakDay(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestLowPerformers(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "2024-01-01", "Popular", "C1", "N", 50, 1),
		tx("T2", "2024-01-01", "Slow", "C1", "N", 3, 2),
		tx("T3", "2024-01-01", "Slower", "C1", "N", 1, 5),
	}

	low := LowPerformers(transactions, DefaultLowQuantityThreshold)
	require.Len(t, low, 2)
	assert.Equal(t, "Slower", low[0].Name)
	assert.Equal(t, "Slow", low[1].Name)
}

// No product at or above the threshold may ever appear in the
// low-performer view, so the low and top views cannot overlap when the
// bar is below the top cutoff.
func TestLowPerformers_DisjointFromTop(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "2024-01-01", "A", "C1", "N", 10, 1),
		tx("T2", "2024-01-01", "B", "C1", "N", 7, 1),
		tx("T3", "2024-01-01", "C", "C1", "N", 4, 1),
		tx("T4", "2024-01-01", "D", "C1", "N", 2, 1),
	}

	top := TopProducts(transactions, 2)
	low := LowPerformers(transactions, 5)

	topNames := make(map[string]bool)
	for _, p := range top {
		topNames[p.Name] = true
	}
	for _, p := range low {
		assert.False(t, topNames[p.Name], "product %s in both views", p.Name)
		assert.Less(t, p.Quantity, 5)
	}
}

func TestEngine_Idempotence(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "2024-01-02", "A", "C1", "North", 3, 7.77),
		tx("T2", "2024-01-01", "B", "C2", "South", 5, 2.50),
		tx("T3", "2024-01-02", "A", "C1", "North", 1, 7.77),
	}

	first, err := DailyTrend(transactions)
	require.NoError(t, err)
	second, err := DailyTrend(transactions)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, RegionSales(transactions), RegionSales(transactions))
	assert.Equal(t, TopProducts(transactions, 5), TopProducts(transactions, 5))
	assert.Equal(t, Customers(transactions), Customers(transactions))
	assert.Equal(t, LowPerformers(transactions, 10), LowPerformers(transactions, 10))
}
