package validate

import (
	"testing"

	"github.com/jmcallister/salescope/internal/model"
	"github.com/jmcallister/salescope/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(id, productID, customerID, region string, quantity int, unitPrice float64) model.Transaction {
	return model.Transaction{
		ID:          id,
		Date:        "2024-01-01",
		ProductID:   productID,
		ProductName: "Widget",
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		CustomerID:  customerID,
		Region:      region,
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestRun_ValidityClassification(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "P1", "C1", "North", 5, 10),   // valid
		tx("X1", "P1", "C1", "North", 5, 10),   // bad transaction id
		tx("T2", "Q1", "C1", "North", 5, 10),   // bad product id
		tx("T3", "P1", "K1", "North", 5, 10),   // bad customer id
		tx("T4", "P1", "C1", "", 5, 10),        // empty region
		tx("T5", "P1", "C1", "South", 0, 10),   // zero quantity
		tx("T6", "P1", "C1", "South", 5, 0),    // zero price
		tx("T7", "P2", "C2", "South", 2, 4.50), // valid
	}

	result := Run(transactions, service.FilterOptions{})

	assert.Equal(t, 8, result.Summary.TotalInput)
	assert.Equal(t, 6, result.Summary.Invalid)
	assert.Equal(t, 2, result.Summary.FinalCount)
	require.Len(t, result.Filtered, 2)
	assert.Equal(t, "T1", result.Filtered[0].ID)
	assert.Equal(t, "T7", result.Filtered[1].ID)
}

func TestRun_StatsCoverInvalidTransactions(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "P1", "C1", "North", 5, 10), // amount 50
		tx("X1", "P1", "C1", "West", 20, 10), // invalid, amount 200
	}

	result := Run(transactions, service.FilterOptions{})

	require.True(t, result.Stats.Observed)
	assert.Equal(t, []string{"North", "West"}, result.Stats.Regions)
	assert.InDelta(t, 50, result.Stats.MinAmount, 0.0001)
	assert.InDelta(t, 200, result.Stats.MaxAmount, 0.0001)
}

func TestRun_EmptyInput(t *testing.T) {
	result := Run(nil, service.FilterOptions{})

	assert.False(t, result.Stats.Observed)
	assert.Empty(t, result.Filtered)
	assert.Equal(t, service.FilterSummary{}, result.Summary)
}

func TestRun_RegionFilter(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "P1", "C1", "North", 5, 10),
		tx("T2", "P1", "C2", "South", 3, 10),
		tx("T3", "P1", "C3", "North", 1, 10),
	}

	result := Run(transactions, service.FilterOptions{Region: "North"})

	assert.Equal(t, 1, result.Summary.FilteredByRegion)
	assert.Equal(t, 0, result.Summary.FilteredByAmount)
	assert.Equal(t, 2, result.Summary.FinalCount)
	require.Len(t, result.Filtered, 2)
	assert.Equal(t, "T1", result.Filtered[0].ID)
	assert.Equal(t, "T3", result.Filtered[1].ID)
}

func TestRun_AmountBoundsInclusive(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "P1", "C1", "North", 1, 10), // 10
		tx("T2", "P1", "C2", "North", 2, 10), // 20
		tx("T3", "P1", "C3", "North", 3, 10), // 30
	}

	result := Run(transactions, service.FilterOptions{
		MinAmount: floatPtr(10),
		MaxAmount: floatPtr(20),
	})

	assert.Equal(t, 1, result.Summary.FilteredByAmount)
	require.Len(t, result.Filtered, 2)
	assert.Equal(t, "T1", result.Filtered[0].ID)
	assert.Equal(t, "T2", result.Filtered[1].ID)
}

// A zero-valued bound is a real bound, not "unset". Every valid
// transaction has a positive amount, so max 0 excludes everything.
func TestRun_ZeroBoundIsEnforced(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "P1", "C1", "North", 1, 10),
	}

	withZeroMax := Run(transactions, service.FilterOptions{MaxAmount: floatPtr(0)})
	assert.Equal(t, 0, withZeroMax.Summary.FinalCount)
	assert.Equal(t, 1, withZeroMax.Summary.FilteredByAmount)

	withZeroMin := Run(transactions, service.FilterOptions{MinAmount: floatPtr(0)})
	assert.Equal(t, 1, withZeroMin.Summary.FinalCount)
}

func TestRun_NilBoundsDisabled(t *testing.T) {
	transactions := []model.Transaction{
		tx("T1", "P1", "C1", "North", 1, 10),
		tx("T2", "P1", "C2", "South", 100, 10),
	}

	result := Run(transactions, service.FilterOptions{})
	assert.Equal(t, 2, result.Summary.FinalCount)
	assert.Equal(t, 0, result.Summary.FilteredByRegion)
	assert.Equal(t, 0, result.Summary.FilteredByAmount)
}

func TestRun_FilteringNeverReorders(t *testing.T) {
	transactions := []model.Transaction{
		tx("T5", "P1", "C1", "North", 5, 10),
		tx("T2", "P1", "C2", "North", 2, 10),
		tx("T9", "P1", "C3", "North", 9, 10),
	}

	result := Run(transactions, service.FilterOptions{Region: "North"})

	ids := make([]string, 0, len(result.Filtered))
	for _, f := range result.Filtered {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"T5", "T2", "T9"}, ids)
}
