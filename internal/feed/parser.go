package feed

import (
	"strconv"
	"strings"

	"github.com/jmcallister/salescope/internal/model"
)

// fieldCount is the exact number of pipe-delimited fields a feed line
// must carry: TransactionID|Date|ProductID|ProductName|Quantity|
// UnitPrice|CustomerID|Region.
const fieldCount = 8

// ParseTransactions converts raw feed lines into transactions, preserving
// input order. Lines with the wrong field count or unparsable numeric
// fields are discarded silently; a line never yields a partial record.
func ParseTransactions(lines []string) []model.Transaction {
	transactions := make([]model.Transaction, 0, len(lines))

	for _, line := range lines {
		tx, ok := parseLine(line)
		if !ok {
			continue
		}
		transactions = append(transactions, tx)
	}

	return transactions
}

func parseLine(line string) (model.Transaction, bool) {
	parts := strings.Split(line, "|")
	if len(parts) != fieldCount {
		return model.Transaction{}, false
	}

	quantity, err := strconv.Atoi(stripCommas(parts[4]))
	if err != nil {
		return model.Transaction{}, false
	}
	unitPrice, err := strconv.ParseFloat(stripCommas(parts[5]), 64)
	if err != nil {
		return model.Transaction{}, false
	}

	return model.Transaction{
		ID:          strings.TrimSpace(parts[0]),
		Date:        strings.TrimSpace(parts[1]),
		ProductID:   strings.TrimSpace(parts[2]),
		ProductName: stripCommas(parts[3]),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		CustomerID:  strings.TrimSpace(parts[6]),
		Region:      strings.TrimSpace(parts[7]),
	}, true
}

func stripCommas(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
}
