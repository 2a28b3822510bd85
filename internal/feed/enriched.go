package feed

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmcallister/salescope/internal/model"
)

// enrichedHeader is the fixed header row of the enriched dataset file.
const enrichedHeader = "TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region|API_Category|API_Brand|API_Rating|API_Match"

// WriteEnriched persists the enriched dataset to a pipe-delimited file,
// overwriting any previous content. Absent enrichment fields render as
// empty strings; the match flag renders as literal true/false.
func WriteEnriched(path string, enriched []model.EnrichedTransaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create enriched dataset file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, enrichedHeader)

	for _, tx := range enriched {
		rating := ""
		if tx.APIRating != nil {
			rating = strconv.FormatFloat(*tx.APIRating, 'g', -1, 64)
		}
		fields := []string{
			tx.ID,
			tx.Date,
			tx.ProductID,
			tx.ProductName,
			strconv.Itoa(tx.Quantity),
			strconv.FormatFloat(tx.UnitPrice, 'g', -1, 64),
			tx.CustomerID,
			tx.Region,
			tx.APICategory,
			tx.APIBrand,
			rating,
			strconv.FormatBool(tx.APIMatch),
		}
		fmt.Fprintln(w, strings.Join(fields, "|"))
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write enriched dataset: %w", err)
	}
	return nil
}
