package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"field-qa/internal/compare"
)

// WriteCSV writes the batch summary: one row per processed image, in
// processing order.
func WriteCSV(path string, outcomes []compare.Outcome) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Filename", "QA Result", "Max Delta (mm)"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, out := range outcomes {
		record := []string{out.Filename, string(out.Verdict), fmt.Sprintf("%.2f", out.MaxDeltaMM)}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row for %s: %w", out.Filename, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
