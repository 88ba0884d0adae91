package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// csvFormatter formats per-column statistics as CSV
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(in *Inspection) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	headers := []string{
		"Column",
		"Numeric",
		"Count",
		"Min",
		"Max",
		"Mean",
	}

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, c := range createColumnOutputs(in.Summary) {
		record := []string{c.Name, "false", "", "", "", ""}
		if c.Numeric {
			record = []string{
				c.Name,
				"true",
				fmt.Sprintf("%d", c.Count),
				formatFloat(*c.Min),
				formatFloat(*c.Max),
				formatFloat(*c.Mean),
			}
		}

		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}
