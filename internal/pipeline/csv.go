package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/maghrebwx/weather-ingest/internal/domain"
)

// EncodeCSV renders observation records as the batched artifact: one
// header row, then one row per record in input order. Columns are the
// UTC timestamp, the hourly variables in schema order, and the city label.
func EncodeCSV(records []domain.ObservationRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(domain.HourlyVariables)+2)
	header = append(header, "datetime_utc")
	header = append(header, domain.HourlyVariables...)
	header = append(header, "city")
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(header))
	for _, rec := range records {
		row[0] = rec.Timestamp.UTC().Format(time.RFC3339)
		for i, name := range domain.HourlyVariables {
			row[i+1] = strconv.FormatFloat(rec.Values[name], 'g', -1, 64)
		}
		row[len(row)-1] = rec.City
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
