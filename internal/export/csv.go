package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"weather-history/internal/weather"
)

const (
	// TimeLayout keeps the UTC offset so a table read back lands on the same instants.
	TimeLayout = "2006-01-02 15:04:05-07:00"

	fileTimeLayout = "2006-01-02_15-04-05"
	indexColumn    = "time"
)

// FileName is the name a search started at the given time is saved under.
func FileName(at time.Time) string {
	return "search in " + at.Format(fileTimeLayout) + ".csv"
}

// WriteCSV writes a header row and one row per observation, led by its timestamp.
// Absent attributes are written as empty cells.
func WriteCSV(w io.Writer, table *weather.HistoryTable) error {
	columns := weather.Columns()
	writer := csv.NewWriter(w)

	header := append([]string{indexColumn}, columns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if table != nil {
		row := make([]string, len(header))
		for _, record := range table.Records {
			row[0] = record.Time.Format(TimeLayout)
			for i, name := range columns {
				row[i+1], _ = record.Text(name)
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadCSV parses a file produced by WriteCSV.
func ReadCSV(r io.Reader) (*weather.HistoryTable, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 0 || header[0] != indexColumn {
		return nil, fmt.Errorf("first column must be %q", indexColumn)
	}

	table := weather.NewHistoryTable()
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return table, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		ts, err := time.Parse(TimeLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(table.Records)+1, err)
		}

		record := weather.ObservationRecord{Time: ts}
		for i, name := range header[1:] {
			if err := record.SetText(name, row[i+1]); err != nil {
				return nil, fmt.Errorf("row %d: %w", len(table.Records)+1, err)
			}
		}
		table.Records = append(table.Records, record)
	}
}

// WriteFile saves table in dir under FileName(at) and returns the path.
func WriteFile(dir string, at time.Time, table *weather.HistoryTable) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, FileName(at))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteCSV(f, table); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func ReadFile(path string) (*weather.HistoryTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}
