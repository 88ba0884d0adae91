package track

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadCSV reads a header row followed by data rows and loads them with Load.
// Quotes are read leniently, and a record the CSV reader still rejects is
// dropped like any other unparsable row.
func ReadCSV(r io.Reader, opts LoadOptions) (*PointSet, LoadStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, LoadStats{}, &FormatError{Kind: MissingHeader}
	}
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	header = trimBOM(header)

	var (
		rows    [][]string
		skipped int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			skipped++
			continue
		}
		if err != nil {
			return nil, LoadStats{}, fmt.Errorf("failed to read CSV rows: %w", err)
		}
		rows = append(rows, record)
	}

	ps, stats, err := Load(header, rows, opts)
	stats.Rows += skipped
	stats.Dropped += skipped
	return ps, stats, err
}

// ReadFile opens path and reads it with ReadCSV. An unreadable file yields a
// *FileAccessError.
func ReadFile(path string, opts LoadOptions) (*PointSet, LoadStats, error) {
	// #nosec G304 - path is chosen by the operator
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, &FileAccessError{Path: path, Op: "open", Cause: err}
	}
	defer func() { _ = f.Close() }()

	ps, stats, err := ReadCSV(f, opts)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Source = path
		}
		return nil, stats, err
	}
	return ps, stats, nil
}

// WriteCSV writes ps with its original header order.
func (ps *PointSet) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ps.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range ps.Points {
		if err := writer.Write(ps.Row(i)); err != nil {
			return fmt.Errorf("failed to write CSV record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

// WriteFile writes ps to path, replacing any existing file.
func (ps *PointSet) WriteFile(path string) error {
	// #nosec G304 - path is chosen by the operator
	f, err := os.Create(path)
	if err != nil {
		return &FileAccessError{Path: path, Op: "create", Cause: err}
	}
	if err := ps.WriteCSV(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return &FileAccessError{Path: path, Op: "close", Cause: err}
	}
	return nil
}

// trimBOM strips a UTF-8 byte order mark from the first header field.
func trimBOM(header []string) []string {
	if len(header) > 0 && len(header[0]) >= 3 && header[0][:3] == "\xef\xbb\xbf" {
		header[0] = header[0][3:]
	}
	return header
}
