// Package export writes generated profiles as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chrissnell/paleoprofile/pkg/catalog"
	"github.com/chrissnell/paleoprofile/pkg/profile"
)

// Format is a file encoding for a profile.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// ParseFormat accepts csv or json in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, JSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or json)", s)
}

// WriteCSV writes a header line followed by one record per row. The zone
// cell is empty for an unassigned depth.
func WriteCSV(w io.Writer, p *profile.Profile) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(profile.Header()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, 2+len(catalog.Parameters))
	for _, row := range p.Rows {
		record[0] = formatFloat(row.Depth)
		record[1] = ""
		if row.Assigned() {
			record[1] = strconv.Itoa(row.Zone)
		}
		for i, param := range catalog.Parameters {
			record[2+i] = formatFloat(row.Value(param))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record at depth %v: %w", row.Depth, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON writes the whole profile, rows included, as indented JSON.
func WriteJSON(w io.Writer, p *profile.Profile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// Write encodes p in format f.
func Write(w io.Writer, f Format, p *profile.Profile) error {
	switch f {
	case CSV:
		return WriteCSV(w, p)
	case JSON:
		return WriteJSON(w, p)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// WriteFile creates path and writes p to it.
func WriteFile(path string, f Format, p *profile.Profile) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(file, f, p); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
