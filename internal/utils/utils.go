package utils

import (
	"encoding/csv"
	"io"
	"strings"
)

// CleanPlatformID normalizes a platform account ID: trims whitespace and
// uppercases it so feed rows and user-entered IDs compare equal.
func CleanPlatformID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// MaskID masks a platform ID for logging, keeping the first two and last two
// characters visible
func MaskID(id string) string {
	if len(id) <= 4 {
		return strings.Repeat("*", len(id))
	}
	return id[:2] + strings.Repeat("*", len(id)-4) + id[len(id)-2:]
}

// WriteCSV writes a header row followed by data rows to w
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
