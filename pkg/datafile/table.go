package datafile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/loganmanery/tuikit/pkg/models"
)

// LoadTable reads a CSV file with a header row into rows keyed by column.
// A missing file yields an empty slice.
func (c *Codec) LoadTable(path string, password *string) ([]models.Row, error) {
	encrypted, err := c.checkMode(path, password)
	if err != nil {
		return nil, err
	}

	text, found, err := c.readText(path, password, encrypted)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.Row{}, nil
	}

	rows, err := parseTable(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rows, nil
}

// SaveTable writes rows as CSV with fields as the header. Each row is
// projected onto fields; absent values are written as empty strings.
func (c *Codec) SaveTable(path string, rows []models.Row, fields []string, password *string) error {
	encrypted, err := c.checkMode(path, password)
	if err != nil {
		return err
	}

	text, err := formatTable(rows, fields)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	return c.writeText(path, text, password, encrypted)
}

func parseTable(text string) ([]models.Row, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []models.Row{}, nil
	}
	if err != nil {
		return nil, err
	}

	rows := []models.Row{}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(models.Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func formatTable(rows []models.Row, fields []string) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(fields); err != nil {
		return "", err
	}

	record := make([]string, len(fields))
	for _, row := range rows {
		for i, name := range fields {
			record[i] = row[name]
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}
