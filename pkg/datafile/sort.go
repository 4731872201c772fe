package datafile

import (
	"sort"
	"strconv"
	"strings"

	"github.com/loganmanery/tuikit/pkg/models"
)

// DefaultSerialField is the column trackers number their rows by
const DefaultSerialField = "serial"

// SortBySerial returns a stably sorted copy of rows ordered by the integer
// value of field. Rows where field is absent or not an integer sort as 0.
// Rows with equal keys keep their relative order in both directions.
func SortBySerial(rows []models.Row, field string, descending bool) []models.Row {
	type keyed struct {
		key int
		row models.Row
	}

	items := make([]keyed, len(rows))
	for i, row := range rows {
		items[i] = keyed{key: serialKey(row, field), row: row}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if descending {
			return items[i].key > items[j].key
		}
		return items[i].key < items[j].key
	})

	out := make([]models.Row, len(items))
	for i, it := range items {
		out[i] = it.row
	}
	return out
}

// SerialOf returns the integer serial of row, or 0 when unset or invalid
func SerialOf(row models.Row, field string) int {
	return serialKey(row, field)
}

func serialKey(row models.Row, field string) int {
	v, ok := row[field]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}
