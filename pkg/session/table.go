package session

import (
	"fmt"
	"strconv"

	kerrors "github.com/loganmanery/tuikit/internal/errors"
	"github.com/loganmanery/tuikit/pkg/datafile"
	"github.com/loganmanery/tuikit/pkg/models"
)

const nextSerialKey = "next_serial"

// table is a serial-numbered CSV file owned by a session, with its counter
// kept in the user's config
type table struct {
	s        *Session
	filename string
	fields   []string
	defaults map[string]any
}

// rows loads the table newest first
func (t table) rows() ([]models.Row, error) {
	path, err := t.s.DataPath(t.filename)
	if err != nil {
		return nil, err
	}

	rows, err := t.s.codec.LoadTable(path, t.s.password)
	if err != nil {
		return nil, err
	}
	return datafile.SortBySerial(rows, datafile.DefaultSerialField, true), nil
}

func (t table) save(rows []models.Row) error {
	path, err := t.s.DataPath(t.filename)
	if err != nil {
		return err
	}
	return t.s.codec.SaveTable(path, datafile.SortBySerial(rows, datafile.DefaultSerialField, true), t.fields, t.s.password)
}

// add assigns the next serial to row, appends it and advances the counter
func (t table) add(row models.Row) (models.Row, error) {
	cfg, err := t.s.LoadConfig(t.defaults)
	if err != nil {
		return nil, err
	}

	rows, err := t.rows()
	if err != nil {
		return nil, err
	}

	serial := intValue(cfg, nextSerialKey, 1)
	// Never reuse a serial already on disk, even if the config was lost.
	for _, r := range rows {
		if n := datafile.SerialOf(r, datafile.DefaultSerialField); n >= serial {
			serial = n + 1
		}
	}

	row = row.Clone()
	row[datafile.DefaultSerialField] = strconv.Itoa(serial)
	rows = append(rows, row)

	if err := t.save(rows); err != nil {
		return nil, err
	}

	cfg[nextSerialKey] = serial + 1
	if err := t.s.SaveConfig(cfg); err != nil {
		return nil, err
	}
	return row, nil
}

// update applies fn to the row with the given serial and returns the row
func (t table) update(serial string, fn func(models.Row)) (models.Row, error) {
	rows, err := t.rows()
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		if r[datafile.DefaultSerialField] == serial {
			fn(r)
			r[datafile.DefaultSerialField] = serial
			return r, t.save(rows)
		}
	}
	return nil, fmt.Errorf("%w: %s #%s", kerrors.ErrRecordNotFound, t.filename, serial)
}

// remove deletes the row with the given serial
func (t table) remove(serial string) (models.Row, error) {
	rows, err := t.rows()
	if err != nil {
		return nil, err
	}

	for i, r := range rows {
		if r[datafile.DefaultSerialField] == serial {
			rows = append(rows[:i], rows[i+1:]...)
			return r, t.save(rows)
		}
	}
	return nil, fmt.Errorf("%w: %s #%s", kerrors.ErrRecordNotFound, t.filename, serial)
}
