// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The NeuroKit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package epochs

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Flat is a long-format table holding every epoch stacked row-wise. The
// epoch identifier repeats once per time point; Columns lists the signal and
// metadata columns in their original order, excluding the Epoch and Time
// columns themselves.
type Flat struct {
	Epoch   []string
	Time    []float64
	Columns []string
	Signals map[string][]float64
	Meta    map[string][]string
}

// Len returns the number of rows in the flat table.
func (f *Flat) Len() int { return len(f.Epoch) }

// Split converts a flat table into a Collection. All columns and the row
// order within each epoch are preserved; the within-epoch Time values become
// the epoch's index.
func Split(f *Flat) Collection {
	coll := make(Collection)
	for i := 0; i < f.Len(); i++ {
		id := f.Epoch[i]
		ep, ok := coll[id]
		if !ok {
			ep = &Epoch{
				Columns: append([]string(nil), f.Columns...),
				Signals: make(map[string][]float64),
				Meta:    make(map[string][]string),
			}
			coll[id] = ep
		}
		ep.Index = append(ep.Index, f.Time[i])
		for name, s := range f.Signals {
			ep.Signals[name] = append(ep.Signals[name], s[i])
		}
		for name, m := range f.Meta {
			ep.Meta[name] = append(ep.Meta[name], m[i])
		}
	}
	return coll
}

// ToFlat converts a collection back into a flat long-format table. Epochs
// are emitted in sorted identifier order; the column set is the union across
// epochs in first-seen order. Epochs lacking a union column contribute
// missing-value cells there, NaN for signals and empty for metadata, so every
// column stays aligned with the Epoch and Time rows.
func ToFlat(c Collection) *Flat {
	f := &Flat{
		Signals: make(map[string][]float64),
		Meta:    make(map[string][]string),
	}

	// A union column is numeric if any epoch stores it as a signal.
	numeric := make(map[string]bool)
	seen := make(map[string]struct{})
	for _, id := range c.SortedIDs() {
		for _, col := range c[id].Columns {
			if _, ok := seen[col]; !ok {
				seen[col] = struct{}{}
				f.Columns = append(f.Columns, col)
			}
			if _, ok := c[id].Signals[col]; ok {
				numeric[col] = true
			}
		}
	}

	for _, id := range c.SortedIDs() {
		ep := c[id]
		for i := 0; i < ep.Len(); i++ {
			f.Epoch = append(f.Epoch, id)
			f.Time = append(f.Time, ep.Index[i])
			for _, col := range f.Columns {
				if numeric[col] {
					v := math.NaN()
					if s, ok := ep.Signals[col]; ok {
						v = s[i]
					}
					f.Signals[col] = append(f.Signals[col], v)
				} else {
					v := ""
					if m, ok := ep.Meta[col]; ok {
						v = m[i]
					}
					f.Meta[col] = append(f.Meta[col], v)
				}
			}
		}
	}
	return f
}

// ReadFlatCSV reads a flat epochs table from CSV. The header must contain
// Epoch and Time columns. Label and Condition columns are always text
// metadata; every other column is numeric when all of its values parse as
// floats, and text metadata otherwise.
func ReadFlatCSV(r io.Reader) (*Flat, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv input is empty")
	}

	header := records[0]
	rows := records[1:]

	epochIdx, timeIdx := -1, -1
	for i, name := range header {
		switch name {
		case EpochColumn:
			epochIdx = i
		case TimeColumn:
			timeIdx = i
		}
	}
	if epochIdx < 0 || timeIdx < 0 {
		return nil, fmt.Errorf("csv header must contain %q and %q columns", EpochColumn, TimeColumn)
	}

	f := &Flat{
		Signals: make(map[string][]float64),
		Meta:    make(map[string][]string),
	}

	for _, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("csv row has %d fields, header has %d", len(row), len(header))
		}
		f.Epoch = append(f.Epoch, row[epochIdx])
		t, err := strconv.ParseFloat(row[timeIdx], 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing %s value %q: %w", TimeColumn, row[timeIdx], err)
		}
		f.Time = append(f.Time, t)
	}

	for i, name := range header {
		if i == epochIdx || i == timeIdx {
			continue
		}
		f.Columns = append(f.Columns, name)

		// Metadata columns stay text even when their values look numeric;
		// event labels are often plain numbers.
		numeric := name != LabelColumn && name != ConditionColumn
		values := make([]float64, len(rows))
		for j := 0; numeric && j < len(rows); j++ {
			row := rows[j]
			if row[i] == "" {
				values[j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				numeric = false
				break
			}
			values[j] = v
		}

		if numeric {
			f.Signals[name] = values
			continue
		}
		text := make([]string, len(rows))
		for j, row := range rows {
			text[j] = row[i]
		}
		f.Meta[name] = text
	}

	return f, nil
}

// WriteCSV writes the flat table as CSV with Epoch and Time leading.
func (f *Flat) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{EpochColumn, TimeColumn}, f.Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("error writing csv header: %w", err)
	}

	for i := 0; i < f.Len(); i++ {
		row := make([]string, 0, len(header))
		row = append(row, f.Epoch[i], strconv.FormatFloat(f.Time[i], 'g', -1, 64))
		for _, col := range f.Columns {
			if s, ok := f.Signals[col]; ok {
				row = append(row, strconv.FormatFloat(s[i], 'g', -1, 64))
			} else {
				row = append(row, f.Meta[col][i])
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
