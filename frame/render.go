// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The NeuroKit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package frame

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

// IndexColumn is the header under which row labels are written.
const IndexColumn = "Index"

// WriteCSV writes the frame as CSV with the row label in the first column.
// Missing cells are written empty; NaN cells are written as "NaN".
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{IndexColumn}, f.Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("error writing csv header: %w", err)
	}

	for i, label := range f.Index {
		row := make([]string, 0, len(header))
		row = append(row, label)
		for _, col := range f.Columns {
			v, ok := f.records[i][col]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatValue(v))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the frame as a JSON array of row objects, one per row,
// each carrying its row label under "Index". NaN cells, which have no JSON
// representation, become null; missing cells are omitted.
func (f *Frame) WriteJSON(w io.Writer) error {
	rows := make([]map[string]any, 0, len(f.Index))
	for i, label := range f.Index {
		row := map[string]any{IndexColumn: label}
		for col, v := range f.records[i] {
			row[col] = jsonValue(v)
		}
		rows = append(rows, row)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// RenderTable writes the frame as a human-readable table.
func (f *Frame) RenderTable(w io.Writer) {
	t := f.prettyTable(w)
	t.Render()
	fmt.Fprintf(w, "(%d rows)\n", f.Len())
}

// RenderMarkdown writes the frame as a markdown table.
func (f *Frame) RenderMarkdown(w io.Writer) {
	t := f.prettyTable(w)
	t.RenderMarkdown()
}

func (f *Frame) prettyTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, 0, len(f.Columns)+1)
	header = append(header, IndexColumn)
	for _, col := range f.Columns {
		header = append(header, col)
	}
	t.AppendHeader(header)

	for i, label := range f.Index {
		row := make(table.Row, 0, len(f.Columns)+1)
		row = append(row, label)
		for _, col := range f.Columns {
			v, ok := f.records[i][col]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatValue(v))
		}
		t.AppendRow(row)
	}
	return t
}

func formatValue(v any) string {
	switch val := v.(type) {
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func jsonValue(v any) any {
	if fv, ok := v.(float64); ok && math.IsNaN(fv) {
		return nil
	}
	return v
}
