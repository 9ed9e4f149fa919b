// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The NeuroKit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package frame provides a small labeled table used to collect per-epoch
// feature records and render them as text, CSV or JSON.
package frame

import "sort"

// Record maps a feature name to its value for a single row. Values are
// float64 or string; NaN marks a numeric value that could not be computed.
type Record map[string]any

// Builder accumulates labeled records and finalizes them into a Frame once.
// The column set of the resulting frame is the union of all record keys, in
// the order they were first seen.
type Builder struct {
	index   []string
	records []Record
	columns []string
	seen    map[string]struct{}
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// Append adds a record under the given row label. The record is stored as-is
// and must not be mutated by the caller afterwards.
func (b *Builder) Append(label string, rec Record) {
	b.index = append(b.index, label)
	b.records = append(b.records, rec)
	for _, key := range recordKeys(rec) {
		if _, ok := b.seen[key]; !ok {
			b.seen[key] = struct{}{}
			b.columns = append(b.columns, key)
		}
	}
}

// Frame finalizes the builder into an immutable Frame.
func (b *Builder) Frame() *Frame {
	return &Frame{
		Index:   b.index,
		Columns: b.columns,
		records: b.records,
	}
}

// Frame is a table with explicit row labels. Rows whose record lacks a
// column simply have a missing cell there.
type Frame struct {
	Index   []string
	Columns []string
	records []Record
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Index) }

// Row returns the record stored under the given row label, or nil if the
// label is not present.
func (f *Frame) Row(label string) Record {
	for i, l := range f.Index {
		if l == label {
			return f.records[i]
		}
	}
	return nil
}

// At returns the cell at (label, column). The second return value is false
// when the row does not exist or the cell is missing.
func (f *Frame) At(label, column string) (any, bool) {
	rec := f.Row(label)
	if rec == nil {
		return nil, false
	}
	v, ok := rec[column]
	return v, ok
}

// recordKeys returns the record's keys in sorted order, so that the column
// union of a frame does not depend on map iteration order.
func recordKeys(rec Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
