// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The NeuroKit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package epochs models time-windowed slices of a physiological recording
// anchored to events, and conversions between the per-epoch form and a flat
// long-format table.
package epochs

import "sort"

// Well-known column names shared across the pipeline.
const (
	// EpochColumn holds the epoch identifier in a flat table.
	EpochColumn = "Epoch"
	// TimeColumn holds the within-epoch time offset in a flat table.
	TimeColumn = "Time"
	// LabelColumn and ConditionColumn are the per-epoch metadata columns.
	LabelColumn     = "Label"
	ConditionColumn = "Condition"
)

// Epoch is one time-windowed slice of a processed signal. Index values are
// signed time offsets relative to the event; zero marks the event onset.
// Numeric columns live in Signals, text columns in Meta; all column slices
// have the same length as Index.
type Epoch struct {
	Index   []float64
	Columns []string
	Signals map[string][]float64
	Meta    map[string][]string
}

// Len returns the number of samples in the epoch.
func (e *Epoch) Len() int { return len(e.Index) }

// Signal returns the named numeric column.
func (e *Epoch) Signal(name string) ([]float64, bool) {
	s, ok := e.Signals[name]
	return s, ok
}

// MetaDistinct returns the value of a text column if the column exists and
// holds exactly one distinct value across all rows of the epoch.
func (e *Epoch) MetaDistinct(name string) (string, bool) {
	values, ok := e.Meta[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	first := values[0]
	for _, v := range values[1:] {
		if v != first {
			return "", false
		}
	}
	return first, true
}

// Collection maps epoch identifiers to epochs. Identifiers are stable and
// unique; their order carries no meaning.
type Collection map[string]*Epoch

// SortedIDs returns the epoch identifiers in sorted order.
func (c Collection) SortedIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
