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
	"fmt"
	"math"
	"strconv"
)

// Recording is a continuous multi-channel recording sampled at a fixed rate.
type Recording struct {
	SamplingRate float64
	Columns      []string
	Signals      map[string][]float64
}

// NewRecording returns an empty recording with the given sampling rate in Hz.
func NewRecording(samplingRate float64) *Recording {
	return &Recording{
		SamplingRate: samplingRate,
		Signals:      make(map[string][]float64),
	}
}

// AddSignal adds a named channel. Adding a name twice replaces its samples.
func (r *Recording) AddSignal(name string, samples []float64) {
	if _, ok := r.Signals[name]; !ok {
		r.Columns = append(r.Columns, name)
	}
	r.Signals[name] = samples
}

// Rename renames a channel, keeping its position in the column order.
func (r *Recording) Rename(old, name string) {
	s, ok := r.Signals[old]
	if !ok {
		return
	}
	delete(r.Signals, old)
	r.Signals[name] = s
	for i, col := range r.Columns {
		if col == old {
			r.Columns[i] = name
		}
	}
}

// Len returns the number of samples per channel, or 0 for an empty recording.
func (r *Recording) Len() int {
	for _, s := range r.Signals {
		return len(s)
	}
	return 0
}

// Event marks an onset in a recording around which an epoch is cut.
type Event struct {
	Onset     int // sample index of the event onset
	Label     string
	Condition string
}

// Create slices the recording into one epoch per event. start and duration
// are in seconds relative to each onset; a negative start includes pre-event
// samples. Windows falling partly outside the recording are clamped to the
// available samples. Epochs are keyed by the event label, falling back to the
// 1-based event number when unlabeled; labels must therefore be unique. Each
// epoch carries its key as a constant Label column and, when any event has
// one, a Condition column.
func Create(rec *Recording, events []Event, start, duration float64) (Collection, error) {
	if rec.SamplingRate <= 0 {
		return nil, fmt.Errorf("sampling rate must be positive, got %v", rec.SamplingRate)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("epoch duration must be positive, got %v", duration)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("no events given")
	}

	total := rec.Len()
	for _, col := range rec.Columns {
		if len(rec.Signals[col]) != total {
			return nil, fmt.Errorf("signal %q has %d samples, want %d", col, len(rec.Signals[col]), total)
		}
	}

	hasCondition := false
	for _, ev := range events {
		if ev.Condition != "" {
			hasCondition = true
		}
	}

	coll := make(Collection)
	for i, ev := range events {
		if ev.Onset < 0 || ev.Onset >= total {
			return nil, fmt.Errorf("event %d: onset %d outside recording of %d samples", i+1, ev.Onset, total)
		}

		from := ev.Onset + int(math.Round(start*rec.SamplingRate))
		to := from + int(math.Round(duration*rec.SamplingRate))
		if from < 0 {
			from = 0
		}
		if to > total {
			to = total
		}
		if from >= to {
			return nil, fmt.Errorf("event %d: window [%v, %v)s contains no samples", i+1, start, start+duration)
		}

		n := to - from
		label := ev.Label
		if label == "" {
			label = strconv.Itoa(i + 1)
		}
		if _, exists := coll[label]; exists {
			return nil, fmt.Errorf("event %d: duplicate label %q", i+1, label)
		}

		ep := &Epoch{
			Index:   make([]float64, n),
			Signals: make(map[string][]float64),
			Meta:    make(map[string][]string),
		}
		for j := 0; j < n; j++ {
			ep.Index[j] = float64(from+j-ev.Onset) / rec.SamplingRate
		}
		for _, col := range rec.Columns {
			ep.Columns = append(ep.Columns, col)
			ep.Signals[col] = append([]float64(nil), rec.Signals[col][from:to]...)
		}

		ep.Columns = append(ep.Columns, LabelColumn)
		ep.Meta[LabelColumn] = constant(label, n)
		if hasCondition {
			ep.Columns = append(ep.Columns, ConditionColumn)
			ep.Meta[ConditionColumn] = constant(ev.Condition, n)
		}

		coll[label] = ep
	}

	return coll, nil
}

func constant(v string, n int) []string {
	s := make([]string, n)
	for i := range s {
		s[i] = v
	}
	return s
}
