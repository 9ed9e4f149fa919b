// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The NeuroKit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package ecg implements event-related analysis of processed ECG signals:
// per-epoch, baseline-corrected heart-rate features around event onsets.
package ecg

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ayushmh/NeuroKit/epochs"
	"github.com/ayushmh/NeuroKit/frame"
	"github.com/ayushmh/NeuroKit/stats"
)

// RateColumn is the substring identifying the heart-rate series among an
// epoch's columns.
const RateColumn = "ECG_Rate"

// ErrInvalidInput is returned when the input is neither a pre-split epoch
// collection nor a flat epochs table.
var ErrInvalidInput = errors.New("input must be an epochs.Collection or an *epochs.Flat table")

// Feature names of the rate-derived columns.
const (
	RateMax            = "ECG_Rate_Max"
	RateMin            = "ECG_Rate_Min"
	RateMean           = "ECG_Rate_Mean"
	RateMaxTime        = "ECG_Rate_Max_Time"
	RateMinTime        = "ECG_Rate_Min_Time"
	RateTrendQuadratic = "ECG_Rate_Trend_Quadratic"
	RateTrendLinear    = "ECG_Rate_Trend_Linear"
	RateTrendR2        = "ECG_Rate_Trend_R2"
)

var rateFeatures = []string{
	RateMax, RateMin, RateMean,
	RateMaxTime, RateMinTime,
	RateTrendQuadratic, RateTrendLinear, RateTrendR2,
}

type options struct {
	logger *slog.Logger
}

// Option configures EventRelated.
type Option func(*options)

// WithLogger sets the logger used for per-epoch warnings. Defaults to
// slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// EventRelated performs event-related ECG analysis on epochs.
//
// The input is either an epochs.Collection (one epoch per event) or an
// *epochs.Flat table containing all epochs, which is split first. The result
// has one row per epoch, labeled by its identifier, holding the epoch's
// baseline-corrected rate features and any constant Label/Condition metadata.
//
// Epochs without a rate column, or without post-event samples, degrade
// per-epoch: a warning is logged and the affected fields are absent or NaN.
// Only an unsupported input type fails the whole call.
func EventRelated(input any, opts ...Option) (*frame.Frame, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	coll, err := normalize(input)
	if err != nil {
		return nil, err
	}

	b := frame.NewBuilder()
	for _, id := range coll.SortedIDs() {
		rec := frame.Record{}
		eventRelatedRate(coll[id], rec, id, o.logger)
		addInfo(coll[id], rec)
		b.Append(id, rec)
	}
	return b.Frame(), nil
}

func normalize(input any) (epochs.Collection, error) {
	switch v := input.(type) {
	case epochs.Collection:
		return v, nil
	case map[string]*epochs.Epoch:
		return v, nil
	case *epochs.Flat:
		return epochs.Split(v), nil
	default:
		return nil, fmt.Errorf("%w, got %T", ErrInvalidInput, input)
	}
}

// eventRelatedRate fills out with the baseline-corrected rate features of a
// single epoch.
func eventRelatedRate(ep *epochs.Epoch, out frame.Record, id string, logger *slog.Logger) {
	name := ""
	for _, col := range ep.Columns {
		if strings.Contains(col, RateColumn) {
			name = col
			break
		}
	}
	if name == "" {
		logger.Warn("epoch has no rate column, skipping rate features",
			"epoch", id, "want", RateColumn)
		return
	}

	rate, _ := ep.Signal(name)
	idx := ep.Index
	if len(idx) == 0 {
		degenerate(out, id, logger)
		return
	}

	// Partition into pre-event baseline and post-event signal. When the
	// epoch has no samples at or before the onset, the baseline degrades to
	// the single sample at the smallest offset, and the feature time axis is
	// the offsets greater than zero rather than greater than that smallest
	// offset. The axis can then be one sample longer than the signal; this
	// slicing is kept as-is for parity with historical behavior.
	var baseline, signal, times []float64
	if floats.Min(idx) <= 0 {
		for i, t := range idx {
			if t <= 0 {
				baseline = append(baseline, rate[i])
			} else {
				signal = append(signal, rate[i])
				times = append(times, t)
			}
		}
	} else {
		min := floats.Min(idx)
		baseline = []float64{rate[floats.MinIdx(idx)]}
		for i, t := range idx {
			if t > min {
				signal = append(signal, rate[i])
			}
		}
		for _, t := range idx {
			if t > 0 {
				times = append(times, t)
			}
		}
	}

	if len(signal) == 0 || len(times) == 0 {
		degenerate(out, id, logger)
		return
	}

	b := stat.Mean(baseline, nil)

	out[RateMax] = floats.Max(signal) - b
	out[RateMin] = floats.Min(signal) - b
	out[RateMean] = stat.Mean(signal, nil) - b
	out[RateMaxTime] = times[floats.MaxIdx(signal)]
	out[RateMinTime] = times[floats.MinIdx(signal)]

	dev := make([]float64, len(signal))
	for i, v := range signal {
		dev[i] = v - b
	}
	axis := times
	if len(axis) > len(dev) {
		axis = axis[:len(dev)]
	}

	coefs, err := stats.Polyfit(axis, dev, 2)
	if err != nil {
		logger.Warn("quadratic trend fit failed",
			"epoch", id, "error", err)
		out[RateTrendQuadratic] = math.NaN()
		out[RateTrendLinear] = math.NaN()
		out[RateTrendR2] = math.NaN()
		return
	}
	out[RateTrendQuadratic] = coefs[0]
	out[RateTrendLinear] = coefs[1]
	out[RateTrendR2] = stats.FitR2(dev, stats.Polyval(coefs, axis), false, 3)
}

// degenerate marks every rate feature as missing for an epoch with no
// post-event samples.
func degenerate(out frame.Record, id string, logger *slog.Logger) {
	logger.Warn("epoch has no post-event samples, rate features are NaN",
		"epoch", id)
	for _, name := range rateFeatures {
		out[name] = math.NaN()
	}
}

// addInfo copies any constant-valued metadata columns into the record.
// Columns with more than one distinct value are ambiguous per-epoch and are
// omitted.
func addInfo(ep *epochs.Epoch, out frame.Record) {
	if v, ok := ep.MetaDistinct(epochs.LabelColumn); ok {
		out[epochs.LabelColumn] = v
	}
	if v, ok := ep.MetaDistinct(epochs.ConditionColumn); ok {
		out[epochs.ConditionColumn] = v
	}
}
