// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The NeuroKit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package epochs_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushmh/NeuroKit/epochs"
)

func buildTestFlat() *epochs.Flat {
	return &epochs.Flat{
		Epoch:   []string{"1", "1", "2", "2"},
		Time:    []float64{-0.5, 0.5, -0.5, 0.5},
		Columns: []string{"ECG_Rate", "Condition"},
		Signals: map[string][]float64{"ECG_Rate": {60, 70, 62, 80}},
		Meta:    map[string][]string{"Condition": {"neg", "neg", "pos", "pos"}},
	}
}

func TestSplit(t *testing.T) {
	coll := epochs.Split(buildTestFlat())
	require.Len(t, coll, 2)

	ep1, ok := coll["1"]
	require.True(t, ok)
	assert.Equal(t, []float64{-0.5, 0.5}, ep1.Index)
	assert.Equal(t, []float64{60, 70}, ep1.Signals["ECG_Rate"])
	assert.Equal(t, []string{"neg", "neg"}, ep1.Meta["Condition"])
	assert.Equal(t, []string{"ECG_Rate", "Condition"}, ep1.Columns)

	ep2, ok := coll["2"]
	require.True(t, ok)
	assert.Equal(t, []float64{62, 80}, ep2.Signals["ECG_Rate"])
}

func TestToFlatRoundTrip(t *testing.T) {
	flat := buildTestFlat()
	back := epochs.ToFlat(epochs.Split(flat))

	assert.Equal(t, flat.Epoch, back.Epoch)
	assert.Equal(t, flat.Time, back.Time)
	assert.Equal(t, flat.Columns, back.Columns)
	assert.Equal(t, flat.Signals, back.Signals)
	assert.Equal(t, flat.Meta, back.Meta)
}

func TestToFlatHeterogeneousColumns(t *testing.T) {
	// Only epoch "1" carries a Condition column and only epoch "2" carries an
	// EDA signal; the union columns must stay aligned with Epoch/Time, with
	// missing cells padded.
	coll := epochs.Collection{
		"1": {
			Index:   []float64{-0.5, 0.5},
			Columns: []string{"ECG_Rate", "Condition"},
			Signals: map[string][]float64{"ECG_Rate": {60, 70}},
			Meta:    map[string][]string{"Condition": {"neg", "neg"}},
		},
		"2": {
			Index:   []float64{-0.5, 0.5},
			Columns: []string{"ECG_Rate", "EDA"},
			Signals: map[string][]float64{"ECG_Rate": {62, 80}, "EDA": {0.1, 0.2}},
			Meta:    map[string][]string{},
		},
	}

	flat := epochs.ToFlat(coll)

	assert.Equal(t, []string{"ECG_Rate", "Condition", "EDA"}, flat.Columns)
	assert.Len(t, flat.Meta["Condition"], flat.Len())
	assert.Len(t, flat.Signals["EDA"], flat.Len())

	assert.Equal(t, []string{"neg", "neg", "", ""}, flat.Meta["Condition"])
	require.Len(t, flat.Signals["EDA"], 4)
	assert.True(t, math.IsNaN(flat.Signals["EDA"][0]))
	assert.True(t, math.IsNaN(flat.Signals["EDA"][1]))
	assert.Equal(t, []float64{0.1, 0.2}, flat.Signals["EDA"][2:])

	var buf bytes.Buffer
	require.NoError(t, flat.WriteCSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Epoch,Time,ECG_Rate,Condition,EDA", lines[0])
	assert.Equal(t, "1,-0.5,60,neg,NaN", lines[1])
	assert.Equal(t, "2,0.5,80,,0.2", lines[4])
}

func TestReadFlatCSV(t *testing.T) {
	in := strings.Join([]string{
		"Epoch,Time,ECG_Rate,Condition",
		"1,-1,60,neg",
		"1,0,62,neg",
		"1,1,70,neg",
		"2,-1,60,pos",
		"2,0,62,pos",
		"2,1,80,pos",
	}, "\n")

	flat, err := epochs.ReadFlatCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, 6, flat.Len())
	assert.Equal(t, []string{"ECG_Rate", "Condition"}, flat.Columns)
	assert.Equal(t, []float64{60, 62, 70, 60, 62, 80}, flat.Signals["ECG_Rate"])
	// Non-numeric column lands in Meta.
	assert.Equal(t, []string{"neg", "neg", "neg", "pos", "pos", "pos"}, flat.Meta["Condition"])
	assert.Equal(t, []float64{-1, 0, 1, -1, 0, 1}, flat.Time)
}

func TestReadFlatCSVMissingColumns(t *testing.T) {
	_, err := epochs.ReadFlatCSV(strings.NewReader("Time,ECG_Rate\n0,60\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Epoch")

	_, err = epochs.ReadFlatCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestFlatWriteCSVRoundTrip(t *testing.T) {
	flat := buildTestFlat()

	var buf bytes.Buffer
	require.NoError(t, flat.WriteCSV(&buf))

	back, err := epochs.ReadFlatCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, flat.Epoch, back.Epoch)
	assert.Equal(t, flat.Time, back.Time)
	assert.Equal(t, flat.Signals, back.Signals)
	assert.Equal(t, flat.Meta, back.Meta)
}
