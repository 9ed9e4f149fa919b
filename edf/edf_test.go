// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The NeuroKit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf_test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushmh/NeuroKit/edf"
)

// buildEDF assembles a minimal single-signal EDF file in memory: identity
// calibration (digital 0..100 to physical 0..100), one-second data records.
func buildEDF(t *testing.T, label string, dataRecords, samplesPerRecord int, samples []int16) []byte {
	t.Helper()
	require.Equal(t, dataRecords*samplesPerRecord, len(samples))

	var b bytes.Buffer
	fmt.Fprintf(&b, "%-8s", "0")
	fmt.Fprintf(&b, "%-80s", "X F X test patient")
	fmt.Fprintf(&b, "%-80s", "Startdate 01-JAN-2024")
	fmt.Fprintf(&b, "%-8s", "01.01.24")
	fmt.Fprintf(&b, "%-8s", "23.30.00")
	fmt.Fprintf(&b, "%-8d", 256+256)
	fmt.Fprintf(&b, "%-44s", "")
	fmt.Fprintf(&b, "%-8d", dataRecords)
	fmt.Fprintf(&b, "%-8d", 1)
	fmt.Fprintf(&b, "%-4d", 1)

	fmt.Fprintf(&b, "%-16s", label)
	fmt.Fprintf(&b, "%-80s", "") // transducer type
	fmt.Fprintf(&b, "%-8s", "bpm")
	fmt.Fprintf(&b, "%-8d", 0)
	fmt.Fprintf(&b, "%-8d", 100)
	fmt.Fprintf(&b, "%-8d", 0)
	fmt.Fprintf(&b, "%-8d", 100)
	fmt.Fprintf(&b, "%-80s", "") // prefiltering
	fmt.Fprintf(&b, "%-8d", samplesPerRecord)
	fmt.Fprintf(&b, "%-32s", "")

	require.Equal(t, 512, b.Len())

	for _, s := range samples {
		require.NoError(t, binary.Write(&b, binary.LittleEndian, s))
	}
	return b.Bytes()
}

func TestReadHeader(t *testing.T) {
	data := buildEDF(t, "ECG_Rate", 2, 10, make([]int16, 20))

	hdr, err := edf.ReadHeader(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "0", hdr.Version)
	assert.Equal(t, "X F X test patient", hdr.PatientID)
	assert.Equal(t, "Startdate 01-JAN-2024", hdr.RecordingID)
	assert.Equal(t, time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC), hdr.StartTime)
	assert.Equal(t, 2, hdr.DataRecords)
	assert.Equal(t, time.Second, hdr.DataRecordDuration)

	require.Len(t, hdr.Signals, 1)
	sig := hdr.Signals[0]
	assert.Equal(t, "ECG_Rate", sig.Label)
	assert.Equal(t, "bpm", sig.PhysicalDimension)
	assert.Equal(t, 10, sig.SamplesPerRecord)
	assert.InDelta(t, 10.0, sig.SamplingRate(hdr.DataRecordDuration), 1e-12)
}

func TestReadRecording(t *testing.T) {
	samples := make([]int16, 20)
	for i := range samples {
		samples[i] = int16(i)
	}
	data := buildEDF(t, "ECG_Rate", 2, 10, samples)

	rec, err := edf.ReadRecording(bytes.NewReader(data))
	require.NoError(t, err)

	assert.InDelta(t, 10.0, rec.SamplingRate, 1e-12)
	require.Equal(t, []string{"ECG_Rate"}, rec.Columns)

	got := rec.Signals["ECG_Rate"]
	require.Len(t, got, 20)
	// Identity calibration: physical values equal the raw samples.
	for i, v := range got {
		assert.InDelta(t, float64(i), v, 1e-9)
	}
}

func TestReadRecordingUnknownRecordCount(t *testing.T) {
	samples := make([]int16, 30)
	for i := range samples {
		samples[i] = int16(i)
	}
	data := buildEDF(t, "ECG_Rate", 3, 10, samples)
	// Rewrite the record count field as unknown.
	copy(data[236:244], []byte(fmt.Sprintf("%-8d", -1)))

	rec, err := edf.ReadRecording(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, rec.Signals["ECG_Rate"], 30)
}

func TestReadRecordingTruncated(t *testing.T) {
	data := buildEDF(t, "ECG_Rate", 2, 10, make([]int16, 20))

	// Header cut short.
	_, err := edf.ReadHeader(bytes.NewReader(data[:100]))
	require.Error(t, err)

	// Data records cut short.
	_, err = edf.ReadRecording(bytes.NewReader(data[:520]))
	require.Error(t, err)
}
