// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The NeuroKit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package edf reads EDF/EDF+ recordings into the continuous form consumed by
// the epoch segmentation step.
package edf

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ayushmh/NeuroKit/epochs"
)

// Header holds the EDF/EDF+ file header fields needed to decode signals.
type Header struct {
	Version            string
	PatientID          string
	RecordingID        string
	StartTime          time.Time
	DataRecords        int           // -1 if unknown
	DataRecordDuration time.Duration // duration of a single data record
	Signals            []Signal
}

// Signal describes one channel of the recording.
type Signal struct {
	Label             string
	PhysicalDimension string  // e.g. bpm, uV
	PhysicalMin       float64 // calibration range, physical units
	PhysicalMax       float64
	DigitalMin        int // calibration range, raw sample units
	DigitalMax        int
	SamplesPerRecord  int
}

// SamplingRate returns the channel's sampling rate in Hz given the record
// duration from the header.
func (s Signal) SamplingRate(recordDuration time.Duration) float64 {
	if recordDuration <= 0 {
		return 0
	}
	return float64(s.SamplesPerRecord) / recordDuration.Seconds()
}

// fieldReader consumes the fixed-width ASCII fields of an EDF header in
// order, carrying the first read error.
type fieldReader struct {
	r   io.Reader
	err error
}

func (fr *fieldReader) str(n int) string {
	if fr.err != nil {
		return ""
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(fr.r, b); err != nil {
		fr.err = err
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (fr *fieldReader) int(n int) int {
	v, err := strconv.Atoi(fr.str(n))
	if err != nil {
		return 0
	}
	return v
}

func (fr *fieldReader) float(n int) float64 {
	v, err := strconv.ParseFloat(fr.str(n), 64)
	if err != nil {
		return 0
	}
	return v
}

// ReadHeader parses an EDF/EDF+ header from the start of r, leaving r
// positioned at the first data record.
func ReadHeader(r io.Reader) (*Header, error) {
	fr := &fieldReader{r: r}

	hdr := &Header{}
	hdr.Version = fr.str(8)
	hdr.PatientID = fr.str(80)
	hdr.RecordingID = fr.str(80)
	dateStr := fr.str(8)
	timeStr := fr.str(8)
	fr.str(8)  // header byte count, implied by the signal count
	fr.str(44) // reserved
	hdr.DataRecords = fr.int(8)
	durationStr := fr.str(8)
	signalCount := fr.int(4)
	if fr.err != nil {
		return nil, fmt.Errorf("error reading header: %w", fr.err)
	}

	startDate, err := time.Parse("02.01.06", dateStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing start date: %w", err)
	}
	startTime, err := time.Parse("15.04.05", timeStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing start time: %w", err)
	}
	hdr.StartTime = time.Date(startDate.Year(), startDate.Month(), startDate.Day(),
		startTime.Hour(), startTime.Minute(), startTime.Second(), 0, time.UTC)

	hdr.DataRecordDuration, err = time.ParseDuration(durationStr + "s")
	if err != nil {
		return nil, fmt.Errorf("error parsing data record duration: %w", err)
	}

	// Signal headers are stored field-major: all labels first, then all
	// transducer types, and so on.
	hdr.Signals = make([]Signal, signalCount)
	for i := range hdr.Signals {
		hdr.Signals[i].Label = fr.str(16)
	}
	for i := 0; i < signalCount; i++ {
		fr.str(80) // transducer type
	}
	for i := range hdr.Signals {
		hdr.Signals[i].PhysicalDimension = fr.str(8)
	}
	for i := range hdr.Signals {
		hdr.Signals[i].PhysicalMin = fr.float(8)
	}
	for i := range hdr.Signals {
		hdr.Signals[i].PhysicalMax = fr.float(8)
	}
	for i := range hdr.Signals {
		hdr.Signals[i].DigitalMin = fr.int(8)
	}
	for i := range hdr.Signals {
		hdr.Signals[i].DigitalMax = fr.int(8)
	}
	for i := 0; i < signalCount; i++ {
		fr.str(80) // prefiltering
	}
	for i := range hdr.Signals {
		hdr.Signals[i].SamplesPerRecord = fr.int(8)
	}
	for i := 0; i < signalCount; i++ {
		fr.str(32) // reserved
	}
	if fr.err != nil {
		return nil, fmt.Errorf("error reading signal headers: %w", fr.err)
	}

	return hdr, nil
}

// ReadRecording decodes an entire EDF/EDF+ file into a continuous recording,
// converting raw samples to physical units with each signal's calibration
// factors. All signals must share one sampling rate; mixed-rate files are
// rejected so that the epoch index stays well-defined.
func ReadRecording(r io.Reader) (*epochs.Recording, error) {
	br := bufio.NewReader(r)

	hdr, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}
	if len(hdr.Signals) == 0 {
		return nil, fmt.Errorf("file has no signals")
	}

	spr := hdr.Signals[0].SamplesPerRecord
	for _, sig := range hdr.Signals[1:] {
		if sig.SamplesPerRecord != spr {
			return nil, fmt.Errorf("mixed sampling rates: signal %q has %d samples per record, %q has %d",
				sig.Label, sig.SamplesPerRecord, hdr.Signals[0].Label, spr)
		}
	}

	rec := epochs.NewRecording(hdr.Signals[0].SamplingRate(hdr.DataRecordDuration))
	samples := make(map[string][]float64, len(hdr.Signals))

	buf := make([]byte, 2)
	for record := 0; ; record++ {
		if hdr.DataRecords >= 0 {
			if record >= hdr.DataRecords {
				break
			}
		} else if _, err := br.Peek(1); err == io.EOF {
			// Record count unknown; stop at a clean record boundary.
			break
		}

		for _, sig := range hdr.Signals {
			for j := 0; j < sig.SamplesPerRecord; j++ {
				if _, err := io.ReadFull(br, buf); err != nil {
					return nil, fmt.Errorf("error reading data record %d: %w", record, err)
				}
				digital := int16(binary.LittleEndian.Uint16(buf))
				samples[sig.Label] = append(samples[sig.Label], physical(digital, sig))
			}
		}
	}

	for _, sig := range hdr.Signals {
		rec.AddSignal(sig.Label, samples[sig.Label])
	}
	return rec, nil
}

// physical converts a raw sample to physical units using the signal's
// calibration factors.
func physical(digital int16, sig Signal) float64 {
	if sig.DigitalMax == sig.DigitalMin {
		return 0 // avoid division by zero
	}
	scale := (sig.PhysicalMax - sig.PhysicalMin) / float64(sig.DigitalMax-sig.DigitalMin)
	return sig.PhysicalMin + (float64(digital)-float64(sig.DigitalMin))*scale
}
