// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The NeuroKit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayushmh/NeuroKit/ecg"
	"github.com/ayushmh/NeuroKit/edf"
	"github.com/ayushmh/NeuroKit/epochs"
	"github.com/ayushmh/NeuroKit/frame"
	"github.com/ayushmh/NeuroKit/internal/config"
)

// EventRelatedOptions holds flags for the eventrelated command.
type EventRelatedOptions struct {
	*RootOptions
	Output        string
	RateColumn    string
	Events        []float64
	EpochStart    float64
	EpochDuration float64
}

// NewEventRelatedCommand creates the eventrelated command.
func NewEventRelatedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventRelatedOptions{RootOptions: rootOpts}
	defaults := config.Defaults()

	cmd := &cobra.Command{
		Use:   "eventrelated <input.csv|input.edf>",
		Short: "Compute event-related rate features from epochs",
		Long: `Compute per-epoch, baseline-corrected heart-rate features around events.

A .csv input is read as a flat epochs table (with Epoch and Time columns).
An .edf input is read as a continuous recording and segmented into epochs
around the onsets given with --events.

Example:
  neurokit eventrelated epochs.csv --output csv
  neurokit eventrelated night.edf --events 5.0,10.0,15.0 --epoch-start -0.1 --epoch-duration 2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventRelated(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", defaults.Output, "output format: table, csv, json, md")
	cmd.Flags().StringVar(&opts.RateColumn, "rate-column", defaults.RateColumn, "signal to use as the heart-rate series in an EDF input")
	cmd.Flags().Float64SliceVar(&opts.Events, "events", nil, "event onsets in seconds (EDF input)")
	cmd.Flags().Float64Var(&opts.EpochStart, "epoch-start", defaults.EpochStart, "epoch start in seconds relative to each onset")
	cmd.Flags().Float64Var(&opts.EpochDuration, "epoch-duration", defaults.EpochDuration, "epoch duration in seconds")

	return cmd
}

func runEventRelated(opts *EventRelatedOptions, path string, cmd *cobra.Command) error {
	logger := setupLogging(opts.Verbose)

	cfg, err := config.Load(opts.ConfigFile, cmd.Flags())
	if err != nil {
		return err
	}

	var input any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".edf":
		input, err = loadEDF(path, opts.Events, cfg)
	default:
		input, err = loadFlatCSV(path)
	}
	if err != nil {
		return err
	}

	result, err := ecg.EventRelated(input, ecg.WithLogger(logger))
	if err != nil {
		return err
	}

	return renderFrame(cmd.OutOrStdout(), result, cfg.Output)
}

func loadFlatCSV(path string) (*epochs.Flat, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return epochs.ReadFlatCSV(f)
}

func loadEDF(path string, events []float64, cfg *config.Config) (epochs.Collection, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("EDF input requires --events")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec, err := edf.ReadRecording(f)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	// Map the selected channel onto the pipeline's rate column convention.
	if cfg.RateColumn != ecg.RateColumn {
		rec.Rename(cfg.RateColumn, ecg.RateColumn)
	}

	evs := make([]epochs.Event, len(events))
	for i, t := range events {
		evs[i] = epochs.Event{Onset: int(math.Round(t * rec.SamplingRate))}
	}

	return epochs.Create(rec, evs, cfg.EpochStart, cfg.EpochDuration)
}

func renderFrame(w io.Writer, f *frame.Frame, format string) error {
	switch format {
	case "csv":
		return f.WriteCSV(w)
	case "json":
		return f.WriteJSON(w)
	case "md", "markdown":
		f.RenderMarkdown(w)
		return nil
	case "", "table":
		f.RenderTable(w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
