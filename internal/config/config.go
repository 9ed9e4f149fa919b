// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The NeuroKit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package config loads tool configuration from defaults, an optional yaml
// file, NEUROKIT_* environment variables and command-line flags, in
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "NEUROKIT_"

// Config holds the settings shared by the CLI and the HTTP service.
type Config struct {
	// RateColumn names the signal to treat as the heart-rate series when
	// the input does not already follow the pipeline's naming convention.
	RateColumn string `koanf:"rate_column"`
	// Output selects the CLI output format: table, csv, json or md.
	Output string `koanf:"output"`
	// Listen is the HTTP service's listen address.
	Listen string `koanf:"listen"`
	// EpochStart and EpochDuration define the default epoch window in
	// seconds relative to each event onset.
	EpochStart    float64 `koanf:"epoch_start"`
	EpochDuration float64 `koanf:"epoch_duration"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		RateColumn:    "ECG_Rate",
		Output:        "table",
		Listen:        ":8080",
		EpochStart:    -0.1,
		EpochDuration: 2.0,
	}
}

// Load merges defaults, the config file (explicit path, or neurokit.yaml /
// neurokit.yml in the working directory), environment variables and any
// explicitly-set flags. Flag names map to config keys with dashes replaced
// by underscores.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := Defaults()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"rate_column":    defaults.RateColumn,
		"output":         defaults.Output,
		"listen":         defaults.Listen,
		"epoch_start":    defaults.EpochStart,
		"epoch_duration": defaults.EpochDuration,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		for _, name := range []string{"neurokit.yaml", "neurokit.yml"} {
			if _, err := os.Stat(name); err == nil {
				cfgFile = name
				break
			}
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}
