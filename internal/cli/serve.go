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
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ayushmh/NeuroKit/internal/api"
	"github.com/ayushmh/NeuroKit/internal/config"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Listen string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}
	defaults := config.Defaults()

	cmd := &cobra.Command{
		Use:           "serve",
		Short:         "Serve the feature extractor over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", defaults.Listen, "address to listen on")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	logger := setupLogging(opts.Verbose)

	cfg, err := config.Load(opts.ConfigFile, cmd.Flags())
	if err != nil {
		return err
	}

	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	server := api.NewServer(logger)
	logger.Info("listening", "addr", cfg.Listen)
	return http.ListenAndServe(cfg.Listen, server.Router())
}
