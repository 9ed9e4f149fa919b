// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The NeuroKit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package api exposes the event-related extractor over HTTP.
package api

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayushmh/NeuroKit/ecg"
	"github.com/ayushmh/NeuroKit/epochs"
	"github.com/ayushmh/NeuroKit/frame"
)

// Server handles HTTP requests for event-related analysis.
type Server struct {
	logger *slog.Logger
}

// NewServer creates a new Server logging through the given logger.
func NewServer(logger *slog.Logger) *Server {
	return &Server{logger: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	{
		api.POST("/eventrelated", s.EventRelated)
		api.GET("/health", s.Health)
	}

	return router
}

// EventRequest marks one event onset in the submitted recording.
type EventRequest struct {
	Onset     int    `json:"onset"`
	Label     string `json:"label"`
	Condition string `json:"condition"`
}

// EventRelatedRequest carries a continuous rate recording and the events to
// epoch it around.
type EventRelatedRequest struct {
	SamplingRate  float64        `json:"sampling_rate" binding:"required"`
	Rate          []float64      `json:"rate" binding:"required"`
	Events        []EventRequest `json:"events" binding:"required"`
	EpochStart    float64        `json:"epoch_start"`
	EpochDuration float64        `json:"epoch_duration" binding:"required"`
}

// EventRelatedResponse is the per-epoch feature table. NaN features, which
// have no JSON representation, are returned as null.
type EventRelatedResponse struct {
	Index    []string                  `json:"index"`
	Columns  []string                  `json:"columns"`
	Features map[string]map[string]any `json:"features"`
}

// EventRelated computes baseline-corrected rate features for each event.
func (s *Server) EventRelated(c *gin.Context) {
	var req EventRelatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request",
			"details": err.Error(),
		})
		return
	}

	rec := epochs.NewRecording(req.SamplingRate)
	rec.AddSignal(ecg.RateColumn, req.Rate)

	events := make([]epochs.Event, len(req.Events))
	for i, ev := range req.Events {
		events[i] = epochs.Event{Onset: ev.Onset, Label: ev.Label, Condition: ev.Condition}
	}

	coll, err := epochs.Create(rec, events, req.EpochStart, req.EpochDuration)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid epoch window",
			"details": err.Error(),
		})
		return
	}

	result, err := ecg.EventRelated(coll, ecg.WithLogger(s.logger))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "analysis failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, toResponse(result))
}

// Health reports liveness.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func toResponse(f *frame.Frame) EventRelatedResponse {
	resp := EventRelatedResponse{
		Index:    f.Index,
		Columns:  f.Columns,
		Features: make(map[string]map[string]any, len(f.Index)),
	}
	for _, id := range f.Index {
		row := make(map[string]any)
		for _, col := range f.Columns {
			v, ok := f.At(id, col)
			if !ok {
				continue
			}
			if fv, isFloat := v.(float64); isFloat && math.IsNaN(fv) {
				v = nil
			}
			row[col] = v
		}
		resp.Features[id] = row
	}
	return resp
}
