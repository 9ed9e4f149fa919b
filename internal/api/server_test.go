// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The NeuroKit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushmh/NeuroKit/internal/api"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return api.NewServer(logger).Router()
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEventRelatedEndpoint(t *testing.T) {
	router := testRouter()

	// 10 Hz ramp with one event in the middle.
	rate := make([]float64, 100)
	for i := range rate {
		rate[i] = 60 + float64(i)*0.1
	}

	w := postJSON(t, router, "/api/v1/eventrelated", api.EventRelatedRequest{
		SamplingRate:  10,
		Rate:          rate,
		Events:        []api.EventRequest{{Onset: 50, Label: "go", Condition: "neg"}},
		EpochStart:    -0.5,
		EpochDuration: 1.5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.EventRelatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Labeled events key their epoch by the label.
	require.Equal(t, []string{"go"}, resp.Index)
	features := resp.Features["go"]
	require.NotNil(t, features)

	// Ramp: max deviation is the last post-event sample minus the baseline
	// mean of the 6 samples at offsets -0.5..0.
	maxDev, ok := features["ECG_Rate_Max"].(float64)
	require.True(t, ok)
	assert.InDelta(t, 65.9-64.75, maxDev, 1e-9)

	assert.Equal(t, "go", features["Label"])
	assert.Equal(t, "neg", features["Condition"])
}

func TestEventRelatedEndpointBadRequest(t *testing.T) {
	router := testRouter()

	// Missing the rate series entirely.
	w := postJSON(t, router, "/api/v1/eventrelated", map[string]any{
		"sampling_rate":  10,
		"epoch_duration": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request")
}

func TestEventRelatedEndpointBadWindow(t *testing.T) {
	router := testRouter()

	w := postJSON(t, router, "/api/v1/eventrelated", api.EventRelatedRequest{
		SamplingRate:  10,
		Rate:          []float64{60, 61, 62},
		Events:        []api.EventRequest{{Onset: 100}},
		EpochDuration: 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid epoch window")
}

func TestHealth(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
