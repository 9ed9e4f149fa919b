// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The NeuroKit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package stats provides the small numeric helpers used by the event-related
// analysis: polynomial least squares and goodness-of-fit.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Polyfit fits a least-squares polynomial of the given degree to the points
// (x, y) and returns the coefficients ordered from the highest power down to
// the constant term.
func Polyfit(x, y []float64, degree int) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("polyfit: mismatched input lengths %d and %d", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, errors.New("polyfit: empty input")
	}
	if degree < 0 {
		return nil, fmt.Errorf("polyfit: invalid degree %d", degree)
	}

	// Vandermonde matrix with columns x^degree .. x^0.
	a := mat.NewDense(len(x), degree+1, nil)
	for i, v := range x {
		p := 1.0
		for j := degree; j >= 0; j-- {
			a.Set(i, j, p)
			p *= v
		}
	}

	b := mat.NewVecDense(len(y), y)
	var c mat.VecDense
	if err := c.SolveVec(a, b); err != nil {
		// A Condition error still carries a usable solution; anything else
		// means the system could not be solved.
		if _, ok := err.(mat.Condition); !ok {
			return nil, fmt.Errorf("polyfit: %w", err)
		}
	}

	coefs := make([]float64, degree+1)
	for i := range coefs {
		coefs[i] = c.AtVec(i)
	}
	return coefs, nil
}

// Polyval evaluates a polynomial with coefficients ordered from the highest
// power down to the constant term at each point of x.
func Polyval(coefs, x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		y := 0.0
		for _, c := range coefs {
			y = y*v + c
		}
		out[i] = y
	}
	return out
}

// FitR2 returns the coefficient of determination between observed values and
// model predictions. With adjusted set, the value is penalized for the number
// of fitted parameters. Returns NaN when the inputs are empty, of unequal
// length, or when the adjustment has no degrees of freedom left.
func FitR2(observed, predicted []float64, adjusted bool, nParameters int) float64 {
	if len(observed) == 0 || len(observed) != len(predicted) {
		return math.NaN()
	}

	r2 := stat.RSquaredFrom(predicted, observed, nil)
	if !adjusted {
		return r2
	}

	n := float64(len(observed))
	p := float64(nParameters)
	if n-p-1 <= 0 {
		return math.NaN()
	}
	return 1 - (1-r2)*(n-1)/(n-p-1)
}
