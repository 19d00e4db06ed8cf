/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package radius derives the corner radius of a rounded rectangle inset
// uniformly inside another one so both corners read as concentric.
package radius

import (
	"fmt"
	"math"
)

// DomainError reports an input outside the solver's domain
// (negative, NaN or infinite).
type DomainError struct {
	Field string
	Value float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("radius: %s must be a finite non-negative number, got %v", e.Field, e.Value)
}

// Solve returns the inner corner radius for an outer radius and a uniform
// inset distance: max(outerRadius/π, outerRadius-distance).
//
// The result never drops below outerRadius/π. Solve panics with a
// *DomainError when an argument is negative, NaN or infinite; callers that
// take raw user input should use SolveChecked or clamp first.
func Solve(outerRadius, distance float64) float64 {
	v, err := SolveChecked(outerRadius, distance)
	if err != nil {
		panic(err)
	}
	return v
}

// SolveChecked is Solve without the panic.
func SolveChecked(outerRadius, distance float64) (float64, error) {
	if err := check("outerRadius", outerRadius); err != nil {
		return 0, err
	}
	if err := check("distance", distance); err != nil {
		return 0, err
	}
	return math.Max(Floor(outerRadius), outerRadius-distance), nil
}

// Floor is the smallest inner radius Solve will return for outerRadius.
func Floor(outerRadius float64) float64 { return outerRadius / math.Pi }

func check(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return &DomainError{Field: field, Value: v}
	}
	return nil
}
