/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package radius

import (
	"strconv"
	"strings"
)

// DefaultMaxInput caps any single field typed into the calculator.
const DefaultMaxInput = 1024

// ParseField turns raw field text into a value. Everything except ASCII
// digits is dropped and the result is capped at maxInput. ok is false when
// nothing numeric is left, which the calculator shows as "no result".
func ParseField(raw string, maxInput float64) (value float64, sanitized string, ok bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	sanitized = b.String()
	if sanitized == "" {
		return 0, "", false
	}
	v, err := strconv.ParseFloat(sanitized, 64)
	if err != nil {
		return 0, "", false
	}
	if maxInput > 0 && v > maxInput {
		v = maxInput
		sanitized = strconv.FormatFloat(maxInput, 'f', -1, 64)
	}
	return v, sanitized, true
}

// SolveFields is the form flow: parse both fields, and when both are
// present return the formatted inner radius.
func SolveFields(outerRadius, distance string, maxInput float64) (string, bool) {
	r, _, okR := ParseField(outerRadius, maxInput)
	d, _, okD := ParseField(distance, maxInput)
	if !okR || !okD {
		return "", false
	}
	return Format(Solve(r, d)), true
}
