/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package radius

import "math"

// Placement positions an inner rectangle inside an outer one by its
// top-left offset.
type Placement struct {
	Width  float64
	Height float64
	X      float64
	Y      float64
}

// SolvePlaced estimates a radius for an inner rectangle that is not
// necessarily centered. The outer radius is scaled by the size ratio on
// each axis and capped by the smallest gap to any outer edge.
func SolvePlaced(outerWidth, outerHeight, outerRadius float64, in Placement) float64 {
	if outerWidth <= 0 || outerHeight <= 0 {
		return 0
	}
	right := outerWidth - (in.X + in.Width)
	bottom := outerHeight - (in.Y + in.Height)

	rw := outerRadius * in.Width / outerWidth
	rh := outerRadius * in.Height / outerHeight
	gap := math.Max(0, min(in.X, in.Y, right, bottom))

	return math.Max(0, min(rw, rh, gap))
}
