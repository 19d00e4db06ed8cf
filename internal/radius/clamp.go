/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package radius

import "math"

// State is the input tuple of the calculator: the outer rectangle and the
// uniform inset. The inner rectangle is always derived, never stored.
type State struct {
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	Radius   float64 `json:"radius" yaml:"radius"`
	Distance float64 `json:"distance" yaml:"distance"`
}

// Bounds limits the outer rectangle size. A zero MinSize or MaxSize leaves
// that side unbounded.
type Bounds struct {
	MinSize float64 `json:"minSize" yaml:"min_size"`
	MaxSize float64 `json:"maxSize" yaml:"max_size"`
}

// Inner describes the derived inner rectangle.
type Inner struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Radius float64 `json:"radius"`
}

// Defaults used by Reset.
var (
	DefaultState  = State{Width: 512, Height: 512, Radius: 10, Distance: 4}
	DefaultBounds = Bounds{MinSize: 256, MaxSize: 512}
)

// MaxRadius is the largest corner radius the outer rectangle can carry:
// half of its shorter side.
func (s State) MaxRadius() float64 { return math.Min(s.Width, s.Height) / 2 }

// MaxPadding is the largest inset that still leaves a (degenerate) inner
// rectangle. It equals MaxRadius.
func (s State) MaxPadding() float64 { return s.MaxRadius() }

// Inner derives the inner rectangle from s. s is expected to be settled.
func (s State) Inner() Inner {
	return Inner{
		Width:  math.Max(0, s.Width-2*s.Distance),
		Height: math.Max(0, s.Height-2*s.Distance),
		Radius: Solve(s.Radius, s.Distance),
	}
}

// Settle applies the clamp rules in order: width and height into b, then
// radius and distance into [0, min(width, height)/2]. Settle is idempotent.
func Settle(s State, b Bounds) State {
	s.Width = clampSize(s.Width, b)
	s.Height = clampSize(s.Height, b)

	limit := s.MaxRadius()
	s.Radius = clamp(s.Radius, 0, limit)
	s.Distance = clamp(s.Distance, 0, limit)
	return s
}

// WithWidth returns the settled state after changing the width.
func (s State) WithWidth(w float64, b Bounds) State {
	s.Width = w
	return Settle(s, b)
}

// WithHeight returns the settled state after changing the height.
func (s State) WithHeight(h float64, b Bounds) State {
	s.Height = h
	return Settle(s, b)
}

// WithRadius returns the settled state after changing the outer radius.
func (s State) WithRadius(r float64, b Bounds) State {
	s.Radius = r
	return Settle(s, b)
}

// WithDistance returns the settled state after changing the inset.
func (s State) WithDistance(d float64, b Bounds) State {
	s.Distance = d
	return Settle(s, b)
}

func clampSize(v float64, b Bounds) float64 {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	if b.MinSize > 0 && v < b.MinSize {
		v = b.MinSize
	}
	if b.MaxSize > 0 && v > b.MaxSize {
		v = b.MaxSize
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
