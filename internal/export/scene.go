/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"strings"

	"concentric/internal/radius"
	"concentric/internal/vector"
)

// Format is an output file type.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts svg, png or pdf in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSVG, FormatPNG, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format: %q", s)
	}
}

// Ext is the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// Options controls every exporter. Zero values get defaults.
//
//nolint:revive // keep options grouped and explicit for clarity
type Options struct {
	// Scale is pixels per unit for PNG output.
	Scale float64
	// Margin around the outer rectangle, in units.
	Margin float64
	// IncludeGuides draws the unrounded inner box and a caption with the
	// solved values.
	IncludeGuides bool
	OuterFill     vector.Color
	InnerFill     vector.Color
	OuterStroke   vector.Stroke
	InnerStroke   vector.Stroke
	GuideColor    vector.Color
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.OuterFill.IsZero() {
		o.OuterFill = vector.Color{R: 0xe5, G: 0xe7, B: 0xeb, A: 255}
	}
	if o.InnerFill.IsZero() {
		o.InnerFill = vector.Color{R: 0x3b, G: 0x82, B: 0xf6, A: 255}
	}
	if o.OuterStroke.Width == 0 {
		o.OuterStroke = vector.Stroke{Color: vector.Color{R: 0x9c, G: 0xa3, B: 0xaf, A: 255}, Width: 1, Enabled: true}
	}
	if o.InnerStroke.Width == 0 {
		o.InnerStroke = vector.Stroke{Color: vector.Color{R: 0x1d, G: 0x4e, B: 0xd8, A: 255}, Width: 1, Enabled: true}
	}
	if o.GuideColor.IsZero() {
		o.GuideColor = vector.Color{R: 255, A: 255}
	}
	return o
}

// Scene is the pair of nested rounded rectangles for one settled state.
// Both are laid out from the origin and moved into the margin by their
// transform.
type Scene struct {
	State  radius.State
	Inner  radius.Inner
	Margin float64
	Outer  *vector.RoundedRectNode
	Box    *vector.RoundedRectNode
}

// NewScene settles nothing; callers pass a state that already went
// through radius.Settle.
func NewScene(st radius.State, opt Options) Scene {
	opt = opt.withDefaults()
	in := st.Inner()
	outerRect := vector.R(0, 0, float32(st.Width), float32(st.Height))
	d := float32(st.Distance)
	outer := vector.NewRoundedRect(outerRect, float32(st.Radius),
		vector.Fill{Color: opt.OuterFill, Enabled: true}, opt.OuterStroke)
	box := vector.NewRoundedRect(outerRect.Inset(d, d), float32(in.Radius),
		vector.Fill{Color: opt.InnerFill, Enabled: true}, opt.InnerStroke)
	m := float32(opt.Margin)
	for _, n := range []vector.Node{outer, box} {
		n.SetTransform(vector.Translate(m, m))
	}
	return Scene{State: st, Inner: in, Margin: opt.Margin, Outer: outer, Box: box}
}

// Nodes lists the drawables back to front.
func (s Scene) Nodes() []vector.Node { return []vector.Node{s.Outer, s.Box} }

// Size is the full media size in units.
func (s Scene) Size() (w, h float64) {
	return s.State.Width + 2*s.Margin, s.State.Height + 2*s.Margin
}

// Caption summarises the solved values.
func (s Scene) Caption() string {
	return fmt.Sprintf("outer %s, padding %s, inner %s",
		radius.Format(s.State.Radius), radius.Format(s.State.Distance), radius.Format(s.Inner.Radius))
}

// BaseName is the default file name (without extension) for a state.
func BaseName(st radius.State) string {
	return fmt.Sprintf("concentric-%sx%s-r%s-d%s",
		radius.Format(st.Width), radius.Format(st.Height), radius.Format(st.Radius), radius.Format(st.Distance))
}
