/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Node is a drawable item that renderers (Fyne canvas, PNG, PDF, SVG) can
// consume. It supports a transform, styling, bounds and hit-testing.
type Node interface {
	Bounds() Rect
	Transform() Affine2D
	SetTransform(Affine2D)
	Fill() Fill
	Stroke() Stroke
	SetFill(Fill)
	SetStroke(Stroke)
	Hit(p Pt) bool
	Outline() Path
}

type baseNode struct {
	xf     Affine2D
	fill   Fill
	stroke Stroke
}

func (b *baseNode) Transform() Affine2D     { return b.xf }
func (b *baseNode) SetTransform(m Affine2D) { b.xf = m }
func (b *baseNode) Fill() Fill              { return b.fill }
func (b *baseNode) Stroke() Stroke          { return b.stroke }
func (b *baseNode) SetFill(f Fill)          { b.fill = f }
func (b *baseNode) SetStroke(s Stroke)      { b.stroke = s }

// RoundedRectNode uses uniform radii. A zero radius is a plain rectangle.
type RoundedRectNode struct {
	baseNode
	rect Rect
	r    float32
}

func NewRoundedRect(r Rect, radius float32, f Fill, s Stroke) *RoundedRectNode {
	return &RoundedRectNode{baseNode: baseNode{xf: Identity, fill: f, stroke: s}, rect: r, r: radius}
}

// Rect returns the untransformed rectangle.
func (n *RoundedRectNode) Rect() Rect { return n.rect }

// Radius returns the corner radius, capped to what the rectangle can carry.
func (n *RoundedRectNode) Radius() float32 { return max(0, min(n.r, n.rect.W/2, n.rect.H/2)) }

// Outline returns the transformed outline path.
func (n *RoundedRectNode) Outline() Path {
	return RoundedRectPath(n.rect, n.r).Transform(n.xf)
}

func (n *RoundedRectNode) Bounds() Rect {
	// transform the 4 corners; good enough for translate/scale
	minX, minY := float32(+1e9), float32(+1e9)
	maxX, maxY := float32(-1e9), float32(-1e9)
	corners := []Pt{n.rect.Min(), {n.rect.X + n.rect.W, n.rect.Y}, {n.rect.X, n.rect.Y + n.rect.H}, n.rect.Max()}
	for _, c := range corners {
		p := n.xf.Apply(c)
		minX, minY = min(minX, p.X), min(minY, p.Y)
		maxX, maxY = max(maxX, p.X), max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func (n *RoundedRectNode) Hit(p Pt) bool {
	q := invert(n.xf).Apply(p)
	if !n.rect.Contains(q) {
		return false
	}
	r := n.Radius()
	// If inside the cross formed by the straight edges, it's a hit
	if (q.X >= n.rect.X+r && q.X <= n.rect.X+n.rect.W-r) || (q.Y >= n.rect.Y+r && q.Y <= n.rect.Y+n.rect.H-r) {
		return true
	}
	// Otherwise test the four quarter-circles
	cx := []float32{n.rect.X + r, n.rect.X + n.rect.W - r}
	cy := []float32{n.rect.Y + r, n.rect.Y + n.rect.H - r}
	r2 := r * r
	for _, x := range cx {
		for _, y := range cy {
			dx := q.X - x
			dy := q.Y - y
			if dx*dx+dy*dy <= r2 {
				return true
			}
		}
	}
	return false
}

// invert computes the inverse of an affine matrix (if invertible).
func invert(m Affine2D) Affine2D {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Identity
	}
	invDet := 1 / det
	return Affine2D{
		A: m.D * invDet,
		B: -m.B * invDet,
		C: -m.C * invDet,
		D: m.A * invDet,
		E: (m.C*m.F - m.D*m.E) * invDet,
		F: (m.B*m.E - m.A*m.F) * invDet,
	}
}
