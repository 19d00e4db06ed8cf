//go:build fyne

/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"concentric/internal/session"
	"concentric/internal/vector"
)

const (
	handleSize = 12
	canvasPad  = 24
)

// dragMode is the handle a drag started on.
type dragMode int

const (
	dragNone dragMode = iota
	dragResize
	dragRadius
	dragDistance
)

// PreviewCanvas draws the outer and inner rounded rectangles of a session
// and lets the user drag three handles: the bottom-right corner resizes the
// box, the top-edge knob moves the outer radius and the left knob on the
// inner box moves the padding.
type PreviewCanvas struct {
	widget.BaseWidget

	sess *session.Session
	view session.View

	drag dragMode
	// sub-unit drag remainder, in state units
	accX, accY float64
}

func NewPreviewCanvas(s *session.Session) *PreviewCanvas {
	p := &PreviewCanvas{sess: s, view: s.View()}
	p.ExtendBaseWidget(p)
	return p
}

// SetView updates the drawn state. Call on the UI goroutine.
func (p *PreviewCanvas) SetView(v session.View) {
	p.view = v
	p.Refresh()
}

// scale maps state units to canvas pixels so the largest allowed box fits.
func (p *PreviewCanvas) scale(size fyne.Size) float32 {
	maxSide := float32(p.sess.Bounds().MaxSize)
	if maxSide <= 0 {
		maxSide = float32(max(p.view.State.Width, p.view.State.Height))
	}
	if maxSide <= 0 {
		return 1
	}
	avail := min(size.Width, size.Height) - 2*canvasPad
	if avail <= 0 {
		return 1
	}
	return avail / maxSide
}

// geometry returns the outer box origin and the scale for size.
func (p *PreviewCanvas) geometry(size fyne.Size) (origin fyne.Position, sc float32) {
	sc = p.scale(size)
	st := p.view.State
	w := float32(st.Width) * sc
	h := float32(st.Height) * sc
	return fyne.NewPos((size.Width-w)/2, (size.Height-h)/2), sc
}

// handles returns the top-left corners of the resize, radius and distance
// handles.
func (p *PreviewCanvas) handles(size fyne.Size) (resize, rad, dist fyne.Position) {
	o, sc := p.geometry(size)
	st := p.view.State
	w := float32(st.Width) * sc
	h := float32(st.Height) * sc
	half := float32(handleSize) / 2
	resize = fyne.NewPos(o.X+w-half, o.Y+h-half)
	rad = fyne.NewPos(o.X+float32(st.Radius)*sc-half, o.Y-half)
	dist = fyne.NewPos(o.X+float32(st.Distance)*sc-half, o.Y+h/2-half)
	return resize, rad, dist
}

// handleHit reports whether pos grabs the handle drawn at the top-left
// corner handle. Round knobs have a round hit area, the resize square a
// square one, both grown by a few pixels of slop.
func handleHit(pos, handle fyne.Position, round bool) bool {
	const slop = 4
	area := vector.R(-slop, -slop, handleSize+2*slop, handleSize+2*slop)
	var r float32
	if round {
		r = area.W / 2
	}
	n := vector.NewRoundedRect(area, r, vector.Fill{}, vector.Stroke{})
	n.SetTransform(vector.Translate(handle.X, handle.Y))
	return n.Hit(vector.Pt{X: pos.X, Y: pos.Y})
}

func (p *PreviewCanvas) Dragged(e *fyne.DragEvent) {
	size := p.Size()
	_, sc := p.geometry(size)
	if p.drag == dragNone {
		// the drag event already moved by DX/DY; test where it started
		start := fyne.NewPos(e.Position.X-e.Dragged.DX, e.Position.Y-e.Dragged.DY)
		resize, rad, dist := p.handles(size)
		switch {
		case handleHit(start, resize, false):
			p.drag = dragResize
		case handleHit(start, rad, true):
			p.drag = dragRadius
		case handleHit(start, dist, true):
			p.drag = dragDistance
		default:
			return
		}
		p.accX, p.accY = 0, 0
	}

	p.accX += float64(e.Dragged.DX / sc)
	p.accY += float64(e.Dragged.DY / sc)
	stepX := math.Trunc(p.accX)
	stepY := math.Trunc(p.accY)
	p.accX -= stepX
	p.accY -= stepY

	switch p.drag {
	case dragResize:
		// the box is centered, so each side moves by half the pointer delta
		if stepX != 0 || stepY != 0 {
			p.sess.ResizeBy(2*stepX, 2*stepY)
		}
	case dragRadius:
		if stepX != 0 {
			p.sess.DragRadius(stepX)
		}
	case dragDistance:
		if stepX != 0 {
			p.sess.DragDistance(stepX)
		}
	}
}

func (p *PreviewCanvas) DragEnd() {
	p.drag = dragNone
	p.accX, p.accY = 0, 0
}

func (p *PreviewCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &previewRenderer{
		pc:     p,
		bg:     canvas.NewRectangle(color.RGBA{R: 248, G: 250, B: 252, A: 255}),
		outer:  canvas.NewRectangle(color.RGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 255}),
		inner:  canvas.NewRectangle(color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 255}),
		label:  canvas.NewText("", color.White),
		resize: canvas.NewRectangle(color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 255}),
		rad:    canvas.NewCircle(color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 255}),
		dist:   canvas.NewCircle(color.RGBA{R: 0x10, G: 0xb9, B: 0x81, A: 255}),
	}
	r.outer.StrokeColor = color.RGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 255}
	r.outer.StrokeWidth = 1
	r.label.Alignment = fyne.TextAlignCenter
	r.label.TextStyle = fyne.TextStyle{Monospace: true}
	r.objects = []fyne.CanvasObject{r.bg, r.outer, r.inner, r.label, r.resize, r.rad, r.dist}
	return r
}

type previewRenderer struct {
	pc           *PreviewCanvas
	objects      []fyne.CanvasObject
	bg           *canvas.Rectangle
	outer, inner *canvas.Rectangle
	label        *canvas.Text
	resize       *canvas.Rectangle
	rad, dist    *canvas.Circle
}

func (r *previewRenderer) Destroy()                     {}
func (r *previewRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *previewRenderer) MinSize() fyne.Size           { return fyne.NewSize(320, 320) }
func (r *previewRenderer) Refresh()                     { r.Layout(r.pc.Size()); canvas.Refresh(r.pc) }

func (r *previewRenderer) Layout(size fyne.Size) {
	r.bg.Move(fyne.NewPos(0, 0))
	r.bg.Resize(size)

	v := r.pc.view
	o, sc := r.pc.geometry(size)
	st := v.State
	r.outer.Move(o)
	r.outer.Resize(fyne.NewSize(float32(st.Width)*sc, float32(st.Height)*sc))
	r.outer.CornerRadius = float32(st.Radius) * sc

	d := float32(st.Distance) * sc
	r.inner.Move(fyne.NewPos(o.X+d, o.Y+d))
	r.inner.Resize(fyne.NewSize(float32(v.Inner.Width)*sc, float32(v.Inner.Height)*sc))
	r.inner.CornerRadius = float32(v.Inner.Radius) * sc
	r.inner.Hidden = v.Inner.Width <= 0 || v.Inner.Height <= 0

	r.label.Text = innerLabel(v)
	r.label.Move(fyne.NewPos(o.X, o.Y+float32(st.Height)*sc/2-r.label.MinSize().Height/2))
	r.label.Resize(fyne.NewSize(float32(st.Width)*sc, r.label.MinSize().Height))

	hs := fyne.NewSize(handleSize, handleSize)
	resize, rad, dist := r.pc.handles(size)
	r.resize.Move(resize)
	r.resize.Resize(hs)
	r.rad.Move(rad)
	r.rad.Resize(hs)
	r.dist.Move(dist)
	r.dist.Resize(hs)

	for _, obj := range r.objects {
		obj.Refresh()
	}
}

// innerLabel is the text shown inside the inner box.
func innerLabel(v session.View) string {
	if !v.HasResult {
		return "no result"
	}
	return "r = " + v.InnerText
}
