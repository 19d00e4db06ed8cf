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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	xvector "golang.org/x/image/vector"

	"concentric/internal/radius"
	"concentric/internal/vector"
)

// RenderPNG rasterizes the nested rectangles at opt.Scale pixels per unit
// with anti-aliased corners.
func RenderPNG(st radius.State, opt Options) *image.RGBA {
	opt = opt.withDefaults()
	sc := NewScene(st, opt)
	mediaW, mediaH := sc.Size()
	pixW := max(1, int(math.Round(mediaW*opt.Scale)))
	pixH := max(1, int(math.Round(mediaH*opt.Scale)))

	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: toRGBA(vector.White)}, image.Point{}, draw.Src)

	xf := vector.Scale(float32(opt.Scale), float32(opt.Scale))
	for _, n := range []*vector.RoundedRectNode{sc.Outer, sc.Box} {
		drawNode(img, n, xf)
	}

	if opt.IncludeGuides {
		r := sc.Box.Bounds()
		x0 := int(math.Round(float64(r.X) * opt.Scale))
		y0 := int(math.Round(float64(r.Y) * opt.Scale))
		x1 := int(math.Round(float64(r.X+r.W)*opt.Scale)) - 1
		y1 := int(math.Round(float64(r.Y+r.H)*opt.Scale)) - 1
		if x1 >= x0 && y1 >= y0 {
			strokeRect(img, x0, y0, x1, y1, toRGBA(opt.GuideColor))
		}
		// baseline above the bottom edge leaves room for descenders
		drawCaption(img, sc.Caption(), int(math.Round(sc.Margin*opt.Scale)), pixH-4, toRGBA(opt.GuideColor))
	}
	return img
}

// ExportPNG writes a PNG file to outPath, creating parent directories.
func ExportPNG(st radius.State, outPath string, opt Options) error {
	img := RenderPNG(st, opt)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// drawNode paints a stroked, filled rounded rectangle. The stroke is the
// full shape in stroke color with the fill inset by the stroke width on
// top of it. xf maps the node's own space to pixels.
func drawNode(img *image.RGBA, n *vector.RoundedRectNode, xf vector.Affine2D) {
	xf = xf.Mul(n.Transform())
	r := n.Rect()
	rad := n.Radius()
	s := n.Stroke()
	fill := n.Fill()
	if s.Enabled && s.Width > 0 {
		fillPath(img, vector.RoundedRectPath(r, rad).Transform(xf), toRGBA(s.Color))
		r = r.Inset(s.Width, s.Width)
		rad = max(0, rad-s.Width)
	}
	if fill.Enabled && r.W > 0 && r.H > 0 {
		fillPath(img, vector.RoundedRectPath(r, rad).Transform(xf), toRGBA(fill.Color))
	}
}

func fillPath(img *image.RGBA, p vector.Path, col color.RGBA) {
	b := img.Bounds()
	z := xvector.NewRasterizer(b.Dx(), b.Dy())
	for _, c := range p.Cmds {
		d := c.Data
		switch c.Op {
		case vector.MoveTo:
			z.MoveTo(d[0], d[1])
		case vector.LineTo:
			z.LineTo(d[0], d[1])
		case vector.CubicTo:
			z.CubeTo(d[0], d[1], d[2], d[3], d[4], d[5])
		case vector.Close:
			z.ClosePath()
		}
	}
	z.Draw(img, b, image.NewUniform(col), image.Point{})
}

func toRGBA(c vector.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}
