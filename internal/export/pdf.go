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
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"concentric/internal/radius"
	"concentric/internal/vector"
)

// ExportPDF writes a single-page PDF with one unit mapped to one point.
// Corners are drawn as the same cubic outline the PNG renderer uses.
func ExportPDF(st radius.State, outPath string, opt Options) error {
	opt = opt.withDefaults()
	sc := NewScene(st, opt)
	mediaW, mediaH := sc.Size()

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: mediaW, Ht: mediaH},
	})
	pdf.SetTitle("Concentric radius "+BaseName(st), false)
	pdf.SetAuthor("concentric", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	for _, n := range sc.Nodes() {
		style := ""
		if f := n.Fill(); f.Enabled {
			setFillColor(pdf, f.Color)
			style += "F"
		}
		if s := n.Stroke(); s.Enabled && s.Width > 0 {
			setDrawColor(pdf, s.Color)
			pdf.SetLineWidth(float64(s.Width))
			style += "D"
		}
		if style == "" {
			continue
		}
		pdfPath(pdf, n.Outline())
		pdf.DrawPath(style)
	}

	if opt.IncludeGuides {
		r := sc.Box.Bounds()
		setDrawColor(pdf, opt.GuideColor)
		pdf.SetLineWidth(0.5)
		pdf.SetDashPattern([]float64{4, 2}, 0)
		pdf.Rect(float64(r.X), float64(r.Y), float64(r.W), float64(r.H), "D")
		pdf.SetDashPattern([]float64{}, 0)

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(int(opt.GuideColor.R), int(opt.GuideColor.G), int(opt.GuideColor.B))
		pdf.Text(sc.Margin, mediaH-2, sc.Caption())
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func pdfPath(pdf *gofpdf.Fpdf, p vector.Path) {
	f := func(v float32) float64 { return float64(v) }
	for _, c := range p.Cmds {
		d := c.Data
		switch c.Op {
		case vector.MoveTo:
			pdf.MoveTo(f(d[0]), f(d[1]))
		case vector.LineTo:
			pdf.LineTo(f(d[0]), f(d[1]))
		case vector.CubicTo:
			pdf.CurveBezierCubicTo(f(d[0]), f(d[1]), f(d[2]), f(d[3]), f(d[4]), f(d[5]))
		case vector.Close:
			pdf.ClosePath()
		}
	}
}

func setDrawColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
