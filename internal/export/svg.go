/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"concentric/internal/radius"
	"concentric/internal/vector"
)

// WriteSVG renders the nested rectangles as an SVG document. Coordinates
// are in units; width and height attributes are scaled by opt.Scale.
func WriteSVG(w io.Writer, st radius.State, opt Options) error {
	opt = opt.withDefaults()
	sc := NewScene(st, opt)
	mediaW, mediaH := sc.Size()

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"0 0 %g %g\">\n",
		mediaW*opt.Scale, mediaH*opt.Scale, mediaW, mediaH)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", mediaW, mediaH, vector.White.Hex())

	for _, n := range []*vector.RoundedRectNode{sc.Outer, sc.Box} {
		r := n.Bounds()
		rad := n.Radius()
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" rx=\"%g\" ry=\"%g\" fill=\"%s\"%s/>\n",
			r.X, r.Y, r.W, r.H, rad, rad, n.Fill().Color.Hex(), svgStroke(n.Stroke()))
	}

	if opt.IncludeGuides {
		gc := opt.GuideColor.Hex()
		r := sc.Box.Bounds()
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"4 2\"/>\n",
			r.X, r.Y, r.W, r.H, gc)
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"10\" fill=\"%s\">%s</text>\n",
			sc.Margin, mediaH-2, gc, escText(sc.Caption()))
	}
	wf("</svg>\n")

	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// ExportSVG writes an SVG file to outPath, creating parent directories.
func ExportSVG(st radius.State, outPath string, opt Options) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create svg: %w", err)
	}
	if err := WriteSVG(f, st, opt); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close svg: %w", err)
	}
	return nil
}

func svgStroke(s vector.Stroke) string {
	if !s.Enabled || s.Width <= 0 {
		return ""
	}
	return fmt.Sprintf(" stroke=\"%s\" stroke-width=\"%g\"", s.Color.Hex(), s.Width)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
