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
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"concentric/internal/radius"
	"concentric/internal/vector"
)

var sample = radius.State{Width: 256, Height: 256, Radius: 64, Distance: 16}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"svg": FormatSVG, " PNG ": FormatPNG, "Pdf": FormatPDF} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("cbz"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, sample, Options{Scale: 1}); err != nil {
		t.Fatalf("write svg: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`width="256px" height="256px" viewBox="0 0 256 256"`,
		`<rect x="0" y="0" width="256" height="256" rx="64" ry="64"`,
		`<rect x="16" y="16" width="224" height="224" rx="48" ry="48"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("svg missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<text") {
		t.Fatal("caption should only appear with guides")
	}
}

func TestWriteSVG_Guides(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, sample, Options{IncludeGuides: true, Margin: 10}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "outer 64, padding 16, inner 48") {
		t.Fatalf("missing caption:\n%s", out)
	}
	if !strings.Contains(out, `viewBox="0 0 276 276"`) {
		t.Fatalf("margin not applied:\n%s", out)
	}
}

func TestRenderPNG(t *testing.T) {
	opt := Options{Scale: 1}
	img := RenderPNG(sample, opt)
	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 256 {
		t.Fatalf("bounds = %v", b)
	}
	d := opt.withDefaults()
	white := color.RGBA{255, 255, 255, 255}
	if got := img.RGBAAt(0, 0); got != white {
		t.Fatalf("corner pixel = %v, want white", got)
	}
	if got := img.RGBAAt(128, 128); got != toRGBA(d.InnerFill) {
		t.Fatalf("center pixel = %v, want inner fill", got)
	}
	if got := img.RGBAAt(8, 128); got != toRGBA(d.OuterFill) {
		t.Fatalf("padding pixel = %v, want outer fill", got)
	}
}

func TestRenderPNG_Scale(t *testing.T) {
	img := RenderPNG(sample, Options{Scale: 2, Margin: 4})
	if b := img.Bounds(); b.Dx() != 528 || b.Dy() != 528 {
		t.Fatalf("bounds = %v", b)
	}
}

func TestExportFiles(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []Format{FormatSVG, FormatPNG, FormatPDF} {
		out := filepath.Join(dir, "nested", "out"+f.Ext())
		if err := Export(sample, f, out, Options{IncludeGuides: true}); err != nil {
			t.Fatalf("export %s: %v", f, err)
		}
		st, err := os.Stat(out)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if st.Size() <= 0 {
			t.Fatalf("%s empty", f)
		}
	}
	b, err := os.ReadFile(filepath.Join(dir, "nested", "out.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("not a pdf: %q", b[:8])
	}
}

func TestBatchExport_WebPreset(t *testing.T) {
	dir := t.TempDir()
	paths, err := BatchExport(context.Background(), sample, BatchOptions{Preset: PresetWeb, OutDir: dir})
	if err != nil {
		t.Fatalf("batch export web: %v", err)
	}
	name := BaseName(sample)
	want := []string{
		filepath.Join(dir, "png", name+".png"),
		filepath.Join(dir, "svg", name+".svg"),
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for i, p := range want {
		if paths[i] != p {
			t.Fatalf("paths[%d] = %s, want %s", i, paths[i], p)
		}
		if st, err := os.Stat(p); err != nil || st.Size() <= 0 {
			t.Fatalf("missing or empty %s: %v", p, err)
		}
	}
}

func TestBatchExport_PrintPreset(t *testing.T) {
	dir := t.TempDir()
	paths, err := BatchExport(context.Background(), sample, BatchOptions{Preset: PresetPrint, OutDir: dir, Name: "card"})
	if err != nil {
		t.Fatalf("batch export print: %v", err)
	}
	if len(paths) != 2 || paths[0] != filepath.Join(dir, "pdf", "card.pdf") {
		t.Fatalf("paths = %v", paths)
	}
}

func TestBatchExport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BatchExport(ctx, sample, BatchOptions{OutDir: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestBatchExport_Errors(t *testing.T) {
	if _, err := BatchExport(context.Background(), sample, BatchOptions{}); err == nil {
		t.Fatal("expected error for empty out dir")
	}
	_, err := BatchExport(context.Background(), sample, BatchOptions{OutDir: t.TempDir(), Formats: []Format{"tiff"}})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestParsePreset(t *testing.T) {
	if p, err := ParsePreset(""); err != nil || p != PresetWeb {
		t.Fatalf("empty preset = %q, %v", p, err)
	}
	if _, err := ParsePreset("poster"); err == nil {
		t.Fatal("expected error")
	}
}

func TestMeasureCaption(t *testing.T) {
	w, h := measureCaption("inner 6")
	// basicfont 7x13 advances 7px per glyph
	if w != 49 || h <= 0 {
		t.Fatalf("measure = %d x %d", w, h)
	}
}

func TestRenderPNG_GuidesDrawCaption(t *testing.T) {
	plain := RenderPNG(sample, Options{Scale: 1, Margin: 20})
	guided := RenderPNG(sample, Options{Scale: 1, Margin: 20, IncludeGuides: true})
	d := Options{}.withDefaults()
	found := false
	b := guided.Bounds()
	for y := b.Max.Y - 14; y < b.Max.Y && !found; y++ {
		for x := 20; x < 200; x++ {
			if guided.RGBAAt(x, y) == toRGBA(d.GuideColor) && plain.RGBAAt(x, y) != toRGBA(d.GuideColor) {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatal("expected caption pixels in the bottom margin")
	}
}

func TestNewScenePlacesNodesInMargin(t *testing.T) {
	sc := NewScene(radius.DefaultState, Options{Margin: 8})
	if len(sc.Nodes()) != 2 {
		t.Fatalf("nodes = %d", len(sc.Nodes()))
	}
	if b := sc.Outer.Bounds(); b != vector.R(8, 8, 512, 512) {
		t.Fatalf("outer bounds = %+v", b)
	}
	if b := sc.Box.Bounds(); b != vector.R(12, 12, 504, 504) {
		t.Fatalf("inner bounds = %+v", b)
	}
	// the node's own rect stays at the origin
	if r := sc.Box.Rect(); r.X != 4 || r.Y != 4 {
		t.Fatalf("inner rect = %+v", r)
	}
	if !sc.Box.Hit(vector.Pt{X: 264, Y: 264}) {
		t.Fatal("expected hit in the inner box centre")
	}
	// radius 6 rounds off the inner box's top-left page corner
	if sc.Box.Hit(vector.Pt{X: 12.5, Y: 12.5}) {
		t.Fatal("expected miss in the rounded-off corner")
	}
}
