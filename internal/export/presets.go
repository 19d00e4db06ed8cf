/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	applog "concentric/internal/log"
	"concentric/internal/radius"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// ParsePreset maps a name to a preset; empty means web.
func ParsePreset(s string) (PresetName, error) {
	switch PresetName(s) {
	case "", PresetWeb:
		return PresetWeb, nil
	case PresetPrint:
		return PresetPrint, nil
	default:
		return "", fmt.Errorf("unknown preset: %q", s)
	}
}

// BatchOptions controls a multi-format export of one state.
//
// Files land in <OutDir>/<format>/<Name><ext>. Name defaults to BaseName.
//
//nolint:revive // keep fields explicit for clarity
type BatchOptions struct {
	Preset        PresetName
	Formats       []Format // empty means preset defaults
	OutDir        string
	Name          string
	Scale         float64 // overrides the preset's PNG scale when > 0
	IncludeGuides *bool   // when set, overrides the preset's default
}

// Export writes one file in the given format.
func Export(st radius.State, f Format, outPath string, opt Options) error {
	switch f {
	case FormatSVG:
		return ExportSVG(st, outPath, opt)
	case FormatPNG:
		return ExportPNG(st, outPath, opt)
	case FormatPDF:
		return ExportPDF(st, outPath, opt)
	default:
		return fmt.Errorf("unknown format: %q", f)
	}
}

// BatchExport writes st in every requested format concurrently and returns
// the written paths in format order. The first failure cancels the rest.
func BatchExport(ctx context.Context, st radius.State, opt BatchOptions) ([]string, error) {
	if opt.OutDir == "" {
		return nil, fmt.Errorf("batch export: out dir is empty")
	}
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	name := opt.Name
	if name == "" {
		name = BaseName(st)
	}
	eo := presetOptions(opt.Preset)
	if opt.Scale > 0 {
		eo.Scale = opt.Scale
	}
	if opt.IncludeGuides != nil {
		eo.IncludeGuides = *opt.IncludeGuides
	}

	l := applog.WithOperation(applog.WithComponent("export"), "batch")
	paths := make([]string, len(formats))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := filepath.Join(opt.OutDir, string(f), name+f.Ext())
			if err := Export(st, f, out, eo); err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
			mu.Lock()
			paths[i] = out
			mu.Unlock()
			l.Debug("exported", slog.String("format", string(f)), slog.String("path", out))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.Error("batch export failed", slog.Any("err", err))
		return nil, err
	}
	return paths, nil
}

func presetDefaultFormats(p PresetName) []Format {
	switch p {
	case PresetPrint:
		return []Format{FormatPDF, FormatPNG}
	default:
		return []Format{FormatPNG, FormatSVG}
	}
}

func presetOptions(p PresetName) Options {
	switch p {
	case PresetPrint:
		return Options{Scale: 300.0 / 72.0, Margin: 18, IncludeGuides: true}
	default:
		return Options{Scale: 2, Margin: 8}
	}
}
