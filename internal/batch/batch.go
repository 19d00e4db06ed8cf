/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package batch solves many calculator states from a JSON case file and
// optionally exports each one.
package batch

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/sync/errgroup"

	"concentric/internal/export"
	applog "concentric/internal/log"
	"concentric/internal/radius"
)

//go:embed cases.schema.json
var schemaJSON []byte

// ErrInvalidCases wraps every schema violation.
var ErrInvalidCases = errors.New("invalid batch cases")

// Case is one input state with an optional file name.
type Case struct {
	Name string `json:"name,omitempty"`
	radius.State
}

// File is a parsed case file. Bounds is nil when the file leaves the
// configured bounds in effect.
type File struct {
	Bounds *radius.Bounds `json:"bounds,omitempty"`
	Cases  []Case         `json:"cases"`
}

// Result is the solved form of one case.
type Result struct {
	Name      string       `json:"name"`
	Input     radius.State `json:"input"`
	Settled   radius.State `json:"settled"`
	Inner     radius.Inner `json:"inner"`
	InnerText string       `json:"innerRadius"`
	Files     []string     `json:"files,omitempty"`
}

// Options controls Run.
type Options struct {
	// Bounds applies when the file has none.
	Bounds radius.Bounds
	// OutDir enables export; empty solves only.
	OutDir  string
	Preset  export.PresetName
	Scale   float64
	Workers int
}

// Parse validates b against the case schema and decodes it.
func Parse(b []byte) (File, error) {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(b))
	if err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrInvalidCases, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return File{}, fmt.Errorf("%w: %s", ErrInvalidCases, strings.Join(msgs, "; "))
	}
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("decode cases: %w", err)
	}
	return f, nil
}

// Load reads and parses a case file.
func Load(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read cases: %w", err)
	}
	return Parse(b)
}

// Run settles and solves every case. With an OutDir each case is exported
// under <OutDir>/<format>/<name>. Results keep the input order.
func Run(ctx context.Context, f File, opt Options) ([]Result, error) {
	l := applog.WithOperation(applog.WithComponent("batch"), "run")
	b := opt.Bounds
	if f.Bounds != nil {
		b = *f.Bounds
	}
	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(f.Cases))
	taken := map[string]int{}
	for i, c := range f.Cases {
		st := radius.Settle(c.State, b)
		name := c.Name
		if name == "" {
			name = export.BaseName(st)
		}
		name = uniqueName(taken, name)
		in := st.Inner()
		results[i] = Result{Name: name, Input: c.State, Settled: st, Inner: in, InnerText: radius.Format(in.Radius)}
	}
	l.Info("solved cases", slog.Int("count", len(results)))

	if opt.OutDir == "" {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range results {
		r := &results[i]
		g.Go(func() error {
			files, err := export.BatchExport(gctx, r.Settled, export.BatchOptions{
				Preset: opt.Preset,
				OutDir: opt.OutDir,
				Name:   r.Name,
				Scale:  opt.Scale,
			})
			if err != nil {
				return fmt.Errorf("case %s: %w", r.Name, err)
			}
			r.Files = files
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := WriteReport(filepath.Join(opt.OutDir, "results.json"), results); err != nil {
		return nil, err
	}
	l.Info("exported cases", slog.Int("count", len(results)), slog.String("dir", opt.OutDir))
	return results, nil
}

// uniqueName returns name, or name-2, name-3, ... when an earlier case
// already owns it, so exports never overwrite each other. taken counts
// suffix attempts per base name and marks every returned name as used.
func uniqueName(taken map[string]int, name string) string {
	if _, used := taken[name]; !used {
		taken[name] = 1
		return name
	}
	for {
		taken[name]++
		cand := fmt.Sprintf("%s-%d", name, taken[name])
		if _, used := taken[cand]; !used {
			taken[cand] = 1
			return cand
		}
	}
}

// WriteReport writes results as indented JSON.
func WriteReport(path string, results []Result) error {
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
