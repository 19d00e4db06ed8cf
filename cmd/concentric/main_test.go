/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"concentric/internal/config"
	"concentric/internal/session"
)

type memClip struct{ text string }

func (m *memClip) WriteText(s string) error { m.text = s; return nil }

func setup(t *testing.T) *memClip {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvConfigPath, filepath.Join(dir, "config.yaml"))
	t.Setenv(config.EnvTelemetryOpt, "")
	m := &memClip{}
	old := clip
	clip = m
	t.Cleanup(func() { clip = old })
	return m
}

func runCLI(t *testing.T, args ...string) (string, int) {
	t.Helper()
	var out bytes.Buffer
	code := run(args, &out)
	return out.String(), code
}

func TestSolve(t *testing.T) {
	setup(t)
	tests := []struct {
		r, d string
		want string
	}{
		{"10", "4", "6"},
		{"64", "32", "32"},
		{"1024", "0", "1024"},
		{"1", "1", "0.32"},
		{"5000", "0", "1024"},
	}
	for _, tt := range tests {
		out, code := runCLI(t, "solve", tt.r, tt.d)
		if code != 0 || strings.TrimSpace(out) != tt.want {
			t.Fatalf("solve %s %s = %q (%d), want %s", tt.r, tt.d, out, code, tt.want)
		}
	}
}

func TestSolveNoResult(t *testing.T) {
	setup(t)
	out, code := runCLI(t, "solve", "", "4")
	if code != 1 || strings.TrimSpace(out) != "no result" {
		t.Fatalf("got %q (%d)", out, code)
	}
	if _, code := runCLI(t, "solve", "10"); code != 2 {
		t.Fatalf("missing arg exit = %d, want 2", code)
	}
}

func TestSolveRejectsNonInteger(t *testing.T) {
	setup(t)
	for _, args := range [][]string{{"1.5", "2"}, {"abc", "4"}, {"10", "4px"}} {
		out, code := runCLI(t, append([]string{"solve"}, args...)...)
		if code != 2 || !strings.Contains(out, "whole number") {
			t.Fatalf("solve %v = %q (%d), want usage error", args, out, code)
		}
	}
}

func TestPlaced(t *testing.T) {
	m := setup(t)
	tests := []struct {
		args []string
		want string
	}{
		// size ratio caps: 40 * 100/200 = 20, edge gap 25
		{[]string{"--width", "200", "--height", "100", "--radius", "40", "--inner-width", "100", "--inner-height", "50", "--x", "50", "--y", "25"}, "20"},
		// edge gap caps: nearest edge is 10 away
		{[]string{"--width", "100", "--height", "100", "--radius", "20", "--inner-width", "80", "--inner-height", "80", "--x", "10", "--y", "10"}, "10"},
		// touching the outer edge leaves no room for a radius
		{[]string{"--width", "100", "--height", "100", "--radius", "20", "--inner-width", "50", "--inner-height", "50"}, "0"},
	}
	for _, tt := range tests {
		out, code := runCLI(t, append([]string{"placed"}, tt.args...)...)
		if code != 0 || strings.TrimSpace(out) != tt.want {
			t.Fatalf("placed %v = %q (%d), want %s", tt.args, out, code, tt.want)
		}
	}

	if _, code := runCLI(t, "placed", "--inner-width", "20", "--inner-height", "20", "--x", "8", "--y", "8", "--copy"); code != 0 {
		t.Fatalf("copy exit = %d", code)
	}
	// default 512x512 r10: 10*20/512 ~ 0.39
	if m.text != "0.39" {
		t.Fatalf("clipboard = %q", m.text)
	}
	if _, code := runCLI(t, "placed", "--inner-width", "0", "--inner-height", "20"); code != 2 {
		t.Fatalf("zero inner width exit = %d, want 2", code)
	}
}

func TestSolveCopy(t *testing.T) {
	m := setup(t)
	if _, code := runCLI(t, "solve", "10", "4", "--copy"); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if m.text != "6" {
		t.Fatalf("clipboard = %q", m.text)
	}
}

func TestSettleJSON(t *testing.T) {
	m := setup(t)
	out, code := runCLI(t, "settle", "--width", "300", "--height", "400", "--radius", "200", "--distance", "150", "--json", "--copy")
	if code != 0 {
		t.Fatalf("exit = %d: %s", code, out)
	}
	var got struct {
		State struct {
			Width, Height, Radius, Distance float64
		} `json:"state"`
		InnerRadius string `json:"innerRadius"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("bad json %q: %v", out, err)
	}
	if got.State.Radius != 150 || got.State.Distance != 150 || got.State.Width != 300 {
		t.Fatalf("state = %+v", got.State)
	}
	if m.text != got.InnerRadius || got.InnerRadius == "" {
		t.Fatalf("clipboard = %q, inner = %q", m.text, got.InnerRadius)
	}
}

func TestSettleText(t *testing.T) {
	setup(t)
	out, code := runCLI(t, "settle")
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(out, "inner    504 x 504  radius 6") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if _, code := runCLI(t, "settle", "--radius", "-1"); code != 2 {
		t.Fatalf("negative radius exit = %d, want 2", code)
	}
}

func TestExport(t *testing.T) {
	setup(t)
	out := filepath.Join(t.TempDir(), "box.svg")
	if msg, code := runCLI(t, "export", "svg", out, "--radius", "32", "--guides"); code != 0 {
		t.Fatalf("exit = %d: %s", code, msg)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `rx="32"`) {
		t.Fatalf("svg missing radius:\n%s", b)
	}
	if _, code := runCLI(t, "export", "gif", out); code != 2 {
		t.Fatalf("unknown format exit = %d, want 2", code)
	}
}

func TestBatch(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	cases := filepath.Join(dir, "cases.json")
	doc := `{"cases":[{"name":"a","width":512,"height":512,"radius":10,"distance":4}]}`
	if err := os.WriteFile(cases, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	out, code := runCLI(t, "batch", cases, filepath.Join(dir, "out"), "--preset", "web")
	if code != 0 {
		t.Fatalf("exit = %d: %s", code, out)
	}
	if !strings.HasPrefix(out, "a ") || strings.TrimSpace(strings.TrimPrefix(out, "a")) != "6" {
		t.Fatalf("output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "svg", "a.svg")); err != nil {
		t.Fatalf("missing export: %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`{"cases":[]}`), 0o644)
	if _, code := runCLI(t, "batch", bad, filepath.Join(dir, "out2")); code != 1 {
		t.Fatalf("invalid cases exit = %d, want 1", code)
	}
}

func TestConfigInit(t *testing.T) {
	setup(t)
	out, code := runCLI(t, "config", "--init")
	if code != 0 {
		t.Fatalf("exit = %d: %s", code, out)
	}
	path := os.Getenv(config.EnvConfigPath)
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Calculator.MaxInput != 1024 {
		t.Fatalf("max input = %v", cfg.Calculator.MaxInput)
	}
	out, code = runCLI(t, "config")
	if code != 0 || !strings.Contains(out, "copy_reset_ms: 2000") {
		t.Fatalf("config output = %q", out)
	}
}

func TestVersionAndUnknown(t *testing.T) {
	setup(t)
	if out, code := runCLI(t, "version"); code != 0 || strings.TrimSpace(out) == "" {
		t.Fatalf("version = %q (%d)", out, code)
	}
	if _, code := runCLI(t, "frobnicate"); code != 2 {
		t.Fatalf("unknown exit = %d", code)
	}
	if out, code := runCLI(t); code != 0 || !strings.Contains(out, "Usage:") {
		t.Fatalf("usage = %q (%d)", out, code)
	}
}

var _ session.Clipboard = (*memClip)(nil)
