/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package radius

import "testing"

func TestParseField(t *testing.T) {
	cases := []struct {
		raw       string
		value     float64
		sanitized string
		ok        bool
	}{
		{"12", 12, "12", true},
		{"1a2", 12, "12", true},
		{"-5", 5, "5", true},
		{"4096", 1024, "1024", true},
		{"", 0, "", false},
		{"abc", 0, "", false},
		{"3.7", 37, "37", true},
	}
	for _, c := range cases {
		v, s, ok := ParseField(c.raw, DefaultMaxInput)
		if v != c.value || s != c.sanitized || ok != c.ok {
			t.Errorf("ParseField(%q) = (%v, %q, %v), want (%v, %q, %v)", c.raw, v, s, ok, c.value, c.sanitized, c.ok)
		}
	}
}

func TestSolveFields(t *testing.T) {
	if got, ok := SolveFields("10", "4", DefaultMaxInput); !ok || got != "6" {
		t.Fatalf("SolveFields(10, 4) = %q, %v", got, ok)
	}
	if _, ok := SolveFields("10", "", DefaultMaxInput); ok {
		t.Fatalf("empty distance should give no result")
	}
	if got, _ := SolveFields("99999", "0", DefaultMaxInput); got != "1024" {
		t.Fatalf("oversized radius should clamp to 1024, got %q", got)
	}
}

func TestSolvePlaced(t *testing.T) {
	// 80x60 box at (10,20) inside 240x180 with r=12: the scaled radius is 4
	// on both axes and the closest edge is 10 away.
	got := SolvePlaced(240, 180, 12, Placement{Width: 80, Height: 60, X: 10, Y: 20})
	if got != 4 {
		t.Fatalf("SolvePlaced = %v, want 4", got)
	}
	// Touching the left edge leaves no room for a radius.
	if got := SolvePlaced(240, 180, 12, Placement{Width: 80, Height: 60, X: 0, Y: 20}); got != 0 {
		t.Fatalf("SolvePlaced at edge = %v, want 0", got)
	}
	if got := SolvePlaced(0, 180, 12, Placement{Width: 80, Height: 60}); got != 0 {
		t.Fatalf("degenerate outer should give 0, got %v", got)
	}
}
