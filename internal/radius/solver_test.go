/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package radius

import (
	"errors"
	"math"
	"testing"
)

func TestSolveConcreteCases(t *testing.T) {
	cases := []struct {
		r, d float64
		want string
	}{
		{10, 4, "6"},
		{64, 32, "32"},
		{1024, 0, "1024"},
		{1, 1, "0.32"},
		{0, 50, "0"},
		{12, 100, "3.82"},
	}
	for _, c := range cases {
		if got := Format(Solve(c.r, c.d)); got != c.want {
			t.Errorf("Format(Solve(%v, %v)) = %q, want %q", c.r, c.d, got, c.want)
		}
	}
}

func TestSolveMatchesDefinition(t *testing.T) {
	for r := 0.0; r <= 200; r += 7.5 {
		for d := 0.0; d <= 200; d += 3.25 {
			got := Solve(r, d)
			want := math.Max(r/math.Pi, r-d)
			if got != want {
				t.Fatalf("Solve(%v, %v) = %v, want %v", r, d, got, want)
			}
			if got < r/math.Pi {
				t.Fatalf("Solve(%v, %v) = %v below floor %v", r, d, got, r/math.Pi)
			}
		}
	}
}

func TestSolveZeroDistanceKeepsRadius(t *testing.T) {
	for _, r := range []float64{0, 0.5, 1, 10, 333.3, 1024} {
		if got := Solve(r, 0); got != r {
			t.Errorf("Solve(%v, 0) = %v", r, got)
		}
	}
}

func TestSolveMonotonic(t *testing.T) {
	const r = 40.0
	prev := math.Inf(1)
	for d := 0.0; d <= 100; d += 0.5 {
		v := Solve(r, d)
		if v > prev {
			t.Fatalf("Solve(%v, d) increased at d=%v: %v > %v", r, d, v, prev)
		}
		prev = v
	}
	if prev != Floor(r) {
		t.Fatalf("large inset should bottom out at the floor, got %v", prev)
	}

	const d = 12.0
	prev = -1
	for r := 0.0; r <= 100; r += 0.5 {
		v := Solve(r, d)
		if v < prev {
			t.Fatalf("Solve(r, %v) decreased at r=%v", d, r)
		}
		prev = v
	}
}

func TestSolveRejectsOutOfDomain(t *testing.T) {
	bad := [][2]float64{{-1, 0}, {0, -1}, {math.NaN(), 1}, {1, math.Inf(1)}}
	for _, in := range bad {
		_, err := SolveChecked(in[0], in[1])
		var de *DomainError
		if !errors.As(err, &de) {
			t.Errorf("SolveChecked(%v, %v) err = %v, want *DomainError", in[0], in[1], err)
		}
	}

	defer func() {
		r := recover()
		if _, ok := r.(*DomainError); !ok {
			t.Fatalf("expected *DomainError panic, got %v", r)
		}
	}()
	Solve(-5, 1)
}

func TestFormat(t *testing.T) {
	cases := map[float64]string{
		0:        "0",
		6:        "6",
		0.318309: "0.32",
		2.5:      "2.50",
		3.999:    "4.00",
		1024:     "1024",
	}
	for in, want := range cases {
		if got := Format(in); got != want {
			t.Errorf("Format(%v) = %q, want %q", in, got, want)
		}
	}
}
