/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

func TestRoundedRectPath_Commands(t *testing.T) {
	p := RoundedRectPath(R(0, 0, 100, 60), 10)
	var moves, lines, cubics, closes int
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo:
			moves++
		case LineTo:
			lines++
		case CubicTo:
			cubics++
		case Close:
			closes++
		}
	}
	if moves != 1 || lines != 4 || cubics != 4 || closes != 1 {
		t.Fatalf("unexpected command mix: move=%d line=%d cubic=%d close=%d", moves, lines, cubics, closes)
	}
	b := p.Bounds()
	if b.X != 0 || b.Y != 0 || b.W != 100 || b.H != 60 {
		t.Fatalf("unexpected bounds: %+v", b)
	}
}

func TestRoundedRectPath_ZeroRadiusIsRect(t *testing.T) {
	p := RoundedRectPath(R(5, 5, 10, 10), 0)
	for _, c := range p.Cmds {
		if c.Op == CubicTo {
			t.Fatalf("zero radius should not emit curves")
		}
	}
	if len(p.Cmds) != 5 {
		t.Fatalf("expected 5 commands, got %d", len(p.Cmds))
	}
}

func TestPathTransform(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.CubicTo(10, 5, 5, 10, 0, 10)
	p.Close()
	q := p.Transform(Scale(2, 2))
	b := q.Bounds()
	if b.W != 20 || b.H != 20 {
		t.Fatalf("unexpected scaled bounds: %+v", b)
	}
	if p.Bounds().W != 10 {
		t.Fatalf("Transform must not mutate the receiver")
	}
}
