/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session owns the calculator's live input tuple. Every edit goes
// through the clamp rules before anything is derived from it, so views only
// ever see settled states.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"concentric/internal/history"
	applog "concentric/internal/log"
	"concentric/internal/radius"
)

// Field names an editable input.
type Field string

const (
	FieldWidth    Field = "width"
	FieldHeight   Field = "height"
	FieldRadius   Field = "radius"
	FieldDistance Field = "distance"
	// FieldSize is width and height edited together by the resize handle.
	FieldSize     Field = "size"
)

// Copy indicator labels.
const (
	LabelCopy   = "Copy to clipboard"
	LabelCopied = "Copied!"
)

// ErrNothingToCopy is returned by Copy while a required field is blank.
var ErrNothingToCopy = errors.New("session: no inner radius to copy")

// Clipboard receives copied text.
type Clipboard interface {
	WriteText(s string) error
}

// ClipboardFunc adapts a function to Clipboard.
type ClipboardFunc func(string) error

func (f ClipboardFunc) WriteText(s string) error { return f(s) }

// Events receives anonymous usage events. telemetry.Client satisfies it.
type Events interface {
	Event(name string, props map[string]any)
}

// Options configures a Session. Zero values fall back to the radius
// package defaults.
type Options struct {
	Defaults  radius.State
	Bounds    radius.Bounds
	MaxInput  float64
	CopyReset time.Duration
	Clipboard Clipboard
	Events    Events
	History   history.Config

	// Now and AfterFunc are replaced in tests.
	Now       func() time.Time
	AfterFunc func(d time.Duration, f func()) Stopper
}

// Stopper is the part of *time.Timer the session needs.
type Stopper interface{ Stop() bool }

// View is an immutable snapshot handed to observers.
type View struct {
	State     radius.State
	Inner     radius.Inner
	InnerText string // "" while a field is blank
	HasResult bool
	CopyLabel string
	Copied    bool
	CanUndo   bool
	CanRedo   bool
}

// Session is safe for concurrent use; observers are called without the
// lock held and may be called from the copy-reset timer goroutine.
type Session struct {
	opts Options
	log  *slog.Logger
	hist *history.Manager

	mu        sync.Mutex
	state     radius.State
	blank     map[Field]bool
	copied    bool
	copySeq   uint64
	copyTimer Stopper
	observers []func(View)
}

// New creates a session at its defaults.
func New(opts Options) *Session {
	if opts.Defaults == (radius.State{}) {
		opts.Defaults = radius.DefaultState
	}
	if opts.Bounds == (radius.Bounds{}) {
		opts.Bounds = radius.DefaultBounds
	}
	if opts.MaxInput <= 0 {
		opts.MaxInput = radius.DefaultMaxInput
	}
	if opts.CopyReset <= 0 {
		opts.CopyReset = 2 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, f func()) Stopper { return time.AfterFunc(d, f) }
	}
	s := &Session{
		opts:  opts,
		log:   applog.WithComponent("session"),
		hist:  history.NewManager(opts.History),
		state: radius.Settle(opts.Defaults, opts.Bounds),
		blank: map[Field]bool{},
	}
	return s
}

// Bounds returns the resize bounds in effect.
func (s *Session) Bounds() radius.Bounds { return s.opts.Bounds }

// MaxInput returns the cap applied to typed values.
func (s *Session) MaxInput() float64 { return s.opts.MaxInput }

// Subscribe registers an observer and immediately calls it with the
// current view.
func (s *Session) Subscribe(fn func(View)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	v := s.viewLocked()
	s.mu.Unlock()
	fn(v)
}

// View returns the current view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// State returns the current settled state.
func (s *Session) State() radius.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set assigns a numeric value to a field and settles.
func (s *Session) Set(f Field, v float64) {
	s.update(f, func(st radius.State) radius.State {
		s.blank[f] = false
		return withField(st, f, v)
	})
}

// SetText applies raw field text the way the form does: non-digits are
// dropped, values above MaxInput are capped, empty text blanks the field.
// It returns the sanitized text the field should show.
func (s *Session) SetText(f Field, raw string) string {
	v, clean, ok := radius.ParseField(raw, s.opts.MaxInput)
	if !ok {
		s.mu.Lock()
		changed := !s.blank[f]
		s.blank[f] = true
		v := s.viewLocked()
		obs := s.observersLocked()
		s.mu.Unlock()
		if changed {
			notify(obs, v)
		}
		return ""
	}
	s.Set(f, v)
	return clean
}

// Resize sets width and height as one edit.
func (s *Session) Resize(w, h float64) {
	s.update(FieldSize, func(st radius.State) radius.State {
		st.Width, st.Height = w, h
		return st
	})
}

// ResizeBy applies a drag delta to the outer rectangle. Deltas are rounded
// to whole units like the resize handle does.
func (s *Session) ResizeBy(dx, dy float64) {
	s.update(FieldSize, func(st radius.State) radius.State {
		st.Width = math.Round(st.Width + dx)
		st.Height = math.Round(st.Height + dy)
		return st
	})
}

// DragRadius moves the outer radius handle by delta.
func (s *Session) DragRadius(delta float64) {
	s.update(FieldRadius, func(st radius.State) radius.State {
		s.blank[FieldRadius] = false
		st.Radius = math.Round(st.Radius + delta)
		return st
	})
}

// DragDistance moves the inset handle by delta.
func (s *Session) DragDistance(delta float64) {
	s.update(FieldDistance, func(st radius.State) radius.State {
		s.blank[FieldDistance] = false
		st.Distance = math.Round(st.Distance + delta)
		return st
	})
}

// Reset restores the defaults and clears blanks. It is undoable.
func (s *Session) Reset() {
	s.update("reset", func(radius.State) radius.State {
		s.blank = map[Field]bool{}
		return s.opts.Defaults
	})
	s.event("reset", nil)
}

// Undo steps back one edit.
func (s *Session) Undo() bool {
	s.mu.Lock()
	prev, ok := s.hist.Undo(s.state)
	if ok {
		s.state = radius.Settle(prev, s.opts.Bounds)
		s.blank = map[Field]bool{}
	}
	v, obs := s.viewLocked(), s.observersLocked()
	s.mu.Unlock()
	if ok {
		notify(obs, v)
	}
	return ok
}

// Redo re-applies the last undone edit.
func (s *Session) Redo() bool {
	s.mu.Lock()
	next, ok := s.hist.Redo(s.state)
	if ok {
		s.state = radius.Settle(next, s.opts.Bounds)
		s.blank = map[Field]bool{}
	}
	v, obs := s.viewLocked(), s.observersLocked()
	s.mu.Unlock()
	if ok {
		notify(obs, v)
	}
	return ok
}

// Copy writes the formatted inner radius to the clipboard and flips the
// indicator to "Copied!" until CopyReset elapses. A newer copy restarts
// the countdown; a stale timer never clears it.
func (s *Session) Copy() error {
	s.mu.Lock()
	v := s.viewLocked()
	s.mu.Unlock()
	if !v.HasResult {
		return ErrNothingToCopy
	}
	if s.opts.Clipboard == nil {
		return errors.New("session: no clipboard configured")
	}
	if err := s.opts.Clipboard.WriteText(v.InnerText); err != nil {
		s.log.Error("clipboard write failed", slog.Any("err", err))
		return fmt.Errorf("copy inner radius: %w", err)
	}

	s.mu.Lock()
	s.copied = true
	s.copySeq++
	seq := s.copySeq
	if s.copyTimer != nil {
		s.copyTimer.Stop()
	}
	s.copyTimer = s.opts.AfterFunc(s.opts.CopyReset, func() { s.expireCopy(seq) })
	v, obs := s.viewLocked(), s.observersLocked()
	s.mu.Unlock()

	s.log.Debug("copied inner radius", slog.String("value", v.InnerText))
	s.event("copy", nil)
	notify(obs, v)
	return nil
}

func (s *Session) expireCopy(seq uint64) {
	s.mu.Lock()
	if seq != s.copySeq || !s.copied {
		s.mu.Unlock()
		return
	}
	s.copied = false
	s.copyTimer = nil
	v, obs := s.viewLocked(), s.observersLocked()
	s.mu.Unlock()
	notify(obs, v)
}

// Close stops a pending copy-reset timer.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.copySeq++
	if s.copyTimer != nil {
		s.copyTimer.Stop()
		s.copyTimer = nil
	}
}

func (s *Session) update(f Field, edit func(radius.State) radius.State) {
	s.mu.Lock()
	before := s.state
	after := radius.Settle(edit(before), s.opts.Bounds)
	changed := after != before
	if changed {
		s.hist.Push(history.Snapshot{State: before, Field: string(f), TS: s.opts.Now()})
		s.state = after
	}
	v, obs := s.viewLocked(), s.observersLocked()
	s.mu.Unlock()

	if changed {
		s.log.Debug("settled",
			slog.String("field", string(f)),
			slog.Float64("width", after.Width),
			slog.Float64("height", after.Height),
			slog.Float64("radius", after.Radius),
			slog.Float64("distance", after.Distance),
			slog.String("inner", v.InnerText))
	}
	// blank toggles change the view even when the numbers don't
	notify(obs, v)
}

func (s *Session) viewLocked() View {
	in := s.state.Inner()
	v := View{
		State:     s.state,
		Inner:     in,
		HasResult: !s.blank[FieldRadius] && !s.blank[FieldDistance],
		Copied:    s.copied,
		CopyLabel: LabelCopy,
	}
	if v.HasResult {
		v.InnerText = radius.Format(in.Radius)
	}
	if s.copied {
		v.CopyLabel = LabelCopied
	}
	u, r := s.hist.Depth()
	v.CanUndo, v.CanRedo = u > 0, r > 0
	return v
}

func (s *Session) observersLocked() []func(View) {
	return slices.Clone(s.observers)
}

func (s *Session) event(name string, props map[string]any) {
	if s.opts.Events != nil {
		s.opts.Events.Event(name, props)
	}
}

func notify(obs []func(View), v View) {
	for _, fn := range obs {
		fn(v)
	}
}

func withField(st radius.State, f Field, v float64) radius.State {
	switch f {
	case FieldWidth:
		st.Width = v
	case FieldHeight:
		st.Height = v
	case FieldRadius:
		st.Radius = v
	case FieldDistance:
		st.Distance = v
	}
	return st
}
