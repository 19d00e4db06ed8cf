/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package history keeps undo/redo stacks of calculator states.
package history

import (
	"sync"
	"time"

	"concentric/internal/radius"
)

// Snapshot is the state before an edit, tagged with the field that was
// edited and when.
type Snapshot struct {
	State radius.State
	Field string
	TS    time.Time
}

// Config controls depth and coalescing.
type Config struct {
	// MaxDepth limits the undo stack (0 means 100).
	MaxDepth int
	// MinInterval coalesces edits of the same field that arrive within the
	// interval, so one slider drag undoes in one step.
	MinInterval time.Duration
}

// Manager is an undo/redo stack of settled states. It is safe for
// concurrent use.
type Manager struct {
	cfg  Config
	mu   sync.Mutex
	undo []Snapshot
	redo []Snapshot
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 100
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 300 * time.Millisecond
	}
	return &Manager{cfg: cfg}
}

// Push records the state that existed before an edit. An edit of the same
// field within MinInterval of the previous one keeps the earlier snapshot
// and only refreshes its timestamp. Any push clears the redo stack.
func (m *Manager) Push(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redo = nil
	if n := len(m.undo); n > 0 {
		last := &m.undo[n-1]
		if last.Field == s.Field && s.TS.Sub(last.TS) < m.cfg.MinInterval {
			last.TS = s.TS
			return
		}
	}
	m.undo = append(m.undo, s)
	if over := len(m.undo) - m.cfg.MaxDepth; over > 0 {
		m.undo = append([]Snapshot(nil), m.undo[over:]...)
	}
}

// Undo returns the previous state and remembers current for Redo.
func (m *Manager) Undo(current radius.State) (radius.State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.undo)
	if n == 0 {
		return current, false
	}
	s := m.undo[n-1]
	m.undo = m.undo[:n-1]
	m.redo = append(m.redo, Snapshot{State: current, Field: s.Field, TS: s.TS})
	return s.State, true
}

// Redo re-applies the last undone edit.
func (m *Manager) Redo(current radius.State) (radius.State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.redo)
	if n == 0 {
		return current, false
	}
	s := m.redo[n-1]
	m.redo = m.redo[:n-1]
	// a zero timestamp keeps the next Push from coalescing into it
	m.undo = append(m.undo, Snapshot{State: current, Field: s.Field})
	return s.State, true
}

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo, m.redo = nil, nil
}

// Depth returns the sizes of the undo and redo stacks.
func (m *Manager) Depth() (undo, redo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo), len(m.redo)
}
