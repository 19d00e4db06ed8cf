/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package ui is the desktop calculator. The real window needs the fyne
// build tag and cgo; other builds get a stub Run that explains how to
// enable it.
package ui

import (
	"concentric/internal/config"
	"concentric/internal/session"
)

// Options configures Run.
type Options struct {
	Config config.AppConfig
	// Events receives copy, reset and export events; nil disables them.
	Events session.Events
}
