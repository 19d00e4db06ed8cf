//go:build fyne

/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"concentric/internal/radius"
	"concentric/internal/session"
)

// calculatorForm binds the input widgets to a session. Widget callbacks
// write into the session; session views flow back through apply.
type calculatorForm struct {
	sess    *session.Session
	preview *PreviewCanvas

	width, height       *widget.Slider
	radius, distance    *widget.Slider
	radEntry, distEntry *widget.Entry
	result              *widget.Label
	copyBtn, resetBtn   *widget.Button
	undoBtn, redoBtn    *widget.Button
	status              *widget.Label
	updating            bool
}

// newCalculatorForm builds the form. dispatch runs view updates on the UI
// goroutine (fyne.Do in the app, a direct call in tests).
func newCalculatorForm(s *session.Session, dispatch func(func())) *calculatorForm {
	b := s.Bounds()
	f := &calculatorForm{
		sess:      s,
		preview:   NewPreviewCanvas(s),
		width:     widget.NewSlider(b.MinSize, b.MaxSize),
		height:    widget.NewSlider(b.MinSize, b.MaxSize),
		radius:    widget.NewSlider(0, b.MaxSize/2),
		distance:  widget.NewSlider(0, b.MaxSize/2),
		radEntry:  widget.NewEntry(),
		distEntry: widget.NewEntry(),
		result:    widget.NewLabel(""),
		status:    widget.NewLabel("Ready"),
	}
	for _, sl := range []*widget.Slider{f.width, f.height, f.radius, f.distance} {
		sl.Step = 1
	}
	f.result.TextStyle = fyne.TextStyle{Bold: true}

	f.width.OnChanged = f.sliderChanged(session.FieldWidth)
	f.height.OnChanged = f.sliderChanged(session.FieldHeight)
	f.radius.OnChanged = f.sliderChanged(session.FieldRadius)
	f.distance.OnChanged = f.sliderChanged(session.FieldDistance)
	f.radEntry.OnChanged = f.entryChanged(session.FieldRadius, f.radEntry)
	f.distEntry.OnChanged = f.entryChanged(session.FieldDistance, f.distEntry)

	f.copyBtn = widget.NewButton(session.LabelCopy, f.copy)
	f.resetBtn = widget.NewButton("Reset", s.Reset)
	f.undoBtn = widget.NewButton("Undo", func() { s.Undo() })
	f.redoBtn = widget.NewButton("Redo", func() { s.Redo() })

	s.Subscribe(func(v session.View) { dispatch(func() { f.apply(v) }) })
	return f
}

func (f *calculatorForm) sliderChanged(field session.Field) func(float64) {
	return func(v float64) {
		if f.updating {
			return
		}
		f.sess.Set(field, v)
	}
}

func (f *calculatorForm) entryChanged(field session.Field, e *widget.Entry) func(string) {
	return func(text string) {
		if f.updating {
			return
		}
		clean := f.sess.SetText(field, text)
		if clean != text {
			f.updating = true
			e.SetText(clean)
			f.updating = false
		}
	}
}

func (f *calculatorForm) copy() {
	if err := f.sess.Copy(); err != nil {
		f.status.SetText(err.Error())
		return
	}
	f.status.SetText("Copied inner radius " + f.sess.View().InnerText)
}

// apply pushes a view into the widgets without feeding it back.
func (f *calculatorForm) apply(v session.View) {
	f.updating = true
	defer func() { f.updating = false }()

	st := v.State
	f.width.SetValue(st.Width)
	f.height.SetValue(st.Height)
	f.radius.Max = st.MaxRadius()
	f.distance.Max = st.MaxPadding()
	f.radius.SetValue(st.Radius)
	f.distance.SetValue(st.Distance)
	f.radius.Refresh()
	f.distance.Refresh()

	// a blank field stays blank until the user types into it
	setEntry(f.radEntry, st.Radius, v.HasResult)
	setEntry(f.distEntry, st.Distance, v.HasResult)

	if v.HasResult {
		f.result.SetText("Inner radius: " + v.InnerText)
	} else {
		f.result.SetText("Inner radius: no result")
	}
	f.copyBtn.SetText(v.CopyLabel)
	if v.HasResult {
		f.copyBtn.Enable()
	} else {
		f.copyBtn.Disable()
	}
	setEnabled(f.undoBtn, v.CanUndo)
	setEnabled(f.redoBtn, v.CanRedo)
	f.preview.SetView(v)
}

func setEntry(e *widget.Entry, v float64, hasResult bool) {
	if e.Text == "" && !hasResult {
		return
	}
	if txt := radius.Format(v); e.Text != txt {
		e.SetText(txt)
	}
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

// content lays out the preview on the left and the inputs on the right.
func (f *calculatorForm) content() fyne.CanvasObject {
	form := widget.NewForm(
		widget.NewFormItem("Width", f.width),
		widget.NewFormItem("Height", f.height),
		widget.NewFormItem("Outer radius", container.NewGridWithColumns(2, f.radius, f.radEntry)),
		widget.NewFormItem("Padding", container.NewGridWithColumns(2, f.distance, f.distEntry)),
	)
	buttons := container.NewHBox(f.copyBtn, f.resetBtn, f.undoBtn, f.redoBtn)
	side := container.NewVBox(form, f.result, buttons)
	split := container.NewHSplit(f.preview, container.NewPadded(side))
	split.Offset = 0.55
	return container.NewBorder(nil, f.status, nil, nil, split)
}
