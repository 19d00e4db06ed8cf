//go:build fyne && cgo

/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"

	"concentric/internal/crash"
	"concentric/internal/export"
	applog "concentric/internal/log"
	"concentric/internal/session"
	"concentric/internal/version"
)

// Run starts the Fyne desktop calculator and blocks until the window closes.
func Run(opts Options) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	cfg := opts.Config
	fyneApp := app.NewWithID("concentric")
	w := fyneApp.NewWindow("Concentric Radius")

	prefs := fyneApp.Preferences()
	winW := max(prefs.IntWithFallback("window.width", 900), 640)
	winH := max(prefs.IntWithFallback("window.height", 600), 480)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	sess := session.New(session.Options{
		Defaults:  cfg.Calculator.State(),
		Bounds:    cfg.Calculator.Bounds(),
		MaxInput:  cfg.Calculator.MaxInput,
		CopyReset: cfg.Calculator.CopyReset(),
		Events:    opts.Events,
		Clipboard: session.ClipboardFunc(func(s string) error {
			w.Clipboard().SetContent(s)
			return nil
		}),
	})
	defer sess.Close()
	defer crash.Recover(sess)

	form := newCalculatorForm(sess, fyne.Do)
	w.SetContent(form.content())

	exportItem := func(f export.Format) *fyne.MenuItem {
		return fyne.NewMenuItem(fmt.Sprintf("Export as %s…", strings.ToUpper(string(f))), func() {
			l.Info("menu: export", slog.String("format", string(f)))
			save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
				if err != nil {
					dialog.ShowError(err, w)
					return
				}
				if uc == nil {
					return
				}
				outPath := uc.URI().Path()
				_ = uc.Close()
				if !strings.HasSuffix(strings.ToLower(outPath), f.Ext()) {
					outPath += f.Ext()
				}
				opt := export.Options{Scale: cfg.Export.Scale, IncludeGuides: cfg.Export.Guides, Margin: 8}
				if err := export.Export(sess.State(), f, outPath, opt); err != nil {
					l.Error("export failed", slog.Any("err", err))
					dialog.ShowError(err, w)
					return
				}
				if opts.Events != nil {
					opts.Events.Event("export", map[string]any{"format": string(f)})
				}
				form.status.SetText("Exported to " + outPath)
			}, w)
			save.SetFileName(export.BaseName(sess.State()) + f.Ext())
			save.SetFilter(fstorage.NewExtensionFileFilter([]string{f.Ext()}))
			save.Show()
		})
	}
	fileMenu := fyne.NewMenu("File", exportItem(export.FormatSVG), exportItem(export.FormatPNG), exportItem(export.FormatPDF))

	undoItem := fyne.NewMenuItem("Undo", func() {
		if !sess.Undo() {
			form.status.SetText("Nothing to undo")
		}
	})
	redoItem := fyne.NewMenuItem("Redo", func() {
		if !sess.Redo() {
			form.status.SetText("Nothing to redo")
		}
	})
	copyItem := fyne.NewMenuItem("Copy Inner Radius", form.copy)
	resetItem := fyne.NewMenuItem("Reset", sess.Reset)
	undoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}
	redoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}
	copyItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyC, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}
	editMenu := fyne.NewMenu("Edit", undoItem, redoItem, fyne.NewMenuItemSeparator(), copyItem, resetItem)

	aboutItem := fyne.NewMenuItem("About Concentric", func() {
		exe, _ := os.Executable()
		info := fmt.Sprintf("Concentric Radius\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe)
		dialog.ShowInformation("About", info, w)
	})
	copyrightItem := fyne.NewMenuItem("Copyright…", func() {
		msg := fmt.Sprintf("Concentric Radius\nCopyright © 2025-%d The Concentric Authors\n\nLicensed under the Apache License, Version 2.0.", time.Now().Year())
		dialog.ShowInformation("Copyright", msg, w)
	})
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, fyne.NewMenu("About", aboutItem, copyrightItem)))

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}
