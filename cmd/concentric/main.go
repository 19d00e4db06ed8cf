/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"gopkg.in/yaml.v3"

	"concentric/internal/batch"
	"concentric/internal/config"
	"concentric/internal/crash"
	"concentric/internal/export"
	applog "concentric/internal/log"
	"concentric/internal/radius"
	"concentric/internal/session"
	"concentric/internal/telemetry"
	"concentric/internal/ui"
	"concentric/internal/version"
)

// clip is the system clipboard; tests swap it.
var clip session.Clipboard = session.ClipboardFunc(clipboard.WriteAll)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Concentric radius calculator")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  concentric solve <outerRadius> <distance> [--copy]       Inner radius for a radius and padding")
	_, _ = fmt.Fprintln(w, "  concentric settle [--width --height --radius --distance]  Apply the clamp rules and print the result")
	_, _ = fmt.Fprintln(w, "  concentric placed --inner-width W --inner-height H [--x --y]  Radius for an off-center inner box")
	_, _ = fmt.Fprintln(w, "  concentric export <svg|png|pdf> <out> [state flags]       Render the nested rectangles")
	_, _ = fmt.Fprintln(w, "  concentric batch <cases.json> <outDir> [--preset web|print]")
	_, _ = fmt.Fprintln(w, "  concentric config [--init]                                Print the effective config")
	_, _ = fmt.Fprintln(w, "  concentric ui                                             Launch desktop UI (build with -tags fyne)")
	_, _ = fmt.Fprintln(w, "  concentric version|-v|--version                           Show version")
}

func main() {
	applog.Init(applog.FromEnv())
	defer crash.Recover(nil)
	if code := run(os.Args[1:], os.Stdout); code != 0 {
		os.Exit(code)
	}
}

// run executes one command and returns the process exit code.
func run(args []string, stdout io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		// defaults are still usable
		applog.WithComponent("cli").Warn("config load failed", slog.Any("err", err))
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	l.Debug("start", slog.Int("args", len(args)))

	tc := telemetry.New(telemetry.FromAppConfig(cfg.Telemetry))
	telemetry.SetDefault(tc)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		tc.Flush(ctx)
		tc.Close()
	}()

	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	c := &cli{cfg: cfg, out: stdout, log: l, events: tc}
	switch args[0] {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(stdout, version.String())
		return 0
	case "solve":
		err = c.solve(args[1:])
	case "settle":
		err = c.settle(args[1:])
	case "placed":
		err = c.placed(args[1:])
	case "export":
		err = c.export(args[1:])
	case "batch":
		err = c.batch(args[1:])
	case "config":
		err = c.config(args[1:])
	case "ui":
		err = ui.Run(ui.Options{Config: cfg, Events: tc})
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stdout, "unknown command %q\n\n", args[0])
		usage(stdout)
		return 2
	}

	var ue usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue):
		_, _ = fmt.Fprintln(stdout, "Error:", err)
		return 2
	case errors.Is(err, errNoResult):
		_, _ = fmt.Fprintln(stdout, "no result")
		return 1
	default:
		l.Error("command failed", slog.String("cmd", args[0]), slog.Any("err", err))
		_, _ = fmt.Fprintln(stdout, "Error:", err)
		return 1
	}
}

type usageError string

func (e usageError) Error() string { return string(e) }

var errNoResult = errors.New("no result")

type cli struct {
	cfg    config.AppConfig
	out    io.Writer
	log    *slog.Logger
	events session.Events
}

func (c *cli) solve(args []string) error {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	copyOut := fs.Bool("copy", false, "copy the result to the clipboard")
	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return usageError(err.Error())
	}
	if len(pos) != 2 {
		return usageError("solve requires <outerRadius> and <distance>")
	}
	for i, name := range []string{"outerRadius", "distance"} {
		if !wholeNumber(pos[i]) {
			return usageError(fmt.Sprintf("%s must be a whole number, got %q", name, pos[i]))
		}
	}
	text, ok := radius.SolveFields(pos[0], pos[1], c.cfg.Calculator.MaxInput)
	if !ok {
		return errNoResult
	}
	_, _ = fmt.Fprintln(c.out, text)
	if *copyOut {
		if err := clip.WriteText(text); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		c.events.Event("copy", nil)
	}
	return nil
}

// wholeNumber accepts digits only. Empty is allowed and solves to
// "no result", as a cleared form field does.
func wholeNumber(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) < 0
}

// stateFlags registers the four state flags with config defaults.
func (c *cli) stateFlags(fs *flag.FlagSet) func() radius.State {
	d := c.cfg.Calculator.State()
	w := fs.Float64("width", d.Width, "outer width")
	h := fs.Float64("height", d.Height, "outer height")
	r := fs.Float64("radius", d.Radius, "outer corner radius")
	p := fs.Float64("distance", d.Distance, "padding between outer and inner rectangle")
	return func() radius.State { return radius.State{Width: *w, Height: *h, Radius: *r, Distance: *p} }
}

func checkState(st radius.State) error {
	for name, v := range map[string]float64{"width": st.Width, "height": st.Height, "radius": st.Radius, "distance": st.Distance} {
		if v < 0 {
			return usageError(fmt.Sprintf("--%s must not be negative", name))
		}
	}
	return nil
}

// newSession builds a session from config, using the system clipboard.
func (c *cli) newSession() *session.Session {
	cc := c.cfg.Calculator
	return session.New(session.Options{
		Defaults:  cc.State(),
		Bounds:    cc.Bounds(),
		MaxInput:  cc.MaxInput,
		CopyReset: cc.CopyReset(),
		Clipboard: clip,
		Events:    c.events,
	})
}

func (c *cli) settle(args []string) error {
	fs := flag.NewFlagSet("settle", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	state := c.stateFlags(fs)
	asJSON := fs.Bool("json", false, "print JSON")
	copyOut := fs.Bool("copy", false, "copy the inner radius to the clipboard")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	in := state()
	if err := checkState(in); err != nil {
		return err
	}

	sess := c.newSession()
	defer sess.Close()
	sess.Resize(in.Width, in.Height)
	sess.Set(session.FieldRadius, in.Radius)
	sess.Set(session.FieldDistance, in.Distance)
	v := sess.View()

	if *asJSON {
		b, err := json.MarshalIndent(struct {
			State       radius.State `json:"state"`
			Inner       radius.Inner `json:"inner"`
			InnerRadius string       `json:"innerRadius"`
		}{v.State, v.Inner, v.InnerText}, "", "  ")
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		_, _ = fmt.Fprintln(c.out, string(b))
	} else {
		st := v.State
		_, _ = fmt.Fprintf(c.out, "outer    %s x %s  radius %s\n", radius.Format(st.Width), radius.Format(st.Height), radius.Format(st.Radius))
		_, _ = fmt.Fprintf(c.out, "padding  %s\n", radius.Format(st.Distance))
		_, _ = fmt.Fprintf(c.out, "inner    %s x %s  radius %s\n", radius.Format(v.Inner.Width), radius.Format(v.Inner.Height), v.InnerText)
	}
	if *copyOut {
		return sess.Copy()
	}
	return nil
}

// placed solves the radius for an inner rectangle positioned anywhere
// inside the outer one.
func (c *cli) placed(args []string) error {
	fs := flag.NewFlagSet("placed", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	d := c.cfg.Calculator.State()
	w := fs.Float64("width", d.Width, "outer width")
	h := fs.Float64("height", d.Height, "outer height")
	r := fs.Float64("radius", d.Radius, "outer corner radius")
	iw := fs.Float64("inner-width", 0, "inner width")
	ih := fs.Float64("inner-height", 0, "inner height")
	x := fs.Float64("x", 0, "inner left offset from the outer left edge")
	y := fs.Float64("y", 0, "inner top offset from the outer top edge")
	copyOut := fs.Bool("copy", false, "copy the result to the clipboard")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *w <= 0 || *h <= 0 || *iw <= 0 || *ih <= 0 {
		return usageError("placed requires positive --width, --height, --inner-width and --inner-height")
	}
	if *r < 0 || *x < 0 || *y < 0 {
		return usageError("--radius, --x and --y must not be negative")
	}
	in := radius.Placement{Width: *iw, Height: *ih, X: *x, Y: *y}
	text := radius.Format(radius.SolvePlaced(*w, *h, *r, in))
	_, _ = fmt.Fprintln(c.out, text)
	if *copyOut {
		if err := clip.WriteText(text); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		c.events.Event("copy", nil)
	}
	return nil
}

func (c *cli) export(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	state := c.stateFlags(fs)
	scale := fs.Float64("scale", c.cfg.Export.Scale, "PNG pixels per unit")
	guides := fs.Bool("guides", c.cfg.Export.Guides, "draw the inner box guide and a caption")
	margin := fs.Float64("margin", 8, "margin around the outer rectangle")
	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return usageError(err.Error())
	}
	if len(pos) != 2 {
		return usageError("export requires <svg|png|pdf> and <out>")
	}
	f, err := export.ParseFormat(pos[0])
	if err != nil {
		return usageError(err.Error())
	}
	in := state()
	if err := checkState(in); err != nil {
		return err
	}
	st := radius.Settle(in, c.cfg.Calculator.Bounds())
	opt := export.Options{Scale: *scale, IncludeGuides: *guides, Margin: *margin}
	if err := export.Export(st, f, pos[1], opt); err != nil {
		return err
	}
	c.events.Event("export", map[string]any{"format": string(f)})
	c.log.Info("exported", slog.String("format", string(f)), slog.String("path", pos[1]))
	_, _ = fmt.Fprintln(c.out, "Exported to", pos[1])
	return nil
}

func (c *cli) batch(args []string) error {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	preset := fs.String("preset", c.cfg.Export.Preset, "export preset: web or print")
	scale := fs.Float64("scale", 0, "override the preset PNG scale")
	workers := fs.Int("workers", 0, "concurrent cases (0 = GOMAXPROCS)")
	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return usageError(err.Error())
	}
	if len(pos) != 2 {
		return usageError("batch requires <cases.json> and <outDir>")
	}
	p, err := export.ParsePreset(*preset)
	if err != nil {
		return usageError(err.Error())
	}
	cases, err := batch.Load(pos[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results, err := batch.Run(ctx, cases, batch.Options{
		Bounds:  c.cfg.Calculator.Bounds(),
		OutDir:  pos[1],
		Preset:  p,
		Scale:   *scale,
		Workers: *workers,
	})
	if err != nil {
		return err
	}
	for _, r := range results {
		_, _ = fmt.Fprintf(c.out, "%-32s %s\n", r.Name, r.InnerText)
	}
	c.events.Event("export", map[string]any{"format": "batch", "cases": len(results)})
	return nil
}

func (c *cli) config(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	initFile := fs.Bool("init", false, "write the effective config to the config file")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *initFile {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		if err := config.SaveFile(path, c.cfg); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(c.out, "Wrote", path)
		return nil
	}
	b, err := yaml.Marshal(c.cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, _ = c.out.Write(b)
	return nil
}

// parseInterspersed lets flags follow positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return pos, nil
		}
		pos = append(pos, args[0])
		args = args[1:]
	}
}
