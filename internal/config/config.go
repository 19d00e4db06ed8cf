/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"concentric/internal/radius"
)

// CalculatorConfig holds the form defaults and the box bounds.
type CalculatorConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Radius      float64 `yaml:"radius"`
	Distance    float64 `yaml:"distance"`
	MinSize     float64 `yaml:"min_size"`
	MaxSize     float64 `yaml:"max_size"`
	MaxInput    float64 `yaml:"max_input"`
	CopyResetMs int     `yaml:"copy_reset_ms"`
}

type ExportConfig struct {
	Scale  float64 `yaml:"scale"`
	OutDir string  `yaml:"out_dir"`
	Preset string  `yaml:"preset"`
	Guides bool    `yaml:"guides"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type TelemetryConfig struct {
	OptIn     bool   `yaml:"opt_in"`
	EventsURL string `yaml:"events_url"`
	CrashURL  string `yaml:"crash_url"`
}

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int              `yaml:"config_version"`
	Calculator    CalculatorConfig `yaml:"calculator"`
	Export        ExportConfig     `yaml:"export"`
	Logging       LoggingConfig    `yaml:"logging"`
	Telemetry     TelemetryConfig  `yaml:"telemetry"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	s, b := radius.DefaultState, radius.DefaultBounds
	return AppConfig{
		ConfigVersion: 1,
		Calculator: CalculatorConfig{
			Width: s.Width, Height: s.Height, Radius: s.Radius, Distance: s.Distance,
			MinSize: b.MinSize, MaxSize: b.MaxSize,
			MaxInput:    radius.DefaultMaxInput,
			CopyResetMs: 2000,
		},
		Export:  ExportConfig{Scale: 1, OutDir: "exports", Preset: "web"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath   = "CONCENTRIC_CONFIG"
	EnvMaxInput     = "CONCENTRIC_MAX_INPUT"
	EnvCopyResetMs  = "CONCENTRIC_COPY_RESET_MS"
	EnvExportScale  = "CONCENTRIC_EXPORT_SCALE"
	EnvExportOutDir = "CONCENTRIC_EXPORT_DIR"
	EnvTelemetryOpt = "CONCENTRIC_TELEMETRY_OPT_IN"
	EnvTelemetryURL = "CONCENTRIC_TELEMETRY_URL"
	EnvCrashURL     = "CONCENTRIC_CRASH_UPLOAD_URL"
	// EnvLogLevel Logging envs; same names as internal/log reads.
	EnvLogLevel  = "CONCENTRIC_LOG_LEVEL"
	EnvLogFormat = "CONCENTRIC_LOG_FORMAT"
	EnvLogSource = "CONCENTRIC_LOG_SOURCE"
	EnvLogFile   = "CONCENTRIC_LOG_FILE"
)

// ConfigPath returns the per-user config file path. CONCENTRIC_CONFIG wins
// when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Concentric")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Concentric")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "concentric")
		} else if home := os.Getenv("HOME"); home != "" {
			base = filepath.Join(home, ".config", "concentric")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file is not an error.
// A file that exists but does not parse is.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg to path, creating parent directories.
func SaveFile(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// State returns the calculator defaults as a settled radius.State.
func (c CalculatorConfig) State() radius.State {
	return radius.Settle(radius.State{Width: c.Width, Height: c.Height, Radius: c.Radius, Distance: c.Distance}, c.Bounds())
}

// Bounds returns the configured resize bounds.
func (c CalculatorConfig) Bounds() radius.Bounds {
	return radius.Bounds{MinSize: c.MinSize, MaxSize: c.MaxSize}
}

// CopyReset returns how long the "Copied!" indicator stays up.
func (c CalculatorConfig) CopyReset() time.Duration {
	if c.CopyResetMs <= 0 {
		return time.Duration(Defaults().Calculator.CopyResetMs) * time.Millisecond
	}
	return time.Duration(c.CopyResetMs) * time.Millisecond
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// calculator: zero means "not set" for sizes and limits
	c, s := &dst.Calculator, src.Calculator
	setPositive(&c.Width, s.Width)
	setPositive(&c.Height, s.Height)
	setPositive(&c.MinSize, s.MinSize)
	setPositive(&c.MaxSize, s.MaxSize)
	setPositive(&c.MaxInput, s.MaxInput)
	setPositive(&c.Radius, s.Radius)
	setPositive(&c.Distance, s.Distance)
	if s.CopyResetMs > 0 {
		c.CopyResetMs = s.CopyResetMs
	}
	// export
	setPositive(&dst.Export.Scale, src.Export.Scale)
	if v := strings.TrimSpace(src.Export.OutDir); v != "" {
		dst.Export.OutDir = v
	}
	if v := strings.ToLower(strings.TrimSpace(src.Export.Preset)); v != "" {
		dst.Export.Preset = v
	}
	dst.Export.Guides = src.Export.Guides
	// logging
	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	dst.Logging.Source = src.Logging.Source
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
	// telemetry
	dst.Telemetry.OptIn = src.Telemetry.OptIn
	if v := strings.TrimSpace(src.Telemetry.EventsURL); v != "" {
		dst.Telemetry.EventsURL = v
	}
	if v := strings.TrimSpace(src.Telemetry.CrashURL); v != "" {
		dst.Telemetry.CrashURL = v
	}
}

func setPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvMaxInput)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Calculator.MaxInput = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCopyResetMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Calculator.CopyResetMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportScale)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Export.Scale = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportOutDir)); v != "" {
		cfg.Export.OutDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOpt)); v != "" {
		cfg.Telemetry.OptIn = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryURL)); v != "" {
		cfg.Telemetry.EventsURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCrashURL)); v != "" {
		cfg.Telemetry.CrashURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	names := map[string]string{
		"calculator.max_input":     EnvMaxInput,
		"calculator.copy_reset_ms": EnvCopyResetMs,
		"export.scale":             EnvExportScale,
		"export.out_dir":           EnvExportOutDir,
		"telemetry.opt_in":         EnvTelemetryOpt,
		"telemetry.events_url":     EnvTelemetryURL,
		"telemetry.crash_url":      EnvCrashURL,
		"logging.level":            EnvLogLevel,
		"logging.format":           EnvLogFormat,
		"logging.source":           EnvLogSource,
		"logging.file":             EnvLogFile,
	}
	env, ok := names[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}
