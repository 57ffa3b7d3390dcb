package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseArgsDefaults(t *testing.T) {
	cfg, rest, err := parseArgs(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cfg != NewConfig() {
		t.Fatalf("cfg = %+v, want %+v", cfg, NewConfig())
	}
	if len(rest) != 0 {
		t.Fatalf("rest = %v, want none", rest)
	}
}

func TestParseArgsFlags(t *testing.T) {
	cfg, rest, err := parseArgs([]string{"-capacity", "64", "-mode", "ica", "-every", "5", "-v", "in.csv"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cfg.Capacity != 64 || cfg.Mode != "ica" || cfg.Every != 5 || cfg.LogLevel != "debug" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(rest) != 1 || rest[0] != "in.csv" {
		t.Fatalf("rest = %v, want [in.csv]", rest)
	}
}

func TestParseArgsFileWithOverrides(t *testing.T) {
	path := writeFile(t, "pulse.yaml", `
capacity: 128
mode: multi
basis: 1000000
lowBin: 10
highBin: 80
window: tukey
tukeyAlpha: 0.25
trackerWindow: 9
logLevel: warn
`)

	cfg, _, err := parseArgs([]string{"-config", path, "-capacity", "300"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}

	want := Config{
		Capacity:      300,
		Mode:          "multi",
		Basis:         1e6,
		Every:         1,
		LowBin:        10,
		HighBin:       80,
		Window:        "tukey",
		TukeyAlpha:    0.25,
		TrackerWindow: 9,
		LogLevel:      "warn",
	}
	if cfg != want {
		t.Fatalf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "empty.yaml", ""))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != NewConfig() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err = %v, want ErrNotExist", err)
	}
	if _, err := LoadConfig(writeFile(t, "bad.yaml", "capacity: [1, 2]\n")); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := LoadConfig(writeFile(t, "unknown.yaml", "windowSize: 3\n")); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParseArgsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"small capacity", []string{"-capacity", "2"}},
		{"mode", []string{"-mode", "both"}},
		{"basis", []string{"-basis", "0"}},
		{"every", []string{"-every", "0"}},
		{"tracker window", []string{"-tracker-window", "-1"}},
		{"window", []string{"-window", "kaiser"}},
		{"tukey alpha", []string{"-tukey-alpha", "1.5"}},
		{"unknown flag", []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseArgs(tt.args, io.Discard); err == nil {
				t.Fatalf("parseArgs(%v) succeeded", tt.args)
			}
		})
	}
}

func TestParseArgsInvalidLogLevel(t *testing.T) {
	path := writeFile(t, "level.yaml", "logLevel: loud\n")
	if _, _, err := parseArgs([]string{"-config", path}, io.Discard); err == nil {
		t.Fatal("expected log level error")
	}
}

func TestParseArgsHelp(t *testing.T) {
	if _, _, err := parseArgs([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("err = %v, want flag.ErrHelp", err)
	}
}
