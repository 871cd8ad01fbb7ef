package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/folio/internal/app"
	"github.com/dshills/folio/internal/config"
)

func TestParseViewport(t *testing.T) {
	tests := []struct {
		input   string
		w, h    int
		wantErr bool
	}{
		{input: "800x600", w: 800, h: 600},
		{input: "1024X768", w: 1024, h: 768},
		{input: "800", wantErr: true},
		{input: "0x600", wantErr: true},
		{input: "800x-1", wantErr: true},
		{input: "axb", wantErr: true},
	}
	for _, tt := range tests {
		w, h, err := parseViewport(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseViewport(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (w != tt.w || h != tt.h) {
			t.Errorf("parseViewport(%q) = %d, %d, want %d, %d", tt.input, w, h, tt.w, tt.h)
		}
	}
}

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	opts, _, done := parseFlags([]string{"-viewport", "400x300", "-anchor", "p/0:1", "-watch", "page.html"}, &stderr)
	if done {
		t.Fatalf("parseFlags() done, stderr = %s", stderr.String())
	}
	if opts.file != "page.html" || opts.anchor != "p/0:1" || !opts.watch {
		t.Errorf("opts = %+v", opts)
	}
	args, err := opts.settings()
	if err != nil {
		t.Fatalf("settings() error = %v", err)
	}
	if args["viewport.width"] != 400 || args["viewport.height"] != 300 {
		t.Errorf("settings() = %v", args)
	}
	if _, ok := args["log.level"]; ok {
		t.Error("unset log level was forwarded")
	}

	tests := []struct {
		name string
		argv []string
		code int
	}{
		{"no file", nil, 2},
		{"two files", []string{"a.html", "b.html"}, 2},
		{"unknown flag", []string{"-bogus", "a.html"}, 2},
		{"help", []string{"-h"}, 0},
		{"version", []string{"-version"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, code, done := parseFlags(tt.argv, &bytes.Buffer{})
			if !done || code != tt.code {
				t.Errorf("parseFlags(%v) = %d, %v, want %d, true", tt.argv, code, done, tt.code)
			}
		})
	}
}

func TestRender(t *testing.T) {
	page := filepath.Join(t.TempDir(), "page.html")
	markup := `<html><body><p id="p">hello world</p></body></html>`
	if err := os.WriteFile(page, []byte(markup), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.New(config.WithEnvPrefix(""))
	engine := app.NewEngine(cfg, app.WithEngineLogger(app.NullLogger()))
	defer engine.Close()
	if err := engine.LoadFile(page); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	var out bytes.Buffer
	opts := options{anchor: "p/0:0", focus: "p/0:5", file: page}
	if err := render(engine, opts, &out); err != nil {
		t.Fatalf("render() error = %v", err)
	}
	for _, s := range []string{`"hello world"`, "selection p/0:0 .. p/0:5: 1 highlights", "#text [0,5)"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("output missing %q:\n%s", s, out.String())
		}
	}
}
