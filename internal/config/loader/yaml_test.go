package loader

import (
	"errors"
	"testing"
)

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/folio.yaml", `
viewport:
  width: 800
  height: 600
layout:
  maxElementDepth: 64
  charWidthRatio: 0.5
log:
  level: debug
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/folio.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	viewport, ok := config["viewport"].(map[string]any)
	if !ok {
		t.Fatalf("viewport = %T, want map[string]any", config["viewport"])
	}
	if viewport["width"] != 800 {
		t.Errorf("width = %v (%T), want 800", viewport["width"], viewport["width"])
	}
	layout := config["layout"].(map[string]any)
	if layout["charWidthRatio"] != 0.5 {
		t.Errorf("charWidthRatio = %v, want 0.5", layout["charWidthRatio"])
	}
}

func TestYAMLLoader_LoadEmpty(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/empty.yaml", "# nothing here\n")

	config, err := NewYAMLLoaderWithFS(memfs, "/empty.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config == nil || len(config) != 0 {
		t.Errorf("empty document = %v, want an empty map", config)
	}
}

func TestYAMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.yaml", "viewport:\n\twidth: 800\n")

	_, err := NewYAMLLoaderWithFS(memfs, "/bad.yaml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Line == 0 {
		t.Errorf("ParseError %q carries no line", perr)
	}
}

func TestNormalize(t *testing.T) {
	in := map[string]any{
		"codes": map[any]any{1: "one", "two": []any{map[any]any{true: "yes"}}},
	}
	out := normalize(in).(map[string]any)

	codes, ok := out["codes"].(map[string]any)
	if !ok {
		t.Fatalf("codes = %T, want map[string]any", out["codes"])
	}
	if codes["1"] != "one" {
		t.Errorf("codes[1] = %v, want one", codes["1"])
	}
	list := codes["two"].([]any)
	if inner, ok := list[0].(map[string]any); !ok || inner["true"] != "yes" {
		t.Errorf("nested list item = %v", list[0])
	}
}
