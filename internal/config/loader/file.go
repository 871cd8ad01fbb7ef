package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dshills/folio/internal/config/layer"
)

// IncludeKey names the files a config file builds on.
const IncludeKey = "@include"

// decodeFunc parses a document into a map. source names the document in
// errors.
type decodeFunc func(source string, data []byte) (map[string]any, error)

// fileLoader reads one file format from a FileSystem.
type fileLoader struct {
	fs     FileSystem
	path   string
	decode decodeFunc
}

// Load reads configuration from the configured path.
func (l *fileLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads configuration from a specific path. A missing file yields
// nil, nil.
func (l *fileLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return l.decode(path, data)
}

// LoadFromReader reads configuration from an io.Reader.
func (l *fileLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.decode("<reader>", data)
}

// LoadWithIncludes loads path and merges the files named by its @include
// key underneath it. Relative includes resolve against the including
// file's directory. maxDepth bounds nesting.
func (l *fileLoader) LoadWithIncludes(path string, maxDepth int) (map[string]any, error) {
	if maxDepth <= 0 {
		return nil, fmt.Errorf("include depth exceeded for %s", path)
	}

	config, err := l.LoadFrom(path)
	if err != nil || config == nil {
		return config, err
	}

	includes, ok := config[IncludeKey]
	if !ok {
		return config, nil
	}
	delete(config, IncludeKey)

	list, err := includeList(includes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := make(map[string]any)
	for _, inc := range list {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(filepath.Dir(path), inc)
		}
		// An include may be in the other format.
		sub := l
		if FormatOf(inc) != FormatOf(path) {
			fl, err := ForPath(l.fs, inc)
			if err != nil {
				return nil, fmt.Errorf("loading include %s: %w", inc, err)
			}
			sub = fileLoaderOf(fl)
		}
		incConfig, err := sub.LoadWithIncludes(inc, maxDepth-1)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", inc, err)
		}
		base = layer.DeepMerge(base, incConfig)
	}
	return layer.DeepMerge(base, config), nil
}

func includeList(v any) ([]string, error) {
	switch v := v.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be a string or array of strings", IncludeKey)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings, got %T", IncludeKey, v)
	}
}

func fileLoaderOf(l FileLoader) *fileLoader {
	switch l := l.(type) {
	case *TOMLLoader:
		return &l.fileLoader
	case *YAMLLoader:
		return &l.fileLoader
	}
	panic(fmt.Sprintf("loader: unexpected file loader %T", l))
}
