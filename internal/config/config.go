package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/folio/internal/config/layer"
	"github.com/dshills/folio/internal/config/loader"
	"github.com/dshills/folio/internal/config/notify"
)

// MaxIncludeDepth bounds nested @include directives.
const MaxIncludeDepth = 8

// Config provides layered access to folio's settings.
type Config struct {
	mu sync.RWMutex

	layers   *layer.Stack
	notifier *notify.Notifier

	fs        loader.FileSystem
	file      string
	envPrefix string
	loaded    bool

	// configErrors records type errors met by the section accessors.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithFile sets the config file. Its extension selects TOML or YAML.
func WithFile(path string) Option {
	return func(c *Config) {
		c.file = path
	}
}

// WithFileSystem sets the file system config files are read from.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(c *Config) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// WithEnvPrefix sets the environment variable prefix. An empty prefix
// disables the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// New creates a Config holding only the built-in defaults.
func New(opts ...Option) *Config {
	c := &Config{
		layers:    layer.NewStack(),
		notifier:  notify.New(),
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.layers.Put(layer.New(layer.SourceBuiltin, defaultConfig()))
	return c
}

// Load reads the config file and the environment. A missing config file is
// not an error.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadFile(); err != nil {
		return err
	}
	if err := c.loadEnvironment(); err != nil {
		return err
	}
	c.loaded = true
	c.configErrors = nil
	return nil
}

// Reload re-reads the config file and notifies subscribers of each setting
// whose effective value changed, followed by one reload event. A file that
// fails to parse leaves the previous settings in place.
func (c *Config) Reload(_ context.Context) error {
	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return ErrNotLoaded
	}
	before := c.layers.Merge()
	if err := c.loadFile(); err != nil {
		c.mu.Unlock()
		return err
	}
	changes := toNotifications(layer.DiffMaps(before, c.layers.Merge()), c.layers)
	c.configErrors = nil
	c.mu.Unlock()

	c.notifier.NotifyReload(layer.SourceFile.String(), changes)
	return nil
}

// SetArgs replaces the command-line layer. Keys are dotted setting paths.
func (c *Config) SetArgs(values map[string]any) {
	data := make(map[string]any)
	for path, v := range values {
		layer.SetByPath(data, path, v)
	}

	c.mu.Lock()
	before := c.layers.Merge()
	c.layers.Put(layer.New(layer.SourceArgs, data))
	changes := toNotifications(layer.DiffMaps(before, c.layers.Merge()), c.layers)
	c.configErrors = nil
	c.mu.Unlock()

	for _, change := range changes {
		c.notifier.Notify(change)
	}
}

// Close drops every subscription.
func (c *Config) Close() {
	c.notifier.Close()
}

// File returns the config file path, or "".
func (c *Config) File() string {
	return c.file
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return layer.GetByPath(c.layers.Merge(), path)
}

// Origin returns the name of the layer that supplies path.
func (c *Config) Origin(path string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layers.Origin(path)
}

// Merged returns the fully merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layers.Merge()
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path. Whole floats are
// accepted.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetFloat returns a float64 value at the given path.
func (c *Config) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetDuration returns a duration at the given path. Strings use
// time.ParseDuration syntax and integers are milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("%q", val)}
		}
		return d, nil
	case int:
		return time.Duration(val) * time.Millisecond, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// Subscribe registers an observer for all configuration changes.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes at or below path.
func (c *Config) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, observer)
}

// loadFile replaces the file layer. The caller holds c.mu.
func (c *Config) loadFile() error {
	if c.file == "" {
		return nil
	}
	l, err := loader.ForPath(c.fs, c.file)
	if err != nil {
		return err
	}
	data, err := l.LoadWithIncludes(c.file, MaxIncludeDepth)
	if err != nil {
		return err
	}
	if data == nil {
		c.layers.Remove(layer.SourceFile.String())
		return nil
	}
	fileLayer := layer.New(layer.SourceFile, data)
	fileLayer.Path = c.file
	c.layers.Put(fileLayer)
	return nil
}

// loadEnvironment replaces the environment layer. The caller holds c.mu.
func (c *Config) loadEnvironment() error {
	if c.envPrefix == "" {
		return nil
	}
	data, err := loader.NewEnvLoader(c.envPrefix).Load()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		c.layers.Remove(layer.SourceEnv.String())
		return nil
	}
	c.layers.Put(layer.New(layer.SourceEnv, data))
	return nil
}

func toNotifications(diff []layer.Change, stack *layer.Stack) []notify.Change {
	out := make([]notify.Change, 0, len(diff))
	for _, d := range diff {
		change := notify.Change{
			Path:     d.Path,
			Type:     notify.ChangeSet,
			OldValue: d.OldValue,
			NewValue: d.NewValue,
			Source:   stack.Origin(d.Path),
		}
		if d.Removed {
			change.Type = notify.ChangeDelete
		}
		out = append(out, change)
	}
	return out
}
