package config

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration.

// ViewportConfig is the size of the initial containing block.
type ViewportConfig struct {
	// Width is the viewport width in pixels.
	Width int

	// Height is the viewport height in pixels.
	Height int
}

// LayoutConfig controls styling and box generation.
type LayoutConfig struct {
	// MaxElementDepth bounds styling and box generation recursion.
	// Zero disables the bound.
	MaxElementDepth int

	// FontFamily is the default font family of the root element.
	FontFamily string

	// FontSize is the root font size in pixels.
	FontSize float64

	// CharWidthRatio is a narrow glyph's advance as a fraction of the font
	// size.
	CharWidthRatio float64

	// LineHeight is a line height multiplier. Zero means normal.
	LineHeight float64

	// Locale selects case mapping rules for text-transform.
	Locale string

	// ReuseBoxes requests partial layout reuse.
	ReuseBoxes bool
}

// LogConfig controls diagnostics.
type LogConfig struct {
	// Level is the minimum level written: debug, info, warn or error.
	Level string
}

// WatchConfig controls live reload.
type WatchConfig struct {
	// Debounce is how long a file must stay quiet before it is reloaded.
	Debounce time.Duration
}

// Settings is a snapshot of every section.
type Settings struct {
	Viewport ViewportConfig
	Layout   LayoutConfig
	Log      LogConfig
	Watch    WatchConfig
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Viewport: ViewportConfig{Width: 1920, Height: 1080},
		Layout: LayoutConfig{
			MaxElementDepth: 128,
			FontFamily:      "Noto Mono",
			FontSize:        16,
			CharWidthRatio:  0.6,
			Locale:          "en",
		},
		Log:   LogConfig{Level: "info"},
		Watch: WatchConfig{Debounce: 100 * time.Millisecond},
	}
}

// defaultConfig returns the defaults layer.
func defaultConfig() map[string]any {
	d := Default()
	return map[string]any{
		"viewport": map[string]any{
			"width":  d.Viewport.Width,
			"height": d.Viewport.Height,
		},
		"layout": map[string]any{
			"maxElementDepth": d.Layout.MaxElementDepth,
			"fontFamily":      d.Layout.FontFamily,
			"fontSize":        d.Layout.FontSize,
			"charWidthRatio":  d.Layout.CharWidthRatio,
			"lineHeight":      d.Layout.LineHeight,
			"locale":          d.Layout.Locale,
			"reuseBoxes":      d.Layout.ReuseBoxes,
		},
		"log": map[string]any{
			"level": d.Log.Level,
		},
		"watch": map[string]any{
			"debounce": d.Watch.Debounce.String(),
		},
	}
}

// Viewport returns the viewport settings.
func (c *Config) Viewport() ViewportConfig {
	d := Default().Viewport
	return ViewportConfig{
		Width:  c.getIntOr("viewport.width", d.Width),
		Height: c.getIntOr("viewport.height", d.Height),
	}
}

// Layout returns the layout settings.
func (c *Config) Layout() LayoutConfig {
	d := Default().Layout
	return LayoutConfig{
		MaxElementDepth: c.getIntOr("layout.maxElementDepth", d.MaxElementDepth),
		FontFamily:      c.getStringOr("layout.fontFamily", d.FontFamily),
		FontSize:        c.getFloatOr("layout.fontSize", d.FontSize),
		CharWidthRatio:  c.getFloatOr("layout.charWidthRatio", d.CharWidthRatio),
		LineHeight:      c.getFloatOr("layout.lineHeight", d.LineHeight),
		Locale:          c.getStringOr("layout.locale", d.Locale),
		ReuseBoxes:      c.getBoolOr("layout.reuseBoxes", d.ReuseBoxes),
	}
}

// Log returns the logging settings.
func (c *Config) Log() LogConfig {
	return LogConfig{
		Level: c.getStringOr("log.level", Default().Log.Level),
	}
}

// Watch returns the live reload settings.
func (c *Config) Watch() WatchConfig {
	return WatchConfig{
		Debounce: c.getDurationOr("watch.debounce", Default().Watch.Debounce),
	}
}

// Settings returns every section.
func (c *Config) Settings() Settings {
	return Settings{
		Viewport: c.Viewport(),
		Layout:   c.Layout(),
		Log:      c.Log(),
		Watch:    c.Watch(),
	}
}

// Validate checks ranges and names. It returns every problem joined, each
// matching ErrValidationFailed.
func (s Settings) Validate() error {
	var errs []error
	check := func(ok bool, path, message string, value any, code ValidationErrorCode) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Message: message, Value: value, Code: code})
		}
	}

	check(s.Viewport.Width > 0, "viewport.width", "must be positive", s.Viewport.Width, ErrCodeOutOfRange)
	check(s.Viewport.Height > 0, "viewport.height", "must be positive", s.Viewport.Height, ErrCodeOutOfRange)
	check(s.Layout.MaxElementDepth >= 0, "layout.maxElementDepth", "must not be negative", s.Layout.MaxElementDepth, ErrCodeOutOfRange)
	check(s.Layout.FontSize > 0, "layout.fontSize", "must be positive", s.Layout.FontSize, ErrCodeOutOfRange)
	check(s.Layout.CharWidthRatio > 0 && s.Layout.CharWidthRatio <= 4, "layout.charWidthRatio", "must be in (0, 4]", s.Layout.CharWidthRatio, ErrCodeOutOfRange)
	check(s.Layout.LineHeight >= 0, "layout.lineHeight", "must not be negative", s.Layout.LineHeight, ErrCodeOutOfRange)
	_, err := language.Parse(s.Layout.Locale)
	check(err == nil, "layout.locale", "is not a BCP 47 tag", s.Layout.Locale, ErrCodeMalformed)
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		check(false, "log.level", "must be debug, info, warn or error", s.Log.Level, ErrCodeInvalidEnum)
	}
	check(s.Watch.Debounce >= 0, "watch.debounce", "must not be negative", s.Watch.Debounce, ErrCodeOutOfRange)

	return errors.Join(errs...)
}

// These methods only return the default for ErrSettingNotFound. Type
// errors are recorded and also fall back to the default.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getFloatOr(path string, defaultValue float64) float64 {
	v, err := c.GetFloat(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getDurationOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

// recordConfigError keeps the first type error seen for each path.
func (c *Config) recordConfigError(path string, err error) {
	if errors.Is(err, ErrSettingNotFound) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns the type errors met by the section accessors since
// the last load.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	out := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		out[k] = v
	}
	return out
}
