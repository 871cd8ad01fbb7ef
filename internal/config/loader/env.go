package loader

import (
	"os"
	"strconv"
	"strings"

	"github.com/dshills/folio/internal/config/layer"
)

// DefaultEnvPrefix is the prefix of folio's environment variables.
const DefaultEnvPrefix = "FOLIO_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // e.g. "FOLIO_"
	mapping map[string]string // env var -> config path
	environ func() []string
}

// NewEnvLoader creates an environment loader with folio's default
// mapping. The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, defaultEnvMapping(prefix))
}

// NewEnvLoaderWithMapping creates a loader with custom variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		environ: os.Environ,
	}
}

func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":         "log.level",
		prefix + "VIEWPORT_WIDTH":    "viewport.width",
		prefix + "VIEWPORT_HEIGHT":   "viewport.height",
		prefix + "MAX_ELEMENT_DEPTH": "layout.maxElementDepth",
		prefix + "CHAR_WIDTH_RATIO":  "layout.charWidthRatio",
		prefix + "FONT_FAMILY":       "layout.fontFamily",
		prefix + "FONT_SIZE":         "layout.fontSize",
		prefix + "LOCALE":            "layout.locale",
		prefix + "WATCH_DEBOUNCE":    "watch.debounce",
	}
}

// Load reads the environment. Mapped variables take their mapped path;
// other prefixed variables are converted by section, e.g.
// FOLIO_LAYOUT_LINE_HEIGHT becomes layout.lineHeight. Empty values are
// kept.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		layer.SetByPath(config, path, parseValue(value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts FOLIO_LAYOUT_LINE_HEIGHT to layout.lineHeight. A
// variable with no setting part maps to "".
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}

	setting := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if part != "" {
			setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return strings.ToLower(parts[0]) + "." + setting
}

// parseValue converts booleans, integers and decimals. Everything else,
// durations included, stays a string for the decoder.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
