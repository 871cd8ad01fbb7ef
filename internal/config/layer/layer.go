// Package layer stacks configuration sources by priority.
//
// Each layer holds a nested map. Merging applies the layers from lowest to
// highest priority so built-in defaults are overridden by the config file,
// the file by FOLIO_ environment variables, and those by command-line flags.
package layer

// Layer is a single configuration source.
type Layer struct {
	// Name identifies the layer.
	Name string

	// Priority determines merge order (higher overrides lower).
	Priority int

	// Source indicates where this layer was loaded from.
	Source Source

	// Path is the file the layer was read from, if any.
	Path string

	// Data holds the configuration values as a nested map.
	Data map[string]any
}

// New creates a layer with the standard name and priority for source.
func New(source Source, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{
		Name:     source.String(),
		Priority: source.Priority(),
		Source:   source,
		Data:     data,
	}
}

// Clone creates a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	c := *l
	c.Data = cloneMap(l.Data)
	return &c
}

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceBuiltin represents built-in defaults.
	SourceBuiltin Source = iota
	// SourceFile represents a TOML or YAML config file.
	SourceFile
	// SourceEnv represents FOLIO_ environment variables.
	SourceEnv
	// SourceArgs represents command-line flags.
	SourceArgs
)

// Standard priority levels.
const (
	PriorityBuiltin = 0
	PriorityFile    = 100
	PriorityEnv     = 500
	PriorityArgs    = 600
)

// String returns the source name, which is also the standard layer name.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "defaults"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "environment"
	case SourceArgs:
		return "arguments"
	default:
		return "unknown"
	}
}

// Priority returns the standard priority for the source.
func (s Source) Priority() int {
	switch s {
	case SourceFile:
		return PriorityFile
	case SourceEnv:
		return PriorityEnv
	case SourceArgs:
		return PriorityArgs
	default:
		return PriorityBuiltin
	}
}

// cloneMap creates a deep copy of a map.
func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
	return dst
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		dst := make([]any, len(v))
		for i, item := range v {
			dst[i] = cloneValue(item)
		}
		return dst
	default:
		return val
	}
}
