package layer

import (
	"sort"
	"sync"
)

// Stack holds configuration layers and caches their merge.
type Stack struct {
	mu     sync.RWMutex
	layers []*Layer // sorted by priority, ascending
	merged map[string]any
	dirty  bool
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{dirty: true}
}

// Put adds a layer, replacing any layer with the same name.
func (s *Stack) Put(l *Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.layers {
		if existing.Name == l.Name {
			s.layers[i] = l
			s.sortLayers()
			s.dirty = true
			return
		}
	}
	s.layers = append(s.layers, l)
	s.sortLayers()
	s.dirty = true
}

// Remove removes a layer by name and reports whether it was present.
func (s *Stack) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.layers {
		if l.Name == name {
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			s.dirty = true
			return true
		}
	}
	return false
}

// Layer returns a layer by name, or nil.
func (s *Stack) Layer(name string) *Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(name)
}

// Layers returns the layers sorted by priority.
func (s *Stack) Layers() []*Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// Merge combines all layers into one map. The result is a copy the caller
// may modify.
func (s *Stack) Merge() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dirty || s.merged == nil {
		result := make(map[string]any)
		for _, l := range s.layers {
			result = DeepMerge(result, l.Data)
		}
		s.merged = result
		s.dirty = false
	}
	return cloneMap(s.merged)
}

// Get returns the effective value for a dotted path and the layer that
// provides it.
func (s *Stack) Get(path string) (any, *Layer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.layers) - 1; i >= 0; i-- {
		if val, ok := GetByPath(s.layers[i].Data, path); ok {
			return val, s.layers[i], true
		}
	}
	return nil, nil, false
}

// Origin returns the name of the layer that provides path, or "".
func (s *Stack) Origin(path string) string {
	_, l, ok := s.Get(path)
	if !ok {
		return ""
	}
	return l.Name
}

func (s *Stack) sortLayers() {
	sort.SliceStable(s.layers, func(i, j int) bool {
		return s.layers[i].Priority < s.layers[j].Priority
	})
}

func (s *Stack) find(name string) *Layer {
	for _, l := range s.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}
