package editing

import "errors"

// ErrUnsupportedSelection indicates a selection whose boundaries mix text
// and element containers, or sit in two different elements. Those shapes
// have no projection.
var ErrUnsupportedSelection = errors.New("unsupported selection shape")
