package dom

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/folio/internal/cssom"
)

// Default configuration values.
const (
	DefaultViewportWidth   = 1920
	DefaultViewportHeight  = 1080
	DefaultMaxElementDepth = 128
)

// Logger is the subset of the application logger the document uses.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Option configures a Document during creation.
type Option func(*Document)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithViewport sets the initial viewport size.
func WithViewport(width, height float64) Option {
	return func(d *Document) {
		if width > 0 && height > 0 {
			d.viewport = cssom.Size{Width: width, Height: height}
		}
	}
}

// WithMaxElementDepth bounds style recursion. Zero disables the bound.
func WithMaxElementDepth(depth int) Option {
	return func(d *Document) {
		if depth >= 0 {
			d.maxElementDepth = depth
		}
	}
}

// WithUserAgentStyles replaces the default per-tag declarations.
func WithUserAgentStyles(ua *cssom.UserAgentStyles) Option {
	return func(d *Document) {
		if ua != nil {
			d.userAgent = ua
		}
	}
}

// Document owns a node arena and the document-wide state derived from it.
// A Document is not safe for concurrent use.
type Document struct {
	id     uuid.UUID
	nodes  []node
	root   NodeID
	logger Logger

	ids map[string]NodeID

	viewport        cssom.Size
	initialStyle    *cssom.ComputedStyle
	userAgent       *cssom.UserAgentStyles
	classification  *cssom.Classification
	maxElementDepth int
	styleDirty      bool

	loadingCounter      int
	loadEventDispatched bool
	loadListeners       []func()

	observers      map[uint64]Observer
	nextObserverID uint64

	selection *Selection
}

// New creates an empty document containing only the document node.
func New(opts ...Option) *Document {
	d := &Document{
		id:              uuid.New(),
		nodes:           make([]node, 1, 64),
		logger:          nopLogger{},
		ids:             make(map[string]NodeID),
		viewport:        cssom.Size{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
		userAgent:       cssom.NewUserAgentStyles(),
		classification:  cssom.NewClassification(),
		maxElementDepth: DefaultMaxElementDepth,
		observers:       make(map[uint64]Observer),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.initialStyle = cssom.CreateInitialStyle(d.viewport)
	d.root = d.alloc(node{kind: KindDocument, inserted: true})
	d.selection = newSelection(d)
	return d
}

// ID returns the document's unique identifier.
func (d *Document) ID() uuid.UUID { return d.id }

// Root returns the document node.
func (d *Document) Root() NodeID { return d.root }

// DocumentElement returns the first element child of the document node.
func (d *Document) DocumentElement() NodeID {
	for c := d.nodes[d.root].first; c != InvalidNode; c = d.nodes[c].next {
		if d.nodes[c].kind == KindElement {
			return c
		}
	}
	return InvalidNode
}

// Selection returns the document's selection.
func (d *Document) Selection() *Selection { return d.selection }

// Logger returns the document's logger.
func (d *Document) Logger() Logger { return d.logger }

func (d *Document) alloc(n node) NodeID {
	n.generation = 1
	d.nodes = append(d.nodes, n)
	return NodeID(len(d.nodes) - 1)
}

// CreateElement creates a detached element. The tag name is lower-cased.
func (d *Document) CreateElement(tag string) NodeID {
	return d.alloc(node{
		kind: KindElement,
		elem: &elementData{
			tag:   strings.ToLower(tag),
			attrs: make(map[string]string),
			style: cssom.NewDeclaredStyle(),
		},
	})
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(data string) NodeID {
	return d.alloc(node{kind: KindText, data: data})
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(data string) NodeID {
	return d.alloc(node{kind: KindComment, data: data})
}

// GetElementByID returns the first inserted element whose id attribute is
// id, or InvalidNode.
func (d *Document) GetElementByID(id string) NodeID {
	return d.ids[id]
}

// Viewport returns the viewport size.
func (d *Document) Viewport() cssom.Size { return d.viewport }

// InitialStyle returns the computed style of the initial containing block.
func (d *Document) InitialStyle() *cssom.ComputedStyle { return d.initialStyle }

// SetViewport changes the viewport size. Every computed style depends on it
// through viewport units, so all styles are invalidated.
func (d *Document) SetViewport(width, height float64) {
	size := cssom.Size{Width: width, Height: height}
	if size == d.viewport {
		return
	}
	d.viewport = size
	d.initialStyle = cssom.CreateInitialStyle(size)
	d.invalidateComputedStylesOfNodeAndDescendants(d.root)
	d.notify(MutationRecord{Kind: MutationViewport, Target: d.root})
}

// MaxElementDepth returns the configured recursion bound.
func (d *Document) MaxElementDepth() int { return d.maxElementDepth }

// IncreaseLoadingCounter records a resource that has started loading.
func (d *Document) IncreaseLoadingCounter() {
	d.loadingCounter++
}

// DecreaseLoadingCounterAndMaybeDispatchLoadEvent records a settled resource
// and fires the load listeners the first time the counter reaches zero.
func (d *Document) DecreaseLoadingCounterAndMaybeDispatchLoadEvent() {
	if d.loadingCounter > 0 {
		d.loadingCounter--
	}
	if d.loadingCounter == 0 && !d.loadEventDispatched {
		d.loadEventDispatched = true
		d.logger.Debug("document %s settled", d.id)
		for _, fn := range d.loadListeners {
			fn()
		}
	}
}

// ResetLoadEvent allows the load listeners to fire again.
func (d *Document) ResetLoadEvent() {
	d.loadEventDispatched = false
}

// LoadingCounter returns the number of unsettled resources.
func (d *Document) LoadingCounter() int { return d.loadingCounter }

// OnLoad registers fn to run when all resources have settled.
func (d *Document) OnLoad(fn func()) {
	d.loadListeners = append(d.loadListeners, fn)
}

// StyleDirty reports whether computed styles need an update.
func (d *Document) StyleDirty() bool { return d.styleDirty }
