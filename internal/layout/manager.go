package layout

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/dshills/folio/internal/cssom"
	"github.com/dshills/folio/internal/dom"
)

// Stats counts layout passes and the invalidations received between them.
type Stats struct {
	Passes                int
	Released              int
	SizeInvalidations     int
	CrossRefInvalidations int
	Repaints              int
}

// Manager owns the box tree of one document and rebuilds it on demand.
// A Manager is not safe for concurrent use.
type Manager struct {
	doc       *dom.Document
	logger    Logger
	metrics   *Metrics
	segmenter Segmenter
	locale    language.Tag
	maxDepth  int
	reuse     bool

	sub   *dom.Subscription
	dirty bool
	stats Stats

	root      *ContainerBox
	ctx       *Context
	index     *SpatialIndex
	elements  map[dom.NodeID]*elementBoxes
	textBoxes map[dom.NodeID][]*TextBox
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics sets the text measurement.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		if metrics != nil {
			m.metrics = metrics
		}
	}
}

// WithSegmenter sets the line break and grapheme segmenter.
func WithSegmenter(s Segmenter) Option {
	return func(m *Manager) {
		if s != nil {
			m.segmenter = s
		}
	}
}

// WithLocale sets the locale of the root paragraph.
func WithLocale(tag language.Tag) Option {
	return func(m *Manager) {
		m.locale = tag
	}
}

// WithMaxElementDepth overrides the document's element depth limit.
func WithMaxElementDepth(depth int) Option {
	return func(m *Manager) {
		m.maxDepth = depth
	}
}

// WithReuseBoxes enables reuse of boxes that were not invalidated.
// Reuse is not supported: a pass that could reuse boxes fails with
// ErrNotImplemented.
func WithReuseBoxes(enabled bool) Option {
	return func(m *Manager) {
		m.reuse = enabled
	}
}

// New creates a manager for doc and starts tracking its mutations.
func New(doc *dom.Document, opts ...Option) *Manager {
	m := &Manager{
		doc:       doc,
		logger:    nopLogger{},
		metrics:   NewMetrics(DefaultCharWidthRatio),
		segmenter: UnicodeSegmenter{},
		locale:    language.English,
		maxDepth:  doc.MaxElementDepth(),
		dirty:     true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.sub = doc.Subscribe(m.onMutation)
	return m
}

func (m *Manager) onMutation(rec dom.MutationRecord) {
	// Style changes reach layout through the boxes' invalidation tiers.
	if rec.Kind == dom.MutationAttributes && (rec.Attribute == "style" || rec.Attribute == "class") {
		return
	}
	m.markDirty()
}

// Close stops tracking mutations and detaches the boxes from the
// document.
func (m *Manager) Close() {
	m.sub.Unsubscribe()
	m.detach(nil)
}

func (m *Manager) markDirty() { m.dirty = true }

// Dirty reports whether the box tree is out of date.
func (m *Manager) Dirty() bool { return m.dirty }

// Stats returns the pass and invalidation counters.
func (m *Manager) Stats() Stats { return m.stats }

// UpdateLayout brings computed styles up to date and, if anything that
// affects geometry changed, regenerates and places the box tree.
func (m *Manager) UpdateLayout() error {
	m.doc.UpdateComputedStyles()
	if !m.dirty {
		return nil
	}

	doc := m.doc
	de := doc.DocumentElement()
	if de == dom.InvalidNode {
		return ErrNoDocumentElement
	}

	elements := make(map[dom.NodeID]*elementBoxes)
	ctx := &Context{
		Doc:             doc,
		MaxElementDepth: m.maxDepth,
		Logger:          m.logger,
		Segmenter:       m.segmenter,
		ReuseBoxes:      m.reuse,
		OnElementBoxes: func(id dom.NodeID, boxes []Box) {
			elements[id] = &elementBoxes{m: m, id: id, boxes: boxes}
		},
	}

	initial := doc.InitialStyle()
	root := NewBlockContainer(doc.Root(), initial, LeftToRight)
	cell := NewParagraphCell(ctx.NewParagraph(m.locale, LeftToRight, nil))
	gen := NewGenerator(ctx, cell, initial, 0)
	if err := gen.Visit(de); err != nil {
		return fmt.Errorf("generate boxes: %w", err)
	}
	for _, b := range gen.Boxes() {
		root.TryAddChild(b)
	}
	if p := cell.Current(); !p.IsClosed() {
		p.Close()
	}

	f := &flow{metrics: m.metrics}
	vp := doc.Viewport()
	f.layoutBlock(root, 0, 0, Px(vp.Width), Px(vp.Height))

	m.detach(elements)
	for id, eb := range elements {
		doc.SetLayoutBoxes(id, eb)
	}
	m.root, m.ctx, m.elements = root, ctx, elements
	m.index = NewSpatialIndex(root)
	m.textBoxes = make(map[dom.NodeID][]*TextBox)
	Walk(root, func(b Box) bool {
		if t, ok := b.(*TextBox); ok {
			m.textBoxes[t.node] = append(m.textBoxes[t.node], t)
		}
		return true
	})

	m.dirty = false
	m.stats.Passes++
	m.logger.Debug("layout pass %d: %d paragraphs, %d leaves", m.stats.Passes, len(ctx.Paragraphs()), m.index.Len())
	return nil
}

// detach removes the previous pass's records from elements that keep is
// not replacing.
func (m *Manager) detach(keep map[dom.NodeID]*elementBoxes) {
	for id, eb := range m.elements {
		if _, ok := keep[id]; ok {
			continue
		}
		if m.doc.LayoutBoxes(id) == dom.LayoutBoxes(eb) {
			m.doc.SetLayoutBoxes(id, nil)
		}
	}
}

// Root returns the box of the initial containing block, or nil before the
// first pass.
func (m *Manager) Root() *ContainerBox { return m.root }

// Paragraphs returns the paragraphs of the last pass in document order.
func (m *Manager) Paragraphs() []*Paragraph {
	if m.ctx == nil {
		return nil
	}
	return m.ctx.Paragraphs()
}

// ParagraphOfNode returns the paragraph a node's content went into. For a
// block element it is the paragraph the block opened.
func (m *Manager) ParagraphOfNode(id dom.NodeID) *Paragraph {
	if m.ctx == nil {
		return nil
	}
	return m.ctx.ParagraphOf(id)
}

// ParagraphPosition maps a character offset in a text node to a position
// in the paragraph its text went into. White space that collapsed maps to
// the space it collapsed into. Case mapping that changes the length of the
// text is not accounted for.
func (m *Manager) ParagraphPosition(node dom.NodeID, offset int) (*Paragraph, int) {
	p := m.ParagraphOfNode(node)
	boxes := m.textBoxes[node]
	if p == nil || len(boxes) == 0 {
		return p, 0
	}
	data := []rune(m.doc.Data(node))
	offset = clamp(offset, 0, len(data))
	pos := boxes[0].start + renderedLength(string(data[:offset]), boxes[0].style.WhiteSpace())
	return p, clamp(pos, boxes[0].start, boxes[len(boxes)-1].end)
}

// renderedLength returns how many paragraph characters the text s
// produces under white-space mode ws.
func renderedLength(s string, ws cssom.Keyword) int {
	segments := []string{s}
	if !collapsesSegmentBreaks(ws) {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		segments = strings.Split(strings.ReplaceAll(s, "\r", "\n"), "\n")
	}
	n := len(segments) - 1
	for _, seg := range segments {
		if collapsesWhiteSpace(ws) {
			seg = CollapseWhiteSpace(seg)
		}
		n += utf8.RuneCountInString(seg)
	}
	return n
}

// Metrics returns the text measurement used for placement.
func (m *Manager) Metrics() *Metrics { return m.metrics }

// BoxesFor returns the boxes generated for a node.
func (m *Manager) BoxesFor(id dom.NodeID) []Box {
	if eb, ok := m.elements[id]; ok {
		return eb.boxes
	}
	var out []Box
	for _, t := range m.textBoxes[id] {
		out = append(out, t)
	}
	return out
}

// TextBoxes returns the text boxes of a text node in paragraph order.
func (m *Manager) TextBoxes(id dom.NodeID) []*TextBox { return m.textBoxes[id] }

// HitTest returns the leaf boxes containing the point (x, y) in pixels.
func (m *Manager) HitTest(x, y float64) []Box {
	if m.index == nil {
		return nil
	}
	return m.index.HitTest(Px(x), Px(y))
}

// ItemsInRect returns the leaf boxes intersecting r.
func (m *Manager) ItemsInRect(r Rect) []Box {
	if m.index == nil {
		return nil
	}
	return m.index.Search(r)
}

// ItemsByParagraph returns the leaf boxes of p in placement order.
func (m *Manager) ItemsByParagraph(p *Paragraph) []Box {
	if m.index == nil {
		return nil
	}
	return m.index.ByParagraph(p)
}

// Dump writes the box tree, one box per line.
func (m *Manager) Dump(w io.Writer) error {
	if m.root == nil {
		_, err := io.WriteString(w, "(no layout)\n")
		return err
	}
	var err error
	var dump func(b Box, depth int)
	dump = func(b Box, depth int) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), m.describe(b))
		if c, ok := b.(*ContainerBox); ok {
			for _, child := range c.children {
				dump(child, depth+1)
			}
		}
	}
	dump(m.root, 0)
	return err
}

func (m *Manager) describe(b Box) string {
	f := b.Frame()
	geom := fmt.Sprintf("(%g,%g %gx%g)", ToPx(f.Min.X), ToPx(f.Min.Y), ToPx(Width(f)), ToPx(Height(f)))
	switch v := b.(type) {
	case *ContainerBox:
		name := m.label(v.node)
		var flags []string
		if v.splitOnLeft {
			flags = append(flags, "split-left")
		}
		if v.splitOnRight {
			flags = append(flags, "split-right")
		}
		s := fmt.Sprintf("%s <%s> %s %s", v.kind, name, v.direction, geom)
		if len(flags) > 0 {
			s += " [" + strings.Join(flags, ",") + "]"
		}
		return s
	case *TextBox:
		return fmt.Sprintf("text p%d [%d,%d) %q %s", v.paragraph.id, v.start, v.end, v.Text(), geom)
	case *ReplacedBox:
		return fmt.Sprintf("replaced <%s> %s p%d@%d %s", m.label(v.node), v.level, v.paragraph.id, v.position, geom)
	default:
		return fmt.Sprintf("%T %s", b, geom)
	}
}

func (m *Manager) label(id dom.NodeID) string {
	if tag := m.doc.TagName(id); tag != "" {
		return tag
	}
	return m.doc.NodeName(id)
}
