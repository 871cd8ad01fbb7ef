package layout

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/dshills/folio/internal/cssom"
	"github.com/dshills/folio/internal/dom"
)

// Logger is the subset of the application logger layout uses.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Default size of replaced content without width or height attributes.
const defaultReplacedSize = 100

// Context is the state shared by every generator of one pass.
type Context struct {
	Doc             *dom.Document
	MaxElementDepth int
	Logger          Logger
	Segmenter       Segmenter

	// ReuseBoxes enables reusing the boxes of elements whose boxes were
	// not invalidated. Reuse is not supported and faults with
	// ErrNotImplemented when it would apply.
	ReuseBoxes bool

	// OnElementBoxes is called with the boxes generated for each element.
	OnElementBoxes func(id dom.NodeID, boxes []Box)

	paragraphs      []*Paragraph
	paragraphOfNode map[dom.NodeID]*Paragraph
}

// NewParagraph opens a paragraph owned by the pass.
func (c *Context) NewParagraph(locale language.Tag, base Direction, stack []Direction) *Paragraph {
	p := NewParagraph(len(c.paragraphs)+1, locale, base, stack, c.Segmenter)
	c.paragraphs = append(c.paragraphs, p)
	return p
}

// Paragraphs returns every paragraph opened in the pass, in order.
func (c *Context) Paragraphs() []*Paragraph { return c.paragraphs }

// ParagraphOf returns the paragraph that was current when the node was
// visited. For a block element that is the paragraph it scoped.
func (c *Context) ParagraphOf(id dom.NodeID) *Paragraph { return c.paragraphOfNode[id] }

func (c *Context) logger() Logger {
	if c.Logger == nil {
		return nopLogger{}
	}
	return c.Logger
}

func (c *Context) noteParagraph(id dom.NodeID, p *Paragraph) {
	if c.paragraphOfNode == nil {
		c.paragraphOfNode = make(map[dom.NodeID]*Paragraph)
	}
	c.paragraphOfNode[id] = p
}

// ParagraphCell holds the current paragraph. Generators for nested scopes
// swap it and restore it when the scope ends.
type ParagraphCell struct {
	p *Paragraph
}

// NewParagraphCell returns a cell holding p.
func NewParagraphCell(p *Paragraph) *ParagraphCell { return &ParagraphCell{p: p} }

// Current returns the current paragraph.
func (c *ParagraphCell) Current() *Paragraph { return c.p }

// Generator visits one node and produces its root boxes.
type Generator struct {
	ctx         *Context
	cell        *ParagraphCell
	parentStyle *cssom.ComputedStyle
	depth       int
	boxes       []Box
}

// NewGenerator returns a generator for a node whose parent has
// parentStyle and sits at depth.
func NewGenerator(ctx *Context, cell *ParagraphCell, parentStyle *cssom.ComputedStyle, depth int) *Generator {
	return &Generator{ctx: ctx, cell: cell, parentStyle: parentStyle, depth: depth}
}

// Boxes returns the root boxes produced by Visit.
func (g *Generator) Boxes() []Box { return g.boxes }

// Visit generates the boxes of id and its subtree.
func (g *Generator) Visit(id dom.NodeID) error {
	switch kind := g.ctx.Doc.Kind(id); kind {
	case dom.KindElement:
		return g.visitElement(id)
	case dom.KindText:
		g.visitText(id)
		return nil
	case dom.KindComment:
		return nil
	default:
		panic("assertion failed: box generation visited a " + kind.String() + " node")
	}
}

func (g *Generator) visitElement(id dom.NodeID) error {
	d := g.ctx.Doc
	if limit := g.ctx.MaxElementDepth; limit > 0 && g.depth >= limit {
		g.ctx.logger().Warn("elements deeper than %d are ignored in layout: <%s>", limit, d.TagName(id))
		return nil
	}
	style := d.ComputedStyle(id)
	if style == nil {
		return nil
	}
	if g.ctx.ReuseBoxes && d.LayoutBoxes(id) != nil {
		return notImplemented("partial layout reuse", d.TagName(id))
	}

	switch d.TagName(id) {
	case "img", "embed":
		return g.visitReplaced(id, style)
	case "br":
		g.visitBreak(id, style)
		return nil
	}
	return g.visitNonReplaced(id, style)
}

func (g *Generator) visitNonReplaced(id dom.NodeID, style *cssom.ComputedStyle) error {
	d := g.ctx.Doc
	scope := &containerScope{ctx: g.ctx, cell: g.cell, dir: d.Dir(id)}
	defer scope.close()

	container, err := scope.open(id, d.TagName(id), style)
	if err != nil || container == nil {
		return err
	}
	g.ctx.noteParagraph(id, g.cell.p)
	g.boxes = append(g.boxes, container)

	for c := d.FirstChild(id); c != dom.InvalidNode; c = d.NextSibling(c) {
		child := NewGenerator(g.ctx, g.cell, style, g.depth+1)
		if err := child.Visit(c); err != nil {
			return err
		}
		for _, b := range child.boxes {
			g.appendChildBox(b)
		}
	}

	if g.ctx.OnElementBoxes != nil {
		var own []Box
		for _, b := range g.boxes {
			if b.Node() == id {
				own = append(own, b)
			}
		}
		g.ctx.OnElementBoxes(id, own)
	}
	return nil
}

// appendChildBox adds a child box to the open container. An inline
// container that rejects it is split: the child goes into the continuation
// if it fits there, and is emitted between the two parts otherwise.
func (g *Generator) appendChildBox(child Box) {
	last, ok := g.boxes[len(g.boxes)-1].(*ContainerBox)
	assert(ok, "child box appended after a non-container")
	if last.TryAddChild(child) {
		return
	}
	next := last.TrySplitAtEnd()
	assert(next != nil, "%s rejected a child and cannot split", last.Kind())
	if !next.TryAddChild(child) {
		g.boxes = append(g.boxes, child)
	}
	g.boxes = append(g.boxes, next)
}

func (g *Generator) visitText(id dom.NodeID) {
	text := g.ctx.Doc.Data(id)
	if text == "" {
		return
	}
	style := cssom.ComputeAnonymous(g.parentStyle)
	ws := style.WhiteSpace()
	preserveBreaks := !collapsesSegmentBreaks(ws)
	collapse := collapsesWhiteSpace(ws)
	transform := textTransform(style.TextTransform())
	g.ctx.noteParagraph(id, g.cell.p)

	for start := 0; start < len(text); {
		end, newline := len(text), 0
		if preserveBreaks {
			end, newline = nextNewline(text, start)
		}
		generatesNewline := newline > 0

		run := text[start:end]
		if collapse {
			run = CollapseWhiteSpace(run)
			// A lone collapsible space before any content would be
			// collapsed away at the start of the line.
			if g.cell.p.TextEnd() == 0 && run == " " {
				return
			}
		}

		p := g.cell.p
		from := p.AppendString(run, transform)
		g.boxes = append(g.boxes, newTextBox(id, style, p, from, p.TextEnd(), generatesNewline, false))
		if generatesNewline {
			p.AppendCodePoint(LineFeed)
		}
		start = end + newline
	}

	// Spaces unbroken by an element boundary do not wrap when wrapping is
	// disabled, so the trailing space becomes a no-break space.
	if !allowsWrapping(ws) && strings.HasSuffix(text, " ") {
		g.cell.p.AppendCodePoint(NoBreakSpace)
	}
}

func textTransform(k cssom.Keyword) TextTransform {
	switch k {
	case cssom.KeywordUppercase:
		return Uppercase
	case cssom.KeywordLowercase:
		return Lowercase
	case cssom.KeywordCapitalize:
		return Capitalize
	default:
		return NoTransform
	}
}

func (g *Generator) visitBreak(id dom.NodeID, style *cssom.ComputedStyle) {
	if style.Display() == cssom.KeywordNone {
		return
	}
	p := g.cell.p
	pos := p.TextEnd()
	g.boxes = append(g.boxes, newTextBox(id, cssom.ComputeAnonymous(style), p, pos, pos, false, true))
	p.AppendCodePoint(LineFeed)
	g.ctx.noteParagraph(id, p)
	if g.ctx.OnElementBoxes != nil {
		g.ctx.OnElementBoxes(id, g.boxes[len(g.boxes)-1:])
	}
}

func (g *Generator) visitReplaced(id dom.NodeID, style *cssom.ComputedStyle) error {
	var level Level
	switch display := style.Display(); display {
	case cssom.KeywordNone:
		return nil
	case cssom.KeywordBlock, cssom.KeywordFlex:
		level = BlockLevel
	case cssom.KeywordInline, cssom.KeywordInlineBlock, cssom.KeywordInlineFlex:
		level = InlineLevel
	default:
		panic("assertion failed: unexpected display " + display.String() + " for replaced content")
	}

	d := g.ctx.Doc
	p := g.cell.p
	pos := p.AppendCodePoint(ObjectReplacement)
	width := dimensionAttribute(d, id, "width")
	height := dimensionAttribute(d, id, "height")
	g.boxes = append(g.boxes, newReplacedBox(id, style, level, p, pos, Px(width), Px(height)))
	g.ctx.noteParagraph(id, p)
	if g.ctx.OnElementBoxes != nil {
		g.ctx.OnElementBoxes(id, g.boxes[len(g.boxes)-1:])
	}
	return nil
}

// dimensionAttribute reads a width or height attribute in pixels, falling
// back to the default replaced size.
func dimensionAttribute(d *dom.Document, id dom.NodeID, name string) float64 {
	v, ok := d.GetAttribute(id, name)
	if !ok {
		return defaultReplacedSize
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	if err != nil || f < 0 {
		return defaultReplacedSize
	}
	return f
}

// containerScope opens the paragraph and isolate state of one container
// and undoes it in close, which must run on every exit path.
type containerScope struct {
	ctx  *Context
	cell *ParagraphCell
	dir  string

	isolated bool
	scoped   bool
	prior    *Paragraph
}

func (s *containerScope) open(id dom.NodeID, tag string, style *cssom.ComputedStyle) (*ContainerBox, error) {
	switch display := style.Display(); display {
	case cssom.KeywordBlock:
		s.scopeParagraph()
		return NewBlockContainer(id, style, s.cell.p.BaseDirection()), nil

	case cssom.KeywordInline:
		p := s.cell.p
		switch s.dir {
		case "ltr":
			p.AppendCodePoint(LeftToRightIsolate)
			s.isolated = true
		case "rtl":
			p.AppendCodePoint(RightToLeftIsolate)
			s.isolated = true
		}
		// Start the paragraph without a wrap opportunity so white space in
		// the container still produces boxes.
		if p.TextEnd() == 0 {
			p.AppendCodePoint(NoBreakSpace)
		}
		return NewInlineContainer(id, style, p.BaseDirection()), nil

	case cssom.KeywordFlex, cssom.KeywordInlineFlex, cssom.KeywordInlineBlock:
		return nil, notImplemented("display: "+display.String(), tag)

	case cssom.KeywordNone:
		return nil, nil

	default:
		panic("assertion failed: unexpected display " + display.String())
	}
}

// scopeParagraph closes the current paragraph and opens a fresh one that
// ends with the block.
func (s *containerScope) scopeParagraph() {
	s.scoped = true
	s.prior = s.cell.p

	base := s.prior.StackDirection()
	switch s.dir {
	case "ltr":
		base = LeftToRight
	case "rtl":
		base = RightToLeft
	}
	s.prior.Close()
	s.cell.p = s.ctx.NewParagraph(s.prior.Locale(), base, nil)
}

func (s *containerScope) close() {
	if s.isolated {
		s.cell.p.AppendCodePoint(PopDirectionalIsolate)
	}
	if !s.scoped {
		return
	}
	if !s.cell.p.IsClosed() {
		s.cell.p.Close()
	}
	if s.prior.IsClosed() {
		s.cell.p = s.ctx.NewParagraph(s.prior.Locale(), s.prior.BaseDirection(), s.prior.FormattingStack())
	} else {
		s.cell.p = s.prior
	}
}
