package editing

import (
	"errors"
	"testing"

	"github.com/dshills/folio/internal/dom"
	"github.com/dshills/folio/internal/dom/htmlload"
	"github.com/dshills/folio/internal/layout"
)

type fixture struct {
	doc        *dom.Document
	layout     *layout.Manager
	projector  *Projector
	body       dom.NodeID
	t1, t2, t3 dom.NodeID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d := dom.New(dom.WithViewport(800, 600))
	markup := `<html><body id="b"><p id="p1">hello world</p><p id="p2">second</p><p id="p3">third line</p></body></html>`
	if err := htmlload.LoadString(d, markup); err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	m := layout.New(d)
	t.Cleanup(m.Close)
	if err := m.UpdateLayout(); err != nil {
		t.Fatalf("UpdateLayout() error = %v", err)
	}
	text := func(id string) dom.NodeID { return d.FirstChild(d.GetElementByID(id)) }
	return &fixture{
		doc:       d,
		layout:    m,
		projector: NewProjector(d, m, m.Metrics()),
		body:      d.GetElementByID("b"),
		t1:        text("p1"),
		t2:        text("p2"),
		t3:        text("p3"),
	}
}

type span struct{ start, end int }

func spans(hs []Highlight) []span {
	var out []span
	for _, h := range hs {
		out = append(out, span{h.Start, h.End})
	}
	return out
}

func equalSpans(a, b []span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProject_AnchorFocusSymmetric(t *testing.T) {
	f := newFixture(t)
	a := dom.Position{Node: f.t1, Offset: 3}
	b := dom.Position{Node: f.t2, Offset: 2}

	forward, err := f.projector.Project(a, b)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	backward, err := f.projector.Project(b, a)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}

	want := []span{{3, 11}, {0, 2}}
	if got := spans(forward); !equalSpans(got, want) {
		t.Errorf("forward = %v, want %v", got, want)
	}
	if len(backward) != len(forward) {
		t.Fatalf("backward has %d highlights, forward %d", len(backward), len(forward))
	}
	for i := range forward {
		if forward[i].Rect != backward[i].Rect || forward[i].Box != backward[i].Box {
			t.Errorf("highlight %d differs: %+v vs %+v", i, forward[i], backward[i])
		}
	}

	if forward[0].Box.(*layout.TextBox).Paragraph() != f.layout.ParagraphOfNode(f.t1) {
		t.Error("first highlight not in the anchor paragraph")
	}
	if forward[1].Box.(*layout.TextBox).Paragraph() != f.layout.ParagraphOfNode(f.t2) {
		t.Error("last highlight not in the focus paragraph")
	}

	box := forward[0].Box.(*layout.TextBox)
	wantX := box.Frame().Min.X + f.layout.Metrics().Advance(box.Style(), "hel")
	if forward[0].Rect.Min.X != wantX || forward[0].Rect.Max.X != box.Frame().Max.X {
		t.Errorf("rect = %v, want x from %v to %v", forward[0].Rect, wantX, box.Frame().Max.X)
	}
	if forward[0].Rect.Min.Y != box.Frame().Min.Y || forward[0].Rect.Max.Y != box.Frame().Max.Y {
		t.Errorf("rect = %v does not span the box height", forward[0].Rect)
	}
}

func TestProject_Shapes(t *testing.T) {
	f := newFixture(t)
	pos := func(n dom.NodeID, off int) dom.Position { return dom.Position{Node: n, Offset: off} }

	tests := []struct {
		name      string
		anchor    dom.Position
		focus     dom.Position
		wantShape Shape
		want      []span
	}{
		{"collapsed", pos(f.t1, 2), pos(f.t1, 2), ShapeCollapsed, nil},
		{"same text backward", pos(f.t1, 8), pos(f.t1, 2), ShapeSameText, []span{{2, 8}}},
		{"interior paragraph whole", pos(f.t1, 3), pos(f.t3, 4), ShapeDivergent, []span{{3, 11}, {0, 6}, {0, 4}}},
		{"ends at paragraph end", pos(f.t1, 11), pos(f.t2, 6), ShapeDivergent, []span{{0, 6}}},
		{"element children", pos(f.body, 0), pos(f.body, 2), ShapeElement, []span{{0, 11}, {0, 6}}},
		{"element children backward", pos(f.body, 3), pos(f.body, 2), ShapeElement, []span{{0, 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(f.doc, tt.anchor, tt.focus); got != tt.wantShape {
				t.Errorf("Classify() = %s, want %s", got, tt.wantShape)
			}
			hs, err := f.projector.Project(tt.anchor, tt.focus)
			if err != nil {
				t.Fatalf("Project() error = %v", err)
			}
			if got := spans(hs); !equalSpans(got, tt.want) {
				t.Errorf("Project() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProject_SameParent(t *testing.T) {
	d := dom.New()
	if err := htmlload.LoadString(d, `<html><body><p id="p">ab<!-- x -->cd</p></body></html>`); err != nil {
		t.Fatal(err)
	}
	m := layout.New(d)
	defer m.Close()
	if err := m.UpdateLayout(); err != nil {
		t.Fatal(err)
	}
	p := d.GetElementByID("p")
	first, second := d.FirstChild(p), d.LastChild(p)
	anchor := dom.Position{Node: first, Offset: 1}
	focus := dom.Position{Node: second, Offset: 1}

	if got := Classify(d, anchor, focus); got != ShapeSameParent {
		t.Fatalf("Classify() = %s, want same-parent", got)
	}
	hs, err := NewProjector(d, m, nil).Project(anchor, focus)
	if err != nil {
		t.Fatal(err)
	}
	want := []span{{1, 2}, {2, 3}}
	if got := spans(hs); !equalSpans(got, want) {
		t.Errorf("Project() = %v, want %v", got, want)
	}
}

func TestProject_MixedUnsupported(t *testing.T) {
	f := newFixture(t)
	_, err := f.projector.Project(dom.Position{Node: f.body, Offset: 0}, dom.Position{Node: f.t2, Offset: 1})
	if !errors.Is(err, ErrUnsupportedSelection) {
		t.Errorf("Project() error = %v, want ErrUnsupportedSelection", err)
	}
}

func TestProject_ReplacedContent(t *testing.T) {
	d := dom.New()
	if err := htmlload.LoadString(d, `<html><body><p id="p">ab<img width="10" height="10">cd</p></body></html>`); err != nil {
		t.Fatal(err)
	}
	m := layout.New(d)
	defer m.Close()
	if err := m.UpdateLayout(); err != nil {
		t.Fatal(err)
	}
	p := d.GetElementByID("p")
	hs, err := NewProjector(d, m, m.Metrics()).Project(
		dom.Position{Node: d.FirstChild(p), Offset: 1},
		dom.Position{Node: d.LastChild(p), Offset: 1},
	)
	if err != nil {
		t.Fatal(err)
	}
	want := []span{{1, 2}, {2, 3}, {3, 4}}
	if got := spans(hs); !equalSpans(got, want) {
		t.Fatalf("Project() = %v, want %v", got, want)
	}
	if _, ok := hs[1].Box.(*layout.ReplacedBox); !ok {
		t.Errorf("middle highlight = %T, want the image", hs[1].Box)
	}
}

func TestClassifyOverlap(t *testing.T) {
	tests := []struct {
		name               string
		start, end, lo, hi int
		want               Overlap
		wantStart, wantEnd int
	}{
		{"both bounds inside", 0, 10, 2, 5, OverlapBoth, 2, 5},
		{"low bound only", 0, 10, 5, 20, OverlapLow, 5, 10},
		{"high bound only", 5, 10, 0, 7, OverlapHigh, 5, 7},
		{"box inside", 5, 10, 0, 20, OverlapInside, 5, 10},
		{"disjoint", 5, 10, 11, 20, OverlapNone, 5, 5},
		{"touches start", 5, 10, 0, 5, OverlapHigh, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyOverlap(tt.start, tt.end, tt.lo, tt.hi)
			if got != tt.want {
				t.Fatalf("ClassifyOverlap() = %d, want %d", got, tt.want)
			}
			s, e := Clip(got, tt.start, tt.end, tt.lo, tt.hi)
			if s != tt.wantStart || e != tt.wantEnd {
				t.Errorf("Clip() = [%d,%d), want [%d,%d)", s, e, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestOverlay(t *testing.T) {
	f := newFixture(t)
	o := NewOverlay(f.doc, f.projector, f.layout)
	defer o.Close()

	sel := f.doc.Selection()
	if err := sel.SetBaseAndExtent(f.t1, 3, f.t2, 2); err != nil {
		t.Fatal(err)
	}
	if !o.Stale() || o.Changes() != 1 {
		t.Fatalf("stale=%v changes=%d after selecting", o.Stale(), o.Changes())
	}
	hs, err := o.Highlights()
	if err != nil {
		t.Fatal(err)
	}
	if len(hs) != 2 {
		t.Errorf("got %d highlights, want 2", len(hs))
	}
	if _, err := o.Highlights(); err != nil || o.Updates() != 1 {
		t.Errorf("cached read recomputed: updates=%d err=%v", o.Updates(), err)
	}

	if err := sel.Collapse(f.t1, 1); err != nil {
		t.Fatal(err)
	}
	hs, err = o.Highlights()
	if err != nil || len(hs) != 0 {
		t.Errorf("caret highlights = %v, err = %v", hs, err)
	}

	o.Close()
	sel.RemoveAllRanges()
	if o.Stale() {
		t.Error("closed overlay still observes the selection")
	}
}

func TestOverlay_Invalidate(t *testing.T) {
	f := newFixture(t)
	o := NewOverlay(f.doc, f.projector, f.layout)
	defer o.Close()

	if err := f.doc.Selection().SetBaseAndExtent(f.t1, 0, f.t1, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := o.Highlights(); err != nil {
		t.Fatal(err)
	}
	o.Invalidate()
	if !o.Stale() {
		t.Fatal("Invalidate() did not mark the overlay stale")
	}
	hs, err := o.Highlights()
	if err != nil {
		t.Fatal(err)
	}
	if o.Updates() != 2 || o.Changes() != 1 {
		t.Errorf("updates=%d changes=%d, want 2 and 1", o.Updates(), o.Changes())
	}
	if !equalSpans(spans(hs), []span{{0, 5}}) {
		t.Errorf("highlights = %v, want [{0 5}]", spans(hs))
	}
}

func TestProject_OffsetOutOfRange(t *testing.T) {
	f := newFixture(t)
	_, err := f.projector.Project(dom.Position{Node: f.t1, Offset: 0}, dom.Position{Node: f.t1, Offset: 50})
	if !errors.Is(err, dom.ErrIndexSize) {
		t.Errorf("Project() error = %v, want ErrIndexSize", err)
	}
}
