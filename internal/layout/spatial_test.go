package layout

import (
	"testing"

	"golang.org/x/text/language"

	"github.com/dshills/folio/internal/cssom"
	"github.com/dshills/folio/internal/dom"
)

// placedParagraph builds a block holding one text box per frame, all over
// the same paragraph.
func placedParagraph(frames ...Rect) (*ContainerBox, *Paragraph, []*TextBox) {
	style := cssom.CreateInitialStyle(cssom.Size{Width: 800, Height: 600})
	p := NewParagraph(1, language.English, LeftToRight, nil, nil)
	block := NewBlockContainer(dom.InvalidNode, style, LeftToRight)
	var boxes []*TextBox
	for i, f := range frames {
		start := p.AppendString("ab", NoTransform)
		tb := newTextBox(dom.NodeID(i+1), style, p, start, p.TextEnd(), false, false)
		tb.setFrame(f)
		block.TryAddChild(tb)
		boxes = append(boxes, tb)
	}
	p.Close()
	return block, p, boxes
}

func TestSpatialIndex(t *testing.T) {
	root, p, boxes := placedParagraph(
		RectPx(50, 20, 40, 20),
		RectPx(0, 0, 40, 20),
		RectPx(0, 20, 40, 20),
	)
	ix := NewSpatialIndex(root)
	if ix.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ix.Len())
	}

	byPara := ix.ByParagraph(p)
	want := []*TextBox{boxes[1], boxes[2], boxes[0]}
	for i, b := range byPara {
		if b != Box(want[i]) {
			t.Errorf("ByParagraph()[%d] = box %d", i, b.Node())
		}
	}

	tests := []struct {
		name string
		r    Rect
		want []*TextBox
	}{
		{"everything", RectPx(0, 0, 800, 600), want},
		{"second row", RectPx(0, 25, 800, 5), []*TextBox{boxes[2], boxes[0]}},
		{"gap", RectPx(42, 0, 6, 10), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ix.Search(tt.r)
			if len(got) != len(tt.want) {
				t.Fatalf("Search() returned %d boxes, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != Box(tt.want[i]) {
					t.Errorf("Search()[%d] = box %d", i, got[i].Node())
				}
			}
		})
	}

	hits := ix.HitTest(Px(60), Px(30))
	if len(hits) != 1 || hits[0] != Box(boxes[0]) {
		t.Errorf("HitTest(60, 30) = %v", hits)
	}
	// The shared edge at y=20 belongs to the box below.
	hits = ix.HitTest(Px(10), Px(20))
	if len(hits) != 1 || hits[0] != Box(boxes[2]) {
		t.Errorf("HitTest(10, 20) = %v", hits)
	}
}
