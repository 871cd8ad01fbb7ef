package dom

import (
	"errors"
	"testing"
)

// rangeTree builds body > [p1 > "first", p2 > "second"].
func rangeTree(t *testing.T) (d *Document, body, p1, t1, p2, t2 NodeID) {
	t.Helper()
	d = New()
	body = d.CreateElement("body")
	p1 = d.CreateElement("p")
	t1 = d.CreateTextNode("first")
	p2 = d.CreateElement("p")
	t2 = d.CreateTextNode("second")
	mustAppend(t, d, d.Root(), body)
	mustAppend(t, d, body, p1)
	mustAppend(t, d, p1, t1)
	mustAppend(t, d, body, p2)
	mustAppend(t, d, p2, t2)
	return d, body, p1, t1, p2, t2
}

func TestRange_SetStartSetEnd(t *testing.T) {
	d, _, _, t1, _, t2 := rangeTree(t)
	r := d.CreateRange()
	if !r.Collapsed() || r.Start().Node != d.Root() {
		t.Fatalf("new range = %v..%v, want collapsed at root", r.Start(), r.End())
	}

	if err := r.SetEnd(t2, 3); err != nil {
		t.Fatal(err)
	}
	if err := r.SetStart(t1, 2); err != nil {
		t.Fatal(err)
	}
	if r.Collapsed() {
		t.Fatal("range should span two texts")
	}

	// Moving the start past the end collapses onto the new start.
	if err := r.SetStart(t2, 5); err != nil {
		t.Fatal(err)
	}
	if want := (Position{t2, 5}); r.Start() != want || r.End() != want {
		t.Errorf("range = %v..%v, want collapsed at %v", r.Start(), r.End(), want)
	}

	// Moving the end before the start collapses onto the new end.
	if err := r.SetEnd(t1, 0); err != nil {
		t.Fatal(err)
	}
	if want := (Position{t1, 0}); r.Start() != want || r.End() != want {
		t.Errorf("range = %v..%v, want collapsed at %v", r.Start(), r.End(), want)
	}
}

func TestRange_Errors(t *testing.T) {
	d, _, p1, t1, _, _ := rangeTree(t)
	r := d.CreateRange()

	tests := []struct {
		name string
		set  func() error
		want error
	}{
		{"text offset past length", func() error { return r.SetStart(t1, 6) }, ErrIndexSize},
		{"child offset past count", func() error { return r.SetEnd(p1, 2) }, ErrIndexSize},
		{"negative offset", func() error { return r.SetStart(p1, -1) }, ErrIndexSize},
		{"unknown node", func() error { return r.SetStart(NodeID(500), 0) }, ErrInvalidNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set()
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var domErr *DOMError
			if !errors.As(err, &domErr) || domErr.Op == "" {
				t.Errorf("error %v carries no operation", err)
			}
		})
	}
}

func TestRange_DetachedBoundaryCollapses(t *testing.T) {
	d, _, _, t1, _, _ := rangeTree(t)
	detached := d.CreateTextNode("loose")
	r := d.CreateRange()
	if err := r.SetStart(t1, 1); err != nil {
		t.Fatal(err)
	}
	if err := r.SetEnd(detached, 2); err != nil {
		t.Fatal(err)
	}
	if !r.Collapsed() || r.Start().Node != detached {
		t.Errorf("range = %v..%v, want collapsed in detached node", r.Start(), r.End())
	}
}

func TestRange_ComparePoint(t *testing.T) {
	d, body, _, t1, p2, t2 := rangeTree(t)
	r := d.CreateRange()
	if err := r.SetEnd(t2, 2); err != nil {
		t.Fatal(err)
	}
	if err := r.SetStart(t1, 1); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		p    Position
		want int
	}{
		{Position{t1, 0}, -1},
		{Position{t1, 1}, 0},
		{Position{body, 1}, 0},
		{Position{p2, 0}, 0},
		{Position{t2, 2}, 0},
		{Position{t2, 3}, 1},
		{Position{body, 2}, 1},
	}
	for _, tt := range tests {
		got, err := r.ComparePoint(tt.p)
		if err != nil {
			t.Fatalf("ComparePoint(%v) error = %v", tt.p, err)
		}
		if got != tt.want {
			t.Errorf("ComparePoint(%v) = %d, want %d", tt.p, got, tt.want)
		}
	}

	if _, err := r.ComparePoint(Position{Node: d.CreateElement("div")}); !errors.Is(err, ErrWrongDocument) {
		t.Errorf("ComparePoint(detached) error = %v, want ErrWrongDocument", err)
	}
}

func TestRange_RecomputesChildAfterMutation(t *testing.T) {
	d, body, p1, _, _, _ := rangeTree(t)
	r := d.CreateRange()
	if err := r.SetEnd(body, 2); err != nil {
		t.Fatal(err)
	}
	if err := r.SetStart(body, 1); err != nil {
		t.Fatal(err)
	}

	// The boundary offset stays at 1 but now follows the new first child.
	first := d.CreateElement("h1")
	if err := d.InsertBefore(body, first, p1); err != nil {
		t.Fatal(err)
	}
	got, err := r.ComparePoint(Position{Node: first})
	if err != nil {
		t.Fatal(err)
	}
	if got != -1 {
		t.Errorf("ComparePoint(inside new first child) = %d, want -1", got)
	}
	got, err = r.ComparePoint(Position{Node: p1})
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("ComparePoint(inside shifted child) = %d, want 0", got)
	}
}

func TestRange_CloneAndCommonAncestor(t *testing.T) {
	d, body, p1, t1, _, t2 := rangeTree(t)
	r := d.CreateRange()
	if err := r.SetEnd(t2, 1); err != nil {
		t.Fatal(err)
	}
	if err := r.SetStart(t1, 1); err != nil {
		t.Fatal(err)
	}
	if got := r.CommonAncestorContainer(); got != body {
		t.Errorf("CommonAncestorContainer() = %d, want body %d", got, body)
	}

	c := r.Clone()
	if c.ID() == r.ID() {
		t.Error("clone shares the range ID")
	}
	c.Collapse(true)
	if r.Collapsed() || !c.Collapsed() || c.End() != r.Start() {
		t.Error("collapsing the clone affected the original or missed")
	}

	if err := r.SetEnd(t1, 3); err != nil {
		t.Fatal(err)
	}
	if got := r.CommonAncestorContainer(); got != t1 {
		t.Errorf("CommonAncestorContainer() = %d, want text %d (p %d)", got, t1, p1)
	}
}
