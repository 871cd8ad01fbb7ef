package dom

import (
	"errors"
	"testing"
)

func TestSelection_Types(t *testing.T) {
	d, _, _, t1, _, t2 := rangeTree(t)
	s := d.Selection()

	changes := 0
	unsubscribe := s.OnDidChange(func() { changes++ })

	if s.Type() != SelectionNone || s.RangeCount() != 0 {
		t.Fatalf("new selection type = %s", s.Type())
	}
	if _, err := s.GetRangeAt(0); !errors.Is(err, ErrIndexSize) {
		t.Errorf("GetRangeAt(0) on empty selection error = %v", err)
	}
	if err := s.Extend(t1, 0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Extend() on empty selection error = %v", err)
	}

	if err := s.Collapse(t1, 2); err != nil {
		t.Fatal(err)
	}
	if s.Type() != SelectionCaret || !s.IsCollapsed() {
		t.Errorf("after Collapse type = %s", s.Type())
	}

	if err := s.Extend(t2, 4); err != nil {
		t.Fatal(err)
	}
	if s.Type() != SelectionRange || s.IsBackward() {
		t.Errorf("after Extend type = %s backward = %v", s.Type(), s.IsBackward())
	}
	r, err := s.GetRangeAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if r.Start() != (Position{t1, 2}) || r.End() != (Position{t2, 4}) {
		t.Errorf("range = %v..%v", r.Start(), r.End())
	}

	s.RemoveAllRanges()
	if s.Type() != SelectionNone {
		t.Errorf("after RemoveAllRanges type = %s", s.Type())
	}
	if changes != 3 {
		t.Errorf("change notifications = %d, want 3", changes)
	}

	unsubscribe()
	if err := s.Collapse(t1, 0); err != nil {
		t.Fatal(err)
	}
	if changes != 3 {
		t.Error("unsubscribed listener still notified")
	}
}

func TestSelection_Backward(t *testing.T) {
	d, _, _, t1, _, t2 := rangeTree(t)
	s := d.Selection()
	if err := s.SetBaseAndExtent(t2, 3, t1, 1); err != nil {
		t.Fatal(err)
	}
	if !s.IsBackward() {
		t.Error("focus before anchor should be backward")
	}
	if s.Anchor() != (Position{t2, 3}) || s.Focus() != (Position{t1, 1}) {
		t.Errorf("anchor %v focus %v", s.Anchor(), s.Focus())
	}
	r, _ := s.GetRangeAt(0)
	if r.Start() != s.Focus() || r.End() != s.Anchor() {
		t.Errorf("range = %v..%v, want focus..anchor", r.Start(), r.End())
	}
}

func TestSelection_AddRange(t *testing.T) {
	d, _, _, t1, _, t2 := rangeTree(t)
	s := d.Selection()

	r := d.CreateRange()
	if err := r.SetEnd(t2, 1); err != nil {
		t.Fatal(err)
	}
	if err := r.SetStart(t1, 1); err != nil {
		t.Fatal(err)
	}
	s.AddRange(r)
	if s.Anchor() != r.Start() || s.Focus() != r.End() {
		t.Errorf("anchor %v focus %v", s.Anchor(), s.Focus())
	}

	second := d.CreateRange()
	s.AddRange(second)
	if got, _ := s.GetRangeAt(0); got != r {
		t.Error("a second range replaced the first")
	}
}

func TestSelection_NodeRemoval(t *testing.T) {
	d, body, p1, t1, p2, t2 := rangeTree(t)
	s := d.Selection()

	// Removing the paragraph holding the focus moves the focus to where the
	// paragraph was.
	if err := s.SetBaseAndExtent(t1, 1, t2, 3); err != nil {
		t.Fatal(err)
	}
	if err := d.RemoveChild(body, p2); err != nil {
		t.Fatal(err)
	}
	if s.Anchor() != (Position{t1, 1}) {
		t.Errorf("anchor = %v, want unchanged", s.Anchor())
	}
	if s.Focus() != (Position{body, 1}) {
		t.Errorf("focus = %v, want (body, 1)", s.Focus())
	}
	r, _ := s.GetRangeAt(0)
	if ComparePositions(d, r.Start(), r.End()) > 0 {
		t.Errorf("range inverted: %v..%v", r.Start(), r.End())
	}

	// Offsets past a removed child shift down.
	mustAppend(t, d, body, p2)
	if err := s.Collapse(body, 2); err != nil {
		t.Fatal(err)
	}
	if err := d.RemoveChild(body, p1); err != nil {
		t.Fatal(err)
	}
	if s.Anchor() != (Position{body, 1}) || s.Focus() != (Position{body, 1}) {
		t.Errorf("caret = %v/%v, want (body, 1)", s.Anchor(), s.Focus())
	}
}

func TestSelection_NodeInsertion(t *testing.T) {
	d := New()
	html := d.CreateElement("html")
	a := d.CreateElement("p")
	b := d.CreateElement("p")
	mustAppend(t, d, d.Root(), html)
	mustAppend(t, d, html, a)
	mustAppend(t, d, html, b)
	s := d.Selection()

	tests := []struct {
		name        string
		ref         NodeID
		want        int
		wantChanges int
	}{
		{"before the caret", a, 2, 1},
		{"at the caret", b, 1, 0},
		{"after the caret", InvalidNode, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Collapse(html, 1); err != nil {
				t.Fatal(err)
			}
			changes := 0
			unsubscribe := s.OnDidChange(func() { changes++ })
			defer unsubscribe()

			x := d.CreateElement("span")
			if err := d.InsertBefore(html, x, tt.ref); err != nil {
				t.Fatal(err)
			}
			defer func() {
				if err := d.RemoveChild(html, x); err != nil {
					t.Fatal(err)
				}
			}()

			want := Position{html, tt.want}
			if s.Anchor() != want || s.Focus() != want {
				t.Errorf("caret = %v/%v, want %v", s.Anchor(), s.Focus(), want)
			}
			r, _ := s.GetRangeAt(0)
			if r.Start() != want || r.End() != want {
				t.Errorf("range = %v..%v, want %v", r.Start(), r.End(), want)
			}
			if d.ChildAt(html, s.Focus().Offset-1) != a {
				t.Errorf("child before the caret = %s, want the first paragraph", d.NodeName(d.ChildAt(html, s.Focus().Offset-1)))
			}
			if changes != tt.wantChanges {
				t.Errorf("change notifications = %d, want %d", changes, tt.wantChanges)
			}
		})
	}
}

func TestSelection_DataChange(t *testing.T) {
	d, _, _, t1, _, _ := rangeTree(t)
	s := d.Selection()
	if err := s.SetBaseAndExtent(t1, 4, t1, 2); err != nil {
		t.Fatal(err)
	}
	changes := 0
	s.OnDidChange(func() { changes++ })

	if err := d.AppendData(t1, "!"); err != nil {
		t.Fatal(err)
	}
	if changes != 0 || s.Anchor() != (Position{t1, 4}) {
		t.Errorf("append moved the selection: anchor %v, %d changes", s.Anchor(), changes)
	}

	if err := d.SetData(t1, "hi"); err != nil {
		t.Fatal(err)
	}
	if s.Anchor() != (Position{t1, 2}) || s.Focus() != (Position{t1, 2}) {
		t.Errorf("anchor %v focus %v, want both clamped to (t1, 2)", s.Anchor(), s.Focus())
	}
	if s.Type() != SelectionCaret {
		t.Errorf("type = %s, want Caret", s.Type())
	}
	if changes != 1 {
		t.Errorf("change notifications = %d, want 1", changes)
	}

	if err := s.SetBaseAndExtent(t1, 0, t1, 2); err != nil {
		t.Fatal(err)
	}
	if err := d.SetData(t1, "h"); err != nil {
		t.Fatal(err)
	}
	r, _ := s.GetRangeAt(0)
	if r.Start() != (Position{t1, 0}) || r.End() != (Position{t1, 1}) {
		t.Errorf("range = %v..%v, want (t1, 0)..(t1, 1)", r.Start(), r.End())
	}
	if _, err := CompareChecked(d, s.Anchor(), s.Focus()); err != nil {
		t.Errorf("clamped positions rejected: %v", err)
	}
}
