package dom

import (
	"errors"
	"math/rand"
	"testing"
)

// checkTree verifies the link structure of every node in the arena.
func checkTree(t *testing.T, d *Document) {
	t.Helper()
	for i := 1; i < len(d.nodes); i++ {
		id := NodeID(i)
		nd := &d.nodes[i]

		count := 0
		prev := InvalidNode
		for c := nd.first; c != InvalidNode; c = d.nodes[c].next {
			if d.nodes[c].parent != id {
				t.Fatalf("child %d of %d has parent %d", c, id, d.nodes[c].parent)
			}
			if d.nodes[c].prev != prev {
				t.Fatalf("child %d of %d has prev %d, want %d", c, id, d.nodes[c].prev, prev)
			}
			prev = c
			count++
			if count > len(d.nodes) {
				t.Fatalf("cycle in children of %d", id)
			}
		}
		if nd.last != prev {
			t.Fatalf("node %d last = %d, want %d", id, nd.last, prev)
		}
		if nd.childCount != count {
			t.Fatalf("node %d childCount = %d, want %d", id, nd.childCount, count)
		}
		if nd.parent == InvalidNode && (nd.prev != InvalidNode || nd.next != InvalidNode) {
			t.Fatalf("detached node %d has siblings", id)
		}
		if nd.parent != InvalidNode && nd.inserted != d.nodes[nd.parent].inserted {
			t.Fatalf("node %d inserted = %v, parent %v", id, nd.inserted, d.nodes[nd.parent].inserted)
		}
	}
}

func TestDocument_AppendAndInsertBefore(t *testing.T) {
	d := New()
	body := d.CreateElement("BODY")
	a := d.CreateElement("a")
	b := d.CreateElement("b")
	c := d.CreateTextNode("c")

	if err := d.AppendChild(d.Root(), body); err != nil {
		t.Fatalf("AppendChild() error = %v", err)
	}
	if err := d.AppendChild(body, a); err != nil {
		t.Fatalf("AppendChild() error = %v", err)
	}
	if err := d.AppendChild(body, c); err != nil {
		t.Fatalf("AppendChild() error = %v", err)
	}
	if err := d.InsertBefore(body, b, c); err != nil {
		t.Fatalf("InsertBefore() error = %v", err)
	}

	got := d.Children(body)
	want := []NodeID{a, b, c}
	if len(got) != len(want) {
		t.Fatalf("Children() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Children()[%d] = %d, want %d", i, got[i], want[i])
		}
		if idx := d.ChildIndex(want[i]); idx != i {
			t.Errorf("ChildIndex(%d) = %d, want %d", want[i], idx, i)
		}
		if at := d.ChildAt(body, i); at != want[i] {
			t.Errorf("ChildAt(%d) = %d, want %d", i, at, want[i])
		}
	}
	if d.TagName(body) != "body" || d.NodeName(body) != "BODY" {
		t.Errorf("TagName() = %q, NodeName() = %q", d.TagName(body), d.NodeName(body))
	}
	if !d.IsInserted(c) {
		t.Error("text node should be inserted")
	}
	checkTree(t, d)
}

func TestDocument_InsertMovesNode(t *testing.T) {
	d := New()
	p1 := d.CreateElement("div")
	p2 := d.CreateElement("div")
	x := d.CreateElement("span")
	mustAppend(t, d, d.Root(), p1)
	mustAppend(t, d, p1, p2)
	mustAppend(t, d, p1, x)

	if err := d.AppendChild(p2, x); err != nil {
		t.Fatalf("AppendChild() error = %v", err)
	}
	if d.Parent(x) != p2 {
		t.Errorf("Parent() = %d, want %d", d.Parent(x), p2)
	}
	if d.ChildCount(p1) != 1 {
		t.Errorf("ChildCount(p1) = %d, want 1", d.ChildCount(p1))
	}

	// Inserting a node before itself leaves it in place.
	y := d.CreateElement("i")
	mustAppend(t, d, p2, y)
	if err := d.InsertBefore(p2, x, x); err != nil {
		t.Fatalf("InsertBefore(self) error = %v", err)
	}
	if d.FirstChild(p2) != x || d.LastChild(p2) != y {
		t.Errorf("children after self insert = %v", d.Children(p2))
	}
	checkTree(t, d)
}

func TestDocument_InsertErrors(t *testing.T) {
	d := New()
	div := d.CreateElement("div")
	inner := d.CreateElement("div")
	text := d.CreateTextNode("x")
	other := d.CreateElement("p")
	mustAppend(t, d, d.Root(), div)
	mustAppend(t, d, div, inner)
	mustAppend(t, d, div, text)

	tests := []struct {
		name    string
		op      func() error
		wantErr error
	}{
		{"into text", func() error { return d.AppendChild(text, other) }, ErrHierarchyRequest},
		{"into itself", func() error { return d.AppendChild(div, div) }, ErrHierarchyRequest},
		{"into descendant", func() error { return d.AppendChild(inner, div) }, ErrHierarchyRequest},
		{"document as child", func() error { return d.AppendChild(div, d.Root()) }, ErrHierarchyRequest},
		{"foreign ref", func() error { return d.InsertBefore(inner, other, text) }, ErrNotFound},
		{"remove non-child", func() error { return d.RemoveChild(inner, text) }, ErrNotFound},
		{"invalid handle", func() error { return d.AppendChild(div, NodeID(9999)) }, ErrInvalidNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			var domErr *DOMError
			if !errors.As(err, &domErr) {
				t.Errorf("error %T is not a *DOMError", err)
			}
		})
	}
	checkTree(t, d)
}

func TestDocument_GenerationPropagates(t *testing.T) {
	d := New()
	a := d.CreateElement("div")
	b := d.CreateElement("div")
	c := d.CreateElement("div")
	mustAppend(t, d, d.Root(), a)
	mustAppend(t, d, a, b)

	before := []uint64{d.Generation(d.Root()), d.Generation(a), d.Generation(b)}
	mustAppend(t, d, b, c)
	after := []uint64{d.Generation(d.Root()), d.Generation(a), d.Generation(b)}
	for i := range before {
		if after[i] <= before[i] {
			t.Errorf("generation %d did not increase: %d -> %d", i, before[i], after[i])
		}
	}

	gen := d.Generation(a)
	if err := d.RemoveChild(b, c); err != nil {
		t.Fatalf("RemoveChild() error = %v", err)
	}
	if d.Generation(a) <= gen {
		t.Error("removal did not bump the ancestor generation")
	}
}

func TestDocument_RandomMutationsKeepTreeValid(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := New()
	nodes := []NodeID{d.Root()}
	for i := 0; i < 40; i++ {
		if i%4 == 3 {
			nodes = append(nodes, d.CreateTextNode("t"))
		} else {
			nodes = append(nodes, d.CreateElement("div"))
		}
	}

	for step := 0; step < 2000; step++ {
		parent := nodes[rng.Intn(len(nodes))]
		child := nodes[1+rng.Intn(len(nodes)-1)]
		switch rng.Intn(3) {
		case 0:
			_ = d.AppendChild(parent, child)
		case 1:
			ref := InvalidNode
			if n := d.ChildCount(parent); n > 0 && d.Kind(parent) != KindText {
				ref = d.ChildAt(parent, rng.Intn(n))
			}
			_ = d.InsertBefore(parent, child, ref)
		case 2:
			if p := d.Parent(child); p != InvalidNode {
				if err := d.RemoveChild(p, child); err != nil {
					t.Fatalf("RemoveChild() error = %v", err)
				}
			}
		}
	}
	checkTree(t, d)
}

func TestDocument_IDRegistry(t *testing.T) {
	d := New()
	body := d.CreateElement("body")
	first := d.CreateElement("p")
	second := d.CreateElement("p")
	mustSetAttr(t, d, first, "id", "x")
	mustSetAttr(t, d, second, "ID", "x")

	if got := d.GetElementByID("x"); got != InvalidNode {
		t.Errorf("detached element registered: %d", got)
	}

	mustAppend(t, d, d.Root(), body)
	mustAppend(t, d, body, second)
	if got := d.GetElementByID("x"); got != second {
		t.Errorf("GetElementByID() = %d, want %d", got, second)
	}
	if err := d.InsertBefore(body, first, second); err != nil {
		t.Fatal(err)
	}
	if got := d.GetElementByID("x"); got != first {
		t.Errorf("GetElementByID() = %d, want first in tree order %d", got, first)
	}

	if err := d.RemoveChild(body, first); err != nil {
		t.Fatal(err)
	}
	if got := d.GetElementByID("x"); got != second {
		t.Errorf("after removal GetElementByID() = %d, want %d", got, second)
	}

	mustSetAttr(t, d, second, "id", "y")
	if got := d.GetElementByID("x"); got != InvalidNode {
		t.Errorf("stale id still registered: %d", got)
	}
	if got := d.GetElementByID("y"); got != second {
		t.Errorf("GetElementByID(y) = %d, want %d", got, second)
	}
	if err := d.RemoveAttribute(second, "id"); err != nil {
		t.Fatal(err)
	}
	if got := d.GetElementByID("y"); got != InvalidNode {
		t.Errorf("removed id still registered: %d", got)
	}
}

func TestDocument_Attributes(t *testing.T) {
	d := New()
	el := d.CreateElement("div")
	mustAppend(t, d, d.Root(), el)

	var records []MutationRecord
	d.Subscribe(func(rec MutationRecord) { records = append(records, rec) })

	mustSetAttr(t, d, el, "Title", "a")
	mustSetAttr(t, d, el, "title", "a")
	if len(records) != 1 {
		t.Fatalf("mutations = %d, want 1 (unchanged value is a no-op)", len(records))
	}
	if records[0].Kind != MutationAttributes || records[0].Attribute != "title" {
		t.Errorf("record = %+v", records[0])
	}
	if v, ok := d.GetAttribute(el, "TITLE"); !ok || v != "a" {
		t.Errorf("GetAttribute() = %q, %v", v, ok)
	}
	if !d.HasAttribute(el, "title") {
		t.Error("HasAttribute() = false")
	}

	mustSetAttr(t, d, el, "class", "b a b")
	if got := d.ClassList(el); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("ClassList() = %v", got)
	}
	gen := d.Generation(el)
	if err := d.RemoveAttribute(el, "class"); err != nil {
		t.Fatal(err)
	}
	if d.Generation(el) <= gen {
		t.Error("removing class should bump the generation")
	}

	attrs := d.Attributes(el)
	if len(attrs) != 1 || attrs[0].Name != "title" {
		t.Errorf("Attributes() = %+v", attrs)
	}

	if err := d.SetAttribute(d.CreateTextNode("x"), "a", "b"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("SetAttribute(text) error = %v, want ErrInvalidState", err)
	}
}

func TestDocument_StyleAttribute(t *testing.T) {
	d := New()
	el := d.CreateElement("div")
	mustAppend(t, d, d.Root(), el)
	d.UpdateComputedStyles()

	mustSetAttr(t, d, el, "style", "display: inline; colour: red")
	if d.DeclaredStyle(el).Len() != 1 {
		t.Errorf("declared = %q, want only display", d.DeclaredStyle(el).String())
	}
	if d.StyleValid(el) {
		t.Error("style change should invalidate the computed style")
	}
	if !d.StyleDirty() {
		t.Error("style change should mark the document dirty")
	}
}

func TestDocument_LoadEventFiresOnce(t *testing.T) {
	d := New()
	fired := 0
	d.OnLoad(func() { fired++ })

	d.IncreaseLoadingCounter()
	d.IncreaseLoadingCounter()
	d.DecreaseLoadingCounterAndMaybeDispatchLoadEvent()
	if fired != 0 {
		t.Fatalf("fired with %d resources pending", d.LoadingCounter())
	}
	d.DecreaseLoadingCounterAndMaybeDispatchLoadEvent()
	d.DecreaseLoadingCounterAndMaybeDispatchLoadEvent()
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	d.IncreaseLoadingCounter()
	d.DecreaseLoadingCounterAndMaybeDispatchLoadEvent()
	if fired != 1 {
		t.Errorf("fired again without ResetLoadEvent: %d", fired)
	}

	d.ResetLoadEvent()
	d.IncreaseLoadingCounter()
	d.DecreaseLoadingCounterAndMaybeDispatchLoadEvent()
	if fired != 2 {
		t.Errorf("fired = %d after ResetLoadEvent, want 2", fired)
	}
}

func TestDocument_TextData(t *testing.T) {
	d := New()
	p := d.CreateElement("p")
	text := d.CreateTextNode("héllo")
	mustAppend(t, d, d.Root(), p)
	mustAppend(t, d, p, text)

	if d.Length(text) != 5 {
		t.Errorf("Length() = %d, want 5 characters", d.Length(text))
	}

	var kinds []MutationKind
	sub := d.Subscribe(func(rec MutationRecord) { kinds = append(kinds, rec.Kind) })
	gen := d.Generation(p)
	if err := d.AppendData(text, " world"); err != nil {
		t.Fatal(err)
	}
	if d.TextContent(p) != "héllo world" {
		t.Errorf("TextContent() = %q", d.TextContent(p))
	}
	if d.Generation(p) <= gen {
		t.Error("data change should bump the parent generation")
	}
	sub.Unsubscribe()
	if err := d.SetData(text, "bye"); err != nil {
		t.Fatal(err)
	}
	if len(kinds) != 1 || kinds[0] != MutationCharacterData {
		t.Errorf("mutations = %v, want one characterData", kinds)
	}
}

func mustAppend(t *testing.T, d *Document, parent, child NodeID) {
	t.Helper()
	if err := d.AppendChild(parent, child); err != nil {
		t.Fatalf("AppendChild(%d, %d) error = %v", parent, child, err)
	}
}

func mustSetAttr(t *testing.T, d *Document, id NodeID, name, value string) {
	t.Helper()
	if err := d.SetAttribute(id, name, value); err != nil {
		t.Fatalf("SetAttribute(%q) error = %v", name, err)
	}
}
