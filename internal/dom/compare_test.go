package dom

import (
	"errors"
	"math/rand"
	"testing"
)

// referenceKey is the child-index path from the root to p's container
// followed by p's offset. Comparing keys lexicographically, with a prefix
// ordered first, gives document order.
func referenceKey(d *Document, p Position) []int {
	var path []int
	for n := p.Node; d.Parent(n) != InvalidNode; n = d.Parent(n) {
		path = append([]int{d.ChildIndex(n)}, path...)
	}
	return append(path, p.Offset)
}

func compareKeys(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareInts(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareInts(len(a), len(b))
}

func randomTree(t *testing.T, rng *rand.Rand, nodes int) *Document {
	t.Helper()
	d := New()
	html := d.CreateElement("html")
	mustAppend(t, d, d.Root(), html)
	containers := []NodeID{html}
	for i := 0; i < nodes; i++ {
		parent := containers[rng.Intn(len(containers))]
		var child NodeID
		if rng.Intn(3) == 0 {
			child = d.CreateTextNode("abc"[:rng.Intn(4)])
		} else {
			child = d.CreateElement("div")
			containers = append(containers, child)
		}
		ref := InvalidNode
		if n := d.ChildCount(parent); n > 0 && rng.Intn(2) == 0 {
			ref = d.ChildAt(parent, rng.Intn(n))
		}
		if err := d.InsertBefore(parent, child, ref); err != nil {
			t.Fatal(err)
		}
	}
	return d
}

func allPositions(d *Document) []Position {
	var out []Position
	for _, n := range append([]NodeID{d.Root()}, d.Descendants(d.Root())...) {
		for off := 0; off <= d.Length(n); off++ {
			out = append(out, Position{Node: n, Offset: off})
		}
	}
	return out
}

func TestComparePositions_MatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for round := 0; round < 5; round++ {
		d := randomTree(t, rng, 25)
		positions := allPositions(d)
		for _, a := range positions {
			for _, b := range positions {
				want := compareKeys(referenceKey(d, a), referenceKey(d, b))
				got := ComparePositions(d, a, b)
				if got != want {
					t.Fatalf("round %d: Compare(%v, %v) = %d, want %d", round, a, b, got, want)
				}
				if back := ComparePositions(d, b, a); back != -got {
					t.Fatalf("round %d: not antisymmetric for %v, %v", round, a, b)
				}
			}
		}
	}
}

func TestComparePositions_Transitive(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	d := randomTree(t, rng, 40)
	positions := allPositions(d)
	for i := 0; i < 3000; i++ {
		a := positions[rng.Intn(len(positions))]
		b := positions[rng.Intn(len(positions))]
		c := positions[rng.Intn(len(positions))]
		if ComparePositions(d, a, b) <= 0 && ComparePositions(d, b, c) <= 0 && ComparePositions(d, a, c) > 0 {
			t.Fatalf("%v <= %v <= %v but %v > %v", a, b, c, a, c)
		}
	}
}

func TestComparePositions_Cases(t *testing.T) {
	d := New()
	body := d.CreateElement("body")
	mustAppend(t, d, d.Root(), body)
	p := d.CreateElement("p")
	txt := d.CreateTextNode("hello")
	q := d.CreateElement("q")
	mustAppend(t, d, body, p)
	mustAppend(t, d, p, txt)
	mustAppend(t, d, body, q)

	tests := []struct {
		name string
		a, b Position
		want int
	}{
		{"same node", Position{txt, 1}, Position{txt, 4}, -1},
		{"equal", Position{p, 1}, Position{p, 1}, 0},
		{"parent before child", Position{body, 0}, Position{txt, 0}, -1},
		{"parent after child", Position{body, 1}, Position{txt, 5}, 1},
		{"child before parent offset", Position{txt, 2}, Position{body, 2}, -1},
		{"siblings", Position{txt, 5}, Position{q, 0}, -1},
		{"document start", Position{d.Root(), 0}, Position{q, 0}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComparePositions(d, tt.a, tt.b); got != tt.want {
				t.Errorf("ComparePositions() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompareChecked_DifferentTrees(t *testing.T) {
	d := New()
	body := d.CreateElement("body")
	mustAppend(t, d, d.Root(), body)
	detached := d.CreateElement("div")

	a := Position{Node: body}
	b := Position{Node: detached}
	if got := ComparePositions(d, a, b); got != 0 {
		t.Errorf("ComparePositions() = %d, want 0", got)
	}
	if _, err := CompareChecked(d, a, b); !errors.Is(err, ErrWrongDocument) {
		t.Errorf("CompareChecked() error = %v, want ErrWrongDocument", err)
	}
	if _, err := CompareChecked(d, a, Position{Node: 999}); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("CompareChecked() error = %v, want ErrInvalidNode", err)
	}
}

func TestCompareChecked_Offsets(t *testing.T) {
	d := New()
	html := d.CreateElement("html")
	a := d.CreateElement("p")
	b := d.CreateElement("p")
	txt := d.CreateTextNode("hi")
	mustAppend(t, d, d.Root(), html)
	mustAppend(t, d, html, a)
	mustAppend(t, d, html, b)
	mustAppend(t, d, b, txt)

	tests := []struct {
		name    string
		a, b    Position
		want    int
		wantErr error
	}{
		{"element end", Position{html, 2}, Position{txt, 1}, 1, nil},
		{"text end", Position{txt, 2}, Position{txt, 1}, 1, nil},
		{"element offset past children", Position{html, 99}, Position{txt, 1}, 0, ErrIndexSize},
		{"text offset past length", Position{txt, 50}, Position{txt, 1}, 0, ErrIndexSize},
		{"negative offset on right", Position{txt, 0}, Position{a, -1}, 0, ErrIndexSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompareChecked(d, tt.a, tt.b)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CompareChecked() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("CompareChecked() = %d, %v, want %d", got, err, tt.want)
			}
		})
	}
}

func TestComparePositions_OffsetOutOfRangePanics(t *testing.T) {
	d := New()
	txt := d.CreateTextNode("hi")
	mustAppend(t, d, d.Root(), txt)
	defer func() {
		if recover() == nil {
			t.Error("ComparePositions() accepted an offset past the text length")
		}
	}()
	ComparePositions(d, Position{txt, 50}, Position{txt, 1})
}
