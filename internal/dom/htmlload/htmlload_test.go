package htmlload

import (
	"strings"
	"testing"

	"github.com/dshills/folio/internal/dom"
)

func TestLoad(t *testing.T) {
	d := dom.New()
	loads := 0
	d.OnLoad(func() { loads++ })
	var records []dom.MutationRecord
	d.Subscribe(func(r dom.MutationRecord) { records = append(records, r) })

	markup := `<!DOCTYPE html><html><head><title>t</title></head>` +
		`<body><p id="greeting" style="color: red">hello <b>world</b></p><!-- note --></body></html>`
	if err := LoadString(d, markup); err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	html := d.DocumentElement()
	if got := d.TagName(html); got != "html" {
		t.Fatalf("document element = %q, want html", got)
	}
	p := d.GetElementByID("greeting")
	if p == dom.InvalidNode {
		t.Fatal("greeting not registered")
	}
	if got := d.TextContent(p); got != "hello world" {
		t.Errorf("TextContent() = %q", got)
	}
	if d.DeclaredStyle(p).Len() != 1 {
		t.Errorf("style attribute not parsed: %s", d.DeclaredStyle(p))
	}
	if got := d.Kind(d.LastChild(d.Parent(p))); got != dom.KindComment {
		t.Errorf("last body child kind = %s, want comment", got)
	}
	if loads != 1 {
		t.Errorf("load listeners ran %d times, want 1", loads)
	}
	if len(records) != 1 || records[0].Kind != dom.MutationChildList {
		t.Errorf("mutations = %v, want a single child list record", records)
	}
}

func TestLoadFragment(t *testing.T) {
	d := dom.New()
	if err := LoadString(d, "<body></body>"); err != nil {
		t.Fatal(err)
	}
	body := d.LastChild(d.DocumentElement())
	if d.TagName(body) != "body" {
		t.Fatalf("body = %q", d.TagName(body))
	}

	err := LoadFragment(d, body, strings.NewReader(`<div dir="rtl">abc</div>tail`))
	if err != nil {
		t.Fatalf("LoadFragment() error = %v", err)
	}
	if d.ChildCount(body) != 2 {
		t.Fatalf("body children = %d, want 2", d.ChildCount(body))
	}
	div := d.FirstChild(body)
	if d.Dir(div) != "rtl" {
		t.Errorf("Dir() = %q, want rtl", d.Dir(div))
	}
	if got := d.TextContent(d.LastChild(body)); got != "tail" {
		t.Errorf("trailing text = %q", got)
	}
}
