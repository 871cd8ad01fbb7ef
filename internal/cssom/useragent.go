package cssom

// UserAgentStyles holds per-tag default declarations that sit below the
// style attribute in the cascade.
type UserAgentStyles struct {
	byTag map[string]*DeclaredStyle
}

// NewUserAgentStyles builds the default tag table.
func NewUserAgentStyles() *UserAgentStyles {
	ua := &UserAgentStyles{byTag: make(map[string]*DeclaredStyle)}
	for _, tag := range []string{
		"a", "abbr", "b", "bdi", "bdo", "br", "cite", "code", "em", "embed", "i",
		"img", "kbd", "label", "mark", "q", "s", "samp", "small", "span",
		"strong", "sub", "sup", "u", "var",
	} {
		ua.declare(tag, PropertyDisplay, KeywordInline)
	}
	for _, tag := range []string{"head", "link", "meta", "script", "style", "template", "title"} {
		ua.declare(tag, PropertyDisplay, KeywordNone)
	}
	ua.declare("pre", PropertyWhiteSpace, KeywordPre)
	ua.declare("b", PropertyFontWeight, KeywordBold)
	ua.declare("strong", PropertyFontWeight, KeywordBold)
	ua.declare("i", PropertyFontStyle, KeywordItalic)
	ua.declare("em", PropertyFontStyle, KeywordItalic)
	return ua
}

// Declare adds a default declaration for a lower-case tag name, replacing
// any earlier default for the same property.
func (ua *UserAgentStyles) Declare(tag string, k PropertyKey, v Value) {
	ua.declare(tag, k, v)
}

func (ua *UserAgentStyles) declare(tag string, k PropertyKey, v Value) {
	d, ok := ua.byTag[tag]
	if !ok {
		d = NewDeclaredStyle()
		ua.byTag[tag] = d
	}
	d.Set(k, v)
}

// For returns the defaults for a lower-case tag name, or nil.
func (ua *UserAgentStyles) For(tag string) *DeclaredStyle {
	if ua == nil {
		return nil
	}
	return ua.byTag[tag]
}
