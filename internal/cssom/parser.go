package cssom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// declarationAST is a single "property: value [!important]" declaration.
type declarationAST struct {
	Property  string     `@Ident ":"`
	Terms     []*termAST `@@+`
	Important bool       `@( "!" "important" )?`
}

type termAST struct {
	Hash      *string  `  @Hash`
	Func      *funcAST `| @@`
	Dimension *string  `| @Dimension`
	Number    *float64 `| @Number`
	Ident     *string  `| @Ident`
	String    *string  `| @String`
	Comma     bool     `| @","`
}

type funcAST struct {
	Name string     `@Ident "("`
	Args []*termAST `@@* ")"`
}

// declarationLexer tokenizes declaration text.
var declarationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"[^"]*"|'[^']*'`},
	{Name: "Hash", Pattern: `#[0-9a-fA-F]+`},
	{Name: "Dimension", Pattern: `[-+]?(\d+\.?\d*|\.\d+)([a-zA-Z]+|%)`},
	{Name: "Number", Pattern: `[-+]?(\d+\.?\d*|\.\d+)`},
	{Name: "Ident", Pattern: `-?[a-zA-Z_][a-zA-Z0-9_-]*`},
	{Name: "Punct", Pattern: `[:;,()!/]`},
})

var declarationParser = participle.MustBuild[declarationAST](
	participle.Lexer(declarationLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseDeclarations parses the text of a style attribute. Invalid
// declarations are dropped and reported through the returned error, which
// joins one *DeclarationError per rejected declaration. The returned block
// is never nil.
func ParseDeclarations(text string) (*DeclaredStyle, error) {
	style := NewDeclaredStyle()
	var errs []error
	for _, segment := range splitDeclarations(text) {
		if err := parseDeclarationInto(style, segment); err != nil {
			errs = append(errs, err)
		}
	}
	return style, errors.Join(errs...)
}

func parseDeclarationInto(style *DeclaredStyle, text string) error {
	ast, err := declarationParser.ParseString("", text)
	if err != nil {
		return &DeclarationError{Text: text, Err: fmt.Errorf("%w: %v", ErrSyntax, err)}
	}

	name := strings.ToLower(ast.Property)
	values, err := convertTerms(ast.Terms)
	if err != nil {
		return &DeclarationError{Property: name, Text: text, Err: err}
	}

	if expand, ok := shorthands[name]; ok {
		longhands, err := expand(values)
		if err != nil {
			return &DeclarationError{Property: name, Text: text, Err: err}
		}
		for _, d := range longhands {
			style.set(d.key, d.value, ast.Important)
		}
		return nil
	}

	key, ok := LookupProperty(name)
	if !ok {
		return &DeclarationError{Property: name, Text: text, Err: ErrUnknownProperty}
	}
	var value Value
	if len(values) == 1 {
		value = values[0]
	} else {
		value = List(values)
	}
	if err := validate(key, value); err != nil {
		return &DeclarationError{Property: name, Text: text, Err: err}
	}
	style.set(key, value, ast.Important)
	return nil
}

// splitDeclarations splits on semicolons outside quotes and parentheses.
func splitDeclarations(text string) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)
	for i, r := range text {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ';' && depth == 0:
			parts = appendSegment(parts, text[start:i])
			start = i + 1
		}
	}
	return appendSegment(parts, text[start:])
}

func appendSegment(parts []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		parts = append(parts, s)
	}
	return parts
}

func convertTerms(terms []*termAST) ([]Value, error) {
	values := make([]Value, 0, len(terms))
	for _, t := range terms {
		if t.Comma {
			continue
		}
		v, err := convertTerm(t)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, ErrInvalidValue
	}
	return values, nil
}

func convertTerm(t *termAST) (Value, error) {
	switch {
	case t.Hash != nil:
		return parseHexColor(*t.Hash)
	case t.Func != nil:
		return convertFunc(t.Func)
	case t.Dimension != nil:
		return parseDimension(*t.Dimension)
	case t.Number != nil:
		return Number(*t.Number), nil
	case t.Ident != nil:
		return Keyword(strings.ToLower(*t.Ident)), nil
	case t.String != nil:
		s := *t.String
		return String(s[1 : len(s)-1]), nil
	}
	return nil, ErrInvalidValue
}

func convertFunc(f *funcAST) (Value, error) {
	name := strings.ToLower(f.Name)
	args, err := convertTerms(f.Args)
	if err != nil && len(f.Args) > 0 {
		return nil, err
	}
	switch name {
	case "rgb", "rgba":
		return rgbFunction(args)
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return String(name + "(" + strings.Join(parts, ", ") + ")"), nil
}

func rgbFunction(args []Value) (Value, error) {
	if len(args) != 3 && len(args) != 4 {
		return nil, fmt.Errorf("%w: rgb() takes 3 or 4 arguments", ErrInvalidValue)
	}
	var c [4]uint8
	c[3] = 0xff
	for i, a := range args {
		var f float64
		switch v := a.(type) {
		case Number:
			f = float64(v)
			if i == 3 {
				f *= 255
			}
		case Percentage:
			f = float64(v) * 255 / 100
		default:
			return nil, fmt.Errorf("%w: rgb() argument %s", ErrInvalidValue, a)
		}
		c[i] = clampByte(f)
	}
	return RGBA(c[0], c[1], c[2], c[3]), nil
}

func clampByte(f float64) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 255:
		return 255
	default:
		return uint8(f + 0.5)
	}
}

func parseHexColor(s string) (Value, error) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3, 4:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return nil, fmt.Errorf("%w: color %s", ErrInvalidValue, s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: color %s", ErrInvalidValue, s)
	}
	return Color(n), nil
}

func parseDimension(s string) (Value, error) {
	i := len(s)
	for i > 0 && (s[i-1] == '%' || (s[i-1] >= 'a' && s[i-1] <= 'z') || (s[i-1] >= 'A' && s[i-1] <= 'Z')) {
		i--
	}
	n, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidValue, s)
	}
	suffix := s[i:]
	if suffix == "%" {
		return Percentage(n), nil
	}
	unit, ok := ParseUnit(suffix)
	if !ok {
		return nil, fmt.Errorf("%w: unit %q", ErrInvalidValue, suffix)
	}
	return Length{Value: n, Unit: unit}, nil
}

var displayKeywords = map[Keyword]bool{
	KeywordBlock: true, KeywordInline: true, KeywordInlineBlock: true,
	KeywordFlex: true, KeywordInlineFlex: true, KeywordNone: true,
}

var whiteSpaceKeywords = map[Keyword]bool{
	KeywordNormal: true, KeywordPre: true, KeywordPreWrap: true,
	KeywordPreLine: true, KeywordNoWrap: true,
}

// validate rejects values a property cannot hold.
func validate(k PropertyKey, v Value) error {
	if kw, ok := v.(Keyword); ok && (kw == KeywordInherit || kw == KeywordInitial) {
		return nil
	}
	switch {
	case k == PropertyDisplay:
		if kw, ok := v.(Keyword); ok && displayKeywords[kw] {
			return nil
		}
	case k == PropertyWhiteSpace:
		if kw, ok := v.(Keyword); ok && whiteSpaceKeywords[kw] {
			return nil
		}
	case isColorProperty(k):
		if _, ok := v.(Color); ok {
			return nil
		}
		if kw, ok := v.(Keyword); ok {
			if _, known := lookupColorKeyword(kw); known {
				return nil
			}
		}
	default:
		return nil
	}
	return fmt.Errorf("%w: %s for %s", ErrInvalidValue, v, k)
}

type longhand struct {
	key   PropertyKey
	value Value
}

var shorthands = map[string]func([]Value) ([]longhand, error){
	"margin": boxShorthand(PropertyMarginTop, PropertyMarginRight, PropertyMarginBottom, PropertyMarginLeft),
	"padding": boxShorthand(PropertyPaddingTop, PropertyPaddingRight,
		PropertyPaddingBottom, PropertyPaddingLeft),
	"border-width": boxShorthand(PropertyBorderTopWidth, PropertyBorderRightWidth,
		PropertyBorderBottomWidth, PropertyBorderLeftWidth),
	"border-style": boxShorthand(PropertyBorderTopStyle, PropertyBorderRightStyle,
		PropertyBorderBottomStyle, PropertyBorderLeftStyle),
	"border-color": boxShorthand(PropertyBorderTopColor, PropertyBorderRightColor,
		PropertyBorderBottomColor, PropertyBorderLeftColor),
	"border":        borderShorthand(0, 1, 2, 3),
	"border-top":    borderShorthand(0),
	"border-right":  borderShorthand(1),
	"border-bottom": borderShorthand(2),
	"border-left":   borderShorthand(3),
	"background": func(values []Value) ([]longhand, error) {
		if len(values) != 1 || validate(PropertyBackgroundColor, values[0]) != nil {
			return nil, fmt.Errorf("%w: only a background color is supported", ErrInvalidValue)
		}
		return []longhand{{PropertyBackgroundColor, values[0]}}, nil
	},
	"text-decoration": func(values []Value) ([]longhand, error) {
		out := []longhand{{PropertyTextDecorationLine, values[0]}}
		if len(values) > 1 {
			out = append(out, longhand{PropertyTextDecorationColor, values[len(values)-1]})
		}
		return out, nil
	},
}

// boxShorthand expands the one-to-four value top/right/bottom/left form.
func boxShorthand(top, right, bottom, left PropertyKey) func([]Value) ([]longhand, error) {
	return func(v []Value) ([]longhand, error) {
		var t, r, b, l Value
		switch len(v) {
		case 1:
			t, r, b, l = v[0], v[0], v[0], v[0]
		case 2:
			t, r, b, l = v[0], v[1], v[0], v[1]
		case 3:
			t, r, b, l = v[0], v[1], v[2], v[1]
		case 4:
			t, r, b, l = v[0], v[1], v[2], v[3]
		default:
			return nil, fmt.Errorf("%w: expected 1 to 4 values", ErrInvalidValue)
		}
		out := []longhand{{top, t}, {right, r}, {bottom, b}, {left, l}}
		for _, d := range out {
			if err := validate(d.key, d.value); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
}

var borderSides = [4][3]PropertyKey{
	{PropertyBorderTopWidth, PropertyBorderTopStyle, PropertyBorderTopColor},
	{PropertyBorderRightWidth, PropertyBorderRightStyle, PropertyBorderRightColor},
	{PropertyBorderBottomWidth, PropertyBorderBottomStyle, PropertyBorderBottomColor},
	{PropertyBorderLeftWidth, PropertyBorderLeftStyle, PropertyBorderLeftColor},
}

var borderStyleKeywords = map[Keyword]bool{
	"none": true, "hidden": true, "solid": true, "dashed": true, "dotted": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

// borderShorthand expands "border: <width> || <style> || <color>". Omitted
// components reset to their initial values.
func borderShorthand(sides ...int) func([]Value) ([]longhand, error) {
	return func(values []Value) ([]longhand, error) {
		var width, style, color Value
		for _, v := range values {
			switch tv := v.(type) {
			case Length, Number:
				width = v
			case Color:
				color = v
			case Keyword:
				switch {
				case tv == KeywordThin || tv == KeywordMedium || tv == KeywordThick:
					width = v
				case borderStyleKeywords[tv]:
					style = v
				default:
					if _, ok := lookupColorKeyword(tv); !ok {
						return nil, fmt.Errorf("%w: %s in border", ErrInvalidValue, tv)
					}
					color = v
				}
			default:
				return nil, fmt.Errorf("%w: %s in border", ErrInvalidValue, v)
			}
		}
		var out []longhand
		for _, side := range sides {
			keys := borderSides[side]
			for i, v := range []Value{width, style, color} {
				if v == nil {
					v = keys[i].Definition().Initial
				}
				out = append(out, longhand{keys[i], v})
			}
		}
		return out, nil
	}
}
