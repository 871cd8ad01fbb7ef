package cssom

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// ComputedStyle is an immutable snapshot of fully resolved property values
// for one node. Lengths are absolute pixels except where layout has to
// resolve them (percent widths, auto); colors are RGBA.
type ComputedStyle struct {
	values [numProperties]Value

	// inheritedFromParent records every value copied from the parent
	// during the cascade, so a stale snapshot can be detected without
	// regenerating it.
	inheritedFromParent []inheritedValue

	// IsInlineBeforeBlockification is true when display was inline before
	// it was forced to block.
	IsInlineBeforeBlockification bool
}

type inheritedValue struct {
	key   PropertyKey
	value Value
}

// Get returns the computed value of k.
func (s *ComputedStyle) Get(k PropertyKey) Value {
	if s == nil || !k.Valid() {
		return nil
	}
	return s.values[k]
}

// Equal reports whether every property has the same computed value.
func (s *ComputedStyle) Equal(other *ComputedStyle) bool {
	for k := range s.values {
		if !ValuesEqual(s.values[k], other.values[k]) {
			return false
		}
	}
	return true
}

// InheritedValuesMatch reports whether every value this style copied from
// its parent still equals the parent's current value.
func (s *ComputedStyle) InheritedValuesMatch(parent *ComputedStyle) bool {
	for _, iv := range s.inheritedFromParent {
		if !ValuesEqual(parent.Get(iv.key), iv.value) {
			return false
		}
	}
	return true
}

// Display returns the computed display keyword.
func (s *ComputedStyle) Display() Keyword { return s.keyword(PropertyDisplay) }

// WhiteSpace returns the computed white-space keyword.
func (s *ComputedStyle) WhiteSpace() Keyword { return s.keyword(PropertyWhiteSpace) }

// TextTransform returns the computed text-transform keyword.
func (s *ComputedStyle) TextTransform() Keyword { return s.keyword(PropertyTextTransform) }

// Position returns the computed position keyword.
func (s *ComputedStyle) Position() Keyword { return s.keyword(PropertyPosition) }

// Visibility returns the computed visibility keyword.
func (s *ComputedStyle) Visibility() Keyword { return s.keyword(PropertyVisibility) }

// Color returns the computed foreground color.
func (s *ComputedStyle) Color() Color {
	c, _ := s.Get(PropertyColor).(Color)
	return c
}

// BackgroundColor returns the computed background color.
func (s *ComputedStyle) BackgroundColor() Color {
	c, _ := s.Get(PropertyBackgroundColor).(Color)
	return c
}

// FontSize returns the computed font size in pixels.
func (s *ComputedStyle) FontSize() float64 {
	if l, ok := s.Get(PropertyFontSize).(Length); ok {
		return l.Value
	}
	return 16
}

// LineHeight returns the used line height in pixels.
func (s *ComputedStyle) LineHeight() float64 {
	switch v := s.Get(PropertyLineHeight).(type) {
	case Length:
		return v.Value
	case Number:
		return float64(v) * s.FontSize()
	default:
		return math.Round(s.FontSize() * 1.2)
	}
}

// Pixels returns the computed pixel value of k, or fallback when the value
// is not an absolute length.
func (s *ComputedStyle) Pixels(k PropertyKey, fallback float64) float64 {
	if l, ok := s.Get(k).(Length); ok && l.IsAbsolute() {
		return l.Value
	}
	return fallback
}

// ResolvePixels is Pixels with percentages taken of base. A negative base
// is indefinite and leaves percentages at fallback.
func (s *ComputedStyle) ResolvePixels(k PropertyKey, base, fallback float64) float64 {
	if p, ok := s.Get(k).(Percentage); ok {
		if base < 0 {
			return fallback
		}
		return float64(p) * base / 100
	}
	return s.Pixels(k, fallback)
}

func (s *ComputedStyle) keyword(k PropertyKey) Keyword {
	kw, _ := s.Get(k).(Keyword)
	return kw
}

// CreateInitialStyle returns the computed style of the initial containing
// block for a viewport.
func CreateInitialStyle(viewport Size) *ComputedStyle {
	s := &ComputedStyle{}
	for k := PropertyKey(0); k < numProperties; k++ {
		s.values[k] = propertyDefinitions[k].Initial
	}
	s.values[PropertyBackgroundColor] = transparent
	s.values[PropertyDisplay] = KeywordBlock
	s.values[PropertyWidth] = Px(viewport.Width)
	s.values[PropertyHeight] = Px(viewport.Height)
	promote(s, nil, nil, viewport)
	return s
}

// Compute cascades declared values over the parent's inherited values and
// the initial values, then promotes the result to absolute values.
// Declarations in author override those in defaults.
func Compute(author, defaults *DeclaredStyle, parent, root *ComputedStyle, viewport Size) *ComputedStyle {
	s := &ComputedStyle{}
	for k := PropertyKey(0); k < numProperties; k++ {
		d := propertyDefinitions[k]
		v, ok := author.Get(k)
		if !ok {
			v, ok = defaults.Get(k)
		}
		switch {
		case !ok && d.Inherited && parent != nil, ok && v == KeywordInherit:
			if parent == nil {
				v = d.Initial
				break
			}
			v = parent.values[k]
			s.inheritedFromParent = append(s.inheritedFromParent, inheritedValue{k, v})
		case !ok, v == KeywordInitial:
			v = d.Initial
		}
		s.values[k] = v
	}
	promote(s, parent, root, viewport)
	return s
}

// ComputeAnonymous returns the style of an anonymous inline box whose
// inherited properties come from parent.
func ComputeAnonymous(parent *ComputedStyle) *ComputedStyle {
	s := &ComputedStyle{}
	for k := PropertyKey(0); k < numProperties; k++ {
		d := propertyDefinitions[k]
		if d.Inherited && parent != nil {
			s.values[k] = parent.values[k]
		} else {
			s.values[k] = d.Initial
		}
	}
	s.values[PropertyDisplay] = KeywordInline
	promote(s, parent, nil, Size{})
	return s
}

// promote resolves relative and keyword values in place. Font size is
// resolved first since em lengths depend on it.
func promote(s, parent, root *ComputedStyle, viewport Size) {
	parentFontSize := 16.0
	if parent != nil {
		parentFontSize = parent.FontSize()
	}
	rootFontSize := 16.0
	if root != nil {
		rootFontSize = root.FontSize()
	}

	s.values[PropertyFontSize] = Px(resolveFontSize(s.values[PropertyFontSize], parentFontSize, rootFontSize, viewport))
	fontSize := s.FontSize()

	s.values[PropertyColor] = resolveColor(s.values[PropertyColor], parentColor(parent))
	color := s.Color()

	for k := PropertyKey(0); k < numProperties; k++ {
		switch v := s.values[k].(type) {
		case Length:
			s.values[k] = Px(absoluteLength(v, fontSize, rootFontSize, viewport))
		case Number:
			if v == 0 && acceptsLength(k) {
				s.values[k] = Px(0)
			}
		case Percentage:
			if k == PropertyLineHeight {
				s.values[k] = Px(float64(v) * fontSize / 100)
			}
		case Keyword:
			if isColorProperty(k) && k != PropertyColor {
				s.values[k] = resolveColor(v, color)
			}
		}
	}

	for _, k := range []PropertyKey{
		PropertyBorderTopWidth, PropertyBorderRightWidth,
		PropertyBorderBottomWidth, PropertyBorderLeftWidth,
	} {
		styleKey, _ := borderStyleFor(k)
		if st := s.keyword(styleKey); st == KeywordNone || st == KeywordHidden {
			s.values[k] = Px(0)
			continue
		}
		switch s.keyword(k) {
		case KeywordThin:
			s.values[k] = Px(1)
		case KeywordMedium:
			s.values[k] = Px(3)
		case KeywordThick:
			s.values[k] = Px(5)
		}
	}

	s.values[PropertyFontWeight] = resolveFontWeight(s.values[PropertyFontWeight], parent)

	// Absolutely positioned boxes are blockified.
	if pos := s.Position(); pos == KeywordAbsolute || pos == KeywordFixed {
		switch s.Display() {
		case KeywordInline, KeywordInlineBlock:
			s.IsInlineBeforeBlockification = true
			s.values[PropertyDisplay] = KeywordBlock
		case KeywordInlineFlex:
			s.IsInlineBeforeBlockification = true
			s.values[PropertyDisplay] = KeywordFlex
		}
	}
}

func parentColor(parent *ComputedStyle) Color {
	if parent == nil {
		return black
	}
	return parent.Color()
}

func acceptsLength(k PropertyKey) bool {
	if _, ok := propertyDefinitions[k].Initial.(Length); ok {
		return true
	}
	switch k {
	case PropertyWidth, PropertyHeight, PropertyTop, PropertyBottom,
		PropertyLeft, PropertyRight, PropertyFlexBasis, PropertyMaxWidth:
		return true
	}
	return false
}

var fontSizeKeywords = map[Keyword]float64{
	"xx-small": 9, "x-small": 10, "small": 13, "medium": 16,
	"large": 18, "x-large": 24, "xx-large": 32,
}

func resolveFontSize(v Value, parentSize, rootSize float64, viewport Size) float64 {
	switch tv := v.(type) {
	case Length:
		switch tv.Unit {
		case UnitEm:
			return tv.Value * parentSize
		case UnitRem:
			return tv.Value * rootSize
		}
		return absoluteLength(tv, parentSize, rootSize, viewport)
	case Percentage:
		return float64(tv) * parentSize / 100
	case Number:
		return float64(tv)
	case Keyword:
		switch tv {
		case "smaller":
			return parentSize / 1.2
		case "larger":
			return parentSize * 1.2
		}
		if px, ok := fontSizeKeywords[tv]; ok {
			return px
		}
	}
	return parentSize
}

func absoluteLength(l Length, fontSize, rootFontSize float64, viewport Size) float64 {
	switch l.Unit {
	case UnitEm:
		return l.Value * fontSize
	case UnitRem:
		return l.Value * rootFontSize
	case UnitVw:
		return l.Value * viewport.Width / 100
	case UnitVh:
		return l.Value * viewport.Height / 100
	case UnitVmin:
		return l.Value * math.Min(viewport.Width, viewport.Height) / 100
	case UnitVmax:
		return l.Value * math.Max(viewport.Width, viewport.Height) / 100
	case UnitPt:
		return l.Value * 4 / 3
	default:
		return l.Value
	}
}

func resolveFontWeight(v Value, parent *ComputedStyle) Value {
	parentWeight := Number(400)
	if parent != nil {
		if n, ok := parent.Get(PropertyFontWeight).(Number); ok {
			parentWeight = n
		}
	}
	switch v {
	case KeywordNormal:
		return Number(400)
	case KeywordBold:
		return Number(700)
	case KeywordBolder:
		return Number(math.Min(float64(parentWeight)+300, 900))
	case KeywordLighter:
		return Number(math.Max(float64(parentWeight)-300, 100))
	}
	return v
}

// resolveColor turns a color keyword into RGBA. currentcolor resolves to
// current, unknown keywords resolve to black.
func resolveColor(v Value, current Color) Value {
	switch tv := v.(type) {
	case Color:
		return tv
	case Keyword:
		if tv == KeywordCurrentColor {
			return current
		}
		if c, ok := lookupColorKeyword(tv); ok {
			return c
		}
	}
	return black
}

// lookupColorKeyword resolves named colors through the terminal color
// table, which carries the full CSS named color set.
func lookupColorKeyword(k Keyword) (Color, bool) {
	switch k {
	case KeywordTransparent:
		return transparent, true
	case KeywordCurrentColor:
		return 0, true
	}
	c := tcell.GetColor(string(k))
	if c == tcell.ColorDefault || !c.Valid() {
		return 0, false
	}
	r, g, b := c.RGB()
	if r < 0 {
		return 0, false
	}
	return RGBA(uint8(r), uint8(g), uint8(b), 0xff), true
}
