package cssom

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a property value. The set of implementations is closed.
type Value interface {
	String() string
	isValue()
}

// Keyword is an identifier value such as "auto" or "block".
type Keyword string

// Recognized keywords.
const (
	KeywordAuto         Keyword = "auto"
	KeywordNone         Keyword = "none"
	KeywordNormal       Keyword = "normal"
	KeywordInherit      Keyword = "inherit"
	KeywordInitial      Keyword = "initial"
	KeywordBlock        Keyword = "block"
	KeywordInline       Keyword = "inline"
	KeywordInlineBlock  Keyword = "inline-block"
	KeywordFlex         Keyword = "flex"
	KeywordInlineFlex   Keyword = "inline-flex"
	KeywordPre          Keyword = "pre"
	KeywordPreWrap      Keyword = "pre-wrap"
	KeywordPreLine      Keyword = "pre-line"
	KeywordNoWrap       Keyword = "nowrap"
	KeywordUppercase    Keyword = "uppercase"
	KeywordLowercase    Keyword = "lowercase"
	KeywordCapitalize   Keyword = "capitalize"
	KeywordStatic       Keyword = "static"
	KeywordRelative     Keyword = "relative"
	KeywordAbsolute     Keyword = "absolute"
	KeywordFixed        Keyword = "fixed"
	KeywordVisible      Keyword = "visible"
	KeywordHidden       Keyword = "hidden"
	KeywordScroll       Keyword = "scroll"
	KeywordSolid        Keyword = "solid"
	KeywordCurrentColor Keyword = "currentcolor"
	KeywordTransparent  Keyword = "transparent"
	KeywordBold         Keyword = "bold"
	KeywordBolder       Keyword = "bolder"
	KeywordLighter      Keyword = "lighter"
	KeywordItalic       Keyword = "italic"
	KeywordLeft         Keyword = "left"
	KeywordRight        Keyword = "right"
	KeywordCenter       Keyword = "center"
	KeywordBaseline     Keyword = "baseline"
	KeywordThin         Keyword = "thin"
	KeywordMedium       Keyword = "medium"
	KeywordThick        Keyword = "thick"
	KeywordBreakWord    Keyword = "break-word"
)

func (k Keyword) String() string { return string(k) }
func (Keyword) isValue()         {}

// Unit is a length unit.
type Unit uint8

// Length units.
const (
	UnitPx Unit = iota
	UnitEm
	UnitRem
	UnitVw
	UnitVh
	UnitVmin
	UnitVmax
	UnitPt
)

var unitNames = [...]string{"px", "em", "rem", "vw", "vh", "vmin", "vmax", "pt"}

// String returns the CSS spelling of the unit.
func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return "?"
}

// ParseUnit maps a CSS unit suffix to a Unit.
func ParseUnit(s string) (Unit, bool) {
	s = strings.ToLower(s)
	for i, name := range unitNames {
		if name == s {
			return Unit(i), true
		}
	}
	return 0, false
}

// Length is a dimension with a unit.
type Length struct {
	Value float64
	Unit  Unit
}

// Px returns an absolute pixel length.
func Px(v float64) Length { return Length{Value: v, Unit: UnitPx} }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}
func (Length) isValue() {}

// IsAbsolute reports whether the length is already in pixels.
func (l Length) IsAbsolute() bool { return l.Unit == UnitPx }

// Percentage is a percentage value, 50% is Percentage(50).
type Percentage float64

func (p Percentage) String() string {
	return strconv.FormatFloat(float64(p), 'f', -1, 64) + "%"
}
func (Percentage) isValue() {}

// Number is a unitless number.
type Number float64

func (n Number) String() string { return strconv.FormatFloat(float64(n), 'f', -1, 64) }
func (Number) isValue()         {}

// Color is an RGBA color packed as 0xRRGGBBAA.
type Color uint32

// RGBA builds a Color from components.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// R returns the red component.
func (c Color) R() uint8 { return uint8(c >> 24) }

// G returns the green component.
func (c Color) G() uint8 { return uint8(c >> 16) }

// B returns the blue component.
func (c Color) B() uint8 { return uint8(c >> 8) }

// A returns the alpha component.
func (c Color) A() uint8 { return uint8(c) }

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %.3g)", c.R(), c.G(), c.B(), float64(c.A())/255)
}
func (Color) isValue() {}

// String is a quoted string value.
type String string

func (s String) String() string { return strconv.Quote(string(s)) }
func (String) isValue()         {}

// List is a space or comma separated sequence of values.
type List []Value

func (l List) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}
func (List) isValue() {}

// ValuesEqual reports whether two values are identical. Nil values are
// equal only to nil.
func ValuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	la, aok := a.(List)
	lb, bok := b.(List)
	if aok || bok {
		if !aok || !bok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !ValuesEqual(la[i], lb[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64
	Height float64
}
