package cssom

// PropertyKey identifies a recognized longhand property.
type PropertyKey int

// Recognized longhand properties.
const (
	PropertyColor PropertyKey = iota
	PropertyDisplay
	PropertyFontSize
	PropertyFontFamily
	PropertyFontStyle
	PropertyFontWeight
	PropertyWidth
	PropertyHeight
	PropertyMinWidth
	PropertyMaxWidth
	PropertyTop
	PropertyBottom
	PropertyLeft
	PropertyRight
	PropertyMarginTop
	PropertyMarginRight
	PropertyMarginBottom
	PropertyMarginLeft
	PropertyPaddingTop
	PropertyPaddingRight
	PropertyPaddingBottom
	PropertyPaddingLeft
	PropertyBorderTopWidth
	PropertyBorderRightWidth
	PropertyBorderBottomWidth
	PropertyBorderLeftWidth
	PropertyBorderTopStyle
	PropertyBorderRightStyle
	PropertyBorderBottomStyle
	PropertyBorderLeftStyle
	PropertyBorderTopColor
	PropertyBorderRightColor
	PropertyBorderBottomColor
	PropertyBorderLeftColor
	PropertyBackgroundColor
	PropertyOpacity
	PropertyZIndex
	PropertyOverflow
	PropertyPosition
	PropertyTransform
	PropertyLineHeight
	PropertyWhiteSpace
	PropertyTextTransform
	PropertyTextAlign
	PropertyTextIndent
	PropertyVisibility
	PropertyPointerEvents
	PropertyContent
	PropertyVerticalAlign
	PropertyTextDecorationLine
	PropertyTextDecorationColor
	PropertyFlexGrow
	PropertyFlexShrink
	PropertyFlexBasis
	PropertyOverflowWrap
	PropertyWordWrap
	PropertyTextShadow

	numProperties
)

// PropertyDefinition describes how a property participates in the cascade
// and which cached layout data a change to it can affect.
type PropertyDefinition struct {
	Name      string
	Inherited bool

	ImpactsChildComputedStyle bool
	ImpactsBoxGeneration      bool
	ImpactsBoxSizes           bool
	ImpactsBoxCrossReferences bool

	Initial Value
}

const (
	flagInherited = 1 << iota
	flagChild
	flagGeneration
	flagSizes
	flagCrossRefs
)

func def(name string, flags int, initial Value) PropertyDefinition {
	return PropertyDefinition{
		Name:                      name,
		Inherited:                 flags&flagInherited != 0,
		ImpactsChildComputedStyle: flags&flagChild != 0,
		ImpactsBoxGeneration:      flags&flagGeneration != 0,
		ImpactsBoxSizes:           flags&flagSizes != 0,
		ImpactsBoxCrossReferences: flags&flagCrossRefs != 0,
		Initial:                   initial,
	}
}

var (
	black       = RGBA(0, 0, 0, 0xff)
	transparent = RGBA(0, 0, 0, 0)
	zeroPx      = Px(0)
	mediumWidth = Px(3)
)

var propertyDefinitions = [numProperties]PropertyDefinition{
	PropertyColor:               def("color", flagInherited|flagChild|flagGeneration, black),
	PropertyDisplay:             def("display", flagGeneration, KeywordBlock),
	PropertyFontSize:            def("font-size", flagInherited|flagChild|flagGeneration|flagSizes, Px(16)),
	PropertyFontFamily:          def("font-family", flagInherited|flagGeneration|flagSizes, String("Noto Mono")),
	PropertyFontStyle:           def("font-style", flagInherited|flagGeneration|flagSizes, KeywordNormal),
	PropertyFontWeight:          def("font-weight", flagInherited|flagGeneration|flagSizes, KeywordNormal),
	PropertyWidth:               def("width", flagChild|flagSizes, KeywordAuto),
	PropertyHeight:              def("height", flagChild|flagSizes, KeywordAuto),
	PropertyMinWidth:            def("min-width", flagSizes, zeroPx),
	PropertyMaxWidth:            def("max-width", flagSizes, KeywordNone),
	PropertyTop:                 def("top", flagChild|flagSizes, KeywordAuto),
	PropertyBottom:              def("bottom", flagChild|flagSizes, KeywordAuto),
	PropertyLeft:                def("left", flagSizes, KeywordAuto),
	PropertyRight:               def("right", flagSizes, KeywordAuto),
	PropertyMarginTop:           def("margin-top", flagSizes, zeroPx),
	PropertyMarginRight:         def("margin-right", flagSizes, zeroPx),
	PropertyMarginBottom:        def("margin-bottom", flagSizes, zeroPx),
	PropertyMarginLeft:          def("margin-left", flagSizes, zeroPx),
	PropertyPaddingTop:          def("padding-top", flagSizes, zeroPx),
	PropertyPaddingRight:        def("padding-right", flagSizes, zeroPx),
	PropertyPaddingBottom:       def("padding-bottom", flagSizes, zeroPx),
	PropertyPaddingLeft:         def("padding-left", flagSizes, zeroPx),
	PropertyBorderTopWidth:      def("border-top-width", flagSizes, mediumWidth),
	PropertyBorderRightWidth:    def("border-right-width", flagSizes, mediumWidth),
	PropertyBorderBottomWidth:   def("border-bottom-width", flagSizes, mediumWidth),
	PropertyBorderLeftWidth:     def("border-left-width", flagSizes, mediumWidth),
	PropertyBorderTopStyle:      def("border-top-style", flagSizes, KeywordNone),
	PropertyBorderRightStyle:    def("border-right-style", flagSizes, KeywordNone),
	PropertyBorderBottomStyle:   def("border-bottom-style", flagSizes, KeywordNone),
	PropertyBorderLeftStyle:     def("border-left-style", flagSizes, KeywordNone),
	PropertyBorderTopColor:      def("border-top-color", 0, KeywordCurrentColor),
	PropertyBorderRightColor:    def("border-right-color", 0, KeywordCurrentColor),
	PropertyBorderBottomColor:   def("border-bottom-color", 0, KeywordCurrentColor),
	PropertyBorderLeftColor:     def("border-left-color", 0, KeywordCurrentColor),
	PropertyBackgroundColor:     def("background-color", 0, transparent),
	PropertyOpacity:             def("opacity", flagCrossRefs, Number(1)),
	PropertyZIndex:              def("z-index", flagCrossRefs, KeywordAuto),
	PropertyOverflow:            def("overflow", flagSizes|flagCrossRefs, KeywordVisible),
	PropertyPosition:            def("position", flagGeneration|flagSizes|flagCrossRefs, KeywordStatic),
	PropertyTransform:           def("transform", flagSizes|flagCrossRefs, KeywordNone),
	PropertyLineHeight:          def("line-height", flagInherited|flagSizes, KeywordNormal),
	PropertyWhiteSpace:          def("white-space", flagInherited|flagGeneration|flagSizes, KeywordNormal),
	PropertyTextTransform:       def("text-transform", flagInherited|flagGeneration, KeywordNone),
	PropertyTextAlign:           def("text-align", flagInherited|flagSizes, KeywordLeft),
	PropertyTextIndent:          def("text-indent", flagInherited|flagSizes, zeroPx),
	PropertyVisibility:          def("visibility", flagInherited, KeywordVisible),
	PropertyPointerEvents:       def("pointer-events", flagInherited, KeywordAuto),
	PropertyContent:             def("content", flagGeneration, KeywordNormal),
	PropertyVerticalAlign:       def("vertical-align", 0, KeywordBaseline),
	PropertyTextDecorationLine:  def("text-decoration-line", 0, KeywordNone),
	PropertyTextDecorationColor: def("text-decoration-color", 0, KeywordCurrentColor),
	PropertyFlexGrow:            def("flex-grow", flagSizes, Number(0)),
	PropertyFlexShrink:          def("flex-shrink", flagSizes, Number(1)),
	PropertyFlexBasis:           def("flex-basis", flagSizes, KeywordAuto),
	PropertyOverflowWrap:        def("overflow-wrap", flagInherited|flagSizes, KeywordNormal),
	PropertyWordWrap:            def("word-wrap", flagInherited|flagSizes, KeywordNormal),
	PropertyTextShadow:          def("text-shadow", flagInherited, KeywordNone),
}

// Definition returns the property's definition.
func (k PropertyKey) Definition() PropertyDefinition {
	return propertyDefinitions[k]
}

// String returns the CSS name of the property.
func (k PropertyKey) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return propertyDefinitions[k].Name
}

// Valid reports whether k names a recognized property.
func (k PropertyKey) Valid() bool {
	return k >= 0 && k < numProperties
}

// NumProperties returns the number of recognized longhand properties.
func NumProperties() int { return int(numProperties) }

// LookupProperty resolves a CSS property name.
func LookupProperty(name string) (PropertyKey, bool) {
	for k := PropertyKey(0); k < numProperties; k++ {
		if propertyDefinitions[k].Name == name {
			return k, true
		}
	}
	return 0, false
}

func isColorProperty(k PropertyKey) bool {
	switch k {
	case PropertyColor, PropertyBackgroundColor, PropertyTextDecorationColor,
		PropertyBorderTopColor, PropertyBorderRightColor,
		PropertyBorderBottomColor, PropertyBorderLeftColor:
		return true
	}
	return false
}

// borderStyleFor returns the style property paired with a border width.
func borderStyleFor(k PropertyKey) (PropertyKey, bool) {
	switch k {
	case PropertyBorderTopWidth:
		return PropertyBorderTopStyle, true
	case PropertyBorderRightWidth:
		return PropertyBorderRightStyle, true
	case PropertyBorderBottomWidth:
		return PropertyBorderBottomStyle, true
	case PropertyBorderLeftWidth:
		return PropertyBorderLeftStyle, true
	}
	return 0, false
}
