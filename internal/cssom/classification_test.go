package cssom

import "testing"

var testViewport = Size{Width: 800, Height: 600}

// baseStyle returns a computed style whose border styles are solid so a
// border width change is visible after promotion.
func baseStyle(t *testing.T) (*ComputedStyle, *DeclaredStyle) {
	t.Helper()
	decl := NewDeclaredStyle()
	for _, k := range []PropertyKey{
		PropertyBorderTopStyle, PropertyBorderRightStyle,
		PropertyBorderBottomStyle, PropertyBorderLeftStyle,
	} {
		decl.Set(k, KeywordSolid)
	}
	initial := CreateInitialStyle(testViewport)
	return Compute(decl, nil, initial, initial, testViewport), decl
}

func changedValue(k PropertyKey, v Value) Value {
	if k == PropertyDisplay {
		return KeywordInline
	}
	switch tv := v.(type) {
	case Length:
		return Px(tv.Value + 7)
	case Number:
		return Number(float64(tv) + 300)
	case Color:
		return RGBA(tv.R()+10, tv.G()+20, tv.B()+30, 0xff)
	case String:
		return String(string(tv) + " Other")
	default:
		return Keyword("changed")
	}
}

func TestNewClassification_Sets(t *testing.T) {
	c := NewClassification()

	for k := PropertyKey(0); k < numProperties; k++ {
		d := k.Definition()
		if d.Inherited && !c.ChildStyle.Contains(k) {
			t.Errorf("inherited property %s missing from ChildStyle", k)
		}
		if c.BoxGeneration.Contains(k) && (c.Sizes.Contains(k) || c.CrossReferences.Contains(k)) {
			t.Errorf("%s is in BoxGeneration and a render-tree set", k)
		}
		if d.ImpactsBoxSizes && !d.Inherited && !d.ImpactsBoxGeneration && !c.Sizes.Contains(k) {
			t.Errorf("%s should be in Sizes", k)
		}
	}

	if !c.Sizes.Contains(PropertyMarginTop) {
		t.Error("margin-top should be sizes-only")
	}
	if !c.CrossReferences.Contains(PropertyOpacity) {
		t.Error("opacity should be cross-references-only")
	}
	if !c.BoxGeneration.Contains(PropertyDisplay) {
		t.Error("display should affect box generation")
	}
	if c.ChildStyle.Contains(PropertyMarginLeft) {
		t.Error("margin-left should not affect child styles")
	}
}

func TestClassification_DiffSinglePropertyTier(t *testing.T) {
	c := NewClassification()
	base, decl := baseStyle(t)
	initial := CreateInitialStyle(testViewport)

	for k := PropertyKey(0); k < numProperties; k++ {
		t.Run(k.String(), func(t *testing.T) {
			changed := *decl
			changed.Set(k, changedValue(k, base.Get(k)))
			updated := Compute(&changed, nil, initial, initial, testViewport)
			if ValuesEqual(base.Get(k), updated.Get(k)) {
				t.Fatalf("test value for %s did not change the computed style", k)
			}

			var flags InvalidationFlags
			c.Diff(base, updated, &flags)

			d := k.Definition()
			switch {
			case c.ChildStyle.Contains(k):
				if flags.Tier() != TierDescendantStyles {
					t.Errorf("Tier() = %s, want %s", flags.Tier(), TierDescendantStyles)
				}
				if !flags.InvalidateLayoutBoxes {
					t.Error("descendant style invalidation must force box regeneration")
				}
			case c.BoxGeneration.Contains(k):
				if flags.Tier() != TierBoxGeneration {
					t.Errorf("Tier() = %s, want %s", flags.Tier(), TierBoxGeneration)
				}
			default:
				if flags.Tier() != TierRenderTreeNodes {
					t.Errorf("Tier() = %s, want %s", flags.Tier(), TierRenderTreeNodes)
				}
				if flags.InvalidateLayoutBoxes {
					t.Error("render-tree-only change set box regeneration")
				}
				if flags.InvalidateSizes != d.ImpactsBoxSizes {
					t.Errorf("InvalidateSizes = %v, want %v", flags.InvalidateSizes, d.ImpactsBoxSizes)
				}
				if flags.InvalidateCrossReferences != d.ImpactsBoxCrossReferences {
					t.Errorf("InvalidateCrossReferences = %v, want %v",
						flags.InvalidateCrossReferences, d.ImpactsBoxCrossReferences)
				}
			}
			if d.Inherited && !flags.InvalidateDescendantStyles {
				t.Error("inherited property change must invalidate descendant styles")
			}
			if flags.MarkDescendantsNotDisplayed {
				t.Error("MarkDescendantsNotDisplayed set without display: none")
			}
		})
	}
}

func TestClassification_DiffDisplayNone(t *testing.T) {
	c := NewClassification()
	initial := CreateInitialStyle(testViewport)

	tests := []struct {
		name string
		from Keyword
	}{
		{"block", KeywordBlock},
		{"inline", KeywordInline},
		{"inline-block", KeywordInlineBlock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := NewDeclaredStyle()
			before.Set(PropertyDisplay, tt.from)
			after := NewDeclaredStyle()
			after.Set(PropertyDisplay, KeywordNone)

			var flags InvalidationFlags
			c.Diff(
				Compute(before, nil, initial, initial, testViewport),
				Compute(after, nil, initial, initial, testViewport),
				&flags,
			)
			if !flags.MarkDescendantsNotDisplayed {
				t.Error("display -> none must mark descendants not displayed")
			}
			if !flags.InvalidateLayoutBoxes {
				t.Error("display -> none must invalidate layout boxes")
			}
		})
	}
}

func TestClassification_DiffNoChange(t *testing.T) {
	c := NewClassification()
	base, _ := baseStyle(t)
	again, _ := baseStyle(t)

	var flags InvalidationFlags
	c.Diff(base, again, &flags)
	if flags != (InvalidationFlags{}) {
		t.Errorf("Diff() of identical styles = %+v, want zero flags", flags)
	}
	if flags.Tier() != TierNone {
		t.Errorf("Tier() = %s, want none", flags.Tier())
	}
}

func TestTier_String(t *testing.T) {
	tests := []struct {
		tier Tier
		want string
	}{
		{TierNone, "none"},
		{TierRenderTreeNodes, "render-tree-nodes"},
		{TierBoxGeneration, "box-generation"},
		{TierDescendantStyles, "descendant-styles"},
		{Tier(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.tier.String(); got != tt.want {
			t.Errorf("Tier(%d).String() = %q, want %q", tt.tier, got, tt.want)
		}
	}
}
