package cssom

// PropertySet is a fixed set of properties compared as a unit.
type PropertySet struct {
	keys    []PropertyKey
	members [numProperties]bool
}

func (s *PropertySet) add(k PropertyKey) {
	if !s.members[k] {
		s.members[k] = true
		s.keys = append(s.keys, k)
	}
}

// Contains reports whether k is in the set.
func (s *PropertySet) Contains(k PropertyKey) bool {
	return k.Valid() && s.members[k]
}

// Keys returns the members in property order.
func (s *PropertySet) Keys() []PropertyKey {
	return s.keys
}

// Match reports whether every member has the same value in both styles.
func (s *PropertySet) Match(a, b *ComputedStyle) bool {
	for _, k := range s.keys {
		if !ValuesEqual(a.Get(k), b.Get(k)) {
			return false
		}
	}
	return true
}

// Classification groups recognized properties by the cached data a change
// to them invalidates. Build it once with NewClassification and pass it to
// every document that needs to diff computed styles.
type Classification struct {
	// ChildStyle holds properties whose change invalidates descendant
	// computed styles. Every inherited property is a member since
	// descendants snapshot inherited values.
	ChildStyle PropertySet

	// BoxGeneration holds inherited properties and properties that affect
	// which boxes are generated.
	BoxGeneration PropertySet

	// Sizes holds the remaining properties that only affect box sizes.
	Sizes PropertySet

	// CrossReferences holds the remaining properties that only affect
	// stacking and containing-block cross references.
	CrossReferences PropertySet
}

// NewClassification scans the property table and builds the four sets.
func NewClassification() *Classification {
	c := &Classification{}
	for k := PropertyKey(0); k < numProperties; k++ {
		d := propertyDefinitions[k]
		if d.ImpactsChildComputedStyle || d.Inherited {
			c.ChildStyle.add(k)
		}
		if d.Inherited || d.ImpactsBoxGeneration {
			c.BoxGeneration.add(k)
			continue
		}
		if d.ImpactsBoxSizes {
			c.Sizes.add(k)
		}
		if d.ImpactsBoxCrossReferences {
			c.CrossReferences.add(k)
		}
	}
	return c
}

// InvalidationFlags records which cached data must be dropped after a
// computed style changed.
type InvalidationFlags struct {
	MarkDescendantsNotDisplayed bool
	InvalidateDescendantStyles  bool
	InvalidateLayoutBoxes       bool
	InvalidateSizes             bool
	InvalidateCrossReferences   bool
	InvalidateRenderTreeNodes   bool
}

// Tier names the strongest invalidation selected by a diff.
type Tier uint8

// Invalidation tiers from weakest to strongest.
const (
	TierNone Tier = iota
	TierRenderTreeNodes
	TierBoxGeneration
	TierDescendantStyles
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierRenderTreeNodes:
		return "render-tree-nodes"
	case TierBoxGeneration:
		return "box-generation"
	case TierDescendantStyles:
		return "descendant-styles"
	default:
		return "unknown"
	}
}

// Tier returns the strongest tier recorded in f.
func (f InvalidationFlags) Tier() Tier {
	switch {
	case f.InvalidateDescendantStyles:
		return TierDescendantStyles
	case f.InvalidateLayoutBoxes:
		return TierBoxGeneration
	case f.InvalidateRenderTreeNodes:
		return TierRenderTreeNodes
	default:
		return TierNone
	}
}

// Diff compares an old and a new computed style and accumulates the
// minimal invalidation into flags. Flags already set are never cleared,
// so one flags value can collect the effect of several diffs.
func (c *Classification) Diff(old, updated *ComputedStyle, flags *InvalidationFlags) {
	if old == nil || updated == nil {
		return
	}

	if !flags.MarkDescendantsNotDisplayed &&
		old.Display() != KeywordNone && updated.Display() == KeywordNone {
		flags.MarkDescendantsNotDisplayed = true
	}

	if !flags.InvalidateDescendantStyles && !c.ChildStyle.Match(old, updated) {
		flags.InvalidateDescendantStyles = true
		flags.InvalidateLayoutBoxes = true
		return
	}
	if flags.InvalidateLayoutBoxes {
		return
	}
	if !c.BoxGeneration.Match(old, updated) {
		flags.InvalidateLayoutBoxes = true
		return
	}

	if !flags.InvalidateSizes && !c.Sizes.Match(old, updated) {
		flags.InvalidateSizes = true
		flags.InvalidateRenderTreeNodes = true
	}
	if !flags.InvalidateCrossReferences && !c.CrossReferences.Match(old, updated) {
		flags.InvalidateCrossReferences = true
		flags.InvalidateRenderTreeNodes = true
	}
	if !flags.InvalidateRenderTreeNodes && !old.Equal(updated) {
		flags.InvalidateRenderTreeNodes = true
	}
}
