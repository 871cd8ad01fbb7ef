package dom

import "sort"

// MutationKind identifies what changed in a MutationRecord.
type MutationKind int

const (
	// MutationChildList indicates children were inserted or removed.
	MutationChildList MutationKind = iota

	// MutationAttributes indicates an attribute changed.
	MutationAttributes

	// MutationCharacterData indicates text or comment data changed.
	MutationCharacterData

	// MutationViewport indicates the viewport size changed.
	MutationViewport
)

// String returns the mutation kind name.
func (k MutationKind) String() string {
	switch k {
	case MutationChildList:
		return "childList"
	case MutationAttributes:
		return "attributes"
	case MutationCharacterData:
		return "characterData"
	case MutationViewport:
		return "viewport"
	default:
		return "unknown"
	}
}

// MutationRecord describes a single change to an inserted node.
type MutationRecord struct {
	Kind   MutationKind
	Target NodeID

	// Attribute is the lower-case attribute name for MutationAttributes.
	Attribute string
}

// Observer is called synchronously after each mutation.
type Observer func(rec MutationRecord)

// Subscription represents an active observer subscription.
type Subscription struct {
	id  uint64
	doc *Document
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.doc != nil {
		delete(s.doc.observers, s.id)
		s.doc = nil
	}
}

// Subscribe registers an observer for every mutation of an inserted node.
func (d *Document) Subscribe(observer Observer) *Subscription {
	id := d.nextObserverID
	d.nextObserverID++
	d.observers[id] = observer
	return &Subscription{id: id, doc: d}
}

// onDOMMutation marks styles dirty and notifies observers.
func (d *Document) onDOMMutation(rec MutationRecord) {
	d.styleDirty = true
	d.notify(rec)
}

func (d *Document) notify(rec MutationRecord) {
	if len(d.observers) == 0 {
		return
	}
	ids := make([]uint64, 0, len(d.observers))
	for id := range d.observers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if o, ok := d.observers[id]; ok {
			o(rec)
		}
	}
}
