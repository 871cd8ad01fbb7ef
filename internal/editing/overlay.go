package editing

import "github.com/dshills/folio/internal/dom"

// Updater brings a layout up to date.
type Updater interface {
	UpdateLayout() error
}

// Overlay caches the highlights of the document selection. A selection
// change marks the cache stale and the next Highlights call recomputes it,
// so selection changes made while the tree is being mutated never run a
// layout pass.
type Overlay struct {
	projector   *Projector
	updater     Updater
	unsubscribe func()

	stale      bool
	highlights []Highlight
	changes    int
	updates    int
}

// NewOverlay attaches an overlay to the document selection. updater may be
// nil when the layout is kept current elsewhere.
func NewOverlay(doc *dom.Document, projector *Projector, updater Updater) *Overlay {
	o := &Overlay{projector: projector, updater: updater, stale: true}
	o.unsubscribe = doc.Selection().OnDidChange(func() {
		o.stale = true
		o.changes++
	})
	return o
}

// Highlights returns the highlights of the current selection, bringing the
// layout up to date first when the selection changed.
func (o *Overlay) Highlights() ([]Highlight, error) {
	if !o.stale {
		return o.highlights, nil
	}
	if o.updater != nil {
		if err := o.updater.UpdateLayout(); err != nil {
			return nil, err
		}
	}
	hs, err := o.projector.Selection()
	if err != nil {
		return nil, err
	}
	o.highlights, o.stale = hs, false
	o.updates++
	return hs, nil
}

// Stale reports whether the selection changed since the last Highlights
// call.
func (o *Overlay) Stale() bool { return o.stale }

// Invalidate marks the cached highlights stale, for layout changes that
// moved boxes without changing the selection.
func (o *Overlay) Invalidate() { o.stale = true }

// Changes returns the number of selection changes observed.
func (o *Overlay) Changes() int { return o.changes }

// Updates returns the number of recomputations.
func (o *Overlay) Updates() int { return o.updates }

// Close detaches the overlay from the selection.
func (o *Overlay) Close() {
	if o.unsubscribe != nil {
		o.unsubscribe()
		o.unsubscribe = nil
	}
}
