package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"github.com/dshills/folio/internal/config"
	"github.com/dshills/folio/internal/config/notify"
	"github.com/dshills/folio/internal/cssom"
	"github.com/dshills/folio/internal/dom"
	"github.com/dshills/folio/internal/dom/htmlload"
	"github.com/dshills/folio/internal/editing"
	"github.com/dshills/folio/internal/layout"
	"github.com/dshills/folio/internal/watch"
)

// Engine owns one document together with its layout and selection overlay,
// and keeps them in step with the configuration. An Engine is not safe for
// concurrent use.
type Engine struct {
	cfg     *config.Config
	logger  *Logger
	metrics *Metrics

	source string // absolute path of the loaded file, "" for markup
	markup string

	doc       *dom.Document
	layout    *layout.Manager
	projector *editing.Projector
	overlay   *editing.Overlay

	// anchor and focus are the textual positions of the last Select call,
	// reapplied when the document is rebuilt.
	anchor, focus string

	// projectedPass is the layout pass the overlay was last computed on.
	projectedPass int

	rebuild bool
	sub     *notify.Subscription
	closed  bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the engine's logger. By default a logger is built
// from the log section of the configuration.
func WithEngineLogger(l *Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithEngineMetrics sets the metrics the engine records timings to.
func WithEngineMetrics(m *Metrics) EngineOption {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// NewEngine creates an engine with no document.
func NewEngine(cfg *config.Config, opts ...EngineOption) *Engine {
	e := &Engine{cfg: cfg, metrics: NewMetrics()}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		lc := DefaultLoggerConfig()
		lc.Level = ParseLogLevel(cfg.Log().Level)
		e.logger = NewLogger(lc)
	}
	e.sub = cfg.Subscribe(e.onConfigChange)
	return e
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *Logger { return e.logger }

// Metrics returns the engine's metrics.
func (e *Engine) Metrics() *Metrics { return e.metrics }

// Document returns the current document, or nil before a load.
func (e *Engine) Document() *dom.Document { return e.doc }

// Layout returns the current layout manager, or nil before a load.
func (e *Engine) Layout() *layout.Manager { return e.layout }

// Source returns the absolute path of the loaded file, or "" when the
// document came from a string.
func (e *Engine) Source() string { return e.source }

// WatchPaths returns the files whose changes the engine reacts to.
func (e *Engine) WatchPaths() []string {
	var paths []string
	if e.source != "" {
		paths = append(paths, e.source)
	}
	if f := e.cfg.File(); f != "" {
		if abs, err := filepath.Abs(f); err == nil {
			paths = append(paths, abs)
		}
	}
	return paths
}

// LoadFile reads and builds the HTML document at path.
func (e *Engine) LoadFile(path string) error {
	if e.closed {
		return ErrClosed
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return NewOperationError("load", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return NewOperationError("load", path, err)
	}
	if err := e.build(string(data)); err != nil {
		return NewOperationError("load", path, err)
	}
	e.source = abs
	e.logger.Info("loaded %s", abs)
	return nil
}

// LoadString builds a document from markup.
func (e *Engine) LoadString(markup string) error {
	if e.closed {
		return ErrClosed
	}
	if err := e.build(markup); err != nil {
		return NewOperationError("load", "<string>", err)
	}
	e.source = ""
	return nil
}

// build replaces the document with one parsed from markup under the
// current settings. On error the previous document is kept.
func (e *Engine) build(markup string) error {
	settings := e.cfg.Settings()
	if err := settings.Validate(); err != nil {
		return err
	}
	lc := settings.Layout
	locale, err := language.Parse(lc.Locale)
	if err != nil {
		return err
	}

	ua := cssom.NewUserAgentStyles()
	ua.Declare("html", cssom.PropertyFontFamily, cssom.String(lc.FontFamily))
	ua.Declare("html", cssom.PropertyFontSize, cssom.Px(lc.FontSize))
	if lc.LineHeight > 0 {
		ua.Declare("html", cssom.PropertyLineHeight, cssom.Number(lc.LineHeight))
	}

	doc := dom.New(
		dom.WithLogger(e.logger.WithComponent("dom")),
		dom.WithViewport(float64(settings.Viewport.Width), float64(settings.Viewport.Height)),
		dom.WithMaxElementDepth(lc.MaxElementDepth),
		dom.WithUserAgentStyles(ua),
	)
	timer := StartTimer()
	if err := htmlload.LoadString(doc, markup); err != nil {
		return err
	}
	e.metrics.RecordLoad(timer.Elapsed())

	metrics := layout.NewMetrics(lc.CharWidthRatio)
	lm := layout.New(doc,
		layout.WithLogger(e.logger.WithComponent("layout")),
		layout.WithMetrics(metrics),
		layout.WithLocale(locale),
		layout.WithMaxElementDepth(lc.MaxElementDepth),
		layout.WithReuseBoxes(lc.ReuseBoxes),
	)

	e.release()
	e.doc, e.layout, e.markup = doc, lm, markup
	e.projectedPass = 0
	e.projector = editing.NewProjector(doc, lm, metrics)
	e.overlay = editing.NewOverlay(doc, e.projector, lm)
	e.rebuild = false
	e.restoreSelection()
	return nil
}

func (e *Engine) restoreSelection() {
	if e.anchor == "" {
		return
	}
	if err := e.applySelection(e.anchor, e.focus); err != nil {
		e.logger.Warn("selection dropped: %v", err)
		e.anchor, e.focus = "", ""
	}
}

func (e *Engine) release() {
	if e.overlay != nil {
		e.overlay.Close()
	}
	if e.layout != nil {
		e.layout.Close()
	}
	e.doc, e.layout, e.projector, e.overlay = nil, nil, nil, nil
}

func (e *Engine) ready(op string) error {
	switch {
	case e.closed:
		return ErrClosed
	case e.doc == nil:
		return NewOperationError(op, "", ErrNoDocument)
	case e.rebuild:
		e.logger.Debug("rebuilding document for new layout settings")
		if err := e.build(e.markup); err != nil {
			return NewOperationError(op, e.source, err)
		}
	}
	return nil
}

// Update brings styles and layout up to date.
func (e *Engine) Update() error {
	if err := e.ready("layout"); err != nil {
		return err
	}
	timer := StartTimer()
	if err := e.layout.UpdateLayout(); err != nil {
		return NewOperationError("layout", e.source, err)
	}
	e.metrics.RecordLayout(timer.Elapsed())
	return nil
}

// Dump lays the document out and writes its box tree to w.
func (e *Engine) Dump(w io.Writer) error {
	if err := e.Update(); err != nil {
		return err
	}
	return e.layout.Dump(w)
}

// Select sets the document selection from two textual positions (see
// ParsePosition) and returns its highlights.
func (e *Engine) Select(anchor, focus string) ([]editing.Highlight, error) {
	if err := e.ready("select"); err != nil {
		return nil, err
	}
	if err := e.applySelection(anchor, focus); err != nil {
		return nil, NewOperationError("select", anchor+" "+focus, err)
	}
	e.anchor, e.focus = anchor, focus
	return e.Highlights()
}

func (e *Engine) applySelection(anchor, focus string) error {
	a, err := ParsePosition(e.doc, anchor)
	if err != nil {
		return err
	}
	f, err := ParsePosition(e.doc, focus)
	if err != nil {
		return err
	}
	return e.doc.Selection().SetBaseAndExtent(a.Node, a.Offset, f.Node, f.Offset)
}

// Highlights returns the highlights of the current selection.
func (e *Engine) Highlights() ([]editing.Highlight, error) {
	if err := e.Update(); err != nil {
		return nil, err
	}
	if pass := e.layout.Stats().Passes; pass != e.projectedPass {
		e.overlay.Invalidate()
		e.projectedPass = pass
	}
	timer := StartTimer()
	hs, err := e.overlay.Highlights()
	if err != nil {
		return nil, NewOperationError("project", e.source, err)
	}
	e.metrics.RecordProjection(timer.Elapsed())
	return hs, nil
}

// Project returns the highlights between two positions without touching
// the document selection.
func (e *Engine) Project(anchor, focus dom.Position) ([]editing.Highlight, error) {
	if err := e.Update(); err != nil {
		return nil, err
	}
	timer := StartTimer()
	hs, err := e.projector.Project(anchor, focus)
	if err != nil {
		return nil, NewOperationError("project", e.source, err)
	}
	e.metrics.RecordProjection(timer.Elapsed())
	return hs, nil
}

// HandleFileEvent reloads the document or the configuration when one of
// the files returned by WatchPaths changed. Removals are ignored: editors
// that save by rename produce a create for the same path afterwards.
func (e *Engine) HandleFileEvent(ctx context.Context, ev watch.Event) error {
	if e.closed {
		return ErrClosed
	}
	if !ev.Op.Changed() {
		e.logger.Debug("ignoring %s of %s", ev.Op, ev.Path)
		return nil
	}

	switch ev.Path {
	case e.source:
		data, err := os.ReadFile(ev.Path)
		if err != nil {
			return NewOperationError("reload", ev.Path, err)
		}
		if err := e.build(string(data)); err != nil {
			return NewOperationError("reload", ev.Path, err)
		}
		e.logger.Info("reloaded %s", ev.Path)
	case e.configPath():
		if err := e.cfg.Reload(ctx); err != nil {
			return NewOperationError("reload", ev.Path, err)
		}
		e.logger.Info("reloaded configuration %s", ev.Path)
	default:
		e.logger.Debug("no handler for %s", ev.Path)
	}
	return nil
}

func (e *Engine) configPath() string {
	f := e.cfg.File()
	if f == "" {
		return ""
	}
	abs, err := filepath.Abs(f)
	if err != nil {
		return ""
	}
	return abs
}

// onConfigChange applies cheap settings at once. Settings that are fixed
// when a document is created mark it for a rebuild on next use.
func (e *Engine) onConfigChange(change notify.Change) {
	if e.closed || change.Type == notify.ChangeReload {
		return
	}
	section, _, _ := strings.Cut(change.Path, ".")
	switch section {
	case "log":
		e.logger.SetLevel(ParseLogLevel(e.cfg.Log().Level))
	case "viewport":
		if e.doc == nil {
			return
		}
		vp := e.cfg.Viewport()
		if vp.Width <= 0 || vp.Height <= 0 {
			e.logger.Warn("ignoring viewport %dx%d", vp.Width, vp.Height)
			return
		}
		e.doc.SetViewport(float64(vp.Width), float64(vp.Height))
	case "layout":
		if e.doc != nil {
			e.rebuild = true
		}
	}
}

// Close releases the document and stops following configuration changes.
// It is safe to call more than once.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.sub.Unsubscribe()
	e.release()
	return nil
}

// FormatHighlight describes a highlight in pixels.
func FormatHighlight(d *dom.Document, h editing.Highlight) string {
	r := h.Rect
	return fmt.Sprintf("%s [%d,%d) (%g,%g %gx%g)", d.NodeName(h.Box.Node()), h.Start, h.End,
		layout.ToPx(r.Min.X), layout.ToPx(r.Min.Y), layout.ToPx(layout.Width(r)), layout.ToPx(layout.Height(r)))
}
