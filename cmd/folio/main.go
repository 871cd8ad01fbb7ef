// Package main is the entry point for the folio layout tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dshills/folio/internal/app"
	"github.com/dshills/folio/internal/config"
	"github.com/dshills/folio/internal/watch"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	viewport   string
	logLevel   string
	anchor     string
	focus      string
	watch      bool
	noDump     bool
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, code, done := parseFlags(os.Args[1:], os.Stderr)
	if done {
		return code
	}

	args, err := opts.settings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.New(config.WithFile(opts.configPath))
	defer cfg.Close()
	if err := cfg.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}
	cfg.SetArgs(args)
	if err := cfg.Settings().Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		return 1
	}
	for path, err := range cfg.ConfigErrors() {
		fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", path, err)
	}

	engine := app.NewEngine(cfg)
	defer engine.Close()
	logger := engine.Logger()

	if err := engine.LoadFile(opts.file); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := render(engine, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if !opts.watch {
			return 1
		}
	}
	if !opts.watch {
		return 0
	}

	err = follow(ctx, engine, cfg, func() {
		if err := render(engine, opts, os.Stdout); err != nil {
			logger.Error("%v", err)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("watch: %v", err)
		return 1
	}
	return 0
}

// follow calls changed after every reload of the document or
// configuration file, until ctx is canceled.
func follow(ctx context.Context, engine *app.Engine, cfg *config.Config, changed func()) error {
	logger := engine.Logger().WithComponent("watch")

	var wopts []watch.Option
	if d := cfg.Watch().Debounce; d > 0 {
		wopts = append(wopts, watch.WithDebounceDelay(d))
	}
	w, err := watch.New(wopts...)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, path := range engine.WatchPaths() {
		if err := w.Watch(path); err != nil {
			if errors.Is(err, watch.ErrPathNotExist) {
				logger.Warn("not watching %s: %v", path, err)
				continue
			}
			return err
		}
		logger.Info("watching %s", path)
	}

	return w.Run(ctx, func(ev watch.Event) {
		if err := engine.HandleFileEvent(ctx, ev); err != nil {
			logger.Error("%v", err)
			return
		}
		if ev.Op.Changed() {
			changed()
		}
	}, func(err error) {
		logger.Warn("watcher: %v", err)
	})
}

// render writes the box tree and, when a selection was requested, one line
// per highlight.
func render(engine *app.Engine, opts options, w io.Writer) error {
	if !opts.noDump {
		if err := engine.Dump(w); err != nil {
			return err
		}
	}
	if opts.anchor != "" {
		focus := opts.focus
		if focus == "" {
			focus = opts.anchor
		}
		hs, err := engine.Select(opts.anchor, focus)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "selection %s .. %s: %d highlights\n", opts.anchor, focus, len(hs))
		for _, h := range hs {
			fmt.Fprintf(w, "  %s\n", app.FormatHighlight(engine.Document(), h))
		}
	}

	s := engine.Metrics().Snapshot()
	engine.Logger().Debug("load avg %v, layout avg %v over %d passes, projection avg %v",
		s.Load.Avg, s.Layout.Avg, s.Layout.Count, s.Projection.Avg)
	return nil
}

// settings converts explicitly given flags to configuration paths.
func (o options) settings() (map[string]any, error) {
	args := make(map[string]any)
	if o.viewport != "" {
		w, h, err := parseViewport(o.viewport)
		if err != nil {
			return nil, err
		}
		args["viewport.width"] = w
		args["viewport.height"] = h
	}
	if o.logLevel != "" {
		args["log.level"] = o.logLevel
	}
	return args, nil
}

// parseViewport parses "WIDTHxHEIGHT".
func parseViewport(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid viewport %q (want WIDTHxHEIGHT)", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid viewport width %q", ws)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid viewport height %q", hs)
	}
	return w, h, nil
}

// parseFlags parses the command line. done reports that the process should
// exit with code without doing any work.
func parseFlags(argv []string, stderr io.Writer) (opts options, code int, done bool) {
	fs := flag.NewFlagSet("folio", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var showVersion bool
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.viewport, "viewport", "", "Viewport size as WIDTHxHEIGHT")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.anchor, "anchor", "", "Selection anchor as id[/child...]:offset")
	fs.StringVar(&opts.focus, "focus", "", "Selection focus as id[/child...]:offset")
	fs.BoolVar(&opts.watch, "watch", false, "Re-render when the document or configuration changes")
	fs.BoolVar(&opts.noDump, "no-dump", false, "Do not print the box tree")
	fs.BoolVar(&showVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "folio - HTML box layout and selection geometry\n\n")
		fmt.Fprintf(stderr, "Usage: folio [options] file.html\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  folio page.html                          Dump the box tree\n")
		fmt.Fprintf(stderr, "  folio -viewport 400x300 page.html        Lay out at 400px wide\n")
		fmt.Fprintf(stderr, "  folio -anchor p/0:2 -focus p/0:7 page.html  Project a selection\n")
		fmt.Fprintf(stderr, "  folio -watch -c folio.toml page.html     Follow edits\n")
	}

	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, 0, true
		}
		return opts, 2, true
	}

	if showVersion {
		fmt.Fprintf(stderr, "folio %s\nCommit: %s\nBuilt: %s\n", version, commit, date)
		return opts, 0, true
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return opts, 2, true
	}
	opts.file = fs.Arg(0)
	return opts, 0, false
}
