// Package config loads folio's settings.
//
// Settings come from layers merged by priority:
//
//	arguments     command-line flags          (highest)
//	environment   FOLIO_ variables
//	file          a TOML or YAML config file
//	defaults      built-in values             (lowest)
//
// Section accessors such as Viewport and Layout return snapshot structs of
// the merged result. Reload re-reads the config file and notifies
// subscribers of every setting whose effective value changed.
//
// # Basic Usage
//
//	cfg := config.New(config.WithFile("folio.toml"))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	defer cfg.Close()
//	width := cfg.Viewport().Width
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment variable loading
//   - layer: layer stacking and map merging
//   - notify: change notification
package config
