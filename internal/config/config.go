// Package config loads and validates langls's workspace configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds everything the workspace needs to resolve imports, bound
// analysis resource usage, and decide whether to watch the filesystem for
// out-of-editor changes.
type Config struct {
	Version int

	Project Project
	Index   Index
	Watch   Watch

	// Include is the list of extra search roots consulted in order when an
	// import string can't be found relative to the current file or the
	// workspace root (spec.md §6 import resolution order, step 3).
	Include []string
	// Exclude holds doublestar glob patterns excluded from disk-backed
	// import discovery (e.g. "**/vendor/**").
	Exclude []string
}

// Project identifies the workspace root.
type Project struct {
	Root string
	Name string
}

// Index holds resource limits for files pulled in transitively via imports
// rather than opened directly. They are loaded and validated here; the
// workspace does not consult them, so no size or count limit is enforced.
type Index struct {
	MaxFileSize    int64 // bytes
	MaxOpenFiles   int   // file count
	FollowSymlinks bool
}

// Watch controls the optional eager-reanalysis mode described in spec.md
// §4.G ("An optional eager mode may rebuild all known dependents").
type Watch struct {
	Enabled    bool
	DebounceMs int
	EagerDeps  bool // also re-analyze known dependents of a changed file
}

// Default returns the configuration used when no .langls.kdl file is found.
func Default(root string) *Config {
	return &Config{
		Version: 1,
		Project: Project{Root: root},
		Index: Index{
			MaxFileSize:    4 * 1024 * 1024,
			MaxOpenFiles:   2000,
			FollowSymlinks: false,
		},
		Watch: Watch{
			Enabled:    false,
			DebounceMs: 150,
			EagerDeps:  false,
		},
		Include: []string{},
		Exclude: []string{"**/.git/**", "**/node_modules/**"},
	}
}

// Load reads configuration for the workspace rooted at root. It looks for
// ".langls.kdl" in root; if absent, Default of root's absolute path is
// returned.
func Load(root string) (*Config, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}

	kdlPath := filepath.Join(absRoot, ".langls.kdl")
	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return Default(absRoot), nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", kdlPath, err)
	}

	cfg, err := parseKDL(string(content), absRoot)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", kdlPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", kdlPath, err)
	}

	return cfg, nil
}
