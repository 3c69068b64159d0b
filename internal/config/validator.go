package config

import (
	"errors"
	"fmt"
	"runtime"

	lerrors "github.com/langls/server/internal/errors"
)

// Validator validates configuration and fills in smart defaults.
type Validator struct{}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateProject(&cfg.Project); err != nil {
		return lerrors.NewConfigError("project", "", err)
	}
	if err := v.validateIndex(&cfg.Index); err != nil {
		return lerrors.NewConfigError("index", "", err)
	}
	if err := v.validateWatch(&cfg.Watch); err != nil {
		return lerrors.NewConfigError("watch", "", err)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProject(p *Project) error {
	if p.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateIndex(idx *Index) error {
	if idx.MaxFileSize <= 0 {
		return fmt.Errorf("MaxFileSize must be positive, got %d", idx.MaxFileSize)
	}
	if idx.MaxOpenFiles <= 0 {
		return fmt.Errorf("MaxOpenFiles must be positive, got %d", idx.MaxOpenFiles)
	}
	return nil
}

func (v *Validator) validateWatch(w *Watch) error {
	if w.DebounceMs < 0 {
		return fmt.Errorf("DebounceMs cannot be negative, got %d", w.DebounceMs)
	}
	if w.EagerDeps && !w.Enabled {
		return errors.New("eager_deps requires watch.enabled")
	}
	return nil
}

// setSmartDefaults fills in zero-valued fields from system capabilities.
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Index.MaxOpenFiles == 0 {
		cfg.Index.MaxOpenFiles = 1000 * max(1, runtime.NumCPU())
	}
	if cfg.Watch.DebounceMs == 0 {
		cfg.Watch.DebounceMs = 150
	}
}

// Validate is a convenience method on Config for external callers.
func (cfg *Config) Validate() error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
