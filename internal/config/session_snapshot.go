package config

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// OpenDocumentSnapshot is a single entry in a SessionSnapshot.
type OpenDocumentSnapshot struct {
	URI     string `toml:"uri"`
	Version int64  `toml:"version"`
}

// SessionSnapshot captures which documents the workspace had open, for
// crash diagnostics. It is a secondary,
// human-diffable format distinct from the primary KDL config.
type SessionSnapshot struct {
	Root      string                 `toml:"root"`
	Documents []OpenDocumentSnapshot `toml:"documents"`
}

// ExportTOML serializes a SessionSnapshot to TOML bytes.
func ExportTOML(snap *SessionSnapshot) ([]byte, error) {
	return toml.Marshal(snap)
}

// ImportTOML parses a SessionSnapshot from TOML bytes.
func ImportTOML(data []byte) (*SessionSnapshot, error) {
	var snap SessionSnapshot
	if err := toml.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// WriteSnapshotFile writes snap to path as TOML.
func WriteSnapshotFile(path string, snap *SessionSnapshot) error {
	data, err := ExportTOML(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSnapshotFile reads a SessionSnapshot from path.
func ReadSnapshotFile(path string) (*SessionSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ImportTOML(data)
}
