package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotFileRoundTrip(t *testing.T) {
	snap := &SessionSnapshot{
		Root: "/proj",
		Documents: []OpenDocumentSnapshot{
			{URI: "file:///proj/a.lang", Version: 3},
			{URI: "file:///proj/b.lang", Version: 1},
		},
	}

	path := filepath.Join(t.TempDir(), ".langls-snapshot.toml")
	require.NoError(t, WriteSnapshotFile(path, snap))

	got, err := ReadSnapshotFile(path)
	require.NoError(t, err)
	assert.Equal(t, snap.Root, got.Root)
	assert.ElementsMatch(t, snap.Documents, got.Documents)
}
