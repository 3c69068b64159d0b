package source

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCRLFRoundTrip is spec.md §8 scenario S6: content "abc\r\ndef".
func TestCRLFRoundTrip(t *testing.T) {
	lt := Build("abc\r\ndef")

	pos := lt.GetPosition(5)
	assert.Equal(t, Position{Line: 2, Column: 1}, pos)

	off := lt.GetOffset(Position{Line: 2, Column: 1})
	assert.Equal(t, uint32(5), off)
}

func TestLineEndOffsetStripsTerminators(t *testing.T) {
	lt := Build("one\r\ntwo\nthree\rfour")

	assert.Equal(t, uint32(3), lt.GetLineEndOffset(1)) // "one"
	assert.Equal(t, "one", lt.GetLineText(1))

	assert.Equal(t, uint32(8), lt.GetLineEndOffset(2)) // "two"
	assert.Equal(t, "two", lt.GetLineText(2))

	assert.Equal(t, "three", lt.GetLineText(3))
	assert.Equal(t, "four", lt.GetLineText(4))
}

func TestEmptySource(t *testing.T) {
	lt := Build("")
	assert.Equal(t, uint32(0), lt.SourceLength())
	assert.Equal(t, Position{Line: 1, Column: 1}, lt.GetPosition(0))
}

func TestOffsetPositionRoundTripProperty(t *testing.T) {
	sources := []string{
		"",
		"a",
		"a\n",
		"a\nb\nc",
		"a\r\nb\r\nc\r\n",
		"no newline at all here",
		"\n\n\n",
		"mix\r\nof\nline\rendings\r\n",
	}

	for _, src := range sources {
		lt := Build(src)
		for off := uint32(0); off <= lt.SourceLength(); off++ {
			pos := lt.GetPosition(off)
			got := lt.GetOffset(pos)
			require.Equalf(t, off, got, "round trip failed for offset %d in %q (pos=%v)", off, src, pos)
		}
	}
}

// TestGetOffsetGetPositionFuzz is spec.md §8 invariant 2, checked via
// testing/quick rather than literal fuzz corpora.
func TestGetOffsetGetPositionFuzz(t *testing.T) {
	f := func(body string) bool {
		lt := Build(body)
		for off := uint32(0); off <= lt.SourceLength(); off += uint32(1 + len(body)/37) {
			if lt.GetOffset(lt.GetPosition(off)) != off {
				return false
			}
		}
		return true
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestDigestStable(t *testing.T) {
	lt1 := Build("same text")
	lt2 := Build("same text")
	assert.Equal(t, lt1.Digest(), lt2.Digest())

	lt3 := Build("different text")
	assert.NotEqual(t, lt1.Digest(), lt3.Digest())
}

func TestRangeContains(t *testing.T) {
	r := Range{Start: Position{1, 1}, End: Position{1, 5}}
	assert.True(t, r.Contains(Position{1, 1}))
	assert.True(t, r.Contains(Position{1, 4}))
	assert.False(t, r.Contains(Position{1, 5}))
	assert.True(t, r.ContainsInclusive(Position{1, 5}))
}
