package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseError(t *testing.T) {
	underlying := stderrors.New("unexpected token")
	err := NewParseError("file:///a.lang", 3, 5, "}", underlying)

	assert.Equal(t, ErrorTypeParse, err.Type)
	assert.True(t, stderrors.Is(err, underlying))
	assert.Contains(t, err.Error(), "file:///a.lang:3:5")
	assert.Contains(t, err.Error(), `"}"`)
}

func TestImportError(t *testing.T) {
	underlying := stderrors.New("not found")
	err := NewImportError("file:///main.lang", "./util", []string{"/root/util.lang"}, underlying)

	assert.Equal(t, ErrorTypeImport, err.Type)
	assert.Contains(t, err.Error(), "./util")
	assert.Contains(t, err.Error(), "file:///main.lang")
	require.ErrorIs(t, err, underlying)
}

func TestConfigErrorWithAndWithoutValue(t *testing.T) {
	withValue := NewConfigError("index.max_file_size", "-1", stderrors.New("must be positive"))
	assert.Contains(t, withValue.Error(), "value -1")

	withoutValue := NewConfigError("project.root", "", stderrors.New("cannot be empty"))
	assert.NotContains(t, withoutValue.Error(), "value")
}

func TestInternalErrorMarksComponent(t *testing.T) {
	err := NewInternalError("analysis", stderrors.New("nil node dereference"))
	assert.Contains(t, err.Error(), "internal error in analysis")
	assert.True(t, stderrors.Is(err, err.Underlying))
}

func TestMultiErrorFiltersNilAndSummarizes(t *testing.T) {
	e1 := stderrors.New("first")
	e2 := stderrors.New("second")

	multi := NewMultiError([]error{nil, e1, nil, e2})
	require.Len(t, multi.Errors, 2)
	assert.Contains(t, multi.Error(), "2 errors")

	single := NewMultiError([]error{e1})
	assert.Equal(t, e1.Error(), single.Error())

	empty := NewMultiError(nil)
	assert.Equal(t, "no errors", empty.Error())
}
