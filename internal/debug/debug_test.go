package debug

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// saveAndRestoreState saves the debug package state and returns a cleanup function.
func saveAndRestoreState() func() {
	originalDebug := EnableDebug
	originalMode := StdioMode
	originalOutput := debugOutput
	originalFile := debugFile
	return func() {
		EnableDebug = originalDebug
		StdioMode = originalMode
		debugOutput = originalOutput
		debugFile = originalFile
	}
}

func TestSetStdioMode(t *testing.T) {
	defer saveAndRestoreState()()

	SetStdioMode(true)
	assert.True(t, StdioMode)

	SetStdioMode(false)
	assert.False(t, StdioMode)
}

func TestIsDebugEnabled(t *testing.T) {
	defer saveAndRestoreState()()

	EnableDebug = "false"
	StdioMode = false
	os.Unsetenv("DEBUG")
	assert.False(t, IsDebugEnabled())

	EnableDebug = "true"
	StdioMode = false
	assert.True(t, IsDebugEnabled())

	EnableDebug = "true"
	StdioMode = true
	assert.False(t, IsDebugEnabled(), "stdio mode must always suppress debug output")

	EnableDebug = "false"
	StdioMode = false
	os.Setenv("DEBUG", "1")
	assert.True(t, IsDebugEnabled())
	os.Unsetenv("DEBUG")
}

func TestPrintfRespectsStdioMode(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"

	StdioMode = true
	Printf("hello %s", "world")
	assert.Empty(t, buf.String(), "no output while StdioMode is on")

	StdioMode = false
	Printf("hello %s", "world")
	assert.True(t, strings.Contains(buf.String(), "hello world"))
}

func TestLogIncludesComponent(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	StdioMode = false

	Log("WORKSPACE", "invalidated %s", "file:///a.lang")
	assert.Contains(t, buf.String(), "[DEBUG:WORKSPACE]")
	assert.Contains(t, buf.String(), "file:///a.lang")
}

func TestInitAndCloseDebugLogFile(t *testing.T) {
	defer saveAndRestoreState()()

	path, err := InitDebugLogFile()
	assert.NoError(t, err)
	assert.FileExists(t, path)

	assert.NoError(t, CloseDebugLog())
	os.Remove(path)
}
