package lsp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langls/server/internal/config"
	"github.com/langls/server/internal/langsyntax"
	"github.com/langls/server/internal/workspace"
)

// harnessPublisher forwards workspace diagnostics to the Server once it
// exists, the same late binding cmd/langls uses for the stdio server.
type harnessPublisher struct{ srv *Server }

func (p *harnessPublisher) PublishDiagnostics(uri string, diags []langsyntax.Diagnostic) {
	if p.srv != nil {
		p.srv.PublishDiagnostics(uri, diags)
	}
}

// harness drives a Server over an in-process pipe, standing in for the
// editor client on the other end of stdio.
type harness struct {
	t       *testing.T
	toSrv   *io.PipeWriter
	fromSrv *bufio.Reader
	done    chan int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clientR, serverW := io.Pipe()
	serverR, clientW := io.Pipe()

	cfg := config.Default(t.TempDir())
	pub := &harnessPublisher{}
	ws := workspace.New(cfg, pub)
	srv := NewServer(ws, serverR, serverW)
	pub.srv = srv

	h := &harness{t: t, toSrv: clientW, fromSrv: bufio.NewReader(clientR), done: make(chan int, 1)}
	go func() { h.done <- srv.Serve() }()
	return h
}

func (h *harness) send(method string, id int, params interface{}) {
	h.t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(h.t, err)

	msg := map[string]interface{}{"jsonrpc": "2.0", "method": method, "params": json.RawMessage(raw)}
	if id != 0 {
		msg["id"] = id
	}
	body, err := json.Marshal(msg)
	require.NoError(h.t, err)

	_, err = fmt.Fprintf(h.toSrv, "Content-Length: %d\r\n\r\n%s", len(body), body)
	require.NoError(h.t, err)
}

func (h *harness) recv() rpcMessage {
	h.t.Helper()
	var contentLength int
	for {
		line, err := h.fromSrv.ReadString('\n')
		require.NoError(h.t, err)
		line = trimCRLF(line)
		if line == "" {
			break
		}
		name, value, _ := cutHeader(line)
		if name == "Content-Length" {
			fmt.Sscanf(value, "%d", &contentLength)
		}
	}
	body := make([]byte, contentLength)
	_, err := io.ReadFull(h.fromSrv, body)
	require.NoError(h.t, err)

	var msg rpcMessage
	require.NoError(h.t, json.Unmarshal(body, &msg))
	return msg
}

func trimCRLF(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func cutHeader(line string) (string, string, bool) {
	for i := 0; i < len(line); i++ {
		if line[i] == ':' {
			return line[:i], line[i+1:], true
		}
	}
	return line, "", false
}

func TestLifecycleRejectsRequestsBeforeInitialize(t *testing.T) {
	h := newHarness(t)
	h.send("textDocument/hover", 1, map[string]interface{}{})

	resp := h.recv()
	require.NotNil(t, resp.Error)
	assert.Equal(t, errServerNotInit, resp.Error.Code)
}

func TestInitializeReturnsCapabilities(t *testing.T) {
	h := newHarness(t)
	h.send("initialize", 1, map[string]interface{}{"processId": 1})

	resp := h.recv()
	require.Nil(t, resp.Error)
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	caps := result["capabilities"].(map[string]interface{})
	assert.Equal(t, true, caps["hoverProvider"])
}

func TestDidOpenThenHoverReturnsType(t *testing.T) {
	h := newHarness(t)
	h.send("initialize", 1, map[string]interface{}{})
	h.recv()
	h.send("initialized", 0, map[string]interface{}{})

	h.send("textDocument/didOpen", 0, didOpenParams{
		TextDocument: TextDocumentItem{URI: "file:///a.lang", Text: "int x = 42; x;", Version: 1},
	})
	// didOpen triggers an async publishDiagnostics notification; drain it
	// before issuing the hover request that depends on analysis completing.
	diagMsg := h.recv()
	assert.Equal(t, "textDocument/publishDiagnostics", diagMsg.Method)

	h.send("textDocument/hover", 2, TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: "file:///a.lang"},
		Position:     Position{Line: 0, Character: 12},
	})
	resp := h.recv()
	require.Nil(t, resp.Error)

	var hover Hover
	require.NoError(t, json.Unmarshal(resp.Result, &hover))
	assert.Contains(t, hover.Contents.Value, "x : int")
}

func TestShutdownThenExitIsClean(t *testing.T) {
	h := newHarness(t)
	h.send("initialize", 1, map[string]interface{}{})
	h.recv()

	h.send("shutdown", 2, map[string]interface{}{})
	resp := h.recv()
	require.Nil(t, resp.Error)

	h.send("exit", 0, map[string]interface{}{})
	code := <-h.done
	assert.Equal(t, 0, code)
}

func TestExitWithoutShutdownIsUnclean(t *testing.T) {
	h := newHarness(t)
	h.send("initialize", 1, map[string]interface{}{})
	h.recv()

	h.send("exit", 0, map[string]interface{}{})
	code := <-h.done
	assert.Equal(t, 1, code)
}
