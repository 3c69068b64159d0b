// Package lsp is the stateless façade (spec.md §4.I): it owns the lifecycle
// state machine, the JSON-RPC method dispatch table, and the translation
// between wire shapes and the core's internal types. It holds no analysis
// state of its own — every query is answered by calling into
// internal/workspace and internal/position.
package lsp

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/langls/server/internal/debug"
	"github.com/langls/server/internal/langsyntax"
	"github.com/langls/server/internal/position"
	"github.com/langls/server/internal/source"
	"github.com/langls/server/internal/symbols"
	"github.com/langls/server/internal/workspace"
)

// lifecycleState tracks the handshake spec.md §6 requires: initialize must
// precede every other request, shutdown must precede exit for a clean exit
// code, and nothing may be served after shutdown.
type lifecycleState int

const (
	stateUninitialized lifecycleState = iota
	stateInitializing
	stateInitialized
	stateShuttingDown
)

var initializeParamsSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"processId": {Type: "integer"},
		"rootUri":   {Type: "string"},
	},
}

// Server is one LSP session's façade. It is not safe for concurrent use of
// Serve by more than one goroutine; Serve reads and dispatches one message
// at a time, so requests and notifications are handled sequentially.
type Server struct {
	ws    *workspace.Workspace
	t     *transport
	state lifecycleState

	cleanExit bool
}

// NewServer builds a façade over ws, reading LSP traffic from r and writing
// responses/notifications to w (ordinarily os.Stdin/os.Stdout).
func NewServer(ws *workspace.Workspace, r io.Reader, w io.Writer) *Server {
	return &Server{ws: ws, t: newTransport(r, w)}
}

// PublishDiagnostics implements workspace.DiagnosticsPublisher by emitting a
// textDocument/publishDiagnostics notification.
func (s *Server) PublishDiagnostics(uri string, diags []langsyntax.Diagnostic) {
	file := s.ws.File(uri)
	wire := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		wire = append(wire, toWireDiagnostic(file, d))
	}
	s.notify("textDocument/publishDiagnostics", publishDiagnosticsParams{URI: uri, Diagnostics: wire})
}

// Serve runs the read-dispatch-write loop until the peer closes the stream
// or exit is received. The returned exit code follows spec.md §6: 0 for a
// clean shutdown-then-exit, 1 otherwise.
func (s *Server) Serve() int {
	for {
		body, err := s.t.readMessage()
		if err != nil {
			if err == io.EOF {
				break
			}
			debug.LogLSP("transport read error: %v", err)
			break
		}
		debug.LogLSP("<- %s", string(body))

		if shouldExit := s.dispatch(body); shouldExit {
			break
		}
	}

	if s.cleanExit {
		return 0
	}
	return 1
}

// dispatch decodes one frame and routes it by method. It returns true when
// the process should stop serving (an exit notification was received).
func (s *Server) dispatch(body []byte) (exit bool) {
	var msg rpcMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		s.writeError(nil, errParseError, fmt.Sprintf("parse error: %v", err))
		return false
	}
	if msg.JSONRPC != "2.0" || msg.Method == "" {
		s.writeError(msg.ID, errInvalidRequest, "invalid request")
		return false
	}

	isNotification := len(msg.ID) == 0

	if msg.Method == "exit" {
		s.cleanExit = s.state == stateShuttingDown
		return true
	}

	if s.state == stateUninitialized && msg.Method != "initialize" {
		if !isNotification {
			s.writeError(msg.ID, errServerNotInit, "server not initialized")
		}
		return false
	}
	if s.state == stateShuttingDown && msg.Method != "exit" {
		if !isNotification {
			s.writeError(msg.ID, errInvalidRequest, "server is shutting down")
		}
		return false
	}

	switch msg.Method {
	case "initialize":
		s.handleInitialize(msg)
	case "initialized":
		// no response required
	case "shutdown":
		s.state = stateShuttingDown
		s.writeResult(msg.ID, json.RawMessage("null"))
	case "textDocument/didOpen":
		s.handleDidOpen(msg)
	case "textDocument/didChange":
		s.handleDidChange(msg)
	case "textDocument/didClose":
		s.handleDidClose(msg)
	case "textDocument/completion":
		s.handleCompletion(msg)
	case "textDocument/hover":
		s.handleHover(msg)
	case "textDocument/definition":
		s.handleDefinition(msg)
	default:
		if !isNotification {
			s.writeError(msg.ID, errMethodNotFound, fmt.Sprintf("method not found: %s", msg.Method))
		} else {
			debug.LogLSP("ignoring unknown notification %s", msg.Method)
		}
	}
	return false
}

func (s *Server) handleInitialize(msg rpcMessage) {
	if s.state != stateUninitialized {
		s.writeError(msg.ID, errInvalidRequest, "already initialized")
		return
	}
	s.state = stateInitializing

	if resolved, err := initializeParamsSchema.Resolve(nil); err == nil {
		var raw interface{}
		if json.Unmarshal(msg.Params, &raw) == nil {
			if verr := resolved.Validate(raw); verr != nil {
				debug.LogLSP("initialize params failed schema validation: %v", verr)
			}
		}
	}

	result := map[string]interface{}{
		"capabilities": map[string]interface{}{
			"textDocumentSync":   1,
			"hoverProvider":      true,
			"definitionProvider": true,
			"completionProvider": map[string]interface{}{
				"resolveProvider":   false,
				"triggerCharacters": []string{".", ":"},
			},
		},
		"serverInfo": map[string]interface{}{
			"name":    "langls",
			"version": Version,
		},
	}
	s.writeResultValue(msg.ID, result)
	s.state = stateInitialized
}

func (s *Server) handleDidOpen(msg rpcMessage) {
	var p didOpenParams
	if err := json.Unmarshal(msg.Params, &p); err != nil {
		debug.LogLSP("didOpen: bad params: %v", err)
		return
	}
	path, _ := workspace.URIToPath(p.TextDocument.URI)
	s.ws.DidOpen(p.TextDocument.URI, path, p.TextDocument.Text, p.TextDocument.Version)
}

func (s *Server) handleDidChange(msg rpcMessage) {
	var p didChangeParams
	if err := json.Unmarshal(msg.Params, &p); err != nil {
		debug.LogLSP("didChange: bad params: %v", err)
		return
	}
	if len(p.ContentChanges) == 0 {
		return
	}
	// Full sync only (spec.md §6): the last entry is the document's
	// complete new text regardless of how many entries the client sent.
	text := p.ContentChanges[len(p.ContentChanges)-1].Text
	s.ws.DidChange(p.TextDocument.URI, text, p.TextDocument.Version)
}

func (s *Server) handleDidClose(msg rpcMessage) {
	var p didCloseParams
	if err := json.Unmarshal(msg.Params, &p); err != nil {
		debug.LogLSP("didClose: bad params: %v", err)
		return
	}
	s.ws.DidClose(p.TextDocument.URI)
}

func (s *Server) handleCompletion(msg rpcMessage) {
	var p TextDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &p); err != nil {
		s.writeError(msg.ID, errInvalidParams, err.Error())
		return
	}
	result := s.ws.Result(p.TextDocument.URI)
	file := s.ws.File(p.TextDocument.URI)
	if result == nil || file == nil {
		s.writeResultValue(msg.ID, []CompletionItem{})
		return
	}

	pos := toSourcePosition(file, p.Position)
	items := position.Complete(result, pos, "")

	wire := make([]CompletionItem, 0, len(items))
	for _, it := range items {
		wire = append(wire, CompletionItem{
			Label:  it.Label,
			Kind:   completionKindFor(it.Kind),
			Detail: it.Type.String(),
		})
	}
	s.writeResultValue(msg.ID, wire)
}

func (s *Server) handleHover(msg rpcMessage) {
	var p TextDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &p); err != nil {
		s.writeError(msg.ID, errInvalidParams, err.Error())
		return
	}
	result := s.ws.Result(p.TextDocument.URI)
	file := s.ws.File(p.TextDocument.URI)
	if result == nil || file == nil {
		s.writeResultValue(msg.ID, nil)
		return
	}

	pos := toSourcePosition(file, p.Position)
	h, ok := position.HoverAt(result, pos)
	if !ok {
		s.writeResultValue(msg.ID, nil)
		return
	}
	rng := fromSourceRange(file, h.Range)
	s.writeResultValue(msg.ID, Hover{
		Contents: markupContent{Kind: "markdown", Value: hoverMarkdown(h)},
		Range:    &rng,
	})
}

func (s *Server) handleDefinition(msg rpcMessage) {
	var p TextDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &p); err != nil {
		s.writeError(msg.ID, errInvalidParams, err.Error())
		return
	}
	result := s.ws.Result(p.TextDocument.URI)
	file := s.ws.File(p.TextDocument.URI)
	if result == nil || file == nil {
		s.writeResultValue(msg.ID, nil)
		return
	}

	pos := toSourcePosition(file, p.Position)
	loc, ok := position.DefinitionAt(result, pos, p.TextDocument.URI)
	if !ok {
		s.writeResultValue(msg.ID, nil)
		return
	}

	targetFile := s.ws.File(loc.URI)
	if targetFile == nil {
		targetFile = source.NewFile(loc.URI, "", "", 0)
	}
	s.writeResultValue(msg.ID, Location{URI: loc.URI, Range: fromSourceRange(targetFile, loc.Range)})
}

func hoverMarkdown(h position.Hover) string {
	if h.Doc == "" {
		return fmt.Sprintf("```\n%s\n```", h.Text)
	}
	return fmt.Sprintf("```\n%s\n```\n\n%s", h.Text, h.Doc)
}

func completionKindFor(kind symbols.SymbolKind) int {
	switch kind {
	case symbols.SymbolFunction, symbols.SymbolBuiltinFunction:
		return completionKindFunction
	case symbols.SymbolClass, symbols.SymbolBuiltinType, symbols.SymbolTypeAlias:
		return completionKindClass
	case symbols.SymbolModule:
		return completionKindModule
	case symbols.SymbolParameter:
		return completionKindField
	default:
		return completionKindVariable
	}
}

func (s *Server) notify(method string, params interface{}) {
	raw, _ := json.Marshal(params)
	if err := s.t.writeMessage(rpcMessage{JSONRPC: "2.0", Method: method, Params: raw}); err != nil {
		debug.LogLSP("notify %s: write error: %v", method, err)
	}
}

func (s *Server) writeResult(id json.RawMessage, result json.RawMessage) {
	if err := s.t.writeMessage(rpcMessage{JSONRPC: "2.0", ID: id, Result: result}); err != nil {
		debug.LogLSP("write response: %v", err)
	}
}

func (s *Server) writeResultValue(id json.RawMessage, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.writeError(id, errInternalError, err.Error())
		return
	}
	s.writeResult(id, raw)
}

func (s *Server) writeError(id json.RawMessage, code int, message string) {
	if err := s.t.writeMessage(rpcMessage{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}); err != nil {
		debug.LogLSP("write error response: %v", err)
	}
}
