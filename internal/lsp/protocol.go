package lsp

import "encoding/json"

// JSON-RPC 2.0 envelope types, grounded on original_source's lsp_server.cpp
// message shapes. id is json.RawMessage rather than a concrete type
// because JSON-RPC permits either a number or a string id, and a
// notification simply omits it.
type rpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Standard and LSP-specific JSON-RPC error codes, per spec.md §6 and
// original_source's lsp_server.cpp.
const (
	errParseError     = -32700
	errInvalidRequest = -32600
	errMethodNotFound = -32601
	errInvalidParams  = -32602
	errInternalError  = -32603
	errServerNotInit  = -32002
)

// Position is the wire shape of a cursor location: 0-based line and
// 0-based UTF-16 code-unit character offset, per the LSP spec. Converting
// to/from the core's 1-based, byte-column source.Position happens in
// convert.go.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Range is a wire [Start, End) span in Position terms.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextDocumentIdentifier names a document by URI.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// VersionedTextDocumentIdentifier additionally carries the document's
// edit version, used by didChange.
type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int64  `json:"version"`
}

// TextDocumentItem is the full document payload didOpen carries.
type TextDocumentItem struct {
	URI     string `json:"uri"`
	Text    string `json:"text"`
	Version int64  `json:"version"`
}

// TextDocumentPositionParams is the common shape of hover/definition/
// completion requests.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

type didOpenParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// contentChange is one entry of didChange's contentChanges array. Only
// Full sync is supported (spec.md §4.I), so Range/RangeLength are accepted
// (to tolerate a client that always sends them) but ignored: Text is
// always treated as the document's new, complete contents.
type contentChange struct {
	Range       *Range `json:"range,omitempty"`
	RangeLength *int   `json:"rangeLength,omitempty"`
	Text        string `json:"text"`
}

type didChangeParams struct {
	TextDocument   VersionedTextDocumentIdentifier `json:"textDocument"`
	ContentChanges []contentChange                 `json:"contentChanges"`
}

type didCloseParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// Diagnostic is the wire shape of one analysis diagnostic.
type Diagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity"`
	Source   string `json:"source"`
	Message  string `json:"message"`
}

type publishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Hover is the wire response shape for textDocument/hover.
type Hover struct {
	Contents markupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

type markupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Location is the wire response shape for textDocument/definition.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// CompletionItem is one entry of textDocument/completion's response list.
type CompletionItem struct {
	Label         string `json:"label"`
	Kind          int    `json:"kind"`
	Detail        string `json:"detail,omitempty"`
	Documentation string `json:"documentation,omitempty"`
}

// LSP CompletionItemKind values actually used (a subset of the full enum).
const (
	completionKindVariable = 6
	completionKindFunction = 3
	completionKindClass    = 7
	completionKindModule   = 9
	completionKindField    = 5
)
