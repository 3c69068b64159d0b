package lsp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/langls/server/internal/debug"
)

// transport implements the Content-Length framed stdio protocol LSP uses,
// grounded on original_source's lsp_server.cpp readMessage/writeMessage:
// each message is preceded by a "Content-Length: N\r\n\r\n" header (an
// optional Content-Type header, if present, is ignored) and followed by
// exactly N bytes of UTF-8 JSON.
type transport struct {
	r *bufio.Reader

	wmu sync.Mutex
	w   io.Writer
}

func newTransport(r io.Reader, w io.Writer) *transport {
	return &transport{r: bufio.NewReader(r), w: w}
}

// readMessage blocks for the next framed message and returns its raw JSON
// body. io.EOF (or any wrapped EOF) signals the peer closed the stream,
// which ends the server loop; Serve then reports a clean exit only if an
// exit notification had already arrived, and an unclean exit otherwise.
func (t *transport) readMessage() ([]byte, error) {
	var contentLength int
	for {
		line, err := t.r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break // blank line ends the header block
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("lsp: bad Content-Length %q: %w", value, err)
			}
			contentLength = n
		}
	}
	if contentLength <= 0 {
		return nil, fmt.Errorf("lsp: missing or zero Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(t.r, body); err != nil {
		return nil, err
	}
	return body, nil
}

// writeMessage frames and writes one JSON message, serializing concurrent
// writers (a request handler and an async publishDiagnostics notification
// could otherwise interleave their Content-Length headers and bodies).
func (t *transport) writeMessage(msg interface{}) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	t.wmu.Lock()
	defer t.wmu.Unlock()
	if _, err := fmt.Fprintf(t.w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	if _, err := t.w.Write(body); err != nil {
		return err
	}
	debug.LogLSP("-> %s", string(body))
	return nil
}
