package workspace

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// URIToPath converts a textDocument URI into a filesystem path, grounded on
// original_source's uri.h: percent-decoding, Windows drive-letter forms
// ("/C:/...", "/c/...") and UNC paths ("file:////host/share") are all
// normalized to the form filepath.Clean accepts on the host OS. Only the
// "file" scheme is accepted; anything else is rejected so the façade
// (internal/lsp) can report an error rather than silently misresolve a
// untitled:// or vscode-userdata:// URI.
func URIToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("uri: parse %q: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("uri: unsupported scheme %q in %q", u.Scheme, uri)
	}

	// A UNC path ("file://host/share/x") carries the host in u.Host;
	// reassemble as \\host\share\x. file:////host/share (4 slashes) decodes
	// with an empty Host and a leading "//host/share" in Path instead.
	if u.Host != "" && u.Host != "localhost" {
		rest := strings.TrimPrefix(u.Path, "/")
		return `\\` + u.Host + `\` + filepath.FromSlash(rest), nil
	}

	p := u.Path
	if strings.HasPrefix(p, "//") {
		// file:////host/share form: four slashes total, two already
		// consumed by the scheme separator.
		rest := strings.TrimPrefix(p, "//")
		parts := strings.SplitN(rest, "/", 2)
		if len(parts) == 2 {
			return `\\` + parts[0] + `\` + filepath.FromSlash(parts[1]), nil
		}
	}

	// Windows drive-letter forms: "/C:/Users/x" or "/c/Users/x".
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		return filepath.FromSlash(p[1:]), nil
	}
	if len(p) >= 3 && p[0] == '/' && isDriveLetter(p[1]) && p[2] == '/' {
		return filepath.FromSlash(strings.ToUpper(p[1:2]) + ":" + p[2:]), nil
	}

	return filepath.FromSlash(p), nil
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// PathToURI converts a filesystem path to a file:// URI, the inverse of
// URIToPath.
func PathToURI(path string) string {
	slashed := filepath.ToSlash(path)
	if runtime.GOOS == "windows" || (len(slashed) >= 2 && slashed[1] == ':') {
		if !strings.HasPrefix(slashed, "/") {
			slashed = "/" + slashed
		}
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return u.String()
}
