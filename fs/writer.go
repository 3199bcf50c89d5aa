// Package fs provides file-based field configuration and record output.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/fwojciec/docschema"
)

// URLToPath converts a source URL to a relative file path of a record.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.json
// Returns EINVALID for URLs whose path escapes the host directory.
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", docschema.Errorf(docschema.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Hostname() == "" {
		return "", docschema.Errorf(docschema.EINVALID, "URL %q has no host", rawURL)
	}

	p := u.Path
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", docschema.Errorf(docschema.EINVALID, "path traversal in URL %q", rawURL)
		}
	}

	// Handle root or trailing slash → index.json
	switch {
	case p == "" || p == "/":
		p = "index.json"
	case strings.HasSuffix(p, "/"):
		p = strings.TrimPrefix(p, "/") + "index.json"
	default:
		p = strings.TrimPrefix(p, "/") + ".json"
	}

	return path.Join(strings.ToLower(u.Hostname()), p), nil
}

// FormatRecord formats a record as indented JSON with a trailing newline.
func FormatRecord(rec *docschema.Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Ensure Writer implements docschema.RecordWriter at compile time.
var _ docschema.RecordWriter = (*Writer)(nil)

// Writer streams records as JSON lines. It is safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a new Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRecord writes rec as one line of JSON.
func (w *Writer) WriteRecord(ctx context.Context, rec *docschema.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = w.w.Write(data)
	return err
}
