package docschema

import (
	"net/http"
	"time"
)

// HeaderResponseTime is the response header carrying the fetch duration in
// milliseconds. It is set by the fetcher, not by the origin server.
const HeaderResponseTime = "ResponseTimeMillis"

// Response holds the metadata of the HTTP response a document was parsed
// from.
type Response struct {
	StatusCode   int
	LastModified time.Time
	Header       http.Header
}

// HeaderValue returns the named header value, or def if it is absent.
func (r *Response) HeaderValue(name, def string) string {
	if r == nil || r.Header == nil {
		return def
	}
	if v := r.Header.Get(name); v != "" {
		return v
	}
	return def
}
