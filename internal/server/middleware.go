package server

import (
	"bytes"
	"net/http"
	"strings"

	"assetforge/internal/critical"
)

// PageIDResolver extracts the page identifier from a request. Returning
// false means the request does not map to a cacheable page.
type PageIDResolver func(*http.Request) (int, bool)

// CriticalMiddleware injects cached critical CSS/JS into HTML responses.
// A cold cache injects nothing and the response passes through unchanged;
// non-HTML responses are never touched. Mount this in the host's request
// pipeline around its page renderer.
func CriticalMiddleware(cache *critical.Cache, pageID PageIDResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := pageID(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			recorder := &bufferingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			body := recorder.buf.Bytes()
			if isHTML(recorder.Header().Get("Content-Type")) {
				body = cache.Inline(id, critical.ViewportFor(r.UserAgent()), body)
			}

			recorder.Header().Del("Content-Length")
			w.WriteHeader(recorder.status)
			w.Write(body)
		})
	}
}

func isHTML(contentType string) bool {
	return strings.HasPrefix(contentType, "text/html")
}

// bufferingWriter captures the response so the body can be rewritten
// before transmission.
type bufferingWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (b *bufferingWriter) WriteHeader(status int) {
	b.status = status
}

func (b *bufferingWriter) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}
