package http

import (
	"net/http"
	"strconv"
)

// ServeDocument serves a pre-rendered HTML page
func ServeDocument(page []byte) http.HandlerFunc {
	length := strconv.Itoa(len(page))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Length", length)
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			_, _ = w.Write(page)
		}
	}
}
