package middleware

import (
	"net/http"
	"strings"
)

// MaxRequestSize caps request bodies. Multipart uploads get the larger
// uploadLimit since card photos dwarf any JSON payload.
func MaxRequestSize(jsonLimit, uploadLimit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := jsonLimit
			if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
				limit = uploadLimit
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)

			next.ServeHTTP(w, r)
		})
	}
}
