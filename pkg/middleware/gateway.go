package middleware

import (
	"net/http"
	"strings"
)

// GatewayRewrite strips prefix from the request path so the api can be served
// both directly and behind a gateway that mounts it under prefix.
func GatewayRewrite(prefix string) func(next http.Handler) http.Handler {
	prefix = "/" + strings.Trim(prefix, "/")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if prefix != "/" && (r.URL.Path == prefix || strings.HasPrefix(r.URL.Path, prefix+"/")) {
				r.URL.Path = strings.TrimPrefix(r.URL.Path, prefix)
				if r.URL.Path == "" {
					r.URL.Path = "/"
				}
				r.URL.RawPath = ""
			}

			next.ServeHTTP(w, r)
		})
	}
}
