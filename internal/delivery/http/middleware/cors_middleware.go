package middleware

import (
	"net/http"
	"strings"
)

// CORSMiddleware answers preflights and tags responses for the web app.
// With no configured origins every origin is allowed.
type CORSMiddleware struct {
	origins map[string]struct{}
}

func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[strings.TrimRight(o, "/")] = struct{}{}
	}
	return &CORSMiddleware{origins: origins}
}

func (m *CORSMiddleware) allowOrigin(origin string) string {
	if len(m.origins) == 0 {
		return "*"
	}
	if _, ok := m.origins["*"]; ok {
		return "*"
	}
	if _, ok := m.origins[origin]; ok {
		return origin
	}
	return ""
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		header := w.Header()
		header.Add("Vary", "Origin")
		if allowed := m.allowOrigin(req.Header.Get("Origin")); allowed != "" {
			header.Set("Access-Control-Allow-Origin", allowed)
			header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			// the export download name travels in Content-Disposition
			header.Set("Access-Control-Expose-Headers", "Content-Disposition")
			header.Set("Access-Control-Max-Age", "600")
		}

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
