package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthMiddleware(t *testing.T) {
	handler := AuthMiddleware("secret", okHandler)

	tests := []struct {
		name     string
		path     string
		cookie   bool
		expected int
	}{
		{"login page is open", "/login", false, http.StatusOK},
		{"static assets are open", "/static/script.js", false, http.StatusOK},
		{"metrics are open", "/metrics", false, http.StatusOK},
		{"api without cookie", "/api/zones", false, http.StatusUnauthorized},
		{"page without cookie", "/", false, http.StatusSeeOther},
		{"api with cookie", "/api/zones", true, http.StatusOK},
		{"page with cookie", "/", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.cookie {
				req.AddCookie(&http.Cookie{Name: "authenticated", Value: "true"})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_DisabledWithoutPassword(t *testing.T) {
	handler := AuthMiddleware("", okHandler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/zones", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected open access, got %d", rec.Code)
	}
}
