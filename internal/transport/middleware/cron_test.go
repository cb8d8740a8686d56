package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCronAuth(t *testing.T) {
	t.Parallel()

	const secret = "0123456789abcdef"

	tests := []struct {
		name   string
		secret string
		header string
		want   int
		called bool
	}{
		{"valid token", secret, "Bearer " + secret, http.StatusOK, true},
		{"lowercase scheme", secret, "bearer " + secret, http.StatusOK, true},
		{"wrong token", secret, "Bearer nope", http.StatusUnauthorized, false},
		{"prefix of token", secret, "Bearer " + secret[:8], http.StatusUnauthorized, false},
		{"missing header", secret, "", http.StatusUnauthorized, false},
		{"basic scheme", secret, "Basic " + secret, http.StatusUnauthorized, false},
		{"unset secret", "", "Bearer ", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			h := CronAuth(tt.secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodPost, "/cron/score", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if called != tt.called {
				t.Errorf("next called = %v, want %v", called, tt.called)
			}
		})
	}
}
