package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dailylaw/ledge-backend/pkg/ctxutil"
)

func captureEmail(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, _ = ctxutil.SubscriberEmailFromCtx(r.Context())
	})
}

func TestIdentity_Cookie(t *testing.T) {
	t.Parallel()

	var got string
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: IdentityCookie, Value: " Ann@Example.org "})
	req.Header.Set(IdentityHeader, "other@example.org")

	Identity(nil)(captureEmail(&got)).ServeHTTP(httptest.NewRecorder(), req)

	if got != "ann@example.org" {
		t.Errorf("email = %q, want cookie value normalized", got)
	}
}

func TestIdentity_HeaderFallback(t *testing.T) {
	t.Parallel()

	var got string
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: IdentityCookie, Value: "  "})
	req.Header.Set(IdentityHeader, "bob@example.org")

	Identity(nil)(captureEmail(&got)).ServeHTTP(httptest.NewRecorder(), req)

	if got != "bob@example.org" {
		t.Errorf("email = %q, want header value", got)
	}
}

func TestIdentity_Anonymous(t *testing.T) {
	t.Parallel()

	var got string
	called := false
	h := Identity(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		got, _ = ctxutil.SubscriberEmailFromCtx(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/articles", nil))

	if !called {
		t.Fatal("expected anonymous request to pass through")
	}
	if got != "" {
		t.Errorf("email = %q, want empty", got)
	}
}

func TestRequireSubscriber(t *testing.T) {
	t.Parallel()

	called := false
	h := Identity(nil)(RequireSubscriber(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("handler must not run without identity")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set(IdentityHeader, "ann@example.org")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if !called {
		t.Error("handler should run with identity")
	}
}

// reversedCookie is a toy codec: the cookie holds the email reversed with a
// "v1." prefix.
type reversedCookie struct{}

func (reversedCookie) Encode(email string) (string, error) { return "v1." + reverse(email), nil }

func (reversedCookie) Decode(value string) (string, error) {
	if len(value) < 3 || value[:3] != "v1." {
		return "", errors.New("bad cookie")
	}
	return reverse(value[3:]), nil
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

func TestIdentity_CodecDecodesCookie(t *testing.T) {
	t.Parallel()

	value, _ := reversedCookie{}.Encode("ann@example.org")

	var got string
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: IdentityCookie, Value: value})

	Identity(reversedCookie{})(captureEmail(&got)).ServeHTTP(httptest.NewRecorder(), req)

	if got != "ann@example.org" {
		t.Errorf("email = %q, want decoded cookie", got)
	}
}

func TestIdentity_UndecodableCookieFallsBackToHeader(t *testing.T) {
	t.Parallel()

	var got string
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: IdentityCookie, Value: "mallory@example.org"})
	req.Header.Set(IdentityHeader, "bob@example.org")

	Identity(reversedCookie{})(captureEmail(&got)).ServeHTTP(httptest.NewRecorder(), req)

	if got != "bob@example.org" {
		t.Errorf("email = %q, want header value", got)
	}
}
