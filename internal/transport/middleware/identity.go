package middleware

import (
	"net/http"
	"strings"

	"github.com/dailylaw/ledge-backend/pkg/ctxutil"
)

const (
	// IdentityCookie carries the subscriber identity set at onboarding.
	IdentityCookie = "ledge_email"
	// IdentityHeader is accepted from clients that cannot send cookies.
	IdentityHeader = "X-Subscriber-Email"
)

// CookieCodec converts between a subscriber email and the identity cookie
// value.
type CookieCodec interface {
	Encode(email string) (string, error)
	Decode(value string) (string, error)
}

// PlainCookie stores the email itself as the cookie value.
type PlainCookie struct{}

func (PlainCookie) Encode(email string) (string, error) { return email, nil }
func (PlainCookie) Decode(value string) (string, error) { return value, nil }

// Identity places the caller's email, if any, in the request context. A
// cookie that decodes wins over the header. A nil codec means PlainCookie.
// Requests without identity pass through.
func Identity(codec CookieCodec) Middleware {
	if codec == nil {
		codec = PlainCookie{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if email := identityOf(r, codec); email != "" {
				r = r.WithContext(ctxutil.WithSubscriberEmail(r.Context(), email))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSubscriber answers 401 when Identity found no email.
func RequireSubscriber(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxutil.SubscriberEmailFromCtx(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func identityOf(r *http.Request, codec CookieCodec) string {
	if c, err := r.Cookie(IdentityCookie); err == nil && c.Value != "" {
		if email, err := codec.Decode(c.Value); err == nil {
			if email = normalize(email); email != "" {
				return email
			}
		}
	}
	return normalize(r.Header.Get(IdentityHeader))
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
