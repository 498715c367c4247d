package middleware

import (
	"context"
	"net/http"
	"strings"
)

type tokenKey struct{}

// BearerToken returns the token part of an "Authorization: Bearer <token>"
// header, or "" when the header is missing or uses another scheme.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// Bearer stores the raw bearer token in the request context. It does not
// reject anything: verification belongs to the auth service so REST and
// GraphQL fail the same way.
func Bearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithToken(r.Context(), BearerToken(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromCtx returns the token stored by Bearer, or "".
func TokenFromCtx(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}
