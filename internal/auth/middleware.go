package auth

import (
	"context"
	"net/http"
	"strings"
)

// Identity adalah hasil verifikasi token, dipakai downstream lewat context.
type Identity struct {
	UserID string
	Role   string
}

type ctxKey struct{}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// Optional: kalau ada token valid, identitas masuk context; tanpa token tetap lanjut (guest checkout).
func (v *Verifier) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := bearer(r); tok != "" {
			if c, err := v.Verify(tok); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, Identity{UserID: c.UserID, Role: c.Role}))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Require menolak request tanpa token valid.
func (v *Verifier) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearer(r)
		if tok == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		c, err := v.Verify(tok)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, Identity{UserID: c.UserID, Role: c.Role}))
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin menolak token non-admin.
func (v *Verifier) RequireAdmin(next http.Handler) http.Handler {
	return v.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := FromContext(r.Context())
		if id.Role != RoleAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
