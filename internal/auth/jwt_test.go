package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	v := NewVerifier("test-secret")

	tok, err := v.GenerateToken("user-1", RoleCustomer)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	c, err := v.Verify(tok)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if c.UserID != "user-1" || c.Role != RoleCustomer {
		t.Errorf("unexpected claims: %+v", c)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := NewVerifier("secret-a").GenerateToken("user-1", RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := NewVerifier("secret-b").Verify(tok); err == nil {
		t.Error("expected verification failure with wrong secret")
	}
}

func TestVerify_Garbage(t *testing.T) {
	if _, err := NewVerifier("s").Verify("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func okHandler(t *testing.T, wantUser string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := FromContext(r.Context())
		if wantUser != "" {
			if !ok || id.UserID != wantUser {
				t.Errorf("expected identity %q in context, got %+v (ok=%v)", wantUser, id, ok)
			}
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAdmin(t *testing.T) {
	v := NewVerifier("test-secret")
	h := v.RequireAdmin(okHandler(t, "admin-1"))

	adminTok, _ := v.GenerateToken("admin-1", RoleAdmin)
	custTok, _ := v.GenerateToken("cust-1", RoleCustomer)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"malformed", "Bearer garbage", http.StatusUnauthorized},
		{"customer", "Bearer " + custTok, http.StatusForbidden},
		{"admin", "Bearer " + adminTok, http.StatusOK},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != c.want {
			t.Errorf("%s: expected status %d, got %d", c.name, c.want, rec.Code)
		}
	}
}

func TestOptional_GuestPassesThrough(t *testing.T) {
	v := NewVerifier("test-secret")
	h := v.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); ok {
			t.Error("guest request must not carry an identity")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for guest, got %d", rec.Code)
	}
}

func TestOptional_WithToken(t *testing.T) {
	v := NewVerifier("test-secret")
	tok, _ := v.GenerateToken("user-9", RoleCustomer)

	h := v.Optional(okHandler(t, "user-9"))
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
