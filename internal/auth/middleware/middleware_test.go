package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/rbac"
)

func TestIssueAndParseJWT(t *testing.T) {
	a := NewAuthService("test-secret", "admin", "")
	tok, err := a.IssueJWT("teacher-1", "teacher")
	if err != nil {
		t.Fatalf("IssueJWT: %v", err)
	}
	c, err := a.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Sub != "teacher-1" || c.Role != "teacher" {
		t.Errorf("claims = %+v", c)
	}

	other := NewAuthService("different-secret", "admin", "")
	if _, err := other.Parse(tok); err == nil {
		t.Error("token signed with another secret must not parse")
	}
}

func login(t *testing.T, a *AuthService, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	LoginHandler(a)(rec, req)
	return rec
}

func TestLoginDevAccounts(t *testing.T) {
	a := NewAuthService("test-secret", "admin", "")

	rec := login(t, a, map[string]string{"username": "gv01", "password": "gv01", "role": "teacher"})
	if rec.Code != http.StatusOK {
		t.Fatalf("teacher login status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
		Role        string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response: %v", err)
	}
	if resp.Role != "teacher" || resp.AccessToken == "" {
		t.Errorf("response = %+v", resp)
	}

	if rec := login(t, a, map[string]string{"username": "gv01", "password": "khac", "role": "teacher"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("mismatched password status = %d", rec.Code)
	}
	if rec := login(t, a, map[string]string{"username": "x", "password": "x", "role": "admin"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("dev rule must not mint admin tokens, status = %d", rec.Code)
	}
}

func TestLoginAdminBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("đổi-mật-khẩu"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	a := NewAuthService("test-secret", "admin", string(hash))

	rec := login(t, a, map[string]string{"username": "admin", "password": "đổi-mật-khẩu"})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin login status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Role string `json:"role"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Role != "admin" {
		t.Errorf("role = %q", resp.Role)
	}

	if rec := login(t, a, map[string]string{"username": "admin", "password": "sai"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong admin password status = %d", rec.Code)
	}
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("test-secret", "admin", "")
	tok, err := a.IssueJWT("sv01", "student")
	if err != nil {
		t.Fatalf("IssueJWT: %v", err)
	}

	var gotSub, gotRole string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/exams/x", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotSub != "sv01" || gotRole != "student" {
		t.Errorf("context carried %q/%q", gotSub, gotRole)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exams/x", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing header status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/exams/x", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d", rec.Code)
	}
}
