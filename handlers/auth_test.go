// ABOUTME: Tests for the browser-facing auth handlers
// ABOUTME: Verifies cookie issuance, the verification gate, and teardown

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/middleware"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

const loginSuccessBody = `{"status":"success","data":{
	"user":{"id":"user-1","username":"amina","email":"amina@example.com","role":"manager","emailVerified":true},
	"tokens":{"accessToken":"access-0","refreshToken":"refresh-0"}}}`

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("upstream path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(loginSuccessBody))
	})
	h, reg := newTestHandler(t, upstream)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"amina@example.com","password":"secret"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp models.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Username != "amina" || resp.Role != models.RoleManager {
		t.Errorf("response = %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "access-0") {
		t.Error("tokens must never reach the browser")
	}

	sessionCookie := findCookie(rec, middleware.SessionCookieName)
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("session cookie not set")
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie must be httpOnly")
	}

	csrfCookie := findCookie(rec, middleware.CSRFCookieName)
	if csrfCookie == nil || csrfCookie.Value == "" {
		t.Fatal("CSRF cookie not set")
	}
	if csrfCookie.HttpOnly {
		t.Error("CSRF cookie must be readable by the frontend")
	}

	if reg.Validate(sessionCookie.Value) == nil {
		t.Error("session cookie does not resolve to a live session")
	}
}

func TestLogin_UnverifiedEmail(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":{
			"user":{"id":"user-1","username":"amina","email":"amina@example.com","role":"manager","emailVerified":false},
			"tokens":{"accessToken":"access-0","refreshToken":"refresh-0"}}}`))
	})
	h, reg := newTestHandler(t, upstream)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"amina@example.com","password":"secret"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	var resp models.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success || !resp.RequiresVerification {
		t.Errorf("response = %+v, want requiresVerification", resp)
	}
	if reg.Len() != 0 {
		t.Error("no session may be created for an unverified account")
	}
	if findCookie(rec, middleware.SessionCookieName) != nil {
		t.Error("no session cookie may be set for an unverified account")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","message":"Invalid email or password"}`))
	})
	h, reg := newTestHandler(t, upstream)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"amina@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if reg.Len() != 0 {
		t.Error("no session may be created for failed credentials")
	}
}

func TestLogin_MissingFields(t *testing.T) {
	h, _ := newTestHandler(t, http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"amina@example.com"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestMe(t *testing.T) {
	h, reg := newTestHandler(t, http.NotFoundHandler())

	// Anonymous
	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	var anon models.UserInfoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &anon); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if anon.Authenticated {
		t.Error("anonymous request reported authenticated")
	}

	// Authenticated
	rec = httptest.NewRecorder()
	h.Me(rec, authedRequest(t, reg, http.MethodGet, "/api/v1/auth/me"))
	var me models.UserInfoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !me.Authenticated || me.Username != "amina" || me.Role != models.RoleManager {
		t.Errorf("response = %+v", me)
	}
}

func TestLogout(t *testing.T) {
	h, reg := newTestHandler(t, http.NotFoundHandler())

	req := authedRequest(t, reg, http.MethodPost, "/api/v1/auth/logout")
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if reg.Len() != 0 {
		t.Error("session should be removed on logout")
	}

	sessionCookie := findCookie(rec, middleware.SessionCookieName)
	if sessionCookie == nil || sessionCookie.MaxAge != -1 {
		t.Error("session cookie should be expired")
	}
	csrfCookie := findCookie(rec, middleware.CSRFCookieName)
	if csrfCookie == nil || csrfCookie.MaxAge != -1 {
		t.Error("CSRF cookie should be expired")
	}

	// Logout without a session is still a success
	rec = httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous logout status = %d, want 200", rec.Code)
	}
}

func TestRefresh_ForcesNewPair(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/refresh-token" {
			t.Errorf("upstream path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":{"accessToken":"access-1","refreshToken":"refresh-1"}}`))
	})
	h, reg := newTestHandler(t, upstream)

	req := authedRequest(t, reg, http.MethodPost, "/api/v1/auth/refresh")
	rec := httptest.NewRecorder()

	h.Refresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	cookie, _ := req.Cookie(middleware.SessionCookieName)
	sess := reg.Validate(cookie.Value)
	if sess == nil {
		t.Fatal("session gone after refresh")
	}
	if sess.AccessToken != "access-1" || sess.RefreshToken != "refresh-1" {
		t.Errorf("tokens = %q/%q, want rotated pair", sess.AccessToken, sess.RefreshToken)
	}
}

func TestRefresh_FailureClearsSession(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","message":"Refresh token expired"}`))
	})
	h, reg := newTestHandler(t, upstream)

	req := authedRequest(t, reg, http.MethodPost, "/api/v1/auth/refresh")
	rec := httptest.NewRecorder()

	h.Refresh(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if reg.Len() != 0 {
		t.Error("failed refresh must clear the session")
	}
}

func TestRefresh_Anonymous(t *testing.T) {
	h, _ := newTestHandler(t, http.NotFoundHandler())

	rec := httptest.NewRecorder()
	h.Refresh(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRegister(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("upstream path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":{
			"user":{"id":"user-2","username":"joseph","email":"joseph@example.com","role":"tenant","emailVerified":false}}}`))
	})
	h, reg := newTestHandler(t, upstream)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"username":"joseph","email":"joseph@example.com","password":"secret"}`))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if reg.Len() != 0 {
		t.Error("registration must not create a session")
	}
	if findCookie(rec, middleware.SessionCookieName) != nil {
		t.Error("registration must not set a session cookie")
	}
}

func TestUpdateProfile_MirrorsIntoSession(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/auth/profile" {
			t.Errorf("upstream request = %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":{"id":"user-1","username":"amina-w","email":"amina@example.com","role":"manager","emailVerified":true}}`))
	})
	h, reg := newTestHandler(t, upstream)
	handler := requireAuth(reg, h.UpdateProfile)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/auth/profile",
		strings.NewReader(`{"username":"amina-w"}`))
	sid, _, err := reg.Create(testLoginData())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sid})

	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	sess := reg.Validate(sid)
	if sess == nil {
		t.Fatal("session gone after profile update")
	}
	if sess.Username != "amina-w" {
		t.Errorf("Username = %q, want amina-w mirrored into session", sess.Username)
	}
	if sess.AccessToken != "access-0" || sess.RefreshToken != "refresh-0" {
		t.Error("profile update must not touch tokens")
	}
}

func TestDeleteAccount(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/auth/account" {
			t.Errorf("upstream request = %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","message":"Account deleted"}`))
	})
	h, reg := newTestHandler(t, upstream)
	handler := requireAuth(reg, h.DeleteAccount)

	req := authedRequest(t, reg, http.MethodDelete, "/api/v1/auth/account")
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if reg.Len() != 0 {
		t.Error("account deletion must tear down the session")
	}
}
