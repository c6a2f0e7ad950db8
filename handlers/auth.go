// ABOUTME: Auth handlers owning the browser-facing session surface
// ABOUTME: Login, logout, refresh, registration, and the recovery flows

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/metrics"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/middleware"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/services"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/session"
)

// cookieMaxAge keeps the cookies alive across token refreshes; the session
// itself dies earlier if a refresh fails.
const cookieMaxAge = 24 * 60 * 60

// Login authenticates against the backend and creates a server-side session.
// Tokens never reach the browser; it gets an opaque session ID plus a CSRF
// token for the double-submit check.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		h.writeError(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	data, err := h.api.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrUnverified) {
			slog.Info("Login blocked: unverified email", "email", req.Email)
			metrics.LoginTotal.WithLabelValues("unverified").Inc()
			h.writeJSON(w, http.StatusForbidden, models.LoginResponse{
				RequiresVerification: true,
				Message:              "Please verify your email address before signing in",
			})
			return
		}
		slog.Warn("Login failed", "email", req.Email, "error", err)
		metrics.LoginTotal.WithLabelValues("failure").Inc()
		h.writeJSON(w, http.StatusUnauthorized, models.LoginResponse{
			Message: "Invalid credentials",
		})
		return
	}

	sessionID, mgr, err := h.sessions.Create(data)
	if err != nil {
		slog.Error("Failed to create session", "error", err)
		h.writeError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	csrfToken, err := session.NewToken()
	if err != nil {
		mgr.ClearSession()
		slog.Error("Failed to generate CSRF token", "error", err)
		h.writeError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	h.setSessionCookies(w, sessionID, csrfToken)
	metrics.LoginTotal.WithLabelValues("success").Inc()

	h.writeJSON(w, http.StatusOK, models.LoginResponse{
		Success:  true,
		Username: data.User.Username,
		UserID:   data.User.ID,
		Role:     data.User.Role,
	})
}

// Me returns the current user's authentication state.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFromCookie(r)
	if sess == nil {
		h.writeJSON(w, http.StatusOK, models.UserInfoResponse{
			Authenticated: false,
		})
		return
	}

	h.writeJSON(w, http.StatusOK, models.UserInfoResponse{
		Authenticated: true,
		Username:      sess.Username,
		UserID:        sess.UserID,
		Email:         sess.Email,
		Role:          sess.Role,
		EmailVerified: sess.EmailVerified,
	})
}

// Logout clears the server-side session and both cookies.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		h.sessions.Logout(cookie.Value)
	}

	h.clearSessionCookies(w)

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Refresh forces a token refresh for the caller's session. The scheduler
// refreshes on its own; this exists for clients that want to recover from a
// wake-from-sleep gap without waiting for the next timer.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		h.writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	mgr, ok := h.sessions.Get(cookie.Value)
	if !ok || !mgr.IsAuthenticated() {
		h.clearSessionCookies(w)
		h.writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	result := mgr.Refresh(r.Context())
	if !result.Success {
		h.clearSessionCookies(w)
		h.writeError(w, result.Message, http.StatusUnauthorized)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"refreshed": true})
}

// Register creates a new account. The backend emails a verification link, so
// no session is created here; the user signs in after verifying.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		h.writeError(w, "Username, email, and password are required", http.StatusBadRequest)
		return
	}

	profile, err := h.api.Register(r.Context(), req)
	if err != nil {
		slog.Warn("Registration failed", "email", req.Email, "error", err)
		h.writeUpstreamError(w, err, "Registration failed")
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Account created, please verify your email",
		"userId":  profile.ID,
	})
}

// UpdateProfile patches the profile upstream and mirrors the change into the
// live session. Tokens and the refresh timer are untouched.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r)
	if sess == nil {
		h.writeError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.api.UpdateProfile(r.Context(), sess.AccessToken, update)
	if err != nil {
		slog.Warn("Profile update failed", "user", sess.UserID, "error", err)
		h.writeUpstreamError(w, err, "Profile update failed")
		return
	}

	if mgr, ok := h.sessions.Get(sess.ID); ok {
		mgr.UpdateProfile(models.ProfileUpdate{
			Username:              profile.Username,
			Email:                 profile.Email,
			Phone:                 profile.Phone,
			Role:                  profile.Role,
			SpecialistPermissions: profile.SpecialistPermissions,
			AssignedProperties:    profile.AssignedProperties,
		})
	}

	h.writeJSON(w, http.StatusOK, profile)
}

// DeleteAccount removes the account upstream and tears down the session.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r)
	if sess == nil {
		h.writeError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.api.DeleteAccount(r.Context(), sess.AccessToken); err != nil {
		slog.Warn("Account deletion failed", "user", sess.UserID, "error", err)
		h.writeUpstreamError(w, err, "Account deletion failed")
		return
	}

	h.sessions.Logout(sess.ID)
	h.clearSessionCookies(w)

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ResetRequest asks the backend to email a password reset token.
func (h *Handler) ResetRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		h.writeError(w, "Email is required", http.StatusBadRequest)
		return
	}

	if err := h.api.RequestPasswordReset(r.Context(), req.Email); err != nil {
		slog.Warn("Password reset request failed", "error", err)
		h.writeUpstreamError(w, err, "Password reset request failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password reset email sent",
	})
}

// ResetPassword completes a password reset with the emailed token.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" || req.Password == "" {
		h.writeError(w, "Token and password are required", http.StatusBadRequest)
		return
	}

	if err := h.api.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		slog.Warn("Password reset failed", "error", err)
		h.writeUpstreamError(w, err, "Password reset failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// VerifyEmail confirms an account with the emailed verification code.
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		h.writeError(w, "Verification code is required", http.StatusBadRequest)
		return
	}

	if err := h.api.VerifyEmail(r.Context(), req.Code); err != nil {
		slog.Warn("Email verification failed", "error", err)
		h.writeUpstreamError(w, err, "Email verification failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ResendVerification asks the backend to resend the verification email.
func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		h.writeError(w, "Email is required", http.StatusBadRequest)
		return
	}

	if err := h.api.ResendVerification(r.Context(), req.Email); err != nil {
		slog.Warn("Resend verification failed", "error", err)
		h.writeUpstreamError(w, err, "Resend verification failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// writeUpstreamError surfaces a backend error envelope's message verbatim and
// hides everything else behind a generic message.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, err error, fallback string) {
	var upErr *services.UpstreamError
	if errors.As(err, &upErr) {
		code := upErr.StatusCode
		if code < 400 || code > 599 {
			code = http.StatusBadGateway
		}
		h.writeError(w, upErr.Message, code)
		return
	}
	h.writeError(w, fallback, http.StatusBadGateway)
}

// sessionFromCookie resolves the session cookie to a live session snapshot.
func (h *Handler) sessionFromCookie(r *http.Request) *models.Session {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return h.sessions.Validate(cookie.Value)
}

// setSessionCookies sets the httpOnly session cookie and the JS-readable
// CSRF cookie for the double-submit check.
func (h *Handler) setSessionCookies(w http.ResponseWriter, sessionID, csrfToken string) {
	secure := true
	if h.cfg != nil {
		secure = h.cfg.CookieSecure
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   cookieMaxAge,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CSRFCookieName,
		Value:    csrfToken,
		HttpOnly: false, // frontend must read it to echo the header
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   cookieMaxAge,
	})
}

// clearSessionCookies removes both cookies.
func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	secure := true
	if h.cfg != nil {
		secure = h.cfg.CookieSecure
	}

	for _, name := range []string{middleware.SessionCookieName, middleware.CSRFCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			HttpOnly: name == middleware.SessionCookieName,
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
			Path:     "/",
			MaxAge:   -1,
		})
	}
}
