// ABOUTME: Auth endpoints of the upstream Tranquil API
// ABOUTME: Login, refresh, registration, profile, and the verification flows

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// ErrUnverified marks a login that succeeded upstream but whose account has
// not confirmed its email. The caller routes it to the resend-verification
// flow instead of treating it as a failed password.
var ErrUnverified = errors.New("email not verified")

// Login authenticates against the backend. A success envelope carrying an
// unverified user is rejected here so no session is ever created for it.
func (c *APIClient) Login(ctx context.Context, req models.LoginRequest) (models.LoginData, error) {
	var data models.LoginData
	if err := c.call(ctx, http.MethodPost, "/auth/login", "", req, &data); err != nil {
		return models.LoginData{}, err
	}
	if !data.User.EmailVerified {
		return models.LoginData{}, fmt.Errorf("%w: %s", ErrUnverified, data.User.Email)
	}
	if data.Tokens.AccessToken == "" || data.Tokens.RefreshToken == "" {
		return models.LoginData{}, fmt.Errorf("login response missing tokens")
	}
	return data, nil
}

// RefreshToken exchanges a refresh token for a new pair. Satisfies
// session.RefreshClient; any error here is terminal for the session.
func (c *APIClient) RefreshToken(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var pair models.TokenPair
	if err := c.call(ctx, http.MethodPost, "/auth/refresh-token", "", body, &pair); err != nil {
		return models.TokenPair{}, err
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return models.TokenPair{}, fmt.Errorf("refresh response missing tokens")
	}
	return pair, nil
}

// Register creates a new account. The backend sends the verification email;
// the returned profile is unverified, so no session is created from it.
func (c *APIClient) Register(ctx context.Context, req models.RegisterRequest) (models.UserProfile, error) {
	var data models.LoginData
	if err := c.call(ctx, http.MethodPost, "/auth/register", "", req, &data); err != nil {
		return models.UserProfile{}, err
	}
	return data.User, nil
}

// UpdateProfile patches the caller's profile upstream and returns the updated
// record. Tokens never travel through this endpoint.
func (c *APIClient) UpdateProfile(ctx context.Context, token string, update models.ProfileUpdate) (models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.call(ctx, http.MethodPatch, "/auth/profile", token, update, &profile); err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}

// DeleteAccount permanently removes the caller's account upstream.
func (c *APIClient) DeleteAccount(ctx context.Context, token string) error {
	return c.call(ctx, http.MethodDelete, "/auth/account", token, nil, nil)
}

// RequestPasswordReset asks the backend to email a reset token.
func (c *APIClient) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.call(ctx, http.MethodPost, "/auth/reset-password-request", "", body, nil)
}

// ResetPassword completes a password reset with the emailed token.
func (c *APIClient) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	body := map[string]string{"token": resetToken, "password": newPassword}
	return c.call(ctx, http.MethodPost, "/auth/reset-password", "", body, nil)
}

// VerifyEmail confirms an account with the emailed verification code.
func (c *APIClient) VerifyEmail(ctx context.Context, code string) error {
	body := map[string]string{"code": code}
	return c.call(ctx, http.MethodPost, "/auth/verify-email", "", body, nil)
}

// ResendVerification asks the backend to resend the verification email.
func (c *APIClient) ResendVerification(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.call(ctx, http.MethodPost, "/auth/resend-verification", "", body, nil)
}
