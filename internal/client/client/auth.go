package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
)

func (c *HTTPClient) Login(ctx context.Context, req models.PasswordLogin) (models.TokenPair, error) {
	var tp models.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &tp); err != nil {
		return models.TokenPair{}, err
	}
	return tp, nil
}

func (c *HTTPClient) LoginWithCode(ctx context.Context, req models.CodeLogin) (models.TokenPair, error) {
	var tp models.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/login-verification", nil, req, &tp); err != nil {
		return models.TokenPair{}, err
	}
	return tp, nil
}

// Signup creates an account and returns the server's confirmation message.
func (c *HTTPClient) Signup(ctx context.Context, req models.Signup) (string, error) {
	return c.message(ctx, http.MethodPost, "/auth/signup", nil, req)
}

// SendOTP mails a one-time code, used by signup and password reset.
func (c *HTTPClient) SendOTP(ctx context.Context, email string) (string, error) {
	q := url.Values{"to_email": {email}}
	return c.message(ctx, http.MethodPost, "/auth/send_otp", q, map[string]string{"to_email": email})
}

// SendVerificationCode mails a login code.
func (c *HTTPClient) SendVerificationCode(ctx context.Context, email string) (string, error) {
	return c.message(ctx, http.MethodPost, "/auth/send-verification-code", nil, map[string]string{"email": email})
}

func (c *HTTPClient) ValidateOTP(ctx context.Context, email, code string) (string, error) {
	body := map[string]string{"email": email, "otp_code": code}
	return c.message(ctx, http.MethodPost, "/auth/validate-otp", nil, body)
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.message(ctx, http.MethodPost, "/auth/forgotpassword", nil, map[string]string{"email": email})
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	body := map[string]string{"email": email, "new_password": newPassword}
	return c.message(ctx, http.MethodPost, "/auth/reset-password", nil, body)
}

// Refresh exchanges refreshToken for a new token pair. It bypasses the
// Authenticator, which calls it.
func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	b, err := json.Marshal(models.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("encode request: %w", err)
	}

	var tp models.TokenPair
	err = c.send(ctx, c.raw, http.MethodPost, c.endpoint("/auth/refresh", nil), "application/json", bytes.NewReader(b), &tp)
	if err != nil {
		return models.TokenPair{}, err
	}
	return tp, nil
}

// Logout tells the server to end the session. It does not touch the local
// session.
func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, struct{}{}, nil)
}

func (c *HTTPClient) message(ctx context.Context, method, path string, query url.Values, in any) (string, error) {
	var m messageOut
	if err := c.do(ctx, method, path, query, in, &m); err != nil {
		return "", err
	}
	return m.text, nil
}
