package fakeapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (s *Server) tokenAnswer(c echo.Context, email string) error {
	access, refresh := s.issueLocked(email)
	a := s.accounts[email]
	data := echo.Map{
		"access_token":  access,
		"refresh_token": refresh,
		"username":      a.Username,
		"role":          a.Role,
	}
	if s.ExpiresIn > 0 {
		data["expires_in"] = s.ExpiresIn
	}
	return ok(c, "Login successful", data)
}

func required(errs []models.FieldError, field, value string) []models.FieldError {
	if strings.TrimSpace(value) == "" {
		errs = append(errs, models.FieldError{Field: field, Message: field + " is required"})
	}
	return errs
}

func (s *Server) login(c echo.Context) error {
	var req models.PasswordLogin
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	var errs []models.FieldError
	errs = required(errs, "email", req.Email)
	errs = required(errs, "password", req.Password)
	if len(errs) > 0 {
		return invalid(c, errs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, found := s.accounts[req.Email]
	if !found || a.Password != req.Password {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}
	if !a.Verified {
		return fail(c, http.StatusUnauthorized, "Need to verify")
	}
	return s.tokenAnswer(c, req.Email)
}

func (s *Server) loginWithCode(c echo.Context) error {
	var req models.CodeLogin
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.accounts[req.Email]; !found {
		return fail(c, http.StatusUnauthorized, "Invalid email or code")
	}
	if code, sent := s.codes[req.Email]; !sent || code != req.VerificationCode {
		return fail(c, http.StatusUnauthorized, "Invalid email or code")
	}
	delete(s.codes, req.Email)
	s.accounts[req.Email].Verified = true
	return s.tokenAnswer(c, req.Email)
}

func (s *Server) sendCode(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = DefaultCode
}

func (s *Server) sendOTP(c echo.Context) error {
	var req struct {
		ToEmail string `json:"to_email"`
	}
	_ = c.Bind(&req)
	if q := c.QueryParam("to_email"); q != "" {
		req.ToEmail = q
	}
	if req.ToEmail == "" {
		return invalid(c, []models.FieldError{{Field: "to_email", Message: "Email is required"}})
	}
	s.sendCode(req.ToEmail)
	return ok(c, "Verification code sent", nil)
}

func (s *Server) sendVerificationCode(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return invalid(c, []models.FieldError{{Field: "email", Message: "Email is required"}})
	}
	s.mu.Lock()
	_, found := s.accounts[req.Email]
	s.mu.Unlock()
	if !found {
		return fail(c, http.StatusNotFound, "User not found")
	}
	s.sendCode(req.Email)
	return ok(c, "Verification code sent", nil)
}

func (s *Server) signup(c echo.Context) error {
	var req models.Signup
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	var errs []models.FieldError
	errs = required(errs, "username", req.Username)
	errs = required(errs, "email", req.Email)
	errs = required(errs, "password", req.Password)
	if req.Password != req.ConfirmPassword {
		errs = append(errs, models.FieldError{Field: "confirmPassword", Message: "Passwords do not match"})
	}
	if len(errs) > 0 {
		return invalid(c, errs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.accounts[req.Email]; taken {
		return fail(c, http.StatusConflict, "Email already exists")
	}
	if code, sent := s.codes[req.Email]; !sent || code != req.EmailCode {
		return invalid(c, []models.FieldError{{Field: "emailCode", Message: "Invalid verification code"}})
	}
	delete(s.codes, req.Email)

	now := time.Now().UTC()
	s.accounts[req.Email] = &Account{
		User: models.User{
			ID:        models.ID(uuid.NewString()),
			FullName:  req.DisplayName,
			Username:  req.Username,
			Email:     req.Email,
			Role:      "user",
			CreatedAt: now,
			UpdatedAt: now,
		},
		Password: req.Password,
		Verified: true,
	}
	return ok(c, "Registration successful", nil)
}

func (s *Server) validateOTP(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"otp_code"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if code, sent := s.codes[req.Email]; !sent || code != req.Code {
		return fail(c, http.StatusBadRequest, "Invalid or expired code")
	}
	return ok(c, "Code verified", nil)
}

func (s *Server) forgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	s.mu.Lock()
	_, found := s.accounts[req.Email]
	s.mu.Unlock()
	if !found {
		return fail(c, http.StatusNotFound, "User not found")
	}
	s.sendCode(req.Email)
	return ok(c, "Password reset code sent", nil)
}

func (s *Server) resetPassword(c echo.Context) error {
	var req struct {
		Email       string `json:"email"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, found := s.accounts[req.Email]
	if !found {
		return fail(c, http.StatusNotFound, "User not found")
	}
	if _, sent := s.codes[req.Email]; !sent {
		return fail(c, http.StatusBadRequest, "Code not verified")
	}
	delete(s.codes, req.Email)
	a.Password = req.NewPassword
	return ok(c, "Password reset successful", nil)
}

func (s *Server) refreshTokens(c echo.Context) error {
	s.RefreshCalls.Add(1)

	var req models.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if s.FailRefresh.Load() {
		return fail(c, http.StatusUnauthorized, "Invalid refresh token")
	}
	if s.OmitRefreshAccess.Load() {
		return ok(c, "Token refreshed", echo.Map{})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email, found := s.refresh[req.RefreshToken]
	if !found {
		return fail(c, http.StatusUnauthorized, "Invalid refresh token")
	}
	delete(s.refresh, req.RefreshToken)
	return s.tokenAnswer(c, email)
}

func (s *Server) logout(c echo.Context) error {
	token, _ := c.Get("token").(string)
	s.mu.Lock()
	delete(s.access, token)
	s.mu.Unlock()
	return ok(c, "Logged out", nil)
}
