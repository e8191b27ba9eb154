package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// TokenPair is the payload returned by login and refresh.
//
// ExpiresIn is in seconds; zero means the server did not send an expiry.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	Username     string
	Role         string
}

func (t *TokenPair) UnmarshalJSON(b []byte) error {
	var raw struct {
		AccessSnake   string          `json:"access_token"`
		AccessCamel   string          `json:"accessToken"`
		AccessSpaced  string          `json:"access token"`
		RefreshSnake  string          `json:"refresh_token"`
		RefreshCamel  string          `json:"refreshToken"`
		RefreshSpaced string          `json:"refresh token"`
		ExpiresSnake  json.RawMessage `json:"expires_in"`
		ExpiresCamel  json.RawMessage `json:"expiresIn"`
		Username      string          `json:"username"`
		Role          string          `json:"role"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	expires, err := seconds(raw.ExpiresSnake)
	if err != nil {
		return fmt.Errorf("expires_in: %w", err)
	}
	if expires == 0 {
		if expires, err = seconds(raw.ExpiresCamel); err != nil {
			return fmt.Errorf("expiresIn: %w", err)
		}
	}

	*t = TokenPair{
		AccessToken:  firstNonEmpty(raw.AccessSnake, raw.AccessCamel, raw.AccessSpaced),
		RefreshToken: firstNonEmpty(raw.RefreshSnake, raw.RefreshCamel, raw.RefreshSpaced),
		ExpiresIn:    expires,
		Username:     raw.Username,
		Role:         raw.Role,
	}
	return nil
}

// seconds reads an expiry sent as an integer, a float or a numeric string.
// Missing, null and empty values are zero; fractions are truncated.
func seconds(b json.RawMessage) (int64, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0, nil
	}

	text := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return 0, err
		}
		if text == "" {
			return 0, nil
		}
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %s", b)
	}
	return int64(f), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// PasswordLogin is the body of POST /auth/login.
type PasswordLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CodeLogin is the body of POST /auth/login-verification.
type CodeLogin struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verificationCode"`
}

// Signup is the body of POST /auth/signup.
type Signup struct {
	Username        string `json:"username"`
	DisplayName     string `json:"displayName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	EmailCode       string `json:"emailCode"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// FieldError is one entry of the validation error list the backend returns.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
