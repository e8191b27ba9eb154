// Package services contains the console's application services. Each one
// validates input with forms, calls the API through the matching client
// interface, and keeps whatever local state its screen needs.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/kbconsole/internal/client/client"
	"github.com/dmitrijs2005/kbconsole/internal/client/forms"
	"github.com/dmitrijs2005/kbconsole/internal/client/models"
	"github.com/dmitrijs2005/kbconsole/internal/client/session"
	"github.com/dmitrijs2005/kbconsole/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login / LoginWithCode: authenticate and persist a fresh session.
//   - Register: validate the signup form and create the account.
//   - Send*Code / ForgotPassword: ask the server to mail a one-time code.
//   - VerifyResetCode / ResetPassword: finish the password reset.
//   - Logout: end the session remotely when possible, always locally.
//
// Methods returning a string return the server's confirmation message.
type AuthService interface {
	Login(ctx context.Context, email, password string) (session.Session, error)
	LoginWithCode(ctx context.Context, email, code string) (session.Session, error)
	SendLoginCode(ctx context.Context, email string) (string, error)
	SendSignupCode(ctx context.Context, email string) (string, error)
	Register(ctx context.Context, form forms.Signup) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	VerifyResetCode(ctx context.Context, email, code string) (string, error)
	ResetPassword(ctx context.Context, email, newPassword string) (string, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (session.Session, error)
}

type authService struct {
	client client.AuthAPI
	store  session.Store
	log    logging.Logger
	now    func() time.Time
}

// NewAuthService constructs an AuthService bound to the given API client
// and session store.
func NewAuthService(c client.AuthAPI, store session.Store, log logging.Logger) AuthService {
	return &authService{client: c, store: store, log: log.With("service", "auth"), now: time.Now}
}

func (a *authService) Login(ctx context.Context, email, password string) (session.Session, error) {
	email = strings.TrimSpace(email)
	if err := forms.Validate(forms.Login{Email: email, Password: password}); err != nil {
		return session.Session{}, err
	}

	tp, err := a.client.Login(ctx, models.PasswordLogin{Email: email, Password: password})
	if err != nil {
		return session.Session{}, err
	}
	return a.startSession(ctx, tp, email)
}

func (a *authService) LoginWithCode(ctx context.Context, email, code string) (session.Session, error) {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if err := forms.Validate(forms.CodeLogin{Email: email, VerificationCode: code}); err != nil {
		return session.Session{}, err
	}

	tp, err := a.client.LoginWithCode(ctx, models.CodeLogin{Email: email, VerificationCode: code})
	if err != nil {
		return session.Session{}, err
	}
	return a.startSession(ctx, tp, email)
}

// startSession replaces whatever was stored with a session built from tp.
// Username and role fall back to the token claims, then to the email.
func (a *authService) startSession(ctx context.Context, tp models.TokenPair, email string) (session.Session, error) {
	if tp.AccessToken == "" {
		return session.Session{}, fmt.Errorf("login response has no access token")
	}

	if tp.Username == "" || tp.Role == "" {
		username, role, err := session.IdentityFromToken(tp.AccessToken)
		if err != nil {
			a.log.Debug(ctx, "access token carries no readable claims", "error", err)
		}
		if tp.Username == "" {
			tp.Username = username
		}
		if tp.Role == "" {
			tp.Role = role
		}
	}
	if tp.Username == "" {
		tp.Username = email
	}

	s := session.New(tp, a.now())
	if err := a.store.Set(ctx, s); err != nil {
		return session.Session{}, fmt.Errorf("save session: %w", err)
	}
	a.log.Info(ctx, "signed in", "username", s.Username, "role", s.Role)
	return s, nil
}

func (a *authService) SendLoginCode(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if err := forms.Validate(forms.Email{Email: email}); err != nil {
		return "", err
	}
	return a.client.SendVerificationCode(ctx, email)
}

func (a *authService) SendSignupCode(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if err := forms.Validate(forms.Email{Email: email}); err != nil {
		return "", err
	}
	return a.client.SendOTP(ctx, email)
}

func (a *authService) Register(ctx context.Context, f forms.Signup) (string, error) {
	f.Username = strings.TrimSpace(f.Username)
	f.DisplayName = strings.TrimSpace(f.DisplayName)
	f.Email = strings.TrimSpace(f.Email)
	f.EmailCode = strings.TrimSpace(f.EmailCode)
	if err := forms.Validate(f); err != nil {
		return "", err
	}

	return a.client.Signup(ctx, models.Signup{
		Username:        f.Username,
		DisplayName:     f.DisplayName,
		Email:           f.Email,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
		EmailCode:       f.EmailCode,
	})
}

func (a *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if err := forms.Validate(forms.Email{Email: email}); err != nil {
		return "", err
	}
	return a.client.ForgotPassword(ctx, email)
}

func (a *authService) VerifyResetCode(ctx context.Context, email, code string) (string, error) {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if err := forms.Validate(forms.ValidateOTP{Email: email, Code: code}); err != nil {
		return "", err
	}
	return a.client.ValidateOTP(ctx, email, code)
}

func (a *authService) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	email = strings.TrimSpace(email)
	if err := forms.Validate(forms.ResetPassword{Email: email, NewPassword: newPassword}); err != nil {
		return "", err
	}
	return a.client.ResetPassword(ctx, email, newPassword)
}

// Logout tells the server first and clears the local session regardless of
// the outcome.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn(ctx, "remote logout failed", "error", err)
	}
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	a.log.Info(ctx, "signed out")
	return nil
}

func (a *authService) CurrentSession(ctx context.Context) (session.Session, error) {
	return a.store.Get(ctx)
}
