package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/kbconsole/internal/client/client"
	"github.com/dmitrijs2005/kbconsole/internal/client/forms"
	"github.com/dmitrijs2005/kbconsole/internal/client/session"
)

// getSimpleText, getPassword and getMultiline are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

func (a *App) password(prompt string) (string, error) {
	pw, err := getPassword(prompt, a.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// Register asks for an email, has a confirmation code mailed to it and then
// collects the rest of the signup form. The account still has to sign in
// afterwards.
func (a *App) Register(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, "Enter email")
	if err != nil {
		return err
	}
	msg, err := a.authService.SendSignupCode(ctx, email)
	if err != nil {
		return err
	}
	a.printf("%s\n", msg)

	f := forms.Signup{Email: email}
	if f.EmailCode, err = getSimpleText(a.reader, "Enter the code from the email", a.out); err != nil {
		return err
	}
	if f.Username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
		return err
	}
	if f.DisplayName, err = getSimpleText(a.reader, "Enter display name", a.out); err != nil {
		return err
	}
	if f.Password, err = a.password("Enter password"); err != nil {
		return err
	}
	if f.ConfirmPassword, err = a.password("Confirm password"); err != nil {
		return err
	}

	msg, err = a.authService.Register(ctx, f)
	if err != nil {
		return err
	}
	a.printf("%s\nYou can log in now.\n", msg)
	return nil
}

// Login signs in with email and password.
func (a *App) Login(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, "Enter email")
	if err != nil {
		return err
	}
	password, err := a.password("Enter password")
	if err != nil {
		return err
	}

	sess, err := a.authService.Login(ctx, email, password)
	if err != nil {
		a.log.Info(ctx, "login unsuccessful", "email", email, "error", err)
		return err
	}
	a.welcome(ctx, sess)
	return nil
}

// LoginWithCode signs in with a one-time code mailed to the account. It also
// verifies accounts whose password login is refused with "Need to verify".
func (a *App) LoginWithCode(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, "Enter email")
	if err != nil {
		return err
	}
	msg, err := a.authService.SendLoginCode(ctx, email)
	if err != nil {
		return err
	}
	a.printf("%s\n", msg)

	code, err := getSimpleText(a.reader, "Enter the code from the email", a.out)
	if err != nil {
		return err
	}
	sess, err := a.authService.LoginWithCode(ctx, email, code)
	if err != nil {
		a.log.Info(ctx, "code login unsuccessful", "email", email, "error", err)
		return err
	}
	a.welcome(ctx, sess)
	return nil
}

func (a *App) welcome(ctx context.Context, sess session.Session) {
	a.resetState()
	a.setSession(sess)
	a.log.Info(ctx, "login successful", "username", sess.Username)
	a.printf("Welcome, %s!\n", sess.Username)
}

// ForgotPassword walks through the three reset steps: request a code,
// verify it, set the new password.
func (a *App) ForgotPassword(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, "Enter email")
	if err != nil {
		return err
	}
	msg, err := a.authService.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	a.printf("%s\n", msg)

	code, err := getSimpleText(a.reader, "Enter the code from the email", a.out)
	if err != nil {
		return err
	}
	if msg, err = a.authService.VerifyResetCode(ctx, email, code); err != nil {
		return err
	}
	a.printf("%s\n", msg)

	pw, err := a.password("Enter new password")
	if err != nil {
		return err
	}
	confirm, err := a.password("Confirm new password")
	if err != nil {
		return err
	}
	if pw != confirm {
		ve := client.NewValidationError("Please fix the highlighted fields")
		ve.Add("confirm_password", "Passwords do not match")
		return ve
	}

	if msg, err = a.authService.ResetPassword(ctx, email, pw); err != nil {
		return err
	}
	a.printf("%s\nYou can log in with the new password now.\n", msg)
	return nil
}

// Logout ends the session. The local session is dropped even when the
// server cannot be reached.
func (a *App) Logout(ctx context.Context, args []string) error {
	err := a.authService.Logout(ctx)
	a.resetState()
	if err != nil {
		return err
	}
	a.printf("Logged out.\n")
	return nil
}

// WhoAmI prints the signed-in identity and when the access token expires.
func (a *App) WhoAmI(ctx context.Context, args []string) error {
	sess, err := a.authService.CurrentSession(ctx)
	if err != nil {
		return err
	}
	a.printf("User:    %s\nRole:    %s\n", sess.Username, sess.Role)
	if sess.HasExpiry() {
		a.printf("Expires: %s\n", sess.ExpiresAt.Local().Format(time.DateTime))
	}
	if kb, err := a.selectedKB(); err == nil {
		a.printf("Using:   %s\n", kb)
	}
	return nil
}
