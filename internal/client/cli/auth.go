package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/travelmate/internal/common"
)

// Register prompts for name, email and password and creates an account.
// On success the new user is signed in. The password byte slice is wiped
// before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.state.Register(ctx, name, email, string(password)); err != nil {
		return a.fail(ctx, "registration failed", err)
	}

	fmt.Fprintln(a.out, "Success! Check your inbox for a verification code (use 'verify').")
	return nil
}

// Login prompts for credentials and signs in. The password is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.state.Login(ctx, email, string(password)); err != nil {
		return a.fail(ctx, "login failed", err)
	}

	a.log.Info(ctx, "login successful")
	fmt.Fprintf(a.out, "Welcome, %s!\n", a.state.State().User.Name)
	return nil
}

// Logout ends the session. Local credentials are removed even when the
// service cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	if err := a.state.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout request failed, local session cleared", "error", err)
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Me reloads and shows the signed-in user's profile.
func (a *App) Me(ctx context.Context) error {
	if !a.protect(ctx, "/profile") {
		return nil
	}
	a.state.RefreshUser(ctx)

	st := a.state.State()
	if !st.SignedIn() {
		return nil
	}
	printUser(a.out, st.User)
	return nil
}

func (a *App) SendOTP(ctx context.Context) error {
	email, err := a.emailOrPrompt()
	if err != nil {
		return err
	}
	if err := a.api.Account.SendOTP(ctx, email); err != nil {
		return a.fail(ctx, "sending verification code failed", err)
	}
	fmt.Fprintf(a.out, "Verification code sent to %s\n", email)
	return nil
}

func (a *App) VerifyEmail(ctx context.Context) error {
	email, err := a.emailOrPrompt()
	if err != nil {
		return err
	}
	otp, err := getSimpleText(a.reader, "Enter verification code", a.out)
	if err != nil {
		return err
	}
	if err := a.api.Account.VerifyEmail(ctx, email, otp); err != nil {
		return a.fail(ctx, "email verification failed", err)
	}

	if a.isLoggedIn() {
		a.state.RefreshUser(ctx)
	}
	fmt.Fprintln(a.out, "Email verified.")
	return nil
}

func (a *App) ResetPassword(ctx context.Context) error {
	email, err := a.emailOrPrompt()
	if err != nil {
		return err
	}
	otp, err := getSimpleText(a.reader, "Enter verification code", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Account.ResetPassword(ctx, email, otp, string(password)); err != nil {
		return a.fail(ctx, "password reset failed", err)
	}
	fmt.Fprintln(a.out, "Password reset. You can log in now.")
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	current, err := getPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	if err := a.api.Account.ChangePassword(ctx, string(current), string(next)); err != nil {
		return a.fail(ctx, "password change failed", err)
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}

// emailOrPrompt returns the signed-in user's email, or asks for one.
func (a *App) emailOrPrompt() (string, error) {
	if st := a.state.State(); st.SignedIn() && st.User.Email != "" {
		return st.User.Email, nil
	}
	return getSimpleText(a.reader, "Enter email", a.out)
}
