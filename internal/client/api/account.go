package api

import "context"

// Account covers the e-mail verification and password endpoints under
// /auth that go through the retrying path.
type Account struct{ c *Client }

func (a Account) SendOTP(ctx context.Context, email string) error {
	body := struct {
		Email string `json:"email"`
	}{email}
	return a.c.Post(ctx, "/auth/send-otp", body, nil)
}

func (a Account) VerifyEmail(ctx context.Context, email, otp string) error {
	body := struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}{email, otp}
	return a.c.Post(ctx, "/auth/verify-email", body, nil)
}

func (a Account) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	body := struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"newPassword"`
	}{email, otp, newPassword}
	return a.c.Post(ctx, "/auth/reset-password", body, nil)
}

func (a Account) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}{currentPassword, newPassword}
	return a.c.Post(ctx, "/auth/change-password", body, nil)
}
