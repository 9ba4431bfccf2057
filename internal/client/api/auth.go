package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/technoheaven/portal-client/internal/client/models"
)

// ImageUpload is an in-memory file attached to a multipart request.
type ImageUpload struct {
	Filename string
	Content  []byte
}

// RegisterPayload is the sign-up form. Registration always goes out as
// multipart because it may carry a profile image.
type RegisterPayload struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	PhoneNumber     string
	Age             *int
	Country         string
	CountryCode     string
	Profession      string
	ProfileImage    *ImageUpload
}

// RegisterResponse carries the opaque verification handles the OTP flow
// needs.
type RegisterResponse struct {
	Detail string `json:"detail"`
	UIDB64 string `json:"uidb64"`
	Token  string `json:"token"`
}

type LoginPayload struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// LoginResponse either carries an authenticated user or the
// verification-required marker with opaque tokens; never both.
type LoginResponse struct {
	Detail               string       `json:"detail"`
	User                 *models.User `json:"user"`
	RequiresVerification bool         `json:"requires_verification"`
	UIDB64               string       `json:"uidb64,omitempty"`
	Token                string       `json:"token,omitempty"`
}

type VerifyOTPPayload struct {
	Email   string `json:"email,omitempty"`
	OTPCode string `json:"otp_code"`
}

type VerifyOTPResponse struct {
	Detail string       `json:"detail"`
	User   *models.User `json:"user"`
}

type ResendOTPPayload struct {
	Email string `json:"email,omitempty"`
}

type ResendOTPResponse struct {
	Detail string `json:"detail"`
	UIDB64 string `json:"uidb64,omitempty"`
	Token  string `json:"token,omitempty"`
}

type PasswordResetRequestPayload struct {
	Email string `json:"email"`
}

type PasswordResetConfirmPayload struct {
	Email           string `json:"email"`
	OTPCode         string `json:"otp_code"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

type ProfileResponse struct {
	User   *models.User `json:"user"`
	Detail string       `json:"detail,omitempty"`
}

// ProfileUpdatePayload is a partial update. Pointer fields distinguish
// "leave unchanged" (nil) from "set to this value"; a nil Age pointer inside
// a set AgeSet clears the field.
type ProfileUpdatePayload struct {
	FirstName          *string
	LastName           *string
	DisplayName        *string
	PhoneNumber        *string
	Age                *int
	AgeSet             bool
	Country            *string
	CountryCode        *string
	Profession         *string
	ProfileImage       *ImageUpload
	RemoveProfileImage *bool
}

// Register creates a new account. The backend replies with verification
// handles; no session is established until the OTP is verified.
func (c *Client) Register(ctx context.Context, p RegisterPayload) (*RegisterResponse, error) {
	form := &Form{}
	form.AddField("username", p.Username)
	form.AddField("email", p.Email)
	form.AddField("password", p.Password)
	form.AddField("confirm_password", p.ConfirmPassword)
	form.AddFieldIfSet("first_name", p.FirstName)
	form.AddFieldIfSet("last_name", p.LastName)
	form.AddFieldIfSet("phone_number", p.PhoneNumber)
	form.AddFieldIfSet("country", p.Country)
	form.AddFieldIfSet("country_code", p.CountryCode)
	form.AddFieldIfSet("profession", p.Profession)
	if p.Age != nil {
		form.AddField("age", strconv.Itoa(*p.Age))
	}
	if p.ProfileImage != nil {
		form.AddFile("profile_image", p.ProfileImage.Filename, p.ProfileImage.Content)
	}

	var resp RegisterResponse
	if err := c.sendForm(ctx, "POST", "auth/register/", form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates with username or email plus password.
func (c *Client) Login(ctx context.Context, p LoginPayload) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.sendJSON(ctx, "POST", "auth/login/", p, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyOTP confirms the emailed 6-digit code and completes sign-in.
func (c *Client) VerifyOTP(ctx context.Context, p VerifyOTPPayload) (*VerifyOTPResponse, error) {
	var resp VerifyOTPResponse
	if err := c.sendJSON(ctx, "POST", "auth/verify-otp/", p, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResendOTP requests a fresh verification code.
func (c *Client) ResendOTP(ctx context.Context, p ResendOTPPayload) (*ResendOTPResponse, error) {
	var resp ResendOTPResponse
	if err := c.sendJSON(ctx, "POST", "auth/resend-otp/", p, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestPasswordReset asks the backend to email a reset code. The session
// is never touched by the reset flows.
func (c *Client) RequestPasswordReset(ctx context.Context, p PasswordResetRequestPayload) (*DetailResponse, error) {
	var resp DetailResponse
	if err := c.sendJSON(ctx, "POST", "auth/forgot-password/", p, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetPassword submits the reset code with the new password.
func (c *Client) ResetPassword(ctx context.Context, p PasswordResetConfirmPayload) (*DetailResponse, error) {
	var resp DetailResponse
	if err := c.sendJSON(ctx, "POST", "auth/reset-password/", p, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout ends the server-side session. The request is mutating, so it still
// carries the stored anti-forgery token; the token is dropped only once the
// server has answered.
func (c *Client) Logout(ctx context.Context) error {
	err := c.sendJSON(ctx, "POST", "auth/logout/", nil, nil)
	c.ClearCSRFToken()
	return err
}

// Profile fetches the authenticated user. A 401/403 means anonymous.
func (c *Client) Profile(ctx context.Context) (*ProfileResponse, error) {
	var resp ProfileResponse
	if err := c.getJSON(ctx, "auth/profile/", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EnsureCSRF primes the anti-forgery token via the status endpoint. It is
// idempotent and best-effort; callers typically swallow the error.
func (c *Client) EnsureCSRF(ctx context.Context) error {
	return c.getJSON(ctx, "auth/status/", nil)
}

// UpdateProfile patches the profile. Text-only updates go as JSON; when an
// image is attached (or removed) the request switches to multipart. The
// anti-forgery token is primed best-effort first, so a profile save as the
// first action after a restart still carries the header.
func (c *Client) UpdateProfile(ctx context.Context, p ProfileUpdatePayload) (*ProfileResponse, error) {
	if err := c.EnsureCSRF(ctx); err != nil {
		c.log.Debug(ctx, "csrf priming failed", "error", err)
	}

	var resp ProfileResponse

	if p.ProfileImage == nil {
		body := map[string]any{}
		setString := func(key string, v *string) {
			if v != nil {
				body[key] = *v
			}
		}
		setString("first_name", p.FirstName)
		setString("last_name", p.LastName)
		setString("display_name", p.DisplayName)
		setString("phone_number", p.PhoneNumber)
		setString("country", p.Country)
		setString("country_code", p.CountryCode)
		setString("profession", p.Profession)
		if p.AgeSet {
			if p.Age != nil {
				body["age"] = *p.Age
			} else {
				body["age"] = nil
			}
		}
		if p.RemoveProfileImage != nil {
			body["remove_profile_image"] = *p.RemoveProfileImage
		}

		if err := c.sendJSON(ctx, "PATCH", "auth/profile/", body, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	}

	form := &Form{}
	addString := func(key string, v *string) {
		if v != nil {
			form.AddField(key, *v)
		}
	}
	addString("first_name", p.FirstName)
	addString("last_name", p.LastName)
	addString("display_name", p.DisplayName)
	addString("phone_number", p.PhoneNumber)
	addString("country", p.Country)
	addString("country_code", p.CountryCode)
	addString("profession", p.Profession)
	if p.AgeSet {
		if p.Age != nil {
			form.AddField("age", strconv.Itoa(*p.Age))
		} else {
			form.AddField("age", "")
		}
	}
	form.AddFile("profile_image", p.ProfileImage.Filename, p.ProfileImage.Content)
	if p.RemoveProfileImage != nil {
		form.AddField("remove_profile_image", strconv.FormatBool(*p.RemoveProfileImage))
	}

	if err := c.sendForm(ctx, "PATCH", "auth/profile/", form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GoogleAuthURL builds the redirect URL to the external identity provider's
// login entry point, embedding the post-login return path. No token exchange
// happens client-side; the flow completes via a server-set cookie after the
// redirect back.
func GoogleAuthURL(loginBase, frontendOrigin, redirectPath string) (string, error) {
	u, err := url.Parse(loginBase)
	if err != nil {
		return "", fmt.Errorf("invalid login url: %w", err)
	}

	// Upgrade an accidental callback endpoint to the login entry point.
	if strings.HasSuffix(u.Path, "/login/callback") || strings.HasSuffix(u.Path, "/login/callback/") {
		u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), "callback")
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	q := u.Query()
	q.Set("process", "login")
	if redirectPath != "" {
		origin, err := url.Parse(frontendOrigin)
		if err != nil {
			return "", fmt.Errorf("invalid frontend origin: %w", err)
		}
		ref, err := url.Parse(redirectPath)
		if err != nil {
			return "", fmt.Errorf("invalid redirect path: %w", err)
		}
		q.Set("next", origin.ResolveReference(ref).String())
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
