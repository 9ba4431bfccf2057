// Package services contains application services for the portal client.
// This file defines the authentication service: the session refresh, the
// sign-up/sign-in/OTP flows, password reset and profile updates.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/technoheaven/portal-client/internal/client/api"
	"github.com/technoheaven/portal-client/internal/client/session"
	"github.com/technoheaven/portal-client/internal/common"
	"github.com/technoheaven/portal-client/internal/logging"
)

// LoginResult reports the outcome of a credential check. When
// RequiresVerification is set no user was established; the caller must
// route to the OTP flow with the submitted email.
type LoginResult struct {
	RequiresVerification bool
	Detail               string
}

// AuthService defines the authentication operations for the client.
//
// Contract:
//   - Refresh: resolve the session from the server cookie; 401/403 means
//     anonymous, transient failures fall back to the cached state.
//   - Login/VerifyOTP: establish the session on success.
//   - ResendOTP, RequestPasswordReset, ResetPassword: never touch the session.
//   - Logout: best-effort server call, then unconditionally anonymous.
//   - UpdateProfile: replace the live user in place on success.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Refresh(ctx context.Context) error
	Register(ctx context.Context, p api.RegisterPayload) (*api.RegisterResponse, error)
	Login(ctx context.Context, identifier string, password []byte) (*LoginResult, error)
	VerifyOTP(ctx context.Context, email, code string) error
	ResendOTP(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code string, newPassword, confirmPassword []byte) error
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, p api.ProfileUpdatePayload) error
	GoogleLoginURL(redirectPath string) (string, error)
}

// authService is the concrete AuthService backed by the REST client and
// the session store.
type authService struct {
	api             *api.Client
	store           *session.Store
	log             logging.Logger
	identityTimeout time.Duration
	googleLoginURL  string
	frontendOrigin  string
}

// AuthOptions carries the construction parameters that are not
// collaborators.
type AuthOptions struct {
	IdentityTimeout time.Duration
	GoogleLoginURL  string
	FrontendOrigin  string
}

// NewAuthService constructs an AuthService bound to the given API client
// and session store.
func NewAuthService(client *api.Client, store *session.Store, log logging.Logger, opts AuthOptions) AuthService {
	if opts.IdentityTimeout <= 0 {
		opts.IdentityTimeout = 15 * time.Second
	}
	return &authService{
		api:             client,
		store:           store,
		log:             log.With("component", "auth"),
		identityTimeout: opts.IdentityTimeout,
		googleLoginURL:  opts.GoogleLoginURL,
		frontendOrigin:  opts.FrontendOrigin,
	}
}

// Refresh resolves the session using the existing server cookie. CSRF
// priming is best-effort and its failures are swallowed. A 401/403 from the
// profile fetch deterministically logs out and clears the cache; transient
// failures keep the last-known state so a flaky connection does not bounce
// the user to sign-in.
func (a *authService) Refresh(ctx context.Context) error {
	token := a.store.BeginIdentityCheck(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, a.identityTimeout)
	defer cancel()

	if err := a.api.EnsureCSRF(checkCtx); err != nil {
		a.log.Debug(ctx, "csrf priming failed", "error", err)
	}

	resp, err := a.api.Profile(checkCtx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			a.store.CompleteAnonymous(ctx, token)
			return nil
		}
		a.store.CompleteDegraded(ctx, token)
		return err
	}
	if resp.User == nil {
		a.store.CompleteAnonymous(ctx, token)
		return nil
	}

	a.store.CompleteAuthenticated(ctx, token, resp.User)
	return nil
}

// Register validates the form client-side and creates the account. The
// session is untouched; the backend requires OTP verification first.
func (a *authService) Register(ctx context.Context, p api.RegisterPayload) (*api.RegisterResponse, error) {
	if p.Email == "" || p.Username == "" {
		return nil, common.ErrorValidation
	}
	if p.Password != p.ConfirmPassword {
		return nil, common.ErrorPasswordMismatch
	}
	return a.api.Register(ctx, p)
}

// Login authenticates with a username or email. On success the session is
// replaced; a verification-required response leaves it anonymous and the
// caller routes to the OTP flow.
func (a *authService) Login(ctx context.Context, identifier string, password []byte) (*LoginResult, error) {
	payload := api.LoginPayload{Password: string(password)}
	if strings.Contains(identifier, "@") {
		payload.Email = identifier
	} else {
		payload.Username = identifier
	}

	resp, err := a.api.Login(ctx, payload)
	if err != nil {
		return nil, err
	}

	if resp.RequiresVerification {
		return &LoginResult{RequiresVerification: true, Detail: resp.Detail}, nil
	}
	if resp.User == nil {
		return nil, common.ErrorValidation
	}

	a.store.ReplaceUser(ctx, resp.User)
	return &LoginResult{Detail: resp.Detail}, nil
}

func validOTP(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// VerifyOTP confirms the emailed code and establishes the session.
func (a *authService) VerifyOTP(ctx context.Context, email, code string) error {
	if !validOTP(code) {
		return common.ErrorInvalidOTPFormat
	}

	resp, err := a.api.VerifyOTP(ctx, api.VerifyOTPPayload{Email: email, OTPCode: code})
	if err != nil {
		return err
	}
	if resp.User == nil {
		return common.ErrorValidation
	}

	a.store.ReplaceUser(ctx, resp.User)
	return nil
}

func (a *authService) ResendOTP(ctx context.Context, email string) error {
	_, err := a.api.ResendOTP(ctx, api.ResendOTPPayload{Email: email})
	return err
}

func (a *authService) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return common.ErrorValidation
	}
	_, err := a.api.RequestPasswordReset(ctx, api.PasswordResetRequestPayload{Email: email})
	return err
}

// ResetPassword submits the reset code with the new password. The user
// signs in afterwards; the session is never set here.
func (a *authService) ResetPassword(ctx context.Context, email, code string, newPassword, confirmPassword []byte) error {
	if !validOTP(code) {
		return common.ErrorInvalidOTPFormat
	}
	if string(newPassword) != string(confirmPassword) {
		return common.ErrorPasswordMismatch
	}
	_, err := a.api.ResetPassword(ctx, api.PasswordResetConfirmPayload{
		Email:           email,
		OTPCode:         code,
		NewPassword:     string(newPassword),
		ConfirmPassword: string(confirmPassword),
	})
	return err
}

// Logout honors the user's intent unconditionally: the server call is
// best-effort and its errors are swallowed, then the local session, the
// anti-forgery token and the cache are cleared.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		a.log.Warn(ctx, "server logout failed, clearing local session anyway", "error", err)
	}
	a.api.ClearCSRFToken()
	a.store.ForceAnonymous(ctx)
	return nil
}

// UpdateProfile patches the profile and replaces the live user record with
// the server's version.
func (a *authService) UpdateProfile(ctx context.Context, p api.ProfileUpdatePayload) error {
	snap := a.store.Snapshot()
	if !snap.IsAuthenticated() {
		return common.ErrorNotAuthenticated
	}

	resp, err := a.api.UpdateProfile(ctx, p)
	if err != nil {
		return err
	}
	if resp.User == nil {
		return common.ErrorValidation
	}

	a.store.ReplaceUser(ctx, resp.User)
	return nil
}

// GoogleLoginURL builds the third-party sign-in redirect.
func (a *authService) GoogleLoginURL(redirectPath string) (string, error) {
	return api.GoogleAuthURL(a.googleLoginURL, a.frontendOrigin, redirectPath)
}
