package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/technoheaven/portal-client/internal/client/api"
	"github.com/technoheaven/portal-client/internal/common"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getConfirmation = GetConfirmation

// Register prompts for the sign-up form and creates an account. No session is
// established; the backend emails a verification code which the user confirms
// via the "verify" command.
//
// The password byte slices are securely wiped before returning.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	payload := api.RegisterPayload{
		Username:        username,
		Email:           email,
		Password:        string(password),
		ConfirmPassword: string(confirm),
	}

	payload.Country, err = getSimpleText(a.reader, "Enter country (optional)", os.Stdout)
	if err != nil {
		return err
	}
	ageText, err := getSimpleText(a.reader, "Enter age (optional)", os.Stdout)
	if err != nil {
		return err
	}
	if ageText != "" {
		age, err := strconv.Atoi(ageText)
		if err != nil {
			printlnFn("Age must be a number")
			return common.ErrorValidation
		}
		payload.Age = &age
	}

	resp, err := a.auth.Register(ctx, payload)
	if err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}

	printlnFn(resp.Detail)
	printlnFn("Check your inbox and run 'verify' to activate the account.")
	return nil
}

// Login prompts for credentials and authenticates. The identifier may be a
// username or an email address. When the backend answers that the email is
// not verified yet, the user is chained straight into the verification
// prompt instead of being left signed out without explanation.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter username or email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	result, err := a.auth.Login(ctx, identifier, password)
	if err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	if result.RequiresVerification {
		printlnFn(result.Detail)
		return a.verifyWith(ctx, identifier)
	}

	printlnFn("Signed in.")
	return nil
}

// VerifyEmail prompts for the email and the 6-digit code and confirms the
// account. An empty code requests a fresh one instead.
func (a *App) VerifyEmail(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	return a.verifyWith(ctx, email)
}

func (a *App) verifyWith(ctx context.Context, email string) error {
	code, err := getSimpleText(a.reader, "Enter the 6-digit code (leave empty to resend)", os.Stdout)
	if err != nil {
		return err
	}

	if code == "" {
		if err := a.auth.ResendOTP(ctx, email); err != nil {
			printlnFn("Could not resend the code:", err.Error())
			return err
		}
		printlnFn("A new code is on its way.")
		return nil
	}

	if err := a.auth.VerifyOTP(ctx, email, code); err != nil {
		printlnFn("Verification failed:", err.Error())
		return err
	}

	printlnFn("Email verified, you are signed in.")
	return nil
}

// GoogleLogin prints the third-party sign-in URL. The browser flow sets the
// session cookie; afterwards the session is picked up on the next refresh.
func (a *App) GoogleLogin(ctx context.Context) error {
	url, err := a.auth.GoogleLoginURL("/dashboard")
	if err != nil {
		printlnFn("Could not build the sign-in URL:", err.Error())
		return err
	}
	printlnFn("Open in your browser:", url)
	return nil
}

// ForgotPassword requests a password-reset code for the given email.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.auth.RequestPasswordReset(ctx, email); err != nil {
		printlnFn("Request failed:", err.Error())
		return err
	}
	printlnFn("If the address is registered, a reset code was sent.")
	return nil
}

// ResetPassword submits the emailed reset code with a new password. The user
// signs in with the new password afterwards.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	code, err := getSimpleText(a.reader, "Enter the 6-digit reset code", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("New password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat new password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if err := a.auth.ResetPassword(ctx, email, code, password, confirm); err != nil {
		printlnFn("Reset failed:", err.Error())
		return err
	}
	printlnFn("Password changed, you can sign in now.")
	return nil
}

// Logout ends the session. It succeeds locally even when the server cannot
// be reached.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Signed out.")
	return nil
}
