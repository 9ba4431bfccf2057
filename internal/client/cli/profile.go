package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/technoheaven/portal-client/internal/client/api"
	"github.com/technoheaven/portal-client/internal/client/guard"
	"github.com/technoheaven/portal-client/internal/common"
)

// Whoami prints the signed-in user's record.
func (a *App) Whoami(ctx context.Context) error {
	if !a.guardView(guard.RoleAuthenticated, "/profile") {
		return nil
	}

	user := a.store.Snapshot().User
	printlnFn(fmt.Sprintf("%s <%s>", user.DisplayName(), user.Email))
	if user.FirstName != "" || user.LastName != "" {
		printlnFn("Name:", user.FirstName, user.LastName)
	}
	if user.Profile.Country != nil {
		printlnFn("Country:", *user.Profile.Country)
	}
	if user.Profile.Age != nil {
		printlnFn("Age:", strconv.Itoa(*user.Profile.Age))
	}
	if user.IsStaff {
		printlnFn("Role: staff")
	}
	return nil
}

// EditProfile walks through the editable profile fields. An empty answer
// keeps the current value; entering "-" clears an optional field.
func (a *App) EditProfile(ctx context.Context) error {
	if !a.guardView(guard.RoleAuthenticated, "/profile") {
		return nil
	}

	var payload api.ProfileUpdatePayload

	first, err := getSimpleText(a.reader, "First name (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	if first != "" {
		payload.FirstName = &first
	}

	last, err := getSimpleText(a.reader, "Last name (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	if last != "" {
		payload.LastName = &last
	}

	display, err := getSimpleText(a.reader, "Display name (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	if display != "" {
		payload.DisplayName = &display
	}

	country, err := getSimpleText(a.reader, "Country (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	if country != "" {
		payload.Country = &country
	}

	ageText, err := getSimpleText(a.reader, "Age (empty keeps current, '-' clears)", os.Stdout)
	if err != nil {
		return err
	}
	switch ageText {
	case "":
	case "-":
		payload.AgeSet = true
	default:
		age, err := strconv.Atoi(ageText)
		if err != nil {
			printlnFn("Age must be a number")
			return common.ErrorValidation
		}
		payload.Age = &age
		payload.AgeSet = true
	}

	if err := a.auth.UpdateProfile(ctx, payload); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Profile updated.")
	return nil
}
