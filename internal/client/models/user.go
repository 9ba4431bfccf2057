// Package models defines the data types exchanged with the portal backend:
// the authenticated user record, blog posts with their moderation status,
// comments, like state and notifications.
package models

// Profile is the nested profile record carried inside a User.
// Optional backend fields are pointers so "absent" survives round-trips.
type Profile struct {
	DisplayName   *string `json:"display_name"`
	PhoneNumber   *string `json:"phone_number"`
	Age           *int    `json:"age"`
	Country       *string `json:"country"`
	CountryCode   *string `json:"country_code"`
	Profession    *string `json:"profession"`
	ProfileImage  *string `json:"profile_image"`
	EmailVerified bool    `json:"email_verified"`
}

// User is the authenticated user record as returned by the identity
// endpoints. A nil *User means anonymous.
type User struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	IsStaff   bool    `json:"is_staff"`
	Profile   Profile `json:"profile"`
}

// DisplayName returns the profile display name if set, otherwise the
// username.
func (u *User) DisplayName() string {
	if u.Profile.DisplayName != nil && *u.Profile.DisplayName != "" {
		return *u.Profile.DisplayName
	}
	return u.Username
}
