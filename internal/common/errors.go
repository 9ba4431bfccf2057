package common

import "errors"

var (

	// validation errors raised before any network call
	ErrorValidation = errors.New("validation error")

	ErrorPasswordMismatch     = errors.New("passwords do not match")
	ErrorInvalidOTPFormat     = errors.New("otp code must be 6 digits")
	ErrorEmptyComment         = errors.New("comment cannot be empty")
	ErrorEmptyRejectionReason = errors.New("rejection reason cannot be empty")

	// state machine errors
	ErrorInvalidTransition = errors.New("invalid status transition")
	ErrorStaffOnly         = errors.New("staff permission required")

	// session errors
	ErrorNotAuthenticated = errors.New("not authenticated")
)
