package authsdk

import "errors"

var (
	ErrNoSession       = errors.New("authsdk.no_session")
	ErrInvalidToken    = errors.New("authsdk.invalid_token")
	ErrInvalidCode     = errors.New("authsdk.invalid_code")
	ErrOtpVerification = errors.New("authsdk.otp_verification_failed")
)
