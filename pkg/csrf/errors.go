package csrf

import "errors"

var (
	ErrMissingToken     = errors.New("csrf.missing_token")
	ErrMissingCookie    = errors.New("csrf.missing_cookie")
	ErrTokenMismatch    = errors.New("csrf.token_mismatch")
	ErrCrossOriginForm  = errors.New("csrf.cross_origin_form_submission")
	ErrRegistrationFail = errors.New("csrf.registration_failed")
)
