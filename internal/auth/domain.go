// Package auth implements the console's login, logout and token refresh
// flows against the backend, including the role gate that keeps ordinary
// user accounts out of the admin console.
package auth

import "encoding/json"

// Login type discriminators accepted by the backend.
const (
	LoginEmailPassword = "EMAIL_PASSWORD"
	LoginPhonePassword = "PHONE_PASSWORD"
	LoginEmailOTP      = "EMAIL_OTP"
)

// Credentials is the login request. Exactly one identifier (email or phone
// number) and one secret (password or OTP code) apply, selected by
// LoginType.
type Credentials struct {
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,e164"`
	Password    string `json:"password,omitempty"`
	OTPCode     string `json:"otpCode,omitempty"`
	LoginType   string `json:"loginType" validate:"required,oneof=EMAIL_PASSWORD PHONE_PASSWORD EMAIL_OTP"`
}

// loginResponse is the backend's authentication payload. The user claim is
// kept raw; the session layer owns its interpretation.
type loginResponse struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	User         json.RawMessage `json:"user"`
}
