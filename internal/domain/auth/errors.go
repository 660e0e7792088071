package auth

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrPasswordNotSet         = errors.New("password not set for this account")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrTokenExpired           = errors.New("token has expired")
	ErrRefreshTokenRevoked    = errors.New("refresh token has been revoked")
	ErrEmailNotRegistered     = errors.New("email is not registered")
	ErrInvalidOTP             = errors.New("invalid OTP")
	ErrOTPNotFound            = errors.New("OTP not found")
	ErrOTPExpired             = errors.New("OTP has expired")
	ErrGoogleEmailNotVerified = errors.New("google account email is not verified")
	ErrInvalidOAuthState      = errors.New("invalid oauth state")
)
