package auth

import (
	"strings"

	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors
	r.Email = normalizeEmail(r.Email)
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else {
		checkEmail(&errs, r.Email)
	}
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}
	return errs.Err()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.RefreshToken) {
		errs.Add("refresh_token", "refresh_token is required")
	}
	return errs.Err()
}

type VerifyPasswordRequest struct {
	EmpID    string `json:"-"`
	Password string `json:"password"`
}

func (r *VerifyPasswordRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}
	return errs.Err()
}

type ChangePasswordRequest struct {
	EmpID       string `json:"-"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.OldPassword) {
		errs.Add("old_password", "old_password is required")
	}
	checkNewPassword(&errs, r.NewPassword)
	return errs.Err()
}

type SendOTPRequest struct {
	Email string `json:"email"`
}

func (r *SendOTPRequest) Validate() error {
	var errs validator.ValidationErrors
	r.Email = normalizeEmail(r.Email)
	checkEmail(&errs, r.Email)
	return errs.Err()
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (r *VerifyOTPRequest) Validate() error {
	var errs validator.ValidationErrors
	r.Email, r.OTP = normalizeEmail(r.Email), strings.TrimSpace(r.OTP)
	checkEmail(&errs, r.Email)
	checkOTP(&errs, r.OTP)
	return errs.Err()
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

func (r *ResetPasswordRequest) Validate() error {
	var errs validator.ValidationErrors
	r.Email, r.OTP = normalizeEmail(r.Email), strings.TrimSpace(r.OTP)
	checkEmail(&errs, r.Email)
	checkOTP(&errs, r.OTP)
	checkNewPassword(&errs, r.NewPassword)
	return errs.Err()
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func checkEmail(errs *validator.ValidationErrors, email string) {
	if !validator.IsValidEmail(email) {
		errs.Add("email", "email must be a valid email address")
	}
}

func checkOTP(errs *validator.ValidationErrors, otp string) {
	if !validator.IsNumeric(otp) {
		errs.Add("otp", "otp must be numeric")
	}
}

func checkNewPassword(errs *validator.ValidationErrors, password string) {
	if validator.IsEmpty(password) {
		errs.Add("new_password", "new_password is required")
		return
	}
	if len(password) < 6 {
		errs.Add("new_password", "new_password must be at least 6 characters")
	}
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

type OTPSentResponse struct {
	Email     string `json:"email"`
	ExpiresIn int64  `json:"expires_in"`
}
