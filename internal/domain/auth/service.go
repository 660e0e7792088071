package auth

import (
	"context"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	LoginWithGoogle(ctx context.Context, email string, verified bool, session SessionTrackingRequest) (TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Me(ctx context.Context, empID string) (employee.EmployeeResponse, error)

	VerifyPassword(ctx context.Context, req VerifyPasswordRequest) error
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	SendOTP(ctx context.Context, req SendOTPRequest) (OTPSentResponse, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}
