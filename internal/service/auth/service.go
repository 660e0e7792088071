package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/config"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/auth"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/email"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	db        database.Transactor
	employees employee.EmployeeRepository
	tokens    auth.RefreshTokenRepository
	jwt       jwt.Service
	otps      auth.OTPStore
	mail      email.EmailService
	otpLength int
	otpTTL    time.Duration
	now       func() time.Time
}

var _ auth.AuthService = (*AuthServiceImpl)(nil)

func NewAuthService(
	db database.Transactor,
	employeeRepo employee.EmployeeRepository,
	tokenRepo auth.RefreshTokenRepository,
	jwtService jwt.Service,
	otpStore auth.OTPStore,
	mail email.EmailService,
	otpCfg config.OTPConfig,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		db:        db,
		employees: employeeRepo,
		tokens:    tokenRepo,
		jwt:       jwtService,
		otps:      otpStore,
		mail:      mail,
		otpLength: otpCfg.Length,
		otpTTL:    otpCfg.TTL,
		now:       time.Now,
	}
}

// HashPassword hashes with bcrypt's default cost (10).
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(e employee.Employee, password string) error {
	if e.PasswordHash == nil || *e.PasswordHash == "" {
		return auth.ErrPasswordNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*e.PasswordHash), []byte(password)); err != nil {
		return auth.ErrInvalidCredentials
	}
	return nil
}

// activeByEmail hides unknown, deleted and inactive accounts behind the same error.
func (a *AuthServiceImpl) activeByEmail(ctx context.Context, email string) (employee.Employee, error) {
	e, err := a.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, auth.ErrInvalidCredentials
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by email: %w", err)
	}
	if e.Deleted() || !e.IsActive {
		return employee.Employee{}, auth.ErrInvalidCredentials
	}
	return e, nil
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, e employee.Employee, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse
	err := a.db.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.jwt.GenerateAccessToken(jwt.Claims{
			EmpID: e.EmpID,
			Email: e.Email,
			Role:  string(e.AccessLevel),
		})
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.jwt.GenerateRefreshToken(e.EmpID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		if err := a.tokens.CreateRefreshToken(ctx, e.EmpID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, session); err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return tokenResponse, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	e, err := a.activeByEmail(ctx, req.Email)
	if err != nil {
		return auth.TokenResponse{}, err
	}
	if err := checkPassword(e, req.Password); err != nil {
		return auth.TokenResponse{}, err
	}
	return a.issueTokens(ctx, e, session)
}

// LoginWithGoogle implements auth.AuthService. The Google account is matched to an
// existing employee by email; no account is created.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, email string, verified bool, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if !verified {
		return auth.TokenResponse{}, auth.ErrGoogleEmailNotVerified
	}
	e, err := a.activeByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return a.issueTokens(ctx, e, session)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	return a.db.WithTransaction(ctx, func(ctx context.Context) error {
		_, revoked, err := a.tokens.IsRefreshTokenRevoked(ctx, token)
		if err != nil {
			return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
		}
		if revoked {
			return nil
		}
		if err := a.tokens.RevokeRefreshToken(ctx, token); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
		return nil
	})
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	subject, err := a.jwt.ParseRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	empID, revoked, err := a.tokens.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}
	if empID != subject {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	e, err := a.employees.GetByEmpID(ctx, empID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, err
	}
	if e.Deleted() || !e.IsActive {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.jwt.GenerateAccessToken(jwt.Claims{
		EmpID: e.EmpID,
		Email: e.Email,
		Role:  string(e.AccessLevel),
	})
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return resp, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, empID string) (employee.EmployeeResponse, error) {
	e, err := a.employees.GetByEmpID(ctx, empID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

// VerifyPassword implements auth.AuthService.
func (a *AuthServiceImpl) VerifyPassword(ctx context.Context, req auth.VerifyPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	e, err := a.employees.GetByEmpID(ctx, req.EmpID)
	if err != nil {
		return err
	}
	return checkPassword(e, req.Password)
}

// ChangePassword implements auth.AuthService.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, req auth.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	e, err := a.employees.GetByEmpID(ctx, req.EmpID)
	if err != nil {
		return err
	}
	if err := checkPassword(e, req.OldPassword); err != nil {
		return err
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return a.employees.UpdatePassword(ctx, e.EmpID, hash)
}

// generateOTP returns length random decimal digits.
func generateOTP(length int) (string, error) {
	var b strings.Builder
	ten := big.NewInt(10)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// SendOTP implements auth.AuthService.
func (a *AuthServiceImpl) SendOTP(ctx context.Context, req auth.SendOTPRequest) (auth.OTPSentResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.OTPSentResponse{}, err
	}

	e, err := a.employees.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.OTPSentResponse{}, auth.ErrEmailNotRegistered
		}
		return auth.OTPSentResponse{}, err
	}
	if e.Deleted() {
		return auth.OTPSentResponse{}, auth.ErrEmailNotRegistered
	}

	code, err := generateOTP(a.otpLength)
	if err != nil {
		return auth.OTPSentResponse{}, fmt.Errorf("failed to generate otp: %w", err)
	}
	entry := auth.OTPEntry{Code: code, ExpiresAt: a.now().Add(a.otpTTL)}
	if err := a.otps.Save(ctx, req.Email, entry); err != nil {
		return auth.OTPSentResponse{}, err
	}
	if err := a.mail.SendPasswordOTP(e.Email, code, a.otpTTL); err != nil {
		return auth.OTPSentResponse{}, fmt.Errorf("failed to send otp: %w", err)
	}

	return auth.OTPSentResponse{Email: req.Email, ExpiresIn: int64(a.otpTTL / time.Second)}, nil
}

// checkOTP reports ErrInvalidOTP for unknown or mismatched codes and ErrOTPExpired
// once the code is past its expiry.
func (a *AuthServiceImpl) checkOTP(ctx context.Context, email, code string) error {
	entry, err := a.otps.Get(ctx, email)
	if err != nil {
		if errors.Is(err, auth.ErrOTPNotFound) {
			return auth.ErrInvalidOTP
		}
		return err
	}
	if subtle.ConstantTimeCompare([]byte(entry.Code), []byte(code)) != 1 {
		return auth.ErrInvalidOTP
	}
	if entry.Expired(a.now()) {
		return auth.ErrOTPExpired
	}
	return nil
}

// VerifyOTP implements auth.AuthService.
func (a *AuthServiceImpl) VerifyOTP(ctx context.Context, req auth.VerifyOTPRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return a.checkOTP(ctx, req.Email, req.OTP)
}

// ResetPassword implements auth.AuthService. A successful reset consumes the code.
func (a *AuthServiceImpl) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := a.checkOTP(ctx, req.Email, req.OTP); err != nil {
		return err
	}

	e, err := a.employees.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.ErrEmailNotRegistered
		}
		return err
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := a.employees.UpdatePassword(ctx, e.EmpID, hash); err != nil {
		return err
	}
	return a.otps.Delete(ctx, req.Email)
}
