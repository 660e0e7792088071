package auth

import (
	"context"
	"testing"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/config"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/auth"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/cache"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/email"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEmployees struct {
	employee.EmployeeRepository
	byID map[string]employee.Employee
}

func (f *fakeEmployees) GetByEmpID(_ context.Context, empID string) (employee.Employee, error) {
	e, ok := f.byID[empID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployees) GetByEmail(_ context.Context, email string) (employee.Employee, error) {
	for _, e := range f.byID {
		if e.Email == email {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployees) UpdatePassword(_ context.Context, empID string, hash string) error {
	e := f.byID[empID]
	e.PasswordHash = &hash
	f.byID[empID] = e
	return nil
}

type storedToken struct {
	empID   string
	revoked bool
}

type fakeTokens struct {
	tokens map[string]*storedToken
}

func (f *fakeTokens) CreateRefreshToken(_ context.Context, empID, token string, _ int64, _ auth.SessionTrackingRequest) error {
	f.tokens[token] = &storedToken{empID: empID}
	return nil
}

func (f *fakeTokens) IsRefreshTokenRevoked(_ context.Context, token string) (string, bool, error) {
	t, ok := f.tokens[token]
	if !ok {
		return "", true, nil
	}
	return t.empID, t.revoked, nil
}

func (f *fakeTokens) RevokeRefreshToken(_ context.Context, token string) error {
	if t, ok := f.tokens[token]; ok {
		t.revoked = true
	}
	return nil
}

type otpMail struct {
	email.EmailService
	to, code string
}

func (m *otpMail) SendPasswordOTP(to, otp string, _ time.Duration) error {
	m.to, m.code = to, otp
	return nil
}

const ashaID = "dolluzcorp-2025-00001"

type authFixture struct {
	svc       *AuthServiceImpl
	employees *fakeEmployees
	tokens    *fakeTokens
	mail      *otpMail
	otps      *cache.MemoryOTPStore
	clock     time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)

	jwtService, err := jwt.NewJWTService("test-secret-key-for-jwt", "1h", "24h", false)
	require.NoError(t, err)

	f := &authFixture{
		employees: &fakeEmployees{byID: map[string]employee.Employee{
			ashaID: {EmpID: ashaID, FirstName: "Asha", Email: "asha@dolluzcorp.in", PasswordHash: &hashed, AccessLevel: employee.RoleUser, IsActive: true},
			"dolluzcorp-2025-00002": {EmpID: "dolluzcorp-2025-00002", Email: "nopass@dolluzcorp.in", AccessLevel: employee.RoleUser, IsActive: true},
			"dolluzcorp-2025-00003": {EmpID: "dolluzcorp-2025-00003", Email: "gone@dolluzcorp.in", PasswordHash: &hashed, AccessLevel: employee.RoleUser},
		}},
		tokens: &fakeTokens{tokens: map[string]*storedToken{}},
		mail:   &otpMail{},
		otps:   cache.NewMemoryOTPStore(),
		clock:  time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewAuthService(fakeTx{}, f.employees, f.tokens, jwtService, f.otps, f.mail, config.OTPConfig{Length: 6, TTL: 5 * time.Minute})
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tokens, err := f.svc.Login(ctx, auth.LoginRequest{Email: " Asha@DolluzCorp.in ", Password: "secret123"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Contains(t, f.tokens.tokens, tokens.RefreshToken)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "asha@dolluzcorp.in", Password: "wrong"}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "nobody@dolluzcorp.in", Password: "secret123"}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "gone@dolluzcorp.in", Password: "secret123"}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials, "inactive employees cannot sign in")

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "nopass@dolluzcorp.in", Password: "secret123"}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrPasswordNotSet)
}

func TestAuthService_LoginWithGoogle(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.LoginWithGoogle(ctx, "asha@dolluzcorp.in", false, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrGoogleEmailNotVerified)

	tokens, err := f.svc.LoginWithGoogle(ctx, "ASHA@dolluzcorp.in", true, auth.SessionTrackingRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	_, err = f.svc.LoginWithGoogle(ctx, "stranger@gmail.com", true, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tokens, err := f.svc.Login(ctx, auth.LoginRequest{Email: "asha@dolluzcorp.in", Password: "secret123"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "access tokens cannot be used to refresh")

	require.NoError(t, f.svc.Logout(ctx, tokens.RefreshToken))
	require.NoError(t, f.svc.Logout(ctx, tokens.RefreshToken))

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	err := f.svc.ChangePassword(ctx, auth.ChangePasswordRequest{EmpID: ashaID, OldPassword: "nope", NewPassword: "another1"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	err = f.svc.ChangePassword(ctx, auth.ChangePasswordRequest{EmpID: ashaID, OldPassword: "secret123", NewPassword: "abc"})
	assert.Error(t, err)

	require.NoError(t, f.svc.ChangePassword(ctx, auth.ChangePasswordRequest{EmpID: ashaID, OldPassword: "secret123", NewPassword: "another1"}))
	assert.NoError(t, f.svc.VerifyPassword(ctx, auth.VerifyPasswordRequest{EmpID: ashaID, Password: "another1"}))
	assert.ErrorIs(t, f.svc.VerifyPassword(ctx, auth.VerifyPasswordRequest{EmpID: ashaID, Password: "secret123"}), auth.ErrInvalidCredentials)
}

func TestAuthService_PasswordResetWithOTP(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendOTP(ctx, auth.SendOTPRequest{Email: "nobody@dolluzcorp.in"})
	assert.ErrorIs(t, err, auth.ErrEmailNotRegistered)

	sent, err := f.svc.SendOTP(ctx, auth.SendOTPRequest{Email: "asha@dolluzcorp.in"})
	require.NoError(t, err)
	assert.Equal(t, int64(300), sent.ExpiresIn)
	assert.Equal(t, "asha@dolluzcorp.in", f.mail.to)
	require.Len(t, f.mail.code, 6)

	wrong := "000000"
	if f.mail.code == wrong {
		wrong = "111111"
	}
	assert.ErrorIs(t, f.svc.VerifyOTP(ctx, auth.VerifyOTPRequest{Email: "asha@dolluzcorp.in", OTP: wrong}), auth.ErrInvalidOTP)
	assert.ErrorIs(t, f.svc.VerifyOTP(ctx, auth.VerifyOTPRequest{Email: "other@dolluzcorp.in", OTP: f.mail.code}), auth.ErrInvalidOTP)
	require.NoError(t, f.svc.VerifyOTP(ctx, auth.VerifyOTPRequest{Email: "asha@dolluzcorp.in", OTP: f.mail.code}))

	require.NoError(t, f.svc.ResetPassword(ctx, auth.ResetPasswordRequest{Email: "asha@dolluzcorp.in", OTP: f.mail.code, NewPassword: "fresh-pass"}))
	assert.NoError(t, f.svc.VerifyPassword(ctx, auth.VerifyPasswordRequest{EmpID: ashaID, Password: "fresh-pass"}))

	err = f.svc.VerifyOTP(ctx, auth.VerifyOTPRequest{Email: "asha@dolluzcorp.in", OTP: f.mail.code})
	assert.ErrorIs(t, err, auth.ErrInvalidOTP, "a used code is gone")
}

func TestAuthService_ExpiredOTP(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendOTP(ctx, auth.SendOTPRequest{Email: "asha@dolluzcorp.in"})
	require.NoError(t, err)

	f.clock = f.clock.Add(5 * time.Minute)
	err = f.svc.VerifyOTP(ctx, auth.VerifyOTPRequest{Email: "asha@dolluzcorp.in", OTP: f.mail.code})
	assert.ErrorIs(t, err, auth.ErrOTPExpired)

	err = f.svc.ResetPassword(ctx, auth.ResetPasswordRequest{Email: "asha@dolluzcorp.in", OTP: f.mail.code, NewPassword: "fresh-pass"})
	assert.ErrorIs(t, err, auth.ErrOTPExpired)
}

func TestGenerateOTP(t *testing.T) {
	code, err := generateOTP(8)
	require.NoError(t, err)
	assert.Len(t, code, 8)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}
}
