package jwt

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
	TypeSSE     = "sse"

	AccessCookieName  = "jwt"
	RefreshCookieName = "refresh_token"

	sseTokenTTL = 5 * time.Minute
)

var ErrWrongTokenType = errors.New("unexpected token type")

// Claims is the identity carried by an access token.
type Claims struct {
	EmpID string
	Email string
	Role  string
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	GenerateRefreshToken(empID string) (token string, expiresAt int64, err error)
	// ParseRefreshToken verifies signature, expiry and type and returns the subject.
	ParseRefreshToken(ctx context.Context, token string) (empID string, err error)
	GenerateSSEToken(empID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (empID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	AccessTokenCookie(token string, expiresAt int64) *http.Cookie
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
}

type JWTService struct {
	accessTTL  time.Duration
	refreshTTL time.Duration
	secure     bool
	tokenAuth  *jwtauth.JWTAuth
	now        func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService parses the expiration durations up front so a bad setting fails at startup.
func NewJWTService(secretKey, accessExpiration, refreshExpiration string, secureCookies bool) (*JWTService, error) {
	accessTTL, err := time.ParseDuration(accessExpiration)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := time.ParseDuration(refreshExpiration)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		secure:     secureCookies,
		tokenAuth:  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:        time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTTL).Unix()
	_, token, err = j.tokenAuth.Encode(map[string]interface{}{
		"emp_id": claims.EmpID,
		"email":  claims.Email,
		"role":   claims.Role,
		"type":   TypeAccess,
		"exp":    expiresAt,
	})
	return token, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(empID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.refreshTTL).Unix()
	_, token, err = j.tokenAuth.Encode(map[string]interface{}{
		"emp_id": empID,
		"type":   TypeRefresh,
		"exp":    expiresAt,
	})
	return token, expiresAt, err
}

func (j *JWTService) ParseRefreshToken(ctx context.Context, token string) (string, error) {
	t, err := jwtauth.VerifyToken(j.tokenAuth, token)
	if err != nil {
		return "", err
	}
	claims, err := t.AsMap(ctx)
	if err != nil {
		return "", err
	}
	if typ, _ := claims["type"].(string); typ != TypeRefresh {
		return "", ErrWrongTokenType
	}
	empID, _ := claims["emp_id"].(string)
	if empID == "" {
		return "", jwt.ErrInvalidJWT()
	}
	return empID, nil
}

func (j *JWTService) AccessTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     AccessCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// GenerateSSEToken issues a short-lived token accepted only by the event stream, since
// EventSource cannot send an Authorization header.
func (j *JWTService) GenerateSSEToken(empID string) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(sseTokenTTL).Unix()
	_, token, err = j.tokenAuth.Encode(map[string]interface{}{
		"emp_id": empID,
		"type":   TypeSSE,
		"exp":    expiresAt,
	})
	if err != nil {
		return "", 0, err
	}
	return token, int(sseTokenTTL / time.Second), nil
}

func (j *JWTService) ValidateSSEToken(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TypeSSE {
		return "", ErrWrongTokenType
	}

	empIDVal, ok := token.Get("emp_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	empID, ok := empIDVal.(string)
	if !ok || empID == "" {
		return "", jwt.ErrInvalidJWT()
	}
	return empID, nil
}
