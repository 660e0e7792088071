package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/access"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/auth"
	"github.com/dolluzcorp/dtime-backend-go/internal/handler/http/response"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/jwt"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/oauth"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	LoginWithGoogle(w http.ResponseWriter, r *http.Request)
	OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	AccessMatrix(w http.ResponseWriter, r *http.Request)

	VerifyPassword(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
	SendOTP(w http.ResponseWriter, r *http.Request)
	VerifyOTP(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService    jwt.Service
	authService   auth.AuthService
	accessService access.AccessService
	// googleService is nil when Google sign-in is not configured.
	googleService oauth.GoogleService
	frontendURL   string
	secureCookies bool
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService, accessService access.AccessService, googleService oauth.GoogleService, frontendURL string, secureCookies bool) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:    jwtService,
		authService:   authService,
		accessService: accessService,
		googleService: googleService,
		frontendURL:   frontendURL,
		secureCookies: secureCookies,
	}
}

func sessionOf(r *http.Request) auth.SessionTrackingRequest {
	return auth.SessionTrackingRequest{IPAddress: r.RemoteAddr, UserAgent: r.UserAgent()}
}

func (a *AuthHandlerImpl) setSessionCookies(w http.ResponseWriter, tokens auth.TokenResponse) {
	http.SetCookie(w, a.jwtService.AccessTokenCookie(tokens.AccessToken, tokens.AccessTokenExpiresIn))
	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokens.RefreshToken, tokens.RefreshTokenExpiresIn))
}

func (a *AuthHandlerImpl) clearSessionCookies(w http.ResponseWriter) {
	for _, c := range []*http.Cookie{
		a.jwtService.AccessTokenCookie("", 0),
		a.jwtService.RefreshTokenCookie("", 0),
	} {
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	tokenResponse, err := a.authService.Login(r.Context(), loginReq, sessionOf(r))
	if err != nil {
		slog.Warn("Login failed", "email", loginReq.Email, "error", err)
		response.HandleError(w, err)
		return
	}

	a.setSessionCookies(w, tokenResponse)
	slog.Info("Employee logged in", "email", loginReq.Email)
	response.Created(w, "Logged in successfully", tokenResponse)
}

// LoginWithGoogle redirects to the Google consent screen.
func (a *AuthHandlerImpl) LoginWithGoogle(w http.ResponseWriter, r *http.Request) {
	if a.googleService == nil {
		response.NotFound(w, "Google sign-in is not enabled")
		return
	}

	state, err := a.googleService.NewState()
	if err != nil {
		slog.Error("Failed to generate oauth state", "error", err)
		response.InternalServerError(w, "Failed to start Google sign-in")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     oauth.StateCookieName,
		Value:    state,
		Path:     "/api/v1/auth/oauth/callback/google",
		Expires:  time.Now().Add(5 * time.Minute),
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, a.googleService.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// OAuthCallbackGoogle implements AuthHandler.
func (a *AuthHandlerImpl) OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request) {
	redirectWithError := func(errorMsg string) {
		redirectURL := fmt.Sprintf("%s/auth/callback/google?error=%s", a.frontendURL, url.QueryEscape(errorMsg))
		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
	}

	if a.googleService == nil {
		redirectWithError("google_disabled")
		return
	}

	if errorValue := r.URL.Query().Get("error"); errorValue != "" {
		slog.Warn("Google sign-in returned an error", "error", errorValue)
		redirectWithError(errorValue)
		return
	}

	stateCookie, err := r.Cookie(oauth.StateCookieName)
	if err != nil || stateCookie.Value == "" {
		slog.Error("OAuth state cookie missing", "error", err)
		redirectWithError("state_cookie_not_found")
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		slog.Error("OAuth state mismatch", "error", auth.ErrInvalidOAuthState)
		redirectWithError("state_mismatch")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		redirectWithError("code_empty")
		return
	}

	profile, err := a.googleService.Profile(r.Context(), code)
	if err != nil {
		slog.Error("Failed to fetch Google profile", "error", err)
		redirectWithError("token_verification_failed")
		return
	}

	tokenResponse, err := a.authService.LoginWithGoogle(r.Context(), profile.Email, profile.VerifiedEmail, sessionOf(r))
	if err != nil {
		slog.Warn("Google sign-in rejected", "email", profile.Email, "error", err)
		redirectWithError("login_failed")
		return
	}

	a.setSessionCookies(w, tokenResponse)
	slog.Info("Employee logged in via Google", "email", profile.Email)

	redirectURL := fmt.Sprintf("%s/auth/callback/google?access_token=%s&expires_in=%d",
		a.frontendURL,
		url.QueryEscape(tokenResponse.AccessToken),
		tokenResponse.AccessTokenExpiresIn,
	)
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}

// refreshTokenFrom prefers the cookie and falls back to the JSON body.
func refreshTokenFrom(r *http.Request) (auth.RefreshTokenRequest, error) {
	var req auth.RefreshTokenRequest
	if c, err := r.Cookie(jwt.RefreshCookieName); err == nil && c.Value != "" {
		req.RefreshToken = c.Value
		return req, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	req, err := refreshTokenFrom(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := a.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		response.HandleError(w, err)
		return
	}

	a.clearSessionCookies(w)
	response.SuccessWithMessage(w, "Logged out successfully", nil)
}

// RefreshToken implements AuthHandler.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	req, err := refreshTokenFrom(r)
	if err != nil {
		slog.Error("Refresh Token decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	tokenResponse, err := a.authService.RefreshToken(r.Context(), req)
	if err != nil {
		slog.Warn("Refresh Token rejected", "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.AccessTokenCookie(tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn))
	response.Created(w, "Token refreshed successfully", tokenResponse)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	profile, err := a.authService.Me(r.Context(), id.EmpID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, profile)
}

// AccessMatrix returns the page permission table the UI uses to build its menu.
func (a *AuthHandlerImpl) AccessMatrix(w http.ResponseWriter, r *http.Request) {
	levels, err := a.accessService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, levels)
}

// VerifyPassword implements AuthHandler.
func (a *AuthHandlerImpl) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req auth.VerifyPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmpID = id.EmpID
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := a.authService.VerifyPassword(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Password verified", nil)
}

// ChangePassword implements AuthHandler.
func (a *AuthHandlerImpl) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req auth.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmpID = id.EmpID
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := a.authService.ChangePassword(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}
	slog.Info("Password changed", "emp_id", id.EmpID)
	response.SuccessWithMessage(w, "Password changed successfully", nil)
}

// SendOTP implements AuthHandler.
func (a *AuthHandlerImpl) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.SendOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	sent, err := a.authService.SendOTP(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "OTP sent to your email", sent)
}

// VerifyOTP implements AuthHandler.
func (a *AuthHandlerImpl) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := a.authService.VerifyOTP(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "OTP verified", nil)
}

// ResetPassword implements AuthHandler.
func (a *AuthHandlerImpl) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req auth.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := a.authService.ResetPassword(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}
	slog.Info("Password reset", "email", req.Email)
	response.SuccessWithMessage(w, "Password has been reset successfully", nil)
}
