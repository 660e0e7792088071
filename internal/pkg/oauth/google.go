package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// StateCookieName holds the state between the redirect and the callback.
const StateCookieName = "oauth_state"

type GoogleService interface {
	// NewState returns a random value to round-trip through the consent screen.
	NewState() (string, error)
	// AuthCodeURL is the consent screen URL for state.
	AuthCodeURL(state string) string
	// Profile exchanges the authorization code and fetches the signed-in Google account.
	Profile(ctx context.Context, code string) (GoogleProfile, error)
}

type GoogleProfile struct {
	GoogleID      string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

type GoogleServiceImpl struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleService(clientID, clientSecret, redirectURL string, scopes []string) *GoogleServiceImpl {
	if len(scopes) == 0 {
		scopes = []string{"openid", "email", "profile"}
	}
	return &GoogleServiceImpl{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (g *GoogleServiceImpl) NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (g *GoogleServiceImpl) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *GoogleServiceImpl) Profile(ctx context.Context, code string) (GoogleProfile, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	resp, err := g.config.Client(ctx, token).Get(g.userInfoURL)
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("failed to fetch google profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GoogleProfile{}, fmt.Errorf("google userinfo returned %s", resp.Status)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return GoogleProfile{}, fmt.Errorf("failed to decode google profile: %w", err)
	}
	return profile, nil
}
