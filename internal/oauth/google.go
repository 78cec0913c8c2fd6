// Package oauth exchanges OAuth authorization codes for provider identities.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/dtroode/hurtle-auth/internal/model"
)

const defaultGoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleConfig holds Google OAuth client parameters. Endpoint and
// UserInfoURL default to Google's production endpoints.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string

	Endpoint    oauth2.Endpoint
	UserInfoURL string
	HTTPClient  *http.Client
}

// Google resolves a Google authorization code to a ProviderIdentity.
type Google struct {
	config      oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

func NewGoogle(cfg GoogleConfig) *Google {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" || endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = defaultGoogleUserInfoURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Google{
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     endpoint,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
		},
		userInfoURL: userInfoURL,
		httpClient:  httpClient,
	}
}

// AuthCodeURL returns the consent page URL carrying state.
func (g *Google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state)
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// Exchange trades code for an access token and fetches the user's profile.
// A code Google rejects and an unverified email are KindInvalidInput;
// transport failures are KindStorageUnavailable.
func (g *Google) Exchange(ctx context.Context, code string) (model.ProviderIdentity, error) {
	if code == "" {
		return model.ProviderIdentity{}, model.NewError(model.KindInvalidInput, "authorization code is required", nil)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return model.ProviderIdentity{}, model.NewError(model.KindInvalidInput, "authorization code rejected", err)
		}
		return model.ProviderIdentity{}, model.Unavailable("failed to exchange authorization code", err)
	}

	info, err := g.fetchUserInfo(ctx, token)
	if err != nil {
		return model.ProviderIdentity{}, model.Unavailable("failed to fetch user info", err)
	}

	if info.Sub == "" || info.Email == "" {
		return model.ProviderIdentity{}, model.NewError(model.KindInvalidInput, "google profile lacks id or email", nil)
	}
	if !info.EmailVerified {
		return model.ProviderIdentity{}, model.NewError(model.KindInvalidInput, "google email is not verified", nil)
	}

	return model.ProviderIdentity{
		Provider:       model.ProviderGoogle,
		ProviderUserID: info.Sub,
		Email:          info.Email,
		DisplayName:    info.Name,
	}, nil
}

func (g *Google) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return googleUserInfo{}, fmt.Errorf("failed to create user info request: %w", err)
	}

	resp, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return googleUserInfo{}, fmt.Errorf("user info request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return googleUserInfo{}, fmt.Errorf("user info fetch failed with status %d: %s", resp.StatusCode, body)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, fmt.Errorf("failed to parse user info response: %w", err)
	}

	return info, nil
}

// NewState returns a random value for the OAuth state parameter.
func NewState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
