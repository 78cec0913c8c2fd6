// Package rest serves the browser-facing HTTP endpoints: local login and
// registration as JSON, and the Google OAuth redirect flow.
package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/hurtle-auth/internal/logger"
	"github.com/dtroode/hurtle-auth/internal/model"
	"github.com/dtroode/hurtle-auth/internal/oauth"
)

const (
	sessionCookieName = "session"
	oauthStateCookie  = "oauth_state"
	oauthStateMaxAge  = 600
	maxBodyBytes      = 1 << 16
)

// AuthService defines the authentication operations served over HTTP.
type AuthService interface {
	Register(ctx context.Context, identifier, password, displayName string) (uuid.UUID, error)
	Login(ctx context.Context, identifier, password string) (model.Session, error)
	LoginViaProvider(ctx context.Context, identity model.ProviderIdentity) (model.Session, error)
}

// IdentityProvider runs the OAuth code flow of one provider.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (model.ProviderIdentity, error)
}

// AuthConfig describes where the OAuth callback hands the session over.
type AuthConfig struct {
	CookieDomain    string
	CookieSecure    bool
	AuthRedirect    string
	FailureRedirect string
}

// Auth handles the HTTP authentication endpoints.
type Auth struct {
	service  AuthService
	google   IdentityProvider
	config   AuthConfig
	logger   *logger.Logger
	newState func() (string, error)
	now      func() time.Time
}

// NewAuth creates an Auth handler. google may be nil when Google sign-in
// is not configured.
func NewAuth(service AuthService, google IdentityProvider, config AuthConfig, logger *logger.Logger) *Auth {
	return &Auth{
		service:  service,
		google:   google,
		config:   config,
		logger:   logger,
		newState: oauth.NewState,
		now:      time.Now,
	}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type registerRequest struct {
	Identifier  string `json:"identifier"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	AccountID string    `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /auth/login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.service.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Token:     session.Token,
		AccountID: session.AccountID.String(),
		ExpiresAt: session.ExpiresAt,
	})
}

// Register handles POST /auth/register.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	accountID, err := h.service.Register(r.Context(), req.Identifier, req.Password, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"account_id": accountID.String()})
}

// GoogleLogin handles GET /auth/google by redirecting to the consent page.
func (h *Auth) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		http.NotFound(w, r)
		return
	}

	state, err := h.newState()
	if err != nil {
		h.logger.Error("HTTP auth handler: failed to generate oauth state",
			"error", err.Error())
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   oauthStateMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /auth/google/callback. On success it sets the
// session cookie and redirects to the client with the token; on failure it
// redirects to the client's login page with the failure kind.
func (h *Auth) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		http.NotFound(w, r)
		return
	}

	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookie)
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Path:     "/auth/google",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	if err != nil || state == "" || stateCookie.Value != state {
		h.logger.Warn("HTTP auth handler: oauth state mismatch")
		h.fail(w, r, model.KindInvalidInput)
		return
	}

	if r.URL.Query().Get("error") != "" {
		h.logger.Info("HTTP auth handler: consent denied",
			"error", r.URL.Query().Get("error"))
		h.fail(w, r, model.KindInvalidInput)
		return
	}

	identity, err := h.google.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Error("HTTP auth handler: code exchange failed",
			"error", err.Error())
		h.fail(w, r, model.KindOf(err))
		return
	}

	session, err := h.service.LoginViaProvider(r.Context(), identity)
	if err != nil {
		h.fail(w, r, model.KindOf(err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   int(session.ExpiresAt.Sub(h.now()).Seconds()),
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, withQuery(h.config.AuthRedirect, "token", session.Token), http.StatusFound)
}

func (h *Auth) fail(w http.ResponseWriter, r *http.Request, kind model.Kind) {
	http.Redirect(w, r, withQuery(h.config.FailureRedirect, "error", string(kind)), http.StatusFound)
}

func withQuery(rawURL, key, value string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return model.NewError(model.KindInvalidInput, "malformed request body", err)
	}
	return nil
}
