package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/auth"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/config"
)

// AuthHandler implements the browser login handoff. API clients send a
// Bearer token directly and never touch these routes; browsers are bounced
// to the auth server and come back with a JWT that gets pinned into an
// httpOnly cookie.
type AuthHandler struct {
	config *config.Config
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{config: cfg, logger: logger}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
// These routes are unauthenticated by nature.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/auth/login", h.Login)
	mux.HandleFunc("GET /api/auth/callback", h.Callback)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
}

// Login handles GET /api/auth/login?redirect=/some/page
// Stores anti-CSRF state plus the page to return to, then redirects the
// browser to the auth server.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		h.logger.Error("Failed to generate login state", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to start login"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	originalURL := r.URL.Query().Get("redirect")
	// Only same-site paths; an absolute URL here would be an open redirect.
	if originalURL == "" || !strings.HasPrefix(originalURL, "/") || strings.HasPrefix(originalURL, "//") {
		originalURL = "/"
	}

	session, _ := auth.GetSession(r)
	session.Values[auth.SessionKeyState] = state
	session.Values[auth.SessionKeyOriginalURL] = originalURL
	if err := auth.SaveSession(r, w, session); err != nil {
		h.logger.Error("Failed to save login session", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to start login"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	target, err := url.Parse(h.config.Auth.LoginURL)
	if err != nil {
		h.logger.Error("Invalid login URL in config", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Login misconfigured"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	query := target.Query()
	query.Set("state", state)
	query.Set("callback", h.config.BaseURL+"/api/auth/callback")
	target.RawQuery = query.Encode()

	http.Redirect(w, r, target.String(), http.StatusFound)
}

// Callback handles GET /api/auth/callback?state=...&token=...
// The auth server redirects here with the JWT after a successful login.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	token := r.URL.Query().Get("token")
	if state == "" || token == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "missing_parameters", "Missing state or token"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	session, _ := auth.GetSession(r)
	expectedState, _ := session.Values[auth.SessionKeyState].(string)
	if expectedState == "" || state != expectedState {
		h.logger.Warn("Login state mismatch")
		if err := ErrorResponse(w, http.StatusForbidden, "state_mismatch", "Login state mismatch"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	originalURL, _ := session.Values[auth.SessionKeyOriginalURL].(string)
	auth.ClearSessionValues(session)
	if err := auth.SaveSession(r, w, session); err != nil {
		h.logger.Error("Failed to save session", zap.Error(err))
	}
	if originalURL == "" {
		originalURL = "/"
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.JWTCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   strings.HasPrefix(h.config.BaseURL, "https://"),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400, // 24 hours
		Path:     "/",
	})

	http.Redirect(w, r, originalURL, http.StatusFound)
}

// Logout handles POST /api/auth/logout by expiring the JWT cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.JWTCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   strings.HasPrefix(h.config.BaseURL, "https://"),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
		Path:     "/",
	})

	if err := WriteJSON(w, http.StatusOK, map[string]any{"success": true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
