package auth

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

// Store is the global session store for the browser login handoff.
// It holds temporary state while the user is redirected to the auth server
// and back (anti-CSRF state and the URL to return to).
var Store *sessions.CookieStore

// SessionName is the name of the login session cookie.
const SessionName = "brainbuild-login"

// Session value keys.
const (
	SessionKeyState       = "state"
	SessionKeyOriginalURL = "original_url"
)

// InitSessionStore initializes the cookie-based session store for the login
// handoff flow.
//
// The secret parameter signs session cookies. It can be any passphrase - it
// is SHA-256 hashed to derive a 32-byte key. The secret must be consistent
// across server restarts and multiple servers behind a load balancer.
//
// The session has a short TTL (10 minutes) since it only needs to persist
// during the redirect round trip.
func InitSessionStore(secret string) {
	// Hash the secret to get a consistent 32-byte key
	key := sha256.Sum256([]byte(secret))

	Store = sessions.NewCookieStore(key[:])
	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600, // 10 minutes (login redirect duration)
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// GetSession retrieves the login session from the request.
// Creates a new session if one doesn't exist.
func GetSession(r *http.Request) (*sessions.Session, error) {
	return Store.Get(r, SessionName)
}

// SaveSession saves the session to the response.
func SaveSession(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	return session.Save(r, w)
}

// ClearSessionValues removes login-flow values from the session.
// Called after the handoff completes.
func ClearSessionValues(session *sessions.Session) {
	delete(session.Values, SessionKeyState)
	delete(session.Values, SessionKeyOriginalURL)
}
