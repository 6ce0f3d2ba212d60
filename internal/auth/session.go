// Package auth — session establishment and teardown.
//
// SESSION MODEL:
// A logged-in browser holds a signed JWT in an HttpOnly cookie named
// "session". The token carries the user's id in the "sub" claim and a fresh
// random "jti" (token id) minted at every login. Because login ALWAYS issues
// a brand-new token, a session token that existed before authentication can
// never become authenticated — that is the session-fixation defence.
//
// The token proves only "this browser logged in as user N before the expiry".
// Whether user N still exists is re-checked against the database on every
// request by the CurrentUser middleware; a token for a deleted user simply
// resolves to anonymous.
//
// REMEMBER ME:
// remember=false → 24h token in a browser-session cookie (gone on close).
// remember=true  → 30-day token in a persistent cookie (MaxAge set).
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const (
	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName = "session"

	issuer = "blog-platform"

	sessionTTL  = 24 * time.Hour
	rememberTTL = 30 * 24 * time.Hour
)

// SessionService signs and validates session tokens.
//
// It holds the HMAC secret used for both operations — the same secret must
// be used to sign and verify. Rotating the secret invalidates all sessions.
type SessionService struct {
	secret []byte
}

// NewSessionService creates a SessionService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: SESSION_SECRET=$(openssl rand -hex 32)
func NewSessionService(secret string) (*SessionService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &SessionService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. jwt.RegisteredClaims provides the standard
// fields: Subject (user id), ID (jti), Issuer, IssuedAt, ExpiresAt.
type claims struct {
	jwt.RegisteredClaims
}

// Login issues a fresh session token for the given user id.
//
// Every call mints a new jti via xid, so no two logins ever share a token —
// an attacker who planted a token before authentication gains nothing.
func (s *SessionService) Login(userID int64, remember bool) (string, error) {
	ttl := sessionTTL
	if remember {
		ttl = rememberTTL
	}

	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        xid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}
	return signed, nil
}

// loginWithTTL is a test hook for issuing tokens with arbitrary lifetimes
// (including already-expired ones).
func (s *SessionService) loginWithTTL(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        xid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.secret)
}

// Validate parses and verifies a session token, returning the user id it
// encodes.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired
//   - Issuer matches (prevents tokens minted by other apps sharing a secret)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
func (s *SessionService) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("auth: session expired")
		}
		return 0, fmt.Errorf("auth: invalid session token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("auth: invalid session claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("auth: session has no valid subject")
	}
	return userID, nil
}

// SetSessionCookie writes the session token to the browser.
//
// HttpOnly: JavaScript cannot read the cookie (XSS protection).
// SameSite=Lax: sent on top-level navigations but not cross-site POSTs.
// Secure should be enabled behind HTTPS; left off for local development.
//
// With remember=false, MaxAge is omitted so the cookie dies with the
// browser; with remember=true it persists for the full token lifetime.
func SetSessionCookie(w http.ResponseWriter, token string, remember bool) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.MaxAge = int(rememberTTL.Seconds())
	}
	http.SetCookie(w, cookie)
}

// ClearSessionCookie logs the browser out by expiring the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
