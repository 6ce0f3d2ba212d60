package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-at-least-16-chars!!"

func newTestSessionService(t *testing.T) *SessionService {
	t.Helper()
	s, err := NewSessionService(testSecret)
	if err != nil {
		t.Fatalf("NewSessionService: %v", err)
	}
	return s
}

// =========================================================================
// CONSTRUCTION
// =========================================================================

func TestNewSessionService_RejectsShortSecret(t *testing.T) {
	if _, err := NewSessionService("short"); err == nil {
		t.Error("NewSessionService() accepted a secret under 16 characters")
	}
}

// =========================================================================
// Login / Validate ROUND TRIP
// =========================================================================

func TestLoginAndValidate(t *testing.T) {
	s := newTestSessionService(t)

	token, err := s.Login(42, false)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("Login() returned empty token")
	}

	userID, err := s.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != 42 {
		t.Errorf("Validate() userID = %d, want 42", userID)
	}
}

func TestLogin_FreshTokenPerLogin(t *testing.T) {
	s := newTestSessionService(t)

	// Session fixation defence: two logins for the same user must never
	// produce the same token — each carries a fresh jti.
	token1, _ := s.Login(1, false)
	token2, _ := s.Login(1, false)
	if token1 == token2 {
		t.Error("Login() issued identical tokens for two logins (jti must be fresh)")
	}
}

func TestLogin_RememberExtendsExpiry(t *testing.T) {
	s := newTestSessionService(t)

	short, _ := s.Login(1, false)
	long, _ := s.Login(1, true)

	if expiryOf(t, short).Add(7 * 24 * time.Hour).After(expiryOf(t, long)) {
		t.Error("remember=true should yield a much later expiry than remember=false")
	}
}

// expiryOf decodes a token's exp claim without verifying the signature —
// enough to inspect what Login produced.
func expiryOf(t *testing.T, tokenStr string) time.Time {
	t.Helper()
	parsed, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims{})
	if err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		t.Fatalf("GetExpirationTime: %v", err)
	}
	return exp.Time
}

// =========================================================================
// Validate FAILURE MODES
// =========================================================================

func TestValidate_ExpiredToken(t *testing.T) {
	s := newTestSessionService(t)

	token, err := s.loginWithTTL(42, -time.Minute)
	if err != nil {
		t.Fatalf("loginWithTTL: %v", err)
	}
	if _, err := s.Validate(token); err == nil {
		t.Error("Validate() accepted an expired token")
	}
}

func TestValidate_TamperedToken(t *testing.T) {
	s := newTestSessionService(t)

	token, _ := s.Login(42, false)
	// Flip a character in the payload segment
	tampered := token[:len(token)/2] + "x" + token[len(token)/2+1:]

	if _, err := s.Validate(tampered); err == nil {
		t.Error("Validate() accepted a tampered token")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	s := newTestSessionService(t)
	other, _ := NewSessionService("a-completely-different-secret!!")

	token, _ := other.Login(42, false)
	if _, err := s.Validate(token); err == nil {
		t.Error("Validate() accepted a token signed with a different secret")
	}
}

func TestValidate_Garbage(t *testing.T) {
	s := newTestSessionService(t)

	for _, bad := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		if _, err := s.Validate(bad); err == nil {
			t.Errorf("Validate(%q) accepted garbage input", bad)
		}
	}
}

// =========================================================================
// COOKIE HELPERS
// =========================================================================

func TestSetSessionCookie(t *testing.T) {
	t.Run("session-only when remember=false", func(t *testing.T) {
		rr := httptest.NewRecorder()
		SetSessionCookie(rr, "tok", false)

		c := findCookie(t, rr, SessionCookieName)
		if c.MaxAge != 0 {
			t.Errorf("MaxAge = %d, want 0 (browser-session cookie)", c.MaxAge)
		}
		if !c.HttpOnly {
			t.Error("session cookie must be HttpOnly")
		}
		if c.SameSite != http.SameSiteLaxMode {
			t.Errorf("SameSite = %v, want Lax", c.SameSite)
		}
	})

	t.Run("persistent when remember=true", func(t *testing.T) {
		rr := httptest.NewRecorder()
		SetSessionCookie(rr, "tok", true)

		c := findCookie(t, rr, SessionCookieName)
		if c.MaxAge <= 0 {
			t.Errorf("MaxAge = %d, want a positive value for remember-me", c.MaxAge)
		}
	})
}

func TestClearSessionCookie(t *testing.T) {
	rr := httptest.NewRecorder()
	ClearSessionCookie(rr)

	c := findCookie(t, rr, SessionCookieName)
	if c.MaxAge >= 0 || c.Value != "" {
		t.Errorf("ClearSessionCookie() cookie = (value=%q, maxAge=%d), want expired empty cookie", c.Value, c.MaxAge)
	}
}

func findCookie(t *testing.T, rr *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set; Set-Cookie headers: %s",
		name, strings.Join(rr.Result().Header.Values("Set-Cookie"), "; "))
	return nil
}
