package auth

import "testing"

func TestIsSafeRedirect(t *testing.T) {
	const base = "http://localhost:8080"

	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"relative path", "/post/3", true},
		{"relative path with query", "/post/3?foo=bar", true},
		{"root", "/", true},
		{"same-origin absolute", "http://localhost:8080/post/3", true},
		{"absolute foreign host", "https://evil.example/x", false},
		{"absolute foreign host same scheme", "http://evil.example/x", false},
		{"protocol-relative", "//evil.example/x", false},
		{"wrong port", "http://localhost:9090/post/3", false},
		{"wrong scheme", "https://localhost:8080/post/3", false},
		{"malformed", "http://%zz", false},
		{"javascript scheme", "javascript:alert(1)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSafeRedirect(base, tt.candidate); got != tt.want {
				t.Errorf("IsSafeRedirect(%q, %q) = %v, want %v", base, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestIsSafeRedirect_BadBase(t *testing.T) {
	// A base we can't parse (or that has no host) can never vouch for a
	// candidate — fail closed.
	for _, base := range []string{"", "not a url", "/relative-base"} {
		if IsSafeRedirect(base, "/post/3") {
			t.Errorf("IsSafeRedirect(%q, ...) = true, want false for unusable base", base)
		}
	}
}

func TestSafeRedirectTarget(t *testing.T) {
	const base = "http://localhost:8080"

	tests := []struct {
		name      string
		candidate string
		want      string
	}{
		{"empty candidate falls back", "", "/"},
		{"unsafe candidate falls back", "https://evil.example/x", "/"},
		{"protocol-relative falls back", "//evil.example/x", "/"},
		{"safe candidate kept", "/post/3", "/post/3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeRedirectTarget(base, tt.candidate, "/"); got != tt.want {
				t.Errorf("SafeRedirectTarget(%q) = %q, want %q", tt.candidate, got, tt.want)
			}
		})
	}
}
