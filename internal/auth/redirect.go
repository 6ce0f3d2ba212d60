package auth

import "net/url"

// OPEN REDIRECTS:
// The login page accepts a "next" query parameter so a user who was bounced
// to /login can land back where they were heading. If that parameter were
// followed blindly, an attacker could craft
//
//	/login?next=https://evil.example/phish
//
// and the victim — fresh from typing their password on OUR domain — would be
// redirected onto the attacker's site. The fix is to only ever follow
// targets that resolve to our own origin.

// IsSafeRedirect reports whether candidate, resolved relative to base,
// stays on base's origin (same scheme AND same host:port).
//
// This rejects:
//   - absolute URLs to other hosts ("https://evil.example/x")
//   - protocol-relative URLs ("//evil.example/x" — these inherit our scheme
//     but swap the host, which is the classic validator bypass)
//   - anything that fails to parse
//
// and accepts ordinary app-relative paths like "/post/3".
func IsSafeRedirect(base, candidate string) bool {
	ref, err := url.Parse(base)
	if err != nil || ref.Scheme == "" || ref.Host == "" {
		return false
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	resolved := ref.ResolveReference(u)
	return resolved.Scheme == ref.Scheme && resolved.Host == ref.Host
}

// SafeRedirectTarget returns candidate if it is safe to follow, otherwise
// fallback. An empty candidate (the common case — no "next" parameter) also
// yields the fallback.
func SafeRedirectTarget(base, candidate, fallback string) string {
	if candidate == "" || !IsSafeRedirect(base, candidate) {
		return fallback
	}
	return candidate
}
