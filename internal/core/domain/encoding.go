package domain

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const upperhex = "0123456789ABCDEF"

// EscapeAddress percent-encodes a free-text address for use in an app URL.
// ASCII letters, digits and "-._~/?" are kept; everything else is encoded
// byte-wise. Invalid UTF-8 cannot be encoded, so spaces are replaced with
// '+' and the rest is left as is.
func EscapeAddress(address string) string {
	escaped, ok := percentEncode(address)
	if !ok {
		return strings.ReplaceAll(address, " ", "+")
	}
	return escaped
}

func percentEncode(s string) (string, bool) {
	if !utf8.ValidString(s) {
		return "", false
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String(), true
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-._~/?", c) >= 0
}

// ParseLaunchURL parses an app URL so that String() returns raw unchanged.
// net/url drops the empty authority of "waze://?ll=1,2" and rejects
// percent-encoded hosts such as "citymapper://endaddress=a%20b"; both are
// kept opaque instead.
func ParseLaunchURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty url", ErrURLBuildFailed)
	}
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.String() == raw {
		return u, nil
	}

	scheme, rest, ok := strings.Cut(raw, ":")
	if !ok || !validScheme(scheme) || rest == "" || strings.ContainsAny(rest, " \t\r\n") {
		return nil, fmt.Errorf("%w: malformed url %q", ErrURLBuildFailed, raw)
	}
	return &url.URL{Scheme: strings.ToLower(scheme), Opaque: rest}, nil
}

func validScheme(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
