package validation

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

var (
	ErrEmptyURL     = errors.New("URL cannot be empty")
	ErrBlockedHost  = errors.New("host is not permitted")
	ErrUnsafeScheme = errors.New("URL must use http or https")
)

// URLValidator checks URLs before they are fetched or handed to an opener.
type URLValidator struct {
	AllowLocalhost  bool
	AllowPrivateIPs bool
	MaxLength       int
	// DefaultScheme is prepended to inputs without one. Empty rejects them.
	DefaultScheme string
}

// NewURLValidator blocks loopback and private addresses.
func NewURLValidator() *URLValidator {
	return &URLValidator{
		MaxLength:     2048,
		DefaultScheme: "https",
	}
}

// NewPermissiveURLValidator allows local feeds, for development and tests.
func NewPermissiveURLValidator() *URLValidator {
	return &URLValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		MaxLength:       2048,
		DefaultScheme:   "https",
	}
}

// ValidateAndNormalize trims input, adds the default scheme when missing,
// and returns the normalized URL.
func (v *URLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyURL
	}
	if v.MaxLength > 0 && len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` \t\n") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		if v.DefaultScheme == "" {
			return "", ErrUnsafeScheme
		}
		input = v.DefaultScheme + "://" + input
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrUnsafeScheme
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("URL must have a hostname")
	}
	if err := v.checkHost(u.Hostname()); err != nil {
		return "", err
	}
	if strings.Contains(u.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}

	return u.String(), nil
}

func (v *URLValidator) checkHost(host string) error {
	host = strings.ToLower(host)

	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		if !v.AllowLocalhost {
			return fmt.Errorf("%w: %s", ErrBlockedHost, host)
		}
		return nil
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		// a name, not an address
		return nil
	}
	addr = addr.Unmap()

	switch {
	case addr.IsUnspecified(), addr == netip.AddrFrom4([4]byte{255, 255, 255, 255}):
		return fmt.Errorf("%w: %s", ErrBlockedHost, host)
	case addr.IsLoopback():
		if !v.AllowLocalhost {
			return fmt.Errorf("%w: %s", ErrBlockedHost, host)
		}
	case addr.IsPrivate(), addr.IsLinkLocalUnicast():
		if !v.AllowPrivateIPs {
			return fmt.Errorf("%w: %s", ErrBlockedHost, host)
		}
	}
	return nil
}

// IsWebURL reports whether s parses as an absolute http(s) URL. It is the
// light check used on catalog links, which are displayed, not fetched.
func IsWebURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && !strings.ContainsAny(u.Host, " ")
}
