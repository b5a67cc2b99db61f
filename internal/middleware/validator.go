package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

// ValidationError is a user input problem; the API answers 400 for it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateURL validates and sanitizes URLs
func ValidateURL(field, rawURL string) error {
	if rawURL == "" {
		return Invalid(field, "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Invalid(field, "invalid URL format: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Invalid(field, "invalid URL scheme: %s (allowed: http, https)", u.Scheme)
	}
	if u.Host == "" {
		return Invalid(field, "URL has no host")
	}

	// SSRF: no loopback, private or link-local targets
	host := strings.ToLower(u.Hostname())
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return Invalid(field, "localhost/internal IPs are not allowed")
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsUnspecified() {
			return Invalid(field, "localhost/internal IPs are not allowed")
		}
		if ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			return Invalid(field, "private IP ranges are not allowed")
		}
	}
	return nil
}

var shopNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,62}\.myshopify\.com$`)

// ValidateShopDomain checks a normalized "<name>.myshopify.com" host.
func ValidateShopDomain(domain string) error {
	if domain == "" {
		return Invalid("store_url", "store URL is required")
	}
	if !shopNameRe.MatchString(domain) {
		return Invalid("store_url", "%q is not a valid Shopify store address", domain)
	}
	return nil
}

var regionRe = regexp.MustCompile(`^[A-Z]{2}$`)

// NormalizeRegions upper-cases ISO-3166 alpha-2 codes, drops duplicates and
// rejects anything else.
func NormalizeRegions(codes []string) ([]string, error) {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if !regionRe.MatchString(c) {
			return nil, Invalid("region_availability", "invalid country code %q", c)
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// ValidateRating checks a 0-5 star threshold.
func ValidateRating(field string, v int) error {
	if v < 0 || v > 5 {
		return Invalid(field, "must be between 0 and 5")
	}
	return nil
}

// ValidateImageContentType accepts only image/* uploads.
func ValidateImageContentType(ct string) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(ct)), "image/") {
		return Invalid("file", "only image uploads are accepted, got %q", ct)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
