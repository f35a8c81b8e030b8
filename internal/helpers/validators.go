package helpers

import (
	"math"
	"net/netip"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	dateRe   = regexp.MustCompile(`^(0?[0-9]|[12][0-9]|3[01])/([0-9]{2})/([0-9]{2})$`)
	timeRe   = regexp.MustCompile(`^([01]\d|2[0-3]):?([0-5]\d)$`)
	domainRe = regexp.MustCompile(`(?i)^(?:[\p{L}\p{N}](?:[\p{L}\p{N}-]*[\p{L}\p{N}])?\.)+\p{L}{2,}$`)
	portRe   = regexp.MustCompile(`^\d{2,5}$`)
)

// ValidateNonEmpty reports whether text has any non-space content.
func ValidateNonEmpty(text string) bool {
	return len(strings.TrimSpace(text)) > 0
}

// ValidateDate accepts d/mm/yy and dd/mm/yy. The month is not range checked;
// out of range values roll over when the date is composed.
func ValidateDate(text string) bool {
	return dateRe.MatchString(text)
}

// ValidateTime accepts 24 hour hh:mm, with or without the colon.
func ValidateTime(text string) bool {
	return timeRe.MatchString(text)
}

// ValidateInt accepts a non-negative whole number.
func ValidateInt(text string) bool {
	_, ok := ParseInt(text)
	return ok
}

// ValidateDecimal accepts a non-negative number, with a dot or comma as
// decimal separator.
func ValidateDecimal(text string) bool {
	_, ok := ParseDecimal(text)
	return ok
}

func ParseInt(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func ParseDecimal(text string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ValidateURL accepts absolute http, https and ftp URLs (or protocol
// relative ones) whose host is a public IPv4 address or a domain name with
// an alphabetic top level domain.
func ValidateURL(text string) bool {
	s := strings.TrimSpace(text)
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	if strings.HasPrefix(s, "//") {
		s = "http:" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Opaque != "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
	default:
		return false
	}

	host := u.Hostname()
	if host == "" || strings.HasSuffix(u.Host, ":") {
		return false
	}
	if port := u.Port(); port != "" && !portRe.MatchString(port) {
		return false
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		return isPublicIPv4(addr)
	}
	return domainRe.MatchString(host)
}

// NormalizeURL makes a protocol relative link absolute with https.
func NormalizeURL(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "//") {
		return "https:" + s
	}
	return s
}

func isPublicIPv4(addr netip.Addr) bool {
	if !addr.Is4() {
		return false
	}
	if addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() || addr.IsUnspecified() {
		return false
	}
	b := addr.As4()
	// 224.0.0.0 and up is multicast or reserved
	if b[0] == 0 || b[0] >= 224 {
		return false
	}
	// network and broadcast style addresses
	return b[3] != 0 && b[3] != 255
}

// IsSkipAnswer reports whether text means "no value" in a form.
func IsSkipAnswer(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "-", "no", "none":
		return true
	}
	return false
}

// IsYesNo accepts yes or no in any letter case.
func IsYesNo(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "no":
		return true
	}
	return false
}
