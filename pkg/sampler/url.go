package sampler

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	httpPrefix = regexp.MustCompile(`(?i)^https?://`)
	anyScheme  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)
)

// NormalizeURL turns user input such as "example.com" into an absolute
// http(s) URL. Whitespace is removed and https:// is assumed when no scheme
// is given.
func NormalizeURL(raw string) (string, error) {
	v := whitespace.ReplaceAllString(strings.TrimSpace(raw), "")
	if v == "" {
		return "", newError(CodeInvalidURL, raw, fmt.Errorf("empty url"))
	}

	if !httpPrefix.MatchString(v) {
		if anyScheme.MatchString(v) {
			return "", newError(CodeUnsupportedScheme, raw, fmt.Errorf("scheme %q", v[:strings.Index(v, ":")]))
		}
		v = "https://" + v
	}

	u, err := url.Parse(v)
	if err != nil {
		return "", newError(CodeInvalidURL, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", newError(CodeUnsupportedScheme, raw, fmt.Errorf("scheme %q", u.Scheme))
	}
	if u.Hostname() == "" {
		return "", newError(CodeInvalidURL, raw, fmt.Errorf("missing host"))
	}

	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}
