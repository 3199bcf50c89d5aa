package docschema

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
)

// canonicalFlags select the purell normalizations that make up the
// canonical locator.
const canonicalFlags = purell.FlagLowercaseScheme |
	purell.FlagLowercaseHost |
	purell.FlagRemoveDefaultPort |
	purell.FlagRemoveEmptyPortSeparator |
	purell.FlagRemoveFragment

// NormalizeURL returns the canonical form of an absolute URL: lower-case
// scheme and host, no default port, no fragment, and "/" for an empty path.
// Returns EINVALID if the URL cannot be parsed or has no scheme or host.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", Errorf(EINVALID, "URL %q must be absolute", raw)
	}
	if u.Path == "" && u.Opaque == "" {
		u.Path = "/"
	}
	return purell.NormalizeURL(u, canonicalFlags), nil
}
