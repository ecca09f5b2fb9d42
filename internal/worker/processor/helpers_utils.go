package processor

import (
	"net/url"
	"path"
	"strings"
)

// ExtFromURL derives a local filename extension from the source URL path.
// When the URL carries no usable extension the fallback for the asset class
// is used.
func ExtFromURL(rawURL, fallback string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if ext == "" || ext == "." || len(ext) > 5 {
		return fallback
	}
	return ext
}

// truncate limits error text stored in the registry.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
