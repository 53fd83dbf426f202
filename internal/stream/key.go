package stream

import "strings"

// DefaultVideoFolder is the conventional folder for video objects; bare
// filenames with no folder are assumed to live there.
const DefaultVideoFolder = "videos/"

// StripProviderURL reduces a stored value to a bare object key: leading
// slash dropped, any .../file/<bucket>/ wrapper removed, query string cut.
func StripProviderURL(raw string) string {
	key := strings.TrimPrefix(raw, "/")

	if idx := strings.Index(key, "/file/"); idx >= 0 {
		rest := key[idx+len("/file/"):] // "<bucket>/<key...>"
		if slash := strings.Index(rest, "/"); slash >= 0 {
			key = rest[slash+1:]
		}
	}

	if q := strings.Index(key, "?"); q >= 0 {
		key = key[:q]
	}

	return key
}

// NormalizeObjectKey turns whatever a product row stores in contentUrl into
// a bare video key. Historical rows hold full provider URLs, sometimes with
// a query string; bare filenames with no folder default into the videos
// folder.
func NormalizeObjectKey(raw string) string {
	key := StripProviderURL(raw)

	if key != "" && !strings.Contains(key, "/") {
		key = DefaultVideoFolder + key
	}

	return key
}

// MediaProxyPath maps a stored provider URL onto the same-origin media
// proxy path, so private images render through the store instead of
// exposing signed provider URLs. Non-provider URLs pass through unchanged.
func MediaProxyPath(originalURL string) string {
	if originalURL == "" {
		return "/placeholder.png"
	}

	if !strings.Contains(originalURL, "backblazeb2.com") {
		return originalURL
	}

	parts := strings.SplitN(originalURL, "/file/", 2)
	if len(parts) != 2 {
		return originalURL
	}

	if slash := strings.Index(parts[1], "/"); slash >= 0 {
		return "/api/media/" + parts[1][slash+1:]
	}
	return originalURL
}
