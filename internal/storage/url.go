package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// ComposeSignedURL builds the browser-fetchable download URL. The shape is
// fixed by the provider: {downloadBaseUrl}/file/{bucket}/{key}?Authorization={token}.
// The key is concatenated as-is; escaping it would break the provider's
// prefix match and the download would 403.
func ComposeSignedURL(downloadBaseURL, bucketName, objectKey, token string) string {
	return fmt.Sprintf("%s/file/%s/%s?Authorization=%s", downloadBaseURL, bucketName, objectKey, token)
}

// ParseSignedURL recovers the object key and token from a composed URL.
// It is the inverse of ComposeSignedURL for any key without a query string.
func ParseSignedURL(raw string) (objectKey, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("storage: failed to parse signed url: %w", err)
	}

	token = u.Query().Get("Authorization")
	if token == "" {
		return "", "", fmt.Errorf("storage: signed url has no Authorization token")
	}

	const marker = "/file/"
	idx := strings.Index(u.Path, marker)
	if idx < 0 {
		return "", "", fmt.Errorf("storage: signed url has no /file/ segment")
	}

	rest := u.Path[idx+len(marker):] // "<bucket>/<key...>"
	slash := strings.Index(rest, "/")
	if slash < 0 || slash == len(rest)-1 {
		return "", "", fmt.Errorf("storage: signed url has no object key")
	}

	return rest[slash+1:], token, nil
}
