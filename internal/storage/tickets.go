package storage

import (
	"context"
	"errors"
	"time"
)

const (
	// DefaultDownloadValidity is the general-purpose signing window.
	DefaultDownloadValidity = 3 * time.Hour
	// MaxDownloadValidity caps longer-lived internal fetches.
	MaxDownloadValidity = 24 * time.Hour
)

// UploadCredentials is a fresh upload ticket scoped to the resolved bucket.
// Tickets are single-use-oriented: request a new one per upload session.
type UploadCredentials struct {
	UploadURL   string `json:"uploadUrl"`
	UploadToken string `json:"uploadToken"`
	BucketID    string `json:"bucketId"`
}

// DownloadAuthorization is a bearer credential: a prefix-scoped token plus
// the composed browser-fetchable URL. Never log the token or the URL in
// full, and never hand the URL to a browser when a proxy path exists.
type DownloadAuthorization struct {
	SignedURL string
	Token     string
	ExpiresAt time.Time
}

func isAuthErr(err error) bool {
	return errors.Is(err, ErrStorageAuth)
}

// GetUploadCredentials requests a fresh upload ticket from the provider.
func (g *Gateway) GetUploadCredentials(ctx context.Context) (*UploadCredentials, error) {
	var creds *UploadCredentials

	err := g.withSession(ctx, func(sess *Session) error {
		payload := map[string]string{"bucketId": sess.BucketID}

		var body struct {
			UploadURL          string `json:"uploadUrl"`
			AuthorizationToken string `json:"authorizationToken"`
		}
		if err := g.apiCall(ctx, sess, "b2_get_upload_url", payload, &body); err != nil {
			return err
		}

		creds = &UploadCredentials{
			UploadURL:   body.UploadURL,
			UploadToken: body.AuthorizationToken,
			BucketID:    sess.BucketID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return creds, nil
}

// GetDownloadToken requests a download authorization scoped to the given
// object key or folder prefix, valid for the requested duration. Zero or
// negative validity falls back to the default window; anything above the
// cap is clamped.
func (g *Gateway) GetDownloadToken(ctx context.Context, keyOrPrefix string, validity time.Duration) (*DownloadAuthorization, error) {
	if validity <= 0 {
		validity = DefaultDownloadValidity
	}
	if validity > MaxDownloadValidity {
		validity = MaxDownloadValidity
	}

	var auth *DownloadAuthorization

	err := g.withSession(ctx, func(sess *Session) error {
		payload := map[string]interface{}{
			"bucketId":               sess.BucketID,
			"fileNamePrefix":         keyOrPrefix,
			"validDurationInSeconds": int(validity.Seconds()),
		}

		var body struct {
			AuthorizationToken string `json:"authorizationToken"`
		}
		if err := g.apiCall(ctx, sess, "b2_get_download_authorization", payload, &body); err != nil {
			return err
		}

		auth = &DownloadAuthorization{
			SignedURL: ComposeSignedURL(sess.DownloadURL, g.cfg.BucketName, keyOrPrefix, body.AuthorizationToken),
			Token:     body.AuthorizationToken,
			ExpiresAt: time.Now().Add(validity),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return auth, nil
}
