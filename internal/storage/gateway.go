package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"pixstore/internal/config"
)

// Session holds the provider-issued credential set. It is immutable after
// creation: re-authorization replaces the whole value, never mutates fields.
type Session struct {
	AccountID          string
	APIURL             string
	DownloadURL        string
	AuthorizationToken string
	// BucketID is empty when the account key is not bucket-restricted;
	// it is then resolved lazily by name and cached on the session.
	BucketID string
}

// Gateway authenticates against the private bucket provider and issues
// scoped upload and download tickets. One instance is constructed at
// process start and shared by all callers; the cached session is
// read-mostly and replaced wholesale on re-auth.
type Gateway struct {
	cfg    config.StorageConfig
	client *http.Client

	mu      sync.RWMutex
	session *Session
	sf      singleflight.Group
}

func NewGateway(cfg config.StorageConfig, client *http.Client) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &Gateway{cfg: cfg, client: client}
}

type authorizeResponse struct {
	AccountID          string `json:"accountId"`
	APIURL             string `json:"apiUrl"`
	DownloadURL        string `json:"downloadUrl"`
	AuthorizationToken string `json:"authorizationToken"`
	Allowed            struct {
		BucketID string `json:"bucketId"`
	} `json:"allowed"`
}

// Authorize performs account authorization with the long-lived key pair and
// returns a fresh session. It does not touch the cache; use Session for the
// cached path.
func (g *Gateway) Authorize(ctx context.Context) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.AuthURL, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to build authorize request: %w", err)
	}
	req.SetBasicAuth(g.cfg.KeyID, g.cfg.AppKey)

	res, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage: authorize request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		log.Error().Int("status", res.StatusCode).Msg("storage: account authorization rejected")
		return nil, fmt.Errorf("%w: status %d", ErrStorageAuth, res.StatusCode)
	}

	var body authorizeResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("storage: failed to decode authorize response: %w", err)
	}

	return &Session{
		AccountID:          body.AccountID,
		APIURL:             body.APIURL,
		DownloadURL:        body.DownloadURL,
		AuthorizationToken: body.AuthorizationToken,
		BucketID:           body.Allowed.BucketID,
	}, nil
}

// Session returns the cached session, authorizing (and resolving the bucket
// id if needed) on first use. Concurrent first callers share one in-flight
// authorization via singleflight.
func (g *Gateway) Session(ctx context.Context) (*Session, error) {
	g.mu.RLock()
	cached := g.session
	g.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := g.sf.Do("authorize", func() (interface{}, error) {
		sess, err := g.Authorize(ctx)
		if err != nil {
			return nil, err
		}
		if sess.BucketID == "" {
			bucketID, err := g.resolveBucketID(ctx, sess)
			if err != nil {
				return nil, err
			}
			sess.BucketID = bucketID
		}

		g.mu.Lock()
		g.session = sess
		g.mu.Unlock()

		log.Info().Str("bucket", g.cfg.BucketName).Msg("storage: session established")
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// Invalidate drops the cached session so the next caller re-authorizes.
func (g *Gateway) Invalidate() {
	g.mu.Lock()
	g.session = nil
	g.mu.Unlock()
}

type listBucketsResponse struct {
	Buckets []struct {
		BucketID   string `json:"bucketId"`
		BucketName string `json:"bucketName"`
	} `json:"buckets"`
}

// resolveBucketID looks up the configured bucket by exact name. Needed only
// when the account key is not restricted to a single bucket.
func (g *Gateway) resolveBucketID(ctx context.Context, sess *Session) (string, error) {
	payload := map[string]interface{}{
		"accountId":   sess.AccountID,
		"bucketTypes": []string{"allPrivate", "allPublic"},
	}

	var body listBucketsResponse
	if err := g.apiCall(ctx, sess, "b2_list_buckets", payload, &body); err != nil {
		return "", err
	}

	for _, b := range body.Buckets {
		if b.BucketName == g.cfg.BucketName {
			return b.BucketID, nil
		}
	}

	log.Error().Str("bucket", g.cfg.BucketName).Msg("storage: configured bucket not found in account")
	return "", fmt.Errorf("%w: %s", ErrBucketNotFound, g.cfg.BucketName)
}

// apiCall posts a JSON payload to an authenticated provider endpoint.
// A 401-class status is reported as ErrStorageAuth so callers can
// invalidate the session and retry once.
func (g *Gateway) apiCall(ctx context.Context, sess *Session, op string, payload interface{}, out interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("storage: failed to marshal %s payload: %w", op, err)
	}

	url := sess.APIURL + "/b2api/v2/" + op
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("storage: failed to build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", sess.AuthorizationToken)

	res, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("storage: %s request failed: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s returned 401", ErrStorageAuth, op)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrTokenIssuance, op, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("storage: failed to decode %s response: %w", op, err)
	}
	return nil
}

// withSession runs fn with the cached session, re-authorizing exactly once
// if the provider rejects the cached token. Provider tokens are valid for
// hours, so a second consecutive failure is a configuration problem and is
// returned as-is.
func (g *Gateway) withSession(ctx context.Context, fn func(*Session) error) error {
	sess, err := g.Session(ctx)
	if err != nil {
		return err
	}

	err = fn(sess)
	if isAuthErr(err) {
		log.Warn().Msg("storage: cached session rejected, re-authorizing")
		g.Invalidate()
		sess, err = g.Session(ctx)
		if err != nil {
			return err
		}
		return fn(sess)
	}
	return err
}
