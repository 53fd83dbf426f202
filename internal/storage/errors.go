package storage

import "errors"

var (
	// ErrStorageAuth means the account credentials were rejected. A cached
	// session that went stale surfaces the same way; callers get one
	// re-authorization attempt before this is returned.
	ErrStorageAuth = errors.New("storage: account authorization failed")

	// ErrBucketNotFound means no bucket matched the configured name.
	ErrBucketNotFound = errors.New("storage: bucket not found")

	// ErrTokenIssuance means the provider refused to issue an upload or
	// download ticket. Safe to retry once.
	ErrTokenIssuance = errors.New("storage: token issuance failed")
)
