package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixstore/internal/storage"
)

func TestComposeSignedURL(t *testing.T) {
	url := storage.ComposeSignedURL("https://f005.backblazeb2.com", "my-bucket", "videos/123.mp4", "tok_abc")
	assert.Equal(t, "https://f005.backblazeb2.com/file/my-bucket/videos/123.mp4?Authorization=tok_abc", url)
}

func TestParseSignedURL_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		objectKey string
		token     string
	}{
		{name: "single_object", objectKey: "videos/123.mp4", token: "tok_abc"},
		{name: "nested_folder", objectKey: "courses/intro/lesson1.mp4", token: "4_z927c8"},
		{name: "folder_prefix", objectKey: "videos/", token: "tok_prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := storage.ComposeSignedURL("https://f005.backblazeb2.com", "my-bucket", tt.objectKey, tt.token)

			key, token, err := storage.ParseSignedURL(url)
			require.NoError(t, err)
			assert.Equal(t, tt.objectKey, key)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestParseSignedURL_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no_token", raw: "https://f005.backblazeb2.com/file/my-bucket/videos/123.mp4"},
		{name: "no_file_segment", raw: "https://f005.backblazeb2.com/videos/123.mp4?Authorization=tok"},
		{name: "no_key", raw: "https://f005.backblazeb2.com/file/my-bucket?Authorization=tok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := storage.ParseSignedURL(tt.raw)
			assert.Error(t, err)
		})
	}
}
