package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pixstore/internal/stream"
)

func TestNormalizeObjectKey(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare_key_with_folder",
			raw:  "videos/123.mp4",
			want: "videos/123.mp4",
		},
		{
			name: "legacy_full_url",
			raw:  "https://f005.backblazeb2.com/file/brutal-b2-x93kd/videos/123.mp4",
			want: "videos/123.mp4",
		},
		{
			name: "full_url_with_query",
			raw:  "https://f005.backblazeb2.com/file/bucket/videos/123.mp4?Authorization=abc",
			want: "videos/123.mp4",
		},
		{
			name: "bare_filename_defaults_to_videos_folder",
			raw:  "123.mp4",
			want: "videos/123.mp4",
		},
		{
			name: "leading_slash",
			raw:  "/videos/123.mp4",
			want: "videos/123.mp4",
		},
		{
			name: "nested_folder_kept",
			raw:  "courses/intro/lesson1.mp4",
			want: "courses/intro/lesson1.mp4",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stream.NormalizeObjectKey(tt.raw))
		})
	}
}

func TestStripProviderURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "full_url",
			raw:  "https://f005.backblazeb2.com/file/bucket/banners/home.png",
			want: "banners/home.png",
		},
		{
			name: "bare_filename_not_prefixed",
			raw:  "home.png",
			want: "home.png",
		},
		{
			name: "leading_slash_key",
			raw:  "/banners/home.png",
			want: "banners/home.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stream.StripProviderURL(tt.raw))
		})
	}
}

func TestMediaProxyPath(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "provider_url_mapped_to_proxy",
			raw:  "https://f005.backblazeb2.com/file/brutal-b2-x93kd/videos/123.mp4",
			want: "/api/media/videos/123.mp4",
		},
		{
			name: "external_url_passes_through",
			raw:  "https://example.com/cover.jpg",
			want: "https://example.com/cover.jpg",
		},
		{
			name: "empty_gets_placeholder",
			raw:  "",
			want: "/placeholder.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stream.MediaProxyPath(tt.raw))
		})
	}
}
