package storage

import (
	"testing"
)

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			"versioned url",
			"https://res.cloudinary.com/demo/image/upload/v123456789/posts/sample.jpg",
			"posts/sample",
		},
		{
			"unversioned url",
			"https://res.cloudinary.com/demo/image/upload/posts/sample.png",
			"posts/sample",
		},
		{
			"no folder",
			"https://res.cloudinary.com/demo/image/upload/v1/sample.webp",
			"sample",
		},
		{
			"no upload segment",
			"https://example.com/static/sample.jpg",
			"",
		},
		{
			"not a url",
			"://bad",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractPublicID(tt.url); got != tt.expected {
				t.Errorf("extractPublicID(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}
