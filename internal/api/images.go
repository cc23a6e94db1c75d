package api

import (
	"path/filepath"
	"strings"
)

// PlaceholderImageURL is shown for events without an image.
const PlaceholderImageURL = "https://placehold.co/600x400.png"

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

func allowedImageExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range imageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Origin returns the base URL with a trailing /api removed.
func (c *Client) Origin() string {
	return strings.TrimSuffix(c.baseURL, "/api")
}

// ResolveImageURL turns an image path from the API into an absolute URL.
// Absolute URLs are returned unchanged, rooted paths are served from the
// origin, and bare names live under /api/uploads.
func (c *Client) ResolveImageURL(path string) string {
	switch {
	case path == "":
		return PlaceholderImageURL
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case strings.HasPrefix(path, "/"):
		return c.Origin() + path
	default:
		return c.Origin() + "/api/uploads/" + path
	}
}
