package errors

import (
	"strconv"
	"strings"
	"unicode"
)

// maxPathSegments bounds a selection path. Real trees are a handful of
// levels deep (dewar, rack, box, slot).
const maxPathSegments = 64

// ParsePath splits a slash-separated selection path ("Rack 1/Box 3") into
// its label segments. Blanks around the path and its segments are trimmed.
// Empty input selects the root and yields nil.
//
// Labels may not contain control characters. Empty segments are rejected
// because the empty label marks placeholder slots, which can never be
// selected.
func ParsePath(s string) ([]string, error) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) > maxPathSegments {
		return nil, New(ErrCodeInvalidPath, "path too deep (max %d segments)", maxPathSegments)
	}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		parts[i] = p
		if p == "" {
			return nil, New(ErrCodeInvalidPath, "path %q contains an empty segment", s)
		}
		for _, r := range p {
			if unicode.IsControl(r) {
				return nil, New(ErrCodeInvalidPath, "path contains invalid control characters")
			}
		}
	}
	return parts, nil
}

// ParseContainerID parses a top-level container identifier. Identifiers are
// positive integers assigned by the report API.
func ParseContainerID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidInput, err, "invalid container id %q", s)
	}
	if id <= 0 {
		return 0, New(ErrCodeInvalidInput, "container id must be positive, got %d", id)
	}
	return id, nil
}
