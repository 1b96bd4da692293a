package client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/neondatabase/neon-api-go/pkg/neon"
)

// buildPath joins path segments with single slashes. Each segment is trimmed
// of surrounding slashes and escaped, so ids may be passed with or without
// them. A segment that is empty after trimming is rejected.
func buildPath(segments ...string) (string, error) {
	parts := make([]string, 0, len(segments))

	for i, segment := range segments {
		trimmed := strings.Trim(segment, "/")
		if trimmed == "" {
			return "", fmt.Errorf("segment %d of %q: %w", i, strings.Join(segments, "/"), neon.ErrEmptyPathSegment)
		}

		parts = append(parts, url.PathEscape(trimmed))
	}

	return strings.Join(parts, "/"), nil
}
