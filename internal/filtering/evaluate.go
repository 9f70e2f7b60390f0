package filtering

import (
	"strings"

	"github.com/harrison/plumb/internal/models"
)

// Evaluate reports whether info satisfies every non-empty field of filtering.
func Evaluate(filtering models.FileFiltering, info models.PathInfo) bool {
	path := info.Path
	switch {
	case !matchesAny(filtering.WithPathStarting, true, func(v string) bool { return strings.HasPrefix(path, v) }):
		return false
	case !matchesAny(filtering.WithoutPathStarting, false, func(v string) bool { return strings.HasPrefix(path, v) }):
		return false
	case !matchesAny(filtering.WithExtension, true, func(v string) bool { return strings.HasSuffix(path, v) }):
		return false
	case !matchesAny(filtering.WithoutExtension, false, func(v string) bool { return strings.HasSuffix(path, v) }):
		return false
	case !matchesAny(filtering.WithPathSegment, true, func(v string) bool { return strings.Contains(path, v) }):
		return false
	case !matchesAny(filtering.WithoutPathSegment, false, func(v string) bool { return strings.Contains(path, v) }):
		return false
	case !matchesAny(filtering.WithTag, true, info.HasTag):
		return false
	case !matchesAny(filtering.WithoutTag, false, info.HasTag):
		return false
	case !matchesAny(filtering.WithTagStarting, true, func(v string) bool { return hasTagStarting(info, v) }):
		return false
	case !matchesAny(filtering.WithoutTagStarting, false, func(v string) bool { return hasTagStarting(info, v) }):
		return false
	}
	return true
}

// Apply keeps the entries accepted by filtering, preserving order.
func Apply(filtering models.FileFiltering, infos []models.PathInfo) []models.PathInfo {
	kept := make([]models.PathInfo, 0, len(infos))
	for _, info := range infos {
		if Evaluate(filtering, info) {
			kept = append(kept, info)
		}
	}
	return kept
}

// matchesAny tests one field. An empty field is vacuously satisfied; otherwise
// the field holds when some value matches (want=true) or none does (want=false).
func matchesAny(values []string, want bool, match func(string) bool) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if match(v) {
			return want
		}
	}
	return !want
}

func hasTagStarting(info models.PathInfo, prefix string) bool {
	for _, tag := range info.Tags {
		if strings.HasPrefix(tag, prefix) {
			return true
		}
	}
	return false
}
