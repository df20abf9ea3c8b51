package softwaremodule

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// IsSemanticVersion reports whether raw parses as a semantic version. Loose
// forms such as "1.2" or "v1.2.3" are accepted.
func IsSemanticVersion(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}
	_, err := semver.NewVersion(trimmed)
	return err == nil
}

// CompareVersions orders two version strings. Semantic versions compare by
// precedence; anything else falls back to a lexical comparison, and
// semantic versions sort before free-form ones.
func CompareVersions(a, b string) int {
	va, errA := semver.NewVersion(strings.TrimSpace(a))
	vb, errB := semver.NewVersion(strings.TrimSpace(b))
	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
