package nuget

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// LowerBound returns the minimum version admitted by a NuGet version range.
//
//	"1.0"         -> "1.0"   (minimum, inclusive)
//	"[1.0,2.0)"   -> "1.0"
//	"(1.0,)"      -> "1.0"   (exclusive minimum; the walk still starts there)
//	"[1.0]"       -> "1.0"
//	"(,2.0]"      -> ""      (no lower bound)
//
// Floating ranges ("1.*") resolve to their fixed prefix padded with zeros.
func LowerBound(rng string) string {
	r := strings.TrimSpace(rng)
	if r == "" {
		return ""
	}
	if r[0] == '[' || r[0] == '(' {
		r = strings.TrimLeft(r, "[(")
		r = strings.TrimRight(r, "])")
		lower, _, _ := strings.Cut(r, ",")
		r = strings.TrimSpace(lower)
	}
	if strings.Contains(r, "*") {
		r = strings.TrimSuffix(strings.ReplaceAll(r, "*", "0"), "-0")
	}
	return r
}

// IsPrerelease reports whether version carries a prerelease label.
// Build metadata ("+sha") is not a prerelease.
func IsPrerelease(version string) bool {
	v, _, _ := strings.Cut(version, "+")
	return strings.Contains(v, "-")
}

// Compare orders two NuGet versions, returning -1, 0 or 1. Versions are
// compared as semantic versions; NuGet's four-part versions and anything
// else semver rejects fall back to a numeric segment comparison.
func Compare(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return compareSegments(a, b)
}

// Latest returns the highest stable version in versions, or the highest
// prerelease when there is no stable one. ok is false for an empty list.
func Latest(versions []string) (latest string, ok bool) {
	var best, bestPre string
	for _, v := range versions {
		if IsPrerelease(v) {
			if bestPre == "" || Compare(v, bestPre) > 0 {
				bestPre = v
			}
			continue
		}
		if best == "" || Compare(v, best) > 0 {
			best = v
		}
	}
	if best != "" {
		return best, true
	}
	return bestPre, bestPre != ""
}

func compareSegments(a, b string) int {
	coreA, preA, _ := strings.Cut(strings.SplitN(a, "+", 2)[0], "-")
	coreB, preB, _ := strings.Cut(strings.SplitN(b, "+", 2)[0], "-")

	sa, sb := strings.Split(coreA, "."), strings.Split(coreB, ".")
	for i := range max(len(sa), len(sb)) {
		na, nb := segment(sa, i), segment(sb, i)
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
	}

	switch {
	case preA == preB:
		return 0
	case preA == "":
		return 1
	case preB == "":
		return -1
	default:
		return strings.Compare(strings.ToLower(preA), strings.ToLower(preB))
	}
}

func segment(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n := 0
	for _, r := range parts[i] {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
