package ebuild

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrNoVersions is returned when picking the latest of an empty set
var ErrNoVersions = errors.New("no versions to compare")

// Version suffix priorities (lower = earlier in release cycle)
var suffixPriority = map[string]int{
	"alpha": -4,
	"beta":  -3,
	"pre":   -2,
	"rc":    -1,
	"":      0, // release version
	"p":     1, // patch
}

// versionSuffixRegex matches suffixes like _rc1, _beta2, _alpha, _p1
var versionSuffixRegex = regexp.MustCompile(`_([a-z]+)(\d*)`)

// revisionRegex matches -r1, -r2, etc.
var revisionRegex = regexp.MustCompile(`-r(\d+)$`)

type suffix struct {
	kind string
	num  int
}

// versionParts is a version string broken into its comparable components
type versionParts struct {
	nums     []string
	letter   string
	suffixes []suffix
	revision int
}

// parseVersion breaks a version string into components for comparison.
// Unparseable pieces compare as zero rather than failing.
func parseVersion(v string) versionParts {
	var p versionParts

	// Extract revision first (-r1, -r2, etc.)
	if m := revisionRegex.FindStringSubmatch(v); m != nil {
		p.revision, _ = strconv.Atoi(m[1])
		v = v[:len(v)-len(m[0])]
	}

	// Extract every suffix in order (_rc1_p2 -> rc1, p2)
	for _, m := range versionSuffixRegex.FindAllStringSubmatch(v, -1) {
		s := suffix{kind: m[1]}
		if m[2] != "" {
			s.num, _ = strconv.Atoi(m[2])
		}
		p.suffixes = append(p.suffixes, s)
	}
	if i := strings.Index(v, "_"); i >= 0 {
		v = v[:i]
	}

	// Split numeric parts (1.0.1 -> 1, 0, 1); a trailing letter (1.0a) is kept apart
	parts := strings.Split(v, ".")
	p.nums = make([]string, len(parts))
	for i, part := range parts {
		numStr := strings.TrimRight(part, "abcdefghijklmnopqrstuvwxyz")
		if i == len(parts)-1 && len(numStr) < len(part) {
			p.letter = part[len(numStr):]
		}
		p.nums[i] = numStr
	}

	return p
}

// compareNumbers compares two digit strings by value, without overflow
func compareNumbers(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if c := compareInt(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// compareComponents orders the dotted numeric parts. The first part compares
// by value. A later part with a leading zero on either side compares as a
// string with trailing zeros dropped (1.01 < 1.1). When every shared part is
// equal the longer list wins (1.0 < 1.0.0).
func compareComponents(a, b []string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		var c int
		if i > 0 && (strings.HasPrefix(a[i], "0") || strings.HasPrefix(b[i], "0")) {
			c = strings.Compare(strings.TrimRight(a[i], "0"), strings.TrimRight(b[i], "0"))
		} else {
			c = compareNumbers(a[i], b[i])
		}
		if c != 0 {
			return c
		}
	}
	return compareInt(len(a), len(b))
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareSuffixes compares suffix lists pairwise; a missing suffix counts as a release
func compareSuffixes(a, b []suffix) int {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	for i := 0; i < maxLen; i++ {
		var as, bs suffix
		if i < len(a) {
			as = a[i]
		}
		if i < len(b) {
			bs = b[i]
		}
		if c := compareInt(suffixPriority[as.kind], suffixPriority[bs.kind]); c != 0 {
			return c
		}
		if c := compareInt(as.num, bs.num); c != 0 {
			return c
		}
	}
	return 0
}

// CompareVersions compares two Gentoo-style version strings
// Returns: -1 if v1 < v2, 0 if v1 == v2, 1 if v1 > v2
func CompareVersions(v1, v2 string) int {
	p1 := parseVersion(v1)
	p2 := parseVersion(v2)

	if c := compareComponents(p1.nums, p2.nums); c != 0 {
		return c
	}
	if c := strings.Compare(p1.letter, p2.letter); c != 0 {
		return c
	}
	// alpha < beta < pre < rc < release < p
	if c := compareSuffixes(p1.suffixes, p2.suffixes); c != 0 {
		return c
	}
	return compareInt(p1.revision, p2.revision)
}

// SortVersions returns a copy of versions ordered newest first.
// Equal versions keep their input order.
func SortVersions(versions []string) []string {
	sorted := make([]string, len(versions))
	copy(sorted, versions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return CompareVersions(sorted[i], sorted[j]) > 0
	})
	return sorted
}

// Latest returns the newest of versions
func Latest(versions []string) (string, error) {
	if len(versions) == 0 {
		return "", ErrNoVersions
	}
	return SortVersions(versions)[0], nil
}
