// Package version compares dotted numeric version strings as used by the
// app stores ("1.4.2", "2.0", "3").
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned when a version string contains a segment that is
// not a non-negative base-10 integer. Pre-release and build-metadata
// suffixes ("1.2.0-beta") are rejected: store builds carry plain dotted
// versions, and silently ordering malformed input has bitten us before.
var ErrMalformed = errors.New("malformed version")

// Version is an ordered sequence of non-negative integer segments.
// Segment count is not fixed; missing trailing segments compare as zero,
// so "1.2" and "1.2.0" are equal.
type Version []int

// Parse parses a dotted version string like "1.4.2" or "v1.4.2".
func Parse(s string) (Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "v")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty string", ErrMalformed)
	}

	parts := strings.Split(trimmed, ".")
	v := make(Version, len(parts))
	for i, part := range parts {
		// ParseUint rejects signs, so "+2" and "-2" are both malformed.
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %q in %q", ErrMalformed, part, s)
		}
		v[i] = int(n)
	}
	return v, nil
}

// Compare returns -1 if v < other, 0 if equal, 1 if v > other.
// The shorter version is zero-padded to the length of the longer one.
func (v Version) Compare(other Version) int {
	n := len(v)
	if len(other) > n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		a, b := v.segment(i), other.segment(i)
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

// LessThan returns true if v < other.
func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

func (v Version) segment(i int) int {
	if i < len(v) {
		return v[i]
	}
	return 0
}

// String returns the version in dotted form, e.g. "1.4.2".
func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Compare parses both strings and compares them. Either string failing to
// parse fails the whole comparison; there is no NaN-style partial order.
func Compare(a, b string) (int, error) {
	av, err := Parse(a)
	if err != nil {
		return 0, err
	}
	bv, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return av.Compare(bv), nil
}

// IsUpdateRequired reports whether current orders strictly before minimum.
func IsUpdateRequired(current, minimum string) (bool, error) {
	cmp, err := Compare(current, minimum)
	if err != nil {
		return false, err
	}
	return cmp < 0, nil
}
