// Package version owns the persisted pipeline version value. It parses the
// stored representation, computes bumped successors, and reads/writes the
// value through a narrow storage port so the release flow never touches the
// repository directly.
package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Bump identifies which version component a release increments.
type Bump string

const (
	// BumpMinor increments the minor component and resets patch to zero.
	BumpMinor Bump = "minor"

	// BumpPatch increments the patch component and leaves major/minor unchanged.
	BumpPatch Bump = "patch"
)

// String returns the bump kind as a plain string.
func (b Bump) String() string {
	return string(b)
}

// ErrMalformedVersion is returned when a stored version value does not parse
// as three non-negative integers separated by two dots. Callers must treat
// this as fatal and halt before any tag, release, or branch work.
var ErrMalformedVersion = errors.New("malformed version")

// Version is a released version of the service, serialized canonically as
// "major.minor.patch".
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// String returns the canonical "major.minor.patch" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// TagName returns the immutable tag name for this version ("v" + version).
func (v Version) TagName() string {
	return "v" + v.String()
}

// Parse parses a stored version value. Only the plain core form is accepted:
// pre-release suffixes and build metadata are rejected as malformed, since
// the ledger never publishes them.
func Parse(raw string) (Version, error) {
	trimmed := strings.TrimSpace(raw)

	sv, err := semver.StrictNewVersion(trimmed)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: %v", ErrMalformedVersion, trimmed, err)
	}

	if sv.Prerelease() != "" || sv.Metadata() != "" {
		return Version{}, fmt.Errorf("%w: %q: pre-release and metadata are not allowed", ErrMalformedVersion, trimmed)
	}

	return Version{Major: sv.Major(), Minor: sv.Minor(), Patch: sv.Patch()}, nil
}

// Next returns the version that follows v under the given bump rule.
// A minor bump resets patch to zero; a patch bump preserves major and minor.
// There is no major bump path: the commit convention carries no
// breaking-change signal.
func (v Version) Next(bump Bump) (Version, error) {
	sv := semver.New(v.Major, v.Minor, v.Patch, "", "")

	var next semver.Version
	switch bump {
	case BumpMinor:
		next = sv.IncMinor()
	case BumpPatch:
		next = sv.IncPatch()
	default:
		return Version{}, fmt.Errorf("unknown bump kind: %q", bump)
	}

	return Version{Major: next.Major(), Minor: next.Minor(), Patch: next.Patch()}, nil
}

// Compare returns -1, 0, or 1 depending on whether v is less than, equal to,
// or greater than other.
func (v Version) Compare(other Version) int {
	a := semver.New(v.Major, v.Minor, v.Patch, "", "")
	b := semver.New(other.Major, other.Minor, other.Patch, "", "")
	return a.Compare(b)
}
