package semnote

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is a semantic version without build metadata.
type Version struct {
	Major      uint64
	Minor      uint64
	Patch      uint64
	Prerelease []string // dot-separated identifiers, empty for a release
}

// versionPattern accepts MAJOR.MINOR.PATCH with an optional prerelease made of
// dot-separated alphanumeric/hyphen segments.
var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`)

// ParseVersion parses a version string such as "1.2.3" or "2.5.0-beta.1".
// A leading "v" is tolerated. Build metadata and shorthand forms like "1.2"
// are rejected.
func ParseVersion(text string) (Version, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(text), "v")
	m := versionPattern.FindStringSubmatch(raw)
	if m == nil {
		return Version{}, &InvalidVersionError{Text: text, Err: fmt.Errorf("unexpected version format")}
	}
	if !semver.IsValid("v" + raw) {
		return Version{}, &InvalidVersionError{Text: text, Err: fmt.Errorf("not valid semver")}
	}

	var v Version
	var err error
	if v.Major, err = strconv.ParseUint(m[1], 10, 64); err != nil {
		return Version{}, &InvalidVersionError{Text: text, Err: err}
	}
	if v.Minor, err = strconv.ParseUint(m[2], 10, 64); err != nil {
		return Version{}, &InvalidVersionError{Text: text, Err: err}
	}
	if v.Patch, err = strconv.ParseUint(m[3], 10, 64); err != nil {
		return Version{}, &InvalidVersionError{Text: text, Err: err}
	}
	if m[4] != "" {
		v.Prerelease = strings.Split(m[4], ".")
	}
	return v, nil
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(text string) Version {
	v, err := ParseVersion(text)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders MAJOR.MINOR.PATCH[-PRERELEASE] without a "v" prefix.
func (v Version) String() string {
	base := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if len(v.Prerelease) > 0 {
		return base + "-" + strings.Join(v.Prerelease, ".")
	}
	return base
}

// Compare returns -1, 0 or +1 following semantic version precedence.
func (v Version) Compare(other Version) int {
	return semver.Compare("v"+v.String(), "v"+other.String())
}

// Equal reports whether both versions have identical components.
func (v Version) Equal(other Version) bool {
	return v.Major == other.Major &&
		v.Minor == other.Minor &&
		v.Patch == other.Patch &&
		slices.Equal(v.Prerelease, other.Prerelease)
}

// IncMajor bumps the major component, resetting minor, patch and prerelease.
// The Inc methods wrap at math.MaxUint64; FoldState.Step checks for overflow
// before calling them.
func (v Version) IncMajor() Version {
	return Version{Major: v.Major + 1}
}

// IncMinor bumps the minor component, resetting patch and prerelease.
func (v Version) IncMinor() Version {
	return Version{Major: v.Major, Minor: v.Minor + 1}
}

// IncPatch bumps the patch component and clears the prerelease.
func (v Version) IncPatch() Version {
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
}

// WithPrerelease replaces the prerelease with the single identifier label.
// An empty label clears it.
func (v Version) WithPrerelease(label string) Version {
	out := Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
	if label != "" {
		out.Prerelease = []string{label}
	}
	return out
}
