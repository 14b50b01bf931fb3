package cruxlib

import (
	version "github.com/hashicorp/go-version"
)

// MustVersion parses a version string and panics on failure. Intended
// for registration code paths where the version is a compile-time or
// configuration constant.
func MustVersion(s string) *version.Version {
	return version.Must(version.NewVersion(s))
}

// isVersionNewer reports whether proposed parses as a valid version
// strictly newer than current. An unparseable proposed version is never
// newer.
func isVersionNewer(current *version.Version, proposed string) bool {
	pv, err := version.NewVersion(proposed)
	if err != nil {
		return false
	}
	return current.LessThan(pv)
}
