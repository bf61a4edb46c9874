package potree

import (
	"github.com/Masterminds/semver/v3"

	pc "github.com/ehtick/threejs-potree-core/pointcloud"
)

// legacyVersion is the last format version that embeds the full hierarchy
// inline in the metadata document; later versions fetch hierarchy slices per
// node on demand.
const legacyVersion = "1.4"

// Version is a parsed format version. Immutable once constructed.
type Version struct {
	v *semver.Version
}

// ParseVersion parses a dotted numeric version string such as "1.7".
// Missing trailing components count as zero, so "1" equals "1.0.0".
func ParseVersion(s string) (Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, pc.NewFormatErrorf("unrecognized format version %q", s)
	}
	return Version{v: v}, nil
}

// AtOrBelow reports whether the version is numerically at or below the
// threshold, compared component by component. The threshold is a known-good
// literal; an invalid one panics.
func (v Version) AtOrBelow(threshold string) bool {
	return !v.v.GreaterThan(semver.MustParse(threshold))
}

func (v Version) String() string {
	return v.v.String()
}
