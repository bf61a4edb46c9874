package octree

import (
	pc "github.com/ehtick/threejs-potree-core/pointcloud"
)

// ParseName splits a node name into the octant index within its parent, the
// parent's name and the node's level. The root parses to level 0 with no
// parent. A name that is empty, does not start with the root sentinel, or
// contains a non-octal digit is a format error; there is no recovery from a
// corrupt name.
func ParseName(name string) (octant int, parent string, level int, err error) {
	if name == "" {
		return 0, "", 0, pc.NewFormatErrorf("empty node name")
	}
	if name[0] != RootName[0] {
		return 0, "", 0, pc.NewFormatErrorf("node name %q does not start with root sentinel %q", name, RootName)
	}
	for i := 1; i < len(name); i++ {
		if name[i] < '0' || name[i] > '7' {
			return 0, "", 0, pc.NewFormatErrorf("node name %q has invalid octant digit %q", name, name[i])
		}
	}
	level = len(name) - 1
	if level == 0 {
		return 0, "", 0, nil
	}
	return int(name[len(name)-1] - '0'), name[:len(name)-1], level, nil
}

// HierarchyPath returns the directory chain a node's payload lives under
// when the octree directory splits into subfolders every stepSize levels:
// the root folder followed by one folder per full stepSize digits of the
// node's address.
func HierarchyPath(name string, stepSize int) string {
	path := RootName
	if stepSize <= 0 {
		return path
	}
	digits := name[len(RootName):]
	for i := 0; i+stepSize <= len(digits); i += stepSize {
		path += "/" + digits[i:i+stepSize]
	}
	return path
}
