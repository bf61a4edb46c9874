package octree

import (
	"math"

	pc "github.com/ehtick/threejs-potree-core/pointcloud"
)

// HierarchyEntry is one (name, point count) pair from a legacy metadata
// document's flat hierarchy list.
type HierarchyEntry struct {
	Name      string
	NumPoints int64
}

// Index is the name to node lookup table of one octree. It is written only
// during hierarchy construction; afterwards it is immutable and safe for
// concurrent readers.
type Index map[string]*Node

// NewRoot builds the level-0 node covering the full offset-relative global
// bounding box, together with an index seeded with it. The root always
// reports children: the format never stores a single-leaf tree.
func NewRoot(box pc.Box, spacing float64, numPoints int64) (*Node, Index) {
	root := &Node{
		Name:        RootName,
		Box:         box,
		Spacing:     spacing,
		NumPoints:   numPoints,
		HasChildren: true,
	}
	return root, Index{RootName: root}
}

// ChildBounds returns the axis-aligned box of one octant of parent. The
// writer-side convention is fixed: bit 0 of the octant index selects the
// upper Z half, bit 1 the upper Y half and bit 2 the upper X half. The 8
// octants exactly partition the parent box.
func ChildBounds(parent pc.Box, octant int) pc.Box {
	half := parent.Size().Mul(0.5)
	child := parent
	if octant&1 != 0 {
		child.Min.Z += half.Z
	} else {
		child.Max.Z -= half.Z
	}
	if octant&2 != 0 {
		child.Min.Y += half.Y
	} else {
		child.Max.Y -= half.Y
	}
	if octant&4 != 0 {
		child.Min.X += half.X
	} else {
		child.Max.X -= half.X
	}
	return child
}

// Populate attaches every entry of a legacy flat hierarchy list (the entries
// after the root's own) to the tree. The list is ordered parent before child
// by construction of the format, so a missing parent means the document is
// corrupt: the whole build is abandoned, never partially recovered.
func (idx Index) Populate(entries []HierarchyEntry) error {
	root, ok := idx[RootName]
	if !ok {
		return pc.NewFormatErrorf("hierarchy index has no root node")
	}
	for _, entry := range entries {
		octant, parentName, level, err := ParseName(entry.Name)
		if err != nil {
			return err
		}
		if level == 0 {
			return pc.NewFormatErrorf("hierarchy list names the root %q more than once", RootName)
		}
		if _, exists := idx[entry.Name]; exists {
			return pc.NewFormatErrorf("duplicate node %q in hierarchy list", entry.Name)
		}
		parent, ok := idx[parentName]
		if !ok {
			return pc.NewFormatErrorf("node %q has no parent %q in hierarchy list", entry.Name, parentName)
		}
		child := &Node{
			Name:      entry.Name,
			Level:     level,
			Box:       ChildBounds(parent.Box, octant),
			Spacing:   root.Spacing / math.Pow(2, float64(level)),
			NumPoints: entry.NumPoints,
		}
		parent.HasChildren = true
		parent.Children[octant] = child
		idx[entry.Name] = child
	}
	return nil
}
