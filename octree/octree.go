// Package octree reconstructs the node hierarchy of a potree point cloud
// from its metadata: node naming and addressing, fixed octant subdivision of
// bounding boxes, and per-node spacing and point counts.
package octree

import (
	"context"

	pc "github.com/ehtick/threejs-potree-core/pointcloud"
)

// RootName is the sentinel name of the octree root. Every other node name
// appends one octal digit per level, each digit the octant index within the
// immediate parent.
const RootName = "r"

// Node is one octree cell. Ownership runs parent to children only; a node
// refers back to its parent by name, never by a second owning edge.
type Node struct {
	Name        string
	Level       int
	Box         pc.Box
	Spacing     float64
	NumPoints   int64
	HasChildren bool

	// Children is indexed by octant; unoccupied slots stay nil. Children are
	// created exactly once and never removed here; eviction is someone
	// else's concern.
	Children [8]*Node

	// Loaded and Data are filled in by a Loader once the node's payload has
	// been fetched and decoded.
	Loaded bool
	Data   *pc.Block
}

// ParentName returns the name of the node's parent; the root has none.
func (n *Node) ParentName() string {
	if len(n.Name) <= len(RootName) {
		return ""
	}
	return n.Name[:len(n.Name)-1]
}

// Loader materializes a node's binary payload on demand: it fetches the
// node's record buffer, decodes it and attaches the result. The potree
// loader invokes it eagerly for the root; everything deeper is loaded on
// demand by the caller.
type Loader interface {
	Load(ctx context.Context, n *Node) error
}
