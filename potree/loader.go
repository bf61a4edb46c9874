// Package potree loads potree-format octree point clouds: it fetches and
// parses the cloud.js metadata document, reconstructs the node hierarchy for
// the document's format era, and decodes binary node payloads into
// renderer-ready buffers.
package potree

import (
	"context"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	"github.com/ehtick/threejs-potree-core/octree"
	pc "github.com/ehtick/threejs-potree-core/pointcloud"
)

// Geometry describes one loaded point cloud: the document fields a renderer
// needs plus the materialized hierarchy.
type Geometry struct {
	Version           Version
	OctreeDir         string
	Projection        string
	Points            int64
	Spacing           float64
	HierarchyStepSize int
	Attributes        PointAttributes
	Scale             r3.Vector

	// Offset is the minimum corner of the declared global bounding box. The
	// boxes below and every decoded position are relative to it; re-apply it
	// whenever absolute world coordinates are needed.
	Offset      r3.Vector
	BoundingBox pc.Box
	// TightBoundingBox stays at its empty seed when the document declares
	// none.
	TightBoundingBox pc.Box

	Root *octree.Node
	// Nodes maps node names to nodes. Built once during the load; immutable
	// afterwards, so concurrent readers are safe.
	Nodes octree.Index
}

// Options configures a Load. The zero value uses pass-through URL handling,
// a plain HTTP fetcher and the binary payload loader wired from the
// document.
type Options struct {
	Transform  URLTransform
	Fetcher    Fetcher
	NodeLoader octree.Loader
	Logger     golog.Logger
}

// Load fetches the metadata document at url, builds the octree hierarchy
// and eagerly loads the root node's payload. Documents at format 1.4 and
// older carry the entire tree inline and have it materialized here; newer
// documents leave everything below the root to on-demand loading. Every
// step either succeeds completely or fails the whole load; no partial tree
// escapes.
func Load(ctx context.Context, url string, opts Options) (*Geometry, error) {
	if opts.Transform == nil {
		opts.Transform = PassThroughTransform
	}
	if opts.Fetcher == nil {
		opts.Fetcher = &HTTPFetcher{}
	}
	if opts.Logger == nil {
		opts.Logger = golog.NewLogger("potree")
	}

	resolved, err := opts.Transform(ctx, url)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	raw, err := opts.Fetcher.Fetch(ctx, resolved)
	if err != nil {
		return nil, err
	}
	doc, err := ParseCloudJS(raw)
	if err != nil {
		return nil, err
	}
	version, err := ParseVersion(doc.Version)
	if err != nil {
		return nil, err
	}

	// The offset becomes the new origin for every stored box; decoded
	// positions subtract the same minimum independently during decode.
	globalBox := doc.BoundingBox.box()
	offset := globalBox.Min
	tight := pc.NewEmptyBox()
	if doc.TightBoundingBox != nil {
		tight = doc.TightBoundingBox.box().Translate(offset.Mul(-1))
	}

	// Two-era strategy, picked once: legacy documents know the root's point
	// count and the whole tree up front, modern ones resolve both lazily.
	legacy := version.AtOrBelow(legacyVersion)
	var rootPoints int64
	if legacy && len(doc.Hierarchy) > 0 {
		if doc.Hierarchy[0].Name != octree.RootName {
			return nil, pc.NewFormatErrorf("hierarchy list must start at %q, starts at %q",
				octree.RootName, doc.Hierarchy[0].Name)
		}
		rootPoints = doc.Hierarchy[0].NumPoints
	}

	root, index := octree.NewRoot(globalBox.Translate(offset.Mul(-1)), doc.Spacing, rootPoints)
	geom := &Geometry{
		Version:           version,
		OctreeDir:         doc.OctreeDir,
		Projection:        doc.Projection,
		Points:            doc.Points,
		Spacing:           doc.Spacing,
		HierarchyStepSize: doc.HierarchyStepSize,
		Attributes:        doc.PointAttributes,
		Scale:             r3.Vector(doc.Scale),
		Offset:            offset,
		BoundingBox:       root.Box,
		TightBoundingBox:  tight,
	}

	loader := opts.NodeLoader
	if loader == nil {
		loader = NewBinaryLoader(geom, opts.Fetcher, opts.Transform, opts.Logger)
	}
	start := time.Now()
	if err := loader.Load(ctx, root); err != nil {
		return nil, err
	}
	opts.Logger.Debugw("root payload loaded", "points", root.NumPoints, "took", time.Since(start))

	if legacy && len(doc.Hierarchy) > 1 {
		if err := index.Populate(hierarchyEntries(doc.Hierarchy[1:])); err != nil {
			return nil, err
		}
	}
	opts.Logger.Debugf("loaded potree geometry %q with %d node(s)", doc.OctreeDir, len(index))

	geom.Root = root
	geom.Nodes = index
	return geom, nil
}

func hierarchyEntries(entries []HierarchyEntryJSON) []octree.HierarchyEntry {
	out := make([]octree.HierarchyEntry, len(entries))
	for i, e := range entries {
		out[i] = octree.HierarchyEntry{Name: e.Name, NumPoints: e.NumPoints}
	}
	return out
}
