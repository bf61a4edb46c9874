package potree

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	"github.com/ehtick/threejs-potree-core/octree"
	pc "github.com/ehtick/threejs-potree-core/pointcloud"
)

// RecordSize returns the source record size in bytes for a point record
// format id.
func RecordSize(formatID uint8) (int, error) {
	switch formatID {
	case 0:
		return 20, nil
	case 1:
		return 28, nil
	case 2:
		return 26, nil
	case 3:
		return 34, nil
	default:
		return 0, pc.NewFormatErrorf("unsupported point format id %d", formatID)
	}
}

// FormatID picks the record format implied by the document's attribute
// list: anything carrying packed color decodes as the RGB format, the rest
// as the bare position format.
func (g *Geometry) FormatID() uint8 {
	if g.Attributes.Has("COLOR_PACKED") || g.Attributes.Has("LAS") || g.Attributes.Has("LAZ") {
		return pc.FormatRGB
	}
	return 0
}

// BinaryLoader fetches a node's flat .bin payload and decodes it into the
// node, offloading the record decode to a parallel task. It is the default
// octree.Loader for documents whose payloads use the fixed LAS-style record
// layout.
type BinaryLoader struct {
	geom      *Geometry
	fetcher   Fetcher
	transform URLTransform
	logger    golog.Logger
}

// NewBinaryLoader wires a payload loader to a geometry's octree directory
// and quantization constants.
func NewBinaryLoader(geom *Geometry, fetcher Fetcher, transform URLTransform, logger golog.Logger) *BinaryLoader {
	if fetcher == nil {
		fetcher = &HTTPFetcher{}
	}
	if transform == nil {
		transform = PassThroughTransform
	}
	if logger == nil {
		logger = golog.NewLogger("potree.binloader")
	}
	return &BinaryLoader{geom: geom, fetcher: fetcher, transform: transform, logger: logger}
}

// Load fetches and decodes the node's payload. Nodes whose point count the
// document did not declare (modern-format roots report 0 until resolved)
// get it from the payload length. Loading an already loaded node is a no-op.
func (l *BinaryLoader) Load(ctx context.Context, n *octree.Node) error {
	if n.Loaded {
		return nil
	}

	rel := l.geom.OctreeDir + "/" + octree.HierarchyPath(n.Name, l.geom.HierarchyStepSize) + "/" + n.Name + ".bin"
	url, err := l.transform(ctx, rel)
	if err != nil {
		return &TransportError{URL: rel, Err: err}
	}
	raw, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}

	formatID := l.geom.FormatID()
	recordSize, err := RecordSize(formatID)
	if err != nil {
		return err
	}
	numPoints := int(n.NumPoints)
	if numPoints == 0 {
		numPoints = len(raw) / recordSize
	}

	// The raw buffer is handed to the decode task and never touched again;
	// the result comes back as one message.
	res := <-pc.DecodeAsync(raw, pc.DecodeParams{
		NumPoints:  numPoints,
		RecordSize: recordSize,
		FormatID:   formatID,
		Scale:      l.geom.Scale,
		Offset:     r3.Vector{},
		Min:        l.geom.Offset,
	})
	if res.Err != nil {
		return res.Err
	}
	n.Data = res.Block
	n.Loaded = true
	if n.NumPoints == 0 {
		n.NumPoints = int64(res.Block.Count)
	}
	l.logger.Debugw("node payload decoded", "node", n.Name, "points", res.Block.Count)
	return nil
}
