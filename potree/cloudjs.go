package potree

import (
	"encoding/json"

	"github.com/golang/geo/r3"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	pc "github.com/ehtick/threejs-potree-core/pointcloud"
)

// BoundsJSON is the corner encoding cloud.js uses for bounding boxes.
type BoundsJSON struct {
	Lx float64 `json:"lx"`
	Ly float64 `json:"ly"`
	Lz float64 `json:"lz"`
	Ux float64 `json:"ux"`
	Uy float64 `json:"uy"`
	Uz float64 `json:"uz"`
}

func (b BoundsJSON) box() pc.Box {
	return pc.Box{
		Min: r3.Vector{X: b.Lx, Y: b.Ly, Z: b.Lz},
		Max: r3.Vector{X: b.Ux, Y: b.Uy, Z: b.Uz},
	}
}

// PointAttributes is the ordered list of per-point attribute names. Older
// documents store a single string such as "LAZ", newer ones an array; both
// decode to a list.
type PointAttributes []string

// UnmarshalJSON accepts both the string and the array form.
func (a *PointAttributes) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*a = PointAttributes{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*a = PointAttributes(many)
	return nil
}

// Has reports whether the attribute list names the given attribute.
func (a PointAttributes) Has(name string) bool {
	for _, attr := range a {
		if attr == name {
			return true
		}
	}
	return false
}

// Scale is the per-axis quantization scale. Documents store either a single
// number applied to every axis or a 3-array.
type Scale r3.Vector

// UnmarshalJSON accepts both the scalar and the 3-array form.
func (s *Scale) UnmarshalJSON(data []byte) error {
	var one float64
	if err := json.Unmarshal(data, &one); err == nil {
		*s = Scale{X: one, Y: one, Z: one}
		return nil
	}
	var many []float64
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	if len(many) != 3 {
		return pc.NewFormatErrorf("scale must have 1 or 3 components, got %d", len(many))
	}
	*s = Scale{X: many[0], Y: many[1], Z: many[2]}
	return nil
}

// HierarchyEntryJSON is one ["name", count] pair of the legacy inline
// hierarchy list.
type HierarchyEntryJSON struct {
	Name      string
	NumPoints int64
}

// UnmarshalJSON decodes the two-element array form the document uses.
func (h *HierarchyEntryJSON) UnmarshalJSON(data []byte) error {
	var fields []interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) != 2 {
		return pc.NewFormatErrorf("hierarchy entry must be [name, count], got %d fields", len(fields))
	}
	name, ok := fields[0].(string)
	if !ok {
		return pc.NewFormatErrorf("hierarchy entry name must be a string, got %T", fields[0])
	}
	count, ok := fields[1].(float64)
	if !ok {
		return pc.NewFormatErrorf("hierarchy entry count must be a number, got %T", fields[1])
	}
	h.Name = name
	h.NumPoints = int64(count)
	return nil
}

// CloudJS is the parsed cloud.js metadata document describing a whole point
// cloud. It is parsed once per cloud and immutable afterwards.
type CloudJS struct {
	Version           string               `json:"version"`
	OctreeDir         string               `json:"octreeDir"`
	Projection        string               `json:"projection"`
	Points            int64                `json:"points"`
	BoundingBox       BoundsJSON           `json:"boundingBox"`
	TightBoundingBox  *BoundsJSON          `json:"tightBoundingBox"`
	PointAttributes   PointAttributes      `json:"pointAttributes"`
	Spacing           float64              `json:"spacing"`
	Scale             Scale                `json:"scale"`
	HierarchyStepSize int                  `json:"hierarchyStepSize"`
	Hierarchy         []HierarchyEntryJSON `json:"hierarchy"`
}

// ParseCloudJS parses and validates a raw cloud.js document. The file is
// JS-flavored JSON in the wild, so it goes through the json5 reader. A
// document that fails to parse or misses required fields fails the whole
// load before any node exists.
func ParseCloudJS(raw []byte) (*CloudJS, error) {
	var doc CloudJS
	if err := json5.Unmarshal(raw, &doc); err != nil {
		return nil, pc.NewFormatErrorf("malformed cloud.js document: %v", err)
	}
	if doc.Version == "" {
		return nil, pc.NewFormatErrorf("cloud.js document declares no version")
	}
	if doc.Spacing <= 0 {
		return nil, pc.NewFormatErrorf("cloud.js document has non-positive spacing %v", doc.Spacing)
	}
	box := doc.BoundingBox.box()
	if box.Min.X > box.Max.X || box.Min.Y > box.Max.Y || box.Min.Z > box.Max.Z {
		return nil, pc.NewFormatErrorf("cloud.js bounding box has inverted corners")
	}
	return &doc, nil
}
