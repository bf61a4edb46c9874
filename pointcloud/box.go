package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
)

// Box is an axis-aligned bounding box given by its two extreme corners.
type Box struct {
	Min r3.Vector
	Max r3.Vector
}

// NewEmptyBox returns a box seeded for running min/max accumulation: every
// point includes itself once merged, and an untouched box stays empty.
func NewEmptyBox() Box {
	return Box{
		Min: r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
}

// IsEmpty reports whether the box has never been extended past its seed.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Include grows the box to contain p.
func (b *Box) Include(p r3.Vector) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}

// Translate returns the box shifted by v.
func (b Box) Translate(v r3.Vector) Box {
	return Box{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

// Size returns the per-axis extent of the box.
func (b Box) Size() r3.Vector {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Box) Center() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}
