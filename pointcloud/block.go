package pointcloud

import (
	"github.com/golang/geo/r3"
)

// Block is the decoded form of one binary node payload: structure-of-arrays
// buffers sized exactly to the point count, all indexed 0..Count-1, plus the
// aggregates gathered during the decode pass. A Block is produced once and
// never mutated afterwards; ownership belongs entirely to whoever received
// it from the decoder.
type Block struct {
	Count int

	// Positions holds xyz triplets relative to the cloud's global minimum.
	Positions []float32
	// Colors holds rgba quadruplets. Alpha is 255 for records that carry
	// color; formats without color leave the whole buffer zero, which is the
	// documented default rather than undefined content.
	Colors        []uint8
	Intensities   []float32
	ReturnNumbers []uint8
	NumReturns    []uint8
	SourceIDs     []uint16
	// Indices is the identity index array the renderer uses for sorting and
	// picking.
	Indices []uint32

	// Mean is the arithmetic mean of all decoded positions; (0,0,0) when
	// Count is 0.
	Mean r3.Vector
	// Tight is the minimal box enclosing the decoded positions; left at its
	// infinite seed when Count is 0. Callers must special-case empty blocks
	// rather than trusting the aggregates.
	Tight Box
}

func newBlock(n int) *Block {
	b := &Block{
		Count:         n,
		Positions:     make([]float32, 3*n),
		Colors:        make([]uint8, 4*n),
		Intensities:   make([]float32, n),
		ReturnNumbers: make([]uint8, n),
		NumReturns:    make([]uint8, n),
		SourceIDs:     make([]uint16, n),
		Indices:       make([]uint32, n),
		Tight:         NewEmptyBox(),
	}
	for i := range b.Indices {
		b.Indices[i] = uint32(i)
	}
	return b
}

// Position returns the i-th decoded position.
func (b *Block) Position(i int) r3.Vector {
	return r3.Vector{
		X: float64(b.Positions[3*i]),
		Y: float64(b.Positions[3*i+1]),
		Z: float64(b.Positions[3*i+2]),
	}
}
