// Package pointcloud decodes the fixed-layout, quantized binary point
// records of a potree octree into structure-of-arrays buffers usable by a
// renderer, computing tight-bounding-box and centroid aggregates in the same
// pass.
package pointcloud

import (
	"encoding/binary"
	"runtime"
	"sync"

	"github.com/golang/geo/r3"
	goutils "go.viam.com/utils"
)

// Little-endian byte offsets of the fields within one source record. The
// layout follows the LAS point record families: formats 0-3 share the first
// 20 bytes, format 2 adds three 16-bit color channels at 20.
const (
	recOffsetX         = 0
	recOffsetY         = 4
	recOffsetZ         = 8
	recOffsetIntensity = 12
	recOffsetFlags     = 14
	recOffsetSourceID  = 18
	recOffsetRed       = 20
	recOffsetGreen     = 22
	recOffsetBlue      = 24
)

// FormatRGB is the point record format id whose records carry 16-bit RGB
// channels. Every other format id leaves the color buffer untouched.
const FormatRGB = 2

const (
	minRecordSize    = 20
	minRecordSizeRGB = 26
)

// DecodeParams are the per-payload parameters of a decode: the declared
// record count and size, the record format id, and the quantization
// constants. Min is the overall minimum of the whole cloud; it is distinct
// from, and layered on top of, the offset already baked into the hierarchy's
// bounding boxes.
type DecodeParams struct {
	NumPoints  int
	RecordSize int
	FormatID   uint8
	Scale      r3.Vector
	Offset     r3.Vector
	Min        r3.Vector
}

func (p DecodeParams) validate(buflen int) error {
	if p.NumPoints < 0 {
		return NewFormatErrorf("negative point count %d", p.NumPoints)
	}
	minSize := minRecordSize
	if p.FormatID == FormatRGB {
		minSize = minRecordSizeRGB
	}
	if p.RecordSize < minSize {
		return NewFormatErrorf("record size %d below minimum %d for point format %d",
			p.RecordSize, minSize, p.FormatID)
	}
	if need := p.NumPoints * p.RecordSize; buflen < need {
		return &BoundsError{Need: need, Have: buflen}
	}
	return nil
}

// Decode converts a raw record-major payload into a Block in a single pass,
// accumulating the mean position and tight bounding box alongside the field
// extraction. Per-axis world positions are quantized*scale + offset - min.
// The decode is pure: identical inputs yield bit-identical output buffers.
// The input buffer is not retained.
func Decode(buf []byte, p DecodeParams) (*Block, error) {
	if err := p.validate(len(buf)); err != nil {
		return nil, err
	}
	blk := newBlock(p.NumPoints)
	if p.NumPoints == 0 {
		return blk, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > p.NumPoints {
		workers = p.NumPoints
	}
	chunk := (p.NumPoints + workers - 1) / workers

	parts := make([]partial, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > p.NumPoints {
			end = p.NumPoints
		}
		if start >= end {
			continue
		}
		w := w
		wg.Add(1)
		goutils.PanicCapturingGo(func() {
			defer wg.Done()
			parts[w] = decodeRange(buf, p, blk, start, end)
		})
	}
	wg.Wait()

	// Partials merge in chunk order so repeated decodes agree bit for bit.
	for _, part := range parts {
		if part.n == 0 {
			continue
		}
		blk.Mean = blk.Mean.Add(part.mean)
		blk.Tight.Include(part.tight.Min)
		blk.Tight.Include(part.tight.Max)
	}
	return blk, nil
}

// partial carries one chunk's share of the running aggregates. Each chunk
// writes a disjoint index range of the output buffers, so no locking is
// needed.
type partial struct {
	n     int
	mean  r3.Vector
	tight Box
}

func decodeRange(buf []byte, p DecodeParams, blk *Block, start, end int) partial {
	part := partial{tight: NewEmptyBox()}
	// Dividing each contribution by N before summing trades a little
	// precision for not needing wide accumulators on huge payloads.
	invN := 1.0 / float64(p.NumPoints)
	for i := start; i < end; i++ {
		rec := buf[i*p.RecordSize : (i+1)*p.RecordSize]

		world := r3.Vector{
			X: float64(int32(binary.LittleEndian.Uint32(rec[recOffsetX:])))*p.Scale.X + p.Offset.X - p.Min.X,
			Y: float64(int32(binary.LittleEndian.Uint32(rec[recOffsetY:])))*p.Scale.Y + p.Offset.Y - p.Min.Y,
			Z: float64(int32(binary.LittleEndian.Uint32(rec[recOffsetZ:])))*p.Scale.Z + p.Offset.Z - p.Min.Z,
		}
		blk.Positions[3*i] = float32(world.X)
		blk.Positions[3*i+1] = float32(world.Y)
		blk.Positions[3*i+2] = float32(world.Z)
		part.mean = part.mean.Add(world.Mul(invN))
		part.tight.Include(world)

		blk.Intensities[i] = float32(binary.LittleEndian.Uint16(rec[recOffsetIntensity:]))
		flags := rec[recOffsetFlags]
		blk.ReturnNumbers[i] = flags & 0x7
		blk.NumReturns[i] = (flags >> 3) & 0x7
		blk.SourceIDs[i] = binary.LittleEndian.Uint16(rec[recOffsetSourceID:])

		if p.FormatID == FormatRGB {
			blk.Colors[4*i] = uint8(binary.LittleEndian.Uint16(rec[recOffsetRed:]) / 256)
			blk.Colors[4*i+1] = uint8(binary.LittleEndian.Uint16(rec[recOffsetGreen:]) / 256)
			blk.Colors[4*i+2] = uint8(binary.LittleEndian.Uint16(rec[recOffsetBlue:]) / 256)
			blk.Colors[4*i+3] = 255
		}
		part.n++
	}
	return part
}
