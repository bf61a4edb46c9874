package pointcloud

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestBoxInclude(t *testing.T) {
	box := NewEmptyBox()
	test.That(t, box.IsEmpty(), test.ShouldBeTrue)

	box.Include(r3.Vector{X: 1, Y: -2, Z: 3})
	test.That(t, box.IsEmpty(), test.ShouldBeFalse)
	test.That(t, box.Min, test.ShouldResemble, r3.Vector{X: 1, Y: -2, Z: 3})
	test.That(t, box.Max, test.ShouldResemble, r3.Vector{X: 1, Y: -2, Z: 3})

	box.Include(r3.Vector{X: -1, Y: 4, Z: 0})
	test.That(t, box.Min, test.ShouldResemble, r3.Vector{X: -1, Y: -2, Z: 0})
	test.That(t, box.Max, test.ShouldResemble, r3.Vector{X: 1, Y: 4, Z: 3})

	test.That(t, box.Size(), test.ShouldResemble, r3.Vector{X: 2, Y: 6, Z: 3})
	test.That(t, box.Center(), test.ShouldResemble, r3.Vector{X: 0, Y: 1, Z: 1.5})
}

func TestBoxTranslate(t *testing.T) {
	box := Box{Min: r3.Vector{X: 5, Y: 5, Z: 5}, Max: r3.Vector{X: 15, Y: 15, Z: 15}}
	moved := box.Translate(box.Min.Mul(-1))
	test.That(t, moved.Min, test.ShouldResemble, r3.Vector{})
	test.That(t, moved.Max, test.ShouldResemble, r3.Vector{X: 10, Y: 10, Z: 10})
	// original untouched
	test.That(t, box.Min, test.ShouldResemble, r3.Vector{X: 5, Y: 5, Z: 5})
}
