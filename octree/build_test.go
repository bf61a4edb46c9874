package octree

import (
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	pc "github.com/ehtick/threejs-potree-core/pointcloud"
)

func cube10() pc.Box {
	return pc.Box{Max: r3.Vector{X: 10, Y: 10, Z: 10}}
}

func TestChildBoundsPartition(t *testing.T) {
	parent := pc.Box{
		Min: r3.Vector{X: -4, Y: 2, Z: 10},
		Max: r3.Vector{X: 4, Y: 10, Z: 30},
	}
	parentSize := parent.Size()
	var volume float64
	for octant := 0; octant < 8; octant++ {
		child := ChildBounds(parent, octant)
		size := child.Size()

		// each octant has exactly half the parent extent per axis
		test.That(t, size.X, test.ShouldAlmostEqual, parentSize.X/2)
		test.That(t, size.Y, test.ShouldAlmostEqual, parentSize.Y/2)
		test.That(t, size.Z, test.ShouldAlmostEqual, parentSize.Z/2)
		volume += size.X * size.Y * size.Z

		// bit 2 selects the upper X half, bit 1 upper Y, bit 0 upper Z
		wantMin := parent.Min
		if octant&4 != 0 {
			wantMin.X += parentSize.X / 2
		}
		if octant&2 != 0 {
			wantMin.Y += parentSize.Y / 2
		}
		if octant&1 != 0 {
			wantMin.Z += parentSize.Z / 2
		}
		test.That(t, child.Min, test.ShouldResemble, wantMin)
	}
	// volume preserving across the 8 siblings
	test.That(t, volume, test.ShouldAlmostEqual, parentSize.X*parentSize.Y*parentSize.Z)

	// siblings do not overlap: distinct octants differ in at least one axis half
	for a := 0; a < 8; a++ {
		for b := a + 1; b < 8; b++ {
			boxA := ChildBounds(parent, a)
			boxB := ChildBounds(parent, b)
			overlapX := boxA.Min.X < boxB.Max.X && boxB.Min.X < boxA.Max.X
			overlapY := boxA.Min.Y < boxB.Max.Y && boxB.Min.Y < boxA.Max.Y
			overlapZ := boxA.Min.Z < boxB.Max.Z && boxB.Min.Z < boxA.Max.Z
			test.That(t, overlapX && overlapY && overlapZ, test.ShouldBeFalse)
		}
	}
}

func TestNewRoot(t *testing.T) {
	root, index := NewRoot(cube10(), 2.5, 100)
	test.That(t, root.Name, test.ShouldEqual, RootName)
	test.That(t, root.Level, test.ShouldEqual, 0)
	test.That(t, root.Spacing, test.ShouldEqual, 2.5)
	test.That(t, root.NumPoints, test.ShouldEqual, 100)
	test.That(t, root.HasChildren, test.ShouldBeTrue)
	test.That(t, root.ParentName(), test.ShouldEqual, "")
	test.That(t, index, test.ShouldHaveLength, 1)
	test.That(t, index[RootName], test.ShouldEqual, root)
}

func TestPopulateScenario(t *testing.T) {
	root, index := NewRoot(cube10(), 1.0, 100)
	err := index.Populate([]HierarchyEntry{
		{Name: "r0", NumPoints: 40},
		{Name: "r03", NumPoints: 10},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, index, test.ShouldHaveLength, 3)

	r0 := index["r0"]
	test.That(t, r0, test.ShouldNotBeNil)
	test.That(t, r0.Level, test.ShouldEqual, 1)
	test.That(t, r0.NumPoints, test.ShouldEqual, 40)
	test.That(t, r0.Spacing, test.ShouldEqual, 0.5)
	test.That(t, r0.Box, test.ShouldResemble, ChildBounds(root.Box, 0))
	test.That(t, r0.Box.Max, test.ShouldResemble, r3.Vector{X: 5, Y: 5, Z: 5})
	test.That(t, root.Children[0], test.ShouldEqual, r0)

	r03 := index["r03"]
	test.That(t, r03, test.ShouldNotBeNil)
	test.That(t, r03.Level, test.ShouldEqual, 2)
	test.That(t, r03.NumPoints, test.ShouldEqual, 10)
	test.That(t, r03.Spacing, test.ShouldEqual, 0.25)
	test.That(t, r03.Box, test.ShouldResemble, ChildBounds(r0.Box, 3))
	test.That(t, r03.Box.Min, test.ShouldResemble, r3.Vector{X: 0, Y: 2.5, Z: 2.5})
	test.That(t, r03.Box.Max, test.ShouldResemble, r3.Vector{X: 2.5, Y: 5, Z: 5})
	test.That(t, r0.Children[3], test.ShouldEqual, r03)
	test.That(t, r0.HasChildren, test.ShouldBeTrue)
	test.That(t, r03.HasChildren, test.ShouldBeFalse)
	test.That(t, r03.ParentName(), test.ShouldEqual, "r0")
}

func TestPopulateRoundTrip(t *testing.T) {
	// every listed name must come back as a reachable node with matching
	// level and spacing, and no name may appear twice
	entries := []HierarchyEntry{
		{"r0", 10}, {"r1", 11}, {"r7", 12},
		{"r00", 5}, {"r07", 6}, {"r13", 7},
		{"r004", 2}, {"r0045", 1},
	}
	root, index := NewRoot(cube10(), 8.0, 50)
	test.That(t, index.Populate(entries), test.ShouldBeNil)
	test.That(t, index, test.ShouldHaveLength, len(entries)+1)

	for _, e := range entries {
		n := index[e.Name]
		test.That(t, n, test.ShouldNotBeNil)
		test.That(t, n.Level, test.ShouldEqual, len(e.Name)-1)
		test.That(t, n.NumPoints, test.ShouldEqual, e.NumPoints)
		want := root.Spacing
		for l := 0; l < n.Level; l++ {
			want /= 2
		}
		test.That(t, n.Spacing, test.ShouldEqual, want)

		parent := index[n.ParentName()]
		test.That(t, parent, test.ShouldNotBeNil)
		octant := int(e.Name[len(e.Name)-1] - '0')
		test.That(t, parent.Children[octant], test.ShouldEqual, n)
	}
}

func TestPopulateErrors(t *testing.T) {
	t.Run("missing parent is fatal", func(t *testing.T) {
		_, index := NewRoot(cube10(), 1.0, 1)
		err := index.Populate([]HierarchyEntry{{Name: "r03", NumPoints: 1}})
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "parent")
		test.That(t, errors.Is(err, pc.ErrFormat), test.ShouldBeTrue)
	})

	t.Run("malformed name is fatal", func(t *testing.T) {
		_, index := NewRoot(cube10(), 1.0, 1)
		err := index.Populate([]HierarchyEntry{{Name: "r9", NumPoints: 1}})
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, pc.ErrFormat), test.ShouldBeTrue)
	})

	t.Run("duplicate name is fatal", func(t *testing.T) {
		_, index := NewRoot(cube10(), 1.0, 1)
		err := index.Populate([]HierarchyEntry{
			{Name: "r0", NumPoints: 1},
			{Name: "r0", NumPoints: 2},
		})
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "duplicate")
	})

	t.Run("repeated root is fatal", func(t *testing.T) {
		_, index := NewRoot(cube10(), 1.0, 1)
		err := index.Populate([]HierarchyEntry{{Name: "r", NumPoints: 1}})
		test.That(t, err, test.ShouldNotBeNil)
	})
}
