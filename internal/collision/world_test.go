package collision

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/obbo/internal/scene"
)

func sphereAt(w *World, name string, pos mgl64.Vec3, r float64, mask Mask, tag Tag) *Collider {
	n := scene.NewNode(name)
	n.Pos = pos
	return w.Add(&Collider{Entity: name, Node: n, Radius: r, Into: mask, Tag: tag})
}

func TestRaySortedByDistance(t *testing.T) {
	w := NewWorld()
	sphereAt(w, "far", mgl64.Vec3{0, 10, 0}, 1, MaskPick, TagTerrain)
	sphereAt(w, "near", mgl64.Vec3{0, 5, 0}, 1, MaskPick, TagBuildSpot)
	sphereAt(w, "off-axis", mgl64.Vec3{5, 5, 0}, 1, MaskPick, TagTerrain)

	hits := w.Ray(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, MaskPick)
	require.Len(t, hits, 2)
	assert.Equal(t, "near", hits[0].Entity)
	assert.Equal(t, TagBuildSpot, hits[0].Tag)
	assert.InDelta(t, 4.0, hits[0].Distance, 1e-9)
	assert.InDelta(t, 4.0, hits[0].Point.Y(), 1e-9)
	assert.Equal(t, "far", hits[1].Entity)
}

func TestRayMaskFilters(t *testing.T) {
	w := NewWorld()
	sphereAt(w, "rock", mgl64.Vec3{0, 5, 0}, 1, MaskAsteroid, TagAsteroid)

	assert.Empty(t, w.Ray(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, MaskPick))
	assert.Len(t, w.Ray(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, MaskAsteroid), 1)
}

func TestRayFromInside(t *testing.T) {
	w := NewWorld()
	sphereAt(w, "planet", mgl64.Vec3{}, 2, MaskPick, TagTerrain)

	hits := w.Ray(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, MaskPick)
	require.Len(t, hits, 1)
	assert.InDelta(t, 2.0, hits[0].Distance, 1e-9)
}

func TestSegmentLength(t *testing.T) {
	w := NewWorld()
	sphereAt(w, "wall", mgl64.Vec3{0, 0, 6}, 1, MaskObstacle, TagObstacle)

	assert.Empty(t, w.Segment(mgl64.Vec3{}, mgl64.Vec3{0, 0, 4}, MaskObstacle))
	assert.Len(t, w.Segment(mgl64.Vec3{}, mgl64.Vec3{0, 0, 5.5}, MaskObstacle), 1)
}

func TestStashedCollidersAreSkipped(t *testing.T) {
	w := NewWorld()
	c := sphereAt(w, "slot", mgl64.Vec3{0, 3, 0}, 1, MaskPick, TagBuildSpot)
	c.Node.Stash()

	assert.Empty(t, w.Ray(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, MaskPick))
	c.Node.Unstash()
	assert.Len(t, w.Ray(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, MaskPick), 1)
}

func TestSpheresOverlap(t *testing.T) {
	w := NewWorld()
	a := sphereAt(w, "a", mgl64.Vec3{2, 0, 0}, 0.3, MaskAsteroid, TagAsteroid)
	a.Payload = 7
	sphereAt(w, "b", mgl64.Vec3{10, 0, 0}, 0.3, MaskAsteroid, TagAsteroid)

	spheres := []Sphere{
		{Center: mgl64.Vec3{-0.3, 0, 0}, Radius: 1.8},
		{Center: mgl64.Vec3{0.3, 0, 0}, Radius: 1.8},
	}
	hits := w.Spheres(spheres, MaskAsteroid)
	require.Len(t, hits, 1, "each collider is reported once")
	assert.Equal(t, 7, hits[0].Payload)
	assert.InDelta(t, 1.7, hits[0].Distance, 1e-9)
	assert.InDelta(t, 1.7, hits[0].Point.X(), 1e-9)
}

func TestScaledNodeGrowsCollider(t *testing.T) {
	w := NewWorld()
	root := scene.NewNode("bobber")
	root.Scale = 2
	w.Add(&Collider{Node: root, Center: mgl64.Vec3{0, 1, 0}, Radius: 1, Into: MaskPick})

	s := w.colliders[0].WorldSphere()
	assert.InDelta(t, 2.0, s.Radius, 1e-9)
	assert.InDelta(t, 2.0, s.Center.Y(), 1e-9)
}

func TestRemove(t *testing.T) {
	w := NewWorld()
	c := sphereAt(w, "x", mgl64.Vec3{}, 1, MaskPick, TagTerrain)
	assert.True(t, w.Remove(c))
	assert.False(t, w.Remove(c))
	assert.Equal(t, 0, w.Len())
}

func TestFirstTagged(t *testing.T) {
	hits := []Hit{{Tag: TagTerrain}, {Tag: TagBuildSpot, Entity: "slot"}}
	h, ok := FirstTagged(hits, TagBuildSpot)
	assert.True(t, ok)
	assert.Equal(t, "slot", h.Entity)

	_, ok = FirstTagged(hits, TagAsteroid)
	assert.False(t, ok)
}
