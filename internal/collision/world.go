// Package collision answers ray, segment and sphere queries against sphere
// colliders attached to scene nodes.
package collision

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/samdwyer/obbo/internal/scene"
)

// Mask selects which colliders a query may hit.
type Mask uint32

const (
	MaskPick     Mask = 0b0001
	MaskObstacle Mask = 0b0010
	MaskAsteroid Mask = 0b0100
)

// Tag names the semantic category of a collider.
type Tag string

const (
	TagBuildSpot Tag = "build_spot"
	TagAsteroid  Tag = "asteroid"
	TagTerrain   Tag = "terrain"
	TagObstacle  Tag = "obstacle"
)

// Sphere is a world-space sphere.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// Collider is a sphere in a node's local space.
type Collider struct {
	Entity  string
	Node    *scene.Node
	Center  mgl64.Vec3
	Radius  float64
	Into    Mask
	Tag     Tag
	Payload any

	id int
}

// WorldSphere returns the collider in world space.
func (c *Collider) WorldSphere() Sphere {
	if c.Node == nil {
		return Sphere{Center: c.Center, Radius: c.Radius}
	}
	return Sphere{
		Center: c.Node.PointToWorld(c.Center),
		Radius: c.Radius * c.Node.WorldScale(),
	}
}

func (c *Collider) active(mask Mask) bool {
	if c.Into&mask == 0 {
		return false
	}
	return c.Node == nil || !c.Node.Stashed()
}

// Hit is one query result.
type Hit struct {
	Collider *Collider
	Entity   string
	Point    mgl64.Vec3
	Distance float64
	Tag      Tag
	Payload  any
}

// World holds the registered colliders.
type World struct {
	colliders []*Collider
	nextID    int
}

// NewWorld creates an empty collision world.
func NewWorld() *World {
	return &World{}
}

// Add registers c and returns it.
func (w *World) Add(c *Collider) *Collider {
	w.nextID++
	c.id = w.nextID
	w.colliders = append(w.colliders, c)
	return c
}

// Remove unregisters c. It reports whether c was registered.
func (w *World) Remove(c *Collider) bool {
	for i, cur := range w.colliders {
		if cur == c {
			w.colliders = append(w.colliders[:i], w.colliders[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered colliders.
func (w *World) Len() int {
	return len(w.colliders)
}

// Ray returns the colliders hit by the ray from origin along dir, nearest
// first. A ray starting inside a sphere reports the exit point.
func (w *World) Ray(origin, dir mgl64.Vec3, mask Mask) []Hit {
	return w.cast(origin, dir, math.Inf(1), mask)
}

// Segment returns the colliders crossed by the segment a-b, nearest to a
// first.
func (w *World) Segment(a, b mgl64.Vec3, mask Mask) []Hit {
	d := b.Sub(a)
	length := d.Len()
	if length < 1e-12 {
		return w.overlap([]Sphere{{Center: a}}, mask)
	}
	return w.cast(a, d.Mul(1/length), length, mask)
}

// Spheres returns the colliders overlapping any of the given world-space
// spheres. Each collider is reported once, ordered by the distance between
// sphere centers.
func (w *World) Spheres(spheres []Sphere, mask Mask) []Hit {
	return w.overlap(spheres, mask)
}

func (w *World) cast(origin, dir mgl64.Vec3, maxDist float64, mask Mask) []Hit {
	dir = dir.Normalize()
	var hits []Hit
	for _, c := range w.colliders {
		if !c.active(mask) {
			continue
		}
		s := c.WorldSphere()
		t, ok := raySphere(origin, dir, s)
		if !ok || t > maxDist {
			continue
		}
		hits = append(hits, newHit(c, origin.Add(dir.Mul(t)), t))
	}
	sortHits(hits)
	return hits
}

func (w *World) overlap(spheres []Sphere, mask Mask) []Hit {
	var hits []Hit
	for _, c := range w.colliders {
		if !c.active(mask) {
			continue
		}
		target := c.WorldSphere()
		best := math.Inf(1)
		var point mgl64.Vec3
		for _, s := range spheres {
			d := target.Center.Sub(s.Center).Len()
			if d > s.Radius+target.Radius || d >= best {
				continue
			}
			best = d
			point = surfacePoint(target, s.Center)
		}
		if !math.IsInf(best, 1) {
			hits = append(hits, newHit(c, point, best))
		}
	}
	sortHits(hits)
	return hits
}

func newHit(c *Collider, p mgl64.Vec3, dist float64) Hit {
	return Hit{
		Collider: c,
		Entity:   c.Entity,
		Point:    p,
		Distance: dist,
		Tag:      c.Tag,
		Payload:  c.Payload,
	}
}

// sortHits orders by distance, falling back to registration order.
func sortHits(hits []Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Collider.id < hits[j].Collider.id
	})
}

// raySphere returns the smallest non-negative ray parameter on the sphere.
func raySphere(origin, dir mgl64.Vec3, s Sphere) (float64, bool) {
	oc := origin.Sub(s.Center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// surfacePoint is the point on target nearest to p.
func surfacePoint(target Sphere, p mgl64.Vec3) mgl64.Vec3 {
	d := p.Sub(target.Center)
	l := d.Len()
	if l < 1e-12 {
		return target.Center
	}
	return target.Center.Add(d.Mul(target.Radius / l))
}

// FirstTagged returns the first hit carrying tag.
func FirstTagged(hits []Hit, tag Tag) (Hit, bool) {
	for _, h := range hits {
		if h.Tag == tag {
			return h, true
		}
	}
	return Hit{}, false
}
