// Package scene provides a minimal transform hierarchy: nodes with a
// parent, local position, rotation and uniform scale.
//
// Angles follow the heading/pitch/roll convention: +Z is up, +Y is
// forward, heading turns about Z, pitch about X and roll about Y.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	Up      = mgl64.Vec3{0, 0, 1}
	Forward = mgl64.Vec3{0, 1, 0}
	Right   = mgl64.Vec3{1, 0, 0}
)

// Node is a transform in the hierarchy.
type Node struct {
	Name  string
	Pos   mgl64.Vec3
	Rot   mgl64.Quat
	Scale float64
	Color mgl64.Vec4

	parent   *Node
	children []*Node
	hidden   bool
	stashed  bool
}

// NewNode creates a detached node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:  name,
		Rot:   mgl64.QuatIdent(),
		Scale: 1,
		Color: mgl64.Vec4{1, 1, 1, 1},
	}
}

// AttachNew creates a child node.
func (n *Node) AttachNew(name string) *Node {
	c := NewNode(name)
	c.ReparentTo(n)
	return c
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children.
func (n *Node) Children() []*Node { return n.children }

// ReparentTo moves the node under p, keeping its local transform.
func (n *Node) ReparentTo(p *Node) {
	n.Detach()
	if p == nil {
		return
	}
	n.parent = p
	p.children = append(p.children, n)
}

// WrtReparentTo moves the node under p, keeping its world transform.
func (n *Node) WrtReparentTo(p *Node) {
	pos, rot, scale := n.WorldPos(), n.WorldQuat(), n.WorldScale()
	n.ReparentTo(p)
	n.SetWorldTransform(pos, rot, scale)
}

// Detach removes the node from its parent.
func (n *Node) Detach() {
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// Remove detaches the node and all of its descendants.
func (n *Node) Remove() {
	n.Detach()
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// SetHpr sets the local rotation from heading, pitch and roll in degrees.
func (n *Node) SetHpr(h, p, r float64) {
	n.Rot = HprQuat(h, p, r)
}

// HprQuat builds a rotation from heading, pitch and roll in degrees.
func HprQuat(h, p, r float64) mgl64.Quat {
	qh := mgl64.QuatRotate(mgl64.DegToRad(h), Up)
	qp := mgl64.QuatRotate(mgl64.DegToRad(p), Right)
	qr := mgl64.QuatRotate(mgl64.DegToRad(r), Forward)
	return qh.Mul(qp).Mul(qr).Normalize()
}

// HeadingPitch returns the heading and pitch in degrees that point the
// forward axis along dir.
func HeadingPitch(dir mgl64.Vec3) (h, p float64) {
	flat := math.Hypot(dir.X(), dir.Y())
	h = mgl64.RadToDeg(math.Atan2(-dir.X(), dir.Y()))
	p = mgl64.RadToDeg(math.Atan2(dir.Z(), flat))
	return h, p
}

// LookAt turns the node so its forward axis points at target, given in
// the parent's space.
func (n *Node) LookAt(target mgl64.Vec3) {
	dir := target.Sub(n.Pos)
	if dir.Len() < 1e-12 {
		return
	}
	h, p := HeadingPitch(dir)
	n.SetHpr(h, p, 0)
}

// WorldPos returns the node's position in world space.
func (n *Node) WorldPos() mgl64.Vec3 {
	if n.parent == nil {
		return n.Pos
	}
	return n.parent.PointToWorld(n.Pos)
}

// WorldQuat returns the node's rotation in world space.
func (n *Node) WorldQuat() mgl64.Quat {
	if n.parent == nil {
		return n.Rot
	}
	return n.parent.WorldQuat().Mul(n.Rot)
}

// WorldScale returns the node's accumulated uniform scale.
func (n *Node) WorldScale() float64 {
	if n.parent == nil {
		return n.Scale
	}
	return n.parent.WorldScale() * n.Scale
}

// SetWorldTransform sets the local transform so the node ends up at the
// given world transform.
func (n *Node) SetWorldTransform(pos mgl64.Vec3, rot mgl64.Quat, scale float64) {
	if n.parent == nil {
		n.Pos, n.Rot, n.Scale = pos, rot, scale
		return
	}
	n.Pos = n.parent.PointFromWorld(pos)
	n.Rot = n.parent.WorldQuat().Inverse().Mul(rot).Normalize()
	ps := n.parent.WorldScale()
	if ps != 0 {
		n.Scale = scale / ps
	}
}

// PointToWorld converts a point in this node's space to world space.
func (n *Node) PointToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return n.WorldPos().Add(n.WorldQuat().Rotate(p.Mul(n.WorldScale())))
}

// PointFromWorld converts a world-space point into this node's space.
func (n *Node) PointFromWorld(p mgl64.Vec3) mgl64.Vec3 {
	local := n.WorldQuat().Inverse().Rotate(p.Sub(n.WorldPos()))
	s := n.WorldScale()
	if s == 0 {
		return local
	}
	return local.Mul(1 / s)
}

// VectorToWorld rotates and scales a direction from this node's space.
func (n *Node) VectorToWorld(v mgl64.Vec3) mgl64.Vec3 {
	return n.WorldQuat().Rotate(v.Mul(n.WorldScale()))
}

// VectorFromWorld rotates and scales a world direction into this node's space.
func (n *Node) VectorFromWorld(v mgl64.Vec3) mgl64.Vec3 {
	local := n.WorldQuat().Inverse().Rotate(v)
	s := n.WorldScale()
	if s == 0 {
		return local
	}
	return local.Mul(1 / s)
}

// PosIn returns the node's origin expressed in other's space.
func (n *Node) PosIn(other *Node) mgl64.Vec3 {
	w := n.WorldPos()
	if other == nil {
		return w
	}
	return other.PointFromWorld(w)
}

// RelativeVector converts v from other's space into this node's space.
func (n *Node) RelativeVector(other *Node, v mgl64.Vec3) mgl64.Vec3 {
	w := v
	if other != nil {
		w = other.VectorToWorld(v)
	}
	return n.VectorFromWorld(w)
}

// Show makes the node visible.
func (n *Node) Show() { n.hidden = false }

// Hide makes the node invisible. Hidden nodes still collide.
func (n *Node) Hide() { n.hidden = true }

// Stash takes the node out of the scene for rendering and collision.
func (n *Node) Stash() { n.stashed = true }

// Unstash reverses Stash.
func (n *Node) Unstash() { n.stashed = false }

// Hidden reports whether the node or any ancestor is hidden or stashed.
func (n *Node) Hidden() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.hidden || cur.stashed {
			return true
		}
	}
	return false
}

// Stashed reports whether the node or any ancestor is stashed.
func (n *Node) Stashed() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.stashed {
			return true
		}
	}
	return false
}

// SetAlpha sets the alpha component of the color scale.
func (n *Node) SetAlpha(a float64) {
	n.Color[3] = a
}

// Alpha returns the alpha component of the color scale.
func (n *Node) Alpha() float64 {
	return n.Color[3]
}
