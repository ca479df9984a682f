package planet

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Faces is the number of cube faces.
const Faces = 6

// Face is one side of the cube the planet is built from. Faces 0-2 look
// along +x, +y, +z and faces 3-5 along -x, -y, -z.
type Face struct {
	Index int
	Grid  [][]*Slot
}

// Axis returns the cube axis the face is perpendicular to.
func (f *Face) Axis() int {
	return f.Index % 3
}

// Sign returns +1 for faces 0-2 and -1 for faces 3-5.
func (f *Face) Sign() float64 {
	if f.Index < 3 {
		return 1
	}
	return -1
}

// CellDir returns the unit direction through the center of cell (i, j) on
// a face split into size x size cells.
func (f *Face) CellDir(i, j, size int) mgl64.Vec3 {
	u := (float64(i)+0.5)/float64(size)*2 - 1
	v := (float64(j)+0.5)/float64(size)*2 - 1

	var p mgl64.Vec3
	a := f.Axis()
	p[a] = f.Sign()
	p[(a+1)%3] = u
	p[(a+2)%3] = v
	return p.Normalize()
}

// FaceOf returns the face whose axis dominates dir. Ties go to the lower
// axis.
func FaceOf(dir mgl64.Vec3) int {
	idx, offset := 0, 0
	best := -1.0
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) > best {
			best = math.Abs(dir[i])
			idx = i
			if dir[i] > 0 {
				offset = 0
			} else {
				offset = 3
			}
		}
	}
	return idx + offset
}
