package termhost

import (
	"math"

	"github.com/wansatya/x.com/internal/host"
)

// Viewport maps world coordinates onto a grid of terminal cells
type Viewport struct {
	Cols, Rows    int
	Width, Height float64
}

func (v Viewport) valid() bool {
	return v.Cols > 0 && v.Rows > 0 && v.Width > 0 && v.Height > 0
}

// ToCell returns the cell holding world point p. The result may lie outside
// the grid.
func (v Viewport) ToCell(p host.Vec) (x, y int) {
	if !v.valid() {
		return 0, 0
	}
	x = int(math.Floor(p.X / v.Width * float64(v.Cols)))
	y = int(math.Floor(p.Y / v.Height * float64(v.Rows)))
	return x, y
}

// ToWorld returns the world point at the centre of cell (x, y)
func (v Viewport) ToWorld(x, y int) host.Vec {
	if !v.valid() {
		return host.Vec{}
	}
	return host.Vec{
		X: (float64(x) + 0.5) * v.Width / float64(v.Cols),
		Y: (float64(y) + 0.5) * v.Height / float64(v.Rows),
	}
}

// Contains reports whether (x, y) lies on the grid
func (v Viewport) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < v.Cols && y < v.Rows
}
