package viz

import (
	"strings"

	"github.com/mkrv/lqnash/internal/solver"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille-cell drawing surface with a world-coordinate
// viewport, used to render player trajectories in the terminal.
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	minX, maxX float64
	minY, maxY float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		minX:   -1, maxX: 1,
		minY: -1, maxY: 1,
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

// SetViewport maps world coordinates onto the canvas, with a small
// margin so trajectories never hug the border.
func (c *Canvas) SetViewport(minX, maxX, minY, maxY float64) {
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	c.minX = minX - 0.05*spanX
	c.maxX = maxX + 0.05*spanX
	c.minY = minY - 0.05*spanY
	c.maxY = maxY + 0.05*spanY
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// Set marks one sub-pixel; x, y are in sub-pixel coordinates with the
// canvas spanning (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) project(wx, wy float64) (int, int) {
	px := (wx - c.minX) / (c.maxX - c.minX) * float64(c.Width*2-1)
	// World y grows upward; rows grow downward.
	py := (c.maxY - wy) / (c.maxY - c.minY) * float64(c.Height*4-1)
	return int(px), int(py)
}

// PlotWorld marks a world-coordinate point.
func (c *Canvas) PlotWorld(wx, wy float64) {
	x, y := c.project(wx, wy)
	c.Set(x, y)
}

// DrawWorldLine draws a world-coordinate segment with Bresenham.
func (c *Canvas) DrawWorldLine(wx0, wy0, wx1, wy1 float64) {
	x0, y0 := c.project(wx0, wy0)
	x1, y1 := c.project(wx1, wy1)

	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawTrajectories renders every player's planar path from op,
// auto-fitting the viewport to the union of all paths.
func (c *Canvas) DrawTrajectories(op *solver.OperatingPoint, positionDims [][2]int) {
	if len(op.Xs) == 0 {
		return
	}

	minX, maxX := op.Xs[0].AtVec(positionDims[0][0]), op.Xs[0].AtVec(positionDims[0][0])
	minY, maxY := op.Xs[0].AtVec(positionDims[0][1]), op.Xs[0].AtVec(positionDims[0][1])
	for _, x := range op.Xs {
		for _, dims := range positionDims {
			px, py := x.AtVec(dims[0]), x.AtVec(dims[1])
			if px < minX {
				minX = px
			}
			if px > maxX {
				maxX = px
			}
			if py < minY {
				minY = py
			}
			if py > maxY {
				maxY = py
			}
		}
	}
	c.SetViewport(minX, maxX, minY, maxY)

	for _, dims := range positionDims {
		for k := 1; k < len(op.Xs); k++ {
			c.DrawWorldLine(
				op.Xs[k-1].AtVec(dims[0]), op.Xs[k-1].AtVec(dims[1]),
				op.Xs[k].AtVec(dims[0]), op.Xs[k].AtVec(dims[1]))
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
