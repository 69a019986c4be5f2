// Package export renders solved trajectories to standalone SVG files.
package export

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/mkrv/lqnash/internal/solver"
)

var palette = []string{"#4fc1ff", "#ff7b72", "#7ee787", "#d2a8ff", "#ffa657", "#79c0ff"}

// SVGOptions control the rendered image.
type SVGOptions struct {
	Width      int
	Height     int
	Margin     int
	Background string
	StrokeW    float64
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      800,
		Height:     600,
		Margin:     40,
		Background: "#0d1117",
		StrokeW:    2.0,
	}
}

// TrajectorySVG renders each player's planar path from the operating
// point as a polyline, with a marker at the initial position.
// positionDims gives the (x, y) state indices for each player.
func TrajectorySVG(op *solver.OperatingPoint, positionDims [][2]int, opts SVGOptions) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, x := range op.Xs {
		for _, pd := range positionDims {
			px, py := x.AtVec(pd[0]), x.AtVec(pd[1])
			minX, maxX = math.Min(minX, px), math.Max(maxX, px)
			minY, maxY = math.Min(minY, py), math.Max(maxY, py)
		}
	}
	if maxX-minX < 1e-9 {
		minX, maxX = minX-1, maxX+1
	}
	if maxY-minY < 1e-9 {
		minY, maxY = minY-1, maxY+1
	}

	w := float64(opts.Width - 2*opts.Margin)
	h := float64(opts.Height - 2*opts.Margin)
	project := func(px, py float64) (float64, float64) {
		sx := float64(opts.Margin) + (px-minX)/(maxX-minX)*w
		// SVG y grows downward.
		sy := float64(opts.Margin) + (maxY-py)/(maxY-minY)*h
		return sx, sy
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		opts.Width, opts.Height, opts.Width, opts.Height)
	fmt.Fprintf(&b, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", opts.Background)

	for i, pd := range positionDims {
		color := palette[i%len(palette)]
		var pts []string
		for _, x := range op.Xs {
			sx, sy := project(x.AtVec(pd[0]), x.AtVec(pd[1]))
			pts = append(pts, fmt.Sprintf("%.2f,%.2f", sx, sy))
		}
		fmt.Fprintf(&b, `  <polyline points="%s" fill="none" stroke="%s" stroke-width="%.1f"/>`+"\n",
			strings.Join(pts, " "), color, opts.StrokeW)

		sx, sy := project(op.Xs[0].AtVec(pd[0]), op.Xs[0].AtVec(pd[1]))
		fmt.Fprintf(&b, `  <circle cx="%.2f" cy="%.2f" r="5" fill="%s"/>`+"\n", sx, sy, color)
		fmt.Fprintf(&b, `  <text x="%.2f" y="%.2f" fill="%s" font-family="monospace" font-size="12">P%d</text>`+"\n",
			sx+8, sy-8, color, i+1)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

// WriteTrajectorySVG renders and writes the SVG to path.
func WriteTrajectorySVG(path string, op *solver.OperatingPoint, positionDims [][2]int, opts SVGOptions) error {
	svg := TrajectorySVG(op, positionDims, opts)
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("writing svg: %w", err)
	}
	return nil
}
