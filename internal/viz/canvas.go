package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille patterns give 2x4 sub-pixels per character cell, Unicode offset
// 0x2800.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille pixel buffer with a per-cell shade. Shade 0 renders
// unstyled; higher shades pick progressively brighter styles, which is how
// particle depth reads on screen.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Shades        [][]uint8
	styles        []lipgloss.Style
}

const numShades = 4

func NewCanvas(w, h int, shadeColors [numShades]string) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Shades: make([][]uint8, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Shades[i] = make([]uint8, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	for _, hex := range shadeColors {
		c.styles = append(c.styles, lipgloss.NewStyle().Foreground(lipgloss.Color(hex)))
	}
	return c
}

// Set lights a sub-pixel. Coordinates are in sub-pixel space: the canvas is
// (Width*2) x (Height*4) sub-pixels.
func (c *Canvas) Set(x, y int, shade uint8) {
	if x < 0 || y < 0 {
		return
	}
	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if shade >= numShades {
		shade = numShades - 1
	}
	// Brighter marks win within a cell so near particles read over far ones.
	if shade > c.Shades[row][col] {
		c.Shades[row][col] = shade
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
			c.Shades[i][j] = 0
		}
	}
}

// DrawLine draws with Bresenham in sub-pixel space.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, shade uint8) {
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
		c.Set(x0, y0, shade)
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

// DrawCircle plots a midpoint circle, used for the sphere's silhouette.
// Braille cells are twice as tall as wide in sub-pixels, so the vertical
// radius is doubled to look round in a terminal.
func (c *Canvas) DrawCircle(cx, cy, r int, shade uint8) {
	if r <= 0 {
		c.Set(cx, cy, shade)
		return
	}
	x, y := r, 0
	err := 1 - r
	for x >= y {
		for _, p := range [8][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			c.Set(cx+p[0], cy+p[1]*2, shade)
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		col := 0
		for col < c.Width {
			// Runs of equal shade render as one styled span.
			shade := c.Shades[row][col]
			start := col
			for col < c.Width && c.Shades[row][col] == shade {
				col++
			}
			span := string(c.Grid[row][start:col])
			if shade == 0 || len(c.styles) == 0 {
				b.WriteString(span)
			} else {
				b.WriteString(c.styles[shade].Render(span))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
