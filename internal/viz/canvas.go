package viz

import (
	"strings"
)

// brailleBlank is U+2800, the braille cell with no dots raised.
const brailleBlank rune = 0x2800

// dotBits maps a sub-pixel (row, col) inside a 2x4 braille cell to its bit:
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille raster of Width x Height terminal cells, each holding
// 2x4 sub-pixels. Marked points are nodes drawn with emphasis, such as
// pinned or held particles.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	marks         [][2]int
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Resolution is the canvas size in sub-pixels.
func (c *Canvas) Resolution() (int, int) {
	return c.Width * 2, c.Height * 4
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.Width*2 && y < c.Height*4
}

// Set lights the sub-pixel at (x, y). Points off the canvas are dropped.
func (c *Canvas) Set(x, y int) {
	if !c.inside(x, y) {
		return
	}
	c.Grid[y/4][x/2] |= dotBits[y%4][x%2]
}

// Lit reports whether the sub-pixel at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if !c.inside(x, y) {
		return false
	}
	return c.Grid[y/4][x/2]&dotBits[y%4][x%2] != 0
}

// Each calls fn for every lit sub-pixel, row by row.
func (c *Canvas) Each(fn func(x, y int)) {
	for row, cells := range c.Grid {
		for col, r := range cells {
			if r == brailleBlank {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if r&dotBits[dy][dx] != 0 {
						fn(col*2+dx, row*4+dy)
					}
				}
			}
		}
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
	c.marks = c.marks[:0]
}

// DrawLine draws a Bresenham line between two sub-pixels.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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

// Dot draws a filled square of the given radius around (x, y).
func (c *Canvas) Dot(x, y, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

// Mark draws a node dot at (x, y) and remembers it for exports that can
// colour nodes apart from the wireframe.
func (c *Canvas) Mark(x, y int) {
	if !c.inside(x, y) {
		return
	}
	c.Dot(x, y, 1)
	c.marks = append(c.marks, [2]int{x, y})
}

// Marks returns the marked node centres since the last Clear.
func (c *Canvas) Marks() [][2]int { return c.marks }

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
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
