package viz

import (
	"strings"
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

const blank = 0x2800

// Tone colors a cell. When several tones land in one cell the highest wins.
type Tone uint8

const (
	ToneNone Tone = iota
	ToneZero
	ToneTension
	ToneCompression
	ToneSupport
	ToneLoad
	ToneHighlight
)

type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Tones         [][]Tone
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Tones:  make([][]Tone, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Tones[i] = make([]Tone, w)
	}
	c.Clear()
	return c
}

// PixelSize is the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (w, h int) {
	return c.Width * 2, c.Height * 4
}

// Set sets a sub-pixel. The canvas is (Width*2) x (Height*4) sub-pixels,
// origin top left.
func (c *Canvas) Set(x, y int, tone Tone) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if tone > c.Tones[row][col] {
		c.Tones[row][col] = tone
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Tones[i][j] = ToneNone
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, tone Tone) {
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
		c.Set(x0, y0, tone)
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

// Block fills a square of sub-pixels centred on (x, y).
func (c *Canvas) Block(x, y, r int, tone Tone) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.Set(x+dx, y+dy, tone)
		}
	}
}

// String renders the canvas without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colors runs of equal tone with the current theme.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		tones := c.Tones[i]
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && tones[j] == tones[start] {
				continue
			}
			b.WriteString(ToneStyle(tones[start]).Render(string(row[start:j])))
			start = j
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
