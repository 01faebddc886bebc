package universe

import (
	"strings"
	"unicode/utf8"
)

//Cell is the state of one grid position
//the numeric values are the buffer contract for the hosts mapping Cells() byte by byte
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

//fixed universe dimensions
const (
	DefWidth  = 256
	DefHeight = 128
)

//glyphs used by Render
const (
	deadFiller = ' '
	liveFiller = '◼'
)

//Universe is the toroidal Game of Life grid
//cells are stored row-major in a flat buffer: the cell at row r, column c is cells[r*width+c]
//Universe is not safe for concurrent use, the owner must serialize Tick and the accessors
type Universe struct {
	width  int
	height int
	cells  []Cell
	next   []Cell //scratch buffer for the next generation
}

//New creates the 256x128 universe seeded with the deterministic pseudo-random sequence
func New() *Universe {
	u := newUniverse(DefWidth, DefHeight)
	u.seed()
	return u
}

//newUniverse allocates the universe with all cells dead
func newUniverse(width int, height int) *Universe {
	return &Universe{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		next:   make([]Cell, width*height),
	}
}

//Width returns the number of columns
func (u *Universe) Width() int {
	return u.width
}

//Height returns the number of rows
func (u *Universe) Height() int {
	return u.height
}

//Cells returns the current generation buffer, not a copy
//the slice is valid until the next Tick: the buffers are swapped on every tick
//and the old one is overwritten by the following generation
func (u *Universe) Cells() []Cell {
	return u.cells
}

//LiveCells calculates the count of live cells
func (u *Universe) LiveCells() int {
	liveCells := 0
	for _, c := range u.cells {
		if c == Alive {
			liveCells++
		}
	}
	return liveCells
}

//Render returns the grid as text: one newline-terminated line per row
func (u *Universe) Render() string {
	var b strings.Builder
	b.Grow(u.height * (u.width*utf8.RuneLen(liveFiller) + 1))
	for row := 0; row < u.height; row++ {
		for _, c := range u.cells[row*u.width : (row+1)*u.width] {
			if c == Dead {
				b.WriteRune(deadFiller)
			} else {
				b.WriteRune(liveFiller)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (u *Universe) String() string {
	return u.Render()
}

//index returns the linear buffer index for row, column
func (u *Universe) index(row int, column int) int {
	return row*u.width + column
}
