package universe

import (
	"errors"
	"fmt"
	"strings"
)

//ErrSizeMismatch is returned when the supplied cells do not cover height*width positions
var ErrSizeMismatch = errors.New("universe: cells length does not match dimensions")

/*
	Universe is the toroidal Life grid
	cells are stored row-major, the cell at (row, column) lives at row*width+column.
	Each Tick computes the next generation into a second buffer and swaps it in,
	so neighbour lookups only ever see the previous generation.
*/
type Universe struct {
	height uint32
	width  uint32
	cells  []Cell
	spare  []Cell //retained next-generation buffer, nil for the fresh strategy
}

//Option configures the Universe
type Option func(u *Universe)

//WithSpareBuffer makes Tick reuse one retained buffer instead of allocating a new one per generation
func WithSpareBuffer() Option {
	return func(u *Universe) {
		u.spare = make([]Cell, len(u.cells))
	}
}

//New creates the Universe with height rows and width columns
//every position is populated by the seed policy, nil seed leaves the universe dead
func New(height uint32, width uint32, seed Seeder, opts ...Option) *Universe {
	u := &Universe{
		height: height,
		width:  width,
		cells:  make([]Cell, int(height)*int(width)),
	}
	if seed != nil {
		for row := uint32(0); row < height; row++ {
			for column := uint32(0); column < width; column++ {
				u.cells[u.Index(row, column)] = seed(row, column).normalize()
			}
		}
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

//FromCells creates the Universe from row-major cells
func FromCells(height uint32, width uint32, cells []Cell, opts ...Option) (*Universe, error) {
	if len(cells) != int(height)*int(width) {
		return nil, fmt.Errorf("%w: got %d cells for %dx%d", ErrSizeMismatch, len(cells), height, width)
	}
	return New(height, width, func(row, column uint32) Cell {
		return cells[int(row)*int(width)+int(column)]
	}, opts...), nil
}

func (u *Universe) Height() uint32 { return u.height }

func (u *Universe) Width() uint32 { return u.width }

//Len returns the number of cells, always height*width
func (u *Universe) Len() int { return len(u.cells) }

//Index maps in-range coordinates to the buffer position
func (u *Universe) Index(row uint32, column uint32) int {
	return int(row)*int(u.width) + int(column)
}

func (u *Universe) contains(row uint32, column uint32) bool {
	return row < u.height && column < u.width
}

//Cell returns the state at (row, column), Dead outside the grid
func (u *Universe) Cell(row uint32, column uint32) Cell {
	if !u.contains(row, column) {
		return Dead
	}
	return u.cells[u.Index(row, column)]
}

//Set assigns the state at (row, column), ignored outside the grid
func (u *Universe) Set(row uint32, column uint32, c Cell) {
	if !u.contains(row, column) {
		return
	}
	u.cells[u.Index(row, column)] = c.normalize()
}

//Toggle inverses the state at (row, column)
func (u *Universe) Toggle(row uint32, column uint32) {
	if !u.contains(row, column) {
		return
	}
	i := u.Index(row, column)
	u.cells[i] ^= Alive
}

//Cells returns a row-major copy of the current generation
func (u *Universe) Cells() []Cell {
	c := make([]Cell, len(u.cells))
	copy(c, u.cells)
	return c
}

//LiveCells calculates the count of live cells
func (u *Universe) LiveCells() int {
	n := 0
	for _, c := range u.cells {
		n += int(c)
	}
	return n
}

//Clone returns an independent copy sharing nothing with u
func (u *Universe) Clone() *Universe {
	c := &Universe{height: u.height, width: u.width, cells: u.Cells()}
	if u.spare != nil {
		c.spare = make([]Cell, len(u.spare))
	}
	return c
}

//Equal reports whether both universes hold the same generation
func (u *Universe) Equal(o *Universe) bool {
	if u.height != o.height || u.width != o.width {
		return false
	}
	for i := range u.cells {
		if u.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

//LiveNeighborCount counts the live cells of the toroidal Moore neighbourhood
//the offsets are biased by height-1 and width-1 so the arithmetic stays unsigned
func (u *Universe) LiveNeighborCount(row uint32, column uint32) uint8 {
	var count uint8
	if len(u.cells) == 0 {
		return count
	}
	for _, dr := range [3]uint32{u.height - 1, 0, 1} {
		for _, dc := range [3]uint32{u.width - 1, 0, 1} {
			if dr == 0 && dc == 0 {
				continue
			}
			r := (row + dr) % u.height
			c := (column + dc) % u.width
			count += uint8(u.cells[u.Index(r, c)])
		}
	}
	return count
}

//Tick advances the universe by one generation
func (u *Universe) Tick() {
	if len(u.cells) == 0 {
		return
	}
	next := u.spare
	if next == nil {
		next = make([]Cell, len(u.cells))
	}
	for row := uint32(0); row < u.height; row++ {
		for column := uint32(0); column < u.width; column++ {
			i := u.Index(row, column)
			next[i] = NextState(u.cells[i], u.LiveNeighborCount(row, column))
		}
	}
	if u.spare != nil {
		u.spare = u.cells
	}
	u.cells = next
}

//String renders the grid, one row per line
func (u *Universe) String() string {
	var b strings.Builder
	if u.width == 0 {
		return ""
	}
	for start := 0; start < len(u.cells); start += int(u.width) {
		for _, c := range u.cells[start : start+int(u.width)] {
			if c == Dead {
				b.WriteString("◻")
			} else {
				b.WriteString("◼")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
