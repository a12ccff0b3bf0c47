package universe

import "fmt"

//MaxNeighbors is the size of the Moore neighbourhood
const MaxNeighbors = 8

//NextState returns the state of a cell in the next generation
//a live cell survives with 2 or 3 live neighbours, a dead cell is born with exactly 3,
//every other combination is Dead
func NextState(c Cell, liveNeighbors uint8) Cell {
	switch {
	case liveNeighbors > MaxNeighbors:
		panic(fmt.Sprintf("universe: neighbour count %d out of range", liveNeighbors))
	case c == Alive && (liveNeighbors == 2 || liveNeighbors == 3):
		return Alive
	case c == Dead && liveNeighbors == 3:
		return Alive
	default:
		return Dead
	}
}
