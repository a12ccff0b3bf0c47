package universe

//Cell is the state of a single position of the grid
//the numeric value is the contribution of the cell to its neighbours' count
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

func (c Cell) String() string {
	if c == Dead {
		return "Dead"
	}
	return "Alive"
}

//normalize folds any non-zero value into Alive
func (c Cell) normalize() Cell {
	if c != Dead {
		return Alive
	}
	return Dead
}
