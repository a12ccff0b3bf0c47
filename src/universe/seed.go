package universe

import "math/rand/v2"

//Seeder decides the initial state of the cell at (row, column)
type Seeder func(row uint32, column uint32) Cell

//NewRNG creates a deterministic random source for the seeders
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

//AllDead leaves every cell Dead
func AllDead(uint32, uint32) Cell { return Dead }

//Random marks each cell Alive independently with the given probability
func Random(rng *rand.Rand, probability float64) Seeder {
	return func(uint32, uint32) Cell {
		if rng.Float64() < probability {
			return Alive
		}
		return Dead
	}
}

//Modulo marks the cell with flat index i Alive when i is divisible by a divisor drawn from [1, 12]
//a fresh divisor is drawn for every cell, so index 0 is always Alive
func Modulo(rng *rand.Rand, width uint32) Seeder {
	return func(row uint32, column uint32) Cell {
		i := uint64(row)*uint64(width) + uint64(column)
		if i%(rng.Uint64N(12)+1) == 0 {
			return Alive
		}
		return Dead
	}
}

//FromTemplate marks the template coordinates Alive
func FromTemplate(tmpl Template) Seeder {
	live := make(map[[2]uint32]bool, len(tmpl.Coordinates))
	for _, v := range tmpl.Coordinates {
		if len(v) < 2 || v[0] < 0 || v[1] < 0 {
			continue
		}
		live[[2]uint32{uint32(v[1]), uint32(v[0])}] = true
	}
	return func(row uint32, column uint32) Cell {
		if live[[2]uint32{row, column}] {
			return Alive
		}
		return Dead
	}
}
