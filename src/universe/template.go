package universe

import "sort"

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates [][]int //array of [x,y] coordinates, x is the column and y is the row
}

var builtin = map[string]Template{
	"blinker": {
		"blinker",
		"period 2 oscillator",
		[][]int{{1, 2}, {2, 2}, {3, 2}},
	},
	"block": {
		"block",
		"still life",
		[][]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}},
	},
	"beacon": {
		"beacon",
		"period 2 oscillator made of two blocks",
		[][]int{{1, 1}, {2, 1}, {1, 2}, {4, 3}, {3, 4}, {4, 4}},
	},
	"glider": {
		"glider",
		"spaceship travelling one cell diagonally every 4 generations",
		[][]int{{2, 1}, {3, 2}, {1, 3}, {2, 3}, {3, 3}},
	},
	"testSample": {
		"testSample",
		"the test sample with 3 stable patterns",
		[][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}, {3, 3}, {4, 2}, {4, 3}, {5, 3}},
	},
}

//Templates returns the built-in templates ordered by name
func Templates() []Template {
	names := make([]string, 0, len(builtin))
	for k := range builtin {
		names = append(names, k)
	}
	sort.Strings(names)
	t := make([]Template, 0, len(names))
	for _, n := range names {
		t = append(t, builtin[n])
	}
	return t
}
