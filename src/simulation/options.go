package simulation

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"torolife/src/universe"
)

//ErrInvalidOptions wraps every Options validation failure
var ErrInvalidOptions = errors.New("invalid options")

//Options represents the Simulation's configurable options
type Options struct {
	Width       int
	Height      int
	Interval    time.Duration
	MaxSteps    int     //0 means unlimited
	Probability float64 //alive probability for the random seeding
	Seed        int64
	Seeding     string                 //seeding policy used by SettleWithRandomData
	Engine      string                 //buffering strategy of the universe
	Advanced    map[string]interface{} //advanced options (engine specific)
}

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefWidth              = 40
	DefHeight             = 15
	DefProbability        = 0.25
	DefSeeding            = SeedingRandom
	DefEngine             = "fresh"
)

//seeding policies
const (
	SeedingRandom = "random"
	SeedingModulo = "modulo"
)

var DefaultOptions = Options{
	Width:       DefWidth,
	Height:      DefHeight,
	Interval:    DefSimulationInterval,
	MaxSteps:    DefMaxSteps,
	Probability: DefProbability,
	Seeding:     DefSeeding,
	Engine:      DefEngine,
}

//Engines maps the engine name to the universe buffering strategy
var Engines = map[string][]universe.Option{
	"fresh": nil,
	"swap":  {universe.WithSpareBuffer()},
}

//EngineNames returns the sorted engine names
func EngineNames() []string {
	names := make([]string, 0, len(Engines))
	for k := range Engines {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

//Validate checks the options can build a simulation
func (o *Options) Validate() error {
	switch {
	case o.Width <= 0 || o.Height <= 0:
		return fmt.Errorf("%w: dimension %dx%d must be positive", ErrInvalidOptions, o.Width, o.Height)
	case o.Probability < 0 || o.Probability > 1:
		return fmt.Errorf("%w: probability %v is outside [0, 1]", ErrInvalidOptions, o.Probability)
	case o.MaxSteps < 0:
		return fmt.Errorf("%w: negative max steps %d", ErrInvalidOptions, o.MaxSteps)
	case o.Seeding != SeedingRandom && o.Seeding != SeedingModulo:
		return fmt.Errorf("%w: unknown seeding %q", ErrInvalidOptions, o.Seeding)
	}
	if _, ok := Engines[o.Engine]; !ok {
		return fmt.Errorf("%w: unknown engine %q", ErrInvalidOptions, o.Engine)
	}
	return nil
}
