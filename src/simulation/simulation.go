package simulation

import (
	"math/rand/v2"
	"sync"
	"time"

	"torolife/src/universe"
)

//Controller is the part of the Simulation visible to viewers and the command line
type Controller interface {
	Status() Status
	Options() Options
	Snapshot() *universe.Universe
	StateCh() chan Status
	AddTemplate(tmpl universe.Template)
	SettleTemplate(name string)
	SettleWithRandomData()
	Settle(vc [][]int)
	InverseCell(x int, y int)
	RegisterViewer(v Viewer)
	Run()
	Stop()
	Step()
	Clear()
	Close()
}

//Status represents the status of the Simulation at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(c Controller)
	Start()
}

//The simulation running status at the concrete moment
type RunningState int

const (
	RunningStateManual   RunningState = 0x0
	RunningStateStep     RunningState = 0x1
	RunningStateRun      RunningState = 0x2
	RunningStateFinished RunningState = 0x3
)

func (r RunningState) String() string {
	switch r {
	case RunningStateManual:
		return "manual"
	case RunningStateStep:
		return "step"
	case RunningStateRun:
		return "run"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

/*
	Simulation drives one Universe
	every mutation is executed by the main loop goroutine while holding the world lock,
	readers take a read lock, so nobody observes a grid between two generations.
*/
type Simulation struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	world struct {
		u *universe.Universe
		sync.RWMutex
	}
	rng       *rand.Rand
	stateCh   chan Status
	views     []Viewer
	templates map[string]universe.Template
	controlCh chan func()
	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
	runs      int //run generation, owned by the main loop
}

//New creates the Simulation instance with a dead universe and starts its main loop
//stateCh receives every status change, it may be nil
func New(o *Options, stateCh chan Status) (*Simulation, error) {
	if o == nil {
		o = &DefaultOptions
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		options:   *o,
		rng:       universe.NewRNG(o.Seed),
		stateCh:   stateCh,
		templates: map[string]universe.Template{},
		controlCh: make(chan func(), 1),
		done:      make(chan struct{}),
		loopDone:  make(chan struct{}),
	}
	s.options.Advanced = make(map[string]interface{}, len(o.Advanced)+2)
	for k, v := range o.Advanced {
		s.options.Advanced[k] = v
	}
	s.options.Advanced["engine"] = o.Engine
	s.options.Advanced["seeding"] = o.Seeding

	for _, t := range universe.Templates() {
		s.templates[t.Name] = t
	}
	s.world.u = s.newUniverse(nil)
	go s.mainLoop()
	return s, nil
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (s *Simulation) AddTemplate(tmpl universe.Template) {
	s.exec(func() {
		s.templates[tmpl.Name] = tmpl
	})
}

//Settle settles the universe with data
//vc - array of x,y coordinates
func (s *Simulation) Settle(vc [][]int) {
	s.exec(func() {
		s.settle(vc)
		s.refreshView()
	})
}

//SettleTemplate populates the universe with the seeding template
func (s *Simulation) SettleTemplate(name string) {
	s.exec(func() {
		tmpl, ok := s.templates[name]
		if !ok {
			return
		}
		s.settle(tmpl.Coordinates)
		s.refreshView()
	})
}

//SettleWithRandomData replaces the universe with one built by the configured seeding policy
//ignored while the simulation is running
func (s *Simulation) SettleWithRandomData() {
	s.exec(func() {
		mode := s.runningMode()
		if mode != RunningStateManual && mode != RunningStateFinished {
			return
		}
		s.reset(s.seeder())
	})
}

//InverseCell inverses the cell state at point x, y
func (s *Simulation) InverseCell(x int, y int) {
	if x < 0 || y < 0 {
		return
	}
	s.exec(func() {
		s.world.Lock()
		s.world.u.Toggle(uint32(y), uint32(x))
		live := s.world.u.LiveCells()
		s.world.Unlock()
		s.setLiveCells(live)
		s.refreshView()
	})
}

//RegisterViewer registers the viewer - the simulation will call the viewer when the state is changed
func (s *Simulation) RegisterViewer(v Viewer) {
	v.Register(s)
	s.exec(func() {
		s.views = append(s.views, v)
	})
}

//StateCh returns the channel with the simulation's status updates
func (s *Simulation) StateCh() chan Status {
	return s.stateCh
}

//Status returns current simulation status represented by Status struct
func (s *Simulation) Status() Status {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.Status
}

//Options returns current simulation configuration represented by Options struct
func (s *Simulation) Options() Options {
	return s.options
}

//Snapshot returns a copy of the current generation
func (s *Simulation) Snapshot() *universe.Universe {
	s.world.RLock()
	defer s.world.RUnlock()
	return s.world.u.Clone()
}

//Run starts the simulation, returns immediately
func (s *Simulation) Run() {
	s.exec(s.run)
}

//Stop stops the simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (s *Simulation) Stop() {
	s.exec(s.stop)
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (s *Simulation) Step() {
	s.exec(s.step)
}

//Clear clears the universe (kill all cells and reset all counters), returns immediately
//the Status struct will be written to the stateCh on finish
func (s *Simulation) Clear() {
	s.exec(func() {
		s.reset(nil)
	})
}

//Close stops the main loop, returns when the command in progress is done
//must not be called from a viewer's Refresh
func (s *Simulation) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	<-s.loopDone
}

//exec hands the command to the main loop, reports false when the simulation is closed
func (s *Simulation) exec(cmd func()) bool {
	select {
	case s.controlCh <- cmd:
		return true
	case <-s.done:
		return false
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (s *Simulation) mainLoop() {
	defer close(s.loopDone)
	for {
		select {
		case cmd := <-s.controlCh:
			cmd()
		case <-s.done:
			return
		}
	}
}

func (s *Simulation) newUniverse(seed universe.Seeder) *universe.Universe {
	return universe.New(uint32(s.options.Height), uint32(s.options.Width), seed, Engines[s.options.Engine]...)
}

func (s *Simulation) seeder() universe.Seeder {
	if s.options.Seeding == SeedingModulo {
		return universe.Modulo(s.rng, uint32(s.options.Width))
	}
	return universe.Random(s.rng, s.options.Probability)
}

//settle places live cells at the x,y coordinates
func (s *Simulation) settle(vc [][]int) {
	s.world.Lock()
	for _, v := range vc {
		if len(v) < 2 || v[0] < 0 || v[1] < 0 {
			continue
		}
		s.world.u.Set(uint32(v[1]), uint32(v[0]), universe.Alive)
	}
	live := s.world.u.LiveCells()
	s.world.Unlock()
	s.setLiveCells(live)
}

//reset replaces the universe with a seeded one and resets all counters
func (s *Simulation) reset(seed universe.Seeder) {
	s.runs++
	u := s.newUniverse(seed)
	s.world.Lock()
	s.world.u = u
	s.world.Unlock()

	s.state.Lock()
	s.state.IterationNum = 0
	s.state.IterationTime = 0
	s.state.LiveCells = u.LiveCells()
	s.state.Unlock()
	s.switchRunningState(RunningStateManual)
	s.refreshView()
}

func (s *Simulation) setLiveCells(n int) {
	s.state.Lock()
	s.state.LiveCells = n
	s.state.Unlock()
}

func (s *Simulation) runningMode() RunningState {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.RunningMode
}

//switchRunningState switch the state of the simulation to RunningState
//also writes the new state to the stateCh to signal upper control software
func (s *Simulation) switchRunningState(to RunningState) {
	s.state.Lock()
	s.state.RunningMode = to
	st := s.state.Status
	s.state.Unlock()
	if s.stateCh == nil {
		return
	}
	select {
	case s.stateCh <- st:
	case <-s.done:
	}
}

//run starts the simulation loop
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (s *Simulation) run() {
	if s.runningMode() == RunningStateRun {
		return
	}
	s.runs++
	s.switchRunningState(RunningStateRun)
	go s.runLoop(s.runs)
}

//runLoop feeds steps to the main loop until the run is superseded or finished
func (s *Simulation) runLoop(id int) {
	for {
		active := false
		done := make(chan struct{})
		cmd := func() {
			defer close(done)
			if s.runs != id || s.runningMode() != RunningStateRun {
				return
			}
			active = true
			s.step()
		}
		if !s.exec(cmd) {
			return
		}
		select {
		case <-done:
		case <-s.done:
			return
		}
		if !active {
			return
		}
		if s.options.Interval > 0 {
			select {
			case <-time.After(s.options.Interval):
			case <-s.done:
				return
			}
		}
	}
}

//stop stops the running cycle
func (s *Simulation) stop() {
	if s.runningMode() == RunningStateRun {
		s.runs++
		s.switchRunningState(RunningStateManual)
	}
}

//step does the new one state calculation for entire universe
//the simulation finishes when every cell is dead, the generation did not change or MaxSteps is reached
func (s *Simulation) step() {
	finished := false
	rm := s.runningMode()
	if rm == RunningStateFinished {
		rm = RunningStateManual
	}
	defer func() {
		if finished {
			s.switchRunningState(RunningStateFinished)
		} else {
			s.switchRunningState(rm)
		}
		s.refreshView()
	}()

	maxIter := s.options.MaxSteps
	if maxIter != 0 && s.Status().IterationNum >= maxIter {
		finished = true
		return
	}
	s.switchRunningState(RunningStateStep)

	start := time.Now()
	s.world.Lock()
	prev := s.world.u.Clone()
	s.world.u.Tick()
	changed := !s.world.u.Equal(prev)
	live := s.world.u.LiveCells()
	s.world.Unlock()

	s.state.Lock()
	s.state.IterationNum++
	s.state.LiveCells = live
	s.state.IterationTime = time.Since(start)
	iter := s.state.IterationNum
	s.state.Unlock()

	if live == 0 || !changed || (maxIter != 0 && iter >= maxIter) {
		finished = true
	}
}

//refreshView calls Refresh event for all registered views
func (s *Simulation) refreshView() {
	for _, v := range s.views {
		v.Refresh()
	}
}
