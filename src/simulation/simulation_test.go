package simulation

import (
	"errors"
	"sync"
	"testing"
	"time"

	"torolife/src/universe"
)

const waitTimeout = 5 * time.Second

func newTestSimulation(t *testing.T, mutate func(o *Options)) (*Simulation, chan Status) {
	t.Helper()
	o := DefaultOptions
	o.Width = 5
	o.Height = 5
	o.Interval = 0
	o.MaxSteps = 0
	if mutate != nil {
		mutate(&o)
	}
	stateCh := make(chan Status, 1024)
	s, err := New(&o, stateCh)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	return s, stateCh
}

//waitStatus reads the status channel until pred matches
func waitStatus(t *testing.T, stateCh chan Status, pred func(st Status) bool) Status {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case st := <-stateCh:
			if pred(st) {
				return st
			}
		case <-deadline:
			t.Fatal("timeout waiting for status")
		}
	}
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func blinker(vertical bool) *universe.Universe {
	return universe.New(5, 5, func(row, column uint32) universe.Cell {
		if (!vertical && row == 2 && column >= 1 && column <= 3) || (vertical && column == 2 && row >= 1 && row <= 3) {
			return universe.Alive
		}
		return universe.Dead
	})
}

func TestStep(t *testing.T) {
	for _, engine := range EngineNames() {
		t.Run(engine, func(t *testing.T) {
			s, stateCh := newTestSimulation(t, func(o *Options) { o.Engine = engine })
			s.SettleTemplate("blinker")
			s.Step()
			st := waitStatus(t, stateCh, func(st Status) bool {
				return st.RunningMode == RunningStateManual && st.IterationNum == 1
			})
			if st.LiveCells != 3 {
				t.Fatalf("live cells = %d, want 3", st.LiveCells)
			}
			if !s.Snapshot().Equal(blinker(true)) {
				t.Fatalf("unexpected generation:\n%s", s.Snapshot())
			}
		})
	}
}

func TestDeadUniverseFinishes(t *testing.T) {
	s, stateCh := newTestSimulation(t, nil)
	s.Step()
	st := waitStatus(t, stateCh, func(st Status) bool { return st.RunningMode == RunningStateFinished })
	if st.IterationNum != 1 || st.LiveCells != 0 {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestRunStopsAtMaxSteps(t *testing.T) {
	s, stateCh := newTestSimulation(t, func(o *Options) { o.MaxSteps = 6 })
	s.SettleTemplate("blinker")
	s.Run()
	st := waitStatus(t, stateCh, func(st Status) bool { return st.RunningMode == RunningStateFinished })
	if st.IterationNum != 6 {
		t.Fatalf("finished at iteration %d, want 6", st.IterationNum)
	}
	if !s.Snapshot().Equal(blinker(false)) {
		t.Fatalf("blinker not back after an even number of steps:\n%s", s.Snapshot())
	}
}

func TestRunFinishesOnStillLife(t *testing.T) {
	s, stateCh := newTestSimulation(t, nil)
	s.SettleTemplate("block")
	s.Run()
	st := waitStatus(t, stateCh, func(st Status) bool { return st.RunningMode == RunningStateFinished })
	if st.IterationNum != 1 || st.LiveCells != 4 {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestStop(t *testing.T) {
	s, stateCh := newTestSimulation(t, func(o *Options) { o.Interval = time.Millisecond })
	s.SettleTemplate("blinker")
	s.Run()
	waitStatus(t, stateCh, func(st Status) bool { return st.RunningMode == RunningStateRun && st.IterationNum >= 3 })
	s.Stop()
	waitStatus(t, stateCh, func(st Status) bool { return st.RunningMode == RunningStateManual })

	iter := s.Status().IterationNum
	time.Sleep(20 * time.Millisecond)
	if got := s.Status().IterationNum; got != iter {
		t.Fatalf("simulation kept stepping after stop: %d -> %d", iter, got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newTestSimulation(t, nil)
	s.SettleTemplate("blinker")
	eventually(t, func() bool { return s.Snapshot().LiveCells() == 3 })

	snap := s.Snapshot()
	snap.Set(0, 0, universe.Alive)
	if s.Snapshot().Cell(0, 0) != universe.Dead {
		t.Fatal("mutating the snapshot changed the simulation")
	}
}

func TestClear(t *testing.T) {
	s, stateCh := newTestSimulation(t, nil)
	s.SettleTemplate("blinker")
	s.Step()
	waitStatus(t, stateCh, func(st Status) bool { return st.IterationNum == 1 && st.RunningMode == RunningStateManual })
	s.Clear()
	waitStatus(t, stateCh, func(st Status) bool {
		return st.RunningMode == RunningStateManual && st.IterationNum == 0 && st.LiveCells == 0
	})
	if s.Snapshot().LiveCells() != 0 {
		t.Fatal("universe not cleared")
	}
}

func TestSettleWithRandomData(t *testing.T) {
	s, stateCh := newTestSimulation(t, func(o *Options) { o.Probability = 1 })
	s.SettleWithRandomData()
	waitStatus(t, stateCh, func(st Status) bool { return st.LiveCells == 25 })

	m, mCh := newTestSimulation(t, func(o *Options) { o.Seeding = SeedingModulo })
	m.SettleWithRandomData()
	waitStatus(t, mCh, func(st Status) bool { return st.RunningMode == RunningStateManual })
	if m.Snapshot().Cell(0, 0) != universe.Alive {
		t.Fatal("modulo seeding must mark index 0 alive")
	}
}

func TestInverseCell(t *testing.T) {
	s, _ := newTestSimulation(t, nil)
	s.InverseCell(3, 1)
	eventually(t, func() bool { return s.Snapshot().Cell(1, 3) == universe.Alive })
	eventually(t, func() bool { return s.Status().LiveCells == 1 })
	s.InverseCell(-1, 0)
	s.InverseCell(3, 1)
	eventually(t, func() bool { return s.Snapshot().LiveCells() == 0 })
}

func TestAddTemplate(t *testing.T) {
	s, _ := newTestSimulation(t, nil)
	s.AddTemplate(universe.Template{Name: "corner", Coordinates: [][]int{{0, 0}, {4, 4}}})
	s.SettleTemplate("corner")
	s.SettleTemplate("missing")
	eventually(t, func() bool { return s.Snapshot().LiveCells() == 2 })
}

type recordingViewer struct {
	sync.Mutex
	c         Controller
	refreshes int
}

func (v *recordingViewer) Refresh() {
	v.Lock()
	v.refreshes++
	v.Unlock()
}

func (v *recordingViewer) Register(c Controller) {
	v.Lock()
	v.c = c
	v.Unlock()
}

func (v *recordingViewer) Start() {}

func (v *recordingViewer) count() int {
	v.Lock()
	defer v.Unlock()
	return v.refreshes
}

func TestRegisterViewer(t *testing.T) {
	s, stateCh := newTestSimulation(t, nil)
	v := &recordingViewer{}
	s.RegisterViewer(v)
	if v.c == nil {
		t.Fatal("viewer not registered")
	}
	s.Step()
	waitStatus(t, stateCh, func(st Status) bool { return st.RunningMode == RunningStateFinished })
	eventually(t, func() bool { return v.count() >= 1 })
}

func TestCloseIsIdempotent(t *testing.T) {
	s, _ := newTestSimulation(t, nil)
	s.Close()
	s.Close()
	done := make(chan struct{})
	go func() {
		s.Step()
		s.Run()
		s.Clear()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("commands block after close")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Options)
		valid  bool
	}{
		{"defaults", func(o *Options) {}, true},
		{"zero width", func(o *Options) { o.Width = 0 }, false},
		{"negative height", func(o *Options) { o.Height = -1 }, false},
		{"probability above one", func(o *Options) { o.Probability = 1.5 }, false},
		{"negative max steps", func(o *Options) { o.MaxSteps = -1 }, false},
		{"unknown seeding", func(o *Options) { o.Seeding = "gaussian" }, false},
		{"unknown engine", func(o *Options) { o.Engine = "gpu" }, false},
		{"swap engine", func(o *Options) { o.Engine = "swap" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions
			tt.mutate(&o)
			err := o.Validate()
			if tt.valid && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidOptions) {
				t.Fatalf("expected ErrInvalidOptions, got %v", err)
			}
			sim, nerr := New(&o, nil)
			if (nerr == nil) != tt.valid {
				t.Fatalf("New error = %v", nerr)
			}
			if sim != nil {
				sim.Close()
			}
		})
	}
}

func TestOptionsAdvanced(t *testing.T) {
	s, _ := newTestSimulation(t, func(o *Options) { o.Engine = "swap" })
	if s.Options().Advanced["engine"] != "swap" {
		t.Fatalf("advanced options %v", s.Options().Advanced)
	}
	if DefaultOptions.Advanced != nil {
		t.Fatal("New must not modify the caller's options")
	}
}
