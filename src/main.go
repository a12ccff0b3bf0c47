package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/integrii/flaggy"
	"golang.org/x/sync/errgroup"

	"torolife/src/simulation"
	"torolife/src/universe"
	"torolife/src/view"
)

type EnvOptions struct {
	interactive bool
	randomData  bool
	template    string
	plain       bool
	printField  bool
}

func main() {
	eo, so := initOptions()

	var stateCh chan simulation.Status

	if !eo.interactive {
		stateCh = make(chan simulation.Status, 10) //the buffered channel to getting the simulation status
	}

	s, err := simulation.New(so, stateCh)
	if err != nil {
		log.Fatalln(err)
	}

	if eo.randomData {
		s.SettleWithRandomData()
	} else {
		s.SettleTemplate(eo.template)
	}

	if eo.interactive {
		v := view.NewViewTerminal()
		s.RegisterViewer(v)
		v.Start()
		s.Close()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	out := view.NewConsoleOut(os.Stdout, !eo.plain, eo.printField)
	if err := runHeadless(ctx, s, out); err != nil {
		log.Fatalln(err)
	}
}

//runHeadless runs the simulation until it finishes or ctx is cancelled
func runHeadless(ctx context.Context, s simulation.Controller, v simulation.Viewer) error {
	s.RegisterViewer(v)
	v.Start()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		for {
			select {
			case st := <-s.StateCh():
				if st.RunningMode == simulation.RunningStateFinished {
					return nil
				}
			case <-gctx.Done():
				return nil
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		//waits for the viewer to print the last status
		s.Close()
		return nil
	})

	s.Run()
	return g.Wait()
}

func initOptions() (eo *EnvOptions, so *simulation.Options) {

	o := simulation.DefaultOptions
	so = &o
	templateNames := make([]string, 0)
	for _, t := range universe.Templates() {
		templateNames = append(templateNames, t.Name)
	}
	eo = &EnvOptions{template: "testSample"}
	so.Seed = time.Now().UnixNano()

	flaggy.SetName("torolife")
	flaggy.SetDescription("Conway's Life on a toroidal grid")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&so.Width, "x", "width", "Width of a simulation field")
	flaggy.Int(&so.Height, "y", "height", "Height of a simulation field")
	flaggy.Duration(&so.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&so.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 is unlimited")
	flaggy.Float64(&so.Probability, "p", "probability", "Probability of a live cell for the random seeding")
	flaggy.Int64(&so.Seed, "", "seed", "Seed of the random generator")
	flaggy.String(&so.Seeding, "", "seeding", "Seeding policy ["+simulation.SeedingRandom+"|"+simulation.SeedingModulo+"]")
	flaggy.String(&so.Engine, "e", "engine", "Engine to use ["+strings.Join(simulation.EngineNames(), "|")+"]")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.String(&eo.template, "t", "template", "Template to settle ["+strings.Join(templateNames, "|")+"]")
	flaggy.Bool(&eo.plain, "", "plain", "Disable colours")
	flaggy.Bool(&eo.printField, "f", "field", "Print the final generation")

	flaggy.Parse()

	if err := so.Validate(); err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	known := false
	for _, n := range templateNames {
		known = known || n == eo.template
	}
	if !known && !eo.randomData {
		flaggy.ShowHelpAndExit("unknown template " + eo.template)
	}

	return
}
