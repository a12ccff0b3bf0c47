package view

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"

	"torolife/src/simulation"
)

//ConsoleOut is the headless viewer, it prints the progress and the final result to w
type ConsoleOut struct {
	c         simulation.Controller
	w         io.Writer
	au        aurora.Aurora
	startTime time.Time
	showField bool
}

//NewConsoleOut creates the viewer, colors enables ANSI colouring, showField prints the final generation
func NewConsoleOut(w io.Writer, colors bool, showField bool) *ConsoleOut {
	return &ConsoleOut{w: w, au: aurora.NewAurora(colors), showField: showField}
}

func (c *ConsoleOut) Refresh() {
	st := c.c.Status()
	if st.RunningMode == simulation.RunningStateFinished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last iteration": st.IterationNum,
			"Total time":     totalTime,
			"Live cells":     st.LiveCells,
		}
		fmt.Fprintln(c.w, c.au.Red("\nFinished:"))
		c.printHashData(resultData)
		if c.showField {
			var b bytes.Buffer
			WriteField(&b, c.c.Snapshot(), ColorGlyphs(c.au), 0, 0)
			fmt.Fprintln(c.w, b.String())
		}
	} else if st.RunningMode == simulation.RunningStateRun {
		if st.IterationNum%10 == 0 {
			fmt.Fprintf(c.w, "  Iterations done: %v\n", st.IterationNum)
		}
	}
}

func (c *ConsoleOut) Register(ctrl simulation.Controller) {
	c.c = ctrl
	o := c.c.Options()
	fmt.Fprintln(c.w, c.au.Cyan("Running configuration:"))
	fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Width, o.Height)
	fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	fmt.Fprintln(c.w, "\nSimulation started...")
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
