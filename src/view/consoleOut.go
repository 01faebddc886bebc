package view

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"

	"lifegrid/src/runner"
)

//ConsoleOut is the non-interactive viewer printing the progress to w
type ConsoleOut struct {
	r         *runner.Runner
	w         io.Writer
	startTime time.Time
	printGrid bool
}

//NewConsoleOut creates the viewer, printGrid adds the final generation render to the summary
func NewConsoleOut(w io.Writer, printGrid bool) *ConsoleOut {
	return &ConsoleOut{w: w, printGrid: printGrid}
}

func (c *ConsoleOut) Refresh() {
	st := c.r.Status()
	if st.RunningMode == runner.RunningStateFinished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last generation": st.Generation,
			"Total time":      totalTime,
			"Live cells":      st.LiveCells,
		}
		_, _ = fmt.Fprintln(c.w, "\n"+aurora.Green("Finished:").String())
		c.printHashData(resultData)
		if c.printGrid {
			_, _ = fmt.Fprint(c.w, c.r.Render())
		}
	} else if st.RunningMode == runner.RunningStateRun {
		if st.Generation%10 == 0 {
			_, _ = fmt.Fprintf(c.w, "  Generations done: %v\n", st.Generation)
		}
	}
}

func (c *ConsoleOut) Register(r *runner.Runner) {
	c.r = r
	o := c.r.Options()
	f := c.r.Frame()
	_, _ = fmt.Fprintln(c.w, "Running configuration:")
	c.printHashData(map[string]interface{}{
		"Dimension":   fmt.Sprintf("%v x %v", f.Width, f.Height),
		"Interval":    o.Interval,
		"Generations": maxStepsDescr(o.MaxSteps),
		"Workers":     o.Workers,
	})
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	_, _ = fmt.Fprintln(c.w, "\nSimulation started...")
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
