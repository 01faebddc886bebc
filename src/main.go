package main

import (
	"fmt"
	"os"

	"github.com/integrii/flaggy"

	"lifegrid/src/runner"
	"lifegrid/src/view"
)

type EnvOptions struct {
	interactive bool
	printGrid   bool
}

func main() {
	eo, ro := initOptions()

	var stateCh chan runner.Status

	if !eo.interactive {
		stateCh = make(chan runner.Status, 10) //the buffered channel to getting the runner status
	}

	r := runner.New(nil, ro, stateCh)

	if eo.interactive {
		v := view.NewViewTerminal()
		r.RegisterViewer(v)
		v.Start()
		r.Close()
		return
	}

	v := view.NewConsoleOut(os.Stdout, eo.printGrid)
	r.RegisterViewer(v)
	v.Start()
	r.Run()
	for st := range stateCh {
		if st.RunningMode == runner.RunningStateFinished {
			break
		}
	}
	//the final Refresh runs right after the status is published
	r.Sync()
	r.Close()
}

func initOptions() (eo *EnvOptions, ro *runner.Options) {

	o := runner.DefaultOptions
	ro = &o
	eo = &EnvOptions{}
	flaggy.SetName("lifegrid")
	flaggy.SetDescription("Conway's Game of Life on a 256x128 torus")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Duration(&ro.Interval, "i", "interval", "Simulation speed (interval between the generations) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&ro.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps generations, 0 is unbounded")
	flaggy.Int(&ro.Workers, "w", "workers", "Tick workers, 1 is the sequential tick")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.printGrid, "p", "print", "Print the last generation when finished")

	flaggy.Parse()

	if ro.MaxSteps < 0 || ro.Interval < 0 {
		flaggy.ShowHelpAndExit("maxSteps and interval can't be negative")
	}
	if !eo.interactive && ro.MaxSteps == 0 {
		fmt.Fprintln(os.Stderr, "running without a generation limit, interrupt to exit")
	}

	return
}
