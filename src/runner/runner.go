package runner

import (
	"sync"
	"time"

	"lifegrid/src/universe"
)

//Options represents the Runner's configurable options
type Options struct {
	Interval time.Duration //pause between the generations in run mode
	MaxSteps int           //0 means unbounded
	Workers  int           //tick workers, <=1 means the sequential tick
}

//Status represents the status of the simulation at concrete moment
type Status struct {
	Generation  int
	RunningMode RunningState
	LiveCells   int
	TickTime    time.Duration
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the runner
type Viewer interface {
	Refresh()
	Register(r *Runner)
	Start()
}

//Frame is a copy of one generation, safe to keep after the next tick
type Frame struct {
	Width  int
	Height int
	Cells  []universe.Cell
}

//The running status at the concrete moment
type RunningState int

//default options
const (
	DefInterval = time.Millisecond * 100
	DefMaxSteps = 100
	DefWorkers  = 1
)

const (
	RunningStateManual RunningState = iota
	RunningStateStep
	RunningStateRun
	RunningStateFinished
)

var DefaultOptions = Options{
	Interval: DefInterval,
	MaxSteps: DefMaxSteps,
	Workers:  DefWorkers,
}

//Runner drives the universe: it is the only goroutine ticking it
//commands are queued to the main loop and executed one by one
//viewers read the grid through Frame and Render, which copy it under the world lock
type Runner struct {
	options Options
	state   struct {
		Status
		session int //incremented on every run and stop, ends the previous run cycle
		sync.Mutex
	}
	world struct {
		u *universe.Universe
		sync.Mutex
	}
	stateCh   chan Status
	views     []Viewer
	controlCh chan func()
	quit      chan struct{}
	closeOnce sync.Once
}

//New creates the Runner for u and starts its main loop
//u == nil creates the seeded universe, o == nil uses DefaultOptions
//stateCh, if not nil, receives the Status on every running mode change and must be drained
func New(u *universe.Universe, o *Options, stateCh chan Status) *Runner {
	if u == nil {
		u = universe.New()
	}
	if o == nil {
		o = &DefaultOptions
	}
	r := Runner{
		options:   *o,
		stateCh:   stateCh,
		controlCh: make(chan func(), 1),
		quit:      make(chan struct{}),
	}
	r.world.u = u
	r.state.LiveCells = u.LiveCells()
	go r.mainLoop()
	return &r
}

//RegisterViewer registers the viewer - the runner will call the viewer when the state is changed
//should be called before Run or Step
func (r *Runner) RegisterViewer(v Viewer) {
	r.views = append(r.views, v)
	v.Register(r)
}

//StateCh returns the channel with the status updates
func (r *Runner) StateCh() chan Status {
	return r.stateCh
}

//Status returns current status
func (r *Runner) Status() Status {
	r.state.Lock()
	defer r.state.Unlock()
	return r.state.Status
}

//Options returns the runner configuration
func (r *Runner) Options() Options {
	return r.options
}

//Frame returns the copy of the current generation
func (r *Runner) Frame() Frame {
	r.world.Lock()
	defer r.world.Unlock()
	u := r.world.u
	f := Frame{Width: u.Width(), Height: u.Height(), Cells: make([]universe.Cell, len(u.Cells()))}
	copy(f.Cells, u.Cells())
	return f
}

//Render returns the text render of the current generation
func (r *Runner) Render() string {
	r.world.Lock()
	defer r.world.Unlock()
	return r.world.u.Render()
}

//Run starts ticking on the interval, returns immediately
func (r *Runner) Run() {
	r.exec(r.run)
}

//Stop stops the run mode, returns immediately
func (r *Runner) Stop() {
	r.exec(r.stop)
}

//Step does one generation, returns immediately
//the Status will be written to the stateCh on start and on finish
func (r *Runner) Step() {
	r.exec(r.step)
}

//Reset replaces the universe with the freshly seeded one and resets all counters, returns immediately
//the Status will be written to the stateCh on finish
func (r *Runner) Reset() {
	r.exec(r.reset)
}

//Sync waits until the commands queued before it are executed
func (r *Runner) Sync() {
	done := make(chan struct{})
	if !r.exec(func() { close(done) }) {
		return
	}
	select {
	case <-done:
	case <-r.quit:
	}
}

//Close stops the main loop and any run in progress, returns immediately
func (r *Runner) Close() {
	r.closeOnce.Do(func() {
		close(r.quit)
	})
}

//exec queues the command for the main loop, drops it after Close
func (r *Runner) exec(cmd func()) bool {
	if r.closed() {
		return false
	}
	select {
	case r.controlCh <- cmd:
		return true
	case <-r.quit:
		return false
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (r *Runner) mainLoop() {
	for {
		select {
		case cmd := <-r.controlCh:
			if r.closed() {
				return
			}
			cmd()
		case <-r.quit:
			return
		}
	}
}

func (r *Runner) closed() bool {
	select {
	case <-r.quit:
		return true
	default:
		return false
	}
}

func (r *Runner) runningMode() RunningState {
	r.state.Lock()
	defer r.state.Unlock()
	return r.state.RunningMode
}

//switchRunningState switch the state of the runner to RunningState
//also writes the new state to the stateCh to signal upper control software
func (r *Runner) switchRunningState(to RunningState) {
	r.state.Lock()
	r.state.RunningMode = to
	st := r.state.Status
	r.state.Unlock()
	if r.stateCh != nil {
		select {
		case r.stateCh <- st:
		case <-r.quit:
		}
	}
}

//run starts the run cycle
//it stops on Stop, Close or when the generation limit is reached or all cells died
func (r *Runner) run() {
	mode := r.runningMode()
	if mode == RunningStateRun || mode == RunningStateFinished {
		return
	}
	session := r.nextSession()
	r.switchRunningState(RunningStateRun)
	go func() {
		done := make(chan struct{}, 1)
		for r.running(session) {
			ok := r.exec(func() {
				//the cycle could be stopped while the command was queued
				if r.running(session) {
					r.step()
				}
				done <- struct{}{}
			})
			if !ok {
				return
			}
			select {
			case <-done:
			case <-r.quit:
				return
			}
			if r.options.Interval > 0 {
				select {
				case <-time.After(r.options.Interval):
				case <-r.quit:
					return
				}
			}
		}
	}()
}

func (r *Runner) nextSession() int {
	r.state.Lock()
	defer r.state.Unlock()
	r.state.session++
	return r.state.session
}

//running reports whether the run cycle started as session should go on
func (r *Runner) running(session int) bool {
	r.state.Lock()
	defer r.state.Unlock()
	if r.state.session != session {
		return false
	}
	return r.state.RunningMode == RunningStateRun || r.state.RunningMode == RunningStateStep
}

//stop stops the running cycle
func (r *Runner) stop() {
	if r.runningMode() == RunningStateRun {
		r.nextSession()
		r.switchRunningState(RunningStateManual)
	}
}

//reset ends any run cycle, seeds the new universe and returns to the manual mode
func (r *Runner) reset() {
	r.nextSession()
	u := universe.New()
	r.world.Lock()
	r.world.u = u
	r.world.Unlock()

	r.state.Lock()
	r.state.Generation = 0
	r.state.LiveCells = u.LiveCells()
	r.state.TickTime = 0
	r.state.Unlock()

	r.switchRunningState(RunningStateManual)
	r.refreshView()
}

//step does the next generation for the entire universe
func (r *Runner) step() {
	rm := r.runningMode()
	if rm == RunningStateFinished {
		return
	}
	r.switchRunningState(RunningStateStep)

	start := time.Now()
	r.world.Lock()
	r.world.u.TickParallel(r.options.Workers)
	liveCells := r.world.u.LiveCells()
	r.world.Unlock()

	r.state.Lock()
	r.state.Generation++
	r.state.LiveCells = liveCells
	r.state.TickTime = time.Since(start)
	gen := r.state.Generation
	r.state.Unlock()

	if liveCells == 0 || (r.options.MaxSteps != 0 && gen >= r.options.MaxSteps) {
		rm = RunningStateFinished
	}
	r.switchRunningState(rm)
	r.refreshView()
}

//refreshView calls Refresh event for all registered views
func (r *Runner) refreshView() {
	for _, v := range r.views {
		v.Refresh()
	}
}
