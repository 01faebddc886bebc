package view

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"lifegrid/src/runner"
	"lifegrid/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

type ConsoleUI struct {
	r          *runner.Runner
	g          *gocui.Gui
	k          []keyBindings
	liveFiller string
	deadFiller string
	fieldSize  viewSize //size the universe view was last drawn for
	closeGui   func()
}

//viewSize is the inner size of a view in characters
type viewSize struct {
	w int
	h int
}

//differs reports whether w x h is not the stored size
func (s viewSize) differs(w int, h int) bool {
	return s.w != w || s.h != h
}

var (
	runningStateDescr = map[runner.RunningState]string{
		runner.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		runner.RunningStateStep:     "do the step",
		runner.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		runner.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}

	cropMessage = aurora.Red("The field size is larger than the viewing area").BgBlack().String()
)

func NewViewTerminal() *ConsoleUI {

	var err error
	t := ConsoleUI{
		liveFiller: aurora.Magenta("◼").BgBrightMagenta().String(),
		deadFiller: aurora.Blue("░").String(),
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}
	t.closeGui = t.g.Close

	t.k = []keyBindings{
		{gocui.KeyCtrlC,
			"^C",
			"Exit",
			t.cmdQuit,
			""},
		{'q',
			"Q",
			"Exit",
			t.cmdQuit,
			""},
		{'n',
			"N",
			"Next generation",
			t.cmdNextGeneration,
			""},
		{'r',
			"R",
			"Run",
			t.cmdRun,
			""},
		{'s',
			"S",
			"Stop",
			t.cmdStop,
			""},
		{'c',
			"C",
			"Reset",
			t.cmdReset,
			""},
	}
	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)

	return &t
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.Panicln(err)
		}
	}
}

func (t *ConsoleUI) Register(r *runner.Runner) {
	t.r = r
}

//Start runs the terminal main loop until the user quits
func (t *ConsoleUI) Start() {
	err := t.g.MainLoop()
	t.shutdown()
	if err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
}

//shutdown stops the runner before the gui, so no Refresh reaches the closed gui
func (t *ConsoleUI) shutdown() {
	t.r.Stop()
	t.r.Sync()
	t.r.Close()
	t.closeGui()
}

func (t *ConsoleUI) Refresh() {
	t.renderField(t.r.Frame())
	t.renderStatus()
}

//renderField draws the frame from any goroutine
func (t *ConsoleUI) renderField(f runner.Frame) {
	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("universe")
		if e != nil {
			//the view is deleted while the terminal is too small
			return nil
		}
		t.drawField(v, f)
		return nil
	})
}

//drawField must run on the gui goroutine
func (t *ConsoleUI) drawField(v *gocui.View, f runner.Frame) {
	//the entire field is redrawing at once
	v.Clear()
	maxW, maxH := v.Size()
	t.fieldSize = viewSize{maxW, maxH}
	_, _ = fmt.Fprint(v, fieldText(f, maxW, maxH, t.liveFiller, t.deadFiller))
}

//fieldText maps the frame to text fitting maxW x maxH characters
//the data outside the view area is discarded and the last visible line is replaced by the crop message
func fieldText(f runner.Frame, maxW int, maxH int, liveFiller string, deadFiller string) string {
	crop := f.Width > maxW || f.Height > maxH

	var b bytes.Buffer
	for row := 0; row < f.Height && row < maxH; row++ {
		//line feed char
		if row != 0 {
			b.WriteByte(10)
		}
		if crop && row == (maxH-1) {
			b.WriteString(cropMessage)
			break
		}
		line := f.Cells[row*f.Width : (row+1)*f.Width]
		for col, c := range line {
			if col >= maxW {
				break
			}
			if c == universe.Alive {
				b.WriteString(liveFiller)
			} else {
				b.WriteString(deadFiller)
			}
		}
	}
	return b.String()
}

func (t *ConsoleUI) renderStatus() {
	s := t.r.Status()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			drawStatus(v, s)
		}
		return nil
	})
}

func drawStatus(v *gocui.View, s runner.Status) {
	v.Clear()
	_, _ = fmt.Fprintln(v, renderProp("Generation", "%v", s.Generation))
	_, _ = fmt.Fprintln(v, renderProp("Live Cells", "%v", s.LiveCells))
	_, _ = fmt.Fprintln(v, renderProp("Tick time", "%v", s.TickTime.Round(time.Microsecond)))
	_, _ = fmt.Fprintln(v, renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
}

func drawConfiguration(v *gocui.View, c runner.Options, f runner.Frame) {
	v.Clear()
	_, _ = fmt.Fprintln(v, renderProp("Dimension", "%v x %v", f.Width, f.Height))
	_, _ = fmt.Fprintln(v, renderProp("Interval", "%v", c.Interval))
	_, _ = fmt.Fprintln(v, renderProp("Generations", "%v", maxStepsDescr(c.MaxSteps)))
	_, _ = fmt.Fprintln(v, renderProp("Workers", "%v", c.Workers))
}

func maxStepsDescr(maxSteps int) string {
	if maxSteps == 0 {
		return "unbounded"
	}
	return fmt.Sprintf("%v steps", maxSteps)
}

func renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

//layout runs on the gui goroutine on every flush, so it writes to the views directly
//and redraws the field only when the view is created or resized
func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("universe")
		return nil

	} else {
		if _, err := t.headerLayout(g, 3, "Game of Life on a torus"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		drawConfiguration(v, t.r.Options(), t.r.Frame())
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		drawStatus(v, t.r.Status())
	}

	if v, err := g.SetView("universe", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Universe"
		v.Frame = true
		t.drawField(v, t.r.Frame())
	} else if t.fieldSize.differs(v.Size()) {
		t.drawField(v, t.r.Frame())
	}

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		_, _ = fmt.Fprintln(v, helpText(t.k))
	}

	return nil
}

func helpText(k []keyBindings) string {
	b := bytes.Buffer{}
	b.WriteString("KEYBINDINGS: ")
	for i, kb := range k {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(aurora.Green(kb.name).String())
		b.WriteString(": ")
		b.WriteString(kb.descr)
	}
	return b.String()
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		if maxX < len(text) {
			return v, fmt.Errorf("terminal width is too small: %v", maxX)
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", (maxX-len(text))/2)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextGeneration(_ *gocui.View) error {
	t.r.Step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.r.Run()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.r.Stop()
	return nil
}

func (t *ConsoleUI) cmdReset(_ *gocui.View) error {
	t.r.Reset()
	return nil
}
