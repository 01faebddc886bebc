package universe

import (
	"strings"
	"testing"
	"unicode/utf8"
)

//fixture creates a dead universe and settles the {row, col} coordinates
func fixture(width int, height int, alive [][]int) *Universe {
	u := newUniverse(width, height)
	for _, v := range alive {
		u.cells[u.index(v[0], v[1])] = Alive
	}
	return u
}

//assertAlive checks that exactly the {row, col} coordinates are alive
func assertAlive(t *testing.T, u *Universe, alive [][]int) {
	t.Helper()
	expects := map[[2]int]bool{}
	for _, v := range alive {
		expects[[2]int{v[0], v[1]}] = true
	}
	for row := 0; row < u.Height(); row++ {
		for col := 0; col < u.Width(); col++ {
			isAlive := u.Cells()[u.index(row, col)] == Alive
			if isAlive != expects[[2]int{row, col}] {
				t.Fatalf("cell (%d,%d) alive=%v, expected %v", row, col, isAlive, expects[[2]int{row, col}])
			}
		}
	}
}

func TestSeedSequence(t *testing.T) {
	expected := []struct {
		k     uint64
		alive bool
	}{
		{1234567890, true},
		{5171467887, false},
		{8094801249, false},
		{8946652779, false},
		{5037191334, false},
		{7364540727, false},
		{7060658580, true},
		{5992682436, false},
		{1192417371, false},
		{7862029209, false},
	}
	seq := newSeedSequence()
	for i, e := range expected {
		k := seq.next()
		if k != e.k {
			t.Fatalf("step %d: k=%d, expected %d", i, k, e.k)
		}
		if (k%seedAliveDivisor == 0) != e.alive {
			t.Fatalf("step %d: alive=%v, expected %v", i, !e.alive, e.alive)
		}
	}

	u := New()
	for i, e := range expected {
		if (u.Cells()[i] == Alive) != e.alive {
			t.Fatalf("cell %d: alive=%v, expected %v", i, !e.alive, e.alive)
		}
	}
}

func TestNew(t *testing.T) {
	u := New()
	if u.Width() != 256 || u.Height() != 128 {
		t.Fatalf("dimension %d x %d, expected 256 x 128", u.Width(), u.Height())
	}
	if len(u.Cells()) != u.Width()*u.Height() {
		t.Fatalf("buffer length %d, expected %d", len(u.Cells()), u.Width()*u.Height())
	}
	if live := u.LiveCells(); live != 6422 {
		t.Fatalf("live cells %d, expected 6422", live)
	}

	firstRow := []rune(strings.SplitN(u.Render(), "\n", 2)[0])
	prefix := "X.....X.............XX...............X...X..X......X.X.........."
	for i, c := range prefix {
		if (c == 'X') != (firstRow[i] == liveFiller) {
			t.Fatalf("column %d of row 0 is %q", i, firstRow[i])
		}
	}
}

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(), New()
	for i := range a.Cells() {
		if a.Cells()[i] != b.Cells()[i] {
			t.Fatalf("cell %d differs between two universes", i)
		}
	}
}

func TestTickRegression(t *testing.T) {
	u := New()
	expected := map[int]int{1: 6587, 2: 5832, 10: 5213}
	for gen := 1; gen <= 10; gen++ {
		u.Tick()
		if len(u.Cells()) != DefWidth*DefHeight {
			t.Fatalf("generation %d: buffer length %d", gen, len(u.Cells()))
		}
		if live, ok := expected[gen]; ok && u.LiveCells() != live {
			t.Fatalf("generation %d: live cells %d, expected %d", gen, u.LiveCells(), live)
		}
	}
}

func TestNeighbourWrap(t *testing.T) {
	h, w := DefHeight, DefWidth
	neighbours := [][]int{
		{h - 1, w - 1}, {h - 1, 0}, {h - 1, 1},
		{0, w - 1}, {0, 1},
		{1, w - 1}, {1, 0}, {1, 1},
	}
	for _, n := range neighbours {
		u := fixture(w, h, [][]int{n})
		if c := u.liveNeighborCount(0, 0); c != 1 {
			t.Fatalf("neighbour %v: count %d, expected 1", n, c)
		}
	}
	u := fixture(w, h, neighbours)
	if c := u.liveNeighborCount(0, 0); c != 8 {
		t.Fatalf("count %d, expected 8", c)
	}

	//cells two steps away are not neighbours
	u = fixture(w, h, [][]int{{h - 2, 0}, {0, w - 2}, {2, 2}})
	if c := u.liveNeighborCount(0, 0); c != 0 {
		t.Fatalf("count %d, expected 0", c)
	}
}

func TestRules(t *testing.T) {
	offsets := [][]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	tests := []struct {
		name       string
		alive      bool
		neighbours int
		expected   Cell
	}{
		{"isolated dies", true, 0, Dead},
		{"one neighbour dies", true, 1, Dead},
		{"two neighbours survives", true, 2, Alive},
		{"three neighbours survives", true, 3, Alive},
		{"four neighbours dies", true, 4, Dead},
		{"eight neighbours dies", true, 8, Dead},
		{"dead with two stays dead", false, 2, Dead},
		{"dead with three is born", false, 3, Alive},
		{"dead with four stays dead", false, 4, Dead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alive := [][]int{}
			for _, o := range offsets[:tt.neighbours] {
				alive = append(alive, []int{2 + o[0], 2 + o[1]})
			}
			if tt.alive {
				alive = append(alive, []int{2, 2})
			}
			u := fixture(6, 6, alive)
			u.Tick()
			if got := u.Cells()[u.index(2, 2)]; got != tt.expected {
				t.Fatalf("center is %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestBlinkerOscillation(t *testing.T) {
	vertical := [][]int{{1, 2}, {2, 2}, {3, 2}}
	horizontal := [][]int{{2, 1}, {2, 2}, {2, 3}}
	u := fixture(5, 5, vertical)

	u.Tick()
	assertAlive(t, u, horizontal)

	u.Tick()
	assertAlive(t, u, vertical)
}

func TestBlinkerAcrossEdges(t *testing.T) {
	u := fixture(6, 6, [][]int{{5, 0}, {0, 0}, {1, 0}})

	u.Tick()
	assertAlive(t, u, [][]int{{0, 5}, {0, 0}, {0, 1}})

	u.Tick()
	assertAlive(t, u, [][]int{{5, 0}, {0, 0}, {1, 0}})
}

//inPlaceTick is the broken update writing straight into the current buffer
func inPlaceTick(u *Universe) {
	for row := 0; row < u.height; row++ {
		for col := 0; col < u.width; col++ {
			idx := u.index(row, col)
			u.cells[idx] = nextState(u.cells[idx], u.liveNeighborCount(row, col))
		}
	}
}

func TestTickIsSimultaneous(t *testing.T) {
	horizontal := [][]int{{2, 1}, {2, 2}, {2, 3}}
	vertical := [][]int{{1, 2}, {2, 2}, {3, 2}}

	//(1,2) is born before (1,3) is visited, so in place (1,3) sees three neighbours
	naive := fixture(5, 5, horizontal)
	inPlaceTick(naive)
	if naive.Cells()[naive.index(1, 3)] != Alive {
		t.Fatalf("fixture does not tell in-place update apart")
	}

	u := fixture(5, 5, horizontal)
	u.Tick()
	assertAlive(t, u, vertical)
}

func TestTickParallel(t *testing.T) {
	for _, workers := range []int{0, 1, 2, 3, 7, 128, 1000} {
		expected, u := New(), New()
		for gen := 0; gen < 5; gen++ {
			expected.Tick()
			u.TickParallel(workers)
		}
		for i := range expected.Cells() {
			if expected.Cells()[i] != u.Cells()[i] {
				t.Fatalf("workers %d: cell %d differs", workers, i)
			}
		}
	}
}

func TestCalcBands(t *testing.T) {
	expected := New()
	expected.calcRows(0, expected.height-1)

	u := New()
	if err := u.calcBands(5); err != nil {
		t.Fatalf("calcBands: %v", err)
	}
	for i := range expected.next {
		if u.next[i] != expected.next[i] {
			t.Fatalf("scratch cell %d differs", i)
		}
	}
	//the current generation is untouched until the swap
	if u.LiveCells() != 6422 {
		t.Fatalf("live cells %d before swap, expected 6422", u.LiveCells())
	}
}

func TestSplitRows(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 10, 64, 1000} {
		areas := splitRows(DefHeight, workers)
		if len(areas) > workers {
			t.Fatalf("workers %d: %d bands", workers, len(areas))
		}
		next := 0
		for i, a := range areas {
			if i < len(areas)-1 && a.y2-a.y1+1 < minRowsPerWorker {
				t.Fatalf("workers %d: band %v is thinner than %d rows", workers, a, minRowsPerWorker)
			}
			if a.y1 != next || a.y2 < a.y1 {
				t.Fatalf("workers %d: band %v does not continue at row %d", workers, a, next)
			}
			next = a.y2 + 1
		}
		if next != DefHeight {
			t.Fatalf("workers %d: bands end at row %d", workers, next)
		}
	}
}

func TestRender(t *testing.T) {
	u := newUniverse(4, 3)
	if r := u.Render(); r != "    \n    \n    \n" {
		t.Fatalf("dead render %q", r)
	}

	for i := range u.cells {
		u.cells[i] = Alive
	}
	if r := u.Render(); r != "◼◼◼◼\n◼◼◼◼\n◼◼◼◼\n" {
		t.Fatalf("alive render %q", r)
	}

	u = fixture(3, 2, [][]int{{0, 0}, {1, 2}})
	if r := u.String(); r != "◼  \n  ◼\n" {
		t.Fatalf("render %q", r)
	}
}

func TestRenderDimensions(t *testing.T) {
	r := New().Render()
	if !strings.HasSuffix(r, "\n") {
		t.Fatalf("render is not newline-terminated")
	}
	lines := strings.Split(strings.TrimSuffix(r, "\n"), "\n")
	if len(lines) != DefHeight {
		t.Fatalf("%d lines, expected %d", len(lines), DefHeight)
	}
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != DefWidth {
			t.Fatalf("line %d has %d runes, expected %d", i, n, DefWidth)
		}
	}
}
