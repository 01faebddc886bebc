package universe

import "golang.org/x/sync/errgroup"

/*
	Multithreaded tick
	the field is splitted into the row bands each of which is computed by individual goroutine
	every band reads the frozen current generation and writes only its own rows of the scratch buffer
*/

const (
	minRowsPerWorker = 3 //minimum rows for one worker
)

//workArea describes the band of rows y1..y2 (inclusive) calculated by one worker
type workArea struct {
	y1 int
	y2 int
}

//splitRows splits height rows into at most workers bands
func splitRows(height int, workers int) []workArea {
	linesPerWorker := height / workers
	if linesPerWorker < minRowsPerWorker {
		linesPerWorker = minRowsPerWorker
	} else if linesPerWorker*workers < height {
		linesPerWorker++
	}
	workAreas := make([]workArea, 0, workers)
	for y1 := 0; y1 < height; y1 += linesPerWorker {
		y2 := y1 + linesPerWorker - 1
		if y2 > height-1 {
			y2 = height - 1
		}
		workAreas = append(workAreas, workArea{y1, y2})
	}
	return workAreas
}

//TickParallel does the same as Tick using up to workers goroutines
//returns after the whole generation is calculated and swapped in
func (u *Universe) TickParallel(workers int) {
	if workers <= 1 {
		u.Tick()
		return
	}
	if err := u.calcBands(workers); err != nil {
		//calcRows has no failure path, the scratch buffer can't be trusted
		panic(err)
	}
	u.swap()
}

//calcBands calculates the next generation into the scratch buffer, one goroutine per band
func (u *Universe) calcBands(workers int) error {
	var g errgroup.Group
	for _, wa := range splitRows(u.height, workers) {
		wa := wa
		g.Go(func() error {
			u.calcRows(wa.y1, wa.y2)
			return nil
		})
	}
	return g.Wait()
}
