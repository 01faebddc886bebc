package universe

//Tick does one simulation cycle
//the next state of every cell is calculated into the scratch buffer from the frozen current one,
//then the buffers are swapped
func (u *Universe) Tick() {
	u.calcRows(0, u.height-1)
	u.swap()
}

//calcRows calculates next states for the rows y1..y2 (inclusive) into the scratch buffer
func (u *Universe) calcRows(y1 int, y2 int) {
	for row := y1; row <= y2; row++ {
		for col := 0; col < u.width; col++ {
			idx := u.index(row, col)
			u.next[idx] = nextState(u.cells[idx], u.liveNeighborCount(row, col))
		}
	}
}

func (u *Universe) swap() {
	u.cells, u.next = u.next, u.cells
}

//liveNeighborCount counts live cells among the 8 neighbours, wrapping around both edges
func (u *Universe) liveNeighborCount(row int, column int) int {
	count := 0
	for dRow := -1; dRow < 2; dRow++ {
		for dCol := -1; dCol < 2; dCol++ {
			//skip my position
			if dRow == 0 && dCol == 0 {
				continue
			}
			nRow := (row + dRow + u.height) % u.height
			nCol := (column + dCol + u.width) % u.width
			if u.cells[u.index(nRow, nCol)] == Alive {
				count++
			}
		}
	}
	return count
}

//nextState applies the Life rule to a cell with liveNeighbours live neighbours
func nextState(c Cell, liveNeighbours int) Cell {
	switch {
	case liveNeighbours < 2:
		return Dead
	case liveNeighbours > 3:
		return Dead
	case liveNeighbours == 3:
		return Alive
	default:
		//two neighbours keep the current state
		return c
	}
}
