package field

import "math"

// node is a visible particle taking part in the link pass.
type node struct {
	X, Y, Z float64
	Hue     float64
}

// linker finds pairs of nodes close enough to be joined by a line.
type linker struct {
	maxDist  float64
	maxDepth float64 // 0 disables the depth test

	// bucket grid, reused between frames
	cellSize    float64
	invCellSize float64
	originX     float64
	originY     float64
	cols, rows  int
	cells       [][]int
}

func newLinker(maxDist, maxDepth float64) *linker {
	return &linker{
		maxDist:     maxDist,
		maxDepth:    maxDepth,
		cellSize:    maxDist,
		invCellSize: 1 / maxDist,
	}
}

// close reports the screen distance of a and b and whether they link.
func (l *linker) close(a, b *node) (float64, bool) {
	if l.maxDepth > 0 && math.Abs(a.Z-b.Z) >= l.maxDepth {
		return 0, false
	}
	d := math.Hypot(a.X-b.X, a.Y-b.Y)
	return d, d < l.maxDist
}

// pairs calls fn for each unordered linked pair (i < j) by testing every pair.
func (l *linker) pairs(nodes []node, fn func(i, j int, d float64)) {
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if d, ok := l.close(&nodes[i], &nodes[j]); ok {
				fn(i, j, d)
			}
		}
	}
}

// bucketed finds the same pairs as pairs through a uniform grid whose cells
// are maxDist wide, so only the 3x3 neighbourhood of a node can link to it.
func (l *linker) bucketed(nodes []node, bounds Surface, margin float64, fn func(i, j int, d float64)) {
	l.reset(bounds, margin)
	for i := range nodes {
		c := l.cellOf(nodes[i].X, nodes[i].Y)
		l.cells[c] = append(l.cells[c], i)
	}

	for i := range nodes {
		col, row := l.posToCell(nodes[i].X, nodes[i].Y)
		for dr := -1; dr <= 1; dr++ {
			r := row + dr
			if r < 0 || r >= l.rows {
				continue
			}
			for dc := -1; dc <= 1; dc++ {
				c := col + dc
				if c < 0 || c >= l.cols {
					continue
				}
				for _, j := range l.cells[r*l.cols+c] {
					if j <= i {
						continue
					}
					if d, ok := l.close(&nodes[i], &nodes[j]); ok {
						fn(i, j, d)
					}
				}
			}
		}
	}
}

// reset sizes the grid to cover the surface plus margin and empties it
// without freeing cell memory.
func (l *linker) reset(bounds Surface, margin float64) {
	l.originX, l.originY = -margin, -margin
	cols := int(math.Ceil((bounds.Width+2*margin)*l.invCellSize)) + 1
	rows := int(math.Ceil((bounds.Height+2*margin)*l.invCellSize)) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cols != l.cols || rows != l.rows {
		l.cols, l.rows = cols, rows
		l.cells = make([][]int, cols*rows)
		return
	}
	for i := range l.cells {
		l.cells[i] = l.cells[i][:0]
	}
}

func (l *linker) cellOf(x, y float64) int {
	col, row := l.posToCell(x, y)
	return row*l.cols + col
}

// posToCell clamps to the grid so stray points land in the border cells.
func (l *linker) posToCell(x, y float64) (col, row int) {
	col = int((x - l.originX) * l.invCellSize)
	if col < 0 {
		col = 0
	} else if col >= l.cols {
		col = l.cols - 1
	}
	row = int((y - l.originY) * l.invCellSize)
	if row < 0 {
		row = 0
	} else if row >= l.rows {
		row = l.rows - 1
	}
	return col, row
}
