package rain

import "errors"

// MaxCells bounds the size of a single grid.
const MaxCells = 1 << 24

var errGridTooLarge = errors.New("cell count exceeds MaxCells")

// allocCells backs every grid allocation. Tests swap it to simulate failure.
var allocCells = func(n int) ([]Pixel, error) {
	return make([]Pixel, n), nil
}

// Grid is a rows × cols frame stored row-major: cells[row*cols+col].
type Grid struct {
	cells []Pixel
	rows  int
	cols  int
}

// NewGrid allocates a blank grid.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, &ConfigurationError{Field: "dimensions", Reason: "rows and cols must be > 0"}
	}
	if rows > MaxCells/cols {
		return nil, &AllocationError{Rows: rows, Cols: cols, Wrapped: errGridTooLarge}
	}
	cells, err := allocCells(rows * cols)
	if err != nil {
		return nil, &AllocationError{Rows: rows, Cols: cols, Wrapped: err}
	}
	g := &Grid{cells: cells, rows: rows, cols: cols}
	g.Clear()
	return g, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (row, col) addresses a cell.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// At returns the pixel at (row, col). Out of range reads return BlankPixel.
func (g *Grid) At(row, col int) Pixel {
	if !g.InBounds(row, col) {
		return BlankPixel
	}
	return g.cells[row*g.cols+col]
}

// Set replaces the pixel at (row, col). Out of range writes are dropped.
func (g *Grid) Set(row, col int, p Pixel) {
	if !g.InBounds(row, col) {
		return
	}
	g.cells[row*g.cols+col] = p
}

// Clear blanks every cell using exponential copy.
func (g *Grid) Clear() {
	if len(g.cells) == 0 {
		return
	}
	g.cells[0] = BlankPixel
	for filled := 1; filled < len(g.cells); filled *= 2 {
		copy(g.cells[filled:], g.cells[:filled])
	}
}

// CopyFrom overwrites g with src. Both grids must share dimensions.
func (g *Grid) CopyFrom(src *Grid) error {
	if g.rows != src.rows || g.cols != src.cols {
		return ErrDimensionMismatch
	}
	copy(g.cells, src.cells)
	return nil
}

// Clone returns an independent copy.
func (g *Grid) Clone() (*Grid, error) {
	cells, err := allocCells(len(g.cells))
	if err != nil {
		return nil, &AllocationError{Rows: g.rows, Cols: g.cols, Wrapped: err}
	}
	copy(cells, g.cells)
	return &Grid{cells: cells, rows: g.rows, cols: g.cols}, nil
}

// Equal reports whether both grids hold the same pixels.
func (g *Grid) Equal(other *Grid) bool {
	if g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Each calls fn for every cell in row-major order.
func (g *Grid) Each(fn func(row, col int, p Pixel)) {
	for i, p := range g.cells {
		fn(i/g.cols, i%g.cols, p)
	}
}

// Combine merges two snapshots into a new grid. The stronger attribute wins
// per cell (Head over Trail over Blank); ties keep a.
func Combine(a, b *Grid) (*Grid, error) {
	if a.rows != b.rows || a.cols != b.cols {
		return nil, ErrDimensionMismatch
	}
	out, err := a.Clone()
	if err != nil {
		return nil, err
	}
	for i, p := range b.cells {
		if p.Attr > out.cells[i].Attr {
			out.cells[i] = p
		}
	}
	return out, nil
}
