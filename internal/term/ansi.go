package term

import (
	"bytes"
	"io"
	"sync"

	"github.com/muesli/termenv"
	"github.com/san-kum/digirain/internal/rain"
	"github.com/san-kum/digirain/internal/viz"
)

// ANSI renders to a plain writer. Cells written between Clear and Flush are
// staged in a shadow grid; Flush emits cursor moves and styled glyphs only for
// cells that differ from the previous flush.
type ANSI struct {
	out  *termenv.Output
	buf  bytes.Buffer
	draw *termenv.Output // writes into buf

	rows, cols int
	head       termenv.Color
	trail      termenv.Color

	mu     sync.Mutex
	cur    []rain.Pixel
	prev   []rain.Pixel
	drawn  bool // prev reflects what is on screen
	inited bool
}

// NewANSI builds an ANSI terminal of a fixed size. opts are passed to
// termenv, e.g. termenv.WithProfile to force a colour profile.
func NewANSI(w io.Writer, rows, cols int, theme viz.Theme, opts ...termenv.OutputOption) *ANSI {
	out := termenv.NewOutput(w, opts...)
	a := &ANSI{
		out:   out,
		rows:  rows,
		cols:  cols,
		head:  out.Color(string(theme.Head)),
		trail: out.Color(string(theme.Trail())),
		cur:   blankCells(rows * cols),
		prev:  blankCells(rows * cols),
	}
	a.draw = termenv.NewOutput(&a.buf, termenv.WithProfile(out.Profile))
	return a
}

func blankCells(n int) []rain.Pixel {
	cells := make([]rain.Pixel, n)
	for i := range cells {
		cells[i] = rain.BlankPixel
	}
	return cells
}

// Init switches to the alternate screen and clears it. Later calls are
// no-ops.
func (a *ANSI) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inited {
		return nil
	}
	a.inited = true
	a.out.AltScreen()
	a.out.ClearScreen()
	a.drawn = true
	return nil
}

// Fini leaves the alternate screen and restores the cursor.
func (a *ANSI) Fini() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.inited {
		return
	}
	a.inited = false
	a.out.Reset()
	a.out.ExitAltScreen()
	a.out.ShowCursor()
}

func (a *ANSI) Size() (rows, cols int) { return a.rows, a.cols }

func (a *ANSI) WriteCell(row, col int, glyph rune, attr rain.Attribute) {
	if row < 0 || row >= a.rows || col < 0 || col >= a.cols {
		return
	}
	a.mu.Lock()
	a.cur[row*a.cols+col] = rain.Pixel{Glyph: glyph, Attr: attr}
	a.mu.Unlock()
}

func (a *ANSI) SetCursorVisible(visible bool) {
	if visible {
		a.out.ShowCursor()
		return
	}
	a.out.HideCursor()
}

// Clear blanks the staged frame.
func (a *ANSI) Clear() {
	a.mu.Lock()
	for i := range a.cur {
		a.cur[i] = rain.BlankPixel
	}
	a.mu.Unlock()
}

// Flush writes the changed cells in one write.
func (a *ANSI) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.buf.Reset()
	for row := 0; row < a.rows; row++ {
		for col := 0; col < a.cols; col++ {
			i := row*a.cols + col
			p := a.cur[i]
			if a.drawn && p == a.prev[i] {
				continue
			}
			a.draw.MoveCursor(row+1, col+1)
			a.buf.WriteString(a.cell(p))
		}
	}
	copy(a.prev, a.cur)
	a.drawn = true

	if a.buf.Len() > 0 {
		_, _ = a.out.Write(a.buf.Bytes())
	}
}

func (a *ANSI) cell(p rain.Pixel) string {
	switch p.Attr {
	case rain.Head:
		return a.draw.String(string(p.Glyph)).Foreground(a.head).Bold().String()
	case rain.Trail:
		return a.draw.String(string(p.Glyph)).Foreground(a.trail).String()
	}
	return " "
}
