package rain

import "sync"

// fakeTerminal records what the render worker does. Safe for concurrent use.
type fakeTerminal struct {
	mu sync.Mutex

	rows, cols int
	initErr    error
	panicOn    rune

	inits   int
	writes  int
	clears  int
	flushes int
	cursor  []bool
}

func newFakeTerminal(rows, cols int) *fakeTerminal {
	return &fakeTerminal{rows: rows, cols: cols}
}

func (f *fakeTerminal) Size() (int, int) { return f.rows, f.cols }

func (f *fakeTerminal) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
	return f.initErr
}

func (f *fakeTerminal) WriteCell(row, col int, glyph rune, attr Attribute) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOn != 0 && glyph == f.panicOn {
		panic("terminal write failed")
	}
	f.writes++
}

func (f *fakeTerminal) SetCursorVisible(visible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursor = append(f.cursor, visible)
}

func (f *fakeTerminal) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
}

func (f *fakeTerminal) Flush() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
}

func (f *fakeTerminal) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func (f *fakeTerminal) Flushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushes
}

func (f *fakeTerminal) CursorCalls() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.cursor...)
}
