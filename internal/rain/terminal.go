package rain

// Terminal is the output collaborator. While an engine runs only its render
// worker calls WriteCell; SetCursorVisible is called by Start and Stop.
//
// A Terminal may also implement any of
//
//	Init() error // run once by the render worker before its first pass
//	Clear()      // run at the start of every render pass
//	Flush()      // run at the end of every render pass
//
// Clear lets Blank cells be skipped on write without leaving stale glyphs.
type Terminal interface {
	Size() (rows, cols int)
	WriteCell(row, col int, glyph rune, attr Attribute)
	SetCursorVisible(visible bool)
}

type initializer interface {
	Init() error
}

type clearer interface {
	Clear()
}

type flusher interface {
	Flush()
}
