package term

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/san-kum/digirain/internal/rain"
	"github.com/san-kum/digirain/internal/viz"
)

// Screen adapts a tcell.Screen to rain.Terminal.
type Screen struct {
	screen tcell.Screen

	head  tcell.Style
	trail tcell.Style

	initOnce sync.Once
	initErr  error
	finiOnce sync.Once
}

// NewScreen opens the default tcell screen for the current terminal.
func NewScreen(theme viz.Theme) (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewScreenWith(s, theme), nil
}

// NewScreenWith wraps an existing tcell screen.
func NewScreenWith(s tcell.Screen, theme viz.Theme) *Screen {
	return &Screen{
		screen: s,
		head:   tcell.StyleDefault.Foreground(tcell.GetColor(string(theme.Head))).Bold(true),
		trail:  tcell.StyleDefault.Foreground(tcell.GetColor(string(theme.Trail()))),
	}
}

// Init initializes the underlying screen once. Later calls return the first
// result, so both the caller and the render worker may call it.
func (s *Screen) Init() error {
	s.initOnce.Do(func() {
		s.initErr = s.screen.Init()
	})
	return s.initErr
}

// Fini restores the terminal. Safe to call multiple times.
func (s *Screen) Fini() {
	s.finiOnce.Do(s.screen.Fini)
}

func (s *Screen) Size() (rows, cols int) {
	w, h := s.screen.Size()
	return h, w
}

func (s *Screen) WriteCell(row, col int, glyph rune, attr rain.Attribute) {
	style := tcell.StyleDefault
	switch attr {
	case rain.Head:
		style = s.head
	case rain.Trail:
		style = s.trail
	default:
		glyph = ' '
	}
	s.screen.SetContent(col, row, glyph, nil, style)
}

func (s *Screen) SetCursorVisible(visible bool) {
	if visible {
		s.screen.ShowCursor(0, 0)
		return
	}
	s.screen.HideCursor()
}

func (s *Screen) Clear() { s.screen.Clear() }

func (s *Screen) Flush() { s.screen.Show() }

// IsQuit reports whether ev asks the program to exit: q, Esc or Ctrl-C.
func IsQuit(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return key.Rune() == 'q' || key.Rune() == 'Q'
	}
	return false
}

// WatchQuit polls input until a quit key arrives, the screen is finalized, or
// ctx is done, and calls cancel on a quit key. Resize events resync the
// display; the animation keeps its original dimensions.
func (s *Screen) WatchQuit(ctx context.Context, cancel context.CancelFunc) {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if _, resized := ev.(*tcell.EventResize); resized {
				s.screen.Sync()
				continue
			}
			if IsQuit(ev) {
				cancel()
				return
			}
		}
	}
}
