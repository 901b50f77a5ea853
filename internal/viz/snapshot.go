package viz

import (
	"strconv"
	"strings"

	"github.com/san-kum/digirain/internal/rain"
)

// RenderGrid draws g as text, one line per row. Heads and trails are styled
// with the theme; blank cells are spaces. With plain set no escape sequences
// are emitted.
func RenderGrid(g *rain.Grid, t Theme, plain bool) string {
	head, trail := HeadStyle(t), TrailStyle(t)

	var b strings.Builder
	for row := 0; row < g.Rows(); row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < g.Cols(); col++ {
			p := g.At(row, col)
			switch {
			case p.IsBlank():
				b.WriteByte(' ')
			case plain:
				b.WriteRune(p.Glyph)
			case p.Attr == rain.Head:
				b.WriteString(head.Render(string(p.Glyph)))
			default:
				b.WriteString(trail.Render(string(p.Glyph)))
			}
		}
	}
	return b.String()
}

// RenderFrame wraps RenderGrid in a titled panel with the frame number.
func RenderFrame(f rain.Frame, t Theme, plain bool) string {
	body := RenderGrid(f.Grid, t, plain)
	if plain {
		return body
	}
	title := TitleStyle(t).Render("frame ") + MetricValue.Render(strconv.FormatUint(f.Seq, 10))
	return title + "\n" + Panel.BorderForeground(t.Muted).Render(body)
}
