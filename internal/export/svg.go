package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/san-kum/digirain/internal/rain"
	"github.com/san-kum/digirain/internal/viz"
)

// FrameToSVG draws a frame as monospace text, one <text> element per lit
// cell. scale is the cell height in pixels; cells are 0.6 scale wide.
func FrameToSVG(g *rain.Grid, theme viz.Theme, scale float64) string {
	if g == nil || scale <= 0 {
		return ""
	}

	cellW, cellH := scale*0.6, scale
	width := float64(g.Cols()) * cellW
	height := float64(g.Rows()) * cellH

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g font-family="monospace" font-size="%.1f" text-anchor="middle">
`, width, height, width, height, theme.Background, scale*0.9))

	head, trail := string(theme.Head), string(theme.Trail())
	g.Each(func(row, col int, p rain.Pixel) {
		if p.IsBlank() {
			return
		}
		fill, weight := trail, "normal"
		if p.Attr == rain.Head {
			fill, weight = head, "bold"
		}
		x := float64(col)*cellW + cellW/2
		y := float64(row+1)*cellH - cellH*0.2
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-weight="%s">%s</text>
`, x, y, fill, weight, html.EscapeString(string(p.Glyph))))
	})

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// IntervalsToSVG plots tick intervals as a line chart with a dashed line at
// target.
func IntervalsToSVG(intervals []time.Duration, target time.Duration, width, height int, strokeColor string) string {
	if len(intervals) < 2 {
		return ""
	}

	maxY := target
	for _, d := range intervals {
		if d > maxY {
			maxY = d
		}
	}
	if maxY == 0 {
		maxY = 1
	}
	top := float64(maxY) * 1.1
	yOf := func(d time.Duration) float64 {
		return float64(height) - float64(d)/top*float64(height)
	}
	step := float64(width) / float64(len(intervals)-1)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#666666" stroke-dasharray="4 4"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, yOf(target), width, yOf(target), strokeColor))

	for i, d := range intervals {
		x := float64(i) * step
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, yOf(d)))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, yOf(d)))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
