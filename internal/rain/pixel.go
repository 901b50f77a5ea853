package rain

// Attribute selects how a cell is rendered.
type Attribute uint8

const (
	Blank Attribute = iota
	Trail
	Head
)

func (a Attribute) String() string {
	switch a {
	case Head:
		return "head"
	case Trail:
		return "trail"
	default:
		return "blank"
	}
}

// Pixel is one grid cell. Cells are replaced wholesale, never mutated in place.
type Pixel struct {
	Glyph rune
	Attr  Attribute
}

// BlankPixel is what an empty cell holds.
var BlankPixel = Pixel{Glyph: ' ', Attr: Blank}

func (p Pixel) IsBlank() bool { return p.Attr == Blank }
