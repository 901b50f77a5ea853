package rain

// Timing bounds the random draws a column makes when it comes to rest.
type Timing struct {
	MinDelay, MaxDelay int // idle ticks before a drop starts
	MinSpeed, MaxSpeed int // ticks per row while falling
}

// Column is the Idle/Falling state machine of one screen column.
//
// While Active, 0 <= HeadRow < rows. WaitTicks is never negative.
type Column struct {
	Index      int
	HeadRow    int
	Active     bool
	WaitTicks  int
	Speed      int
	TailLength int

	countdown int
	fading    bool
	fadeRow   int
}

// NewColumn returns an idle column with a staggered start delay.
func NewColumn(index, tailLength int, gen *Glyphs, t Timing) Column {
	c := Column{Index: index, TailLength: tailLength}
	c.rest(gen, t)
	return c
}

// Step advances the column by one producer tick, writing into g.
func (c *Column) Step(g *Grid, gen *Glyphs, t Timing) {
	if !c.Active {
		c.fade(g)
		if c.WaitTicks > 0 {
			c.WaitTicks--
			return
		}
		c.begin(g, gen)
		return
	}

	c.countdown--
	if c.countdown > 0 {
		return
	}
	c.countdown = c.Speed

	if c.HeadRow < g.Rows()-1 {
		c.advance(g, gen)
		return
	}
	c.finish(g, gen, t)
}

func (c *Column) begin(g *Grid, gen *Glyphs) {
	if c.fading {
		for row := max(c.fadeRow, 0); row < g.Rows(); row++ {
			g.Set(row, c.Index, BlankPixel)
		}
		c.fading = false
	}
	c.Active = true
	c.HeadRow = 0
	c.countdown = c.Speed
	g.Set(0, c.Index, Pixel{Glyph: gen.Next(), Attr: Head})
}

func (c *Column) advance(g *Grid, gen *Glyphs) {
	c.dim(g, c.HeadRow)
	c.HeadRow++
	g.Set(c.HeadRow, c.Index, Pixel{Glyph: gen.Next(), Attr: Head})
	c.trim(g, c.HeadRow-c.TailLength-1)
}

// finish retires the drop. The trail keeps shrinking from the top as if the
// head had moved on below the last row.
func (c *Column) finish(g *Grid, gen *Glyphs, t Timing) {
	rows := g.Rows()
	c.dim(g, c.HeadRow)
	c.trim(g, rows-c.TailLength-1)
	c.fading = true
	c.fadeRow = rows - c.TailLength
	c.rest(gen, t)
}

func (c *Column) fade(g *Grid) {
	if !c.fading {
		return
	}
	if c.fadeRow >= g.Rows() {
		c.fading = false
		return
	}
	c.trim(g, c.fadeRow)
	c.fadeRow++
}

func (c *Column) rest(gen *Glyphs, t Timing) {
	c.Active = false
	c.HeadRow = -1
	c.WaitTicks = gen.Between(t.MinDelay, t.MaxDelay)
	c.Speed = gen.Between(max(t.MinSpeed, 1), max(t.MaxSpeed, 1))
}

func (c *Column) dim(g *Grid, row int) {
	g.Set(row, c.Index, Pixel{Glyph: g.At(row, c.Index).Glyph, Attr: Trail})
}

func (c *Column) trim(g *Grid, row int) {
	if row >= 0 {
		g.Set(row, c.Index, BlankPixel)
	}
}
