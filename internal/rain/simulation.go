package rain

// Simulation is the producer's state: every column, the glyph stream and the
// buffer pair. Tick is one complete update pass.
type Simulation struct {
	pair    *BufferPair
	columns []Column
	glyphs  *Glyphs
	timing  Timing
	ticks   uint64
}

// NewSimulation validates opts and allocates the buffers and columns. Nothing
// is retained when it fails.
func NewSimulation(opts Options) (*Simulation, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	pair, err := NewBufferPair(opts.Rows, opts.Cols)
	if err != nil {
		return nil, err
	}

	glyphs := NewGlyphs(opts.Charset, opts.Seed)
	timing := opts.timing()
	columns := make([]Column, opts.Cols)
	for i := range columns {
		columns[i] = NewColumn(i, opts.TailLength, glyphs, timing)
	}

	return &Simulation{
		pair:    pair,
		columns: columns,
		glyphs:  glyphs,
		timing:  timing,
	}, nil
}

// Tick advances every column into the back grid and then publishes it.
// Columns draw from one shared stream in index order; a fixed seed
// reproduces a run only with that order.
func (s *Simulation) Tick() {
	s.pair.SyncBack()
	back := s.pair.Back()
	for i := range s.columns {
		s.columns[i].Step(back, s.glyphs, s.timing)
	}
	s.pair.Swap()
	s.ticks++
}

// Ticks returns the number of completed passes.
func (s *Simulation) Ticks() uint64 { return s.ticks }

// Buffers exposes the pair for snapshotting.
func (s *Simulation) Buffers() *BufferPair { return s.pair }

// Columns returns a copy of the column states.
func (s *Simulation) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Clone deep-copies the simulation, including the glyph stream position.
func (s *Simulation) Clone() (*Simulation, error) {
	pair, err := s.pair.clone()
	if err != nil {
		return nil, err
	}
	columns := make([]Column, len(s.columns))
	copy(columns, s.columns)
	return &Simulation{
		pair:    pair,
		columns: columns,
		glyphs:  s.glyphs.clone(),
		timing:  s.timing,
		ticks:   s.ticks,
	}, nil
}
