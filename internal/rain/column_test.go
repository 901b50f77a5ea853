package rain

import "testing"

var immediate = Timing{MinDelay: 0, MaxDelay: 0, MinSpeed: 1, MaxSpeed: 1}

func newTestColumn(t *testing.T, rows, tail int, tm Timing) (Column, *Grid, *Glyphs) {
	t.Helper()
	g, err := NewGrid(rows, 1)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	gen := NewGlyphs([]rune("abc"), 11)
	return NewColumn(0, tail, gen, tm), g, gen
}

func TestColumn_InitialState(t *testing.T) {
	gen := NewGlyphs([]rune("a"), 5)
	tm := Timing{MinDelay: 3, MaxDelay: 9, MinSpeed: 1, MaxSpeed: 1}
	for i := 0; i < 50; i++ {
		c := NewColumn(i, 4, gen, tm)
		if c.Active {
			t.Fatal("new column should be idle")
		}
		if c.WaitTicks < 3 || c.WaitTicks > 9 {
			t.Fatalf("WaitTicks %d outside [3,9]", c.WaitTicks)
		}
		if c.Index != i || c.TailLength != 4 {
			t.Fatalf("unexpected column %+v", c)
		}
	}
}

func TestColumn_IdleCountdown(t *testing.T) {
	tm := Timing{MinDelay: 2, MaxDelay: 2, MinSpeed: 1, MaxSpeed: 1}
	c, g, gen := newTestColumn(t, 5, 2, tm)

	c.Step(g, gen, tm)
	c.Step(g, gen, tm)
	if c.Active || c.WaitTicks != 0 {
		t.Fatalf("after two idle ticks: active=%v wait=%d", c.Active, c.WaitTicks)
	}
	for row := 0; row < 5; row++ {
		if !g.At(row, 0).IsBlank() {
			t.Fatalf("idle column wrote row %d", row)
		}
	}

	c.Step(g, gen, tm)
	if !c.Active || c.HeadRow != 0 {
		t.Fatalf("expected falling at row 0, got active=%v head=%d", c.Active, c.HeadRow)
	}
	if g.At(0, 0).Attr != Head {
		t.Errorf("expected head pixel at row 0, got %+v", g.At(0, 0))
	}
}

func TestColumn_HeadProgression(t *testing.T) {
	for _, rows := range []int{1, 2, 5, 12} {
		c, g, gen := newTestColumn(t, rows, 3, immediate)

		c.Step(g, gen, immediate)
		if !c.Active || c.HeadRow != 0 {
			t.Fatalf("rows=%d: drop did not start", rows)
		}

		for n := 1; n < rows; n++ {
			c.Step(g, gen, immediate)
			if want := min(n, rows-1); c.HeadRow != want {
				t.Errorf("rows=%d after %d ticks: head %d, want %d", rows, n, c.HeadRow, want)
			}
			if !c.Active {
				t.Errorf("rows=%d: went idle early at tick %d", rows, n)
			}
		}

		c.Step(g, gen, immediate)
		if c.Active {
			t.Errorf("rows=%d: expected idle after passing the last row", rows)
		}
	}
}

func TestColumn_TailTrim(t *testing.T) {
	c, g, gen := newTestColumn(t, 10, 2, immediate)

	c.Step(g, gen, immediate)
	for i := 0; i < 5; i++ {
		c.Step(g, gen, immediate)
	}
	if c.HeadRow != 5 {
		t.Fatalf("expected head at 5, got %d", c.HeadRow)
	}

	want := map[int]Attribute{0: Blank, 1: Blank, 2: Blank, 3: Trail, 4: Trail, 5: Head, 6: Blank}
	for row, attr := range want {
		if got := g.At(row, 0).Attr; got != attr {
			t.Errorf("row %d: got %v, want %v", row, got, attr)
		}
	}
}

func TestColumn_TrailKeepsGlyph(t *testing.T) {
	c, g, gen := newTestColumn(t, 4, 3, immediate)

	c.Step(g, gen, immediate)
	head := g.At(0, 0).Glyph
	c.Step(g, gen, immediate)

	if p := g.At(0, 0); p.Attr != Trail || p.Glyph != head {
		t.Errorf("previous head should become trail with glyph %q, got %+v", head, p)
	}
}

func TestColumn_ZeroTail(t *testing.T) {
	c, g, gen := newTestColumn(t, 6, 0, immediate)

	c.Step(g, gen, immediate)
	c.Step(g, gen, immediate)
	c.Step(g, gen, immediate)

	for row := 0; row < 6; row++ {
		attr := g.At(row, 0).Attr
		if row == 2 && attr != Head {
			t.Errorf("row 2 should be head, got %v", attr)
		}
		if row != 2 && attr != Blank {
			t.Errorf("row %d should be blank with no tail, got %v", row, attr)
		}
	}
}

func TestColumn_FadeAfterLastRow(t *testing.T) {
	tm := Timing{MinDelay: 100, MaxDelay: 100, MinSpeed: 1, MaxSpeed: 1}
	c, g, gen := newTestColumn(t, 4, 2, immediate)

	for i := 0; i < 4; i++ {
		c.Step(g, gen, tm)
	}
	if c.HeadRow != 3 {
		t.Fatalf("expected head on last row, got %d", c.HeadRow)
	}

	c.Step(g, gen, tm)
	if c.Active || c.WaitTicks != 100 {
		t.Fatalf("expected idle with fresh delay, got active=%v wait=%d", c.Active, c.WaitTicks)
	}
	want := []Attribute{Blank, Blank, Trail, Trail}
	for row, attr := range want {
		if got := g.At(row, 0).Attr; got != attr {
			t.Errorf("row %d after finish: got %v, want %v", row, got, attr)
		}
	}

	c.Step(g, gen, tm)
	if g.At(2, 0).Attr != Blank || g.At(3, 0).Attr != Trail {
		t.Errorf("first fade tick should blank row 2 only")
	}
	c.Step(g, gen, tm)
	for row := 0; row < 4; row++ {
		if !g.At(row, 0).IsBlank() {
			t.Errorf("row %d not faded", row)
		}
	}
	if c.WaitTicks != 98 {
		t.Errorf("fade ticks should still count down the delay, wait=%d", c.WaitTicks)
	}
}

func TestColumn_NewDropClearsResidue(t *testing.T) {
	tm := Timing{MinDelay: 0, MaxDelay: 0, MinSpeed: 1, MaxSpeed: 1}
	c, g, gen := newTestColumn(t, 3, 5, tm)

	for i := 0; i < 4; i++ {
		c.Step(g, gen, tm)
	}
	if c.Active {
		t.Fatal("expected idle after the drop left the grid")
	}

	c.Step(g, gen, tm)
	if !c.Active || c.HeadRow != 0 {
		t.Fatalf("expected a new drop, got %+v", c)
	}
	if g.At(1, 0).Attr != Blank || g.At(2, 0).Attr != Blank {
		t.Error("old trail should be cleared when a new drop starts")
	}
}

func TestColumn_Speed(t *testing.T) {
	tm := Timing{MinDelay: 0, MaxDelay: 0, MinSpeed: 2, MaxSpeed: 2}
	c, g, gen := newTestColumn(t, 20, 3, tm)

	c.Step(g, gen, tm)
	for k := 1; k <= 5; k++ {
		c.Step(g, gen, tm)
		c.Step(g, gen, tm)
		if c.HeadRow != k {
			t.Errorf("after %d double ticks head %d, want %d", k, c.HeadRow, k)
		}
	}
}
