package rain

import "math/rand/v2"

// pcgStream is the increment half of the PCG seed pair.
const pcgStream = 0x9e3779b97f4a7c15

// Glyphs is the single seeded random stream behind glyph draws, start delays
// and column speeds. It is not synchronized; only the update worker uses it.
type Glyphs struct {
	charset []rune
	src     *rand.PCG
	rng     *rand.Rand
}

// NewGlyphs seeds a generator over charset. A zero seed draws one from the
// runtime's non-deterministic source.
func NewGlyphs(charset []rune, seed int64) *Glyphs {
	s := uint64(seed)
	if seed == 0 {
		s = rand.Uint64()
	}
	src := rand.NewPCG(s, pcgStream)
	return &Glyphs{
		charset: append([]rune(nil), charset...),
		src:     src,
		rng:     rand.New(src),
	}
}

// Next draws one glyph uniformly from the charset.
func (g *Glyphs) Next() rune {
	return g.charset[g.rng.IntN(len(g.charset))]
}

// Between draws uniformly from [lo, hi]. lo must be >= 0, so hi-lo cannot
// overflow; the width is counted in uint64 so hi-lo+1 cannot either.
func (g *Glyphs) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + int(g.rng.Uint64N(uint64(hi-lo)+1))
}

// clone copies the generator at its current stream position.
func (g *Glyphs) clone() *Glyphs {
	src := *g.src
	return &Glyphs{
		charset: append([]rune(nil), g.charset...),
		src:     &src,
		rng:     rand.New(&src),
	}
}
