package rain

import "sync"

// Frame is a stable copy of the front grid. Seq counts completed update
// passes; two frames with the same Seq hold identical pixels.
type Frame struct {
	Seq  uint64
	Grid *Grid
}

// BufferPair holds the front and back grids. Which one is front is an index
// flipped under mu; grid contents are never exchanged.
//
// Only the producer calls Back, SyncBack and Swap. Any goroutine may take
// snapshots.
type BufferPair struct {
	mu    sync.Mutex
	grids [2]*Grid
	front int
	seq   uint64
}

// NewBufferPair allocates two blank grids of identical shape.
func NewBufferPair(rows, cols int) (*BufferPair, error) {
	a, err := NewGrid(rows, cols)
	if err != nil {
		return nil, err
	}
	b, err := NewGrid(rows, cols)
	if err != nil {
		return nil, err
	}
	return &BufferPair{grids: [2]*Grid{a, b}}, nil
}

func (b *BufferPair) Rows() int { return b.grids[0].rows }
func (b *BufferPair) Cols() int { return b.grids[0].cols }

// Back returns the grid being prepared.
func (b *BufferPair) Back() *Grid {
	return b.grids[1-b.front]
}

// SyncBack brings the back grid up to the last completed frame so a pass can
// apply its deltas on top of it. The front grid is only read here, and only
// the producer moves the front index, so no lock is needed.
func (b *BufferPair) SyncBack() {
	copy(b.grids[1-b.front].cells, b.grids[b.front].cells)
}

// Swap publishes the back grid. O(1): the lock covers an index flip only.
func (b *BufferPair) Swap() {
	b.mu.Lock()
	b.front = 1 - b.front
	b.seq++
	b.mu.Unlock()
}

// Seq returns the number of completed swaps.
func (b *BufferPair) Seq() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq
}

// FrontSnapshot allocates a grid and copies the front into it.
func (b *BufferPair) FrontSnapshot() (Frame, error) {
	dst, err := NewGrid(b.Rows(), b.Cols())
	if err != nil {
		return Frame{}, err
	}
	seq, err := b.FrontSnapshotInto(dst)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Seq: seq, Grid: dst}, nil
}

// FrontSnapshotInto copies the front grid into dst and returns its sequence.
// The lock is held for the copy only; callers read dst afterwards freely.
func (b *BufferPair) FrontSnapshotInto(dst *Grid) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := dst.CopyFrom(b.grids[b.front]); err != nil {
		return 0, err
	}
	return b.seq, nil
}

// clone deep-copies both grids. Callers guarantee no producer is running.
func (b *BufferPair) clone() (*BufferPair, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g0, err := b.grids[0].Clone()
	if err != nil {
		return nil, err
	}
	g1, err := b.grids[1].Clone()
	if err != nil {
		return nil, err
	}
	return &BufferPair{grids: [2]*Grid{g0, g1}, front: b.front, seq: b.seq}, nil
}
