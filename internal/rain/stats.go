package rain

import (
	"sync"
	"time"
)

// recentIntervals is how many tick intervals each worker keeps for plotting.
const recentIntervals = 256

// WorkerStats summarises a worker's pacing.
type WorkerStats struct {
	Ticks  uint64
	Mean   time.Duration   // mean interval between tick starts
	Recent []time.Duration // oldest first
}

// Stats is a point-in-time view of both workers.
type Stats struct {
	Update WorkerStats
	Render WorkerStats
	Frames uint64 // completed swaps
}

// tickStats records tick start times observed by one worker.
type tickStats struct {
	mu     sync.Mutex
	ticks  uint64
	first  time.Time
	last   time.Time
	recent []time.Duration
	next   int
}

func (s *tickStats) Observe(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticks == 0 {
		s.first = now
	} else {
		d := now.Sub(s.last)
		if len(s.recent) < recentIntervals {
			s.recent = append(s.recent, d)
		} else {
			s.recent[s.next] = d
			s.next = (s.next + 1) % recentIntervals
		}
	}
	s.last = now
	s.ticks++
}

func (s *tickStats) Value() WorkerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := WorkerStats{Ticks: s.ticks}
	if s.ticks > 1 {
		out.Mean = s.last.Sub(s.first) / time.Duration(s.ticks-1)
	}
	out.Recent = make([]time.Duration, 0, len(s.recent))
	out.Recent = append(out.Recent, s.recent[s.next:]...)
	out.Recent = append(out.Recent, s.recent[:s.next]...)
	return out
}

func (s *tickStats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks = 0
	s.first = time.Time{}
	s.last = time.Time{}
	s.recent = s.recent[:0]
	s.next = 0
}
