package rain

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func testOptions(rows, cols int) Options {
	opts := DefaultOptions(rows, cols)
	opts.Seed = 42
	opts.UpdateInterval = 2 * time.Millisecond
	opts.RenderInterval = time.Millisecond
	opts.MaxDelay = 5
	opts.TailLength = 3
	opts.Logger = slog.New(slog.NewTextHandler(GinkgoWriter, nil))
	return opts
}

// checkWavefront asserts that every column of g looks like the output of
// complete update passes at speed 1: at most one head with an unbroken trail
// directly above it, or a fading trail that runs to the last row.
func checkWavefront(g *Grid, tail int) {
	for col := 0; col < g.Cols(); col++ {
		head := -1
		for row := 0; row < g.Rows(); row++ {
			if g.At(row, col).Attr == Head {
				Expect(head).To(Equal(-1), "column %d has two heads", col)
				head = row
			}
		}

		if head >= 0 {
			for row := 0; row < g.Rows(); row++ {
				attr := g.At(row, col).Attr
				switch {
				case row == head:
				case row < head && row >= head-tail:
					Expect(attr).To(Equal(Trail), "column %d row %d should trail head %d", col, row, head)
				default:
					Expect(attr).To(Equal(Blank), "column %d row %d should be blank around head %d", col, row, head)
				}
			}
			continue
		}

		seen := false
		for row := 0; row < g.Rows(); row++ {
			if g.At(row, col).Attr == Trail {
				seen = true
			} else {
				Expect(seen).To(BeFalse(), "column %d fading trail broken at row %d", col, row)
			}
		}
	}
}

var _ = Describe("Engine", func() {
	var (
		term *fakeTerminal
		eng  *Engine
	)

	BeforeEach(func() {
		term = newFakeTerminal(12, 20)
		var err error
		eng, err = New(testOptions(12, 20), term)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = eng.Close()
	})

	Describe("construction", func() {
		It("rejects a nil terminal", func() {
			_, err := New(testOptions(5, 5), nil)
			var cfgErr *ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
		})

		It("rejects invalid options without a partial engine", func() {
			opts := testOptions(5, 5)
			opts.Charset = []rune{}
			e, err := New(opts, term)
			Expect(e).To(BeNil())
			var cfgErr *ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Field).To(Equal("charset"))
		})

		It("returns options that callers cannot alias", func() {
			opts := eng.Options()
			Expect(opts.UpdateInterval).To(Equal(2 * time.Millisecond))
			Expect(opts.Rows).To(Equal(12))
			opts.Charset[0] = '#'
			Expect(eng.Options().Charset[0]).NotTo(Equal('#'))
		})

		It("surfaces allocation failure", func() {
			restore := allocCells
			allocCells = func(int) ([]Pixel, error) { return nil, errors.New("no memory") }
			defer func() { allocCells = restore }()

			_, err := New(testOptions(5, 5), term)
			var allocErr *AllocationError
			Expect(errors.As(err, &allocErr)).To(BeTrue())
		})
	})

	Describe("lifecycle", func() {
		It("joins both workers before Stop returns", func() {
			Expect(eng.Start(context.Background())).To(Succeed())
			Expect(eng.Running()).To(BeTrue())
			Expect(eng.Alive()).To(Equal(2))

			Expect(eng.Stop()).To(Succeed())
			Expect(eng.Alive()).To(Equal(0))
			Expect(eng.Running()).To(BeFalse())
		})

		It("hides the cursor on start and shows it on stop", func() {
			Expect(eng.Start(context.Background())).To(Succeed())
			Expect(eng.Stop()).To(Succeed())
			Expect(term.CursorCalls()).To(Equal([]bool{false, true}))
		})

		It("rejects a second Start while running", func() {
			Expect(eng.Start(context.Background())).To(Succeed())
			Expect(eng.Start(context.Background())).To(MatchError(ErrAlreadyRunning))
			Expect(eng.Alive()).To(Equal(2))
		})

		It("treats Stop as idempotent", func() {
			Expect(eng.Stop()).To(Succeed())
			Expect(eng.Start(context.Background())).To(Succeed())
			Expect(eng.Stop()).To(Succeed())
			Expect(eng.Stop()).To(Succeed())
			Expect(term.CursorCalls()).To(Equal([]bool{false, true}))
		})

		It("can be restarted", func() {
			Expect(eng.Start(context.Background())).To(Succeed())
			Expect(eng.Stop()).To(Succeed())
			Expect(eng.Start(context.Background())).To(Succeed())
			Expect(eng.Alive()).To(Equal(2))
			Expect(eng.Stop()).To(Succeed())
			Expect(eng.Alive()).To(Equal(0))
		})

		It("renders frames and flushes the terminal", func() {
			Expect(eng.Start(context.Background())).To(Succeed())
			Eventually(term.Writes, time.Second).Should(BeNumerically(">", 0))
			Eventually(term.Flushes, time.Second).Should(BeNumerically(">", 1))
			Expect(eng.Stop()).To(Succeed())
			Expect(eng.Stats().Frames).To(BeNumerically(">", 0))
		})

		It("halts when the start context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			Expect(eng.Start(ctx)).To(Succeed())
			done := eng.Done()
			cancel()
			Eventually(done, time.Second).Should(BeClosed())
			Eventually(eng.Alive, time.Second).Should(Equal(0))
			Expect(eng.Stop()).To(Succeed())
		})
	})

	Describe("start failure", func() {
		It("leaves the engine idle with no live workers", func() {
			term.initErr = errors.New("no tty")

			err := eng.Start(context.Background())
			var startErr *StartError
			Expect(errors.As(err, &startErr)).To(BeTrue())
			Expect(startErr.Worker).To(Equal("render"))
			Expect(errors.Is(err, term.initErr)).To(BeTrue())

			Expect(eng.Alive()).To(Equal(0))
			Expect(eng.Running()).To(BeFalse())
			Expect(term.CursorCalls()).To(Equal([]bool{false, true}))

			term.mu.Lock()
			term.initErr = nil
			term.mu.Unlock()
			Expect(eng.Start(context.Background())).To(Succeed())
		})
	})

	Describe("worker faults", func() {
		It("stops both workers and reports the fault through Stop", func() {
			opts := testOptions(6, 6)
			opts.Charset = []rune("!")
			opts.MaxDelay = 0
			term = newFakeTerminal(6, 6)
			term.panicOn = '!'
			var err error
			eng, err = New(opts, term)
			Expect(err).NotTo(HaveOccurred())

			Expect(eng.Start(context.Background())).To(Succeed())
			Eventually(eng.Done(), time.Second).Should(BeClosed())
			Eventually(eng.Alive, time.Second).Should(Equal(0))

			err = eng.Stop()
			var workerErr *WorkerError
			Expect(errors.As(err, &workerErr)).To(BeTrue())
			Expect(workerErr.Worker).To(Equal("render"))
			Expect(eng.Err()).To(Equal(err))
		})
	})

	Describe("swap atomicity", func() {
		It("never exposes a frame mixed from two update passes", func() {
			Expect(eng.Start(context.Background())).To(Succeed())

			var wg sync.WaitGroup
			for i := 0; i < 4; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					var last uint64
					deadline := time.Now().Add(200 * time.Millisecond)
					for time.Now().Before(deadline) {
						frame, err := eng.Snapshot()
						Expect(err).NotTo(HaveOccurred())
						Expect(frame.Seq).To(BeNumerically(">=", last))
						last = frame.Seq
						checkWavefront(frame.Grid, 3)
					}
				}()
			}
			wg.Wait()
			Expect(eng.Stop()).To(Succeed())
		})
	})

	Describe("copying", func() {
		It("clones an idle engine into independent storage", func() {
			for i := 0; i < 8; i++ {
				Expect(eng.Step()).To(Succeed())
			}
			before, err := eng.Snapshot()
			Expect(err).NotTo(HaveOccurred())

			clone, err := eng.Clone()
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 8; i++ {
				Expect(clone.Step()).To(Succeed())
			}

			after, _ := eng.Snapshot()
			Expect(after.Grid.Equal(before.Grid)).To(BeTrue())
			Expect(after.Seq).To(Equal(before.Seq))

			moved, _ := clone.Snapshot()
			Expect(moved.Seq).To(Equal(before.Seq + 8))
		})

		It("refuses to copy a running engine", func() {
			Expect(eng.Start(context.Background())).To(Succeed())
			_, err := eng.Clone()
			Expect(err).To(MatchError(ErrRunning))
			Expect(eng.Step()).To(MatchError(ErrRunning))
			_, err = eng.Columns()
			Expect(err).To(MatchError(ErrRunning))
		})

		It("leaves the destination untouched when assignment fails", func() {
			src, err := New(testOptions(12, 20), term)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 5; i++ {
				Expect(src.Step()).To(Succeed())
			}
			for i := 0; i < 11; i++ {
				Expect(eng.Step()).To(Succeed())
			}

			wantFrame, _ := eng.Snapshot()
			wantCols, _ := eng.Columns()

			restore := allocCells
			calls := 0
			allocCells = func(n int) ([]Pixel, error) {
				calls++
				if calls == 2 {
					return nil, errors.New("no memory")
				}
				return make([]Pixel, n), nil
			}
			err = eng.Assign(src)
			allocCells = restore

			var allocErr *AllocationError
			Expect(errors.As(err, &allocErr)).To(BeTrue())

			gotFrame, _ := eng.Snapshot()
			gotCols, _ := eng.Columns()
			Expect(gotFrame.Grid.Equal(wantFrame.Grid)).To(BeTrue())
			Expect(gotFrame.Seq).To(Equal(wantFrame.Seq))
			Expect(gotCols).To(Equal(wantCols))

			Expect(eng.Assign(src)).To(Succeed())
			srcFrame, _ := src.Snapshot()
			gotFrame, _ = eng.Snapshot()
			Expect(gotFrame.Grid.Equal(srcFrame.Grid)).To(BeTrue())
		})
	})

	Describe("frame pacing", Label("slow"), func() {
		It("keeps the mean update interval within 10% of the target", func() {
			if testing.Short() {
				Skip("pacing run takes about ten seconds")
			}
			opts := testOptions(24, 80)
			opts.UpdateInterval = 50 * time.Millisecond
			opts.RenderInterval = 16 * time.Millisecond
			term = newFakeTerminal(24, 80)
			var err error
			eng, err = New(opts, term)
			Expect(err).NotTo(HaveOccurred())

			Expect(eng.Start(context.Background())).To(Succeed())
			Eventually(func() uint64 { return eng.Stats().Update.Ticks }, 15*time.Second, 50*time.Millisecond).
				Should(BeNumerically(">=", 201))
			Expect(eng.Stop()).To(Succeed())

			mean := eng.Stats().Update.Mean
			Expect(mean).To(BeNumerically("~", 50*time.Millisecond, 5*time.Millisecond))
		})
	})
})
