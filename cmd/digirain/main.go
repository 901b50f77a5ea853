package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/digirain/internal/config"
	"github.com/san-kum/digirain/internal/export"
	"github.com/san-kum/digirain/internal/rain"
	"github.com/san-kum/digirain/internal/term"
	"github.com/san-kum/digirain/internal/viz"
	"github.com/spf13/cobra"
	xterm "golang.org/x/term"
)

var (
	configFile string
	presetName string
	rows       int
	cols       int
	updateMs   int
	renderMs   int
	tail       int
	charset    string
	seed       int64
	minDelay   int
	maxDelay   int
	minSpeed   int
	maxSpeed   int
	themeName  string
	backend    string
	duration   time.Duration
	logFile    string
	debug      bool
	// snapshot and pace
	snapshotTicks int
	paceTicks     int
	plain         bool
	svgFile       string
	// config command
	outFile string
)

const (
	headlessRows = 12
	headlessCols = 40
	fallbackRows = 24
	fallbackCols = 80
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "digirain",
		Short:        "digital rain for the terminal",
		SilenceUsage: true,
		RunE:         runRain,
	}
	addRunFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the animation until interrupted",
		RunE:  runRain,
	}
	addRunFlags(runCmd)

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "pick a preset with a live preview, then run it",
		RunE:  runMenu,
	}
	addRunFlags(menuCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	charsetsCmd := &cobra.Command{
		Use:   "charsets",
		Short: "list named charsets",
		RunE:  listCharsets,
	}

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "list colour themes",
		RunE:  listThemes,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "advance a seeded simulation and print the final frame",
		RunE:  runSnapshot,
	}
	addRunFlags(snapshotCmd)
	snapshotCmd.Flags().IntVar(&snapshotTicks, "ticks", 40, "update passes to run")
	snapshotCmd.Flags().BoolVar(&plain, "plain", false, "print glyphs without colour")
	snapshotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the frame as svg")

	paceCmd := &cobra.Command{
		Use:   "pace",
		Short: "measure worker pacing against a discarding terminal",
		RunE:  runPace,
	}
	addRunFlags(paceCmd)
	paceCmd.Flags().IntVar(&paceTicks, "ticks", 100, "update ticks to measure")
	paceCmd.Flags().StringVar(&svgFile, "svg", "", "also write the interval plot as svg")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		RunE:  dumpConfig,
	}
	addRunFlags(configCmd)
	configCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of stdout")

	rootCmd.AddCommand(runCmd, menuCmd, presetsCmd, charsetsCmd, themesCmd, snapshotCmd, paceCmd, configCmd)
	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&presetName, "preset", "", "use preset configuration")
	f.IntVar(&rows, "rows", 0, "rows (0 = terminal height)")
	f.IntVar(&cols, "cols", 0, "columns (0 = terminal width)")
	f.IntVar(&updateMs, "update-ms", config.DefaultUpdateMs, "update interval in ms")
	f.IntVar(&renderMs, "render-ms", config.DefaultRenderMs, "render interval in ms")
	f.IntVar(&tail, "tail", config.DefaultTail, "trail length")
	f.StringVar(&charset, "charset", config.DefaultCharset, "charset name or literal glyphs")
	f.Int64Var(&seed, "seed", 0, "random seed (0 = random)")
	f.IntVar(&minDelay, "min-delay", 0, "minimum idle ticks between drops")
	f.IntVar(&maxDelay, "max-delay", config.DefaultMaxDelay, "maximum idle ticks between drops")
	f.IntVar(&minSpeed, "min-speed", config.DefaultSpeed, "minimum ticks per row")
	f.IntVar(&maxSpeed, "max-speed", config.DefaultSpeed, "maximum ticks per row")
	f.StringVar(&themeName, "theme", config.DefaultTheme, "colour theme")
	f.StringVar(&backend, "backend", config.DefaultBackend, "output backend (tcell|ansi)")
	f.DurationVar(&duration, "duration", 0, "stop after this long (0 = until interrupted)")
	f.StringVar(&logFile, "log-file", "", "write json logs to this file")
	f.BoolVar(&debug, "debug", false, "debug logging")
}

// resolveConfig layers defaults, preset, config file and explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if presetName != "" {
		p := config.GetPreset(presetName)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadInto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("rows") {
		cfg.Rows = rows
	}
	if flags.Changed("cols") {
		cfg.Cols = cols
	}
	if flags.Changed("update-ms") {
		cfg.Timing.UpdateMs = updateMs
	}
	if flags.Changed("render-ms") {
		cfg.Timing.RenderMs = renderMs
	}
	if flags.Changed("tail") {
		cfg.Drops.Tail = tail
	}
	if flags.Changed("charset") {
		cfg.Charset = charset
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("min-delay") {
		cfg.Drops.MinDelay = minDelay
	}
	if flags.Changed("max-delay") {
		cfg.Drops.MaxDelay = maxDelay
	}
	if flags.Changed("min-speed") {
		cfg.Drops.MinSpeed = minSpeed
	}
	if flags.Changed("max-speed") {
		cfg.Drops.MaxSpeed = maxSpeed
	}
	if flags.Changed("theme") {
		cfg.Theme = themeName
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, ok := viz.GetTheme(cfg.Theme); !ok {
		return nil, fmt.Errorf("unknown theme: %s (available: %v)", cfg.Theme, viz.ThemeNames())
	}
	return cfg, nil
}

func setupLogger() (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if logFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}

func runRain(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return runAnimation(cfg)
}

func runMenu(cmd *cobra.Command, args []string) error {
	theme, _ := viz.GetTheme(config.DefaultTheme)
	if cmd.Flags().Changed("theme") {
		t, ok := viz.GetTheme(themeName)
		if !ok {
			return fmt.Errorf("unknown theme: %s (available: %v)", themeName, viz.ThemeNames())
		}
		theme = t
	}

	chosen, err := viz.RunMenu(theme)
	if err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	if chosen == "" {
		return nil
	}
	presetName = chosen
	return runRain(cmd, args)
}

func runAnimation(cfg *config.Config) error {
	logger, closeLog, err := setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	theme, _ := viz.GetTheme(cfg.Theme)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		out  rain.Terminal
		fini func()
	)
	switch cfg.Backend {
	case "ansi":
		h, w := fallbackRows, fallbackCols
		if tw, th, err := xterm.GetSize(int(os.Stdout.Fd())); err == nil {
			h, w = th, tw
		}
		r, c := cfg.Dimensions(h, w)
		a := term.NewANSI(os.Stdout, r, c, theme)
		out, fini = a, a.Fini
	default:
		s, err := term.NewScreen(theme)
		if err != nil {
			return fmt.Errorf("open screen: %w", err)
		}
		if err := s.Init(); err != nil {
			return fmt.Errorf("init screen: %w", err)
		}
		out, fini = s, s.Fini
		go s.WatchQuit(ctx, cancel)
	}
	defer fini()

	r, c := cfg.Dimensions(out.Size())
	opts, err := cfg.Options(r, c)
	if err != nil {
		return err
	}
	opts.Logger = logger

	eng, err := rain.New(opts, out)
	if err != nil {
		return err
	}
	if err := eng.Start(ctx); err != nil {
		return err
	}
	logger.Debug("digirain: running", "backend", cfg.Backend, "theme", cfg.Theme, "charset", cfg.Charset)

	<-eng.Done()
	if err := eng.Stop(); err != nil {
		return fmt.Errorf("animation stopped: %w", err)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCHARSET\tTHEME\tUPDATE\tRENDER\tTAIL\tDELAY\tSPEED")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%dms\t%dms\t%d\t%d-%d\t%d-%d\n",
			name, p.Charset, p.Theme, p.Timing.UpdateMs, p.Timing.RenderMs,
			p.Drops.Tail, p.Drops.MinDelay, p.Drops.MaxDelay, p.Drops.MinSpeed, p.Drops.MaxSpeed)
	}
	return w.Flush()
}

func listCharsets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGLYPHS")
	for _, name := range config.CharsetNames() {
		fmt.Fprintf(w, "%s\t%s\n", name, config.Charsets[name])
	}
	return w.Flush()
}

func listThemes(cmd *cobra.Command, args []string) error {
	for _, name := range viz.ThemeNames() {
		t, _ := viz.GetTheme(name)
		swatch := viz.HeadStyle(t).Render("HEAD") + " " + viz.TrailStyle(t).Render("trail")
		fmt.Printf("%-10s %s  %s\n", name, swatch, viz.GradientText(strings.Repeat("#", 12), t))
	}
	return nil
}

// headlessOptions resolves options for runs without a real terminal. The
// returned func closes the log file.
func headlessOptions(cmd *cobra.Command) (*config.Config, rain.Options, func(), error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, rain.Options{}, nil, err
	}
	r, c := cfg.Dimensions(headlessRows, headlessCols)
	opts, err := cfg.Options(r, c)
	if err != nil {
		return nil, rain.Options{}, nil, err
	}
	logger, closeLog, err := setupLogger()
	if err != nil {
		return nil, rain.Options{}, nil, err
	}
	opts.Logger = logger
	return cfg, opts, closeLog, nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	if snapshotTicks < 0 {
		return fmt.Errorf("ticks must be >= 0, got %d", snapshotTicks)
	}
	cfg, opts, closeLog, err := headlessOptions(cmd)
	if err != nil {
		return err
	}
	defer closeLog()
	sim, err := rain.NewSimulation(opts)
	if err != nil {
		return err
	}
	for i := 0; i < snapshotTicks; i++ {
		sim.Tick()
	}
	frame, err := sim.Buffers().FrontSnapshot()
	if err != nil {
		return err
	}
	theme, _ := viz.GetTheme(cfg.Theme)
	fmt.Println(viz.RenderFrame(frame, theme, plain))

	if svgFile != "" {
		if err := os.WriteFile(svgFile, []byte(export.FrameToSVG(frame.Grid, theme, 16)), 0644); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", svgFile)
	}
	return nil
}

// discardTerminal accepts every write and has the size it was built with.
type discardTerminal struct {
	rows, cols int
}

func (d discardTerminal) Size() (int, int) { return d.rows, d.cols }

func (discardTerminal) WriteCell(int, int, rune, rain.Attribute) {}

func (discardTerminal) SetCursorVisible(bool) {}

func runPace(cmd *cobra.Command, args []string) error {
	if paceTicks < 2 {
		return fmt.Errorf("ticks must be >= 2, got %d", paceTicks)
	}
	cfg, opts, closeLog, err := headlessOptions(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	eng, err := rain.New(opts, discardTerminal{rows: opts.Rows, cols: opts.Cols})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := eng.Start(ctx); err != nil {
		return err
	}

	poll := time.NewTicker(opts.UpdateInterval)
	defer poll.Stop()
wait:
	for eng.Stats().Update.Ticks < uint64(paceTicks) {
		select {
		case <-eng.Done():
			break wait
		case <-poll.C:
		}
	}
	if err := eng.Stop(); err != nil {
		return err
	}

	st, used := eng.Stats(), eng.Options()
	fmt.Println(paceLine("update", st.Update, used.UpdateInterval))
	fmt.Println(paceLine("render", st.Render, used.RenderInterval))
	fmt.Println(viz.MetricLabel.Render("frames ") + " " + viz.MetricValue.Render(strconv.FormatUint(st.Frames, 10)))

	if len(st.Update.Recent) < 2 {
		return errors.New("not enough update intervals to plot")
	}
	data := make([]float64, len(st.Update.Recent))
	for i, d := range st.Update.Recent {
		data[i] = float64(d) / float64(time.Millisecond)
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("update interval (ms)"),
	))

	if svgFile != "" {
		theme, _ := viz.GetTheme(cfg.Theme)
		svg := export.IntervalsToSVG(st.Update.Recent, opts.UpdateInterval, 800, 240, string(theme.Base))
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", svgFile)
	}
	return nil
}

// paceLine formats one worker's pacing against its target interval.
func paceLine(name string, ws rain.WorkerStats, target time.Duration) string {
	return viz.MetricLabel.Render(fmt.Sprintf("%-7s", name)) + " " +
		viz.MetricLabel.Render("ticks ") + viz.MetricValue.Render(fmt.Sprintf("%-6d", ws.Ticks)) + " " +
		viz.MetricLabel.Render("mean ") + viz.MetricValue.Render(fmt.Sprintf("%-10v", ws.Mean)) + " " +
		viz.MetricLabel.Render("target ") + target.String()
}

func dumpConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if outFile != "" {
		if err := config.Save(outFile, cfg); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", outFile)
		return nil
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
