package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/astraline/ephemerisd/internal/angle"
	"github.com/astraline/ephemerisd/internal/api"
	"github.com/astraline/ephemerisd/internal/config"
	"github.com/astraline/ephemerisd/internal/ephemeris"
	"github.com/astraline/ephemerisd/internal/export"
	"github.com/astraline/ephemerisd/internal/solver"
	"github.com/astraline/ephemerisd/internal/tui"
	"github.com/astraline/ephemerisd/internal/version"
)

var (
	configFile string
	listen     string
	devLog     bool

	// calculation flags
	bodiesFlag   string
	includeSpeed bool
	sidereal     bool
	ayanamsha    string

	lat         float64
	lon         float64
	houseSystem string

	offsetDeg    float64
	windowMin    float64
	windowMax    float64
	toleranceDeg float64
	maxIter      int
	preset       string
	showProgress bool

	// scan flags
	samples int

	// svg output
	svgOut  string
	svgSize int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ephemerisd",
		Short: "astronomical calculation service",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&devLog, "dev-log", false, "human-readable log output")

	positionsCmd := &cobra.Command{
		Use:   "positions [jd_ut]",
		Short: "compute body longitudes",
		Args:  cobra.ExactArgs(1),
		RunE:  runPositions,
	}
	positionsCmd.Flags().StringVar(&bodiesFlag, "bodies", "", "comma-separated body names (default all)")
	positionsCmd.Flags().BoolVar(&includeSpeed, "speed", false, "include longitudinal speed")
	positionsCmd.Flags().BoolVar(&sidereal, "sidereal", false, "sidereal zodiac")
	positionsCmd.Flags().StringVar(&ayanamsha, "ayanamsha", "lahiri", "ayanamsha (lahiri, fagan-bradley)")

	housesCmd := &cobra.Command{
		Use:   "houses [jd_ut]",
		Short: "compute house cusps and angles",
		Args:  cobra.ExactArgs(1),
		RunE:  runHouses,
	}
	housesCmd.Flags().Float64Var(&lat, "lat", 0, "geographic latitude")
	housesCmd.Flags().Float64Var(&lon, "lon", 0, "geographic longitude, east positive")
	housesCmd.Flags().StringVar(&houseSystem, "system", "P", "house system (P, E, W, Y)")

	designCmd := &cobra.Command{
		Use:   "design-time [birth_jd_ut]",
		Short: "solve for the design time before birth",
		Args:  cobra.ExactArgs(1),
		RunE:  runDesignTime,
	}
	addSolverFlags(designCmd)
	designCmd.Flags().BoolVar(&showProgress, "progress", false, "print each iteration")
	designCmd.Flags().StringVar(&svgOut, "svg", "", "write the iteration trace as SVG to this file")

	scanCmd := &cobra.Command{
		Use:   "scan [birth_jd_ut]",
		Short: "plot the steering function across the search window",
		Args:  cobra.ExactArgs(1),
		RunE:  runScan,
	}
	addSolverFlags(scanCmd)
	scanCmd.Flags().IntVar(&samples, "samples", 80, "number of samples across the window")

	watchCmd := &cobra.Command{
		Use:   "watch [birth_jd_ut]",
		Short: "replay a solve iteration by iteration",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}
	addSolverFlags(watchCmd)

	wheelCmd := &cobra.Command{
		Use:   "wheel [jd_ut]",
		Short: "render a chart wheel as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  runWheel,
	}
	wheelCmd.Flags().Float64Var(&lat, "lat", 0, "geographic latitude")
	wheelCmd.Flags().Float64Var(&lon, "lon", 0, "geographic longitude, east positive")
	wheelCmd.Flags().StringVar(&houseSystem, "system", "P", "house system (P, E, W, Y)")
	wheelCmd.Flags().IntVar(&svgSize, "size", 600, "image size in pixels")
	wheelCmd.Flags().StringVar(&svgOut, "out", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list solver presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tOFFSET\tWINDOW\tTOLERANCE\tMAX_ITER")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.1f°\t%.0f-%.0fd\t%g°\t%d\n",
					name, p.OffsetDeg, p.WindowMin, p.WindowMax, p.ToleranceDeg, p.MaxIter)
			}
			return w.Flush()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print build metadata",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s (%s) built %s\n", version.Service, version.Tag, version.Commit, version.BuildTime)
		},
	}

	rootCmd.AddCommand(serveCmd, positionsCmd, housesCmd, designCmd, scanCmd, watchCmd, wheelCmd, presetsCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSolverFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&offsetDeg, "offset", config.DefaultOffsetDeg, "solar arc offset in degrees")
	cmd.Flags().Float64Var(&windowMin, "window-min", config.DefaultWindowMin, "search window lower bound, days before birth")
	cmd.Flags().Float64Var(&windowMax, "window-max", config.DefaultWindowMax, "search window upper bound, days before birth")
	cmd.Flags().Float64Var(&toleranceDeg, "tolerance", config.DefaultToleranceDeg, "acceptance tolerance in degrees")
	cmd.Flags().IntVar(&maxIter, "max-iter", config.DefaultMaxIter, "iteration budget")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset solver parameters")
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(configFile)
}

// solverRequest resolves preset, config file and flags into a request.
// Flags that were set explicitly win over preset and config values.
func solverRequest(cmd *cobra.Command, birthJD float64, cfg *config.Config) (solver.Request, error) {
	sc := cfg.Solver
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return solver.Request{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		sc = *p
	}
	if cmd.Flags().Changed("offset") {
		sc.OffsetDeg = offsetDeg
	}
	if cmd.Flags().Changed("window-min") {
		sc.WindowMin = windowMin
	}
	if cmd.Flags().Changed("window-max") {
		sc.WindowMax = windowMax
	}
	if cmd.Flags().Changed("tolerance") {
		sc.ToleranceDeg = toleranceDeg
	}
	if cmd.Flags().Changed("max-iter") {
		sc.MaxIter = maxIter
	}
	return solver.Request{
		BirthJD:       birthJD,
		OffsetDeg:     sc.OffsetDeg,
		Window:        solver.Window{MinDays: sc.WindowMin, MaxDays: sc.WindowMax},
		ToleranceDeg:  sc.ToleranceDeg,
		MaxIterations: sc.MaxIter,
	}, nil
}

func newEngine(cfg *config.Config) *ephemeris.Engine {
	ec := ephemeris.Config{Sidereal: cfg.Engine.Sidereal}
	if strings.EqualFold(cfg.Engine.Ayanamsha, "fagan-bradley") {
		ec.Ayanamsha = ephemeris.AyanamshaFaganBradley
	}
	return ephemeris.New(ec)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if listen != "" {
		cfg.Server.Listen = listen
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	srv := api.NewServer(newEngine(cfg), api.ServerOptions{
		Addr:            cfg.Server.Listen,
		APIKeys:         cfg.ResolveAPIKeys(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger,
		Solver:          cfg.Solver,
		HouseSystem:     cfg.Houses.DefaultSystem,
	})
	srv.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	return srv.Stop(context.Background())
}

func newLogger() (*zap.Logger, error) {
	if devLog {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runPositions(cmd *cobra.Command, args []string) error {
	jd, err := parseJD(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	bodies := ephemeris.Bodies
	if bodiesFlag != "" {
		bodies = nil
		for _, name := range strings.Split(bodiesFlag, ",") {
			b, err := ephemeris.ParseBody(strings.TrimSpace(name))
			if err != nil {
				return err
			}
			bodies = append(bodies, b)
		}
	}

	opts := ephemeris.PositionOptions{IncludeSpeed: includeSpeed, Sidereal: sidereal}
	if strings.EqualFold(ayanamsha, "fagan-bradley") {
		opts.Ayanamsha = ephemeris.AyanamshaFaganBradley
	}

	got, err := newEngine(cfg).Positions(jd, bodies, opts)
	if err != nil {
		return err
	}

	fmt.Printf("jd_ut: %.6f (%s)\n\n", jd, ephemeris.Civil(jd).Format(time.RFC3339))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if includeSpeed {
		fmt.Fprintln(w, "BODY\tLONGITUDE\tDMS\tSPEED")
	} else {
		fmt.Fprintln(w, "BODY\tLONGITUDE\tDMS")
	}
	for _, b := range bodies {
		p := got[b]
		d, m, s := angle.DMS(p.Longitude)
		if includeSpeed {
			fmt.Fprintf(w, "%s\t%10.6f\t%3d°%02d'%05.2f\"\t%+.6f°/d\n", b, p.Longitude, d, m, s, p.Speed)
		} else {
			fmt.Fprintf(w, "%s\t%10.6f\t%3d°%02d'%05.2f\"\n", b, p.Longitude, d, m, s)
		}
	}
	return w.Flush()
}

func runHouses(cmd *cobra.Command, args []string) error {
	jd, err := parseJD(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sys, err := ephemeris.ParseHouseSystem(houseSystem)
	if err != nil {
		return err
	}

	h, err := newEngine(cfg).HousesAt(jd, lat, lon, sys)
	if err != nil {
		return err
	}

	fmt.Printf("jd_ut: %.6f  lat: %.4f  lon: %.4f  system: %s\n\n", jd, lat, lon, h.System)
	fmt.Printf("asc: %10.6f  mc: %10.6f\n\n", h.Asc, h.MC)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HOUSE\tCUSP\tDMS")
	for i := 1; i <= 12; i++ {
		d, m, s := angle.DMS(h.Cusps[i])
		fmt.Fprintf(w, "%d\t%10.6f\t%3d°%02d'%05.2f\"\n", i, h.Cusps[i], d, m, s)
	}
	return w.Flush()
}

func runDesignTime(cmd *cobra.Command, args []string) error {
	birthJD, err := parseJD(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	req, err := solverRequest(cmd, birthJD, cfg)
	if err != nil {
		return err
	}

	s := solver.New(solver.OracleFunc(newEngine(cfg).SunLongitude))
	if showProgress {
		s.AddObserver(tui.NewProgress(os.Stdout, req))
	}
	var rec *tui.Recorder
	if svgOut != "" {
		rec = tui.NewRecorder(req)
		s.AddObserver(rec)
	}

	start := time.Now()
	res, err := s.Solve(req)
	if rec != nil {
		trace := rec.Finish(res, err)
		if werr := os.WriteFile(svgOut, []byte(export.TraceSVG(trace.Iterations, 800, 300)), 0644); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("solved in %v\n\n", time.Since(start))
	fmt.Printf("birth jd:    %.6f (%s)\n", res.BirthJD, ephemeris.Civil(res.BirthJD).Format(time.RFC3339))
	fmt.Printf("design jd:   %.6f (%s)\n", res.DesignJD, ephemeris.Civil(res.DesignJD).Format(time.RFC3339))
	fmt.Printf("target:      %.6f°\n", res.TargetDeg)
	fmt.Printf("achieved:    %.6f°\n", res.AchievedDeg)
	fmt.Printf("delta:       %.6f°\n", res.DeltaDeg)
	fmt.Printf("iterations:  %d\n", res.Iterations)
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	birthJD, err := parseJD(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	req, err := solverRequest(cmd, birthJD, cfg)
	if err != nil {
		return err
	}

	engine := newEngine(cfg)
	birthLon, err := engine.SunLongitude(birthJD)
	if err != nil {
		return err
	}
	target := angle.Normalize(birthLon - req.OffsetDeg)

	lo := birthJD - req.Window.MaxDays
	hi := birthJD - req.Window.MinDays
	data := make([]float64, samples)
	for i := 0; i < samples; i++ {
		jd := lo + (hi-lo)*float64(i)/float64(samples-1)
		lon, err := engine.SunLongitude(jd)
		if err != nil {
			return err
		}
		data[i] = angle.Delta(lon, target)
	}

	fmt.Printf("steering delta across window %.1f-%.1f days before jd %.6f (target %.4f°)\n\n",
		req.Window.MinDays, req.Window.MaxDays, birthJD, target)
	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("delta(sun, target) in degrees, earliest to latest"),
	)
	fmt.Println(graph)
	fmt.Println("\nthe root is where the curve crosses zero")
	return nil
}

func runWheel(cmd *cobra.Command, args []string) error {
	jd, err := parseJD(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sys, err := ephemeris.ParseHouseSystem(houseSystem)
	if err != nil {
		return err
	}

	engine := newEngine(cfg)
	positions, err := engine.Positions(jd, ephemeris.Bodies, ephemeris.PositionOptions{})
	if err != nil {
		return err
	}
	houses, err := engine.HousesAt(jd, lat, lon, sys)
	if err != nil {
		return err
	}

	svg := export.WheelSVG(positions, houses, svgSize)
	if svgOut == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(svgOut, []byte(svg), 0644)
}

func runWatch(cmd *cobra.Command, args []string) error {
	birthJD, err := parseJD(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	req, err := solverRequest(cmd, birthJD, cfg)
	if err != nil {
		return err
	}

	rec := tui.NewRecorder(req)
	s := solver.New(solver.OracleFunc(newEngine(cfg).SunLongitude))
	s.AddObserver(rec)
	res, err := s.Solve(req)
	if err != nil {
		// non-convergence is still worth replaying
		var nce *solver.NonConvergenceError
		if !errors.As(err, &nce) {
			return err
		}
	}
	return tui.RunWatch(rec.Finish(res, err))
}

func parseJD(arg string) (float64, error) {
	var jd float64
	if _, err := fmt.Sscanf(arg, "%f", &jd); err != nil {
		return 0, fmt.Errorf("invalid julian day: %q", arg)
	}
	return jd, nil
}
