package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"text/tabwriter"

	kitlog "github.com/go-kit/kit/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/spacetravel/internal/analysis"
	"github.com/san-kum/spacetravel/internal/config"
	"github.com/san-kum/spacetravel/internal/dynamo"
	"github.com/san-kum/spacetravel/internal/gui"
	"github.com/san-kum/spacetravel/internal/integrators"
	"github.com/san-kum/spacetravel/internal/mission"
	"github.com/san-kum/spacetravel/internal/physics"
	"github.com/san-kum/spacetravel/internal/scene"
	"github.com/san-kum/spacetravel/internal/viz"
)

var (
	configFile  string
	renderer    string
	assetsDir   string
	logFile     string
	destination string
	duration    string
	integrator  string
	theme       string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "spacetravel",
		Short:         "two-body orbit simulator for Earth to Moon and Mars transfers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runForm,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&renderer, "renderer", config.DefaultRenderer, "renderer: window or terminal")
	rootCmd.PersistentFlags().StringVar(&assetsDir, "assets", ".", "directory holding the icon images")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logfmt logs to this file")
	rootCmd.PersistentFlags().StringVar(&integrator, "integrator", config.DefaultIntegrator,
		fmt.Sprintf("integrator %v", integrators.Names()))
	rootCmd.PersistentFlags().StringVar(&theme, "theme", config.DefaultTheme,
		fmt.Sprintf("terminal colour theme %v", viz.ThemeNames()))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate and animate one transfer",
		Args:  cobra.NoArgs,
		RunE:  runMission,
	}
	runCmd.Flags().StringVar(&destination, "destination", config.DefaultDestination, "destination (Moon or Mars)")
	runCmd.Flags().StringVar(&duration, "duration", strconv.Itoa(config.DefaultDuration), "duration in seconds")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "simulate one transfer and print its distance profile",
		Args:  cobra.NoArgs,
		RunE:  plotMission,
	}
	plotCmd.Flags().StringVar(&destination, "destination", config.DefaultDestination, "destination (Moon or Mars)")
	plotCmd.Flags().StringVar(&duration, "duration", strconv.Itoa(config.DefaultDuration), "duration in seconds")

	destinationsCmd := &cobra.Command{
		Use:   "destinations",
		Short: "list destinations and their initial states",
		Args:  cobra.NoArgs,
		RunE:  listDestinations,
	}

	configCmd := &cobra.Command{
		Use:   "config PATH",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}

	rootCmd.AddCommand(runCmd, plotCmd, destinationsCmd, configCmd)
	return rootCmd
}

// loadConfig merges the config file with any flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("renderer") {
		cfg.Renderer = renderer
	}
	if flags.Changed("assets") {
		cfg.Assets = assetsDir
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !slices.Contains(viz.ThemeNames(), cfg.Theme) {
		return nil, fmt.Errorf("unknown theme: %s (available: %v)", cfg.Theme, viz.ThemeNames())
	}
	return cfg, nil
}

// requestInput returns the raw destination and duration of a single run,
// preferring flags over the config file.
func requestInput(cmd *cobra.Command, cfg *config.Config) (string, string) {
	dest, dur := cfg.Destination, strconv.Itoa(cfg.Duration)
	if cmd.Flags().Changed("destination") {
		dest = destination
	}
	if cmd.Flags().Changed("duration") {
		dur = duration
	}
	return dest, dur
}

func newLogger() (kitlog.Logger, func(), error) {
	if logFile == "" {
		return kitlog.NewNopLogger(), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(f))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC, "caller", kitlog.DefaultCaller)
	return logger, func() { f.Close() }, nil
}

func newRenderer(cfg *config.Config) mission.Renderer {
	if cfg.Renderer == "terminal" {
		th := viz.GetTheme(cfg.Theme)
		return mission.RendererFunc(func(ctx context.Context, s *scene.Scene, traj *dynamo.Trajectory) error {
			return viz.Play(ctx, s, traj, th)
		})
	}
	return mission.RendererFunc(func(ctx context.Context, s *scene.Scene, _ *dynamo.Trajectory) error {
		return gui.NewWindow(s, cfg.Assets).Run(ctx)
	})
}

func newMission(cmd *cobra.Command, render bool) (*mission.Mission, *config.Config, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	prop, err := integrators.New(cfg.Integrator, integrators.Options{
		RTol:  cfg.RTol,
		ATol:  cfg.ATol,
		MaxDt: cfg.MaxDt,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	logger, closeLog, err := newLogger()
	if err != nil {
		return nil, nil, nil, err
	}

	var r mission.Renderer
	if render {
		r = newRenderer(cfg)
	}
	m := mission.New(prop, r)
	m.SetLogger(logger)
	return m, cfg, closeLog, nil
}

func runForm(cmd *cobra.Command, args []string) error {
	m, cfg, closeLog, err := newMission(cmd, true)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	form := viz.NewForm(config.Destinations(), cfg.Destination, strconv.Itoa(cfg.Duration)).
		WithTheme(viz.GetTheme(cfg.Theme))
	for {
		form, err = viz.RunForm(ctx, form)
		if err != nil {
			return err
		}
		if !form.Submitted() {
			return nil
		}

		if err := m.Submit(ctx, form.Destination(), form.Duration()); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			form = form.WithError(mission.DialogTitle(err), err.Error())
			continue
		}
		form = form.Reopen()
	}
}

func runMission(cmd *cobra.Command, args []string) error {
	m, cfg, closeLog, err := newMission(cmd, true)
	if err != nil {
		return err
	}
	defer closeLog()

	dest, dur := requestInput(cmd, cfg)
	if err := m.Submit(cmd.Context(), dest, dur); err != nil {
		return fmt.Errorf("%s: %w", mission.DialogTitle(err), err)
	}
	return nil
}

func plotMission(cmd *cobra.Command, args []string) error {
	m, cfg, closeLog, err := newMission(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	req, err := mission.ParseRequest(requestInput(cmd, cfg))
	if err != nil {
		return fmt.Errorf("%s: %w", mission.DialogTitle(err), err)
	}
	res, err := m.Simulate(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("%s: %w", mission.DialogTitle(err), err)
	}

	radii := make([]float64, res.Scene.Len())
	for i := range radii {
		radii[i] = res.Scene.Frame(i).Distance
	}

	fmt.Println(res.Scene.Title)
	fmt.Println()
	fmt.Println(asciigraph.Plot(radii,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("distance from Earth (km) per sample"),
	))
	fmt.Println()

	last := res.Scene.Frame(res.Scene.Len() - 1)
	el := analysis.ElementsOf(physics.NewTwoBody().Mu(), res.Trajectory.States[0])
	approach := analysis.Summarize(res.Trajectory)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%d\n", res.Trajectory.Len())
	fmt.Fprintf(w, "steps\t%d\n", res.Trajectory.StepsTaken)
	fmt.Fprintf(w, "final distance\t%.2f km\n", last.Distance)
	fmt.Fprintf(w, "orbit\t%s (e=%.4f)\n", el.Kind, el.Eccentricity)
	fmt.Fprintf(w, "periapsis\t%.2f km\n", el.Periapsis/1000)
	if el.Kind == analysis.Elliptic {
		fmt.Fprintf(w, "apoapsis\t%.2f km\n", el.Apoapsis/1000)
		fmt.Fprintf(w, "period\t%.2f h\n", el.Period/3600)
	}
	fmt.Fprintf(w, "closest sample\t%.2f km at t=%.0f s\n", approach.Min/1000, approach.MinTime)
	fmt.Fprintf(w, "farthest sample\t%.2f km at t=%.0f s\n", approach.Max/1000, approach.MaxTime)
	for _, name := range []string{"min_radius_km", "max_radius_km", "energy_drift", "momentum_drift"} {
		if v, ok := res.Trajectory.Metrics[name]; ok {
			fmt.Fprintf(w, "%s\t%.6g\n", name, v)
		}
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
	return nil
}

func listDestinations(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tX (m)\tY (m)\tVX (m/s)\tVY (m/s)\tMARKER (km)\tICON")
	for _, name := range config.Destinations() {
		d, err := config.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.0f\t%.0f\t(%.0f, %.0f)\t%s\n",
			d.Name, d.X, d.Y, d.VX, d.VY, d.MarkerX, d.MarkerY, d.Icon)
	}
	return w.Flush()
}
