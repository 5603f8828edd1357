package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/schelling/internal/config"
	"github.com/banshee-data/schelling/internal/monitoring"
	"github.com/banshee-data/schelling/internal/render"
	"github.com/banshee-data/schelling/internal/sim"
	"github.com/banshee-data/schelling/internal/store"
	"github.com/banshee-data/schelling/internal/sweep"
	"github.com/banshee-data/schelling/internal/version"
)

var (
	size          = flag.Int("size", sim.DefaultSize, "Board dimension N (board holds N*N cells)")
	emptyCount    = flag.Int("empty", -1, "Number of empty cells (required)")
	groupFraction = flag.Float64("fraction", -1, "Fraction of occupied cells assigned to group A (required)")
	threshold     = flag.Float64("threshold", -1, "Satisfaction threshold p (required in animate mode)")
	maxSweeps     = flag.Int("max-sweeps", sim.DefaultMaxSweeps, "Sweep cap before a run is abandoned")
	seed          = flag.Int64("seed", 0, "RNG seed (0 derives one from the clock)")

	thresholds = flag.String("thresholds", "0:1:0.1", "Threshold values for plot mode: comma-separated list or range start:end:step")
	iterations = flag.Int("iterations", 1, "Number of runs per threshold in plot mode")

	output     = flag.String("output", ".", "Directory for output files")
	dbPath     = flag.String("db", "", "SQLite database path for run history (empty disables persistence)")
	htmlReport = flag.Bool("html", false, "Also write an interactive HTML report")

	configPath  = flag.String("config", "", "JSON config file supplying default simulation parameters")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <animate|plot>\n\n", os.Args[0])
	fmt.Fprintf(flag.CommandLine.Output(), "Modes:\n")
	fmt.Fprintf(flag.CommandLine.Output(), "  animate   Run one simulation and write a GIF of every sweep plus a final heatmap PNG\n")
	fmt.Fprintf(flag.CommandLine.Output(), "  plot      Sweep the satisfaction threshold and write CSV summaries plus a curve PNG\n\n")
	fmt.Fprintf(flag.CommandLine.Output(), "Flags:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", *configPath, err)
		}
		applyConfig(cfg)
	}

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	mode := flag.Arg(0)

	runSeed := *seed
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
	}

	if err := os.MkdirAll(*output, 0o755); err != nil {
		log.Fatalf("Could not create output directory %s: %v", *output, err)
	}

	var db *store.DB
	if *dbPath != "" {
		var err error
		db, err = store.Open(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open run store %s: %v", *dbPath, err)
		}
		defer db.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "animate":
		params, err := animateParams()
		if err != nil {
			log.Fatalf("Invalid parameters: %v", err)
		}
		if err := runAnimate(params, runSeed, db); err != nil {
			log.Fatalf("Animate run failed: %v", err)
		}
	case "plot":
		req, err := plotRequest(runSeed)
		if err != nil {
			log.Fatalf("Invalid parameters: %v", err)
		}
		if err := runPlot(ctx, req, db); err != nil {
			log.Fatalf("Plot run failed: %v", err)
		}
	default:
		log.Fatalf("Unknown mode %q (must be animate or plot)", mode)
	}
}

// applyConfig fills in flag values from the config file. Flags set
// explicitly on the command line win over the file.
func applyConfig(cfg *config.SimConfig) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if cfg.Size != nil && !set["size"] {
		*size = *cfg.Size
	}
	if cfg.EmptyCount != nil && !set["empty"] {
		*emptyCount = *cfg.EmptyCount
	}
	if cfg.GroupFraction != nil && !set["fraction"] {
		*groupFraction = *cfg.GroupFraction
	}
	if cfg.Threshold != nil && !set["threshold"] {
		*threshold = *cfg.Threshold
	}
	if cfg.MaxSweeps != nil && !set["max-sweeps"] {
		*maxSweeps = *cfg.MaxSweeps
	}
	if cfg.Thresholds != nil && !set["thresholds"] {
		*thresholds = *cfg.Thresholds
	}
	if cfg.Iterations != nil && !set["iterations"] {
		*iterations = *cfg.Iterations
	}
}

// animateParams builds the simulation parameters for animate mode from the
// parsed flags.
func animateParams() (sim.Params, error) {
	if *emptyCount < 0 {
		return sim.Params{}, fmt.Errorf("-empty is required")
	}
	if *groupFraction < 0 {
		return sim.Params{}, fmt.Errorf("-fraction is required")
	}
	if *threshold < 0 {
		return sim.Params{}, fmt.Errorf("-threshold is required in animate mode")
	}
	p := sim.Params{
		Size:          *size,
		EmptyCount:    *emptyCount,
		GroupFraction: *groupFraction,
		Threshold:     *threshold,
		MaxSweeps:     *maxSweeps,
	}
	if err := p.Validate(); err != nil {
		return sim.Params{}, err
	}
	return p, nil
}

// plotRequest builds the threshold sweep request for plot mode from the
// parsed flags.
func plotRequest(runSeed int64) (sweep.Request, error) {
	if *emptyCount < 0 {
		return sweep.Request{}, fmt.Errorf("-empty is required")
	}
	if *groupFraction < 0 {
		return sweep.Request{}, fmt.Errorf("-fraction is required")
	}
	vals, err := sweep.ParseParamList(*thresholds)
	if err != nil {
		return sweep.Request{}, fmt.Errorf("invalid -thresholds: %w", err)
	}
	if len(vals) == 0 {
		return sweep.Request{}, fmt.Errorf("-thresholds produced no values")
	}
	return sweep.Request{
		Size:          *size,
		EmptyCount:    *emptyCount,
		GroupFraction: *groupFraction,
		MaxSweeps:     *maxSweeps,
		Thresholds:    vals,
		Iterations:    *iterations,
		Seed:          runSeed,
	}, nil
}

func runAnimate(params sim.Params, runSeed int64, db *store.DB) error {
	runID := uuid.New().String()
	startedAt := time.Now()
	monitoring.Logf("[animate] run %s: size=%d empty=%d fraction=%.3f threshold=%.3f seed=%d",
		runID, params.Size, params.EmptyCount, params.GroupFraction, params.Threshold, runSeed)

	if db != nil {
		paramsJSON, _ := json.Marshal(params)
		rec := store.RunRecord{
			RunID:     runID,
			Mode:      "animate",
			Status:    "running",
			Params:    paramsJSON,
			StartedAt: startedAt,
		}
		if err := db.InsertRun(rec); err != nil {
			return fmt.Errorf("recording run start: %w", err)
		}
	}

	board, err := sim.NewBoard(params, rand.New(rand.NewSource(runSeed)))
	if err != nil {
		return err
	}

	result, snaps := board.RunWithSnapshots()
	monitoring.Logf("[animate] run %s: sweeps=%d relocations=%d equilibrium=%t ratio=%.4f",
		runID, result.Sweeps, result.Relocations, result.Equilibrium, result.Ratio)

	gifPath := filepath.Join(*output, "schelling.gif")
	if err := render.SaveGIF(snaps, gifPath); err != nil {
		recordFailure(db, runID, err)
		return err
	}
	pngPath := filepath.Join(*output, "schelling-final.png")
	final := snaps[len(snaps)-1]
	if err := render.SaveHeatmapPNG(final, pngPath); err != nil {
		recordFailure(db, runID, err)
		return err
	}

	if *htmlReport {
		htmlPath := filepath.Join(*output, "schelling.html")
		if err := render.WriteHTMLReport(htmlPath, nil, &final); err != nil {
			recordFailure(db, runID, err)
			return err
		}
		log.Printf("Report: %s", htmlPath)
	}

	if db != nil {
		if err := db.CompleteRun(runID, "complete", result.Ratio, result.Sweeps, result.Equilibrium, time.Now(), ""); err != nil {
			return fmt.Errorf("recording run completion: %w", err)
		}
	}

	log.Printf("Animation: %s", gifPath)
	log.Printf("Final board: %s", pngPath)
	return nil
}

func runPlot(ctx context.Context, req sweep.Request, db *store.DB) error {
	runID := uuid.New().String()
	startedAt := time.Now()
	monitoring.Logf("[plot] run %s: size=%d empty=%d fraction=%.3f thresholds=%d iterations=%d seed=%d",
		runID, req.Size, req.EmptyCount, req.GroupFraction, len(req.Thresholds), req.Iterations, req.Seed)

	if db != nil {
		paramsJSON, _ := json.Marshal(req)
		rec := store.RunRecord{
			RunID:     runID,
			Mode:      "plot",
			Status:    "running",
			Params:    paramsJSON,
			StartedAt: startedAt,
		}
		if err := db.InsertRun(rec); err != nil {
			return fmt.Errorf("recording run start: %w", err)
		}
	}

	runner := sweep.NewRunner()
	results, err := runner.Run(ctx, req)
	if err != nil {
		recordFailure(db, runID, err)
		return err
	}

	summaryPath := filepath.Join(*output, "sweep-summary.csv")
	if err := sweep.WriteSummaryCSV(summaryPath, results); err != nil {
		recordFailure(db, runID, err)
		return err
	}
	rawPath := filepath.Join(*output, "sweep-raw.csv")
	if err := sweep.WriteRawCSV(rawPath, results); err != nil {
		recordFailure(db, runID, err)
		return err
	}
	curvePath := filepath.Join(*output, "sweep-curve.png")
	if err := render.SaveSweepCurvePNG(results, curvePath); err != nil {
		recordFailure(db, runID, err)
		return err
	}

	if *htmlReport {
		htmlPath := filepath.Join(*output, "sweep-report.html")
		if err := render.WriteHTMLReport(htmlPath, results, nil); err != nil {
			recordFailure(db, runID, err)
			return err
		}
		log.Printf("Report: %s", htmlPath)
	}

	if db != nil {
		points := make([]store.SweepPoint, 0, len(results)*req.Iterations)
		for _, tr := range results {
			for _, s := range tr.Samples {
				points = append(points, store.SweepPoint{
					RunID:       runID,
					Threshold:   tr.Threshold,
					Iteration:   s.Iteration,
					Ratio:       s.Ratio,
					Sweeps:      s.Sweeps,
					Equilibrium: s.Equilibrium,
				})
			}
		}
		if err := db.InsertSweepPoints(points); err != nil {
			return fmt.Errorf("recording sweep points: %w", err)
		}
		// The headline ratio for a sweep run is the mean at the last
		// threshold value.
		last := results[len(results)-1]
		eq := last.EquilibriumCount == len(last.Samples)
		if err := db.CompleteRun(runID, "complete", last.RatioMean, int(last.SweepsMean), eq, time.Now(), ""); err != nil {
			return fmt.Errorf("recording run completion: %w", err)
		}
	}

	log.Printf("Summary: %s", summaryPath)
	log.Printf("Raw data: %s", rawPath)
	log.Printf("Curve: %s", curvePath)
	return nil
}

func recordFailure(db *store.DB, runID string, cause error) {
	if db == nil {
		return
	}
	if err := db.CompleteRun(runID, "error", 0, 0, false, time.Now(), cause.Error()); err != nil {
		log.Printf("WARNING: could not record run failure: %v", err)
	}
}
