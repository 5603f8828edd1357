package sweep

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/schelling/internal/monitoring"
	"github.com/banshee-data/schelling/internal/sim"
	"github.com/banshee-data/schelling/internal/timeutil"
)

// Status represents the current state of a sweep run.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// Request defines a threshold sweep: a fixed board configuration run once
// per threshold value per iteration.
type Request struct {
	Size          int       `json:"size,omitempty"`
	EmptyCount    int       `json:"empty_count"`
	GroupFraction float64   `json:"group_fraction"`
	MaxSweeps     int       `json:"max_sweeps,omitempty"`
	Thresholds    []float64 `json:"thresholds"`

	// Iterations is the number of independently-seeded runs per
	// threshold. Zero selects one run per threshold.
	Iterations int `json:"iterations,omitempty"`

	// Seed drives the per-run child seeds so a sweep is reproducible.
	Seed int64 `json:"seed"`
}

// validate checks the request before any board is constructed.
func (req *Request) validate() error {
	if len(req.Thresholds) == 0 {
		return fmt.Errorf("no threshold values to sweep")
	}
	const maxThresholds = 1000
	if len(req.Thresholds) > maxThresholds {
		return fmt.Errorf("threshold list too large: %d values (max %d)", len(req.Thresholds), maxThresholds)
	}
	if req.Iterations < 0 {
		return fmt.Errorf("iterations must not be negative, got %d", req.Iterations)
	}
	if req.Iterations == 0 {
		req.Iterations = 1
	}
	for _, p := range req.Thresholds {
		params := sim.Params{
			Size:          req.Size,
			EmptyCount:    req.EmptyCount,
			GroupFraction: req.GroupFraction,
			Threshold:     p,
			MaxSweeps:     req.MaxSweeps,
		}
		if err := params.Validate(); err != nil {
			return fmt.Errorf("threshold %g: %w", p, err)
		}
	}
	return nil
}

// RunSample is the outcome of one engine run within a sweep.
type RunSample struct {
	Iteration   int     `json:"iteration"`
	Seed        int64   `json:"seed"`
	Ratio       float64 `json:"ratio"`
	MeanSat     float64 `json:"mean_satisfaction"`
	Sweeps      int     `json:"sweeps"`
	Equilibrium bool    `json:"equilibrium"`
}

// ThresholdResult holds the aggregated outcome for one threshold value.
type ThresholdResult struct {
	Threshold        float64     `json:"threshold"`
	RatioMean        float64     `json:"ratio_mean"`
	RatioStddev      float64     `json:"ratio_stddev"`
	MeanSatMean      float64     `json:"mean_satisfaction_mean"`
	SweepsMean       float64     `json:"sweeps_mean"`
	EquilibriumCount int         `json:"equilibrium_count"`
	Samples          []RunSample `json:"samples,omitempty"`
}

// State holds the progress and results of a sweep.
type State struct {
	Status              Status            `json:"status"`
	SweepID             string            `json:"sweep_id,omitempty"`
	StartedAt           *time.Time        `json:"started_at,omitempty"`
	CompletedAt         *time.Time        `json:"completed_at,omitempty"`
	TotalThresholds     int               `json:"total_thresholds"`
	CompletedThresholds int               `json:"completed_thresholds"`
	Results             []ThresholdResult `json:"results"`
	Error               string            `json:"error,omitempty"`
}

// Runner executes threshold sweeps. Runs are sequential; the runner only
// guards its state so progress can be observed while a sweep executes.
type Runner struct {
	mu    sync.RWMutex
	state State
	clock timeutil.Clock
}

// NewRunner creates an idle sweep runner.
func NewRunner() *Runner {
	return &Runner{state: State{Status: StatusIdle}, clock: timeutil.NewRealClock()}
}

// NewRunnerWithClock creates a runner with an injected clock for tests.
func NewRunnerWithClock(clock timeutil.Clock) *Runner {
	return &Runner{state: State{Status: StatusIdle}, clock: clock}
}

// GetState returns a copy of the current sweep state.
func (r *Runner) GetState() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state := r.state
	results := make([]ThresholdResult, len(r.state.Results))
	copy(results, r.state.Results)
	state.Results = results
	return state
}

// Run executes the sweep to completion, one engine run per threshold per
// iteration. It returns the per-threshold results in request order. The
// context is checked between runs, so a cancelled sweep stops at the next
// threshold boundary.
func (r *Runner) Run(ctx context.Context, req Request) ([]ThresholdResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.state.Status == StatusRunning {
		r.mu.Unlock()
		return nil, fmt.Errorf("sweep already in progress")
	}
	now := r.clock.Now()
	r.state = State{
		Status:          StatusRunning,
		SweepID:         uuid.New().String(),
		StartedAt:       &now,
		TotalThresholds: len(req.Thresholds),
		Results:         make([]ThresholdResult, 0, len(req.Thresholds)),
	}
	sweepID := r.state.SweepID
	r.mu.Unlock()

	// Child seeds are drawn from a dedicated source so the sequence of
	// runs is fully determined by req.Seed.
	seeds := rand.New(rand.NewSource(req.Seed))

	results := make([]ThresholdResult, 0, len(req.Thresholds))
	for i, threshold := range req.Thresholds {
		select {
		case <-ctx.Done():
			r.fail(fmt.Sprintf("sweep stopped at threshold %d/%d: %v", i+1, len(req.Thresholds), ctx.Err()))
			return results, ctx.Err()
		default:
		}

		monitoring.Logf("[sweep] %s: threshold %d/%d: p=%.3f", sweepID, i+1, len(req.Thresholds), threshold)

		tr, err := r.runThreshold(req, threshold, seeds)
		if err != nil {
			r.fail(err.Error())
			return results, err
		}
		results = append(results, tr)

		r.mu.Lock()
		r.state.Results = append(r.state.Results, tr)
		r.state.CompletedThresholds = i + 1
		r.mu.Unlock()
	}

	r.mu.Lock()
	r.state.Status = StatusComplete
	done := r.clock.Now()
	r.state.CompletedAt = &done
	r.mu.Unlock()
	monitoring.Logf("[sweep] %s: complete: %d thresholds evaluated", sweepID, len(results))

	return results, nil
}

func (r *Runner) runThreshold(req Request, threshold float64, seeds *rand.Rand) (ThresholdResult, error) {
	params := sim.Params{
		Size:          req.Size,
		EmptyCount:    req.EmptyCount,
		GroupFraction: req.GroupFraction,
		Threshold:     threshold,
		MaxSweeps:     req.MaxSweeps,
	}

	tr := ThresholdResult{Threshold: threshold}
	ratios := make([]float64, 0, req.Iterations)
	meanSats := make([]float64, 0, req.Iterations)
	sweeps := make([]float64, 0, req.Iterations)

	for iter := 0; iter < req.Iterations; iter++ {
		seed := seeds.Int63()
		board, err := sim.NewBoard(params, rand.New(rand.NewSource(seed)))
		if err != nil {
			return tr, fmt.Errorf("threshold %g iteration %d: %w", threshold, iter, err)
		}
		res := board.Run()

		tr.Samples = append(tr.Samples, RunSample{
			Iteration:   iter,
			Seed:        seed,
			Ratio:       res.Ratio,
			MeanSat:     res.MeanSatisfaction,
			Sweeps:      res.Sweeps,
			Equilibrium: res.Equilibrium,
		})
		ratios = append(ratios, res.Ratio)
		meanSats = append(meanSats, res.MeanSatisfaction)
		sweeps = append(sweeps, float64(res.Sweeps))
		if res.Equilibrium {
			tr.EquilibriumCount++
		}
	}

	tr.RatioMean, tr.RatioStddev = MeanStddev(ratios)
	tr.MeanSatMean, _ = MeanStddev(meanSats)
	tr.SweepsMean, _ = MeanStddev(sweeps)
	return tr, nil
}

func (r *Runner) fail(msg string) {
	r.mu.Lock()
	r.state.Status = StatusError
	r.state.Error = msg
	now := r.clock.Now()
	r.state.CompletedAt = &now
	r.mu.Unlock()
}
