package vrptw

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/bartolsthoorn/gohighs/highs"
)

// SolveOptions tunes one MIP solve.
type SolveOptions struct {
	TimeLimit time.Duration `json:"time_limit" yaml:"time_limit"`
	Gap       float64       `json:"gap" yaml:"gap"`
	Threads   int           `json:"threads" yaml:"threads"`
	Seed      int           `json:"seed" yaml:"seed"`
	Output    bool          `json:"output" yaml:"output"`
	// ModelFile, when set, receives the model (.lp or .mps) before solving.
	ModelFile string `json:"model_file,omitempty" yaml:"model_file,omitempty"`
}

// DefaultSolveOptions takes the solve defaults from cfg.
func DefaultSolveOptions(cfg Config) SolveOptions {
	return SolveOptions{
		TimeLimit: cfg.DefaultTimeLimit,
		Gap:       cfg.MIPGap,
		Threads:   cfg.Threads,
	}
}

// Validate checks the options against the configured bounds.
func (o SolveOptions) Validate(cfg Config) error {
	switch {
	case o.TimeLimit <= 0:
		return invalidParam("time limit must be positive, got %s", o.TimeLimit)
	case cfg.MaxTimeLimit > 0 && o.TimeLimit > cfg.MaxTimeLimit:
		return invalidParam("time limit must be <= %s, got %s", cfg.MaxTimeLimit, o.TimeLimit)
	case o.Gap < 0 || o.Gap >= 1:
		return invalidParam("mip gap must be in [0, 1), got %g", o.Gap)
	case o.Threads < 0:
		return invalidParam("threads must be >= 0, got %d", o.Threads)
	case o.Seed < 0:
		return invalidParam("seed must be >= 0, got %d", o.Seed)
	}
	return nil
}

// SolverResult is the raw outcome of a MIP solve.
type SolverResult struct {
	Status      Status
	ModelStatus string
	Objective   float64
	Gap         float64
	Bound       float64
	// Arcs[i][j] == 1 when arc i->j is used. Nil unless Status.HasSolution().
	// Times holds the service start of every vertex as seen by the solver.
	Arcs    [][]int
	Times   []float64
	Detail  string
	Runtime time.Duration
}

// MIPSolver solves a formulation. Implementations must treat f as read-only.
type MIPSolver interface {
	Solve(ctx context.Context, f *Formulation, opts SolveOptions) (*SolverResult, error)
}

// highsMu serializes every call into the HiGHS library.
var highsMu sync.Mutex

// HighsSolver solves formulations with HiGHS, creating a fresh solver
// instance per call.
type HighsSolver struct{}

func NewHighsSolver() *HighsSolver { return &HighsSolver{} }

func (h *HighsSolver) Solve(ctx context.Context, f *Formulation, opts SolveOptions) (res *SolverResult, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit := opts.TimeLimit
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < limit {
			limit = left
		}
		if limit <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	highsMu.Lock()
	defer highsMu.Unlock()
	defer Timed("highs " + f.Name)(&err)

	solver, err := highs.NewSolver()
	if err != nil {
		return nil, &SolverError{Detail: "create", Err: err}
	}
	defer solver.Close()

	if err := solver.SetBoolOption("output_flag", opts.Output); err != nil {
		return nil, &SolverError{Detail: "option output_flag", Err: err}
	}
	if err := solver.SetFloatOption("time_limit", limit.Seconds()); err != nil {
		return nil, &SolverError{Detail: "option time_limit", Err: err}
	}
	if err := solver.SetFloatOption("mip_rel_gap", opts.Gap); err != nil {
		return nil, &SolverError{Detail: "option mip_rel_gap", Err: err}
	}
	if opts.Threads > 0 {
		if err := solver.SetIntOption("threads", opts.Threads); err != nil {
			return nil, &SolverError{Detail: "option threads", Err: err}
		}
	}
	if err := solver.SetIntOption("random_seed", opts.Seed); err != nil {
		return nil, &SolverError{Detail: "option random_seed", Err: err}
	}

	if err := passFormulation(solver, f); err != nil {
		return nil, &SolverError{Detail: "pass model", Err: err}
	}
	if opts.ModelFile != "" {
		if err := solver.WriteModel(opts.ModelFile); err != nil {
			Log(1, "Could not write model to %s: %v", opts.ModelFile, err)
		} else {
			Log(2, "Model written to %s", opts.ModelFile)
		}
	}

	Log(2, "Optimizing %s (time limit %s)...", f.Name, limit.Round(time.Millisecond))
	start := time.Now()
	sol, err := solver.Run()
	runtime := time.Since(start)
	if err != nil {
		return nil, &SolverError{Detail: "run", Err: err}
	}
	Log(2, "---OPTIMIZATION DONE--- status %s after %s", sol.Status, runtime.Round(time.Millisecond))

	// primal_solution_status 2 is a feasible primal point.
	incumbent := sol.Status == highs.ModelStatusOptimal
	if pss, err := solver.GetIntInfo("primal_solution_status"); err == nil {
		incumbent = incumbent || pss == 2
	}

	res = &SolverResult{ModelStatus: sol.Status.String(), Runtime: runtime}
	res.Status, res.Detail = classify(sol.Status, incumbent)
	if res.Status == StatusError {
		return res, &SolverError{Detail: res.Detail}
	}
	if !res.Status.HasSolution() {
		return res, nil
	}

	res.Objective = sol.Objective
	res.Arcs = f.ArcMatrix(sol.ColValues)
	res.Times = f.Times(sol.ColValues)
	if gap, err := solver.GetFloatInfo("mip_gap"); err == nil && !math.IsInf(gap, 0) {
		res.Gap = gap
	}
	if bound, err := solver.GetFloatInfo("mip_dual_bound"); err == nil {
		res.Bound = bound
	}
	return res, nil
}

// classify maps a HiGHS model status onto the four solve outcomes.
func classify(ms highs.ModelStatus, incumbent bool) (Status, string) {
	switch ms {
	case highs.ModelStatusOptimal:
		return StatusOptimal, ""
	case highs.ModelStatusTimeLimit, highs.ModelStatusIterationLimit,
		highs.ModelStatusObjectiveBound, highs.ModelStatusObjectiveTarget:
		if incumbent {
			return StatusFeasibleTimeout, fmt.Sprintf("stopped on %s with an incumbent", ms)
		}
		return StatusError, fmt.Sprintf("stopped on %s without a feasible solution", ms)
	case highs.ModelStatusInfeasible, highs.ModelStatusUnboundedOrInfeasible:
		return StatusInfeasible, ms.String()
	default:
		return StatusError, fmt.Sprintf("model status %s", ms)
	}
}

// passFormulation hands f to solver as a row-wise sparse model.
func passFormulation(solver *highs.Solver, f *Formulation) error {
	numCol, numRow := len(f.Vars), len(f.Rows)
	colCost := make([]float64, numCol)
	colLower := make([]float64, numCol)
	colUpper := make([]float64, numCol)
	integrality := make([]highs.VariableType, numCol)
	for k, v := range f.Vars {
		colCost[k], colLower[k], colUpper[k] = v.Cost, v.Lower, v.Upper
		if v.Type == Binary || v.Type == Integer {
			integrality[k] = highs.Integer
		}
	}

	rowLower := make([]float64, numRow)
	rowUpper := make([]float64, numRow)
	aStart := make([]int, numRow)
	var (
		aIndex []int
		aValue []float64
	)
	for r, row := range f.Rows {
		rowLower[r], rowUpper[r] = row.Lower, row.Upper
		aStart[r] = len(aIndex)
		aIndex = append(aIndex, row.Ind...)
		aValue = append(aValue, row.Val...)
	}

	return solver.PassModel(numCol, numRow,
		colCost, colLower, colUpper,
		rowLower, rowUpper,
		aStart, aIndex, aValue,
		integrality, false, 0)
}
