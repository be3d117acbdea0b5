package vrptw

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MarcoClaps/vrptw/metrics"
)

// Engine ties the configuration to a MIP backend. The zero Solver falls
// back to HiGHS.
type Engine struct {
	Config Config
	Solver MIPSolver
	// SysInfo is stamped on every solution. Collected on first use when nil.
	SysInfo *SysInfo

	sysOnce sync.Once
}

func NewEngine(cfg Config) *Engine {
	return &Engine{Config: cfg, Solver: NewHighsSolver()}
}

var defaultSolver = NewHighsSolver()

func (e *Engine) solver() MIPSolver {
	if e.Solver == nil {
		return defaultSolver
	}
	return e.Solver
}

func (e *Engine) sysInfo() SysInfo {
	e.sysOnce.Do(func() {
		if e.SysInfo == nil {
			info := GetSysInfo()
			e.SysInfo = &info
		}
	})
	return *e.SysInfo
}

// Solve builds the model of inst, runs it through the MIP backend and
// reconstructs the routes. Any status other than ERROR returns a Solution;
// ERROR returns a SolverError.
func (e *Engine) Solve(ctx context.Context, inst *Instance, opts SolveOptions) (sol *Solution, err error) {
	if inst == nil {
		return nil, invalidParam("no instance given")
	}
	if err := opts.Validate(e.Config); err != nil {
		return nil, err
	}
	if n := len(inst.Customers); n > e.Config.MaxCustomers {
		return nil, invalidParam("instance has %d customers (max: %d)", n, e.Config.MaxCustomers)
	}
	if k := inst.Fleet.Vehicles; k > e.Config.MaxVehicles {
		return nil, invalidParam("instance has %d vehicles (max: %d)", k, e.Config.MaxVehicles)
	}
	defer Timed("solve " + inst.Name)(&err)
	started := time.Now()

	status := StatusError
	defer func() {
		label := string(status)
		if err != nil {
			label = ErrorKind(err)
		}
		metrics.ObserveSolve(label, time.Since(started).Seconds())
	}()

	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if demand, customer := inst.MaxDemand(); demand > inst.Fleet.Capacity {
		Log(2, "Customer %d demands %d > capacity %d - %s is infeasible", customer, demand, inst.Fleet.Capacity, inst.Name)
		status = StatusInfeasible
		sol = &Solution{
			Name:    inst.Name,
			Status:  StatusInfeasible,
			Comment: fmt.Sprintf("customer %d demand %d exceeds vehicle capacity %d", customer, demand, inst.Fleet.Capacity),
		}
		e.stamp(sol, started)
		return sol, nil
	}

	f, err := Build(inst)
	if err != nil {
		return nil, err
	}
	if err := f.CheckLimits(e.Config); err != nil {
		return nil, err
	}
	metrics.ObserveModel(len(f.Vars), len(f.Rows))
	if st := f.Stats(); st.Difficulty == DifficultyHard {
		Log(1, "Large instance (%d vertices) - solving may take a while or not reach optimality", st.Vertices)
	}

	res, err := e.solver().Solve(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	sol, err = Reconstruct(inst, res, e.Config.Tolerance)
	if err != nil {
		return nil, err
	}
	status = sol.Status
	e.stamp(sol, started)
	Log(2, "Solved %s: %s, objective %.2f, %d route(s)", inst.Name, sol.Status, sol.Objective, len(sol.Routes))
	return sol, nil
}

func (e *Engine) stamp(sol *Solution, started time.Time) {
	if sol.ID == "" {
		sol.ID = uuid.NewString()
	}
	sol.Time = time.Since(started).String()
	sol.System = e.sysInfo()
}
