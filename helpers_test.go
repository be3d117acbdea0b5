package vrptw

import (
	"context"
	"testing"
)

// lineInstance puts the depot at the origin and customer k at (10k, 0).
// Every window is [0, 1000], demands are 1 and service times 0.
func lineInstance(t *testing.T, n, vehicles, capacity int) *Instance {
	t.Helper()
	coordinates := make([][2]float64, n+1)
	inst := &Instance{
		Name:  "line",
		Depot: Depot{TimeWindow: TimeWindow{Earliest: 0, Latest: 1000}},
		Fleet: Fleet{Vehicles: vehicles, Capacity: capacity},
	}
	for k := 1; k <= n; k++ {
		coordinates[k] = [2]float64{float64(10 * k), 0}
		inst.Customers = append(inst.Customers, Customer{
			ID:          k,
			Coordinates: coordinates[k],
			Demand:      1,
			TimeWindow:  TimeWindow{Earliest: 0, Latest: 1000},
		})
	}
	inst.CostMatrix = CalcEdgeDist(coordinates, 2)
	return inst
}

// arcMatrix builds an (n+1)x(n+1) arc assignment from i->j pairs.
func arcMatrix(n int, arcs ...[2]int) [][]int {
	m := make([][]int, n+1)
	for i := range m {
		m[i] = make([]int, n+1)
	}
	for _, a := range arcs {
		m[a[0]][a[1]] = 1
	}
	return m
}

type fakeSolver struct {
	res   *SolverResult
	err   error
	calls int
	last  *Formulation
}

func (s *fakeSolver) Solve(_ context.Context, f *Formulation, _ SolveOptions) (*SolverResult, error) {
	s.calls++
	s.last = f
	return s.res, s.err
}

func testEngine(solver MIPSolver) *Engine {
	return &Engine{Config: DefaultConfig(), Solver: solver, SysInfo: &SysInfo{Platform: "test"}}
}

func testOptions() SolveOptions {
	return SolveOptions{TimeLimit: DefaultConfig().DefaultTimeLimit, Seed: 1, Threads: 1}
}
