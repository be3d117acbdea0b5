package vrptw

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcoClaps/vrptw/metrics"
)

func fiveCustomers(t *testing.T) *Instance {
	t.Helper()
	coordinates := [][2]float64{{50, 50}, {20, 20}, {80, 20}, {20, 80}, {80, 80}, {50, 90}}
	inst := &Instance{
		Name:  "five",
		Depot: Depot{Coordinates: coordinates[0], TimeWindow: TimeWindow{Earliest: 0, Latest: 1000}},
		Fleet: Fleet{Vehicles: 2, Capacity: 1000},
	}
	for k := 1; k < len(coordinates); k++ {
		inst.Customers = append(inst.Customers, Customer{
			ID:          k,
			Coordinates: coordinates[k],
			Demand:      k,
			TimeWindow:  TimeWindow{Earliest: 0, Latest: 1000},
			ServiceTime: 5,
		})
	}
	inst.CostMatrix = CalcEdgeDist(coordinates, 2)
	return inst
}

func TestSolveOptimal(t *testing.T) {
	inst := fiveCustomers(t)
	e := testEngine(NewHighsSolver())
	sol, err := e.Solve(context.Background(), inst, testOptions())
	require.NoError(t, err)

	assert.Equal(t, StatusOptimal, sol.Status)
	assert.LessOrEqual(t, len(sol.Routes), inst.Fleet.Vehicles)
	assert.NotEmpty(t, sol.ID)
	assert.NotEmpty(t, sol.Time)
	assert.Equal(t, "test", sol.System.Platform)

	recomputed := 0.0
	seen := map[int]int{}
	for _, r := range sol.Routes {
		recomputed += GetRouteCost(r.Sequence(), inst.CostMatrix)
		assert.LessOrEqual(t, r.Load, inst.Fleet.Capacity)
		for _, st := range r.Stops {
			seen[st.Customer]++
			assert.True(t, inst.Window(st.Customer).Contains(st.Start, 1e-6))
		}
		assert.LessOrEqual(t, r.Return, inst.Depot.TimeWindow.Latest)
	}
	assert.InDelta(t, recomputed, sol.Objective, 1e-6)
	assert.InDelta(t, recomputed, sol.TotalCost, 1e-9)
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1, 4: 1, 5: 1}, seen)

	sum, err := Summarize(inst, sol, e.Config.Tolerance)
	require.NoError(t, err)
	assert.True(t, sum.Consistent, "discrepancy %g", sum.Discrepancy)
	assert.Equal(t, len(sol.Routes), sum.VehiclesUsed)
	assert.Empty(t, sum.Caveat)
}

func TestSolveBindingCapacity(t *testing.T) {
	// Four unit demands on a line, two vehicles of capacity 2: the best
	// split serves {1, 2} and {3, 4}.
	inst := lineInstance(t, 4, 2, 2)
	e := testEngine(NewHighsSolver())
	sol, err := e.Solve(context.Background(), inst, testOptions())
	require.NoError(t, err)

	assert.Equal(t, StatusOptimal, sol.Status)
	require.Len(t, sol.Routes, 2)
	for _, r := range sol.Routes {
		assert.LessOrEqual(t, r.Load, 2)
	}
	assert.ElementsMatch(t, []int{1, 2}, sol.Routes[0].Sequence())
	assert.ElementsMatch(t, []int{3, 4}, sol.Routes[1].Sequence())
	assert.InDelta(t, 120.0, sol.Objective, 1e-6)
}

func TestSolveBindingWindows(t *testing.T) {
	// Customer 2 closes at 25 and customer 1 opens at 100, so the only
	// optimal order is 2, 3, 1 rather than along the line.
	inst := lineInstance(t, 3, 1, 10)
	inst.Customers[0].TimeWindow = TimeWindow{Earliest: 100, Latest: 200}
	inst.Customers[1].TimeWindow = TimeWindow{Earliest: 0, Latest: 25}
	inst.Customers[2].TimeWindow = TimeWindow{Earliest: 0, Latest: 40}
	e := testEngine(NewHighsSolver())
	sol, err := e.Solve(context.Background(), inst, testOptions())
	require.NoError(t, err)

	assert.Equal(t, StatusOptimal, sol.Status)
	require.Len(t, sol.Routes, 1)
	assert.Equal(t, []int{2, 3, 1}, sol.Routes[0].Sequence())
	assert.InDelta(t, 60.0, sol.Objective, 1e-6)
	for _, st := range sol.Routes[0].Stops {
		w := inst.Window(st.Customer)
		assert.True(t, w.Contains(st.Start, 1e-6), "customer %d starts at %g outside [%g, %g]", st.Customer, st.Start, w.Earliest, w.Latest)
	}
	assert.Equal(t, 100.0, sol.Routes[0].Stops[2].Start)
	assert.Equal(t, 110.0, sol.Routes[0].Return)
}

func TestSolveIsRepeatable(t *testing.T) {
	inst := fiveCustomers(t)
	e := testEngine(NewHighsSolver())
	a, err := e.Solve(context.Background(), inst, testOptions())
	require.NoError(t, err)
	b, err := e.Solve(context.Background(), inst, testOptions())
	require.NoError(t, err)
	assert.Equal(t, a.Status, b.Status)
	assert.InDelta(t, a.Objective, b.Objective, 1e-6)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSolveInfeasibleWindows(t *testing.T) {
	// Three customers 10 apart that all close at 11: one vehicle cannot
	// reach a second customer in time.
	inst := lineInstance(t, 3, 1, 10)
	for k := range inst.Customers {
		inst.Customers[k].TimeWindow = TimeWindow{Earliest: 10, Latest: 11}
	}
	e := testEngine(NewHighsSolver())
	sol, err := e.Solve(context.Background(), inst, testOptions())
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
	assert.Empty(t, sol.Routes)
}

func TestSolveDemandAboveCapacitySkipsSolver(t *testing.T) {
	inst := lineInstance(t, 3, 2, 10)
	inst.Customers[2].Demand = 11
	fake := &fakeSolver{}
	sol, err := testEngine(fake).Solve(context.Background(), inst, testOptions())
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
	assert.Contains(t, sol.Comment, "customer 3")
	assert.Zero(t, fake.calls)
}

func TestSolveSolverError(t *testing.T) {
	fake := &fakeSolver{
		res: &SolverResult{Status: StatusError, Detail: "stopped on TimeLimit without a feasible solution"},
		err: &SolverError{Detail: "stopped on TimeLimit without a feasible solution"},
	}
	sol, err := testEngine(fake).Solve(context.Background(), lineInstance(t, 2, 1, 10), testOptions())
	assert.Nil(t, sol)
	assert.ErrorIs(t, err, ErrSolver)
	assert.NotErrorIs(t, err, ErrConstraintViolation)
	assert.Equal(t, 1, fake.calls)
}

func TestSolvePropagatesSubtours(t *testing.T) {
	counted := metrics.Solves.WithLabelValues("SUBTOUR_DETECTED")
	solverErrors := metrics.Solves.WithLabelValues(string(StatusError))
	before, beforeErr := testutil.ToFloat64(counted), testutil.ToFloat64(solverErrors)

	fake := &fakeSolver{res: optimal(arcMatrix(4, [2]int{1, 2}, [2]int{2, 1}, [2]int{3, 4}, [2]int{4, 3}), 0)}
	_, err := testEngine(fake).Solve(context.Background(), lineInstance(t, 4, 2, 10), testOptions())
	assert.ErrorIs(t, err, ErrSubtourDetected)

	assert.Equal(t, before+1, testutil.ToFloat64(counted))
	assert.Equal(t, beforeErr, testutil.ToFloat64(solverErrors))
}

func TestSolveRejectsBadInput(t *testing.T) {
	e := testEngine(&fakeSolver{})
	ctx := context.Background()

	_, err := e.Solve(ctx, nil, testOptions())
	assert.ErrorIs(t, err, ErrInvalidParameter)

	opts := testOptions()
	opts.TimeLimit = e.Config.MaxTimeLimit + time.Minute
	_, err = e.Solve(ctx, lineInstance(t, 2, 1, 10), opts)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = e.Solve(ctx, lineInstance(t, 2, e.Config.MaxVehicles+1, 10), testOptions())
	assert.ErrorIs(t, err, ErrInvalidParameter)

	e.Config.MaxVariables = 5
	_, err = e.Solve(ctx, lineInstance(t, 2, 1, 10), testOptions())
	assert.ErrorIs(t, err, ErrInvalidParameter)

	broken := lineInstance(t, 2, 1, 10)
	broken.CostMatrix = nil
	_, err = testEngine(&fakeSolver{}).Solve(ctx, broken, testOptions())
	assert.ErrorIs(t, err, ErrFormulation)
}

func TestSolveWarnsOnHardInstances(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	e := testEngine(&fakeSolver{res: &SolverResult{Status: StatusInfeasible}})
	_, err := e.Solve(context.Background(), lineInstance(t, 10, 2, 20), testOptions())
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Large instance")

	_, err = e.Solve(context.Background(), lineInstance(t, 30, 2, 40), testOptions())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Large instance (31 vertices)")
}
