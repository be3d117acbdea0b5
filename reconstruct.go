package vrptw

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Constraint kinds reported by ConstraintError.
const (
	KindSuccessors  = "successors"
	KindVehicles    = "vehicles"
	KindTimeWindow  = "time window"
	KindCapacity    = "capacity"
	KindDepotReturn = "depot return"
)

// Reconstruct turns the raw arc assignment of res into routes and checks
// them against inst. An INFEASIBLE result yields a Solution without routes,
// an ERROR result its SolverError.
func Reconstruct(inst *Instance, res *SolverResult, tol float64) (*Solution, error) {
	if res == nil {
		return nil, &SolverError{Detail: "no solver result"}
	}
	switch res.Status {
	case StatusInfeasible:
		return &Solution{ID: uuid.NewString(), Name: inst.Name, Status: StatusInfeasible, Comment: res.Detail}, nil
	case StatusError:
		return nil, &SolverError{Detail: res.Detail}
	case StatusOptimal, StatusFeasibleTimeout:
	default:
		return nil, &SolverError{Detail: "unknown status " + string(res.Status)}
	}

	N := inst.Vertices()
	arcs := res.Arcs
	if len(arcs) != N {
		return nil, formulationErr("arc matrix has %d rows, want %d", len(arcs), N)
	}
	for i, row := range arcs {
		if len(row) != N {
			return nil, formulationErr("arc matrix row %d has %d entries, want %d", i, len(row), N)
		}
	}

	sequences, err := followRoutes(arcs)
	if err != nil {
		return nil, err
	}
	if len(sequences) > inst.Fleet.Vehicles {
		return nil, &ConstraintError{Route: len(sequences), Kind: KindVehicles, Value: float64(len(sequences)), Limit: float64(inst.Fleet.Vehicles)}
	}

	sol := &Solution{
		ID:        uuid.NewString(),
		Name:      inst.Name,
		Status:    res.Status,
		Objective: res.Objective,
		Gap:       res.Gap,
		Bound:     res.Bound,
		Comment:   res.Detail,
	}
	for r, seq := range sequences {
		route, err := schedule(inst, r+1, seq, tol)
		if err != nil {
			return nil, err
		}
		if err := checkSolverTimes(inst, route, res.Times, tol); err != nil {
			return nil, err
		}
		sol.Routes = append(sol.Routes, route)
		sol.TotalCost += route.Cost
	}
	return sol, nil
}

// followRoutes walks every depot arc, in ascending order of the first
// customer, along the unique successor of each vertex back to the depot.
func followRoutes(arcs [][]int) ([][]int, error) {
	N := len(arcs)
	visits := make([]int, N)
	var (
		routes    [][]int
		duplicate []int
	)
	for first := 1; first < N; first++ {
		if arcs[0][first] != 1 {
			continue
		}
		r := len(routes) + 1
		var seq []int
		for cur := first; cur != 0; {
			visits[cur]++
			if visits[cur] > 1 {
				duplicate = append(duplicate, cur)
				break
			}
			seq = append(seq, cur)
			succ := successors(arcs, cur)
			if len(succ) != 1 {
				return nil, &ConstraintError{Route: r, Customer: cur, Kind: KindSuccessors, Value: float64(len(succ)), Limit: 1}
			}
			cur = succ[0]
		}
		routes = append(routes, seq)
	}
	if len(duplicate) > 0 {
		sort.Ints(duplicate)
		return nil, &SubtourError{Duplicate: duplicate}
	}

	var unvisited []int
	for v := 1; v < N; v++ {
		if visits[v] == 0 {
			unvisited = append(unvisited, v)
		}
	}
	if len(unvisited) > 0 {
		return nil, &SubtourError{Cycles: detachedCycles(arcs, unvisited)}
	}
	return routes, nil
}

func successors(arcs [][]int, v int) []int {
	var succ []int
	for j, used := range arcs[v] {
		if used == 1 && j != v {
			succ = append(succ, j)
		}
	}
	return succ
}

// detachedCycles groups the given customers into the cycles their arcs form.
// A chain that does not close is reported as it is.
func detachedCycles(arcs [][]int, customers []int) [][]int {
	seen := make(map[int]bool, len(customers))
	var cycles [][]int
	for _, start := range customers {
		if seen[start] {
			continue
		}
		var cycle []int
		for cur := start; cur != 0 && !seen[cur]; {
			seen[cur] = true
			cycle = append(cycle, cur)
			succ := successors(arcs, cur)
			if len(succ) == 0 {
				break
			}
			cur = succ[0]
		}
		cycles = append(cycles, cycle)
	}
	return cycles
}

// checkSolverTimes verifies the service starts the solver chose for the
// customers of route against their windows. Missing times are skipped.
func checkSolverTimes(inst *Instance, route Route, times []float64, tol float64) error {
	if len(times) != inst.Vertices() {
		return nil
	}
	for _, st := range route.Stops {
		w := inst.Window(st.Customer)
		if t := times[st.Customer]; !w.Contains(t, tol) {
			limit := w.Latest
			if t < w.Earliest {
				limit = w.Earliest
			}
			return &ConstraintError{Route: route.Vehicle, Customer: st.Customer, Kind: KindTimeWindow, Value: t, Limit: limit}
		}
	}
	return nil
}

// schedule re-propagates service start times and loads along seq, leaving
// the depot at its earliest time and waiting for windows to open.
func schedule(inst *Instance, vehicle int, seq []int, tol float64) (Route, error) {
	route := Route{Vehicle: vehicle, Departure: inst.Depot.TimeWindow.Earliest}
	Q := inst.Fleet.Capacity
	clock, prev, load := route.Departure, 0, 0
	for _, cur := range seq {
		arrival := clock + inst.Service(prev) + inst.Cost(prev, cur)
		w := inst.Window(cur)
		start := math.Max(arrival, w.Earliest)
		if start > w.Latest+tol {
			return Route{}, &ConstraintError{Route: vehicle, Customer: cur, Kind: KindTimeWindow, Value: start, Limit: w.Latest}
		}
		load += inst.Demand(cur)
		if load > Q {
			return Route{}, &ConstraintError{Route: vehicle, Customer: cur, Kind: KindCapacity, Value: float64(load), Limit: float64(Q)}
		}
		route.Stops = append(route.Stops, Stop{Customer: cur, Arrival: arrival, Start: start, Load: load})
		clock, prev = start, cur
	}
	route.Return = clock + inst.Service(prev) + inst.Cost(prev, 0)
	if latest := inst.Depot.TimeWindow.Latest; route.Return > latest+tol {
		return Route{}, &ConstraintError{Route: vehicle, Customer: prev, Kind: KindDepotReturn, Value: route.Return, Limit: latest}
	}
	route.Load = load
	route.Cost = GetRouteCost(seq, inst.CostMatrix)
	route.Duration = route.Return - route.Departure
	return route, nil
}
