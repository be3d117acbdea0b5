package vrptw

import (
	"fmt"
	"math"
	"strings"
)

// RouteSummary is the digest of one route.
type RouteSummary struct {
	Vehicle     int     `json:"vehicle"`
	Sequence    []int   `json:"sequence"`
	Stops       int     `json:"stops"`
	Load        int     `json:"load"`
	Utilization float64 `json:"utilization"`
	Cost        float64 `json:"cost"`
	Duration    float64 `json:"duration"`
}

// Summary is the human facing report of a solution.
type Summary struct {
	Name              string         `json:"name"`
	Status            Status         `json:"status"`
	Objective         float64        `json:"objective"`
	TotalCost         float64        `json:"total_cost"`
	Gap               float64        `json:"gap"`
	Consistent        bool           `json:"consistent"`
	Discrepancy       float64        `json:"discrepancy"`
	VehiclesUsed      int            `json:"vehicles_used"`
	VehiclesAvailable int            `json:"vehicles_available"`
	Customers         int            `json:"customers"`
	Routes            []RouteSummary `json:"routes"`
	Caveat            string         `json:"caveat,omitempty"`

	inst *Instance
	sol  *Solution
}

// Summarize recomputes the cost of every route of sol from the cost matrix
// of inst. A mismatch with the reported objective beyond tol is flagged,
// not returned as an error.
func Summarize(inst *Instance, sol *Solution, tol float64) (*Summary, error) {
	if inst == nil || sol == nil {
		return nil, invalidParam("summary needs an instance and a solution")
	}
	if sol.Name != "" && inst.Name != "" && sol.Name != inst.Name {
		Log(2, "Summarizing solution %q against instance %q", sol.Name, inst.Name)
	}
	N := inst.Vertices()
	s := &Summary{
		Name:              inst.Name,
		Status:            sol.Status,
		Objective:         sol.Objective,
		Gap:               sol.Gap,
		VehiclesUsed:      len(sol.Routes),
		VehiclesAvailable: inst.Fleet.Vehicles,
		Customers:         N - 1,
		Consistent:        true,
		inst:              inst,
		sol:               sol,
	}
	for _, r := range sol.Routes {
		seq := r.Sequence()
		for _, c := range seq {
			if c < 1 || c >= N {
				return nil, invalidParam("route %d visits unknown customer %d", r.Vehicle, c)
			}
		}
		load := 0
		for _, c := range seq {
			load += inst.Demand(c)
		}
		cost := GetRouteCost(seq, inst.CostMatrix)
		s.TotalCost += cost
		s.Routes = append(s.Routes, RouteSummary{
			Vehicle:     r.Vehicle,
			Sequence:    seq,
			Stops:       len(seq),
			Load:        load,
			Utilization: float64(load) / float64(inst.Fleet.Capacity),
			Cost:        cost,
			Duration:    r.Duration,
		})
	}
	if sol.Status.HasSolution() {
		s.Discrepancy = math.Abs(s.TotalCost - sol.Objective)
		s.Consistent = s.Discrepancy <= tol
		if !s.Consistent {
			Log(1, "Solution %s: recomputed cost %g differs from objective %g", inst.Name, s.TotalCost, sol.Objective)
		}
	}
	switch sol.Status {
	case StatusFeasibleTimeout:
		s.Caveat = fmt.Sprintf("time limit reached, solution is feasible but not proven optimal (gap %.2f%%)", sol.Gap*100)
	case StatusInfeasible:
		s.Caveat = "no feasible routing exists for this instance"
	case StatusError:
		s.Caveat = "the solver failed, no routes available"
	}
	return s, nil
}

func (s *Summary) String() string {
	var b strings.Builder
	line := strings.Repeat("=", 50)
	fmt.Fprintf(&b, "%s\nSolution %s\n%s\n", line, s.Name, line)
	fmt.Fprintf(&b, "Status: %s\n", s.Status)
	if s.Caveat != "" {
		fmt.Fprintf(&b, "Note: %s\n", s.Caveat)
	}
	if !s.Status.HasSolution() {
		return b.String()
	}
	fmt.Fprintf(&b, "Total Cost: %.2f (objective %.2f", s.TotalCost, s.Objective)
	if !s.Consistent {
		fmt.Fprintf(&b, ", MISMATCH %.6f", s.Discrepancy)
	}
	b.WriteString(")\n")
	fmt.Fprintf(&b, "Vehicles used: %d/%d\n", s.VehiclesUsed, s.VehiclesAvailable)
	fmt.Fprintf(&b, "\nNumber of routes: %d\n", len(s.Routes))
	for k, r := range s.Routes {
		path := make([]string, 0, len(r.Sequence)+2)
		path = append(path, "0")
		for _, c := range r.Sequence {
			path = append(path, fmt.Sprint(c))
		}
		path = append(path, "0")
		fmt.Fprintf(&b, "\nRoute %d: %s\n", r.Vehicle, strings.Join(path, " -> "))
		fmt.Fprintf(&b, "  Cost: %.2f\n", r.Cost)
		fmt.Fprintf(&b, "  Total demand: %d (%.0f%% of capacity)\n", r.Load, r.Utilization*100)
		fmt.Fprintf(&b, "  Stops: %d\n", r.Stops)
		if s.sol == nil || s.inst == nil || k >= len(s.sol.Routes) {
			continue
		}
		route := s.sol.Routes[k]
		b.WriteString("  Schedule:\n")
		fmt.Fprintf(&b, "    Depot: depart=%.1f\n", route.Departure)
		for _, st := range route.Stops {
			w := s.inst.Window(st.Customer)
			fmt.Fprintf(&b, "    Customer %d: arrival=%.1f, start=%.1f, TW=[%g, %g]\n", st.Customer, st.Arrival, st.Start, w.Earliest, w.Latest)
		}
		fmt.Fprintf(&b, "    Depot: return=%.1f\n", route.Return)
	}
	return b.String()
}

// VertexReport is one row of the instance table; vertex 0 is the depot.
type VertexReport struct {
	ID          int        `json:"id"`
	Coordinates [2]float64 `json:"coordinates"`
	TimeWindow  TimeWindow `json:"time_window"`
	ServiceTime float64    `json:"service_time"`
	Demand      int        `json:"demand"`
}

// InstanceReport describes an instance before it is solved.
type InstanceReport struct {
	Name        string         `json:"name"`
	Vertices    int            `json:"vertices"`
	Customers   int            `json:"customers"`
	Vehicles    int            `json:"vehicles"`
	Capacity    int            `json:"capacity"`
	TotalDemand int            `json:"total_demand"`
	Table       []VertexReport `json:"table"`
}

func (inst *Instance) Report() *InstanceReport {
	N := inst.Vertices()
	r := &InstanceReport{
		Name:        inst.Name,
		Vertices:    N,
		Customers:   N - 1,
		Vehicles:    inst.Fleet.Vehicles,
		Capacity:    inst.Fleet.Capacity,
		TotalDemand: inst.TotalDemand(),
		Table:       make([]VertexReport, N),
	}
	for v := 0; v < N; v++ {
		r.Table[v] = VertexReport{
			ID:          v,
			Coordinates: inst.Coordinates(v),
			TimeWindow:  inst.Window(v),
			ServiceTime: inst.Service(v),
			Demand:      inst.Demand(v),
		}
	}
	return r
}

func (r *InstanceReport) String() string {
	var b strings.Builder
	line := strings.Repeat("=", 50)
	fmt.Fprintf(&b, "%s\nVRP Instance with Time Windows %s\n%s\n", line, r.Name, line)
	fmt.Fprintf(&b, "Number of vertices: %d\n", r.Vertices)
	fmt.Fprintf(&b, "Number of customers: %d\n", r.Customers)
	fmt.Fprintf(&b, "Number of vehicles: %d\n", r.Vehicles)
	fmt.Fprintf(&b, "Vehicle capacity: %d (total demand %d)\n", r.Capacity, r.TotalDemand)
	b.WriteString("\nVertices:\n")
	fmt.Fprintf(&b, "%s\n%-8s %-20s %-15s %-8s %-6s\n%s\n", strings.Repeat("-", 50), "ID", "Coord", "TW", "Service", "Demand", strings.Repeat("-", 50))
	for _, v := range r.Table {
		kind := "Depot"
		if v.ID > 0 {
			kind = fmt.Sprintf("Cust %d", v.ID)
		}
		coord := fmt.Sprintf("(%.1f, %.1f)", v.Coordinates[0], v.Coordinates[1])
		tw := fmt.Sprintf("[%g, %g]", v.TimeWindow.Earliest, v.TimeWindow.Latest)
		fmt.Fprintf(&b, "%-8s %-20s %-15s %-8g %-6d\n", kind, coord, tw, v.ServiceTime, v.Demand)
	}
	return b.String()
}
