package vrptw

import "math"

// Status classifies the outcome of a solve.
type Status string

const (
	StatusOptimal         Status = "OPTIMAL"
	StatusFeasibleTimeout Status = "FEASIBLE_TIMEOUT"
	StatusInfeasible      Status = "INFEASIBLE"
	StatusError           Status = "ERROR"
)

// HasSolution reports whether a status carries an arc assignment.
func (s Status) HasSolution() bool {
	return s == StatusOptimal || s == StatusFeasibleTimeout
}

type TimeWindow struct {
	Earliest float64 `json:"earliest" yaml:"earliest"`
	Latest   float64 `json:"latest" yaml:"latest"`
}

// Contains reports whether t lies inside the window, allowing tol on both sides.
func (w TimeWindow) Contains(t, tol float64) bool {
	return t >= w.Earliest-tol && t <= w.Latest+tol
}

// Customer is a vertex 1..n of the routing graph.
type Customer struct {
	ID          int        `json:"id" yaml:"id"`
	Coordinates [2]float64 `json:"coordinates" yaml:"coordinates,flow"`
	Demand      int        `json:"demand" yaml:"demand"`
	TimeWindow  TimeWindow `json:"time_window" yaml:"time_window"`
	ServiceTime float64    `json:"service_time" yaml:"service_time"`
}

// Depot is always vertex 0. It has no demand and no service time.
type Depot struct {
	Coordinates [2]float64 `json:"coordinates" yaml:"coordinates,flow"`
	TimeWindow  TimeWindow `json:"time_window" yaml:"time_window"`
}

// Fleet is a homogeneous set of vehicles.
type Fleet struct {
	Vehicles int `json:"vehicles" yaml:"vehicles"`
	Capacity int `json:"capacity" yaml:"capacity"`
}

// Instance describes one VRPTW problem. CostMatrix is indexed by vertex,
// vertex 0 being the depot, and doubles as the travel time matrix.
type Instance struct {
	Name    string `json:"name" yaml:"name"`
	Comment string `json:"comment" yaml:"comment"`

	Depot      Depot       `json:"depot" yaml:"depot"`
	Customers  []Customer  `json:"customers" yaml:"customers"`
	Fleet      Fleet       `json:"fleet" yaml:"fleet"`
	CostMatrix [][]float64 `json:"cost_matrix" yaml:"cost_matrix,flow"`
	Seed       int64       `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Vertices returns n+1.
func (inst *Instance) Vertices() int {
	return len(inst.Customers) + 1
}

func (inst *Instance) Cost(i, j int) float64 {
	return inst.CostMatrix[i][j]
}

func (inst *Instance) Demand(v int) int {
	if v == 0 {
		return 0
	}
	return inst.Customers[v-1].Demand
}

func (inst *Instance) Service(v int) float64 {
	if v == 0 {
		return 0
	}
	return inst.Customers[v-1].ServiceTime
}

func (inst *Instance) Window(v int) TimeWindow {
	if v == 0 {
		return inst.Depot.TimeWindow
	}
	return inst.Customers[v-1].TimeWindow
}

func (inst *Instance) Coordinates(v int) [2]float64 {
	if v == 0 {
		return inst.Depot.Coordinates
	}
	return inst.Customers[v-1].Coordinates
}

func (inst *Instance) TotalDemand() int {
	sum := 0
	for _, c := range inst.Customers {
		sum += c.Demand
	}
	return sum
}

// MaxDemand returns the largest single demand and the customer holding it.
func (inst *Instance) MaxDemand() (demand int, customer int) {
	for _, c := range inst.Customers {
		if c.Demand > demand {
			demand, customer = c.Demand, c.ID
		}
	}
	return demand, customer
}

// Validate checks the invariants every consumer of an Instance relies on.
func (inst *Instance) Validate() error {
	n := len(inst.Customers)
	if n == 0 {
		return formulationErr("instance %q has no customers", inst.Name)
	}
	if inst.Fleet.Vehicles < 1 {
		return formulationErr("fleet needs at least one vehicle, got %d", inst.Fleet.Vehicles)
	}
	if inst.Fleet.Capacity <= 0 {
		return formulationErr("vehicle capacity must be positive, got %d", inst.Fleet.Capacity)
	}
	if w := inst.Depot.TimeWindow; !finite(w.Earliest, w.Latest) {
		return formulationErr("depot window [%g, %g] is not finite", w.Earliest, w.Latest)
	} else if w.Earliest > w.Latest {
		return formulationErr("depot window [%g, %g] is inverted", w.Earliest, w.Latest)
	}
	if !finite(inst.Depot.Coordinates[0], inst.Depot.Coordinates[1]) {
		return formulationErr("depot coordinates %v are not finite", inst.Depot.Coordinates)
	}
	for k, c := range inst.Customers {
		if c.ID != k+1 {
			return formulationErr("customer at position %d has id %d, want %d", k, c.ID, k+1)
		}
		if c.Demand < 0 {
			return formulationErr("customer %d has negative demand %d", c.ID, c.Demand)
		}
		if !finite(c.Coordinates[0], c.Coordinates[1], c.ServiceTime, c.TimeWindow.Earliest, c.TimeWindow.Latest) {
			return formulationErr("customer %d has a non-finite coordinate, service time or window", c.ID)
		}
		if c.ServiceTime < 0 {
			return formulationErr("customer %d has negative service time %g", c.ID, c.ServiceTime)
		}
		if c.TimeWindow.Earliest > c.TimeWindow.Latest {
			return formulationErr("customer %d window [%g, %g] is inverted", c.ID, c.TimeWindow.Earliest, c.TimeWindow.Latest)
		}
	}
	if len(inst.CostMatrix) != n+1 {
		return formulationErr("cost matrix has %d rows, want %d", len(inst.CostMatrix), n+1)
	}
	for i, row := range inst.CostMatrix {
		if len(row) != n+1 {
			return formulationErr("cost matrix row %d has %d entries, want %d", i, len(row), n+1)
		}
		for j, c := range row {
			if i != j && (c < 0 || math.IsNaN(c) || math.IsInf(c, 0)) {
				return formulationErr("cost %d->%d is %g", i, j, c)
			}
		}
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Stop is one customer visit. Arrival is when the vehicle gets there, Start
// when service begins (after waiting for the window to open), Load the
// cumulative demand served up to and including this stop.
type Stop struct {
	Customer int     `json:"customer" yaml:"customer"`
	Arrival  float64 `json:"arrival" yaml:"arrival"`
	Start    float64 `json:"start" yaml:"start"`
	Load     int     `json:"load" yaml:"load"`
}

// Route is the tour of one vehicle. The depot is implicit at both ends.
type Route struct {
	Vehicle   int     `json:"vehicle" yaml:"vehicle"`
	Stops     []Stop  `json:"stops" yaml:"stops"`
	Cost      float64 `json:"cost" yaml:"cost"`
	Load      int     `json:"load" yaml:"load"`
	Departure float64 `json:"departure" yaml:"departure"`
	Return    float64 `json:"return" yaml:"return"`
	Duration  float64 `json:"duration" yaml:"duration"`
}

// Sequence returns the visited customers in order.
func (r Route) Sequence() []int {
	seq := make([]int, len(r.Stops))
	for i, s := range r.Stops {
		seq[i] = s.Customer
	}
	return seq
}

type Solution struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Status    Status  `json:"status" yaml:"status"`
	Objective float64 `json:"objective" yaml:"objective"`
	TotalCost float64 `json:"total_cost" yaml:"total_cost"`
	Gap       float64 `json:"gap" yaml:"gap"`
	Bound     float64 `json:"bound" yaml:"bound"` // best dual bound
	Routes    []Route `json:"routes" yaml:"routes"`

	Time    string  `json:"time" yaml:"time"`
	System  SysInfo `json:"system" yaml:"system"`
	Comment string  `json:"comment" yaml:"comment"`
}

// SysInfo saves the basic system information
type SysInfo struct {
	Platform string `json:"platform" yaml:"platform"`
	CPU      string `json:"cpu" yaml:"cpu"`
	RAM      string `json:"ram" yaml:"ram"`
}
