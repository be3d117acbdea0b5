package vrptw

import (
	"fmt"
	"math"
)

type VarType int

const (
	Continuous VarType = iota
	Binary
	Integer
)

func (t VarType) String() string {
	switch t {
	case Binary:
		return "binary"
	case Integer:
		return "integer"
	default:
		return "continuous"
	}
}

type Variable struct {
	Name  string
	Type  VarType
	Lower float64
	Upper float64
	Cost  float64
}

// Constraint is the sparse row Lower <= sum(Val[k] * x[Ind[k]]) <= Upper.
type Constraint struct {
	Name  string
	Group string
	Ind   []int
	Val   []float64
	Lower float64
	Upper float64
}

// Constraint groups of the model.
const (
	GroupVisitIn      = "visit_in"
	GroupVisitOut     = "visit_out"
	GroupDepot        = "depot"
	GroupTime         = "time"
	GroupReturn       = "return"
	GroupMTZ          = "mtz"
	GroupLoad         = "load"
	DifficultyEasy    = "easy"
	DifficultyMedium  = "medium"
	DifficultyHard    = "hard"
	unusedIndex       = -1
	arcActiveCutpoint = 0.5
)

// Formulation is the two-index MTZ model of one instance. It is built fresh
// for every solve and owned by that solve.
//
// Variables:
//
//	x_i_j  binary, arc i->j is used
//	t_i    start of service at i (t_0 is the depot departure, fixed)
//	u_i    MTZ position of customer i in its route
//	q_i    load on the vehicle after serving customer i
type Formulation struct {
	Name     string
	Vertices int
	Vars     []Variable
	Rows     []Constraint

	// BigM[i][j] is the relaxation constant of time_i_j (or return_i when
	// j == 0). It is 0 for pruned arcs and on the diagonal.
	BigM [][]float64
	// Pruned[i][j] is true when x_i_j was fixed to 0 before solving.
	Pruned [][]bool

	arc   [][]int
	time  []int
	order []int
	load  []int
}

func (f *Formulation) ArcIndex(i, j int) int { return f.arc[i][j] }
func (f *Formulation) TimeIndex(i int) int   { return f.time[i] }
func (f *Formulation) OrderIndex(i int) int  { return f.order[i] }
func (f *Formulation) LoadIndex(i int) int   { return f.load[i] }

func (f *Formulation) addVar(v Variable) int {
	f.Vars = append(f.Vars, v)
	return len(f.Vars) - 1
}

func (f *Formulation) addRow(group, name string, ind []int, val []float64, lower, upper float64) {
	f.Rows = append(f.Rows, Constraint{Name: name, Group: group, Ind: ind, Val: val, Lower: lower, Upper: upper})
}

// ArcMatrix rounds the arc variables of a raw column assignment to 0/1.
func (f *Formulation) ArcMatrix(values []float64) [][]int {
	n := f.Vertices
	arcs := make([][]int, n)
	for i := 0; i < n; i++ {
		arcs[i] = make([]int, n)
		for j := 0; j < n; j++ {
			if idx := f.arc[i][j]; idx != unusedIndex && idx < len(values) && values[idx] > arcActiveCutpoint {
				arcs[i][j] = 1
			}
		}
	}
	return arcs
}

// Times extracts the t_i column values.
func (f *Formulation) Times(values []float64) []float64 {
	times := make([]float64, f.Vertices)
	for i, idx := range f.time {
		if idx < len(values) {
			times[i] = values[idx]
		}
	}
	return times
}

// arcBigM returns the smallest M that deactivates
// t_j >= t_i + s_i + c_ij - M(1 - x_ij) for every t_i, t_j within their bounds.
func arcBigM(ubI, service, cost, lbJ float64) float64 {
	return math.Max(0, ubI+service+cost-lbJ)
}

// Build translates inst into its MIP formulation.
func Build(inst *Instance) (f *Formulation, err error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	defer Timed("build " + inst.Name)(&err)

	N := inst.Vertices()
	n := N - 1
	K := float64(inst.Fleet.Vehicles)
	Q := float64(inst.Fleet.Capacity)
	depot := inst.Depot.TimeWindow

	f = &Formulation{
		Name:     inst.Name,
		Vertices: N,
		BigM:     make([][]float64, N),
		Pruned:   make([][]bool, N),
		arc:      make([][]int, N),
		time:     make([]int, N),
		order:    make([]int, N),
		load:     make([]int, N),
	}

	// t bounds; the depot departure is fixed to its earliest time since
	// waiting at customers is allowed.
	tLower := make([]float64, N)
	tUpper := make([]float64, N)
	for v := 0; v < N; v++ {
		w := inst.Window(v)
		tLower[v], tUpper[v] = w.Earliest, w.Latest
	}
	tUpper[0] = depot.Earliest

	Log(3, "Adding variables x_i_j...")
	pruned := 0
	for i := 0; i < N; i++ {
		f.arc[i] = make([]int, N)
		f.BigM[i] = make([]float64, N)
		f.Pruned[i] = make([]bool, N)
		for j := 0; j < N; j++ {
			if i == j {
				f.arc[i][j] = unusedIndex
				continue
			}
			upper := 1.0
			if arcInfeasible(inst, tLower, i, j) {
				upper = 0
				f.Pruned[i][j] = true
				pruned++
			}
			f.arc[i][j] = f.addVar(Variable{
				Name:  fmt.Sprintf("x_%d_%d", i, j),
				Type:  Binary,
				Upper: upper,
				Cost:  inst.Cost(i, j),
			})
		}
	}
	Log(3, "Adding variables t_i, u_i, q_i...")
	for v := 0; v < N; v++ {
		f.time[v] = f.addVar(Variable{Name: fmt.Sprintf("t_%d", v), Type: Continuous, Lower: tLower[v], Upper: tUpper[v]})
	}
	f.order[0], f.load[0] = unusedIndex, unusedIndex
	for v := 1; v < N; v++ {
		f.order[v] = f.addVar(Variable{Name: fmt.Sprintf("u_%d", v), Type: Continuous, Lower: 1, Upper: float64(n)})
	}
	for v := 1; v < N; v++ {
		d := float64(inst.Demand(v))
		f.load[v] = f.addVar(Variable{Name: fmt.Sprintf("q_%d", v), Type: Continuous, Lower: math.Min(d, Q), Upper: Q})
	}

	Log(3, "Creating and setting constraints for customers to be entered and left exactly once")
	{
		for j := 1; j < N; j++ {
			var (
				ind []int
				val []float64
			)
			for i := 0; i < N; i++ {
				if i == j {
					continue
				}
				ind = append(ind, f.arc[i][j])
				val = append(val, 1.0)
			}
			f.addRow(GroupVisitIn, fmt.Sprintf("visit_in_%d", j), ind, val, 1, 1)
		}
		for i := 1; i < N; i++ {
			var (
				ind []int
				val []float64
			)
			for j := 0; j < N; j++ {
				if i == j {
					continue
				}
				ind = append(ind, f.arc[i][j])
				val = append(val, 1.0)
			}
			f.addRow(GroupVisitOut, fmt.Sprintf("visit_out_%d", i), ind, val, 1, 1)
		}
	}

	Log(3, "Creating and setting depot constraints")
	{
		var (
			outInd, inInd []int
			outVal, inVal []float64
			balInd        []int
			balVal        []float64
		)
		for j := 1; j < N; j++ {
			outInd = append(outInd, f.arc[0][j])
			outVal = append(outVal, 1.0)
			inInd = append(inInd, f.arc[j][0])
			inVal = append(inVal, 1.0)
			balInd = append(balInd, f.arc[0][j], f.arc[j][0])
			balVal = append(balVal, 1.0, -1.0)
		}
		f.addRow(GroupDepot, "depot_out", outInd, outVal, 0, K)
		f.addRow(GroupDepot, "depot_in", inInd, inVal, 0, K)
		f.addRow(GroupDepot, "depot_balance", balInd, balVal, 0, 0)
	}

	Log(3, "Creating and setting time propagation constraints t_j - t_i - M_ij x_ij >= s_i + c_ij - M_ij")
	{
		for i := 0; i < N; i++ {
			for j := 1; j < N; j++ {
				if i == j || f.Pruned[i][j] {
					continue
				}
				s, c := inst.Service(i), inst.Cost(i, j)
				M := arcBigM(tUpper[i], s, c, tLower[j])
				f.BigM[i][j] = M
				if i == 0 {
					// t_0 is fixed, fold it into the right hand side.
					f.addRow(GroupTime, fmt.Sprintf("time_%d_%d", i, j),
						[]int{f.time[j], f.arc[i][j]}, []float64{1, -M},
						tLower[0]+s+c-M, math.Inf(1))
					continue
				}
				f.addRow(GroupTime, fmt.Sprintf("time_%d_%d", i, j),
					[]int{f.time[j], f.time[i], f.arc[i][j]}, []float64{1, -1, -M},
					s+c-M, math.Inf(1))
			}
		}
	}

	Log(3, "Creating and setting return constraints t_i + M_i0 x_i0 <= l_0 - s_i - c_i0 + M_i0")
	{
		for i := 1; i < N; i++ {
			if f.Pruned[i][0] {
				continue
			}
			s, c := inst.Service(i), inst.Cost(i, 0)
			M := math.Max(0, tUpper[i]+s+c-depot.Latest)
			f.BigM[i][0] = M
			f.addRow(GroupReturn, fmt.Sprintf("return_%d", i),
				[]int{f.time[i], f.arc[i][0]}, []float64{1, M},
				math.Inf(-1), depot.Latest-s-c+M)
		}
	}

	Log(3, "Creating and setting MTZ constraints u_i - u_j + n x_ij <= n - 1")
	{
		for i := 1; i < N; i++ {
			for j := 1; j < N; j++ {
				if i == j || f.Pruned[i][j] {
					continue
				}
				f.addRow(GroupMTZ, fmt.Sprintf("mtz_%d_%d", i, j),
					[]int{f.order[i], f.order[j], f.arc[i][j]}, []float64{1, -1, float64(n)},
					math.Inf(-1), float64(n-1))
			}
		}
	}

	Log(3, "Creating and setting capacity constraints q_j - q_i - Q x_ij >= d_j - Q")
	{
		for i := 1; i < N; i++ {
			for j := 1; j < N; j++ {
				if i == j || f.Pruned[i][j] {
					continue
				}
				f.addRow(GroupLoad, fmt.Sprintf("load_%d_%d", i, j),
					[]int{f.load[j], f.load[i], f.arc[i][j]}, []float64{1, -1, -Q},
					float64(inst.Demand(j))-Q, math.Inf(1))
			}
		}
	}

	Log(2, "Model %s: %d variables, %d constraints, %d arcs pruned", inst.Name, len(f.Vars), len(f.Rows), pruned)
	return f, nil
}

// arcInfeasible reports arcs no feasible route can use: the window of j
// closes before a vehicle leaving i at its earliest could get there, or the
// two demands alone exceed the vehicle capacity.
func arcInfeasible(inst *Instance, tLower []float64, i, j int) bool {
	arrival := tLower[i] + inst.Service(i) + inst.Cost(i, j)
	if arrival > inst.Window(j).Latest {
		return true
	}
	return inst.Demand(i)+inst.Demand(j) > inst.Fleet.Capacity
}

// Stats counts the parts of a formulation.
type Stats struct {
	Vertices    int            `json:"vertices"`
	Binary      int            `json:"binary"`
	Continuous  int            `json:"continuous"`
	Integer     int            `json:"integer"`
	Variables   int            `json:"variables"`
	Constraints int            `json:"constraints"`
	NonZeros    int            `json:"non_zeros"`
	PrunedArcs  int            `json:"pruned_arcs"`
	Groups      map[string]int `json:"groups"`
	Difficulty  string         `json:"difficulty"`
}

func (f *Formulation) Stats() Stats {
	st := Stats{Vertices: f.Vertices, Variables: len(f.Vars), Constraints: len(f.Rows), Groups: map[string]int{}}
	for _, v := range f.Vars {
		switch v.Type {
		case Binary:
			st.Binary++
		case Integer:
			st.Integer++
		default:
			st.Continuous++
		}
	}
	for _, r := range f.Rows {
		st.Groups[r.Group]++
		st.NonZeros += len(r.Ind)
	}
	for _, row := range f.Pruned {
		for _, p := range row {
			if p {
				st.PrunedArcs++
			}
		}
	}
	switch {
	case f.Vertices <= 15:
		st.Difficulty = DifficultyEasy
	case f.Vertices <= 30:
		st.Difficulty = DifficultyMedium
	default:
		st.Difficulty = DifficultyHard
	}
	return st
}

// CheckLimits rejects models larger than the configured solve limits.
func (f *Formulation) CheckLimits(cfg Config) error {
	if cfg.MaxVariables > 0 && len(f.Vars) > cfg.MaxVariables {
		return invalidParam("instance too large: %d variables (max: %d)", len(f.Vars), cfg.MaxVariables)
	}
	if cfg.MaxConstraints > 0 && len(f.Rows) > cfg.MaxConstraints {
		return invalidParam("instance too large: %d constraints (max: %d)", len(f.Rows), cfg.MaxConstraints)
	}
	return nil
}
