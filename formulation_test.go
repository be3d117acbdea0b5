package vrptw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCounts(t *testing.T) {
	inst := lineInstance(t, 3, 2, 10)
	f, err := Build(inst)
	require.NoError(t, err)

	n := 3
	// x + t + u + q
	assert.Len(t, f.Vars, (n+1)*n+(n+1)+n+n)

	st := f.Stats()
	assert.Equal(t, (n+1)*n, st.Binary)
	assert.Equal(t, (n+1)+n+n, st.Continuous)
	assert.Zero(t, st.PrunedArcs)
	assert.Equal(t, n, st.Groups[GroupVisitIn])
	assert.Equal(t, n, st.Groups[GroupVisitOut])
	assert.Equal(t, 3, st.Groups[GroupDepot])
	assert.Equal(t, n*n, st.Groups[GroupTime])
	assert.Equal(t, n, st.Groups[GroupReturn])
	assert.Equal(t, n*(n-1), st.Groups[GroupMTZ])
	assert.Equal(t, n*(n-1), st.Groups[GroupLoad])
	assert.Equal(t, len(f.Rows), st.Constraints)
	assert.Equal(t, DifficultyEasy, st.Difficulty)
}

func TestBuildVariables(t *testing.T) {
	inst := lineInstance(t, 2, 1, 10)
	inst.Depot.TimeWindow.Earliest = 5
	inst.Customers[1].Demand = 4
	f, err := Build(inst)
	require.NoError(t, err)

	x := f.Vars[f.ArcIndex(0, 2)]
	assert.Equal(t, "x_0_2", x.Name)
	assert.Equal(t, Binary, x.Type)
	assert.Equal(t, 1.0, x.Upper)
	assert.Equal(t, inst.Cost(0, 2), x.Cost)
	assert.Equal(t, -1, f.ArcIndex(1, 1))

	t0 := f.Vars[f.TimeIndex(0)]
	assert.Equal(t, 5.0, t0.Lower)
	assert.Equal(t, 5.0, t0.Upper)

	u := f.Vars[f.OrderIndex(2)]
	assert.Equal(t, 1.0, u.Lower)
	assert.Equal(t, 2.0, u.Upper)
	assert.Equal(t, -1, f.OrderIndex(0))

	q := f.Vars[f.LoadIndex(2)]
	assert.Equal(t, 4.0, q.Lower)
	assert.Equal(t, 10.0, q.Upper)
	assert.Equal(t, -1, f.LoadIndex(0))
}

func TestBuildBigM(t *testing.T) {
	inst := &Instance{
		Name:  "bigm",
		Depot: Depot{TimeWindow: TimeWindow{Earliest: 0, Latest: 100}},
		Fleet: Fleet{Vehicles: 1, Capacity: 10},
		Customers: []Customer{
			{ID: 1, Demand: 1, TimeWindow: TimeWindow{Earliest: 0, Latest: 50}, ServiceTime: 10},
			{ID: 2, Demand: 1, TimeWindow: TimeWindow{Earliest: 20, Latest: 80}},
		},
		CostMatrix: [][]float64{
			{0, 7, 9},
			{7, 0, 5},
			{9, 5, 0},
		},
	}
	f, err := Build(inst)
	require.NoError(t, err)

	assert.Equal(t, 45.0, f.BigM[1][2]) // 50 + 10 + 5 - 20
	assert.Equal(t, 85.0, f.BigM[2][1]) // 80 + 0 + 5 - 0
	assert.Equal(t, 0.0, f.BigM[0][2])  // t_0 is fixed at 0, 0 + 9 - 20 < 0
	assert.Equal(t, 7.0, f.BigM[0][1])  // 0 + 7 - 0
	assert.Equal(t, 0.0, f.BigM[1][0])  // 50 + 10 + 7 - 100 < 0
	assert.Equal(t, 0.0, f.BigM[2][0])  // 80 + 0 + 9 - 100 < 0

	var row *Constraint
	for k := range f.Rows {
		if f.Rows[k].Name == "time_1_2" {
			row = &f.Rows[k]
		}
	}
	require.NotNil(t, row)
	assert.Equal(t, []int{f.TimeIndex(2), f.TimeIndex(1), f.ArcIndex(1, 2)}, row.Ind)
	assert.Equal(t, []float64{1, -1, -45}, row.Val)
	assert.Equal(t, 10.0+5-45, row.Lower)
}

func TestBuildPrunesInfeasibleArcs(t *testing.T) {
	inst := lineInstance(t, 3, 3, 10)
	// 1 cannot be left before 110 and 2 closes at 50.
	inst.Customers[0].TimeWindow = TimeWindow{Earliest: 100, Latest: 120}
	inst.Customers[0].ServiceTime = 10
	inst.Customers[1].TimeWindow = TimeWindow{Earliest: 0, Latest: 50}
	// 2 and 3 together exceed the capacity.
	inst.Customers[1].Demand = 6
	inst.Customers[2].Demand = 6

	f, err := Build(inst)
	require.NoError(t, err)

	assert.True(t, f.Pruned[1][2])
	assert.Equal(t, 0.0, f.Vars[f.ArcIndex(1, 2)].Upper)
	assert.True(t, f.Pruned[2][3])
	assert.True(t, f.Pruned[3][2])
	assert.False(t, f.Pruned[2][1])
	assert.False(t, f.Pruned[0][1])
	assert.Equal(t, 3, f.Stats().PrunedArcs)

	for _, r := range f.Rows {
		assert.NotEqual(t, "mtz_1_2", r.Name)
		assert.NotEqual(t, "time_1_2", r.Name)
		assert.NotEqual(t, "load_2_3", r.Name)
	}
}

func TestBuildRejectsMalformedInstance(t *testing.T) {
	empty := &Instance{Name: "empty", Fleet: Fleet{Vehicles: 1, Capacity: 1}, CostMatrix: [][]float64{{0}}}
	_, err := Build(empty)
	assert.ErrorIs(t, err, ErrFormulation)

	short := lineInstance(t, 3, 1, 10)
	short.CostMatrix = short.CostMatrix[:3]
	_, err = Build(short)
	assert.ErrorIs(t, err, ErrFormulation)

	inverted := lineInstance(t, 2, 1, 10)
	inverted.Customers[1].TimeWindow = TimeWindow{Earliest: 10, Latest: 5}
	_, err = Build(inverted)
	assert.ErrorIs(t, err, ErrFormulation)

	negative := lineInstance(t, 2, 1, 10)
	negative.CostMatrix[1][2] = -1
	_, err = Build(negative)
	assert.ErrorIs(t, err, ErrFormulation)

	nan, inf := math.NaN(), math.Inf(1)
	for name, mutate := range map[string]func(*Instance){
		"earliest nan":    func(inst *Instance) { inst.Customers[0].TimeWindow.Earliest = nan },
		"latest inf":      func(inst *Instance) { inst.Customers[1].TimeWindow.Latest = inf },
		"service nan":     func(inst *Instance) { inst.Customers[0].ServiceTime = nan },
		"coordinate inf":  func(inst *Instance) { inst.Customers[1].Coordinates[0] = -inf },
		"depot nan":       func(inst *Instance) { inst.Depot.TimeWindow.Latest = nan },
		"depot coord nan": func(inst *Instance) { inst.Depot.Coordinates[1] = nan },
	} {
		inst := lineInstance(t, 2, 1, 10)
		mutate(inst)
		_, err := Build(inst)
		assert.ErrorIs(t, err, ErrFormulation, name)
	}
}

func TestCheckLimits(t *testing.T) {
	f, err := Build(lineInstance(t, 4, 2, 10))
	require.NoError(t, err)

	cfg := DefaultConfig()
	assert.NoError(t, f.CheckLimits(cfg))

	cfg.MaxVariables = 10
	assert.ErrorIs(t, f.CheckLimits(cfg), ErrInvalidParameter)

	cfg = DefaultConfig()
	cfg.MaxConstraints = 10
	assert.ErrorIs(t, f.CheckLimits(cfg), ErrInvalidParameter)
}

func TestStatsDifficulty(t *testing.T) {
	for _, tc := range []struct {
		n    int
		want string
	}{{14, DifficultyEasy}, {29, DifficultyMedium}, {30, DifficultyHard}} {
		f, err := Build(lineInstance(t, tc.n, 3, 100))
		require.NoError(t, err)
		assert.Equal(t, tc.want, f.Stats().Difficulty, "n=%d", tc.n)
	}
}

func TestArcMatrixRoundsValues(t *testing.T) {
	f, err := Build(lineInstance(t, 2, 1, 10))
	require.NoError(t, err)
	values := make([]float64, len(f.Vars))
	values[f.ArcIndex(0, 1)] = 0.9999
	values[f.ArcIndex(1, 2)] = 1
	values[f.ArcIndex(2, 0)] = 1e-7
	values[f.TimeIndex(2)] = 42

	arcs := f.ArcMatrix(values)
	assert.Equal(t, [][]int{{0, 1, 0}, {0, 0, 1}, {0, 0, 0}}, arcs)
	assert.Equal(t, 42.0, f.Times(values)[2])
}
