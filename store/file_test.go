package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcoClaps/vrptw"
)

func sampleInstance(t *testing.T) *vrptw.Instance {
	t.Helper()
	p := vrptw.DefaultGenParams(vrptw.DefaultConfig())
	p.Customers = 4
	inst, err := vrptw.Generate(p, vrptw.DefaultConfig())
	require.NoError(t, err)
	return inst
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	inst := sampleInstance(t)
	id, err := s.SaveInstance(ctx, inst)
	require.NoError(t, err)

	got, err := s.GetInstance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, inst, got)

	sol := &vrptw.Solution{
		Name:      inst.Name,
		Status:    vrptw.StatusOptimal,
		Objective: 123.45,
		TotalCost: 123.45,
		Routes:    []vrptw.Route{{Vehicle: 1, Stops: []vrptw.Stop{{Customer: 1, Arrival: 10, Start: 12, Load: 3}}}},
	}
	require.NoError(t, s.SaveSolution(ctx, id, sol))
	require.NotEmpty(t, sol.ID)

	gotSol, err := s.GetSolution(ctx, sol.ID)
	require.NoError(t, err)
	assert.Equal(t, sol, gotSol)

	list, err := s.ListSolutions(ctx, id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, sol.ID, list[0].ID)
}

func TestFileStoreYAML(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	s.Format = vrptw.FormatYAML

	inst := sampleInstance(t)
	id, err := s.SaveInstance(ctx, inst)
	require.NoError(t, err)
	got, err := s.GetInstance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, inst, got)
}

func TestFileStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.GetInstance(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetSolution(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetInstance(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.SaveSolution(ctx, uuid.NewString(), &vrptw.Solution{Status: vrptw.StatusInfeasible})
	assert.ErrorIs(t, err, ErrNotFound)
}
