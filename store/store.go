package store

import (
	"context"
	"errors"

	"github.com/MarcoClaps/vrptw"
)

// ErrNotFound is returned for unknown instance or solution ids.
var ErrNotFound = errors.New("not found")

// Store archives instances and the solutions computed for them.
type Store interface {
	SaveInstance(ctx context.Context, inst *vrptw.Instance) (id string, err error)
	GetInstance(ctx context.Context, id string) (*vrptw.Instance, error)
	SaveSolution(ctx context.Context, instanceID string, sol *vrptw.Solution) error
	GetSolution(ctx context.Context, id string) (*vrptw.Solution, error)
	// ListSolutions returns the solutions of one instance, oldest first.
	ListSolutions(ctx context.Context, instanceID string) ([]*vrptw.Solution, error)
	Close() error
}
