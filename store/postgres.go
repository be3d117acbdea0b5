package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MarcoClaps/vrptw"
)

// Postgres archives instances and solutions as JSONB documents.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("verify postgres connection: %w", err)
	}
	return &Postgres{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS vrptw_instances (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	customers  INTEGER NOT NULL,
	vehicles   INTEGER NOT NULL,
	capacity   INTEGER NOT NULL,
	data       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS vrptw_solutions (
	id          UUID PRIMARY KEY,
	instance_id UUID NOT NULL REFERENCES vrptw_instances(id) ON DELETE CASCADE,
	status      TEXT NOT NULL,
	objective   DOUBLE PRECISION NOT NULL,
	gap         DOUBLE PRECISION NOT NULL,
	data        JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS vrptw_solutions_instance_idx ON vrptw_solutions (instance_id, created_at);
`

// InitSchema creates the archive tables when missing.
func (p *Postgres) InitSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func (p *Postgres) SaveInstance(ctx context.Context, inst *vrptw.Instance) (string, error) {
	data, err := json.Marshal(inst)
	if err != nil {
		return "", err
	}
	id := uuid.New()
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO vrptw_instances (id, name, customers, vehicles, capacity, data) VALUES ($1,$2,$3,$4,$5,$6)`,
		id, inst.Name, len(inst.Customers), inst.Fleet.Vehicles, inst.Fleet.Capacity, data)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (p *Postgres) GetInstance(ctx context.Context, id string) (*vrptw.Instance, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var data []byte
	err := p.db.QueryRowContext(ctx, `SELECT data FROM vrptw_instances WHERE id=$1`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("instance %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	inst := &vrptw.Instance{}
	if err := json.Unmarshal(data, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func (p *Postgres) SaveSolution(ctx context.Context, instanceID string, sol *vrptw.Solution) error {
	if err := validID(instanceID); err != nil {
		return err
	}
	if sol.ID == "" {
		sol.ID = uuid.NewString()
	}
	data, err := json.Marshal(sol)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO vrptw_solutions (id, instance_id, status, objective, gap, data) VALUES ($1,$2,$3,$4,$5,$6)`,
		sol.ID, instanceID, string(sol.Status), sol.Objective, sol.Gap, data)
	return err
}

func (p *Postgres) GetSolution(ctx context.Context, id string) (*vrptw.Solution, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var data []byte
	err := p.db.QueryRowContext(ctx, `SELECT data FROM vrptw_solutions WHERE id=$1`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("solution %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	sol := &vrptw.Solution{}
	if err := json.Unmarshal(data, sol); err != nil {
		return nil, err
	}
	return sol, nil
}

func (p *Postgres) ListSolutions(ctx context.Context, instanceID string) ([]*vrptw.Solution, error) {
	if err := validID(instanceID); err != nil {
		return nil, err
	}
	rows, err := p.db.QueryContext(ctx, `SELECT data FROM vrptw_solutions WHERE instance_id=$1 ORDER BY created_at, id`, instanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*vrptw.Solution
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		sol := &vrptw.Solution{}
		if err := json.Unmarshal(data, sol); err != nil {
			return nil, err
		}
		out = append(out, sol)
	}
	return out, rows.Err()
}

func (p *Postgres) Close() error { return p.db.Close() }
