// Package postgres implements scenario storage on PostgreSQL for shared,
// multi-user deployments. The SQLite backend remains the default for
// single-machine use.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roitools/roical/internal/types"
)

// PostgresStorage implements the Storage interface using PostgreSQL
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL storage backend from a connection URL
func New(ctx context.Context, url string) (*PostgresStorage, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &PostgresStorage{pool: pool}, nil
}

// SaveScenario inserts or replaces a scenario by ID
func (p *PostgresStorage) SaveScenario(ctx context.Context, scenario *types.Scenario) error {
	if err := scenario.Validate(); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}

	inputs, err := json.Marshal(scenario.Inputs)
	if err != nil {
		return fmt.Errorf("failed to marshal inputs: %w", err)
	}
	assumptions, err := json.Marshal(scenario.Assumptions)
	if err != nil {
		return fmt.Errorf("failed to marshal assumptions: %w", err)
	}

	var projection, simulation []byte
	if scenario.Projection != nil {
		if projection, err = json.Marshal(scenario.Projection); err != nil {
			return fmt.Errorf("failed to marshal projection: %w", err)
		}
	}
	if scenario.Simulation != nil {
		if simulation, err = json.Marshal(scenario.Simulation); err != nil {
			return fmt.Errorf("failed to marshal simulation: %w", err)
		}
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO scenarios (id, name, industry, notes, inputs, assumptions, projection, simulation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			industry = EXCLUDED.industry,
			notes = EXCLUDED.notes,
			inputs = EXCLUDED.inputs,
			assumptions = EXCLUDED.assumptions,
			projection = EXCLUDED.projection,
			simulation = EXCLUDED.simulation,
			updated_at = EXCLUDED.updated_at
	`, scenario.ID, scenario.Name, string(scenario.Industry), scenario.Notes,
		inputs, assumptions, projection, simulation,
		scenario.CreatedAt, scenario.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save scenario: %w", err)
	}
	return nil
}

// GetScenario retrieves a scenario by ID
func (p *PostgresStorage) GetScenario(ctx context.Context, id string) (*types.Scenario, error) {
	return p.getScenarioWhere(ctx, "id = $1", id)
}

// GetScenarioByName retrieves a scenario by its unique name
func (p *PostgresStorage) GetScenarioByName(ctx context.Context, name string) (*types.Scenario, error) {
	return p.getScenarioWhere(ctx, "name = $1", name)
}

func (p *PostgresStorage) getScenarioWhere(ctx context.Context, where string, arg interface{}) (*types.Scenario, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, name, industry, notes, inputs, assumptions, projection, simulation, created_at, updated_at
		FROM scenarios WHERE `+where, arg)

	scenario, err := scanScenario(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("scenario not found: %v", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}
	return scenario, nil
}

// ListScenarios returns scenarios newest first, optionally filtered
func (p *PostgresStorage) ListScenarios(ctx context.Context, filter types.ScenarioFilter) ([]*types.Scenario, error) {
	query := `
		SELECT id, name, industry, notes, inputs, assumptions, projection, simulation, created_at, updated_at
		FROM scenarios`
	var args []interface{}

	if filter.Industry != "" {
		query += " WHERE industry = $1"
		args = append(args, string(filter.Industry))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, filter.Limit)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []*types.Scenario
	for rows.Next() {
		scenario, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, rows.Err()
}

// DeleteScenario removes a scenario by ID
func (p *PostgresStorage) DeleteScenario(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, "DELETE FROM scenarios WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("scenario not found: %s", id)
	}
	return nil
}

// SaveTemplate inserts or replaces an assumption template by name
func (p *PostgresStorage) SaveTemplate(ctx context.Context, template *types.Template) error {
	if err := template.Validate(); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	assumptions, err := json.Marshal(template.Assumptions)
	if err != nil {
		return fmt.Errorf("failed to marshal assumptions: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO templates (name, description, assumptions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			description = EXCLUDED.description,
			assumptions = EXCLUDED.assumptions,
			updated_at = EXCLUDED.updated_at
	`, template.Name, template.Description, assumptions,
		template.CreatedAt, template.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	return nil
}

// GetTemplate retrieves a template by name
func (p *PostgresStorage) GetTemplate(ctx context.Context, name string) (*types.Template, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT name, description, assumptions, created_at, updated_at
		FROM templates WHERE name = $1`, name)

	template, err := scanTemplate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("template not found: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return template, nil
}

// ListTemplates returns all templates ordered by name
func (p *PostgresStorage) ListTemplates(ctx context.Context) ([]*types.Template, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT name, description, assumptions, created_at, updated_at
		FROM templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []*types.Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, template)
	}
	return templates, rows.Err()
}

// DeleteTemplate removes a template by name
func (p *PostgresStorage) DeleteTemplate(ctx context.Context, name string) error {
	tag, err := p.pool.Exec(ctx, "DELETE FROM templates WHERE name = $1", name)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("template not found: %s", name)
	}
	return nil
}

// GetConfig retrieves a config value by key
func (p *PostgresStorage) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := p.pool.QueryRow(ctx, "SELECT value FROM config WHERE key = $1", key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get config %s: %w", key, err)
	}
	return value, nil
}

// SetConfig stores a config key/value pair
func (p *PostgresStorage) SetConfig(ctx context.Context, key, value string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO config (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

// Close closes the connection pool
func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanScenario(row scanner) (*types.Scenario, error) {
	var (
		scenario               types.Scenario
		industry               string
		notes                  *string
		inputs, assumptions    []byte
		projection, simulation []byte
	)

	if err := row.Scan(&scenario.ID, &scenario.Name, &industry, &notes,
		&inputs, &assumptions, &projection, &simulation,
		&scenario.CreatedAt, &scenario.UpdatedAt); err != nil {
		return nil, err
	}

	scenario.Industry = types.Industry(industry)
	if notes != nil {
		scenario.Notes = *notes
	}

	if err := json.Unmarshal(inputs, &scenario.Inputs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inputs: %w", err)
	}
	if err := json.Unmarshal(assumptions, &scenario.Assumptions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assumptions: %w", err)
	}
	if len(projection) > 0 {
		scenario.Projection = &types.Projection{}
		if err := json.Unmarshal(projection, scenario.Projection); err != nil {
			return nil, fmt.Errorf("failed to unmarshal projection: %w", err)
		}
	}
	if len(simulation) > 0 {
		scenario.Simulation = &types.SimulationResult{}
		if err := json.Unmarshal(simulation, scenario.Simulation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal simulation: %w", err)
		}
	}

	return &scenario, nil
}

func scanTemplate(row scanner) (*types.Template, error) {
	var (
		template    types.Template
		description *string
		assumptions []byte
	)

	if err := row.Scan(&template.Name, &description, &assumptions,
		&template.CreatedAt, &template.UpdatedAt); err != nil {
		return nil, err
	}

	if description != nil {
		template.Description = *description
	}
	if err := json.Unmarshal(assumptions, &template.Assumptions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assumptions: %w", err)
	}
	return &template, nil
}
