// Package sqlite implements scenario storage on a local SQLite database
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/roitools/roical/internal/types"
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// New creates a new SQLite storage backend at path. The parent directory
// is created if missing; ":memory:" gives an in-memory database.
func New(path string) (*SQLiteStorage, error) {
	dsn := path
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		// WAL for concurrent readers while a write is in flight
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	if err := s.recordSchemaVersion(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLiteStorage) recordSchemaVersion() error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES ('schema_version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, schemaVersion)
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// SaveScenario inserts or replaces a scenario by ID
func (s *SQLiteStorage) SaveScenario(ctx context.Context, scenario *types.Scenario) error {
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

	projection, err := marshalNullable(scenario.Projection)
	if err != nil {
		return fmt.Errorf("failed to marshal projection: %w", err)
	}
	simulation, err := marshalNullable(scenario.Simulation)
	if err != nil {
		return fmt.Errorf("failed to marshal simulation: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scenarios (id, name, industry, notes, inputs, assumptions, projection, simulation, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			industry = excluded.industry,
			notes = excluded.notes,
			inputs = excluded.inputs,
			assumptions = excluded.assumptions,
			projection = excluded.projection,
			simulation = excluded.simulation,
			updated_at = excluded.updated_at
	`, scenario.ID, scenario.Name, string(scenario.Industry), scenario.Notes,
		string(inputs), string(assumptions), projection, simulation,
		scenario.CreatedAt, scenario.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save scenario: %w", err)
	}

	return nil
}

// GetScenario retrieves a scenario by ID
func (s *SQLiteStorage) GetScenario(ctx context.Context, id string) (*types.Scenario, error) {
	return s.getScenarioWhere(ctx, "id = ?", id)
}

// GetScenarioByName retrieves a scenario by its unique name
func (s *SQLiteStorage) GetScenarioByName(ctx context.Context, name string) (*types.Scenario, error) {
	return s.getScenarioWhere(ctx, "name = ?", name)
}

func (s *SQLiteStorage) getScenarioWhere(ctx context.Context, where string, arg interface{}) (*types.Scenario, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, industry, notes, inputs, assumptions, projection, simulation, created_at, updated_at
		FROM scenarios WHERE `+where, arg)

	scenario, err := scanScenario(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("scenario not found: %v", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}
	return scenario, nil
}

// ListScenarios returns scenarios newest first, optionally filtered
func (s *SQLiteStorage) ListScenarios(ctx context.Context, filter types.ScenarioFilter) ([]*types.Scenario, error) {
	query := `
		SELECT id, name, industry, notes, inputs, assumptions, projection, simulation, created_at, updated_at
		FROM scenarios`
	var args []interface{}

	if filter.Industry != "" {
		query += " WHERE industry = ?"
		args = append(args, string(filter.Industry))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
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
func (s *SQLiteStorage) DeleteScenario(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("scenario not found: %s", id)
	}
	return nil
}

// SaveTemplate inserts or replaces an assumption template by name
func (s *SQLiteStorage) SaveTemplate(ctx context.Context, template *types.Template) error {
	if err := template.Validate(); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	assumptions, err := json.Marshal(template.Assumptions)
	if err != nil {
		return fmt.Errorf("failed to marshal assumptions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO templates (name, description, assumptions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			assumptions = excluded.assumptions,
			updated_at = excluded.updated_at
	`, template.Name, template.Description, string(assumptions),
		template.CreatedAt, template.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	return nil
}

// GetTemplate retrieves a template by name
func (s *SQLiteStorage) GetTemplate(ctx context.Context, name string) (*types.Template, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, description, assumptions, created_at, updated_at
		FROM templates WHERE name = ?`, name)

	template, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("template not found: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return template, nil
}

// ListTemplates returns all templates ordered by name
func (s *SQLiteStorage) ListTemplates(ctx context.Context) ([]*types.Template, error) {
	rows, err := s.db.QueryContext(ctx, `
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
func (s *SQLiteStorage) DeleteTemplate(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM templates WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("template not found: %s", name)
	}
	return nil
}

// GetConfig retrieves a config value by key
func (s *SQLiteStorage) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get config %s: %w", key, err)
	}
	return value, nil
}

// SetConfig stores a config key/value pair
func (s *SQLiteStorage) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanScenario(row scanner) (*types.Scenario, error) {
	var (
		scenario               types.Scenario
		industry               string
		notes                  sql.NullString
		inputs, assumptions    string
		projection, simulation sql.NullString
		createdAt, updatedAt   time.Time
	)

	if err := row.Scan(&scenario.ID, &scenario.Name, &industry, &notes,
		&inputs, &assumptions, &projection, &simulation, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	scenario.Industry = types.Industry(industry)
	scenario.Notes = notes.String
	scenario.CreatedAt = createdAt
	scenario.UpdatedAt = updatedAt

	if err := json.Unmarshal([]byte(inputs), &scenario.Inputs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inputs: %w", err)
	}
	if err := json.Unmarshal([]byte(assumptions), &scenario.Assumptions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assumptions: %w", err)
	}
	if projection.Valid && projection.String != "" {
		scenario.Projection = &types.Projection{}
		if err := json.Unmarshal([]byte(projection.String), scenario.Projection); err != nil {
			return nil, fmt.Errorf("failed to unmarshal projection: %w", err)
		}
	}
	if simulation.Valid && simulation.String != "" {
		scenario.Simulation = &types.SimulationResult{}
		if err := json.Unmarshal([]byte(simulation.String), scenario.Simulation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal simulation: %w", err)
		}
	}

	return &scenario, nil
}

func scanTemplate(row scanner) (*types.Template, error) {
	var (
		template             types.Template
		description          sql.NullString
		assumptions          string
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(&template.Name, &description, &assumptions, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	template.Description = description.String
	template.CreatedAt = createdAt
	template.UpdatedAt = updatedAt

	if err := json.Unmarshal([]byte(assumptions), &template.Assumptions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assumptions: %w", err)
	}
	return &template, nil
}

// marshalNullable marshals v to JSON, mapping nil pointers to SQL NULL
func marshalNullable(v interface{}) (sql.NullString, error) {
	switch val := v.(type) {
	case *types.Projection:
		if val == nil {
			return sql.NullString{}, nil
		}
	case *types.SimulationResult:
		if val == nil {
			return sql.NullString{}, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
