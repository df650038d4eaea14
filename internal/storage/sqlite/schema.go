package sqlite

// schemaVersion is bumped whenever the schema below changes shape
const schemaVersion = "1"

// schema is applied on every open; all statements are idempotent
const schema = `
CREATE TABLE IF NOT EXISTS scenarios (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	industry TEXT NOT NULL,
	notes TEXT,
	inputs TEXT NOT NULL,       -- FinancialInputs JSON
	assumptions TEXT NOT NULL,  -- Assumptions JSON
	projection TEXT,            -- Projection JSON, NULL until computed
	simulation TEXT,            -- SimulationResult JSON, NULL unless simulated
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scenarios_industry ON scenarios(industry);
CREATE INDEX IF NOT EXISTS idx_scenarios_created ON scenarios(created_at);

CREATE TABLE IF NOT EXISTS templates (
	name TEXT PRIMARY KEY,
	description TEXT,
	assumptions TEXT NOT NULL,  -- Assumptions JSON
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS config (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`
