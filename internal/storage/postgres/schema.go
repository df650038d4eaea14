package postgres

// schema is applied on every connect; all statements are idempotent
const schema = `
CREATE TABLE IF NOT EXISTS scenarios (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	industry TEXT NOT NULL,
	notes TEXT,
	inputs JSONB NOT NULL,
	assumptions JSONB NOT NULL,
	projection JSONB,
	simulation JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scenarios_industry ON scenarios(industry);
CREATE INDEX IF NOT EXISTS idx_scenarios_created ON scenarios(created_at);

CREATE TABLE IF NOT EXISTS templates (
	name TEXT PRIMARY KEY,
	description TEXT,
	assumptions JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS config (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`
