package repo

const postgresSchema = `
CREATE TABLE IF NOT EXISTS assessments (
	id                      SERIAL PRIMARY KEY,
	patent_id               TEXT NOT NULL,
	company_name            TEXT NOT NULL,
	analysis_date           TIMESTAMPTZ NOT NULL,
	top_infringing_products JSONB NOT NULL,
	overall_risk_assessment TEXT NOT NULL,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS test_logs (
	id         SERIAL PRIMARY KEY,
	log        TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Timestamps are stored as RFC 3339 text; SQLite has no native time type
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS assessments (
	id                      INTEGER PRIMARY KEY AUTOINCREMENT,
	patent_id               TEXT NOT NULL,
	company_name            TEXT NOT NULL,
	analysis_date           TEXT NOT NULL,
	top_infringing_products TEXT NOT NULL,
	overall_risk_assessment TEXT NOT NULL,
	created_at              TEXT NOT NULL,
	updated_at              TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS test_logs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	log        TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`
