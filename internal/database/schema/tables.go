// Package schema holds the table definitions of the template store.
package schema

// TableDefinitions are applied in order on startup and must stay idempotent
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS templates (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		html_body TEXT NOT NULL,
		document JSONB,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_templates_name ON templates(name)`,
	`CREATE INDEX IF NOT EXISTS idx_templates_updated_at ON templates(updated_at DESC)`,
}

// TableNames lists the tables in creation order
var TableNames = []string{
	"templates",
}
