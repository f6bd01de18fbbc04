package db

// SchemaSQL is the complete schema for fresh installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All
// repository tests load it via GetSchemaSQL() so test schemas cannot drift
// from production: if repository code references a column that does not
// exist here, tests fail immediately with "no such column".
//
// When changing the schema, add a migration in migrations.go and update
// SchemaSQL to match the end state.
const SchemaSQL = `
-- Equipment directory (existence validation for task creation)
CREATE TABLE IF NOT EXISTS equipment (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	department_id TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Maintenance tasks (the core ledger)
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	equipment_id TEXT NOT NULL,
	category_id TEXT,
	area_id TEXT,
	line_id TEXT,
	task_template_id TEXT,
	title TEXT,
	description TEXT,
	type TEXT CHECK(type IN ('predictive', 'corrective', 'conditional')),
	priority TEXT CHECK(priority IN ('low', 'medium', 'high', 'critical')),
	status TEXT NOT NULL CHECK(status IN ('scheduled', 'in-progress', 'completed', 'cancelled', 'partial')) DEFAULT 'scheduled',
	scheduled_date TEXT NOT NULL,
	completion_date TEXT,
	frequency TEXT CHECK(frequency IN ('none', 'weekly', 'monthly', 'yearly', 'custom')) DEFAULT 'none',
	custom_days INTEGER,
	estimated_duration REAL,
	actual_duration REAL,
	notes TEXT,
	assigned_to TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (equipment_id) REFERENCES equipment(id)
);

CREATE INDEX IF NOT EXISTS idx_tasks_equipment ON tasks(equipment_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_scheduled_date ON tasks(scheduled_date);
`

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
