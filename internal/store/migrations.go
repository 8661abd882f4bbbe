package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Exports table - one row per explicit export
		`CREATE TABLE IF NOT EXISTS exports (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL CHECK(kind IN ('sentence', 'log')),
			path TEXT NOT NULL,
			sentence TEXT NOT NULL DEFAULT '',
			entries INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Export letters table - accepted letters included in a log export
		`CREATE TABLE IF NOT EXISTS export_letters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			export_id TEXT NOT NULL REFERENCES exports(id) ON DELETE CASCADE,
			sequence INTEGER NOT NULL,
			timestamp_iso TEXT NOT NULL,
			letter TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_export_letters_export_id ON export_letters(export_id)`,
		`CREATE INDEX IF NOT EXISTS idx_exports_created_at ON exports(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
