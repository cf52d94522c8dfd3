package migrations

import "gorm.io/gorm"

// migration003Up creates indexes for the common query paths
func migration003Up(db *gorm.DB) error {
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_venues_auto_import ON venues(auto_import_enabled, last_import_date)",
		"CREATE INDEX IF NOT EXISTS idx_venues_city_state ON venues(city, state)",
		"CREATE INDEX IF NOT EXISTS idx_events_venue_date ON events(venue_id, date)",
		"CREATE INDEX IF NOT EXISTS idx_events_status ON events(status)",
		"CREATE INDEX IF NOT EXISTS idx_events_external_source ON events(external_source)",
		"CREATE INDEX IF NOT EXISTS idx_events_tm_id ON events((external_ids->>'ticketmaster'))",
		"CREATE INDEX IF NOT EXISTS idx_ros_dj_assignments ON run_of_shows USING GIN (time_slots jsonb_path_ops)",
		"CREATE INDEX IF NOT EXISTS idx_users_dj_id ON users(dj_id)",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// migration003Down drops the indexes
func migration003Down(db *gorm.DB) error {
	statements := []string{
		"DROP INDEX IF EXISTS idx_users_dj_id",
		"DROP INDEX IF EXISTS idx_ros_dj_assignments",
		"DROP INDEX IF EXISTS idx_events_tm_id",
		"DROP INDEX IF EXISTS idx_events_external_source",
		"DROP INDEX IF EXISTS idx_events_status",
		"DROP INDEX IF EXISTS idx_events_venue_date",
		"DROP INDEX IF EXISTS idx_venues_city_state",
		"DROP INDEX IF EXISTS idx_venues_auto_import",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
