package migrations

import "gorm.io/gorm"

// migration002Up creates the core tables
func migration002Up(db *gorm.DB) error {
	if err := db.Exec(`
        CREATE TABLE IF NOT EXISTS venues (
            id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
            name VARCHAR(100) NOT NULL,
            address VARCHAR(200) NOT NULL,
            city VARCHAR(100) NOT NULL,
            state VARCHAR(50) NOT NULL,
            zip_code VARCHAR(10) NOT NULL,
            capacity INTEGER,
            description TEXT,
            contact_email VARCHAR(255) NOT NULL,
            contact_phone VARCHAR(30),
            image_url TEXT,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            ticketmaster_id VARCHAR(64),
            event_source_url TEXT,
            auto_import_enabled BOOLEAN NOT NULL DEFAULT FALSE,
            last_import_date TIMESTAMP WITH TIME ZONE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )
    `).Error; err != nil {
		return err
	}

	if err := db.Exec(`
        CREATE TABLE IF NOT EXISTS djs (
            id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
            name VARCHAR(100) NOT NULL,
            email VARCHAR(255) NOT NULL UNIQUE,
            genres TEXT[] NOT NULL,
            bio VARCHAR(500),
            phone VARCHAR(30),
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            rating NUMERIC(2,1),
            image_url TEXT,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )
    `).Error; err != nil {
		return err
	}

	if err := db.Exec(`
        CREATE TABLE IF NOT EXISTS events (
            id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
            name VARCHAR(200) NOT NULL,
            venue_id UUID NOT NULL REFERENCES venues(id),
            date DATE NOT NULL,
            start_time VARCHAR(5) NOT NULL,
            end_time VARCHAR(5) NOT NULL,
            description VARCHAR(1000),
            status event_status NOT NULL DEFAULT 'draft',
            image_url TEXT,
            ticket_url TEXT,
            external_source event_source NOT NULL DEFAULT 'manual',
            external_ids JSONB NOT NULL DEFAULT '{}',
            external_url TEXT,
            last_synced_at TIMESTAMP WITH TIME ZONE,
            ticketmaster JSONB,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )
    `).Error; err != nil {
		return err
	}

	if err := db.Exec(`
        CREATE TABLE IF NOT EXISTS run_of_shows (
            id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
            event_id UUID NOT NULL UNIQUE REFERENCES events(id) ON DELETE CASCADE,
            time_slots JSONB NOT NULL DEFAULT '[]',
            version BIGINT NOT NULL DEFAULT 1,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )
    `).Error; err != nil {
		return err
	}

	if err := db.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
            email VARCHAR(255) NOT NULL UNIQUE,
            role user_role NOT NULL DEFAULT 'dj',
            dj_id UUID REFERENCES djs(id),
            name VARCHAR(100),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )
    `).Error; err != nil {
		return err
	}

	return nil
}

// migration002Down drops the core tables
func migration002Down(db *gorm.DB) error {
	for _, table := range []string{"users", "run_of_shows", "events", "djs", "venues"} {
		if err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
			return err
		}
	}
	return nil
}
