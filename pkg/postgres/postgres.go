package postgres

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/WB_L3/editor/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{"host": cfg.Host, "dbname": cfg.DBName}).Info("Successfully connected to PostgreSQL")
	return db, nil
}

// Migrations are applied in order and are safe to run on every start.
var Migrations = []string{
	`CREATE TABLE IF NOT EXISTS assets (
		id UUID PRIMARY KEY,
		type VARCHAR(16) NOT NULL,
		original_path TEXT NOT NULL,
		width INTEGER,
		height INTEGER,
		live_photo_video_id UUID,
		projection_type VARCHAR(32),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS asset_edit (
		asset_id UUID NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
		action VARCHAR(16) NOT NULL,
		parameters JSONB NOT NULL,
		"index" INTEGER NOT NULL CHECK ("index" >= 0),
		PRIMARY KEY (asset_id, "index")
	)`,

	`CREATE TABLE IF NOT EXISTS asset_face (
		id UUID PRIMARY KEY,
		asset_id UUID NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
		image_width INTEGER NOT NULL,
		image_height INTEGER NOT NULL,
		x1 INTEGER NOT NULL,
		y1 INTEGER NOT NULL,
		x2 INTEGER NOT NULL,
		y2 INTEGER NOT NULL,
		score REAL NOT NULL DEFAULT 0,
		is_visible BOOLEAN NOT NULL DEFAULT TRUE
	)`,

	`CREATE TABLE IF NOT EXISTS asset_ocr (
		id UUID PRIMARY KEY,
		asset_id UUID NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
		x1 REAL NOT NULL, y1 REAL NOT NULL,
		x2 REAL NOT NULL, y2 REAL NOT NULL,
		x3 REAL NOT NULL, y3 REAL NOT NULL,
		x4 REAL NOT NULL, y4 REAL NOT NULL,
		text TEXT NOT NULL,
		box_score REAL NOT NULL DEFAULT 0,
		is_visible BOOLEAN NOT NULL DEFAULT TRUE
	)`,

	// Indexes
	`CREATE INDEX IF NOT EXISTS idx_asset_face_asset_id ON asset_face(asset_id)`,
	`CREATE INDEX IF NOT EXISTS idx_asset_ocr_asset_id ON asset_ocr(asset_id)`,
}

func RunMigrations(db *sql.DB) error {
	for _, migration := range Migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}
