package db

import (
	"database/sql"
	"fmt"

	"mixfm/config"
	"mixfm/logger"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Successfully connected to the database")
	return nil
}

// InitDB creates the track and tag tables if they don't exist.
// Playlist tables are managed separately through GORM automigration.
func InitDB() error {
	if err := createTracksTable(); err != nil {
		return err
	}
	if err := createTagsTable(); err != nil {
		return err
	}
	if err := createTrackTagsTable(); err != nil {
		return err
	}

	logger.Info("Database initialization completed")
	return nil
}

func createTracksTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS tracks (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		file_path VARCHAR(767) NOT NULL,
		cover_path VARCHAR(767),
		duration FLOAT,
		times_selected INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create tracks table: %w", err)
	}
	return nil
}

func createTagsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS tags (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create tags table: %w", err)
	}
	return nil
}

func createTrackTagsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS track_tags (
		track_id BIGINT NOT NULL,
		tag_id BIGINT NOT NULL,
		PRIMARY KEY (track_id, tag_id),
		CONSTRAINT fk_track_tags_track FOREIGN KEY (track_id) REFERENCES tracks(id) ON DELETE CASCADE,
		CONSTRAINT fk_track_tags_tag FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create track_tags table: %w", err)
	}
	return nil
}
