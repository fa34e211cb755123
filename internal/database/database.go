package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type PluginDB struct {
	ID          string    `json:"id"`
	Publisher   string    `json:"publisher"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Version     string    `json:"version"`
	EngineType  string    `json:"engineType"`
	Engines     string    `json:"engines"`
	FilePath    string    `json:"filePath"`
	SourceURL   string    `json:"sourceUrl"`
	DeployedAt  time.Time `json:"deployedAt"`
}

type Database struct {
	db *sql.DB
}

const pluginColumns = `id, publisher, name, display_name, version, engine_type, engines, file_path, source_url, deployed_at`

func New(dbPath string, autoMigrate bool) (*Database, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if autoMigrate {
		if err := createTables(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("database migration error: %w", err)
		}
	}

	return &Database{db: db}, nil
}

func createTables(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS plugins (
		id TEXT PRIMARY KEY,
		publisher TEXT NOT NULL,
		name TEXT NOT NULL,
		display_name TEXT,
		version TEXT NOT NULL,
		engine_type TEXT NOT NULL DEFAULT '',
		engines TEXT,
		file_path TEXT NOT NULL,
		source_url TEXT,
		deployed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_plugins_engine_type ON plugins(engine_type);
	CREATE INDEX IF NOT EXISTS idx_plugins_publisher ON plugins(publisher);
	`

	_, err := db.Exec(createTableSQL)
	return err
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) UpsertPlugin(p *PluginDB) error {
	query := `INSERT OR REPLACE INTO plugins (` + pluginColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := d.db.Exec(query,
		p.ID, p.Publisher, p.Name, p.DisplayName, p.Version, p.EngineType,
		p.Engines, p.FilePath, p.SourceURL, p.DeployedAt,
	)
	return err
}

// GetPluginByID returns nil, nil when no plugin has the given ID.
func (d *Database) GetPluginByID(id string) (*PluginDB, error) {
	query := `SELECT ` + pluginColumns + ` FROM plugins WHERE id = ?`

	p, err := scanPlugin(d.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (d *Database) GetAllPlugins() ([]PluginDB, error) {
	return d.queryPlugins(`SELECT `+pluginColumns+` FROM plugins ORDER BY deployed_at, id`)
}

func (d *Database) GetPluginsByEngineType(engineType string) ([]PluginDB, error) {
	return d.queryPlugins(`SELECT `+pluginColumns+` FROM plugins WHERE engine_type = ? ORDER BY deployed_at, id`, engineType)
}

func (d *Database) DeletePlugin(id string) (bool, error) {
	res, err := d.db.Exec(`DELETE FROM plugins WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *Database) CountPlugins() (int64, error) {
	var total int64
	err := d.db.QueryRow("SELECT COUNT(*) FROM plugins").Scan(&total)
	return total, err
}

func (d *Database) queryPlugins(query string, args ...any) ([]PluginDB, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plugins []PluginDB
	for rows.Next() {
		p, err := scanPlugin(rows)
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, *p)
	}
	return plugins, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlugin(s scanner) (*PluginDB, error) {
	var p PluginDB
	var displayName, engines, sourceURL sql.NullString
	err := s.Scan(
		&p.ID, &p.Publisher, &p.Name, &displayName, &p.Version, &p.EngineType,
		&engines, &p.FilePath, &sourceURL, &p.DeployedAt,
	)
	if err != nil {
		return nil, err
	}
	p.DisplayName = displayName.String
	p.Engines = engines.String
	p.SourceURL = sourceURL.String
	return &p, nil
}
