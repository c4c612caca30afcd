package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const analysesDDL = `
CREATE TABLE IF NOT EXISTS resume_analyses (
  id          CHAR(36) PRIMARY KEY,
  user_id     VARCHAR(128) NOT NULL,
  file_name   VARCHAR(255) NOT NULL DEFAULT 'Unknown',
  file_url    TEXT,
  job_title   VARCHAR(255) NULL,
  industry    VARCHAR(255) NULL,
  score       INT NOT NULL DEFAULT 0,
  analysis    TEXT,
  strengths   JSON,
  weaknesses  JSON,
  suggestions JSON,
  created_at  DATETIME(3) NOT NULL,
  INDEX idx_resume_analyses_user (user_id)
);`
	const profilesDDL = `
CREATE TABLE IF NOT EXISTS user_profiles (
  uid       VARCHAR(128) PRIMARY KEY,
  full_name VARCHAR(255) NOT NULL DEFAULT ''
);`
	if _, err := db.ExecContext(ctx, analysesDDL); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, profilesDDL)
	return err
}
