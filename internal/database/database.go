package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/bigsparsh/inventraX/internal/config"
	"github.com/bigsparsh/inventraX/internal/repositories"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

// Open establishes a connection pool using the supplied configuration. The
// pool is verified with a ping bounded by the configured connect timeout.
func Open(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	log.Info().Str("host", cfg.Host).Str("dbname", cfg.DBName).Msg("Successfully connected to the database")
	return db, nil
}

// ApplySchema reads and executes the schema file at schemaPath. An empty path
// skips schema application.
func ApplySchema(db *sql.DB, schemaPath string) error {
	if schemaPath == "" {
		log.Info().Msg("No schema path provided, skipping schema application")
		return nil
	}
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
	}
	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	log.Info().Str("path", schemaPath).Msg("Database schema applied successfully")
	return nil
}

// loggingExecutor wraps an SQLExecutor and emits a debug log line with the
// statement text and elapsed time for every call.
type loggingExecutor struct {
	inner repositories.SQLExecutor
}

// NewLoggingExecutor wraps exec so every statement it runs is logged at debug
// level with its duration.
func NewLoggingExecutor(exec repositories.SQLExecutor) repositories.SQLExecutor {
	return &loggingExecutor{inner: exec}
}

func (e *loggingExecutor) Exec(query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := e.inner.Exec(query, args...)
	logStatement("exec", query, start, err)
	return res, err
}

func (e *loggingExecutor) QueryRow(query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := e.inner.QueryRow(query, args...)
	logStatement("query_row", query, start, nil)
	return row
}

func (e *loggingExecutor) Query(query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := e.inner.Query(query, args...)
	logStatement("query", query, start, err)
	return rows, err
}

func logStatement(kind, query string, start time.Time, err error) {
	evt := log.Debug().Str("kind", kind).Str("statement", query).Dur("duration", time.Since(start))
	if err != nil {
		evt = evt.Err(err)
	}
	evt.Msg("SQL statement executed")
}
