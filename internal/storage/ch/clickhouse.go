package ch

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"coursebot/internal/models"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// ProgressLogDB appends progress rows to a ClickHouse MergeTree table
type ProgressLogDB struct {
	conn clickhouse.Conn
}

// NewProgressLogDB creates a new ClickHouse connection for the progress log
func NewProgressLogDB(host string, port int, database, user, password string, useTLS bool) (*ProgressLogDB, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
		DialTimeout: 10 * time.Second,
	}

	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ProgressLogDB{conn: conn}, nil
}

// AppendRow inserts one progress row. The table is managed via migrations.
func (db *ProgressLogDB) AppendRow(ctx context.Context, entry models.ProgressEntry) error {
	loggedAt := entry.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = time.Now().UTC()
	}

	err := db.conn.Exec(ctx, `INSERT INTO progress_log (logged_at, user_id, course, progress) VALUES (?, ?, ?, ?)`,
		loggedAt, entry.UserID, entry.Course, entry.Status)
	if err != nil {
		return fmt.Errorf("failed to append progress row: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *ProgressLogDB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
