package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/RichardoC/advisory-board/internal/models"
	"github.com/RichardoC/advisory-board/internal/session"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Database is a session.Store backed by SQLite.
type Database struct {
	db  *sql.DB
	now func() time.Time
}

var _ session.Store = (*Database)(nil)

func New(ctx context.Context, dsn string) (*Database, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Database{db: db, now: time.Now}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	dir, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, dir)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func (db *Database) Close() error {
	return db.db.Close()
}

func (db *Database) Create(ctx context.Context) (*models.Session, error) {
	now := db.now().UTC()
	s := &models.Session{ID: session.NewID(), CreatedAt: now, LastActiveAt: now}

	_, err := db.db.ExecContext(ctx, `
        INSERT INTO sessions (id, created_at, last_active_at)
        VALUES (?, ?, ?)`, s.ID, s.CreatedAt, s.LastActiveAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return s, nil
}

func (db *Database) Append(ctx context.Context, msg *models.Message) error {
	if !msg.Role.Valid() {
		return fmt.Errorf("append to session %s: invalid role %q", msg.SessionID, msg.Role)
	}

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := db.now().UTC()
	result, err := tx.ExecContext(ctx,
		"UPDATE sessions SET last_active_at = ? WHERE id = ?", now, msg.SessionID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return session.ErrNotFound
	}

	query := `
        INSERT INTO messages (session_id, role, content, created_at)
        VALUES (?, ?, ?, ?)
        RETURNING id`
	if err := tx.QueryRowContext(ctx, query, msg.SessionID, string(msg.Role), msg.Content, now).
		Scan(&msg.ID); err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	msg.CreatedAt = now

	return tx.Commit()
}

func (db *Database) Messages(ctx context.Context, sessionID string) ([]models.Message, error) {
	if err := db.exists(ctx, sessionID); err != nil {
		return nil, err
	}

	rows, err := db.db.QueryContext(ctx, `
        SELECT id, session_id, role, content, created_at
        FROM messages
        WHERE session_id = ?
        ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		var role string
		if err := rows.Scan(&msg.ID, &msg.SessionID, &role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if msg.Role, err = models.ParseRole(role); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (db *Database) exists(ctx context.Context, sessionID string) error {
	var one int
	err := db.db.QueryRowContext(ctx, "SELECT 1 FROM sessions WHERE id = ?", sessionID).Scan(&one)
	if err == sql.ErrNoRows {
		return session.ErrNotFound
	}
	return err
}

func (db *Database) End(ctx context.Context, sessionID string) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE session_id = ?", sessionID); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return session.ErrNotFound
	}

	return tx.Commit()
}

func (db *Database) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	cutoff = cutoff.UTC()
	if _, err := tx.ExecContext(ctx, `
        DELETE FROM messages
        WHERE session_id IN (SELECT id FROM sessions WHERE last_active_at < ?)`, cutoff); err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE last_active_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(n), tx.Commit()
}
