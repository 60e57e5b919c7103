package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"streamgate/pkg/sentinel"
)

// PostgresStore persists sessions in PostgreSQL.
//
// Insert is guarded by a count predicate evaluated inside the statement, so
// the per-user cap survives concurrent admissions across multiple processes
// sharing one database. The in-process Gate serialization handles the single
// process case; this is the storage-level backstop.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, sess *Session) error {
	query := `
		INSERT INTO sessions (id, user_id, fingerprint_id, device_platform, device_browser, device_screen,
			ip_address, user_agent, active, created_at, last_activity)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9, $9
		WHERE (SELECT COUNT(*) FROM sessions WHERE user_id = $2 AND active) < $10
	`
	res, err := s.db.ExecContext(ctx, query,
		sess.ID, sess.UserID, sess.Fingerprint,
		sess.Device.Platform, sess.Device.Browser, sess.Device.Screen,
		sess.IPAddress, sess.UserAgent, sess.CreatedAt, MaxActiveSessions,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert session rows affected: %w", err)
	}
	if rows == 0 {
		return ErrCapConflict
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Session, error) {
	query := selectColumns + ` WHERE id = $1`
	sess, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find session by id: %w", err)
	}
	return sess, nil
}

func (s *PostgresStore) FindActiveByUser(ctx context.Context, userID string) ([]*Session, error) {
	query := selectColumns + ` WHERE user_id = $1 AND active ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("find active sessions: %w", err)
	}
	defer rows.Close()

	var out []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Touch(ctx context.Context, id string, at time.Time) error {
	// Touching a missing or inactive session is a no-op by contract, so the
	// affected-row count is deliberately not checked.
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET last_activity = $2 WHERE id = $1 AND active`, id, at)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Deactivate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate session rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeactivateIdleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET active = FALSE WHERE active AND last_activity < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deactivate idle sessions: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deactivate idle rows affected: %w", err)
	}
	return rows, nil
}

const selectColumns = `
	SELECT id, user_id, fingerprint_id, device_platform, device_browser, device_screen,
		ip_address, user_agent, active, created_at, last_activity
	FROM sessions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var sess Session
	err := row.Scan(
		&sess.ID, &sess.UserID, &sess.Fingerprint,
		&sess.Device.Platform, &sess.Device.Browser, &sess.Device.Screen,
		&sess.IPAddress, &sess.UserAgent, &sess.Active,
		&sess.CreatedAt, &sess.LastActivity,
	)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}
