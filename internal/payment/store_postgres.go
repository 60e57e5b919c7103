package payment

import (
	"context"
	"database/sql"
	"fmt"

	"streamgate/pkg/sentinel"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, r *Record) error {
	query := `
		INSERT INTO payments (id, user_id, provider_ref, amount_cents, currency, status, plan, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (provider_ref) DO UPDATE SET
			status = EXCLUDED.status,
			amount_cents = EXCLUDED.amount_cents,
			currency = EXCLUDED.currency,
			plan = EXCLUDED.plan,
			received_at = EXCLUDED.received_at
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.UserID, r.ProviderRef, r.AmountCents, r.Currency, r.Status, r.Plan, r.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert payment: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, provider_ref, amount_cents, currency, status, plan, received_at
		 FROM payments ORDER BY received_at`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.UserID, &r.ProviderRef, &r.AmountCents, &r.Currency, &r.Status, &r.Plan, &r.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindByProviderRef(ctx context.Context, ref string) (*Record, error) {
	var r Record
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, provider_ref, amount_cents, currency, status, plan, received_at
		 FROM payments WHERE provider_ref = $1`, ref,
	).Scan(&r.ID, &r.UserID, &r.ProviderRef, &r.AmountCents, &r.Currency, &r.Status, &r.Plan, &r.ReceivedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &r, nil
}
