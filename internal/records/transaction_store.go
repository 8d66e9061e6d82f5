package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type TransactionStore struct {
	db *sql.DB
}

func NewTransactionStore(db *sql.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// Create inserts a transaction in its initial state.
func (s *TransactionStore) Create(ctx context.Context, t Transaction) error {
	if t.ID == "" {
		return fmt.Errorf("transaction id is empty")
	}
	status := t.Status
	if status == "" {
		status = StatusPending
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var amount any
	if t.Amount != nil {
		amount = *t.Amount
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO transactions(id, user_id, reference, status, amount, currency, created_at)
VALUES(?, ?, ?, ?, ?, ?, ?);
`, t.ID, t.UserID, t.Reference, status, amount, t.Currency, now)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// FindByReference returns the transaction whose provider-assigned reference
// matches, or (nil, nil) when none exists.
func (s *TransactionStore) FindByReference(ctx context.Context, ref string) (*Transaction, error) {
	if ref == "" {
		return nil, fmt.Errorf("transaction reference is empty")
	}

	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, reference, status, amount, currency, created_at
FROM transactions
WHERE reference = ?
LIMIT 1;
`, ref)

	var (
		t          Transaction
		userID     sql.NullString
		reference  sql.NullString
		amount     sql.NullInt64
		currency   sql.NullString
		createdAtS string
	)
	err := row.Scan(&t.ID, &userID, &reference, &t.Status, &amount, &currency, &createdAtS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction by reference: %w", err)
	}

	t.UserID = userID.String
	t.Reference = reference.String
	t.Currency = currency.String
	if amount.Valid {
		v := amount.Int64
		t.Amount = &v
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAtS); err == nil {
		t.CreatedAt = ts
	}
	return &t, nil
}

// MarkSuccessful transitions the transaction to its terminal status.
// Re-marking an already successful transaction is a harmless overwrite.
func (s *TransactionStore) MarkSuccessful(ctx context.Context, transactionID string) error {
	if transactionID == "" {
		return fmt.Errorf("transaction id is empty")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(ctx, `
UPDATE transactions SET status = ?, updated_at = ? WHERE id = ?;
`, StatusSuccessful, now, transactionID)
	if err != nil {
		return fmt.Errorf("mark transaction successful: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("transaction %q not found", transactionID)
	}
	return nil
}
