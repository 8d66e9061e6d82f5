package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type AccountStore struct {
	db *sql.DB
}

func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db}
}

// Create inserts an account in its initial state.
func (s *AccountStore) Create(ctx context.Context, a Account) error {
	if a.ID == "" {
		return fmt.Errorf("account id is empty")
	}
	if a.Currency == "" {
		return fmt.Errorf("account currency is empty")
	}
	status := a.Status
	if status == "" {
		status = StatusPending
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(ctx, `
INSERT INTO accounts(id, user_id, provider_ref, currency, status, created_at)
VALUES(?, ?, ?, ?, ?, ?);
`, a.ID, a.UserID, a.ProviderRef, a.Currency, status, now)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// FindByProviderRef returns the account provisioned under the given provider
// reference, or (nil, nil) when none exists.
func (s *AccountStore) FindByProviderRef(ctx context.Context, ref string) (*Account, error) {
	if ref == "" {
		return nil, fmt.Errorf("provider ref is empty")
	}

	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, provider_ref, currency, status, account_holder, bank_name, account_number, created_at
FROM accounts
WHERE provider_ref = ?
LIMIT 1;
`, ref)

	var (
		a           Account
		userID      sql.NullString
		providerRef sql.NullString
		holder      sql.NullString
		bankName    sql.NullString
		accountNum  sql.NullString
		createdAtS  string
	)
	err := row.Scan(&a.ID, &userID, &providerRef, &a.Currency, &a.Status, &holder, &bankName, &accountNum, &createdAtS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find account by provider ref: %w", err)
	}

	a.UserID = userID.String
	a.ProviderRef = providerRef.String
	a.AccountHolder = holder.String
	a.BankName = bankName.String
	a.AccountNumber = accountNum.String
	if t, err := time.Parse(time.RFC3339Nano, createdAtS); err == nil {
		a.CreatedAt = t
	}
	return &a, nil
}

// Activate transitions the account to active with the provider-confirmed bank
// detail. The caller guards eligibility (pending status, governed currency).
func (s *AccountStore) Activate(ctx context.Context, accountID string, upd AccountActivation) error {
	if accountID == "" {
		return fmt.Errorf("account id is empty")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var meta any
	if len(upd.Meta) > 0 {
		meta = string(upd.Meta)
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE accounts
SET status = ?, account_holder = ?, bank_name = ?, account_number = ?,
    routing_number = ?, account_type = ?, meta = ?, updated_at = ?
WHERE id = ?;
`, StatusActive, upd.AccountHolder, upd.BankName, upd.AccountNumber,
		nullable(upd.RoutingNumber), upd.AccountType, meta, now, accountID)
	if err != nil {
		return fmt.Errorf("activate account: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("account %q not found", accountID)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
