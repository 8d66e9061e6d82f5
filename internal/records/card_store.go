package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type CardStore struct {
	db *sql.DB
}

func NewCardStore(db *sql.DB) *CardStore {
	return &CardStore{db: db}
}

// Create inserts a card in its initial state.
func (s *CardStore) Create(ctx context.Context, c Card) error {
	if c.ID == "" {
		return fmt.Errorf("card id is empty")
	}
	status := c.Status
	if status == "" {
		status = StatusPending
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(ctx, `
INSERT INTO cards(id, user_id, holder_name, reference, card_reference, status, created_at)
VALUES(?, ?, ?, ?, ?, ?, ?);
`, c.ID, c.UserID, c.HolderName, c.Reference, c.CardReference, status, now)
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

// FindByReference looks a card up by either provider key (reference or
// card_reference), first match wins. Returns (nil, nil) when no card matches.
func (s *CardStore) FindByReference(ctx context.Context, ref string) (*Card, error) {
	if ref == "" {
		return nil, fmt.Errorf("card reference is empty")
	}

	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, holder_name, reference, card_reference, status,
       card_number, masked_pan, first_six, last_four, expiry, expiry_month, expiry_year, cvv, balance, created_at
FROM cards
WHERE reference = ? OR card_reference = ?
LIMIT 1;
`, ref, ref)

	var (
		c          Card
		userID     sql.NullString
		holder     sql.NullString
		reference  sql.NullString
		cardRef    sql.NullString
		cardNum    sql.NullString
		maskedPan  sql.NullString
		firstSix   sql.NullString
		lastFour   sql.NullString
		expiry     sql.NullString
		expMonth   sql.NullString
		expYear    sql.NullString
		cvv        sql.NullString
		balance    sql.NullInt64
		createdAtS string
	)
	err := row.Scan(&c.ID, &userID, &holder, &reference, &cardRef, &c.Status,
		&cardNum, &maskedPan, &firstSix, &lastFour, &expiry, &expMonth, &expYear, &cvv, &balance, &createdAtS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find card by reference: %w", err)
	}

	c.UserID = userID.String
	c.HolderName = holder.String
	c.Reference = reference.String
	c.CardReference = cardRef.String
	c.CardNumber = cardNum.String
	c.MaskedPan = maskedPan.String
	c.FirstSix = firstSix.String
	c.LastFour = lastFour.String
	c.Expiry = expiry.String
	c.ExpiryMonth = expMonth.String
	c.ExpiryYear = expYear.String
	c.CVV = cvv.String
	if balance.Valid {
		v := balance.Int64
		c.Balance = &v
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAtS); err == nil {
		c.CreatedAt = t
	}
	return &c, nil
}

// ApplyIssuedDetail writes the provider-confirmed card fields and upserts the
// owned address in the same transaction. Re-applying the same update is a
// harmless overwrite with equivalent data.
func (s *CardStore) ApplyIssuedDetail(ctx context.Context, cardID string, upd CardIssuedUpdate) error {
	if cardID == "" {
		return fmt.Errorf("card id is empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)

	var balance any
	if upd.Balance != nil {
		balance = *upd.Balance
	}

	res, err := tx.ExecContext(ctx, `
UPDATE cards
SET status = ?, card_number = ?, masked_pan = ?, first_six = ?, last_four = ?,
    expiry = ?, expiry_month = ?, expiry_year = ?, cvv = ?, balance = ?, updated_at = ?
WHERE id = ?;
`, upd.Status, upd.CardNumber, upd.MaskedPan, upd.FirstSix, upd.LastFour,
		upd.Expiry, upd.ExpiryMonth, upd.ExpiryYear, upd.CVV, balance, now, cardID)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("card %q not found", cardID)
	}

	if upd.Address != nil {
		a := upd.Address
		_, err = tx.ExecContext(ctx, `
INSERT INTO card_addresses(card_id, street, city, state, country, postal_code, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(card_id) DO UPDATE SET
  street = excluded.street,
  city = excluded.city,
  state = excluded.state,
  country = excluded.country,
  postal_code = excluded.postal_code,
  updated_at = excluded.updated_at;
`, cardID, a.Street, a.City, a.State, a.Country, a.PostalCode, now)
		if err != nil {
			return fmt.Errorf("upsert card address: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Address returns the card's stored address, or (nil, nil) if none exists.
func (s *CardStore) Address(ctx context.Context, cardID string) (*Address, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT street, city, state, country, postal_code
FROM card_addresses
WHERE card_id = ?;
`, cardID)

	var street, city, state, country, postal sql.NullString
	err := row.Scan(&street, &city, &state, &country, &postal)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read card address: %w", err)
	}
	return &Address{
		Street:     street.String,
		City:       city.String,
		State:      state.String,
		Country:    country.String,
		PostalCode: postal.String,
	}, nil
}
