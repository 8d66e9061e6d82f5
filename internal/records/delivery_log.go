package records

import (
	"context"
	"fmt"
	"time"

	"database/sql"

	"github.com/google/uuid"
)

// DeliveryLog is an append-only record of accepted webhook deliveries, kept in
// the shared store so duplicate observation survives restarts and works across
// horizontally scaled replicas.
type DeliveryLog struct {
	db *sql.DB
}

func NewDeliveryLog(db *sql.DB) *DeliveryLog {
	return &DeliveryLog{db: db}
}

// Append records one delivery attempt. Each attempt gets its own row; retried
// deliveries show up as repeated delivery_id values.
func (l *DeliveryLog) Append(ctx context.Context, d Delivery) (string, error) {
	if d.DeliveryID == "" {
		return "", fmt.Errorf("delivery id is empty")
	}
	if d.Event == "" {
		return "", fmt.Errorf("event is empty")
	}

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := l.db.ExecContext(ctx, `
INSERT INTO webhook_deliveries(id, delivery_id, event, reference, outcome, received_at)
VALUES(?, ?, ?, ?, ?, ?);
`, id, d.DeliveryID, d.Event, d.Reference, d.Outcome, now)
	if err != nil {
		return "", fmt.Errorf("append delivery: %w", err)
	}
	return id, nil
}

// Seen reports whether a delivery with this delivery_id was already logged.
func (l *DeliveryLog) Seen(ctx context.Context, deliveryID string) (bool, error) {
	var n int
	err := l.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM webhook_deliveries WHERE delivery_id = ?;", deliveryID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count deliveries: %w", err)
	}
	return n > 0, nil
}

// Recent returns the most recently received deliveries, newest first.
func (l *DeliveryLog) Recent(ctx context.Context, limit int) ([]Delivery, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.QueryContext(ctx, `
SELECT id, delivery_id, event, reference, outcome, received_at
FROM webhook_deliveries
ORDER BY received_at DESC, rowid DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	var out []Delivery
	for rows.Next() {
		var (
			d         Delivery
			reference sql.NullString
			receivedS string
		)
		if err := rows.Scan(&d.ID, &d.DeliveryID, &d.Event, &reference, &d.Outcome, &receivedS); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		d.Reference = reference.String
		if t, err := time.Parse(time.RFC3339Nano, receivedS); err == nil {
			d.ReceivedAt = t
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Prune removes delivery rows older than the retention window.
func (l *DeliveryLog) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("retention must be positive")
	}
	cutoff := time.Now().UTC().Add(-retention).Format(time.RFC3339Nano)

	res, err := l.db.ExecContext(ctx,
		"DELETE FROM webhook_deliveries WHERE received_at < ?;", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune deliveries: %w", err)
	}
	return res.RowsAffected()
}
