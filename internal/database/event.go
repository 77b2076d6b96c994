package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/skillswap-app/skillswap/internal/models"
)

// InsertRequestEvents batch-inserts audit records drained from the Redis
// queue. Used by the auditor worker, not by the request path.
func InsertRequestEvents(ctx context.Context, events []models.RequestEvent) error {
	if len(events) == 0 {
		return nil
	}
	q := `
	INSERT INTO request_events (request_id, event_type, from_user, to_user, occurred_at)
	VALUES ($1, $2, $3, $4, $5)
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, e := range events {
			occurred := time.UnixMilli(e.Timestamp)
			if _, err := tx.Exec(ctx, q, e.RequestID, e.EventType, e.FromUser, e.ToUser, occurred); err != nil {
				return err
			}
		}
		return nil
	})
}
