package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skillswap-app/skillswap/internal/models"
)

// InsertMessage stores a direct message. Delivery is by polling; there is no
// push channel.
func InsertMessage(ctx context.Context, m *models.Message) error {
	if m.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate message id: %w", err)
		}
		m.ID = id
	}

	q := `
	INSERT INTO messages (id, sender, receiver, text)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, m.ID, m.Sender, m.Receiver, m.Text).Scan(&m.CreatedAt)
	})
}

// ListConversation returns every message between the two users, oldest
// first, as chat history is rendered.
func ListConversation(ctx context.Context, userID, peerID uuid.UUID) ([]models.Message, error) {
	q := `
	SELECT id, sender, receiver, text, created_at
	FROM messages
	WHERE (sender=$1 AND receiver=$2) OR (sender=$2 AND receiver=$1)
	ORDER BY created_at
	`
	rows, err := DB.Query(ctx, q, userID, peerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Sender, &m.Receiver, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
