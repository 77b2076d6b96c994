package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skillswap-app/skillswap/internal/models"
)

// ConnectPeers links two users symmetrically. Both directions are written in
// one transaction with ON CONFLICT DO NOTHING, so the relation behaves as a
// set: repeating an acceptance never duplicates a peer entry, and the pair
// is never half-linked. There is no disconnect.
func ConnectPeers(ctx context.Context, userA, userB uuid.UUID) error {
	q := `
	INSERT INTO peers (user_id, peer_id)
	VALUES ($1, $2), ($2, $1)
	ON CONFLICT (user_id, peer_id) DO NOTHING
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, userA, userB)
		return err
	})
}

// ListPeers returns the users connected to userID.
func ListPeers(ctx context.Context, userID uuid.UUID) ([]models.Peer, error) {
	q := `
	SELECT u.id, u.name, u.avatar_url, u.bio
	FROM peers p
	JOIN users u ON u.id = p.peer_id
	WHERE p.user_id = $1
	ORDER BY u.name
	`
	rows, err := DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	peers := []models.Peer{}
	for rows.Next() {
		var p models.Peer
		if err := rows.Scan(&p.ID, &p.Name, &p.AvatarURL, &p.Bio); err != nil {
			return nil, err
		}
		peers = append(peers, p)
	}
	return peers, rows.Err()
}

// ArePeers reports whether the two users are connected.
func ArePeers(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	q := `SELECT EXISTS (SELECT 1 FROM peers WHERE user_id=$1 AND peer_id=$2)`
	var connected bool
	if err := DB.QueryRow(ctx, q, userA, userB).Scan(&connected); err != nil {
		return false, err
	}
	return connected, nil
}
