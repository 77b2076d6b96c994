package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"github.com/skillswap-app/skillswap/internal/cache"
	"github.com/skillswap-app/skillswap/internal/models"
)

// InsertNotification appends one entry to a user's notification log. The log
// has no uniqueness constraint: two senders requesting the same recipient
// produce two entries, as they should.
func InsertNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate notification id: %w", err)
		}
		n.ID = id
	}

	q := `
	INSERT INTO notifications (id, user_id, type, message, related_user)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, n.ID, n.UserID, n.Type, n.Message, n.RelatedUser).Scan(&n.CreatedAt)
	})
	if err != nil {
		return err
	}

	// Derived counter only; a stale value is recomputed on the next miss.
	if cerr := cache.IncrUnread(ctx, n.UserID); cerr != nil {
		log.WithError(cerr).Debug("failed to bump unread counter")
	}
	return nil
}

// ListNotifications returns the user's notifications, newest first, each
// decorated with the counterparty's name and avatar.
func ListNotifications(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	q := `
	SELECT n.id, n.user_id, n.type, n.message, n.related_user, n.read, n.created_at,
	       u.name, u.avatar_url
	FROM notifications n
	JOIN users u ON u.id = n.related_user
	WHERE n.user_id = $1
	ORDER BY n.created_at DESC
	`
	rows, err := DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifs := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var avatarURL string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.RelatedUser, &n.Read, &n.CreatedAt,
			&n.RelatedName, &avatarURL); err != nil {
			return nil, err
		}
		n.RelatedAvatar = models.Avatar(avatarURL, n.RelatedName)
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// MarkAllNotificationsRead flips every unread notification for the user to
// read. Idempotent: a second call matches zero rows and is not an error.
func MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) error {
	q := `
	UPDATE notifications
	SET read = TRUE
	WHERE user_id = $1 AND read = FALSE
	`
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, userID)
		return err
	})
	if err != nil {
		return err
	}

	if cerr := cache.ResetUnread(ctx, userID); cerr != nil {
		log.WithError(cerr).Debug("failed to reset unread counter")
	}
	return nil
}

// CountUnreadNotifications is the fallback when the cached unread counter is
// cold or unavailable.
func CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	q := `SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND read=FALSE`
	var count int64
	if err := DB.QueryRow(ctx, q, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
