package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"

	"github.com/skillswap-app/skillswap/internal/models"
)

// SendSwapRequest creates a pending swap request from one user to another
// and notifies the recipient. A partial unique index on (from_user, to_user)
// WHERE status='pending' backs the one-pending-request-per-pair invariant,
// so concurrent sends cannot both slip past a pre-check.
//
// The notification is a best-effort side effect: the request itself is the
// source of truth, and a failed notification insert is logged, not rolled
// back into a failed send.
func SendSwapRequest(ctx context.Context, fromUser, toUser uuid.UUID, message string) (*models.SwapRequest, error) {
	sender, err := GetUserByID(ctx, fromUser)
	if err != nil {
		return nil, fmt.Errorf("failed to load sender: %w", err)
	}

	req := &models.SwapRequest{
		FromUser: fromUser,
		ToUser:   toUser,
		Message:  message,
		Status:   models.RequestPending,
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request id: %w", err)
	}
	req.ID = id

	q := `
	INSERT INTO swap_requests (id, from_user, to_user, message, status)
	VALUES ($1, $2, $3, $4, 'pending')
	RETURNING created_at, updated_at
	`
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, req.ID, fromUser, toUser, message).Scan(&req.CreatedAt, &req.UpdatedAt)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicatePending
		}
		return nil, fmt.Errorf("failed to insert swap request: %w", err)
	}

	notif := &models.Notification{
		UserID:      toUser,
		Type:        models.NotifRequestReceived,
		Message:     fmt.Sprintf("You received a skill swap request from %s", sender.Name),
		RelatedUser: fromUser,
	}
	if err := InsertNotification(ctx, notif); err != nil {
		log.WithError(err).WithField("request_id", req.ID).
			Error("request created but recipient notification failed")
	}

	return req, nil
}

// listRequests fetches all requests where the user occupies the given column,
// denormalized with the counterparty's public profile, newest first.
func listRequests(ctx context.Context, userID uuid.UUID, userCol, otherCol string) ([]models.RequestCard, error) {
	q := fmt.Sprintf(`
	SELECT r.id, u.id, u.name, u.avatar_url, u.bio, u.skills_have, u.community,
	       r.status, r.message, r.created_at
	FROM swap_requests r
	JOIN users u ON u.id = r.%s
	WHERE r.%s = $1
	ORDER BY r.created_at DESC
	`, otherCol, userCol)

	rows, err := DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []models.RequestCard{}
	for rows.Next() {
		var c models.RequestCard
		var avatarURL string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &avatarURL, &c.Bio, &c.SkillsHave, &c.Community,
			&c.Status, &c.Message, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.RequestID = c.ID
		c.Avatar = models.Avatar(avatarURL, c.Name)
		c.PrimarySkill = models.PrimarySkill(c.SkillsHave)
		c.Rating = 5.0
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// ListRequestsMade returns the requests the user has sent.
func ListRequestsMade(ctx context.Context, userID uuid.UUID) ([]models.RequestCard, error) {
	return listRequests(ctx, userID, "from_user", "to_user")
}

// ListRequestsReceived returns the requests addressed to the user.
func ListRequestsReceived(ctx context.Context, userID uuid.UUID) ([]models.RequestCard, error) {
	return listRequests(ctx, userID, "to_user", "from_user")
}

// UpdateRequestStatus moves a pending request to accepted or rejected. Only
// the recipient of a still-pending request can do this: the WHERE clause is
// a compare-and-swap on status, so of two racing decisions exactly one
// succeeds and the other sees ErrNotFound. A missing row, a wrong actor,
// and an already-decided request all map to the same ErrNotFound.
//
// On acceptance the two users become peers (a set insert, safe to repeat)
// and the sender is notified. Both follow the committed status write and are
// best-effort: a failure is logged, never unwound into the decision itself.
func UpdateRequestStatus(ctx context.Context, requestID, actingUser uuid.UUID, status string) (*models.SwapRequest, error) {
	req := &models.SwapRequest{ID: requestID, Status: status}

	q := `
	UPDATE swap_requests
	SET status=$3, updated_at=NOW()
	WHERE id=$1 AND to_user=$2 AND status='pending'
	RETURNING from_user, to_user, message, created_at, updated_at
	`
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, requestID, actingUser, status).
			Scan(&req.FromUser, &req.ToUser, &req.Message, &req.CreatedAt, &req.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}

	if status == models.RequestAccepted {
		if err := ConnectPeers(ctx, req.FromUser, req.ToUser); err != nil {
			log.WithError(err).WithField("request_id", requestID).
				Error("request accepted but peer link failed")
		}

		acceptor, err := GetUserByID(ctx, req.ToUser)
		name := "Your peer"
		if err != nil {
			log.WithError(err).WithField("user_id", req.ToUser).
				Error("failed to load acceptor for notification")
		} else {
			name = acceptor.Name
		}
		notif := &models.Notification{
			UserID:      req.FromUser,
			Type:        models.NotifRequestAccepted,
			Message:     fmt.Sprintf("%s accepted your skill swap request!", name),
			RelatedUser: req.ToUser,
		}
		if err := InsertNotification(ctx, notif); err != nil {
			log.WithError(err).WithField("request_id", requestID).
				Error("request accepted but sender notification failed")
		}
	}

	return req, nil
}

// WithdrawRequest deletes a pending request and returns what was deleted.
// Only the sender can withdraw, and only while the request is still pending;
// decided requests are history and stay. Everything else is ErrNotFound.
func WithdrawRequest(ctx context.Context, requestID, actingUser uuid.UUID) (*models.SwapRequest, error) {
	req := &models.SwapRequest{ID: requestID}

	q := `
	DELETE FROM swap_requests
	WHERE id=$1 AND from_user=$2 AND status='pending'
	RETURNING from_user, to_user, message, status, created_at
	`
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, requestID, actingUser).
			Scan(&req.FromUser, &req.ToUser, &req.Message, &req.Status, &req.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to withdraw request: %w", err)
	}
	return req, nil
}
