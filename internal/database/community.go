package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skillswap-app/skillswap/internal/models"
)

// ErrCommunityExists is returned when a community name is already taken.
var ErrCommunityExists = errors.New("community name already exists")

func InsertCommunity(ctx context.Context, c *models.Community) error {
	if c.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate community id: %w", err)
		}
		c.ID = id
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}

	q := `
	INSERT INTO communities (
		id, name, primary_skill, description, purpose, visibility, guidelines,
		created_by, status, banner_url, logo_url, tags,
		requires_join_approval, requires_post_approval
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING created_at
	`
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q,
			c.ID, c.Name, c.PrimarySkill, c.Description, c.Purpose, c.Visibility, c.Guidelines,
			c.CreatedBy, c.Status, c.BannerURL, c.LogoURL, c.Tags,
			c.RequiresJoinApproval, c.RequiresPostApproval,
		).Scan(&c.CreatedAt)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrCommunityExists
		}
		return fmt.Errorf("failed to insert community: %w", err)
	}
	return nil
}

func scanCommunity(row pgx.Row, c *models.Community) error {
	return row.Scan(
		&c.ID, &c.Name, &c.PrimarySkill, &c.Description, &c.Purpose, &c.Visibility, &c.Guidelines,
		&c.CreatedBy, &c.Status, &c.BannerURL, &c.LogoURL, &c.Tags,
		&c.RequiresJoinApproval, &c.RequiresPostApproval, &c.CreatedAt,
	)
}

const communityColumns = `
	id, name, primary_skill, description, purpose, visibility, guidelines,
	created_by, status, banner_url, logo_url, tags,
	requires_join_approval, requires_post_approval, created_at`

// ListCommunities returns every community, newest first.
func ListCommunities(ctx context.Context) ([]models.Community, error) {
	q := `SELECT ` + communityColumns + ` FROM communities ORDER BY created_at DESC`
	rows, err := DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	communities := []models.Community{}
	for rows.Next() {
		var c models.Community
		if err := scanCommunity(rows, &c); err != nil {
			return nil, err
		}
		communities = append(communities, c)
	}
	return communities, rows.Err()
}

func GetCommunityByName(ctx context.Context, name string) (*models.Community, error) {
	q := `SELECT ` + communityColumns + ` FROM communities WHERE name=$1`
	var c models.Community
	if err := scanCommunity(DB.QueryRow(ctx, q, name), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func GetCommunityByID(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	q := `SELECT ` + communityColumns + ` FROM communities WHERE id=$1`
	var c models.Community
	if err := scanCommunity(DB.QueryRow(ctx, q, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// DeleteCommunity removes a community and its posts.
func DeleteCommunity(ctx context.Context, id uuid.UUID) error {
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `DELETE FROM communities WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
