package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skillswap-app/skillswap/internal/auth"
	"github.com/skillswap-app/skillswap/internal/models"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

func CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate user id: %w", err)
		}
		user.ID = id
	}

	hash, err := auth.HashPassword(user.Password, auth.Params)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hash

	if user.SkillsHave == nil {
		user.SkillsHave = []string{}
	}
	if user.SkillsWant == nil {
		user.SkillsWant = []string{}
	}

	q := `INSERT INTO users (id, email, password, name, avatar_url, bio, community, skills_have, skills_want)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			user.ID, user.Email, user.Password, user.Name,
			user.AvatarURL, user.Bio, user.Community,
			user.SkillsHave, user.SkillsWant,
		)
		return execErr
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	q := `
	SELECT id, email, password, name, avatar_url, bio, community, skills_have, skills_want, created_at
	FROM users
	WHERE email=$1
	`
	err := DB.QueryRow(ctx, q, email).Scan(
		&u.ID, &u.Email, &u.Password, &u.Name,
		&u.AvatarURL, &u.Bio, &u.Community,
		&u.SkillsHave, &u.SkillsWant, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	q := `
	SELECT id, email, password, name, avatar_url, bio, community, skills_have, skills_want, created_at
	FROM users
	WHERE id=$1
	`
	err := DB.QueryRow(ctx, q, id).Scan(
		&u.ID, &u.Email, &u.Password, &u.Name,
		&u.AvatarURL, &u.Bio, &u.Community,
		&u.SkillsHave, &u.SkillsWant, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// AuthenticateUser checks credentials and returns the matching user on
// success. Unknown email and wrong password are indistinguishable.
func AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	match, err := auth.VerifyPassword(password, user.Password)
	if err != nil || !match {
		return nil, fmt.Errorf("invalid credentials")
	}
	user.Password = ""
	return user, nil
}

// ListUsersExcept returns every user's public profile except the caller's,
// for the discovery page.
func ListUsersExcept(ctx context.Context, userID uuid.UUID) ([]models.Profile, error) {
	q := `
	SELECT id, name, email, avatar_url, bio, community, skills_have, skills_want
	FROM users
	WHERE id != $1
	ORDER BY created_at DESC
	`
	rows, err := DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.AvatarURL, &p.Bio, &p.Community, &p.SkillsHave, &p.SkillsWant); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// ProfileUpdate holds the fields a user may change on their own profile.
// Nil means "leave as is".
type ProfileUpdate struct {
	Name       *string
	Email      *string
	Bio        *string
	AvatarURL  *string
	Community  *string
	SkillsHave []string
	SkillsWant []string
}

// UpdateProfile applies a partial update and returns the resulting profile.
func UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*models.Profile, error) {
	q := `
	UPDATE users SET
		name        = COALESCE($2, name),
		email       = COALESCE($3, email),
		bio         = COALESCE($4, bio),
		avatar_url  = COALESCE($5, avatar_url),
		community   = COALESCE($6, community),
		skills_have = COALESCE($7, skills_have),
		skills_want = COALESCE($8, skills_want)
	WHERE id = $1
	RETURNING id, name, email, avatar_url, bio, community, skills_have, skills_want
	`
	var p models.Profile
	err := DB.QueryRow(ctx, q, userID,
		upd.Name, upd.Email, upd.Bio, upd.AvatarURL, upd.Community,
		upd.SkillsHave, upd.SkillsWant,
	).Scan(&p.ID, &p.Name, &p.Email, &p.AvatarURL, &p.Bio, &p.Community, &p.SkillsHave, &p.SkillsWant)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &p, nil
}
