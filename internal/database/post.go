package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skillswap-app/skillswap/internal/models"
)

// ErrPostPending is returned when a reaction targets a post still waiting
// for moderator approval.
var ErrPostPending = errors.New("cannot react to pending posts")

func emptyReactions() map[string]int {
	m := make(map[string]int, len(models.ReactionTypes))
	for _, r := range models.ReactionTypes {
		m[r] = 0
	}
	return m
}

// InsertPost creates a post in a community. Communities that require post
// approval get it in the pending state; everyone else's posts go live.
func InsertPost(ctx context.Context, communityID, author uuid.UUID, content, imageURL, status string) (*models.Post, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate post id: %w", err)
	}

	post := &models.Post{
		ID:        id,
		Content:   content,
		ImageURL:  imageURL,
		Reactions: emptyReactions(),
		Comments:  []models.Comment{},
		Status:    status,
	}

	q := `
	WITH inserted AS (
		INSERT INTO community_posts (id, community_id, author, content, image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING author, created_at
	)
	SELECT i.created_at, u.id, u.name, u.avatar_url
	FROM inserted i JOIN users u ON u.id = i.author
	`
	var avatarURL string
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, id, communityID, author, content, imageURL, status).
			Scan(&post.CreatedAt, &post.Author.ID, &post.Author.Name, &avatarURL)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}
	post.Author.AvatarURL = avatarURL
	return post, nil
}

// ListPostsByCommunity returns the community's approved posts, newest first,
// with authors, reaction tallies, and comments attached.
func ListPostsByCommunity(ctx context.Context, communityID uuid.UUID) ([]models.Post, error) {
	q := `
	SELECT p.id, p.content, p.image_url, p.created_at, u.id, u.name, u.avatar_url
	FROM community_posts p
	JOIN users u ON u.id = p.author
	WHERE p.community_id = $1 AND p.status = 'approved'
	ORDER BY p.created_at DESC
	`
	rows, err := DB.Query(ctx, q, communityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	index := map[uuid.UUID]int{}
	ids := []uuid.UUID{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Content, &p.ImageURL, &p.CreatedAt,
			&p.Author.ID, &p.Author.Name, &p.Author.AvatarURL); err != nil {
			return nil, err
		}
		p.Reactions = emptyReactions()
		p.Comments = []models.Comment{}
		index[p.ID] = len(posts)
		ids = append(ids, p.ID)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return posts, nil
	}

	rq := `
	SELECT post_id, type, COUNT(*)
	FROM post_reactions
	WHERE post_id = ANY($1)
	GROUP BY post_id, type
	`
	rrows, err := DB.Query(ctx, rq, ids)
	if err != nil {
		return nil, err
	}
	defer rrows.Close()
	for rrows.Next() {
		var postID uuid.UUID
		var rtype string
		var count int
		if err := rrows.Scan(&postID, &rtype, &count); err != nil {
			return nil, err
		}
		if i, ok := index[postID]; ok {
			posts[i].Reactions[rtype] = count
		}
	}
	if err := rrows.Err(); err != nil {
		return nil, err
	}

	cq := `
	SELECT c.post_id, c.text, c.created_at, u.id, u.name, u.avatar_url
	FROM post_comments c
	JOIN users u ON u.id = c.user_id
	WHERE c.post_id = ANY($1)
	ORDER BY c.created_at
	`
	crows, err := DB.Query(ctx, cq, ids)
	if err != nil {
		return nil, err
	}
	defer crows.Close()
	for crows.Next() {
		var postID uuid.UUID
		var c models.Comment
		if err := crows.Scan(&postID, &c.Text, &c.CreatedAt,
			&c.Author.ID, &c.Author.Name, &c.Author.AvatarURL); err != nil {
			return nil, err
		}
		if i, ok := index[postID]; ok {
			posts[i].Comments = append(posts[i].Comments, c)
		}
	}
	return posts, crows.Err()
}

// ReactToPost records a user's reaction to a post. One reaction per user per
// post: repeating the same reaction removes it, a different one replaces it.
// Returns the post's updated tallies.
func ReactToPost(ctx context.Context, postID, userID uuid.UUID, reaction string) (map[string]int, error) {
	reactions := emptyReactions()

	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM community_posts WHERE id=$1 FOR UPDATE`, postID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if status == models.PostPending {
			return ErrPostPending
		}

		var existing string
		err = tx.QueryRow(ctx, `SELECT type FROM post_reactions WHERE post_id=$1 AND user_id=$2`, postID, userID).Scan(&existing)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			_, err = tx.Exec(ctx, `INSERT INTO post_reactions (post_id, user_id, type) VALUES ($1, $2, $3)`,
				postID, userID, reaction)
		case err != nil:
			return err
		case existing == reaction:
			_, err = tx.Exec(ctx, `DELETE FROM post_reactions WHERE post_id=$1 AND user_id=$2`, postID, userID)
		default:
			_, err = tx.Exec(ctx, `UPDATE post_reactions SET type=$3 WHERE post_id=$1 AND user_id=$2`,
				postID, userID, reaction)
		}
		if err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `SELECT type, COUNT(*) FROM post_reactions WHERE post_id=$1 GROUP BY type`, postID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var rtype string
			var count int
			if err := rows.Scan(&rtype, &count); err != nil {
				return err
			}
			reactions[rtype] = count
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return reactions, nil
}

// AddComment appends a comment to a post and returns the post's full
// comment list.
func AddComment(ctx context.Context, postID, userID uuid.UUID, text string) ([]models.Comment, error) {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM community_posts WHERE id=$1)`, postID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		_, err := tx.Exec(ctx, `INSERT INTO post_comments (post_id, user_id, text) VALUES ($1, $2, $3)`,
			postID, userID, text)
		return err
	})
	if err != nil {
		return nil, err
	}

	q := `
	SELECT c.text, c.created_at, u.id, u.name, u.avatar_url
	FROM post_comments c
	JOIN users u ON u.id = c.user_id
	WHERE c.post_id = $1
	ORDER BY c.created_at
	`
	rows, err := DB.Query(ctx, q, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.Text, &c.CreatedAt, &c.Author.ID, &c.Author.Name, &c.Author.AvatarURL); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
