package repository

import (
	"context"
	"time"

	"chirper/internal/models"

	"gorm.io/gorm"
)

// FeedParams carries feed pagination. Before is a tweet id used as an
// exclusive time cursor; when set it wins over Offset.
type FeedParams struct {
	Limit  int
	Offset int
	Before uint
}

// FeedRepository composes the viewer's feed: blended followed-first
// ordering, block filtering in both directions and per-viewer
// like/retweet annotation.
type FeedRepository interface {
	Feed(ctx context.Context, viewerID uint, params FeedParams) ([]models.FeedEntry, error)
}

type feedRepository struct {
	db     *gorm.DB
	tweets TweetRepository
}

// NewFeedRepository creates a new feed repository. The tweet repository
// supplies the batch liked/retweeted lookups for annotation.
func NewFeedRepository(db *gorm.DB, tweets TweetRepository) FeedRepository {
	return &feedRepository{db: db, tweets: tweets}
}

// feedRow is the flat scan target of the feed query. Original columns
// are pointers: they stay nil for originals and for retweets whose
// original row was deleted (the join is left, never inner).
type feedRow struct {
	ID                     uint       `gorm:"column:id"`
	UserID                 uint       `gorm:"column:user_id"`
	Text                   *string    `gorm:"column:text"`
	CreatedAt              time.Time  `gorm:"column:created_at"`
	RetweetedFrom          *uint      `gorm:"column:retweeted_from"`
	AuthorID               uint       `gorm:"column:author_id"`
	AuthorUsername         string     `gorm:"column:author_username"`
	AuthorName             *string    `gorm:"column:author_name"`
	AuthorPicture          string     `gorm:"column:author_picture"`
	OriginalID             *uint      `gorm:"column:original_id"`
	OriginalText           *string    `gorm:"column:original_text"`
	OriginalCreatedAt      *time.Time `gorm:"column:original_created_at"`
	OriginalAuthorID       *uint      `gorm:"column:original_author_id"`
	OriginalAuthorUsername *string    `gorm:"column:original_author_username"`
	OriginalAuthorName     *string    `gorm:"column:original_author_name"`
	OriginalAuthorPicture  *string    `gorm:"column:original_author_picture"`
}

// feedQuery joins each tweet to its author and, for retweets, to the
// original tweet and author. Authors in a block relation with the
// viewer are excluded in both directions, which also hides retweets BY
// blocked users of unblocked content. Ranking is a two-key sort:
// followed authors first, then recency; ids break created_at ties so
// pages are stable.
const feedQuery = `SELECT
  t.id AS id,
  t.user_id AS user_id,
  t.text AS text,
  t.created_at AS created_at,
  t.retweeted_from AS retweeted_from,
  u.id AS author_id,
  u.username AS author_username,
  u.name AS author_name,
  u.profile_picture AS author_picture,
  orig.id AS original_id,
  orig.text AS original_text,
  orig.created_at AS original_created_at,
  ou.id AS original_author_id,
  ou.username AS original_author_username,
  ou.name AS original_author_name,
  ou.profile_picture AS original_author_picture
FROM tweets t
JOIN users u ON t.user_id = u.id
LEFT JOIN tweets orig ON t.retweeted_from = orig.id
LEFT JOIN users ou ON orig.user_id = ou.id
WHERE t.user_id NOT IN (
  SELECT blocker_id FROM blocks WHERE blocked_id = ?
  UNION
  SELECT blocked_id FROM blocks WHERE blocker_id = ?
)`

const feedCursorClause = ` AND t.created_at < (SELECT created_at FROM tweets WHERE id = ?)`

const feedOrderClause = `
ORDER BY (t.user_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)) DESC,
  t.created_at DESC, t.id DESC
LIMIT ? OFFSET ?`

func (r *feedRepository) Feed(ctx context.Context, viewerID uint, params FeedParams) ([]models.FeedEntry, error) {
	query := feedQuery
	args := []interface{}{viewerID, viewerID}

	offset := params.Offset
	if params.Before != 0 {
		// Cursor and offset pagination are mutually exclusive; cursor wins.
		query += feedCursorClause
		args = append(args, params.Before)
		offset = 0
	}
	query += feedOrderClause
	args = append(args, viewerID, params.Limit, offset)

	var rows []feedRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return r.annotate(ctx, viewerID, rows)
}

// annotate attaches the viewer's like/retweet state to the page. The
// retweet check runs against canonical ids so "retweeted" holds no
// matter which row of the content is displayed.
func (r *feedRepository) annotate(ctx context.Context, viewerID uint, rows []feedRow) ([]models.FeedEntry, error) {
	tweetIDs := make([]uint, 0, len(rows))
	canonicalIDs := make([]uint, 0, len(rows))
	for _, row := range rows {
		tweetIDs = append(tweetIDs, row.ID)
		if row.RetweetedFrom != nil {
			canonicalIDs = append(canonicalIDs, *row.RetweetedFrom)
		} else {
			canonicalIDs = append(canonicalIDs, row.ID)
		}
	}

	liked, err := r.tweets.LikedTweetIDs(ctx, viewerID, tweetIDs)
	if err != nil {
		return nil, err
	}
	retweeted, err := r.tweets.RetweetedTweetIDs(ctx, viewerID, canonicalIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]models.FeedEntry, 0, len(rows))
	for i, row := range rows {
		entry := models.FeedEntry{
			ID:            row.ID,
			UserID:        row.UserID,
			Text:          row.Text,
			CreatedAt:     row.CreatedAt,
			RetweetedFrom: row.RetweetedFrom,
			Author: models.PublicProfile{
				ID:             row.AuthorID,
				Username:       row.AuthorUsername,
				Name:           row.AuthorName,
				ProfilePicture: row.AuthorPicture,
			},
		}
		_, entry.Liked = liked[row.ID]
		_, entry.Retweeted = retweeted[canonicalIDs[i]]

		if row.RetweetedFrom != nil && row.OriginalID != nil {
			original := &models.OriginalTweet{
				ID:   *row.OriginalID,
				Text: row.OriginalText,
			}
			if row.OriginalCreatedAt != nil {
				original.CreatedAt = *row.OriginalCreatedAt
			}
			if row.OriginalAuthorID != nil {
				original.Author = models.PublicProfile{
					ID:   *row.OriginalAuthorID,
					Name: row.OriginalAuthorName,
				}
				if row.OriginalAuthorUsername != nil {
					original.Author.Username = *row.OriginalAuthorUsername
				}
				if row.OriginalAuthorPicture != nil {
					original.Author.ProfilePicture = *row.OriginalAuthorPicture
				}
			}
			entry.OriginalTweet = original
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
