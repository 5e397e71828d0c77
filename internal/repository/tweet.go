// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"chirper/internal/models"

	"gorm.io/gorm"
)

// ErrAlreadyRetweeted signals that the user already holds a retweet row
// for the original.
var ErrAlreadyRetweeted = models.NewConflictError("Already retweeted")

// TweetRepository defines persistence operations for tweets, likes and
// retweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id uint) (*models.Tweet, error)
	// DeleteByOwner deletes the tweet only when requesterID owns it and
	// reports whether a row was removed.
	DeleteByOwner(ctx context.Context, tweetID, requesterID uint) (bool, error)
	Like(ctx context.Context, tweetID, userID uint) error
	Unlike(ctx context.Context, tweetID, userID uint) error
	// CreateRetweet inserts a text-less tweet pointing at the original.
	// Returns ErrAlreadyRetweeted when this user already retweeted it.
	CreateRetweet(ctx context.Context, userID, originalID uint) (*models.Tweet, error)
	// DeleteRetweet removes the user's retweet of the original; missing
	// rows are a silent success.
	DeleteRetweet(ctx context.Context, userID, originalID uint) error
	// LikedTweetIDs returns which of the given tweet ids the user liked.
	LikedTweetIDs(ctx context.Context, userID uint, tweetIDs []uint) (map[uint]struct{}, error)
	// RetweetedTweetIDs returns which of the given original ids the user
	// has retweeted.
	RetweetedTweetIDs(ctx context.Context, userID uint, originalIDs []uint) (map[uint]struct{}, error)
}

type tweetRepository struct {
	db *gorm.DB
}

// NewTweetRepository creates a new tweet repository.
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID resolves a tweet by id. Absence is reported as (nil, nil).
func (r *tweetRepository) GetByID(ctx context.Context, id uint) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.db.WithContext(ctx).First(&tweet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &tweet, nil
}

func (r *tweetRepository) DeleteByOwner(ctx context.Context, tweetID, requesterID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", tweetID, requesterID).
		Delete(&models.Tweet{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *tweetRepository) Like(ctx context.Context, tweetID, userID uint) error {
	// ON CONFLICT DO NOTHING keeps concurrent identical requests from
	// erroring; exactly one edge row survives.
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (tweet_id, user_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (tweet_id, user_id) DO NOTHING`,
		tweetID, userID,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tweetRepository) Unlike(ctx context.Context, tweetID, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("tweet_id = ? AND user_id = ?", tweetID, userID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tweetRepository) CreateRetweet(ctx context.Context, userID, originalID uint) (*models.Tweet, error) {
	// Pre-check gives the clean conflict path; the partial unique index
	// on (user_id, retweeted_from) closes the race between the check
	// and the insert.
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Tweet{}).
		Where("user_id = ? AND retweeted_from = ?", userID, originalID).
		Count(&count).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if count > 0 {
		return nil, ErrAlreadyRetweeted
	}

	retweet := &models.Tweet{
		UserID:        userID,
		RetweetedFrom: &originalID,
	}
	if err := r.db.WithContext(ctx).Create(retweet).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrAlreadyRetweeted
		}
		return nil, models.NewInternalError(err)
	}
	return retweet, nil
}

func (r *tweetRepository) DeleteRetweet(ctx context.Context, userID, originalID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND retweeted_from = ?", userID, originalID).
		Delete(&models.Tweet{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tweetRepository) LikedTweetIDs(ctx context.Context, userID uint, tweetIDs []uint) (map[uint]struct{}, error) {
	if len(tweetIDs) == 0 {
		return map[uint]struct{}{}, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND tweet_id IN ?", userID, tweetIDs).
		Pluck("tweet_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return toSet(ids), nil
}

func (r *tweetRepository) RetweetedTweetIDs(ctx context.Context, userID uint, originalIDs []uint) (map[uint]struct{}, error) {
	if len(originalIDs) == 0 {
		return map[uint]struct{}{}, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Tweet{}).
		Where("user_id = ? AND retweeted_from IN ?", userID, originalIDs).
		Pluck("retweeted_from", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return toSet(ids), nil
}
