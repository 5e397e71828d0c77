package repository

import (
	"context"

	"chirper/internal/models"

	"gorm.io/gorm"
)

// FollowRepository manages the directed follow edge set.
type FollowRepository interface {
	// Add inserts the edge. Self-edges are a no-op; adding an existing
	// edge succeeds without duplicating the row.
	Add(ctx context.Context, followerID, followeeID uint) error
	// Remove deletes the edge; removing a missing edge is a silent success.
	Remove(ctx context.Context, followerID, followeeID uint) error
	// FollowedSet returns the ids the viewer follows.
	FollowedSet(ctx context.Context, viewerID uint) (map[uint]struct{}, error)
}

// BlockRepository manages the directed block edge set.
type BlockRepository interface {
	Add(ctx context.Context, blockerID, blockedID uint) error
	Remove(ctx context.Context, blockerID, blockedID uint) error
	// BlockedSet returns the ids blocked-by-or-blocking the viewer,
	// the union of both edge directions.
	BlockedSet(ctx context.Context, viewerID uint) (map[uint]struct{}, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Add(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return nil
	}
	// ON CONFLICT DO NOTHING keeps concurrent identical requests from
	// erroring; exactly one edge row survives.
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (follower_id, followee_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (follower_id, followee_id) DO NOTHING`,
		followerID, followeeID,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) Remove(ctx context.Context, followerID, followeeID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) FollowedSet(ctx context.Context, viewerID uint) (map[uint]struct{}, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", viewerID).
		Pluck("followee_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return toSet(ids), nil
}

type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new block repository.
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) Add(ctx context.Context, blockerID, blockedID uint) error {
	if blockerID == blockedID {
		return nil
	}
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO blocks (blocker_id, blocked_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (blocker_id, blocked_id) DO NOTHING`,
		blockerID, blockedID,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blockRepository) Remove(ctx context.Context, blockerID, blockedID uint) error {
	err := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blockRepository) BlockedSet(ctx context.Context, viewerID uint) (map[uint]struct{}, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Raw(
		`SELECT blocker_id AS id FROM blocks WHERE blocked_id = ?
		 UNION
		 SELECT blocked_id AS id FROM blocks WHERE blocker_id = ?`,
		viewerID, viewerID,
	).Scan(&ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return toSet(ids), nil
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
