// Package models contains data structures for the application's domain models.
package models

import "time"

// Follow is a directed edge: follower sees followee's content first.
// The pair is unique; self-edges are never stored.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID" json:"-"`
	Followee User `gorm:"foreignKey:FolloweeID" json:"-"`
}

// TableName specifies the table name for GORM.
func (Follow) TableName() string { return "follows" }

// Block is a directed edge whose visibility effect is symmetric: both
// users disappear from each other's feeds regardless of direction.
type Block struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BlockerID uint      `gorm:"not null;uniqueIndex:idx_block_pair" json:"blocker_id"`
	BlockedID uint      `gorm:"not null;uniqueIndex:idx_block_pair" json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`

	Blocker User `gorm:"foreignKey:BlockerID" json:"-"`
	Blocked User `gorm:"foreignKey:BlockedID" json:"-"`
}

// TableName specifies the table name for GORM.
func (Block) TableName() string { return "blocks" }

// Like marks a user's like on a tweet. The (tweet_id, user_id) pair is
// unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TweetID   uint      `gorm:"not null;uniqueIndex:idx_like_pair" json:"tweet_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_pair" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Tweet Tweet `gorm:"foreignKey:TweetID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for GORM.
func (Like) TableName() string { return "likes" }
