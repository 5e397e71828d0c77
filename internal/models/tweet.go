// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// MaxTweetTextLength is the maximum tweet length in Unicode code points.
const MaxTweetTextLength = 240

// Tweet is either an original (Text set, RetweetedFrom nil) or a
// retweet (Text nil, RetweetedFrom set). The partial unique index on
// (user_id, retweeted_from) guarantees a user holds at most one retweet
// row per original, so concurrent duplicate retweet requests cannot
// both insert.
type Tweet struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index;uniqueIndex:idx_user_retweet,where:retweeted_from IS NOT NULL" json:"user_id"`
	Text          *string   `gorm:"type:varchar(240)" json:"text"`
	RetweetedFrom *uint     `gorm:"uniqueIndex:idx_user_retweet,where:retweeted_from IS NOT NULL" json:"retweeted_from"`
	CreatedAt     time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// IsRetweet reports whether the row points at an original tweet.
func (t *Tweet) IsRetweet() bool {
	return t.RetweetedFrom != nil
}

// CanonicalID is the id of the underlying content: the original's id
// for a retweet, the tweet's own id otherwise.
func (t *Tweet) CanonicalID() uint {
	if t.RetweetedFrom != nil {
		return *t.RetweetedFrom
	}
	return t.ID
}
