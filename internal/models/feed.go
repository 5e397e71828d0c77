// Package models contains data structures for the application's domain models.
package models

import "time"

// OriginalTweet is the nested original content attached to a retweet
// entry when the original row still exists.
type OriginalTweet struct {
	ID        uint          `json:"id"`
	Text      *string       `json:"text"`
	CreatedAt time.Time     `json:"created_at"`
	Author    PublicProfile `json:"author"`
}

// FeedEntry is one row of the composed feed: the tweet, its author's
// public profile, the viewer's like/retweet state and, for retweets,
// the original tweet when it survives.
type FeedEntry struct {
	ID            uint           `json:"id"`
	UserID        uint           `json:"user_id"`
	Text          *string        `json:"text"`
	CreatedAt     time.Time      `json:"created_at"`
	RetweetedFrom *uint          `json:"retweeted_from"`
	Author        PublicProfile  `json:"author"`
	Liked         bool           `json:"liked"`
	Retweeted     bool           `json:"retweeted"`
	OriginalTweet *OriginalTweet `json:"originalTweet,omitempty"`
}

// CanonicalID is the id used for the viewer's "retweeted" check: the
// original's id for a retweet, the entry's own id otherwise.
func (e *FeedEntry) CanonicalID() uint {
	if e.RetweetedFrom != nil {
		return *e.RetweetedFrom
	}
	return e.ID
}
