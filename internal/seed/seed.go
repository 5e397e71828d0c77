// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"chirper/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumTweets   int
	ShouldClean bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	log.Printf("Starting database seeding with %d users and %d tweets...", opts.NumUsers, opts.NumTweets)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d test users created", len(users))

	tweets, err := createTweets(db, users, opts.NumTweets)
	if err != nil {
		return fmt.Errorf("failed to create tweets: %w", err)
	}
	log.Printf("%d tweets created", len(tweets))

	if err := createSocialMesh(db, users); err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}

	if err := createEngagement(db, users, tweets); err != nil {
		return fmt.Errorf("failed to create likes and retweets: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE likes, follows, blocks, tweets, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

// NewUser builds an unsaved user with realistic fake data.
func NewUser(passwordHash string) models.User {
	name := gofakeit.Name()
	return models.User{
		Username:     strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:        gofakeit.Email(),
		PasswordHash: passwordHash,
		Name:         &name,
		Bio:          gofakeit.Sentence(10),
	}
}

// NewTweet builds an unsaved tweet for the given author.
func NewTweet(userID uint) models.Tweet {
	text := gofakeit.Sentence(gofakeit.Number(5, 25))
	if len([]rune(text)) > models.MaxTweetTextLength {
		text = string([]rune(text)[:models.MaxTweetTextLength])
	}
	return models.Tweet{
		UserID: userID,
		Text:   &text,
	}
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	users := make([]models.User, 0, count)

	// A predictable account for manual testing.
	if count > 0 {
		test := models.User{
			Username:     "test",
			Email:        "test@example.com",
			PasswordHash: string(hashedPassword),
			Bio:          "Seed account.",
		}
		if err := db.Create(&test).Error; err != nil {
			return nil, err
		}
		users = append(users, test)
	}

	for len(users) < count {
		user := NewUser(string(hashedPassword))
		if err := db.Create(&user).Error; err != nil {
			// Fake usernames occasionally collide; retry with a fresh one.
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

func createTweets(db *gorm.DB, users []models.User, count int) ([]models.Tweet, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	tweets := make([]models.Tweet, 0, count)
	for i := 0; i < count; i++ {
		tweet := NewTweet(users[r.Intn(len(users))].ID)
		if err := db.Create(&tweet).Error; err != nil {
			return nil, err
		}
		tweets = append(tweets, tweet)
	}
	return tweets, nil
}

func createSocialMesh(db *gorm.DB, users []models.User) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, user := range users {
		follows := r.Intn(len(users)/2 + 1)
		for i := 0; i < follows; i++ {
			target := users[r.Intn(len(users))]
			if target.ID == user.ID {
				continue
			}
			err := db.Exec(
				"INSERT INTO follows (follower_id, followee_id, created_at) VALUES (?, ?, NOW()) ON CONFLICT (follower_id, followee_id) DO NOTHING",
				user.ID, target.ID,
			).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func createEngagement(db *gorm.DB, users []models.User, tweets []models.Tweet) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, user := range users {
		likes := r.Intn(len(tweets)/4 + 1)
		for i := 0; i < likes; i++ {
			tweet := tweets[r.Intn(len(tweets))]
			err := db.Exec(
				"INSERT INTO likes (tweet_id, user_id, created_at) VALUES (?, ?, NOW()) ON CONFLICT (tweet_id, user_id) DO NOTHING",
				tweet.ID, user.ID,
			).Error
			if err != nil {
				return err
			}
		}

		retweets := r.Intn(len(tweets)/10 + 1)
		for i := 0; i < retweets; i++ {
			original := tweets[r.Intn(len(tweets))]
			if original.UserID == user.ID {
				continue
			}
			retweet := models.Tweet{
				UserID:        user.ID,
				RetweetedFrom: &original.ID,
			}
			// Duplicate retweets trip the partial unique index; skip them.
			_ = db.Create(&retweet).Error
		}
	}
	return nil
}
