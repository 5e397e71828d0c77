package server

import (
	"errors"
	"strings"
	"unicode/utf8"

	"chirper/internal/models"
	"chirper/internal/observability"
	"chirper/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// CreateTweet handles POST /api/tweets
func (s *Server) CreateTweet(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// The limit counts code points, not bytes.
	if utf8.RuneCountInString(req.Text) > models.MaxTweetTextLength {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Tweet text must be 240 characters or fewer"))
	}

	tweet := &models.Tweet{UserID: userID}
	if strings.TrimSpace(req.Text) != "" {
		tweet.Text = &req.Text
	}

	if err := s.tweetRepo.Create(c.UserContext(), tweet); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	observability.TweetsCreated.WithLabelValues("tweet").Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"tweet": tweet,
	})
}

// DeleteTweet handles DELETE /api/tweets/:id. Only the author may
// delete; a 404 for a missing tweet is distinguished from a 403 for
// someone else's tweet.
func (s *Server) DeleteTweet(c *fiber.Ctx) error {
	tweetID, err := s.parseID(c, "Tweet")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	deleted, err := s.tweetRepo.DeleteByOwner(c.UserContext(), tweetID, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if !deleted {
		tweet, getErr := s.tweetRepo.GetByID(c.UserContext(), tweetID)
		if getErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, getErr)
		}
		if tweet == nil {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Tweet"))
		}
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only delete your own tweets"))
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// LikeTweet handles POST /api/tweets/:id/like
func (s *Server) LikeTweet(c *fiber.Ctx) error {
	tweetID, err := s.parseID(c, "Tweet")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	tweet, err := s.tweetRepo.GetByID(c.UserContext(), tweetID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if tweet == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Tweet"))
	}

	if err := s.tweetRepo.Like(c.UserContext(), tweetID, userID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnlikeTweet handles DELETE /api/tweets/:id/like. Unliking a tweet
// that was never liked, or no longer exists, is still a success.
func (s *Server) UnlikeTweet(c *fiber.Ctx) error {
	tweetID, err := s.parseID(c, "Tweet")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.tweetRepo.Unlike(c.UserContext(), tweetID, userID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Retweet handles POST /api/tweets/:id/retweet. Retweeting a retweet
// attaches to its original, so the same content cannot be amplified
// twice by one user through different rows.
func (s *Server) Retweet(c *fiber.Ctx) error {
	tweetID, err := s.parseID(c, "Tweet")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	tweet, err := s.tweetRepo.GetByID(c.UserContext(), tweetID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if tweet == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Tweet"))
	}

	retweet, err := s.tweetRepo.CreateRetweet(c.UserContext(), userID, tweet.CanonicalID())
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyRetweeted) {
			return models.RespondWithError(c, fiber.StatusConflict, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	observability.TweetsCreated.WithLabelValues("retweet").Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"tweet": retweet,
	})
}

// Unretweet handles DELETE /api/tweets/:id/retweet. Removing an absent
// retweet is still a success.
func (s *Server) Unretweet(c *fiber.Ctx) error {
	tweetID, err := s.parseID(c, "Tweet")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	originalID := tweetID
	tweet, err := s.tweetRepo.GetByID(c.UserContext(), tweetID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if tweet != nil {
		originalID = tweet.CanonicalID()
	}

	if err := s.tweetRepo.DeleteRetweet(c.UserContext(), userID, originalID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
