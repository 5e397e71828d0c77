package server

import (
	"chirper/internal/models"
	"chirper/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed. Supports limit/offset pagination and
// a "before" tweet-id cursor; when both are sent the cursor wins.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, defaultPageLimit)

	before := c.QueryInt("before", 0)
	if before < 0 {
		before = 0
	}

	entries, err := s.feedRepo.Feed(c.UserContext(), userID, repository.FeedParams{
		Limit:  page.Limit,
		Offset: page.Offset,
		Before: uint(before),
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if entries == nil {
		entries = []models.FeedEntry{}
	}
	return c.JSON(fiber.Map{
		"feed": entries,
	})
}
