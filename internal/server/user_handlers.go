package server

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"chirper/internal/middleware"
	"chirper/internal/models"
	"chirper/internal/repository"
	"chirper/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

const maxAvatarBytes = 2 * 1024 * 1024

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User"))
	}
	return c.JSON(fiber.Map{"user": user})
}

// UpdateMyProfile handles PATCH /api/users/me. Absent fields are left
// untouched; only fields present in the body are written.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Bio      *string `json:"bio"`
		Username *string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username != nil {
		if err := validation.ValidateUsername(*req.Username); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		taken, err := s.userRepo.IsUsernameTakenByOther(c.UserContext(), *req.Username, userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if taken {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError("Username already taken"))
		}
	}

	user, err := s.userRepo.UpdateProfile(c.UserContext(), userID, repository.ProfileUpdate{
		Bio:      req.Bio,
		Username: req.Username,
	})
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == "CONFLICT" {
			return models.RespondWithError(c, fiber.StatusConflict, appErr)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// UpdateAvatar handles PATCH /api/users/me/avatar. Accepts a multipart
// upload under the "profilePicture" field, capped at 2MB. Content is
// sniffed, not trusted from the declared mime type.
func (s *Server) UpdateAvatar(c *fiber.Ctx) error {
	userID := currentUserID(c)

	file, err := c.FormFile("profilePicture")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}
	if file.Size > maxAvatarBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image must be 2MB or smaller"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(io.LimitReader(src, maxAvatarBytes+1))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	if len(content) > maxAvatarBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image must be 2MB or smaller"))
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File must be a JPEG, PNG, GIF or WebP image"))
	}

	name := fmt.Sprintf("%s.%s", strings.ReplaceAll(uuid.New().String(), "-", ""), format)
	dst := filepath.Join(s.config.UploadDir, name)
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	previous, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	user, err := s.userRepo.UpdateProfilePicture(c.UserContext(), userID, "/uploads/"+name)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	// Best effort cleanup of the replaced file.
	if previous != nil && strings.HasPrefix(previous.ProfilePicture, "/uploads/") {
		old := filepath.Join(s.config.UploadDir, filepath.Base(previous.ProfilePicture))
		if rmErr := os.Remove(old); rmErr != nil && !os.IsNotExist(rmErr) {
			middleware.Logger.WarnContext(c.UserContext(), "failed to remove old avatar",
				"path", old, "error", rmErr)
		}
	}

	return c.JSON(fiber.Map{"user": user})
}

// Follow handles POST /api/users/:id/follow
func (s *Server) Follow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "User")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if targetID == userID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cannot follow yourself"))
	}

	target, err := s.userRepo.GetByID(c.UserContext(), targetID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if target == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User"))
	}

	if err := s.followRepo.Add(c.UserContext(), userID, targetID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Unfollow handles DELETE /api/users/:id/follow
func (s *Server) Unfollow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "User")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if targetID == userID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cannot unfollow yourself"))
	}

	if err := s.followRepo.Remove(c.UserContext(), userID, targetID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Block handles POST /api/users/:id/block
func (s *Server) Block(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "User")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if targetID == userID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cannot block yourself"))
	}

	target, err := s.userRepo.GetByID(c.UserContext(), targetID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if target == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User"))
	}

	if err := s.blockRepo.Add(c.UserContext(), userID, targetID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Unblock handles DELETE /api/users/:id/block
func (s *Server) Unblock(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "User")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if targetID == userID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cannot unblock yourself"))
	}

	if err := s.blockRepo.Remove(c.UserContext(), userID, targetID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
