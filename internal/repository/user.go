// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"chirper/internal/models"

	"gorm.io/gorm"
)

// DuplicateField names which signup identifier collided with an
// existing account.
type DuplicateField string

const (
	// DuplicateNone means neither username nor email is taken.
	DuplicateNone DuplicateField = ""
	// DuplicateUsername means the username is taken. Reported with
	// priority over email when both collide.
	DuplicateUsername DuplicateField = "username"
	// DuplicateEmail means the email is taken.
	DuplicateEmail DuplicateField = "email"
)

// ProfileUpdate carries a partial profile edit. A nil field means
// "leave untouched"; a pointer to the empty string clears the field.
type ProfileUpdate struct {
	Bio      *string
	Username *string
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	FindDuplicate(ctx context.Context, username, email string) (DuplicateField, error)
	IsUsernameTakenByOther(ctx context.Context, username string, excludeID uint) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*models.User, error)
	UpdateProfilePicture(ctx context.Context, id uint, path string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID resolves a user by id. Absence is reported as (nil, nil).
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// FindByLogin resolves a single identifier, username or email, to the
// full record including the credential hash. Absence is (nil, nil) so
// callers cannot distinguish "no such user" from "wrong password".
func (r *userRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// FindDuplicate reports which of the two signup identifiers is already
// taken. Username takes priority when both collide with different rows.
func (r *userRepository) FindDuplicate(ctx context.Context, username, email string) (DuplicateField, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Select("id", "username", "email").
		Where("username = ? OR email = ?", username, email).
		Find(&users).Error; err != nil {
		return DuplicateNone, models.NewInternalError(err)
	}
	if len(users) == 0 {
		return DuplicateNone, nil
	}
	for _, u := range users {
		if u.Username == username {
			return DuplicateUsername, nil
		}
	}
	return DuplicateEmail, nil
}

func (r *userRepository) IsUsernameTakenByOther(ctx context.Context, username string, excludeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ? AND id != ?", username, excludeID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// UpdateProfile applies a partial edit and returns the fresh record.
// Fields absent from the update are left untouched.
func (r *userRepository) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*models.User, error) {
	changes := map[string]interface{}{}
	if update.Bio != nil {
		changes["bio"] = *update.Bio
	}
	if update.Username != nil {
		changes["username"] = *update.Username
	}
	if len(changes) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.User{}).
			Where("id = ?", id).
			Updates(changes).Error; err != nil {
			if isUniqueConstraintError(err) {
				return nil, models.NewConflictError("Username already taken")
			}
			return nil, models.NewInternalError(err)
		}
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) UpdateProfilePicture(ctx context.Context, id uint, path string) (*models.User, error) {
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("profile_picture", path).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return r.GetByID(ctx, id)
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
