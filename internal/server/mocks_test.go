package server

import (
	"context"
	"testing"
	"time"

	"chirper/internal/config"
	"chirper/internal/models"
	"chirper/internal/repository"
	"chirper/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindDuplicate(ctx context.Context, username, email string) (repository.DuplicateField, error) {
	args := m.Called(ctx, username, email)
	return args.Get(0).(repository.DuplicateField), args.Error(1)
}

func (m *MockUserRepository) IsUsernameTakenByOther(ctx context.Context, username string, excludeID uint) (bool, error) {
	args := m.Called(ctx, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uint, update repository.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfilePicture(ctx context.Context, id uint, path string) (*models.User, error) {
	args := m.Called(ctx, id, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockTweetRepository is a mock of the TweetRepository interface
type MockTweetRepository struct {
	mock.Mock
}

func (m *MockTweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	args := m.Called(ctx, tweet)
	return args.Error(0)
}

func (m *MockTweetRepository) GetByID(ctx context.Context, id uint) (*models.Tweet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tweet), args.Error(1)
}

func (m *MockTweetRepository) DeleteByOwner(ctx context.Context, tweetID, requesterID uint) (bool, error) {
	args := m.Called(ctx, tweetID, requesterID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTweetRepository) Like(ctx context.Context, tweetID, userID uint) error {
	args := m.Called(ctx, tweetID, userID)
	return args.Error(0)
}

func (m *MockTweetRepository) Unlike(ctx context.Context, tweetID, userID uint) error {
	args := m.Called(ctx, tweetID, userID)
	return args.Error(0)
}

func (m *MockTweetRepository) CreateRetweet(ctx context.Context, userID, originalID uint) (*models.Tweet, error) {
	args := m.Called(ctx, userID, originalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tweet), args.Error(1)
}

func (m *MockTweetRepository) DeleteRetweet(ctx context.Context, userID, originalID uint) error {
	args := m.Called(ctx, userID, originalID)
	return args.Error(0)
}

func (m *MockTweetRepository) LikedTweetIDs(ctx context.Context, userID uint, tweetIDs []uint) (map[uint]struct{}, error) {
	args := m.Called(ctx, userID, tweetIDs)
	return args.Get(0).(map[uint]struct{}), args.Error(1)
}

func (m *MockTweetRepository) RetweetedTweetIDs(ctx context.Context, userID uint, originalIDs []uint) (map[uint]struct{}, error) {
	args := m.Called(ctx, userID, originalIDs)
	return args.Get(0).(map[uint]struct{}), args.Error(1)
}

// MockFollowRepository is a mock of the FollowRepository interface
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Add(ctx context.Context, followerID, followeeID uint) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *MockFollowRepository) Remove(ctx context.Context, followerID, followeeID uint) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *MockFollowRepository) FollowedSet(ctx context.Context, viewerID uint) (map[uint]struct{}, error) {
	args := m.Called(ctx, viewerID)
	return args.Get(0).(map[uint]struct{}), args.Error(1)
}

// MockBlockRepository is a mock of the BlockRepository interface
type MockBlockRepository struct {
	mock.Mock
}

func (m *MockBlockRepository) Add(ctx context.Context, blockerID, blockedID uint) error {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Error(0)
}

func (m *MockBlockRepository) Remove(ctx context.Context, blockerID, blockedID uint) error {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Error(0)
}

func (m *MockBlockRepository) BlockedSet(ctx context.Context, viewerID uint) (map[uint]struct{}, error) {
	args := m.Called(ctx, viewerID)
	return args.Get(0).(map[uint]struct{}), args.Error(1)
}

// MockFeedRepository is a mock of the FeedRepository interface
type MockFeedRepository struct {
	mock.Mock
}

func (m *MockFeedRepository) Feed(ctx context.Context, viewerID uint, params repository.FeedParams) ([]models.FeedEntry, error) {
	args := m.Called(ctx, viewerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FeedEntry), args.Error(1)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:            "0",
		BcryptCost:      bcrypt.MinCost,
		SessionTTLHours: 1,
		UploadDir:       t.TempDir(),
		Env:             "test",
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return &Server{
		config:   testConfig(t),
		sessions: session.NewMemoryStore(time.Hour),
	}
}

// asUser injects an authenticated user without a real session, for
// routes registered directly in tests.
func asUser(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}
