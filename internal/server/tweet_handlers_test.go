package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chirper/internal/models"
	"chirper/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTweetApp(t *testing.T, mockRepo *MockTweetRepository) *fiber.App {
	t.Helper()
	s := newTestServer(t)
	s.tweetRepo = mockRepo

	app := fiber.New()
	tweets := app.Group("/tweets", asUser(1))
	tweets.Post("/", s.CreateTweet)
	tweets.Post("/:id/like", s.LikeTweet)
	tweets.Delete("/:id/like", s.UnlikeTweet)
	tweets.Post("/:id/retweet", s.Retweet)
	tweets.Delete("/:id/retweet", s.Unretweet)
	tweets.Delete("/:id", s.DeleteTweet)
	return app
}

func TestCreateTweet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(tw *models.Tweet) bool {
			return tw.UserID == 1 && tw.Text != nil && *tw.Text == "hello"
		})).Return(nil)
		app := newTweetApp(t, mockRepo)

		resp := postJSON(t, app, "/tweets/", map[string]string{"text": "hello"})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Exactly 240 Code Points", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		app := newTweetApp(t, mockRepo)

		// Multi-byte runes prove the limit counts code points, not bytes.
		resp := postJSON(t, app, "/tweets/", map[string]string{"text": strings.Repeat("é", 240)})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("241 Code Points Rejected", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		app := newTweetApp(t, mockRepo)

		resp := postJSON(t, app, "/tweets/", map[string]string{"text": strings.Repeat("é", 241)})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Empty Text Stored As Null", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(tw *models.Tweet) bool {
			return tw.Text == nil
		})).Return(nil)
		app := newTweetApp(t, mockRepo)

		resp := postJSON(t, app, "/tweets/", map[string]string{"text": ""})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockRepo.AssertExpectations(t)
	})
}

func TestDeleteTweet(t *testing.T) {
	t.Run("Owner Deletes", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		mockRepo.On("DeleteByOwner", mock.Anything, uint(5), uint(1)).Return(true, nil)
		app := newTweetApp(t, mockRepo)

		req := httptest.NewRequest(http.MethodDelete, "/tweets/5", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("Someone Else's Tweet", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		mockRepo.On("DeleteByOwner", mock.Anything, uint(5), uint(1)).Return(false, nil)
		mockRepo.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Tweet{ID: 5, UserID: 2}, nil)
		app := newTweetApp(t, mockRepo)

		req := httptest.NewRequest(http.MethodDelete, "/tweets/5", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Missing Tweet", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		mockRepo.On("DeleteByOwner", mock.Anything, uint(99), uint(1)).Return(false, nil)
		mockRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, nil)
		app := newTweetApp(t, mockRepo)

		req := httptest.NewRequest(http.MethodDelete, "/tweets/99", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Malformed ID", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		app := newTweetApp(t, mockRepo)

		req := httptest.NewRequest(http.MethodDelete, "/tweets/abc", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestLikeTweet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		mockRepo.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Tweet{ID: 5, UserID: 2}, nil)
		mockRepo.On("Like", mock.Anything, uint(5), uint(1)).Return(nil)
		app := newTweetApp(t, mockRepo)

		req := httptest.NewRequest(http.MethodPost, "/tweets/5/like", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("Missing Tweet", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		mockRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, nil)
		app := newTweetApp(t, mockRepo)

		req := httptest.NewRequest(http.MethodPost, "/tweets/99/like", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockRepo.AssertNotCalled(t, "Like")
	})
}

func TestUnlikeTweet_AlwaysSucceeds(t *testing.T) {
	mockRepo := new(MockTweetRepository)
	mockRepo.On("Unlike", mock.Anything, uint(99), uint(1)).Return(nil)
	app := newTweetApp(t, mockRepo)

	// Even for a tweet that no longer exists.
	req := httptest.NewRequest(http.MethodDelete, "/tweets/99/like", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRetweet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		mockRepo.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Tweet{ID: 5, UserID: 2}, nil)
		orig := uint(5)
		mockRepo.On("CreateRetweet", mock.Anything, uint(1), uint(5)).
			Return(&models.Tweet{ID: 42, UserID: 1, RetweetedFrom: &orig}, nil)
		app := newTweetApp(t, mockRepo)

		req := httptest.NewRequest(http.MethodPost, "/tweets/5/retweet", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			Tweet models.Tweet `json:"tweet"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, uint(42), body.Tweet.ID)
		require.NotNil(t, body.Tweet.RetweetedFrom)
		assert.Equal(t, uint(5), *body.Tweet.RetweetedFrom)
	})

	t.Run("Retweet Of Retweet Collapses To Original", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		orig := uint(3)
		mockRepo.On("GetByID", mock.Anything, uint(10)).
			Return(&models.Tweet{ID: 10, UserID: 2, RetweetedFrom: &orig}, nil)
		mockRepo.On("CreateRetweet", mock.Anything, uint(1), uint(3)).
			Return(&models.Tweet{ID: 43, UserID: 1, RetweetedFrom: &orig}, nil)
		app := newTweetApp(t, mockRepo)

		req := httptest.NewRequest(http.MethodPost, "/tweets/10/retweet", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Already Retweeted", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		mockRepo.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Tweet{ID: 5, UserID: 2}, nil)
		mockRepo.On("CreateRetweet", mock.Anything, uint(1), uint(5)).
			Return(nil, repository.ErrAlreadyRetweeted)
		app := newTweetApp(t, mockRepo)

		req := httptest.NewRequest(http.MethodPost, "/tweets/5/retweet", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Missing Tweet", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		mockRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, nil)
		app := newTweetApp(t, mockRepo)

		req := httptest.NewRequest(http.MethodPost, "/tweets/99/retweet", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUnretweet(t *testing.T) {
	t.Run("Collapses To Original", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		orig := uint(3)
		mockRepo.On("GetByID", mock.Anything, uint(10)).
			Return(&models.Tweet{ID: 10, UserID: 2, RetweetedFrom: &orig}, nil)
		mockRepo.On("DeleteRetweet", mock.Anything, uint(1), uint(3)).Return(nil)
		app := newTweetApp(t, mockRepo)

		req := httptest.NewRequest(http.MethodDelete, "/tweets/10/retweet", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Original Already Deleted", func(t *testing.T) {
		mockRepo := new(MockTweetRepository)
		mockRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, nil)
		mockRepo.On("DeleteRetweet", mock.Anything, uint(1), uint(99)).Return(nil)
		app := newTweetApp(t, mockRepo)

		req := httptest.NewRequest(http.MethodDelete, "/tweets/99/retweet", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}
