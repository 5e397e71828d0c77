package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestFollowRepository_Add(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	t.Run("Inserts Edge", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO follows").
			WithArgs(1, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Add(ctx, 1, 2)
		assert.NoError(t, err)
	})

	t.Run("Self Edge Is No-Op", func(t *testing.T) {
		// No SQL expected.
		err := repo.Add(ctx, 1, 1)
		assert.NoError(t, err)
	})

	t.Run("Duplicate Edge Succeeds", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO follows").
			WithArgs(1, 2).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Add(ctx, 1, 2)
		assert.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_Remove(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "follows" WHERE follower_id = $1 AND followee_id = $2`)).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Removing a missing edge is still a success.
	err := repo.Remove(ctx, 1, 2)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockRepository_BlockedSet(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBlockRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT blocker_id AS id FROM blocks").
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3).AddRow(8))

	blocked, err := repo.BlockedSet(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, blocked, 2)
	assert.Contains(t, blocked, uint(3))
	assert.Contains(t, blocked, uint(8))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_FollowedSet(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "followee_id" FROM "follows" WHERE follower_id = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"followee_id"}).AddRow(2))

	followed, err := repo.FollowedSet(ctx, 1)
	assert.NoError(t, err)
	assert.Contains(t, followed, uint(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
