package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apitokenDomain "github.com/orderloop/orderloop/internal/apitoken/domain"
	"github.com/orderloop/orderloop/internal/testutil"
)

func TestMySQLAPITokenRepository_Integration(t *testing.T) {
	testutil.SkipIfNoMySQL(t)

	ctx := context.Background()
	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLAPITokenRepository(db)

	t.Run("create and lookup round trips binary ids", func(t *testing.T) {
		// The fixture inserts the user the same way the repositories write
		// UUIDs, so the foreign key and the user_id lookup must both match.
		userID := testutil.CreateTestUser(t, db, "mysql", "token-holder")
		token := newStoredToken(userID, "mysql-hash-one", apitokenDomain.ModeProduction)

		require.NoError(t, repo.Create(ctx, token))

		byHash, err := repo.GetByTokenHash(ctx, "mysql-hash-one", apitokenDomain.ModeProduction)
		require.NoError(t, err)
		assert.Equal(t, token.ID, byHash.ID)
		assert.Equal(t, userID, byHash.UserID)

		byUser, err := repo.GetByUserAndMode(ctx, userID, apitokenDomain.ModeProduction)
		require.NoError(t, err)
		assert.Equal(t, "mysql-hash-one", byUser.TokenHash)
	})

	t.Run("hash lookup is mode scoped", func(t *testing.T) {
		userID := testutil.CreateTestUser(t, db, "mysql", "mode-scoped")
		require.NoError(t, repo.Create(ctx, newStoredToken(userID, "mysql-hash-scoped", apitokenDomain.ModeTest)))

		_, err := repo.GetByTokenHash(ctx, "mysql-hash-scoped", apitokenDomain.ModeProduction)
		assert.ErrorIs(t, err, apitokenDomain.ErrAPITokenNotFound)
	})

	t.Run("one token per user and mode", func(t *testing.T) {
		userID := testutil.CreateTestUser(t, db, "mysql", "single-token")
		require.NoError(t, repo.Create(ctx, newStoredToken(userID, "mysql-hash-first", apitokenDomain.ModeProduction)))

		// Same (user, mode) violates the unique constraint.
		err := repo.Create(ctx, newStoredToken(userID, "mysql-hash-second", apitokenDomain.ModeProduction))
		assert.Error(t, err)

		// A different mode is fine.
		require.NoError(t, repo.Create(ctx, newStoredToken(userID, "mysql-hash-test-mode", apitokenDomain.ModeTest)))
	})

	t.Run("delete by user and mode reports removed rows", func(t *testing.T) {
		userID := testutil.CreateTestUser(t, db, "mysql", "revoked-user")
		require.NoError(t, repo.Create(ctx, newStoredToken(userID, "mysql-hash-revoked", apitokenDomain.ModeProduction)))

		removed, err := repo.DeleteByUserAndMode(ctx, userID, apitokenDomain.ModeProduction)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		removed, err = repo.DeleteByUserAndMode(ctx, userID, apitokenDomain.ModeProduction)
		require.NoError(t, err)
		assert.Equal(t, int64(0), removed)

		_, err = repo.GetByUserAndMode(ctx, userID, apitokenDomain.ModeProduction)
		assert.ErrorIs(t, err, apitokenDomain.ErrAPITokenNotFound)
	})

	t.Run("delete by token hash", func(t *testing.T) {
		userID := testutil.CreateTestUser(t, db, "mysql", "hash-revoked-user")
		require.NoError(t, repo.Create(ctx, newStoredToken(userID, "mysql-hash-to-delete", apitokenDomain.ModeTest)))

		removed, err := repo.DeleteByTokenHash(ctx, "mysql-hash-to-delete")
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		removed, err = repo.DeleteByTokenHash(ctx, "mysql-hash-to-delete")
		require.NoError(t, err)
		assert.Equal(t, int64(0), removed)
	})
}
