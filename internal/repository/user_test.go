package repository

import (
	"testing"

	"github.com/gravityplay/gravity-backend/internal/entity"
	"github.com/gravityplay/gravity-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	userRepo := NewUserRepository(st.Storage)

	// Given: a logged-in user
	user := &entity.User{ID: "123", Nickname: "SwiftFox42", Avatar: "🦊"}

	// When: CreateOrUpdate is called
	err := userRepo.CreateOrUpdate(ctx, user)

	// Then: the user is stored and counted as online
	require.NoError(t, err)

	count, err := userRepo.CountOnline(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUserRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		userRepo := NewUserRepository(st.Storage)

		user := &entity.User{ID: "123", Nickname: "CalmBear7"}
		require.NoError(t, userRepo.CreateOrUpdate(ctx, user))

		// When: GetByID is called with an existing ID
		retrieved, err := userRepo.GetByID(ctx, user.ID)

		// Then: the retrieved user matches the saved one
		require.NoError(t, err)
		assert.Equal(t, user, retrieved)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		userRepo := NewUserRepository(st.Storage)

		// When: GetByID is called with a non-existent ID
		retrieved, err := userRepo.GetByID(ctx, "9999999")

		// Then: ErrUserNotFound is returned
		require.Error(t, err)
		assert.Equal(t, ErrUserNotFound, err)
		assert.Nil(t, retrieved)
	})
}

func TestUserRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	userRepo := NewUserRepository(st.Storage)

	user := &entity.User{ID: "123"}
	require.NoError(t, userRepo.CreateOrUpdate(ctx, user))

	// When: the user disconnects
	require.NoError(t, userRepo.DeleteByID(ctx, user.ID))

	// Then: the user is gone and no longer counted
	_, err := userRepo.GetByID(ctx, user.ID)
	assert.Equal(t, ErrUserNotFound, err)

	count, err := userRepo.CountOnline(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUserRepository_List(t *testing.T) {
	ctx, st := suite.New(t)

	userRepo := NewUserRepository(st.Storage)

	require.NoError(t, userRepo.CreateOrUpdate(ctx, &entity.User{ID: "1", Nickname: "HappyPanda1"}))
	require.NoError(t, userRepo.CreateOrUpdate(ctx, &entity.User{ID: "2", Nickname: "BraveWolf2"}))

	// When: listing online users
	users, err := userRepo.List(ctx)

	// Then: both users are returned
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
