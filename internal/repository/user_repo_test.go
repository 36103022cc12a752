package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"clipvault/internal/database"
	"clipvault/internal/domain"
)

func setupUserRepo(t *testing.T) (*UserRepository, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return NewUserRepository(db), db
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, _ := setupUserRepo(t)

	first := &domain.User{PublicID: "pub-1", Email: "a@x.com", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), first))
	require.NotZero(t, first.ID)

	second := &domain.User{PublicID: "pub-2", Email: "a@x.com", IsActive: true}
	err := repo.Create(context.Background(), second)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserRepository_GetByEmailAndID(t *testing.T) {
	repo, _ := setupUserRepo(t)

	u := &domain.User{PublicID: "pub-1", Email: "a@x.com", Name: "Ada", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), u))

	byEmail, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", byID.Name)

	_, err = repo.GetByEmail(context.Background(), "missing@x.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_TouchLastLogin(t *testing.T) {
	repo, _ := setupUserRepo(t)

	u := &domain.User{PublicID: "pub-1", Email: "a@x.com", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), u))
	require.Nil(t, u.LastLoginAt)

	before := time.Now().Add(-time.Second)
	require.NoError(t, repo.TouchLastLogin(context.Background(), u.ID))

	reloaded, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.True(t, reloaded.LastLoginAt.After(before))
}
