package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/finmate/backend/internal/models"
	"github.com/anonto42/finmate/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_ListIDsByRole(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	ids, err := repo.ListIDsByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, ids)

	a1 := testutil.CreateUser(t, db, "admin1", models.RoleAdmin, "en")
	a2 := testutil.CreateUser(t, db, "admin2", models.RoleAdmin, "hi")
	testutil.CreateUser(t, db, "advisor", models.RoleAdvisor, "en")

	ids, err = repo.ListIDsByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a1.ID, a2.ID}, ids)
}

func TestUserRepository_Lookups(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	uid := "firebase-uid-1"
	user := &models.User{Name: "Priya", Email: "priya@example.com", Role: models.RoleEndUser, Language: "hi", FirebaseUID: &uid}
	require.NoError(t, repo.CreateUser(ctx, user))
	require.NotEmpty(t, user.ID)

	byID, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", byID.Language)

	byEmail, err := repo.GetUserByEmail(ctx, "priya@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byUID, err := repo.GetUserByFirebaseUID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUID.ID)

	_, err = repo.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
