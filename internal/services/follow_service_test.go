package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavelinehq/waveline/internal/apperrors"
	"github.com/wavelinehq/waveline/internal/models"
)

func TestFollowToggleCreatesSymmetricEdge(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	direction, err := svc.FollowToggle(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, DirectionFollowed, direction)

	// Both views of the edge must agree.
	following, err := svc.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	var followerIDs []uuid.UUID
	require.NoError(t, db.Model(&models.Follow{}).Where("followee_id = ?", bob.ID).Pluck("follower_id", &followerIDs).Error)
	assert.Equal(t, []uuid.UUID{alice.ID}, followerIDs)

	var aliceRow, bobRow models.User
	require.NoError(t, db.First(&aliceRow, "id = ?", alice.ID).Error)
	require.NoError(t, db.First(&bobRow, "id = ?", bob.ID).Error)
	assert.Equal(t, 1, aliceRow.FollowingCount)
	assert.Equal(t, 1, bobRow.FollowerCount)
}

func TestFollowToggleTwiceRestoresOriginalState(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.FollowToggle(alice.ID, bob.ID)
	require.NoError(t, err)

	direction, err := svc.FollowToggle(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, DirectionUnfollowed, direction)

	following, err := svc.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	var edgeCount int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&edgeCount).Error)
	assert.Zero(t, edgeCount)

	var aliceRow, bobRow models.User
	require.NoError(t, db.First(&aliceRow, "id = ?", alice.ID).Error)
	require.NoError(t, db.First(&bobRow, "id = ?", bob.ID).Error)
	assert.Zero(t, aliceRow.FollowingCount)
	assert.Zero(t, bobRow.FollowerCount)
}

func TestFollowToggleRejectsSelfFollow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)

	alice := createTestUser(t, db, "alice")

	_, err := svc.FollowToggle(alice.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestFollowToggleUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)

	alice := createTestUser(t, db, "alice")

	_, err := svc.FollowToggle(alice.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	_, err = svc.FollowToggle(uuid.New(), alice.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestFollowToggleIndependentDirections(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	// a->b and b->a are separate edges.
	_, err := svc.FollowToggle(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.FollowToggle(bob.ID, alice.ID)
	require.NoError(t, err)

	_, err = svc.FollowToggle(alice.ID, bob.ID)
	require.NoError(t, err)

	stillFollowing, err := svc.IsFollowing(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, stillFollowing)
}
