package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavelinehq/waveline/internal/apperrors"
	"github.com/wavelinehq/waveline/internal/dto"
	"github.com/wavelinehq/waveline/internal/models"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfileFansOutToReplySnapshots(t *testing.T) {
	db := setupTestDB(t)
	store := &mockAssetStore{}
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	posts := NewPostService(db, store, NewModerationService(db, nil, store))
	users := NewUserService(db, store)

	p1, err := posts.CreatePost(context.Background(), alice.ID, "first", nil, "")
	require.NoError(t, err)
	p2, err := posts.CreatePost(context.Background(), alice.ID, "second", nil, "")
	require.NoError(t, err)

	_, err = posts.ReplyToPost(bob.ID, p1.ID, "on first")
	require.NoError(t, err)
	_, err = posts.ReplyToPost(bob.ID, p2.ID, "on second")
	require.NoError(t, err)
	_, err = posts.ReplyToPost(alice.ID, p1.ID, "self reply")
	require.NoError(t, err)

	_, err = users.UpdateProfile(context.Background(), bob.ID, &dto.UpdateProfileRequest{
		DisplayName: strPtr("Bobby"),
	}, nil, "")
	require.NoError(t, err)

	var bobReplies []models.Reply
	require.NoError(t, db.Find(&bobReplies, "author_id = ?", bob.ID).Error)
	require.Len(t, bobReplies, 2)
	for _, r := range bobReplies {
		assert.Equal(t, "Bobby", r.AuthorDisplayName)
	}

	// Other authors' snapshots are untouched.
	var aliceReply models.Reply
	require.NoError(t, db.First(&aliceReply, "author_id = ?", alice.ID).Error)
	assert.Equal(t, "alice", aliceReply.AuthorDisplayName)
}

func TestUpdateProfileAvatarStoredAndPropagated(t *testing.T) {
	db := setupTestDB(t)
	store := &mockAssetStore{}
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	posts := NewPostService(db, store, NewModerationService(db, nil, store))
	users := NewUserService(db, store)

	p, err := posts.CreatePost(context.Background(), alice.ID, "hello", nil, "")
	require.NoError(t, err)
	_, err = posts.ReplyToPost(bob.ID, p.ID, "hi")
	require.NoError(t, err)

	updated, err := users.UpdateProfile(context.Background(), bob.ID, &dto.UpdateProfileRequest{},
		[]byte("fake-png-bytes"), "image/png")
	require.NoError(t, err)
	require.Len(t, store.stored, 1)
	assert.Equal(t, store.stored[0], updated.AvatarURL)

	var reply models.Reply
	require.NoError(t, db.First(&reply, "author_id = ?", bob.ID).Error)
	assert.Equal(t, updated.AvatarURL, reply.AuthorAvatarURL)
}

func TestUpdateProfileAvatarStoreFailure(t *testing.T) {
	db := setupTestDB(t)
	store := &mockAssetStore{
		storeFunc: func(ctx context.Context, data []byte, contentType string) (string, error) {
			return "", errors.New("bucket unavailable")
		},
	}
	alice := createTestUser(t, db, "alice")

	users := NewUserService(db, store)
	_, err := users.UpdateProfile(context.Background(), alice.ID, &dto.UpdateProfileRequest{},
		[]byte("bytes"), "image/png")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindDependency, apperrors.KindOf(err))
}

func TestUpdateProfileRejectsBlankDisplayName(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")

	users := NewUserService(db, &mockAssetStore{})
	_, err := users.UpdateProfile(context.Background(), alice.ID, &dto.UpdateProfileRequest{
		DisplayName: strPtr("   "),
	}, nil, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestGetProfileEdgeLists(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	follows := NewFollowService(db)
	users := NewUserService(db, &mockAssetStore{})

	_, err := follows.FollowToggle(bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = follows.FollowToggle(carol.ID, alice.ID)
	require.NoError(t, err)
	_, err = follows.FollowToggle(alice.ID, bob.ID)
	require.NoError(t, err)

	profile, err := users.GetProfile(alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{bob.ID, carol.ID}, profile.Followers)
	assert.ElementsMatch(t, []uuid.UUID{bob.ID}, profile.Following)
	assert.Equal(t, 2, profile.FollowerCount)
	assert.Equal(t, 1, profile.FollowingCount)

	_, err = users.GetProfile(uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestFreezeToggle(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")

	users := NewUserService(db, &mockAssetStore{})

	frozen, err := users.FreezeToggle(alice.ID)
	require.NoError(t, err)
	assert.True(t, frozen)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", alice.ID).Error)
	assert.True(t, reloaded.IsFrozen)

	frozen, err = users.FreezeToggle(alice.ID)
	require.NoError(t, err)
	assert.False(t, frozen)

	_, err = users.FreezeToggle(uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
