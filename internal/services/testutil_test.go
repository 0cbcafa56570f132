package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wavelinehq/waveline/internal/classifier"
	"github.com/wavelinehq/waveline/internal/database"
	"github.com/wavelinehq/waveline/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.sqlite") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		ID:          uuid.New(),
		Username:    username,
		Email:       username + "@example.com",
		Password:    "not-a-real-hash",
		DisplayName: username,
		Role:        models.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestAdmin(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	admin := createTestUser(t, db, username)
	require.NoError(t, db.Model(admin).Update("role", models.RoleAdmin).Error)
	admin.Role = models.RoleAdmin
	return admin
}

// mockClassifier lets each test script the verdict.
type mockClassifier struct {
	classifyFunc func(ctx context.Context, text string, postID, authorID uuid.UUID) (*classifier.Verdict, error)
}

func (m *mockClassifier) Classify(ctx context.Context, text string, postID, authorID uuid.UUID) (*classifier.Verdict, error) {
	if m.classifyFunc != nil {
		return m.classifyFunc(ctx, text, postID, authorID)
	}
	return &classifier.Verdict{Flagged: false}, nil
}

// mockAssetStore records stored and deleted URLs.
type mockAssetStore struct {
	storeFunc  func(ctx context.Context, data []byte, contentType string) (string, error)
	deleteFunc func(ctx context.Context, url string) error
	stored     []string
	deleted    []string
}

func (m *mockAssetStore) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	if m.storeFunc != nil {
		url, err := m.storeFunc(ctx, data, contentType)
		if err == nil {
			m.stored = append(m.stored, url)
		}
		return url, err
	}
	url := "https://assets.test/" + uuid.NewString()
	m.stored = append(m.stored, url)
	return url, nil
}

func (m *mockAssetStore) Delete(ctx context.Context, url string) error {
	if m.deleteFunc != nil {
		if err := m.deleteFunc(ctx, url); err != nil {
			return err
		}
	}
	m.deleted = append(m.deleted, url)
	return nil
}
