package storage

import (
	"context"
	"os"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatlinks/internal/domain"
)

// setupTestDB creates a BadgerDB repository in a temporary directory.
func setupTestDB(t *testing.T) (*BadgerRepository, func()) {
	t.Helper()

	testLogger := logrus.New()
	testLogger.SetOutput(os.Stderr)
	testLogger.SetLevel(logrus.ErrorLevel)

	repo, err := NewBadgerRepository(t.TempDir(), testLogger)
	require.NoError(t, err, "Failed to create test BadgerDB repository")

	cleanup := func() {
		assert.NoError(t, repo.Close(), "Failed to close test BadgerDB repository")
	}
	return repo, cleanup
}

func ptr[T any](v T) *T { return &v }

func testMessages(n int) []domain.Message {
	messages := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		m := domain.Message{SenderName: "toto", TimestampMs: int64(i)}
		switch i % 3 {
		case 0:
			m.Share = &domain.Share{Link: ptr("https://a.com")}
		case 1:
			m.Content = ptr("see https://b.com")
		}
		messages = append(messages, m)
	}
	return messages
}

func TestBadgerRepository_SaveAndLoad(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// More than ten messages checks that the zero padded keys keep the order.
	messages := testMessages(25)
	require.NoError(t, repo.SaveArchive(ctx, "family", messages))
	require.NoError(t, repo.SaveArchive(ctx, "work", testMessages(2)))

	loaded, err := repo.LoadMessages(ctx, "family")
	require.NoError(t, err)
	assert.Equal(t, messages, loaded)

	work, err := repo.LoadMessages(ctx, "work")
	require.NoError(t, err)
	assert.Len(t, work, 2)
}

func TestBadgerRepository_SaveReplaces(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.SaveArchive(ctx, "family", testMessages(5)))
	replacement := testMessages(2)
	require.NoError(t, repo.SaveArchive(ctx, "family", replacement))

	loaded, err := repo.LoadMessages(ctx, "family")
	require.NoError(t, err)
	assert.Equal(t, replacement, loaded)

	archives, err := repo.ListArchives(ctx)
	require.NoError(t, err)
	require.Len(t, archives, 1)
	assert.Equal(t, 2, archives[0].MessageCount)
}

// cancelAfter is a context that reports cancellation once Err has been
// called n times.
type cancelAfter struct {
	context.Context
	n atomic.Int32
}

func (c *cancelAfter) Err() error {
	if c.n.Add(-1) < 0 {
		return context.Canceled
	}
	return nil
}

func TestBadgerRepository_FailedSaveLeavesNoArchive(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.SaveArchive(ctx, "family", testMessages(5)))

	interrupted := &cancelAfter{Context: ctx}
	interrupted.n.Store(3)
	err := repo.SaveArchive(interrupted, "family", testMessages(10))
	require.ErrorIs(t, err, context.Canceled)

	_, err = repo.LoadMessages(ctx, "family")
	assert.ErrorIs(t, err, ErrArchiveNotFound)

	archives, err := repo.ListArchives(ctx)
	require.NoError(t, err)
	assert.Empty(t, archives)

	// A later save of the same name starts clean.
	replacement := testMessages(4)
	require.NoError(t, repo.SaveArchive(ctx, "family", replacement))
	loaded, err := repo.LoadMessages(ctx, "family")
	require.NoError(t, err)
	assert.Equal(t, replacement, loaded)
}

func TestBadgerRepository_EmptyArchive(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.SaveArchive(ctx, "empty", nil))

	loaded, err := repo.LoadMessages(ctx, "empty")
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestBadgerRepository_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.LoadMessages(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrArchiveNotFound)
}

func TestBadgerRepository_ListArchives(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	archives, err := repo.ListArchives(ctx)
	require.NoError(t, err)
	assert.Empty(t, archives)

	require.NoError(t, repo.SaveArchive(ctx, "work", testMessages(3)))
	require.NoError(t, repo.SaveArchive(ctx, "family", testMessages(1)))

	archives, err = repo.ListArchives(ctx)
	require.NoError(t, err)
	require.Len(t, archives, 2)
	assert.Equal(t, "family", archives[0].Name)
	assert.Equal(t, 1, archives[0].MessageCount)
	assert.Equal(t, "work", archives[1].Name)
	assert.Equal(t, 3, archives[1].MessageCount)
	assert.False(t, archives[1].ImportedAt.IsZero())
}

func TestBadgerRepository_DeleteArchive(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.SaveArchive(ctx, "to_delete", testMessages(4)))
	require.NoError(t, repo.SaveArchive(ctx, "to_keep", testMessages(1)))

	require.NoError(t, repo.DeleteArchive(ctx, "to_delete"))

	_, err := repo.LoadMessages(ctx, "to_delete")
	assert.ErrorIs(t, err, ErrArchiveNotFound)

	kept, err := repo.LoadMessages(ctx, "to_keep")
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	// Deleting again, or deleting something that never existed, is fine.
	assert.NoError(t, repo.DeleteArchive(ctx, "to_delete"))
	assert.NoError(t, repo.DeleteArchive(ctx, "never_existed"))

	archives, err := repo.ListArchives(ctx)
	require.NoError(t, err)
	require.Len(t, archives, 1)
	assert.Equal(t, "to_keep", archives[0].Name)
}

func TestBadgerRepository_InvalidName(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	for _, name := range []string{"", "a:b", "tab\tname"} {
		err := repo.SaveArchive(context.Background(), name, testMessages(1))
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestBadgerRepository_CanceledContext(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.SaveArchive(ctx, "family", testMessages(1)), context.Canceled)
	_, err := repo.LoadMessages(ctx, "family")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.ListArchives(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.DeleteArchive(ctx, "family"), context.Canceled)
}
