package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"roombook/internal/rooms/events"
	"roombook/internal/rooms/repository"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, storageType string) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Environment = config.EnvironmentTest
	cfg.Log = logger.Nop()
	cfg.StorageType = storageType
	cfg.StoragePath = filepath.Join(t.TempDir(), "rooms")
	cfg.BadgerPath = filepath.Join(t.TempDir(), "badger")
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestNewRepository(t *testing.T) {
	tests := []struct {
		storage string
		check   func(t *testing.T, repo repository.MeetingRoomRepository)
	}{
		{config.StorageJSON, func(t *testing.T, repo repository.MeetingRoomRepository) {
			assert.IsType(t, &repository.FileRepository{}, repo)
		}},
		{config.StorageMemory, func(t *testing.T, repo repository.MeetingRoomRepository) {
			assert.IsType(t, &repository.MemoryRepository{}, repo)
		}},
		{config.StorageBadger, func(t *testing.T, repo repository.MeetingRoomRepository) {
			assert.IsType(t, &repository.BadgerRepository{}, repo)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.storage, func(t *testing.T) {
			repo, closeRepo, err := NewRepository(testConfig(t, tt.storage))
			require.NoError(t, err)
			tt.check(t, repo)

			rooms, err := repo.FindAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, rooms)

			if closeRepo != nil {
				assert.NoError(t, closeRepo(context.Background()))
			}
		})
	}
}

func TestNewRepository_Errors(t *testing.T) {
	cfg := testConfig(t, config.StorageJSON)
	cfg.StorageType = "sqlite"
	_, _, err := NewRepository(cfg)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfiguration))

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	cfg = testConfig(t, config.StorageJSON)
	cfg.StoragePath = filepath.Join(blocker, "rooms")
	_, _, err = NewRepository(cfg)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorageConfiguration))
}

func TestNewPublisher(t *testing.T) {
	cfg := testConfig(t, config.StorageMemory)
	pub, err := NewPublisher(cfg)
	require.NoError(t, err)
	assert.IsType(t, events.NoopPublisher{}, pub)

	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	cfg.EventsEnabled = true
	pub, err = NewPublisher(cfg)
	require.NoError(t, err)
	assert.IsType(t, &events.KafkaPublisher{}, pub)
	assert.NoError(t, pub.Close())

	t.Setenv("KAFKA_PRODUCER_COMPRESSION", "brotli")
	_, err = NewPublisher(cfg)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfiguration))
}

func TestRun_FileStoragePersistsAcrossInvocations(t *testing.T) {
	cfg := testConfig(t, config.StorageJSON)
	ctx := context.Background()

	var out, errOut bytes.Buffer
	first, err := New(cfg)
	require.NoError(t, err)
	code := first.Run(ctx, []string{"book", "--json", "--start", "2099-01-02T09:00", "--end", "2099-01-02T10:00", "--booker", "Alice", "--attendees", "6"}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	var view model.BookingView
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	assert.FileExists(t, filepath.Join(cfg.StoragePath, cfg.RoomID+".json"))

	out.Reset()
	second, err := New(cfg)
	require.NoError(t, err)
	code = second.Run(ctx, []string{"book", "--start", "2099-01-02T09:30", "--end", "2099-01-02T10:30", "--booker", "Bob", "--attendees", "6"}, &out, &errOut)
	assert.Equal(t, apperrors.ExitConflict, code)

	third, err := New(cfg)
	require.NoError(t, err)
	views, err := third.Service.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, view.ID, views[0].ID)
	assert.NoError(t, third.Close())
}

func TestRun_BadgerStorageReleasesDatabase(t *testing.T) {
	cfg := testConfig(t, config.StorageBadger)
	ctx := context.Background()

	var out, errOut bytes.Buffer
	first, err := New(cfg)
	require.NoError(t, err)
	require.Equal(t, 0, first.Run(ctx, []string{"book", "--start", "2099-01-02T09:00", "--end", "2099-01-02T10:00", "--booker", "Alice", "--attendees", "6"}, &out, &errOut), errOut.String())

	// Run closed the database, so a second instance can open the directory.
	second, err := New(cfg)
	require.NoError(t, err)
	defer second.Close()

	views, err := second.Service.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Alice", views[0].Booker)
}
