package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileRepo(t *testing.T, dir string) *FileRepository {
	t.Helper()
	repo, err := NewFileRepository(dir, logger.Nop())
	require.NoError(t, err)
	return repo
}

func TestFileRepository_RoundTripAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	room := roomWithBookings(t, "main-room", 3)
	require.NoError(t, newFileRepo(t, dir).Save(ctx, room))

	got, err := newFileRepo(t, dir).FindByID(ctx, "main-room")
	require.NoError(t, err)
	requireSameRoom(t, room, got)
}

func TestFileRepository_FileLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := newFileRepo(t, dir)

	require.NoError(t, repo.Save(ctx, roomWithBookings(t, "r1", 1)))

	data, err := os.ReadFile(filepath.Join(dir, "r1.json"))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "r1", raw["id"])
	assert.EqualValues(t, 20, raw["capacity"])

	bookings, ok := raw["bookings"].([]any)
	require.True(t, ok)
	require.Len(t, bookings, 1)
	booking := bookings[0].(map[string]any)
	assert.Contains(t, booking, "booking_id")
	assert.Contains(t, booking, "booker")
	assert.Contains(t, booking, "attendees")
	slot := booking["time_slot"].(map[string]any)
	assert.Equal(t, "2024-01-01T09:00:00Z", slot["start_time"])
	assert.Equal(t, "2024-01-01T10:00:00Z", slot["end_time"])

	assert.Contains(t, string(data), "\n  \"capacity\": 20,")

	_, err = os.Stat(filepath.Join(dir, "r1.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temporary file should not survive a save")
}

func TestFileRepository_CorruptedFilesAreBackedUp(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{this is not json"},
		{"wrong shape", `["a", "b"]`},
		{"missing id", `{"capacity": 20, "bookings": []}`},
		{"id does not match file", `{"id": "other", "capacity": 20, "bookings": []}`},
		{"attendees below minimum", `{"id": "broken", "capacity": 20, "bookings": [
			{"booking_id": "b1", "time_slot": {"start_time": "2024-01-01T09:00:00Z", "end_time": "2024-01-01T10:00:00Z"}, "booker": "a", "attendees": 2}
		]}`},
		{"end before start", `{"id": "broken", "capacity": 20, "bookings": [
			{"booking_id": "b1", "time_slot": {"start_time": "2024-01-01T10:00:00Z", "end_time": "2024-01-01T09:00:00Z"}, "booker": "a", "attendees": 5}
		]}`},
		{"overlapping bookings", `{"id": "broken", "capacity": 20, "bookings": [
			{"booking_id": "b1", "time_slot": {"start_time": "2024-01-01T09:00:00Z", "end_time": "2024-01-01T10:00:00Z"}, "booker": "a", "attendees": 5},
			{"booking_id": "b2", "time_slot": {"start_time": "2024-01-01T09:30:00Z", "end_time": "2024-01-01T10:30:00Z"}, "booker": "b", "attendees": 5}
		]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			path := filepath.Join(dir, "broken.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			room, err := newFileRepo(t, dir).FindByID(ctx, "broken")
			require.NoError(t, err)
			assert.Nil(t, room)

			backup, err := os.ReadFile(path + ".backup")
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(backup))
		})
	}
}

func TestFileRepository_MissingOptionalFields(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bare.json"), []byte(`{"id": "bare"}`), 0o644))

	room, err := newFileRepo(t, dir).FindByID(ctx, "bare")
	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, 20, room.Capacity())
	assert.Equal(t, 0, room.Len())
}

func TestFileRepository_FindAllSkipsUnusableFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := newFileRepo(t, dir)

	require.NoError(t, repo.Save(ctx, roomWithBookings(t, "R1", 1)))
	require.NoError(t, repo.Save(ctx, roomWithBookings(t, "R2", 2)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corrupt.json"), []byte("garbage"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	rooms, err := newFileRepo(t, dir).FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"R1", "R2"}, roomIDs(rooms))

	_, err = os.Stat(filepath.Join(dir, "corrupt.json.backup"))
	assert.NoError(t, err)
}

func TestFileRepository_FailedSaveKeepsPreviousFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := newFileRepo(t, dir)

	original := roomWithBookings(t, "r1", 1)
	require.NoError(t, repo.Save(ctx, original))
	before, err := os.ReadFile(filepath.Join(dir, "r1.json"))
	require.NoError(t, err)

	// A directory in place of the temporary file makes the write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "r1.json.tmp"), 0o755))

	err = repo.Save(ctx, roomWithBookings(t, "r1", 3))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorage))

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, "r1", appErr.Details["room_id"])
	assert.Equal(t, filepath.Join(dir, "r1.json"), appErr.Details["path"])

	after, err := os.ReadFile(filepath.Join(dir, "r1.json"))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	got, err := repo.FindByID(ctx, "r1")
	require.NoError(t, err)
	requireSameRoom(t, original, got)
}

func TestFileRepository_DeleteRemovesFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := newFileRepo(t, dir)

	require.NoError(t, repo.Save(ctx, roomWithBookings(t, "r1", 1)))
	require.NoError(t, repo.Delete(ctx, "r1"))

	_, err := os.Stat(filepath.Join(dir, "r1.json"))
	assert.True(t, os.IsNotExist(err))

	room, err := newFileRepo(t, dir).FindByID(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, room)
}

func TestFileRepository_RejectsUnsafeIDs(t *testing.T) {
	ctx := context.Background()
	repo := newFileRepo(t, t.TempDir())

	for _, id := range []string{"", "../escape", "a/b", `a\b`} {
		_, err := repo.FindByID(ctx, id)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput), "id %q", id)
		assert.Equal(t, apperrors.CategoryValidation, apperrors.CategoryOf(err))
	}
}

func TestNewFileRepository_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "rooms")
	newFileRepo(t, dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewFileRepository_UnusablePath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := NewFileRepository(filepath.Join(file, "rooms"), logger.Nop())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorageConfiguration))
}

func TestFileRepository_LoadsTimestampsWithoutOffset(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	content := `{"id": "main-room", "capacity": 20, "bookings": [
		{"booking_id": "b1", "time_slot": {"start_time": "2025-07-20T09:00:00", "end_time": "2025-07-20T10:00:00"}, "booker": "Alice", "attendees": 5},
		{"booking_id": "b2", "time_slot": {"start_time": "2025-07-20T10:30:00.250000", "end_time": "2025-07-20 11:30"}, "booker": "Bob", "attendees": 4},
		{"booking_id": "b3", "time_slot": {"start_time": "2025-07-20T14:00:00+02:00", "end_time": "2025-07-20T13:00:00Z"}, "booker": "Carol", "attendees": 6}
	]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main-room.json"), []byte(content), 0o644))

	repo := newFileRepo(t, dir)
	room, err := repo.FindByID(ctx, "main-room")
	require.NoError(t, err)
	require.NotNil(t, room)
	require.Equal(t, 3, room.Len())

	_, err = os.Stat(filepath.Join(dir, "main-room.json.backup"))
	assert.True(t, os.IsNotExist(err), "a readable file must not be backed up")

	b1, ok := room.FindBooking("b1")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 7, 20, 9, 0, 0, 0, time.UTC), b1.TimeSlot().Start)
	assert.Equal(t, time.UTC, b1.TimeSlot().Start.Location())

	b2, ok := room.FindBooking("b2")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 7, 20, 10, 30, 0, 250_000_000, time.UTC), b2.TimeSlot().Start)
	assert.Equal(t, time.Date(2025, 7, 20, 11, 30, 0, 0, time.UTC), b2.TimeSlot().End)

	b3, ok := room.FindBooking("b3")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC), b3.TimeSlot().Start)

	_, err = room.Book(slotAt(t, 0, 1), "Dave", 4)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, room))

	reloaded, err := newFileRepo(t, dir).FindByID(ctx, "main-room")
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, 4, reloaded.Len())
	_, ok = reloaded.FindBooking("b1")
	assert.True(t, ok)
}

func TestParseStoredTime_RejectsUnknownFormats(t *testing.T) {
	for _, value := range []string{"", "yesterday", "20/07/2025 09:00", "2025-07-20"} {
		_, err := parseStoredTime(value)
		assert.Error(t, err, value)
	}
}
