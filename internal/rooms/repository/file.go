package repository

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/model"
)

const (
	fileExt   = ".json"
	tmpSuffix = ".tmp"
	backupExt = ".backup"
	filePerm  = 0o644
	dirPerm   = 0o755
)

// FileRepository keeps one JSON file per room, <dir>/<room id>.json.
//
// Writes go to a temporary sibling that is synced and renamed over the
// final path, so a reader never sees a partial file. A file that cannot be
// parsed into a valid room is copied to <room id>.json.backup and reported
// as absent. Every operation holds one mutex covering the cache and the
// directory.
type FileRepository struct {
	mu    sync.Mutex
	dir   string
	cache map[string]*model.MeetingRoom
	log   *logger.Logger
}

// NewFileRepository creates dir if needed. It fails with a
// STORAGE_CONFIGURATION_ERROR when the directory cannot be created.
func NewFileRepository(dir string, log *logger.Logger) (*FileRepository, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, apperrors.StorageConfiguration("Cannot create storage directory", dir, err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &FileRepository{
		dir:   dir,
		cache: make(map[string]*model.MeetingRoom),
		log:   log.With("component", "file_repository", "storage_path", dir),
	}, nil
}

func (r *FileRepository) Dir() string {
	return r.dir
}

func (r *FileRepository) Save(ctx context.Context, room *model.MeetingRoom) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if room == nil {
		return apperrors.InvalidInput("Meeting room cannot be nil")
	}
	if err := checkRoomID(room.ID()); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writeFile(room); err != nil {
		return err
	}
	r.cache[room.ID()] = room.Clone()

	r.log.Debug("Meeting room saved", "room_id", room.ID(), "bookings", room.Len())
	return nil
}

func (r *FileRepository) FindByID(ctx context.Context, id string) (*model.MeetingRoom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkRoomID(id); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	room, err := r.findLocked(id)
	if err != nil || room == nil {
		return nil, err
	}
	return room.Clone(), nil
}

func (r *FileRepository) FindAll(ctx context.Context) ([]*model.MeetingRoom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []*model.MeetingRoom{}, nil
	}
	if err != nil {
		return nil, apperrors.Storage("Failed to list meeting rooms", "", r.dir, err)
	}

	rooms := make([]*model.MeetingRoom, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		id := strings.TrimSuffix(name, fileExt)
		if checkRoomID(id) != nil {
			continue
		}

		room, err := r.findLocked(id)
		if err != nil {
			return nil, err
		}
		if room == nil {
			continue
		}
		rooms = append(rooms, room.Clone())
	}

	return rooms, nil
}

func (r *FileRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkRoomID(id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.cache, id)

	path := r.path(id)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.Storage("Failed to delete meeting room", id, path, err)
	}

	r.log.Debug("Meeting room deleted", "room_id", id)
	return nil
}

func (r *FileRepository) path(id string) string {
	return filepath.Join(r.dir, id+fileExt)
}

// findLocked returns the cached room or loads it from disk. The caller holds
// r.mu and must clone the result before handing it out.
func (r *FileRepository) findLocked(id string) (*model.MeetingRoom, error) {
	if room, ok := r.cache[id]; ok {
		return room, nil
	}

	room, err := r.readFile(id)
	if err != nil || room == nil {
		return nil, err
	}
	r.cache[id] = room
	return room, nil
}

func (r *FileRepository) readFile(id string) (*model.MeetingRoom, error) {
	path := r.path(id)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Storage("Failed to read meeting room", id, path, err)
	}

	room, err := decodeRoom(data)
	if err == nil && room.ID() != id {
		err = errors.New("document id does not match file name")
	}
	if err != nil {
		backupPath := path + backupExt
		if backupErr := os.WriteFile(backupPath, data, filePerm); backupErr != nil {
			r.log.Error("Failed to back up corrupted meeting room file",
				"room_id", id,
				"path", path,
				"error", backupErr,
			)
		}
		r.log.Warn("Corrupted meeting room file treated as absent",
			"room_id", id,
			"path", path,
			"backup_path", backupPath,
			"error", err,
		)
		return nil, nil
	}

	return room, nil
}

func (r *FileRepository) writeFile(room *model.MeetingRoom) error {
	id := room.ID()
	path := r.path(id)
	tmpPath := path + tmpSuffix

	data, err := encodeRoom(room)
	if err != nil {
		return apperrors.Storage("Failed to encode meeting room", id, path, err)
	}

	fail := func(err error) error {
		_ = os.Remove(tmpPath)
		r.log.Error("Failed to save meeting room", "room_id", id, "path", path, "error", err)
		return apperrors.Storage("Failed to save meeting room", id, path, err)
	}

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return fail(err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fail(err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fail(err)
	}
	if err := f.Close(); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fail(err)
	}

	return nil
}
