// Package store owns the on-disk layout: one workbook file per room under the
// data directory, plus a staging area for uploaded certificate images.
package store

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrNotFound reports that a room has no workbook yet.
	ErrNotFound = errors.New("workbook not found")

	// ErrBadRoom rejects room identifiers that cannot become file names.
	ErrBadRoom = errors.New("invalid room identifier")
)

// Store manages per-room workbook files. Writes to one room are serialized by
// a per-room mutex; the file is read-modify-written as a whole, so two
// unsynchronized submissions would silently drop one.
type Store struct {
	dir       string
	uploadDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates the data and upload directories if needed.
func New(dir, uploadDir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, uploadDir: uploadDir, locks: make(map[string]*sync.Mutex)}, nil
}

// Lock serializes access to one room's workbook and returns the unlock.
func (s *Store) Lock(room string) func() {
	s.mu.Lock()
	lock, ok := s.locks[room]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[room] = lock
	}
	s.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}

func (s *Store) path(room string) (string, error) {
	if !ValidRoom(room) {
		return "", ErrBadRoom
	}
	return filepath.Join(s.dir, room+".xlsx"), nil
}

// OpenRoom opens an existing room workbook. It satisfies form.WorkbookSource.
func (s *Store) OpenRoom(room string) (*excelize.File, error) {
	path, err := s.path(room)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open workbook %s: %w", room, err)
	}
	return f, nil
}

// OpenOrCreate opens the room's workbook, creating a fresh one in memory on
// first submission. The new workbook only reaches disk via Save.
func (s *Store) OpenOrCreate(room string) (*excelize.File, error) {
	f, err := s.OpenRoom(room)
	if errors.Is(err, ErrNotFound) {
		return excelize.NewFile(), nil
	}
	return f, err
}

// Save persists the workbook atomically: the bytes land in a temp file that is
// renamed over the room's workbook, so readers never observe a partial write.
func (s *Store) Save(room string, f *excelize.File) error {
	path, err := s.path(room)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	// SaveAs rejects the .tmp extension, so serialize via Write instead.
	w, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("save workbook %s: %w", room, err)
	}
	if err := f.Write(w); err != nil {
		_ = w.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("save workbook %s: %w", room, err)
	}
	if err := w.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save workbook %s: %w", room, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace workbook %s: %w", room, err)
	}
	return nil
}

// Exists reports whether the room has a workbook on disk.
func (s *Store) Exists(room string) bool {
	path, err := s.path(room)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Rooms lists every room with a workbook, numeric rooms first in ascending
// numeric order, anything else after in lexicographic order.
func (s *Store) Rooms() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	var rooms []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".tmp") {
			continue
		}
		rooms = append(rooms, strings.TrimSuffix(name, ".xlsx"))
	}
	sort.Slice(rooms, func(i, j int) bool {
		ni, iErr := strconv.Atoi(rooms[i])
		nj, jErr := strconv.Atoi(rooms[j])
		iOK, jOK := iErr == nil, jErr == nil
		switch {
		case iOK && jOK:
			return ni < nj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return rooms[i] < rooms[j]
		}
	})
	return rooms, nil
}

// StageUpload copies a multipart upload into the staging area under a unique
// name and returns its path. A nil header stages nothing and returns "".
func (s *Store) StageUpload(fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Filename == "" {
		return "", nil
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(fh.Filename)
	path := filepath.Join(s.uploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("stage upload %s: %w", fh.Filename, err)
	}
	defer dst.Close()
	if _, err := dst.ReadFrom(src); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("stage upload %s: %w", fh.Filename, err)
	}
	return path, nil
}

// RemoveUploads deletes staged files, ignoring blanks and already-gone paths.
func (s *Store) RemoveUploads(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		_ = os.Remove(path)
	}
}

// ValidRoom reports whether a room identifier is safe to use as a workbook
// file name.
func ValidRoom(room string) bool {
	if room == "" || len(room) > 64 {
		return false
	}
	for _, r := range room {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
