// Package services wires the form engine to the workbook store and exposes
// the operations the HTTP layer calls.
package services

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"incubator/internal/form"
	"incubator/internal/store"
)

// ErrNoData reports that a room has no submissions yet.
var ErrNoData = errors.New("no submissions")

// FormService executes submissions, read-backs and exports against per-room
// workbooks.
type FormService struct {
	Store *store.Store
}

func NewFormService(st *store.Store) *FormService {
	return &FormService{Store: st}
}

// RoomRecords is one room's submission history for the admin overview.
type RoomRecords struct {
	RoomNumber string           `json:"room_number"`
	Records    []form.SheetEntry `json:"records"`
}

// Submit appends the record as a new dated sheet in the room's workbook. The
// room's workbook is locked for the whole read-modify-write so concurrent
// submissions to one room serialize instead of dropping each other.
func (s *FormService) Submit(room string, record *form.Record, images form.Images) error {
	unlock := s.Store.Lock(room)
	defer unlock()

	f, err := s.Store.OpenOrCreate(room)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := form.WriteSheet(f, record, images); err != nil {
		return fmt.Errorf("write submission: %w", err)
	}
	return s.Store.Save(room, f)
}

// LastSubmission reads the most recent sheet back into form values for
// pre-filling. Member rows and award images are not reconstructed.
func (s *FormService) LastSubmission(room string) (*form.Record, error) {
	f, err := s.Store.OpenRoom(room)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoData
		}
		return nil, err
	}
	defer f.Close()

	sheet, ok := form.LatestSheet(f)
	if !ok {
		return nil, ErrNoData
	}
	return form.ReadSheet(f, sheet), nil
}

// History lists the room's submission timestamps, newest first. A room without
// a workbook has an empty history, not an error.
func (s *FormService) History(room string) ([]form.SheetEntry, error) {
	f, err := s.Store.OpenRoom(room)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return form.ListEntries(f), nil
}

// DownloadByTimestamp serializes a single submission resolved from its
// timestamp, probing collision suffixes when the base name is taken.
func (s *FormService) DownloadByTimestamp(room, timestamp string) ([]byte, error) {
	f, err := s.Store.OpenRoom(room)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet, err := form.ResolveSheetName(f, timestamp)
	if err != nil {
		return nil, err
	}
	return s.downloadSheet(f, sheet)
}

// DownloadSheet serializes a single submission addressed by exact sheet name.
func (s *FormService) DownloadSheet(room, sheet string) ([]byte, error) {
	f, err := s.Store.OpenRoom(room)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.downloadSheet(f, sheet)
}

func (s *FormService) downloadSheet(f *excelize.File, sheet string) ([]byte, error) {
	if err := form.StripToSheet(f, sheet); err != nil {
		return nil, err
	}
	return form.WorkbookBytes(f)
}

// AllRooms enumerates every room's history for the admin overview, rooms in
// ascending numeric order, records newest first.
func (s *FormService) AllRooms() ([]RoomRecords, error) {
	rooms, err := s.Store.Rooms()
	if err != nil {
		return nil, err
	}
	out := make([]RoomRecords, 0, len(rooms))
	for _, room := range rooms {
		f, err := s.Store.OpenRoom(room)
		if err != nil {
			continue
		}
		entries := form.ListEntries(f)
		f.Close()
		out = append(out, RoomRecords{RoomNumber: room, Records: entries})
	}
	return out, nil
}

// DownloadBatch merges the selected submissions, images included, into one
// workbook. Missing rooms or sheets are skipped; the export contains whatever
// succeeded.
func (s *FormService) DownloadBatch(selections []form.Selection) ([]byte, error) {
	merged, err := form.Merge(selections, s.Store)
	if err != nil {
		return nil, err
	}
	defer merged.Close()
	return form.WorkbookBytes(merged)
}
