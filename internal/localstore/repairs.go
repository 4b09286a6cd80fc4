package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// ErrRecordNotFound is returned for unknown record ids.
var ErrRecordNotFound = errors.New("record not found")

// Record is a repair entry in the flat-file store. Records use
// auto-increment integer ids and reference trucks by plate since no
// document database backs them.
type Record struct {
	ID          int                 `json:"id"`
	Plate       string              `json:"plate"`
	FaultReason string              `json:"fault_reason"`
	Description string              `json:"description,omitempty"`
	Status      models.RepairStatus `json:"status"`
	Mechanic    string              `json:"mechanic,omitempty"`
	EntryDate   time.Time           `json:"entry_date"`
	ExitDate    *time.Time          `json:"exit_date,omitempty"`
	Cost        float64             `json:"cost"`
	Notes       string              `json:"notes,omitempty"`
}

type fileShape struct {
	Records []Record `json:"records"`
	LastID  int      `json:"lastId"`
}

// RepairStore is a mutex-guarded flat-file repair store used when no
// MongoDB is available. The whole file is loaded on open and rewritten
// on every mutation.
type RepairStore struct {
	mu      sync.Mutex
	path    string
	records []Record
	lastID  int
}

// Open loads the store from the given path, creating an empty one when
// the file does not exist yet.
func Open(path string) (*RepairStore, error) {
	store := &RepairStore{path: path, records: []Record{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading local store: %w", err)
	}

	var shape fileShape
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("parsing local store: %w", err)
	}
	if shape.Records != nil {
		store.records = shape.Records
	}
	store.lastID = shape.LastID
	return store, nil
}

// List returns a copy of all records.
func (s *RepairStore) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given id.
func (s *RepairStore) Get(id int) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			copied := r
			return &copied, nil
		}
	}
	return nil, ErrRecordNotFound
}

// Add appends a new record, assigning it the next id, and saves.
func (s *RepairStore) Add(record Record) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	record.ID = s.lastID
	if record.Status == "" {
		record.Status = models.RepairWaiting
	}
	if record.EntryDate.IsZero() {
		record.EntryDate = time.Now()
	}
	s.records = append(s.records, record)

	if err := s.save(); err != nil {
		return nil, err
	}
	return &record, nil
}

// Update replaces the record with the given id and saves.
func (s *RepairStore) Update(id int, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == id {
			record.ID = id
			s.records[i] = record
			return s.save()
		}
	}
	return ErrRecordNotFound
}

// Delete removes the record with the given id and saves. Ids are never
// reused; lastId only grows.
func (s *RepairStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return s.save()
		}
	}
	return ErrRecordNotFound
}

func (s *RepairStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating local store directory: %w", err)
	}
	data, err := json.MarshalIndent(fileShape{Records: s.records, LastID: s.lastID}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding local store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing local store: %w", err)
	}
	return nil
}
