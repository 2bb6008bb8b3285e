// Package storage persists the donor database and upload history as
// JSON snapshots on disk, optionally encrypted at rest.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	apperrors "donorpulse/internal/errors"
	"donorpulse/pkg/contracts/domain"
)

const (
	donorsFile  = "donors.json"
	historyFile = "upload_history.json"

	// maxHistoryEntries caps the retained upload history.
	maxHistoryEntries = 50
)

// Store is a file-backed donor store. All methods are safe for
// concurrent use; writes are atomic via write-to-temp-and-rename so a
// crash mid-save never corrupts the snapshot.
type Store struct {
	dir       string
	logger    *slog.Logger
	encryptor *Encryptor // nil when at-rest encryption is disabled

	mu sync.RWMutex
}

// NewStore creates a donor store rooted at dir, creating the directory
// if needed. Pass a non-nil encryptor to encrypt snapshots at rest.
func NewStore(dir string, encryptor *Encryptor, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.NewStorageError("failed to create data directory", err)
	}
	return &Store{
		dir:       dir,
		logger:    logger.With(slog.String("component", "donor_store")),
		encryptor: encryptor,
	}, nil
}

// LoadDonors reads the persisted donor set. A missing snapshot is an
// empty donor set, not an error.
func (s *Store) LoadDonors() ([]*domain.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var donors []*domain.Donor
	if err := s.readJSON(donorsFile, &donors); err != nil {
		return nil, err
	}
	if donors == nil {
		donors = []*domain.Donor{}
	}
	return donors, nil
}

// SaveDonors atomically replaces the persisted donor set.
func (s *Store) SaveDonors(donors []*domain.Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeJSON(donorsFile, donors); err != nil {
		return err
	}
	s.logger.Info("saved donor snapshot", slog.Int("donors", len(donors)))
	return nil
}

// Clear removes the donor snapshot and upload history.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{donorsFile, historyFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return apperrors.NewStorageError(fmt.Sprintf("failed to remove %s", name), err)
		}
	}
	s.logger.Info("cleared donor store")
	return nil
}

// UploadHistory returns the persisted upload records, oldest first.
func (s *Store) UploadHistory() ([]domain.UploadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var history []domain.UploadRecord
	if err := s.readJSON(historyFile, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []domain.UploadRecord{}
	}
	return history, nil
}

// AppendUploadRecord records one upload, keeping only the most recent
// entries.
func (s *Store) AppendUploadRecord(record domain.UploadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var history []domain.UploadRecord
	if err := s.readJSON(historyFile, &history); err != nil {
		return err
	}
	history = append(history, record)
	if len(history) > maxHistoryEntries {
		history = history[len(history)-maxHistoryEntries:]
	}
	return s.writeJSON(historyFile, history)
}

func (s *Store) readJSON(name string, v interface{}) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to read %s", name), err)
	}

	if s.encryptor != nil {
		data, err = s.encryptor.Decrypt(data)
		if err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to decrypt %s", name), err)
		}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to decode %s", name), err)
	}
	return nil
}

func (s *Store) writeJSON(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to encode %s", name), err)
	}

	if s.encryptor != nil {
		data, err = s.encryptor.Encrypt(data)
		if err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to encrypt %s", name), err)
		}
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return apperrors.NewStorageError("failed to create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", name), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewStorageError(fmt.Sprintf("failed to sync %s", name), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageError(fmt.Sprintf("failed to close %s", name), err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageError(fmt.Sprintf("failed to replace %s", name), err)
	}
	return nil
}
