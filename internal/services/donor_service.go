package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"donorpulse/internal/dataprocessing"
	apperrors "donorpulse/internal/errors"
	"donorpulse/internal/infrastructure"
	"donorpulse/internal/merge"
	"donorpulse/internal/storage"
	"donorpulse/pkg/contracts/domain"
)

// DonorService owns the donor ingestion pipeline and the stored donor set.
// Uploads are serialized with a mutex: a merge always runs against the
// latest persisted snapshot, so concurrent uploads cannot lose donations.
type DonorService struct {
	processor *dataprocessing.Processor
	store     *storage.Store
	metrics   *infrastructure.IngestMetrics
	logger    *slog.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewDonorService creates a donor service. metrics may be nil when
// telemetry is disabled.
func NewDonorService(store *storage.Store, metrics *infrastructure.IngestMetrics, logger *slog.Logger) *DonorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DonorService{
		processor: dataprocessing.NewProcessor(logger),
		store:     store,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *DonorService) WithClock(now func() time.Time) *DonorService {
	s.now = now
	s.processor = s.processor.WithClock(now)
	return s
}

// Upload decodes the file, normalizes and aggregates its rows, merges the
// result into the stored donor set, and persists the new snapshot plus an
// upload history entry.
func (s *DonorService) Upload(ctx context.Context, r io.Reader, filename string) (*domain.UploadResult, error) {
	processed, err := s.processor.Process(ctx, r, filename)
	if err != nil {
		s.recordUpload(ctx, 0, 0, 0, 0, false)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.LoadDonors()
	if err != nil {
		s.recordUpload(ctx, processed.RecordsProcessed, processed.RecordsProcessed-processed.RecordsAccepted, 0, 0, false)
		return nil, fmt.Errorf("load donors: %w", err)
	}

	merged := merge.Merge(existing, processed.Donors)

	if err := s.store.SaveDonors(merged.Donors); err != nil {
		s.recordUpload(ctx, processed.RecordsProcessed, processed.RecordsProcessed-processed.RecordsAccepted, 0, 0, false)
		return nil, fmt.Errorf("save donors: %w", err)
	}

	uploadedAt := s.now()
	record := domain.UploadRecord{
		Date:         uploadedAt,
		RecordsAdded: merged.DonationsAdded,
		TotalRecords: totalDonations(merged.Donors),
	}
	if err := s.store.AppendUploadRecord(record); err != nil {
		// The donor snapshot is already saved; a history write failure
		// should not fail the upload.
		s.logger.WarnContext(ctx, "failed to append upload history", "error", err)
	}

	rejected := processed.RecordsProcessed - processed.RecordsAccepted
	s.recordUpload(ctx, processed.RecordsProcessed, rejected, merged.DonationsAdded, merged.DuplicatesSuppressed, true)

	s.logger.InfoContext(ctx, "upload merged",
		"filename", filename,
		"records_processed", processed.RecordsProcessed,
		"records_accepted", processed.RecordsAccepted,
		"donations_added", merged.DonationsAdded,
		"duplicates_suppressed", merged.DuplicatesSuppressed,
		"donors_total", len(merged.Donors),
	)

	return &domain.UploadResult{
		RecordsProcessed: processed.RecordsProcessed,
		RecordsAccepted:  processed.RecordsAccepted,
		DonationsAdded:   merged.DonationsAdded,
		DonorsTotal:      len(merged.Donors),
		UploadedAt:       uploadedAt,
	}, nil
}

// Donors returns the stored donor set sorted by identity key.
func (s *DonorService) Donors(ctx context.Context) ([]*domain.Donor, error) {
	donors, err := s.store.LoadDonors()
	if err != nil {
		return nil, fmt.Errorf("load donors: %w", err)
	}
	return donors, nil
}

// Donor returns a single donor by ID.
func (s *DonorService) Donor(ctx context.Context, id string) (*domain.Donor, error) {
	donors, err := s.store.LoadDonors()
	if err != nil {
		return nil, fmt.Errorf("load donors: %w", err)
	}
	for _, d := range donors {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("donor %q", id))
}

// Clear removes all stored donors and upload history.
func (s *DonorService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	s.logger.InfoContext(ctx, "donor data cleared")
	return nil
}

// UploadHistory returns the persisted upload log, most recent last.
func (s *DonorService) UploadHistory(ctx context.Context) ([]domain.UploadRecord, error) {
	history, err := s.store.UploadHistory()
	if err != nil {
		return nil, fmt.Errorf("load upload history: %w", err)
	}
	return history, nil
}

func (s *DonorService) recordUpload(ctx context.Context, processed, rejected, added, duplicates int, success bool) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordUpload(ctx, processed, rejected, added, duplicates, success)
}

func totalDonations(donors []*domain.Donor) int {
	total := 0
	for _, d := range donors {
		total += len(d.Donations)
	}
	return total
}
