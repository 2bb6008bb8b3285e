package dataprocessing

import (
	"context"
	"io"
	"log/slog"
	"time"

	"donorpulse/pkg/contracts/domain"
)

// Processor runs the full ingestion pipeline for one uploaded file:
// container decode, field mapping, normalization and donor aggregation.
type Processor struct {
	logger *slog.Logger
	now    func() time.Time
}

// ProcessResult is the outcome of one ingestion batch before merging.
type ProcessResult struct {
	Donors           []*domain.Donor
	RecordsProcessed int
	RecordsAccepted  int
}

// NewProcessor creates an ingestion processor. A nil logger falls back
// to slog.Default.
func NewProcessor(logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, now: time.Now}
}

// WithClock overrides the processor's clock. Tests use this to pin the
// permissive date fallback.
func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.now = now
	return p
}

// Process ingests one tabular file. It fails only when the container
// format itself cannot be decoded; rows that fail validation are
// silently excluded and show up to the caller only as the difference
// between processed and accepted counts.
func (p *Processor) Process(ctx context.Context, r io.Reader, filename string) (*ProcessResult, error) {
	rows, err := Decode(r, filename)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to decode donation file",
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		return nil, err
	}

	records := NormalizeRows(rows, p.now())
	donors := AggregateDonors(records)

	p.logger.InfoContext(ctx, "processed donation file",
		slog.String("filename", filename),
		slog.Int("rows", len(rows)),
		slog.Int("accepted", len(records)),
		slog.Int("rejected", len(rows)-len(records)),
		slog.Int("donors", len(donors)))

	return &ProcessResult{
		Donors:           donors,
		RecordsProcessed: len(rows),
		RecordsAccepted:  len(records),
	}, nil
}
