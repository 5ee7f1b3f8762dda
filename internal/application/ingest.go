package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/casedesk/caseline/internal/observability"
	"github.com/casedesk/caseline/internal/validator"
)

// IngestResult summarizes a snapshot import: malformed records are skipped
// with a diagnostic log entry each, never aborting the rest.
type IngestResult struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// Ingest validates and stores a batch of raw records from the external
// message store. Partial failure is tolerated per record.
func (s *Service) Ingest(ctx context.Context, records []validator.RawRecord) (IngestResult, error) {
	log := observability.GetLogger(ctx)

	var res IngestResult
	for _, rec := range records {
		msg, err := validator.Validate(rec)
		if err != nil {
			res.Rejected++
			observability.RecordsValidatedTotal.WithLabelValues("rejected").Inc()
			log.Warn("ingest: skipping malformed record",
				zap.String("record_id", rec.ID),
				zap.Error(err),
			)
			continue
		}
		observability.RecordsValidatedTotal.WithLabelValues("accepted").Inc()

		if err := s.store.Append(ctx, msg); err != nil {
			res.Rejected++
			log.Warn("ingest: append failed",
				zap.String("record_id", rec.ID),
				zap.Error(err),
			)
			continue
		}
		res.Accepted++
	}
	return res, nil
}
