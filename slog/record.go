package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docschema"
)

// Ensure LoggingRecordService implements docschema.RecordService.
var _ docschema.RecordService = (*LoggingRecordService)(nil)

// LoggingRecordService wraps a RecordService with logging of writes.
type LoggingRecordService struct {
	next   docschema.RecordService
	logger *slog.Logger
}

// NewLoggingRecordService creates a new LoggingRecordService.
func NewLoggingRecordService(next docschema.RecordService, logger *slog.Logger) *LoggingRecordService {
	return &LoggingRecordService{next: next, logger: logger}
}

// PutRecord delegates to the wrapped service and logs the operation.
func (s *LoggingRecordService) PutRecord(ctx context.Context, rec *docschema.Record) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("put record",
			"id", rec.ID(),
			"fields", rec.Len(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.PutRecord(ctx, rec)
}

// FindRecordByID delegates to the wrapped service.
func (s *LoggingRecordService) FindRecordByID(ctx context.Context, id string) (*docschema.Record, error) {
	return s.next.FindRecordByID(ctx, id)
}

// FindRecords delegates to the wrapped service.
func (s *LoggingRecordService) FindRecords(ctx context.Context, filter docschema.RecordFilter) ([]*docschema.Record, error) {
	return s.next.FindRecords(ctx, filter)
}

// DeleteRecord delegates to the wrapped service and logs the operation.
func (s *LoggingRecordService) DeleteRecord(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete record",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteRecord(ctx, id)
}
