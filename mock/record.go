package mock

import (
	"context"

	"github.com/fwojciec/docschema"
)

var _ docschema.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of docschema.RecordService.
type RecordService struct {
	PutRecordFn      func(ctx context.Context, rec *docschema.Record) error
	FindRecordByIDFn func(ctx context.Context, id string) (*docschema.Record, error)
	FindRecordsFn    func(ctx context.Context, filter docschema.RecordFilter) ([]*docschema.Record, error)
	DeleteRecordFn   func(ctx context.Context, id string) error
}

func (s *RecordService) PutRecord(ctx context.Context, rec *docschema.Record) error {
	return s.PutRecordFn(ctx, rec)
}

func (s *RecordService) FindRecordByID(ctx context.Context, id string) (*docschema.Record, error) {
	return s.FindRecordByIDFn(ctx, id)
}

func (s *RecordService) FindRecords(ctx context.Context, filter docschema.RecordFilter) ([]*docschema.Record, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *RecordService) DeleteRecord(ctx context.Context, id string) error {
	return s.DeleteRecordFn(ctx, id)
}

var _ docschema.RecordWriter = (*RecordWriter)(nil)

// RecordWriter is a mock implementation of docschema.RecordWriter.
type RecordWriter struct {
	WriteRecordFn func(ctx context.Context, rec *docschema.Record) error
}

func (w *RecordWriter) WriteRecord(ctx context.Context, rec *docschema.Record) error {
	return w.WriteRecordFn(ctx, rec)
}
