package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/docschema"
	"github.com/fwojciec/docschema/mock"
	dsslog "github.com/fwojciec/docschema/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRecordService(t *testing.T) {
	t.Parallel()

	t.Run("logs put with id and field count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var stored *docschema.Record
		inner := &mock.RecordService{
			PutRecordFn: func(ctx context.Context, rec *docschema.Record) error {
				stored = rec
				return nil
			},
		}
		rec := docschema.NewRecord()
		rec.Set(docschema.FieldID, docschema.StringValue("doc1"))
		rec.Set(docschema.FieldTitle, docschema.StringValue("T"))

		err := dsslog.NewLoggingRecordService(inner, logger).PutRecord(context.Background(), rec)

		require.NoError(t, err)
		assert.Same(t, rec, stored)
		output := buf.String()
		assert.Contains(t, output, `msg="put record"`)
		assert.Contains(t, output, "id=doc1")
		assert.Contains(t, output, "fields=2")
	})

	t.Run("logs delete errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.RecordService{
			DeleteRecordFn: func(ctx context.Context, id string) error {
				return errors.New("locked")
			},
		}

		err := dsslog.NewLoggingRecordService(inner, logger).DeleteRecord(context.Background(), "doc1")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "id=doc1")
		assert.Contains(t, buf.String(), "err=locked")
	})

	t.Run("delegates reads without logging", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		want := docschema.NewRecord()
		inner := &mock.RecordService{
			FindRecordByIDFn: func(ctx context.Context, id string) (*docschema.Record, error) {
				return want, nil
			},
			FindRecordsFn: func(ctx context.Context, filter docschema.RecordFilter) ([]*docschema.Record, error) {
				return []*docschema.Record{want}, nil
			},
		}
		svc := dsslog.NewLoggingRecordService(inner, logger)

		got, err := svc.FindRecordByID(context.Background(), "doc1")
		require.NoError(t, err)
		assert.Same(t, want, got)
		all, err := svc.FindRecords(context.Background(), docschema.RecordFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 1)
		assert.Empty(t, buf.String())
	})
}

func TestFieldSetReloadLogger_InfoAndWarn(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	hook := dsslog.FieldSetReloadLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	hook(docschema.NewFieldSet("title", "sku"), nil)
	hook(nil, errors.New("bad file"))

	output := buf.String()
	assert.Contains(t, output, "fields=2")
	assert.Contains(t, output, "universal=false")
	assert.Contains(t, output, "level=WARN")
	assert.Contains(t, output, `err="bad file"`)
}
