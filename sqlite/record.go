package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/docschema"
)

// Compile-time interface verification.
var _ docschema.RecordService = (*RecordService)(nil)

// RecordService implements docschema.RecordService using SQLite.
// Each field is stored as a row holding its kind and JSON-encoded value,
// so records round-trip with their field order intact.
type RecordService struct {
	db  *DB
	now func() time.Time
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db, now: time.Now}
}

// RecordInfo describes how a record was stored.
type RecordInfo struct {
	ID          string
	SKU         string
	Host        string
	ContentHash string
	IndexedAt   time.Time
}

// PutRecord stores rec, replacing any record with the same ID.
func (s *RecordService) PutRecord(ctx context.Context, rec *docschema.Record) error {
	if rec == nil || rec.ID() == "" {
		return docschema.Errorf(docschema.EINVALID, "record id required")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	var sku, host string
	if v, ok := rec.Get(docschema.FieldSKU); ok {
		sku = v.Str()
	}
	if v, ok := rec.Get(docschema.FieldHost); ok {
		host = v.Str()
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Replacing the row cascades to the old field rows.
	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE id = ?", rec.ID()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO records (id, sku, host, content_hash, indexed_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID(), sku, host, hashContent(data), s.now().UTC().Format(timeFormat)); err != nil {
		return err
	}

	for i, name := range rec.Names() {
		v, _ := rec.Get(name)
		value, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO record_fields (record_id, position, name, kind, value)
			VALUES (?, ?, ?, ?, ?)
		`, rec.ID(), i, name, v.Kind().String(), string(value)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRecordByID retrieves a record by ID.
func (s *RecordService) FindRecordByID(ctx context.Context, id string) (*docschema.Record, error) {
	if _, err := s.FindRecordInfo(ctx, id); err != nil {
		return nil, err
	}
	return s.loadFields(ctx, id)
}

// FindRecordInfo retrieves the storage metadata of a record.
func (s *RecordService) FindRecordInfo(ctx context.Context, id string) (*RecordInfo, error) {
	var info RecordInfo
	var indexedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, sku, host, content_hash, indexed_at
		FROM records
		WHERE id = ?
	`, id).Scan(&info.ID, &info.SKU, &info.Host, &info.ContentHash, &indexedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, docschema.Errorf(docschema.ENOTFOUND, "record not found")
	}
	if err != nil {
		return nil, err
	}

	info.IndexedAt, err = parseRFC3339(indexedAt, "indexed_at")
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// FindRecords retrieves records matching the filter, most recently indexed
// first.
func (s *RecordService) FindRecords(ctx context.Context, filter docschema.RecordFilter) ([]*docschema.Record, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id FROM records WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SKU != nil {
		query.WriteString(" AND sku = ?")
		args = append(args, *filter.SKU)
	}
	if filter.Host != nil {
		query.WriteString(" AND host = ?")
		args = append(args, *filter.Host)
	}

	query.WriteString(" ORDER BY indexed_at DESC, id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// The pool has a single connection, so field rows are loaded after the
	// id cursor is closed.
	recs := make([]*docschema.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.loadFields(ctx, id)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// DeleteRecord permanently removes a record.
func (s *RecordService) DeleteRecord(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return docschema.Errorf(docschema.ENOTFOUND, "record not found")
	}
	return nil
}

func (s *RecordService) loadFields(ctx context.Context, id string) (*docschema.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, value
		FROM record_fields
		WHERE record_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rec := docschema.NewRecord()
	for rows.Next() {
		var name, kindName, value string
		if err := rows.Scan(&name, &kindName, &value); err != nil {
			return nil, err
		}
		kind, err := docschema.ParseKind(kindName)
		if err != nil {
			return nil, err
		}
		v, err := docschema.UnmarshalValue(kind, []byte(value))
		if err != nil {
			return nil, err
		}
		rec.Set(name, v)
	}
	return rec, rows.Err()
}
