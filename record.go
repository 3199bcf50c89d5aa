package docschema

import (
	"bytes"
	"context"
	"encoding/json"
)

// Record is the flat field/value structure handed to the search index for one
// document. Fields keep the order in which they were first set so that
// encoding the same record twice yields identical bytes.
type Record struct {
	names  []string
	values map[string]Value
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]Value)}
}

// Set stores a value under name, replacing any previous value.
func (r *Record) Set(name string, v Value) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

// Get returns the value stored under name.
func (r *Record) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether a value is stored under name.
func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Len returns the number of fields in the record.
func (r *Record) Len() int {
	return len(r.names)
}

// Names returns field names in insertion order.
func (r *Record) Names() []string {
	return append([]string{}, r.names...)
}

// ID returns the record identifier, or "" if it is not set.
func (r *Record) ID() string {
	if v, ok := r.values[FieldID]; ok {
		return v.Str()
	}
	return ""
}

// MarshalJSON encodes the record as a JSON object in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	ID   *string `json:"id"`
	SKU  *string `json:"sku"`
	Host *string `json:"host"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RecordService represents the index ingestion sink.
type RecordService interface {
	// PutRecord stores a record, replacing any record with the same ID.
	// Returns EINVALID if the record has no ID.
	PutRecord(ctx context.Context, rec *Record) error

	// FindRecordByID retrieves a record by ID.
	// Returns ENOTFOUND if the record does not exist.
	FindRecordByID(ctx context.Context, id string) (*Record, error)

	// FindRecords retrieves records matching the filter.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)

	// DeleteRecord permanently removes a record.
	// Returns ENOTFOUND if the record does not exist.
	DeleteRecord(ctx context.Context, id string) error
}

// RecordWriter streams records to a sink.
type RecordWriter interface {
	WriteRecord(ctx context.Context, rec *Record) error
}
