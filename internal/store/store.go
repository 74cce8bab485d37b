// Package store persists named collections of flat records. Every backend
// loads and saves a collection as a whole.
package store

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// Collection names used by the application.
const (
	Users         = "users"
	Medicines     = "medicines"
	Orders        = "orders"
	Consultations = "consultations"
)

// Record is a single flat record: field name to scalar or nested value.
type Record map[string]any

// RecordStore loads and saves whole collections. Load returns an empty
// slice when the collection does not exist yet.
type RecordStore interface {
	Load(ctx context.Context, name string) ([]Record, error)
	Save(ctx context.Context, name string, records []Record) error
}

// Has reports whether field is present, whatever its value.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Decode copies the record into v using its json tags.
func (r Record) Decode(v any) error {
	b, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "encode record")
	}
	return errors.Wrap(json.Unmarshal(b, v), "decode record")
}

// NewRecord converts a tagged struct into a Record.
func NewRecord(v any) (Record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode record")
	}
	var r Record
	if err := decodeJSON(b, &r); err != nil {
		return nil, err
	}
	return r, nil
}

// decodeJSON keeps numbers as json.Number so a load/save cycle does not
// rewrite them.
func decodeJSON(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return errors.Wrap(dec.Decode(v), "decode json")
}

func clone(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = cloneValue(map[string]any(r)).(map[string]any)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, x := range t {
			m[k] = cloneValue(x)
		}
		return m
	case Record:
		return cloneValue(map[string]any(t))
	case []any:
		s := make([]any, len(t))
		for i, x := range t {
			s[i] = cloneValue(x)
		}
		return s
	default:
		return v
	}
}
