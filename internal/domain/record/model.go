package record

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the entity type a record belongs to.
type Kind string

const (
	KindProject  Kind = "project"
	KindContract Kind = "contract"
	KindEmployee Kind = "employee"
)

// Collection returns the remote collection name backing the kind.
func (k Kind) Collection() string {
	switch k {
	case KindProject:
		return "projects"
	case KindContract:
		return "contracts"
	case KindEmployee:
		return "employees"
	default:
		return string(k)
	}
}

// KindForCollection maps a collection name back to its kind.
func KindForCollection(collection string) (Kind, bool) {
	for _, k := range []Kind{KindProject, KindContract, KindEmployee} {
		if k.Collection() == collection {
			return k, true
		}
	}
	return "", false
}

// Record is a single document of one entity collection. Identity is ID;
// every other field is mutable.
type Record struct {
	ID     string         `json:"id"`
	Kind   Kind           `json:"kind"`
	Fields map[string]any `json:"fields"`
}

// New builds a record with a copy of fields.
func New(kind Kind, id string, fields map[string]any) Record {
	rec := Record{ID: id, Kind: kind, Fields: fields}
	return rec.Clone()
}

// Clone returns a deep copy of the record. String lists are copied so the
// clone shares no mutable state with the original.
func (r Record) Clone() Record {
	out := Record{ID: r.ID, Kind: r.Kind}
	if r.Fields == nil {
		return out
	}
	out.Fields = make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		switch val := v.(type) {
		case []string:
			out.Fields[k] = slices.Clone(val)
		case []any:
			out.Fields[k] = slices.Clone(val)
		default:
			out.Fields[k] = v
		}
	}
	return out
}

// Value returns the raw field value.
func (r Record) Value(field string) (any, bool) {
	if r.Fields == nil {
		return nil, false
	}
	v, ok := r.Fields[field]
	return v, ok && v != nil
}

// Text renders a field as a string. Missing fields render as "".
func (r Record) Text(field string) string {
	v, ok := r.Value(field)
	if !ok {
		return ""
	}
	return textOf(v)
}

func textOf(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, textOf(item))
		}
		return strings.Join(parts, ", ")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// Number returns a numeric field. Numeric strings are parsed, since legacy
// documents store progress as text.
func (r Record) Number(field string) (float64, bool) {
	v, ok := r.Value(field)
	if !ok {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Time returns a timestamp field.
func (r Record) Time(field string) (time.Time, bool) {
	v, ok := r.Value(field)
	if !ok {
		return time.Time{}, false
	}
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case string:
		t, err := time.Parse(time.RFC3339Nano, val)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

// Strings returns a list-of-strings field.
func (r Record) Strings(field string) []string {
	v, ok := r.Value(field)
	if !ok {
		return nil
	}
	switch val := v.(type) {
	case []string:
		return slices.Clone(val)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Merge returns a copy of r with fields overlaid.
func (r Record) Merge(fields map[string]any) Record {
	out := r.Clone()
	if out.Fields == nil {
		out.Fields = make(map[string]any, len(fields))
	}
	for k, v := range New(r.Kind, r.ID, fields).Fields {
		out.Fields[k] = v
	}
	return out
}
