package record

import (
	"encoding/json"
	"fmt"
	"time"
)

// timeTag marks an encoded timestamp inside a field payload.
const timeTag = "$time"

// MarshalFields encodes a field map to JSON, tagging timestamps so they
// decode back to time.Time.
func MarshalFields(fields map[string]any) ([]byte, error) {
	encoded := make(map[string]any, len(fields))
	for k, v := range fields {
		encoded[k] = encodeValue(v)
	}
	data, err := json.Marshal(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFields, err)
	}
	return data, nil
}

// UnmarshalFields decodes a payload produced by MarshalFields.
func UnmarshalFields(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFields, err)
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	for k, v := range raw {
		raw[k] = decodeValue(v)
	}
	return raw, nil
}

func encodeValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return map[string]string{timeTag: val.UTC().Format(time.RFC3339Nano)}
	case *time.Time:
		if val == nil {
			return nil
		}
		return map[string]string{timeTag: val.UTC().Format(time.RFC3339Nano)}
	default:
		return v
	}
}

func decodeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 1 {
			if s, ok := val[timeTag].(string); ok {
				if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
					return t
				}
			}
		}
		return val
	case []any:
		strs := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return val
			}
			strs = append(strs, s)
		}
		return strs
	default:
		return v
	}
}
