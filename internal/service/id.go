package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an opaque task identifier assigned by the remote side.
//
// Remote collections hand out either string or numeric ids. ID keeps the
// original JSON form so it can be echoed back verbatim, and never interprets
// the value otherwise.
type ID struct {
	value   string
	numeric bool
}

// StringID returns an ID carried as a JSON string.
func StringID(s string) ID { return ID{value: s} }

// NumericID returns an ID carried as a JSON number.
func NumericID(n int64) ID { return ID{value: strconv.FormatInt(n, 10), numeric: true} }

// String returns the id as used in resource paths.
func (id ID) String() string { return id.value }

// IsZero reports whether the id was never assigned.
func (id ID) IsZero() bool { return id.value == "" }

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ID{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		*id = ID{value: s}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: must be a string or a number", data)
	}
	*id = ID{value: n.String(), numeric: true}
	return nil
}
