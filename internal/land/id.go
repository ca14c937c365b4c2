package land

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ID is a parcel identifier kept as its original JSON token, so numeric ids
// stay numbers and string ids stay strings when re-encoded.
type ID json.RawMessage

// StringID returns the ID for a string identifier.
func StringID(s string) ID {
	return ID(strconv.Quote(s))
}

// NumberID returns the ID for a numeric identifier.
func NumberID(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// IsZero reports whether the id is absent or null.
func (id ID) IsZero() bool {
	raw := bytes.TrimSpace(id)
	return len(raw) == 0 || string(raw) == "null"
}

// String returns the id text without JSON quoting.
func (id ID) String() string {
	var s string
	if err := json.Unmarshal(id, &s); err == nil {
		return s
	}

	return string(bytes.TrimSpace(id))
}

// MarshalJSON writes the original token.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}

	return id, nil
}

// UnmarshalJSON accepts string and number tokens.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '"' && string(data) != "null" {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return errors.New("id must be a string or a number")
		}
	}
	*id = append((*id)[:0], data...)

	return nil
}

// MarshalYAML writes the id as a YAML number or string.
func (id ID) MarshalYAML() (interface{}, error) {
	if id.IsZero() {
		return nil, nil
	}

	var v interface{}
	if err := json.Unmarshal(id, &v); err != nil {
		return nil, err
	}

	return v, nil
}
