package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Metadata represents JSONB metadata stored as the queryable payload of a point
type Metadata map[string]interface{}

// Value implements the driver.Valuer interface for database storage
func (m Metadata) Value() (driver.Value, error) {
	return m.Marshal()
}

// Scan implements the sql.Scanner interface for database retrieval
func (m *Metadata) Scan(value interface{}) error {
	return m.Unmarshal(value)
}

// Marshal converts Metadata to JSON bytes
func (m Metadata) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal converts JSON bytes or Metadata to Metadata
func (m *Metadata) Unmarshal(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	if s, ok := value.(Metadata); ok {
		*m = s
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(b, m)
}

// Clone returns a shallow copy of the metadata
func (m Metadata) Clone() Metadata {
	clone := make(Metadata, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// Source returns the originating document name, or an empty string
func (m Metadata) Source() string {
	if s, ok := m["source"].(string); ok {
		return s
	}
	return ""
}

// Page returns the positional page locator, defaulting to 1.
// JSON round trips store numbers as float64, so both forms are handled.
func (m Metadata) Page() int {
	switch v := m["page"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 1
	}
}

// Matches reports whether every condition in filter holds on this metadata.
// Conditions are exact matches compared through their JSON form, so numeric
// values match regardless of int/float representation. AND-only, no negation.
func (m Metadata) Matches(filter Metadata) bool {
	for key, want := range filter {
		have, ok := m[key]
		if !ok {
			return false
		}
		if jsonValue(have) != jsonValue(want) {
			return false
		}
	}
	return true
}

func jsonValue(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
