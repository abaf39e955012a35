package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Payload is an optional structured attachment stored as serialized text.
// The zero value is absent. Consumers that know the shape call Decode.
type Payload struct {
	Raw   []byte
	Valid bool
}

// NewPayload serializes v. A nil v yields an absent payload.
func NewPayload(v any) (Payload, error) {
	if v == nil {
		return Payload{}, nil
	}
	if raw, ok := v.(json.RawMessage); ok && (len(raw) == 0 || string(raw) == "null") {
		return Payload{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return Payload{}, fmt.Errorf("failed to serialize notification data: %w", err)
	}
	return Payload{Raw: b, Valid: true}, nil
}

// Decode unmarshals the payload into v. Decoding an absent payload is a no-op.
func (p Payload) Decode(v any) error {
	if !p.Valid {
		return nil
	}
	return json.Unmarshal(p.Raw, v)
}

// Value implements driver.Valuer
func (p Payload) Value() (driver.Value, error) {
	if !p.Valid {
		return nil, nil
	}
	return string(p.Raw), nil
}

// Scan implements sql.Scanner
func (p *Payload) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = Payload{}
	case string:
		*p = Payload{Raw: []byte(v), Valid: true}
	case []byte:
		raw := make([]byte, len(v))
		copy(raw, v)
		*p = Payload{Raw: raw, Valid: true}
	default:
		return fmt.Errorf("unsupported notification data type %T", src)
	}
	return nil
}

// MarshalJSON writes the serialized text as a JSON string, or null when absent
func (p Payload) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(string(p.Raw))
}

// UnmarshalJSON accepts the form produced by MarshalJSON
func (p *Payload) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Payload{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*p = Payload{Raw: []byte(s), Valid: true}
	return nil
}
