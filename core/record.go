package core

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Record is the envelope persisted under each key:
//
//	{"data": <value>, "expiration": <number|"session">}
//
// The shape must be preserved bit-for-bit so records written by earlier
// deployments remain readable in place.
type Record struct {
	Data       any
	Expiration Expiration
}

// wireRecord pins the JSON field names and ordering of the stored envelope.
type wireRecord struct {
	Data       any        `json:"data"`
	Expiration Expiration `json:"expiration"`
}

// MarshalJSON emits the stored envelope shape.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRecord(r))
}

// UnmarshalJSON decodes the stored envelope shape.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Record(w)
	return nil
}

// EncodeRecord serializes a record for storage. A zero-value expiration is
// rejected; callers must resolve a TTL or the session sentinel first.
func EncodeRecord(r Record) (string, error) {
	if r.Expiration.IsZero() {
		return "", fmt.Errorf("encode record: expiration unresolved")
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	return string(raw), nil
}

// DecodeRecord parses a stored blob back into a record. Blobs that are not
// valid JSON, lack the envelope fields, or carry an expiration that is
// neither numeric nor the session sentinel are classified as corrupt and
// rejected with ErrCorruptRecord. The shape probe runs before the strict
// decode so foreign values sharing a key never abort a tier scan.
func DecodeRecord(blob string) (Record, error) {
	if !gjson.Valid(blob) {
		return Record{}, fmt.Errorf("%w: not valid json", ErrCorruptRecord)
	}
	data := gjson.Get(blob, "data")
	exp := gjson.Get(blob, "expiration")
	if !data.Exists() || !exp.Exists() {
		return Record{}, fmt.Errorf("%w: missing envelope fields", ErrCorruptRecord)
	}
	switch exp.Type {
	case gjson.Number:
	case gjson.String:
		if exp.Str != sessionSentinel {
			return Record{}, fmt.Errorf("%w: unknown sentinel %q", ErrCorruptRecord, exp.Str)
		}
	default:
		return Record{}, fmt.Errorf("%w: expiration is neither instant nor sentinel", ErrCorruptRecord)
	}
	var r Record
	if err := json.Unmarshal([]byte(blob), &r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return r, nil
}
