package peers

import (
	"encoding/json"

	"github.com/automoto/doomerang-arena/shared/netconfig"
)

// Field is an optional inbound value. OK is false when the field was absent or
// had the wrong JSON type.
type Field[T any] struct {
	Value T
	OK    bool
}

// Or returns the value if present, otherwise def.
func (f Field[T]) Or(def T) T {
	if f.OK {
		return f.Value
	}
	return def
}

// Record is a validated inbound presence record. Every field is optional.
type Record struct {
	X, Y, Z    Field[float64]
	Yaw, Pitch Field[float64]
	HP         Field[float64]
	Alive      Field[bool]
	Color      Field[string]
	Name       Field[string]
}

// IsAlive applies the wire default: a missing alive flag means alive.
func (r Record) IsAlive() bool {
	return r.Alive.Or(true)
}

// DecodeRecord decodes a raw presence record one field at a time so that a
// single bad field does not discard the rest. Input that is not a JSON object
// yields an empty Record.
func DecodeRecord(raw json.RawMessage) Record {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Record{}
	}
	return Record{
		X:     decodeField[float64](fields, netconfig.FieldX),
		Y:     decodeField[float64](fields, netconfig.FieldY),
		Z:     decodeField[float64](fields, netconfig.FieldZ),
		Yaw:   decodeField[float64](fields, netconfig.FieldYaw),
		Pitch: decodeField[float64](fields, netconfig.FieldPitch),
		HP:    decodeField[float64](fields, netconfig.FieldHP),
		Alive: decodeField[bool](fields, netconfig.FieldAlive),
		Color: decodeField[string](fields, netconfig.FieldColor),
		Name:  decodeField[string](fields, netconfig.FieldName),
	}
}

func decodeField[T any](fields map[string]json.RawMessage, key string) Field[T] {
	raw, ok := fields[key]
	// JSON null unmarshals without error, so it is checked explicitly.
	if !ok || string(raw) == "null" {
		return Field[T]{}
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return Field[T]{}
	}
	return Field[T]{Value: v, OK: true}
}
