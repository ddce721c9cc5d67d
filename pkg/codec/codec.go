// Package codec converts typed values to and from the JSON strings carried by
// element attributes.
//
// Decoding never panics: malformed JSON and schema violations are both reported
// as *DecodeError. Both directions validate the marshaled value against the schema,
// so a codec only ever emits documents its own Decode accepts.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrDecode is matched by every error returned from Decode.
	ErrDecode = errors.New("decode failed")
	// ErrEncode is matched by every error returned from Encode.
	ErrEncode = errors.New("encode failed")
)

// DecodeError describes why a raw attribute value was rejected.
type DecodeError struct {
	Schema  string
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Schema == "" {
		return fmt.Sprintf("decode: %s", e.Message)
	}
	return fmt.Sprintf("decode %s: %s", e.Schema, e.Message)
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDecode}
	}
	return []error{ErrDecode, e.Err}
}

// Decoder turns a raw attribute string into a typed value.
type Decoder[T any] interface {
	Decode(raw string) (T, error)
}

// Encoder turns a typed value into a raw attribute string.
type Encoder[T any] interface {
	Encode(v T) (string, error)
}

// Codec is a bidirectional converter with a default value used before any
// attribute has been set.
type Codec[T any] interface {
	Decoder[T]
	Encoder[T]
	Init() T
}

type jsonCodec[T any] struct {
	schema *Schema
	// def holds the marshaled default so every Init call returns a fresh copy.
	def []byte
}

// NewJSON returns a codec validating against schema whose Init returns a copy of
// def. It panics if def cannot be marshaled.
func NewJSON[T any](schema *Schema, def T) Codec[T] {
	raw, err := json.Marshal(def)
	if err != nil {
		panic(fmt.Sprintf("codec: default value for %s is not marshalable: %v", schema.Name(), err))
	}
	return &jsonCodec[T]{schema: schema, def: raw}
}

// NewSimple returns a codec without a meaningful default; Init returns the zero
// value of T.
func NewSimple[T any](schema *Schema) Codec[T] {
	return &jsonCodec[T]{schema: schema}
}

func (c *jsonCodec[T]) Init() T {
	var v T
	if c.def != nil {
		// def was produced by json.Marshal of a T, so this cannot fail.
		_ = json.Unmarshal(c.def, &v)
	}
	return v
}

func (c *jsonCodec[T]) Decode(raw string) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, c.decodeError(fmt.Sprintf("%v", r), nil)
		}
	}()

	if err := c.schema.Validate([]byte(raw)); err != nil {
		return v, c.decodeError(err.Error(), err)
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		var zero T
		return zero, c.decodeError(err.Error(), err)
	}
	// Unmarshal folds key case and lets the last duplicate win, so a document
	// that passed validation can still fill v with values the schema rejects.
	decoded, err := json.Marshal(v)
	if err != nil {
		var zero T
		return zero, c.decodeError(err.Error(), err)
	}
	if err := c.schema.Validate(decoded); err != nil {
		var zero T
		return zero, c.decodeError(err.Error(), err)
	}
	return v, nil
}

func (c *jsonCodec[T]) Encode(v T) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrEncode, c.schema.Name(), err)
	}
	if err := c.schema.Validate(raw); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrEncode, c.schema.Name(), err)
	}
	return string(raw), nil
}

func (c *jsonCodec[T]) decodeError(msg string, err error) *DecodeError {
	return &DecodeError{Schema: c.schema.Name(), Message: msg, Err: err}
}

// MustEncode encodes v or panics. Use it only for values known to be valid.
func MustEncode[T any](c Encoder[T], v T) string {
	s, err := c.Encode(v)
	if err != nil {
		panic(err)
	}
	return s
}
