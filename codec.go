package dataservice

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/huandu/go-clone"
)

// Codec serializes persisted records.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec encodes records with encoding/json. It is the default codec.
type JSONCodec struct{}

func (JSONCodec) Name() string                       { return "json" }
func (JSONCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// CBORCodec encodes records as deterministic CBOR.
type CBORCodec struct {
	em cbor.EncMode
	dm cbor.DecMode
}

// NewCBORCodec creates a CBOR codec with deterministic encoding and
// nanosecond-precision timestamps.
func NewCBORCodec() (*CBORCodec, error) {
	encOpts := cbor.CoreDetEncOptions()
	encOpts.Time = cbor.TimeRFC3339Nano
	em, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("create CBOR encoder: %w", err)
	}
	dm, err := cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		MaxNestedLevels: 64,
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("create CBOR decoder: %w", err)
	}
	return &CBORCodec{em: em, dm: dm}, nil
}

func (c *CBORCodec) Name() string { return "cbor" }

func (c *CBORCodec) Marshal(v any) ([]byte, error) {
	return c.em.Marshal(v)
}

func (c *CBORCodec) Unmarshal(data []byte, v any) error {
	if err := c.dm.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode CBOR: %w", err)
	}
	return nil
}

// DeepCopier is implemented by types that know how to copy themselves.
// When T implements it, the service uses it instead of reflection.
type DeepCopier[T any] interface {
	DeepCopy() T
}

// cloneValue returns a deep copy of v, unexported fields included.
func cloneValue[T any](v T) T {
	if c, ok := any(v).(DeepCopier[T]); ok {
		return c.DeepCopy()
	}
	out, _ := clone.Clone(v).(T)
	return out
}
