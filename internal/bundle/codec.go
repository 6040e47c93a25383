package bundle

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Codec converts one snapshot type to and from bytes.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// JSONCodec encodes snapshots with encoding/json.
type JSONCodec[T any] struct{}

// Encode implements Codec.
func (JSONCodec[T]) Encode(v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %T as json", v)
	}
	return data, nil
}

// Decode implements Codec.
func (JSONCodec[T]) Decode(data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Wrapf(err, "decode %T from json", v)
	}
	return v, nil
}

// YAMLCodec encodes snapshots with gopkg.in/yaml.v3. Field names follow the
// yaml tags of T.
type YAMLCodec[T any] struct{}

// Encode implements Codec.
func (YAMLCodec[T]) Encode(v T) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %T as yaml", v)
	}
	return data, nil
}

// Decode implements Codec.
func (YAMLCodec[T]) Decode(data []byte) (T, error) {
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return v, errors.Wrapf(err, "decode %T from yaml", v)
	}
	return v, nil
}

// CodecFor returns the codec registered under name ("json" or "yaml").
func CodecFor[T any](name string) (Codec[T], error) {
	switch name {
	case "", "json":
		return JSONCodec[T]{}, nil
	case "yaml":
		return YAMLCodec[T]{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

// Read decodes the value stored under key. A missing or empty slot yields
// ok == false with no error; a slot that fails to decode yields the error.
func Read[T any](r Reader, key string, c Codec[T]) (v T, ok bool, err error) {
	if r == nil {
		return v, false, nil
	}
	data, found := r.Get(key)
	if !found || len(data) == 0 {
		return v, false, nil
	}
	v, err = c.Decode(data)
	if err != nil {
		return v, false, errors.Wrapf(err, "slot %s", key)
	}
	return v, true, nil
}

// Write encodes v under key. Callers write an empty slot for absent values
// with WriteEmpty.
func Write[T any](w Writer, key string, c Codec[T], v T) error {
	if err := Writable(w); err != nil {
		return errors.Wrapf(err, "slot %s", key)
	}
	data, err := c.Encode(v)
	if err != nil {
		return errors.Wrapf(err, "slot %s", key)
	}
	w.Put(key, data)
	return nil
}

// WriteEmpty records key as present but holding no snapshot.
func WriteEmpty(w Writer, key string) {
	w.Put(key, nil)
}
