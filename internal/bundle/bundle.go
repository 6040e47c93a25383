// Package bundle provides the opaque key/value blob a host hands to its state
// containers when restoring, and collects from them when saving.
//
// Keys are namespaced by container identity:
//
//	<identity>:VIEW_STATE
//	<identity>:PRESENTER_STATE
//
// Values are opaque bytes produced by a Codec.
package bundle

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

const (
	viewStateSuffix      = ":VIEW_STATE"
	presenterStateSuffix = ":PRESENTER_STATE"
)

// ViewStateKey returns the slot key for a container's view state.
func ViewStateKey(identity string) string { return identity + viewStateSuffix }

// PresenterStateKey returns the slot key for a container's presenter state.
func PresenterStateKey(identity string) string { return identity + presenterStateSuffix }

// Reader is the restore side of a bundle.
type Reader interface {
	Get(key string) ([]byte, bool)
}

// Writer is the save side of a bundle.
type Writer interface {
	Put(key string, value []byte)
}

// Bundle is the default in-memory blob. The zero value is not usable for
// writes; use New.
type Bundle map[string][]byte

var (
	_ Reader = Bundle(nil)
	_ Writer = Bundle(nil)
)

// ErrNilBundle is returned when saving into a nil Writer or a nil Bundle.
var ErrNilBundle = errors.New("write to nil bundle")

// Writable returns ErrNilBundle if w cannot take writes.
func Writable(w Writer) error {
	if w == nil {
		return ErrNilBundle
	}
	if b, ok := w.(Bundle); ok && b == nil {
		return ErrNilBundle
	}
	return nil
}

// New returns an empty bundle.
func New() Bundle {
	return make(Bundle)
}

// Get returns the value stored under key. A nil bundle holds nothing.
func (b Bundle) Get(key string) ([]byte, bool) {
	v, ok := b[key]
	return v, ok
}

// Put stores a copy of value under key, replacing any previous value.
func (b Bundle) Put(key string, value []byte) {
	var cp []byte
	if value != nil {
		cp = make([]byte, len(value))
		copy(cp, value)
	}
	b[key] = cp
}

// Keys returns the stored keys in sorted order.
func (b Bundle) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (b Bundle) Clone() Bundle {
	out := make(Bundle, len(b))
	for k, v := range b {
		out.Put(k, v)
	}
	return out
}

// Marshal encodes the whole bundle for a Store.
func (b Bundle) Marshal() ([]byte, error) {
	data, err := json.Marshal(map[string][]byte(b))
	if err != nil {
		return nil, errors.Wrap(err, "marshal bundle")
	}
	return data, nil
}

// Unmarshal decodes a bundle produced by Marshal.
func Unmarshal(data []byte) (Bundle, error) {
	var raw map[string][]byte
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "unmarshal bundle")
	}
	if raw == nil {
		raw = map[string][]byte{}
	}
	return Bundle(raw), nil
}
