package bundle

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type loaded struct {
	Title string `json:"title" yaml:"title"`
	Count int    `json:"count" yaml:"count"`
}

func TestKeys(t *testing.T) {
	if got := ViewStateKey("screens.first"); got != "screens.first:VIEW_STATE" {
		t.Errorf("ViewStateKey = %q", got)
	}
	if got := PresenterStateKey("screens.first"); got != "screens.first:PRESENTER_STATE" {
		t.Errorf("PresenterStateKey = %q", got)
	}
}

func TestBundlePutCopiesValue(t *testing.T) {
	b := New()
	v := []byte("abc")
	b.Put("k", v)
	v[0] = 'x'

	got, ok := b.Get("k")
	if !ok || string(got) != "abc" {
		t.Errorf("expected stored copy %q, got %q (ok=%v)", "abc", got, ok)
	}
}

func TestNilBundleGet(t *testing.T) {
	var b Bundle
	if _, ok := b.Get("anything"); ok {
		t.Error("expected a nil bundle to hold nothing")
	}
}

func TestWritable(t *testing.T) {
	var nilBundle Bundle
	tests := []struct {
		name string
		w    Writer
		want error
	}{
		{"nil writer", nil, ErrNilBundle},
		{"nil bundle", nilBundle, ErrNilBundle},
		{"new bundle", New(), nil},
	}
	for _, tt := range tests {
		if err := Writable(tt.w); !errors.Is(err, tt.want) {
			t.Errorf("%s: Writable = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestWriteToNilBundle(t *testing.T) {
	var b Bundle
	err := Write(b, "k", JSONCodec[loaded]{}, loaded{Count: 1})
	if !errors.Is(err, ErrNilBundle) {
		t.Fatalf("expected ErrNilBundle, got %v", err)
	}
	if !strings.Contains(err.Error(), "slot k") {
		t.Errorf("expected the slot key in %q", err.Error())
	}
}

func TestBundleMarshalRoundTrip(t *testing.T) {
	b := New()
	b.Put("a:VIEW_STATE", []byte(`{"count":5}`))
	WriteEmpty(b, "a:PRESENTER_STATE")

	data, err := b.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if keys := got.Keys(); !reflect.DeepEqual(keys, []string{"a:PRESENTER_STATE", "a:VIEW_STATE"}) {
		t.Errorf("unexpected keys %v", keys)
	}
	if view, ok := got.Get("a:VIEW_STATE"); !ok || string(view) != `{"count":5}` {
		t.Errorf("unexpected view slot %q (ok=%v)", view, ok)
	}
	if presenter, ok := got.Get("a:PRESENTER_STATE"); !ok || len(presenter) != 0 {
		t.Errorf("expected an empty presenter slot, got %q (ok=%v)", presenter, ok)
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte("not json")); err == nil {
		t.Error("expected an error for garbage input")
	}
}

func TestReadWrite(t *testing.T) {
	for _, name := range []string{"json", "yaml"} {
		t.Run(name, func(t *testing.T) {
			c, err := CodecFor[loaded](name)
			if err != nil {
				t.Fatalf("CodecFor: %v", err)
			}
			b := New()
			if err := Write(b, "k", c, loaded{Title: "Done", Count: 5}); err != nil {
				t.Fatalf("Write: %v", err)
			}
			got, ok, err := Read(b, "k", c)
			if err != nil || !ok {
				t.Fatalf("Read: ok=%v err=%v", ok, err)
			}
			if got != (loaded{Title: "Done", Count: 5}) {
				t.Errorf("round trip mismatch: %+v", got)
			}
		})
	}
}

func TestReadMissingAndEmpty(t *testing.T) {
	b := New()
	WriteEmpty(b, "empty")

	tests := []struct {
		name string
		r    Reader
		key  string
	}{
		{"missing", b, "missing"},
		{"empty", b, "empty"},
		{"nil reader", nil, "k"},
	}
	for _, tt := range tests {
		_, ok, err := Read[loaded](tt.r, tt.key, JSONCodec[loaded]{})
		if err != nil || ok {
			t.Errorf("%s: expected absent without error, got ok=%v err=%v", tt.name, ok, err)
		}
	}
}

func TestReadDecodeFailure(t *testing.T) {
	b := New()
	b.Put("k", []byte("{broken"))

	_, ok, err := Read(b, "k", JSONCodec[loaded]{})
	if ok {
		t.Error("expected a broken slot to read as absent")
	}
	if err == nil || !strings.Contains(err.Error(), "slot k") {
		t.Errorf("expected an error naming slot k, got %v", err)
	}
}

func TestCodecForUnknown(t *testing.T) {
	_, err := CodecFor[loaded]("xml")
	if err == nil || err.Error() != `unknown codec "xml"` {
		t.Errorf(`expected unknown codec "xml", got %v`, err)
	}
}
