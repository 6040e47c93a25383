package state

import "testing"

type loaded struct {
	Base
	Count int
}

type click struct {
	Transient
}

type plain struct{ N int }

type handle struct {
	Base
	conn *int
}

func (h handle) ResourceEmpty() bool { return h.conn == nil }

func TestNeedsPersistence(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"base", loaded{Count: 1}, true},
		{"transient", click{}, false},
		{"plain value", plain{N: 2}, true},
		{"pointer to transient", &click{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsPersistence(tt.v); got != tt.want {
				t.Errorf("NeedsPersistence(%T) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestResourceMissing(t *testing.T) {
	n := 1
	if !ResourceMissing(handle{}) {
		t.Error("expected an empty handle to report a missing resource")
	}
	if ResourceMissing(handle{conn: &n}) {
		t.Error("expected a live handle to report its resource present")
	}
	if ResourceMissing(loaded{}) {
		t.Error("states without the capability never report a missing resource")
	}
}

func TestAbsent(t *testing.T) {
	var nilPtr *loaded
	var nilSlice []string
	var nilMap map[string]int

	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, true},
		{"nil pointer", nilPtr, true},
		{"nil slice", nilSlice, true},
		{"nil map", nilMap, true},
		{"struct", loaded{}, false},
		{"pointer", &loaded{}, false},
		{"zero int", 0, false},
		{"empty string", "", false},
	}
	for _, tt := range tests {
		if got := Absent(tt.v); got != tt.want {
			t.Errorf("%s: Absent = %v, want %v", tt.name, got, tt.want)
		}
	}
}
