package registry

import (
	"slices"
	"strings"
	"testing"
)

func TestRegistry_NewRegistered(t *testing.T) {
	r := New[int]("test", "widget")
	r.Register("seven", func() int { return 7 })

	if !r.Has("seven") {
		t.Fatal("Has(\"seven\") = false, want true")
	}
	got, err := r.New("seven")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got != 7 {
		t.Errorf("New(\"seven\") = %d, want 7", got)
	}
}

func TestRegistry_Unknown(t *testing.T) {
	r := New[int]("test", "widget")

	_, err := r.New("missing")
	if err == nil {
		t.Fatal("New(\"missing\") succeeded, want error")
	}
	want := `test: unknown widget "missing" (forgotten import?)`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err, want)
	}
}

func TestRegistry_Panics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(r *Registry[int])
		msg  string
	}{
		{"nil factory", func(r *Registry[int]) { r.Register("nil", nil) }, "factory is nil"},
		{"duplicate", func(r *Registry[int]) {
			r.Register("dup", func() int { return 1 })
			r.Register("dup", func() int { return 2 })
		}, "called twice for dup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				v := recover()
				if v == nil {
					t.Fatal("expected panic")
				}
				if s, _ := v.(string); !strings.Contains(s, tt.msg) {
					t.Errorf("panic = %v, want message containing %q", v, tt.msg)
				}
			}()
			tt.fn(New[int]("test", "widget"))
		})
	}
}

func TestRegistry_NamesSortedAndUnregister(t *testing.T) {
	r := New[int]("test", "widget")
	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.Register(name, func() int { return 0 })
	}

	if got, want := r.Names(), []string{"alpha", "mid", "zeta"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	r.Unregister("mid")
	r.Unregister("never-registered")
	if r.Has("mid") {
		t.Error("Has(\"mid\") after Unregister = true, want false")
	}
	if got := r.Names(); len(got) != 2 {
		t.Errorf("Names() = %v, want 2 names", got)
	}
}
