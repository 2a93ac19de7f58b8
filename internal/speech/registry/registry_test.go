package registry

import (
	"errors"
	"testing"
)

func TestRegistryCreate(t *testing.T) {
	r := New[string]()
	r.Register("echo", func(config map[string]string) (string, error) {
		return config["value"], nil
	})

	got, err := r.Create("echo", map[string]string{"value": "hello"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got != "hello" {
		t.Errorf("Create = %q, want %q", got, "hello")
	}
}

func TestRegistryUnknownProvider(t *testing.T) {
	r := New[string]()
	if _, err := r.Create("missing", nil); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestRegistryFactoryError(t *testing.T) {
	r := New[int]()
	boom := errors.New("boom")
	r.Register("bad", func(map[string]string) (int, error) { return 0, boom })

	if _, err := r.Create("bad", nil); !errors.Is(err, boom) {
		t.Errorf("Create = %v, want %v", err, boom)
	}
}

func TestRegistryHasAndList(t *testing.T) {
	r := New[string]()
	r.Register("a", func(map[string]string) (string, error) { return "", nil })
	r.Register("b", func(map[string]string) (string, error) { return "", nil })

	if !r.Has("a") || !r.Has("b") {
		t.Error("registered factories not found")
	}
	if r.Has("c") {
		t.Error("Has reports unregistered factory")
	}
	if got := len(r.List()); got != 2 {
		t.Errorf("List len = %d, want 2", got)
	}
}
