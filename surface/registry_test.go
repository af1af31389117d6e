// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"slices"
	"testing"
)

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("test", 50, Software, nil)

	entry, ok := r.Get("test")
	if !ok {
		t.Fatal("registered backend not found")
	}
	if entry.Name != "test" {
		t.Errorf("Name = %s, want test", entry.Name)
	}
	if entry.Priority != 50 {
		t.Errorf("Priority = %d, want 50", entry.Priority)
	}
	if !entry.Available() {
		t.Error("backend should be available (nil Available func)")
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register("temp", 10, Software, nil)
	r.Unregister("temp")
	if _, ok := r.Get("temp"); ok {
		t.Error("backend should not exist after unregister")
	}
}

func TestRegistryOrdering(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 10, Software, nil)
	r.Register("high", 100, GPU, nil)
	r.Register("mid-b", 50, OpenGL, nil)
	r.Register("mid-a", 50, Direct3D, nil)
	r.Register("off", 200, Metal, func() bool { return false })

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"List", r.List(), []string{"off", "high", "mid-a", "mid-b", "low"}},
		{"Available", r.Available(), []string{"high", "mid-a", "mid-b", "low"}},
	}
	for _, tt := range tests {
		if !slices.Equal(tt.got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	var names []string
	for _, b := range r.Ordered() {
		names = append(names, b.Name())
	}
	if want := []string{"gpu", "direct3d", "opengl", "software"}; !slices.Equal(names, want) {
		t.Errorf("Ordered backends = %v, want %v", names, want)
	}
}

func TestRegistryOrderedReturnsFreshValues(t *testing.T) {
	r := NewRegistry()
	r.Register("gpu", 100, GPU, nil)
	a, b := r.Ordered(), r.Ordered()
	if a[0] == b[0] {
		t.Error("Ordered shared a backend value between calls")
	}
}

func TestRegistryNew(t *testing.T) {
	r := NewRegistry()
	r.Register("software", 10, Software, nil)
	r.Register("unavailable", 50, Metal, func() bool { return false })

	b, err := r.New("software")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if b.Name() != "software" {
		t.Errorf("Name = %s, want software", b.Name())
	}

	_, err = r.New("nonexistent")
	var notFound *BackendNotFoundError
	if !errors.As(err, &notFound) || notFound.Name != "nonexistent" {
		t.Errorf("New(nonexistent) = %v, want BackendNotFoundError", err)
	}

	_, err = r.New("unavailable")
	var unavailable *BackendUnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("New(unavailable) = %v, want BackendUnavailableError", err)
	}
}

func TestRegistryOverwrite(t *testing.T) {
	r := NewRegistry()
	r.Register("test", 10, Software, nil)
	r.Register("test", 50, Software, nil)

	entry, _ := r.Get("test")
	if entry.Priority != 50 {
		t.Errorf("Priority = %d, want 50 (should be overwritten)", entry.Priority)
	}
}

func TestGlobalRegistry(t *testing.T) {
	available := Available()
	for _, name := range []string{"gpu", "software"} {
		if !slices.Contains(available, name) {
			t.Errorf("%q backend should be available in the global registry", name)
		}
	}
	if last := available[len(available)-1]; last != "software" {
		t.Errorf("lowest priority backend = %s, want software", last)
	}
}

func TestBackendErrors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&BackendNotFoundError{Name: "vulkan"}, "surface: backend not found: vulkan"},
		{&BackendUnavailableError{Name: "metal"}, "surface: backend unavailable: metal"},
	}
	for _, tt := range tests {
		if msg := tt.err.Error(); msg != tt.want {
			t.Errorf("error message = %q, want %q", msg, tt.want)
		}
	}
}
