package dispatch

import (
	"errors"
	"testing"

	"github.com/starford/berkano/internal/apperr"
)

func nopHandler(_ *Dispatcher, _ Event) []Effect { return nil }

func moduleWith(name string, bindings ...Binding) Module {
	m := Module{Name: name, Bindings: make(map[Binding]Handler)}
	for _, b := range bindings {
		m.Bindings[b] = nopHandler
	}
	return m
}

func TestNewRegistry_DuplicateModule(t *testing.T) {
	_, err := NewRegistry(
		moduleWith("search", Binding{ModeNormal, "/"}),
		moduleWith("search", Binding{ModeNormal, "s"}),
	)
	if !errors.Is(err, apperr.ErrDuplicateModule) {
		t.Fatalf("err = %v, want ErrDuplicateModule", err)
	}
}

func TestNewRegistry_ConflictingBinding(t *testing.T) {
	_, err := NewRegistry(
		moduleWith("one", Binding{ModeNormal, "x"}),
		moduleWith("two", Binding{ModeNormal, "x"}),
	)
	if !errors.Is(err, apperr.ErrConflictingBinding) {
		t.Fatalf("err = %v, want ErrConflictingBinding", err)
	}
}

func TestNewRegistry_SameKeyDifferentModes(t *testing.T) {
	r, err := NewRegistry(
		moduleWith("one", Binding{ModeNormal, "x"}),
		moduleWith("two", Binding{ModeSearch, "x"}),
	)
	if err != nil {
		t.Fatalf("modes do not overlap, registration should succeed: %v", err)
	}
	if _, ok := r.Resolve(ModeNormal, "x"); !ok {
		t.Error("normal-mode binding missing")
	}
	if _, ok := r.Resolve(ModeSearch, "x"); !ok {
		t.Error("search-mode binding missing")
	}
}

func TestRegister_RejectsModuleWhole(t *testing.T) {
	r, err := NewRegistry(moduleWith("one", Binding{ModeNormal, "x"}))
	if err != nil {
		t.Fatal(err)
	}
	// "y" is free but "x" conflicts: neither binding of "two" may activate.
	err = r.Register(moduleWith("two", Binding{ModeNormal, "y"}, Binding{ModeNormal, "x"}))
	if !errors.Is(err, apperr.ErrConflictingBinding) {
		t.Fatalf("err = %v", err)
	}
	if _, ok := r.Resolve(ModeNormal, "y"); ok {
		t.Error("rejected module's binding leaked into the registry")
	}
}

func TestResolve_AbsenceIsNotAnError(t *testing.T) {
	r, _ := NewRegistry(moduleWith("one", Binding{ModeNormal, "x"}))
	if _, ok := r.Resolve(ModeNormal, "z"); ok {
		t.Error("unbound key should resolve to nothing")
	}
	if _, ok := r.Resolve(ModeSearch, "x"); ok {
		t.Error("binding must not leak across modes")
	}
}

func TestRegister_AfterSealFails(t *testing.T) {
	r, _ := NewRegistry(moduleWith("one", Binding{ModeNormal, "x"}))
	r.seal()
	err := r.Register(moduleWith("late", Binding{ModeNormal, "y"}))
	if !errors.Is(err, apperr.ErrRegistrySealed) {
		t.Fatalf("err = %v, want ErrRegistrySealed", err)
	}
}

func TestRegister_EmptyName(t *testing.T) {
	if _, err := NewRegistry(moduleWith("")); err == nil {
		t.Error("expected error for unnamed module")
	}
}
