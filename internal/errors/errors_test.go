package errors

import (
	"errors"
	"testing"
)

func TestNewAndError(t *testing.T) {
	err := New(KindInput, "modelio", "Load", "bad header")
	if err.Error() != "input: modelio.Load: bad header" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	wrapped := Wrap(KindResource, "storage", "Get", cause)
	if !errors.Is(wrapped, cause) {
		t.Fatalf("expected Unwrap to expose cause")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(KindResource, "storage", "Get", nil) != nil {
		t.Fatalf("Wrap(nil) should return nil")
	}
}

func TestRequirefPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic")
		}
		if _, ok := r.(*RenderError); !ok {
			t.Fatalf("expected *RenderError panic, got %T", r)
		}
	}()
	Requiref(false, "svo", "build", "child index %d out of bounds", 42)
}

func TestRequirefPasses(t *testing.T) {
	Requiref(true, "svo", "build", "should not panic")
}
