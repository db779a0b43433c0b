package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestStructuredError_Error(t *testing.T) {
	err := New(ErrCodeUnknownKind, "unknown resource kind %q", "Widget")
	want := `UNKNOWN_KIND: unknown resource kind "Widget"`
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestStructuredError_ErrorWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, ErrCodeCollectionFailed, "failed to get pod")
	want := "COLLECTION_FAILED: failed to get pod: connection refused"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestStructuredError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, ErrCodeCollectionFailed, "failed to get pod")

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
}

func TestStructuredError_IsMatchesByCode(t *testing.T) {
	a := New(ErrCodeUnknownKind, "one")
	b := New(ErrCodeUnknownKind, "two")
	c := New(ErrCodeInternal, "three")

	if !errors.Is(a, b) {
		t.Fatal("expected errors with the same code to match")
	}
	if errors.Is(a, c) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestStructuredError_AsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeMalformedRule, "bad rule")
	outer := fmt.Errorf("loading store: %w", inner)

	var se *StructuredError
	if !errors.As(outer, &se) {
		t.Fatal("expected errors.As to find the StructuredError")
	}
	if se.Code != ErrCodeMalformedRule {
		t.Fatalf("expected code %s, got %s", ErrCodeMalformedRule, se.Code)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"structured", New(ErrCodeUnknownKind, "x"), ErrCodeUnknownKind},
		{"wrapped structured", fmt.Errorf("outer: %w", New(ErrCodeCollectionFailed, "x")), ErrCodeCollectionFailed},
		{"plain error", errors.New("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Fatalf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
