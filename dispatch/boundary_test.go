package dispatch

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestGuard_PassThrough(t *testing.T) {
	if err := Guard(func() error { return nil }); err != nil {
		t.Fatalf("Expected nil, got %v", err)
	}

	sentinel := errors.New("operational failure")
	err := Guard(func() error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("Returned errors must pass through unchanged, got %v", err)
	}
	if errors.Is(err, &HostError{}) {
		t.Fatal("A returned error is not a host error")
	}
}

func TestGuard_StringPanic(t *testing.T) {
	err := Guard(func() error { panic("buffer misuse") })

	var herr *HostError
	if !errors.As(err, &herr) {
		t.Fatalf("Expected *HostError, got %T", err)
	}
	want := "internal error in host function: buffer misuse"
	if herr.Message != want {
		t.Fatalf("Message = %q, want %q", herr.Message, want)
	}
}

func TestGuard_ErrorPanic(t *testing.T) {
	err := Guard(func() error { panic(fmt.Errorf("address %#x is frozen", 0x40)) })

	var herr *HostError
	if !errors.As(err, &herr) {
		t.Fatalf("Expected *HostError, got %T", err)
	}
	if !strings.HasPrefix(herr.Message, "internal error in host function: ") {
		t.Fatalf("Missing marker: %q", herr.Message)
	}
	if !strings.Contains(herr.Message, "0x40 is frozen") {
		t.Fatalf("Missing cause text: %q", herr.Message)
	}
}

func TestGuard_OpaquePanic(t *testing.T) {
	type payload struct{ n int }
	err := Guard(func() error { panic(payload{n: 7}) })

	var herr *HostError
	if !errors.As(err, &herr) {
		t.Fatalf("Expected *HostError, got %T", err)
	}
	if herr.Message != "internal error in host function" {
		t.Fatalf("Opaque payload should yield the bare marker, got %q", herr.Message)
	}
}

func TestGuard_HostErrorPanicUnchanged(t *testing.T) {
	inner := Internal("scope ended with 1 outstanding loan(s)")
	err := Guard(func() error { panic(inner) })

	var herr *HostError
	if !errors.As(err, &herr) {
		t.Fatalf("Expected *HostError, got %T", err)
	}
	if herr != inner {
		t.Fatal("An already converted error must not be wrapped again")
	}
	if strings.Count(herr.Message, "internal error in host function") != 1 {
		t.Fatalf("Marker duplicated: %q", herr.Message)
	}
}

func TestGuard_ProcessSurvives(t *testing.T) {
	for i := 0; i < 3; i++ {
		if err := Guard(func() error { panic("again") }); err == nil {
			t.Fatal("Expected error")
		}
	}
	// A later guarded call on the same goroutine still works
	if err := Guard(func() error { return nil }); err != nil {
		t.Fatalf("Guard after panics failed: %v", err)
	}
}

func TestTruncation(t *testing.T) {
	long := strings.Repeat("x", 4*MaxMessageBytes)
	err := Guard(func() error { panic(long) })

	var herr *HostError
	if !errors.As(err, &herr) {
		t.Fatalf("Expected *HostError, got %T", err)
	}
	if len(herr.Message) != MaxMessageBytes {
		t.Fatalf("Message length = %d, want %d", len(herr.Message), MaxMessageBytes)
	}
	if !strings.HasPrefix(herr.Message, "internal error in host function: xxx") {
		t.Fatalf("Truncation lost the marker: %q", herr.Message[:40])
	}
}

func TestTruncation_RuneBoundary(t *testing.T) {
	// Multibyte runes positioned so the byte cap lands mid-sequence
	long := strings.Repeat("é", MaxMessageBytes) // 2 bytes each
	err := Guard(func() error { panic(long) })

	var herr *HostError
	if !errors.As(err, &herr) {
		t.Fatalf("Expected *HostError, got %T", err)
	}
	if len(herr.Message) > MaxMessageBytes {
		t.Fatalf("Message length = %d exceeds cap", len(herr.Message))
	}
	if !utf8.ValidString(herr.Message) {
		t.Fatal("Truncation split a UTF-8 sequence")
	}
}

func TestInternal(t *testing.T) {
	herr := Internal("leaked loans")
	if herr.Message != "internal error in host function: leaked loans" {
		t.Fatalf("Message = %q", herr.Message)
	}
	if Internal("").Message != "internal error in host function" {
		t.Fatal("Empty detail should yield the bare marker")
	}
}
