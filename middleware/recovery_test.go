package middleware

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func TestRecover_Panic(t *testing.T) {
	err := Recover(func() error {
		var m map[string]int
		m["boom"] = 1
		return nil
	})

	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PanicError, got %v", err)
	}
	if len(pe.Stack) == 0 {
		t.Error("expected a stack trace")
	}
}

func TestRecover_PassesErrors(t *testing.T) {
	want := errors.New("plain failure")
	if err := Recover(func() error { return want }); err != want {
		t.Errorf("expected %v, got %v", want, err)
	}
	if err := Recover(func() error { return nil }); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	cb := NewBreaker("test", time.Minute)
	fail := errors.New("dial refused")

	for i := 0; i < 3; i++ {
		if err := WithCircuitBreaker(cb, func() error { return fail }); !errors.Is(err, fail) {
			t.Fatalf("attempt %d: expected dial error, got %v", i, err)
		}
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", cb.State())
	}

	called := false
	err := WithCircuitBreaker(cb, func() error { called = true; return nil })
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if called {
		t.Error("fn ran while breaker was open")
	}
}
