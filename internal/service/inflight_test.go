package service

import (
	"errors"
	"testing"

	"github.com/mmynk/arisan/internal/diagnostics"
)

func TestInflight(t *testing.T) {
	f := newInflight()

	release, err := f.acquire("g1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if _, err := f.acquire("g1"); !errors.Is(err, diagnostics.ErrBusy) {
		t.Errorf("second acquire error = %v, want ErrBusy", err)
	}

	other, err := f.acquire("g2")
	if err != nil {
		t.Fatalf("acquire for another group failed: %v", err)
	}
	other()

	release()
	again, err := f.acquire("g1")
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	again()
}
