// Package diagnostics is the single place where failed operations are turned
// into RPC errors. Every service funnels its errors through a Reporter so that
// permission failures in particular are logged, counted and kept with the
// attempted operation and payload for the developer overlay.
package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/arisan/internal/finance"
	"github.com/mmynk/arisan/internal/lottery"
	"github.com/mmynk/arisan/internal/metrics"
	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

const maxDenials = 50

// ErrBusy means another reconcile or draw for the same group is in flight.
var ErrBusy = errors.New("another operation for this group is in progress")

// ValidationError marks input that was rejected before any I/O.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid wraps err as a ValidationError.
func Invalid(err error) error {
	return &ValidationError{Err: err}
}

// Denial is one recorded permission failure.
type Denial struct {
	Time      time.Time `json:"time"`
	Procedure string    `json:"procedure"`
	UserID    string    `json:"userId,omitempty"`
	Op        string    `json:"op"`
	Path      string    `json:"path"`
	Payload   any       `json:"payload,omitempty"`
}

// Reporter classifies, logs and counts errors, and remembers recent denials.
type Reporter struct {
	logger *slog.Logger

	mu      sync.Mutex
	denials []Denial
}

// NewReporter creates a reporter that logs to logger.
func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger}
}

// Error converts err into a *connect.Error with a code matching its kind.
func (r *Reporter) Error(ctx context.Context, procedure string, err error) error {
	kind, code := classify(err)
	metrics.Failures.WithLabelValues(kind).Inc()

	principal, _ := storage.PrincipalFrom(ctx)
	attrs := []any{"procedure", procedure, "kind", kind, "user_id", principal.UserID, "error", err}

	var opErr *storage.OpError
	if errors.As(err, &opErr) {
		attrs = append(attrs, "op", opErr.Op, "path", opErr.Path)
	}

	switch code {
	case connect.CodeInternal:
		r.logger.Error("Operation failed", attrs...)
	default:
		r.logger.Warn("Operation rejected", attrs...)
	}

	if code == connect.CodePermissionDenied {
		d := Denial{Time: time.Now().UTC(), Procedure: procedure, UserID: principal.UserID}
		if opErr != nil {
			d.Op = string(opErr.Op)
			d.Path = opErr.Path
			d.Payload = opErr.Payload
		}
		r.record(d)
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	return connect.NewError(code, publicError(kind, err))
}

func classify(err error) (string, connect.Code) {
	var validation *ValidationError
	switch {
	case errors.As(err, &validation), errors.Is(err, models.ErrInvalidMonthKey):
		return "validation", connect.CodeInvalidArgument
	case errors.Is(err, storage.ErrPermissionDenied):
		return "permission_denied", connect.CodePermissionDenied
	case errors.Is(err, storage.ErrNotFound):
		return "not_found", connect.CodeNotFound
	case errors.Is(err, storage.ErrConflict):
		return "conflict", connect.CodeAborted
	case errors.Is(err, finance.ErrSettingsUnresolved):
		return "settings_unresolved", connect.CodeFailedPrecondition
	case errors.Is(err, lottery.ErrExhausted):
		return "exhausted", connect.CodeFailedPrecondition
	case errors.Is(err, ErrBusy):
		return "busy", connect.CodeResourceExhausted
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return "rpc", connectErr.Code()
	}
	return "internal", connect.CodeInternal
}

// publicError picks the message shown to users for a kind.
func publicError(kind string, err error) error {
	switch kind {
	case "conflict":
		return errors.New("sync failed: the data changed while saving, please try again")
	case "settings_unresolved":
		return finance.ErrSettingsUnresolved
	case "exhausted":
		return lottery.ErrExhausted
	}
	return err
}

func (r *Reporter) record(d Denial) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.denials = append(r.denials, d)
	if len(r.denials) > maxDenials {
		r.denials = r.denials[len(r.denials)-maxDenials:]
	}
}

// Denials returns the recorded permission failures, oldest first.
func (r *Reporter) Denials() []Denial {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Denial(nil), r.denials...)
}

// ServeHTTP writes the recorded denials as JSON.
func (r *Reporter) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(r.Denials()); err != nil {
		r.logger.Error("Failed to encode denials", "error", err)
	}
}
