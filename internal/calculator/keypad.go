package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-keypad/internal/handlers"
	"go-chi-keypad/internal/keypad"
	"go-chi-keypad/internal/observability"
	"go-chi-keypad/internal/session"
)

// maxKeysPerRequest bounds a single press request.
const maxKeysPerRequest = 256

// Keypad serves the keypad session endpoints.
type Keypad struct {
	store *session.Store
}

func NewKeypad(store *session.Store) *Keypad {
	return &Keypad{store: store}
}

// ---------------------------------------------------------------------------
// Handlers: layout and session lifecycle
// ---------------------------------------------------------------------------

// Layout handles GET /keypad/layout.
func (k *Keypad) Layout(w http.ResponseWriter, r *http.Request) {
	grid := keypad.Layout()
	rows := make([][]string, len(grid))
	for i, row := range grid {
		rows[i] = make([]string, len(row))
		for j, key := range row {
			rows[i][j] = key.Symbol()
		}
	}
	handlers.WriteJSON(w, http.StatusOK, LayoutResponse{Rows: rows})
}

// Create handles POST /keypad/sessions.
func (k *Keypad) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "keypad.create")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	id, snap, err := k.store.Create()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create", "cannot create session", err, statusFor(err), w)
		return
	}

	span.SetAttributes(attribute.String("keypad.session_id", id))
	span.SetStatus(codes.Ok, "")
	logger.Info("keypad session created",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, newSessionResponse(id, snap))
}

// Get handles GET /keypad/sessions/{id}.
func (k *Keypad) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span, id := k.startSessionSpan(r, "keypad.get")
	defer span.End()

	snap, err := k.store.Get(id)
	if err != nil {
		observability.RecordError(ctx, span, observability.LoggerWithTrace(ctx), errorCounter, "get", "session not found", err, statusFor(err), w)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, newSessionResponse(id, snap))
}

// Delete handles DELETE /keypad/sessions/{id}.
func (k *Keypad) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span, id := k.startSessionSpan(r, "keypad.delete")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	if err := k.store.Delete(id); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "delete", "session not found", err, statusFor(err), w)
		return
	}

	logger.Info("keypad session deleted", zap.String("session_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handler: key presses
// ---------------------------------------------------------------------------

// Press handles POST /keypad/sessions/{id}/keys. Keys are applied in order.
// An error marker on the display is a normal outcome, reported per key in
// the trace; only transport problems produce an HTTP error.
func (k *Keypad) Press(w http.ResponseWriter, r *http.Request) {
	ctx, span, id := k.startSessionSpan(r, "keypad.press")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	// --- 1. Decode and validate the key symbols ---
	var req PressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "press", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Keys) == 0 || len(req.Keys) > maxKeysPerRequest {
		observability.RecordError(ctx, span, logger, errorCounter, "press", fmt.Sprintf("keys must hold between 1 and %d symbols", maxKeysPerRequest),
			fmt.Errorf("got %d keys", len(req.Keys)), http.StatusBadRequest, w)
		return
	}

	keys, err := keypad.ParseKeys(req.Keys)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "press", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("keypad.keys_count", len(keys)))

	// --- 2. Apply the keys under the session lock, one trace entry per key ---
	trail := make([]KeyTrace, 0, len(keys))
	snap, err := k.store.Press(id, keys, func(i int, key keypad.Key, before, after keypad.Snapshot, err error) {
		trail = append(trail, observeKey(ctx, span, logger, id, key, before, after, err))
	})
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "press", "session not found", err, statusFor(err), w)
		return
	}

	// --- 3. Final display on the span, then the JSON response ---
	span.SetAttributes(attribute.String("keypad.display", snap.Display))
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, PressResponse{
		SessionResponse: newSessionResponse(id, snap),
		Trace:           trail,
	})
}

// observeKey records metrics, span events and logs for one applied key.
func observeKey(ctx context.Context, span trace.Span, logger *zap.Logger, id string, key keypad.Key, before, after keypad.Snapshot, err error) KeyTrace {
	keysCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("category", keypad.Category(key))))

	kt := KeyTrace{Key: key.Symbol(), Display: after.Display, Banner: after.Banner}

	// An arithmetic operator or EQUALS evaluates whatever was pending before it.
	op, isOperator := key.(keypad.Operator)
	evaluates := isOperator && (op.IsArithmetic() || op == keypad.Equals)
	if evaluates && before.Pending != keypad.None && err == nil && after.Display != keypad.ErrorText {
		attrs := metric.WithAttributes(attribute.String("operation", before.Pending.Name()))
		opsCounter.Add(ctx, 1, attrs)
		resultGauge.Record(ctx, after.Result, attrs)
	}

	// Error marker: counted by kind, never an HTTP failure
	if err != nil {
		kind := keypad.ErrorKind(err)
		kt.Error = kind
		markerCount.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
		span.AddEvent("keypad.error_marker", trace.WithAttributes(
			attribute.String("key", key.Symbol()),
			attribute.String("kind", kind),
		))
		logger.Warn("keypad error marker",
			zap.String("session_id", id),
			zap.String("key", key.Symbol()),
			zap.String("kind", kind),
			zap.Error(err),
		)
		return kt
	}

	logger.Debug("keypad key applied",
		zap.String("session_id", id),
		zap.String("key", key.Symbol()),
		zap.String("display", after.Display),
		zap.String("banner", after.Banner),
	)
	return kt
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// startSessionSpan opens the span for a request addressed to one session.
func (k *Keypad) startSessionSpan(r *http.Request, name string) (context.Context, trace.Span, string) {
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), name,
		trace.WithAttributes(
			attribute.String("keypad.session_id", id),
			attribute.String("request.id", observability.RequestIDFromContext(r.Context())),
		),
	)
	return ctx, span, id
}

// statusFor maps store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrCapacity):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
