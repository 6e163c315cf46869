package calculator

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-keypad/internal/arithmetic"
	"go-chi-keypad/internal/handlers"
	"go-chi-keypad/internal/keypad"
	"go-chi-keypad/internal/observability"
)

// tracer is shared by the arithmetic and keypad handlers.
var tracer = otel.Tracer("calculator")

var errNonFinite = errors.New("result is not a finite number")

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func sinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

// ---------------------------------------------------------------------------
// Handlers: binary operations
// ---------------------------------------------------------------------------

// Binary handles POST /calculator/{op} for add, subtract, multiply and divide.
func Binary(w http.ResponseWriter, r *http.Request) {
	opName := chi.URLParam(r, "op")
	ctx := r.Context()

	compute, ok := arithmetic.Lookup(opName)
	if !ok {
		_, span := tracer.Start(ctx, "calculator.unknown")
		defer span.End()
		observability.RecordError(ctx, span, observability.LoggerWithTrace(ctx), errorCounter, opName,
			"unknown operation", fmt.Errorf("unknown operation %q", opName), http.StatusNotFound, w)
		return
	}

	handleBinaryOp(w, r, opName, compute)
}

// handleBinaryOp decodes the operands, evaluates them with compute inside a
// child span and records metrics, logs and the JSON response.
func handleBinaryOp(w http.ResponseWriter, r *http.Request, opName string, compute arithmetic.Func) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	// --- 1. Custom child span ---
	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	// --- 2. Decode request body ---
	var req CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	// Validate inputs
	if !finite(req.A) || !finite(req.B) {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid numeric input", fmt.Errorf("a=%g b=%g", req.A, req.B), http.StatusBadRequest, w)
		return
	}

	// Record operands as span attributes
	span.SetAttributes(
		attribute.Float64("calculator.operand.a", req.A),
		attribute.Float64("calculator.operand.b", req.B),
	)

	// --- 3. Perform computation (timed for histogram) ---
	start := time.Now()
	result, err := compute(req.A, req.B)
	elapsed := sinceMillis(start)

	if err == nil && !finite(result) {
		err = errNonFinite
	}
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return
	}

	// --- 4. Record metrics ---
	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result, attrs)

	// --- 5. Span event with the result ---
	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("result", result),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.Float64("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	// --- 6. Structured log with trace correlation ---
	logger.Info("calculator operation completed",
		zap.String("operation", opName),
		zap.Float64("a", req.A),
		zap.Float64("b", req.B),
		zap.Float64("result", result),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	// --- 7. Write JSON response ---
	handlers.WriteJSON(w, http.StatusOK, CalcResponse{
		Operation: opName,
		A:         req.A,
		B:         req.B,
		Result:    result,
		Display:   keypad.FormatNumber(result),
		RequestID: requestID,
	})
}

// ---------------------------------------------------------------------------
// Handler: chained operations
// ---------------------------------------------------------------------------

// Chain handles POST /calculator/chain. Each step is resolved exactly like
// pressing the operator key on a keypad holding the running total, and gets
// its own child span.
func Chain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	// Parent span for the entire chain
	ctx, span := tracer.Start(ctx, "calculator.chain",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	// Decode
	var req ChainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "chain", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Steps) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "chain", "no steps provided", errors.New("steps array is empty"), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.Float64("chain.initial", req.Initial),
		attribute.Int("chain.steps_count", len(req.Steps)),
	)

	running := req.Initial
	results := make([]ChainResult, 0, len(req.Steps))

	for i, step := range req.Steps {
		// --- Child span per step ---
		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.chain.step.%d.%s", i, step.Op),
			trace.WithAttributes(
				attribute.Int("chain.step.index", i),
				attribute.String("chain.step.operation", step.Op),
				attribute.Float64("chain.step.input", running),
				attribute.Float64("chain.step.value", step.Value),
			),
		)

		stepStart := time.Now()
		res, err := resolveStep(running, step)
		stepElapsed := sinceMillis(stepStart)

		if err != nil {
			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, err.Error())
			stepSpan.End()

			msg := fmt.Sprintf("step %d: %v", i, err)
			observability.RecordError(ctx, span, logger, errorCounter, step.Op, msg, err, http.StatusBadRequest, w)
			return
		}

		// Step metrics
		attrs := metric.WithAttributes(attribute.String("operation", step.Op))
		opsCounter.Add(ctx, 1, attrs)
		opsHistogram.Record(ctx, stepElapsed, attrs)

		stepSpan.AddEvent("step.complete", trace.WithAttributes(
			attribute.Float64("input", running),
			attribute.Float64("result", res.Value),
		))
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		logger.Debug("chain step completed",
			zap.Int("step", i),
			zap.String("expression", res.Banner),
			zap.Float64("result", res.Value),
			zap.Float64("duration_ms", stepElapsed),
		)

		running = res.Value
		results = append(results, ChainResult{
			Op:         step.Op,
			Value:      step.Value,
			Result:     running,
			Expression: res.Banner,
		})
	}

	// --- Final result ---
	resultGauge.Record(ctx, running, metric.WithAttributes(attribute.String("operation", "chain")))

	span.SetAttributes(attribute.Float64("chain.result", running))
	span.SetStatus(codes.Ok, "")

	logger.Info("chained calculation completed",
		zap.Float64("initial", req.Initial),
		zap.Float64("result", running),
		zap.Int("steps", len(req.Steps)),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, ChainResponse{
		Initial:   req.Initial,
		Steps:     results,
		Result:    running,
		Display:   keypad.FormatNumber(running),
		RequestID: requestID,
	})
}

// resolveStep applies one chain step the way the keypad resolves a pending
// operator, so the step's expression matches the keypad banner.
func resolveStep(running float64, step ChainStep) (keypad.Resolution, error) {
	op, ok := keypad.OperatorByName(step.Op)
	if !ok {
		return keypad.Resolution{}, fmt.Errorf("unknown operation %q", step.Op)
	}

	res, err := keypad.Resolve(running, keypad.FormatNumber(step.Value), op)
	if err != nil {
		return res, err
	}
	if !finite(res.Value) {
		return res, errNonFinite
	}
	return res, nil
}
