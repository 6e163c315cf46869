package calculator

import (
	"math"

	"go-chi-keypad/internal/keypad"
)

// CalcRequest is the JSON body for POST /calculator/{op}.
type CalcRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// CalcResponse is the JSON response for POST /calculator/{op}. Display is
// the result as the keypad would show it.
type CalcResponse struct {
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Result    float64 `json:"result"`
	Display   string  `json:"display"`
	RequestID string  `json:"request_id"`
}

// ChainStep describes a single step in a chained calculation.
type ChainStep struct {
	Op    string  `json:"op"`    // "add", "subtract", "multiply", "divide"
	Value float64 `json:"value"` // right operand applied to the running total
}

// ChainRequest is the JSON body for POST /calculator/chain.
type ChainRequest struct {
	Initial float64     `json:"initial"`
	Steps   []ChainStep `json:"steps"`
}

// ChainResponse is the JSON response for POST /calculator/chain.
type ChainResponse struct {
	Initial   float64       `json:"initial"`
	Steps     []ChainResult `json:"steps"`
	Result    float64       `json:"result"`
	Display   string        `json:"display"`
	RequestID string        `json:"request_id"`
}

// ChainResult records one executed step. Expression is the keypad banner
// for the step, e.g. "6 + 4".
type ChainResult struct {
	Op         string  `json:"op"`
	Value      float64 `json:"value"`
	Result     float64 `json:"result"`
	Expression string  `json:"expression"`
}

// PressRequest is the JSON body for POST /keypad/sessions/{id}/keys.
type PressRequest struct {
	Keys []string `json:"keys"`
}

// SessionResponse is the rendered state of one keypad session.
type SessionResponse struct {
	SessionID string   `json:"session_id"`
	Display   string   `json:"display"`
	Banner    string   `json:"banner"`
	Pending   string   `json:"pending,omitempty"`
	Result    *float64 `json:"result,omitempty"` // nil when the accumulated value is not finite
	Append    bool     `json:"append"`
}

// KeyTrace is the display after a single key of a PressRequest.
type KeyTrace struct {
	Key     string `json:"key"`
	Display string `json:"display"`
	Banner  string `json:"banner"`
	Error   string `json:"error,omitempty"`
}

// PressResponse is the JSON response for POST /keypad/sessions/{id}/keys.
type PressResponse struct {
	SessionResponse
	Trace []KeyTrace `json:"trace"`
}

// LayoutResponse lists button symbols row by row, top row first.
type LayoutResponse struct {
	Rows [][]string `json:"rows"`
}

func newSessionResponse(id string, s keypad.Snapshot) SessionResponse {
	resp := SessionResponse{
		SessionID: id,
		Display:   s.Display,
		Banner:    s.Banner,
		Append:    s.Append,
	}
	if !math.IsInf(s.Result, 0) && !math.IsNaN(s.Result) {
		v := s.Result
		resp.Result = &v
	}
	if s.Pending != keypad.None {
		resp.Pending = s.Pending.Symbol()
	}
	return resp
}
