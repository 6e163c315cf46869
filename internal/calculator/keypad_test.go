package calculator

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"go-chi-keypad/internal/keypad"
	"go-chi-keypad/internal/observability"
	"go-chi-keypad/internal/session"
	"go-chi-keypad/internal/testutil"
)

func newTestRouter(t *testing.T, opts session.Options) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, session.NewStore(opts))
	return r
}

func createSession(t *testing.T, h http.Handler) SessionResponse {
	t.Helper()
	w := testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, "/keypad/sessions", nil), h)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	var resp SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	return resp
}

func pressKeys(t *testing.T, h http.Handler, id string, keys ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/keypad/sessions/"+id+"/keys", PressRequest{Keys: keys})
	return testutil.ExecuteRequest(req, h)
}

func TestLayoutEndpoint(t *testing.T) {
	h := newTestRouter(t, session.Options{})

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/keypad/layout", nil), h)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp LayoutResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	require.Len(t, resp.Rows, 5)
	assert.Equal(t, []string{"C", "D", "%", "÷"}, resp.Rows[0])
	assert.Equal(t, []string{"0", ".", "+/-", "="}, resp.Rows[4])
}

func TestCreateSession(t *testing.T) {
	h := newTestRouter(t, session.Options{})

	resp := createSession(t, h)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, keypad.Placeholder, resp.Display)
	assert.Equal(t, keypad.BlankBanner, resp.Banner)
	assert.Empty(t, resp.Pending)
	require.NotNil(t, resp.Result)
	assert.Zero(t, *resp.Result)
}

func TestPressChainsOperators(t *testing.T) {
	h := newTestRouter(t, session.Options{})
	id := createSession(t, h).SessionID

	w := pressKeys(t, h, id, "6", "+", "4", "x")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp PressResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	assert.Equal(t, "10", resp.Display)
	assert.Equal(t, "x", resp.Pending)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 10.0, *resp.Result)
	require.Len(t, resp.Trace, 4)
	assert.Equal(t, KeyTrace{Key: "+", Display: "6", Banner: "6 +"}, resp.Trace[1])

	w = pressKeys(t, h, id, "2", "=")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	var final PressResponse
	testutil.DecodeJSONBody(t, w.Body, &final)
	assert.Equal(t, "20", final.Display)
	assert.Equal(t, "10 x 2", final.Banner)
	assert.Empty(t, final.Pending)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/keypad/sessions/"+id, nil), h)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	var got SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &got)
	assert.Equal(t, "20", got.Display)
}

func TestPressErrorMarkerIsNotAnHTTPError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	oldLogger := observability.Logger
	observability.Logger = zap.New(core)
	t.Cleanup(func() { observability.Logger = oldLogger })

	h := newTestRouter(t, session.Options{})
	id := createSession(t, h).SessionID

	w := pressKeys(t, h, id, "8", "/", "0", "=")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp PressResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	assert.Equal(t, keypad.ErrorText, resp.Display)
	assert.Equal(t, keypad.BlankBanner, resp.Banner)
	assert.Equal(t, "division_by_zero", resp.Trace[3].Error)

	entries := logs.FilterMessage("keypad error marker").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "division_by_zero", entries[0].ContextMap()["kind"])
}

func TestPressPercentage(t *testing.T) {
	h := newTestRouter(t, session.Options{})
	id := createSession(t, h).SessionID

	w := pressKeys(t, h, id, "5", "0", "%")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp PressResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	assert.Equal(t, "0.5", resp.Display)
}

func TestPressRejectsBadRequests(t *testing.T) {
	h := newTestRouter(t, session.Options{})
	id := createSession(t, h).SessionID

	tests := []struct {
		name   string
		keys   []string
		status int
	}{
		{name: "unknown key", keys: []string{"1", "^"}, status: http.StatusBadRequest},
		{name: "no keys", keys: []string{}, status: http.StatusBadRequest},
		{name: "too many keys", keys: make([]string, maxKeysPerRequest+1), status: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := pressKeys(t, h, id, tc.keys...)
			testutil.CheckResponseCode(t, tc.status, w.Code)
		})
	}

	// Rejected requests leave the session untouched.
	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/keypad/sessions/"+id, nil), h)
	var got SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &got)
	assert.Equal(t, keypad.Placeholder, got.Display)

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/keypad/sessions/"+id+"/keys", nil)
		w := testutil.ExecuteRequest(req, h)
		testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
	})
}

func TestUnknownSessionIsNotFound(t *testing.T) {
	h := newTestRouter(t, session.Options{})

	w := pressKeys(t, h, "missing", "1")
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/keypad/sessions/missing", nil), h)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodDelete, "/keypad/sessions/missing", nil), h)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}

func TestCreateSessionAtCapacity(t *testing.T) {
	h := newTestRouter(t, session.Options{MaxSessions: 1})
	createSession(t, h)

	w := testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, "/keypad/sessions", nil), h)
	testutil.CheckResponseCode(t, http.StatusServiceUnavailable, w.Code)
}
