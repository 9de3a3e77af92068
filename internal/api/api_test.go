package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/lox/holdem-solver/internal/api"
	"github.com/lox/holdem-solver/internal/db"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	abs      int16
	equity   float64
	hist     map[int16]float64
	dx       float64
	near     []db.BucketDistance
	far      []db.BucketDistance
	policy   []db.PolicyEntry
	failWith error
}

func (f *fakeStore) ObsToAbs(context.Context, int16, int64) (int16, error) {
	return f.abs, f.failWith
}
func (f *fakeStore) ObsEquity(context.Context, int16, int64) (float64, error) {
	return f.equity, f.failWith
}
func (f *fakeStore) ObsHistogram(context.Context, int16, int64) (map[int16]float64, error) {
	return f.hist, f.failWith
}
func (f *fakeStore) AbsDistance(context.Context, int16, int16, int16) (float64, error) {
	return f.dx, f.failWith
}
func (f *fakeStore) KNearest(context.Context, int16, int16, int) ([]db.BucketDistance, error) {
	return f.near, f.failWith
}
func (f *fakeStore) KFarthest(context.Context, int16, int16, int) ([]db.BucketDistance, error) {
	return f.far, f.failWith
}
func (f *fakeStore) Policy(context.Context, int64, int16, int64) ([]db.PolicyEntry, error) {
	return f.policy, f.failWith
}

func TestHandleObsToAbsReturnsBucket(t *testing.T) {
	store := &fakeStore{abs: 42}
	srv := api.NewServer(store, zerolog.Nop())
	ts := httptest.NewServer(routerFor(t, srv))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/obs_to_abs?street=0&obs=7")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]int16
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int16(42), body["abs"])
}

func TestHandleObsToAbsBadRequestOnMalformedParam(t *testing.T) {
	store := &fakeStore{}
	srv := api.NewServer(store, zerolog.Nop())
	ts := httptest.NewServer(routerFor(t, srv))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/obs_to_abs?street=notanumber&obs=7")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleObsEquityPropagatesStoreErrorAs500(t *testing.T) {
	store := &fakeStore{failWith: errors.New("boom")}
	srv := api.NewServer(store, zerolog.Nop())
	ts := httptest.NewServer(routerFor(t, srv))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/obs_equity?street=1&obs=3")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHandlePolicyReturnsEntries(t *testing.T) {
	store := &fakeStore{policy: []db.PolicyEntry{{Edge: 1, Weight: 0.5, Counts: 10}}}
	srv := api.NewServer(store, zerolog.Nop())
	ts := httptest.NewServer(routerFor(t, srv))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/policy?past=0&present=5&choices=3")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Entries []db.PolicyEntry `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Entries, 1)
	assert.Equal(t, int64(1), body.Entries[0].Edge)
}

func TestStreamBroadcastsPolicyUpdatesToSubscribers(t *testing.T) {
	store := &fakeStore{}
	srv := api.NewServer(store, zerolog.Nop())
	ts := httptest.NewServer(routerFor(t, srv))
	defer ts.Close()

	wsURL := "ws" + ts.URL[len("http"):] + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	srv.Publish(api.PolicyUpdate{Past: 0, Present: 1, Choices: 2, Entries: []db.PolicyEntry{{Edge: 9}}})

	var update api.PolicyUpdate
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, int16(1), update.Present)
	require.Len(t, update.Entries, 1)
	assert.Equal(t, int64(9), update.Entries[0].Edge)
}

// routerFor exercises the server's real mux via httptest, without going
// through the exported Serve/Start lifecycle.
func routerFor(t *testing.T, srv *api.Server) http.Handler {
	t.Helper()
	return srv.Handler()
}
