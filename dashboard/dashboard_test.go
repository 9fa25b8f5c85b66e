package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/liamzebedee/feevote-go/core/feevote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLedger struct {
	live feevote.LiveParameterSet
	err  error
}

func (s staticLedger) FetchLiveParameters(ctx context.Context) (feevote.LiveParameterSet, error) {
	return s.live, s.err
}

type staticRegistry struct {
	entries []feevote.RegistryEntry
}

func (s staticRegistry) FetchRegistry(ctx context.Context) ([]feevote.RegistryEntry, error) {
	return s.entries, nil
}

func testLive() feevote.LiveParameterSet {
	return feevote.LiveParameterSet{
		Values: feevote.ParamSet[feevote.Drops]{
			BaseFee:          10,
			ReserveBase:      1_000_000,
			ReserveIncrement: 200_000,
		},
		LedgerIndex: 91_234_567,
		FetchedAt:   time.Now(),
	}
}

func testEntries() []feevote.RegistryEntry {
	twelve := feevote.VoteAmount("12")
	twoXRP := feevote.VoteAmount("2000000")
	return []feevote.RegistryEntry{
		{MasterKey: "nHUon2tpyJEHHYGmxqeGu37cvPYHzrMtUNQFVdCgGNvEkjmCpTqK", Domain: "alloy.ee", UNL: []string{"vl"},
			Votes: feevote.RegistryVotes{ParamSet: feevote.ParamSet[*feevote.VoteAmount]{BaseFee: &twelve, ReserveBase: &twoXRP}}},
		{MasterKey: "nHBidG3pZK11zQD6kpNDoAhDxH6WLGui6ZxSbUx7LSqLHsgzMPec", DomainLegacy: "bithomp.com", UNL: []string{"vl"}},
		{MasterKey: "nHUkAWDR4cB8AgPg7VXMX6et8xRTQb2KJfgv1aBEXozwrawRKgMB", Domain: "ripple.com", UNL: []string{"vl"}},
	}
}

func newTestServer(t *testing.T, ledger feevote.LedgerSource, runCycle bool) *DashboardServer {
	t.Setenv("ENV", "test")

	monitor := feevote.NewMonitor(feevote.NewCycle(ledger, staticRegistry{entries: testEntries()}), nil)
	if runCycle {
		_, err := monitor.RunCycle(context.Background())
		require.NoError(t, err)
	}

	srv, err := NewDashboardServer(monitor, 0, time.Second)
	require.NoError(t, err)
	return srv
}

func get(srv *DashboardServer, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNewDashboardServerRejectsUnknownEnvironment(t *testing.T) {
	t.Setenv("ENV", "staging")
	_, err := NewDashboardServer(nil, 0, time.Second)
	assert.Error(t, err)
}

func TestHomePage(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, staticLedger{live: testLive()}, true)

	rec := get(srv, "/")
	assert.Equal(http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(body, "Base Fee")
	assert.Contains(body, "Base Reserve")
	assert.Contains(body, "Increment Reserve")
	assert.Contains(body, "Current: 0.2 XRP")
	assert.Contains(body, "50%")
	assert.Contains(body, "alloy.ee")
	assert.Contains(body, "Ledger #91234567")
}

func TestHomePageWaiting(t *testing.T) {
	srv := newTestServer(t, staticLedger{err: errors.New("down")}, false)

	rec := get(srv, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Waiting for data")
}

func TestParameterPage(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, staticLedger{live: testLive()}, true)

	rec := get(srv, "/params/reserve_base")
	assert.Equal(http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(body, "Current: 1 XRP")
	assert.Contains(body, "2 XRP")
	assert.Contains(body, "status quo")
	assert.Contains(body, "explicit")

	rec = get(srv, "/params/reserve_total")
	assert.Equal(http.StatusNotFound, rec.Code)
}

func TestAPIVotes(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, staticLedger{live: testLive()}, true)

	rec := get(srv, "/api/votes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal("application/json", rec.Header().Get("Content-Type"))

	var agg feevote.Aggregation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agg))
	assert.Equal(3, agg.Validators)
	assert.Equal(feevote.BaseFee, agg.Params.BaseFee.Parameter)
	assert.Len(agg.Params.BaseFee.Ranked, 3)
	assert.Equal("alloy.ee", agg.Params.BaseFee.Ranked[2].Name)
	assert.Equal(2, agg.Params.BaseFee.Markers.MedianPosition)
}

func TestAPIParameter(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, staticLedger{live: testLive()}, true)

	rec := get(srv, "/api/votes/reserve_inc")
	require.Equal(t, http.StatusOK, rec.Code)

	var view feevote.ParameterView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(feevote.ReserveIncrement, view.Parameter)
	assert.Equal("XRP", view.Unit)
	assert.Equal(0.2, view.Current)

	rec = get(srv, "/api/votes/nope")
	assert.Equal(http.StatusNotFound, rec.Code)
}

func TestAPINoData(t *testing.T) {
	srv := newTestServer(t, staticLedger{err: errors.New("down")}, false)

	assert.Equal(t, http.StatusServiceUnavailable, get(srv, "/api/votes").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(srv, "/api/votes/base_fee").Code)
	assert.Equal(t, http.StatusOK, get(srv, "/api/status").Code)
}

func TestAPIRefresh(t *testing.T) {
	srv := newTestServer(t, staticLedger{live: testLive()}, false)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	assert.Eventually(t, func() bool {
		_, ok := srv.monitor.Latest()
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	// Refresh only accepts POST.
	assert.Equal(t, http.StatusMethodNotAllowed, get(srv, "/api/refresh").Code)
}

func TestAPIRefreshFromForm(t *testing.T) {
	srv := newTestServer(t, staticLedger{live: testLive()}, false)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	srv.monitor.Wait()
}

func TestAPIRefreshAfterShutdown(t *testing.T) {
	srv := newTestServer(t, staticLedger{live: testLive()}, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv.ctx = ctx

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	srv.monitor.Wait()
	_, ok := srv.monitor.Latest()
	assert.False(t, ok)
}

func TestStartStopsRefreshOnShutdown(t *testing.T) {
	srv := newTestServer(t, staticLedger{live: testLive()}, false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- srv.Start(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAssets(t *testing.T) {
	srv := newTestServer(t, staticLedger{live: testLive()}, false)

	rec := get(srv, "/assets/style.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".chart")
}

func TestRenderTables(t *testing.T) {
	assert := assert.New(t)

	votes, err := feevote.AdmitVotes(testEntries())
	require.NoError(t, err)
	agg := feevote.Aggregate(testLive(), votes)

	var buf bytes.Buffer
	require.NoError(t, RenderTables(&buf, &agg))

	out := buf.String()
	assert.Contains(out, "Ledger 91234567, 3 validators")
	assert.Contains(out, "Increment Reserve")
	assert.Contains(out, "bithomp.com")
	assert.Contains(out, "50%")
	assert.Contains(out, "status quo")
}

func TestRenderTablesEmpty(t *testing.T) {
	agg := feevote.Aggregate(testLive(), nil)

	var buf bytes.Buffer
	require.NoError(t, RenderTables(&buf, &agg))
	assert.Contains(t, buf.String(), "no data")
}
