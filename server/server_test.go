package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsbeat/pkg/domain"
	"github.com/umputun/newsbeat/pkg/scheduler"
	"github.com/umputun/newsbeat/server/mocks"
)

func testConfig(listen string) *mocks.ConfigProviderMock {
	return &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) {
			return listen, 30 * time.Second
		},
	}
}

func okPinger() *mocks.PingerMock {
	return &mocks.PingerMock{PingFunc: func(ctx context.Context) error { return nil }}
}

func TestServer_New(t *testing.T) {
	srv := New(Params{Config: testConfig(":8080"), DB: okPinger(), Version: "1.0.0"})
	assert.NotNil(t, srv)
	assert.Equal(t, "1.0.0", srv.version)
	assert.False(t, srv.debug)
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	srv := New(Params{Config: testConfig(fmt.Sprintf("127.0.0.1:%d", port)), DB: okPinger(), Version: "1.0.0", Debug: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// wait for server to start
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
	assert.Equal(t, "newsbeat", resp.Header.Get("App-Name"))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_statusHandler(t *testing.T) {
	sched := &mocks.SchedulerMock{
		StatusFunc: func() scheduler.Status {
			return scheduler.Status{Runs: 2, LastRun: &domain.BatchSummary{SourcesSelected: 4, ItemsInserted: 9}}
		},
	}

	tests := []struct {
		name       string
		db         *mocks.PingerMock
		cache      Pinger
		wantCode   int
		wantStatus string
		wantDB     string
		wantCache  string
	}{
		{name: "all good", db: okPinger(), cache: okPinger(), wantCode: http.StatusOK,
			wantStatus: "ok", wantDB: "ok", wantCache: "ok"},
		{name: "no cache", db: okPinger(), wantCode: http.StatusOK,
			wantStatus: "ok", wantDB: "ok", wantCache: "disabled"},
		{name: "cache down", db: okPinger(),
			cache:    &mocks.PingerMock{PingFunc: func(ctx context.Context) error { return errors.New("refused") }},
			wantCode: http.StatusOK, wantStatus: "degraded", wantDB: "ok", wantCache: "error"},
		{name: "db down", db: &mocks.PingerMock{PingFunc: func(ctx context.Context) error { return errors.New("closed") }},
			wantCode: http.StatusServiceUnavailable, wantStatus: "error", wantDB: "error", wantCache: "disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(Params{Config: testConfig(":8080"), DB: tt.db, Cache: tt.cache, Scheduler: sched, Version: "1.2.3"})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody)
			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp struct {
				Status  string `json:"status"`
				Version string `json:"version"`
				DB      string `json:"db"`
				Cache   string `json:"cache"`
				Ingest  struct {
					Runs    int `json:"runs"`
					LastRun struct {
						SourcesSelected int `json:"sources_selected"`
						ItemsInserted   int `json:"items_inserted"`
					} `json:"last_run"`
				} `json:"ingest"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, "1.2.3", resp.Version)
			assert.Equal(t, tt.wantDB, resp.DB)
			assert.Equal(t, tt.wantCache, resp.Cache)
			assert.Equal(t, 2, resp.Ingest.Runs)
			assert.Equal(t, 9, resp.Ingest.LastRun.ItemsInserted)
			assert.Len(t, tt.db.PingCalls(), 1)
		})
	}
}
