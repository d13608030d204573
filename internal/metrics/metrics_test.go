package metrics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/voxport/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks_RecordCells(t *testing.T) {
	m := New()
	h := m.Hooks()
	ctx := context.Background()

	h.OnCellStart(ctx, &domain.CellEvent{Job: "export", RangeIndex: 1, RangeTotal: 3})
	assert.Equal(t, 3.0, testutil.ToFloat64(m.remaining.WithLabelValues("export")))

	h.OnCellDone(ctx, &domain.CellEvent{Job: "export", RangeIndex: 1, RangeTotal: 3, Duration: 250 * time.Millisecond})
	h.OnCellDone(ctx, &domain.CellEvent{Job: "export", RangeIndex: 2, RangeTotal: 3, Duration: time.Second})
	h.OnCellFailed(ctx, &domain.CellEvent{Job: "export", RangeIndex: 3, RangeTotal: 3, Err: errors.New("x")})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cells.WithLabelValues("export", OutcomeDone)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cells.WithLabelValues("export", OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.remaining.WithLabelValues("export")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Hooks().OnCellDone(context.Background(), &domain.CellEvent{Job: "import", RangeIndex: 1, RangeTotal: 1})

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `voxport_cells_total{job="import",outcome="done"} 1`)

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", strings.TrimSpace(string(body)))
}

func TestServe_StopsWithContext(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx, "127.0.0.1:0", slogDiscard()) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func slogDiscard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }
