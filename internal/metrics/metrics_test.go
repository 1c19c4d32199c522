package metrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/svgflat/internal/metrics"
	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooksCountOutcomes(t *testing.T) {
	m := metrics.New()
	h := m.Hooks()
	ctx := context.Background()

	h.Emit(ctx, &domain.ReferenceEvent{Outcome: domain.OutcomeInlined, Duration: time.Millisecond})
	h.Emit(ctx, &domain.ReferenceEvent{Outcome: domain.OutcomeInlined})
	h.Emit(ctx, &domain.ReferenceEvent{Outcome: domain.OutcomeSkipped})
	h.OnDepthExceeded(ctx, 11)

	expected := `
# HELP svgflat_references_total Linked SVG references processed, by outcome
# TYPE svgflat_references_total counter
svgflat_references_total{outcome="inlined"} 2
svgflat_references_total{outcome="skipped"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "svgflat_references_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Registry(), "svgflat_depth_exceeded_total"))
}

func TestObserveConversionAndCache(t *testing.T) {
	m := metrics.New()
	m.ObserveConversion("convert", nil, time.Second)
	m.ObserveConversion("convert", errors.New("x"), time.Second)
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)

	expected := `
# HELP svgflat_cache_requests_total Normalization cache lookups, by result
# TYPE svgflat_cache_requests_total counter
svgflat_cache_requests_total{result="hit"} 1
svgflat_cache_requests_total{result="miss"} 2
# HELP svgflat_conversions_total Top-level flatten and convert operations, by kind and status
# TYPE svgflat_conversions_total counter
svgflat_conversions_total{kind="convert",status="error"} 1
svgflat_conversions_total{kind="convert",status="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"svgflat_cache_requests_total", "svgflat_conversions_total"))
}

func TestHandlerAndTextfile(t *testing.T) {
	m := metrics.New()
	m.ObserveCache(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `svgflat_cache_requests_total{result="hit"} 1`)

	path := filepath.Join(t.TempDir(), "svgflat.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "svgflat_cache_requests_total")
}
