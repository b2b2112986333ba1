package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_ObserveAndScrape(t *testing.T) {
	m := New()
	m.ObserveRender("tree", 2*time.Millisecond, 120, nil)
	m.ObserveRender("md", time.Millisecond, 0, errors.New("boom"))
	m.ObserveJob("completed")
	m.ObserveRequest("POST", 200)
	m.TrackQueueDepth(func() int { return 3 })

	out := scrape(t, m)
	assert.Contains(t, out, `wikiplain_renders_total{outcome="ok",source="tree"} 1`)
	assert.Contains(t, out, `wikiplain_renders_total{outcome="error",source="md"} 1`)
	assert.Contains(t, out, `wikiplain_render_output_bytes_total 120`)
	assert.Contains(t, out, `wikiplain_jobs_total{status="completed"} 1`)
	assert.Contains(t, out, `wikiplain_http_requests_total{code="200",method="POST"} 1`)
	assert.Contains(t, out, `wikiplain_queue_depth 3`)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveJob("failed")
	assert.NotContains(t, scrape(t, b), `status="failed"`)
}
