package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/tickets", fiber.MethodGet, 200, 10*time.Millisecond)
	m.RecordRequest("/tickets", fiber.MethodGet, 200, 30*time.Millisecond)
	m.RecordError("/tickets", fiber.MethodPost, "FORBIDDEN")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/tickets|GET|200"])
	assert.InDelta(t, 20.0, snap.AvgLatencyMs["/tickets|GET|200"], 0.001)
	assert.Equal(t, int64(1), snap.Errors["/tickets|POST|FORBIDDEN"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", fiber.MethodGet, 200, time.Millisecond)
	m.RecordError("/", fiber.MethodGet, "X")
	assert.Empty(t, m.Snapshot().Requests)
}

func TestRequestLoggerSetsRequestIDAndCounts(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/fail", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "nope") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req := httptest.NewRequest(fiber.MethodGet, "/fail", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "fixed-id", resp.Header.Get(RequestIDHeader))

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.Requests["/ping|GET|200"])
	assert.Equal(t, int64(1), snap.Requests["/fail|GET|418"])
}
