package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("stage", "DEMO"),
		attribute.String("lead_id", "456"),
		attribute.String("object", "lead"),
	)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("stage"), attrs[0].Key)
	assert.Equal(t, attribute.Key("object"), attrs[1].Key)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordLeadCreated(context.Background(), "IDENTIFIED")
	m.RecordDelete(context.Background(), "lead")
	m.RecordLogin(context.Background(), "success")
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{ServiceName: "fluxcrm"}, noop.NewMeterProvider())
	require.NoError(t, err)
	m.RecordLeadStatusChange(context.Background(), "OPEN", "WON")
	m.RecordAuthorizationDenied(context.Background(), "viewer", "lead", "create")
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetricsWithRegisterer(reg)
	require.NoError(t, err)

	again, err := NewHTTPMetricsWithRegisterer(reg)
	require.NoError(t, err)
	assert.Same(t, m.requests, again.requests)

	router := gin.New()
	router.Use(GinMiddleware(m))
	router.GET("/api/leads", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/leads", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/leads", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}
