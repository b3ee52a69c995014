package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/fluxcrm/internal/observability/context"
	"github.com/stretchr/testify/assert"
)

func TestGinMiddlewarePropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seenRequestID, seenCorrelationID string
	router := gin.New()
	router.Use(GinMiddleware(MiddlewareConfig{}))
	router.GET("/ping", func(c *gin.Context) {
		seenRequestID = obscontext.RequestIDFromContext(c.Request.Context())
		seenCorrelationID = obscontext.CorrelationIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "req-123", seenRequestID)
	assert.Equal(t, "req-123", resp.Header().Get(HeaderRequestID))
	assert.NotEmpty(t, seenCorrelationID)
	assert.Equal(t, seenCorrelationID, resp.Header().Get(HeaderCorrelationID))
}

func TestOperationFromSQL(t *testing.T) {
	assert.Equal(t, "SELECT", operationFromSQL("select * from leads"))
	assert.Equal(t, "DELETE", operationFromSQL("  delete from lead_notes where lead_id = ?"))
	assert.Equal(t, "UNKNOWN", operationFromSQL(""))
}
