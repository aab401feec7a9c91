package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandlerUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(InstrumentHandler())
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", Handler())

	before := testutil.CollectAndCount(RequestDuration)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/42", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, before+1, testutil.CollectAndCount(RequestDuration))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `warbler_http_request_duration_seconds_count{method="GET",route="/users/:id",status="200"} 1`))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(LikesToggled.WithLabelValues("added"))
	LikesToggled.WithLabelValues("added").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(LikesToggled.WithLabelValues("added")))
}
