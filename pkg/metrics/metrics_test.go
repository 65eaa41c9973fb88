package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStoreOperation(t *testing.T) {
	c := storeOperations.WithLabelValues(BackendFallback, "users.create", ResultOK)
	before := testutil.ToFloat64(c)

	RecordStoreOperation(BackendFallback, "users.create", ResultOK)

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestSetPrimaryUp(t *testing.T) {
	SetPrimaryUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(primaryUp))
	SetPrimaryUp(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(primaryUp))
}

func TestHandler_ExponeColectores(t *testing.T) {
	RecordHTTPRequest(http.MethodGet, "/api/stats", http.StatusOK, 12*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "clocwise_http_requests_total"))
	assert.True(t, strings.Contains(body, "clocwise_store_primary_up"))
}
