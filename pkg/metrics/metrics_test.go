package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPMetrics(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/units", "200"))

	RecordHTTPMetrics("GET", "/api/v1/units", 200, 15*time.Millisecond)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/units", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordRefresh(t *testing.T) {
	before := testutil.ToFloat64(RefreshesTotal.WithLabelValues("manual", "error"))

	RecordRefresh("manual", errors.New("provider down"))

	assert.Equal(t, before+1, testutil.ToFloat64(RefreshesTotal.WithLabelValues("manual", "error")))
}

func TestRecordCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("units", "hit"))

	RecordCacheLookup("units", true)

	assert.Equal(t, before+1, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("units", "hit")))
}
