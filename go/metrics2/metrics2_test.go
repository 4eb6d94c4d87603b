package metrics2

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCounter_SameNameAndTags_SameCounter(t *testing.T) {
	c := NewClient(prometheus.NewRegistry())
	a := c.GetCounter("scalc_tokens", map[string]string{"rule_set": "calc"})
	b := c.GetCounter("scalc_tokens", map[string]string{"rule_set": "calc"})
	other := c.GetCounter("scalc_tokens", map[string]string{"rule_set": "calc_ws"})

	a.Inc(3)
	b.Inc(2)
	other.Inc(1)

	assert.Equal(t, int64(5), a.Get())
	assert.Equal(t, int64(5), b.Get())
	assert.Equal(t, int64(1), other.Get())

	a.Dec(1)
	assert.Equal(t, int64(4), b.Get())
	b.Reset()
	assert.Equal(t, int64(0), a.Get())
}

func TestGetInt64Metric_CleansNames(t *testing.T) {
	c := NewClient(prometheus.NewRegistry())
	m := c.GetInt64Metric("cache.size", map[string]string{"rule-set": "calc"})
	m.Update(12)
	assert.Equal(t, int64(12), c.GetInt64Metric("cache_size", map[string]string{"rule_set": "calc"}).Get())
}

func TestHandler_ServesMetrics(t *testing.T) {
	c := NewClient(prometheus.NewRegistry())
	c.GetCounter("scalc_lex_errors", map[string]string{"rule_set": "calc"}).Inc(7)

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `scalc_lex_errors{rule_set="calc"} 7`)
}
