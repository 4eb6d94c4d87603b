// Package metrics2 exposes int64 gauges and counters backed by Prometheus.
//
// Metrics are looked up by name and tags; asking twice for the same name and
// tags returns the same metric. All metrics with one name must use the same
// set of tag keys.
package metrics2

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.scalc.org/scalc/go/sklog"
)

var (
	// invalidChar is used to force metric and tag names to conform to Prometheus's restrictions.
	invalidChar = regexp.MustCompile("([^a-zA-Z0-9_:])")
)

func clean(s string) string {
	return invalidChar.ReplaceAllLiteralString(s, "_")
}

// Int64Metric is a gauge.
type Int64Metric interface {
	Get() int64
	Update(v int64)
}

// Counter is a gauge that is only moved by relative amounts.
type Counter interface {
	Get() int64
	Inc(i int64)
	Dec(i int64)
	Reset()
}

// promInt64 implements Int64Metric and Counter.
type promInt64 struct {
	// i tracks the value of the gauge, because prometheus client lib doesn't
	// support get on Gauge values.
	i     int64
	gauge prometheus.Gauge
}

func (m *promInt64) Get() int64 {
	return atomic.LoadInt64(&m.i)
}

func (m *promInt64) Update(v int64) {
	atomic.StoreInt64(&m.i, v)
	m.gauge.Set(float64(v))
}

func (m *promInt64) Inc(i int64) {
	m.gauge.Set(float64(atomic.AddInt64(&m.i, i)))
}

func (m *promInt64) Dec(i int64) {
	m.Inc(-i)
}

func (m *promInt64) Reset() {
	m.Update(0)
}

// Client creates metrics registered with a single Prometheus registry.
type Client struct {
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer

	mutex     sync.Mutex
	gaugeVecs map[string]*prometheus.GaugeVec
	gauges    map[string]*promInt64
}

// NewClient returns a Client that registers metrics with reg.
func NewClient(reg *prometheus.Registry) *Client {
	return &Client{
		registerer: reg,
		gatherer:   reg,
		gaugeVecs:  map[string]*prometheus.GaugeVec{},
		gauges:     map[string]*promInt64{},
	}
}

var defaultClient = &Client{
	registerer: prometheus.DefaultRegisterer,
	gatherer:   prometheus.DefaultGatherer,
	gaugeVecs:  map[string]*prometheus.GaugeVec{},
	gauges:     map[string]*promInt64{},
}

// GetInt64Metric returns the gauge with the given name and tags, creating it
// if needed.
func (c *Client) GetInt64Metric(name string, tags ...map[string]string) Int64Metric {
	return c.get(name, tags...)
}

// GetCounter returns the counter with the given name and tags, creating it if
// needed.
func (c *Client) GetCounter(name string, tags ...map[string]string) Counter {
	return c.get(name, tags...)
}

// Handler serves the metrics in the Prometheus text format.
func (c *Client) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func (c *Client) get(name string, tags ...map[string]string) *promInt64 {
	measurement := clean(name)
	cleanTags := map[string]string{}
	for _, t := range tags {
		for k, v := range t {
			cleanTags[clean(k)] = v
		}
	}
	keys := make([]string, 0, len(cleanTags))
	for k := range cleanTags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	gaugeKeySrc := []string{measurement}
	for _, key := range keys {
		gaugeKeySrc = append(gaugeKeySrc, key, cleanTags[key])
	}
	gaugeKey := strings.Join(gaugeKeySrc, "-")
	gaugeVecKey := fmt.Sprintf("%s %v", measurement, keys)

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if ret, ok := c.gauges[gaugeKey]; ok {
		return ret
	}
	gaugeVec, ok := c.gaugeVecs[gaugeVecKey]
	if !ok {
		gaugeVec = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: measurement,
				Help: measurement,
			},
			keys,
		)
		if err := c.registerer.Register(gaugeVec); err != nil {
			sklog.Fatalf("Failed to register %q: %s", measurement, err)
		}
		c.gaugeVecs[gaugeVecKey] = gaugeVec
	}
	gauge, err := gaugeVec.GetMetricWith(prometheus.Labels(cleanTags))
	if err != nil {
		sklog.Fatalf("Failed to get gauge: %s", err)
	}
	ret := &promInt64{
		gauge: gauge,
	}
	c.gauges[gaugeKey] = ret
	return ret
}

// GetInt64Metric uses the default client.
func GetInt64Metric(name string, tags ...map[string]string) Int64Metric {
	return defaultClient.GetInt64Metric(name, tags...)
}

// GetCounter uses the default client.
func GetCounter(name string, tags ...map[string]string) Counter {
	return defaultClient.GetCounter(name, tags...)
}

// Handler serves the default client's metrics.
func Handler() http.Handler {
	return defaultClient.Handler()
}
