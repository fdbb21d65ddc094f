package oteladapters_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore/oteladapters"
)

func newMeter() (metric.Meter, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return provider.Meter("test"), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	return resourceMetrics
}

func findMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Aggregation {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m.Data
			}
		}
	}

	t.Fatalf("metric %s not found", name)

	return nil
}

func Test_MetricsCollector_RecordDuration_RecordsSecondsHistogram(t *testing.T) {
	// arrange
	meter, reader := newMeter()
	collector := oteladapters.NewMetricsCollector(meter)
	labels := map[string]string{"engine": "memory", "status": "success"}

	// act
	collector.RecordDuration("eventstore_append_duration_seconds", 150*time.Millisecond, labels)

	// assert
	histogram, ok := findMetric(t, collect(t, reader), "eventstore_append_duration_seconds").(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.15, histogram.DataPoints[0].Sum, 0.001)

	expected := attribute.NewSet(attribute.String("engine", "memory"), attribute.String("status", "success"))
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&expected))
}

func Test_MetricsCollector_IncrementCounter_AddsOnePerCall(t *testing.T) {
	meter, reader := newMeter()
	collector := oteladapters.NewMetricsCollector(meter)
	labels := map[string]string{"engine": "postgres"}

	collector.IncrementCounter("eventstore_concurrency_conflicts_total", labels)
	collector.IncrementCounterContext(context.Background(), "eventstore_concurrency_conflicts_total", labels)
	collector.IncrementCounter("eventstore_concurrency_conflicts_total", labels)

	sum, ok := findMetric(t, collect(t, reader), "eventstore_concurrency_conflicts_total").(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
}

func Test_MetricsCollector_RecordValue_KeepsLastValue(t *testing.T) {
	meter, reader := newMeter()
	collector := oteladapters.NewMetricsCollector(meter)

	collector.RecordValue("eventstore_events_read_total", 4, nil)
	collector.RecordValueContext(context.Background(), "eventstore_events_read_total", 7, nil)

	gauge, ok := findMetric(t, collect(t, reader), "eventstore_events_read_total").(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 7.0, gauge.DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_When_LabelsDiffer_Then_DataPointsAreSeparate(t *testing.T) {
	meter, reader := newMeter()
	collector := oteladapters.NewMetricsCollector(meter)

	collector.IncrementCounter("eventstore_errors_total", map[string]string{"error_type": "query"})
	collector.IncrementCounter("eventstore_errors_total", map[string]string{"error_type": "exec"})

	sum, ok := findMetric(t, collect(t, reader), "eventstore_errors_total").(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, sum.DataPoints, 2)
}

func Test_MetricsCollector_IsSafeForConcurrentUse(t *testing.T) {
	meter, reader := newMeter()
	collector := oteladapters.NewMetricsCollector(meter)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("eventstore_errors_total", nil)
		}()
	}
	wg.Wait()

	sum, ok := findMetric(t, collect(t, reader), "eventstore_errors_total").(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(20), sum.DataPoints[0].Value)
}

type failingMeter struct {
	noop.Meter
}

var errInstrument = errors.New("instrument creation failed")

func (failingMeter) Float64Histogram(string, ...metric.Float64HistogramOption) (metric.Float64Histogram, error) {
	return nil, errInstrument
}

func (failingMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return nil, errInstrument
}

func (failingMeter) Float64Gauge(string, ...metric.Float64GaugeOption) (metric.Float64Gauge, error) {
	return nil, errInstrument
}

func Test_MetricsCollector_When_InstrumentsCannotBeCreated_Then_RecordingIsSkipped(t *testing.T) {
	collector := oteladapters.NewMetricsCollector(failingMeter{})

	assert.NotPanics(t, func() {
		collector.RecordDuration("d", time.Second, nil)
		collector.IncrementCounter("c", nil)
		collector.RecordValue("v", 1, nil)
	})
}
