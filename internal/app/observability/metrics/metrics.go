package metrics

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the client's metric instruments.
type AppMetrics struct {
	APIRequestsTotal      metric.Int64Counter
	APIRequestDuration    metric.Float64Histogram
	APIRequestErrorsTotal metric.Int64Counter
	AuthTransitionsTotal  metric.Int64Counter
	PageLoadsTotal        metric.Int64Counter
	ShellRequestsTotal    metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments from the global MeterProvider.
// It must run after the provider is installed; later calls are no-ops.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("techblog")
		m := &AppMetrics{}

		m.APIRequestsTotal = int64Counter(meter, "api_requests_total",
			"Total number of backend requests completed", "{request}")
		m.APIRequestDuration = float64Histogram(meter, "api_request_duration_seconds",
			"Duration of backend requests in seconds", "s")
		m.APIRequestErrorsTotal = int64Counter(meter, "api_request_errors_total",
			"Backend requests that failed or returned a non-2xx status", "{error}")
		m.AuthTransitionsTotal = int64Counter(meter, "auth_transitions_total",
			"Session lifecycle transitions", "{transition}")
		m.PageLoadsTotal = int64Counter(meter, "page_loads_total",
			"Paginated list fetches performed", "{page}")
		m.ShellRequestsTotal = int64Counter(meter, "shell_requests_total",
			"Requests served by the app shell", "{request}")

		appMetrics = m
	})
}

// Get returns the instruments, creating them from the current global
// provider if InitAppMetrics has not run yet.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

func int64Counter(meter metric.Meter, name, desc, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		otel.Handle(err)
	}
	return c
}

func float64Histogram(meter metric.Meter, name, desc, unit string) metric.Float64Histogram {
	h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		otel.Handle(err)
	}
	return h
}
