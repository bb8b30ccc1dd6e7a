package httpapi

import (
	"context"

	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeterProvider wires a Prometheus-backed OpenTelemetry MeterProvider
// so instruments created against its Meter are scrapeable at /metrics
// through the same promhttp handler NewRouter registers. Returns a
// shutdown func to flush and close the exporter on process exit.
func InitMeterProvider() (*sdkmetric.MeterProvider, func(context.Context) error, error) {
	exp, err := promexporter.New()
	if err != nil {
		return nil, nil, err
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	return mp, mp.Shutdown, nil
}
