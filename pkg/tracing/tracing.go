package tracing

import (
	"fmt"
	"net/http"
	"strings"

	"contrib.go.opencensus.io/exporter/aws"
	"contrib.go.opencensus.io/exporter/jaeger"
	"contrib.go.opencensus.io/exporter/prometheus"
	"contrib.go.opencensus.io/exporter/zipkin"
	"contrib.go.opencensus.io/integrations/ocsql"
	zipkinhttp "github.com/openzipkin/zipkin-go/reporter/http"
	"go.opencensus.io/plugin/ochttp"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/trace"

	"github.com/Notifuse/emailbuilder/config"
)

// InitTracing configures the OpenCensus sampler, the trace exporter and the
// HTTP and database views. When Prometheus is the metrics exporter the
// returned handler serves the scrape endpoint; it is nil otherwise.
func InitTracing(tracingConfig *config.TracingConfig) (http.Handler, error) {
	if tracingConfig == nil || !tracingConfig.Enabled {
		return nil, nil
	}

	probability := tracingConfig.SamplingProbability
	if probability < 0 || probability > 1 {
		return nil, fmt.Errorf("sampling probability must be between 0 and 1, got %v", probability)
	}
	trace.ApplyConfig(trace.Config{
		DefaultSampler: trace.ProbabilitySampler(probability),
	})

	if err := initTraceExporter(tracingConfig); err != nil {
		return nil, err
	}

	if err := view.Register(ochttp.DefaultServerViews...); err != nil {
		return nil, fmt.Errorf("failed to register HTTP server views: %w", err)
	}
	if err := view.Register(ocsql.DefaultViews...); err != nil {
		return nil, fmt.Errorf("failed to register database views: %w", err)
	}

	return initMetricsExporter(tracingConfig)
}

func initTraceExporter(cfg *config.TracingConfig) error {
	switch cfg.TraceExporter {
	case "", "none":
		return nil
	case "jaeger":
		if cfg.JaegerEndpoint == "" {
			return fmt.Errorf("jaeger endpoint is required for the jaeger exporter")
		}
		exporter, err := jaeger.NewExporter(jaeger.Options{
			CollectorEndpoint: cfg.JaegerEndpoint,
			Process: jaeger.Process{
				ServiceName: cfg.ServiceName,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create jaeger exporter: %w", err)
		}
		trace.RegisterExporter(exporter)
	case "zipkin":
		if cfg.ZipkinEndpoint == "" {
			return fmt.Errorf("zipkin endpoint is required for the zipkin exporter")
		}
		reporter := zipkinhttp.NewReporter(cfg.ZipkinEndpoint)
		trace.RegisterExporter(zipkin.NewExporter(reporter, nil))
	case "xray":
		if cfg.XRayRegion == "" {
			return fmt.Errorf("AWS region is required for the xray exporter")
		}
		exporter, err := aws.NewExporter(
			aws.WithRegion(cfg.XRayRegion),
			aws.WithVersion("latest"),
		)
		if err != nil {
			return fmt.Errorf("failed to create xray exporter: %w", err)
		}
		trace.RegisterExporter(exporter)
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	return nil
}

func initMetricsExporter(cfg *config.TracingConfig) (http.Handler, error) {
	switch cfg.MetricsExporter {
	case "", "none":
		return nil, nil
	case "prometheus":
		exporter, err := prometheus.NewExporter(prometheus.Options{
			Namespace: metricNamespace(cfg.ServiceName),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		view.RegisterExporter(exporter)
		return exporter, nil
	default:
		return nil, fmt.Errorf("unsupported metrics exporter: %s", cfg.MetricsExporter)
	}
}

// metricNamespace turns a service name into a valid Prometheus namespace
func metricNamespace(serviceName string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, serviceName)
}
