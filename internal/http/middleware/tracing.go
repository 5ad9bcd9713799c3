package middleware

import (
	"net/http"
	"strings"

	"go.opencensus.io/plugin/ochttp"
	"go.opencensus.io/trace"
)

// EndpointName returns the RPC endpoint of an /api/ request, e.g.
// "builder.apply", or the raw path for anything else.
func EndpointName(r *http.Request) string {
	if name := strings.TrimPrefix(r.URL.Path, "/api/"); name != r.URL.Path && name != "" {
		return name
	}
	return r.URL.Path
}

// TracingMiddleware starts an OpenCensus span per request, named after the
// RPC endpoint, and marks it failed for 4xx and 5xx responses.
func TracingMiddleware(next http.Handler) http.Handler {
	annotated := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := trace.FromContext(r.Context())
		if span != nil {
			span.AddAttributes(
				trace.StringAttribute("rpc.endpoint", EndpointName(r)),
				trace.StringAttribute("http.user_agent", r.UserAgent()),
			)
			if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
				span.AddAttributes(trace.StringAttribute("http.request_id", requestID))
			}
		}
		next.ServeHTTP(&traceResponseWriter{ResponseWriter: w, span: span}, r)
	})

	return &ochttp.Handler{
		Handler: annotated,
		FormatSpanName: func(r *http.Request) string {
			return r.Method + " " + EndpointName(r)
		},
		IsPublicEndpoint: true,
	}
}

// traceResponseWriter records the response status on the request span
type traceResponseWriter struct {
	http.ResponseWriter
	span       *trace.Span
	statusCode int
}

func (trw *traceResponseWriter) WriteHeader(code int) {
	trw.statusCode = code
	if trw.span != nil {
		trw.span.AddAttributes(trace.Int64Attribute("http.status_code", int64(code)))
		if code >= 400 {
			trw.span.SetStatus(trace.Status{
				Code:    trace.StatusCodeUnknown,
				Message: http.StatusText(code),
			})
		}
	}
	trw.ResponseWriter.WriteHeader(code)
}

var _ http.ResponseWriter = (*traceResponseWriter)(nil)
