package temporal

import (
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
)

// ErrDisabled is returned by Dial when Temporal is switched off.
var ErrDisabled = errors.New("temporal disabled via TEMPORAL_DISABLED")

type DialOptions struct {
	Address   string
	Namespace string
	Disabled  bool
	Logger    *slog.Logger
	Tracer    trace.Tracer
}

// Dial connects to the Temporal frontend with tracing and structured logging.
func Dial(opts DialOptions) (client.Client, error) {
	if opts.Disabled {
		return nil, ErrDisabled
	}
	address := strings.TrimSpace(opts.Address)
	if address == "" {
		address = client.DefaultHostPort
	}
	namespace := strings.TrimSpace(opts.Namespace)
	if namespace == "" {
		namespace = client.DefaultNamespace
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: opts.Tracer})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  address,
		Namespace: namespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
