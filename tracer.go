package authgate

import (
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used for the default tracer.
const TracerName = "github.com/coffeeshop/authgate"

// defaultTracer resolves a tracer from the global provider, which is a
// no-op until the application installs an SDK.
func defaultTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

func defaultLogger() Logger {
	return NewLogrusLogger(logrus.StandardLogger())
}
