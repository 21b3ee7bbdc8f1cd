// Package adapter contains implementations of interfaces defined in app
// and auth. Redis and SSM Parameter Store adapters live here.
package adapter

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("edge/adapter")
