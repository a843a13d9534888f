package service

import "go.opentelemetry.io/otel"

// tracer resolves against the global provider, which is a no-op until
// tracing.Init installs an exporter.
var tracer = otel.Tracer("github.com/taskserver/task-api/internal/core/service")
