package tracing

import (
	"context"
	"testing"
	"time"
)

func TestInit_EmptyEndpointIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), "task-api", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestEndpointOptions(t *testing.T) {
	tests := []struct {
		endpoint string
		wantOpts int
		wantErr  bool
	}{
		{endpoint: "localhost:4317", wantOpts: 2},
		{endpoint: "http://collector:4317", wantOpts: 1},
		{endpoint: "https://collector.example.com:4317", wantOpts: 1},
		{endpoint: "grpc://collector:4317", wantErr: true},
		{endpoint: "http://", wantErr: true},
		{endpoint: "http://%zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			opts, err := endpointOptions(tt.endpoint)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.endpoint)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(opts) != tt.wantOpts {
				t.Fatalf("expected %d options, got %d", tt.wantOpts, len(opts))
			}
		})
	}
}

func TestInit_URLEndpoint(t *testing.T) {
	// The gRPC client dials lazily, so no collector needs to be listening.
	shutdown, err := Init(context.Background(), "task-api", "http://127.0.0.1:4317")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = shutdown(ctx)
}

func TestInit_RejectsBadScheme(t *testing.T) {
	if _, err := Init(context.Background(), "task-api", "ftp://collector:4317"); err == nil {
		t.Fatal("expected an error for an unsupported scheme")
	}
}
