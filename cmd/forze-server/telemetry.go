package main

import (
	"context"
	"log/slog"
	"os"

	"forzestats-backend/lib/serviceutil"
	"forzestats-backend/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	t, err := telemetry.SetupFromEnv(ctx, "forze-server")
	if os.IsNotExist(err) {
		slog.InfoContext(ctx, "no telemetry.json5 found, instrumentation disabled")
		return
	}
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		t.Shutdown(context.Background())
	}()
}
