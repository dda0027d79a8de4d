package main

import (
	"flag"

	"forzestats-backend/lib/configutil"
	"forzestats-backend/lib/serviceutil"
	"forzestats-backend/services/teamstats"
	"forzestats-backend/services/teamstats/server"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[teamstats.Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8119
	}

	service := teamstats.NewService(cfg)
	srv := server.New(service)

	serviceutil.StartHttpServer(cfg.Port, srv.Router())
}
