package main

import (
	"net/http"
	"os"

	"gamefinder-backend/lib/configutil"
	"gamefinder-backend/lib/fetch"
	"gamefinder-backend/lib/serviceutil"
	"gamefinder-backend/lib/sources/archive"
	"gamefinder-backend/lib/sources/epic"
	"gamefinder-backend/lib/sources/itch"
	"gamefinder-backend/lib/sources/steam"
	"gamefinder-backend/lib/telemetry"
	"gamefinder-backend/services/gamesearch"
)

func main() {
	ctx := serviceutil.SignalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "gamefinder-server")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	defer tel.Shutdown(ctx)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("read config", err)
	}

	opts := cfg.fetchOptions()
	scrapeOpts := opts
	scrapeOpts.BypassCloudflare = true

	service := gamesearch.NewService(
		epic.NewClient(fetch.NewClient("sources/epic/http", opts)),
		itch.NewClient(fetch.NewClient("sources/itch/http", scrapeOpts)),
		steam.NewClient(fetch.NewClient("sources/steam/http", scrapeOpts)),
		archive.NewClient(fetch.NewClient("sources/archive/http", opts)),
	)

	mux := http.NewServeMux()
	service.RegisterRoutes(mux)

	go serviceutil.StartHttpServer(cfg.port(), serviceutil.Cors(mux))
	<-ctx.Done()
}
