package main

import (
	"flag"
	"time"

	"solana-course/internal/pkg/config_types"
	"solana-course/internal/pkg/log"
	"solana-course/internal/pkg/util"
	"solana-course/internal/web"
	"solana-course/internal/web/config"
)

const (
	waitTimeout = time.Second * 10
)

type flags struct {
	logLevel string
	envFile  string
}

// Setup flags
func getFlags() (f flags) {
	flag.StringVar(&f.logLevel, "log", "debug", "log level [debug|info|warn|error|crit]")
	flag.StringVar(&f.envFile, "envFile", "", "path to .env file")
	flag.Parse()

	return
}

func main() {
	f := getFlags()
	err := log.Setup(f.logLevel)
	if err != nil {
		log.Logger.General.Fatalf("Log setup: %s", err)
	}

	cfg, err := config_types.LoadFile[config.Config](f.envFile)
	if err != nil {
		log.Logger.General.Fatalf("Config: %s", err)
	}

	app, err := web.NewAPI(cfg)
	if err != nil {
		log.Logger.Web.Fatalf("NewAPI: %s", err)
	}

	// API
	go func() {
		if err := app.Run(); err != nil {
			log.Logger.Web.Fatalf("API: %s", err)
		}
	}()

	// Metrics
	go func() {
		if err := app.RunMetrics(); err != nil {
			log.Logger.Web.Fatalf("Metrics: %s", err)
		}
	}()

	// Termination handler.
	util.GracefulStop(app.WaitGroup(), waitTimeout, func() {
		err = app.Stop()
		if err != nil {
			log.Logger.Web.Errorf("%s", err)
		}
	})
}
