package main

import (
	"context"
	"flag"

	"solana-course/internal/pkg/chain"
	"solana-course/internal/pkg/config_types"
	"solana-course/internal/pkg/log"
	"solana-course/internal/pkg/util"
	"solana-course/internal/scripts/config"
)

type flags struct {
	logLevel string
	envFile  string
	address  string
}

func getFlags() (f flags) {
	flag.StringVar(&f.logLevel, "log", "debug", "log level [debug|info|warn|error|crit]")
	flag.StringVar(&f.envFile, "envFile", "", "path to .env file")
	flag.StringVar(&f.address, "address", "", "account address")
	flag.Parse()

	return
}

func main() {
	f := getFlags()
	err := log.Setup(f.logLevel)
	if err != nil {
		log.Logger.Cli.Fatalf("Log setup: %s", err)
	}

	cfg, err := config_types.LoadFile[config.Config](f.envFile)
	if err != nil {
		log.Logger.Cli.Fatalf("Config: %s", err)
	}
	address, err := chain.ParseAddress(f.address)
	if err != nil {
		log.Logger.Cli.Fatalf("address %q: %s", f.address, err)
	}
	client := chain.NewClientFromConfig(cfg.Cluster)

	util.RunScript(func(ctx context.Context) error {
		b, err := client.Balance(ctx, address)
		if err != nil {
			return err
		}
		log.Logger.Cli.Infof("The balance of the account at %s is %s SOL", address, b.Sol)
		log.Logger.Cli.Infof("Is it executable? %t", b.Executable)

		return nil
	})
}
