package main

import (
	"context"
	"flag"

	"github.com/gagliardetto/solana-go"

	"solana-course/internal/pkg/chain"
	"solana-course/internal/pkg/config_types"
	"solana-course/internal/pkg/keypair"
	"solana-course/internal/pkg/log"
	"solana-course/internal/pkg/util"
	"solana-course/internal/programs/ping"
	"solana-course/internal/scripts"
	"solana-course/internal/scripts/config"
)

type flags struct {
	logLevel string
	envFile  string
}

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
		log.Logger.Cli.Fatalf("Log setup: %s", err)
	}

	cfg, err := config_types.LoadFile[config.Config](f.envFile)
	if err != nil {
		log.Logger.Cli.Fatalf("Config: %s", err)
	}
	client := chain.NewClientFromConfig(cfg.Cluster)

	util.RunScript(func(ctx context.Context) error {
		payer, err := scripts.FundedKeypair(ctx, client, cfg.Airdrop, f.envFile, keypair.DefaultName)
		if err != nil {
			return err
		}

		sig, err := client.SendAndConfirm(ctx, []solana.Instruction{ping.NewPingInstruction()}, payer)
		if err != nil {
			return err
		}
		log.Logger.Cli.Infof("Ping sent: %s", client.ExplorerTxURL(sig))

		return nil
	})
}
