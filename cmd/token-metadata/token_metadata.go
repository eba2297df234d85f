package main

import (
	"context"
	"flag"
	"time"

	"solana-course/internal/pkg/chain"
	"solana-course/internal/pkg/config_types"
	"solana-course/internal/pkg/keypair"
	"solana-course/internal/pkg/log"
	"solana-course/internal/pkg/manifest"
	"solana-course/internal/pkg/uploader"
	"solana-course/internal/pkg/util"
	"solana-course/internal/scripts"
	"solana-course/internal/scripts/config"
	"solana-course/internal/token"
)

const uploadTimeout = 30 * time.Second

type flags struct {
	logLevel string
	envFile  string
	manifest string
	mint     string
}

func getFlags() (f flags) {
	flag.StringVar(&f.logLevel, "log", "debug", "log level [debug|info|warn|error|crit]")
	flag.StringVar(&f.envFile, "envFile", "", "path to .env file")
	flag.StringVar(&f.manifest, "manifest", "token.yaml", "path to the token manifest")
	flag.StringVar(&f.mint, "mint", "", "existing mint, the payer must be its mint authority")
	flag.Parse()

	return
}

func main() {
	f := getFlags()
	err := log.Setup(f.logLevel)
	if err != nil {
		log.Logger.Cli.Fatalf("Log setup: %s", err)
	}

	cfg, err := config_types.LoadFile[config.UploadConfig](f.envFile)
	if err != nil {
		log.Logger.Cli.Fatalf("Config: %s", err)
	}
	m, err := manifest.LoadFile(f.manifest)
	if err != nil {
		log.Logger.Cli.Fatalf("Manifest: %s", err)
	}
	mint, err := chain.ParseAddress(f.mint)
	if err != nil {
		log.Logger.Cli.Fatalf("mint %q: %s", f.mint, err)
	}
	client := chain.NewClientFromConfig(cfg.Cluster)
	tokens := token.NewService(client)

	util.RunScript(func(ctx context.Context) error {
		payer, err := scripts.FundedKeypair(ctx, client, cfg.Airdrop, f.envFile, keypair.DefaultName)
		if err != nil {
			return err
		}

		uri, err := scripts.UploadManifest(ctx, uploader.New(cfg.Assets.Url, uploadTimeout), m)
		if err != nil {
			return err
		}

		metadata, sig, err := tokens.CreateMetadata(ctx, payer, mint, payer, m.DataV2(uri))
		if err != nil {
			return err
		}
		log.Logger.Cli.Infof("Metadata account %s: %s", metadata, client.ExplorerTxURL(sig))
		log.Logger.Cli.Infof("Token mint: %s", client.ExplorerAddressURL(mint))

		return nil
	})
}
