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
}

func getFlags() (f flags) {
	flag.StringVar(&f.logLevel, "log", "debug", "log level [debug|info|warn|error|crit]")
	flag.StringVar(&f.envFile, "envFile", "", "path to .env file")
	flag.StringVar(&f.manifest, "manifest", "nft.yaml", "path to the NFT manifest")
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

		nft, err := tokens.CreateNFT(ctx, payer, m.DataV2(uri))
		if err != nil {
			return err
		}
		log.Logger.Cli.Infof("Transaction: %s", client.ExplorerTxURL(nft.Signature))
		log.Logger.Cli.Infof("NFT: %s", client.ExplorerAddressURL(nft.Mint))
		log.Logger.Cli.Infof("Metadata %s, master edition %s, token account %s", nft.Metadata, nft.Edition, nft.TokenAccount)

		return nil
	})
}
