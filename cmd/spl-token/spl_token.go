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
	"solana-course/internal/scripts"
	"solana-course/internal/scripts/config"
	"solana-course/internal/token"
)

type flags struct {
	logLevel string
	envFile  string
	decimals uint
	mint     string
	transfer string
	burn     string
}

func getFlags() (f flags) {
	flag.StringVar(&f.logLevel, "log", "debug", "log level [debug|info|warn|error|crit]")
	flag.StringVar(&f.envFile, "envFile", "", "path to .env file")
	flag.UintVar(&f.decimals, "decimals", 2, "decimals of the new mint")
	flag.StringVar(&f.mint, "mintAmount", "100", "tokens minted to the payer")
	flag.StringVar(&f.transfer, "transferAmount", "69", "tokens sent to a new receiver")
	flag.StringVar(&f.burn, "burnAmount", "25", "tokens burned by the payer")
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
	if f.decimals > 9 {
		log.Logger.Cli.Fatalf("decimals %d: must be at most 9", f.decimals)
	}
	client := chain.NewClientFromConfig(cfg.Cluster)
	tokens := token.NewService(client)

	util.RunScript(func(ctx context.Context) error {
		payer, err := scripts.FundedKeypair(ctx, client, cfg.Airdrop, f.envFile, keypair.DefaultName)
		if err != nil {
			return err
		}

		mint, sig, err := tokens.CreateMint(ctx, payer, payer.PublicKey(), nil, uint8(f.decimals))
		if err != nil {
			return err
		}
		log.Logger.Cli.Infof("Token mint %s: %s", mint, client.ExplorerTxURL(sig))

		source, _, err := tokens.GetOrCreateAssociatedAccount(ctx, payer, mint, payer.PublicKey())
		if err != nil {
			return err
		}
		log.Logger.Cli.Infof("Token account: %s", client.ExplorerAddressURL(source))

		sig, err = tokens.MintTo(ctx, payer, mint, source, payer, f.mint)
		if err != nil {
			return err
		}
		log.Logger.Cli.Infof("Minted %s tokens: %s", f.mint, client.ExplorerTxURL(sig))

		receiver, err := solana.NewRandomPrivateKey()
		if err != nil {
			return err
		}
		destination, _, err := tokens.GetOrCreateAssociatedAccount(ctx, payer, mint, receiver.PublicKey())
		if err != nil {
			return err
		}
		sig, err = tokens.Transfer(ctx, payer, mint, source, destination, payer, f.transfer)
		if err != nil {
			return err
		}
		log.Logger.Cli.Infof("Transferred %s tokens to %s: %s", f.transfer, receiver.PublicKey(), client.ExplorerTxURL(sig))

		sig, err = tokens.Burn(ctx, payer, mint, source, payer, f.burn)
		if err != nil {
			return err
		}
		log.Logger.Cli.Infof("Burned %s tokens: %s", f.burn, client.ExplorerTxURL(sig))

		return nil
	})
}
