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
	"solana-course/internal/programs/transfer"
	"solana-course/internal/scripts"
	"solana-course/internal/scripts/config"
)

const (
	signerKeyName    = "SIGNER_PRIVATE_KEY"
	recipientKeyName = "RECIPIENT_PRIVATE_KEY"
)

type flags struct {
	logLevel string
	envFile  string
	amount   string
}

func getFlags() (f flags) {
	flag.StringVar(&f.logLevel, "log", "debug", "log level [debug|info|warn|error|crit]")
	flag.StringVar(&f.envFile, "envFile", "", "path to .env file")
	flag.StringVar(&f.amount, "amount", "0.1", "SOL to transfer")
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
	lamports, err := chain.SolToLamports(f.amount)
	if err != nil || lamports == 0 {
		log.Logger.Cli.Fatalf("amount %q: %v", f.amount, err)
	}
	// the signer has to hold at least the amount it sends
	if cfg.Airdrop.Threshold == "" {
		cfg.Airdrop.Threshold = f.amount
	}
	client := chain.NewClientFromConfig(cfg.Cluster)

	util.RunScript(func(ctx context.Context) error {
		envFile := f.envFile
		if envFile == "" {
			envFile = ".env"
		}
		// signer and recipient are always generated together
		keys, _, err := keypair.LoadOrCreateSet(envFile, signerKeyName, recipientKeyName)
		if err != nil {
			return err
		}
		recipient := keys[1]
		signer, err := scripts.FundedKeypair(ctx, client, cfg.Airdrop, envFile, signerKeyName)
		if err != nil {
			return err
		}

		ix, err := transfer.NewTransferInstruction(signer.PublicKey(), recipient.PublicKey(), lamports)
		if err != nil {
			return err
		}
		sig, err := client.SendAndConfirm(ctx, []solana.Instruction{ix}, signer)
		if err != nil {
			return err
		}
		log.Logger.Cli.Infof("Transferred %s SOL to %s: %s", f.amount, recipient.PublicKey(), client.ExplorerTxURL(sig))

		return nil
	})
}
