// Package scripts holds the steps the command line examples share: a funded payer
// and uploading the off-chain part of token metadata.
package scripts

import (
	"context"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"

	"solana-course/internal/pkg/chain"
	"solana-course/internal/pkg/config_types"
	"solana-course/internal/pkg/keypair"
	"solana-course/internal/pkg/log"
	"solana-course/internal/pkg/manifest"
	"solana-course/internal/pkg/uploader"
)

type Uploader interface {
	Upload(ctx context.Context, contentType string, data []byte) (string, error)
	UploadJSON(ctx context.Context, v any) (string, error)
}

// AirdropAmounts converts the SOL amounts of cfg. An empty threshold equals the amount.
func AirdropAmounts(cfg config_types.AirdropConfig) (amount, threshold uint64, err error) {
	amount, err = chain.SolToLamports(cfg.Amount)
	if err != nil {
		return 0, 0, fmt.Errorf("airdrop amount: %s", err)
	}
	if cfg.Threshold == "" {
		return amount, amount, nil
	}
	threshold, err = chain.SolToLamports(cfg.Threshold)
	if err != nil {
		return 0, 0, fmt.Errorf("airdrop threshold: %s", err)
	}

	return amount, threshold, nil
}

// FundedKeypair loads the named keypair, creating it in envFile if needed, and tops it up
// from the faucet when its balance is below the configured threshold.
func FundedKeypair(ctx context.Context, client *chain.Client, cfg config_types.AirdropConfig, envFile, name string) (solana.PrivateKey, error) {
	if envFile == "" {
		envFile = ".env"
	}
	pk, created, err := keypair.LoadOrCreate(envFile, name)
	if err != nil {
		return nil, fmt.Errorf("keypair %s: %s", name, err)
	}
	if !created {
		log.Logger.Cli.Infof("Loaded keypair %s: %s", name, pk.PublicKey())
	}

	amount, threshold, err := AirdropAmounts(cfg)
	if err != nil {
		return nil, err
	}
	res, err := client.AirdropIfRequired(ctx, pk.PublicKey(), amount, threshold)
	if err != nil {
		return nil, fmt.Errorf("AirdropIfRequired: %s", err)
	}
	if res.Signature != nil {
		log.Logger.Cli.Infof("Airdrop: %s", client.ExplorerTxURL(*res.Signature))
	}
	log.Logger.Cli.Infof("Balance of %s: %s SOL", pk.PublicKey(), chain.LamportsToSol(res.Lamports))

	return pk, nil
}

// UploadManifest stores the manifest image, then the off-chain JSON that links to it,
// and returns the uri of the JSON.
func UploadManifest(ctx context.Context, up Uploader, m manifest.Manifest) (string, error) {
	var imageUri, contentType string
	if path := m.ImagePath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read image: %s", err)
		}
		contentType = uploader.ContentType(path, data)
		imageUri, err = up.Upload(ctx, contentType, data)
		if err != nil {
			return "", fmt.Errorf("upload image: %s", err)
		}
		log.Logger.Cli.Infof("Image uploaded: %s", imageUri)
	}

	uri, err := up.UploadJSON(ctx, m.OffChain(imageUri, contentType))
	if err != nil {
		return "", fmt.Errorf("upload metadata: %s", err)
	}
	log.Logger.Cli.Infof("Metadata uploaded: %s", uri)

	return uri, nil
}
