package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"github.com/gagliardetto/solana-go"

	"solana-course/internal/pkg/chain"
	"solana-course/internal/pkg/config_types"
	"solana-course/internal/pkg/log"
	"solana-course/internal/pkg/uploader"
	"solana-course/internal/pkg/util"
	"solana-course/internal/programs/candymachine"
	"solana-course/internal/programs/tokenmeta"
	"solana-course/internal/scripts/config"
	"solana-course/internal/token"
)

const (
	fetchTimeout = 10 * time.Second
	pageSize     = 9
)

type flags struct {
	logLevel     string
	envFile      string
	owner        string
	count        int
	candyMachine string
	page         int
}

func getFlags() (f flags) {
	flag.StringVar(&f.logLevel, "log", "debug", "log level [debug|info|warn|error|crit]")
	flag.StringVar(&f.envFile, "envFile", "", "path to .env file")
	flag.StringVar(&f.owner, "owner", "", "wallet address")
	flag.IntVar(&f.count, "count", 10, "number of NFTs to show")
	flag.StringVar(&f.candyMachine, "candyMachine", "", "candy machine v2 address, shows its config lines instead of owned NFTs")
	flag.IntVar(&f.page, "page", 1, "page of candy machine items")
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
	fetcher := uploader.NewPublicFetcher(fetchTimeout)

	if f.candyMachine != "" {
		address, err := chain.ParseAddress(f.candyMachine)
		if err != nil {
			log.Logger.Cli.Fatalf("candyMachine %q: %s", f.candyMachine, err)
		}
		if f.page < 1 {
			log.Logger.Cli.Fatalf("page %d: must be positive", f.page)
		}
		util.RunScript(func(ctx context.Context) error {
			return showCandyMachine(ctx, client, fetcher, address, f.page)
		})
		return
	}

	owner, err := chain.ParseAddress(f.owner)
	if err != nil {
		log.Logger.Cli.Fatalf("owner %q: %s", f.owner, err)
	}
	if f.count < 1 {
		log.Logger.Cli.Fatalf("count %d: must be positive", f.count)
	}
	tokens := token.NewService(client)

	util.RunScript(func(ctx context.Context) error {
		nfts, err := tokens.FindNFTsByOwner(ctx, owner)
		if err != nil {
			return err
		}
		log.Logger.Cli.Infof("%s owns %d NFTs", owner, len(nfts))

		nfts = token.Sample(nfts, f.count, rand.New(rand.NewSource(time.Now().UnixNano())))
		token.LoadOffChain(ctx, fetcher, nfts)
		for _, nft := range nfts {
			image := ""
			if nft.OffChain != nil {
				image = nft.OffChain.Image
			}
			log.Logger.Cli.Infof("%s (%s): %s", nft.Name, nft.Mint, image)
		}

		return nil
	})
}

func showCandyMachine(ctx context.Context, client *chain.Client, fetcher token.MetadataFetcher, address solana.PublicKey, page int) error {
	cm, err := candymachine.Fetch(ctx, client, address)
	if err != nil {
		return err
	}
	log.Logger.Cli.Infof("%s: %d of %d items redeemed, %d config lines loaded", address, cm.ItemsRedeemed, cm.Data.ItemsAvailable, len(cm.Items))

	for _, item := range token.Page(cm.Items, page, pageSize) {
		var meta tokenmeta.OffChainMetadata
		err := fetcher.FetchJSON(ctx, item.Uri, &meta)
		if err != nil {
			log.Logger.Cli.Warnf("%s: %s", item.Name, err)
			continue
		}
		log.Logger.Cli.Infof("%s: %s", item.Name, meta.Image)
	}

	return nil
}
