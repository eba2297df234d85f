package web

import (
	"context"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"solana-course/internal/token"
)

const maxRandomNFTs = 50

func (a *api) getTokenBalances(ctx echo.Context) error {
	owner, err := addressParam(ctx, "owner")
	if err != nil {
		return err
	}
	format, err := a.outputFormat(ctx)
	if err != nil {
		return err
	}

	res, err := a.tokens.TokenBalances(ctx.Request().Context(), owner)
	if err != nil {
		return chainError(ctx, "TokenBalances", err)
	}
	if format == csvOutputFormat {
		return csvResp(ctx, res, "tokens.csv")
	}

	return ctx.JSON(http.StatusOK, res)
}

// getNFTs pages through the owner NFTs, or with random=N returns N of them in random order.
func (a *api) getNFTs(ctx echo.Context) error {
	owner, err := addressParam(ctx, "owner")
	if err != nil {
		return err
	}
	page, limit, err := pageParams(ctx)
	if err != nil {
		return err
	}
	random := 0
	if paramString := ctx.QueryParam("random"); paramString != "" {
		random, err = strconv.Atoi(paramString)
		if err != nil || random < 1 || random > maxRandomNFTs {
			return echo.NewHTTPError(http.StatusBadRequest, "random")
		}
	}

	nfts, err := a.tokens.FindNFTsByOwner(ctx.Request().Context(), owner)
	if err != nil {
		return chainError(ctx, "FindNFTsByOwner", err)
	}
	total := len(nfts)
	if random > 0 {
		nfts = token.Sample(nfts, random, rand.New(rand.NewSource(time.Now().UnixNano())))
	} else {
		nfts = token.Page(nfts, page, limit)
	}

	fetchCtx, cancel := context.WithTimeout(ctx.Request().Context(), fetchTimeout)
	defer cancel()
	token.LoadOffChain(fetchCtx, a.fetcher, nfts)

	return ctx.JSON(http.StatusOK, listResp[token.NFT]{
		Total: total,
		Page:  page,
		Limit: limit,
		Items: nfts,
	})
}
