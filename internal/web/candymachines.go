package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"solana-course/internal/pkg/log"
	"solana-course/internal/programs/candymachine"
	"solana-course/internal/programs/tokenmeta"
	"solana-course/internal/token"
)

type (
	candyMachineItemResp struct {
		candymachine.Item
		OffChain *tokenmeta.OffChainMetadata `json:"off_chain,omitempty"`
	}

	candyMachineResp struct {
		Address        string `json:"address"`
		Authority      string `json:"authority"`
		ItemsAvailable uint64 `json:"items_available"`
		ItemsRedeemed  uint64 `json:"items_redeemed"`
		listResp[candyMachineItemResp]
	}
)

// getCandyMachine pages through the config lines of a candy machine with their off-chain metadata.
func (a *api) getCandyMachine(ctx echo.Context) error {
	address, err := addressParam(ctx, "address")
	if err != nil {
		return err
	}
	page, limit, err := pageParams(ctx)
	if err != nil {
		return err
	}

	cm, err := candymachine.Fetch(ctx.Request().Context(), a.client, address)
	if errors.Is(err, candymachine.ErrNotCandyMachine) {
		return echo.NewHTTPError(http.StatusBadRequest, "not a candy machine")
	}
	if err != nil {
		return chainError(ctx, "candymachine.Fetch", err)
	}

	pageItems := token.Page(cm.Items, page, limit)
	items := make([]candyMachineItemResp, len(pageItems))
	fetchCtx, cancel := context.WithTimeout(ctx.Request().Context(), fetchTimeout)
	defer cancel()
	for i, item := range pageItems {
		items[i].Item = item
		var meta tokenmeta.OffChainMetadata
		err := a.fetcher.FetchJSON(fetchCtx, item.Uri, &meta)
		if err != nil {
			log.Logger.Web.Warnf("off-chain metadata of %s: %s", item.Name, err)
			continue
		}
		items[i].OffChain = &meta
	}

	return ctx.JSON(http.StatusOK, candyMachineResp{
		Address:        address.String(),
		Authority:      cm.Authority.String(),
		ItemsAvailable: cm.Data.ItemsAvailable,
		ItemsRedeemed:  cm.ItemsRedeemed,
		listResp: listResp[candyMachineItemResp]{
			Total: len(cm.Items),
			Page:  page,
			Limit: limit,
			Items: items,
		},
	})
}
