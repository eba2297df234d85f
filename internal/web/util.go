package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"solana-course/internal/pkg/chain"
	"solana-course/internal/pkg/log"
	echo2 "solana-course/internal/pkg/util/echo"
)

const (
	mimeTextCSV = "text/csv"

	maxLimit     = 100
	minLimit     = 1
	defaultLimit = 9
)

func csvResp(ctx echo.Context, res interface{}, fileName string) error {
	ctx.Response().Header().Set(echo.HeaderContentType, mimeTextCSV)
	if fileName != "" {
		ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"%s\"", fileName))
	}
	ctx.Response().WriteHeader(http.StatusOK)

	return gocsv.Marshal(res, ctx.Response())
}

func (a *api) outputFormat(ctx echo.Context) (string, error) {
	format := ctx.QueryParam("format")
	if format == "" {
		return jsonOutputFormat, nil
	}
	if _, ok := a.supportedOutputFormats[format]; !ok {
		return "", echo.NewHTTPError(http.StatusBadRequest, "format")
	}

	return format, nil
}

// pageParams reads page (>= 1) and limit query params.
func pageParams(ctx echo.Context) (page, limit int, err error) {
	page, limit = 1, defaultLimit
	if paramString := ctx.QueryParam("page"); paramString != "" {
		page, err = strconv.Atoi(paramString)
		if err != nil || page < 1 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "page")
		}
	}
	if paramString := ctx.QueryParam("limit"); paramString != "" {
		limit, err = strconv.Atoi(paramString)
		if err != nil || limit > maxLimit || limit < minLimit {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "limit")
		}
	}

	return page, limit, nil
}

func addressParam(ctx echo.Context, name string) (pk solana.PublicKey, err error) {
	pk, err = chain.ParseAddress(ctx.Param(name))
	if err != nil {
		return pk, echo.NewHTTPError(http.StatusBadRequest, name)
	}

	return pk, nil
}

// chainError maps a failed cluster call to a response. Only a missing account is the caller's fault.
func chainError(ctx echo.Context, op string, err error) error {
	if errors.Is(err, chain.ErrAccountNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "account not found")
	}
	log.Logger.Web.Errorf("%s: %s", op, err)
	echo2.MarkRpcFailed(ctx)

	return echo.NewHTTPError(http.StatusBadGateway, "rpc unavailable")
}
