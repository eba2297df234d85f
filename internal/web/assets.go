package web

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"solana-course/internal/pkg/log"
	"solana-course/internal/pkg/metrics"
	"solana-course/internal/pkg/storage"
)

type assetResp struct {
	ID  uuid.UUID `json:"id"`
	Uri string    `json:"uri"`
}

// allowedAssetTypes are the types served back from this origin. Nothing here can run script.
var allowedAssetTypes = map[string]struct{}{
	"application/json": {},
	"image/png":        {},
	"image/jpeg":       {},
	"image/gif":        {},
	"image/webp":       {},
}

func (a *api) assetUri(id uuid.UUID) string {
	return fmt.Sprintf("%s/assets/%s", a.publicUrl, id)
}

func (a *api) createAsset(ctx echo.Context) error {
	contentType, _, err := mime.ParseMediaType(ctx.Request().Header.Get(echo.HeaderContentType))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "content-type")
	}
	if _, ok := allowedAssetTypes[contentType]; !ok {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "content-type")
	}
	data, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "body")
	}
	if len(data) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty body")
	}

	asset, err := a.storage.CreateAsset(ctx.Request().Context(), contentType, data)
	if err != nil {
		log.Logger.Web.Errorf("CreateAsset: %s", err)
		return err
	}
	metrics.IncAssetsStoredCnt(contentType)

	return ctx.JSON(http.StatusCreated, assetResp{ID: asset.ID, Uri: a.assetUri(asset.ID)})
}

func (a *api) getAsset(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id")
	}

	asset, err := a.storage.GetAsset(ctx.Request().Context(), id)
	if storage.IsNotFound(err) {
		return echo.NewHTTPError(http.StatusNotFound, "asset not found")
	}
	if err != nil {
		log.Logger.Web.Errorf("GetAsset: %s", err)
		return err
	}

	contentType := asset.ContentType
	if _, ok := allowedAssetTypes[contentType]; !ok {
		contentType = echo.MIMEOctetStream
	}

	// assets are immutable once stored
	ctx.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	ctx.Response().Header().Set(echo.HeaderXContentTypeOptions, "nosniff")
	ctx.Response().Header().Set(echo.HeaderContentSecurityPolicy, "default-src 'none'; sandbox")

	return ctx.Blob(http.StatusOK, contentType, asset.Data)
}
