package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"solana-course/internal/pkg/storage"
)

const assetsTable = "assets"

var _ storage.AssetStorage = (*Storage)(nil)

func (s *Storage) CreateAsset(ctx context.Context, contentType string, data []byte) (a storage.Asset, err error) {
	if contentType == "" {
		return a, fmt.Errorf("empty contentType")
	}
	if len(data) == 0 {
		return a, fmt.Errorf("empty data")
	}

	a = storage.Asset{
		ID:          uuid.New(),
		ContentType: contentType,
		Data:        data,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	query, args, err := sq.Insert(assetsTable).
		Columns("ast_id", "ast_content_type", "ast_data", "ast_created_at").
		Values(a.ID.String(), a.ContentType, a.Data, a.CreatedAt).
		ToSql()
	if err != nil {
		return a, err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return a, fmt.Errorf("insert: %s", err)
	}

	return a, nil
}

func (s *Storage) GetAsset(ctx context.Context, id uuid.UUID) (a storage.Asset, err error) {
	query, args, err := sq.Select("ast_id, ast_content_type, ast_data, ast_created_at").
		From(assetsTable).
		Where("ast_id = ?", id.String()).
		ToSql()
	if err != nil {
		return a, err
	}

	var rawID string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&rawID, &a.ContentType, &a.Data, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return a, errors.Wrapf(storage.ErrNotFound, "asset %s", id)
	}
	if err != nil {
		return a, fmt.Errorf("select: %s", err)
	}

	a.ID, err = uuid.Parse(rawID)
	if err != nil {
		return a, fmt.Errorf("uuid.Parse: %s", err)
	}

	return a, nil
}
