// Package storage describes where uploaded assets (images, off-chain metadata JSON) are kept.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("asset not found")

type Asset struct {
	ID          uuid.UUID
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

type AssetStorage interface {
	CreateAsset(ctx context.Context, contentType string, data []byte) (Asset, error)
	GetAsset(ctx context.Context, id uuid.UUID) (Asset, error)
}

// IsNotFound reports whether the cause of err is ErrNotFound.
func IsNotFound(err error) bool {
	return err != nil && errors.Cause(err) == ErrNotFound
}
