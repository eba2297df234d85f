package web

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"solana-course/internal/pkg/metrics"
	"solana-course/internal/pkg/storage"
	"solana-course/internal/programs"
	"solana-course/internal/programs/movie"
	"solana-course/internal/programs/studentintro"
	"solana-course/internal/token"
)

const (
	shortTermCache = 1 * time.Minute

	moviesCacheKey        = "movies"
	studentIntrosCacheKey = "student_intros"
	offChainCachePrefix   = "off_chain:"

	maxCachedDocSize = 64 << 10
	maxCachedItems   = 10000
)

func (a *api) getMovieReviews(ctx context.Context) ([]programs.Decoded[movie.Review], error) {
	cacheValue, ok := a.cache.Get(moviesCacheKey)
	if ok {
		return cacheValue.([]programs.Decoded[movie.Review]), nil
	}

	return a.fetchMovieReviews(ctx)
}

func (a *api) fetchMovieReviews(ctx context.Context) ([]programs.Decoded[movie.Review], error) {
	start := time.Now()
	res, err := programs.FetchDecoded(ctx, a.client, movie.ProgramID, movie.Deserialize)
	if err != nil {
		return nil, err
	}
	metrics.ObserveProgramFetchTime("movie", time.Since(start))

	a.cache.Set(moviesCacheKey, res, shortTermCache)

	return res, nil
}

func (a *api) getIntros(ctx context.Context) ([]programs.Decoded[studentintro.Intro], error) {
	cacheValue, ok := a.cache.Get(studentIntrosCacheKey)
	if ok {
		return cacheValue.([]programs.Decoded[studentintro.Intro]), nil
	}

	return a.fetchIntros(ctx)
}

func (a *api) fetchIntros(ctx context.Context) ([]programs.Decoded[studentintro.Intro], error) {
	start := time.Now()
	res, err := programs.FetchDecoded(ctx, a.client, studentintro.ProgramID, studentintro.Deserialize)
	if err != nil {
		return nil, err
	}
	metrics.ObserveProgramFetchTime("student_intro", time.Since(start))

	a.cache.Set(studentIntrosCacheKey, res, shortTermCache)

	return res, nil
}

// cachedFetcher keeps raw off-chain documents, so every caller decodes into its own value.
// Documents stored by this service are read from storage without a request.
type cachedFetcher struct {
	cache        *cache.Cache
	fetcher      token.MetadataFetcher
	storage      storage.AssetStorage
	assetsPrefix string
}

func (f *cachedFetcher) FetchJSON(ctx context.Context, uri string, v any) error {
	if id, ok := f.ownAsset(uri); ok {
		asset, err := f.storage.GetAsset(ctx, id)
		if err != nil {
			return fmt.Errorf("GetAsset: %s", err)
		}
		return json.Unmarshal(asset.Data, v)
	}

	key := offChainCachePrefix + uri
	if cacheValue, ok := f.cache.Get(key); ok {
		return json.Unmarshal(cacheValue.(json.RawMessage), v)
	}

	var raw json.RawMessage
	err := f.fetcher.FetchJSON(ctx, uri, &raw)
	if err != nil {
		return err
	}
	if len(raw) <= maxCachedDocSize && f.cache.ItemCount() < maxCachedItems {
		f.cache.Set(key, raw, cache.DefaultExpiration)
	}

	return json.Unmarshal(raw, v)
}

func (f *cachedFetcher) ownAsset(uri string) (uuid.UUID, bool) {
	rest, ok := strings.CutPrefix(uri, f.assetsPrefix)
	if !ok {
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(rest)
	if err != nil {
		return uuid.UUID{}, false
	}

	return id, true
}
