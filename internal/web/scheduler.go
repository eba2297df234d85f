package web

import (
	"context"
	"time"

	"solana-course/internal/pkg/log"
)

// refreshInterval is shorter than shortTermCache so the lists never expire while the server runs
const refreshInterval = 45 * time.Second

func (a *api) refreshProgramAccounts(ctx context.Context) {
	for {
		a.warmCaches(ctx)

		select {
		case <-ctx.Done():
			log.Logger.Web.Info("stopping program accounts refresh")
			return

		case <-time.After(refreshInterval):
			continue
		}
	}
}

// warmCaches reloads the program account lists. Failures keep the previous entries.
func (a *api) warmCaches(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	movies, err := a.fetchMovieReviews(ctx)
	if err != nil {
		log.Logger.Web.Warnf("refresh movies: %s", err)
	} else {
		log.Logger.Web.Debugf("refresh movies: %d reviews", len(movies))
	}

	intros, err := a.fetchIntros(ctx)
	if err != nil {
		log.Logger.Web.Warnf("refresh student intros: %s", err)
	} else {
		log.Logger.Web.Debugf("refresh student intros: %d intros", len(intros))
	}
}

func (a *api) runWithWaitGroup(ctx context.Context, fn func(context.Context)) {
	a.waitGroup.Add(1)
	go func() {
		fn(ctx)
		a.waitGroup.Done()
	}()
}
