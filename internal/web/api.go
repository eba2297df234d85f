// Package web serves the browser side of the course: balance lookups, unsigned transactions
// for wallet signing, program account lists, wallet holdings and asset storage.
package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"

	"solana-course/internal/pkg/chain"
	"solana-course/internal/pkg/config_types"
	"solana-course/internal/pkg/log"
	"solana-course/internal/pkg/metrics"
	"solana-course/internal/pkg/storage"
	"solana-course/internal/pkg/storage/sqlite"
	"solana-course/internal/pkg/uploader"
	echo2 "solana-course/internal/pkg/util/echo"
	"solana-course/internal/token"
	"solana-course/internal/web/config"
	"solana-course/internal/web/middlewares"
)

type api struct {
	certData      []byte
	port          uint64
	metricsPort   uint64
	publicUrl     string
	router        *echo.Echo
	metricsServer *echo.Echo
	client        *chain.Client
	tokens        *token.Service
	storage       storage.AssetStorage
	fetcher       token.MetadataFetcher
	cache         *cache.Cache
	waitGroup     *sync.WaitGroup
	ctx           context.Context
	ctxCancel     context.CancelFunc

	supportedOutputFormats map[string]struct{}
}

const (
	jsonOutputFormat = "json"
	csvOutputFormat  = "csv"

	cacheTTL              = 5 * time.Minute
	fetchTimeout          = 10 * time.Second
	assetsBodyLimit       = "10M"
	serverShutdownTimeout = 10 * time.Second
)

func NewAPI(cfg config.Config) (*api, error) {
	var certData []byte
	if cfg.Web.CertFile != "" {
		var err error
		certData, err = os.ReadFile(cfg.Web.CertFile)
		if err != nil {
			return nil, fmt.Errorf("fail to read certificate (%s): %s", cfg.Web.CertFile, err)
		}
	}

	ctx, cancelFunc := context.WithCancel(context.Background())

	s, err := sqlite.New(ctx, cfg.SQLite)
	if err != nil {
		cancelFunc()
		return nil, fmt.Errorf("storage init: %s", err)
	}

	a := newAPI(ctx, cancelFunc, cfg.Web, chain.NewClientFromConfig(cfg.Cluster), s, uploader.NewPublicFetcher(fetchTimeout))
	a.certData = certData

	// prometheus registers into the global registry, so only the real server does it
	a.initMetrics()

	return a, nil
}

func newAPI(ctx context.Context, cancel context.CancelFunc, cfg config_types.WebConfig, client *chain.Client, s storage.AssetStorage, fetcher token.MetadataFetcher) *api {
	a := &api{
		port:          cfg.Port,
		metricsPort:   cfg.MetricsPort,
		publicUrl:     cfg.PublicUrl,
		router:        echo.New(),
		metricsServer: echo.New(),
		client:        client,
		tokens:        token.NewService(client),
		storage:       s,
		cache:         cache.New(cacheTTL, cacheTTL),

		waitGroup: &sync.WaitGroup{},
		ctx:       ctx,
		ctxCancel: cancel,
		supportedOutputFormats: map[string]struct{}{
			jsonOutputFormat: {},
			csvOutputFormat:  {},
		},
	}
	a.fetcher = &cachedFetcher{
		cache:        a.cache,
		fetcher:      fetcher,
		storage:      s,
		assetsPrefix: cfg.PublicUrl + "/assets/",
	}

	echo2.SetupServer(a.router)
	echo2.SetupServer(a.metricsServer)
	a.initApiHandlers()

	return a
}

func (a *api) initMetrics() {
	a.metricsServer.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		LogErrorFunc:    echo2.LogPanic,
	}))

	prom := prometheus.NewPrometheus("solana_course", nil, metrics.MetricList())
	// Scrape metrics from Main Server
	a.router.Use(prom.HandlerFunc)
	// Setup metrics endpoint at another server
	prom.SetMetricsPath(a.metricsServer)

	metrics.InitStartTime()
}

func (a *api) initApiHandlers() {
	echo2.InitHandlersStart(a.router)
	a.router.Use(middlewares.Defaults("/assets")...)

	generalGroup := a.router.Group("", middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	generalGroup.GET("/balance/:address", a.getBalance)

	txGroup := generalGroup.Group("/tx")
	txGroup.POST("/ping", a.buildPingTx)
	txGroup.POST("/transfer", a.buildTransferTx)
	txGroup.POST("/movie-review", a.buildMovieReviewTx)
	txGroup.POST("/student-intro", a.buildStudentIntroTx)
	txGroup.POST("/send", a.sendTx)

	generalGroup.GET("/movies", a.getMovies)
	generalGroup.GET("/student-intros", a.getStudentIntros)
	generalGroup.GET("/wallets/:owner/tokens", a.getTokenBalances)
	generalGroup.GET("/wallets/:owner/nfts", a.getNFTs)
	generalGroup.GET("/candy-machines/:address", a.getCandyMachine)

	generalGroup.POST("/assets", a.createAsset, middleware.BodyLimit(assetsBodyLimit))
	generalGroup.GET("/assets/:id", a.getAsset)
}

func (a *api) Run() (err error) {
	a.runWithWaitGroup(a.ctx, a.refreshProgramAccounts)

	addr := fmt.Sprintf(":%d", a.port)
	if len(a.certData) != 0 {
		err = a.router.StartTLS(addr, a.certData, a.certData)
	} else {
		err = a.router.Start(addr)
	}
	if err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (a *api) RunMetrics() (err error) {
	if a.metricsPort == 0 {
		return nil
	}
	err = a.metricsServer.Start(fmt.Sprintf(":%d", a.metricsPort))
	if err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (a *api) Stop() error {
	ctx, cancel := context.WithTimeout(a.ctx, serverShutdownTimeout)
	defer cancel()

	go a.metricsServer.Shutdown(ctx)
	err := a.router.Shutdown(ctx)
	if err != nil {
		log.Logger.Web.Errorf("router.Shutdown: %s", err)
	}
	a.ctxCancel()

	if closer, ok := a.storage.(interface{ Close() error }); ok {
		err = closer.Close()
		if err != nil {
			return fmt.Errorf("storage close: %s", err)
		}
	}

	return nil
}

func (a *api) WaitGroup() *sync.WaitGroup {
	return a.waitGroup
}
