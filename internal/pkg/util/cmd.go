package util

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"solana-course/internal/pkg/log"
)

func GracefulStop(waitGroup *sync.WaitGroup, waitTimeout time.Duration, stopFunc func()) {
	var gracefulStop = make(chan os.Signal, 1)
	signal.Notify(gracefulStop, syscall.SIGTERM, syscall.SIGINT)
	<-gracefulStop

	// Run
	log.Logger.General.Infof("Received sigterm, stopping services")
	stopFunc()

	if waitGroup != nil {
		closeChan := make(chan struct{})

		go func() {
			defer close(closeChan)
			waitGroup.Wait()
		}()

		select {
		case <-closeChan:
			log.Logger.General.Info("Service stopped")
		case <-time.After(waitTimeout):
			log.Logger.General.Warnf("Service stopped after timeout")
		}
	}
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// RunScript runs a one-shot flow and exits the process with 1 when it fails.
func RunScript(run func(ctx context.Context) error) {
	ctx, cancel := SignalContext()
	err := run(ctx)
	cancel()
	if err != nil {
		log.Logger.Cli.Errorf("%s", err)
		os.Exit(1)
	}

	log.Logger.Cli.Info("Finished successfully")
}
