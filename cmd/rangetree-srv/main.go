package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/go-sod/rangetree/internal/buildinfo"
	rangetree "github.com/go-sod/rangetree/internal/config"
	"github.com/go-sod/rangetree/internal/logging"
	"github.com/go-sod/rangetree/internal/metric"
	"github.com/go-sod/rangetree/internal/query"
	"github.com/go-sod/rangetree/internal/server"
	"github.com/go-sod/rangetree/internal/setup"
	"github.com/go-sod/rangetree/internal/shutdown"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintln(os.Stdout, buildinfo.Info)

	ctx, done := shutdown.New()
	defer done()

	logger := logging.FromContext(ctx)
	if err := run(ctx, done); err != nil {
		logger.Fatal(err)
	}
}

func run(ctx context.Context, cancel func()) error {
	config := rangetree.Config{}
	env, err := setup.Setup(ctx, &config)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}
	defer env.Close(ctx)

	if config.Debug {
		ctx = logging.WithLogger(ctx, logging.NewLogger(true))
	}
	logger := logging.FromContext(ctx)

	if err := metric.Register(); err != nil {
		return fmt.Errorf("metric.Register: %w", err)
	}
	metricsHandler, err := metric.NewHandler(config.MetricsNS)
	if err != nil {
		return fmt.Errorf("metric.NewHandler: %w", err)
	}

	manager, err := env.ProvideIndex()()
	if err != nil {
		return fmt.Errorf("index provider function error: %w", err)
	}
	if err := manager.Run(ctx); err != nil {
		return fmt.Errorf("index.Run: %w", err)
	}
	defer manager.Stop()

	rangeHandler, err := query.NewRangeHandler(&config.Query, manager, env.Cache())
	if err != nil {
		return fmt.Errorf("query.NewRangeHandler: %w", err)
	}
	searchHandler, err := query.NewSearchHandler(&config.Query, manager)
	if err != nil {
		return fmt.Errorf("query.NewSearchHandler: %w", err)
	}
	batchHandler, err := query.NewBatchHandler(&config.Query, manager)
	if err != nil {
		return fmt.Errorf("query.NewBatchHandler: %w", err)
	}
	datasetsHandler, err := query.NewDatasetsHandler(manager)
	if err != nil {
		return fmt.Errorf("query.NewDatasetsHandler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/range", rangeHandler)
	mux.Handle("/search", searchHandler)
	mux.Handle("/batch", batchHandler)
	mux.Handle("/datasets", datasetsHandler)
	mux.Handle("/health", server.HandleHealth(ctx))
	mux.Handle("/metrics", metricsHandler)

	srv, err := server.New(config.SrvAddr, config.MaxConns)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.ServeHTTPHandler(ctx, mux); err != nil {
			logger.Errorf("http server: %v", err)
			cancel()
		}
	}()

	if config.GRPCAddr != "" {
		grpcSrv, err := server.New(config.GRPCAddr, config.MaxConns)
		if err != nil {
			cancel()
			wg.Wait()
			return fmt.Errorf("server.New: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := grpcSrv.ServeGRPC(ctx, server.NewGRPCServer()); err != nil {
				logger.Errorf("grpc server: %v", err)
				cancel()
			}
		}()
	}

	logger.Infof("serving on %s", srv.Addr())
	wg.Wait()
	return nil
}
