package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"google.golang.org/grpc"

	"github.com/go-skc/skc/internal/buildinfo"
	"github.com/go-skc/skc/internal/collect"
	skc "github.com/go-skc/skc/internal/config"
	"github.com/go-skc/skc/internal/ingest"
	"github.com/go-skc/skc/internal/logging"
	"github.com/go-skc/skc/internal/observability"
	"github.com/go-skc/skc/internal/predict"
	"github.com/go-skc/skc/internal/rpc"
	"github.com/go-skc/skc/internal/server"
	"github.com/go-skc/skc/internal/setup"
	"github.com/go-skc/skc/internal/shutdown"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(
		os.Stdout,
		"%s: %s, %s\n",
		buildinfo.Info.Name(),
		buildinfo.Info.Time(),
		buildinfo.Info.Tag(),
	)

	ctx, done := shutdown.New()
	logger := logging.FromContext(ctx)
	if err := run(ctx, done); err != nil {
		logger.Fatal(err)
	}

	defer done()
}

func run(ctx context.Context, cancel func()) error {
	var (
		shutdownCh    chan error
		shutdownCount = 2
	)
	config := skc.Config{}
	env, err := setup.Setup(ctx, &config)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}

	if config.Ingest.Manifest != "" {
		if _, err := ingest.Seed(ctx, env.Database(), config.Ingest.Manifest); err != nil {
			return fmt.Errorf("ingest.Seed: %w", err)
		}
	}

	if config.SvcModeType == skc.SvcModeTypeScrape {
		shutdownCount++
	}

	shutdownCh = make(chan error, shutdownCount)
	notifier, err := env.ProvideNotifier()(shutdownCh)
	if err != nil {
		return fmt.Errorf("notifier provider function error: %w", err)
	}
	dispatcher, err := env.ProvideDispatcher()(notifier, shutdownCh)
	if err != nil {
		return fmt.Errorf("dispatcher provider function error: %w", err)
	}

	if config.SvcModeType == skc.SvcModeTypeScrape {
		scrapper, err := env.ProvideScrapper()(dispatcher, shutdownCh)
		if err != nil {
			return fmt.Errorf("scrapperCaller: %w", err)
		}
		if err := scrapper.Run(ctx); err != nil {
			return fmt.Errorf("scrapperRun: %w", err)
		}
	} else if err := dispatcher.Run(ctx); err != nil {
		return fmt.Errorf("dispatcher.Run: %w", err)
	}

	srv, err := server.New(config.SrvAddr, server.WithMaxConns(config.MaxConns))
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	mux := http.NewServeMux()

	classifyHandler, err := predict.NewHandler(&config.Predict, dispatcher)
	if err != nil {
		return fmt.Errorf("predict.NewHandler: %w", err)
	}

	mux.Handle("/classify", classifyHandler)
	mux.Handle("/health", server.HandleHealth(ctx))

	exporter, err := observability.NewExporter()
	if err != nil {
		return fmt.Errorf("observability.NewExporter: %w", err)
	}
	mux.Handle("/metrics", exporter)

	if config.SvcModeType == skc.SvcModeTypeCollect {
		collectHandler, err := collect.NewHandler(&config.Collect, dispatcher)
		if err != nil {
			return fmt.Errorf("collect.NewHandler: %w", err)
		}
		mux.Handle("/collect", collectHandler)
	}

	go func() {
		if err := srv.ServeHTTPHandler(ctx, mux); err != nil {
			cancel()
		}
	}()

	rpcSrv, err := server.New(config.RPCAddr)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}
	grpcSrv := grpc.NewServer()
	rpc.Register(grpcSrv, rpc.NewServer(dispatcher))

	go func() {
		if err := rpcSrv.ServeGRPC(ctx, grpcSrv); err != nil {
			cancel()
		}
	}()

	go func() {
		if err := http.ListenAndServe("0.0.0.0:8080", nil); err != nil {
			cancel()
		}
	}()

	return <-shutdownCh
}
