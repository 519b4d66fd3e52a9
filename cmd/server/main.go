package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	bankhandler "bankqr/internal/bank/handler"
	"bankqr/internal/payload"
	payloadhandler "bankqr/internal/payload/handler"
	payloadmetrics "bankqr/internal/payload/metrics"
	"bankqr/internal/payload/qrimage"
	"bankqr/internal/platform/config"
	"bankqr/internal/platform/httpserver"
	"bankqr/internal/platform/logger"
	platformmetrics "bankqr/internal/platform/metrics"
	"bankqr/internal/platform/redis"
	"bankqr/internal/platform/tracing"
	httptransport "bankqr/internal/transport/http"
	"bankqr/internal/usage"
	usagehandler "bankqr/internal/usage/handler"
	usagemetrics "bankqr/internal/usage/metrics"
	"bankqr/internal/usage/publisher"
	"bankqr/internal/usage/store"
	verificationhandler "bankqr/internal/verification/handler"
	verificationmetrics "bankqr/internal/verification/metrics"
	"bankqr/internal/verification/providers"
	"bankqr/internal/verification/providers/primary"
	"bankqr/internal/verification/providers/simulated"
	"bankqr/internal/verification/providers/synthetic"
	"bankqr/internal/verification/service"
	"bankqr/pkg/platform/circuit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	tp := tracing.New(log, "bankqr", cfg.Tracing.SampleRatio)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(flushCtx); err != nil {
			log.Warn("trace flush failed", "error", err)
		}
	}()

	m := platformmetrics.New()
	usageMetrics := usagemetrics.New(m.Registry)

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var usageStore usage.Store = store.NewInMemory()
	var routerOpts []httptransport.Option
	if redisClient != nil {
		defer redisClient.Close()
		usageStore = store.NewRedis(redisClient.Client, store.WithRetention(cfg.Usage.Retention))
		routerOpts = append(routerOpts, httptransport.WithHealthCheck("redis", redisClient.Health))
		log.Info("usage counters backed by redis")
	} else {
		log.Info("usage counters kept in memory")
	}

	recorder := usage.NewRecorder(cfg.Usage.Buffer, usage.WithRecorderMetrics(usageMetrics))
	workerOpts := []usage.WorkerOption{
		usage.WithWorkerLogger(log),
		usage.WithWorkerMetrics(usageMetrics),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := publisher.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic,
			publisher.WithLogger(log),
			publisher.WithMetrics(usageMetrics),
		)
		if err != nil {
			return err
		}
		defer func() {
			if err := kafka.Close(context.WithoutCancel(ctx)); err != nil {
				log.Warn("kafka flush failed", "error", err)
			}
		}()
		workerOpts = append(workerOpts, usage.WithPublisher(kafka))
		log.Info("usage events published", "topic", cfg.Kafka.Topic)
	}
	worker := usage.NewWorker(usageStore, recorder.Events(), workerOpts...)

	verifier, err := service.New(buildChain(cfg, log),
		service.WithLogger(log),
		service.WithUsageSink(recorder),
		service.WithMetrics(verificationmetrics.New(m.Registry)),
		service.WithTracer(tp.Tracer("bankqr/verification")),
	)
	if err != nil {
		return err
	}

	encoder := payload.NewEncoder(payload.WithMetrics(payloadmetrics.New(m.Registry)))
	handlers := []httptransport.Registrar{
		bankhandler.New(),
		verificationhandler.New(verifier, log),
		payloadhandler.New(encoder, verifier, qrimage.New(cfg.QR.ImageSize), log),
		usagehandler.New(usageStore, log),
	}
	routerOpts = append(routerOpts, httptransport.WithMetrics(m))
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(log, handlers, routerOpts...))

	// The worker is stopped only after the listener has shut down.
	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorker()
	workerDone := make(chan error, 1)
	go func() { workerDone <- worker.Run(workerCtx) }()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting bankqr", "addr", cfg.Addr, "lookup_endpoint", cfg.Lookup.Endpoint)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	serveErr := g.Wait()

	stopWorker()
	if err := <-workerDone; err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("usage worker stopped", "error", err)
	}
	return serveErr
}

// buildChain orders the resolution tiers. The primary tier is always first;
// without credentials its calls fail and the chain falls through.
func buildChain(cfg config.Server, log *slog.Logger) []providers.Provider {
	breaker := circuit.New("primary-lookup",
		circuit.WithThreshold(cfg.Lookup.BreakerThreshold),
		circuit.WithCooldown(cfg.Lookup.BreakerCooldown),
	)
	return []providers.Provider{
		primary.New("primary-lookup", primary.Config{
			Endpoint: cfg.Lookup.Endpoint,
			ClientID: cfg.Lookup.ClientID,
			APIKey:   cfg.Lookup.APIKey,
			Timeout:  cfg.Lookup.Timeout,
		}, primary.WithBreaker(breaker), primary.WithLogger(log)),
		simulated.New("simulated", simulated.WithDelay(simulated.UniformDelay(cfg.Simulated.MinDelay, cfg.Simulated.MaxDelay))),
		synthetic.New("synthetic"),
	}
}
