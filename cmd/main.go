// jobmate-jobs-service
//
// CRUD for job postings. Exposes the same operations over REST (used by the
// Gateway) and gRPC:
//   - create / update / remove: admin only
//   - list (optionally filtered by titleLike, minSalary, hasEquity) and get
//
// Publishes EVENT_JOB_CREATED, EVENT_JOB_UPDATED and EVENT_JOB_REMOVED to
// Redis for the Gateway SSE forward.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"jobmate/jobs-service/internal/config"
	"jobmate/jobs-service/internal/db"
	"jobmate/jobs-service/internal/events"
	"jobmate/jobs-service/internal/grpcserver"
	"jobmate/jobs-service/internal/httpmw"
	"jobmate/jobs-service/internal/jobs"
	"jobmate/jobs-service/internal/logging"
	"jobmate/jobs-service/internal/scheduler"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("[jobs-service] fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logging.Init(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	slog.Info("[jobs-service] connecting to PostgreSQL")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	slog.Info("[jobs-service] PostgreSQL connected")

	// ── Redis ────────────────────────────────────────────────────────────────
	slog.Info("[jobs-service] connecting to Redis")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rdb.Close()
	slog.Info("[jobs-service] Redis connected")

	svc := jobs.NewService(jobs.NewRepository(pool), events.NewRedisPublisher(rdb))

	// ── Health probes ────────────────────────────────────────────────────────
	health := scheduler.New(cfg.HealthIntervalMinutes,
		scheduler.Probe{Name: "postgres", Check: pool.Ping},
		scheduler.Probe{Name: "redis", Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	)
	if err := health.Start(ctx); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	defer health.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler(health))
	jobs.NewHandler(svc).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpmw.Chain(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// ── gRPC server ──────────────────────────────────────────────────────────
	gsrv := grpc.NewServer()
	grpcserver.Register(gsrv, grpcserver.NewServer(svc))

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("[jobs-service] HTTP listening", "version", version, "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		slog.Info("[jobs-service] gRPC listening", "port", cfg.GRPCPort)
		if err := gsrv.Serve(lis); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	// ── Graceful shutdown ────────────────────────────────────────────────────
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("[jobs-service] shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		gsrv.GracefulStop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("[jobs-service] shutdown error", "err", err)
		}
		return nil
	})

	err = g.Wait()
	slog.Info("[jobs-service] stopped")
	return err
}

func healthHandler(s *scheduler.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		code, state := http.StatusOK, "ok"
		if !s.Healthy() {
			code, state = http.StatusServiceUnavailable, "degraded"
		}
		httpmw.WriteJSON(w, code, map[string]any{
			"status":  state,
			"service": "jobs-service",
			"version": version,
			"checks":  s.Status(),
		})
	}
}
