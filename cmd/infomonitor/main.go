package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"
	health "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/pribylovaa/infomonitor/internal/bot"
	"github.com/pribylovaa/infomonitor/internal/cache"
	"github.com/pribylovaa/infomonitor/internal/config"
	"github.com/pribylovaa/infomonitor/internal/delivery"
	"github.com/pribylovaa/infomonitor/internal/metrics"
	"github.com/pribylovaa/infomonitor/internal/rss"
	"github.com/pribylovaa/infomonitor/internal/service"
	"github.com/pribylovaa/infomonitor/internal/session"
	"github.com/pribylovaa/infomonitor/internal/storage/postgres"
	imhttp "github.com/pribylovaa/infomonitor/internal/transport/http"
	"github.com/pribylovaa/infomonitor/internal/transport/http/handlers"
	"github.com/pribylovaa/infomonitor/pkg/interceptors"
	"github.com/pribylovaa/infomonitor/pkg/redact"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting infomonitor", "env", cfg.Env, slog.Int("sources", len(cfg.Sources)))

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	store, err := postgres.New(dbCtx, cfg.DB.URL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	log.Info("postgres_connected", slog.String("url", redact.URL(cfg.DB.URL)))

	// Кэш дайджеста опционален: без redis.url или при недоступности Redis работаем без него.
	var digestCache cache.DigestCache = cache.Noop{}
	if cfg.Redis.URL != "" {
		rcCtx, rcCancel := context.WithTimeout(rootCtx, 5*time.Second)
		rc, err := cache.NewRedisCache(rcCtx, cfg.Redis.URL, cfg.Redis.Prefix)
		rcCancel()
		if err != nil {
			log.Warn("redis_unavailable", slog.String("err", err.Error()))
		} else {
			digestCache = rc
			log.Info("redis_connected", slog.String("url", redact.URL(cfg.Redis.URL)))
		}
	}

	m := metrics.New(nil)

	parser := rss.New(&http.Client{}, rss.Options{
		MaxConcurrent: cfg.Fetcher.Concurrency,
		Timeout:       cfg.Fetcher.Timeout,
		UserAgent:     cfg.Fetcher.UserAgent,
	})

	var notifier service.Notifier = delivery.LogNotifier{}
	if cfg.Delivery.URL != "" {
		notifier = delivery.NewWebhook(&http.Client{}, delivery.Options{
			URL:        cfg.Delivery.URL,
			Timeout:    cfg.Delivery.Timeout,
			MaxRetries: cfg.Delivery.MaxRetries,
			RPS:        cfg.Delivery.RPS,
			Burst:      cfg.Delivery.Burst,
		})
		log.Info("delivery_webhook_enabled", slog.String("url", redact.URL(cfg.Delivery.URL)))
	}

	svc := service.New(*cfg, service.Deps{
		Parser:      parser,
		Subscribers: store,
		Notifier:    notifier,
		Cache:       digestCache,
		Metrics:     m,
	})
	log.Info("service_initialized")

	sessions := session.NewMemoryStore(cfg.Session.TTL, service.FormatSingle, session.WithMetrics(m))
	go sessions.Run(rootCtx, cfg.Session.SweepInterval)

	sourceNames := make([]string, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		sourceNames = append(sourceNames, strings.ToUpper(s.ID))
	}

	dialog := bot.New(svc, sessions, store, bot.Options{
		NewsLimit: cfg.Bot.NewsLimit,
		DigestAt:  cfg.Digest.At,
		Sources:   sourceNames,
	})

	if cfg.Digest.Enabled {
		go func() {
			if err := svc.StartDailyDigest(rootCtx); err != nil {
				log.Error("digest_start_failed", slog.String("err", err.Error()))
			}
		}()
	}

	// HTTP: webhook чата, REST, пробы и /metrics.
	h := &handlers.Handlers{
		News:         svc,
		Sessions:     sessions,
		Bot:          dialog,
		Ready:        store.Ping,
		DefaultLimit: cfg.Bot.NewsLimit,
	}

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           imhttp.NewRouter(h, imhttp.Options{Logger: log, Timeout: cfg.Timeouts.Service}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("http_listen_start", slog.String("addr", httpAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErrCh <- err
		}
		close(httpErrCh)
	}()

	grpc_prometheus.EnableHandlingTimeHistogram()

	// gRPC: health-check и интерсепторы.
	grpcOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			interceptors.Recover(log),
			interceptors.Logging(log),
			interceptors.WithTimeout(cfg.Timeouts.Service),
			grpc_prometheus.UnaryServerInterceptor,
		),
		grpc.ChainStreamInterceptor(
			grpc_prometheus.StreamServerInterceptor,
		),
	}
	grpcServer := grpc.NewServer(grpcOpts...)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	// Рефлексия — только в local/dev.
	if cfg.Env == envLocal || cfg.Env == envDev {
		reflection.Register(grpcServer)
	}

	addr := cfg.GRPC.Addr()
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("grpc_listen_failed",
			slog.String("addr", addr),
			slog.String("err", err.Error()),
		)
		rootCancel()
		_ = digestCache.Close()
		store.Close()
		os.Exit(1)
	}
	log.Info("grpc_listen_start", slog.String("addr", addr))

	grpc_prometheus.Register(grpcServer)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	grpcErrCh := make(chan error, 1)
	go func() {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			grpcErrCh <- err
		}
		close(grpcErrCh)
	}()

	log.Info("infomonitor_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-httpErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	case err := <-grpcErrCh:
		if err != nil {
			log.Error("grpc_serve_failed", slog.String("err", err.Error()))
		}
	}

	// Останавливаем фоновые задачи (рассылку, janitor сессий).
	rootCancel()

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc_stopped")
	case <-shutdownCtx.Done():
		log.Warn("grpc_force_stop")
		grpcServer.Stop()
	}

	if err := digestCache.Close(); err != nil {
		log.Warn("redis_close_failed", slog.String("err", err.Error()))
	}
	store.Close()

	log.Info("service_stopped")
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
