// Package app собирает магазин запчастей: хранилище слотов, сервисы, gRPC и HTTP-метрики.
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/partshop/internal/health"
	"github.com/vladislavdragonenkov/partshop/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/partshop/internal/metrics"
	grpcsvc "github.com/vladislavdragonenkov/partshop/internal/service/grpc"
	"github.com/vladislavdragonenkov/partshop/internal/version"
)

const (
	gracefulStopTimeout = 5 * time.Second
	circuitMaxFailures  = 5
	circuitResetTimeout = 30 * time.Second
)

// Run поднимает gRPC ShopService и HTTP-порт с /metrics и health-проверками
// и блокируется до отмены ctx или падения сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	rt, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rt.closeFn(); closeErr != nil {
			logger.WithError(closeErr).Warn("failed to close storage")
		}
	}()

	// Без брокеров или при ошибке подключения магазин работает без публикации событий.
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	var publisher domain.OrderEventPublisher
	if kafkaProducer != nil {
		publisher = kafka.NewResilientPublisher(
			kafka.NewOrderPublisher(kafkaProducer, cfg.KafkaTopic),
			kafka.DefaultRetryConfig(),
			kafka.NewCircuitBreaker(circuitMaxFailures, circuitResetTimeout, logger.WithField("component", "circuit-breaker")),
			logger.WithField("component", "order-publisher"),
		)
	}

	deps := NewDependencies(rt.store, cfg.CatalogSeed, metrics.NewShopMetrics(), publisher, logger)
	logger.WithField("products", deps.Catalog.Len()).Info("catalog built")

	shopService := grpcsvc.NewShopService(deps.ServiceDeps(), logger.WithField("layer", "grpc"))
	grpcMetrics := registerGRPCMetrics(logger)
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcMetrics.UnaryServerInterceptor()))

	grpcsvc.RegisterShopServiceServer(grpcServer, shopService)
	grpcMetrics.InitializeMetrics(grpcServer)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(grpcsvc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Список сервисов для grpcurl; дескрипторов ShopService нет, сообщения в JSON.
	reflection.Register(grpcServer)

	build := version.Info()
	healthHandler := healthcheck.NewHandler(build.Version)
	healthHandler.SetBuild(build.Commit, build.Date)
	healthHandler.RegisterChecker("storage", rt.storageChecker)

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		shutdownHTTP(metricsSrv, logger)
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("gRPC сервер слушает %s", lis.Addr())
		errCh <- grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем gRPC сервер")
		healthServer.Shutdown()
		stopGRPC(grpcServer, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}

// registerGRPCMetrics регистрирует серверные метрики gRPC; повторная регистрация
// (несколько Run в одном процессе) переиспользует уже зарегистрированный коллектор.
func registerGRPCMetrics(logger *log.Entry) *promgrpc.ServerMetrics {
	grpcMetrics := promgrpc.NewServerMetrics()
	if err := prometheus.Register(grpcMetrics); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*promgrpc.ServerMetrics); ok {
				return existing
			}
		}
		logger.WithError(err).Warn("failed to register grpc metrics")
	}
	return grpcMetrics
}

func stopGRPC(server *grpc.Server, logger *log.Entry) {
	stopped := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(gracefulStopTimeout):
		logger.Warn("graceful stop превысил таймаут, принудительно останавливаем")
		server.Stop()
	}
}

// startMetricsServer запускает HTTP-обработчики /metrics, /healthz, /livez и /readyz.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), gracefulStopTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
