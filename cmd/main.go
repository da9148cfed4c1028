package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/Leganyst/rental-inventory/internal/config"
	"github.com/Leganyst/rental-inventory/internal/db"
	"github.com/Leganyst/rental-inventory/internal/httpapi"
	"github.com/Leganyst/rental-inventory/internal/lock"
	"github.com/Leganyst/rental-inventory/internal/logger"
	"github.com/Leganyst/rental-inventory/internal/model"
	"github.com/Leganyst/rental-inventory/internal/repository"
	"github.com/Leganyst/rental-inventory/internal/service"
)

func main() {
	// 1. Конфиг из env (и .env, если есть).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. Логгер.
	appLog, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = appLog.Sync() }()

	// 3. БД через GORM и миграции моделей.
	gormDB, err := db.NewGormDB(cfg.DB)
	if err != nil {
		appLog.Fatal("init db", zap.Error(err))
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		appLog.Fatal("auto migrate", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		appLog.Fatal("sql DB", zap.Error(err))
	}
	defer sqlDB.Close()

	// 4. Блокировки позиций: Redis для нескольких инстансов, иначе в памяти процесса.
	locker, closeLocker := newLocker(cfg.Redis, appLog)
	defer closeLocker()

	// 5. Репозитории и сервисы.
	store := repository.NewStore(gormDB)
	bookingSvc := service.NewBookingService(store, locker, appLog)
	inventorySvc := service.NewInventoryService(store, locker, appLog)

	// 6. HTTP API.
	handler := httpapi.NewHandler(bookingSvc, inventorySvc, appLog)
	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      httpapi.NewRouter(handler, cfg.HTTP.RequestTimeout),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTP.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 7. gRPC health для проб оркестратора.
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		appLog.Fatal("listen grpc", zap.String("addr", cfg.GRPC.Addr), zap.Error(err))
	}

	go func() {
		appLog.Info("grpc health server listening", zap.String("addr", cfg.GRPC.Addr))
		if err := grpcServer.Serve(lis); err != nil {
			appLog.Error("grpc serve", zap.Error(err))
		}
	}()
	go func() {
		appLog.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("http serve", zap.Error(err))
		}
	}()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	// 8. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	appLog.Info("shutting down")
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		appLog.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
}

func newLocker(cfg config.RedisConfig, appLog *zap.Logger) (lock.Locker, func()) {
	if cfg.Addr == "" {
		appLog.Info("using in-process item locks")
		return lock.NewMemoryLocker(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		appLog.Fatal("connect redis", zap.String("addr", cfg.Addr), zap.Error(err))
	}

	appLog.Info("using redis item locks", zap.String("addr", cfg.Addr))
	return lock.NewRedisLocker(client, cfg.LockTTL), func() { _ = client.Close() }
}
