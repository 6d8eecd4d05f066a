package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-ticket-booking/internal/api"
	"github.com/sanosuguru/go-event-ticket-booking/internal/api/handler"
	apimiddleware "github.com/sanosuguru/go-event-ticket-booking/internal/api/middleware"
	"github.com/sanosuguru/go-event-ticket-booking/internal/application"
	"github.com/sanosuguru/go-event-ticket-booking/internal/config"
	"github.com/sanosuguru/go-event-ticket-booking/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-event-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-event-ticket-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-event-ticket-booking/internal/worker"
)

const migrationsPath = "migrations"

// dbPinger はヘルスチェック用のDBアダプター
type dbPinger struct {
	db *sqlx.DB
}

func (p *dbPinger) Ping(ctx context.Context) error {
	return postgres.Ping(ctx, p.db)
}

func main() {
	// .envファイルの読み込み（存在しない場合は環境変数のみ使用）
	if err := godotenv.Load(); err != nil {
		logger.Debug(".envファイルが見つかりません。環境変数を使用します")
	}

	cfg := config.Load()

	// ロガー初期化
	env := os.Getenv("APP_ENV")
	logger.Set(logger.NewLogger(env))
	defer logger.Sync()

	// データベース接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続に失敗しました", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション実行
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		logger.Fatal("マイグレーションに失敗しました", zap.Error(err))
	}

	// Redis接続（任意。失敗してもロック・キャッシュなしで起動する）
	var redisClient *goredis.Client
	redisClient, err = redisinfra.NewClient(&redisinfra.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Warn("Redis接続に失敗しました。分散ロックとキャッシュは無効になります", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var lockManager *redisinfra.LockManager
	var availabilityCache *redisinfra.AvailabilityCache
	if redisClient != nil {
		lockManager = redisinfra.NewLockManager(redisClient)
		availabilityCache = redisinfra.NewAvailabilityCache(redisClient)
	}

	// メトリクス初期化
	m := metrics.Init()

	// リポジトリ
	txManager := postgres.NewTxManager(db)
	eventRepo := postgres.NewEventRepository(db)
	ticketRepo := postgres.NewTicketTypeRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	promotionRepo := postgres.NewPromotionRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// サービス
	eventService := application.NewEventService(txManager, eventRepo, ticketRepo)
	ticketService := application.NewTicketService(ticketRepo, eventRepo, availabilityCache)
	bookingService := application.NewBookingService(txManager, bookingRepo, ticketRepo, lockManager, availabilityCache, m)
	promotionService := application.NewPromotionService(promotionRepo)
	userService := application.NewUserService(userRepo)

	// ハンドラー
	healthHandler := handler.NewHealthHandler(&dbPinger{db: db})
	eventHandler := handler.NewEventHandler(eventService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	promotionHandler := handler.NewPromotionHandler(promotionService)
	userHandler := handler.NewUserHandler(userService)

	// Echo設定
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	apimiddleware.SetupMiddleware(e)
	e.Use(apimiddleware.PrometheusMiddleware(m))

	// ルーティング
	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)

	// 公開エンドポイント
	v1.GET("/events", eventHandler.List)
	v1.GET("/events/:id", eventHandler.GetByID)
	v1.GET("/events/:id/ticket-types", ticketHandler.GetByEvent)
	v1.GET("/events/:id/remaining", ticketHandler.CountRemaining)
	v1.GET("/ticket-types/:id", ticketHandler.GetByID)
	v1.GET("/promotions/:code/validate", promotionHandler.ValidateCode)

	// 認証必須エンドポイント
	auth := v1.Group("", apimiddleware.JWTAuth(cfg.Auth.JWTSecret))
	auth.POST("/bookings", bookingHandler.Create)
	auth.GET("/bookings", bookingHandler.GetUserBookings)
	auth.GET("/bookings/:id", bookingHandler.GetByID)

	// 管理者エンドポイント
	admin := v1.Group("/admin", apimiddleware.JWTAuth(cfg.Auth.JWTSecret), apimiddleware.RequireAdmin())
	admin.POST("/events", eventHandler.Create)
	admin.PUT("/events/:id", eventHandler.Update)
	admin.DELETE("/events/:id", eventHandler.Delete)
	admin.POST("/promotions", promotionHandler.Create)
	admin.GET("/promotions", promotionHandler.List)
	admin.PUT("/promotions/:id", promotionHandler.Update)
	admin.DELETE("/promotions/:id", promotionHandler.Delete)
	admin.POST("/users", userHandler.Create)
	admin.GET("/users", userHandler.List)
	admin.GET("/users/:id", userHandler.GetByID)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)

	// メトリクスエンドポイント（Basic認証）
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()),
		apimiddleware.MetricsBasicAuth(cfg.Metrics.Username, cfg.Metrics.Password))

	// バックグラウンドワーカー起動
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	sweeper := worker.NewPromotionSweeper(promotionService, cfg.Worker.PromotionSweepInterval)
	go sweeper.Start(workerCtx)

	// サーバー起動
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("サーバー起動", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	// ワーカーを先に止める
	sweeper.Stop()
	workerCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
