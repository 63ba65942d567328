package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"lab-courier/internal/controllers"
	"lab-courier/internal/listeners"
	"lab-courier/internal/orderstore"
	"lab-courier/internal/repositories"
	"lab-courier/internal/routes"
	"lab-courier/internal/services"
	"lab-courier/migrations"
	"lab-courier/pkg/config"
	"lab-courier/pkg/database/postgresql"
	"lab-courier/pkg/docstore"
	"lab-courier/pkg/eventbus"
	"lab-courier/pkg/filestorage"
	"lab-courier/pkg/geo"
	applogger "lab-courier/pkg/logger"
	"lab-courier/pkg/middleware"
	jwtservice "lab-courier/pkg/service"
	"lab-courier/pkg/validation"
	"lab-courier/pkg/websocket"
)

func main() {
	logger := applogger.NewLogger()
	defer logger.Sync()

	cfg := config.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	docs, err := buildDocstore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("document store init failed", zap.Error(err))
	}
	defer docs.Close()

	// Redis only backs the rule cache; the service degrades to direct reads
	// when it is unreachable.
	var cache repositories.CacheRepository
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rule cache disabled", zap.Error(err))
	} else {
		cache = repositories.NewRedisCacheRepository(redisClient)
	}

	storage, err := filestorage.NewLocalFileStorage(cfg.Server.UploadsDir)
	if err != nil {
		logger.Fatal("file storage init failed", zap.Error(err))
	}

	hub := websocket.NewHub(logger)
	go hub.Run()

	bus := eventbus.New(logger)

	orders := orderstore.New(docs, logger)
	go func() {
		if err := orders.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("order projection stopped", zap.Error(err))
		}
	}()

	ruleRepo := repositories.NewRuleRepository(docs, logger)
	userRepo := repositories.NewUserRepository(docs, logger)

	jwtSvc := jwtservice.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	geocoder := geo.NewHTTPGeocoder(cfg.Geo.GeocoderBaseURL)

	ruleEngine := services.NewRuleEngineService(ruleRepo, cache, cfg.Rules.CacheTTL, logger)
	orderSvc := services.NewOrderService(orders, ruleEngine, bus, logger)
	workflowSvc := services.NewWorkflowService(orders, storage, logger)
	analyticsSvc := services.NewAnalyticsService(orders, userRepo, logger)
	reportSvc := services.NewReportService(orders, analyticsSvc, logger)
	ruleSvc := services.NewRuleService(ruleRepo, ruleEngine, logger)
	userSvc := services.NewUserService(userRepo, bus, logger)
	authSvc := services.NewAuthService(userRepo, jwtSvc, logger)
	notificationSvc := services.NewNotificationService(hub, userRepo, cfg.Push.FCMServerKey, cfg.Push.FCMEndpoint, logger)
	distanceSvc := services.NewDistanceService(orders, geocoder, logger)

	listeners.Register(bus, notificationSvc, distanceSvc, logger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.NewEchoValidator(validator.New())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	routes.InitRouter(e, routes.Controllers{
		Auth:      controllers.NewAuthController(authSvc, logger),
		Order:     controllers.NewOrderController(orderSvc, workflowSvc, logger),
		Rule:      controllers.NewRuleController(ruleSvc, logger),
		User:      controllers.NewUserController(userSvc, logger),
		Analytics: controllers.NewAnalyticsController(analyticsSvc, logger),
		Report:    controllers.NewReportController(reportSvc, logger),
		Websocket: controllers.NewWebsocketController(hub, logger),
	}, authMW, cfg.Server.UploadsDir)

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}

func buildDocstore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (docstore.Store, error) {
	if cfg.Docstore.Driver == "memory" {
		logger.Warn("using in-memory document store; data is not persisted")
		return docstore.NewMemoryStore(), nil
	}

	if err := migrations.Apply(cfg.Docstore.DSN); err != nil {
		return nil, err
	}
	pool, err := postgresql.Connect(ctx, cfg.Docstore.DSN)
	if err != nil {
		return nil, err
	}
	return docstore.NewPostgresStore(pool, logger), nil
}
