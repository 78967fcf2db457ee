package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"shootdispatch/clients/backend"
	"shootdispatch/config"
	"shootdispatch/cron"
	"shootdispatch/database"
	availabilityRepo "shootdispatch/database/repository/availability"
	photographerRepo "shootdispatch/database/repository/photographer"
	shootRepo "shootdispatch/database/repository/shoot"
	"shootdispatch/handlers"
	"shootdispatch/middleware"
	"shootdispatch/routes"
	"shootdispatch/services/assignment"
	"shootdispatch/services/availability"
	"shootdispatch/services/dispatch"
	"shootdispatch/services/geo"
	"shootdispatch/services/matching"
	"shootdispatch/utils"
)

// collaborators are the persistence ports the dispatch core reads and writes.
type collaborators struct {
	slots         availability.SlotSource
	shoots        availability.ShootSource
	writer        assignment.ShootWriter
	photographers assignment.PhotographerLookup
	roster        dispatch.RosterSource
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := asynq.NewClient(cron.RedisOpt())
	defer queue.Close()

	hb := &handlers.HandlerBundle{}
	var ports collaborators
	var mongoClient *mongo.Client
	var shootStore shootRepo.ShootRepository

	switch config.AppConfig.BackendMode {
	case "remote":
		client := backend.NewClient(config.AppConfig.BackendBaseURL, config.AppConfig.BackendToken,
			config.AppConfig.BackendTimeout, logger)
		client.Location = config.Location()
		ports = collaborators{slots: client, shoots: client, writer: client, photographers: client, roster: client}
		logger.Info("Using remote backend", zap.String("baseURL", config.AppConfig.BackendBaseURL))
	default:
		if err := database.InitDB(logger); err != nil {
			logger.Fatal("main: failed to initialize database", zap.Error(err))
		}
		mongoClient = database.MongoClient
		db := database.DB()
		slotRepo := availabilityRepo.NewMongoAvailabilityRepo(db)
		shootStore = shootRepo.NewMongoShootRepo(db)
		rosterRepo := photographerRepo.NewMongoPhotographerRepo(db)

		indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		for name, ensure := range map[string]func(context.Context) error{
			"availability":  slotRepo.EnsureIndexes,
			"shoots":        shootStore.EnsureIndexes,
			"photographers": rosterRepo.EnsureIndexes,
		} {
			if err := ensure(indexCtx); err != nil {
				logger.Warn("main: failed to ensure indexes", zap.String("collection", name), zap.Error(err))
			}
		}
		cancel()

		ports = collaborators{slots: slotRepo, shoots: shootStore, writer: shootStore, photographers: rosterRepo, roster: rosterRepo}
		hb.Availability = handlers.NewAvailabilityHandler(slotRepo)
		hb.Photographers = handlers.NewPhotographerHandler(rosterRepo, queue)
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := database.Close(closeCtx); err != nil {
				logger.Warn("main: failed to close database", zap.Error(err))
			}
		}()
	}

	// Geocoding: in-process LRU in front of the shared Redis cache.
	geoCache := &geo.TieredCache{
		First:  geo.NewMemoryCache(config.AppConfig.GeoCacheSize, config.AppConfig.GeoCacheTTL),
		Second: geo.NewRedisCache(utils.GetCacheClient(), config.AppConfig.GeoCacheTTL),
	}
	resolver := geo.NewCachedResolver(geo.NewGoogleGeocoder(config.AppConfig.GoogleAPIKey, logger), geoCache, logger)
	batch := geo.BatchOptions{Size: config.AppConfig.GeoBatchSize, Delay: config.AppConfig.GeoBatchDelay}

	store := availability.NewStore(ports.slots, ports.shoots, logger)
	matcher := matching.NewService(resolver, batch, logger)
	coordinator := assignment.NewCoordinator(ports.writer, ports.photographers, logger)
	sessions := dispatch.NewRedisSessionStore(utils.GetSessionClient(), config.AppConfig.SessionTTL)
	dispatchService := dispatch.NewDispatchService(sessions, ports.roster, store, matcher, coordinator, config.Location(), logger)

	hb.Dispatch = handlers.NewDispatchHandler(dispatchService)
	if shootStore != nil {
		hb.Shoots = handlers.NewShootHandler(shootStore, coordinator)
	}

	stopWorker, err := cron.StartGeocodeWorker(&cron.GeocodeWorker{
		Resolver: resolver,
		Roster:   ports.roster,
		Batch:    batch,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("main: geocode worker disabled", zap.Error(err))
	} else {
		defer stopWorker()
	}

	utils.StartHealthMonitor(ctx, []*redis.Client{utils.GetCacheClient(), utils.GetSessionClient()}, mongoClient)

	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	routes.RegisterRoutes(router, hb)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + config.AppConfig.AppPort,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("backend", config.AppConfig.BackendMode))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	logger.Info("main: server stopped gracefully")
}
