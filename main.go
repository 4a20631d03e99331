package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"storefront-service/internal/cache"
	"storefront-service/internal/config"
	"storefront-service/internal/database"
	grpcServer "storefront-service/internal/grpc"
	"storefront-service/internal/handlers"
	"storefront-service/internal/services"
	"storefront-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Database
	database.Connect(cfg.DB)
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	db := database.DB

	// Link cache is optional; tracking falls back to the database without it
	var linkCache services.LinkCache
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("Redis unavailable, link cache disabled: %v", err)
		} else {
			defer client.Close()
			linkCache = cache.NewRedisLinkCache(client, cache.DefaultLinkTTL)
		}
	}

	// Redis/Asynq Client
	redisOpt, err := worker.RedisOpt(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	enqueuer := worker.NewEnqueuer(redisOpt)
	defer enqueuer.Close()

	// Init Services
	linkService := services.NewLinkService(db, linkCache)
	trackingService := services.NewTrackingService(db, linkService, cfg.Affiliate)
	commissionService := services.NewCommissionService(db, cfg.Affiliate)
	withdrawalService := services.NewWithdrawalService(db, cfg.Affiliate)
	orderService := services.NewOrderService(db, commissionService, enqueuer)
	affiliateService := services.NewAffiliateService(db)
	dashboardService := services.NewDashboardService(db)
	identityService := services.NewIdentityService(db, cfg.JWTSecret)

	h := &handlers.Handler{
		Cfg:         cfg,
		Links:       linkService,
		Tracking:    trackingService,
		Commission:  commissionService,
		Withdrawals: withdrawalService,
		Orders:      orderService,
		Affiliates:  affiliateService,
		Dashboard:   dashboardService,
	}
	r := handlers.NewRouter(h, handlers.NewMiddleware(identityService))

	// Start gRPC health server
	grpcSrv := grpcServer.StartGRPCServer(ctx, cfg.GRPCPort, db)
	defer grpcSrv.Stop()

	// Start Cron Schedulers
	reconcileService := services.NewReconcileService(db, enqueuer, commissionService)
	scheduler, err := reconcileService.StartScheduler(cfg.ReconcileSchedule)
	if err != nil {
		log.Fatalf("Invalid COMMISSION_RECONCILE_CRON %q: %v", cfg.ReconcileSchedule, err)
	}
	defer scheduler.Stop()

	log.Printf("HTTP Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
