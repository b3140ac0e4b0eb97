package bootstrap

import (
	"context"
	"time"

	"campus-finance-be/internal/config"
	"campus-finance-be/internal/controller"
	"campus-finance-be/internal/pkg/logger"
	"campus-finance-be/internal/pkg/serverutils"
	"campus-finance-be/internal/policy"
	"campus-finance-be/internal/repository/cache"
	"campus-finance-be/internal/repository/memory"
	"campus-finance-be/internal/repository/unitofwork"
	"campus-finance-be/internal/service"
	"campus-finance-be/pkg/admin/dashboard"
	adminEvents "campus-finance-be/pkg/admin/events"
	"campus-finance-be/pkg/admin/user"
	pktNats "campus-finance-be/pkg/nats"
	"campus-finance-be/pkg/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	AuthController     controller.IAuthController
	AdminController    controller.IAdminController
	OperatorController controller.IOperatorController
	UserController     controller.IUserController

	// HTTP plumbing
	Metrics  *serverutils.HTTPMetrics
	Registry *prometheus.Registry

	natsPub *pktNats.Publisher
	rdb     *redis.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	loc := cfg.App.Location()
	accessPolicy := policy.NewAccessPolicy()

	c := &Container{Logger: sysLogger}

	// 2. Infrastructure
	var revocations store.RevocationStore
	if cfg.Auth.SessionStore == store.SessionStoreRedis {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := cache.NewRedisClient(ctx, cfg.Infra.RedisURL)
		cancel()
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Redis unavailable, falling back to in-memory revocation store", map[string]interface{}{
				"error": err.Error(),
			})
			revocations = memory.NewSessionRepository()
		} else {
			c.rdb = rdb
			revocations = cache.NewSessionRepository(rdb)
		}
	} else {
		revocations = memory.NewSessionRepository()
	}

	if cfg.Infra.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Infra.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS publisher", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			c.natsPub = natsPub
		}
	}
	auditPublisher := adminEvents.NewNatsPublisher(c.natsPub, sysLogger)

	// 3. Domain managers
	userManager := user.NewManager(sysLogger, auditPublisher, cfg.Auth.BcryptCost)
	dashboardAggregator := dashboard.NewAggregator(sysLogger, loc)

	// 4. Services
	authService := service.NewAuthService(uowFactory, revocations, auditPublisher, sysLogger, cfg.Auth)
	adminService := service.NewAdminService(uowFactory, sysLogger, userManager)
	tagihanService := service.NewTagihanService(uowFactory, accessPolicy, auditPublisher, sysLogger, loc)
	mahasiswaService := service.NewMahasiswaService(uowFactory, accessPolicy, loc)
	userService := service.NewUserService(uowFactory, dashboardAggregator)

	// 5. Controllers
	gate := serverutils.NewAuthGate(authService, sysLogger)

	c.AuthController = controller.NewAuthController(authService, gate, sysLogger)
	c.AdminController = controller.NewAdminController(adminService, gate, sysLogger)
	c.OperatorController = controller.NewOperatorController(mahasiswaService, tagihanService, gate, sysLogger)
	c.UserController = controller.NewUserController(userService, gate, sysLogger)

	// 6. Metrics
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = serverutils.NewHTTPMetrics(c.Registry)

	return c
}

// Close releases broker and cache connections.
func (c *Container) Close() {
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
}
