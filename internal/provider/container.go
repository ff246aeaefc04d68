package provider

import (
	"context"
	"time"

	"github.com/boxorder-next/internal/authz"
	"github.com/boxorder-next/internal/boxorder"
	"github.com/boxorder-next/internal/cache"
	"github.com/boxorder-next/internal/config"
	"github.com/boxorder-next/internal/logger"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/queue"
	"github.com/boxorder-next/internal/repository"
	"github.com/boxorder-next/internal/service"
)

const defaultCatalogTTL = 5 * time.Minute

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo         repository.AdminRepository
	CustomerRepo      repository.CustomerRepository
	OrderRepo         repository.OrderRepository
	ProductRepo       repository.ProductRepository
	CartRepo          repository.CartRepository
	SettingRepo       repository.SettingRepository
	PendingBoxSetRepo repository.PendingBoxSetRepository

	// Holding 结账前暂存的分箱；DBHolding 仅在 Redis 未启用时非空
	Holding   boxorder.HoldingStore
	DBHolding *service.DBHoldingStore

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	EmailService    *service.EmailService
	CaptchaService  *service.CaptchaService
	SettingService  *service.SettingService
	CatalogService  *service.CatalogService
	CartService     *service.CartService
	CustomerService *service.CustomerService
	BoxOrderService *service.BoxOrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if cache.InitRedis(&cfg.Redis) != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cache.Ping(ctx); err != nil {
			logger.Warnw("provider_init_redis_failed", "error", err)
		}
		cancel()
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initHolding()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.PendingBoxSetRepo = repository.NewPendingBoxSetRepository(db)
}

func (c *Container) initHolding() {
	ttl := time.Duration(c.Config.Box.HoldingTTLMinutes) * time.Minute
	if cache.Enabled() {
		c.Holding = cache.NewRedisHoldingStore(cache.Client(), cache.Prefix(), ttl)
		logger.Infow("provider_holding_store_selected", "store", "redis", "ttl", ttl.String())
		return
	}
	c.DBHolding = service.NewDBHoldingStore(c.PendingBoxSetRepo, ttl)
	c.Holding = c.DBHolding
	logger.Infow("provider_holding_store_selected", "store", "database", "ttl", ttl.String())
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	currency := c.Config.App.Currency
	c.SettingService = service.NewSettingService(c.SettingRepo, c.Config.Box)
	c.EmailService = service.NewEmailService(&c.Config.Email, c.Config.App.Name)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.CatalogService = service.NewCatalogService(c.ProductRepo, c.catalogTTL())
	c.CartService = service.NewCartService(c.CartRepo, currency)
	c.CustomerService = service.NewCustomerService(c.CustomerRepo)
	c.BoxOrderService = service.NewBoxOrderService(
		c.OrderRepo,
		c.CartRepo,
		c.CustomerRepo,
		c.CatalogService,
		c.SettingService,
		c.Holding,
		c.QueueClient,
		currency,
	)
}

func (c *Container) catalogTTL() time.Duration {
	if c.Config.Redis.CatalogTTLSeconds > 0 {
		return time.Duration(c.Config.Redis.CatalogTTLSeconds) * time.Second
	}
	return defaultCatalogTTL
}
