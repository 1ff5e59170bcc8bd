package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/ciftlik/internal/auth"
	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/middleware"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/services"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth       auth.Service
	Accounts   services.AccountService
	Resources  *services.Resources
	Analysis   services.AnalysisService
	Payments   services.PaymentService
	Debts      services.DebtService
	Categories services.CategoryService
	Ownerships services.OwnershipService
	Irrigation services.IrrigationService
}

// RouterOptions holds the HTTP settings taken from configuration.
type RouterOptions struct {
	Env          string
	Driver       string
	CORSOrigins  []string
	CookieSecure bool
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(opts RouterOptions, db Pinger, svc Services, log *logger.Logger) *gin.Engine {
	router := gin.New()

	// Order matters: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(opts.CORSOrigins))

	health := NewHealthHandler(db, opts.Driver, opts.Env)
	router.GET("/health", health.Health)
	router.GET("/health/ready", health.Ready)

	authHandler := NewAuthHandler(svc.Auth, svc.Accounts, opts.CookieSecure)

	v1 := router.Group("/api/v1")
	v1.GET("/info", health.Info)
	v1.POST("/auth/giris", authHandler.Login)

	api := v1.Group("", middleware.RequireAuth(svc.Auth))
	{
		api.POST("/auth/cikis", authHandler.Logout)
		api.GET("/auth/ben", authHandler.Me)
		api.GET("/bildirimler", authHandler.Notifications)
		api.PUT("/bildirimler/:id/okundu", authHandler.MarkRead)

		res := svc.Resources
		NewResourceHandler[models.Owner](res.Owners,
			QueryFilter{Param: "kullanici_id", Column: "user_id"},
			QueryFilter{Param: "tur", Column: "type"},
		).Register(api.Group("/sahipler"))
		NewResourceHandler[models.Season](res.Seasons,
			QueryFilter{Param: "aktif", Column: "active", Bool: true},
		).Register(api.Group("/sezonlar"))
		NewResourceHandler[models.Well](res.Wells,
			QueryFilter{Param: "sezon_id", Column: "season_id"},
		).Register(api.Group("/kuyular"))
		NewResourceHandler[models.Field](res.Fields,
			QueryFilter{Param: "kuyu_id", Column: "well_id"},
			QueryFilter{Param: "sezon_id", Column: "season_id"},
			QueryFilter{Param: "durum", Column: "status"},
		).Register(api.Group("/tarlalar"))
		NewResourceHandler[models.Fertilizer](res.Fertilizers,
			QueryFilter{Param: "sezon_id", Column: "season_id"},
		).Register(api.Group("/gubreler"))
		NewResourceHandler[models.InventoryItem](res.Inventory,
			QueryFilter{Param: "kategori_id", Column: "category_id"},
		).Register(api.Group("/envanter"))
		NewResourceHandler[models.WellInvoice](res.Invoices,
			QueryFilter{Param: "kuyu_id", Column: "well_id"},
			QueryFilter{Param: "odendi", Column: "paid", Bool: true},
		).Register(api.Group("/kuyu-faturalari"))

		NewCategoryHandler(svc.Categories).Register(api.Group("/kategoriler"))
		NewOwnershipHandler(svc.Ownerships).Register(api.Group("/tarla-sahiplikleri"))
		NewIrrigationHandler(svc.Irrigation).Register(api.Group("/sulama-kayitlari"))
		NewPaymentHandler(svc.Payments).Register(api.Group("/odeme-kayitlari"))
		NewDebtHandler(svc.Debts).Register(api.Group("/ortak-borclar"))

		analysis := NewAnalysisHandler(svc.Analysis)
		api.GET("/sulama-analizi", analysis.Analyze)
		api.GET("/sulama-analizi/export", analysis.Export)
	}

	return router
}
