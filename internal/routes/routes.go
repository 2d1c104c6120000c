package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/esteticafabiane/clinic-api/internal/audit"
	"github.com/esteticafabiane/clinic-api/internal/cache"
	"github.com/esteticafabiane/clinic-api/internal/config"
	"github.com/esteticafabiane/clinic-api/internal/handlers"
	"github.com/esteticafabiane/clinic-api/internal/infra/repository"
	"github.com/esteticafabiane/clinic-api/internal/middleware"
	usecase "github.com/esteticafabiane/clinic-api/internal/usecase/appointment"
)

// SetupRoutes monta toda a árvore de rotas da API. Apenas /health e
// /api/auth ficam fora da autenticação.
func SetupRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	reportCache *cache.Cache,
) {
	auditDispatcher := audit.NewDispatcher(audit.New(db))

	apRepo := repository.NewAppointmentGormRepository(db)

	authHandler := handlers.NewAuthHandler(db, cfg)
	clientHandler := handlers.NewClientHandler(db, auditDispatcher)
	serviceHandler := handlers.NewServiceHandler(db, auditDispatcher)
	productHandler := handlers.NewProductHandler(db, auditDispatcher)
	reportHandler := handlers.NewReportHandler(db, reportCache)
	auditHandler := handlers.NewAuditLogsHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		usecase.NewCreateAppointment(apRepo, auditDispatcher),
		usecase.NewUpdateAppointment(apRepo, auditDispatcher),
		usecase.NewCancelAppointment(apRepo, auditDispatcher),
		usecase.NewListAppointments(apRepo),
		usecase.NewGetAppointment(apRepo),
		usecase.NewAgenda(apRepo),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg))

	clients := protected.Group("/clients")
	{
		clients.GET("", clientHandler.List)
		clients.POST("", clientHandler.Create)
		clients.GET("/:id", clientHandler.Get)
		clients.PUT("/:id", clientHandler.Update)
		clients.DELETE("/:id", clientHandler.Delete)
		clients.GET("/:id/appointments", clientHandler.History)
	}

	services := protected.Group("/services")
	{
		services.GET("", serviceHandler.List)
		services.POST("", serviceHandler.Create)
		services.GET("/:id", serviceHandler.Get)
		services.PUT("/:id", serviceHandler.Update)
		services.DELETE("/:id", serviceHandler.Delete)
		services.GET("/:id/stats", serviceHandler.Stats)
	}

	products := protected.Group("/products")
	{
		products.GET("", productHandler.List)
		products.POST("", productHandler.Create)
		products.GET("/alerts/low-stock", productHandler.LowStockAlerts)
		products.GET("/:id", productHandler.Get)
		products.PUT("/:id", productHandler.Update)
		products.PUT("/:id/stock", productHandler.UpdateStock)
		products.DELETE("/:id", productHandler.Delete)
	}

	appointments := protected.Group("/appointments")
	{
		appointments.GET("", appointmentHandler.List)
		appointments.POST("", appointmentHandler.Create)
		appointments.GET("/upcoming", appointmentHandler.Upcoming)
		appointments.GET("/agenda/:date", appointmentHandler.AgendaForDay)
		appointments.GET("/month/:year/:month", appointmentHandler.AgendaForMonth)
		appointments.GET("/:id", appointmentHandler.Get)
		appointments.PUT("/:id", appointmentHandler.Update)
		appointments.PUT("/:id/cancel", appointmentHandler.Cancel)
		appointments.DELETE("/:id", appointmentHandler.Cancel)
	}

	reports := protected.Group("/reports")
	{
		reports.GET("/stats", reportHandler.Stats)
		reports.GET("/dashboard", reportHandler.Dashboard)
		reports.GET("/revenue", reportHandler.Revenue)
		reports.GET("/popular-services", reportHandler.PopularServices)
		reports.GET("/clients", reportHandler.Clients)
		reports.GET("/cancellations", reportHandler.Cancellations)
		reports.GET("/inventory", reportHandler.Inventory)
	}

	protected.GET("/audit-logs", auditHandler.List)
}
